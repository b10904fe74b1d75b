package forces

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockgraph/core/internal/config"
	"github.com/stockgraph/core/internal/layout"
	"github.com/stockgraph/core/internal/models"
)

// sectorGraph has one node per sector, named after the sector.
func sectorGraph(sectors ...string) *models.Graph {
	g := &models.Graph{}
	for i, s := range sectors {
		g.Nodes = append(g.Nodes, models.Node{ID: s, Sector: s, MarketCap: float64(10 * (i + 1))})
	}
	return g
}

func anchorsBySector(anchors []SectorAnchor) map[string]SectorAnchor {
	out := make(map[string]SectorAnchor, len(anchors))
	for _, a := range anchors {
		out[a.Sector] = a
	}
	return out
}

func TestParseMode(t *testing.T) {
	t.Run("empty name is the default mode", func(t *testing.T) {
		mode, err := ParseMode("")
		require.NoError(t, err)
		assert.Equal(t, ModeDefault, mode)
	})

	t.Run("accepts every listed mode", func(t *testing.T) {
		for _, want := range Modes() {
			mode, err := ParseMode(string(want))
			require.NoError(t, err)
			assert.Equal(t, want, mode)
		}
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		_, err := ParseMode("spiral")
		assert.ErrorIs(t, err, ErrUnknownMode)
	})
}

func TestUntangle(t *testing.T) {
	g := testGraph()

	t.Run("flat charge and doubled collision radius", func(t *testing.T) {
		m := New(g, config.Correlation())

		f := m.Arrange(g.View(), DefaultArrangement(ModeUntangle))

		assert.Equal(t, ModeUntangle, f.Mode)
		assert.Equal(t, 200.0, f.ChargeDistanceMax)
		require.Len(t, f.Nodes, 3)
		for i, n := range f.Nodes {
			assert.Equal(t, -100.0, n.Charge, n.ID)
			assert.InDelta(t, m.Scale(g.Nodes[i])*2, n.Collision, 1e-9, n.ID)
			assert.Nil(t, n.Anchor, n.ID)
		}
		assert.InDelta(t, 30.0, f.Nodes[0].Collision, 1e-9)
		assert.Empty(t, f.Anchors)
	})

	t.Run("beta keeps its wider charge range", func(t *testing.T) {
		f := New(g, config.Beta()).Arrange(g.View(), DefaultArrangement(ModeUntangle))

		assert.Equal(t, 300.0, f.ChargeDistanceMax)
	})

	t.Run("links and radii are untouched", func(t *testing.T) {
		m := New(g, config.Correlation())

		def := m.Forces(g.View())
		untangled := m.Arrange(g.View(), DefaultArrangement(ModeUntangle))

		assert.Equal(t, def.Links, untangled.Links)
		assert.Equal(t, def.Nodes[0].Radius, untangled.Nodes[0].Radius)
	})
}

func TestDefaultMode(t *testing.T) {
	g := testGraph()
	f := New(g, config.Correlation()).Forces(g.View())

	assert.Equal(t, ModeDefault, f.Mode)
	assert.Zero(t, f.AnchorStrength)
	assert.Empty(t, f.Anchors)
	for _, n := range f.Nodes {
		assert.Nil(t, n.Anchor)
	}
}

func TestSectorColumns(t *testing.T) {
	g := sectorGraph("Technology", "Finance", "Healthcare", "Energy")
	m := New(g, config.Correlation())

	f := m.Arrange(g.View(), DefaultArrangement(ModeSector))

	assert.Equal(t, ModeSector, f.Mode)
	assert.Equal(t, 0.5, f.AnchorStrength)
	anchors := anchorsBySector(f.Anchors)
	assert.Equal(t, 240.0, anchors["Technology"].X)
	assert.Equal(t, 480.0, anchors["Finance"].X)
	assert.Equal(t, 720.0, anchors["Healthcare"].X)
	assert.Equal(t, 480.0, anchors["Energy"].X)
	for _, a := range f.Anchors {
		assert.Equal(t, 300.0, a.Y, a.Sector)
		assert.Zero(t, a.Width, a.Sector)
	}

	require.Len(t, f.Nodes, 4)
	assert.Equal(t, &layout.Position{X: 240, Y: 300}, f.Nodes[0].Anchor)
	assert.Equal(t, &layout.Position{X: 720, Y: 300}, f.Nodes[2].Anchor)
}

func TestSectorGrid(t *testing.T) {
	arrangement := DefaultArrangement(ModeSector) // 960x600: cells of 192x150

	t.Run("pins finance and technology in the middle row", func(t *testing.T) {
		g := sectorGraph("Energy", "Technology", "Utilities", "Finance")
		f := New(g, config.Beta()).Arrange(g.View(), arrangement)

		assert.Equal(t, 1.5, f.AnchorStrength)
		anchors := anchorsBySector(f.Anchors)
		assert.Equal(t, 384.0, anchors["Finance"].X)
		assert.Equal(t, 300.0, anchors["Finance"].Y)
		assert.Equal(t, 576.0, anchors["Technology"].X)
		assert.Equal(t, 300.0, anchors["Technology"].Y)
		for _, a := range f.Anchors {
			assert.InDelta(t, 153.6, a.Width, 1e-9, a.Sector)
			assert.InDelta(t, 120.0, a.Height, 1e-9, a.Sector)
		}
	})

	t.Run("other sectors take distinct free cells", func(t *testing.T) {
		sectors := []string{"Finance", "Technology"}
		for i := range 10 {
			sectors = append(sectors, fmt.Sprintf("S%d", i))
		}
		g := sectorGraph(sectors...)
		f := New(g, config.Beta()).Arrange(g.View(), arrangement)

		require.Len(t, f.Anchors, 12)
		seen := map[layout.Position]string{}
		for _, a := range f.Anchors {
			p := layout.Position{X: a.X, Y: a.Y}
			assert.Empty(t, seen[p], "cell shared by %s and %s", seen[p], a.Sector)
			seen[p] = a.Sector

			col, row := a.X/192, a.Y/150
			assert.InDelta(t, col, float64(int(col+0.5)), 1e-9, a.Sector)
			assert.InDelta(t, row, float64(int(row+0.5)), 1e-9, a.Sector)
			assert.GreaterOrEqual(t, col, 0.999)
			assert.LessOrEqual(t, col, 4.001)
			assert.GreaterOrEqual(t, row, 0.999)
			assert.LessOrEqual(t, row, 3.001)
		}
	})

	t.Run("overflow sectors stay on the canvas", func(t *testing.T) {
		sectors := []string{"Finance", "Technology"}
		for i := range 14 {
			sectors = append(sectors, fmt.Sprintf("S%d", i))
		}
		g := sectorGraph(sectors...)
		f := New(g, config.Beta()).Arrange(g.View(), arrangement)

		require.Len(t, f.Anchors, 16)
		for _, a := range f.Anchors[12:] {
			assert.GreaterOrEqual(t, a.X, 0.0)
			assert.Less(t, a.X, 960.0)
			assert.GreaterOrEqual(t, a.Y, 0.0)
			assert.Less(t, a.Y, 600.0)
		}
	})

	t.Run("same seed gives the same cells", func(t *testing.T) {
		g := sectorGraph("Finance", "Technology", "Energy", "Utilities", "Materials")
		m := New(g, config.Beta())

		assert.Equal(t, m.SectorAnchors(arrangement), m.SectorAnchors(arrangement))
	})

	t.Run("narrow views keep their anchors and list only their sectors", func(t *testing.T) {
		g := sectorGraph("Finance", "Technology", "Energy", "Utilities")
		m := New(g, config.Beta())
		full := anchorsBySector(m.SectorAnchors(arrangement))

		view := models.View{Nodes: []models.Node{g.Nodes[2]}, Links: []models.Link{}}
		f := m.Arrange(view, arrangement)

		require.Len(t, f.Anchors, 1)
		assert.Equal(t, full["Energy"], f.Anchors[0])
		require.Len(t, f.Nodes, 1)
		assert.Equal(t, &layout.Position{X: full["Energy"].X, Y: full["Energy"].Y}, f.Nodes[0].Anchor)
	})
}
