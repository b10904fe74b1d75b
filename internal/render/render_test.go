package render

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockgraph/core/internal/config"
	"github.com/stockgraph/core/internal/filter"
	"github.com/stockgraph/core/internal/forces"
	"github.com/stockgraph/core/internal/models"
)

func testGraph() *models.Graph {
	return &models.Graph{
		Nodes: []models.Node{
			{ID: "AAPL", Sector: "Tech", MarketCap: 2500},
			{ID: "JPM", Sector: "Finance", MarketCap: 500},
			{ID: "XOM", Sector: "Energy", MarketCap: 400},
		},
		Links: []models.Link{
			{Source: "AAPL", Target: "JPM", Value: 0.5},
			{Source: "JPM", Target: "XOM", Value: 0.8},
		},
	}
}

func TestSVG(t *testing.T) {
	g := testGraph()
	model := forces.New(g, config.Correlation())

	t.Run("draws every node and link", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, SVG(&buf, g.View(), model, DefaultOptions()))

		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "<?xml"))
		assert.Equal(t, 3+len(g.Sectors()), strings.Count(out, "<circle"))
		assert.Equal(t, 2, strings.Count(out, "<line"))
		assert.Contains(t, out, "#4e79a7")
		assert.Contains(t, out, "Sectors")
	})

	t.Run("unfocused views have no labels", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, SVG(&buf, g.View(), model, DefaultOptions()))

		assert.NotContains(t, buf.String(), `id="labels"`)
	})

	t.Run("focused views are labeled", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, SVG(&buf, filter.ByNode(g, "AAPL"), model, DefaultOptions()))

		out := buf.String()
		assert.Contains(t, out, `id="labels"`)
		assert.Contains(t, out, ">0.50</text>")
		assert.Contains(t, out, ">AAPL</text>")
		assert.Contains(t, out, "stockgraph: node:AAPL")
	})

	t.Run("highlight overrides opacities", func(t *testing.T) {
		h := filter.HighlightSector(g, "Energy", model.HighlightOpacity)
		opts := DefaultOptions()
		opts.Highlight = &h
		var buf bytes.Buffer

		require.NoError(t, SVG(&buf, g.View(), model, opts))

		assert.Contains(t, buf.String(), "fill-opacity:0.20")
		assert.Contains(t, buf.String(), "stroke-opacity:0.10")
	})

	t.Run("empty view still renders the frame", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, SVG(&buf, filter.ByNode(g, "Z"), model, DefaultOptions()))

		assert.Contains(t, buf.String(), "</svg>")
		assert.Zero(t, strings.Count(buf.String(), "<line"))
	})
}

func TestPNG(t *testing.T) {
	g := testGraph()
	model := forces.New(g, config.Beta())
	var buf bytes.Buffer

	require.NoError(t, PNG(&buf, g.View(), model, DefaultOptions()))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 960, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
}

func TestCanvasSize(t *testing.T) {
	g := testGraph()
	model := forces.New(g, config.Correlation())

	t.Run("oversized canvas is rejected before allocation", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Layout.Width, opts.Layout.Height = 60000, 60000

		var buf bytes.Buffer
		assert.ErrorIs(t, PNG(&buf, g.View(), model, opts), ErrCanvasSize)
		assert.ErrorIs(t, SVG(&buf, g.View(), model, opts), ErrCanvasSize)
		assert.Zero(t, buf.Len())
	})

	t.Run("negative side is rejected", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Layout.Height = -1
		assert.ErrorIs(t, opts.Validate(), ErrCanvasSize)
	})

	t.Run("max side is accepted", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Layout.Width = MaxSide
		assert.NoError(t, opts.Validate())
	})

	t.Run("zero size falls back to the default canvas", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Layout.Width, opts.Layout.Height = 0, 0
		assert.NoError(t, opts.Validate())
	})
}

func TestSave(t *testing.T) {
	g := testGraph()
	model := forces.New(g, config.Correlation())
	tmp := t.TempDir()

	for _, name := range []string{"graph.svg", "graph.png", "nested/dir/graph.svg"} {
		t.Run(name, func(t *testing.T) {
			out := filepath.Join(tmp, name)

			require.NoError(t, Save(out, g.View(), model, DefaultOptions()))

			info, err := os.Stat(out)
			require.NoError(t, err)
			assert.NotZero(t, info.Size())
		})
	}

	t.Run("missing extension defaults to svg", func(t *testing.T) {
		out := filepath.Join(tmp, "plain")

		require.NoError(t, Save(out, g.View(), model, DefaultOptions()))

		_, err := os.Stat(out + ".svg")
		assert.NoError(t, err)
	})

	t.Run("unknown extension is rejected", func(t *testing.T) {
		err := Save(filepath.Join(tmp, "graph.txt"), g.View(), model, DefaultOptions())

		assert.ErrorContains(t, err, "unsupported format")
	})

	t.Run("empty path is rejected", func(t *testing.T) {
		assert.Error(t, Save("", g.View(), model, DefaultOptions()))
	})
}

func TestParseHex(t *testing.T) {
	assert.Equal(t, uint8(0x4e), parseHex("#4e79a7").R)
	assert.Equal(t, colorEdge, parseHex("steelblue"))
}
