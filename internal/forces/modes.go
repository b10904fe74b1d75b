package forces

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/stockgraph/core/internal/config"
	"github.com/stockgraph/core/internal/layout"
)

// Mode selects one of the solver setups the graph controls switch between.
type Mode string

const (
	ModeDefault  Mode = "default"
	ModeUntangle Mode = "untangle"
	ModeSector   Mode = "sector"
)

var ErrUnknownMode = errors.New("unknown force mode")

func Modes() []Mode {
	return []Mode{ModeDefault, ModeUntangle, ModeSector}
}

// ParseMode maps a mode name to a Mode. The empty name is the default mode.
func ParseMode(name string) (Mode, error) {
	switch mode := Mode(name); mode {
	case "":
		return ModeDefault, nil
	case ModeDefault, ModeUntangle, ModeSector:
		return mode, nil
	}
	return "", fmt.Errorf("%w: %q (want default, untangle or sector)", ErrUnknownMode, name)
}

const (
	untangleCharge = -100.0

	gridColumns = 4
	gridRows    = 3
	// cellFill is the share of a grid cell covered by its sector background.
	cellFill = 0.8
)

// Arrangement is the canvas a mode places sector anchors in. Seed fixes the
// order in which grid cells are dealt out.
type Arrangement struct {
	Mode   Mode
	Width  float64
	Height float64
	Seed   uint64
}

// DefaultArrangement uses the snapshot canvas and seed.
func DefaultArrangement(mode Mode) Arrangement {
	cfg := layout.DefaultConfig()
	return Arrangement{Mode: mode, Width: cfg.Width, Height: cfg.Height, Seed: cfg.Seed}
}

// SectorAnchor is the point a sector's nodes are pulled toward. Grid anchors
// also carry the size of the background cell drawn behind the sector.
type SectorAnchor struct {
	Sector string  `json:"sector"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// SectorAnchors places every sector of the graph, in first-seen order. The
// assignment depends only on the full graph and the arrangement, so a sector
// keeps its anchor when the view narrows.
func (m *Model) SectorAnchors(a Arrangement) []SectorAnchor {
	sectors := make([]string, len(m.colors))
	for i, c := range m.colors {
		sectors[i] = c.Sector
	}
	if m.preset.SectorLayout == config.SectorGrid {
		return gridAnchors(sectors, a)
	}
	return columnAnchors(sectors, a)
}

var columnShares = map[string]float64{
	"Technology": 0.25,
	"Finance":    0.5,
	"Healthcare": 0.75,
}

// columnAnchors spreads three named sectors across the canvas and pulls every
// other sector to the middle.
func columnAnchors(sectors []string, a Arrangement) []SectorAnchor {
	anchors := make([]SectorAnchor, 0, len(sectors))
	for _, s := range sectors {
		share, ok := columnShares[s]
		if !ok {
			share = 0.5
		}
		anchors = append(anchors, SectorAnchor{Sector: s, X: a.Width * share, Y: a.Height / 2})
	}
	return anchors
}

// gridAnchors pins Finance and Technology side by side in the middle row of a
// 4x3 grid and deals the remaining cells to the other sectors in shuffled order.
// Sectors beyond the grid land on a seeded random point of the canvas.
func gridAnchors(sectors []string, a Arrangement) []SectorAnchor {
	cellW := a.Width / (gridColumns + 1)
	cellH := a.Height / (gridRows + 1)

	fixed := map[string]layout.Position{
		"Finance":    {X: 2 * cellW, Y: 2 * cellH},
		"Technology": {X: 3 * cellW, Y: 2 * cellH},
	}

	free := make([]layout.Position, 0, gridColumns*gridRows-len(fixed))
	for y := range gridRows {
		for x := range gridColumns {
			if y == 1 && (x == 1 || x == 2) {
				continue
			}
			free = append(free, layout.Position{X: float64(x+1) * cellW, Y: float64(y+1) * cellH})
		}
	}

	rng := rand.New(rand.NewPCG(a.Seed, a.Seed))
	rng.Shuffle(len(free), func(i, j int) {
		free[i], free[j] = free[j], free[i]
	})

	anchors := make([]SectorAnchor, 0, len(sectors))
	next := 0
	for _, s := range sectors {
		p, ok := fixed[s]
		switch {
		case ok:
		case next < len(free):
			p = free[next]
			next++
		default:
			p = layout.Position{X: rng.Float64() * a.Width, Y: rng.Float64() * a.Height}
		}
		anchors = append(anchors, SectorAnchor{
			Sector: s,
			X:      p.X,
			Y:      p.Y,
			Width:  cellW * cellFill,
			Height: cellH * cellFill,
		})
	}
	return anchors
}
