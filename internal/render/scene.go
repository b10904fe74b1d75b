// Package render draws a view of the graph as a static SVG or PNG image: links
// as lines, nodes as sector-colored circles, a title block and a sector legend.
// Focused views also get node and link labels.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/stockgraph/core/internal/forces"
	"github.com/stockgraph/core/internal/layout"
	"github.com/stockgraph/core/internal/models"
	"github.com/stockgraph/core/internal/tooltip"
)

var (
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorLegendBG = color.RGBA{0xee, 0xee, 0xee, 0xff}
	colorEdge     = color.RGBA{0x99, 0x99, 0x99, 0xff}
	colorStroke   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
)

// MaxSide bounds each canvas dimension; a PNG is allocated as one RGBA buffer.
const MaxSide = 4096

// ErrCanvasSize is returned for a canvas dimension outside (0, MaxSide].
var ErrCanvasSize = errors.New("canvas size out of range")

const (
	headerHeight = 64.0
	legendWidth  = 170.0
	legendRow    = 18.0
)

// Options controls a rendered snapshot.
type Options struct {
	Layout layout.Config
	Title  string
	// Labels forces node and link labels on; focused views always get them.
	Labels bool
	// Highlight, when set, overrides node and link opacities with a legend
	// hover state.
	Highlight *models.Highlight
}

func DefaultOptions() Options {
	return Options{Layout: layout.DefaultConfig()}
}

// Validate checks the canvas size. A zero size falls back to the default canvas.
func (o Options) Validate() error {
	w, h := o.Layout.Width, o.Layout.Height
	if w == 0 && h == 0 {
		return nil
	}
	if w <= 0 || h <= 0 || w > MaxSide || h > MaxSide {
		return fmt.Errorf("%w: %gx%g (max %d per side)", ErrCanvasSize, w, h, MaxSide)
	}
	return nil
}

type sceneNode struct {
	ID      string
	X, Y    float64
	R       float64
	Color   color.RGBA
	Opacity float64
}

type sceneLink struct {
	X1, Y1, X2, Y2 float64
	Width          float64
	Opacity        float64
	Label          string
}

type scene struct {
	Width, Height int
	Title         string
	Subtitle      string
	Labels        bool
	Nodes         []sceneNode
	Links         []sceneLink
	Legend        []forces.SectorColor
}

func buildScene(view models.View, model *forces.Model, opts Options) scene {
	cfg := opts.Layout
	if cfg.Width == 0 || cfg.Height == 0 {
		cfg = layout.DefaultConfig()
	}

	// The graph area sits below the header and left of the legend.
	area := cfg
	area.Width = cfg.Width - legendWidth
	area.Height = cfg.Height - headerHeight
	positions := layout.Compute(view, area)

	title := opts.Title
	if title == "" {
		title = "stockgraph: " + view.Focus.String()
	}

	s := scene{
		Width:    int(cfg.Width),
		Height:   int(cfg.Height),
		Title:    title,
		Subtitle: fmt.Sprintf("preset: %s  nodes: %d  links: %d", model.Preset().Name, len(view.Nodes), len(view.Links)),
		Labels:   opts.Labels || !view.Focus.IsZero(),
		Legend:   model.Colors(),
	}

	linkOpacity := map[string]float64{}
	if opts.Highlight != nil {
		for _, l := range opts.Highlight.Links {
			linkOpacity[models.Link{Source: l.Source, Target: l.Target}.Key()] = l.Opacity
		}
	}

	for _, l := range view.Links {
		from, okFrom := positions[l.Source]
		to, okTo := positions[l.Target]
		if !okFrom || !okTo {
			continue
		}
		opacity := model.LinkOpacity(l)
		if o, ok := linkOpacity[l.Key()]; ok {
			opacity = o
		}
		s.Links = append(s.Links, sceneLink{
			X1:      from.X,
			Y1:      from.Y + headerHeight,
			X2:      to.X,
			Y2:      to.Y + headerHeight,
			Width:   model.LinkWidth(l),
			Opacity: opacity,
			Label:   tooltip.LinkLabel(l),
		})
	}

	for _, n := range view.Nodes {
		p := positions[n.ID]
		opacity := 1.0
		if opts.Highlight != nil {
			if o, ok := opts.Highlight.Nodes[n.ID]; ok {
				opacity = o
			}
		}
		s.Nodes = append(s.Nodes, sceneNode{
			ID:      n.ID,
			X:       p.X,
			Y:       p.Y + headerHeight,
			R:       model.DrawRadius(n),
			Color:   parseHex(model.Color(n.Sector)),
			Opacity: opacity,
		})
	}

	return s
}

func (s scene) legendOrigin() (float64, float64) {
	return float64(s.Width) - legendWidth + 10, headerHeight + 10
}

func (s scene) legendHeight() float64 {
	return legendRow*float64(len(s.Legend)) + 32
}

// parseHex reads a #rrggbb color. Anything else is drawn in the edge gray.
func parseHex(hex string) color.RGBA {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return colorEdge
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return colorEdge
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
