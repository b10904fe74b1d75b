package render

import (
	"fmt"
	"image/color"
	"io"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/stockgraph/core/internal/forces"
	"github.com/stockgraph/core/internal/models"
)

// PNG writes the view as a PNG image.
func PNG(w io.Writer, view models.View, model *forces.Model, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	dc := drawPNG(buildScene(view, model, opts))
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func drawPNG(s scene) *gg.Context {
	dc := gg.NewContext(s.Width, s.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 8, float64(s.Width)-32, headerHeight-16, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(colorText)
	dc.DrawStringAnchored(s.Title, 32, 26, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(s.Subtitle, 32, 44, 0, 0.5)

	for _, l := range s.Links {
		dc.SetColor(withAlpha(colorEdge, l.Opacity))
		dc.SetLineWidth(l.Width)
		dc.DrawLine(l.X1, l.Y1, l.X2, l.Y2)
		dc.Stroke()
	}

	for _, n := range s.Nodes {
		dc.SetColor(withAlpha(n.Color, n.Opacity))
		dc.DrawCircle(n.X, n.Y, n.R)
		dc.Fill()
		dc.SetColor(withAlpha(colorStroke, n.Opacity))
		dc.SetLineWidth(1.5)
		dc.DrawCircle(n.X, n.Y, n.R)
		dc.Stroke()
	}

	if s.Labels {
		dc.SetColor(colorSubtle)
		for _, l := range s.Links {
			dc.DrawStringAnchored(l.Label, (l.X1+l.X2)/2, (l.Y1+l.Y2)/2, 0.5, 0.5)
		}
		dc.SetColor(colorText)
		for _, n := range s.Nodes {
			dc.DrawStringAnchored(n.ID, n.X+n.R+2, n.Y, 0, 0.5)
		}
	}

	drawLegendPNG(dc, s)
	return dc
}

func drawLegendPNG(dc *gg.Context, s scene) {
	x, y := s.legendOrigin()
	dc.SetColor(colorLegendBG)
	dc.DrawRoundedRectangle(x, y, legendWidth-20, s.legendHeight(), 10)
	dc.Fill()

	dc.SetColor(colorText)
	dc.DrawStringAnchored("Sectors", x+12, y+18, 0, 0.5)
	for i, c := range s.Legend {
		rowY := y + 36 + legendRow*float64(i)
		dc.SetColor(parseHex(c.Color))
		dc.DrawCircle(x+18, rowY-4, 5)
		dc.Fill()
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(c.Sector, x+30, rowY-4, 0, 0.5)
	}
}

// withAlpha returns c with the given opacity, premultiplied as color.RGBA requires.
func withAlpha(c color.RGBA, opacity float64) color.RGBA {
	if opacity >= 1 {
		return c
	}
	if opacity <= 0 {
		return color.RGBA{}
	}
	return color.RGBA{
		R: uint8(float64(c.R) * opacity),
		G: uint8(float64(c.G) * opacity),
		B: uint8(float64(c.B) * opacity),
		A: uint8(float64(c.A) * opacity),
	}
}
