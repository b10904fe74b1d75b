package render

import (
	"bytes"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/stockgraph/core/internal/forces"
	"github.com/stockgraph/core/internal/models"
)

// SVG writes the view as an SVG document.
func SVG(w io.Writer, view models.View, model *forces.Model, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	var buf bytes.Buffer
	renderSVG(&buf, buildScene(view, model, opts))
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func renderSVG(w io.Writer, s scene) {
	canvas := svg.New(w)
	canvas.Start(s.Width, s.Height)
	canvas.Title(s.Title)
	canvas.Rect(0, 0, s.Width, s.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 8, s.Width-32, int(headerHeight)-16, 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))
	canvas.Text(32, 30, s.Title, fmt.Sprintf("fill:%s;font-size:15px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(32, 48, s.Subtitle, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))

	canvas.Gid("links")
	for _, l := range s.Links {
		canvas.Line(px(l.X1), px(l.Y1), px(l.X2), px(l.Y2),
			fmt.Sprintf("stroke:%s;stroke-opacity:%.2f;stroke-width:%.2f", css(colorEdge), l.Opacity, l.Width))
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for _, n := range s.Nodes {
		canvas.Circle(px(n.X), px(n.Y), int(math.Max(math.Round(n.R), 1)),
			fmt.Sprintf("fill:%s;fill-opacity:%.2f;stroke:%s;stroke-width:1.5", css(n.Color), n.Opacity, css(colorStroke)))
	}
	canvas.Gend()

	if s.Labels {
		canvas.Gid("labels")
		for _, l := range s.Links {
			canvas.Text(px((l.X1+l.X2)/2), px((l.Y1+l.Y2)/2), l.Label,
				fmt.Sprintf("fill:%s;font-size:9px;font-family:monospace;text-anchor:middle", css(colorSubtle)))
		}
		for _, n := range s.Nodes {
			canvas.Text(px(n.X+n.R+2), px(n.Y+3), n.ID,
				fmt.Sprintf("fill:%s;font-size:10px;font-family:monospace", css(colorText)))
		}
		canvas.Gend()
	}

	drawLegendSVG(canvas, s)
	canvas.End()
}

func drawLegendSVG(canvas *svg.SVG, s scene) {
	x, y := s.legendOrigin()
	canvas.Roundrect(px(x), px(y), int(legendWidth)-20, px(s.legendHeight()), 10, 10,
		fmt.Sprintf("fill:%s", css(colorLegendBG)))
	canvas.Text(px(x+12), px(y+18), "Sectors",
		fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(colorText)))
	for i, c := range s.Legend {
		rowY := y + 36 + legendRow*float64(i)
		canvas.Circle(px(x+18), px(rowY-4), 5, fmt.Sprintf("fill:%s", css(parseHex(c.Color))))
		canvas.Text(px(x+30), px(rowY), c.Sector,
			fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
	}
}

func px(v float64) int {
	return int(math.Round(v))
}
