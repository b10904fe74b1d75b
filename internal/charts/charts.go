// Package charts renders the auxiliary scatter, bar and line charts over a
// caller-supplied dataset.
package charts

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	ErrUnknownKind   = errors.New("unknown chart kind")
	ErrUnknownFormat = errors.New("unknown chart format")
	ErrTooFewPoints  = errors.New("not enough points to chart")
)

type Kind string

const (
	KindScatter Kind = "scatter"
	KindBar     Kind = "bar"
	KindLine    Kind = "line"
)

// Kinds lists the supported chart kinds.
func Kinds() []Kind {
	return []Kind{KindScatter, KindBar, KindLine}
}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Point is one sample: an x/y pair, a category label and a date.
type Point struct {
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Category string    `json:"category"`
	Date     time.Time `json:"date"`
}

type Dataset []Point

// SampleDataset returns the five-point demo dataset.
func SampleDataset() Dataset {
	day := func(d int) time.Time { return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC) }
	return Dataset{
		{X: 10, Y: 20, Category: "A", Date: day(1)},
		{X: 15, Y: 35, Category: "B", Date: day(2)},
		{X: 25, Y: 15, Category: "C", Date: day(3)},
		{X: 30, Y: 40, Category: "D", Date: day(4)},
		{X: 35, Y: 25, Category: "E", Date: day(5)},
	}
}

type Options struct {
	Title  string
	Width  int
	Height int
	// Format is "svg" or "png"; empty means svg.
	Format string
}

func DefaultOptions() Options {
	return Options{Width: 800, Height: 500, Format: "svg"}
}

var pointColor = drawing.ColorFromHex("4e79a7")

// Render writes a chart of the dataset.
func Render(w io.Writer, kind Kind, data Dataset, opts Options) error {
	rp, err := renderer(opts.Format)
	if err != nil {
		return err
	}
	if opts.Width == 0 || opts.Height == 0 {
		d := DefaultOptions()
		opts.Width, opts.Height = d.Width, d.Height
	}

	switch kind {
	case KindScatter, KindLine:
		// Both axes need a non-empty range.
		if len(data) < 2 {
			return fmt.Errorf("%w: %s chart needs 2, got %d", ErrTooFewPoints, kind, len(data))
		}
		if kind == KindScatter {
			err = scatter(data, opts).Render(rp, w)
		} else {
			err = line(data, opts).Render(rp, w)
		}
	case KindBar:
		if len(data) == 0 {
			return fmt.Errorf("%w: bar chart needs 1, got 0", ErrTooFewPoints)
		}
		err = bar(data, opts).Render(rp, w)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return fmt.Errorf("render %s chart: %w", kind, err)
	}
	return nil
}

func renderer(format string) (chart.RendererProvider, error) {
	switch format {
	case "", "svg":
		return chart.SVG, nil
	case "png":
		return chart.PNG, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ContentType returns the MIME type for a chart format.
func ContentType(format string) string {
	if format == "png" {
		return "image/png"
	}
	return "image/svg+xml"
}

func scatter(data Dataset, opts Options) chart.Chart {
	xs := make([]float64, 0, len(data))
	ys := make([]float64, 0, len(data))
	for _, p := range data {
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}

	return chart.Chart{
		Title:  title(opts, "Scatter"),
		Width:  opts.Width,
		Height: opts.Height,
		XAxis:  chart.XAxis{Name: "X"},
		YAxis:  chart.YAxis{Name: "Y"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "points",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    5,
					DotColor:    pointColor,
				},
			},
		},
	}
}

// line plots y over date, in date order.
func line(data Dataset, opts Options) chart.Chart {
	sorted := append(Dataset(nil), data...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	xs := make([]time.Time, 0, len(sorted))
	ys := make([]float64, 0, len(sorted))
	for _, p := range sorted {
		xs = append(xs, p.Date)
		ys = append(ys, p.Y)
	}

	return chart.Chart{
		Title:  title(opts, "Line"),
		Width:  opts.Width,
		Height: opts.Height,
		XAxis:  chart.XAxis{Name: "Date", ValueFormatter: chart.TimeDateValueFormatter},
		YAxis:  chart.YAxis{Name: "Y"},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "y",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: 2,
					StrokeColor: pointColor,
					DotWidth:    4,
					DotColor:    pointColor,
				},
			},
		},
	}
}

func bar(data Dataset, opts Options) chart.BarChart {
	bars := make([]chart.Value, 0, len(data))
	for _, p := range data {
		bars = append(bars, chart.Value{Label: p.Category, Value: p.Y})
	}

	return chart.BarChart{
		Title:    title(opts, "Bar"),
		Width:    opts.Width,
		Height:   opts.Height,
		BarWidth: 40,
		Bars:     bars,
	}
}

func title(opts Options, fallback string) string {
	if opts.Title != "" {
		return opts.Title
	}
	return fallback
}
