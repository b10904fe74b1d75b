package correlation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/stockgraph/core/internal/config"
	"github.com/stockgraph/core/internal/models"
)

var ErrLengthMismatch = errors.New("price series lengths differ")

// Series is the price history of one ticker.
type Series struct {
	Ticker    string    `json:"ticker" yaml:"ticker"`
	Sector    string    `json:"sector" yaml:"sector"`
	MarketCap float64   `json:"marketCap" yaml:"market_cap"`
	Prices    []float64 `json:"prices" yaml:"prices"`
}

// LastPrice is the most recent price, or false for an empty series.
func (s Series) LastPrice() (float64, bool) {
	if len(s.Prices) == 0 {
		return 0, false
	}
	return s.Prices[len(s.Prices)-1], true
}

type BuildOptions struct {
	// Preset selects the link value: Pearson correlation of returns for
	// "correlation", correlation of rolling betas for "beta".
	Preset string
	// Market is the market index price series, required for the beta preset.
	Market []float64
	Window int
	// Threshold drops links whose |value| is below it.
	Threshold float64
	// OutlierZ, when positive, removes return pairs beyond that z-score before
	// computing Pearson correlation.
	OutlierZ float64
	// Workers bounds the number of pairs computed at once.
	Workers int
}

func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		Preset:    config.PresetCorrelation,
		Window:    20,
		Threshold: 0.3,
		OutlierZ:  3,
	}
}

// BuildDocument computes a link for every pair of series and returns a graph
// document with one node per series. Links come out in pair order regardless
// of how the work is scheduled.
func BuildDocument(ctx context.Context, series []Series, opts BuildOptions) (*models.Document, error) {
	if opts.Preset != config.PresetCorrelation && opts.Preset != config.PresetBeta {
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownPreset, opts.Preset)
	}

	returns := make([][]float64, len(series))
	for i, s := range series {
		if len(s.Prices) != len(series[0].Prices) {
			return nil, fmt.Errorf("%w: %s has %d prices, %s has %d",
				ErrLengthMismatch, s.Ticker, len(s.Prices), series[0].Ticker, len(series[0].Prices))
		}
		returns[i] = PctChange(s.Prices)
	}

	var market []float64
	if opts.Preset == config.PresetBeta {
		if len(series) > 0 && len(opts.Market) != len(series[0].Prices) {
			return nil, fmt.Errorf("%w: market has %d prices, series have %d",
				ErrLengthMismatch, len(opts.Market), len(series[0].Prices))
		}
		market = PctChange(opts.Market)
	}

	type pair struct{ i, j int }
	var pairs []pair
	for i := range series {
		for j := i + 1; j < len(series); j++ {
			pairs = append(pairs, pair{i, j})
		}
	}

	values := make([]float64, len(pairs))
	g, ctx := errgroup.WithContext(ctx)
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)
	for k, p := range pairs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			values[k] = linkValue(returns[p.i], returns[p.j], market, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compute links: %w", err)
	}

	doc := &models.Document{
		Nodes: make([]models.RawNode, 0, len(series)),
		Links: []models.RawLink{},
	}
	for _, s := range series {
		node := models.RawNode{ID: s.Ticker, Group: models.LabelGroup(s.Sector)}
		if s.MarketCap > 0 {
			marketCap := s.MarketCap
			node.MarketCap = &marketCap
		}
		if last, ok := s.LastPrice(); ok {
			price := models.NumericPrice(round(last, 2))
			node.Price = &price
		}
		doc.Nodes = append(doc.Nodes, node)
	}

	for k, p := range pairs {
		v := values[k]
		if math.IsNaN(v) || math.Abs(v) < opts.Threshold {
			continue
		}
		value := round(v, 4)
		doc.Links = append(doc.Links, models.RawLink{
			Source: series[p.i].Ticker,
			Target: series[p.j].Ticker,
			Value:  &value,
		})
	}
	return doc, nil
}

func linkValue(r1, r2, market []float64, opts BuildOptions) float64 {
	if opts.Preset == config.PresetBeta {
		return ComputeMetrics(r1, r2, market, opts.Window).BetaCorrelation
	}
	if opts.OutlierZ > 0 {
		r1, r2 = RemoveOutliers(r1, r2, opts.OutlierZ)
	}
	return Pearson(r1, r2)
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
