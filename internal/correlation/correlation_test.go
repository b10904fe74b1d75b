package correlation

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/stockgraph/core/internal/config"
	"github.com/stockgraph/core/internal/parser"
)

func TestPctChange(t *testing.T) {
	t.Run("consecutive percent change", func(t *testing.T) {
		got := PctChange([]float64{100, 110, 99})

		require.Len(t, got, 2)
		assert.InDelta(t, 10.0, got[0], 1e-9)
		assert.InDelta(t, -10.0, got[1], 1e-9)
	})

	t.Run("short series have no changes", func(t *testing.T) {
		assert.Empty(t, PctChange([]float64{100}))
		assert.Empty(t, PctChange(nil))
	})
}

func TestStandardize(t *testing.T) {
	got := Standardize([]float64{1, 2, 3})

	assert.InDelta(t, -math.Sqrt(1.5), got[0], 1e-9)
	assert.InDelta(t, 0.0, got[1], 1e-9)
	assert.InDelta(t, math.Sqrt(1.5), got[2], 1e-9)
}

func TestRemoveOutliers(t *testing.T) {
	t.Run("drops the pair when either side is an outlier", func(t *testing.T) {
		x := make([]float64, 20)
		y := make([]float64, 20)
		for i := range x {
			x[i] = 1
			y[i] = float64(i)
		}
		x[19] = 100

		gotX, gotY := RemoveOutliers(x, y, 3)

		assert.Len(t, gotX, 19)
		assert.Len(t, gotY, 19)
		assert.NotContains(t, gotX, 100.0)
		assert.NotContains(t, gotY, 19.0)
	})

	t.Run("constant series keep everything", func(t *testing.T) {
		gotX, _ := RemoveOutliers([]float64{5, 5, 5}, []float64{1, 2, 3}, 3)

		assert.Len(t, gotX, 3)
	})
}

func TestPearson(t *testing.T) {
	x := []float64{1, 2, 4, 3, 5}

	t.Run("identical series correlate perfectly", func(t *testing.T) {
		assert.InDelta(t, 1.0, Pearson(x, x), 1e-12)
	})

	t.Run("negated series anti-correlate", func(t *testing.T) {
		neg := make([]float64, len(x))
		for i, v := range x {
			neg[i] = -v
		}
		assert.InDelta(t, -1.0, Pearson(x, neg), 1e-12)
	})

	t.Run("constant series give zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Pearson(x, []float64{2, 2, 2, 2, 2}))
	})

	t.Run("mismatched lengths give zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Pearson(x, x[:3]))
	})

	t.Run("always within [-1, 1]", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			n := rapid.IntRange(2, 30).Draw(t, "n")
			a := rapid.SliceOfN(rapid.Float64Range(-100, 100), n, n).Draw(t, "a")
			b := rapid.SliceOfN(rapid.Float64Range(-100, 100), n, n).Draw(t, "b")

			r := Pearson(a, b)
			if math.IsNaN(r) || r < -1-1e-9 || r > 1+1e-9 {
				t.Fatalf("pearson out of range: %v", r)
			}
		})
	})
}

func TestRollingBeta(t *testing.T) {
	market := []float64{1, 2, 4, 3, 5, 6}
	stock := make([]float64, len(market))
	for i, v := range market {
		stock[i] = 2 * v
	}

	betas := RollingBeta(stock, market, 3)

	require.Len(t, betas, len(market))
	for i := 0; i < 3; i++ {
		assert.True(t, math.IsNaN(betas[i]), "index %d", i)
	}
	for i := 3; i < len(betas); i++ {
		assert.InDelta(t, 2.0, betas[i], 1e-9, "index %d", i)
	}

	t.Run("constant market gives NaN", func(t *testing.T) {
		betas := RollingBeta(stock, []float64{1, 1, 1, 1, 1, 1}, 3)
		assert.True(t, math.IsNaN(betas[4]))
	})
}

func TestComputeMetrics(t *testing.T) {
	market := []float64{1, -2, 3, 0.5, -1, 2, 1.5, -0.5}
	r1 := make([]float64, len(market))
	r2 := make([]float64, len(market))
	for i, v := range market {
		r1[i] = 2 * v
		r2[i] = -v
	}

	t.Run("pearson and r squared", func(t *testing.T) {
		m := ComputeMetrics(r1, r2, market, 3)

		assert.InDelta(t, -1.0, m.Pearson, 1e-9)
		assert.InDelta(t, 1.0, m.RSquared, 1e-9)
	})

	t.Run("beta correlation needs two windows", func(t *testing.T) {
		m := ComputeMetrics(r1, r2, market, len(market))

		assert.True(t, math.IsNaN(m.BetaCorrelation))
	})
}

func TestBuildDocument(t *testing.T) {
	a := []float64{100, 110, 99, 120, 118}
	b := make([]float64, len(a))
	for i, v := range a {
		b[i] = 2 * v
	}
	series := []Series{
		{Ticker: "A", Sector: "Tech", MarketCap: 10, Prices: a},
		{Ticker: "B", Sector: "Tech", Prices: b},
		{Ticker: "C", Sector: "Energy", MarketCap: 3, Prices: []float64{50, 50, 50, 50, 50}},
	}

	t.Run("correlated pairs become links", func(t *testing.T) {
		doc, err := BuildDocument(context.Background(), series, DefaultBuildOptions())
		require.NoError(t, err)

		require.Len(t, doc.Nodes, 3)
		require.Len(t, doc.Links, 1)
		assert.Equal(t, "A", doc.Links[0].Source)
		assert.Equal(t, "B", doc.Links[0].Target)
		assert.Equal(t, 1.0, *doc.Links[0].Value)
	})

	t.Run("node fields", func(t *testing.T) {
		doc, err := BuildDocument(context.Background(), series, DefaultBuildOptions())
		require.NoError(t, err)

		assert.Equal(t, "Tech", doc.Nodes[0].Group.String())
		assert.Equal(t, 10.0, *doc.Nodes[0].MarketCap)
		assert.Nil(t, doc.Nodes[1].MarketCap)
		assert.Equal(t, "50", doc.Nodes[2].Price.String())
	})

	t.Run("output loads as a graph", func(t *testing.T) {
		doc, err := BuildDocument(context.Background(), series, DefaultBuildOptions())
		require.NoError(t, err)

		g := parser.BuildGraph(doc, parser.Options{DefaultLinkValue: 1})

		assert.Len(t, g.Nodes, 3)
		assert.Len(t, g.Links, 1)
	})

	t.Run("beta preset needs a matching market series", func(t *testing.T) {
		opts := DefaultBuildOptions()
		opts.Preset = config.PresetBeta
		opts.Market = []float64{1, 2}

		_, err := BuildDocument(context.Background(), series, opts)

		assert.ErrorIs(t, err, ErrLengthMismatch)
	})

	t.Run("beta preset", func(t *testing.T) {
		opts := DefaultBuildOptions()
		opts.Preset = config.PresetBeta
		opts.Window = 2
		opts.Threshold = 0
		opts.Market = []float64{1000, 1010, 1005, 1030, 1020}

		doc, err := BuildDocument(context.Background(), series, opts)

		require.NoError(t, err)
		assert.Len(t, doc.Nodes, 3)
		for _, l := range doc.Links {
			assert.False(t, math.IsNaN(*l.Value))
		}
	})

	t.Run("series lengths must match", func(t *testing.T) {
		bad := append([]Series(nil), series...)
		bad[1] = Series{Ticker: "B", Prices: []float64{1, 2}}

		_, err := BuildDocument(context.Background(), bad, DefaultBuildOptions())

		assert.ErrorIs(t, err, ErrLengthMismatch)
	})

	t.Run("unknown preset", func(t *testing.T) {
		opts := DefaultBuildOptions()
		opts.Preset = "momentum"

		_, err := BuildDocument(context.Background(), series, opts)

		assert.ErrorIs(t, err, config.ErrUnknownPreset)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := BuildDocument(ctx, series, DefaultBuildOptions())

		assert.ErrorIs(t, err, context.Canceled)
	})
}
