package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/stockgraph/core/internal/models"
)

func floatPtr(v float64) *float64 {
	return &v
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return zap.New(core), logs
}

func TestBuildGraph(t *testing.T) {
	t.Run("empty document returns empty graph", func(t *testing.T) {
		graph := BuildGraph(&models.Document{}, Options{})

		assert.NotNil(t, graph)
		assert.Empty(t, graph.Nodes)
		assert.Empty(t, graph.Links)
		require.NotNil(t, graph.Stats)
		assert.Equal(t, 0, graph.Stats.TotalNodes)
	})

	t.Run("drops links to unknown nodes and warns", func(t *testing.T) {
		logger, logs := observedLogger()
		doc := &models.Document{
			Nodes: []models.RawNode{{ID: "A"}, {ID: "B"}},
			Links: []models.RawLink{
				{Source: "A", Target: "B"},
				{Source: "A", Target: "Z"},
			},
		}

		graph := BuildGraph(doc, Options{DefaultLinkValue: 1, Logger: logger})

		require.Len(t, graph.Links, 1)
		assert.Equal(t, "A-B", graph.Links[0].Key())
		assert.Equal(t, 1, graph.Stats.DroppedLinks)

		dropped := logs.FilterMessage("invalid link dropped").All()
		require.Len(t, dropped, 1)
		fields := dropped[0].ContextMap()
		assert.Equal(t, "A", fields["source"])
		assert.Equal(t, "Z", fields["target"])
		assert.Equal(t, "unknown target", fields["reason"])
	})

	t.Run("reports which endpoint is missing", func(t *testing.T) {
		logger, logs := observedLogger()
		doc := &models.Document{
			Nodes: []models.RawNode{{ID: "A"}},
			Links: []models.RawLink{
				{Source: "X", Target: "A"},
				{Source: "X", Target: "Y"},
			},
		}

		graph := BuildGraph(doc, Options{Logger: logger})

		assert.Empty(t, graph.Links)
		entries := logs.All()
		require.Len(t, entries, 2)
		assert.Equal(t, "unknown source", entries[0].ContextMap()["reason"])
		assert.Equal(t, "unknown source and target", entries[1].ContextMap()["reason"])
	})

	t.Run("node defaults", func(t *testing.T) {
		doc := &models.Document{Nodes: []models.RawNode{{ID: "A"}}}

		graph := BuildGraph(doc, Options{})

		require.Len(t, graph.Nodes, 1)
		node := graph.Nodes[0]
		assert.Equal(t, models.UnknownSector, node.Sector)
		assert.True(t, node.Group.IsZero())
		assert.Equal(t, 0.0, node.MarketCap)
		assert.Equal(t, models.PricePlaceholder, node.Price.String())
	})

	t.Run("negative market cap is clamped to zero", func(t *testing.T) {
		doc := &models.Document{Nodes: []models.RawNode{{ID: "A", MarketCap: floatPtr(-5)}}}

		graph := BuildGraph(doc, Options{})

		assert.Equal(t, 0.0, graph.Nodes[0].MarketCap)
	})

	t.Run("node keeps supplied fields", func(t *testing.T) {
		price := models.NumericPrice(101.25)
		doc := &models.Document{Nodes: []models.RawNode{{
			ID:        "NVDA",
			Group:     models.LabelGroup("Technology"),
			MarketCap: floatPtr(2200),
			Price:     &price,
		}}}

		graph := BuildGraph(doc, Options{})

		node := graph.Nodes[0]
		assert.Equal(t, "Technology", node.Sector)
		assert.Equal(t, 2200.0, node.MarketCap)
		assert.Equal(t, 101.25, node.Price.Value)
	})

	t.Run("numeric group becomes a text sector", func(t *testing.T) {
		doc := &models.Document{Nodes: []models.RawNode{{ID: "A", Group: models.NumberGroup(4)}}}

		graph := BuildGraph(doc, Options{})

		assert.Equal(t, "4", graph.Nodes[0].Sector)
	})

	t.Run("missing link value uses the configured default", func(t *testing.T) {
		doc := &models.Document{
			Nodes: []models.RawNode{{ID: "A"}, {ID: "B"}},
			Links: []models.RawLink{{Source: "A", Target: "B"}},
		}

		correlation := BuildGraph(doc, Options{DefaultLinkValue: 1})
		beta := BuildGraph(doc, Options{DefaultLinkValue: 0})

		assert.Equal(t, 1.0, correlation.Links[0].Value)
		assert.Equal(t, 0.0, beta.Links[0].Value)
	})

	t.Run("explicit zero value is kept", func(t *testing.T) {
		doc := &models.Document{
			Nodes: []models.RawNode{{ID: "A"}, {ID: "B"}},
			Links: []models.RawLink{{Source: "A", Target: "B", Value: floatPtr(0)}},
		}

		graph := BuildGraph(doc, Options{DefaultLinkValue: 1})

		assert.Equal(t, 0.0, graph.Links[0].Value)
	})

	t.Run("duplicate nodes are not added", func(t *testing.T) {
		logger, logs := observedLogger()
		doc := &models.Document{
			Nodes: []models.RawNode{
				{ID: "A", Group: models.LabelGroup("Tech")},
				{ID: "A", Group: models.LabelGroup("Finance")},
			},
		}

		graph := BuildGraph(doc, Options{Logger: logger})

		require.Len(t, graph.Nodes, 1)
		assert.Equal(t, "Tech", graph.Nodes[0].Sector)
		assert.Equal(t, 1, logs.FilterMessage("duplicate node ignored").Len())
	})

	t.Run("stats count sectors", func(t *testing.T) {
		doc := &models.Document{
			Nodes: []models.RawNode{
				{ID: "A", Group: models.LabelGroup("Tech")},
				{ID: "B", Group: models.LabelGroup("Finance")},
				{ID: "C", Group: models.LabelGroup("Tech")},
			},
			Links: []models.RawLink{{Source: "A", Target: "B"}, {Source: "B", Target: "C"}},
		}

		graph := BuildGraph(doc, Options{})

		assert.Equal(t, 3, graph.Stats.TotalNodes)
		assert.Equal(t, 2, graph.Stats.TotalLinks)
		assert.Equal(t, 2, graph.Stats.NodesBySector["Tech"])
	})

	t.Run("every kept link references existing nodes", func(t *testing.T) {
		doc := &models.Document{
			Nodes: []models.RawNode{{ID: "A"}, {ID: "B"}, {ID: "C"}},
			Links: []models.RawLink{
				{Source: "A", Target: "B"},
				{Source: "B", Target: "D"},
				{Source: "E", Target: "C"},
				{Source: "C", Target: "A"},
			},
		}

		graph := BuildGraph(doc, Options{})

		for _, link := range graph.Links {
			assert.True(t, graph.HasNode(link.Source))
			assert.True(t, graph.HasNode(link.Target))
		}
		assert.Len(t, graph.Links, 2)
	})
}
