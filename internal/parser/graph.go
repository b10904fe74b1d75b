package parser

import (
	"go.uber.org/zap"

	"github.com/stockgraph/core/internal/models"
)

// Options control how a document becomes a graph.
type Options struct {
	// DefaultLinkValue replaces missing link values. The dataset presets disagree
	// on it, see config.Preset.
	DefaultLinkValue float64
	Logger           *zap.Logger
}

func BuildGraph(doc *models.Document, opts Options) *models.Graph {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	graph := &models.Graph{
		Nodes: []models.Node{},
		Links: []models.Link{},
	}
	nodeMap := make(map[string]bool)

	for _, raw := range doc.Nodes {
		if nodeMap[raw.ID] {
			logger.Warn("duplicate node ignored", zap.String("id", raw.ID))
			continue
		}

		graph.Nodes = append(graph.Nodes, buildNode(raw))
		nodeMap[raw.ID] = true
	}

	dropped := 0
	for _, raw := range doc.Links {
		if reason := invalidReason(raw, nodeMap); reason != "" {
			logger.Warn("invalid link dropped",
				zap.String("source", raw.Source),
				zap.String("target", raw.Target),
				zap.String("reason", reason),
			)
			dropped++
			continue
		}

		graph.Links = append(graph.Links, buildLink(raw, opts.DefaultLinkValue))
	}

	graph.ComputeStats(dropped)
	return graph
}

func buildNode(raw models.RawNode) models.Node {
	node := models.Node{
		ID:     raw.ID,
		Group:  raw.Group,
		Sector: raw.Group.Sector(),
		Price:  models.PlaceholderPrice(models.PricePlaceholder),
	}

	if raw.MarketCap != nil && *raw.MarketCap > 0 {
		node.MarketCap = *raw.MarketCap
	}

	if raw.Price != nil {
		node.Price = *raw.Price
	}

	return node
}

func buildLink(raw models.RawLink, defaultValue float64) models.Link {
	value := defaultValue
	if raw.Value != nil {
		value = *raw.Value
	}

	return models.Link{
		Source: raw.Source,
		Target: raw.Target,
		Value:  value,
	}
}

func invalidReason(raw models.RawLink, nodes map[string]bool) string {
	sourceExists := nodes[raw.Source]
	targetExists := nodes[raw.Target]

	switch {
	case !sourceExists && !targetExists:
		return "unknown source and target"
	case !sourceExists:
		return "unknown source"
	case !targetExists:
		return "unknown target"
	default:
		return ""
	}
}
