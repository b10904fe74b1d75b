package filter

import (
	"github.com/stockgraph/core/internal/models"
)

const (
	dimmedNodeOpacity = 0.2
	dimmedLinkOpacity = 0.1
)

// LinkOpacity gives the stroke opacity of a link.
type LinkOpacity func(models.Link) float64

// HighlightSector is the legend hover state: sector members stay opaque, other
// nodes are dimmed; links touching a member take the given opacity, the rest
// are dimmed. Endpoints are matched by sector, not by membership in a view.
func HighlightSector(g *models.Graph, sector string, opacity LinkOpacity) models.Highlight {
	h := models.Highlight{
		Sector: sector,
		Nodes:  make(map[string]float64, len(g.Nodes)),
		Links:  make([]models.LinkOpacity, 0, len(g.Links)),
	}

	sectorOf := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		sectorOf[n.ID] = n.Sector
		if n.Sector == sector {
			h.Nodes[n.ID] = 1
		} else {
			h.Nodes[n.ID] = dimmedNodeOpacity
		}
	}

	for _, l := range g.Links {
		lo := models.LinkOpacity{Source: l.Source, Target: l.Target, Opacity: dimmedLinkOpacity}
		if sectorOf[l.Source] == sector || sectorOf[l.Target] == sector {
			lo.Opacity = opacity(l)
		}
		h.Links = append(h.Links, lo)
	}

	return h
}
