// Package filter computes focus views: the one-hop neighborhood of a node or of a
// sector. Every function is pure; the same graph and focus always give the same
// view, and nothing here remembers which view is active.
package filter

import (
	"errors"
	"fmt"

	"github.com/stockgraph/core/internal/models"
)

// ErrNotFound is returned by the strict variants when the focus matches nothing.
var ErrNotFound = errors.New("focus not found")

// ByNode returns the node, every link touching it, and the other endpoints of
// those links. An unknown id yields an empty view.
func ByNode(g *models.Graph, id string) models.View {
	focus := models.NodeFocus(id)
	if !g.HasNode(id) {
		return emptyView(focus)
	}

	links := []models.Link{}
	for _, l := range g.Links {
		if l.Touches(id) {
			links = append(links, l)
		}
	}

	return induce(g, focus, map[string]bool{id: true}, links)
}

// BySector returns the sector's nodes, every link touching one of them, and the
// other endpoints of those links, so cross-sector neighbors are included. An
// unknown sector yields an empty view.
func BySector(g *models.Graph, sector string) models.View {
	focus := models.SectorFocus(sector)

	members := make(map[string]bool)
	for _, n := range g.Nodes {
		if n.Sector == sector {
			members[n.ID] = true
		}
	}
	if len(members) == 0 {
		return emptyView(focus)
	}

	links := []models.Link{}
	for _, l := range g.Links {
		if members[l.Source] || members[l.Target] {
			links = append(links, l)
		}
	}

	return induce(g, focus, members, links)
}

// Apply dispatches on the focus kind. The zero focus gives the whole graph.
func Apply(g *models.Graph, focus models.Focus) models.View {
	switch focus.Kind {
	case models.FocusNode:
		return ByNode(g, focus.Value)
	case models.FocusSector:
		return BySector(g, focus.Value)
	default:
		return g.View()
	}
}

func ByNodeStrict(g *models.Graph, id string) (models.View, error) {
	if !g.HasNode(id) {
		return models.View{}, fmt.Errorf("%w: node %q", ErrNotFound, id)
	}
	return ByNode(g, id), nil
}

func BySectorStrict(g *models.Graph, sector string) (models.View, error) {
	view := BySector(g, sector)
	if view.Empty() {
		return models.View{}, fmt.Errorf("%w: sector %q", ErrNotFound, sector)
	}
	return view, nil
}

// ApplyStrict is Apply with ErrNotFound for unknown focus values and a
// validation error for malformed ones.
func ApplyStrict(g *models.Graph, focus models.Focus) (models.View, error) {
	if err := focus.Validate(); err != nil {
		return models.View{}, err
	}
	switch focus.Kind {
	case models.FocusNode:
		return ByNodeStrict(g, focus.Value)
	case models.FocusSector:
		return BySectorStrict(g, focus.Value)
	default:
		return g.View(), nil
	}
}

// induce keeps the seed nodes plus every endpoint of links, in graph order.
func induce(g *models.Graph, focus models.Focus, seed map[string]bool, links []models.Link) models.View {
	keep := make(map[string]bool, len(seed)+len(links))
	for id := range seed {
		keep[id] = true
	}
	for _, l := range links {
		keep[l.Source] = true
		keep[l.Target] = true
	}

	nodes := []models.Node{}
	for _, n := range g.Nodes {
		if keep[n.ID] {
			nodes = append(nodes, n)
		}
	}

	return models.View{Focus: focus, Nodes: nodes, Links: links}
}

func emptyView(focus models.Focus) models.View {
	return models.View{Focus: focus, Nodes: []models.Node{}, Links: []models.Link{}}
}
