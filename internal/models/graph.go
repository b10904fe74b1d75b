// Package models defines the core data structures shared by the loader, the filter
// engine and the renderers. Graph values are immutable once built.
package models

// UnknownSector is the sector label given to nodes without a group.
const UnknownSector = "Unknown"

type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
	Stats *Stats `json:"stats,omitempty"`
}

type Node struct {
	ID        string  `json:"id"`
	Group     Group   `json:"group"`
	Sector    string  `json:"sector"`
	MarketCap float64 `json:"marketCap"`
	Price     Price   `json:"price"`
}

type Link struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

type Stats struct {
	TotalNodes    int            `json:"total_nodes"`
	TotalLinks    int            `json:"total_links"`
	DroppedLinks  int            `json:"dropped_links,omitempty"`
	NodesBySector map[string]int `json:"nodes_by_sector,omitempty"`
}

// Touches reports whether id is one of the link's endpoints.
func (l Link) Touches(id string) bool {
	return l.Source == id || l.Target == id
}

// Key identifies a link by its endpoints, as the browser keys link selections.
func (l Link) Key() string {
	return l.Source + "-" + l.Target
}

// HasNode reports whether a node with the given id exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.Node(id)
	return ok
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Sectors returns the distinct sector labels in first-seen order. The order drives
// legend rows and color assignment.
func (g *Graph) Sectors() []string {
	seen := make(map[string]bool)
	sectors := []string{}
	for _, n := range g.Nodes {
		if seen[n.Sector] {
			continue
		}
		seen[n.Sector] = true
		sectors = append(sectors, n.Sector)
	}
	return sectors
}

// Degree counts the links touching each node.
func (g *Graph) Degree() map[string]int {
	degree := make(map[string]int, len(g.Nodes))
	for _, l := range g.Links {
		degree[l.Source]++
		if l.Target != l.Source {
			degree[l.Target]++
		}
	}
	return degree
}

// View returns the unfiltered view over the whole graph.
func (g *Graph) View() View {
	return View{Nodes: g.Nodes, Links: g.Links}
}

// ComputeStats fills in Stats from the current nodes and links.
func (g *Graph) ComputeStats(dropped int) {
	bySector := make(map[string]int)
	for _, n := range g.Nodes {
		bySector[n.Sector]++
	}
	g.Stats = &Stats{
		TotalNodes:    len(g.Nodes),
		TotalLinks:    len(g.Links),
		DroppedLinks:  dropped,
		NodesBySector: bySector,
	}
}
