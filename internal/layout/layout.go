// Package layout computes static node positions for server-side snapshots. It
// runs a fixed number of Eades spring-embedder updates over the view and scales
// the result into the canvas. The browser runs its own solver; these positions
// only serve rendered images.
package layout

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	gonumlayout "gonum.org/v1/gonum/graph/layout"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/stockgraph/core/internal/models"
)

// Position is a point on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Config controls the canvas and the optimizer.
type Config struct {
	Width      float64
	Height     float64
	Padding    float64
	Iterations int
	Seed       uint64

	Repulsion float64
	Rate      float64
	Theta     float64
}

func DefaultConfig() Config {
	return Config{
		Width:      960,
		Height:     600,
		Padding:    40,
		Iterations: 200,
		Seed:       1,
		Repulsion:  1,
		Rate:       0.05,
		Theta:      0.2,
	}
}

// minWeight keeps weak links attracting their endpoints a little.
const minWeight = 0.1

// Compute returns a position for every node of the view. The same view and
// config always produce the same positions, and every position lies inside the
// padded canvas.
func Compute(view models.View, cfg Config) map[string]Position {
	positions := make(map[string]Position, len(view.Nodes))
	if len(view.Nodes) == 0 {
		return positions
	}

	center := Position{X: cfg.Width / 2, Y: cfg.Height / 2}
	if len(view.Nodes) == 1 {
		positions[view.Nodes[0].ID] = center
		return positions
	}

	g := newOrderedGraph(view)
	eades := gonumlayout.EadesR2{
		Updates:   cfg.Iterations,
		Repulsion: cfg.Repulsion,
		Rate:      cfg.Rate,
		Theta:     cfg.Theta,
		Src:       rand.NewPCG(cfg.Seed, cfg.Seed),
	}
	optimizer := gonumlayout.NewOptimizerR2(g, eades.Update)
	for optimizer.Update() {
	}

	coords := make([]r2.Vec, len(view.Nodes))
	for i := range view.Nodes {
		coords[i] = optimizer.Coord2(int64(i))
	}

	box := bounds(coords)
	innerW := math.Max(cfg.Width-2*cfg.Padding, 0)
	innerH := math.Max(cfg.Height-2*cfg.Padding, 0)
	scale := math.Min(innerW/math.Max(box.Max.X-box.Min.X, 1e-9), innerH/math.Max(box.Max.Y-box.Min.Y, 1e-9))
	mid := r2.Scale(0.5, r2.Add(box.Min, box.Max))

	for i, n := range view.Nodes {
		c := r2.Scale(scale, r2.Sub(coords[i], mid))
		positions[n.ID] = Position{
			X: clamp(center.X+c.X, cfg.Padding, cfg.Width-cfg.Padding),
			Y: clamp(center.Y+c.Y, cfg.Padding, cfg.Height-cfg.Padding),
		}
	}
	return positions
}

// orderedGraph iterates nodes and neighbors in view order so the optimizer sees
// the same sequence on every run.
type orderedGraph struct {
	*simple.WeightedUndirectedGraph
	nodes []graph.Node
	adj   map[int64][]graph.Node
}

func newOrderedGraph(view models.View) orderedGraph {
	g := orderedGraph{
		WeightedUndirectedGraph: simple.NewWeightedUndirectedGraph(0, 0),
		nodes:                   make([]graph.Node, 0, len(view.Nodes)),
		adj:                     make(map[int64][]graph.Node),
	}

	index := make(map[string]int64, len(view.Nodes))
	for i, n := range view.Nodes {
		node := simple.Node(int64(i))
		index[n.ID] = node.ID()
		g.nodes = append(g.nodes, node)
		g.AddNode(node)
	}

	for _, l := range view.Links {
		from, okFrom := index[l.Source]
		to, okTo := index[l.Target]
		if !okFrom || !okTo || from == to || g.HasEdgeBetween(from, to) {
			continue
		}
		w := math.Max(math.Abs(l.Value), minWeight)
		g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(from), simple.Node(to), w))
		g.adj[from] = append(g.adj[from], simple.Node(to))
		g.adj[to] = append(g.adj[to], simple.Node(from))
	}
	return g
}

func (g orderedGraph) Nodes() graph.Nodes {
	return iterator.NewOrderedNodes(g.nodes)
}

func (g orderedGraph) From(id int64) graph.Nodes {
	return iterator.NewOrderedNodes(g.adj[id])
}

func bounds(coords []r2.Vec) r2.Box {
	box := r2.Box{Min: coords[0], Max: coords[0]}
	for _, c := range coords[1:] {
		box.Min.X = math.Min(box.Min.X, c.X)
		box.Min.Y = math.Min(box.Min.Y, c.Y)
		box.Max.X = math.Max(box.Max.X, c.X)
		box.Max.Y = math.Max(box.Max.Y, c.Y)
	}
	return box
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(v, hi))
}
