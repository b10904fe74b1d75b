package forces

import (
	"math"

	"github.com/stockgraph/core/internal/config"
	"github.com/stockgraph/core/internal/layout"
	"github.com/stockgraph/core/internal/models"
)

type NodeForce struct {
	ID          string  `json:"id"`
	Radius      float64 `json:"radius"`
	HoverRadius float64 `json:"hover_radius"`
	Collision   float64 `json:"collision"`
	Charge      float64 `json:"charge"`
	Degree      int     `json:"degree"`
	Color       string  `json:"color"`
	// Anchor is set in sector mode: the point of the node's sector.
	Anchor *layout.Position `json:"anchor,omitempty"`
}

type LinkForce struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Distance float64 `json:"distance"`
	Strength float64 `json:"strength"`
	Opacity  float64 `json:"opacity"`
	Width    float64 `json:"width"`
}

// Forces is the solver configuration for one view.
type Forces struct {
	Preset            string        `json:"preset"`
	Mode              Mode          `json:"mode"`
	ChargeDistanceMax float64       `json:"charge_distance_max"`
	CenterStrength    float64       `json:"center_strength"`
	Nodes             []NodeForce   `json:"nodes"`
	Links             []LinkForce   `json:"links"`
	Colors            []SectorColor `json:"colors"`

	// AnchorStrength and Anchors are set in sector mode only. Anchors lists the
	// sectors present in the view.
	AnchorStrength float64        `json:"anchor_strength,omitempty"`
	Anchors        []SectorAnchor `json:"anchors,omitempty"`
}

// Model holds everything derived from the full graph: the radius scale, per-node
// link totals and degrees, and sector colors. Views are styled against it so a
// node keeps its size and color when the view narrows.
type Model struct {
	preset config.Preset
	scale  RadiusScale
	totals map[string]float64
	degree map[string]int
	colors []SectorColor
	byName map[string]string
}

func New(g *models.Graph, preset config.Preset) *Model {
	m := &Model{
		preset: preset,
		scale:  NewRadiusScale(g.Nodes),
		totals: make(map[string]float64, len(g.Nodes)),
		degree: g.Degree(),
		colors: SectorColors(g.Sectors()),
	}

	for _, l := range g.Links {
		v := m.chargeValue(l.Value)
		m.totals[l.Source] += v
		if l.Target != l.Source {
			m.totals[l.Target] += v
		}
	}

	m.byName = make(map[string]string, len(m.colors))
	for _, c := range m.colors {
		m.byName[c.Sector] = c.Color
	}
	return m
}

func (m *Model) Preset() config.Preset {
	return m.preset
}

func (m *Model) Colors() []SectorColor {
	return m.colors
}

// Color returns the sector's palette color, or the last palette entry for a
// sector the graph does not know.
func (m *Model) Color(sector string) string {
	if c, ok := m.byName[sector]; ok {
		return c
	}
	return Palette[len(Palette)-1]
}

// Scale returns the market cap radius of a node before the draw transform.
func (m *Model) Scale(n models.Node) float64 {
	return m.scale.Radius(n.MarketCap)
}

// DrawRadius is the circle radius drawn for a node.
func (m *Model) DrawRadius(n models.Node) float64 {
	return math.Sqrt(m.Scale(n)) * 2
}

func (m *Model) Degree(id string) int {
	return m.degree[id]
}

func (m *Model) Node(n models.Node) NodeForce {
	r := m.Scale(n)
	charge := -math.Pow(m.totals[n.ID], m.preset.ChargeExponent) * m.preset.ChargeScale
	if charge == 0 {
		charge = 0 // drop the sign of -0
	}
	return NodeForce{
		ID:          n.ID,
		Radius:      math.Sqrt(r) * 2,
		HoverRadius: math.Sqrt(r) * 2.5,
		Collision:   math.Sqrt(r),
		Charge:      charge,
		Degree:      m.degree[n.ID],
		Color:       m.Color(n.Sector),
	}
}

// Link needs the endpoint nodes for the radius part of the distance.
func (m *Model) Link(l models.Link, source, target models.Node) LinkForce {
	distance := m.preset.BaseDistance + m.Scale(source) + m.Scale(target) +
		(1-l.Value)*m.preset.DistanceSpan

	strength := m.preset.LinkStrength
	if m.preset.ValueStrength {
		strength = (l.Value + 1) / 4
	}

	return LinkForce{
		Source:   l.Source,
		Target:   l.Target,
		Distance: distance,
		Strength: strength,
		Opacity:  m.LinkOpacity(l),
		Width:    m.LinkWidth(l),
	}
}

// LinkOpacity is the resting stroke opacity, clamped to [0, 1].
func (m *Model) LinkOpacity(l models.Link) float64 {
	return math.Min(m.strokeValue(l.Value)*m.preset.LinkOpacityScale, 1)
}

// HighlightOpacity is the stroke opacity of a link lit by a legend hover,
// clamped to [0, 1].
func (m *Model) HighlightOpacity(l models.Link) float64 {
	return math.Min(m.strokeValue(l.Value)*m.preset.HighlightOpacityScale, 1)
}

func (m *Model) LinkWidth(l models.Link) float64 {
	return m.strokeValue(l.Value) * m.preset.LinkWidthScale
}

// Forces builds the default solver configuration for a view of the model's graph.
func (m *Model) Forces(view models.View) Forces {
	return m.Arrange(view, DefaultArrangement(ModeDefault))
}

// Arrange builds the solver configuration of a view for a force mode. Untangle
// swaps in a flat repulsion with wider collisions; sector mode pulls every node
// toward the anchor of its sector.
func (m *Model) Arrange(view models.View, a Arrangement) Forces {
	if a.Mode == "" {
		a.Mode = ModeDefault
	}

	f := Forces{
		Preset:            m.preset.Name,
		Mode:              a.Mode,
		ChargeDistanceMax: m.preset.ChargeDistanceMax,
		CenterStrength:    m.preset.CenterStrength,
		Nodes:             make([]NodeForce, 0, len(view.Nodes)),
		Links:             make([]LinkForce, 0, len(view.Links)),
		Colors:            m.colors,
	}

	var anchors map[string]SectorAnchor
	switch a.Mode {
	case ModeUntangle:
		f.ChargeDistanceMax = m.preset.UntangleDistanceMax
	case ModeSector:
		f.AnchorStrength = m.preset.SectorStrength
		all := m.SectorAnchors(a)
		anchors = make(map[string]SectorAnchor, len(all))
		for _, anchor := range all {
			anchors[anchor.Sector] = anchor
		}
		present := make(map[string]bool)
		for _, n := range view.Nodes {
			present[n.Sector] = true
		}
		for _, anchor := range all {
			if present[anchor.Sector] {
				f.Anchors = append(f.Anchors, anchor)
			}
		}
	}

	nodes := make(map[string]models.Node, len(view.Nodes))
	for _, n := range view.Nodes {
		nodes[n.ID] = n
		nf := m.Node(n)
		switch a.Mode {
		case ModeUntangle:
			nf.Charge = untangleCharge
			nf.Collision = m.Scale(n) * 2
		case ModeSector:
			if anchor, ok := anchors[n.Sector]; ok {
				nf.Anchor = &layout.Position{X: anchor.X, Y: anchor.Y}
			}
		}
		f.Nodes = append(f.Nodes, nf)
	}
	for _, l := range view.Links {
		f.Links = append(f.Links, m.Link(l, nodes[l.Source], nodes[l.Target]))
	}
	return f
}

func (m *Model) chargeValue(v float64) float64 {
	if m.preset.AbsoluteValues {
		return math.Abs(v)
	}
	// Negative totals would make the fractional power undefined.
	return math.Max(v, 0)
}

func (m *Model) strokeValue(v float64) float64 {
	if m.preset.AbsoluteValues {
		return math.Abs(v)
	}
	return math.Max(v, 0)
}
