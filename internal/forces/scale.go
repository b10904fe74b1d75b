// Package forces derives the force-layout configuration the browser solver
// consumes: node radii and charges, link distances and strengths, stroke styles
// and sector colors. Nothing here runs a simulation.
package forces

import (
	"math"

	"github.com/stockgraph/core/internal/models"
)

const (
	MinRadius = 3.0
	MaxRadius = 15.0
)

// RadiusScale maps market cap to a radius on a square-root scale with domain
// [0, max market cap] and range [MinRadius, MaxRadius].
type RadiusScale struct {
	maxCap float64
}

func NewRadiusScale(nodes []models.Node) RadiusScale {
	s := RadiusScale{}
	for _, n := range nodes {
		s.maxCap = math.Max(s.maxCap, n.MarketCap)
	}
	return s
}

func (s RadiusScale) Radius(marketCap float64) float64 {
	// A degenerate domain maps everything to the middle of the range.
	if s.maxCap <= 0 {
		return (MinRadius + MaxRadius) / 2
	}
	t := math.Sqrt(math.Max(marketCap, 0)) / math.Sqrt(s.maxCap)
	return MinRadius + (MaxRadius-MinRadius)*t
}
