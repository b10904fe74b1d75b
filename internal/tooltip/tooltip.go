// Package tooltip renders the hover text for nodes and the labels drawn on
// links. Node tooltips are HTML fragments with every field escaped.
package tooltip

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/stockgraph/core/internal/models"
)

var nodeTemplate = template.Must(template.New("node").Parse(
	`<strong>{{.ID}}</strong><br/>` +
		`Sector: {{.Sector}}<br/>` +
		`Market Cap (B): {{.MarketCap}}<br/>` +
		`Price: {{.Price}}<br/>` +
		`Group: {{.Group}}` +
		`{{if .ShowDegree}}<br/>Connected Nodes: {{.Degree}}{{end}}`,
))

// Node is the data shown when hovering a node.
type Node struct {
	ID         string `json:"id"`
	Sector     string `json:"sector"`
	MarketCap  string `json:"market_cap"`
	Price      string `json:"price"`
	Group      string `json:"group"`
	Degree     int    `json:"degree,omitempty"`
	ShowDegree bool   `json:"-"`
}

// NodeData formats a node for its tooltip. Degree is only shown when
// showDegree is set, and a missing group reads as 0.
func NodeData(n models.Node, degree int, showDegree bool) Node {
	group := n.Group.String()
	if n.Group.IsZero() {
		group = "0"
	}
	return Node{
		ID:         n.ID,
		Sector:     n.Sector,
		MarketCap:  humanize.CommafWithDigits(n.MarketCap, 3),
		Price:      n.Price.String(),
		Group:      group,
		Degree:     degree,
		ShowDegree: showDegree,
	}
}

// Write renders the tooltip fragment of a node.
func Write(w io.Writer, data Node) error {
	if err := nodeTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render tooltip %s: %w", data.ID, err)
	}
	return nil
}

// HTML renders the tooltip fragment of a node to a string.
func HTML(data Node) (string, error) {
	var buf bytes.Buffer
	if err := Write(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// LinkLabel is the text drawn at a link's midpoint in focused views.
func LinkLabel(l models.Link) string {
	return fmt.Sprintf("%.2f", l.Value)
}
