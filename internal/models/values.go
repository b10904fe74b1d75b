package models

import (
	"bytes"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
)

// PricePlaceholder is shown when a node carries no price.
const PricePlaceholder = "N/A"

// Group is a node's raw group value, a string label or a number in the source data.
type Group struct {
	Label   string
	Number  float64
	numeric bool
}

func LabelGroup(label string) Group {
	return Group{Label: label}
}

func NumberGroup(n float64) Group {
	return Group{Number: n, numeric: true}
}

func (g Group) IsNumeric() bool {
	return g.numeric
}

// IsZero reports a missing group. An empty label and the number 0 count as missing.
func (g Group) IsZero() bool {
	if g.numeric {
		return g.Number == 0
	}
	return g.Label == ""
}

func (g Group) String() string {
	if g.numeric {
		return strconv.FormatFloat(g.Number, 'f', -1, 64)
	}
	return g.Label
}

// Sector returns the label used for coloring and sector filters.
func (g Group) Sector() string {
	if g.IsZero() {
		return UnknownSector
	}
	return g.String()
}

func (g Group) MarshalJSON() ([]byte, error) {
	if g.numeric || g.Label == "" {
		return json.Marshal(g.Number)
	}
	return json.Marshal(g.Label)
}

func (g *Group) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*g = Group{}
	case data[0] == '"':
		var label string
		if err := json.Unmarshal(data, &label); err != nil {
			return fmt.Errorf("group label: %w", err)
		}
		*g = LabelGroup(label)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("group must be a string or number: %w", err)
		}
		*g = NumberGroup(n)
	}
	return nil
}

// Price is a numeric price or a placeholder string.
type Price struct {
	Value       float64
	Placeholder string
}

func NumericPrice(v float64) Price {
	return Price{Value: v}
}

func PlaceholderPrice(s string) Price {
	return Price{Placeholder: s}
}

func (p Price) IsNumeric() bool {
	return p.Placeholder == ""
}

func (p Price) String() string {
	if p.IsNumeric() {
		return strconv.FormatFloat(p.Value, 'f', -1, 64)
	}
	return p.Placeholder
}

func (p Price) MarshalJSON() ([]byte, error) {
	if p.IsNumeric() {
		return json.Marshal(p.Value)
	}
	return json.Marshal(p.Placeholder)
}

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*p = PlaceholderPrice(PricePlaceholder)
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("price: %w", err)
		}
		if s == "" {
			s = PricePlaceholder
		}
		*p = PlaceholderPrice(s)
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("price must be a string or number: %w", err)
		}
		*p = NumericPrice(v)
	}
	return nil
}
