package models

// Document is the graph file as found on disk, before defaults and link
// validation are applied.
type Document struct {
	Nodes []RawNode `json:"nodes"`
	Links []RawLink `json:"links"`
}

type RawNode struct {
	ID        string   `json:"id"`
	Group     Group    `json:"group"`
	MarketCap *float64 `json:"marketCap,omitempty"`
	Price     *Price   `json:"price,omitempty"`
}

type RawLink struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Value  *float64 `json:"value,omitempty"`
}
