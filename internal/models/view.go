package models

// View is a subset of a graph handed to the rendering layer. Every link endpoint
// is present in Nodes.
type View struct {
	Focus Focus  `json:"focus"`
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Empty reports whether the view holds no nodes.
func (v View) Empty() bool {
	return len(v.Nodes) == 0
}

// NodeIDs returns the ids of the view's nodes in order.
func (v View) NodeIDs() []string {
	ids := make([]string, 0, len(v.Nodes))
	for _, n := range v.Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

// LinkKeys returns the source-target keys of the view's links in order.
func (v View) LinkKeys() []string {
	keys := make([]string, 0, len(v.Links))
	for _, l := range v.Links {
		keys = append(keys, l.Key())
	}
	return keys
}

// Highlight is the legend hover state for one sector: an opacity per node id and
// per link.
type Highlight struct {
	Sector string             `json:"sector"`
	Nodes  map[string]float64 `json:"nodes"`
	Links  []LinkOpacity      `json:"links"`
}

type LinkOpacity struct {
	Source  string  `json:"source"`
	Target  string  `json:"target"`
	Opacity float64 `json:"opacity"`
}
