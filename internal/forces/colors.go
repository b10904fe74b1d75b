package forces

// Palette is the ordinal sector palette. Sectors take colors in first-seen order
// and wrap around when there are more sectors than colors.
var Palette = []string{
	"#4e79a7",
	"#f28e2c",
	"#e15759",
	"#76b7b2",
	"#59a14f",
	"#edc949",
	"#af7aa1",
	"#ff9da7",
	"#9c755f",
}

type SectorColor struct {
	Sector string `json:"sector"`
	Color  string `json:"color"`
}

// SectorColors assigns palette colors to sectors in the given order.
func SectorColors(sectors []string) []SectorColor {
	colors := make([]SectorColor, 0, len(sectors))
	for i, s := range sectors {
		colors = append(colors, SectorColor{Sector: s, Color: Palette[i%len(Palette)]})
	}
	return colors
}
