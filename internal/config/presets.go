package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrUnknownPreset is returned when a preset name is not registered.
var ErrUnknownPreset = errors.New("unknown dataset preset")

const (
	PresetCorrelation = "correlation"
	PresetBeta        = "beta"
)

// Sector layouts used by the sector force mode.
const (
	SectorColumns = "columns"
	SectorGrid    = "grid"
)

// Preset fixes the defaults and force constants of one dataset variant. The two
// built-in variants disagree on what a missing link value means, so the choice is
// made by name rather than guessed.
type Preset struct {
	Name     string `yaml:"name"`
	DataPath string `yaml:"data_path,omitempty"`

	// DefaultLinkValue replaces a missing link value at load time.
	DefaultLinkValue float64 `yaml:"default_link_value"`
	// AbsoluteValues makes charge and stroke use |value|, for signed datasets.
	AbsoluteValues bool `yaml:"absolute_values"`

	BaseDistance  float64 `yaml:"base_distance"`
	DistanceSpan  float64 `yaml:"distance_span"`
	LinkStrength  float64 `yaml:"link_strength"`
	ValueStrength bool    `yaml:"value_strength"` // strength = (value+1)/4

	ChargeScale       float64 `yaml:"charge_scale"`
	ChargeExponent    float64 `yaml:"charge_exponent"`
	ChargeDistanceMax float64 `yaml:"charge_distance_max"`
	CenterStrength    float64 `yaml:"center_strength"`

	// UntangleDistanceMax is the charge range of the untangle mode.
	UntangleDistanceMax float64 `yaml:"untangle_distance_max"`
	// SectorLayout is columns or grid; SectorStrength pulls nodes to their anchor.
	SectorLayout   string  `yaml:"sector_layout"`
	SectorStrength float64 `yaml:"sector_strength"`

	LinkOpacityScale float64 `yaml:"link_opacity_scale"`
	LinkWidthScale   float64 `yaml:"link_width_scale"`
	// HighlightOpacityScale replaces LinkOpacityScale for links lit by a legend hover.
	HighlightOpacityScale float64 `yaml:"highlight_opacity_scale"`

	ShowDegree bool `yaml:"show_degree"` // tooltip lists connected node count
}

// Correlation is the stock_graph.json variant: missing values attract (1).
func Correlation() Preset {
	return Preset{
		Name:              PresetCorrelation,
		DataPath:          "data/stock_graph.json",
		DefaultLinkValue:  1,
		BaseDistance:      10,
		DistanceSpan:      40,
		LinkStrength:      0.5,
		ChargeScale:       20,
		ChargeExponent:    0.5,
		ChargeDistanceMax: 100,
		CenterStrength:    0.1,
		LinkOpacityScale:  0.7,
		LinkWidthScale:    2,

		HighlightOpacityScale: 0.7,
		UntangleDistanceMax:   200,
		SectorLayout:          SectorColumns,
		SectorStrength:        0.5,
	}
}

// Beta is the beta_stock_graph_fair.json variant: values are signed betas and a
// missing value is neutral (0).
func Beta() Preset {
	return Preset{
		Name:              PresetBeta,
		DataPath:          "data/beta_stock_graph_fair.json",
		DefaultLinkValue:  0,
		AbsoluteValues:    true,
		BaseDistance:      50,
		DistanceSpan:      10,
		ValueStrength:     true,
		ChargeScale:       10,
		ChargeExponent:    0.2,
		ChargeDistanceMax: 300,
		CenterStrength:    0.1,
		LinkOpacityScale:  0.3,
		LinkWidthScale:    2,
		ShowDegree:        true,

		HighlightOpacityScale: 0.7,
		UntangleDistanceMax:   300,
		SectorLayout:          SectorGrid,
		SectorStrength:        1.5,
	}
}

// Presets is a registry of named dataset presets.
type Presets map[string]Preset

// DefaultPresets returns the built-in correlation and beta presets.
func DefaultPresets() Presets {
	return Presets{
		PresetCorrelation: Correlation(),
		PresetBeta:        Beta(),
	}
}

func (p Presets) Get(name string) (Preset, error) {
	preset, ok := p[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return preset, nil
}

func (p Presets) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type presetsFile struct {
	Presets []Preset `yaml:"presets"`
}

// LoadPresetsFile merges the presets of a YAML file over the built-in ones. A preset
// with a built-in name starts from the built-in values, so the file only needs the
// fields it changes.
func LoadPresetsFile(path string) (Presets, error) {
	presets := DefaultPresets()
	if path == "" {
		return presets, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets file: %w", err)
	}

	var raw struct {
		Presets []yaml.Node `yaml:"presets"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse presets file: %w", err)
	}

	for i, node := range raw.Presets {
		var named struct {
			Name string `yaml:"name"`
		}
		if err := node.Decode(&named); err != nil {
			return nil, fmt.Errorf("preset %d: %w", i, err)
		}
		if named.Name == "" {
			return nil, fmt.Errorf("preset %d: missing name", i)
		}

		preset := presets[named.Name]
		if err := node.Decode(&preset); err != nil {
			return nil, fmt.Errorf("preset %q: %w", named.Name, err)
		}
		presets[named.Name] = preset
	}

	return presets, nil
}

// WritePresetsFile writes presets in the format read by LoadPresetsFile.
func WritePresetsFile(path string, presets Presets) error {
	file := presetsFile{}
	for _, name := range presets.Names() {
		file.Presets = append(file.Presets, presets[name])
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode presets: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write presets file: %w", err)
	}
	return nil
}
