package correlation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Input is a price history file: the series to correlate and, for the beta
// preset, the market index prices.
type Input struct {
	Market []float64 `json:"market,omitempty" yaml:"market,omitempty"`
	Series []Series  `json:"series" yaml:"series"`
}

// ReadInput reads a price history file. Files ending in .yaml or .yml are YAML,
// anything else is JSON.
func ReadInput(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read price history: %w", err)
	}

	var in Input
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &in)
	default:
		err = json.Unmarshal(data, &in)
	}
	if err != nil {
		return nil, fmt.Errorf("parse price history %s: %w", path, err)
	}

	if len(in.Series) == 0 {
		return nil, fmt.Errorf("price history %s has no series", path)
	}
	for i, s := range in.Series {
		if s.Ticker == "" {
			return nil, fmt.Errorf("price history %s: series %d has no ticker", path, i)
		}
	}
	return &in, nil
}
