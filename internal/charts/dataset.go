package charts

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

// ReadDataset decodes a JSON array of points.
func ReadDataset(r io.Reader) (Dataset, error) {
	var data Dataset
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode chart data: %w", err)
	}
	return data, nil
}
