package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stockgraph/core/internal/forces"
	"github.com/stockgraph/core/internal/models"
)

const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// FormatFromPath infers the image format from a file extension. Paths without
// an extension default to SVG.
func FormatFromPath(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".svg", "":
		return FormatSVG, nil
	case ".png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want svg or png)", strings.TrimPrefix(ext, "."))
	}
}

// Save renders the view to path in the format named by its extension.
func Save(path string, view models.View, model *forces.Model, opts Options) error {
	if path == "" {
		return fmt.Errorf("output path is required")
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if filepath.Ext(path) == "" {
		path += ".svg"
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()

	switch format {
	case FormatPNG:
		err = PNG(f, view, model, opts)
	default:
		err = SVG(f, view, model, opts)
	}
	if err != nil {
		return err
	}
	return f.Close()
}
