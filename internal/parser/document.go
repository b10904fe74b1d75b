// Package parser turns raw graph documents into validated graphs.
// It applies field defaults once and drops links whose endpoints do not exist.
package parser

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/stockgraph/core/internal/models"
)

func ParseDocument(data []byte) (*models.Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty graph document")
	}

	var raw struct {
		Nodes *[]models.RawNode `json:"nodes"`
		Links []models.RawLink  `json:"links"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal graph document: %w", err)
	}

	if raw.Nodes == nil {
		return nil, fmt.Errorf("invalid graph document: missing nodes field")
	}

	doc := &models.Document{Nodes: *raw.Nodes, Links: raw.Links}
	for i, n := range doc.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("invalid graph document: node %d has no id", i)
		}
	}

	return doc, nil
}
