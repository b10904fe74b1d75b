package handlers

import (
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stockgraph/core/internal/parser"
)

// maxDocumentSize bounds the body accepted by Parse.
const maxDocumentSize = 32 << 20

// Parse validates a posted graph document with the server's preset defaults and
// returns the resulting graph. The served graph is not changed.
func (s *Server) Parse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	_, span := s.tracer.Start(r.Context(), "handlers.Parse")
	defer span.End()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	defer r.Body.Close()

	doc, err := parser.ParseDocument(body)
	if err != nil {
		http.Error(w, "Invalid graph document: "+err.Error(), http.StatusBadRequest)
		return
	}

	graph := parser.BuildGraph(doc, parser.Options{
		DefaultLinkValue: s.preset.DefaultLinkValue,
		Logger:           s.logger,
	})
	span.AddEvent("graph built", trace.WithAttributes(
		attribute.Int("nodes", len(graph.Nodes)),
		attribute.Int("links", len(graph.Links)),
	))

	s.writeJSON(w, r, http.StatusOK, graph)
}
