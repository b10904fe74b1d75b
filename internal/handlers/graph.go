package handlers

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/stockgraph/core/internal/filter"
	"github.com/stockgraph/core/internal/forces"
	"github.com/stockgraph/core/internal/models"
	"github.com/stockgraph/core/internal/render"
	"github.com/stockgraph/core/internal/tooltip"
)

func (s *Server) FullGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	cur, ok := s.loaded(w)
	if !ok {
		return
	}
	s.writeJSON(w, r, http.StatusOK, cur.graph)
}

func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	cur, ok := s.loaded(w)
	if !ok {
		return
	}

	stats := cur.graph.Stats
	if stats == nil {
		g := *cur.graph
		g.ComputeStats(0)
		stats = g.Stats
	}
	s.writeJSON(w, r, http.StatusOK, stats)
}

func (s *Server) ViewNode(w http.ResponseWriter, r *http.Request) {
	s.view(w, r, models.NodeFocus(r.PathValue("id")))
}

func (s *Server) ViewSector(w http.ResponseWriter, r *http.Request) {
	s.view(w, r, models.SectorFocus(r.PathValue("sector")))
}

func (s *Server) view(w http.ResponseWriter, r *http.Request, focus models.Focus) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	_, span := s.tracer.Start(r.Context(), "handlers.View", trace.WithAttributes(
		attribute.String("focus.kind", string(focus.Kind)),
		attribute.String("focus.value", focus.Value),
	))
	defer span.End()

	cur, ok := s.loaded(w)
	if !ok {
		return
	}

	view, err := s.focusView(cur.graph, focus)
	if err != nil {
		span.RecordError(err)
		s.writeError(w, err)
		return
	}
	span.SetAttributes(attribute.Int("view.nodes", len(view.Nodes)))

	s.writeJSON(w, r, http.StatusOK, view)
}

// HighlightSector returns the legend hover opacities for a sector.
func (s *Server) HighlightSector(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	cur, ok := s.loaded(w)
	if !ok {
		return
	}

	h := filter.HighlightSector(cur.graph, r.PathValue("sector"), cur.model.HighlightOpacity)
	s.writeJSON(w, r, http.StatusOK, h)
}

// Forces returns the solver configuration for the full graph or for the view
// selected by the node or sector query parameter. The mode parameter picks
// default, untangle or sector; width and height size the sector anchors.
func (s *Server) Forces(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	mode, err := forces.ParseMode(q.Get("mode"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	arrangement := forces.DefaultArrangement(mode)
	if arrangement.Width, err = intParam(q.Get("width"), arrangement.Width, render.MaxSide); err != nil {
		http.Error(w, "Invalid width: "+err.Error(), http.StatusBadRequest)
		return
	}
	if arrangement.Height, err = intParam(q.Get("height"), arrangement.Height, render.MaxSide); err != nil {
		http.Error(w, "Invalid height: "+err.Error(), http.StatusBadRequest)
		return
	}

	focus := queryFocus(r)
	_, span := s.tracer.Start(r.Context(), "handlers.Forces", trace.WithAttributes(
		attribute.String("focus", focus.String()),
		attribute.String("mode", string(mode)),
	))
	defer span.End()

	cur, ok := s.loaded(w)
	if !ok {
		return
	}

	view, err := s.focusView(cur.graph, focus)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, cur.model.Arrange(view, arrangement))
}

// Tooltip renders the hover fragment of a node as HTML, or as JSON data when
// format=json is set.
func (s *Server) Tooltip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	cur, ok := s.loaded(w)
	if !ok {
		return
	}

	id := r.PathValue("id")
	n, found := cur.graph.Node(id)
	if !found {
		http.Error(w, "Node not found: "+id, http.StatusNotFound)
		return
	}

	data := tooltip.NodeData(n, cur.model.Degree(id), s.preset.ShowDegree)
	if r.URL.Query().Get("format") == "json" {
		s.writeJSON(w, r, http.StatusOK, data)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tooltip.Write(w, data); err != nil {
		s.logger.Error("render tooltip", zap.String("id", id), zap.Error(err))
	}
}
