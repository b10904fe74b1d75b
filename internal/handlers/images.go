package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/stockgraph/core/internal/charts"
	"github.com/stockgraph/core/internal/filter"
	"github.com/stockgraph/core/internal/forces"
	"github.com/stockgraph/core/internal/models"
	"github.com/stockgraph/core/internal/render"
)

type renderFunc func(io.Writer, models.View, *forces.Model, render.Options) error

func (s *Server) SnapshotSVG(w http.ResponseWriter, r *http.Request) {
	s.snapshot(w, r, "image/svg+xml", render.SVG)
}

func (s *Server) SnapshotPNG(w http.ResponseWriter, r *http.Request) {
	s.snapshot(w, r, "image/png", render.PNG)
}

// snapshot renders the view selected by the node or sector query parameter. A
// highlight query parameter dims everything outside that sector.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request, contentType string, draw renderFunc) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	focus := queryFocus(r)
	_, span := s.tracer.Start(r.Context(), "handlers.Snapshot", trace.WithAttributes(
		attribute.String("focus", focus.String()),
		attribute.String("content_type", contentType),
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

	opts := render.DefaultOptions()
	q := r.URL.Query()
	opts.Title = q.Get("title")
	opts.Labels = q.Get("labels") == "true"
	if sector := q.Get("highlight"); sector != "" {
		h := filter.HighlightSector(cur.graph, sector, cur.model.HighlightOpacity)
		opts.Highlight = &h
	}
	if opts.Layout.Width, err = intParam(q.Get("width"), opts.Layout.Width, render.MaxSide); err != nil {
		http.Error(w, "Invalid width: "+err.Error(), http.StatusBadRequest)
		return
	}
	if opts.Layout.Height, err = intParam(q.Get("height"), opts.Layout.Height, render.MaxSide); err != nil {
		http.Error(w, "Invalid height: "+err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := draw(&buf, view, cur.model, opts); err != nil {
		span.RecordError(err)
		s.logger.Error("render snapshot", zap.String("focus", focus.String()), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(buf.Bytes())
}

// Chart renders the server's chart dataset as a scatter, bar or line chart.
func (s *Server) Chart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	kind, err := charts.ParseKind(r.PathValue("kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	opts := charts.DefaultOptions()
	q := r.URL.Query()
	if format := q.Get("format"); format != "" {
		opts.Format = format
	}
	opts.Title = q.Get("title")

	var buf bytes.Buffer
	if err := charts.Render(&buf, kind, s.chartSet, opts); err != nil {
		switch {
		case errors.Is(err, charts.ErrUnknownFormat), errors.Is(err, charts.ErrTooFewPoints):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			s.logger.Error("render chart", zap.String("kind", string(kind)), zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", charts.ContentType(opts.Format))
	_, _ = w.Write(buf.Bytes())
}

// intParam parses an integer query value in [1, limit], returning def when empty.
func intParam(raw string, def float64, limit int) (float64, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, errors.New("must be positive")
	}
	if v > limit {
		return 0, fmt.Errorf("must be at most %d", limit)
	}
	return float64(v), nil
}
