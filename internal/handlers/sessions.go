package handlers

import (
	"net/http"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stockgraph/core/internal/models"
	"github.com/stockgraph/core/internal/session"
)

// CreateSession starts a session on the current graph with the full view
// active.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	cur, ok := s.loaded(w)
	if !ok {
		return
	}

	sess := s.sessions.Create(cur.graph)
	w.Header().Set("Location", "/sessions/"+sess.ID)
	s.writeJSON(w, r, http.StatusCreated, sess.Snapshot())
}

// Session returns or deletes a session.
func (s *Server) Session(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		sess, err := s.sessions.Get(id)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, r, http.StatusOK, sess.Snapshot())
	case http.MethodDelete:
		if err := s.sessions.Delete(id); err != nil {
			s.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// SessionFocus sets the session's focus with POST and clears it with DELETE.
func (s *Server) SessionFocus(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.applyFocus(w, r, "handlers.SessionFocus", (*session.Session).Focus)
	case http.MethodDelete:
		sess, err := s.sessions.Get(r.PathValue("id"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, r, http.StatusOK, sess.Clear())
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// SessionToggle applies the click policy to the session.
func (s *Server) SessionToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.applyFocus(w, r, "handlers.SessionToggle", (*session.Session).Toggle)
}

func (s *Server) applyFocus(w http.ResponseWriter, r *http.Request, spanName string,
	apply func(*session.Session, models.Focus) (models.View, error)) {
	id := r.PathValue("id")
	_, span := s.tracer.Start(r.Context(), spanName, trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	sess, err := s.sessions.Get(id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	defer r.Body.Close()

	var focus models.Focus
	if err := json.NewDecoder(r.Body).Decode(&focus); err != nil {
		http.Error(w, "Invalid focus: "+err.Error(), http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("focus", focus.String()))

	view, err := apply(sess, focus)
	if err != nil {
		span.RecordError(err)
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, view)
}
