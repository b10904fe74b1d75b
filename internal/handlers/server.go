package handlers

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/stockgraph/core/internal/charts"
	"github.com/stockgraph/core/internal/config"
	"github.com/stockgraph/core/internal/filter"
	"github.com/stockgraph/core/internal/forces"
	"github.com/stockgraph/core/internal/models"
	"github.com/stockgraph/core/internal/session"
)

const tracerName = "github.com/stockgraph/core/internal/handlers"

// current is the graph being served together with its derived force model.
type current struct {
	graph *models.Graph
	model *forces.Model
}

// Server serves one graph at a time. The graph can be swapped while requests
// are in flight; sessions keep the graph they were created with.
type Server struct {
	state    atomic.Pointer[current]
	preset   config.Preset
	sessions *session.Store
	strict   bool
	logger   *zap.Logger
	tracer   trace.Tracer
	chartSet charts.Dataset
}

type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStrictFocus makes unknown focus values answer 404 instead of an empty
// view.
func WithStrictFocus(strict bool) Option {
	return func(s *Server) {
		s.strict = strict
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) {
		s.tracer = tp.Tracer(tracerName)
	}
}

func WithChartData(data charts.Dataset) Option {
	return func(s *Server) {
		s.chartSet = data
	}
}

func WithSessionStore(store *session.Store) Option {
	return func(s *Server) {
		s.sessions = store
	}
}

func NewServer(g *models.Graph, preset config.Preset, opts ...Option) *Server {
	s := &Server{
		preset:   preset,
		logger:   zap.NewNop(),
		tracer:   otel.Tracer(tracerName),
		chartSet: charts.SampleDataset(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sessions == nil {
		s.sessions = session.NewStore(session.WithStrictFocus(s.strict))
	}
	if g != nil {
		s.SetGraph(g)
	}
	return s
}

// SetGraph atomically replaces the served graph.
func (s *Server) SetGraph(g *models.Graph) {
	s.state.Store(&current{graph: g, model: forces.New(g, s.preset)})
}

// Graph returns the served graph, or nil before one is set.
func (s *Server) Graph() *models.Graph {
	if cur := s.state.Load(); cur != nil {
		return cur.graph
	}
	return nil
}

func (s *Server) Preset() config.Preset {
	return s.preset
}

// Routes registers every endpoint on a new mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.Health)
	mux.HandleFunc("/parse", s.Parse)

	mux.HandleFunc("/graph", s.FullGraph)
	mux.HandleFunc("/graph/stats", s.Stats)
	mux.HandleFunc("/view/node/{id}", s.ViewNode)
	mux.HandleFunc("/view/sector/{sector}", s.ViewSector)
	mux.HandleFunc("/highlight/sector/{sector}", s.HighlightSector)
	mux.HandleFunc("/forces", s.Forces)
	mux.HandleFunc("/tooltip/{id}", s.Tooltip)

	mux.HandleFunc("/sessions", s.CreateSession)
	mux.HandleFunc("/sessions/{id}", s.Session)
	mux.HandleFunc("/sessions/{id}/focus", s.SessionFocus)
	mux.HandleFunc("/sessions/{id}/toggle", s.SessionToggle)

	mux.HandleFunc("/snapshot.svg", s.SnapshotSVG)
	mux.HandleFunc("/snapshot.png", s.SnapshotPNG)
	mux.HandleFunc("/charts/{kind}", s.Chart)
	return mux
}

// loaded returns the current state, answering 503 when no graph is loaded.
func (s *Server) loaded(w http.ResponseWriter) (*current, bool) {
	cur := s.state.Load()
	if cur == nil {
		http.Error(w, "Graph unavailable", http.StatusServiceUnavailable)
		return nil, false
	}
	return cur, true
}

// focusView applies a focus to g, honoring strict mode.
func (s *Server) focusView(g *models.Graph, focus models.Focus) (models.View, error) {
	if s.strict {
		return filter.ApplyStrict(g, focus)
	}
	if err := focus.ValidateKind(); err != nil {
		return models.View{}, err
	}
	return filter.Apply(g, focus), nil
}

// queryFocus reads an optional node or sector focus from the query string.
func queryFocus(r *http.Request) models.Focus {
	q := r.URL.Query()
	if id := q.Get("node"); id != "" {
		return models.NodeFocus(id)
	}
	if sector := q.Get("sector"); sector != "" {
		return models.SectorFocus(sector)
	}
	return models.Focus{}
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	if r.URL.Query().Get("pretty") == "true" {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(v); err != nil {
		s.logger.Error("encode response", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

// writeError maps domain errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, filter.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}
