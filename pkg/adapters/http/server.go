// Package http exposes the session manager as a JSON API over chi.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/travspan"
	"github.com/aretw0/travspan/internal/logging"
	"github.com/aretw0/travspan/pkg/adapters/gonum"
	"github.com/aretw0/travspan/pkg/domain"
	"github.com/aretw0/travspan/pkg/ports"
	"github.com/aretw0/travspan/pkg/session"
	"github.com/go-chi/chi/v5"
)

// Server serves runs from a session manager over graphs from a catalog.
type Server struct {
	Runs    *session.Manager
	Graphs  ports.GraphCatalog
	Streams *StreamManager
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithStreams shares a StreamManager whose hooks are installed on the manager's engines.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithLogger sets the request error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// CreateRunRequest is the body of POST /runs.
type CreateRunRequest struct {
	ID     string        `json:"id,omitempty"`
	Graph  string        `json:"graph"`
	Config domain.Config `json:"config"`
}

// GraphInfo is an entry of GET /graphs.
type GraphInfo struct {
	Name     string `json:"name"`
	Vertices int    `json:"vertices"`
	Edges    int    `json:"edges"`
}

// NewHandler builds the router.
func NewHandler(runs *session.Manager, graphs ports.GraphCatalog, opts ...Option) http.Handler {
	s := &Server{
		Runs:   runs,
		Graphs: graphs,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager()
	}

	r := chi.NewRouter()
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Route("/graphs", func(r chi.Router) {
		r.Get("/", s.ListGraphs)
		r.Get("/{name}", s.GetGraph)
		r.Get("/{name}/dot", s.GetGraphDOT)
	})

	r.Route("/runs", func(r chi.Router) {
		r.Get("/", s.ListRuns)
		r.Post("/", s.CreateRun)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetRun)
			r.Delete("/", s.DeleteRun)
			r.Get("/result", s.GetResult)
			r.Get("/events", s.SubscribeEvents)
			r.Post("/step", s.StepRun)
			r.Post("/iterate", s.IterateRun)
			r.Post("/run", s.RunToEnd)
			r.Post("/restart", s.RestartRun)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	algorithms := make([]string, 0, len(domain.Algorithms))
	for _, a := range domain.Algorithms {
		algorithms = append(algorithms, string(a))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":        "travspan-http",
		"version":    strings.TrimSpace(travspan.Version),
		"algorithms": algorithms,
	})
}

// ListGraphs handles GET /graphs.
func (s *Server) ListGraphs(w http.ResponseWriter, r *http.Request) {
	names := s.Graphs.Names()
	out := make([]GraphInfo, 0, len(names))
	for _, name := range names {
		g, err := s.Graphs.Graph(name)
		if err != nil {
			continue
		}
		out = append(out, GraphInfo{Name: name, Vertices: g.VertexCount(), Edges: g.EdgeCount()})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetGraph handles GET /graphs/{name} with a gonum summary.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	g, err := s.Graphs.Graph(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, gonum.Summarize(g))
}

// GetGraphDOT handles GET /graphs/{name}/dot.
func (s *Server) GetGraphDOT(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	g, err := s.Graphs.Graph(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	b, err := gonum.MarshalDOT(g, name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = w.Write(b)
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.Runs.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if runs == nil {
		runs = []string{}
	}
	s.writeJSON(w, http.StatusOK, runs)
}

// CreateRun handles POST /runs.
func (s *Server) CreateRun(w http.ResponseWriter, r *http.Request) {
	var body CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, fmt.Errorf("%w: invalid request body: %v", domain.ErrInvalidConfiguration, err))
		return
	}
	g, err := s.Graphs.Graph(body.Graph)
	if err != nil {
		s.writeError(w, err)
		return
	}
	snap, err := s.Runs.Create(r.Context(), body.ID, body.Graph, g, body.Config)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Location", "/runs/"+snap.ID)
	s.writeJSON(w, http.StatusCreated, snap)
}

// GetRun handles GET /runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Runs.Snapshot(r.Context(), chi.URLParam(r, "id"))
	s.respond(w, snap, err)
}

// GetResult handles GET /runs/{id}/result.
func (s *Server) GetResult(w http.ResponseWriter, r *http.Request) {
	res, err := s.Runs.Result(r.Context(), chi.URLParam(r, "id"))
	s.respond(w, res, err)
}

// DeleteRun handles DELETE /runs/{id}.
func (s *Server) DeleteRun(w http.ResponseWriter, r *http.Request) {
	if err := s.Runs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StepRun handles POST /runs/{id}/step?count=N.
func (s *Server) StepRun(w http.ResponseWriter, r *http.Request) {
	count, err := intQuery(r, "count", 1)
	if err != nil {
		s.writeError(w, err)
		return
	}
	snap, err := s.Runs.Step(r.Context(), chi.URLParam(r, "id"), count)
	s.respond(w, snap, err)
}

// IterateRun handles POST /runs/{id}/iterate.
func (s *Server) IterateRun(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Runs.Iterate(r.Context(), chi.URLParam(r, "id"))
	s.respond(w, snap, err)
}

// RunToEnd handles POST /runs/{id}/run?max=N.
func (s *Server) RunToEnd(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "max", 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	snap, err := s.Runs.RunToEnd(r.Context(), chi.URLParam(r, "id"), limit)
	s.respond(w, snap, err)
}

// RestartRun handles POST /runs/{id}/restart.
func (s *Server) RestartRun(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Runs.Restart(r.Context(), chi.URLParam(r, "id"))
	s.respond(w, snap, err)
}

func intQuery(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidConfiguration, key)
	}
	return n, nil
}

func (s *Server) respond(w http.ResponseWriter, v any, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, v)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	} else {
		s.logger.Warn("request rejected", "status", status, "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrRunNotFound), errors.Is(err, domain.ErrGraphNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRunExists), errors.Is(err, domain.ErrAlreadyTerminated):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
