// Package api exposes search, saved paths and live playback over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/katalvlaran/gridpath/grid"
	"github.com/katalvlaran/gridpath/internal/config"
	"github.com/katalvlaran/gridpath/internal/storage"
	"github.com/katalvlaran/gridpath/obstacle"
	"github.com/katalvlaran/gridpath/playback"
	"github.com/katalvlaran/gridpath/report"
	"github.com/katalvlaran/gridpath/search"
	"github.com/katalvlaran/gridpath/session"
	"github.com/katalvlaran/gridpath/terrain"
	"github.com/katalvlaran/gridpath/topology"
)

// errBadRequest marks malformed request bodies and parameters.
var errBadRequest = errors.New("api: bad request")

func badRequest(err error) error { return fmt.Errorf("%w: %w", errBadRequest, err) }

// SinkFactory returns an extra frame sink for a playback session, e.g. an
// MQTT publisher.
type SinkFactory func(sessionID string) playback.Sink

// Server routes the HTTP API.
type Server struct {
	cfg    *config.Config
	store  storage.Store
	log    *slog.Logger
	sinks  SinkFactory
	now    func() time.Time
	router *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithSinkFactory mirrors every playback frame to the sinks it returns.
func WithSinkFactory(f SinkFactory) Option {
	return func(s *Server) { s.sinks = f }
}

// WithClock replaces time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// NewServer wires the routes. A nil logger uses slog.Default().
func NewServer(cfg *config.Config, store storage.Store, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{cfg: cfg, store: store, log: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/search", s.handleSearch).Methods(http.MethodPost)
	r.HandleFunc("/api/maze", s.handleMaze).Methods(http.MethodPost)
	r.HandleFunc("/api/results", s.handleSaveResult).Methods(http.MethodPost)
	r.HandleFunc("/api/results", s.handleListResults).Methods(http.MethodGet)
	r.HandleFunc("/api/results/{id}", s.handleGetResult).Methods(http.MethodGet)
	r.HandleFunc("/api/results/{id}/render", s.handleRenderResult).Methods(http.MethodGet)
	r.HandleFunc("/ws/playback", s.handlePlayback).Methods(http.MethodGet)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// statusWriter records the status code for logging.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController and the websocket upgrader reach the
// underlying writer.
func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if r.URL.Path == "/ws/playback" {
			next.ServeHTTP(w, r)
			s.log.Info("http.request", "method", r.Method, "path", r.URL.Path,
				"dur_ms", time.Since(start).Milliseconds())
			return
		}
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.log.Info("http.request", "method", r.Method, "path", r.URL.Path,
			"status", sw.status, "dur_ms", time.Since(start).Milliseconds())
	})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrDuplicate), errors.Is(err, playback.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, search.ErrInvalidInput),
		errors.Is(err, topology.ErrUnknownShape),
		errors.Is(err, topology.ErrDegenerate),
		errors.Is(err, grid.ErrRowWidth),
		errors.Is(err, grid.ErrOutOfBounds),
		errors.Is(err, terrain.ErrUnknownKind),
		errors.Is(err, terrain.ErrUnknownTable),
		errors.Is(err, terrain.ErrNegativeCost),
		errors.Is(err, report.ErrInvalidName),
		errors.Is(err, report.ErrNothingToSave),
		errors.Is(err, session.ErrMissingEndpoint),
		errors.Is(err, playback.ErrNoResult),
		errors.Is(err, obstacle.ErrUnknownLevel),
		errors.Is(err, obstacle.ErrUnknownFill),
		errors.Is(err, obstacle.ErrMazeTooSmall),
		errors.Is(err, obstacle.ErrChance),
		errors.Is(err, obstacle.ErrNotObstacle):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.log.Error("http.internal_error", "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest(err)
	}
	return nil
}
