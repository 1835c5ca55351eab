// Package http exposes the engine to USSD gateways over a small JSON API:
// one endpoint per turn, one for out-of-band session closes, plus health
// and metrics.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aretw0/switchboard/internal/config"
	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/ports"
	"github.com/aretw0/switchboard/pkg/session"
)

// Engine defines the interface for the conversation state machine core.
type Engine interface {
	HandleTurn(ctx context.Context, identity string, input *string) (*domain.TurnResult, error)
	HandleClose(ctx context.Context, identity string, possibleTimeout bool) error
}

// Server handles the gateway-facing endpoints.
type Server struct {
	engine   Engine
	sessions *session.Manager
	filter   *config.AddressFilter
	logger   *slog.Logger

	metricsHandler http.Handler
	profiles       ports.ProfileStore // debug endpoint, QA only
	qa             bool
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a structured logger for request handling.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithAddressFilter gates identities against the configured patterns.
func WithAddressFilter(f *config.AddressFilter) Option {
	return func(s *Server) {
		s.filter = f
	}
}

// WithMetricsHandler mounts a metrics endpoint (e.g. promhttp).
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metricsHandler = h
	}
}

// WithDebugProfiles enables the QA-only profile inspection endpoint.
func WithDebugProfiles(store ports.ProfileStore) Option {
	return func(s *Server) {
		s.profiles = store
		s.qa = true
	}
}

// NewHandler creates the HTTP handler for the engine. Every turn runs under
// the per-identity lock so concurrent requests for one endpoint address
// never interleave.
func NewHandler(engine Engine, sessions *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		engine:   engine,
		sessions: sessions,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	if s.metricsHandler != nil {
		r.Handle("/metrics", s.metricsHandler)
	}
	r.Post("/api/v1/turn", s.handleTurn)
	r.Post("/api/v1/close", s.handleClose)
	if s.qa {
		r.Get("/api/v1/debug/profile/{identity}", s.handleDebugProfile)
	}
	return r
}

type turnRequest struct {
	// Identity is the remote party's endpoint address (MSISDN).
	Identity string `json:"identity"`
	// Content is the turn's input; null marks the opening turn.
	Content *string `json:"content"`
}

type turnResponse struct {
	Prompt   string `json:"prompt"`
	Terminal bool   `json:"terminal"`
	State    string `json:"state"`
}

type closeRequest struct {
	Identity        string `json:"identity"`
	PossibleTimeout bool   `json:"possible_timeout"`
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Identity == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !s.filter.Allowed(req.Identity) {
		writeError(w, http.StatusForbidden, "identity not allowed")
		return
	}

	reqID := uuid.NewString()
	var result *domain.TurnResult
	err := s.sessions.WithLock(r.Context(), req.Identity, func(ctx context.Context) error {
		var err error
		result, err = s.engine.HandleTurn(ctx, req.Identity, req.Content)
		return err
	})
	if err != nil {
		s.logger.Error("turn failed", "request_id", reqID, "identity", req.Identity, "err", err)
		writeError(w, http.StatusInternalServerError, "turn failed")
		return
	}

	s.logger.Debug("turn handled",
		"request_id", reqID,
		"identity", req.Identity,
		"state", result.State,
		"terminal", result.Terminal,
	)
	writeJSON(w, http.StatusOK, turnResponse{
		Prompt:   result.Prompt,
		Terminal: result.Terminal,
		State:    result.State,
	})
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	var req closeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Identity == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.sessions.WithLock(r.Context(), req.Identity, func(ctx context.Context) error {
		return s.engine.HandleClose(ctx, req.Identity, req.PossibleTimeout)
	})
	if err != nil {
		s.logger.Error("close failed", "identity", req.Identity, "err", err)
		writeError(w, http.StatusInternalServerError, "close failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDebugProfile(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")
	profile, err := s.profiles.Load(r.Context(), identity)
	if err != nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
