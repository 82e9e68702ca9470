// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/talker/internal/domain/model"
	"github.com/okian/talker/pkg/logger"
)

// TalkerDependencies covers the talker read and write operations.
type TalkerDependencies interface {
	List(ctx context.Context) ([]model.Talker, error)
	Get(ctx context.Context, id int) (model.Talker, error)
	Create(ctx context.Context, f model.TalkerFields) (model.Talker, error)
	Update(ctx context.Context, id int, f model.TalkerFields) (model.Talker, error)
}

// TokenIssuer hands out session tokens.
type TokenIssuer interface {
	IssueToken(ctx context.Context) (string, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	TalkerDependencies
	TokenIssuer
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	talkerHandler  *TalkerHandler
	loginHandler   *LoginHandler
	metricsHandler http.Handler
	logger         logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used by handlers and the access log.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{logger: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	s.talkerHandler = NewTalkerHandler(deps, s.logger)
	s.loginHandler = NewLoginHandler(deps, s.logger)
	s.metricsHandler = NewMetricsHandler()
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", MetricsMiddleware(s.healthHandler.HandleHealth, "root"))
	mux.Handle("GET /metrics", s.metricsHandler)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /login", MetricsMiddleware(s.loginHandler.HandleLogin, "login"))

	mux.HandleFunc("GET /talker", MetricsMiddleware(s.talkerHandler.HandleList, "talker"))
	mux.HandleFunc("GET /talker/{id}", MetricsMiddleware(s.talkerHandler.HandleGet, "talker_by_id"))
	mux.HandleFunc("POST /talker",
		MetricsMiddleware(s.talkerHandler.requireValidTalker(s.talkerHandler.HandleCreate), "talker"))
	mux.HandleFunc("PUT /talker/{id}",
		MetricsMiddleware(s.talkerHandler.requireValidTalker(s.talkerHandler.HandleUpdate), "talker_by_id"))
}

// Handler wraps h with the request id and access log middleware.
func (s *Server) Handler(h http.Handler) http.Handler {
	return RequestIDMiddleware(AccessLogMiddleware(h, s.logger))
}

type messageResponse struct {
	Message string `json:"message"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}
