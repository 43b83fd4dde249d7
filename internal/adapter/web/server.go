// Package web is the HTTP ingress: the GitHub webhook endpoint and the
// health probe.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pullguard/pullguard/internal/usecase/review"
)

const defaultReviewTimeout = 5 * time.Minute

// Reviewer runs a full review for one pull request.
type Reviewer interface {
	Run(ctx context.Context, target review.Target) error
}

// Config holds the server's settings.
type Config struct {
	Addr          string
	WebhookSecret string
	ReviewTimeout time.Duration
}

// Server exposes the webhook and health endpoints and dispatches reviews in
// the background.
type Server struct {
	http          *http.Server
	secret        []byte
	reviewer      Reviewer
	logger        review.Logger
	reviewTimeout time.Duration
}

// NewServer builds the router and wires the webhook handler.
func NewServer(cfg Config, reviewer Reviewer, logger review.Logger) *Server {
	timeout := cfg.ReviewTimeout
	if timeout <= 0 {
		timeout = defaultReviewTimeout
	}

	s := &Server{
		secret:        []byte(cfg.WebhookSecret),
		reviewer:      reviewer,
		logger:        logger,
		reviewTimeout: timeout,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Post("/webhook", s.handleWebhook)

	s.http = &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}
	return s
}

// Handler exposes the router, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start serves until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests. Background reviews already dispatched
// run to completion under their own timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
