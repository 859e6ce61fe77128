package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"tiered-subscription-service/internal/config"
	"tiered-subscription-service/internal/usecase"
)

// Server exposes the engine over a thin JSON API. Transport concerns stay
// here; the use cases know nothing about HTTP.
type Server struct {
	cfg    *config.Config
	log    *zerolog.Logger
	auth   *usecase.AuthUseCase
	subs   *usecase.SubscriptionUseCase
	ent    *usecase.EntitlementUseCase
	server *http.Server
}

func NewServer(cfg *config.Config, logger *zerolog.Logger, auth *usecase.AuthUseCase, subs *usecase.SubscriptionUseCase, ent *usecase.EntitlementUseCase) *Server {
	return &Server{cfg: cfg, log: logger, auth: auth, subs: subs, ent: ent}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", healthHandler())
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /api/login", loginHandler(s.auth))

	authed := RequireAuth(s.auth)
	mux.Handle("POST /api/subscriptions", authed(subscriptionCreateHandler(s.subs)))
	mux.Handle("GET /api/subscriptions/{id}", authed(subscriptionGetHandler(s.subs)))
	mux.Handle("POST /api/subscriptions/{id}/cancel", authed(subscriptionCancelHandler(s.subs)))
	mux.Handle("POST /api/subscriptions/{id}/upgrade", authed(subscriptionUpgradeHandler(s.subs)))
	mux.Handle("GET /api/entitlements", authed(entitlementHandler(s.ent)))
	mux.Handle("GET /api/stats", authed(statsHandler(s.ent)))

	return Chain(mux, TraceID(), RequestLog(s.log), Recover(s.log))
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler: s.Handler(),
	}
	s.log.Info().Int("port", s.cfg.Server.Port).Msg("http server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
