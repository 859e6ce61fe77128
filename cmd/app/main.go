package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tiered-subscription-service/internal/config"
	billingAdapters "tiered-subscription-service/internal/infra/adapters/billing"
	"tiered-subscription-service/internal/infra/db/memory"
	pg "tiered-subscription-service/internal/infra/db/postgres"
	"tiered-subscription-service/internal/infra/logging"
	"tiered-subscription-service/internal/infra/metrics"
	red "tiered-subscription-service/internal/infra/redis"
	"tiered-subscription-service/internal/infra/security"
	"tiered-subscription-service/internal/infra/web"
	"tiered-subscription-service/internal/usecase"

	"tiered-subscription-service/internal/domain/model"
	"tiered-subscription-service/internal/domain/ports/adapter"
	"tiered-subscription-service/internal/domain/ports/repository"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)

	// ---- Tier catalog ----
	tiers := make([]model.Tier, 0, len(cfg.Tiers))
	for name, tc := range cfg.Tiers {
		t, err := model.NewTier(name, tc.Rank, tc.Features)
		if err != nil {
			log.Fatalf("tier %q: %v", name, err)
		}
		tiers = append(tiers, t)
	}
	catalog, err := model.NewTierCatalog(tiers)
	if err != nil {
		log.Fatalf("tier catalog: %v", err)
	}

	// ---- Stores ----
	var (
		subStore  repository.SubscriptionStore
		credStore repository.CredentialStore
	)
	if cfg.Database.URL != "" {
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pool.Close()
		if err := pg.EnsureSchema(ctx, pool); err != nil {
			log.Fatalf("schema: %v", err)
		}
		subStore = pg.NewSubscriptionStore(pool)
		credStore = pg.NewCredentialStore(pool)
		logger.Info().Msg("using postgres stores")
	} else {
		subStore = memory.NewSubscriptionStore()
		credStore = memory.NewCredentialStore()
		logger.Info().Msg("using in-memory stores")
	}

	// ---- Stats cache (optional) ----
	var statsCache usecase.StatsCache
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		statsCache = red.NewStatsCache(redisClient, cfg.Redis.StatsTTL)
		logger.Info().Msg("usage stats cache enabled")
	}

	// ---- Billing gateway ----
	var billing adapter.BillingGateway
	if cfg.Billing.BaseURL != "" {
		billing, err = billingAdapters.NewHTTPGateway(cfg.Billing.BaseURL, cfg.Billing.APIKey, cfg.Billing.Timeout)
		if err != nil {
			log.Fatalf("billing gateway: %v", err)
		}
	} else {
		if !cfg.Runtime.Dev {
			logger.Warn().Msg("billing.base_url not set; using noop gateway")
		}
		billing = billingAdapters.NewNoopGateway()
	}
	logger.Info().Str("gateway", billing.Name()).Msg("billing gateway ready")

	// ---- Token codec ----
	tokenMaker, err := security.NewTokenMaker(cfg.Auth.SecretKey, cfg.Auth.Algorithm, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("token maker: %v", err)
	}

	// ---- Use cases ----
	authUC := usecase.NewAuthUseCase(credStore, tokenMaker, logger)
	subUC := usecase.NewSubscriptionUseCase(subStore, catalog, billing, logger)
	entUC := usecase.NewEntitlementUseCase(subUC, catalog, statsCache, logger)

	// ---- HTTP server ----
	metrics.MustRegister()
	srv := web.NewServer(cfg, logger, authUC, subUC, entUC)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server stopped")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
	case <-ctx.Done():
	}
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
	}
}
