package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	cataloghandler "biblio/internal/catalog/handler"
	catalogservice "biblio/internal/catalog/service"
	catalogstore "biblio/internal/catalog/store"
	"biblio/internal/identity/credentials"
	identityhandler "biblio/internal/identity/handler"
	identityservice "biblio/internal/identity/service"
	sessionstore "biblio/internal/identity/store/session"
	userstore "biblio/internal/identity/store/user"
	"biblio/internal/platform/config"
	"biblio/internal/platform/logger"
	"biblio/internal/platform/metrics"
	"biblio/internal/platform/postgres"
	platformredis "biblio/internal/platform/redis"
	httptransport "biblio/internal/transport/http"
	"biblio/internal/web"
	"biblio/pkg/platform/audit"
)

// main wires the stores, services, and HTTP surface. Business logic stays in
// the internal packages; this file only selects backends and runs the server
// lifecycle.
func main() {
	cfg := config.FromEnv()
	log := logger.New(slog.LevelInfo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Error("migrations failed", "error", err)
			os.Exit(1)
		}
	}

	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var (
		users    userstore.Store    = userstore.NewInMemory()
		sessions sessionstore.Store = sessionstore.NewInMemory()
		catalog  catalogstore.Store = catalogstore.NewInMemory()
		auditLog audit.Store        = audit.NewInMemory()
	)
	if db != nil {
		users = userstore.NewPostgres(db)
		catalog = catalogstore.NewPostgres(db)
		auditLog = audit.NewPostgres(db)
	}
	if redisClient != nil {
		sessions = sessionstore.NewRedis(redisClient.Client)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	recorder := audit.NewRecorder(auditLog, log)
	hasher := credentials.NewHasher(cfg.ScryptN)

	identitySvc := identityservice.New(users, sessions, hasher, recorder, log, m, cfg.SessionTTL)
	catalogSvc := catalogservice.New(catalog, recorder, log, m)

	renderer, err := web.NewRenderer(log)
	if err != nil {
		log.Error("template setup failed", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Identity: identityhandler.New(identitySvc, renderer, cfg.SessionTTL, cfg.CookieSecure),
		Catalog:  cataloghandler.New(catalogSvc, renderer),
		Resolver: identitySvc,
		Renderer: renderer,
		Logger:   log,
		Metrics:  m,
		Registry: registry,
		Timeout:  30 * time.Second,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
