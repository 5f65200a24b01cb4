package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/cancerguard-api/internal/config"
	"github.com/jwalitptl/cancerguard-api/internal/repository/postgres"
	"github.com/jwalitptl/cancerguard-api/internal/router"
	"github.com/jwalitptl/cancerguard-api/internal/session"
	"github.com/jwalitptl/cancerguard-api/internal/storage"
	"github.com/jwalitptl/cancerguard-api/internal/textgen"
	"github.com/jwalitptl/cancerguard-api/pkg/logger"
	"github.com/jwalitptl/cancerguard-api/pkg/metrics"
	"github.com/jwalitptl/cancerguard-api/pkg/security"
	"github.com/jwalitptl/cancerguard-api/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.New(&logger.Config{
		Level:   logger.ParseLevel(cfg.Log.Level),
		Console: !cfg.IsProduction(),
	})
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	ctx := context.Background()

	// Initialize database
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("failed to apply schema")
		}
		log.Info().Msg("database schema applied")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New("cancerguard", reg)

	sessionStore, closeStore := newSessionStore(ctx, cfg.Session)
	defer closeStore()

	gen := textgen.New(textgen.Config{
		APIKey:  cfg.Gemini.APIKey,
		BaseURL: cfg.Gemini.BaseURL,
		Model:   cfg.Gemini.Model,
		Timeout: cfg.Gemini.Timeout,
	}, m)
	if !gen.Available() {
		log.Warn().Msg("GEMINI_API_KEY not set, text generation runs in fallback mode")
	}

	deps := router.Dependencies{
		Storage: storage.NewPostgres(db),
		TextGen: gen,
		Sessions: session.NewManager(sessionStore, session.NewCodec(cfg.Session.Secret), session.Options{
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.IsProduction(),
		}, m),
		Hasher:  security.NewBcryptHasher(0),
		Metrics: m,
	}
	if cfg.Metrics.Enabled {
		deps.Gatherer = reg
	}

	r := router.Build(deps, router.Config{
		CORSOrigins:    cfg.Server.CORSOrigins,
		TrustedProxies: cfg.Server.TrustedProxies,
		RateLimit:      cfg.RateLimit.Enabled,
		RateRPS:        cfg.RateLimit.RPS,
		RateBurst:      cfg.RateLimit.Burst,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		MetricsPath:    cfg.Metrics.Path,
		Production:     cfg.IsProduction(),
	})

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("env", cfg.Env).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

// newSessionStore uses Redis when configured, else process memory.
func newSessionStore(ctx context.Context, cfg config.SessionConfig) (session.Store, func()) {
	if cfg.RedisURL == "" {
		return session.NewMemoryStore(cfg.TTL), func() {}
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	store, err := session.NewRedisStore(pingCtx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	log.Info().Msg("using Redis session store")
	return store, func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close Redis")
		}
	}
}
