package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"unitime-backend/internal/ai"
	"unitime-backend/internal/api"
	"unitime-backend/internal/auth"
	"unitime-backend/internal/blob"
	"unitime-backend/internal/chat"
	"unitime-backend/internal/config"
	"unitime-backend/internal/health"
	"unitime-backend/internal/platform/logger"
	"unitime-backend/internal/store"
	"unitime-backend/internal/store/postgres"
	"unitime-backend/internal/store/sqlite"
)

func main() {
	// Optional build-target flag override (local | cloud)
	buildTarget := flag.String("build-target", "", "Override BUILD_TARGET (local, cloud)")
	flag.Parse()

	// Local dev convenience; absent .env is fine.
	_ = godotenv.Load()

	log := logger.New("unitime-service")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *buildTarget != "" {
		cfg.BuildTarget = *buildTarget
		if err := cfg.ResolveDefaults(); err != nil {
			log.Fatal().Err(err).Msg("Invalid build-target override")
		}
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("UniTime service starting…")

	ctx, cancelMonitors := context.WithCancel(context.Background())
	defer cancelMonitors()

	// -------- Storage layer -----------------
	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Storage unavailable")
	}

	// -------- Health monitor ---------------
	storeChecker := store.NewStoreHealthChecker(st, log, 2*time.Second)
	serviceChecker := health.NewServiceChecker(log, storeChecker)
	go storeChecker.Start(ctx, 30*time.Second)
	go serviceChecker.Start(ctx, 30*time.Second)

	// -------- Object store -----------------
	uploader, err := blob.NewUploader(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Blob driver unavailable")
	}

	// -------- AI provider ------------------
	var provider ai.Provider
	if cfg.GeminiAPIKey != "" {
		candidates := make([]ai.Provider, 0, len(ai.DefaultCandidates))
		for _, model := range ai.DefaultCandidates {
			candidates = append(candidates, ai.NewGeminiProvider(cfg.GeminiBase, cfg.GeminiAPIKey, model))
		}
		provider = ai.NewFallback(candidates...)
	} else {
		log.Warn().Msg("UNITIME_GEMINI_API_KEY not set; /api/analyze will return errors")
	}

	// -------- Router & Server --------------
	router := api.NewRouter(api.Deps{
		Store:     st,
		AI:        provider,
		Blob:      uploader,
		Chat:      chat.NewResponder(time.Duration(cfg.ChatDelayMs) * time.Millisecond),
		Auth:      auth.NewVerifier(cfg.JWTSecret),
		IsHealthy: serviceChecker.IsHealthy,
	})
	server := &http.Server{
		Addr:         cfg.GetHTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server…")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// openStore builds the configured store driver and runs its bootstrap.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Bootstrap(ctx, db); err != nil {
			return nil, err
		}
		return sqlite.NewWithDB(db), nil
	case "postgres":
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.Bootstrap(ctx, cfg.PostgresDSN); err != nil {
			return nil, err
		}
		return postgres.NewWithDB(db), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.DBDriver)
	}
}
