package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	httpapi "github.com/i474232898/city-recipes/internal/api/http"
	"github.com/i474232898/city-recipes/internal/city"
	"github.com/i474232898/city-recipes/internal/city/upstream"
	"github.com/i474232898/city-recipes/internal/config"
	"github.com/i474232898/city-recipes/internal/logger"
	"github.com/i474232898/city-recipes/internal/scheduler"
	"github.com/i474232898/city-recipes/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	// Shared HTTP client for outbound upstream calls.
	httpClient := &http.Client{
		Timeout: cfg.UpstreamTimeout,
	}

	client := upstream.NewClient(httpClient, upstream.Config{
		BaseURL:    cfg.UpstreamBaseURL,
		APIKey:     cfg.APIKey,
		MaxRetries: cfg.UpstreamMaxRetries,
		CacheTTL:   cfg.UpstreamCacheTTL,
	}, log)

	// Recipes live for the process lifetime only.
	recipes := store.NewMemoryStore(store.NewSequence())

	service := city.NewService(client, recipes, city.WithLogger(log))

	sched := scheduler.New(cfg.MaintenanceInterval, client, recipes, log)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	app := httpapi.NewApp(service, httpapi.Options{
		Logger:       log,
		RateLimiter:  limiter,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 10*time.Second,
	})

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("listening")
		if err := app.Listen(cfg.Addr()); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}
