package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apphttp "mytrip_backend/internal/http"
	"mytrip_backend/internal/http/router"
	"mytrip_backend/internal/stats"
	"mytrip_backend/internal/tour"
	tourservice "mytrip_backend/internal/tour/service"
	"mytrip_backend/internal/tourapi"
	"mytrip_backend/platform/config"
	"mytrip_backend/platform/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const cacheKeyPrefix = "mytrip:tour:"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client, err := tourapi.NewFromConfig(cfg, log, tourapi.NewMetrics(registry))
	if err != nil {
		log.Error("failed to initialize tour API client", "error", err)
		panic("failed to initialize tour API client: " + err.Error())
	}
	log.Info("tour API client ready",
		"base_url", cfg.TourAPIBaseURL,
		"timeout", cfg.TourAPITimeout.String(),
		"max_attempts", cfg.TourAPIMaxAttempts,
		"breaker", cfg.TourAPIBreakerEnable,
		"fail_fast_auth", cfg.TourAPIFailFastAuth,
	)

	cache, health, closeCache := initCache(ctx, cfg, log)
	defer closeCache()

	// ========================================================================
	// Domain Modules
	// ========================================================================

	tourModule := tour.NewModule(client, cache, cfg, log, tourservice.NewMetrics(registry))
	statsModule := stats.NewModule(tourModule.Service(), log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Health:  health,
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Modules: []apphttp.Module{
			tourModule,
			statsModule,
		},
	}

	engine := router.New(app)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initCache returns the Redis cache when REDIS_URL is set, otherwise the
// in-memory cache. The health checker is nil for the in-memory cache.
func initCache(ctx context.Context, cfg config.CacheConfig, log *logger.Logger) (tourservice.Cache, apphttp.HealthChecker, func()) {
	if !cfg.IsRedisCacheEnabled() {
		log.Info("REDIS_URL not configured; using in-memory tour cache")
		return tourservice.NewMemoryCache(), nil, func() {}
	}

	connect := tourapi.RetryPolicy{
		MaxAttempts: 5,
		Backoff:     tourapi.ExponentialBackoff(2 * time.Second),
		OnRetry: func(attempt int, delay time.Duration, err error) {
			log.Warn("retryable operation failed", "operation", "redis connection", "attempt", attempt+1, "delay", delay.String(), "error", err)
		},
	}
	redisCache, err := tourapi.Retry(ctx, connect, func(ctx context.Context, _ int) (*tourservice.RedisCache, error) {
		return tourservice.DialRedisCache(ctx, cfg.GetRedisURL(), cacheKeyPrefix)
	})
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		panic("failed to connect to redis: " + err.Error())
	}

	return redisCache, redisCache, func() {
		_ = redisCache.Close()
	}
}
