// Command server starts the candidate ranking HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ai "github.com/hirestack/candidate-ranker/internal/adapter/ai"
	"github.com/hirestack/candidate-ranker/internal/adapter/ai/openai"
	httpserver "github.com/hirestack/candidate-ranker/internal/adapter/httpserver"
	"github.com/hirestack/candidate-ranker/internal/adapter/invalidation"
	"github.com/hirestack/candidate-ranker/internal/adapter/observability"
	"github.com/hirestack/candidate-ranker/internal/adapter/repo/postgres"
	"github.com/hirestack/candidate-ranker/internal/app"
	"github.com/hirestack/candidate-ranker/internal/config"
	"github.com/hirestack/candidate-ranker/internal/domain"
	"github.com/hirestack/candidate-ranker/internal/similarity"
	"github.com/hirestack/candidate-ranker/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	// Infra: DB pool
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// Repositories
	candidateRepo := postgres.NewCandidateRepo(pool)
	jobRepo := postgres.NewJobRepo(pool)

	// Embedding client with cache wrapper (caches vectors only)
	embedder := ai.NewEmbedCache(openai.New(cfg), cfg.EmbedCacheSize)

	// Scoring engine
	engine := similarity.NewEngine(candidateRepo, jobRepo, embedder)

	// Cross-replica cache invalidation over Redis, when configured
	var broadcaster *invalidation.RedisBroadcaster
	if cfg.RedisURL != "" {
		broadcaster, err = invalidation.New(cfg.RedisURL, cfg.InvalidationChannel)
		if err != nil {
			slog.Error("redis connect failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = broadcaster.Close() }()
		go broadcaster.Subscribe(ctx, func(jobID string) {
			if jobID == "" {
				engine.EvictAll()
				return
			}
			engine.Evict(jobID)
		})
		slog.Info("cache invalidation enabled", slog.String("channel", cfg.InvalidationChannel))
	}

	// A nil *RedisBroadcaster must not end up as a non-nil invalidator
	// interface.
	var invalidator domain.CacheInvalidator
	if broadcaster != nil {
		invalidator = broadcaster
	}
	rankSvc := usecase.NewRankService(engine, candidateRepo, invalidator, cfg.RankPoolLimit)

	// Readiness checks
	var redisPinger app.Pinger
	if broadcaster != nil {
		redisPinger = broadcaster
	}
	dbCheck, redisCheck := app.BuildReadinessChecks(pool, redisPinger)

	// HTTP server
	srv := httpserver.NewServer(cfg, rankSvc, dbCheck, redisCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancelShutdown()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
