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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/cofre-app/cofre/internal/app"
	"github.com/cofre-app/cofre/internal/auth"
	"github.com/cofre-app/cofre/internal/observability"
	"github.com/cofre-app/cofre/internal/pages"
	"github.com/cofre-app/cofre/internal/platform/cache"
	"github.com/cofre-app/cofre/internal/platform/upstream"
	"github.com/cofre-app/cofre/internal/summary"
	"github.com/cofre-app/cofre/internal/upload"
	"github.com/cofre-app/cofre/internal/view"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	client := upstream.New(cfg.APIBaseURL, cfg.UpstreamTimeout)

	var responses *cache.ResponseCache
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, summary cache disabled", slog.Any("error", err))
	} else {
		responses = cache.NewResponseCache(redisClient, cfg.SummaryCacheTTL)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		Client:         client,
		AuthHandler:    auth.NewHandler(logger, client, cfg.AuthCookieTTL, cfg.IsProduction()),
		UploadHandler:  upload.NewHandler(logger, client),
		SummaryHandler: summary.NewHandler(logger, client, responses),
		PagesHandler:   pages.NewHandler(logger, templates, client, cfg.DefaultPageSize),
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
