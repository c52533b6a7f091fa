// Package main запускает HTTP-сервер магазина спортивных товаров.
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

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/gymstore/internal/cache"
	"github.com/mmeshcher/gymstore/internal/config"
	"github.com/mmeshcher/gymstore/internal/events"
	"github.com/mmeshcher/gymstore/internal/handler"
	"github.com/mmeshcher/gymstore/internal/payment"
	"github.com/mmeshcher/gymstore/internal/repository"
	"github.com/mmeshcher/gymstore/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}
	if cfg.DatabaseURI == "" {
		sugar.Fatal("database URI is required (-d or DATABASE_URI)")
	}

	repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}

	deps := service.Deps{
		Logger:         logger,
		UploadsBaseURL: cfg.UploadsBaseURL,
	}

	if cfg.RedisAddr != "" {
		catalogCache, err := cache.NewCatalogCache(cfg.RedisAddr, cfg.CatalogCacheTTL)
		if err != nil {
			sugar.Warnw("catalog cache disabled", "error", err.Error())
		} else {
			defer catalogCache.Close()
			deps.Cache = catalogCache
		}
	}

	if cfg.NatsURL != "" {
		publisher, err := events.Connect(cfg.NatsURL, logger, 3, 2*time.Second)
		if err != nil {
			sugar.Warnw("order events disabled", "error", err.Error())
		} else {
			defer publisher.Close()
			deps.Publisher = publisher
		}
	}

	if cfg.PaymentsEnabled() {
		deps.Payments = payment.NewClient(cfg.PaymentAPIURL, cfg.PaymentSecretKey)
	} else {
		sugar.Info("payment provider is not configured, payment intents are disabled")
	}

	svc := service.NewService(repo, deps)
	defer svc.Close()

	h := handler.NewHandler(svc, logger)

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           h.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting gymstore server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Errorw("application terminated with error", "error", err)
	}
}
