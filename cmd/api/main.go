package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/octobees/leads-manager/internal/cache"
	"github.com/octobees/leads-manager/internal/config"
	"github.com/octobees/leads-manager/internal/database"
	"github.com/octobees/leads-manager/internal/handler"
	"github.com/octobees/leads-manager/internal/logging"
	"github.com/octobees/leads-manager/internal/repository"
	"github.com/octobees/leads-manager/internal/router"
	"github.com/octobees/leads-manager/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	logger := logging.New(cfg.App.LogLevel, cfg.App.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo repository.LeadsRepository
	if cfg.Storage.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			logger.Fatalf("failed to connect database: %v", err)
		}
		defer pool.Close()
		if err := database.Migrate(ctx, pool); err != nil {
			logger.Fatalf("failed to migrate database: %v", err)
		}
		repo = repository.NewPGXLeadsRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, leads are kept in memory")
		repo = repository.NewMemoryLeadsRepository()
	}

	opts := []service.LeadsServiceOption{service.WithLogger(logger)}
	if cfg.Storage.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cfg.Storage.RedisURL)
		if err != nil {
			logger.Fatalf("failed to connect redis: %v", err)
		}
		defer rdb.Close()
		opts = append(opts, service.WithCache(cache.NewRedisLeadCache(rdb, cfg.Storage.CacheTTL)))
	}

	leadsService := service.NewLeadsService(repo, service.NewEnricher(cfg.Enrichment.PhoneRegion), opts...)

	e := router.New(cfg, logger, router.Handlers{
		Leads:  handler.NewLeadsHandler(leadsService),
		Import: handler.NewImportHandler(leadsService),
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("port", cfg.HTTP.Port).Info("starting leads api")
		serverErr <- e.Start(":" + cfg.HTTP.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Infof("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}
