package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/productscraper/backend/config"
	httpDelivery "github.com/productscraper/backend/internal/delivery/http"
	"github.com/productscraper/backend/internal/domain"
	"github.com/productscraper/backend/internal/infrastructure/ratelimit"
	"github.com/productscraper/backend/internal/infrastructure/timer"
	"github.com/productscraper/backend/internal/logger"
	"github.com/productscraper/backend/internal/monitoring"
	"github.com/productscraper/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	zl.Info("starting product scraper backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.Int("batch_max_items", cfg.Batch.MaxItems),
		zap.String("ratelimit_store", cfg.RateLimit.Store))

	metrics := monitoring.NewMetrics()

	limiter, closeLimiter, err := newRateLimitStore(cfg)
	if err != nil {
		zl.Fatal("failed to initialize rate limiter", zap.Error(err))
	}
	defer closeLimiter.Close()

	// Initialize usecase layer
	delayer := timer.NewDelayer()
	classifier := usecase.NewSiteClassifier(domain.DefaultURLPatterns())
	builder := usecase.NewTemplateBuilder()

	dispatcher := usecase.NewBatchDispatcher(
		classifier,
		builder,
		delayer,
		metrics,
		zl.Named("batch"),
		usecase.BatchDispatcherConfig{
			MaxItems:  cfg.Batch.MaxItems,
			ItemDelay: cfg.Batch.ItemDelay,
		},
	)
	scraper := usecase.NewScrapeService(
		builder,
		delayer,
		zl.Named("scrape"),
		usecase.ScrapeServiceConfig{Delay: cfg.Scrape.Delay},
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(
		classifier,
		dispatcher,
		scraper,
		metrics,
		zl.Named("http"),
		httpDelivery.HandlerConfig{Environment: cfg.Server.Environment},
	)
	router := httpDelivery.SetupRouter(cfg, handler, limiter)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zl.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("could not start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
	}

	zl.Info("server exiting")
}

// newRateLimitStore selects the limiter backend from configuration
func newRateLimitStore(cfg *config.Config) (domain.RateLimitStore, io.Closer, error) {
	switch cfg.RateLimit.Store {
	case "redis":
		client, err := ratelimit.NewRedisClient(cfg.RateLimit.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		store := ratelimit.NewRedisStore(client, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		return store, store, nil
	default:
		store := ratelimit.NewMemoryStore(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
		return store, store, nil
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
