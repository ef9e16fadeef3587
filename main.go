package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrops-br/store-api/internal/app/service"
	"github.com/mrops-br/store-api/internal/domain"
	"github.com/mrops-br/store-api/internal/infrastructure/config"
	"github.com/mrops-br/store-api/internal/infrastructure/database"
	"github.com/mrops-br/store-api/internal/infrastructure/http"
	"github.com/mrops-br/store-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/store-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/store-api/internal/infrastructure/repository/mongodb"
	"github.com/mrops-br/store-api/internal/infrastructure/telemetry"
	"github.com/mrops-br/store-api/internal/pkg/clock"
	"go.opentelemetry.io/otel/trace"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var telem *telemetry.Telemetry
	if cfg.OTLP.Enabled {
		telem, err = telemetry.NewTelemetry(&cfg.OTLP)
	} else {
		telem, err = telemetry.NewNoOpTelemetry(&cfg.OTLP)
	}
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	tracer := telem.TracerProvider.Tracer(cfg.OTLP.ServiceName)
	meter := telem.MeterProvider.Meter(cfg.OTLP.ServiceName)
	logger := telem.Logger

	logger.Info("Starting "+cfg.ProjectName, slog.String("store_backend", cfg.Database.Backend))

	repo, closeRepo, err := newRepository(ctx, cfg, tracer, logger)
	if err != nil {
		logger.Error("Failed to initialize repository", slog.String("error", err.Error()))
		return
	}
	defer closeRepo()

	productService := service.NewProductService(repo, clock.RealClock{}, tracer, meter, logger)
	productHandler := handler.NewProductHandler(productService, logger)
	server := http.NewServer(cfg, productHandler, telem)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("Server stopped")
}

// newRepository builds the configured product store and a func releasing it
func newRepository(ctx context.Context, cfg *config.Config, tracer trace.Tracer, logger *slog.Logger) (domain.ProductRepository, func(), error) {
	if cfg.Database.Backend == "memory" {
		logger.Warn("Using in-memory product store; data is lost on restart")
		return memory.NewProductRepository(tracer, logger), func() {}, nil
	}

	client, err := database.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	closeClient := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Error("Failed to disconnect from MongoDB", slog.String("error", err.Error()))
		}
	}

	repo := mongodb.NewProductRepository(client.Database(), tracer, logger)
	if err := repo.EnsureIndexes(ctx); err != nil {
		closeClient()
		return nil, nil, err
	}
	return repo, closeClient, nil
}
