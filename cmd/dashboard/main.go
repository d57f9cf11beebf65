package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/wildfire-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/wildfire-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/wildfire-dashboard/internal/adapter/source"
	"github.com/couchcryptid/wildfire-dashboard/internal/chart"
	"github.com/couchcryptid/wildfire-dashboard/internal/config"
	"github.com/couchcryptid/wildfire-dashboard/internal/dashboard"
	"github.com/couchcryptid/wildfire-dashboard/internal/domain"
	"github.com/couchcryptid/wildfire-dashboard/internal/observability"
	"github.com/couchcryptid/wildfire-dashboard/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The dataset is loaded once, before serving; a failed load is fatal.
	client := source.NewClient(cfg.DatasetSource, cfg.DatasetTimeout, logger)
	ds, err := pipeline.New(client, pipeline.DeriveCalendarFields, logger, metrics).Load(ctx)
	if err != nil {
		logger.Error("failed to load dataset", "source", cfg.DatasetSource, "error", err)
		os.Exit(1)
	}

	// Report publishing is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var (
		publisher dashboard.Publisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	defaults := domain.Selection{Region: cfg.DefaultRegion, Year: cfg.DefaultYear}
	svc := dashboard.NewService(ds, defaults, publisher, logger, metrics)

	charts := chart.Options{Width: cfg.ChartWidth, Height: cfg.ChartHeight}
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, charts, logger, metrics)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
