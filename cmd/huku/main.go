package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"huku/internal/amqp"
	"huku/internal/cli"
	apphttp "huku/internal/http"
	"huku/internal/log"
	"huku/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentHTTP)

	logger.Info("Starting huku API server")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// Sale exports ride over AMQP to the export worker. The API still runs
	// without a broker, the pending sweep picks up unsent sales later.
	var exportPublisher services.ExportPublisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPExportQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, sale exports deferred to pending sweep", "error", err)
	} else {
		defer amqpClient.Close()
		exportPublisher = amqpClient
	}

	batches := services.NewBatchService(repo)
	sales := services.NewSaleService(repo, exportPublisher)
	finance := services.NewFinanceService(repo)
	reports := services.NewReportService(repo)
	reminders := services.NewReminderService(repo, nil)

	srv := apphttp.NewServer(":"+cfg.Port, batches, sales, finance, reports, reminders)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	go func() {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
