package main

import (
	"context"
	"errors"
	"time"

	"huku/internal/amqp"
	"huku/internal/cli"
	"huku/internal/config"
	"huku/internal/log"
	"huku/internal/services"
	gsheet "huku/internal/sheets/google"
	"huku/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)

	logger.Info("Starting huku-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// Google Sheets export target is optional. Without it the worker has
	// nothing to deliver to, so it idles on the queue.
	var sheetsClient *gsheet.Client
	if cfg.SheetsConfigured() {
		var err error
		sheetsClient, err = gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			return
		}
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPExportQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		return
	}
	defer amqpClient.Close()

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	if sheetsClient == nil {
		logger.Info("Skipping export operations - no Sheets client available")
		cli.WaitForShutdown(ctx, done)
		return
	}

	processor := services.NewExportProcessor(repo, sheetsClient, services.ExportProcessorConfig{
		PollInterval: cfg.ExportInterval,
		BatchSize:    cfg.ExportBatchSize,
	})
	exportWorker := worker.NewExportWorker(repo, processor, cfg.ExportBatchSize)

	// On startup, drain any sales that were recorded while the worker was down.
	logger.Info("Performing startup export check...")
	if err := exportWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup export check", "error", err)
		// Don't exit - continue with normal operation
	}

	// Periodic sweep backs up the message path for anything that got lost.
	if err := processor.Start(ctx); err != nil {
		logger.Error("Failed to start export processor", "error", err)
		return
	}
	defer stopProcessor(logger, processor)

	go consumeLoop(ctx, logger, cfg, exportWorker, amqpClient)

	cli.WaitForShutdown(ctx, done)
}

// consumeLoop keeps the AMQP consumer alive across broker restarts,
// reconnecting with exponential backoff on connection errors.
func consumeLoop(ctx context.Context, logger *log.Logger, cfg *config.Config, exportWorker *worker.ExportWorker, client *amqp.Client) {
	attempt := 0
	for {
		err := client.ConsumeSaleExports(ctx, func(msg *amqp.SaleExportMessage) error {
			return exportWorker.HandleExportMessage(ctx, msg)
		})
		if err == nil || errors.Is(err, context.Canceled) {
			return
		}
		if !amqp.IsConnectionError(err) {
			logger.Error("Message consumption failed", "error", err)
			return
		}

		attempt++
		delay := amqp.ExponentialBackoff(attempt)
		logger.Warn("AMQP connection lost, reconnecting", "attempt", attempt, "delay", delay.String())
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		fresh, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPExportQueue)
		if err != nil {
			logger.Error("AMQP reconnect failed", "error", err, "attempt", attempt)
			continue
		}
		_ = client.Close()
		client = fresh
		attempt = 0
	}
}

func stopProcessor(logger *log.Logger, processor *services.ExportProcessor) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := processor.Stop(ctx); err != nil {
		logger.Error("Export processor stop error", "error", err)
	}
}
