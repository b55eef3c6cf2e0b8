// Package worker drives the sale export from AMQP messages, with a
// startup sweep to recover anything missed while the worker was down.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"huku/internal/amqp"
	"huku/internal/services"
	"huku/internal/storage"
)

type ExportWorker struct {
	storage   *storage.SQLiteRepository
	processor *services.ExportProcessor
	batchSize int
}

func NewExportWorker(storage *storage.SQLiteRepository, processor *services.ExportProcessor, batchSize int) *ExportWorker {
	return &ExportWorker{
		storage:   storage,
		processor: processor,
		batchSize: batchSize,
	}
}

// HandleExportMessage processes a single sale export message from AMQP.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.SaleExportMessage) error {
	slog.InfoContext(ctx, "Processing export message", "sale_id", msg.SaleID)

	sale, err := w.storage.GetSaleByID(ctx, msg.SaleID)
	if err != nil {
		return fmt.Errorf("get sale from storage: %w", err)
	}

	if err := w.processor.ExportSale(ctx, sale); err != nil {
		return fmt.Errorf("export sale: %w", err)
	}
	return nil
}

// StartupSyncCheck drains sales that were recorded while the worker was
// down or whose messages were lost.
func (w *ExportWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.PendingExportSales(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending sales for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending sales found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending sales on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, sale := range pending {
		if err := w.processor.ExportSale(ctx, sale); err != nil {
			slog.ErrorContext(ctx, "Failed to export sale during startup",
				"sale_id", sale.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}
