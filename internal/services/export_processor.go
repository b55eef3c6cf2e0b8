package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"huku/internal/core"
	"huku/internal/sheets"
	"huku/internal/storage"
)

// ExportProcessorConfig holds configuration for the export processor
type ExportProcessorConfig struct {
	// PollInterval is how often to scan for pending sales (default: 30s)
	PollInterval time.Duration

	// BatchSize is the max number of sales exported per cycle (default: 10)
	BatchSize int
}

func DefaultExportProcessorConfig() ExportProcessorConfig {
	return ExportProcessorConfig{
		PollInterval: 30 * time.Second,
		BatchSize:    10,
	}
}

// ExportProcessor sweeps unsent sales from SQLite into the spreadsheet.
// It backs up the AMQP path, so a lost message only delays an export.
type ExportProcessor struct {
	storage *storage.SQLiteRepository
	writer  sheets.SaleWriter
	config  ExportProcessorConfig

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewExportProcessor(storage *storage.SQLiteRepository, writer sheets.SaleWriter, config ExportProcessorConfig) *ExportProcessor {
	return &ExportProcessor{
		storage: storage,
		writer:  writer,
		config:  config,
	}
}

// Start begins the processing loop. Returns an error if already running.
func (p *ExportProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("export processor is already running")
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	p.mu.Unlock()

	go p.runLoop(ctx)

	slog.InfoContext(ctx, "Export processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize)

	return nil
}

// Stop signals the loop and waits for it to finish or the context to
// expire.
func (p *ExportProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	close(p.stopCh)

	select {
	case <-p.doneCh:
		slog.InfoContext(ctx, "Export processor stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Export processor stop timed out")
		return ctx.Err()
	}

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
	return nil
}

func (p *ExportProcessor) runLoop(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	// First sweep right away so a restart drains the backlog.
	if err := p.ProcessPending(ctx); err != nil {
		slog.ErrorContext(ctx, "Pending export sweep failed", "error", err)
	}

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Pending export sweep failed", "error", err)
			}
		}
	}
}

// ProcessPending exports up to BatchSize unsent sales.
func (p *ExportProcessor) ProcessPending(ctx context.Context) error {
	pending, err := p.storage.PendingExportSales(ctx, p.config.BatchSize)
	if err != nil {
		return fmt.Errorf("list pending sales: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Exporting pending sales", "count", len(pending))

	var errCount int
	for _, sale := range pending {
		if err := p.ExportSale(ctx, sale); err != nil {
			slog.ErrorContext(ctx, "Failed to export sale",
				"sale_id", sale.ID, "error", err)
			errCount++
		}
	}
	if errCount > 0 {
		return fmt.Errorf("%d of %d pending sales failed to export", errCount, len(pending))
	}
	return nil
}

// ExportSale pushes one sale to the spreadsheet and records the outcome
// on the sales row.
func (p *ExportProcessor) ExportSale(ctx context.Context, sale core.Sale) error {
	row, err := p.buildRow(ctx, sale)
	if err != nil {
		p.markError(ctx, sale.ID)
		return err
	}

	ref, err := p.writer.Append(ctx, row)
	if err != nil {
		p.markError(ctx, sale.ID)
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := p.storage.MarkSaleSynced(ctx, sale.ID); err != nil {
		// The export itself worked, the flag catches up on the next sweep.
		slog.ErrorContext(ctx, "Failed to mark sale as synced",
			"sale_id", sale.ID, "error", err)
	}

	slog.InfoContext(ctx, "Sale exported",
		"sale_id", sale.ID,
		"sheets_ref", ref,
		"total_cents", sale.Total.Cents)
	return nil
}

func (p *ExportProcessor) buildRow(ctx context.Context, sale core.Sale) (sheets.SaleRow, error) {
	batch, err := p.storage.GetBatch(ctx, sale.BatchID)
	if err != nil {
		return sheets.SaleRow{}, fmt.Errorf("get batch for sale %d: %w", sale.ID, err)
	}

	// Clients with sales cannot be deleted, so a missing client means the
	// database was edited out-of-band and the row goes to sync_error.
	client, err := p.storage.GetClient(ctx, sale.ClientID)
	if err != nil {
		return sheets.SaleRow{}, fmt.Errorf("get client for sale %d: %w", sale.ID, err)
	}

	return sheets.SaleRow{
		Date:       sale.Date.String(),
		BatchName:  batch.Name,
		ClientName: client.Name,
		SaleType:   string(sale.Type),
		Quantity:   sale.Quantity,
		UnitPrice:  sale.Price.Amount(),
		Total:      sale.Total.Amount(),
	}, nil
}

func (p *ExportProcessor) markError(ctx context.Context, saleID int64) {
	if err := p.storage.MarkSaleSyncError(ctx, saleID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark sale sync error",
			"sale_id", saleID, "error", err)
	}
}
