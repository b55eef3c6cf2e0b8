package services

import (
	"context"
	"fmt"
	"log/slog"

	"huku/internal/core"
	"huku/internal/ledger"
)

// ExportPublisher enqueues a sale for the spreadsheet export worker.
// Satisfied by the AMQP client.
type ExportPublisher interface {
	PublishSaleExport(ctx context.Context, saleID int64) error
}

// SaleService records sales and client bookkeeping. The sale total is
// computed once at insert and never recomputed from later price edits.
type SaleService struct {
	store     ledger.Store
	publisher ExportPublisher
}

func NewSaleService(store ledger.Store, publisher ExportPublisher) *SaleService {
	return &SaleService{store: store, publisher: publisher}
}

func (s *SaleService) AddSale(ctx context.Context, sale core.Sale) (int64, error) {
	if err := sale.Validate(); err != nil {
		return 0, fmt.Errorf("validate sale: %w", err)
	}
	if _, err := s.store.GetBatch(ctx, sale.BatchID); err != nil {
		return 0, err
	}
	if _, err := s.store.GetClient(ctx, sale.ClientID); err != nil {
		return 0, err
	}

	sale.Total = sale.ComputedTotal()

	id, err := s.store.AddSale(ctx, sale)
	if err != nil {
		return 0, err
	}

	// The sale is committed locally either way, export rides behind it.
	if s.publisher != nil {
		if err := s.publisher.PublishSaleExport(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish sale export message",
				"sale_id", id, "error", err)
		}
	} else {
		slog.WarnContext(ctx, "Export publisher not available, sale will sync via pending sweep",
			"sale_id", id)
	}

	return id, nil
}

func (s *SaleService) ListSales(ctx context.Context, batchID int64) ([]core.Sale, error) {
	return s.store.ListSales(ctx, batchID)
}

func (s *SaleService) ListSalesByClient(ctx context.Context, clientID int64) ([]core.Sale, error) {
	return s.store.ListSalesByClient(ctx, clientID)
}

func (s *SaleService) AddClient(ctx context.Context, c core.Client) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, fmt.Errorf("validate client: %w", err)
	}
	return s.store.AddClient(ctx, c)
}

func (s *SaleService) ListClients(ctx context.Context) ([]core.Client, error) {
	return s.store.ListClients(ctx)
}

func (s *SaleService) GetClient(ctx context.Context, id int64) (core.Client, error) {
	return s.store.GetClient(ctx, id)
}

func (s *SaleService) DeleteClient(ctx context.Context, id int64) error {
	return s.store.DeleteClient(ctx, id)
}

// ClientSummary is a client's lifetime purchase record.
type ClientSummary struct {
	Client core.Client
	Sales  int
	Total  core.Money
}

func (s *SaleService) SummarizeClient(ctx context.Context, clientID int64) (ClientSummary, error) {
	client, err := s.store.GetClient(ctx, clientID)
	if err != nil {
		return ClientSummary{}, err
	}
	sales, err := s.store.ListSalesByClient(ctx, clientID)
	if err != nil {
		return ClientSummary{}, err
	}
	total, err := s.store.SumSalesByClient(ctx, clientID)
	if err != nil {
		return ClientSummary{}, err
	}
	return ClientSummary{Client: client, Sales: len(sales), Total: total}, nil
}
