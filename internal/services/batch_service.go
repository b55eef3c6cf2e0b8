// Package services orchestrates the domain operations across storage,
// AMQP, and the spreadsheet export.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"huku/internal/core"
	"huku/internal/ledger"
)

// ErrMortalityExceedsFlock is returned when a mortality record would push
// cumulative deaths past the batch's initial chick count.
var ErrMortalityExceedsFlock = errors.New("cumulative mortality exceeds initial chicks")

// BatchService owns the batch lifecycle and its attached records.
type BatchService struct {
	store ledger.Store
}

func NewBatchService(store ledger.Store) *BatchService {
	return &BatchService{store: store}
}

func (s *BatchService) CreateBatch(ctx context.Context, b core.Batch) (int64, error) {
	if b.Status == "" {
		b.Status = core.StatusActive
	}
	if err := b.Validate(); err != nil {
		return 0, fmt.Errorf("validate batch: %w", err)
	}
	return s.store.CreateBatch(ctx, b)
}

func (s *BatchService) GetBatch(ctx context.Context, id int64) (core.Batch, error) {
	return s.store.GetBatch(ctx, id)
}

func (s *BatchService) ListBatches(ctx context.Context) ([]core.Batch, error) {
	return s.store.ListBatches(ctx)
}

func (s *BatchService) ListActiveBatches(ctx context.Context) ([]core.Batch, error) {
	return s.store.ListBatchesByStatus(ctx, core.StatusActive)
}

func (s *BatchService) SearchBatches(ctx context.Context, name string) ([]core.Batch, error) {
	return s.store.FindBatchesByName(ctx, name)
}

// UpdateBatch rewrites a batch's fields. Shrinking the flock below the
// mortality already on record would break the cumulative-deaths cap, so
// that edit is rejected.
func (s *BatchService) UpdateBatch(ctx context.Context, b core.Batch) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("validate batch: %w", err)
	}

	sum, err := s.store.SumMortality(ctx, b.ID)
	if err != nil {
		return fmt.Errorf("sum mortality: %w", err)
	}
	if b.InitialChicks < sum {
		return fmt.Errorf("%w: recorded %d, flock %d",
			ErrMortalityExceedsFlock, sum, b.InitialChicks)
	}

	return s.store.UpdateBatchFields(ctx, b)
}

func (s *BatchService) CompleteBatch(ctx context.Context, id int64) error {
	return s.store.UpdateBatchStatus(ctx, id, core.StatusCompleted)
}

// CompleteElapsedBatches marks active batches whose 42-day cycle has run
// out as completed. Returns the number of batches rolled over.
func (s *BatchService) CompleteElapsedBatches(ctx context.Context, now time.Time) (int, error) {
	active, err := s.store.ListBatchesByStatus(ctx, core.StatusActive)
	if err != nil {
		return 0, fmt.Errorf("list active batches: %w", err)
	}

	completed := 0
	for _, b := range active {
		if !b.CycleElapsed(now) {
			continue
		}
		if err := s.store.UpdateBatchStatus(ctx, b.ID, core.StatusCompleted); err != nil {
			slog.ErrorContext(ctx, "Failed to complete elapsed batch",
				"batch_id", b.ID, "error", err)
			continue
		}
		slog.InfoContext(ctx, "Batch cycle elapsed, marked completed",
			"batch_id", b.ID, "name", b.Name)
		completed++
	}
	return completed, nil
}

func (s *BatchService) AddFeedPurchase(ctx context.Context, f core.FeedPurchase) (int64, error) {
	if err := f.Validate(); err != nil {
		return 0, fmt.Errorf("validate feed purchase: %w", err)
	}
	if _, err := s.store.GetBatch(ctx, f.BatchID); err != nil {
		return 0, err
	}
	return s.store.AddFeedPurchase(ctx, f)
}

func (s *BatchService) ListFeedPurchases(ctx context.Context, batchID int64) ([]core.FeedPurchase, error) {
	return s.store.ListFeedPurchases(ctx, batchID)
}

// RecordMortality persists a mortality event after checking cumulative
// deaths stay within the flock size.
func (s *BatchService) RecordMortality(ctx context.Context, m core.MortalityEvent) (int64, error) {
	if err := m.Validate(); err != nil {
		return 0, fmt.Errorf("validate mortality event: %w", err)
	}

	batch, err := s.store.GetBatch(ctx, m.BatchID)
	if err != nil {
		return 0, err
	}

	sum, err := s.store.SumMortality(ctx, m.BatchID)
	if err != nil {
		return 0, fmt.Errorf("sum mortality: %w", err)
	}
	if sum+m.Quantity > batch.InitialChicks {
		return 0, fmt.Errorf("%w: recorded %d, adding %d, flock %d",
			ErrMortalityExceedsFlock, sum, m.Quantity, batch.InitialChicks)
	}

	return s.store.RecordMortality(ctx, m)
}

func (s *BatchService) ListMortality(ctx context.Context, batchID int64) ([]core.MortalityEvent, error) {
	return s.store.ListMortality(ctx, batchID)
}

func (s *BatchService) AddExpense(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, fmt.Errorf("validate expense: %w", err)
	}
	if _, err := s.store.GetBatch(ctx, e.BatchID); err != nil {
		return 0, err
	}
	return s.store.AddExpense(ctx, e)
}

func (s *BatchService) ListExpenses(ctx context.Context, batchID int64) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx, batchID)
}
