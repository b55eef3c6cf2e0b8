// Package ledger defines the read/write boundary to the persisted batch,
// feed, mortality, sales, expense, client, and transaction records.
package ledger

import (
	"context"
	"errors"

	"huku/internal/core"
)

// ErrNotFound signals a missing entity at the storage boundary. Aggregates
// requiring the entity treat this as a precondition failure and compute
// nothing.
var ErrNotFound = errors.New("not found")

// ErrConflict signals a write the ledger refuses because other records
// still reference the entity, such as deleting a client with sales.
var ErrConflict = errors.New("conflict")

type (
	BatchReader interface {
		ListBatches(ctx context.Context) ([]core.Batch, error)
		ListBatchesByStatus(ctx context.Context, status core.BatchStatus) ([]core.Batch, error)
		FindBatchesByName(ctx context.Context, name string) ([]core.Batch, error)
		GetBatch(ctx context.Context, id int64) (core.Batch, error)
	}

	BatchWriter interface {
		CreateBatch(ctx context.Context, b core.Batch) (int64, error)
		UpdateBatchStatus(ctx context.Context, id int64, status core.BatchStatus) error
		UpdateBatchFields(ctx context.Context, b core.Batch) error
	}

	FeedStore interface {
		AddFeedPurchase(ctx context.Context, f core.FeedPurchase) (int64, error)
		ListFeedPurchases(ctx context.Context, batchID int64) ([]core.FeedPurchase, error)
	}

	MortalityStore interface {
		RecordMortality(ctx context.Context, m core.MortalityEvent) (int64, error)
		ListMortality(ctx context.Context, batchID int64) ([]core.MortalityEvent, error)
		SumMortality(ctx context.Context, batchID int64) (int, error)
	}

	SaleStore interface {
		AddSale(ctx context.Context, s core.Sale) (int64, error)
		ListSales(ctx context.Context, batchID int64) ([]core.Sale, error)
		ListSalesByClient(ctx context.Context, clientID int64) ([]core.Sale, error)
		SumSalesRevenue(ctx context.Context, batchID int64) (core.Money, error)
		SumSalesByClient(ctx context.Context, clientID int64) (core.Money, error)
		TotalRevenue(ctx context.Context) (core.Money, error)
	}

	ExpenseStore interface {
		AddExpense(ctx context.Context, e core.Expense) (int64, error)
		ListExpenses(ctx context.Context, batchID int64) ([]core.Expense, error)
		SumExpenses(ctx context.Context, batchID int64) (core.Money, error)
	}

	ClientStore interface {
		AddClient(ctx context.Context, c core.Client) (int64, error)
		ListClients(ctx context.Context) ([]core.Client, error)
		GetClient(ctx context.Context, id int64) (core.Client, error)
		DeleteClient(ctx context.Context, id int64) error
	}

	TransactionStore interface {
		InsertTransaction(ctx context.Context, t core.Transaction) (int64, error)
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		ListTransactionsByCurrency(ctx context.Context, c core.Currency) ([]core.Transaction, error)
		DeleteTransaction(ctx context.Context, id int64) error
	}

	// Store is the full ledger accessor implemented by internal/storage.
	Store interface {
		BatchReader
		BatchWriter
		FeedStore
		MortalityStore
		SaleStore
		ExpenseStore
		ClientStore
		TransactionStore
	}
)
