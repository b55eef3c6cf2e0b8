// Package storage implements the ledger ports on an embedded SQLite
// database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"huku/internal/core"
	"huku/internal/ledger"
)

// SQLiteRepository implements ledger.Store plus the export-worker sync
// bookkeeping on the sales table.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateBatch(ctx context.Context, b core.Batch) (int64, error) {
	status := b.Status
	if status == "" {
		status = core.StatusActive
	}
	id, err := r.queries.CreateBatch(ctx, CreateBatchParams{
		Name:                      b.Name,
		StartDate:                 b.StartDate.String(),
		InitialChicks:             int64(b.InitialChicks),
		ChickPriceCents:           b.ChickPrice.Cents,
		ExpectedPricePerBirdCents: b.ExpectedPricePerBird.Cents,
		ExpectedPricePerKgCents:   b.ExpectedPricePerKg.Cents,
		Status:                    string(status),
	})
	if err != nil {
		return 0, fmt.Errorf("create batch: %w", err)
	}
	slog.InfoContext(ctx, "batch created", "batch_id", id, "name", b.Name)
	return id, nil
}

func (r *SQLiteRepository) GetBatch(ctx context.Context, id int64) (core.Batch, error) {
	row, err := r.queries.GetBatch(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Batch{}, fmt.Errorf("batch %d: %w", id, ledger.ErrNotFound)
	}
	if err != nil {
		return core.Batch{}, fmt.Errorf("get batch: %w", err)
	}
	return toCoreBatch(row)
}

func (r *SQLiteRepository) ListBatches(ctx context.Context) ([]core.Batch, error) {
	rows, err := r.queries.ListBatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return toCoreBatches(rows)
}

func (r *SQLiteRepository) ListBatchesByStatus(ctx context.Context, status core.BatchStatus) ([]core.Batch, error) {
	rows, err := r.queries.ListBatchesByStatus(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("list batches by status: %w", err)
	}
	return toCoreBatches(rows)
}

func (r *SQLiteRepository) FindBatchesByName(ctx context.Context, name string) ([]core.Batch, error) {
	rows, err := r.queries.FindBatchesByName(ctx, "%"+name+"%")
	if err != nil {
		return nil, fmt.Errorf("find batches by name: %w", err)
	}
	return toCoreBatches(rows)
}

func (r *SQLiteRepository) UpdateBatchStatus(ctx context.Context, id int64, status core.BatchStatus) error {
	n, err := r.queries.UpdateBatchStatus(ctx, id, string(status))
	if err != nil {
		return fmt.Errorf("update batch status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("batch %d: %w", id, ledger.ErrNotFound)
	}
	slog.InfoContext(ctx, "batch status updated", "batch_id", id, "status", status)
	return nil
}

func (r *SQLiteRepository) UpdateBatchFields(ctx context.Context, b core.Batch) error {
	n, err := r.queries.UpdateBatchFields(ctx, UpdateBatchFieldsParams{
		ID:                        b.ID,
		Name:                      b.Name,
		StartDate:                 b.StartDate.String(),
		InitialChicks:             int64(b.InitialChicks),
		ChickPriceCents:           b.ChickPrice.Cents,
		ExpectedPricePerBirdCents: b.ExpectedPricePerBird.Cents,
		ExpectedPricePerKgCents:   b.ExpectedPricePerKg.Cents,
	})
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("batch %d: %w", b.ID, ledger.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) AddFeedPurchase(ctx context.Context, f core.FeedPurchase) (int64, error) {
	id, err := r.queries.CreateFeedPurchase(ctx, CreateFeedPurchaseParams{
		BatchID:         f.BatchID,
		Type:            string(f.Type),
		QuantityKg:      f.QuantityKg,
		PricePerKgCents: f.PricePerKg.Cents,
		DatePurchased:   f.DatePurchased.String(),
	})
	if err != nil {
		return 0, fmt.Errorf("add feed purchase: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListFeedPurchases(ctx context.Context, batchID int64) ([]core.FeedPurchase, error) {
	rows, err := r.queries.ListFeedPurchases(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("list feed purchases: %w", err)
	}
	out := make([]core.FeedPurchase, 0, len(rows))
	for _, row := range rows {
		f, err := toCoreFeedPurchase(row)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (r *SQLiteRepository) RecordMortality(ctx context.Context, m core.MortalityEvent) (int64, error) {
	id, err := r.queries.CreateMortalityEvent(ctx, CreateMortalityEventParams{
		BatchID:  m.BatchID,
		Quantity: int64(m.Quantity),
		Date:     m.Date.String(),
		Reason:   m.Reason,
	})
	if err != nil {
		return 0, fmt.Errorf("record mortality: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListMortality(ctx context.Context, batchID int64) ([]core.MortalityEvent, error) {
	rows, err := r.queries.ListMortality(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("list mortality: %w", err)
	}
	out := make([]core.MortalityEvent, 0, len(rows))
	for _, row := range rows {
		m, err := toCoreMortality(row)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *SQLiteRepository) SumMortality(ctx context.Context, batchID int64) (int, error) {
	sum, err := r.queries.SumMortality(ctx, batchID)
	if err != nil {
		return 0, fmt.Errorf("sum mortality: %w", err)
	}
	return int(sum), nil
}

func (r *SQLiteRepository) AddSale(ctx context.Context, s core.Sale) (int64, error) {
	id, err := r.queries.CreateSale(ctx, CreateSaleParams{
		BatchID:    s.BatchID,
		ClientID:   s.ClientID,
		SaleType:   string(s.Type),
		Quantity:   s.Quantity,
		PriceCents: s.Price.Cents,
		TotalCents: s.Total.Cents,
		Date:       s.Date.String(),
	})
	if err != nil {
		return 0, fmt.Errorf("add sale: %w", err)
	}
	slog.InfoContext(ctx, "sale recorded", "sale_id", id, "batch_id", s.BatchID, "total_cents", s.Total.Cents)
	return id, nil
}

func (r *SQLiteRepository) ListSales(ctx context.Context, batchID int64) ([]core.Sale, error) {
	rows, err := r.queries.ListSales(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return toCoreSales(rows)
}

func (r *SQLiteRepository) ListSalesByClient(ctx context.Context, clientID int64) ([]core.Sale, error) {
	rows, err := r.queries.ListSalesByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list sales by client: %w", err)
	}
	return toCoreSales(rows)
}

func (r *SQLiteRepository) SumSalesRevenue(ctx context.Context, batchID int64) (core.Money, error) {
	sum, err := r.queries.SumSalesRevenue(ctx, batchID)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum sales revenue: %w", err)
	}
	return core.Money{Cents: sum}, nil
}

func (r *SQLiteRepository) SumSalesByClient(ctx context.Context, clientID int64) (core.Money, error) {
	sum, err := r.queries.SumSalesByClient(ctx, clientID)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum sales by client: %w", err)
	}
	return core.Money{Cents: sum}, nil
}

func (r *SQLiteRepository) TotalRevenue(ctx context.Context) (core.Money, error) {
	sum, err := r.queries.TotalRevenue(ctx)
	if err != nil {
		return core.Money{}, fmt.Errorf("total revenue: %w", err)
	}
	return core.Money{Cents: sum}, nil
}

// GetSaleByID fetches a single sale for the export worker.
func (r *SQLiteRepository) GetSaleByID(ctx context.Context, id int64) (core.Sale, error) {
	row, err := r.queries.GetSale(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Sale{}, fmt.Errorf("sale %d: %w", id, ledger.ErrNotFound)
	}
	if err != nil {
		return core.Sale{}, fmt.Errorf("get sale: %w", err)
	}
	sales, err := toCoreSales([]Sale{row})
	if err != nil {
		return core.Sale{}, err
	}
	return sales[0], nil
}

// PendingExportSales returns sales not yet pushed to the external sheet,
// oldest first.
func (r *SQLiteRepository) PendingExportSales(ctx context.Context, limit int) ([]core.Sale, error) {
	rows, err := r.queries.ListPendingSales(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list pending sales: %w", err)
	}
	return toCoreSales(rows)
}

func (r *SQLiteRepository) MarkSaleSynced(ctx context.Context, id int64) error {
	if err := r.queries.MarkSaleSynced(ctx, id); err != nil {
		return fmt.Errorf("mark sale synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkSaleSyncError(ctx context.Context, id int64) error {
	if err := r.queries.MarkSaleSyncError(ctx, id); err != nil {
		return fmt.Errorf("mark sale sync error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AddExpense(ctx context.Context, e core.Expense) (int64, error) {
	id, err := r.queries.CreateExpense(ctx, CreateExpenseParams{
		BatchID:     e.BatchID,
		ItemName:    e.ItemName,
		Category:    e.Category,
		AmountCents: e.Amount.Cents,
		Date:        e.Date.String(),
		Notes:       e.Notes,
	})
	if err != nil {
		return 0, fmt.Errorf("add expense: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context, batchID int64) ([]core.Expense, error) {
	rows, err := r.queries.ListExpenses(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	out := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		e, err := toCoreExpense(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *SQLiteRepository) SumExpenses(ctx context.Context, batchID int64) (core.Money, error) {
	sum, err := r.queries.SumExpenses(ctx, batchID)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum expenses: %w", err)
	}
	return core.Money{Cents: sum}, nil
}

func (r *SQLiteRepository) AddClient(ctx context.Context, c core.Client) (int64, error) {
	id, err := r.queries.CreateClient(ctx, c.Name, c.Phone)
	if err != nil {
		return 0, fmt.Errorf("add client: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListClients(ctx context.Context) ([]core.Client, error) {
	rows, err := r.queries.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	out := make([]core.Client, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.Client{ID: row.ID, Name: row.Name, Phone: row.Phone})
	}
	return out, nil
}

func (r *SQLiteRepository) GetClient(ctx context.Context, id int64) (core.Client, error) {
	row, err := r.queries.GetClient(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Client{}, fmt.Errorf("client %d: %w", id, ledger.ErrNotFound)
	}
	if err != nil {
		return core.Client{}, fmt.Errorf("get client: %w", err)
	}
	return core.Client{ID: row.ID, Name: row.Name, Phone: row.Phone}, nil
}

func (r *SQLiteRepository) DeleteClient(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteClient(ctx, id)
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("client %d still referenced by sales: %w", id, ledger.ErrConflict)
		}
		return fmt.Errorf("delete client: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("client %d: %w", id, ledger.ErrNotFound)
	}
	return nil
}

// isConstraintError reports whether err is a SQLite constraint failure,
// such as a foreign key still pointing at the row.
func isConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}

func (r *SQLiteRepository) InsertTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	id, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		Type:        string(t.Type),
		AmountCents: t.Amount.Cents,
		Description: t.Description,
		Category:    t.Category,
		Date:        t.Date.String(),
		Currency:    string(t.Currency),
	})
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	slog.InfoContext(ctx, "transaction recorded", "transaction_id", id, "type", t.Type, "currency", t.Currency)
	return id, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return toCoreTransactions(rows)
}

func (r *SQLiteRepository) ListTransactionsByCurrency(ctx context.Context, c core.Currency) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactionsByCurrency(ctx, string(c))
	if err != nil {
		return nil, fmt.Errorf("list transactions by currency: %w", err)
	}
	return toCoreTransactions(rows)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %d: %w", id, ledger.ErrNotFound)
	}
	return nil
}

func toCoreBatch(row Batch) (core.Batch, error) {
	start, err := core.ParseDate(row.StartDate)
	if err != nil {
		return core.Batch{}, fmt.Errorf("batch %d start date %q: %w", row.ID, row.StartDate, err)
	}
	return core.Batch{
		ID:                   row.ID,
		Name:                 row.Name,
		StartDate:            start,
		InitialChicks:        int(row.InitialChicks),
		ChickPrice:           core.Money{Cents: row.ChickPriceCents},
		ExpectedPricePerBird: core.Money{Cents: row.ExpectedPricePerBirdCents},
		ExpectedPricePerKg:   core.Money{Cents: row.ExpectedPricePerKgCents},
		Status:               core.BatchStatus(row.Status),
	}, nil
}

func toCoreBatches(rows []Batch) ([]core.Batch, error) {
	out := make([]core.Batch, 0, len(rows))
	for _, row := range rows {
		b, err := toCoreBatch(row)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func toCoreFeedPurchase(row FeedPurchase) (core.FeedPurchase, error) {
	date, err := core.ParseDate(row.DatePurchased)
	if err != nil {
		return core.FeedPurchase{}, fmt.Errorf("feed purchase %d date %q: %w", row.ID, row.DatePurchased, err)
	}
	return core.FeedPurchase{
		ID:            row.ID,
		BatchID:       row.BatchID,
		Type:          core.FeedType(row.Type),
		QuantityKg:    row.QuantityKg,
		PricePerKg:    core.Money{Cents: row.PricePerKgCents},
		DatePurchased: date,
	}, nil
}

func toCoreMortality(row MortalityEvent) (core.MortalityEvent, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.MortalityEvent{}, fmt.Errorf("mortality event %d date %q: %w", row.ID, row.Date, err)
	}
	return core.MortalityEvent{
		ID:       row.ID,
		BatchID:  row.BatchID,
		Quantity: int(row.Quantity),
		Date:     date,
		Reason:   row.Reason,
	}, nil
}

func toCoreSales(rows []Sale) ([]core.Sale, error) {
	out := make([]core.Sale, 0, len(rows))
	for _, row := range rows {
		date, err := core.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("sale %d date %q: %w", row.ID, row.Date, err)
		}
		out = append(out, core.Sale{
			ID:       row.ID,
			BatchID:  row.BatchID,
			ClientID: row.ClientID,
			Type:     core.SaleType(row.SaleType),
			Quantity: row.Quantity,
			Price:    core.Money{Cents: row.PriceCents},
			Total:    core.Money{Cents: row.TotalCents},
			Date:     date,
		})
	}
	return out, nil
}

func toCoreExpense(row Expense) (core.Expense, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %d date %q: %w", row.ID, row.Date, err)
	}
	return core.Expense{
		ID:       row.ID,
		BatchID:  row.BatchID,
		ItemName: row.ItemName,
		Category: row.Category,
		Amount:   core.Money{Cents: row.AmountCents},
		Date:     date,
		Notes:    row.Notes,
	}, nil
}

func toCoreTransactions(rows []Transaction) ([]core.Transaction, error) {
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		date, err := core.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction %d date %q: %w", row.ID, row.Date, err)
		}
		out = append(out, core.Transaction{
			ID:          row.ID,
			Type:        core.TransactionType(row.Type),
			Amount:      core.Money{Cents: row.AmountCents},
			Description: row.Description,
			Category:    row.Category,
			Date:        date,
			Currency:    core.Currency(row.Currency),
		})
	}
	return out, nil
}
