package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// Row types mirror the SQLite schema; dates travel as YYYY-MM-DD text and
// money as integer cents.
type (
	Batch struct {
		ID                        int64
		Name                      string
		StartDate                 string
		InitialChicks             int64
		ChickPriceCents           int64
		ExpectedPricePerBirdCents int64
		ExpectedPricePerKgCents   int64
		Status                    string
		CreatedAt                 time.Time
	}

	FeedPurchase struct {
		ID              int64
		BatchID         int64
		Type            string
		QuantityKg      float64
		PricePerKgCents int64
		DatePurchased   string
		CreatedAt       time.Time
	}

	MortalityEvent struct {
		ID        int64
		BatchID   int64
		Quantity  int64
		Date      string
		Reason    string
		CreatedAt time.Time
	}

	Sale struct {
		ID         int64
		BatchID    int64
		ClientID   int64
		SaleType   string
		Quantity   float64
		PriceCents int64
		TotalCents int64
		Date       string
		Synced     int64
		SyncError  int64
		CreatedAt  time.Time
	}

	Expense struct {
		ID          int64
		BatchID     int64
		ItemName    string
		Category    string
		AmountCents int64
		Date        string
		Notes       string
		CreatedAt   time.Time
	}

	Client struct {
		ID    int64
		Name  string
		Phone string
	}

	Transaction struct {
		ID          int64
		Type        string
		AmountCents int64
		Description string
		Category    string
		Date        string
		Currency    string
		CreatedAt   time.Time
	}
)

type CreateBatchParams struct {
	Name                      string
	StartDate                 string
	InitialChicks             int64
	ChickPriceCents           int64
	ExpectedPricePerBirdCents int64
	ExpectedPricePerKgCents   int64
	Status                    string
}

const createBatch = `
INSERT INTO batches (name, start_date, initial_chicks, chick_price_cents, expected_price_per_bird_cents, expected_price_per_kg_cents, status)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateBatch(ctx context.Context, arg CreateBatchParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createBatch,
		arg.Name, arg.StartDate, arg.InitialChicks, arg.ChickPriceCents,
		arg.ExpectedPricePerBirdCents, arg.ExpectedPricePerKgCents, arg.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const getBatch = `
SELECT id, name, start_date, initial_chicks, chick_price_cents, expected_price_per_bird_cents, expected_price_per_kg_cents, status, created_at
FROM batches WHERE id = ?
`

func (q *Queries) GetBatch(ctx context.Context, id int64) (Batch, error) {
	var b Batch
	err := q.db.QueryRowContext(ctx, getBatch, id).Scan(
		&b.ID, &b.Name, &b.StartDate, &b.InitialChicks, &b.ChickPriceCents,
		&b.ExpectedPricePerBirdCents, &b.ExpectedPricePerKgCents, &b.Status, &b.CreatedAt)
	return b, err
}

const listBatches = `
SELECT id, name, start_date, initial_chicks, chick_price_cents, expected_price_per_bird_cents, expected_price_per_kg_cents, status, created_at
FROM batches ORDER BY start_date DESC
`

func (q *Queries) ListBatches(ctx context.Context) ([]Batch, error) {
	rows, err := q.db.QueryContext(ctx, listBatches)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBatches(rows)
}

const listBatchesByStatus = `
SELECT id, name, start_date, initial_chicks, chick_price_cents, expected_price_per_bird_cents, expected_price_per_kg_cents, status, created_at
FROM batches WHERE status = ? ORDER BY start_date DESC
`

func (q *Queries) ListBatchesByStatus(ctx context.Context, status string) ([]Batch, error) {
	rows, err := q.db.QueryContext(ctx, listBatchesByStatus, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBatches(rows)
}

const findBatchesByName = `
SELECT id, name, start_date, initial_chicks, chick_price_cents, expected_price_per_bird_cents, expected_price_per_kg_cents, status, created_at
FROM batches WHERE name LIKE ? ORDER BY start_date DESC
`

func (q *Queries) FindBatchesByName(ctx context.Context, pattern string) ([]Batch, error) {
	rows, err := q.db.QueryContext(ctx, findBatchesByName, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBatches(rows)
}

func scanBatches(rows *sql.Rows) ([]Batch, error) {
	var out []Batch
	for rows.Next() {
		var b Batch
		if err := rows.Scan(
			&b.ID, &b.Name, &b.StartDate, &b.InitialChicks, &b.ChickPriceCents,
			&b.ExpectedPricePerBirdCents, &b.ExpectedPricePerKgCents, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

const updateBatchStatus = `UPDATE batches SET status = ? WHERE id = ?`

func (q *Queries) UpdateBatchStatus(ctx context.Context, id int64, status string) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateBatchStatus, status, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type UpdateBatchFieldsParams struct {
	ID                        int64
	Name                      string
	StartDate                 string
	InitialChicks             int64
	ChickPriceCents           int64
	ExpectedPricePerBirdCents int64
	ExpectedPricePerKgCents   int64
}

const updateBatchFields = `
UPDATE batches
SET name = ?, start_date = ?, initial_chicks = ?, chick_price_cents = ?, expected_price_per_bird_cents = ?, expected_price_per_kg_cents = ?
WHERE id = ?
`

func (q *Queries) UpdateBatchFields(ctx context.Context, arg UpdateBatchFieldsParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateBatchFields,
		arg.Name, arg.StartDate, arg.InitialChicks, arg.ChickPriceCents,
		arg.ExpectedPricePerBirdCents, arg.ExpectedPricePerKgCents, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type CreateFeedPurchaseParams struct {
	BatchID         int64
	Type            string
	QuantityKg      float64
	PricePerKgCents int64
	DatePurchased   string
}

const createFeedPurchase = `
INSERT INTO feed_purchases (batch_id, type, quantity_kg, price_per_kg_cents, date_purchased)
VALUES (?, ?, ?, ?, ?)
`

func (q *Queries) CreateFeedPurchase(ctx context.Context, arg CreateFeedPurchaseParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createFeedPurchase,
		arg.BatchID, arg.Type, arg.QuantityKg, arg.PricePerKgCents, arg.DatePurchased)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const listFeedPurchases = `
SELECT id, batch_id, type, quantity_kg, price_per_kg_cents, date_purchased, created_at
FROM feed_purchases WHERE batch_id = ? ORDER BY date_purchased
`

func (q *Queries) ListFeedPurchases(ctx context.Context, batchID int64) ([]FeedPurchase, error) {
	rows, err := q.db.QueryContext(ctx, listFeedPurchases, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FeedPurchase
	for rows.Next() {
		var f FeedPurchase
		if err := rows.Scan(&f.ID, &f.BatchID, &f.Type, &f.QuantityKg, &f.PricePerKgCents, &f.DatePurchased, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

type CreateMortalityEventParams struct {
	BatchID  int64
	Quantity int64
	Date     string
	Reason   string
}

const createMortalityEvent = `
INSERT INTO mortality_events (batch_id, quantity, date, reason)
VALUES (?, ?, ?, ?)
`

func (q *Queries) CreateMortalityEvent(ctx context.Context, arg CreateMortalityEventParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createMortalityEvent, arg.BatchID, arg.Quantity, arg.Date, arg.Reason)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const listMortality = `
SELECT id, batch_id, quantity, date, reason, created_at
FROM mortality_events WHERE batch_id = ? ORDER BY date
`

func (q *Queries) ListMortality(ctx context.Context, batchID int64) ([]MortalityEvent, error) {
	rows, err := q.db.QueryContext(ctx, listMortality, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MortalityEvent
	for rows.Next() {
		var m MortalityEvent
		if err := rows.Scan(&m.ID, &m.BatchID, &m.Quantity, &m.Date, &m.Reason, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

const sumMortality = `SELECT COALESCE(SUM(quantity), 0) FROM mortality_events WHERE batch_id = ?`

func (q *Queries) SumMortality(ctx context.Context, batchID int64) (int64, error) {
	var sum int64
	err := q.db.QueryRowContext(ctx, sumMortality, batchID).Scan(&sum)
	return sum, err
}

type CreateSaleParams struct {
	BatchID    int64
	ClientID   int64
	SaleType   string
	Quantity   float64
	PriceCents int64
	TotalCents int64
	Date       string
}

const createSale = `
INSERT INTO sales (batch_id, client_id, sale_type, quantity, price_cents, total_cents, date)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateSale(ctx context.Context, arg CreateSaleParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createSale,
		arg.BatchID, arg.ClientID, arg.SaleType, arg.Quantity, arg.PriceCents, arg.TotalCents, arg.Date)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const getSale = `
SELECT id, batch_id, client_id, sale_type, quantity, price_cents, total_cents, date, synced, sync_error, created_at
FROM sales WHERE id = ?
`

func (q *Queries) GetSale(ctx context.Context, id int64) (Sale, error) {
	var s Sale
	err := q.db.QueryRowContext(ctx, getSale, id).Scan(
		&s.ID, &s.BatchID, &s.ClientID, &s.SaleType, &s.Quantity,
		&s.PriceCents, &s.TotalCents, &s.Date, &s.Synced, &s.SyncError, &s.CreatedAt)
	return s, err
}

const listSales = `
SELECT id, batch_id, client_id, sale_type, quantity, price_cents, total_cents, date, synced, sync_error, created_at
FROM sales WHERE batch_id = ? ORDER BY date
`

func (q *Queries) ListSales(ctx context.Context, batchID int64) ([]Sale, error) {
	rows, err := q.db.QueryContext(ctx, listSales, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSales(rows)
}

const listSalesByClient = `
SELECT id, batch_id, client_id, sale_type, quantity, price_cents, total_cents, date, synced, sync_error, created_at
FROM sales WHERE client_id = ? ORDER BY date
`

func (q *Queries) ListSalesByClient(ctx context.Context, clientID int64) ([]Sale, error) {
	rows, err := q.db.QueryContext(ctx, listSalesByClient, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSales(rows)
}

const listPendingSales = `
SELECT id, batch_id, client_id, sale_type, quantity, price_cents, total_cents, date, synced, sync_error, created_at
FROM sales WHERE synced = 0 ORDER BY id LIMIT ?
`

func (q *Queries) ListPendingSales(ctx context.Context, limit int64) ([]Sale, error) {
	rows, err := q.db.QueryContext(ctx, listPendingSales, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSales(rows)
}

func scanSales(rows *sql.Rows) ([]Sale, error) {
	var out []Sale
	for rows.Next() {
		var s Sale
		if err := rows.Scan(
			&s.ID, &s.BatchID, &s.ClientID, &s.SaleType, &s.Quantity,
			&s.PriceCents, &s.TotalCents, &s.Date, &s.Synced, &s.SyncError, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

const sumSalesRevenue = `SELECT COALESCE(SUM(total_cents), 0) FROM sales WHERE batch_id = ?`

func (q *Queries) SumSalesRevenue(ctx context.Context, batchID int64) (int64, error) {
	var sum int64
	err := q.db.QueryRowContext(ctx, sumSalesRevenue, batchID).Scan(&sum)
	return sum, err
}

const sumSalesByClient = `SELECT COALESCE(SUM(total_cents), 0) FROM sales WHERE client_id = ?`

func (q *Queries) SumSalesByClient(ctx context.Context, clientID int64) (int64, error) {
	var sum int64
	err := q.db.QueryRowContext(ctx, sumSalesByClient, clientID).Scan(&sum)
	return sum, err
}

const totalRevenue = `SELECT COALESCE(SUM(total_cents), 0) FROM sales`

func (q *Queries) TotalRevenue(ctx context.Context) (int64, error) {
	var sum int64
	err := q.db.QueryRowContext(ctx, totalRevenue).Scan(&sum)
	return sum, err
}

const markSaleSynced = `UPDATE sales SET synced = 1, sync_error = 0 WHERE id = ?`

func (q *Queries) MarkSaleSynced(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markSaleSynced, id)
	return err
}

const markSaleSyncError = `UPDATE sales SET sync_error = 1 WHERE id = ?`

func (q *Queries) MarkSaleSyncError(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markSaleSyncError, id)
	return err
}

type CreateExpenseParams struct {
	BatchID     int64
	ItemName    string
	Category    string
	AmountCents int64
	Date        string
	Notes       string
}

const createExpense = `
INSERT INTO expenses (batch_id, item_name, category, amount_cents, date, notes)
VALUES (?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createExpense,
		arg.BatchID, arg.ItemName, arg.Category, arg.AmountCents, arg.Date, arg.Notes)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const listExpenses = `
SELECT id, batch_id, item_name, category, amount_cents, date, notes, created_at
FROM expenses WHERE batch_id = ? ORDER BY date
`

func (q *Queries) ListExpenses(ctx context.Context, batchID int64) ([]Expense, error) {
	rows, err := q.db.QueryContext(ctx, listExpenses, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.BatchID, &e.ItemName, &e.Category, &e.AmountCents, &e.Date, &e.Notes, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

const sumExpenses = `SELECT COALESCE(SUM(amount_cents), 0) FROM expenses WHERE batch_id = ?`

func (q *Queries) SumExpenses(ctx context.Context, batchID int64) (int64, error) {
	var sum int64
	err := q.db.QueryRowContext(ctx, sumExpenses, batchID).Scan(&sum)
	return sum, err
}

const createClient = `INSERT INTO clients (name, phone) VALUES (?, ?)`

func (q *Queries) CreateClient(ctx context.Context, name, phone string) (int64, error) {
	res, err := q.db.ExecContext(ctx, createClient, name, phone)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const listClients = `SELECT id, name, phone FROM clients ORDER BY name`

func (q *Queries) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := q.db.QueryContext(ctx, listClients)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const getClient = `SELECT id, name, phone FROM clients WHERE id = ?`

func (q *Queries) GetClient(ctx context.Context, id int64) (Client, error) {
	var c Client
	err := q.db.QueryRowContext(ctx, getClient, id).Scan(&c.ID, &c.Name, &c.Phone)
	return c, err
}

const deleteClient = `DELETE FROM clients WHERE id = ?`

func (q *Queries) DeleteClient(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteClient, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type CreateTransactionParams struct {
	Type        string
	AmountCents int64
	Description string
	Category    string
	Date        string
	Currency    string
}

const createTransaction = `
INSERT INTO transactions (type, amount_cents, description, category, date, currency)
VALUES (?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createTransaction,
		arg.Type, arg.AmountCents, arg.Description, arg.Category, arg.Date, arg.Currency)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const listTransactions = `
SELECT id, type, amount_cents, description, category, date, currency, created_at
FROM transactions ORDER BY date DESC, id DESC
`

func (q *Queries) ListTransactions(ctx context.Context) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

const listTransactionsByCurrency = `
SELECT id, type, amount_cents, description, category, date, currency, created_at
FROM transactions WHERE currency = ? ORDER BY date DESC, id DESC
`

func (q *Queries) ListTransactionsByCurrency(ctx context.Context, currency string) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactionsByCurrency, currency)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]Transaction, error) {
	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.Type, &t.AmountCents, &t.Description, &t.Category, &t.Date, &t.Currency, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const deleteTransaction = `DELETE FROM transactions WHERE id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
