package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"huku/internal/core"
	"huku/internal/ledger"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "huku.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedBatch(t *testing.T, repo *SQLiteRepository) int64 {
	t.Helper()
	id, err := repo.CreateBatch(context.Background(), core.Batch{
		Name:                 "January broilers",
		StartDate:            core.NewDate(2026, 1, 1),
		InitialChicks:        100,
		ChickPrice:           core.Money{Cents: 150},
		ExpectedPricePerBird: core.Money{Cents: 800},
		ExpectedPricePerKg:   core.Money{Cents: 450},
	})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	return id
}

func TestBatchRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := seedBatch(t, repo)

	got, err := repo.GetBatch(ctx, id)
	if err != nil {
		t.Fatalf("GetBatch: %v", err)
	}
	if got.Name != "January broilers" {
		t.Errorf("name = %q", got.Name)
	}
	if got.StartDate.String() != "2026-01-01" {
		t.Errorf("start date = %s", got.StartDate)
	}
	if got.InitialChicks != 100 {
		t.Errorf("initial chicks = %d", got.InitialChicks)
	}
	if got.Status != core.StatusActive {
		t.Errorf("status = %q, want active default", got.Status)
	}

	if err := repo.UpdateBatchStatus(ctx, id, core.StatusCompleted); err != nil {
		t.Fatalf("UpdateBatchStatus: %v", err)
	}
	got, err = repo.GetBatch(ctx, id)
	if err != nil {
		t.Fatalf("GetBatch after update: %v", err)
	}
	if got.Status != core.StatusCompleted {
		t.Errorf("status = %q after completion", got.Status)
	}
}

func TestGetBatchNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetBatch(context.Background(), 9999)
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListBatchesByStatus(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	active := seedBatch(t, repo)
	done := seedBatch(t, repo)
	if err := repo.UpdateBatchStatus(ctx, done, core.StatusCompleted); err != nil {
		t.Fatalf("UpdateBatchStatus: %v", err)
	}

	got, err := repo.ListBatchesByStatus(ctx, core.StatusActive)
	if err != nil {
		t.Fatalf("ListBatchesByStatus: %v", err)
	}
	if len(got) != 1 || got[0].ID != active {
		t.Fatalf("active batches = %+v, want only id %d", got, active)
	}
}

func TestFindBatchesByName(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedBatch(t, repo)

	got, err := repo.FindBatchesByName(ctx, "january")
	if err != nil {
		t.Fatalf("FindBatchesByName: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("matches = %d, want 1 (LIKE is case-insensitive for ASCII)", len(got))
	}

	got, err = repo.FindBatchesByName(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("FindBatchesByName: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("matches = %d, want 0", len(got))
	}
}

func TestFeedAndExpenseAggregates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	id := seedBatch(t, repo)

	_, err := repo.AddFeedPurchase(ctx, core.FeedPurchase{
		BatchID:       id,
		Type:          core.FeedStarter,
		QuantityKg:    50,
		PricePerKg:    core.Money{Cents: 120},
		DatePurchased: core.NewDate(2026, 1, 3),
	})
	if err != nil {
		t.Fatalf("AddFeedPurchase: %v", err)
	}

	feeds, err := repo.ListFeedPurchases(ctx, id)
	if err != nil {
		t.Fatalf("ListFeedPurchases: %v", err)
	}
	if len(feeds) != 1 || feeds[0].Type != core.FeedStarter {
		t.Fatalf("feeds = %+v", feeds)
	}

	for _, cents := range []int64{2500, 1300} {
		_, err := repo.AddExpense(ctx, core.Expense{
			BatchID:  id,
			ItemName: "sawdust",
			Category: "bedding",
			Amount:   core.Money{Cents: cents},
			Date:     core.NewDate(2026, 1, 5),
		})
		if err != nil {
			t.Fatalf("AddExpense: %v", err)
		}
	}

	sum, err := repo.SumExpenses(ctx, id)
	if err != nil {
		t.Fatalf("SumExpenses: %v", err)
	}
	if sum.Cents != 3800 {
		t.Errorf("expense sum = %d, want 3800", sum.Cents)
	}

	// Aggregates over an empty set report zero, not an error.
	empty, err := repo.SumExpenses(ctx, id+1000)
	if err != nil {
		t.Fatalf("SumExpenses empty: %v", err)
	}
	if empty.Cents != 0 {
		t.Errorf("empty expense sum = %d", empty.Cents)
	}
}

func TestMortalitySum(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	id := seedBatch(t, repo)

	for _, q := range []int{3, 2} {
		_, err := repo.RecordMortality(ctx, core.MortalityEvent{
			BatchID:  id,
			Quantity: q,
			Date:     core.NewDate(2026, 1, 10),
			Reason:   "heat stress",
		})
		if err != nil {
			t.Fatalf("RecordMortality: %v", err)
		}
	}

	sum, err := repo.SumMortality(ctx, id)
	if err != nil {
		t.Fatalf("SumMortality: %v", err)
	}
	if sum != 5 {
		t.Errorf("mortality sum = %d, want 5", sum)
	}
}

func TestSaleLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	batchID := seedBatch(t, repo)

	clientID, err := repo.AddClient(ctx, core.Client{Name: "Mrs Moyo", Phone: "+263771234567"})
	if err != nil {
		t.Fatalf("AddClient: %v", err)
	}

	sale := core.Sale{
		BatchID:  batchID,
		ClientID: clientID,
		Type:     core.SalePerBird,
		Quantity: 10,
		Price:    core.Money{Cents: 800},
		Date:     core.NewDate(2026, 2, 10),
	}
	sale.Total = sale.ComputedTotal()
	saleID, err := repo.AddSale(ctx, sale)
	if err != nil {
		t.Fatalf("AddSale: %v", err)
	}

	revenue, err := repo.SumSalesRevenue(ctx, batchID)
	if err != nil {
		t.Fatalf("SumSalesRevenue: %v", err)
	}
	if revenue.Cents != 8000 {
		t.Errorf("revenue = %d, want 8000", revenue.Cents)
	}

	byClient, err := repo.SumSalesByClient(ctx, clientID)
	if err != nil {
		t.Fatalf("SumSalesByClient: %v", err)
	}
	if byClient.Cents != 8000 {
		t.Errorf("client revenue = %d, want 8000", byClient.Cents)
	}

	// New sales enter the export queue and leave it once marked synced.
	pending, err := repo.PendingExportSales(ctx, 10)
	if err != nil {
		t.Fatalf("PendingExportSales: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != saleID {
		t.Fatalf("pending = %+v, want sale %d", pending, saleID)
	}

	if err := repo.MarkSaleSyncError(ctx, saleID); err != nil {
		t.Fatalf("MarkSaleSyncError: %v", err)
	}
	pending, err = repo.PendingExportSales(ctx, 10)
	if err != nil {
		t.Fatalf("PendingExportSales: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("sync error must keep the sale pending, got %d", len(pending))
	}

	if err := repo.MarkSaleSynced(ctx, saleID); err != nil {
		t.Fatalf("MarkSaleSynced: %v", err)
	}
	pending, err = repo.PendingExportSales(ctx, 10)
	if err != nil {
		t.Fatalf("PendingExportSales: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending after sync = %d, want 0", len(pending))
	}
}

func TestTransactionsByCurrency(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	insert := func(typ core.TransactionType, cents int64, cur core.Currency) {
		t.Helper()
		_, err := repo.InsertTransaction(ctx, core.Transaction{
			Type:        typ,
			Amount:      core.Money{Cents: cents},
			Description: "entry",
			Category:    "general",
			Date:        core.NewDate(2026, 3, 1),
			Currency:    cur,
		})
		if err != nil {
			t.Fatalf("InsertTransaction: %v", err)
		}
	}

	insert(core.TxIncome, 50000, core.USD)
	insert(core.TxExpense, 12000, core.USD)
	insert(core.TxIncome, 900000, core.ZWG)

	usd, err := repo.ListTransactionsByCurrency(ctx, core.USD)
	if err != nil {
		t.Fatalf("ListTransactionsByCurrency: %v", err)
	}
	if len(usd) != 2 {
		t.Fatalf("usd transactions = %d, want 2", len(usd))
	}
	for _, tx := range usd {
		if tx.Currency != core.USD {
			t.Errorf("currency = %q leaked into USD listing", tx.Currency)
		}
	}

	all, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all transactions = %d, want 3", len(all))
	}

	if err := repo.DeleteTransaction(ctx, all[0].ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if err := repo.DeleteTransaction(ctx, 9999); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("delete missing: err = %v, want ErrNotFound", err)
	}
}

func TestClientDeleteBlockedBySales(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	batchID := seedBatch(t, repo)
	clientID, err := repo.AddClient(ctx, core.Client{Name: "Mrs Moyo"})
	if err != nil {
		t.Fatalf("AddClient: %v", err)
	}
	if _, err := repo.AddSale(ctx, core.Sale{
		BatchID:  batchID,
		ClientID: clientID,
		Type:     core.SalePerBird,
		Quantity: 10,
		Price:    core.Money{Cents: 800},
		Total:    core.Money{Cents: 8000},
		Date:     core.NewDate(2026, 2, 10),
	}); err != nil {
		t.Fatalf("AddSale: %v", err)
	}

	if err := repo.DeleteClient(ctx, clientID); !errors.Is(err, ledger.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}

	// The client and its sale are untouched.
	if _, err := repo.GetClient(ctx, clientID); err != nil {
		t.Fatalf("GetClient after blocked delete: %v", err)
	}
	sales, err := repo.ListSalesByClient(ctx, clientID)
	if err != nil {
		t.Fatalf("ListSalesByClient: %v", err)
	}
	if len(sales) != 1 {
		t.Fatalf("sales = %d, want 1", len(sales))
	}
}

func TestClientDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.AddClient(ctx, core.Client{Name: "Tafara"})
	if err != nil {
		t.Fatalf("AddClient: %v", err)
	}
	if err := repo.DeleteClient(ctx, id); err != nil {
		t.Fatalf("DeleteClient: %v", err)
	}
	if _, err := repo.GetClient(ctx, id); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
