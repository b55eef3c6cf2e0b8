package services

import (
	"context"
	"fmt"
	"strings"

	"huku/internal/core"
	"huku/internal/ledger"
)

// fakeStore is an in-memory ledger.Store for service tests.
type fakeStore struct {
	batches      map[int64]core.Batch
	feed         map[int64][]core.FeedPurchase
	mortality    map[int64][]core.MortalityEvent
	sales        map[int64]core.Sale
	expenses     map[int64][]core.Expense
	clients      map[int64]core.Client
	transactions map[int64]core.Transaction
	nextID       int64
}

var _ ledger.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		batches:      make(map[int64]core.Batch),
		feed:         make(map[int64][]core.FeedPurchase),
		mortality:    make(map[int64][]core.MortalityEvent),
		sales:        make(map[int64]core.Sale),
		expenses:     make(map[int64][]core.Expense),
		clients:      make(map[int64]core.Client),
		transactions: make(map[int64]core.Transaction),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) CreateBatch(ctx context.Context, b core.Batch) (int64, error) {
	if b.Status == "" {
		b.Status = core.StatusActive
	}
	b.ID = f.id()
	f.batches[b.ID] = b
	return b.ID, nil
}

func (f *fakeStore) GetBatch(ctx context.Context, id int64) (core.Batch, error) {
	b, ok := f.batches[id]
	if !ok {
		return core.Batch{}, fmt.Errorf("batch %d: %w", id, ledger.ErrNotFound)
	}
	return b, nil
}

func (f *fakeStore) ListBatches(ctx context.Context) ([]core.Batch, error) {
	var out []core.Batch
	for _, b := range f.batches {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeStore) ListBatchesByStatus(ctx context.Context, status core.BatchStatus) ([]core.Batch, error) {
	var out []core.Batch
	for _, b := range f.batches {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) FindBatchesByName(ctx context.Context, name string) ([]core.Batch, error) {
	var out []core.Batch
	for _, b := range f.batches {
		if strings.Contains(strings.ToLower(b.Name), strings.ToLower(name)) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateBatchStatus(ctx context.Context, id int64, status core.BatchStatus) error {
	b, ok := f.batches[id]
	if !ok {
		return fmt.Errorf("batch %d: %w", id, ledger.ErrNotFound)
	}
	b.Status = status
	f.batches[id] = b
	return nil
}

func (f *fakeStore) UpdateBatchFields(ctx context.Context, b core.Batch) error {
	old, ok := f.batches[b.ID]
	if !ok {
		return fmt.Errorf("batch %d: %w", b.ID, ledger.ErrNotFound)
	}
	b.Status = old.Status
	f.batches[b.ID] = b
	return nil
}

func (f *fakeStore) AddFeedPurchase(ctx context.Context, p core.FeedPurchase) (int64, error) {
	p.ID = f.id()
	f.feed[p.BatchID] = append(f.feed[p.BatchID], p)
	return p.ID, nil
}

func (f *fakeStore) ListFeedPurchases(ctx context.Context, batchID int64) ([]core.FeedPurchase, error) {
	return f.feed[batchID], nil
}

func (f *fakeStore) RecordMortality(ctx context.Context, m core.MortalityEvent) (int64, error) {
	m.ID = f.id()
	f.mortality[m.BatchID] = append(f.mortality[m.BatchID], m)
	return m.ID, nil
}

func (f *fakeStore) ListMortality(ctx context.Context, batchID int64) ([]core.MortalityEvent, error) {
	return f.mortality[batchID], nil
}

func (f *fakeStore) SumMortality(ctx context.Context, batchID int64) (int, error) {
	sum := 0
	for _, m := range f.mortality[batchID] {
		sum += m.Quantity
	}
	return sum, nil
}

func (f *fakeStore) AddSale(ctx context.Context, s core.Sale) (int64, error) {
	s.ID = f.id()
	f.sales[s.ID] = s
	return s.ID, nil
}

func (f *fakeStore) ListSales(ctx context.Context, batchID int64) ([]core.Sale, error) {
	var out []core.Sale
	for _, s := range f.sales {
		if s.BatchID == batchID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) ListSalesByClient(ctx context.Context, clientID int64) ([]core.Sale, error) {
	var out []core.Sale
	for _, s := range f.sales {
		if s.ClientID == clientID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) SumSalesRevenue(ctx context.Context, batchID int64) (core.Money, error) {
	var sum int64
	for _, s := range f.sales {
		if s.BatchID == batchID {
			sum += s.Total.Cents
		}
	}
	return core.Money{Cents: sum}, nil
}

func (f *fakeStore) SumSalesByClient(ctx context.Context, clientID int64) (core.Money, error) {
	var sum int64
	for _, s := range f.sales {
		if s.ClientID == clientID {
			sum += s.Total.Cents
		}
	}
	return core.Money{Cents: sum}, nil
}

func (f *fakeStore) TotalRevenue(ctx context.Context) (core.Money, error) {
	var sum int64
	for _, s := range f.sales {
		sum += s.Total.Cents
	}
	return core.Money{Cents: sum}, nil
}

func (f *fakeStore) AddExpense(ctx context.Context, e core.Expense) (int64, error) {
	e.ID = f.id()
	f.expenses[e.BatchID] = append(f.expenses[e.BatchID], e)
	return e.ID, nil
}

func (f *fakeStore) ListExpenses(ctx context.Context, batchID int64) ([]core.Expense, error) {
	return f.expenses[batchID], nil
}

func (f *fakeStore) SumExpenses(ctx context.Context, batchID int64) (core.Money, error) {
	var sum int64
	for _, e := range f.expenses[batchID] {
		sum += e.Amount.Cents
	}
	return core.Money{Cents: sum}, nil
}

func (f *fakeStore) AddClient(ctx context.Context, c core.Client) (int64, error) {
	c.ID = f.id()
	f.clients[c.ID] = c
	return c.ID, nil
}

func (f *fakeStore) ListClients(ctx context.Context) ([]core.Client, error) {
	var out []core.Client
	for _, c := range f.clients {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) GetClient(ctx context.Context, id int64) (core.Client, error) {
	c, ok := f.clients[id]
	if !ok {
		return core.Client{}, fmt.Errorf("client %d: %w", id, ledger.ErrNotFound)
	}
	return c, nil
}

func (f *fakeStore) DeleteClient(ctx context.Context, id int64) error {
	if _, ok := f.clients[id]; !ok {
		return fmt.Errorf("client %d: %w", id, ledger.ErrNotFound)
	}
	delete(f.clients, id)
	return nil
}

func (f *fakeStore) InsertTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	t.ID = f.id()
	f.transactions[t.ID] = t
	return t.ID, nil
}

func (f *fakeStore) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range f.transactions {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeStore) ListTransactionsByCurrency(ctx context.Context, c core.Currency) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range f.transactions {
		if t.Currency == c {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteTransaction(ctx context.Context, id int64) error {
	if _, ok := f.transactions[id]; !ok {
		return fmt.Errorf("transaction %d: %w", id, ledger.ErrNotFound)
	}
	delete(f.transactions, id)
	return nil
}
