package services

import (
	"context"
	"errors"
	"testing"

	"huku/internal/core"
	"huku/internal/ledger"
)

type recordingPublisher struct {
	published []int64
	err       error
}

func (p *recordingPublisher) PublishSaleExport(ctx context.Context, saleID int64) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, saleID)
	return nil
}

func seedSaleFixtures(t *testing.T, store *fakeStore) (batchID, clientID int64) {
	t.Helper()
	ctx := context.Background()
	batchID, err := store.CreateBatch(ctx, validBatch())
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	clientID, err = store.AddClient(ctx, core.Client{Name: "Mrs Moyo"})
	if err != nil {
		t.Fatalf("AddClient: %v", err)
	}
	return batchID, clientID
}

func TestAddSaleFixesTotalAtInsert(t *testing.T) {
	store := newFakeStore()
	pub := &recordingPublisher{}
	svc := NewSaleService(store, pub)
	ctx := context.Background()

	batchID, clientID := seedSaleFixtures(t, store)

	id, err := svc.AddSale(ctx, core.Sale{
		BatchID:  batchID,
		ClientID: clientID,
		Type:     core.SalePerKg,
		Quantity: 12.5,
		Price:    core.Money{Cents: 433},
		Date:     core.NewDate(2026, 2, 10),
	})
	if err != nil {
		t.Fatalf("AddSale: %v", err)
	}

	// 12.5 * 4.33 = 54.125 -> 54.13 once, at insert.
	got := store.sales[id]
	if got.Total.Cents != 5413 {
		t.Errorf("total = %d, want 5413", got.Total.Cents)
	}

	if len(pub.published) != 1 || pub.published[0] != id {
		t.Errorf("published = %v, want [%d]", pub.published, id)
	}
}

func TestAddSalePublishFailureDoesNotFailSale(t *testing.T) {
	store := newFakeStore()
	svc := NewSaleService(store, &recordingPublisher{err: errors.New("broker down")})
	ctx := context.Background()

	batchID, clientID := seedSaleFixtures(t, store)

	id, err := svc.AddSale(ctx, core.Sale{
		BatchID:  batchID,
		ClientID: clientID,
		Type:     core.SalePerBird,
		Quantity: 5,
		Price:    core.Money{Cents: 800},
		Date:     core.NewDate(2026, 2, 10),
	})
	if err != nil {
		t.Fatalf("AddSale: %v", err)
	}
	if _, ok := store.sales[id]; !ok {
		t.Fatal("sale must be persisted even when publish fails")
	}
}

func TestAddSaleRequiresBatchAndClient(t *testing.T) {
	store := newFakeStore()
	svc := NewSaleService(store, nil)
	ctx := context.Background()

	batchID, clientID := seedSaleFixtures(t, store)

	sale := core.Sale{
		Type:     core.SalePerBird,
		Quantity: 5,
		Price:    core.Money{Cents: 800},
		Date:     core.NewDate(2026, 2, 10),
	}

	sale.BatchID, sale.ClientID = 999, clientID
	if _, err := svc.AddSale(ctx, sale); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("missing batch: err = %v", err)
	}

	sale.BatchID, sale.ClientID = batchID, 999
	if _, err := svc.AddSale(ctx, sale); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("missing client: err = %v", err)
	}
}

func TestSummarizeClient(t *testing.T) {
	store := newFakeStore()
	svc := NewSaleService(store, nil)
	ctx := context.Background()

	batchID, clientID := seedSaleFixtures(t, store)

	for _, qty := range []float64{10, 20} {
		if _, err := svc.AddSale(ctx, core.Sale{
			BatchID:  batchID,
			ClientID: clientID,
			Type:     core.SalePerBird,
			Quantity: qty,
			Price:    core.Money{Cents: 800},
			Date:     core.NewDate(2026, 2, 10),
		}); err != nil {
			t.Fatalf("AddSale: %v", err)
		}
	}

	sum, err := svc.SummarizeClient(ctx, clientID)
	if err != nil {
		t.Fatalf("SummarizeClient: %v", err)
	}
	if sum.Sales != 2 {
		t.Errorf("sales = %d, want 2", sum.Sales)
	}
	if sum.Total.Cents != 24000 {
		t.Errorf("total = %d, want 24000", sum.Total.Cents)
	}
}
