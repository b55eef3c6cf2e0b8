package services

import (
	"context"
	"fmt"

	"huku/internal/core"
	"huku/internal/ledger"
)

// FinanceService is the personal income/expense tracker. It lives beside
// the farm records but shares nothing with batches.
type FinanceService struct {
	store ledger.TransactionStore
}

func NewFinanceService(store ledger.TransactionStore) *FinanceService {
	return &FinanceService{store: store}
}

func (s *FinanceService) AddTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, fmt.Errorf("validate transaction: %w", err)
	}
	return s.store.InsertTransaction(ctx, t)
}

func (s *FinanceService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx)
}

func (s *FinanceService) ListByCurrency(ctx context.Context, c core.Currency) ([]core.Transaction, error) {
	if !c.Valid() {
		return nil, core.ErrInvalidCurrency
	}
	return s.store.ListTransactionsByCurrency(ctx, c)
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, id int64) error {
	return s.store.DeleteTransaction(ctx, id)
}

// FinanceSummary totals one currency. Currencies never mix in a summary.
type FinanceSummary struct {
	Currency core.Currency
	Income   core.Money
	Expenses core.Money
	Balance  core.Money
}

func (s *FinanceService) Summary(ctx context.Context, c core.Currency) (FinanceSummary, error) {
	if !c.Valid() {
		return FinanceSummary{}, core.ErrInvalidCurrency
	}
	txs, err := s.store.ListTransactionsByCurrency(ctx, c)
	if err != nil {
		return FinanceSummary{}, err
	}
	return FinanceSummary{
		Currency: c,
		Income:   core.TotalIncome(txs, c),
		Expenses: core.TotalExpenseAmount(txs, c),
		Balance:  core.Balance(txs, c),
	}, nil
}
