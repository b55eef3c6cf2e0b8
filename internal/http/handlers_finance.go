package http

import (
	"net/http"
	"strings"

	"huku/internal/core"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	var (
		txs []core.Transaction
		err error
	)
	if currency := strings.TrimSpace(r.URL.Query().Get("currency")); currency != "" {
		txs, err = s.finance.ListByCurrency(r.Context(), core.Currency(currency))
	} else {
		txs, err = s.finance.ListTransactions(r.Context())
	}
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	amount, err := parseMoney(req.Amount)
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	tx := core.Transaction{
		Type:        core.TransactionType(req.Type),
		Amount:      amount,
		Description: sanitizeInput(req.Description),
		Category:    sanitizeInput(req.Category),
		Date:        date,
		Currency:    core.Currency(req.Currency),
	}
	id, err := s.finance.AddTransaction(r.Context(), tx)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	tx.ID = id
	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.finance.DeleteTransaction(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFinanceSummary(w http.ResponseWriter, r *http.Request) {
	currency := strings.TrimSpace(r.URL.Query().Get("currency"))
	if currency == "" {
		respondError(w, r, http.StatusBadRequest, "missing currency query parameter")
		return
	}
	summary, err := s.finance.Summary(r.Context(), core.Currency(currency))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Currency string `json:"currency"`
		Income   string `json:"income"`
		Expenses string `json:"expenses"`
		Balance  string `json:"balance"`
	}{
		Currency: string(summary.Currency),
		Income:   summary.Income.String(),
		Expenses: summary.Expenses.String(),
		Balance:  summary.Balance.String(),
	})
}
