package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"huku/internal/core"
)

func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	var (
		batches []core.Batch
		err     error
	)
	switch status := strings.TrimSpace(r.URL.Query().Get("status")); status {
	case "":
		batches, err = s.batches.ListBatches(r.Context())
	case string(core.StatusActive):
		batches, err = s.batches.ListActiveBatches(r.Context())
	default:
		respondError(w, r, http.StatusBadRequest, "unknown status filter "+strconv.Quote(status))
		return
	}
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBatchResponses(batches, time.Now()))
}

func (s *Server) handleSearchBatches(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		respondError(w, r, http.StatusBadRequest, "missing name query parameter")
		return
	}
	batches, err := s.batches.SearchBatches(r.Context(), name)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBatchResponses(batches, time.Now()))
}

func (s *Server) handleCreateBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	batch, err := req.toBatch()
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.batches.CreateBatch(r.Context(), batch)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.overviewCache.Delete(overviewCacheKey)

	batch.ID = id
	batch.Status = core.StatusActive
	writeJSON(w, http.StatusCreated, toBatchResponse(batch, time.Now()))
}

func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	batch, err := s.batches.GetBatch(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBatchResponse(batch, time.Now()))
}

func (s *Server) handleUpdateBatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	var req batchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	batch, err := req.toBatch()
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	batch.ID = id

	// Status transitions go through the complete endpoint, not PUT.
	current, err := s.batches.GetBatch(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	batch.Status = current.Status

	if err := s.batches.UpdateBatch(r.Context(), batch); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateBatch(id)
	writeJSON(w, http.StatusOK, toBatchResponse(batch, time.Now()))
}

func (s *Server) handleCompleteBatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.batches.CompleteBatch(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateBatch(id)

	batch, err := s.batches.GetBatch(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBatchResponse(batch, time.Now()))
}

func (s *Server) handleListFeed(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	purchases, err := s.batches.ListFeedPurchases(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	out := make([]feedResponse, 0, len(purchases))
	for _, f := range purchases {
		out = append(out, toFeedResponse(f))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddFeed(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	var req feedRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	price, err := parseMoney(req.PricePerKg)
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	purchase := core.FeedPurchase{
		BatchID:       id,
		Type:          core.FeedType(req.Type),
		QuantityKg:    req.QuantityKg,
		PricePerKg:    price,
		DatePurchased: date,
	}
	feedID, err := s.batches.AddFeedPurchase(r.Context(), purchase)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateBatch(id)

	purchase.ID = feedID
	writeJSON(w, http.StatusCreated, toFeedResponse(purchase))
}

func (s *Server) handleListMortality(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	events, err := s.batches.ListMortality(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	out := make([]mortalityResponse, 0, len(events))
	for _, m := range events {
		out = append(out, mortalityResponse{
			ID:       m.ID,
			BatchID:  m.BatchID,
			Quantity: m.Quantity,
			Date:     m.Date.String(),
			Reason:   m.Reason,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRecordMortality(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	var req mortalityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	event := core.MortalityEvent{
		BatchID:  id,
		Quantity: req.Quantity,
		Date:     date,
		Reason:   sanitizeInput(req.Reason),
	}
	eventID, err := s.batches.RecordMortality(r.Context(), event)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateBatch(id)

	slog.InfoContext(r.Context(), "Mortality recorded",
		"batch_id", id, "quantity", req.Quantity)
	event.ID = eventID
	writeJSON(w, http.StatusCreated, mortalityResponse{
		ID:       event.ID,
		BatchID:  event.BatchID,
		Quantity: event.Quantity,
		Date:     event.Date.String(),
		Reason:   event.Reason,
	})
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	expenses, err := s.batches.ListExpenses(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, expenseResponse{
			ID:       e.ID,
			BatchID:  e.BatchID,
			ItemName: e.ItemName,
			Category: e.Category,
			Amount:   e.Amount.String(),
			Date:     e.Date.String(),
			Notes:    e.Notes,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	var req expenseRequest
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

	expense := core.Expense{
		BatchID:  id,
		ItemName: sanitizeInput(req.ItemName),
		Category: sanitizeInput(req.Category),
		Amount:   amount,
		Date:     date,
		Notes:    sanitizeInput(req.Notes),
	}
	expenseID, err := s.batches.AddExpense(r.Context(), expense)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateBatch(id)

	expense.ID = expenseID
	writeJSON(w, http.StatusCreated, expenseResponse{
		ID:       expense.ID,
		BatchID:  expense.BatchID,
		ItemName: expense.ItemName,
		Category: expense.Category,
		Amount:   expense.Amount.String(),
		Date:     expense.Date.String(),
		Notes:    expense.Notes,
	})
}

func (s *Server) handleBatchReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	key := s.reportCacheKey(id)
	if rep, found := s.reportCache.Get(key); found {
		slog.DebugContext(r.Context(), "Report cache hit", "batch_id", id)
		writeJSON(w, http.StatusOK, toReportResponse(rep, now))
		return
	}

	rep, err := s.reports.BatchReport(r.Context(), id, now)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.reportCache.Set(key, rep)
	writeJSON(w, http.StatusOK, toReportResponse(rep, now))
}
