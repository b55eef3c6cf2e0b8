package http

import (
	"net/http"

	"huku/internal/core"
)

func (s *Server) handleListSales(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	sales, err := s.sales.ListSales(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	out := make([]saleResponse, 0, len(sales))
	for _, sale := range sales {
		out = append(out, toSaleResponse(sale))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	var req saleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	price, err := parseMoney(req.UnitPrice)
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	sale := core.Sale{
		BatchID:  id,
		ClientID: req.ClientID,
		Type:     core.SaleType(req.Type),
		Quantity: req.Quantity,
		Price:    price,
		Date:     date,
	}
	saleID, err := s.sales.AddSale(r.Context(), sale)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.invalidateBatch(id)

	sale.ID = saleID
	sale.Total = sale.ComputedTotal()
	writeJSON(w, http.StatusCreated, toSaleResponse(sale))
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.sales.ListClients(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	out := make([]clientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, clientResponse{ID: c.ID, Name: c.Name, Phone: c.Phone})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	client := core.Client{
		Name:  sanitizeInput(req.Name),
		Phone: sanitizeInput(req.Phone),
	}
	id, err := s.sales.AddClient(r.Context(), client)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, clientResponse{ID: id, Name: client.Name, Phone: client.Phone})
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	client, err := s.sales.GetClient(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, clientResponse{ID: client.ID, Name: client.Name, Phone: client.Phone})
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.sales.DeleteClient(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListClientSales(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := s.sales.GetClient(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	sales, err := s.sales.ListSalesByClient(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	out := make([]saleResponse, 0, len(sales))
	for _, sale := range sales {
		out = append(out, toSaleResponse(sale))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleClientSummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	summary, err := s.sales.SummarizeClient(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Client clientResponse `json:"client"`
		Sales  int            `json:"sales"`
		Total  string         `json:"total"`
	}{
		Client: clientResponse{ID: summary.Client.ID, Name: summary.Client.Name, Phone: summary.Client.Phone},
		Sales:  summary.Sales,
		Total:  summary.Total.String(),
	})
}
