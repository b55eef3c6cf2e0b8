// Package http exposes the farm ledger and finance tracker as a JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"huku/internal/cache"
	"huku/internal/middleware/ratelimit"
	"huku/internal/middleware/security"
	"huku/internal/middleware/trace"
	"huku/internal/services"
)

type Server struct {
	http.Server

	batches   *services.BatchService
	sales     *services.SaleService
	finance   *services.FinanceService
	reports   *services.ReportService
	reminders *services.ReminderService

	limiter *ratelimit.Limiter
	headers *security.HeadersMiddleware
	tracer  *trace.Middleware

	// Report data is expensive to assemble (four ledger reads per batch),
	// so responses are cached and invalidated on writes.
	reportCache   *cache.LRUCache[services.BatchReport]
	overviewCache *cache.LRUCache[services.FarmOverview]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, batches *services.BatchService, sales *services.SaleService, finance *services.FinanceService, reports *services.ReportService, reminders *services.ReminderService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		batches:          batches,
		sales:            sales,
		finance:          finance,
		reports:          reports,
		reminders:        reminders,
		limiter:          ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		headers:          security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		tracer:           trace.NewMiddleware(security.ExtractClientIP),
		reportCache:      cache.NewLRUCache[services.BatchReport](100, 5*time.Minute),
		overviewCache:    cache.NewLRUCache[services.FarmOverview](4, 2*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/batches", s.handleListBatches)
	mux.HandleFunc("POST /api/batches", s.handleCreateBatch)
	mux.HandleFunc("GET /api/batches/search", s.handleSearchBatches)
	mux.HandleFunc("GET /api/batches/{id}", s.handleGetBatch)
	mux.HandleFunc("PUT /api/batches/{id}", s.handleUpdateBatch)
	mux.HandleFunc("POST /api/batches/{id}/complete", s.handleCompleteBatch)
	mux.HandleFunc("GET /api/batches/{id}/feed", s.handleListFeed)
	mux.HandleFunc("POST /api/batches/{id}/feed", s.handleAddFeed)
	mux.HandleFunc("GET /api/batches/{id}/mortality", s.handleListMortality)
	mux.HandleFunc("POST /api/batches/{id}/mortality", s.handleRecordMortality)
	mux.HandleFunc("GET /api/batches/{id}/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/batches/{id}/expenses", s.handleAddExpense)
	mux.HandleFunc("GET /api/batches/{id}/sales", s.handleListSales)
	mux.HandleFunc("POST /api/batches/{id}/sales", s.handleAddSale)
	mux.HandleFunc("GET /api/batches/{id}/report", s.handleBatchReport)

	mux.HandleFunc("GET /api/reminders", s.handleListReminders)
	mux.HandleFunc("GET /api/overview", s.handleFarmOverview)

	mux.HandleFunc("GET /api/clients", s.handleListClients)
	mux.HandleFunc("POST /api/clients", s.handleCreateClient)
	mux.HandleFunc("GET /api/clients/{id}", s.handleGetClient)
	mux.HandleFunc("DELETE /api/clients/{id}", s.handleDeleteClient)
	mux.HandleFunc("GET /api/clients/{id}/summary", s.handleClientSummary)
	mux.HandleFunc("GET /api/clients/{id}/sales", s.handleListClientSales)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("GET /api/finance/summary", s.handleFinanceSummary)

	var handler http.Handler = mux
	handler = s.headers.Middleware(handler)
	handler = s.withWriteRateLimit(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.startCacheCleanup()

	return s
}

// withWriteRateLimit throttles mutating requests per client IP. Reads are
// cheap and cached, so they pass through unmetered.
func (s *Server) withWriteRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			clientIP := security.ExtractClientIP(r)
			if !s.limiter.Allow(clientIP) {
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				respondError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// startCacheCleanup runs periodic cleanup for both caches
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			reportsCleaned := s.reportCache.CleanExpired()
			overviewsCleaned := s.overviewCache.CleanExpired()
			if reportsCleaned > 0 || overviewsCleaned > 0 {
				slog.Debug("Cache cleanup completed",
					"report_entries_removed", reportsCleaned,
					"overview_entries_removed", overviewsCleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func (s *Server) reportCacheKey(batchID int64) string {
	return "batch-" + strconv.FormatInt(batchID, 10)
}

// invalidateBatch drops cached derived views after a write touching batchID.
func (s *Server) invalidateBatch(batchID int64) {
	s.reportCache.Delete(s.reportCacheKey(batchID))
	s.overviewCache.Delete(overviewCacheKey)
}

const overviewCacheKey = "farm"

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
