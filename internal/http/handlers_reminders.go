package http

import (
	"log/slog"
	"net/http"
	"time"
)

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	due, err := s.reminders.Upcoming(r.Context(), time.Now())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	out := make([]reminderResponse, 0, len(due))
	for _, rem := range due {
		out = append(out, reminderResponse{
			Title:    rem.Title,
			Message:  rem.Message,
			Batch:    rem.Batch,
			Priority: string(rem.Priority),
			Icon:     rem.Icon,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFarmOverview(w http.ResponseWriter, r *http.Request) {
	if ov, found := s.overviewCache.Get(overviewCacheKey); found {
		slog.DebugContext(r.Context(), "Overview cache hit")
		writeJSON(w, http.StatusOK, toOverviewResponse(ov))
		return
	}

	ov, err := s.reports.FarmOverview(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.overviewCache.Set(overviewCacheKey, ov)
	writeJSON(w, http.StatusOK, toOverviewResponse(ov))
}
