package transport

import (
	"net/http"
	"time"

	"github.com/rpggio/worklog/internal/domain/analytics"
)

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request, ownerID string) {
	date, err := analytics.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := s.analytics.Daily(r.Context(), ownerID, date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleWeekly(w http.ResponseWriter, r *http.Request, ownerID string) {
	start, end, err := dateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := s.analytics.Weekly(r.Context(), ownerID, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request, ownerID string) {
	start, end, err := dateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := s.analytics.Monthly(r.Context(), ownerID, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request, ownerID string) {
	start, end, err := dateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}
	heatmap, err := s.analytics.Heatmap(r.Context(), ownerID, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, heatmap)
}

func dateRange(r *http.Request) (time.Time, time.Time, error) {
	start, err := analytics.ParseDate(r.URL.Query().Get("start_date"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := analytics.ParseDate(r.URL.Query().Get("end_date"))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
