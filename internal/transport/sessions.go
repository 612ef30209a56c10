package transport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/worklog/internal/domain/session"
	"github.com/rpggio/worklog/internal/apierr"
)

type startRequest struct {
	TaskTypeID string `json:"task_type_id"`
	Notes      string `json:"notes"`
}

type manualRequest struct {
	TaskTypeID string    `json:"task_type_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Notes      string    `json:"notes"`
}

type editRequest struct {
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Notes     *string    `json:"notes"`
}

type currentResponse struct {
	Session *session.Session `json:"session"`
}

type sessionsResponse struct {
	Sessions []session.Session `json:"sessions"`
}

type searchResponse struct {
	Results []session.SearchResult `json:"results"`
}

func (s *Server) handleGetCurrent(w http.ResponseWriter, r *http.Request, ownerID string) {
	sess, err := s.sessions.GetCurrent(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, currentResponse{Session: sess})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req startRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess, err := s.sessions.Start(r.Context(), ownerID, session.StartRequest{TaskTypeID: req.TaskTypeID, Notes: req.Notes})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request, ownerID string) {
	sess, err := s.sessions.Stop(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleInterrupt(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req startRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	result, err := s.sessions.Interrupt(r.Context(), ownerID, session.StartRequest{TaskTypeID: req.TaskTypeID, Notes: req.Notes})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request, ownerID string) {
	opts := session.ListOptions{TaskTypeID: r.URL.Query().Get("task_type_id")}
	var err error
	if opts.From, err = queryTime(r, "from"); err != nil {
		writeError(w, err)
		return
	}
	if opts.To, err = queryTime(r, "to"); err != nil {
		writeError(w, err)
		return
	}
	if opts.Interrupted, err = queryBool(r, "interrupted"); err != nil {
		writeError(w, err)
		return
	}
	if opts.Manual, err = queryBool(r, "manual"); err != nil {
		writeError(w, err)
		return
	}
	if opts.Limit, err = queryInt(r, "limit"); err != nil {
		writeError(w, err)
		return
	}
	if opts.Offset, err = queryInt(r, "offset"); err != nil {
		writeError(w, err)
		return
	}

	sessions, err := s.sessions.List(r.Context(), ownerID, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	if sessions == nil {
		sessions = []session.Session{}
	}
	writeJSON(w, http.StatusOK, sessionsResponse{Sessions: sessions})
}

func (s *Server) handleCreateManual(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req manualRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		writeError(w, apierr.InvalidInput("start_time and end_time are required"))
		return
	}

	sess, err := s.sessions.CreateManual(r.Context(), ownerID, session.ManualRequest{
		TaskTypeID: req.TaskTypeID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Notes:      req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, ownerID string) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, apierr.InvalidInput("q is required"))
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}

	results, err := s.sessions.Search(r.Context(), ownerID, query, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if results == nil {
		results = []session.SearchResult{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: results})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, ownerID string) {
	sess, err := s.sessions.Get(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleEditSession(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req editRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess, err := s.sessions.Edit(r.Context(), ownerID, chi.URLParam(r, "id"), session.EditRequest{
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request, ownerID string) {
	if err := s.sessions.Delete(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
