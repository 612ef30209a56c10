package transport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/worklog/internal/domain/activity"
	"github.com/rpggio/worklog/internal/domain/tasktype"
)

type createTaskTypeRequest struct {
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	Color    string `json:"color"`
	IsPinned bool   `json:"is_pinned"`
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

type taskTypesResponse struct {
	TaskTypes []tasktype.TaskType `json:"task_types"`
}

type activityResponse struct {
	Activity []activity.ActivityEntry `json:"activity"`
}

func (s *Server) handleListTaskTypes(w http.ResponseWriter, r *http.Request, ownerID string) {
	includeArchived, err := queryBool(r, "include_archived")
	if err != nil {
		writeError(w, err)
		return
	}
	opts := tasktype.ListOptions{IncludeArchived: includeArchived != nil && *includeArchived}

	list, err := s.taskTypes.List(r.Context(), ownerID, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []tasktype.TaskType{}
	}
	writeJSON(w, http.StatusOK, taskTypesResponse{TaskTypes: list})
}

func (s *Server) handleCreateTaskType(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req createTaskTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	tt, err := s.taskTypes.Create(r.Context(), ownerID, tasktype.CreateRequest{
		Name:     req.Name,
		Emoji:    req.Emoji,
		Color:    req.Color,
		IsPinned: req.IsPinned,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tt)
}

func (s *Server) handleReorderTaskTypes(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req reorderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.taskTypes.Reorder(r.Context(), ownerID, req.IDs); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// taskTypeAction adapts a single-task-type settings change to a handler.
func (s *Server) taskTypeAction(fn func(ctx context.Context, ownerID, id string) (*tasktype.TaskType, error)) ownedHandler {
	return func(w http.ResponseWriter, r *http.Request, ownerID string) {
		tt, err := fn(r.Context(), ownerID, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tt)
	}
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request, ownerID string) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := s.activity.GetRecentActivity(r.Context(), ownerID, activity.ListActivityOptions{Limit: limit})
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []activity.ActivityEntry{}
	}
	writeJSON(w, http.StatusOK, activityResponse{Activity: entries})
}
