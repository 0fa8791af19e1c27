package http

import (
	"net/http"

	"semihos/internal/core"
	"semihos/internal/store"
)

type createTaskRequest struct {
	Text     string        `json:"text"`
	Priority core.Priority `json:"priority"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !decodeOrFail(w, r, &req) {
		return
	}
	task, err := s.store.AddTask(r.Context(), sanitizeInput(req.Text), req.Priority)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, store.EntityTask, task)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	toggleHandler(store.EntityTask, s.store.ToggleTask)(w, r)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	removeHandler(store.EntityTask, s.store.RemoveTask)(w, r)
}

type createRecurringTaskRequest struct {
	Text      string `json:"text"`
	DayOfWeek string `json:"dayOfWeek"`
}

// handleCreateRecurringTask accepts German weekday names and their aliases.
func (s *Server) handleCreateRecurringTask(w http.ResponseWriter, r *http.Request) {
	var req createRecurringTaskRequest
	if !decodeOrFail(w, r, &req) {
		return
	}
	day, err := core.ParseWeekday(req.DayOfWeek)
	if err != nil {
		writeError(w, r, core.Invalid("dayOfWeek", err))
		return
	}
	task, err := s.store.AddRecurringTask(r.Context(), sanitizeInput(req.Text), day)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, store.EntityRecurringTask, task)
}

func (s *Server) handleDeleteRecurringTask(w http.ResponseWriter, r *http.Request) {
	removeHandler(store.EntityRecurringTask, s.store.RemoveRecurringTask)(w, r)
}
