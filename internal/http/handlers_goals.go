package http

import (
	"net/http"

	"semihos/internal/core"
	"semihos/internal/store"
)

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(s.store.Goals()).Write(w)
}

type createGoalRequest struct {
	Title      string            `json:"title"`
	Category   core.GoalCategory `json:"category"`
	Deadline   string            `json:"deadline"`
	Milestones []string          `json:"milestones"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if !decodeOrFail(w, r, &req) {
		return
	}
	milestones := make([]string, 0, len(req.Milestones))
	for _, m := range req.Milestones {
		milestones = append(milestones, sanitizeInput(m))
	}
	goal, err := s.store.AddGoal(r.Context(), store.GoalInput{
		Title:      sanitizeInput(req.Title),
		Category:   req.Category,
		Deadline:   sanitizeInput(req.Deadline),
		Milestones: milestones,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, store.EntityGoal, goal)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	removeHandler(store.EntityGoal, s.store.RemoveGoal)(w, r)
}

type createMilestoneRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleCreateMilestone(w http.ResponseWriter, r *http.Request) {
	goalID, ok := idOrFail(w, r, "id")
	if !ok {
		return
	}
	var req createMilestoneRequest
	if !decodeOrFail(w, r, &req) {
		return
	}
	m, err := s.store.AddMilestone(r.Context(), goalID, sanitizeInput(req.Text))
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, store.EntityMilestone, m)
}

func (s *Server) handleToggleMilestone(w http.ResponseWriter, r *http.Request) {
	goalID, ok := idOrFail(w, r, "id")
	if !ok {
		return
	}
	milestoneID, ok := idOrFail(w, r, "milestoneID")
	if !ok {
		return
	}
	m, err := s.store.ToggleMilestone(r.Context(), goalID, milestoneID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	updated(w, store.EntityMilestone, m)
}

func (s *Server) handleDeleteMilestone(w http.ResponseWriter, r *http.Request) {
	goalID, ok := idOrFail(w, r, "id")
	if !ok {
		return
	}
	milestoneID, ok := idOrFail(w, r, "milestoneID")
	if !ok {
		return
	}
	if err := s.store.RemoveMilestone(r.Context(), goalID, milestoneID); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Changed(store.EntityMilestone).Write(w)
}
