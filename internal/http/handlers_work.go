package http

import (
	"net/http"

	"semihos/internal/core"
	"semihos/internal/store"
)

// createWorkEntryRequest books hours. Day is set for retroactive entries and
// Rate overrides the resolved rate.
type createWorkEntryRequest struct {
	Hours Amount        `json:"hours"`
	Type  core.WorkType `json:"type"`
	Day   string        `json:"day"`
	Note  string        `json:"note"`
	Rate  Amount        `json:"rate"`
}

func (s *Server) handleCreateWorkEntry(w http.ResponseWriter, r *http.Request) {
	var req createWorkEntryRequest
	if !decodeOrFail(w, r, &req) {
		return
	}
	entry, err := s.store.AddWorkEntry(r.Context(), store.WorkEntryInput{
		Hours: string(req.Hours),
		Type:  req.Type,
		Day:   sanitizeInput(req.Day),
		Note:  sanitizeInput(req.Note),
		Rate:  string(req.Rate),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, store.EntityWorkEntry, entry)
}

// handleQuickBook books a standard Hauptjob day for today.
func (s *Server) handleQuickBook(w http.ResponseWriter, r *http.Request) {
	entry, err := s.store.QuickBook(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, store.EntityWorkEntry, entry)
}

func (s *Server) handleDeleteWorkEntry(w http.ResponseWriter, r *http.Request) {
	removeHandler(store.EntityWorkEntry, s.store.RemoveWorkEntry)(w, r)
}

type updateJobSettingsRequest struct {
	BaseRate       *Amount `json:"baseRate"`
	FutureRate     *Amount `json:"futureRate"`
	FutureRateDate *string `json:"futureRateDate"`
	StandardHours  *Amount `json:"standardHours"`
}

func (s *Server) handleUpdateJobSettings(w http.ResponseWriter, r *http.Request) {
	var req updateJobSettingsRequest
	if !decodeOrFail(w, r, &req) {
		return
	}
	settings, err := s.store.UpdateJobSettings(r.Context(), store.JobSettingsUpdate{
		BaseRate:       req.BaseRate.ptr(),
		FutureRate:     req.FutureRate.ptr(),
		FutureRateDate: optional(req.FutureRateDate),
		StandardHours:  req.StandardHours.ptr(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	updated(w, store.EntityJobSettings, settings)
}
