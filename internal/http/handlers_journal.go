package http

import (
	"net/http"

	"semihos/internal/core"
	"semihos/internal/store"
)

type createDiaryRequest struct {
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Mood    core.Mood `json:"mood"`
}

func (s *Server) handleCreateDiaryEntry(w http.ResponseWriter, r *http.Request) {
	var req createDiaryRequest
	if !decodeOrFail(w, r, &req) {
		return
	}
	entry, err := s.store.AddDiaryEntry(r.Context(), store.DiaryInput{
		Title:   sanitizeInput(req.Title),
		Content: sanitizeInput(req.Content),
		Mood:    req.Mood,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, store.EntityDiaryEntry, entry)
}

type updateDiaryRequest struct {
	Title   *string    `json:"title"`
	Content *string    `json:"content"`
	Mood    *core.Mood `json:"mood"`
}

func (s *Server) handleUpdateDiaryEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := idOrFail(w, r, "id")
	if !ok {
		return
	}
	var req updateDiaryRequest
	if !decodeOrFail(w, r, &req) {
		return
	}
	entry, err := s.store.UpdateDiaryEntry(r.Context(), id, store.DiaryUpdate{
		Title:   optional(req.Title),
		Content: optional(req.Content),
		Mood:    req.Mood,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	updated(w, store.EntityDiaryEntry, entry)
}

func (s *Server) handleDeleteDiaryEntry(w http.ResponseWriter, r *http.Request) {
	removeHandler(store.EntityDiaryEntry, s.store.RemoveDiaryEntry)(w, r)
}

type createPlaceRequest struct {
	Name     string             `json:"name"`
	Address  string             `json:"address"`
	Category core.PlaceCategory `json:"category"`
}

func (s *Server) handleCreatePlace(w http.ResponseWriter, r *http.Request) {
	var req createPlaceRequest
	if !decodeOrFail(w, r, &req) {
		return
	}
	place, err := s.store.AddPlace(r.Context(), store.PlaceInput{
		Name:     sanitizeInput(req.Name),
		Address:  sanitizeInput(req.Address),
		Category: req.Category,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, store.EntityPlace, place)
}

func (s *Server) handleDeletePlace(w http.ResponseWriter, r *http.Request) {
	removeHandler(store.EntityPlace, s.store.RemovePlace)(w, r)
}
