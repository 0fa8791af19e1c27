package http

import (
	"net/http"

	"semihos/internal/core"
	"semihos/internal/store"
)

// handleSearchPeople lists everyone, or those whose name or notes match q.
func (s *Server) handleSearchPeople(w http.ResponseWriter, r *http.Request) {
	term := sanitizeInput(r.URL.Query().Get("q"))
	NewJSONResponse().Body(s.store.SearchPeople(term)).Write(w)
}

type createPersonRequest struct {
	Name     string    `json:"name"`
	Role     core.Role `json:"role"`
	Birthday string    `json:"birthday"`
	Note     string    `json:"note"`
}

func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var req createPersonRequest
	if !decodeOrFail(w, r, &req) {
		return
	}
	person, err := s.store.AddPerson(r.Context(), store.PersonInput{
		Name:     sanitizeInput(req.Name),
		Role:     req.Role,
		Birthday: sanitizeInput(req.Birthday),
		Note:     sanitizeInput(req.Note),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, store.EntityPerson, person)
}

func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	removeHandler(store.EntityPerson, s.store.RemovePerson)(w, r)
}

type createNoteRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleCreatePersonNote(w http.ResponseWriter, r *http.Request) {
	personID, ok := idOrFail(w, r, "id")
	if !ok {
		return
	}
	var req createNoteRequest
	if !decodeOrFail(w, r, &req) {
		return
	}
	note, err := s.store.AddPersonNote(r.Context(), personID, sanitizeInput(req.Text))
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, store.EntityPersonNote, note)
}

func (s *Server) handleDeletePersonNote(w http.ResponseWriter, r *http.Request) {
	personID, ok := idOrFail(w, r, "id")
	if !ok {
		return
	}
	noteID, ok := idOrFail(w, r, "noteID")
	if !ok {
		return
	}
	if err := s.store.RemovePersonNote(r.Context(), personID, noteID); err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Changed(store.EntityPersonNote).Write(w)
}
