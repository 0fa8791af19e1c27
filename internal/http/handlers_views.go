package http

import (
	"net/http"
	"strconv"
)

// handleState returns the complete, detached state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(s.store.Snapshot()).Write(w)
}

// handleExport returns every record in its persisted form, keyed by
// storage key.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.Export()
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().
		Header("Content-Disposition", `attachment; filename="semihos-export.json"`).
		Body(records).
		Write(w)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(s.store.Dashboard()).Write(w)
}

// handleCalendar projects ?year=&month=, defaulting to the current month.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	params, err := ParseMonthParams(r, s.store.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(s.store.Calendar(params.Year, params.Month)).Write(w)
}

// handleHistory lists earlier saved values of one record, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			BadRequestError("invalid limit").Write(w)
			return
		}
		limit = n
	}
	revs, err := s.store.History(r.Context(), r.PathValue("key"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(revs).Write(w)
}
