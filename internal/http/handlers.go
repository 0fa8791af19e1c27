package http

import (
	"context"
	"net/http"

	"semihos/internal/core"
)

// decodeOrFail decodes the body into dst and answers 400 on failure.
func decodeOrFail(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		BadRequestError(err.Error()).Write(w)
		return false
	}
	return true
}

// idOrFail reads the named path id and answers 400 on failure.
func idOrFail(w http.ResponseWriter, r *http.Request, name string) (core.ID, bool) {
	id, err := pathID(r, name)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return 0, false
	}
	return id, true
}

func created(w http.ResponseWriter, entity string, v any) {
	NewJSONResponse().Status(http.StatusCreated).Changed(entity).Body(v).Write(w)
}

func updated(w http.ResponseWriter, entity string, v any) {
	NewJSONResponse().Changed(entity).Body(v).Write(w)
}

// removeHandler builds a DELETE handler for entities addressed by {id}.
func removeHandler(entity string, remove func(context.Context, core.ID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idOrFail(w, r, "id")
		if !ok {
			return
		}
		if err := remove(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		NewJSONResponse().Changed(entity).Write(w)
	}
}

// toggleHandler builds a handler flipping the done state of {id}.
func toggleHandler[T any](entity string, toggle func(context.Context, core.ID) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idOrFail(w, r, "id")
		if !ok {
			return
		}
		v, err := toggle(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		updated(w, entity, v)
	}
}
