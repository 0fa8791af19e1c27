// Package http provides the JSON API over the store.
//
// This file implements a fluent builder for JSON responses and the mapping
// from domain errors to status codes.

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"semihos/internal/core"
	"semihos/internal/log"
	"semihos/internal/lookup"
	"semihos/internal/store"
)

// ChangedHeader names the entity a successful mutation touched, so clients
// can refresh the matching views.
const ChangedHeader = "X-Semihos-Changed"

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	changed    []string
	body       any
}

// NewJSONResponse creates a builder with a 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Changed records a touched entity in the ChangedHeader.
func (b *JSONResponseBuilder) Changed(entity string) *JSONResponseBuilder {
	b.changed = append(b.changed, entity)
	return b
}

func (b *JSONResponseBuilder) Header(key, value string) *JSONResponseBuilder {
	b.headers[key] = value
	return b
}

func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Write sends the response. A nil body with a 2xx status becomes 204.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for k, v := range b.headers {
		w.Header().Set(k, v)
	}
	if len(b.changed) > 0 {
		w.Header().Set(ChangedHeader, strings.Join(b.changed, ","))
	}
	if b.body == nil && b.statusCode < 300 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	if b.body != nil {
		_ = json.NewEncoder(w).Encode(b.body)
	}
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// ErrorResponse creates a builder for an error with the given status.
func ErrorResponse(status int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(status).Body(ErrorBody{Error: message})
}

func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func InternalError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, "internal error")
}

// errorFor maps a domain error to its response.
func errorFor(err error) *JSONResponseBuilder {
	var ve *core.ValidationError
	switch {
	case errors.As(err, &ve):
		return NewJSONResponse().Status(http.StatusUnprocessableEntity).
			Body(ErrorBody{Error: ve.Err.Error(), Field: ve.Field})
	case errors.Is(err, core.ErrNotFound):
		return NotFoundError(err.Error())
	case errors.Is(err, lookup.ErrSuperseded):
		return ErrorResponse(http.StatusConflict, "superseded by a newer search")
	case errors.Is(err, store.ErrHistoryUnavailable):
		return ErrorResponse(http.StatusNotImplemented, err.Error())
	case errors.Is(err, lookup.ErrLookupFailed):
		return ErrorResponse(http.StatusBadGateway, "product lookup failed")
	default:
		return InternalError()
	}
}

// writeError logs unexpected failures and sends the mapped response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorFor(err)
	if resp.statusCode >= 500 {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldError, err, log.FieldPath, r.URL.Path)
	}
	resp.Write(w)
}
