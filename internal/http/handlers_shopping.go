package http

import (
	"context"
	"errors"
	"net/http"

	"semihos/internal/core"
	"semihos/internal/log"
	"semihos/internal/store"
)

func (s *Server) handleShopping(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(s.store.Shopping()).Write(w)
}

type createShoppingItemRequest struct {
	Text     string                `json:"text"`
	Category core.ShoppingCategory `json:"category"`
	Image    string                `json:"image"`
}

func (s *Server) handleCreateShoppingItem(w http.ResponseWriter, r *http.Request) {
	var req createShoppingItemRequest
	if !decodeOrFail(w, r, &req) {
		return
	}
	item, err := s.store.AddShoppingItem(r.Context(), store.ShoppingInput{
		Text:     sanitizeInput(req.Text),
		Category: req.Category,
		Image:    sanitizeInput(req.Image),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, store.EntityShoppingItem, item)
}

// addProductRequest carries a picked lookup result. Query is the text that
// was searched and names the item when the product has no name.
type addProductRequest struct {
	Name     string                `json:"name"`
	Brand    string                `json:"brand"`
	Image    string                `json:"image"`
	Category core.ShoppingCategory `json:"category"`
	Query    string                `json:"query"`
}

func (s *Server) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	var req addProductRequest
	if !decodeOrFail(w, r, &req) {
		return
	}
	item, err := s.store.AddShoppingProduct(r.Context(), store.ProductInput{
		Name:  sanitizeInput(req.Name),
		Brand: sanitizeInput(req.Brand),
		Image: sanitizeInput(req.Image),
	}, req.Category, sanitizeInput(req.Query))
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, store.EntityShoppingItem, item)
}

func (s *Server) handleToggleShoppingItem(w http.ResponseWriter, r *http.Request) {
	toggleHandler(store.EntityShoppingItem, s.store.ToggleShoppingItem)(w, r)
}

func (s *Server) handleDeleteShoppingItem(w http.ResponseWriter, r *http.Request) {
	removeHandler(store.EntityShoppingItem, s.store.RemoveShoppingItem)(w, r)
}

// handleSearchProducts runs a debounced product lookup. A newer search
// supersedes this one with 409; a client that went away gets no answer.
func (s *Server) handleSearchProducts(w http.ResponseWriter, r *http.Request) {
	if s.searcher == nil {
		ErrorResponse(http.StatusServiceUnavailable, "product lookup disabled").Write(w)
		return
	}
	query := sanitizeInput(r.URL.Query().Get("q"))
	products, err := s.searcher.Search(r.Context(), query)
	if err != nil {
		if errors.Is(err, context.Canceled) && r.Context().Err() != nil {
			log.FromContext(r.Context()).DebugContext(r.Context(), "Product search abandoned by client",
				log.FieldSearchTerm, query)
			return
		}
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Body(products).Write(w)
}
