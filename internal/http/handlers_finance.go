package http

import (
	"net/http"

	"semihos/internal/core"
	"semihos/internal/store"
)

type createDebtRequest struct {
	Creditor string `json:"creditor"`
	Amount   Amount `json:"amount"`
	DueDate  string `json:"dueDate"`
	Category string `json:"category"`
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var req createDebtRequest
	if !decodeOrFail(w, r, &req) {
		return
	}
	debt, err := s.store.AddDebt(r.Context(), store.DebtInput{
		Creditor: sanitizeInput(req.Creditor),
		Amount:   string(req.Amount),
		DueDate:  sanitizeInput(req.DueDate),
		Category: sanitizeInput(req.Category),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, store.EntityDebt, debt)
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	removeHandler(store.EntityDebt, s.store.RemoveDebt)(w, r)
}

type payDebtRequest struct {
	Amount Amount `json:"amount"`
}

// handlePayDebt answers with the payoff, including the new available funds.
func (s *Server) handlePayDebt(w http.ResponseWriter, r *http.Request) {
	id, ok := idOrFail(w, r, "id")
	if !ok {
		return
	}
	var req payDebtRequest
	if !decodeOrFail(w, r, &req) {
		return
	}
	payoff, err := s.store.PayDebt(r.Context(), id, string(req.Amount))
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewJSONResponse().Changed(store.EntityDebt).Body(payoff).Write(w)
}

type createSubscriptionRequest struct {
	Name         string     `json:"name"`
	Cost         Amount     `json:"cost"`
	Cycle        core.Cycle `json:"cycle"`
	FirstPayment string     `json:"firstPayment"`
	Category     string     `json:"category"`
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req createSubscriptionRequest
	if !decodeOrFail(w, r, &req) {
		return
	}
	sub, err := s.store.AddSubscription(r.Context(), store.SubscriptionInput{
		Name:         sanitizeInput(req.Name),
		Cost:         string(req.Cost),
		Cycle:        req.Cycle,
		FirstPayment: sanitizeInput(req.FirstPayment),
		Category:     sanitizeInput(req.Category),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, store.EntitySubscription, sub)
}

func (s *Server) handleDeleteSubscription(w http.ResponseWriter, r *http.Request) {
	removeHandler(store.EntitySubscription, s.store.RemoveSubscription)(w, r)
}

func (s *Server) handleSubscriptionSchedule(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(s.store.SubscriptionSchedule()).Write(w)
}

type createTransactionRequest struct {
	Title    string               `json:"title"`
	Amount   Amount               `json:"amount"`
	Category string               `json:"category"`
	Type     core.TransactionType `json:"type"`
	Date     string               `json:"date"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !decodeOrFail(w, r, &req) {
		return
	}
	tx, err := s.store.AddTransaction(r.Context(), store.TransactionInput{
		Title:    sanitizeInput(req.Title),
		Amount:   string(req.Amount),
		Category: sanitizeInput(req.Category),
		Type:     req.Type,
		Date:     sanitizeInput(req.Date),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, store.EntityTransaction, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	removeHandler(store.EntityTransaction, s.store.RemoveTransaction)(w, r)
}

func (s *Server) handleTransactionsByDay(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(s.store.TransactionsByDay()).Write(w)
}

type updateBudgetRequest struct {
	Income     *Amount `json:"income"`
	FixedCosts *Amount `json:"fixedCosts"`
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req updateBudgetRequest
	if !decodeOrFail(w, r, &req) {
		return
	}
	err := s.store.UpdateBudget(r.Context(), store.BudgetUpdate{
		Income:     req.Income.ptr(),
		FixedCosts: req.FixedCosts.ptr(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	updated(w, store.EntityBudget, s.store.Dashboard())
}
