package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"semihos/internal/log"
	"semihos/internal/lookup"
	"semihos/internal/store"
)

// DefaultMutationLimit is the number of mutating requests a client may send
// per minute.
const DefaultMutationLimit = 60

const requestIDHeader = "X-Request-ID"

// Server is the JSON API over a Store.
type Server struct {
	http.Server

	store    *store.Store
	searcher *lookup.Searcher
	logger   *log.Logger

	rateLimiter  *rateLimiter
	metrics      *securityMetrics
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware. searcher may be nil, in which
// case product search answers 503.
func NewServer(addr string, st *store.Store, searcher *lookup.Searcher, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		store:       st,
		searcher:    searcher,
		logger:      logger,
		rateLimiter: newRateLimiter(DefaultMutationLimit),
		metrics:     &securityMetrics{},
	}

	mux := http.NewServeMux()
	s.routes(mux)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.withSecurity(log.Middleware(logger, requestIDOf)(mux)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.rateLimiter.start()
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.HandleFunc("GET /api/history/{key}", s.handleHistory)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/calendar", s.handleCalendar)

	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("POST /api/tasks/{id}/toggle", s.handleToggleTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("POST /api/recurring-tasks", s.handleCreateRecurringTask)
	mux.HandleFunc("DELETE /api/recurring-tasks/{id}", s.handleDeleteRecurringTask)

	mux.HandleFunc("POST /api/debts", s.handleCreateDebt)
	mux.HandleFunc("DELETE /api/debts/{id}", s.handleDeleteDebt)
	mux.HandleFunc("POST /api/debts/{id}/payments", s.handlePayDebt)

	mux.HandleFunc("POST /api/work-entries", s.handleCreateWorkEntry)
	mux.HandleFunc("POST /api/work-entries/quick", s.handleQuickBook)
	mux.HandleFunc("DELETE /api/work-entries/{id}", s.handleDeleteWorkEntry)
	mux.HandleFunc("PATCH /api/job-settings", s.handleUpdateJobSettings)

	mux.HandleFunc("POST /api/diary", s.handleCreateDiaryEntry)
	mux.HandleFunc("PATCH /api/diary/{id}", s.handleUpdateDiaryEntry)
	mux.HandleFunc("DELETE /api/diary/{id}", s.handleDeleteDiaryEntry)
	mux.HandleFunc("POST /api/places", s.handleCreatePlace)
	mux.HandleFunc("DELETE /api/places/{id}", s.handleDeletePlace)

	mux.HandleFunc("GET /api/people", s.handleSearchPeople)
	mux.HandleFunc("POST /api/people", s.handleCreatePerson)
	mux.HandleFunc("DELETE /api/people/{id}", s.handleDeletePerson)
	mux.HandleFunc("POST /api/people/{id}/notes", s.handleCreatePersonNote)
	mux.HandleFunc("DELETE /api/people/{id}/notes/{noteID}", s.handleDeletePersonNote)

	mux.HandleFunc("GET /api/shopping", s.handleShopping)
	mux.HandleFunc("POST /api/shopping", s.handleCreateShoppingItem)
	mux.HandleFunc("POST /api/shopping/products", s.handleAddProduct)
	mux.HandleFunc("POST /api/shopping/{id}/toggle", s.handleToggleShoppingItem)
	mux.HandleFunc("DELETE /api/shopping/{id}", s.handleDeleteShoppingItem)
	mux.HandleFunc("GET /api/products", s.handleSearchProducts)

	mux.HandleFunc("GET /api/goals", s.handleGoals)
	mux.HandleFunc("POST /api/goals", s.handleCreateGoal)
	mux.HandleFunc("DELETE /api/goals/{id}", s.handleDeleteGoal)
	mux.HandleFunc("POST /api/goals/{id}/milestones", s.handleCreateMilestone)
	mux.HandleFunc("POST /api/goals/{id}/milestones/{milestoneID}/toggle", s.handleToggleMilestone)
	mux.HandleFunc("DELETE /api/goals/{id}/milestones/{milestoneID}", s.handleDeleteMilestone)

	mux.HandleFunc("GET /api/subscriptions/schedule", s.handleSubscriptionSchedule)
	mux.HandleFunc("POST /api/subscriptions", s.handleCreateSubscription)
	mux.HandleFunc("DELETE /api/subscriptions/{id}", s.handleDeleteSubscription)
	mux.HandleFunc("GET /api/transactions", s.handleTransactionsByDay)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("PATCH /api/budget", s.handleUpdateBudget)
}

// Shutdown stops the background cleanup, drains the HTTP server and flushes
// records still waiting to be persisted.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
		s.store.Flush(ctx)
	})
	return shutdownErr
}

// Stats returns the security counters.
func (s *Server) Stats() SecurityStats { return s.metrics.snapshot() }

func requestIDOf(r *http.Request) string { return r.Header.Get(requestIDHeader) }

func isMutation(method string) bool {
	return method == http.MethodPost || method == http.MethodPatch ||
		method == http.MethodPut || method == http.MethodDelete
}

// withSecurity assigns the request id, rejects probes and rate limits
// mutations per client before the request reaches the router.
func (s *Server) withSecurity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := generateRequestID()
		r.Header.Set(requestIDHeader, requestID)

		h := w.Header()
		h.Set(requestIDHeader, requestID)
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")

		clientIP := extractClientIP(r)
		if detectSuspiciousRequest(r, s.metrics) {
			s.logger.WarnContext(r.Context(), "Suspicious request rejected",
				log.FieldRequestID, requestID,
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			ErrorResponse(http.StatusBadRequest, "request rejected").Write(w)
			return
		}

		if isMutation(r.Method) && !s.rateLimiter.allow(clientIP, s.metrics) {
			s.logger.WarnContext(r.Context(), "Rate limit exceeded",
				log.FieldRequestID, requestID,
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later").
				Header("Retry-After", "60").
				Write(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]string{"status": "ok"}).Write(w)
}

// handleReady reports not ready while records wait to be persisted.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	pending := s.store.Pending()
	body := struct {
		Status   string        `json:"status"`
		Pending  []string      `json:"pending,omitempty"`
		Security SecurityStats `json:"security"`
	}{Status: "ready", Pending: pending, Security: s.Stats()}

	resp := NewJSONResponse()
	if len(pending) > 0 {
		body.Status = "degraded"
		resp.Status(http.StatusServiceUnavailable)
	}
	resp.Body(body).Write(w)
}
