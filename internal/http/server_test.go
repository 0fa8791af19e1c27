package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"semihos/internal/core"
	"semihos/internal/lookup"
	"semihos/internal/storage"
	"semihos/internal/store"
)

var testNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, searcher *lookup.Searcher) *Server {
	t.Helper()
	st, err := store.Open(context.Background(), storage.NewMemoryKV(nil), store.Options{
		Clock:    core.FixedClock(testNow),
		Location: time.UTC,
	})
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	srv := NewServer(":0", st, searcher, nil)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, srv, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status = %d, want 200", path, rr.Code)
		}
		if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Errorf("%s missing security headers", path)
		}
		if !strings.HasPrefix(rr.Header().Get(requestIDHeader), "req_") {
			t.Errorf("%s request id = %q", path, rr.Header().Get(requestIDHeader))
		}
	}
}

func TestTaskLifecycle(t *testing.T) {
	srv := newTestServer(t, nil)

	rr := do(t, srv, http.MethodPost, "/api/tasks", `{"text":"  Steuer machen ","priority":"high"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rr.Code, rr.Body)
	}
	if got := rr.Header().Get(ChangedHeader); got != store.EntityTask {
		t.Errorf("%s = %q, want %q", ChangedHeader, got, store.EntityTask)
	}
	task := decode[core.Task](t, rr)
	if task.Text != "Steuer machen" || task.Priority != core.PriorityHigh || task.Done {
		t.Errorf("created task = %+v", task)
	}

	path := "/api/tasks/" + itoa(task.ID)
	rr = do(t, srv, http.MethodPost, path+"/toggle", "")
	if rr.Code != http.StatusOK || !decode[core.Task](t, rr).Done {
		t.Errorf("toggle status = %d, body %s", rr.Code, rr.Body)
	}

	if rr = do(t, srv, http.MethodDelete, path, ""); rr.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rr.Code)
	}
	if rr = do(t, srv, http.MethodDelete, path, ""); rr.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rr.Code)
	}
}

func TestRequestErrors(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantField  string
	}{
		{"zero debt", http.MethodPost, "/api/debts", `{"creditor":"Bank","amount":0}`, http.StatusUnprocessableEntity, "amount"},
		{"empty creditor", http.MethodPost, "/api/debts", `{"creditor":" ","amount":"10"}`, http.StatusUnprocessableEntity, "creditor"},
		{"bad weekday", http.MethodPost, "/api/recurring-tasks", `{"text":"Sport","dayOfWeek":"Funday"}`, http.StatusUnprocessableEntity, "dayOfWeek"},
		{"malformed json", http.MethodPost, "/api/tasks", `{"text":`, http.StatusBadRequest, ""},
		{"unknown field", http.MethodPost, "/api/tasks", `{"txt":"x"}`, http.StatusBadRequest, ""},
		{"empty body", http.MethodPost, "/api/places", ``, http.StatusBadRequest, ""},
		{"bad id", http.MethodDelete, "/api/debts/abc", "", http.StatusBadRequest, ""},
		{"unknown id", http.MethodPost, "/api/debts/999/payments", `{"amount":"5"}`, http.StatusNotFound, ""},
		{"bad month", http.MethodGet, "/api/calendar?year=2024&month=13", "", http.StatusUnprocessableEntity, "month"},
		{"wrong method", http.MethodGet, "/api/tasks", "", http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, srv, tt.method, tt.path, tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantStatus, rr.Body)
			}
			if tt.wantField != "" {
				if got := decode[ErrorBody](t, rr).Field; got != tt.wantField {
					t.Errorf("field = %q, want %q", got, tt.wantField)
				}
			}
		})
	}
}

func TestPayDebtEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	rr := do(t, srv, http.MethodPost, "/api/debts/2/payments", `{"amount":"100,50"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	payoff := decode[store.Payoff](t, rr)
	if want := decimal.RequireFromString("199.5"); !payoff.Remaining.Equal(want) {
		t.Errorf("Remaining = %v, want %v", payoff.Remaining, want)
	}
	if want := decimal.RequireFromString("-1100.5"); !payoff.AvailableFunds.Equal(want) {
		t.Errorf("AvailableFunds = %v, want %v", payoff.AvailableFunds, want)
	}

	dash := decode[store.Dashboard](t, do(t, srv, http.MethodGet, "/api/dashboard", ""))
	if want := decimal.RequireFromString("3699.5"); !dash.TotalDebt.Equal(want) {
		t.Errorf("TotalDebt = %v, want %v", dash.TotalDebt, want)
	}
}

func TestWorkAndSettingsEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	rr := do(t, srv, http.MethodPost, "/api/work-entries", `{"hours":4,"type":"Nebenjob","day":"2024-03-18"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rr.Code, rr.Body)
	}
	entry := decode[core.WorkEntry](t, rr)
	if !entry.Earnings.Equal(decimal.NewFromInt(48)) {
		t.Errorf("Earnings = %v, want 48", entry.Earnings)
	}

	rr = do(t, srv, http.MethodPatch, "/api/job-settings", `{"baseRate":"18,25"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("settings status = %d, body %s", rr.Code, rr.Body)
	}
	if got := decode[core.JobSettings](t, rr).BaseRate; !got.Equal(decimal.RequireFromString("18.25")) {
		t.Errorf("BaseRate = %v, want 18.25", got)
	}

	rr = do(t, srv, http.MethodPost, "/api/work-entries/quick", "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("quick status = %d, body %s", rr.Code, rr.Body)
	}
	quick := decode[core.WorkEntry](t, rr)
	if want := decimal.RequireFromString("146"); !quick.Earnings.Equal(want) {
		t.Errorf("quick Earnings = %v, want %v", quick.Earnings, want)
	}
}

func TestCalendarEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	rr := do(t, srv, http.MethodPost, "/api/people", `{"name":"Anna","birthday":"1990-03-20"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create person status = %d, body %s", rr.Code, rr.Body)
	}

	view := decode[core.MonthView](t, do(t, srv, http.MethodGet, "/api/calendar", ""))
	if view.Year != 2024 || view.Month != 3 || view.LeadingBlanks != 4 || len(view.Days) != 31 {
		t.Fatalf("calendar = %d-%d blanks %d days %d", view.Year, view.Month, view.LeadingBlanks, len(view.Days))
	}
	day := view.Days[19]
	if !day.Today || len(day.Events) != 1 || day.Events[0].Title != "Anna (34)" {
		t.Errorf("Days[19] = %+v", day)
	}
}

func TestPeopleSearchAndNotes(t *testing.T) {
	srv := newTestServer(t, nil)

	person := decode[core.Person](t, do(t, srv, http.MethodPost, "/api/people", `{"name":"Ben","role":"family"}`))
	path := "/api/people/" + itoa(person.ID) + "/notes"
	rr := do(t, srv, http.MethodPost, path, `{"text":"mag Schach"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("note status = %d, body %s", rr.Code, rr.Body)
	}
	note := decode[core.Note](t, rr)

	found := decode[[]core.Person](t, do(t, srv, http.MethodGet, "/api/people?q=schach", ""))
	if len(found) != 1 || found[0].ID != person.ID {
		t.Errorf("search = %+v, want Ben", found)
	}

	if rr = do(t, srv, http.MethodDelete, path+"/"+itoa(note.ID), ""); rr.Code != http.StatusNoContent {
		t.Errorf("delete note status = %d", rr.Code)
	}
}

type stubSource struct{ calls int }

func (s *stubSource) Search(_ context.Context, query string) ([]lookup.Product, error) {
	s.calls++
	return []lookup.Product{{ID: "1", Name: "Hafermilch " + query, Image: "img", Stores: "Rewe"}}, nil
}

func TestProductSearch(t *testing.T) {
	if rr := do(t, newTestServer(t, nil), http.MethodGet, "/api/products?q=milch", ""); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("disabled lookup status = %d, want 503", rr.Code)
	}

	src := &stubSource{}
	srv := newTestServer(t, lookup.NewSearcher(src, lookup.Options{}))

	products := decode[[]lookup.Product](t, do(t, srv, http.MethodGet, "/api/products?q=milch", ""))
	if len(products) != 1 || products[0].Name != "Hafermilch milch" {
		t.Errorf("products = %+v", products)
	}

	short := decode[[]lookup.Product](t, do(t, srv, http.MethodGet, "/api/products?q=m", ""))
	if len(short) != 0 || src.calls != 1 {
		t.Errorf("short query = %+v, calls %d", short, src.calls)
	}

	rr := do(t, srv, http.MethodPost, "/api/shopping/products", `{"image":"img","category":"drugstore","query":"Zahnpasta"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add product status = %d, body %s", rr.Code, rr.Body)
	}
	if item := decode[core.ShoppingItem](t, rr); item.Text != "Zahnpasta" || item.Image != "img" {
		t.Errorf("item = %+v", item)
	}
}

func TestMutationRateLimit(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.rateLimiter.limit = 2

	for i := 0; i < 2; i++ {
		if rr := do(t, srv, http.MethodPost, "/api/tasks", `{"text":"x"}`); rr.Code != http.StatusCreated {
			t.Fatalf("request %d status = %d", i, rr.Code)
		}
	}
	rr := do(t, srv, http.MethodPost, "/api/tasks", `{"text":"x"}`)
	if rr.Code != http.StatusTooManyRequests || rr.Header().Get("Retry-After") != "60" {
		t.Errorf("status = %d, Retry-After %q", rr.Code, rr.Header().Get("Retry-After"))
	}
	// reads are never limited
	if rr := do(t, srv, http.MethodGet, "/api/dashboard", ""); rr.Code != http.StatusOK {
		t.Errorf("read status = %d, want 200", rr.Code)
	}
	if got := srv.Stats().RateLimitHits; got != 1 {
		t.Errorf("RateLimitHits = %d, want 1", got)
	}
}

func TestSuspiciousRequestRejected(t *testing.T) {
	srv := newTestServer(t, nil)
	if rr := do(t, srv, http.MethodGet, "/.env", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
	if got := srv.Stats().SuspiciousRequests; got != 1 {
		t.Errorf("SuspiciousRequests = %d, want 1", got)
	}
}

func TestExportEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	rr := do(t, srv, http.MethodGet, "/api/export", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	records := decode[map[string]string](t, rr)
	if len(records) != len(store.Keys) {
		t.Errorf("len(records) = %d, want %d", len(records), len(store.Keys))
	}
	if records[store.KeyAvailableFunds] != `"-1000"` {
		t.Errorf("availableFunds = %s", records[store.KeyAvailableFunds])
	}
}

func TestHistoryEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	if rr := do(t, srv, http.MethodGet, "/api/history/tasks", ""); rr.Code != http.StatusNotImplemented {
		t.Errorf("memory backend status = %d, want 501", rr.Code)
	}
	if rr := do(t, srv, http.MethodGet, "/api/history/bogus", ""); rr.Code != http.StatusNotFound {
		t.Errorf("unknown key status = %d, want 404", rr.Code)
	}
	if rr := do(t, srv, http.MethodGet, "/api/history/tasks?limit=x", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", rr.Code)
	}
}

func itoa(id core.ID) string { return strconv.FormatInt(int64(id), 10) }
