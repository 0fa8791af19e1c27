package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"semihos/internal/amqp"
	"semihos/internal/core"
	"semihos/internal/gcal"
	"semihos/internal/store"
)

type fakeSource struct {
	now     time.Time
	reloads int
}

func (f *fakeSource) Reload(context.Context) { f.reloads++ }
func (f *fakeSource) Now() time.Time          { return f.now }
func (f *fakeSource) Calendar(year, month int) core.MonthView {
	return core.MonthView{Year: year, Month: month}
}

type fakeExporter struct {
	mu      sync.Mutex
	months  []core.MonthView
	failFor int
}

func (f *fakeExporter) ExportMonth(_ context.Context, view core.MonthView) (gcal.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.months = append(f.months, view)
	if view.Month == f.failFor {
		return gcal.Result{}, errors.New("quota exceeded")
	}
	return gcal.Result{Created: 1, Unchanged: 2}, nil
}

func (f *fakeExporter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.months)
}

func TestSyncOnceExportsCurrentAndNextMonth(t *testing.T) {
	src := &fakeSource{now: time.Date(2024, 12, 20, 9, 0, 0, 0, time.UTC)}
	exp := &fakeExporter{}
	w := NewCalendarWorker(src, exp, nil)

	res, err := w.SyncOnce(context.Background())
	if err != nil {
		t.Fatalf("SyncOnce() error = %v", err)
	}
	if src.reloads != 1 {
		t.Errorf("reloads = %d, want 1", src.reloads)
	}
	if len(exp.months) != 2 {
		t.Fatalf("exported %d months, want 2", len(exp.months))
	}
	if got := exp.months[1]; got.Year != 2025 || got.Month != 1 {
		t.Errorf("second month = %d-%d, want 2025-1", got.Year, got.Month)
	}
	if res.Created != 2 || res.Unchanged != 4 {
		t.Errorf("SyncOnce() = %+v, want Created 2 Unchanged 4", res)
	}
}

func TestSyncOnceContinuesAfterFailure(t *testing.T) {
	src := &fakeSource{now: time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)}
	exp := &fakeExporter{failFor: 3}
	w := NewCalendarWorker(src, exp, nil)

	res, err := w.SyncOnce(context.Background())
	if err == nil {
		t.Fatal("SyncOnce() error = nil, want export failure")
	}
	if len(exp.months) != 2 || res.Created != 1 {
		t.Errorf("months = %d, result %+v; want April still exported", len(exp.months), res)
	}
}

func TestHandleChangeMessage(t *testing.T) {
	w := NewCalendarWorker(&fakeSource{}, &fakeExporter{}, nil)
	ctx := context.Background()

	if err := w.HandleChangeMessage(ctx, &amqp.ChangeMessage{Entity: store.EntityTask, Keys: []string{store.KeyTasks}}); err != nil {
		t.Fatalf("HandleChangeMessage() error = %v", err)
	}
	if len(w.trigger) != 0 {
		t.Error("task change must not schedule a sync")
	}

	for i := 0; i < 3; i++ {
		msg := &amqp.ChangeMessage{Entity: store.EntityDebt, Keys: []string{store.KeyDebts, store.KeyAvailableFunds}}
		if err := w.HandleChangeMessage(ctx, msg); err != nil {
			t.Fatalf("HandleChangeMessage() error = %v", err)
		}
	}
	if len(w.trigger) != 1 {
		t.Errorf("pending syncs = %d, want notifications collapsed into 1", len(w.trigger))
	}
}

func TestRunSyncsAtStartAndOnNotify(t *testing.T) {
	src := &fakeSource{now: time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)}
	exp := &fakeExporter{}
	w := NewCalendarWorker(src, exp, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx, time.Hour)
		close(done)
	}()

	waitFor(t, func() bool { return exp.count() == 2 })
	w.Notify()
	waitFor(t, func() bool { return exp.count() == 4 })

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
