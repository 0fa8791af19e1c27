// Package worker keeps the external calendar in step with the store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"semihos/internal/amqp"
	"semihos/internal/core"
	"semihos/internal/gcal"
	"semihos/internal/log"
	"semihos/internal/store"
)

// CalendarSource is the part of the store the worker reads.
type CalendarSource interface {
	Reload(ctx context.Context)
	Now() time.Time
	Calendar(year, month int) core.MonthView
}

// MonthExporter writes one projected month to the external calendar.
type MonthExporter interface {
	ExportMonth(ctx context.Context, view core.MonthView) (gcal.Result, error)
}

// CalendarWorker exports the current and the following months. Syncs run
// on a ticker and whenever a change to a calendar record is announced;
// announcements arriving during a sync collapse into one follow-up sync.
type CalendarWorker struct {
	source   CalendarSource
	exporter MonthExporter
	logger   *log.Logger
	months   int
	trigger  chan struct{}
}

func NewCalendarWorker(source CalendarSource, exporter MonthExporter, logger *log.Logger) *CalendarWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &CalendarWorker{
		source:   source,
		exporter: exporter,
		logger:   logger.WithComponent(log.ComponentWorker),
		months:   2,
		trigger:  make(chan struct{}, 1),
	}
}

// Notify schedules a sync without blocking.
func (w *CalendarWorker) Notify() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// HandleChangeMessage schedules a sync when the change touches a record the
// calendar is projected from. It never fails, so deliveries are always acked.
func (w *CalendarWorker) HandleChangeMessage(ctx context.Context, msg *amqp.ChangeMessage) error {
	if !msg.Touches(store.CalendarKeys...) {
		w.logger.DebugContext(ctx, "Ignoring change outside the calendar",
			log.FieldMessageID, msg.MessageID, log.FieldEntity, msg.Entity)
		return nil
	}
	w.logger.InfoContext(ctx, "Calendar change received",
		log.FieldMessageID, msg.MessageID,
		log.FieldEntity, msg.Entity,
		log.FieldOperation, msg.Op)
	w.Notify()
	return nil
}

// SyncOnce reloads the store and exports every tracked month. A failing
// month does not stop the others.
func (w *CalendarWorker) SyncOnce(ctx context.Context) (gcal.Result, error) {
	w.source.Reload(ctx)
	now := w.source.Now()

	var total gcal.Result
	var errs []error
	for i := 0; i < w.months; i++ {
		first := time.Date(now.Year(), now.Month()+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		year, month := first.Year(), int(first.Month())

		res, err := w.exporter.ExportMonth(ctx, w.source.Calendar(year, month))
		if err != nil {
			w.logger.ErrorContext(ctx, "Calendar export failed",
				log.FieldYear, year, log.FieldMonth, month, log.FieldError, err)
			errs = append(errs, fmt.Errorf("export %d-%02d: %w", year, month, err))
			continue
		}
		total.Created += res.Created
		total.Updated += res.Updated
		total.Deleted += res.Deleted
		total.Unchanged += res.Unchanged
	}
	return total, errors.Join(errs...)
}

// Run syncs once at start, then on every tick or notification until ctx ends.
func (w *CalendarWorker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.Notify()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Notify()
		case <-w.trigger:
			res, err := w.SyncOnce(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				continue
			}
			w.logger.InfoContext(ctx, "Calendar synchronised",
				log.FieldOperation, log.OpSync,
				"created", res.Created,
				"updated", res.Updated,
				"deleted", res.Deleted,
				"unchanged", res.Unchanged)
		}
	}
}
