// Package gcal mirrors the dashboard calendar into a Google calendar.
package gcal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"semihos/internal/core"
	"semihos/internal/log"
)

const (
	propSource = "source"
	propKey    = "semihos_key"
	sourceName = "semihos"
)

// Credentials points at a service account key, inline or on disk.
type Credentials struct {
	JSON string
	File string
}

func (c Credentials) load() ([]byte, error) {
	switch {
	case strings.TrimSpace(c.JSON) != "":
		return []byte(c.JSON), nil
	case strings.TrimSpace(c.File) != "":
		b, err := os.ReadFile(c.File)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
}

// NewService builds a Calendar client authorised with a service account.
func NewService(ctx context.Context, creds Credentials, opts ...option.ClientOption) (*calendar.Service, error) {
	raw, err := creds.load()
	if err != nil {
		return nil, err
	}
	opts = append([]option.ClientOption{
		option.WithCredentialsJSON(raw),
		option.WithScopes(calendar.CalendarEventsScope),
	}, opts...)
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return svc, nil
}

// Result counts what an export changed.
type Result struct {
	Created   int
	Updated   int
	Deleted   int
	Unchanged int
}

// Exporter writes month projections as all-day events. Events it owns are
// tagged with private extended properties so reruns update in place.
type Exporter struct {
	svc        *calendar.Service
	calendarID string
	logger     *log.Logger
}

func NewExporter(svc *calendar.Service, calendarID string, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.Discard()
	}
	return &Exporter{svc: svc, calendarID: calendarID, logger: logger.WithComponent(log.ComponentCalendar)}
}

// ToCalendarEvents converts every marker of the month into an all-day event.
// Keys are stable for identical markers across runs.
func ToCalendarEvents(view core.MonthView) []*calendar.Event {
	var out []*calendar.Event
	for _, cell := range view.Days {
		seen := map[string]int{}
		for _, ev := range cell.Events {
			base := cell.Date.String() + "/" + string(ev.Type) + "/" + ev.Title
			seen[base]++
			key := base
			if n := seen[base]; n > 1 {
				key = fmt.Sprintf("%s#%d", base, n)
			}
			out = append(out, ToCalendarEvent(cell.Date, ev, key))
		}
	}
	return out
}

// ToCalendarEvent builds a single all-day event on day.
func ToCalendarEvent(day core.Date, ev core.Event, key string) *calendar.Event {
	return &calendar.Event{
		Summary:      ev.Title,
		Description:  eventDescription(ev.Type),
		Start:        &calendar.EventDateTime{Date: day.String()},
		End:          &calendar.EventDateTime{Date: day.AddDays(1).String()},
		Transparency: "transparent",
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{propSource: sourceName, propKey: key, "type": string(ev.Type)},
		},
	}
}

func eventDescription(t core.EventType) string {
	switch t {
	case core.EventWork:
		return "Arbeitszeit"
	case core.EventDiary:
		return "Tagebucheintrag"
	case core.EventDebt:
		return "Fälligkeit"
	case core.EventRecurring:
		return "Wiederkehrende Aufgabe"
	case core.EventBirthday:
		return "Geburtstag"
	default:
		return ""
	}
}

// ExportMonth makes the calendar match view: missing events are inserted,
// changed ones patched and events no longer projected deleted.
func (e *Exporter) ExportMonth(ctx context.Context, view core.MonthView) (Result, error) {
	var res Result
	existing, err := e.owned(ctx, view)
	if err != nil {
		return res, err
	}

	for _, want := range ToCalendarEvents(view) {
		key := want.ExtendedProperties.Private[propKey]
		have, ok := existing[key]
		if !ok {
			if _, err := e.svc.Events.Insert(e.calendarID, want).Context(ctx).Do(); err != nil {
				return res, fmt.Errorf("insert event %s: %w", key, err)
			}
			res.Created++
			continue
		}
		delete(existing, key)
		if have.Summary == want.Summary && have.Description == want.Description {
			res.Unchanged++
			continue
		}
		patch := &calendar.Event{Summary: want.Summary, Description: want.Description}
		if _, err := e.svc.Events.Patch(e.calendarID, have.Id, patch).Context(ctx).Do(); err != nil {
			return res, fmt.Errorf("patch event %s: %w", key, err)
		}
		res.Updated++
	}

	for key, stale := range existing {
		if err := e.svc.Events.Delete(e.calendarID, stale.Id).Context(ctx).Do(); err != nil {
			return res, fmt.Errorf("delete event %s: %w", key, err)
		}
		res.Deleted++
	}

	e.logger.InfoContext(ctx, "Calendar exported",
		log.FieldCalendarID, e.calendarID,
		log.FieldYear, view.Year,
		log.FieldMonth, view.Month,
		"created", res.Created, "updated", res.Updated, "deleted", res.Deleted)
	return res, nil
}

// owned lists the events this exporter created inside the month.
func (e *Exporter) owned(ctx context.Context, view core.MonthView) (map[string]*calendar.Event, error) {
	start := time.Date(view.Year, time.Month(view.Month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	out := map[string]*calendar.Event{}
	call := e.svc.Events.List(e.calendarID).
		PrivateExtendedProperty(propSource + "=" + sourceName).
		TimeMin(start.Add(-24 * time.Hour).Format(time.RFC3339)).
		TimeMax(end.Add(24 * time.Hour).Format(time.RFC3339)).
		SingleEvents(true).
		ShowDeleted(false)
	err := call.Pages(ctx, func(page *calendar.Events) error {
		for _, ev := range page.Items {
			if ev.ExtendedProperties == nil || ev.Start == nil {
				continue
			}
			key := ev.ExtendedProperties.Private[propKey]
			day, err := core.ParseDate(ev.Start.Date)
			if key == "" || err != nil || day.Year() != view.Year || day.Month() != view.Month {
				continue
			}
			out[key] = ev
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}
