package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"semihos/internal/core"
	"semihos/internal/log"
)

// WorkEntryInput describes hours to book. Day, when set, books retroactively
// on that calendar day; otherwise the entry is stamped now. Rate, when set,
// overrides the resolved rate.
type WorkEntryInput struct {
	Hours string
	Type  core.WorkType
	Day   string
	Note  string
	Rate  string
}

// AddWorkEntry books hours and freezes the applicable rate onto the entry.
func (s *Store) AddWorkEntry(ctx context.Context, in WorkEntryInput) (core.WorkEntry, error) {
	hours, err := core.ParseQuantity(in.Hours)
	if err != nil {
		return core.WorkEntry{}, core.Invalid("hours", core.ErrInvalidHours)
	}
	if in.Type == "" {
		in.Type = core.WorkMain
	}
	entry := core.WorkEntry{Hours: hours, Type: in.Type, Note: strings.TrimSpace(in.Note)}
	if entry.Note == "" {
		entry.Note = defaultWorkNote(entry.Type, hours)
	}

	var manual decimal.Decimal
	if strings.TrimSpace(in.Rate) != "" {
		manual, err = core.ParseAmount(in.Rate)
		if err != nil {
			return core.WorkEntry{}, core.Invalid("rate", core.ErrInvalidRate)
		}
		entry.ManualRate = true
	}

	var day core.Date
	if strings.TrimSpace(in.Day) != "" {
		day, err = core.ParseDate(in.Day)
		if err != nil {
			return core.WorkEntry{}, core.Invalid("day", err)
		}
	}
	if !entry.Type.Valid() {
		return core.WorkEntry{}, core.Invalid("type", core.ErrInvalidWorkType)
	}

	err = s.mutation(ctx, EntityWorkEntry, log.OpCreate, func() (core.ID, error) {
		entry.Timestamp = s.now()
		if !day.IsZero() {
			entry.Timestamp = day.In(s.loc)
		}
		entry.Date = core.DateOf(entry.Timestamp)

		switch {
		case entry.ManualRate:
			entry.RateSnapshot = manual
		case entry.Type == core.WorkSideJob:
			entry.RateSnapshot = core.DefaultSideJobRate
		default:
			entry.RateSnapshot = core.ResolveRate(entry.Timestamp, s.jobSettings)
		}
		entry.Earnings = core.Earnings(entry.Hours, entry.RateSnapshot)
		if err := entry.Validate(); err != nil {
			return 0, err
		}
		entry.ID = s.nextIDLocked()
		s.workHours = prepend(s.workHours, entry)
		return entry.ID, nil
	}, KeyWorkHours)
	if err != nil {
		return core.WorkEntry{}, err
	}
	return entry, nil
}

// QuickBook books a standard Hauptjob day for today.
func (s *Store) QuickBook(ctx context.Context) (core.WorkEntry, error) {
	s.mu.Lock()
	hours := s.jobSettings.StandardHours
	s.mu.Unlock()
	return s.AddWorkEntry(ctx, WorkEntryInput{Hours: hours.String(), Type: core.WorkMain})
}

func defaultWorkNote(t core.WorkType, hours decimal.Decimal) string {
	switch t {
	case core.WorkMain:
		return fmt.Sprintf("Hauptjob (%sh)", hours)
	case core.WorkOvertime:
		return fmt.Sprintf("Überstunden (+%sh)", hours)
	case core.WorkSideJob:
		return "Nebenjob Einsatz"
	default:
		return string(t)
	}
}

func (s *Store) RemoveWorkEntry(ctx context.Context, id core.ID) error {
	return s.mutation(ctx, EntityWorkEntry, log.OpDelete, func() (core.ID, error) {
		var ok bool
		if s.workHours, ok = removeByID(s.workHours, id); !ok {
			return 0, notFound(EntityWorkEntry, id)
		}
		return id, nil
	}, KeyWorkHours)
}

// JobSettingsUpdate holds the fields to change; nil fields stay as they are.
type JobSettingsUpdate struct {
	BaseRate       *string
	FutureRate     *string
	FutureRateDate *string
	StandardHours  *string
}

// UpdateJobSettings merges the update into the current settings. Existing
// work entries keep their frozen rates.
func (s *Store) UpdateJobSettings(ctx context.Context, up JobSettingsUpdate) (core.JobSettings, error) {
	var out core.JobSettings
	err := s.mutation(ctx, EntityJobSettings, log.OpUpdate, func() (core.ID, error) {
		next := s.jobSettings
		if up.BaseRate != nil {
			v, err := core.ParseAmount(*up.BaseRate)
			if err != nil {
				return 0, core.Invalid("baseRate", core.ErrInvalidRate)
			}
			next.BaseRate = v
		}
		if up.FutureRate != nil {
			v, err := core.ParseAmount(*up.FutureRate)
			if err != nil {
				return 0, core.Invalid("futureRate", core.ErrInvalidRate)
			}
			next.FutureRate = v
		}
		if up.FutureRateDate != nil {
			next.FutureRateDate = core.Date{}
			if strings.TrimSpace(*up.FutureRateDate) != "" {
				d, err := core.ParseDate(*up.FutureRateDate)
				if err != nil {
					return 0, core.Invalid("futureRateDate", err)
				}
				next.FutureRateDate = d
			}
		}
		if up.StandardHours != nil {
			v, err := core.ParseQuantity(*up.StandardHours)
			if err != nil {
				return 0, core.Invalid("standardHours", core.ErrInvalidHours)
			}
			next.StandardHours = v
		}
		if err := next.Validate(); err != nil {
			return 0, err
		}
		s.jobSettings = next
		out = next
		return 0, nil
	}, KeyJobSettings)
	return out, err
}
