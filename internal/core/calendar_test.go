package core

import (
	"testing"
	"time"
)

func sampleSources() CalendarSources {
	return CalendarSources{
		Work: []WorkEntry{
			{Hours: dec("8"), Type: WorkMain, Date: NewDate(2026, 3, 10)},
			{Hours: dec("2.5"), Type: WorkSideJob, Timestamp: time.Date(2026, 3, 12, 18, 0, 0, 0, time.UTC)},
		},
		Diary: []DiaryEntry{{Title: "Gut", Mood: MoodGood, Date: NewDate(2026, 3, 10)}},
		Debts: []Debt{
			{Creditor: "Klarna", Amount: dec("300"), DueDate: NewDate(2026, 3, 10)},
			{Creditor: "Ohne Datum", Amount: dec("10")},
		},
		Recurring: []RecurringTask{{Text: "Müll rausbringen", DayOfWeek: "Dienstag"}},
		People:    []Person{{Name: "Max", Birthday: NewDate(1990, 3, 10)}},
	}
}

func TestEventsForDay(t *testing.T) {
	// 2026-03-10 is a Tuesday.
	got := EventsForDay(sampleSources(), 2026, 3, 10)
	want := []Event{
		{EventWork, "8h Arbeit"},
		{EventDiary, "Tagebuch"},
		{EventDebt, "Fällig: Klarna"},
		{EventRecurring, "Müll rausbringen"},
		{EventBirthday, "Max (36)"},
	}
	if len(got) != len(want) {
		t.Fatalf("EventsForDay() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEventsForDayIndependentSources(t *testing.T) {
	src := sampleSources()
	src.Diary = nil
	got := EventsForDay(src, 2026, 3, 10)
	if len(got) != 4 {
		t.Fatalf("EventsForDay() without diary = %v", got)
	}
	for _, e := range got {
		if e.Type == EventDiary {
			t.Errorf("unexpected diary event %v", e)
		}
	}

	got = EventsForDay(src, 2026, 3, 12)
	if len(got) != 1 || got[0].Title != "2.5h Arbeit" {
		t.Errorf("EventsForDay(12th) = %v, want one work event from timestamp", got)
	}
	if got := EventsForDay(CalendarSources{}, 2026, 3, 10); len(got) != 0 {
		t.Errorf("EventsForDay(empty) = %v", got)
	}
}

func TestLeapDayBirthday(t *testing.T) {
	src := CalendarSources{People: []Person{{Name: "Lea", Birthday: NewDate(2000, 2, 29)}}}
	if got := EventsForDay(src, 2025, 2, 28); len(got) != 1 || got[0].Title != "Lea (25)" {
		t.Errorf("non-leap year = %v, want Lea (25) on 28 February", got)
	}
	if got := EventsForDay(src, 2024, 2, 28); len(got) != 0 {
		t.Errorf("leap year 28th = %v, want none", got)
	}
	if got := EventsForDay(src, 2024, 2, 29); len(got) != 1 {
		t.Errorf("leap year 29th = %v, want one", got)
	}
}

func TestProjectMonth(t *testing.T) {
	today := NewDate(2026, 3, 10)
	view := ProjectMonth(sampleSources(), 2026, 3, today)

	if view.MonthName != "März" {
		t.Errorf("MonthName = %q, want März", view.MonthName)
	}
	// 2026-03-01 is a Sunday.
	if view.LeadingBlanks != 6 {
		t.Errorf("LeadingBlanks = %d, want 6", view.LeadingBlanks)
	}
	if len(view.Days) != 31 {
		t.Fatalf("len(Days) = %d, want 31", len(view.Days))
	}
	if !view.Days[9].Today || view.Days[8].Today {
		t.Error("only the 10th should be flagged as today")
	}
	if len(view.Days[9].Events) != 5 {
		t.Errorf("events on the 10th = %v", view.Days[9].Events)
	}
	// Every Tuesday carries the routine.
	tuesdays := 0
	for _, d := range view.Days {
		for _, e := range d.Events {
			if e.Type == EventRecurring {
				tuesdays++
			}
		}
	}
	if tuesdays != 5 {
		t.Errorf("recurring events = %d, want 5", tuesdays)
	}
}

func TestProjectMonthNormalisesMonth(t *testing.T) {
	view := ProjectMonth(CalendarSources{}, 2025, 13, NewDate(2026, 1, 1))
	if view.Year != 2026 || view.Month != 1 {
		t.Errorf("ProjectMonth(2025, 13) = %d-%d, want 2026-1", view.Year, view.Month)
	}
	// 2026-01-01 is a Thursday.
	if view.LeadingBlanks != 3 {
		t.Errorf("LeadingBlanks = %d, want 3", view.LeadingBlanks)
	}
}
