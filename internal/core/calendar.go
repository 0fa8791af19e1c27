package core

import "fmt"

type EventType string

const (
	EventWork      EventType = "work"
	EventDiary     EventType = "diary"
	EventDebt      EventType = "debt"
	EventRecurring EventType = "recurring"
	EventBirthday  EventType = "birthday"
)

// Event is one calendar marker on a day.
type Event struct {
	Type  EventType `json:"type"`
	Title string    `json:"title"`
}

// CalendarSources are the collections the calendar is projected from.
type CalendarSources struct {
	Work      []WorkEntry
	Diary     []DiaryEntry
	Debts     []Debt
	Recurring []RecurringTask
	People    []Person
}

// EventsForDay collects the events of one day. Each collection contributes
// independently, in the order work, diary, debt, recurring, birthday.
// Out-of-range values are normalised like time.Date.
func EventsForDay(src CalendarSources, year, month, day int) []Event {
	return src.eventsOn(NewDate(year, month, day))
}

func (src CalendarSources) eventsOn(day Date) []Event {
	events := []Event{}
	for _, w := range src.Work {
		if w.Day().Same(day) {
			events = append(events, Event{Type: EventWork, Title: w.Hours.String() + "h Arbeit"})
		}
	}
	for _, d := range src.Diary {
		if d.Date.Same(day) {
			events = append(events, Event{Type: EventDiary, Title: "Tagebuch"})
		}
	}
	for _, d := range src.Debts {
		if !d.DueDate.IsZero() && d.DueDate.Same(day) {
			events = append(events, Event{Type: EventDebt, Title: "Fällig: " + d.Creditor})
		}
	}
	weekday := day.Weekday()
	for _, r := range src.Recurring {
		if r.DayOfWeek == weekday {
			events = append(events, Event{Type: EventRecurring, Title: r.Text})
		}
	}
	for _, p := range src.People {
		if birthdayOn(p.Birthday, day) {
			events = append(events, Event{
				Type:  EventBirthday,
				Title: fmt.Sprintf("%s (%d)", p.Name, day.Year()-p.Birthday.Year()),
			})
		}
	}
	return events
}

// birthdayOn matches month and day; 29 February falls back to 28 February
// in non-leap years.
func birthdayOn(birthday, day Date) bool {
	if birthday.IsZero() {
		return false
	}
	if birthday.Month() == 2 && birthday.Day() == 29 && !isLeap(day.Year()) {
		return day.Month() == 2 && day.Day() == 28
	}
	return birthday.Month() == day.Month() && birthday.Day() == day.Day()
}

// DayCell is one day of a month grid.
type DayCell struct {
	Day    int     `json:"day"`
	Date   Date    `json:"date"`
	Today  bool    `json:"today"`
	Events []Event `json:"events"`
}

// MonthView is a Monday-first month grid.
type MonthView struct {
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	MonthName     string    `json:"monthName"`
	LeadingBlanks int       `json:"leadingBlanks"`
	Days          []DayCell `json:"days"`
}

// ProjectMonth builds the grid for a month. LeadingBlanks is the number of
// empty cells before the first, Sunday counting as the seventh column.
func ProjectMonth(src CalendarSources, year, month int, today Date) MonthView {
	first := NewDate(year, month, 1)
	year, month = first.Year(), first.Month()
	view := MonthView{
		Year:          year,
		Month:         month,
		MonthName:     MonthName(month),
		LeadingBlanks: WeekdayIndex(first.Time.Weekday()),
	}
	n := DaysIn(year, month)
	view.Days = make([]DayCell, 0, n)
	for d := 1; d <= n; d++ {
		date := NewDate(year, month, d)
		view.Days = append(view.Days, DayCell{
			Day:    d,
			Date:   date,
			Today:  date.Same(today),
			Events: src.eventsOn(date),
		})
	}
	return view
}
