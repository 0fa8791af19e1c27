package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	labelLayout = "02.01.2006"
)

// Date represents a calendar day, stored as UTC midnight.
type Date struct{ time.Time }

// NewDate normalises out-of-range values the way time.Date does.
func NewDate(year int, month int, day int) Date {
	return Date{time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate accepts ISO days, German display labels and RFC 3339 timestamps.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{dateLayout, labelLayout, "2.1.2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t), nil
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// Day returns the day of the month.
func (d Date) Day() int { return d.Time.Day() }

// Month returns the month number (1-12).
func (d Date) Month() int { return int(d.Time.Month()) }

// Year returns the year.
func (d Date) Year() int { return d.Time.Year() }

// Same reports whether both values name the same calendar day.
func (d Date) Same(o Date) bool {
	return d.Year() == o.Year() && d.Month() == o.Month() && d.Day() == o.Day()
}

// Before reports whether d is an earlier day than o.
func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }

// AddDays moves the day by n days.
func (d Date) AddDays(n int) Date { return NewDate(d.Year(), d.Month(), d.Day()+n) }

// In returns local midnight of the day in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year(), time.Month(d.Month()), d.Day(), 0, 0, 0, 0, loc)
}

// Weekday returns the German weekday name.
func (d Date) Weekday() Weekday { return WeekdayOf(d.Time.Weekday()) }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// Label renders the day as DD.MM.YYYY.
func (d Date) Label() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(labelLayout)
}

// Validate ensures the date is set and lies within a sane range.
func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	if d.Year() < 1900 || d.Year() > 2200 {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in the month.
func DaysIn(year int, month int) int {
	return NewDate(year, month+1, 0).Day()
}

// Weekday is a German weekday name, Montag first.
type Weekday string

// Weekdays lists the names Monday-first.
var Weekdays = [7]Weekday{"Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag", "Sonntag"}

// WeekdayIndex maps time.Weekday to a Monday-first index; Sunday becomes 6.
func WeekdayIndex(wd time.Weekday) int { return (int(wd) + 6) % 7 }

func WeekdayOf(wd time.Weekday) Weekday { return Weekdays[WeekdayIndex(wd)] }

func (w Weekday) Valid() bool {
	for _, name := range Weekdays {
		if w == name {
			return true
		}
	}
	return false
}

var weekdayAliases = map[string]Weekday{
	"mo": "Montag", "mon": "Montag", "monday": "Montag",
	"di": "Dienstag", "tue": "Dienstag", "tuesday": "Dienstag",
	"mi": "Mittwoch", "wed": "Mittwoch", "wednesday": "Mittwoch",
	"do": "Donnerstag", "thu": "Donnerstag", "thursday": "Donnerstag",
	"fr": "Freitag", "fri": "Freitag", "friday": "Freitag",
	"sa": "Samstag", "sat": "Samstag", "saturday": "Samstag",
	"so": "Sonntag", "sun": "Sonntag", "sunday": "Sonntag",
}

// ParseWeekday accepts German names and common abbreviations in any case.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, name := range Weekdays {
		if strings.ToLower(string(name)) == s {
			return name, nil
		}
	}
	if w, ok := weekdayAliases[s]; ok {
		return w, nil
	}
	return "", ErrInvalidWeekday
}

var monthNames = [12]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// MonthName returns the German month name for 1-12.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}
