package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultSideJobRate applies to Nebenjob entries booked without a manual rate.
var DefaultSideJobRate = decimal.NewFromInt(12)

// DefaultJobSettings are used until the user changes them.
func DefaultJobSettings() JobSettings {
	return JobSettings{
		BaseRate:       decimal.NewFromInt(16),
		FutureRate:     decimal.NewFromInt(17),
		FutureRateDate: NewDate(2026, 2, 1),
		StandardHours:  decimal.NewFromInt(8),
	}
}

// ResolveRate returns the hourly rate in effect on the calendar day of ts.
// The future rate applies from FutureRateDate inclusive; a zero date
// disables the switch.
func ResolveRate(ts time.Time, s JobSettings) decimal.Decimal {
	if s.FutureRateDate.IsZero() {
		return s.BaseRate
	}
	if DateOf(ts).Before(s.FutureRateDate) {
		return s.BaseRate
	}
	return s.FutureRate
}

// Earnings multiplies hours by rate, rounded to cents.
func Earnings(hours, rate decimal.Decimal) decimal.Decimal {
	return hours.Mul(rate).Round(2)
}
