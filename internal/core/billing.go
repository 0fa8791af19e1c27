package core

import (
	"fmt"
	"sort"
	"time"
)

// maxCycleSteps bounds the forward search in NextPaymentDate.
const maxCycleSteps = 4

// CycleAdvancer is the strategy for stepping a subscription through its
// billing cycles.
type CycleAdvancer interface {
	// Advance returns the n-th payment after first, anchored to first's day
	// of month and clamped to the month end.
	Advance(first Date, n int) Date
	// CyclesBefore returns a count of whole cycles that never overshoots the
	// first payment on or after day.
	CyclesBefore(first, day Date) int
}

// MonthlyAdvancer bills once per calendar month.
type MonthlyAdvancer struct{}

func (MonthlyAdvancer) Advance(first Date, n int) Date { return addMonthsClamped(first, n) }

func (MonthlyAdvancer) CyclesBefore(first, day Date) int {
	n := (day.Year()-first.Year())*12 + day.Month() - first.Month() - 1
	return max(n, 0)
}

// YearlyAdvancer bills once per year on the anniversary of the first payment.
type YearlyAdvancer struct{}

func (YearlyAdvancer) Advance(first Date, n int) Date { return addMonthsClamped(first, 12*n) }

func (YearlyAdvancer) CyclesBefore(first, day Date) int {
	return max(day.Year()-first.Year()-1, 0)
}

var cycleStrategies = map[Cycle]CycleAdvancer{
	Monthly: MonthlyAdvancer{},
	Yearly:  YearlyAdvancer{},
}

// GetCycleAdvancer returns the advancer registered for the cycle.
func GetCycleAdvancer(c Cycle) (CycleAdvancer, error) {
	a, ok := cycleStrategies[c]
	if !ok {
		return nil, fmt.Errorf("unknown billing cycle: %q", c)
	}
	return a, nil
}

// RegisterCycleAdvancer adds or replaces the strategy for a cycle.
func RegisterCycleAdvancer(c Cycle, a CycleAdvancer) {
	cycleStrategies[c] = a
}

func addMonthsClamped(d Date, n int) Date {
	idx := d.Month() - 1 + n
	year := d.Year() + floorDiv(idx, 12)
	month := idx - floorDiv(idx, 12)*12 + 1
	day := min(d.Day(), DaysIn(year, month))
	return NewDate(year, month, day)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// NextPaymentDate returns the first billing day on or after the calendar day
// of now. A first payment in the future is returned unchanged.
func NextPaymentDate(first Date, cycle Cycle, now time.Time) (Date, error) {
	adv, err := GetCycleAdvancer(cycle)
	if err != nil {
		return Date{}, err
	}
	today := DateOf(now)
	if !first.Before(today) {
		return first, nil
	}
	n := adv.CyclesBefore(first, today)
	for step := 0; step <= maxCycleSteps; step++ {
		next := adv.Advance(first, n+step)
		if !next.Before(today) {
			return next, nil
		}
	}
	return Date{}, fmt.Errorf("no %s payment of %s found near %s", cycle, first, today)
}

// DaysUntil counts whole days from now to local midnight of d, rounding up.
// Zero means today, negative values are overdue. This equals the calendar
// day difference, which is taken on UTC-pinned dates so DST days count as one.
func DaysUntil(d Date, now time.Time) int {
	return int(d.Time.Sub(DateOf(now).Time).Hours()) / 24
}

// BillingDatesInMonth lists the payment days of sub that fall in the month.
func BillingDatesInMonth(sub Subscription, year, month int) []Date {
	adv, err := GetCycleAdvancer(sub.Cycle)
	if err != nil || sub.FirstPayment.IsZero() {
		return nil
	}
	start := NewDate(year, month, 1)
	end := NewDate(year, month+1, 1)
	var dates []Date
	n := adv.CyclesBefore(sub.FirstPayment, start)
	for step := 0; step <= maxCycleSteps+31; step++ {
		d := adv.Advance(sub.FirstPayment, n+step)
		if !d.Before(end) {
			break
		}
		if !d.Before(start) {
			dates = append(dates, d)
		}
	}
	return dates
}

// UpcomingPayment is a subscription paired with its next billing day.
type UpcomingPayment struct {
	Subscription Subscription `json:"subscription"`
	Next         Date         `json:"next"`
	DaysLeft     int          `json:"daysLeft"`
}

// PaymentSchedule orders subscriptions by their next billing day, soonest first.
// Subscriptions with an unknown cycle are skipped.
func PaymentSchedule(subs []Subscription, now time.Time) []UpcomingPayment {
	out := make([]UpcomingPayment, 0, len(subs))
	for _, s := range subs {
		next, err := NextPaymentDate(s.FirstPayment, s.Cycle, now)
		if err != nil {
			continue
		}
		out = append(out, UpcomingPayment{Subscription: s, Next: next, DaysLeft: DaysUntil(next, now)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Next.Same(out[j].Next) {
			return out[i].Next.Before(out[j].Next)
		}
		return out[i].Subscription.Name < out[j].Subscription.Name
	})
	return out
}
