package core

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Percent decimal.Decimal `json:"percent"`
}

// TotalDebt sums all outstanding debt amounts.
func TotalDebt(debts []Debt) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		total = total.Add(d.Amount)
	}
	return total
}

func TotalEarned(entries []WorkEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Earnings)
	}
	return total
}

func EarnedByType(entries []WorkEntry, t WorkType) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Type == t {
			total = total.Add(e.Earnings)
		}
	}
	return total
}

// HoursIn sums the hours booked within the given month.
func HoursIn(entries []WorkEntry, year, month int) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		d := e.Day()
		if d.Year() == year && d.Month() == month {
			total = total.Add(e.Hours)
		}
	}
	return total
}

// Day returns the booked calendar day, falling back to the timestamp.
func (w WorkEntry) Day() Date {
	if !w.Date.IsZero() {
		return w.Date
	}
	return DateOf(w.Timestamp)
}

// MonthlyCostEquivalent spreads yearly subscriptions over twelve months.
func MonthlyCostEquivalent(subs []Subscription) decimal.Decimal {
	total := decimal.Zero
	for _, s := range subs {
		if s.Cycle == Yearly {
			total = total.Add(s.Cost.Div(twelve))
			continue
		}
		total = total.Add(s.Cost)
	}
	return total
}

func YearlyCostEquivalent(subs []Subscription) decimal.Decimal {
	return MonthlyCostEquivalent(subs).Mul(twelve)
}

func TotalIncome(txs []Transaction) decimal.Decimal { return sumByType(txs, Income) }

func TotalExpense(txs []Transaction) decimal.Decimal { return sumByType(txs, Expense) }

func sumByType(txs []Transaction, t TransactionType) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Type == t {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// ExpenseByCategory groups expenses per category, largest first.
func ExpenseByCategory(txs []Transaction) []CategoryAmount {
	sums := map[string]decimal.Decimal{}
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Type != Expense {
			continue
		}
		cur, ok := sums[tx.Category]
		if !ok {
			cur = decimal.Zero
		}
		sums[tx.Category] = cur.Add(tx.Amount)
		total = total.Add(tx.Amount)
	}
	out := make([]CategoryAmount, 0, len(sums))
	for name, amount := range sums {
		out = append(out, CategoryAmount{Name: name, Amount: amount, Percent: Percent(amount, total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Percent returns part/whole in percent with two decimals, capped at 100.
// A zero whole yields zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	p := part.Div(whole).Mul(hundred).Round(2)
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

// GoalProgress returns the rounded share of completed milestones.
func GoalProgress(g Goal) int {
	if len(g.Milestones) == 0 {
		return 0
	}
	done := 0
	for _, m := range g.Milestones {
		if m.Completed {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(g.Milestones)) * 100))
}

// GoalDaysLeft counts days until the deadline; ok is false without one.
func GoalDaysLeft(g Goal, now time.Time) (days int, ok bool) {
	if g.Deadline.IsZero() {
		return 0, false
	}
	return DaysUntil(g.Deadline, now), true
}

func OpenTasks(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if !t.Done {
			n++
		}
	}
	return n
}

// ShoppingProgress reports completed and total item counts.
func ShoppingProgress(items []ShoppingItem) (completed, total int) {
	for _, it := range items {
		if it.Completed {
			completed++
		}
	}
	return completed, len(items)
}

// ShoppingGroup holds the items of one category.
type ShoppingGroup struct {
	Category ShoppingCategory `json:"category"`
	Open     int              `json:"open"`
	Items    []ShoppingItem   `json:"items"`
}

// GroupShopping buckets items by category in a fixed category order.
func GroupShopping(items []ShoppingItem) []ShoppingGroup {
	order := []ShoppingCategory{ShoppingFood, ShoppingDrugstore, ShoppingHousehold, ShoppingOther}
	var groups []ShoppingGroup
	for _, cat := range order {
		g := ShoppingGroup{Category: cat, Items: []ShoppingItem{}}
		for _, it := range items {
			if it.Category != cat {
				continue
			}
			g.Items = append(g.Items, it)
			if !it.Completed {
				g.Open++
			}
		}
		if len(g.Items) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

// TransactionDay holds the transactions booked on one day.
type TransactionDay struct {
	Date         Date          `json:"date"`
	Transactions []Transaction `json:"transactions"`
}

// GroupTransactionsByDay buckets transactions per day, newest day first,
// keeping the input order inside a day.
func GroupTransactionsByDay(txs []Transaction) []TransactionDay {
	var days []TransactionDay
	index := map[string]int{}
	for _, tx := range txs {
		key := tx.Date.String()
		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, TransactionDay{Date: tx.Date})
		}
		days[i].Transactions = append(days[i].Transactions, tx)
	}
	sort.SliceStable(days, func(i, j int) bool { return days[j].Date.Before(days[i].Date) })
	return days
}

// SearchPeople matches names and note texts case-insensitively.
// An empty term returns every person.
func SearchPeople(people []Person, term string) []Person {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]Person, 0, len(people))
	for _, p := range people {
		if term == "" || personMatches(p, term) {
			out = append(out, p)
		}
	}
	return out
}

func personMatches(p Person, term string) bool {
	if strings.Contains(strings.ToLower(p.Name), term) {
		return true
	}
	for _, n := range p.Notes {
		if strings.Contains(strings.ToLower(n.Text), term) {
			return true
		}
	}
	return false
}
