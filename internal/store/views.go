package store

import (
	"slices"

	"github.com/shopspring/decimal"

	"semihos/internal/core"
)

// State is a deep copy of every collection. Changing it never affects the store.
type State struct {
	AvailableFunds decimal.Decimal      `json:"availableFunds"`
	Income         decimal.Decimal      `json:"income"`
	FixedCosts     decimal.Decimal      `json:"fixedCosts"`
	Tasks          []core.Task          `json:"tasks"`
	RecurringTasks []core.RecurringTask `json:"recurringTasks"`
	JobSettings    core.JobSettings     `json:"jobSettings"`
	Debts          []core.Debt          `json:"debts"`
	WorkHours      []core.WorkEntry     `json:"workHours"`
	DiaryEntries   []core.DiaryEntry    `json:"diaryEntries"`
	Places         []core.Place         `json:"places"`
	People         []core.Person        `json:"people"`
	ShoppingList   []core.ShoppingItem  `json:"shoppingList"`
	Goals          []core.Goal          `json:"goals"`
	Subscriptions  []core.Subscription  `json:"subscriptions"`
	Transactions   []core.Transaction   `json:"transactions"`
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	st := State{
		AvailableFunds: s.availableFunds,
		Income:         s.income,
		FixedCosts:     s.fixedCosts,
		Tasks:          slices.Clone(s.tasks),
		RecurringTasks: slices.Clone(s.recurringTasks),
		JobSettings:    s.jobSettings,
		Debts:          slices.Clone(s.debts),
		WorkHours:      slices.Clone(s.workHours),
		DiaryEntries:   slices.Clone(s.diaryEntries),
		Places:         slices.Clone(s.places),
		People:         make([]core.Person, len(s.people)),
		ShoppingList:   slices.Clone(s.shoppingList),
		Goals:          make([]core.Goal, len(s.goals)),
		Subscriptions:  slices.Clone(s.subscriptions),
		Transactions:   slices.Clone(s.transactions),
	}
	for i, p := range s.people {
		st.People[i] = clonePerson(p)
	}
	for i, g := range s.goals {
		st.Goals[i] = cloneGoal(g)
	}
	return st
}

// CalendarKeys are the records the calendar projection reads.
var CalendarKeys = []string{KeyWorkHours, KeyDiaryEntries, KeyDebts, KeyRecurringTasks, KeyPeople}

// CalendarSources returns copies of the collections the calendar reads.
func (st State) CalendarSources() core.CalendarSources {
	return core.CalendarSources{
		Work:      st.WorkHours,
		Diary:     st.DiaryEntries,
		Debts:     st.Debts,
		Recurring: st.RecurringTasks,
		People:    st.People,
	}
}

// Dashboard is the overview computed from the current state.
type Dashboard struct {
	AvailableFunds       decimal.Decimal        `json:"availableFunds"`
	Income               decimal.Decimal        `json:"income"`
	FixedCosts           decimal.Decimal        `json:"fixedCosts"`
	TotalDebt            decimal.Decimal        `json:"totalDebt"`
	OpenTasks            int                    `json:"openTasks"`
	TotalEarned          decimal.Decimal        `json:"totalEarned"`
	SideJobEarned        decimal.Decimal        `json:"sideJobEarned"`
	HoursThisMonth       decimal.Decimal        `json:"hoursThisMonth"`
	CurrentRate          decimal.Decimal        `json:"currentRate"`
	MonthlySubscriptions decimal.Decimal        `json:"monthlySubscriptions"`
	YearlySubscriptions  decimal.Decimal        `json:"yearlySubscriptions"`
	TotalIncome          decimal.Decimal        `json:"totalIncome"`
	TotalExpense         decimal.Decimal        `json:"totalExpense"`
	ExpenseByCategory    []core.CategoryAmount  `json:"expenseByCategory"`
	ShoppingOpen         int                    `json:"shoppingOpen"`
	UpcomingPayments     []core.UpcomingPayment `json:"upcomingPayments"`
	Today                []core.Event           `json:"today"`
}

// upcomingLimit caps the payments listed on the dashboard.
const upcomingLimit = 3

// Dashboard recomputes every aggregate from the current state.
func (s *Store) Dashboard() Dashboard {
	s.mu.Lock()
	st := s.snapshotLocked()
	s.mu.Unlock()

	now := s.now()
	today := core.DateOf(now)
	done, total := core.ShoppingProgress(st.ShoppingList)
	upcoming := core.PaymentSchedule(st.Subscriptions, now)
	if len(upcoming) > upcomingLimit {
		upcoming = upcoming[:upcomingLimit]
	}
	monthly := core.MonthlyCostEquivalent(st.Subscriptions)

	return Dashboard{
		AvailableFunds:       st.AvailableFunds,
		Income:               st.Income,
		FixedCosts:           st.FixedCosts,
		TotalDebt:            core.TotalDebt(st.Debts),
		OpenTasks:            core.OpenTasks(st.Tasks),
		TotalEarned:          core.TotalEarned(st.WorkHours),
		SideJobEarned:        core.EarnedByType(st.WorkHours, core.WorkSideJob),
		HoursThisMonth:       core.HoursIn(st.WorkHours, today.Year(), today.Month()),
		CurrentRate:          core.ResolveRate(now, st.JobSettings),
		MonthlySubscriptions: monthly.Round(2),
		YearlySubscriptions:  monthly.Mul(decimal.NewFromInt(12)).Round(2),
		TotalIncome:          core.TotalIncome(st.Transactions),
		TotalExpense:         core.TotalExpense(st.Transactions),
		ExpenseByCategory:    core.ExpenseByCategory(st.Transactions),
		ShoppingOpen:         total - done,
		UpcomingPayments:     upcoming,
		Today:                core.EventsForDay(st.CalendarSources(), today.Year(), today.Month(), today.Day()),
	}
}

// Calendar projects the month onto a Monday-first grid.
func (s *Store) Calendar(year, month int) core.MonthView {
	st := s.Snapshot()
	return core.ProjectMonth(st.CalendarSources(), year, month, s.today())
}

// SubscriptionSchedule lists every subscription with its next payment,
// soonest first.
func (s *Store) SubscriptionSchedule() []core.UpcomingPayment {
	st := s.Snapshot()
	return core.PaymentSchedule(st.Subscriptions, s.now())
}

// SearchPeople filters contacts by name or note text.
func (s *Store) SearchPeople(term string) []core.Person {
	return core.SearchPeople(s.Snapshot().People, term)
}

// GoalStatus is a goal with its derived progress.
type GoalStatus struct {
	core.Goal
	Progress int  `json:"progress"`
	DaysLeft *int `json:"daysLeft"`
}

func (s *Store) Goals() []GoalStatus {
	st := s.Snapshot()
	now := s.now()
	out := make([]GoalStatus, 0, len(st.Goals))
	for _, g := range st.Goals {
		gs := GoalStatus{Goal: g, Progress: core.GoalProgress(g)}
		if days, ok := core.GoalDaysLeft(g, now); ok {
			gs.DaysLeft = &days
		}
		out = append(out, gs)
	}
	return out
}

// Shopping groups the list by category.
func (s *Store) Shopping() []core.ShoppingGroup {
	return core.GroupShopping(s.Snapshot().ShoppingList)
}

// TransactionsByDay groups bookings per day, newest day first.
func (s *Store) TransactionsByDay() []core.TransactionDay {
	return core.GroupTransactionsByDay(s.Snapshot().Transactions)
}
