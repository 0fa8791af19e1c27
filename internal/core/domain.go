package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"

	WorkMain     WorkType = "Hauptjob"
	WorkOvertime WorkType = "Überstunden"
	WorkRetro    WorkType = "Nachtrag"
	WorkSideJob  WorkType = "Nebenjob"

	MoodGood    Mood = "good"
	MoodNeutral Mood = "neutral"
	MoodBad     Mood = "bad"

	PlaceFavorite PlaceCategory = "favorite"
	PlaceFood     PlaceCategory = "food"
	PlaceHome     PlaceCategory = "home"

	RoleFriend Role = "friend"
	RoleFamily Role = "family"
	RoleWork   Role = "work"
	RoleOther  Role = "other"

	ShoppingFood      ShoppingCategory = "food"
	ShoppingDrugstore ShoppingCategory = "drugstore"
	ShoppingHousehold ShoppingCategory = "household"
	ShoppingOther     ShoppingCategory = "other"

	GoalFinance GoalCategory = "finance"
	GoalHealth  GoalCategory = "health"
	GoalMindset GoalCategory = "mindset"
	GoalLife    GoalCategory = "life"

	Monthly Cycle = "monthly"
	Yearly  Cycle = "yearly"

	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// DefaultCategory is used for debts and transactions created without one.
const DefaultCategory = "Sonstiges"

type (
	// ID identifies an entity. IDs are derived from the store clock and only grow.
	ID int64

	Priority         string
	WorkType         string
	Mood             string
	PlaceCategory    string
	Role             string
	ShoppingCategory string
	GoalCategory     string
	Cycle            string
	TransactionType  string

	Task struct {
		ID       ID       `json:"id"`
		Text     string   `json:"text"`
		Done     bool     `json:"done"`
		Priority Priority `json:"priority"`
	}

	RecurringTask struct {
		ID        ID      `json:"id"`
		Text      string  `json:"text"`
		DayOfWeek Weekday `json:"dayOfWeek"`
	}

	Debt struct {
		ID       ID              `json:"id"`
		Creditor string          `json:"creditor"`
		Amount   decimal.Decimal `json:"amount"`
		DueDate  Date            `json:"dueDate"`
		DueLabel string          `json:"dueLabel,omitempty"` // display form of DueDate
		Category string          `json:"category"`
	}

	// WorkEntry is a booked block of hours. Earnings and RateSnapshot are
	// frozen at creation and never recomputed.
	WorkEntry struct {
		ID           ID              `json:"id"`
		Hours        decimal.Decimal `json:"hours"`
		Type         WorkType        `json:"type"`
		Timestamp    time.Time       `json:"timestamp"`
		Date         Date            `json:"date"`
		Note         string          `json:"note,omitempty"`
		Earnings     decimal.Decimal `json:"earnings"`
		RateSnapshot decimal.Decimal `json:"rateSnapshot"`
		ManualRate   bool            `json:"manualRate,omitempty"`
	}

	JobSettings struct {
		BaseRate       decimal.Decimal `json:"baseRate"`
		FutureRate     decimal.Decimal `json:"futureRate"`
		FutureRateDate Date            `json:"futureRateDate"`
		StandardHours  decimal.Decimal `json:"standardHours"`
	}

	DiaryEntry struct {
		ID        ID     `json:"id"`
		Title     string `json:"title"`
		Content   string `json:"content"`
		Mood      Mood   `json:"mood"`
		Date      Date   `json:"date"`
		DateLabel string `json:"dateLabel,omitempty"`
	}

	Place struct {
		ID       ID            `json:"id"`
		Name     string        `json:"name"`
		Address  string        `json:"address"`
		Category PlaceCategory `json:"category"`
	}

	Note struct {
		ID   ID     `json:"id"`
		Text string `json:"text"`
		Date Date   `json:"date"`
	}

	Person struct {
		ID       ID     `json:"id"`
		Name     string `json:"name"`
		Role     Role   `json:"role"`
		Birthday Date   `json:"birthday"`
		Notes    []Note `json:"notes"`
	}

	ShoppingItem struct {
		ID        ID               `json:"id"`
		Text      string           `json:"text"`
		Category  ShoppingCategory `json:"category"`
		Completed bool             `json:"completed"`
		Image     string           `json:"image,omitempty"`
	}

	Milestone struct {
		ID        ID     `json:"id"`
		Text      string `json:"text"`
		Completed bool   `json:"completed"`
	}

	// Goal progress is derived from its milestones, see GoalProgress.
	Goal struct {
		ID         ID           `json:"id"`
		Title      string       `json:"title"`
		Category   GoalCategory `json:"category"`
		Deadline   Date         `json:"deadline"`
		Milestones []Milestone  `json:"milestones"`
	}

	Subscription struct {
		ID           ID              `json:"id"`
		Name         string          `json:"name"`
		Cost         decimal.Decimal `json:"cost"`
		Cycle        Cycle           `json:"cycle"`
		FirstPayment Date            `json:"firstPayment"`
		Category     string          `json:"category,omitempty"`
	}

	Transaction struct {
		ID       ID              `json:"id"`
		Title    string          `json:"title"`
		Amount   decimal.Decimal `json:"amount"`
		Category string          `json:"category"`
		Type     TransactionType `json:"type"`
		Date     Date            `json:"date"`
	}
)

func (t Task) Identity() ID          { return t.ID }
func (t RecurringTask) Identity() ID { return t.ID }
func (d Debt) Identity() ID          { return d.ID }
func (w WorkEntry) Identity() ID     { return w.ID }
func (d DiaryEntry) Identity() ID    { return d.ID }
func (p Place) Identity() ID         { return p.ID }
func (n Note) Identity() ID          { return n.ID }
func (p Person) Identity() ID        { return p.ID }
func (s ShoppingItem) Identity() ID  { return s.ID }
func (m Milestone) Identity() ID     { return m.ID }
func (g Goal) Identity() ID          { return g.ID }
func (s Subscription) Identity() ID  { return s.ID }
func (t Transaction) Identity() ID   { return t.ID }

func (p Priority) Valid() bool { return p == PriorityNormal || p == PriorityHigh }

func (w WorkType) Valid() bool {
	switch w {
	case WorkMain, WorkOvertime, WorkRetro, WorkSideJob:
		return true
	}
	return false
}

func (m Mood) Valid() bool { return m == MoodGood || m == MoodNeutral || m == MoodBad }

func (c PlaceCategory) Valid() bool {
	return c == PlaceFavorite || c == PlaceFood || c == PlaceHome
}

func (r Role) Valid() bool {
	switch r {
	case RoleFriend, RoleFamily, RoleWork, RoleOther:
		return true
	}
	return false
}

func (c ShoppingCategory) Valid() bool {
	switch c {
	case ShoppingFood, ShoppingDrugstore, ShoppingHousehold, ShoppingOther:
		return true
	}
	return false
}

func (c GoalCategory) Valid() bool {
	switch c {
	case GoalFinance, GoalHealth, GoalMindset, GoalLife:
		return true
	}
	return false
}

func (t TransactionType) Valid() bool { return t == Income || t == Expense }

func blank(s string) bool { return len(strings.TrimSpace(s)) == 0 }

func (t Task) Validate() error {
	if blank(t.Text) {
		return invalid("text", ErrEmptyText)
	}
	if !t.Priority.Valid() {
		return invalid("priority", ErrInvalidPriority)
	}
	return nil
}

func (t RecurringTask) Validate() error {
	if blank(t.Text) {
		return invalid("text", ErrEmptyText)
	}
	if !t.DayOfWeek.Valid() {
		return invalid("dayOfWeek", ErrInvalidWeekday)
	}
	return nil
}

func (d Debt) Validate() error {
	if blank(d.Creditor) {
		return invalid("creditor", ErrEmptyText)
	}
	if !d.Amount.IsPositive() {
		return invalid("amount", ErrInvalidAmount)
	}
	return nil
}

func (w WorkEntry) Validate() error {
	if !w.Hours.IsPositive() {
		return invalid("hours", ErrInvalidHours)
	}
	if !w.Type.Valid() {
		return invalid("type", ErrInvalidWorkType)
	}
	if w.RateSnapshot.IsNegative() {
		return invalid("rate", ErrInvalidRate)
	}
	return nil
}

func (s JobSettings) Validate() error {
	if !s.BaseRate.IsPositive() {
		return invalid("baseRate", ErrInvalidRate)
	}
	if !s.FutureRate.IsPositive() {
		return invalid("futureRate", ErrInvalidRate)
	}
	if !s.StandardHours.IsPositive() {
		return invalid("standardHours", ErrInvalidHours)
	}
	return nil
}

func (d DiaryEntry) Validate() error {
	if blank(d.Title) && blank(d.Content) {
		return invalid("content", ErrEmptyText)
	}
	if !d.Mood.Valid() {
		return invalid("mood", ErrInvalidMood)
	}
	return nil
}

func (p Place) Validate() error {
	if blank(p.Name) {
		return invalid("name", ErrEmptyText)
	}
	if !p.Category.Valid() {
		return invalid("category", ErrInvalidCategory)
	}
	return nil
}

func (p Person) Validate() error {
	if blank(p.Name) {
		return invalid("name", ErrEmptyText)
	}
	if !p.Role.Valid() {
		return invalid("role", ErrInvalidRole)
	}
	return nil
}

func (s ShoppingItem) Validate() error {
	if blank(s.Text) {
		return invalid("text", ErrEmptyText)
	}
	if !s.Category.Valid() {
		return invalid("category", ErrInvalidCategory)
	}
	return nil
}

func (g Goal) Validate() error {
	if blank(g.Title) {
		return invalid("title", ErrEmptyText)
	}
	if !g.Category.Valid() {
		return invalid("category", ErrInvalidCategory)
	}
	return nil
}

func (s Subscription) Validate() error {
	if blank(s.Name) {
		return invalid("name", ErrEmptyText)
	}
	if !s.Cost.IsPositive() {
		return invalid("cost", ErrInvalidAmount)
	}
	if _, err := GetCycleAdvancer(s.Cycle); err != nil {
		return invalid("cycle", ErrInvalidCycle)
	}
	if err := s.FirstPayment.Validate(); err != nil {
		return invalid("firstPayment", err)
	}
	return nil
}

func (t Transaction) Validate() error {
	if blank(t.Title) {
		return invalid("title", ErrEmptyText)
	}
	if !t.Amount.IsPositive() {
		return invalid("amount", ErrInvalidAmount)
	}
	if !t.Type.Valid() {
		return invalid("type", ErrInvalidTransactionType)
	}
	if err := t.Date.Validate(); err != nil {
		return invalid("date", err)
	}
	return nil
}
