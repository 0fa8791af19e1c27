package store

import (
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"semihos/internal/core"
	"semihos/internal/log"
)

// SubscriptionInput describes a recurring payment. FirstPayment defaults to
// today.
type SubscriptionInput struct {
	Name         string
	Cost         string
	Cycle        core.Cycle
	FirstPayment string
	Category     string
}

func (s *Store) AddSubscription(ctx context.Context, in SubscriptionInput) (core.Subscription, error) {
	cost, err := core.ParseAmount(in.Cost)
	if err != nil {
		return core.Subscription{}, core.Invalid("cost", err)
	}
	if in.Cycle == "" {
		in.Cycle = core.Monthly
	}
	sub := core.Subscription{
		Name:     strings.TrimSpace(in.Name),
		Cost:     cost,
		Cycle:    in.Cycle,
		Category: strings.TrimSpace(in.Category),
	}
	if strings.TrimSpace(in.FirstPayment) != "" {
		d, err := core.ParseDate(in.FirstPayment)
		if err != nil {
			return core.Subscription{}, core.Invalid("firstPayment", err)
		}
		sub.FirstPayment = d
	}

	err = s.mutation(ctx, EntitySubscription, log.OpCreate, func() (core.ID, error) {
		if sub.FirstPayment.IsZero() {
			sub.FirstPayment = s.today()
		}
		if err := sub.Validate(); err != nil {
			return 0, err
		}
		sub.ID = s.nextIDLocked()
		s.subscriptions = append(s.subscriptions, sub)
		return sub.ID, nil
	}, KeySubscriptions)
	if err != nil {
		return core.Subscription{}, err
	}
	return sub, nil
}

func (s *Store) RemoveSubscription(ctx context.Context, id core.ID) error {
	return s.mutation(ctx, EntitySubscription, log.OpDelete, func() (core.ID, error) {
		var ok bool
		if s.subscriptions, ok = removeByID(s.subscriptions, id); !ok {
			return 0, notFound(EntitySubscription, id)
		}
		return id, nil
	}, KeySubscriptions)
}

// TransactionInput describes a booking. Date defaults to today, Type to
// expense and Category to Sonstiges.
type TransactionInput struct {
	Title    string
	Amount   string
	Category string
	Type     core.TransactionType
	Date     string
}

// AddTransaction records the booking, newest first, and moves the available
// funds by its amount in the same step.
func (s *Store) AddTransaction(ctx context.Context, in TransactionInput) (core.Transaction, error) {
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Transaction{}, core.Invalid("amount", err)
	}
	if in.Type == "" {
		in.Type = core.Expense
	}
	tx := core.Transaction{
		Title:    strings.TrimSpace(in.Title),
		Amount:   amount,
		Category: strings.TrimSpace(in.Category),
		Type:     in.Type,
	}
	if tx.Category == "" {
		tx.Category = core.DefaultCategory
	}
	if strings.TrimSpace(in.Date) != "" {
		d, err := core.ParseDate(in.Date)
		if err != nil {
			return core.Transaction{}, core.Invalid("date", err)
		}
		tx.Date = d
	}

	err = s.mutation(ctx, EntityTransaction, log.OpCreate, func() (core.ID, error) {
		if tx.Date.IsZero() {
			tx.Date = s.today()
		}
		if err := tx.Validate(); err != nil {
			return 0, err
		}
		tx.ID = s.nextIDLocked()
		s.transactions = prepend(s.transactions, tx)
		if tx.Type == core.Income {
			s.availableFunds = s.availableFunds.Add(tx.Amount)
		} else {
			s.availableFunds = s.availableFunds.Sub(tx.Amount)
		}
		return tx.ID, nil
	}, KeyTransactions, KeyAvailableFunds)
	if err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

// RemoveTransaction deletes the booking. The available funds are left as they
// are.
func (s *Store) RemoveTransaction(ctx context.Context, id core.ID) error {
	return s.mutation(ctx, EntityTransaction, log.OpDelete, func() (core.ID, error) {
		var ok bool
		if s.transactions, ok = removeByID(s.transactions, id); !ok {
			return 0, notFound(EntityTransaction, id)
		}
		return id, nil
	}, KeyTransactions)
}

// BudgetUpdate holds the dashboard reference values to change.
type BudgetUpdate struct {
	Income     *string
	FixedCosts *string
}

// UpdateBudget sets the monthly income and fixed costs shown on the dashboard.
func (s *Store) UpdateBudget(ctx context.Context, up BudgetUpdate) error {
	var keys []string
	parsed := map[string]decimal.Decimal{}
	for key, raw := range map[string]*string{KeyIncome: up.Income, KeyFixedCosts: up.FixedCosts} {
		if raw == nil {
			continue
		}
		v, err := core.ParseAmount(*raw)
		if err != nil {
			return core.Invalid(key, err)
		}
		parsed[key] = v
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil
	}
	slices.Sort(keys)
	return s.mutation(ctx, EntityBudget, log.OpUpdate, func() (core.ID, error) {
		if v, ok := parsed[KeyIncome]; ok {
			s.income = v
		}
		if v, ok := parsed[KeyFixedCosts]; ok {
			s.fixedCosts = v
		}
		return 0, nil
	}, keys...)
}
