package store

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"semihos/internal/core"
	"semihos/internal/log"
)

// DebtInput carries user-entered debt fields. DueDate is optional and may be
// ISO or DD.MM.YYYY.
type DebtInput struct {
	Creditor string
	Amount   string
	DueDate  string
	Category string
}

func (in DebtInput) build() (core.Debt, error) {
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Debt{}, core.Invalid("amount", err)
	}
	debt := core.Debt{
		Creditor: strings.TrimSpace(in.Creditor),
		Amount:   amount,
		Category: strings.TrimSpace(in.Category),
	}
	if debt.Category == "" {
		debt.Category = core.DefaultCategory
	}
	if strings.TrimSpace(in.DueDate) != "" {
		due, err := core.ParseDate(in.DueDate)
		if err != nil {
			return core.Debt{}, core.Invalid("dueDate", err)
		}
		debt.DueDate = due
		debt.DueLabel = due.Label()
	}
	return debt, debt.Validate()
}

func (s *Store) AddDebt(ctx context.Context, in DebtInput) (core.Debt, error) {
	debt, err := in.build()
	if err != nil {
		return core.Debt{}, err
	}
	err = s.mutation(ctx, EntityDebt, log.OpCreate, func() (core.ID, error) {
		debt.ID = s.nextIDLocked()
		s.debts = append(s.debts, debt)
		return debt.ID, nil
	}, KeyDebts)
	return debt, err
}

func (s *Store) RemoveDebt(ctx context.Context, id core.ID) error {
	return s.mutation(ctx, EntityDebt, log.OpDelete, func() (core.ID, error) {
		var ok bool
		if s.debts, ok = removeByID(s.debts, id); !ok {
			return 0, notFound(EntityDebt, id)
		}
		return id, nil
	}, KeyDebts)
}

// Payoff is the outcome of PayDebt.
type Payoff struct {
	Debt           core.Debt       `json:"debt"`
	Paid           decimal.Decimal `json:"paid"`
	Remaining      decimal.Decimal `json:"remaining"`
	Settled        bool            `json:"settled"`
	AvailableFunds decimal.Decimal `json:"availableFunds"`
}

// PayDebt reduces a debt by amount and takes the full amount from the
// available funds, even when it exceeds what was owed. A debt reaching zero
// is removed. Both changes apply atomically.
func (s *Store) PayDebt(ctx context.Context, id core.ID, amount string) (Payoff, error) {
	paid, err := core.ParseAmount(amount)
	if err != nil {
		return Payoff{}, core.Invalid("amount", err)
	}
	var out Payoff
	err = s.mutation(ctx, EntityDebt, log.OpUpdate, func() (core.ID, error) {
		i := indexOf(s.debts, id)
		if i < 0 {
			return 0, notFound(EntityDebt, id)
		}
		remaining := s.debts[i].Amount.Sub(paid)
		if !remaining.IsPositive() {
			out.Debt = s.debts[i]
			out.Remaining = decimal.Zero
			out.Settled = true
			s.debts = append(s.debts[:i:i], s.debts[i+1:]...)
		} else {
			s.debts[i].Amount = remaining
			out.Debt = s.debts[i]
			out.Remaining = remaining
		}
		s.availableFunds = s.availableFunds.Sub(paid)
		out.Paid = paid
		out.AvailableFunds = s.availableFunds
		return id, nil
	}, KeyDebts, KeyAvailableFunds)
	return out, err
}
