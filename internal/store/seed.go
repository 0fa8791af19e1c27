package store

import (
	"github.com/shopspring/decimal"

	"semihos/internal/core"
)

// Persisted record keys.
const (
	KeyAvailableFunds = "availableFunds"
	KeyIncome         = "income"
	KeyFixedCosts     = "fixedCosts"
	KeyTasks          = "tasks"
	KeyRecurringTasks = "recurringTasks"
	KeyJobSettings    = "jobSettings"
	KeyDebts          = "debts"
	KeyWorkHours      = "workHours"
	KeyDiaryEntries   = "diaryEntries"
	KeyPlaces         = "places"
	KeyPeople         = "people"
	KeyShoppingList   = "shoppingList"
	KeyGoals          = "goals"
	KeySubscriptions  = "subscriptions"
	KeyTransactions   = "transactions"
)

// Keys lists every persisted key in load order.
var Keys = []string{
	KeyAvailableFunds, KeyIncome, KeyFixedCosts, KeyTasks, KeyRecurringTasks,
	KeyJobSettings, KeyDebts, KeyWorkHours, KeyDiaryEntries, KeyPlaces,
	KeyPeople, KeyShoppingList, KeyGoals, KeySubscriptions, KeyTransactions,
}

var (
	defaultFunds      = decimal.NewFromInt(-1000)
	defaultIncome     = decimal.NewFromInt(2500)
	defaultFixedCosts = decimal.NewFromInt(1000)
)

func seedTasks() []core.Task {
	return []core.Task{
		{ID: 1, Text: "SemihOS fertigstellen", Priority: core.PriorityHigh},
		{ID: 2, Text: "Einkaufen gehen", Done: true, Priority: core.PriorityNormal},
	}
}

func seedDebt(id core.ID, creditor, amount, due, category string) core.Debt {
	d, _ := core.ParseDate(due)
	return core.Debt{
		ID:       id,
		Creditor: creditor,
		Amount:   decimal.RequireFromString(amount),
		DueDate:  d,
		DueLabel: d.Label(),
		Category: category,
	}
}

func seedDebts() []core.Debt {
	return []core.Debt{
		seedDebt(1, "Sparkasse Kredit", "2500", "31.12.2025", "Bank"),
		seedDebt(2, "Klarna", "300", "15.02.2026", "Shopping"),
		seedDebt(3, "Privat (Max)", "1000", "01.03.2026", "Privat"),
	}
}

func seedSubscriptions() []core.Subscription {
	return []core.Subscription{
		{ID: 1, Name: "Netflix", Cost: decimal.RequireFromString("17.99"), Cycle: core.Monthly, FirstPayment: core.NewDate(2024, 1, 15), Category: "Entertainment"},
		{ID: 2, Name: "Spotify", Cost: decimal.RequireFromString("10.99"), Cycle: core.Monthly, FirstPayment: core.NewDate(2024, 1, 1), Category: "Music"},
		{ID: 3, Name: "McFit", Cost: decimal.RequireFromString("24.90"), Cycle: core.Monthly, FirstPayment: core.NewDate(2024, 1, 1), Category: "Health"},
	}
}

func seedTransactions() []core.Transaction {
	return []core.Transaction{
		{ID: 1, Title: "Rewe Einkauf", Amount: decimal.RequireFromString("24.90"), Category: "Lebensmittel", Type: core.Expense, Date: core.NewDate(2024, 1, 2)},
		{ID: 2, Title: "Gehalt Januar", Amount: decimal.RequireFromString("2500"), Category: "Gehalt", Type: core.Income, Date: core.NewDate(2024, 1, 1)},
	}
}
