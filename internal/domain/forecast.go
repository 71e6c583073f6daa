package domain

import (
	"time"

	"github.com/rpgo/budgetcast/pkg/money"
)

// Account is a balance-bearing account as of the forecast's reference date.
type Account struct {
	ID             string      `yaml:"id" json:"id"`
	Name           string      `yaml:"name" json:"name"`
	CurrentBalance money.Cents `yaml:"current_balance" json:"current_balance_cents"`
}

// Window is an inclusive range of calendar dates.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsZero reports whether neither bound is set.
func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// Contains reports whether d falls within the window, bounds included.
func (w Window) Contains(d time.Time) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// LedgerEntry pairs a projected transaction with the balance after it posts.
type LedgerEntry struct {
	Transaction ProjectedTransaction `json:"transaction"`
	Balance     money.Cents          `json:"balance_cents"`
}

// DailyBalance is the end-of-day balance of one calendar day.
type DailyBalance struct {
	Date    time.Time   `json:"date"`
	Balance money.Cents `json:"balance_cents"`
}

// AccountForecast is the projected balance series of one account.
type AccountForecast struct {
	Account           Account        `json:"account"`
	ScenarioID        string         `json:"scenario_id,omitempty"`
	AsOf              time.Time      `json:"as_of"`
	Window            Window         `json:"window"`
	StartingBalance   money.Cents    `json:"starting_balance_cents"`
	EndingBalance     money.Cents    `json:"ending_balance_cents"`
	LowestBalance     money.Cents    `json:"lowest_balance_cents"`
	LowestBalanceDate time.Time      `json:"lowest_balance_date"`
	TotalInflow       money.Cents    `json:"total_inflow_cents"`
	TotalOutflow      money.Cents    `json:"total_outflow_cents"`
	ModifiedCount     int            `json:"modified_count"`
	Truncated         bool           `json:"truncated,omitempty"`
	Entries           []LedgerEntry  `json:"entries"`
	Daily             []DailyBalance `json:"daily"`
}

// GoesNegative reports whether the balance dips below zero anywhere in the window.
func (f AccountForecast) GoesNegative() bool {
	return f.LowestBalance < 0
}
