package domain

import (
	"fmt"
	"time"

	"github.com/rpgo/budgetcast/pkg/dateutil"
	"github.com/rpgo/budgetcast/pkg/money"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// PayoffStrategy decides which debt receives the extra monthly payment.
type PayoffStrategy string

const (
	StrategyAvalanche PayoffStrategy = "avalanche" // highest rate first
	StrategySnowball  PayoffStrategy = "snowball"  // lowest balance first
	StrategyCustom    PayoffStrategy = "custom"    // lowest priority value first
)

// Valid reports whether s is a known strategy.
func (s PayoffStrategy) Valid() bool {
	switch s {
	case StrategyAvalanche, StrategySnowball, StrategyCustom:
		return true
	}
	return false
}

// DebtEntry is one liability in a payoff plan.
type DebtEntry struct {
	AccountID       string          `yaml:"account_id" json:"account_id"`
	Name            string          `yaml:"name,omitempty" json:"name,omitempty"`
	StartingBalance money.Cents     `yaml:"balance" json:"starting_balance_cents"`
	InterestRate    decimal.Decimal `yaml:"interest_rate" json:"interest_rate"` // annual percent
	MinimumPayment  money.Cents     `yaml:"minimum_payment" json:"minimum_payment_cents"`
	Priority        int             `yaml:"priority,omitempty" json:"priority,omitempty"`
}

// Label returns the debt's name, falling back to its account id.
func (d DebtEntry) Label() string {
	if d.Name != "" {
		return d.Name
	}
	return d.AccountID
}

// PayoffPlan is a multi-debt payoff request.
type PayoffPlan struct {
	Name                string         `yaml:"name" json:"name"`
	Strategy            PayoffStrategy `yaml:"strategy" json:"strategy"`
	MonthlyExtraPayment money.Cents    `yaml:"monthly_extra_payment" json:"monthly_extra_payment_cents"`
	StartDate           time.Time      `yaml:"start_date" json:"start_date"`
	RolloverMinimums    bool           `yaml:"rollover_minimums,omitempty" json:"rollover_minimums,omitempty"`
	FundingAccountID    string         `yaml:"funding_account_id,omitempty" json:"funding_account_id,omitempty"`
	Debts               []DebtEntry    `yaml:"debts" json:"debts"`
}

type payoffPlanYAML struct {
	Name                string         `yaml:"name"`
	Strategy            PayoffStrategy `yaml:"strategy"`
	MonthlyExtraPayment money.Cents    `yaml:"monthly_extra_payment"`
	StartDate           string         `yaml:"start_date"`
	RolloverMinimums    bool           `yaml:"rollover_minimums,omitempty"`
	FundingAccountID    string         `yaml:"funding_account_id,omitempty"`
	Debts               []DebtEntry    `yaml:"debts"`
}

// UnmarshalYAML implements custom YAML unmarshaling for PayoffPlan
func (p *PayoffPlan) UnmarshalYAML(value *yaml.Node) error {
	var aux payoffPlanYAML
	if err := value.Decode(&aux); err != nil {
		return err
	}

	p.Name = aux.Name
	p.Strategy = aux.Strategy
	p.MonthlyExtraPayment = aux.MonthlyExtraPayment
	p.RolloverMinimums = aux.RolloverMinimums
	p.FundingAccountID = aux.FundingAccountID
	p.Debts = aux.Debts
	p.StartDate = time.Time{}

	if aux.StartDate != "" {
		start, err := dateutil.ParseDate(aux.StartDate)
		if err != nil {
			return fmt.Errorf("start_date: %w", err)
		}
		p.StartDate = start
	}
	return nil
}

// MarshalYAML writes the start date as YYYY-MM-DD.
func (p PayoffPlan) MarshalYAML() (interface{}, error) {
	aux := payoffPlanYAML{
		Name:                p.Name,
		Strategy:            p.Strategy,
		MonthlyExtraPayment: p.MonthlyExtraPayment,
		RolloverMinimums:    p.RolloverMinimums,
		FundingAccountID:    p.FundingAccountID,
		Debts:               p.Debts,
	}
	if !p.StartDate.IsZero() {
		aux.StartDate = dateutil.FormatDate(p.StartDate)
	}
	return aux, nil
}

// TotalStartingBalance sums the starting balances of every debt.
func (p PayoffPlan) TotalStartingBalance() money.Cents {
	var total money.Cents
	for _, d := range p.Debts {
		total += d.StartingBalance
	}
	return total
}

// HasPriorities reports whether any debt sets an explicit priority.
func (p PayoffPlan) HasPriorities() bool {
	for _, d := range p.Debts {
		if d.Priority != 0 {
			return true
		}
	}
	return false
}

// PayoffStatus is the lifecycle state of a payoff simulation.
type PayoffStatus string

const (
	PayoffOngoing PayoffStatus = "ongoing"
	PayoffPaid    PayoffStatus = "paid"
	PayoffStalled PayoffStatus = "stalled"
)

// DebtMonthState is one debt's position at the end of a simulated month.
type DebtMonthState struct {
	AccountID        string      `json:"account_id"`
	RemainingBalance money.Cents `json:"remaining_balance_cents"`
	InterestAccrued  money.Cents `json:"interest_accrued_cents"`
	Payment          money.Cents `json:"payment_cents"`
}

// PayoffMonthSnapshot records one simulated month.
type PayoffMonthSnapshot struct {
	MonthIndex      int              `json:"month_index"` // 1-based
	Date            time.Time        `json:"date"`
	Debts           []DebtMonthState `json:"debts"`
	InterestAccrued money.Cents      `json:"interest_accrued_cents"`
	TotalPaid       money.Cents      `json:"total_paid_cents"` // cumulative
}

// RemainingBalance sums the remaining balance across debts.
func (s PayoffMonthSnapshot) RemainingBalance() money.Cents {
	var total money.Cents
	for _, d := range s.Debts {
		total += d.RemainingBalance
	}
	return total
}

// DebtPayoff summarises one debt across the whole simulation.
type DebtPayoff struct {
	AccountID     string      `json:"account_id"`
	Name          string      `json:"name,omitempty"`
	PayoffMonth   int         `json:"payoff_month"` // 0 when never paid
	TotalInterest money.Cents `json:"total_interest_cents"`
	TotalPaid     money.Cents `json:"total_paid_cents"`
}

// PayoffSummary aggregates a simulation.
type PayoffSummary struct {
	Status         PayoffStatus `json:"status"`
	MonthsToPayoff int          `json:"months_to_payoff"`
	TotalInterest  money.Cents  `json:"total_interest_cents"`
	TotalPaid      money.Cents  `json:"total_paid_cents"`
	PayoffDate     *time.Time   `json:"payoff_date,omitempty"`
	Debts          []DebtPayoff `json:"debts"`
}

// PayoffResult is the full month-by-month timeline of a plan.
type PayoffResult struct {
	Plan      PayoffPlan            `json:"plan"`
	Snapshots []PayoffMonthSnapshot `json:"snapshots"`
	Summary   PayoffSummary         `json:"summary"`
}

// StrategyOutcome is one strategy's result within a comparison.
type StrategyOutcome struct {
	Strategy PayoffStrategy `json:"strategy"`
	Summary  PayoffSummary  `json:"summary"`
}

// StrategyComparison runs the same debts under several strategies.
type StrategyComparison struct {
	PlanName      string            `json:"plan_name"`
	Outcomes      []StrategyOutcome `json:"outcomes"`
	Best          PayoffStrategy    `json:"best"`
	Worst         PayoffStrategy    `json:"worst"`
	InterestSaved money.Cents       `json:"interest_saved_cents"`
	MonthsSaved   int               `json:"months_saved"`
}

// ExtraPaymentSearch is the result of searching for the extra payment that meets a target.
type ExtraPaymentSearch struct {
	PlanName     string        `json:"plan_name"`
	TargetMonths int           `json:"target_months"`
	ExtraPayment money.Cents   `json:"extra_payment_cents"`
	Iterations   int           `json:"iterations"`
	Converged    bool          `json:"converged"`
	Result       *PayoffResult `json:"result,omitempty"`
}
