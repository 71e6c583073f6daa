package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rpgo/budgetcast/internal/domain"
	"github.com/rpgo/budgetcast/pkg/dateutil"
	"github.com/rpgo/budgetcast/pkg/money"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.LoadFromBytes(data)
}

// LoadFromBytes parses and validates a YAML (or JSON) document.
func (ip *InputParser) LoadFromBytes(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// SaveConfiguration writes config as YAML.
func (ip *InputParser) SaveConfiguration(config *domain.Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// ValidateConfiguration checks ids, references and recurrence rules.
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if len(config.Accounts) == 0 {
		return fmt.Errorf("no accounts provided")
	}

	accounts := make(map[string]bool, len(config.Accounts))
	for i, acct := range config.Accounts {
		if acct.ID == "" {
			return fmt.Errorf("account %d: id is required", i)
		}
		if accounts[acct.ID] {
			return fmt.Errorf("duplicate account id %q", acct.ID)
		}
		accounts[acct.ID] = true
	}

	templates := make(map[string]bool, len(config.Templates))
	for i := range config.Templates {
		tmpl := &config.Templates[i]
		if err := ip.validateTemplate(tmpl, accounts); err != nil {
			return fmt.Errorf("template %d (%s) validation failed: %w", i, tmpl.ID, err)
		}
		if templates[tmpl.ID] {
			return fmt.Errorf("duplicate template id %q", tmpl.ID)
		}
		templates[tmpl.ID] = true
	}

	scenarios := make(map[string]bool, len(config.Scenarios))
	for i := range config.Scenarios {
		sc := &config.Scenarios[i]
		if sc.ID == "" {
			return fmt.Errorf("scenario %d: id is required", i)
		}
		if scenarios[sc.ID] {
			return fmt.Errorf("duplicate scenario id %q", sc.ID)
		}
		scenarios[sc.ID] = true
		if err := ip.validateScenario(sc, accounts, templates); err != nil {
			return fmt.Errorf("scenario %s validation failed: %w", sc.ID, err)
		}
	}

	plans := make(map[string]bool, len(config.PayoffPlans))
	for i := range config.PayoffPlans {
		plan := &config.PayoffPlans[i]
		if plan.Name == "" {
			return fmt.Errorf("payoff plan %d: name is required", i)
		}
		if plans[plan.Name] {
			return fmt.Errorf("duplicate payoff plan %q", plan.Name)
		}
		plans[plan.Name] = true
		if err := ip.validatePayoffPlan(plan, accounts); err != nil {
			return fmt.Errorf("payoff plan %s validation failed: %w", plan.Name, err)
		}
	}

	return nil
}

func (ip *InputParser) validateTemplate(tmpl *domain.RecurringTemplate, accounts map[string]bool) error {
	if tmpl.ID == "" {
		return fmt.Errorf("id is required")
	}
	if !accounts[tmpl.AccountID] {
		return fmt.Errorf("unknown account %q", tmpl.AccountID)
	}
	if tmpl.Description == "" {
		return fmt.Errorf("description is required")
	}
	if tmpl.MinAmount != nil && tmpl.MaxAmount != nil && *tmpl.MinAmount > *tmpl.MaxAmount {
		return fmt.Errorf("min_amount cannot exceed max_amount")
	}
	if !tmpl.AllowsAmount(tmpl.Amount) {
		return fmt.Errorf("amount %s outside min/max range", tmpl.Amount)
	}
	if err := ip.validateRecurrence(tmpl.Recurrence); err != nil {
		return err
	}
	return nil
}

// validateRecurrence accepts unknown frequencies; they are projected as monthly.
func (ip *InputParser) validateRecurrence(rule domain.RecurrenceRule) error {
	return rule.Validate()
}

func (ip *InputParser) validateScenario(sc *domain.Scenario, accounts, templates map[string]bool) error {
	if sc.Name == "" {
		return fmt.Errorf("scenario name is required")
	}

	ids := make(map[string]bool, len(sc.Adjustments))
	for i := range sc.Adjustments {
		adj := &sc.Adjustments[i]
		if adj.ID == "" {
			return fmt.Errorf("adjustment %d: id is required", i)
		}
		if ids[adj.ID] {
			return fmt.Errorf("duplicate adjustment id %q", adj.ID)
		}
		ids[adj.ID] = true

		if !adj.Type.Known() {
			return &domain.InvalidAdjustmentError{AdjustmentID: adj.ID, Type: adj.Type, Reason: "unknown adjustment type"}
		}
		if !accounts[adj.AccountID] {
			return fmt.Errorf("adjustment %s: unknown account %q", adj.ID, adj.AccountID)
		}

		switch adj.Type {
		case domain.AdjustmentOneTimeExpense:
			if adj.Recurrence.StartDate.IsZero() {
				return &domain.InvalidAdjustmentError{AdjustmentID: adj.ID, Type: adj.Type, Reason: "start_date is required"}
			}
		case domain.AdjustmentModifyExisting:
			if adj.TargetTemplateID == "" {
				return &domain.InvalidAdjustmentError{AdjustmentID: adj.ID, Type: adj.Type, Reason: "target_template_id is required"}
			}
			if !templates[adj.TargetTemplateID] {
				return fmt.Errorf("adjustment %s: unknown template %q", adj.ID, adj.TargetTemplateID)
			}
		default:
			if err := ip.validateRecurrence(adj.Recurrence); err != nil {
				return fmt.Errorf("adjustment %s: %w", adj.ID, err)
			}
		}
	}
	return nil
}

func (ip *InputParser) validatePayoffPlan(plan *domain.PayoffPlan, accounts map[string]bool) error {
	if plan.Strategy != "" && !plan.Strategy.Valid() {
		return &domain.InvalidPlanError{Plan: plan.Name, Reason: fmt.Sprintf("unknown strategy %q", plan.Strategy)}
	}
	if plan.FundingAccountID != "" && !accounts[plan.FundingAccountID] {
		return fmt.Errorf("unknown funding account %q", plan.FundingAccountID)
	}
	if plan.MonthlyExtraPayment < 0 {
		return fmt.Errorf("monthly extra payment cannot be negative")
	}
	if len(plan.Debts) == 0 {
		return fmt.Errorf("at least one debt is required")
	}
	debts := make(map[string]bool, len(plan.Debts))
	for _, d := range plan.Debts {
		if d.AccountID == "" {
			return fmt.Errorf("debt account_id is required")
		}
		if debts[d.AccountID] {
			return &domain.InvalidPlanError{Plan: plan.Name, Reason: fmt.Sprintf("debt account %q appears more than once", d.AccountID)}
		}
		debts[d.AccountID] = true
		if d.StartingBalance < 0 {
			return fmt.Errorf("debt %s: balance cannot be negative", d.Label())
		}
		if d.MinimumPayment < 0 {
			return fmt.Errorf("debt %s: minimum payment cannot be negative", d.Label())
		}
		if d.InterestRate.LessThan(decimal.Zero) {
			return fmt.Errorf("debt %s: interest rate cannot be negative", d.Label())
		}
	}
	return nil
}

// IsValidationError reports whether err came from document validation rather than I/O or parsing.
func IsValidationError(err error) bool {
	var (
		recurrence *domain.InvalidRecurrenceError
		adjustment *domain.InvalidAdjustmentError
		plan       *domain.InvalidPlanError
	)
	return errors.As(err, &recurrence) || errors.As(err, &adjustment) || errors.As(err, &plan)
}

// CreateExampleConfiguration creates an example configuration file
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	asOf := dateutil.Date(2025, time.January, 1)
	friday := int(time.Friday)

	return &domain.Configuration{
		AsOf: asOf,
		Accounts: []domain.Account{
			{ID: "checking", Name: "Household Checking", CurrentBalance: money.MustParse("3200.00")},
			{ID: "savings", Name: "Emergency Fund", CurrentBalance: money.MustParse("8500.00")},
			{ID: "visa", Name: "Visa Card", CurrentBalance: money.MustParse("-4200.00")},
			{ID: "car-loan", Name: "Car Loan", CurrentBalance: money.MustParse("-11800.00")},
		},
		Templates: []domain.RecurringTemplate{
			{
				ID: "paycheck", AccountID: "checking", Description: "Paycheck", Category: "Income",
				Amount: money.MustParse("2150.00"),
				Recurrence: domain.RecurrenceRule{
					Frequency: domain.FrequencyBiweekly,
					DayOfWeek: &friday,
					StartDate: dateutil.Date(2024, time.January, 5),
				},
			},
			{
				ID: "rent", AccountID: "checking", Description: "Rent", Category: "Housing",
				Amount: money.MustParse("-1650.00"),
				Recurrence: domain.RecurrenceRule{
					Frequency:  domain.FrequencyMonthly,
					DayOfMonth: domain.IntPtr(1),
					StartDate:  dateutil.Date(2024, time.January, 1),
				},
			},
			{
				ID: "groceries", AccountID: "checking", Description: "Groceries", Category: "Food",
				Amount: money.MustParse("-140.00"),
				Recurrence: domain.RecurrenceRule{
					Frequency: domain.FrequencyWeekly,
					DayOfWeek: domain.IntPtr(int(time.Saturday)),
					StartDate: dateutil.Date(2024, time.January, 6),
				},
			},
			{
				ID: "electric", AccountID: "checking", Description: "Electric bill", Category: "Utilities",
				Amount:    money.MustParse("-120.00"),
				MinAmount: centsPtr(money.MustParse("-220.00")),
				MaxAmount: centsPtr(money.MustParse("-60.00")),
				Recurrence: domain.RecurrenceRule{
					Frequency:  domain.FrequencyMonthly,
					DayOfMonth: domain.IntPtr(18),
					StartDate:  dateutil.Date(2024, time.January, 18),
				},
			},
			{
				ID: "car-insurance", AccountID: "checking", Description: "Car insurance", Category: "Insurance",
				Amount: money.MustParse("-540.00"),
				Recurrence: domain.RecurrenceRule{
					Frequency: domain.FrequencyQuarterly,
					StartDate: dateutil.Date(2024, time.March, 10),
				},
			},
			{
				ID: "savings-transfer", AccountID: "savings", Description: "Transfer from checking", Category: "Savings",
				Amount: money.MustParse("200.00"),
				Recurrence: domain.RecurrenceRule{
					Frequency:  domain.FrequencyMonthly,
					DayOfMonth: domain.IntPtr(31),
					StartDate:  dateutil.Date(2024, time.January, 31),
				},
			},
		},
		Scenarios: []domain.Scenario{
			{
				ID:          "car-repair",
				Name:        "Car Repair",
				Description: "Transmission repair in February and a rent increase from March",
				Adjustments: []domain.ScenarioAdjustment{
					{
						ID: "transmission", ScenarioID: "car-repair", AccountID: "checking",
						Type: domain.AdjustmentOneTimeExpense, Amount: money.MustParse("-2400.00"),
						Description: "Transmission repair",
						Recurrence:  domain.RecurrenceRule{StartDate: dateutil.Date(2025, time.February, 12)},
					},
					{
						ID: "rent-increase", ScenarioID: "car-repair", AccountID: "checking",
						Type: domain.AdjustmentModifyExisting, Amount: money.MustParse("-75.00"),
						TargetTemplateID: "rent",
						Recurrence:       domain.RecurrenceRule{StartDate: dateutil.Date(2025, time.March, 1)},
					},
				},
			},
			{
				ID:   "aggressive-savings",
				Name: "Aggressive Savings",
				Adjustments: []domain.ScenarioAdjustment{
					{
						ID: "extra-savings", ScenarioID: "aggressive-savings", AccountID: "savings",
						Type: domain.AdjustmentSavingsContribution, Amount: money.MustParse("300.00"),
						Description: "Extra savings",
						Recurrence: domain.RecurrenceRule{
							Frequency:  domain.FrequencyMonthly,
							DayOfMonth: domain.IntPtr(20),
							StartDate:  dateutil.Date(2025, time.January, 20),
						},
					},
					{
						ID: "fund-savings", ScenarioID: "aggressive-savings", AccountID: "checking",
						Type: domain.AdjustmentRecurringExpense, Amount: money.MustParse("-300.00"),
						Description: "Extra savings",
						Recurrence: domain.RecurrenceRule{
							Frequency:  domain.FrequencyMonthly,
							DayOfMonth: domain.IntPtr(20),
							StartDate:  dateutil.Date(2025, time.January, 20),
						},
					},
				},
			},
		},
		PayoffPlans: []domain.PayoffPlan{
			{
				Name:                "debt-free",
				Strategy:            domain.StrategyAvalanche,
				MonthlyExtraPayment: money.MustParse("250.00"),
				StartDate:           dateutil.Date(2025, time.January, 15),
				FundingAccountID:    "checking",
				Debts: []domain.DebtEntry{
					{AccountID: "visa", Name: "Visa Card", StartingBalance: money.MustParse("4200.00"), InterestRate: decimal.RequireFromString("22.99"), MinimumPayment: money.MustParse("120.00")},
					{AccountID: "car-loan", Name: "Car Loan", StartingBalance: money.MustParse("11800.00"), InterestRate: decimal.RequireFromString("6.5"), MinimumPayment: money.MustParse("310.00")},
				},
			},
		},
	}
}

func centsPtr(c money.Cents) *money.Cents { return &c }
