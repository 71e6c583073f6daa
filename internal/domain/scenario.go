package domain

import "github.com/rpgo/budgetcast/pkg/money"

// AdjustmentType identifies how a scenario adjustment alters the projection.
type AdjustmentType string

const (
	AdjustmentOneTimeExpense      AdjustmentType = "one_time_expense"
	AdjustmentRecurringExpense    AdjustmentType = "recurring_expense"
	AdjustmentDebtPaydown         AdjustmentType = "debt_paydown"
	AdjustmentSavingsContribution AdjustmentType = "savings_contribution"
	AdjustmentModifyExisting      AdjustmentType = "modify_existing"
)

// AdjustmentTypes is the closed set of adjustment kinds.
var AdjustmentTypes = []AdjustmentType{
	AdjustmentOneTimeExpense,
	AdjustmentRecurringExpense,
	AdjustmentDebtPaydown,
	AdjustmentSavingsContribution,
	AdjustmentModifyExisting,
}

// Known reports whether t is one of AdjustmentTypes.
func (t AdjustmentType) Known() bool {
	for _, k := range AdjustmentTypes {
		if t == k {
			return true
		}
	}
	return false
}

// ScenarioAdjustment is a hypothetical change overlaid on the base projection.
type ScenarioAdjustment struct {
	ID               string         `yaml:"id" json:"id"`
	ScenarioID       string         `yaml:"scenario_id,omitempty" json:"scenario_id,omitempty"`
	AccountID        string         `yaml:"account_id" json:"account_id"`
	Type             AdjustmentType `yaml:"type" json:"type"`
	Amount           money.Cents    `yaml:"amount" json:"amount_cents"`
	Description      string         `yaml:"description,omitempty" json:"description,omitempty"`
	Recurrence       RecurrenceRule `yaml:"recurrence" json:"recurrence"`
	TargetTemplateID string         `yaml:"target_template_id,omitempty" json:"target_template_id,omitempty"`
}

// Scenario groups the adjustments of one "what-if".
type Scenario struct {
	ID          string               `yaml:"id" json:"id"`
	Name        string               `yaml:"name" json:"name"`
	Description string               `yaml:"description,omitempty" json:"description,omitempty"`
	Adjustments []ScenarioAdjustment `yaml:"adjustments" json:"adjustments"`
}

// AdjustmentsFor returns the adjustments that apply to accountID.
func (s Scenario) AdjustmentsFor(accountID string) []ScenarioAdjustment {
	var out []ScenarioAdjustment
	for _, adj := range s.Adjustments {
		if adj.AccountID == accountID {
			out = append(out, adj)
		}
	}
	return out
}
