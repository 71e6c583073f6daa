package domain

import (
	"time"

	"github.com/rpgo/budgetcast/pkg/money"
)

// ProjectedTransaction is an engine-generated, never-persisted transaction.
type ProjectedTransaction struct {
	Date                 time.Time   `json:"date"`
	Amount               money.Cents `json:"amount_cents"`
	Description          string      `json:"description"`
	AccountID            string      `json:"account_id"`
	Category             string      `json:"category,omitempty"`
	IsProjected          bool        `json:"is_projected"`
	IsScenarioAdjustment bool        `json:"is_scenario_adjustment"`
	ModifiedByScenario   bool        `json:"modified_by_scenario"`

	// Origin of the row: the template it was expanded from, or the adjustment that created it.
	TemplateID   string `json:"template_id,omitempty"`
	AdjustmentID string `json:"adjustment_id,omitempty"`
}
