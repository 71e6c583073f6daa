package domain

import "github.com/rpgo/budgetcast/pkg/money"

// RecurringTemplate is a user-defined recurring income or expense.
type RecurringTemplate struct {
	ID          string         `yaml:"id" json:"id"`
	AccountID   string         `yaml:"account_id" json:"account_id"`
	Description string         `yaml:"description" json:"description"`
	Category    string         `yaml:"category,omitempty" json:"category,omitempty"`
	Amount      money.Cents    `yaml:"amount" json:"amount_cents"`
	MinAmount   *money.Cents   `yaml:"min_amount,omitempty" json:"min_amount_cents,omitempty"`
	MaxAmount   *money.Cents   `yaml:"max_amount,omitempty" json:"max_amount_cents,omitempty"`
	Recurrence  RecurrenceRule `yaml:"recurrence" json:"recurrence"`
}

// IsDynamic reports whether the template declares an amount range.
func (t RecurringTemplate) IsDynamic() bool {
	return t.MinAmount != nil || t.MaxAmount != nil
}

// AllowsAmount reports whether amount lies within the template's declared bounds.
func (t RecurringTemplate) AllowsAmount(amount money.Cents) bool {
	if t.MinAmount != nil && amount < *t.MinAmount {
		return false
	}
	if t.MaxAmount != nil && amount > *t.MaxAmount {
		return false
	}
	return true
}
