package calculation

import (
	"fmt"

	"github.com/rpgo/budgetcast/internal/domain"
	"github.com/rpgo/budgetcast/pkg/money"
)

// ExpandOption customises ExpandRecurring.
type ExpandOption func(*expandConfig)

type expandConfig struct {
	amount *money.Cents
}

// WithAmountOverride replaces the template's fixed amount. The override must fall
// within the template's min/max bounds when those are declared.
func WithAmountOverride(amount money.Cents) ExpandOption {
	return func(c *expandConfig) {
		c.amount = &amount
	}
}

// ExpandRecurring materialises a template into projected transactions for window.
func ExpandRecurring(template domain.RecurringTemplate, window domain.Window, opts ...ExpandOption) ([]domain.ProjectedTransaction, error) {
	txs, _, err := expandTemplate(template, window, opts...)
	return txs, err
}

func expandTemplate(template domain.RecurringTemplate, window domain.Window, opts ...ExpandOption) ([]domain.ProjectedTransaction, bool, error) {
	cfg := expandConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	amount := template.Amount
	if cfg.amount != nil {
		if !template.AllowsAmount(*cfg.amount) {
			return nil, false, fmt.Errorf("template %q: amount %s outside the template's allowed range", template.ID, cfg.amount.String())
		}
		amount = *cfg.amount
	}

	set, err := Occurrences(template.Recurrence, window.Start, window.End)
	if err != nil {
		return nil, false, fmt.Errorf("template %q: %w", template.ID, err)
	}

	txs := make([]domain.ProjectedTransaction, 0, len(set.Dates))
	for _, d := range set.Dates {
		txs = append(txs, domain.ProjectedTransaction{
			Date:        d,
			Amount:      amount,
			Description: template.Description,
			AccountID:   template.AccountID,
			Category:    template.Category,
			IsProjected: true,
			TemplateID:  template.ID,
		})
	}
	return txs, set.Truncated, nil
}
