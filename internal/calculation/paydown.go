package calculation

import (
	"fmt"

	"github.com/rpgo/budgetcast/internal/domain"
)

// PaydownCategory labels transactions derived from a payoff simulation.
const PaydownCategory = "debt_payment"

// PaydownTransactions converts a simulation's monthly payments into projected
// transactions: a credit on each debt account and, when fundingAccountID is set,
// the matching debit on the funding account. Months without a date are skipped.
func PaydownTransactions(result *domain.PayoffResult, fundingAccountID string) []domain.ProjectedTransaction {
	if result == nil {
		return nil
	}
	labels := make(map[string]string, len(result.Plan.Debts))
	for _, d := range result.Plan.Debts {
		labels[d.AccountID] = d.Label()
	}

	var txs []domain.ProjectedTransaction
	for _, snap := range result.Snapshots {
		if snap.Date.IsZero() {
			continue
		}
		for _, state := range snap.Debts {
			if state.Payment <= 0 {
				continue
			}
			desc := fmt.Sprintf("%s payment (%s)", labels[state.AccountID], result.Plan.Strategy)
			txs = append(txs, domain.ProjectedTransaction{
				Date:                 snap.Date,
				Amount:               state.Payment,
				Description:          desc,
				AccountID:            state.AccountID,
				Category:             PaydownCategory,
				IsProjected:          true,
				IsScenarioAdjustment: true,
			})
			if fundingAccountID != "" {
				txs = append(txs, domain.ProjectedTransaction{
					Date:                 snap.Date,
					Amount:               -state.Payment,
					Description:          desc,
					AccountID:            fundingAccountID,
					Category:             PaydownCategory,
					IsProjected:          true,
					IsScenarioAdjustment: true,
				})
			}
		}
	}
	return txs
}
