package calculation

import (
	"errors"
	"fmt"

	"github.com/rpgo/budgetcast/internal/domain"
)

// CompareStrategies simulates plan's debts under avalanche and snowball, plus custom
// when any debt carries a priority, and reports what the best strategy saves over the worst.
func CompareStrategies(plan domain.PayoffPlan) (*domain.StrategyComparison, error) {
	strategies := []domain.PayoffStrategy{domain.StrategyAvalanche, domain.StrategySnowball}
	if plan.HasPriorities() {
		strategies = append(strategies, domain.StrategyCustom)
	}

	comparison := &domain.StrategyComparison{PlanName: plan.Name}
	for _, strategy := range strategies {
		candidate := plan
		candidate.Strategy = strategy
		result, err := SimulatePayoff(candidate)
		var never *domain.NeverPayoffError
		if err != nil && !errors.As(err, &never) {
			return nil, fmt.Errorf("%s strategy: %w", strategy, err)
		}
		comparison.Outcomes = append(comparison.Outcomes, domain.StrategyOutcome{
			Strategy: strategy,
			Summary:  result.Summary,
		})
	}

	best, worst := comparison.Outcomes[0], comparison.Outcomes[0]
	for _, o := range comparison.Outcomes[1:] {
		if outcomeBetter(o.Summary, best.Summary) {
			best = o
		}
		if outcomeBetter(worst.Summary, o.Summary) {
			worst = o
		}
	}
	comparison.Best = best.Strategy
	comparison.Worst = worst.Strategy
	comparison.InterestSaved = worst.Summary.TotalInterest - best.Summary.TotalInterest
	comparison.MonthsSaved = worst.Summary.MonthsToPayoff - best.Summary.MonthsToPayoff
	return comparison, nil
}

// outcomeBetter reports whether a strictly beats b: paid beats stalled, then less
// interest, then fewer months.
func outcomeBetter(a, b domain.PayoffSummary) bool {
	aPaid, bPaid := a.Status == domain.PayoffPaid, b.Status == domain.PayoffPaid
	if aPaid != bPaid {
		return aPaid
	}
	if a.TotalInterest != b.TotalInterest {
		return a.TotalInterest < b.TotalInterest
	}
	return a.MonthsToPayoff < b.MonthsToPayoff
}
