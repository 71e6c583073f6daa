package calculation

import (
	"errors"
	"fmt"

	"github.com/rpgo/budgetcast/internal/domain"
	"github.com/rpgo/budgetcast/pkg/money"
)

const maxExtraPaymentIterations = 64

// FindExtraPaymentForTarget binary-searches the smallest monthly extra payment, in
// whole cents, that pays plan off within targetMonths.
func FindExtraPaymentForTarget(plan domain.PayoffPlan, targetMonths int) (*domain.ExtraPaymentSearch, error) {
	if targetMonths < 1 || targetMonths > MaxPayoffMonths {
		return nil, &domain.InvalidPlanError{Plan: plan.Name, Reason: fmt.Sprintf("target months must be between 1 and %d", MaxPayoffMonths)}
	}

	search := &domain.ExtraPaymentSearch{PlanName: plan.Name, TargetMonths: targetMonths}

	meets := func(extra money.Cents) (*domain.PayoffResult, bool, error) {
		candidate := plan
		candidate.MonthlyExtraPayment = extra
		result, err := SimulatePayoff(candidate)
		var never *domain.NeverPayoffError
		if err != nil && !errors.As(err, &never) {
			return nil, false, err
		}
		ok := result.Summary.Status == domain.PayoffPaid && result.Summary.MonthsToPayoff <= targetMonths
		return result, ok, nil
	}

	result, ok, err := meets(0)
	search.Iterations++
	if err != nil {
		return nil, err
	}
	if ok {
		search.Converged = true
		search.Result = result
		return search, nil
	}

	// Paying every balance plus its first month of interest clears the plan in month one.
	var upper money.Cents
	for _, d := range plan.Debts {
		upper += d.StartingBalance + money.MonthlyInterest(d.StartingBalance, d.InterestRate)
	}
	lower := money.Cents(0)
	best, ok, err := meets(upper)
	search.Iterations++
	if err != nil {
		return nil, err
	}
	if !ok {
		search.ExtraPayment = upper
		search.Result = best
		return search, nil
	}

	for lower+1 < upper && search.Iterations < maxExtraPaymentIterations {
		mid := lower + (upper-lower)/2
		result, ok, err := meets(mid)
		search.Iterations++
		if err != nil {
			return nil, err
		}
		if ok {
			upper, best = mid, result
		} else {
			lower = mid
		}
	}

	search.ExtraPayment = upper
	search.Result = best
	search.Converged = lower+1 >= upper
	return search, nil
}
