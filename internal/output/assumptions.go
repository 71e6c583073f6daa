package output

import (
	"fmt"

	"github.com/rpgo/budgetcast/internal/calculation"
	"github.com/rpgo/budgetcast/internal/domain"
)

// DefaultAssumptions lists the modelling rules rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Balances are end-of-day; transactions on the same date keep template order",
	"Monthly dates past the end of a short month fall on its last day",
	"Unrecognised frequencies are projected monthly",
	"Debt interest accrues monthly at rate/12, rounded half-up to the cent",
	fmt.Sprintf("Payoff simulations stop after %d months", calculation.MaxPayoffMonths),
}

// GenerateAssumptions extends DefaultAssumptions with the report's own inputs.
func GenerateAssumptions(report *domain.Report) []string {
	out := append([]string(nil), DefaultAssumptions...)
	out = append(out, fmt.Sprintf("As of %s", formatDate(report.AsOf)))
	if report.ScenarioName != "" {
		out = append(out, fmt.Sprintf("Scenario %q overlaid on the baseline", report.ScenarioName))
	} else {
		out = append(out, "Baseline projection (no scenario)")
	}
	if len(report.Forecasts) > 0 {
		w := report.Forecasts[0].Window
		out = append(out, fmt.Sprintf("Forecast window %s to %s", formatDate(w.Start), formatDate(w.End)))
	}
	for _, p := range report.Payoffs {
		if p.Plan.RolloverMinimums {
			out = append(out, fmt.Sprintf("Plan %s rolls paid-off minimums into the extra payment", p.Plan.Name))
		}
	}
	return out
}
