package output

import (
	"fmt"
	"time"

	"github.com/rpgo/budgetcast/internal/domain"
	"github.com/rpgo/budgetcast/pkg/money"
)

// Analysis condenses a report into the points a reader acts on first.
type Analysis struct {
	NegativeAccounts []string
	TightestAccount  string
	TightestBalance  money.Cents
	TightestDate     time.Time
	NetChange        money.Cents // sum of ending minus starting balances
	StalledPlans     []string
	Recommendations  []string
}

// AnalyzeReport picks out overdrafts, the tightest account and payoff advice.
func AnalyzeReport(report *domain.Report) Analysis {
	var a Analysis
	for i, f := range report.Forecasts {
		a.NetChange += f.EndingBalance - f.StartingBalance
		if f.GoesNegative() {
			a.NegativeAccounts = append(a.NegativeAccounts, f.Account.ID)
		}
		if i == 0 || f.LowestBalance < a.TightestBalance {
			a.TightestAccount = f.Account.ID
			a.TightestBalance = f.LowestBalance
			a.TightestDate = f.LowestBalanceDate
		}
	}

	for _, p := range report.Payoffs {
		if p.Summary.Status == domain.PayoffStalled {
			a.StalledPlans = append(a.StalledPlans, p.Plan.Name)
		}
	}

	for _, c := range report.Comparisons {
		if c.Best == c.Worst || c.InterestSaved == 0 {
			a.Recommendations = append(a.Recommendations,
				fmt.Sprintf("%s: strategies are equivalent", c.PlanName))
			continue
		}
		a.Recommendations = append(a.Recommendations,
			fmt.Sprintf("%s: use %s, saves %s interest over %s", c.PlanName, c.Best, FormatCurrency(c.InterestSaved), c.Worst))
	}
	for _, s := range report.Searches {
		if !s.Converged {
			a.Recommendations = append(a.Recommendations,
				fmt.Sprintf("%s: search for a %d-month payoff did not converge", s.PlanName, s.TargetMonths))
			continue
		}
		a.Recommendations = append(a.Recommendations,
			fmt.Sprintf("%s: pay %s extra per month to finish within %d months", s.PlanName, FormatCurrency(s.ExtraPayment), s.TargetMonths))
	}
	return a
}
