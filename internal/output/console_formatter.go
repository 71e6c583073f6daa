package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/budgetcast/internal/domain"
)

// ConsoleFormatter provides a concise plain-text summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "BUDGET FORECAST SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "As of: %s\n", formatDate(report.AsOf))
	if report.ScenarioName != "" {
		fmt.Fprintf(&buf, "Scenario: %s\n", report.ScenarioName)
	}
	fmt.Fprintln(&buf)

	for _, f := range report.Forecasts {
		fmt.Fprintf(&buf, "%s: Start=%s End=%s Low=%s on %s In=%s Out=%s\n",
			f.Account.ID,
			FormatCurrency(f.StartingBalance),
			FormatCurrency(f.EndingBalance),
			FormatCurrency(f.LowestBalance),
			formatDate(f.LowestBalanceDate),
			FormatCurrency(f.TotalInflow),
			FormatCurrency(f.TotalOutflow),
		)
	}
	for _, p := range report.Payoffs {
		fmt.Fprintf(&buf, "Plan %s (%s): %s in %d months, interest %s, paid %s\n",
			p.Plan.Name, p.Plan.Strategy, p.Summary.Status, p.Summary.MonthsToPayoff,
			FormatCurrency(p.Summary.TotalInterest), FormatCurrency(p.Summary.TotalPaid))
	}

	a := AnalyzeReport(report)
	if len(a.NegativeAccounts) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Overdraft risk: %s\n", strings.Join(a.NegativeAccounts, ", "))
	}
	if len(a.Recommendations) > 0 {
		fmt.Fprintln(&buf)
		for _, r := range a.Recommendations {
			fmt.Fprintf(&buf, "Recommended: %s\n", r)
		}
	}
	return buf.Bytes(), nil
}
