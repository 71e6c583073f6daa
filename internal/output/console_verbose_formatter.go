package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/budgetcast/internal/domain"
)

// ConsoleVerboseFormatter renders the full report as lipgloss tables.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

// MaxLedgerRows caps the per-account ledger table; the CSV export has every row.
const MaxLedgerRows = 60

func (c ConsoleVerboseFormatter) Format(report *domain.Report) ([]byte, error) {
	var buf bytes.Buffer

	title := "BUDGET FORECAST"
	if report.ScenarioName != "" {
		title += ": " + strings.ToUpper(report.ScenarioName)
	}
	fmt.Fprintln(&buf, RenderTitle(title))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, headerStyle.Render("  KEY ASSUMPTIONS"))
	for _, a := range GenerateAssumptions(report) {
		fmt.Fprintf(&buf, "  • %s\n", mutedStyle.Render(a))
	}
	fmt.Fprintln(&buf)

	if len(report.Forecasts) > 0 {
		writeAccountSummary(&buf, report.Forecasts)
		for _, f := range report.Forecasts {
			writeLedger(&buf, f)
		}
	}
	for _, p := range report.Payoffs {
		writePayoff(&buf, p)
	}
	for _, cmp := range report.Comparisons {
		writeComparison(&buf, cmp)
	}
	if len(report.Searches) > 0 {
		writeSearches(&buf, report.Searches)
	}

	a := AnalyzeReport(report)
	if len(a.NegativeAccounts) > 0 || len(a.StalledPlans) > 0 || len(a.Recommendations) > 0 {
		fmt.Fprintln(&buf, headerStyle.Render("  RECOMMENDATIONS"))
		for _, id := range a.NegativeAccounts {
			fmt.Fprintf(&buf, "  %s\n", warnStyle.Render("! "+id+" goes negative within the window"))
		}
		for _, name := range a.StalledPlans {
			fmt.Fprintf(&buf, "  %s\n", warnStyle.Render("! plan "+name+" never pays off at the current payments"))
		}
		for _, r := range a.Recommendations {
			fmt.Fprintf(&buf, "  • %s\n", r)
		}
	}
	return buf.Bytes(), nil
}

func writeAccountSummary(buf *bytes.Buffer, forecasts []domain.AccountForecast) {
	t := Table{
		Title:   "ACCOUNTS",
		Headers: []string{"Account", "Start", "End", "Lowest", "Lowest On", "Inflow", "Outflow", "Trend"},
	}
	for _, f := range forecasts {
		lowest := FormatCurrency(f.LowestBalance)
		if f.GoesNegative() {
			lowest = warnStyle.Render(lowest)
		}
		t.Rows = append(t.Rows, []string{
			accountLabel(f.Account),
			FormatCurrency(f.StartingBalance),
			FormatCurrency(f.EndingBalance),
			lowest,
			formatDate(f.LowestBalanceDate),
			FormatCurrency(f.TotalInflow),
			FormatCurrency(f.TotalOutflow),
			RenderSparkline(weeklyBalances(f.Daily)),
		})
	}
	fmt.Fprint(buf, RenderTable(t))
	fmt.Fprintln(buf)
}

// weeklyBalances samples one end-of-day balance per week, plus the last day.
func weeklyBalances(daily []domain.DailyBalance) []int64 {
	var out []int64
	for i := 0; i < len(daily); i += 7 {
		out = append(out, int64(daily[i].Balance))
	}
	if n := len(daily); n > 0 && (n-1)%7 != 0 {
		out = append(out, int64(daily[n-1].Balance))
	}
	return out
}

func accountLabel(a domain.Account) string {
	if a.Name == "" || a.Name == a.ID {
		return a.ID
	}
	return fmt.Sprintf("%s (%s)", a.Name, a.ID)
}

func writeLedger(buf *bytes.Buffer, f domain.AccountForecast) {
	if len(f.Entries) == 0 {
		return
	}
	t := Table{
		Title:   "LEDGER " + strings.ToUpper(f.Account.ID),
		Headers: []string{"Date", "Description", "Amount", "Balance", "Flags"},
	}
	for i, e := range f.Entries {
		if i == MaxLedgerRows {
			t.Rows = append(t.Rows, []string{"…", fmt.Sprintf("%d more", len(f.Entries)-MaxLedgerRows), "", "", ""})
			break
		}
		tx := e.Transaction
		t.Rows = append(t.Rows, []string{
			formatDate(tx.Date),
			tx.Description,
			FormatCurrency(tx.Amount),
			FormatCurrency(e.Balance),
			transactionFlags(tx),
		})
	}
	fmt.Fprint(buf, RenderTable(t))
	if f.Truncated {
		fmt.Fprintln(buf, warnStyle.Render("  occurrence generation was truncated for this account"))
	}
	fmt.Fprintln(buf)
}

func transactionFlags(tx domain.ProjectedTransaction) string {
	var flags []string
	if tx.IsScenarioAdjustment {
		flags = append(flags, "scenario")
	}
	if tx.ModifiedByScenario {
		flags = append(flags, "modified")
	}
	return strings.Join(flags, ",")
}

func writePayoff(buf *bytes.Buffer, p domain.PayoffResult) {
	fmt.Fprintln(buf, headerStyle.Render(fmt.Sprintf("  PAYOFF PLAN %s (%s)", strings.ToUpper(p.Plan.Name), p.Plan.Strategy)))
	fmt.Fprintln(buf, RenderKeyValue("Status", string(p.Summary.Status)))
	fmt.Fprintln(buf, RenderKeyValue("Months", intToString(p.Summary.MonthsToPayoff)))
	fmt.Fprintln(buf, RenderKeyValue("Payoff date", formatOptionalDate(p.Summary.PayoffDate)))
	fmt.Fprintln(buf, RenderKeyValue("Total interest", FormatCurrency(p.Summary.TotalInterest)))
	fmt.Fprintln(buf, RenderKeyValue("Total paid", FormatCurrency(p.Summary.TotalPaid)))

	names := make(map[string]string, len(p.Plan.Debts))
	for _, d := range p.Plan.Debts {
		names[d.AccountID] = d.Label()
	}
	t := Table{Headers: []string{"Debt", "Paid Off", "Interest", "Paid"}}
	for _, d := range p.Summary.Debts {
		month := "never"
		if d.PayoffMonth > 0 {
			month = "month " + intToString(d.PayoffMonth)
		}
		label := names[d.AccountID]
		if label == "" {
			label = d.AccountID
		}
		t.Rows = append(t.Rows, []string{label, month, FormatCurrency(d.TotalInterest), FormatCurrency(d.TotalPaid)})
	}
	fmt.Fprint(buf, RenderTable(t))
	fmt.Fprintln(buf)
}

func writeComparison(buf *bytes.Buffer, cmp domain.StrategyComparison) {
	t := Table{
		Title:   "STRATEGY COMPARISON " + strings.ToUpper(cmp.PlanName),
		Headers: []string{"Strategy", "Status", "Months", "Interest", "Paid"},
	}
	for _, o := range cmp.Outcomes {
		name := string(o.Strategy)
		if o.Strategy == cmp.Best {
			name += " *"
		}
		t.Rows = append(t.Rows, []string{
			name,
			string(o.Summary.Status),
			intToString(o.Summary.MonthsToPayoff),
			FormatCurrency(o.Summary.TotalInterest),
			FormatCurrency(o.Summary.TotalPaid),
		})
	}
	fmt.Fprint(buf, RenderTable(t))
	fmt.Fprintln(buf)
}

func writeSearches(buf *bytes.Buffer, searches []domain.ExtraPaymentSearch) {
	t := Table{
		Title:   "EXTRA PAYMENT TARGETS",
		Headers: []string{"Plan", "Target", "Extra / Month", "Months", "Converged"},
	}
	for _, s := range searches {
		months := "-"
		if s.Result != nil {
			months = intToString(s.Result.Summary.MonthsToPayoff)
		}
		t.Rows = append(t.Rows, []string{
			s.PlanName,
			intToString(s.TargetMonths),
			FormatCurrency(s.ExtraPayment),
			months,
			boolToString(s.Converged),
		})
	}
	fmt.Fprint(buf, RenderTable(t))
	fmt.Fprintln(buf)
}
