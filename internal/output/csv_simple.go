package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/budgetcast/internal/domain"
)

// CSVSummarizer implements the summary CSV output: one row per account forecast
// followed by one row per payoff plan.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Kind", "ID", "Scenario", "Start", "End", "Opening", "Closing", "Lowest", "LowestDate", "Inflow", "Outflow", "Modified", "Months", "Interest", "Status"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, f := range report.Forecasts {
		row := []string{
			"account",
			f.Account.ID,
			f.ScenarioID,
			formatDate(f.Window.Start),
			formatDate(f.Window.End),
			f.StartingBalance.String(),
			f.EndingBalance.String(),
			f.LowestBalance.String(),
			formatDate(f.LowestBalanceDate),
			f.TotalInflow.String(),
			f.TotalOutflow.String(),
			intToString(f.ModifiedCount),
			"", "", "",
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	for _, p := range report.Payoffs {
		var closing string
		if n := len(p.Snapshots); n > 0 {
			closing = p.Snapshots[n-1].RemainingBalance().String()
		}
		row := []string{
			"payoff",
			p.Plan.Name,
			string(p.Plan.Strategy),
			formatDate(p.Plan.StartDate),
			formatOptionalDate(p.Summary.PayoffDate),
			p.Plan.TotalStartingBalance().String(),
			closing,
			"", "",
			"",
			p.Summary.TotalPaid.String(),
			"",
			intToString(p.Summary.MonthsToPayoff),
			p.Summary.TotalInterest.String(),
			string(p.Summary.Status),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
