package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/budgetcast/internal/domain"
)

// CSVDetailedExporter provides every ledger row and every payoff month.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(report *domain.Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Kind", "Subject", "Account", "Date", "Month", "Description", "Category", "Amount", "Balance", "Interest", "ScenarioAdjustment", "Modified", "Source"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, f := range report.Forecasts {
		for _, e := range f.Entries {
			tx := e.Transaction
			source := tx.TemplateID
			if tx.AdjustmentID != "" {
				source = tx.AdjustmentID
			}
			row := []string{
				"ledger",
				f.Account.ID,
				tx.AccountID,
				formatDate(tx.Date),
				"",
				tx.Description,
				tx.Category,
				tx.Amount.String(),
				e.Balance.String(),
				"",
				boolToString(tx.IsScenarioAdjustment),
				boolToString(tx.ModifiedByScenario),
				source,
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	for _, p := range report.Payoffs {
		for _, snap := range p.Snapshots {
			for _, d := range snap.Debts {
				row := []string{
					"payoff",
					p.Plan.Name,
					d.AccountID,
					formatDate(snap.Date),
					intToString(snap.MonthIndex),
					"",
					"",
					d.Payment.String(),
					d.RemainingBalance.String(),
					d.InterestAccrued.String(),
					"",
					"",
					string(p.Plan.Strategy),
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
