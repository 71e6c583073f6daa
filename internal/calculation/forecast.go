package calculation

import (
	"fmt"
	"time"

	"github.com/rpgo/budgetcast/internal/domain"
	"github.com/rpgo/budgetcast/pkg/dateutil"
)

// DefaultForecastDays is the horizon used when a request leaves its window empty.
const DefaultForecastDays = 90

// ForecastRequest carries everything needed to forecast a set of accounts.
type ForecastRequest struct {
	AsOf      time.Time
	Window    domain.Window
	Accounts  []domain.Account
	Templates []domain.RecurringTemplate
	Scenario  *domain.Scenario
	// Extra rows merged with the template expansion, e.g. PaydownTransactions output.
	Extra []domain.ProjectedTransaction
}

// ResolvedWindow returns the request window, defaulting to DefaultForecastDays from AsOf.
func (r ForecastRequest) ResolvedWindow() (domain.Window, error) {
	w := domain.Window{Start: dateutil.DateOnly(r.Window.Start), End: dateutil.DateOnly(r.Window.End)}
	if w.Start.IsZero() {
		if r.AsOf.IsZero() {
			return domain.Window{}, fmt.Errorf("forecast needs a window start or an as-of date")
		}
		w.Start = dateutil.DateOnly(r.AsOf)
	}
	if w.End.IsZero() {
		w.End = w.Start.AddDate(0, 0, DefaultForecastDays)
	}
	if w.End.Before(w.Start) {
		return domain.Window{}, &domain.EmptyWindowError{Start: w.Start, End: w.End}
	}
	return w, nil
}

func (r ForecastRequest) scenarioID() string {
	if r.Scenario == nil {
		return ""
	}
	return r.Scenario.ID
}

// AssembleForecast forecasts every account in the request, in request order.
func AssembleForecast(req ForecastRequest) ([]domain.AccountForecast, error) {
	window, err := req.ResolvedWindow()
	if err != nil {
		return nil, err
	}
	forecasts := make([]domain.AccountForecast, 0, len(req.Accounts))
	for _, acct := range req.Accounts {
		f, err := assembleAccount(req, acct, window)
		if err != nil {
			return nil, fmt.Errorf("forecast for account %q: %w", acct.ID, err)
		}
		forecasts = append(forecasts, *f)
	}
	return forecasts, nil
}

func assembleAccount(req ForecastRequest, acct domain.Account, window domain.Window) (*domain.AccountForecast, error) {
	var base []domain.ProjectedTransaction
	truncated := false
	for _, tmpl := range req.Templates {
		if tmpl.AccountID != acct.ID {
			continue
		}
		txs, trunc, err := expandTemplate(tmpl, window)
		if err != nil {
			return nil, err
		}
		truncated = truncated || trunc
		base = append(base, txs...)
	}
	for _, tx := range req.Extra {
		if tx.AccountID == acct.ID && window.Contains(tx.Date) {
			base = append(base, tx)
		}
	}

	var adjustments, modifications []domain.ScenarioAdjustment
	if req.Scenario != nil {
		adjustments = req.Scenario.AdjustmentsFor(acct.ID)
		for _, adj := range req.Scenario.Adjustments {
			if adj.Type == domain.AdjustmentModifyExisting {
				modifications = append(modifications, adj)
			}
		}
	}

	merged, trunc, err := projectScenario(base, adjustments, window)
	if err != nil {
		return nil, err
	}
	truncated = truncated || trunc

	merged, modified, err := ApplyModifications(merged, modifications)
	if err != nil {
		return nil, err
	}

	f := foldBalances(acct, window, merged)
	f.AsOf = dateutil.DateOnly(req.AsOf)
	f.ScenarioID = req.scenarioID()
	f.ModifiedCount = modified
	f.Truncated = truncated
	return f, nil
}

// foldBalances walks the date-ordered transactions into a running balance and an
// end-of-day series covering every day of window.
func foldBalances(acct domain.Account, window domain.Window, txs []domain.ProjectedTransaction) *domain.AccountForecast {
	f := &domain.AccountForecast{
		Account:         acct,
		Window:          window,
		StartingBalance: acct.CurrentBalance,
		Entries:         make([]domain.LedgerEntry, 0, len(txs)),
	}

	balance := acct.CurrentBalance
	next := 0
	for day := window.Start; !day.After(window.End); day = day.AddDate(0, 0, 1) {
		for next < len(txs) && !txs[next].Date.After(day) {
			tx := txs[next]
			balance += tx.Amount
			if tx.Amount > 0 {
				f.TotalInflow += tx.Amount
			} else {
				f.TotalOutflow -= tx.Amount
			}
			f.Entries = append(f.Entries, domain.LedgerEntry{Transaction: tx, Balance: balance})
			next++
		}
		if len(f.Daily) == 0 || balance < f.LowestBalance {
			f.LowestBalance = balance
			f.LowestBalanceDate = day
		}
		f.Daily = append(f.Daily, domain.DailyBalance{Date: day, Balance: balance})
	}
	f.EndingBalance = balance
	return f
}
