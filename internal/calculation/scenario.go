package calculation

import (
	"fmt"
	"sort"
	"time"

	"github.com/rpgo/budgetcast/internal/domain"
	"github.com/rpgo/budgetcast/pkg/dateutil"
)

// adjustmentHandler expands one adjustment into generated transactions.
type adjustmentHandler func(adj domain.ScenarioAdjustment, window domain.Window) ([]domain.ProjectedTransaction, bool, error)

// adjustmentHandlers has exactly one entry per domain.AdjustmentTypes member.
var adjustmentHandlers = map[domain.AdjustmentType]adjustmentHandler{
	domain.AdjustmentOneTimeExpense:      expandOneTime,
	domain.AdjustmentRecurringExpense:    expandRecurringAdjustment,
	domain.AdjustmentDebtPaydown:         expandRecurringAdjustment,
	domain.AdjustmentSavingsContribution: expandRecurringAdjustment,
	domain.AdjustmentModifyExisting:      checkModifyExisting,
}

// ProjectScenario overlays adjustments on base and returns the merged list ordered
// by date. Base rows precede generated rows on the same date. Neither input is modified.
func ProjectScenario(base []domain.ProjectedTransaction, adjustments []domain.ScenarioAdjustment, window domain.Window) ([]domain.ProjectedTransaction, error) {
	merged, _, err := projectScenario(base, adjustments, window)
	return merged, err
}

func projectScenario(base []domain.ProjectedTransaction, adjustments []domain.ScenarioAdjustment, window domain.Window) ([]domain.ProjectedTransaction, bool, error) {
	window = domain.Window{Start: dateutil.DateOnly(window.Start), End: dateutil.DateOnly(window.End)}
	if window.End.Before(window.Start) {
		return nil, false, &domain.EmptyWindowError{Start: window.Start, End: window.End}
	}

	var generated []domain.ProjectedTransaction
	truncated := false
	for _, adj := range adjustments {
		handler, ok := adjustmentHandlers[adj.Type]
		if !ok {
			return nil, false, &domain.InvalidAdjustmentError{AdjustmentID: adj.ID, Type: adj.Type, Reason: "unknown adjustment type"}
		}
		txs, trunc, err := handler(adj, window)
		if err != nil {
			return nil, false, fmt.Errorf("adjustment %q: %w", adj.ID, err)
		}
		truncated = truncated || trunc
		generated = append(generated, txs...)
	}

	merged := make([]domain.ProjectedTransaction, 0, len(base)+len(generated))
	merged = append(merged, base...)
	merged = append(merged, generated...)
	sortByDate(merged)
	return merged, truncated, nil
}

// ApplyModifications applies every modify_existing adjustment to the transactions
// expanded from its target template, within the adjustment's own date range.
// It returns a modified copy and the number of mutations made.
func ApplyModifications(txs []domain.ProjectedTransaction, adjustments []domain.ScenarioAdjustment) ([]domain.ProjectedTransaction, int, error) {
	out := append([]domain.ProjectedTransaction(nil), txs...)
	mutations := 0
	for _, adj := range adjustments {
		if adj.Type != domain.AdjustmentModifyExisting {
			continue
		}
		if _, _, err := checkModifyExisting(adj, domain.Window{}); err != nil {
			return nil, 0, fmt.Errorf("adjustment %q: %w", adj.ID, err)
		}
		from := dateutil.DateOnly(adj.Recurrence.StartDate)
		for i := range out {
			tx := &out[i]
			if tx.TemplateID != adj.TargetTemplateID {
				continue
			}
			if !from.IsZero() && tx.Date.Before(from) {
				continue
			}
			if adj.Recurrence.EndDate != nil && tx.Date.After(dateutil.DateOnly(*adj.Recurrence.EndDate)) {
				continue
			}
			tx.Amount += adj.Amount
			tx.ModifiedByScenario = true
			mutations++
		}
	}
	return out, mutations, nil
}

func adjustmentTransaction(adj domain.ScenarioAdjustment, date time.Time) domain.ProjectedTransaction {
	desc := adj.Description
	if desc == "" {
		desc = string(adj.Type)
	}
	return domain.ProjectedTransaction{
		Date:                 date,
		Amount:               adj.Amount,
		Description:          desc,
		AccountID:            adj.AccountID,
		Category:             string(adj.Type),
		IsProjected:          true,
		IsScenarioAdjustment: true,
		AdjustmentID:         adj.ID,
	}
}

// expandOneTime emits a single row on the start date, or nothing when it falls outside the window.
func expandOneTime(adj domain.ScenarioAdjustment, window domain.Window) ([]domain.ProjectedTransaction, bool, error) {
	date := dateutil.DateOnly(adj.Recurrence.StartDate)
	if date.IsZero() {
		return nil, false, &domain.InvalidAdjustmentError{AdjustmentID: adj.ID, Type: adj.Type, Reason: "start_date is required"}
	}
	if !window.Contains(date) {
		return nil, false, nil
	}
	return []domain.ProjectedTransaction{adjustmentTransaction(adj, date)}, false, nil
}

func expandRecurringAdjustment(adj domain.ScenarioAdjustment, window domain.Window) ([]domain.ProjectedTransaction, bool, error) {
	rule := adj.Recurrence
	if err := rule.Validate(); err != nil {
		return nil, false, err
	}

	start := dateutil.MaxDate(window.Start, dateutil.DateOnly(rule.StartDate))
	end := dateutil.MinDate(window.End, rule.Until(window.End))
	if end.Before(start) {
		return nil, false, nil
	}

	var dates []time.Time
	var truncated bool
	if rule.Frequency.Effective() == domain.FrequencyMonthly && rule.DayOfMonth != nil {
		dates, truncated = monthlyAdjustmentDates(start, end, *rule.DayOfMonth)
	} else {
		set, err := Occurrences(rule, start, end)
		if err != nil {
			return nil, false, err
		}
		dates, truncated = set.Dates, set.Truncated
	}

	txs := make([]domain.ProjectedTransaction, 0, len(dates))
	for _, d := range dates {
		txs = append(txs, adjustmentTransaction(adj, d))
	}
	return txs, truncated, nil
}

// monthlyAdjustmentDates seeks the first day-of-month occurrence on or after start,
// then steps one calendar month from each previous occurrence. A date clamped to a
// short month carries its clamped day forward, so a day-31 adjustment settles on
// the 28th after February. The drift is deliberate: adjustments keep this walk,
// while recurring templates re-clamp each month from their rule start.
func monthlyAdjustmentDates(start, end time.Time, day int) ([]time.Time, bool) {
	month := start.Month()
	if start.Day() > day {
		month++
	}
	var dates []time.Time
	for d := dateutil.ClampedDate(start.Year(), month, day); !d.After(end); d = dateutil.AddMonths(d, 1) {
		if len(dates) >= MaxOccurrenceIterations {
			return dates, true
		}
		dates = append(dates, d)
	}
	return dates, false
}

// checkModifyExisting validates a modify_existing adjustment. It never generates rows;
// ApplyModifications performs the mutation.
func checkModifyExisting(adj domain.ScenarioAdjustment, _ domain.Window) ([]domain.ProjectedTransaction, bool, error) {
	if adj.TargetTemplateID == "" {
		return nil, false, &domain.InvalidAdjustmentError{AdjustmentID: adj.ID, Type: adj.Type, Reason: "target_template_id is required"}
	}
	return nil, false, nil
}

// byISODate orders transactions by the YYYY-MM-DD string of their date.
type byISODate struct {
	txs  []domain.ProjectedTransaction
	keys []string
}

func (b byISODate) Len() int           { return len(b.txs) }
func (b byISODate) Less(i, j int) bool { return b.keys[i] < b.keys[j] }
func (b byISODate) Swap(i, j int) {
	b.txs[i], b.txs[j] = b.txs[j], b.txs[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}

func sortByDate(txs []domain.ProjectedTransaction) {
	keys := make([]string, len(txs))
	for i, tx := range txs {
		keys[i] = dateutil.FormatDate(tx.Date)
	}
	sort.Stable(byISODate{txs: txs, keys: keys})
}
