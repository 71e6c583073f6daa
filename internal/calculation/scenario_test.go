package calculation

import (
	"errors"
	"testing"
	"time"

	"github.com/rpgo/budgetcast/internal/domain"
	"github.com/rpgo/budgetcast/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dates(txs []domain.ProjectedTransaction) []time.Time {
	out := make([]time.Time, 0, len(txs))
	for _, tx := range txs {
		out = append(out, tx.Date)
	}
	return out
}

func TestAdjustmentHandlersCoverEveryType(t *testing.T) {
	assert.Len(t, adjustmentHandlers, len(domain.AdjustmentTypes))
	for _, typ := range domain.AdjustmentTypes {
		_, ok := adjustmentHandlers[typ]
		assert.True(t, ok, "no handler for %s", typ)
	}
}

func TestProjectScenario_OneTimeExpense(t *testing.T) {
	window := domain.Window{Start: d(2025, 1, 1), End: d(2025, 2, 1)}
	adj := domain.ScenarioAdjustment{
		ID:         "vet",
		AccountID:  "checking",
		Type:       domain.AdjustmentOneTimeExpense,
		Amount:     -50000,
		Recurrence: domain.RecurrenceRule{StartDate: d(2025, 1, 15)},
	}

	got, err := ProjectScenario(nil, []domain.ScenarioAdjustment{adj}, window)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, d(2025, 1, 15), got[0].Date)
	assert.Equal(t, money.Cents(-50000), got[0].Amount)
	assert.True(t, got[0].IsScenarioAdjustment)
	assert.True(t, got[0].IsProjected)
	assert.Equal(t, "vet", got[0].AdjustmentID)

	adj.Recurrence.StartDate = d(2025, 2, 2)
	got, err = ProjectScenario(nil, []domain.ScenarioAdjustment{adj}, window)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProjectScenario_RecurringAdjustments(t *testing.T) {
	tests := []struct {
		name     string
		adj      domain.ScenarioAdjustment
		window   domain.Window
		expected []time.Time
	}{
		{
			name: "monthly on the first",
			adj: domain.ScenarioAdjustment{
				Type:       domain.AdjustmentRecurringExpense,
				Amount:     -100000,
				Recurrence: domain.RecurrenceRule{Frequency: domain.FrequencyMonthly, DayOfMonth: domain.IntPtr(1), StartDate: d(2025, 1, 1)},
			},
			window:   domain.Window{Start: d(2025, 1, 1), End: d(2025, 4, 1)},
			expected: []time.Time{d(2025, 1, 1), d(2025, 2, 1), d(2025, 3, 1), d(2025, 4, 1)},
		},
		{
			name: "seeks to next month when start day has passed",
			adj: domain.ScenarioAdjustment{
				Type:       domain.AdjustmentSavingsContribution,
				Amount:     -20000,
				Recurrence: domain.RecurrenceRule{Frequency: domain.FrequencyMonthly, DayOfMonth: domain.IntPtr(15), StartDate: d(2025, 1, 20)},
			},
			window:   domain.Window{Start: d(2025, 1, 1), End: d(2025, 3, 31)},
			expected: []time.Time{d(2025, 2, 15), d(2025, 3, 15)},
		},
		{
			name: "clamped date carries forward from previous occurrence",
			adj: domain.ScenarioAdjustment{
				Type:       domain.AdjustmentDebtPaydown,
				Amount:     -30000,
				Recurrence: domain.RecurrenceRule{Frequency: domain.FrequencyMonthly, DayOfMonth: domain.IntPtr(31), StartDate: d(2025, 1, 1)},
			},
			window:   domain.Window{Start: d(2025, 1, 1), End: d(2025, 4, 30)},
			expected: []time.Time{d(2025, 1, 31), d(2025, 2, 28), d(2025, 3, 28), d(2025, 4, 28)},
		},
		{
			name: "weekly uses the recurrence calculator",
			adj: domain.ScenarioAdjustment{
				Type:       domain.AdjustmentSavingsContribution,
				Amount:     -5000,
				Recurrence: domain.RecurrenceRule{Frequency: domain.FrequencyWeekly, DayOfWeek: domain.IntPtr(1), StartDate: d(2025, 1, 1)},
			},
			window:   domain.Window{Start: d(2025, 1, 1), End: d(2025, 1, 31)},
			expected: []time.Time{d(2025, 1, 6), d(2025, 1, 13), d(2025, 1, 20), d(2025, 1, 27)},
		},
		{
			name: "range ending before window yields nothing",
			adj: domain.ScenarioAdjustment{
				Type:       domain.AdjustmentRecurringExpense,
				Amount:     -100,
				Recurrence: domain.RecurrenceRule{Frequency: domain.FrequencyMonthly, DayOfMonth: domain.IntPtr(1), StartDate: d(2024, 1, 1), EndDate: datePtr(d(2024, 12, 31))},
			},
			window:   domain.Window{Start: d(2025, 1, 1), End: d(2025, 6, 30)},
			expected: []time.Time{},
		},
		{
			name: "adjustment end date clips the window",
			adj: domain.ScenarioAdjustment{
				Type:       domain.AdjustmentRecurringExpense,
				Amount:     -100,
				Recurrence: domain.RecurrenceRule{Frequency: domain.FrequencyMonthly, DayOfMonth: domain.IntPtr(10), StartDate: d(2025, 1, 1), EndDate: datePtr(d(2025, 2, 10))},
			},
			window:   domain.Window{Start: d(2025, 1, 1), End: d(2025, 6, 30)},
			expected: []time.Time{d(2025, 1, 10), d(2025, 2, 10)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ProjectScenario(nil, []domain.ScenarioAdjustment{tt.adj}, tt.window)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, dates(got))
			for _, tx := range got {
				assert.Equal(t, tt.adj.Amount, tx.Amount)
				assert.Equal(t, string(tt.adj.Type), tx.Category)
			}
		})
	}
}

func TestProjectScenario_OrderingAndTies(t *testing.T) {
	base := []domain.ProjectedTransaction{
		{Date: d(2025, 1, 20), Description: "late base", IsProjected: true},
		{Date: d(2025, 1, 15), Description: "base", IsProjected: true},
	}
	adjustments := []domain.ScenarioAdjustment{
		{ID: "a", Type: domain.AdjustmentOneTimeExpense, Description: "scenario", Amount: -100, Recurrence: domain.RecurrenceRule{StartDate: d(2025, 1, 15)}},
		{ID: "b", Type: domain.AdjustmentOneTimeExpense, Description: "earliest", Amount: -100, Recurrence: domain.RecurrenceRule{StartDate: d(2025, 1, 2)}},
	}

	got, err := ProjectScenario(base, adjustments, domain.Window{Start: d(2025, 1, 1), End: d(2025, 1, 31)})
	require.NoError(t, err)

	var order []string
	for _, tx := range got {
		order = append(order, tx.Description)
	}
	assert.Equal(t, []string{"earliest", "base", "scenario", "late base"}, order)
}

func TestProjectScenario_Idempotent(t *testing.T) {
	window := domain.Window{Start: d(2025, 1, 1), End: d(2025, 6, 30)}
	base, err := ExpandRecurring(rentTemplate(), window)
	require.NoError(t, err)
	snapshot := append([]domain.ProjectedTransaction(nil), base...)

	adjustments := []domain.ScenarioAdjustment{
		{ID: "gym", Type: domain.AdjustmentRecurringExpense, Amount: -4000, Recurrence: domain.RecurrenceRule{Frequency: domain.FrequencyMonthly, DayOfMonth: domain.IntPtr(1), StartDate: d(2025, 1, 1)}},
		{ID: "trip", Type: domain.AdjustmentOneTimeExpense, Amount: -120000, Recurrence: domain.RecurrenceRule{StartDate: d(2025, 3, 3)}},
	}

	first, err := ProjectScenario(base, adjustments, window)
	require.NoError(t, err)
	second, err := ProjectScenario(base, adjustments, window)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, base, "base must not be mutated")
	assert.Len(t, first, 6+6+1)
}

func TestProjectScenario_Errors(t *testing.T) {
	window := domain.Window{Start: d(2025, 1, 1), End: d(2025, 1, 31)}

	_, err := ProjectScenario(nil, []domain.ScenarioAdjustment{{ID: "x", Type: "lottery_win"}}, window)
	var invalid *domain.InvalidAdjustmentError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "x", invalid.AdjustmentID)

	_, err = ProjectScenario(nil, []domain.ScenarioAdjustment{{ID: "m", Type: domain.AdjustmentModifyExisting}}, window)
	assert.True(t, errors.As(err, &invalid))

	_, err = ProjectScenario(nil, []domain.ScenarioAdjustment{{ID: "o", Type: domain.AdjustmentOneTimeExpense}}, window)
	assert.True(t, errors.As(err, &invalid))

	_, err = ProjectScenario(nil, nil, domain.Window{Start: d(2025, 2, 1), End: d(2025, 1, 1)})
	var empty *domain.EmptyWindowError
	assert.True(t, errors.As(err, &empty))
}

func TestModifyExisting_NoMatch(t *testing.T) {
	window := domain.Window{Start: d(2025, 1, 1), End: d(2025, 3, 31)}
	base, err := ExpandRecurring(rentTemplate(), window)
	require.NoError(t, err)

	adjustments := []domain.ScenarioAdjustment{{
		ID:               "raise",
		Type:             domain.AdjustmentModifyExisting,
		Amount:           -10000,
		TargetTemplateID: "does-not-exist",
		Recurrence:       domain.RecurrenceRule{StartDate: d(2025, 1, 1)},
	}}

	merged, err := ProjectScenario(base, adjustments, window)
	require.NoError(t, err)
	assert.Len(t, merged, len(base))

	modified, mutations, err := ApplyModifications(merged, adjustments)
	require.NoError(t, err)
	assert.Equal(t, 0, mutations)
	assert.Equal(t, merged, modified)
}

func TestModifyExisting_AppliesWithinRange(t *testing.T) {
	window := domain.Window{Start: d(2025, 1, 1), End: d(2025, 6, 30)}
	base, err := ExpandRecurring(rentTemplate(), window)
	require.NoError(t, err)

	adjustments := []domain.ScenarioAdjustment{{
		ID:               "rent-increase",
		Type:             domain.AdjustmentModifyExisting,
		Amount:           -10000,
		TargetTemplateID: "rent",
		Recurrence:       domain.RecurrenceRule{StartDate: d(2025, 3, 1), EndDate: datePtr(d(2025, 5, 31))},
	}}

	modified, mutations, err := ApplyModifications(base, adjustments)
	require.NoError(t, err)
	assert.Equal(t, 3, mutations)

	for i, tx := range modified {
		inRange := !tx.Date.Before(d(2025, 3, 1)) && !tx.Date.After(d(2025, 5, 31))
		assert.Equal(t, inRange, tx.ModifiedByScenario, "row %d", i)
		if inRange {
			assert.Equal(t, money.Cents(-160000), tx.Amount)
		} else {
			assert.Equal(t, money.Cents(-150000), tx.Amount)
		}
		assert.False(t, base[i].ModifiedByScenario, "input must not be mutated")
	}
}
