package calculation

import (
	"errors"
	"testing"

	"github.com/rpgo/budgetcast/internal/domain"
	"github.com/rpgo/budgetcast/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func householdRequest() ForecastRequest {
	paycheck := domain.RecurringTemplate{
		ID:          "paycheck",
		AccountID:   "checking",
		Description: "Paycheck",
		Category:    "Income",
		Amount:      200000,
		Recurrence: domain.RecurrenceRule{
			Frequency:  domain.FrequencyMonthly,
			DayOfMonth: domain.IntPtr(15),
			StartDate:  d(2024, 1, 15),
		},
	}
	return ForecastRequest{
		AsOf:   d(2025, 1, 1),
		Window: domain.Window{Start: d(2025, 1, 1), End: d(2025, 3, 31)},
		Accounts: []domain.Account{
			{ID: "checking", Name: "Checking", CurrentBalance: 250000},
			{ID: "savings", Name: "Savings", CurrentBalance: 1000000},
		},
		Templates: []domain.RecurringTemplate{rentTemplate(), paycheck},
	}
}

func TestAssembleForecast_Baseline(t *testing.T) {
	forecasts, err := AssembleForecast(householdRequest())
	require.NoError(t, err)
	require.Len(t, forecasts, 2)

	checking := forecasts[0]
	assert.Equal(t, "checking", checking.Account.ID)
	assert.Equal(t, money.Cents(250000), checking.StartingBalance)
	assert.Equal(t, money.Cents(400000), checking.EndingBalance)
	assert.Equal(t, money.Cents(100000), checking.LowestBalance)
	assert.Equal(t, d(2025, 1, 1), checking.LowestBalanceDate)
	assert.Equal(t, money.Cents(600000), checking.TotalInflow)
	assert.Equal(t, money.Cents(450000), checking.TotalOutflow)
	assert.Equal(t, 0, checking.ModifiedCount)
	assert.False(t, checking.GoesNegative())

	var balances []money.Cents
	for _, e := range checking.Entries {
		balances = append(balances, e.Balance)
	}
	assert.Equal(t, []money.Cents{100000, 300000, 150000, 350000, 200000, 400000}, balances)

	require.Len(t, checking.Daily, 90)
	assert.Equal(t, d(2025, 1, 1), checking.Daily[0].Date)
	assert.Equal(t, money.Cents(100000), checking.Daily[0].Balance)
	assert.Equal(t, money.Cents(100000), checking.Daily[13].Balance)
	assert.Equal(t, money.Cents(300000), checking.Daily[14].Balance)
	assert.Equal(t, d(2025, 3, 31), checking.Daily[89].Date)

	savings := forecasts[1]
	assert.Empty(t, savings.Entries)
	assert.Equal(t, money.Cents(1000000), savings.EndingBalance)
	assert.Equal(t, money.Cents(1000000), savings.LowestBalance)
}

func TestAssembleForecast_WithScenario(t *testing.T) {
	req := householdRequest()
	req.Scenario = &domain.Scenario{
		ID:   "car",
		Name: "Car repair",
		Adjustments: []domain.ScenarioAdjustment{
			{ID: "repair", AccountID: "checking", Type: domain.AdjustmentOneTimeExpense, Amount: -300000, Recurrence: domain.RecurrenceRule{StartDate: d(2025, 2, 10)}},
			{ID: "rent-up", AccountID: "checking", Type: domain.AdjustmentModifyExisting, Amount: -10000, TargetTemplateID: "rent", Recurrence: domain.RecurrenceRule{StartDate: d(2025, 3, 1)}},
		},
	}

	forecasts, err := AssembleForecast(req)
	require.NoError(t, err)
	checking := forecasts[0]

	assert.Equal(t, "car", checking.ScenarioID)
	assert.Equal(t, 1, checking.ModifiedCount)
	assert.Equal(t, money.Cents(90000), checking.EndingBalance)
	assert.Equal(t, money.Cents(-150000), checking.LowestBalance)
	assert.Equal(t, d(2025, 2, 10), checking.LowestBalanceDate)
	assert.True(t, checking.GoesNegative())

	require.Len(t, checking.Entries, 7)
	repair := checking.Entries[3].Transaction
	assert.Equal(t, "repair", repair.AdjustmentID)
	assert.True(t, repair.IsScenarioAdjustment)
	march := checking.Entries[5].Transaction
	assert.Equal(t, money.Cents(-160000), march.Amount)
	assert.True(t, march.ModifiedByScenario)

	// the other account is untouched
	assert.Empty(t, forecasts[1].Entries)
}

func TestAssembleForecast_DefaultWindow(t *testing.T) {
	req := householdRequest()
	req.Window = domain.Window{}

	forecasts, err := AssembleForecast(req)
	require.NoError(t, err)
	w := forecasts[0].Window
	assert.Equal(t, d(2025, 1, 1), w.Start)
	assert.Equal(t, d(2025, 4, 1), w.End)
	assert.Len(t, forecasts[0].Daily, DefaultForecastDays+1)
}

func TestAssembleForecast_ExtraTransactions(t *testing.T) {
	req := householdRequest()
	req.Extra = []domain.ProjectedTransaction{
		{Date: d(2025, 1, 20), Amount: -25000, AccountID: "checking", IsProjected: true},
		{Date: d(2025, 6, 20), Amount: -25000, AccountID: "checking", IsProjected: true},
		{Date: d(2025, 1, 20), Amount: 25000, AccountID: "visa", IsProjected: true},
	}

	forecasts, err := AssembleForecast(req)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(375000), forecasts[0].EndingBalance)
	assert.Len(t, forecasts[0].Entries, 7)
}

func TestAssembleForecast_Errors(t *testing.T) {
	req := householdRequest()
	req.Templates[0].Recurrence.DayOfMonth = domain.IntPtr(40)
	_, err := AssembleForecast(req)
	var invalid *domain.InvalidRecurrenceError
	require.True(t, errors.As(err, &invalid))
	assert.Contains(t, err.Error(), `account "checking"`)

	req = householdRequest()
	req.Window = domain.Window{Start: d(2025, 2, 1), End: d(2025, 1, 1)}
	_, err = AssembleForecast(req)
	var empty *domain.EmptyWindowError
	assert.True(t, errors.As(err, &empty))

	_, err = ForecastRequest{}.ResolvedWindow()
	assert.Error(t, err)
}
