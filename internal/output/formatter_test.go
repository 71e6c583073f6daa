package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rpgo/budgetcast/internal/calculation"
	"github.com/rpgo/budgetcast/internal/domain"
	"github.com/rpgo/budgetcast/pkg/dateutil"
	"github.com/rpgo/budgetcast/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func buildTestReport(t *testing.T) *domain.Report {
	t.Helper()
	asOf := dateutil.Date(2025, 1, 1)
	forecasts, err := calculation.AssembleForecast(calculation.ForecastRequest{
		AsOf:   asOf,
		Window: domain.Window{Start: asOf, End: dateutil.Date(2025, 2, 28)},
		Accounts: []domain.Account{
			{ID: "checking", Name: "Checking", CurrentBalance: 100000},
			{ID: "savings", Name: "Savings", CurrentBalance: 500000},
		},
		Templates: []domain.RecurringTemplate{
			{
				ID: "rent", AccountID: "checking", Description: "Rent", Category: "Housing", Amount: -150000,
				Recurrence: domain.RecurrenceRule{Frequency: domain.FrequencyMonthly, DayOfMonth: domain.IntPtr(1), StartDate: dateutil.Date(2024, 1, 1)},
			},
			{
				ID: "pay", AccountID: "checking", Description: "Paycheck", Category: "Income", Amount: 200000,
				Recurrence: domain.RecurrenceRule{Frequency: domain.FrequencyMonthly, DayOfMonth: domain.IntPtr(15), StartDate: dateutil.Date(2024, 1, 15)},
			},
		},
		Scenario: &domain.Scenario{
			ID: "trip", Name: "Trip",
			Adjustments: []domain.ScenarioAdjustment{
				{ID: "flights", AccountID: "checking", Type: domain.AdjustmentOneTimeExpense, Amount: -40000, Description: "Flights",
					Recurrence: domain.RecurrenceRule{StartDate: dateutil.Date(2025, 2, 3)}},
			},
		},
	})
	require.NoError(t, err)

	plan := domain.PayoffPlan{
		Name: "cards", Strategy: domain.StrategyAvalanche, MonthlyExtraPayment: 20000, StartDate: asOf,
		Debts: []domain.DebtEntry{
			{AccountID: "visa", Name: "Visa", StartingBalance: 100000, InterestRate: decimal.NewFromInt(20), MinimumPayment: 5000},
			{AccountID: "loan", Name: "Loan", StartingBalance: 200000, InterestRate: decimal.NewFromInt(10), MinimumPayment: 5000},
		},
	}
	payoff, err := calculation.SimulatePayoff(plan)
	require.NoError(t, err)
	cmp, err := calculation.CompareStrategies(plan)
	require.NoError(t, err)
	search, err := calculation.FindExtraPaymentForTarget(plan, 6)
	require.NoError(t, err)

	return &domain.Report{
		AsOf:         asOf,
		ScenarioID:   "trip",
		ScenarioName: "Trip",
		Forecasts:    forecasts,
		Payoffs:      []domain.PayoffResult{*payoff},
		Comparisons:  []domain.StrategyComparison{*cmp},
		Searches:     []domain.ExtraPaymentSearch{*search},
	}
}

func TestGetFormatterByName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"console", "console"},
		{"verbose", "console"},
		{" Console-Verbose ", "console"},
		{"console-lite", "console-lite"},
		{"csv", "csv"},
		{"csv-summary", "csv"},
		{"csv-detailed", "detailed-csv"},
		{"ledger", "detailed-csv"},
		{"JSON", "json"},
		{"yml", "yaml"},
		{"html", "html"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f := GetFormatterByName(tt.input)
			require.NotNil(t, f)
			assert.Equal(t, tt.want, f.Name())
		})
	}
	assert.Nil(t, GetFormatterByName("pdf"))
}

func TestAvailableFormatterNames(t *testing.T) {
	assert.Equal(t, []string{"console", "console-lite", "csv", "detailed-csv", "html", "json", "yaml"}, AvailableFormatterNames())
	assert.Contains(t, AvailableFormatAliases(), "verbose")
}

func TestGenerateReport_Unsupported(t *testing.T) {
	var buf bytes.Buffer
	err := GenerateReport(&buf, &domain.Report{}, "pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.Contains(t, err.Error(), "console-lite")
	assert.Zero(t, buf.Len())
}

func TestConsoleLiteFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)
	content := string(out)

	assert.True(t, strings.HasPrefix(content, "BUDGET FORECAST SUMMARY\n"))
	assert.Contains(t, content, "Scenario: Trip")
	assert.Contains(t, content, "checking: Start=$1,000.00 End=$1,600.00 Low=-$500.00 on 2025-01-01")
	assert.Contains(t, content, "Plan cards (avalanche): paid in")
	assert.Contains(t, content, "Overdraft risk: checking")
	assert.Contains(t, content, "Recommended: cards: pay")
}

func TestConsoleVerboseFormatter(t *testing.T) {
	out, err := ConsoleVerboseFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)
	content := string(out)

	for _, want := range []string{
		"BUDGET FORECAST: TRIP",
		"KEY ASSUMPTIONS",
		"ACCOUNTS",
		"LEDGER CHECKING",
		"Flights",
		"scenario",
		"PAYOFF PLAN CARDS (avalanche)",
		"STRATEGY COMPARISON CARDS",
		"EXTRA PAYMENT TARGETS",
		"RECOMMENDATIONS",
	} {
		assert.Contains(t, content, want)
	}
	// savings has no transactions, so no ledger table
	assert.NotContains(t, content, "LEDGER SAVINGS")
}

func TestCSVSummarizer(t *testing.T) {
	out, err := CSVSummarizer{}.Format(buildTestReport(t))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4, "header, two accounts, one plan")

	assert.Equal(t, "Kind", records[0][0])
	assert.Equal(t, []string{"account", "checking", "trip", "2025-01-01", "2025-02-28", "1000.00", "1600.00", "-500.00", "2025-01-01", "4000.00", "3400.00", "0", "", "", ""}, records[1])
	assert.Equal(t, "savings", records[2][1])
	assert.Equal(t, "payoff", records[3][0])
	assert.Equal(t, "paid", records[3][14])
}

func TestCSVDetailedExporter(t *testing.T) {
	report := buildTestReport(t)
	out, err := CSVDetailedExporter{}.Format(report)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)

	var ledger, payoff int
	for _, r := range records[1:] {
		switch r[0] {
		case "ledger":
			ledger++
		case "payoff":
			payoff++
		}
	}
	assert.Equal(t, len(report.Forecasts[0].Entries), ledger)
	assert.Equal(t, 2*len(report.Payoffs[0].Snapshots), payoff)

	flights := records[4]
	assert.Equal(t, "Flights", flights[5])
	assert.Equal(t, "-400.00", flights[7])
	assert.Equal(t, "true", flights[10])
	assert.Equal(t, "flights", flights[12])
}

func TestJSONFormatter(t *testing.T) {
	report := buildTestReport(t)
	out, err := JSONFormatter{}.Format(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "trip", decoded["scenario_id"])
	forecasts := decoded["forecasts"].([]any)
	require.Len(t, forecasts, 2)
	first := forecasts[0].(map[string]any)
	assert.EqualValues(t, 160000, first["ending_balance_cents"])
}

func TestYAMLFormatter(t *testing.T) {
	out, err := YAMLFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "Trip", decoded["scenario_name"])
	assert.Contains(t, decoded, "payoffs")
	assert.Contains(t, string(out), "ending_balance_cents: 160000")
}

func TestHTMLFormatter(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestReport(t))
	require.NoError(t, err)
	content := string(out)
	assert.True(t, strings.HasPrefix(content, "<!DOCTYPE html>"))
	assert.Contains(t, content, "Budget Forecast: Trip")
	assert.Contains(t, content, `class="num neg"`)
	assert.Contains(t, content, "Payoff plan cards (avalanche)")
}

func TestEmptyReportFormats(t *testing.T) {
	report := &domain.Report{AsOf: dateutil.Date(2025, 1, 1)}
	for _, name := range AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, GenerateReport(&buf, report, name))
			assert.NotZero(t, buf.Len())
		})
	}
}

func TestGenerateReportFile(t *testing.T) {
	dir := t.TempDir()
	report := buildTestReport(t)

	path, err := GenerateReportFile(report, "ledger", filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Kind,Subject"))

	assert.Equal(t, "budgetcast_20250101_trip.csv", DefaultReportFilename(report, "detailed-csv"))
	assert.Equal(t, "budgetcast_20250101_trip.txt", DefaultReportFilename(report, "console"))
	assert.Equal(t, "budgetcast_20250101.json", DefaultReportFilename(&domain.Report{AsOf: report.AsOf}, "json"))
}

func TestAnalyzeReport(t *testing.T) {
	a := AnalyzeReport(buildTestReport(t))
	assert.Equal(t, []string{"checking"}, a.NegativeAccounts)
	assert.Equal(t, "checking", a.TightestAccount)
	assert.Equal(t, money.Cents(-50000), a.TightestBalance)
	assert.Equal(t, dateutil.Date(2025, 1, 1), a.TightestDate)
	assert.Equal(t, money.Cents(60000), a.NetChange)
	assert.Empty(t, a.StalledPlans)
	require.Len(t, a.Recommendations, 2)
	assert.Contains(t, a.Recommendations[1], "within 6 months")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "$1,234.57", FormatCurrency(123457))
	assert.Equal(t, "-$0.05", FormatCurrency(-5))
	assert.Equal(t, "12.35%", FormatPercentage(decimal.NewFromFloat(12.3456)))
	assert.Equal(t, "42", intToString(42))
	assert.Equal(t, "true", boolToString(true))
	assert.Equal(t, "-", formatDate(time.Time{}))
	assert.Equal(t, "-", formatOptionalDate(nil))
}

func TestRenderSparkline(t *testing.T) {
	assert.Equal(t, "", RenderSparkline(nil))
	assert.Equal(t, "▁▁▁", RenderSparkline([]int64{5, 5, 5}))
	assert.Equal(t, "▁█", RenderSparkline([]int64{-100, 100}))
}
