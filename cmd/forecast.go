package cmd

import (
	"fmt"

	"github.com/rpgo/budgetcast/internal/calculation"
	"github.com/rpgo/budgetcast/internal/domain"
	"github.com/spf13/cobra"
)

var (
	flagScenario   string
	flagDays       int
	flagWithPayoff string
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project account balances over a window",
	Long: "Expands every recurring template over the window, applies the selected scenario\n" +
		"and reports running balances, lows and totals per account.",
	RunE: runForecast,
}

func init() {
	forecastCmd.Flags().StringVarP(&flagScenario, "scenario", "s", "", "Scenario id or name to overlay")
	forecastCmd.Flags().IntVarP(&flagDays, "days", "d", 0, "Window length in days (default from settings)")
	forecastCmd.Flags().StringVar(&flagWithPayoff, "with-payoff", "", "Include this payoff plan's payments in the forecast")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, _ []string) error {
	doc, err := loadDocument()
	if err != nil {
		return err
	}
	asOf, err := parseAsOf()
	if err != nil {
		return err
	}

	engine, _, closeCache := newEngine()
	defer closeCache()

	start := calculation.ResolveAsOf(Clock, asOf, doc.AsOf)
	days := flagDays
	if days <= 0 {
		days = settings.General.DefaultDays
	}
	if days <= 0 {
		days = calculation.DefaultForecastDays
	}

	report, err := engine.BuildReport(cmd.Context(), doc, calculation.ReportOptions{
		AsOf:        start,
		Window:      domain.Window{Start: start, End: start.AddDate(0, 0, days)},
		ScenarioKey: flagScenario,
		Forecast:    true,
		PaydownPlan: flagWithPayoff,
	})
	if err != nil {
		return fmt.Errorf("forecast failed: %w", err)
	}
	return writeReport(cmd, report)
}
