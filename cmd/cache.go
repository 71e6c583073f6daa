package cmd

import (
	"fmt"

	"github.com/rpgo/budgetcast/internal/output"
	"github.com/rpgo/budgetcast/internal/store"
	"github.com/rpgo/budgetcast/pkg/dateutil"
	"github.com/spf13/cobra"
)

var (
	flagAccount string
	flagRunPlan string
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the forecast cache and payoff history",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache location and size",
	RunE:  runCacheStatus,
}

var cacheInvalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Drop cached forecasts for one account",
	RunE:  runCacheInvalidate,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached forecast",
	RunE:  runCacheClear,
}

var cacheRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List saved payoff runs",
	RunE:  runCacheRuns,
}

func init() {
	cacheInvalidateCmd.Flags().StringVar(&flagAccount, "account", "", "Account id")
	_ = cacheInvalidateCmd.MarkFlagRequired("account")
	cacheRunsCmd.Flags().StringVar(&flagRunPlan, "plan", "", "Only runs for this plan")

	cacheCmd.AddCommand(cacheStatusCmd, cacheInvalidateCmd, cacheClearCmd, cacheRunsCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openStore() (*store.Store, error) {
	st, err := store.Open(settings.CachePath())
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return st, nil
}

func runCacheStatus(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	n, err := st.CachedCount()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  Cache file: %s\n", settings.CachePath())
	fmt.Fprintf(out, "  Enabled:    %v\n", settings.Cache.Enabled)
	fmt.Fprintf(out, "  Forecasts:  %d\n", n)
	return nil
}

func runCacheInvalidate(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.Invalidate(flagAccount); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Cached forecasts for %s dropped\n", flagAccount)
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "  Forecast cache cleared")
	return nil
}

func runCacheRuns(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	runs, err := st.ListPayoffRuns(flagRunPlan)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "  No saved payoff runs.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		payoff := "-"
		if r.PayoffDate != nil {
			payoff = dateutil.FormatDate(*r.PayoffDate)
		}
		rows = append(rows, []string{
			r.ID[:8],
			r.PlanName,
			string(r.Strategy),
			string(r.Status),
			fmt.Sprintf("%d", r.Months),
			output.FormatCurrency(r.TotalInterest),
			payoff,
			r.SavedAt.Format("2006-01-02 15:04"),
		})
	}
	fmt.Fprintln(out, output.RenderTable(output.Table{
		Title:   "PAYOFF HISTORY",
		Headers: []string{"Run", "Plan", "Strategy", "Status", "Months", "Interest", "Paid Off", "Saved"},
		Rows:    rows,
	}))
	return nil
}
