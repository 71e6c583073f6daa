package cmd

import (
	"fmt"

	"github.com/rpgo/budgetcast/internal/calculation"
	"github.com/rpgo/budgetcast/internal/domain"
	"github.com/spf13/cobra"
)

var (
	flagPlans        string
	flagCompare      bool
	flagTargetMonths int
	flagSave         bool
)

var payoffCmd = &cobra.Command{
	Use:   "payoff",
	Short: "Simulate debt payoff plans",
	RunE:  runPayoff,
}

func init() {
	payoffCmd.Flags().StringVarP(&flagPlans, "plan", "p", "", "Comma-separated plan names (default: every plan)")
	payoffCmd.Flags().BoolVar(&flagCompare, "compare", false, "Compare avalanche and snowball for each plan")
	payoffCmd.Flags().IntVar(&flagTargetMonths, "target-months", 0, "Find the extra monthly payment that finishes within N months")
	payoffCmd.Flags().BoolVar(&flagSave, "save", false, "Record the simulation in the payoff history")
	rootCmd.AddCommand(payoffCmd)
}

func runPayoff(cmd *cobra.Command, _ []string) error {
	doc, err := loadDocument()
	if err != nil {
		return err
	}
	if len(doc.PayoffPlans) == 0 {
		return fmt.Errorf("document has no payoff_plans")
	}
	asOf, err := parseAsOf()
	if err != nil {
		return err
	}

	engine, st, closeCache := newEngine()
	defer closeCache()

	report, err := engine.BuildReport(cmd.Context(), doc, calculation.ReportOptions{
		AsOf:         asOf,
		Plans:        splitList(flagPlans),
		Payoff:       true,
		Compare:      flagCompare,
		TargetMonths: flagTargetMonths,
	})
	if err != nil {
		return fmt.Errorf("payoff failed: %w", err)
	}

	if flagSave {
		if st == nil {
			return fmt.Errorf("--save needs the cache database; drop --no-cache or enable [cache]")
		}
		for i := range report.Payoffs {
			id, err := st.SavePayoffRun(&report.Payoffs[i])
			if err != nil {
				return fmt.Errorf("saving payoff run: %w", err)
			}
			logger.Sugar().Infof("saved payoff run %s for plan %q", id, report.Payoffs[i].Plan.Name)
		}
	}

	if err := writeReport(cmd, report); err != nil {
		return err
	}
	for _, p := range report.Payoffs {
		if p.Summary.Status == domain.PayoffStalled {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: plan %q never pays off at current payments\n", p.Plan.Name)
		}
	}
	return nil
}
