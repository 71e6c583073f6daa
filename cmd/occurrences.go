package cmd

import (
	"fmt"
	"time"

	"github.com/rpgo/budgetcast/internal/calculation"
	"github.com/rpgo/budgetcast/internal/domain"
	"github.com/rpgo/budgetcast/pkg/dateutil"
	"github.com/spf13/cobra"
)

var (
	flagFrequency  string
	flagRuleStart  string
	flagRuleEnd    string
	flagDayOfMonth int
	flagDayOfWeek  int
	flagFrom       string
	flagTo         string
)

var occurrencesCmd = &cobra.Command{
	Use:   "occurrences",
	Short: "List the dates a recurrence rule fires on",
	Example: "  budgetcast occurrences --frequency monthly --start 2024-01-31 --from 2024-01-01 --to 2024-06-30\n" +
		"  budgetcast occurrences --frequency biweekly --start 2025-01-03 --day-of-week 5 --to 2025-03-31",
	RunE: runOccurrences,
}

func init() {
	occurrencesCmd.Flags().StringVar(&flagFrequency, "frequency", string(domain.FrequencyMonthly), "daily, weekly, biweekly, monthly, quarterly or yearly")
	occurrencesCmd.Flags().StringVar(&flagRuleStart, "start", "", "Rule start date YYYY-MM-DD (required)")
	occurrencesCmd.Flags().StringVar(&flagRuleEnd, "end", "", "Rule end date YYYY-MM-DD")
	occurrencesCmd.Flags().IntVar(&flagDayOfMonth, "day-of-month", 0, "Day of month 1-31")
	occurrencesCmd.Flags().IntVar(&flagDayOfWeek, "day-of-week", -1, "Day of week 0 (Sunday) to 6")
	occurrencesCmd.Flags().StringVar(&flagFrom, "from", "", "Window start (default: rule start)")
	occurrencesCmd.Flags().StringVar(&flagTo, "to", "", "Window end (default: window start + default days)")
	_ = occurrencesCmd.MarkFlagRequired("start")
	rootCmd.AddCommand(occurrencesCmd)
}

func runOccurrences(cmd *cobra.Command, _ []string) error {
	rule, err := ruleFromFlags(cmd)
	if err != nil {
		return err
	}

	from := rule.StartDate
	if flagFrom != "" {
		if from, err = dateutil.ParseDate(flagFrom); err != nil {
			return fmt.Errorf("--from: %w", err)
		}
	}
	to := from.AddDate(0, 0, settings.General.DefaultDays)
	if flagTo != "" {
		if to, err = dateutil.ParseDate(flagTo); err != nil {
			return fmt.Errorf("--to: %w", err)
		}
	}

	set, err := calculation.Occurrences(rule, from, to)
	if err != nil {
		return err
	}
	if !rule.Frequency.Known() {
		logger.Sugar().Warnf("unknown frequency %q, treating as %s", rule.Frequency, domain.DefaultFrequency)
	}

	out := cmd.OutOrStdout()
	for _, d := range set.Dates {
		fmt.Fprintf(out, "%s  %s\n", dateutil.FormatDate(d), d.Weekday().String()[:3])
	}
	fmt.Fprintf(out, "%d occurrence(s) between %s and %s\n", len(set.Dates), dateutil.FormatDate(from), dateutil.FormatDate(to))
	if set.Truncated {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: stopped after %d iterations\n", calculation.MaxOccurrenceIterations)
	}
	return nil
}

func ruleFromFlags(cmd *cobra.Command) (domain.RecurrenceRule, error) {
	rule := domain.RecurrenceRule{Frequency: domain.ParseFrequency(flagFrequency)}

	start, err := dateutil.ParseDate(flagRuleStart)
	if err != nil {
		return rule, fmt.Errorf("--start: %w", err)
	}
	rule.StartDate = start

	if flagRuleEnd != "" {
		var end time.Time
		if end, err = dateutil.ParseDate(flagRuleEnd); err != nil {
			return rule, fmt.Errorf("--end: %w", err)
		}
		rule.EndDate = &end
	}
	if cmd.Flags().Changed("day-of-month") {
		rule.DayOfMonth = domain.IntPtr(flagDayOfMonth)
	}
	if cmd.Flags().Changed("day-of-week") {
		rule.DayOfWeek = domain.IntPtr(flagDayOfWeek)
	}
	return rule, rule.Validate()
}
