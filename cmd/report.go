package cmd

import (
	"fmt"

	"github.com/rpgo/budgetcast/internal/domain"
	"github.com/rpgo/budgetcast/internal/output"
	"github.com/spf13/cobra"
)

// writeReport renders report to --output, or to stdout when no file is given.
func writeReport(cmd *cobra.Command, report *domain.Report) error {
	format := formatName()
	if flagOutput == "" {
		return output.GenerateReport(cmd.OutOrStdout(), report, format)
	}
	path, err := output.GenerateReportFile(report, format, flagOutput)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Report written to %s\n", path)
	return nil
}
