package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a budget document without running it",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	doc, err := loadDocument()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "  Document is valid")
	fmt.Fprintf(out, "    Accounts:     %d\n", len(doc.Accounts))
	fmt.Fprintf(out, "    Templates:    %d\n", len(doc.Templates))
	fmt.Fprintf(out, "    Scenarios:    %d\n", len(doc.Scenarios))
	fmt.Fprintf(out, "    Payoff plans: %d\n", len(doc.PayoffPlans))
	return nil
}
