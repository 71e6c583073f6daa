package cmd

import (
	"fmt"

	"github.com/rpgo/budgetcast/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print or write an example budget document",
	RunE:  runExample,
}

func init() {
	rootCmd.AddCommand(exampleCmd)
}

func runExample(cmd *cobra.Command, _ []string) error {
	parser := config.NewInputParser()
	doc := parser.CreateExampleConfiguration()

	if flagOutput != "" {
		if err := parser.SaveConfiguration(doc, flagOutput); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  Example written to %s\n", flagOutput)
		return nil
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal example: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
