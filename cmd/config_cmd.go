package cmd

import (
	"fmt"

	"github.com/rpgo/budgetcast/internal/config"
	"github.com/rpgo/budgetcast/internal/output"
	"github.com/spf13/cobra"
)

var flagForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current settings",
	RunE:  runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default settings file",
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing settings file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func settingsPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.ConfigPath()
}

func runConfig(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	path := settingsPath()
	fmt.Fprintf(out, "  Settings file: %s\n", path)
	if fileExists(path) {
		fmt.Fprintln(out, "  Status: loaded")
	} else {
		fmt.Fprintln(out, "  Status: using defaults (no settings file)")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [General]")
	fmt.Fprintf(out, "    Default days:   %d\n", settings.General.DefaultDays)
	fmt.Fprintf(out, "    Default format: %s\n", settings.General.DefaultFormat)
	if settings.General.DefaultInput != "" {
		fmt.Fprintf(out, "    Default input:  %s\n", settings.General.DefaultInput)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [Cache]")
	fmt.Fprintf(out, "    Enabled: %v\n", settings.Cache.Enabled)
	fmt.Fprintf(out, "    Path:    %s\n", settings.CachePath())
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  [Log]")
	fmt.Fprintf(out, "    Level:  %s\n", settings.Log.Level)
	fmt.Fprintf(out, "    Format: %s\n", settings.Log.Format)
	fmt.Fprintln(out)

	fmt.Fprintf(out, "  Formats: %v\n", output.AvailableFormatterNames())
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := settingsPath()
	if fileExists(path) && !flagForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.SaveSettingsTo(config.DefaultSettings(), path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Settings written to %s\n", path)
	return nil
}
