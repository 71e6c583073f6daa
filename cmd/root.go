// Package cmd implements the budgetcast CLI commands.
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rpgo/budgetcast/internal/calculation"
	"github.com/rpgo/budgetcast/internal/config"
	"github.com/rpgo/budgetcast/internal/domain"
	"github.com/rpgo/budgetcast/internal/store"
	"github.com/rpgo/budgetcast/pkg/dateutil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagConfig  string
	flagInput   string
	flagAsOf    string
	flagFormat  string
	flagOutput  string
	flagNoCache bool
	flagVerbose bool
)

// Clock supplies today's date when neither --as-of nor the document sets one.
var Clock calculation.Clock = calculation.SystemClock{}

// state shared by every command after PersistentPreRunE.
var (
	settings config.Settings
	logger   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "budgetcast",
	Short: "Household budget forecasts, scenarios and debt payoff plans",
	Long: "budgetcast projects account balances from recurring templates, overlays what-if\n" +
		"scenarios and simulates debt payoff strategies.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Settings file (default $XDG_CONFIG_HOME/budgetcast/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&flagInput, "input", "i", "", "Budget document (YAML)")
	rootCmd.PersistentFlags().StringVar(&flagAsOf, "as-of", "", "As-of date YYYY-MM-DD (default: document as_of, then today)")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "", "Output format (default from settings)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Write the report to this file instead of stdout")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the SQLite forecast cache")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
}

func setup(_ *cobra.Command, _ []string) error {
	var err error
	if flagConfig != "" {
		settings, err = config.LoadSettingsFrom(flagConfig)
	} else {
		settings, err = config.LoadSettings()
	}
	if err != nil {
		return err
	}
	if flagVerbose {
		settings.Log.Level = "debug"
	}
	logger, err = NewLogger(settings.Log)
	return err
}

// newEngine builds a calculation engine wired to the logger and, unless
// disabled, the SQLite cache. The returned func closes the cache.
func newEngine() (*calculation.CalculationEngine, *store.Store, func()) {
	engine := calculation.NewCalculationEngine()
	engine.Clock = Clock
	engine.Debug = flagVerbose
	if logger != nil {
		engine.SetLogger(logger.Sugar())
	}

	if flagNoCache || !settings.Cache.Enabled {
		return engine, nil, func() {}
	}
	st, err := store.Open(settings.CachePath())
	if err != nil {
		engine.Logger.Warnf("forecast cache unavailable: %v", err)
		return engine, nil, func() {}
	}
	engine.SetCache(st)
	return engine, st, func() { _ = st.Close() }
}

func loadDocument() (*domain.Configuration, error) {
	path := flagInput
	if path == "" {
		path = settings.General.DefaultInput
	}
	if path == "" {
		return nil, fmt.Errorf("no input document: pass --input or set general.default_input")
	}
	return config.NewInputParser().LoadFromFile(path)
}

func parseAsOf() (time.Time, error) {
	if flagAsOf == "" {
		return time.Time{}, nil
	}
	d, err := dateutil.ParseDate(flagAsOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("--as-of: %w", err)
	}
	return d, nil
}

func formatName() string {
	if flagFormat != "" {
		return flagFormat
	}
	return settings.General.DefaultFormat
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
