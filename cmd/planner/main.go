package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/webxl/inflation-planner/internal/calculation"
	"github.com/webxl/inflation-planner/internal/config"
	"github.com/webxl/inflation-planner/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "planner",
		Short: "Savings projection and shortfall planner",
		Long: `Project a savings balance day by day through an accumulation and a
withdrawal phase, and find the single change that closes a shortfall.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
	root.PersistentFlags().String("settings", "", "Path to a settings file (PLANNER_* environment variables also apply)")

	root.AddCommand(initCmd())
	root.AddCommand(projectCmd())
	root.AddCommand(adjustCmd())
	root.AddCommand(compareCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "planner %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input-file]",
		Short: "Validate a parameter file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Parameter file %s is valid (%d simulated days)\n",
				args[0], plan.Parameters.SimulatedDays())
			return nil
		},
	}
}

// loadSettings reads --settings and applies --debug on top.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	path, _ := cmd.Flags().GetString("settings")
	settings, err := config.LoadSettings(path)
	if err != nil {
		return nil, err
	}
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		settings.Log.Level = "debug"
	}
	return settings, nil
}

func newLogger(settings *config.Settings) (*zap.SugaredLogger, error) {
	return logging.New(logging.LogConfig{Level: settings.Log.Level, Format: settings.Log.Format})
}

// newEngine builds a calculation engine that logs through zap. Per-run
// summaries are only logged with --debug.
func newEngine(cmd *cobra.Command, settings *config.Settings) (*calculation.CalculationEngine, error) {
	logger, err := newLogger(settings)
	if err != nil {
		return nil, err
	}
	engine := calculation.NewCalculationEngine()
	engine.SetLogger(logger)
	engine.Debug, _ = cmd.Flags().GetBool("debug")
	return engine, nil
}

// planName prefers the name in the file and falls back to its path.
func planName(plan *config.Plan, path string) string {
	if plan.Name != "" {
		return plan.Name
	}
	return path
}
