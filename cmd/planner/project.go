package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/webxl/inflation-planner/internal/config"
	"github.com/webxl/inflation-planner/internal/output"
)

func projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project [input-file]",
		Short: "Project the savings balance for a parameter file",
		Long: `Project the savings balance for a parameter file. Without a file the
starter plan is projected (see init).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			sample, _ := cmd.Flags().GetString("sample")
			outputDir, _ := cmd.Flags().GetString("output-dir")

			formatter := output.GetFormatterByName(format)
			if formatter == nil {
				return fmt.Errorf("unknown output format: %s (valid: %v)", format, output.AvailableFormatterNames())
			}

			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			var plan *config.Plan
			name := starterPlanName
			if len(args) == 1 {
				plan, err = config.NewInputParser().LoadFromFile(args[0])
				if err == nil {
					name = planName(plan, args[0])
				}
			} else {
				plan, err = starterPlan(cmd)
			}
			if err != nil {
				return err
			}
			engine, err := newEngine(cmd, settings)
			if err != nil {
				return err
			}

			result, err := engine.Project(plan.Parameters)
			if err != nil {
				return err
			}
			report, err := output.NewReport(name, plan.Parameters, result, sample)
			if err != nil {
				return err
			}
			if outputDir != "" {
				filename, err := output.WriteFormatted(formatter, report, outputDir, output.FileExtension(formatter.Name()))
				if err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
				return nil
			}

			data, err := formatter.Format(report)
			if err != nil {
				return fmt.Errorf("failed to format %s: %w", formatter.Name(), err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringP("format", "f", "console", "Output format (console, csv, json)")
	cmd.Flags().String("sample", output.SampleDaily, "Series sampling for csv and json (daily, monthly)")
	cmd.Flags().String("output-dir", "", "Write the report to a timestamped file in this directory")
	addStarterFlags(cmd)
	return cmd
}
