package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/webxl/inflation-planner/internal/compare"
	"github.com/webxl/inflation-planner/internal/config"
	"github.com/webxl/inflation-planner/internal/transform"
)

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [input-file]",
		Short: "Compare a plan against what-if templates",
		Long: `Compare a base plan against alternative plans built from templates or
one-off transforms.

Examples:
  planner compare plan.yaml --with delay_1yr,save_10pct_more
  planner compare plan.yaml --with scale_withdrawal:factor=0.85 --format csv
  planner compare --list-templates
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if listTemplates, _ := cmd.Flags().GetBool("list-templates"); listTemplates {
				fmt.Fprint(out, transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("input file required for comparison (use --list-templates to see available templates)")
			}

			templatesStr, _ := cmd.Flags().GetString("with")
			baseName, _ := cmd.Flags().GetString("base")
			format, _ := cmd.Flags().GetString("format")

			templateNames := transform.ParseTemplateList(templatesStr)
			if len(templateNames) == 0 {
				return fmt.Errorf("--with flag is required to specify templates to compare (or use --list-templates)")
			}

			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			plan, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			engine, err := newEngine(cmd, settings)
			if err != nil {
				return err
			}
			if baseName == "" {
				baseName = plan.Name
			}

			comparisonSet, err := compare.NewCompareEngine(engine).Compare(cmd.Context(), plan.Parameters, compare.CompareOptions{
				BaseScenarioName: baseName,
				Templates:        templateNames,
				ConfigPath:       args[0],
			})
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}

			switch strings.ToLower(format) {
			case "csv":
				s, err := (&compare.CSVFormatter{}).Format(comparisonSet)
				if err != nil {
					return fmt.Errorf("failed to format CSV: %w", err)
				}
				fmt.Fprint(out, s)
			case "json":
				s, err := (&compare.JSONFormatter{Pretty: true}).Format(comparisonSet)
				if err != nil {
					return fmt.Errorf("failed to format JSON: %w", err)
				}
				fmt.Fprintln(out, s)
			case "compact":
				fmt.Fprint(out, (&compare.TableFormatter{}).FormatCompact(comparisonSet))
			case "table", "console", "":
				fmt.Fprint(out, (&compare.TableFormatter{}).Format(comparisonSet))
			default:
				return fmt.Errorf("unknown output format: %s (valid: table, compact, csv, json)", format)
			}
			return nil
		},
	}
	cmd.Flags().String("with", "", "Comma-separated templates or transform specs to compare")
	cmd.Flags().String("base", "", "Display name of the base plan (default: name in the file)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	cmd.Flags().Bool("list-templates", false, "List all available templates")
	return cmd
}
