package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/webxl/inflation-planner/internal/config"
	"github.com/webxl/inflation-planner/internal/domain"
	"github.com/webxl/inflation-planner/internal/output"
	"github.com/webxl/inflation-planner/internal/session"
	"github.com/webxl/inflation-planner/internal/shortfall"
)

func adjustCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adjust [input-file]",
		Short: "Find the single-parameter change that removes a shortfall",
		Long: `Solve for the value of one parameter that brings the final balance to just
above zero, or compare every adjustable parameter with --all.

Targets: monthly_contribution, monthly_withdrawal, return_rate,
withdrawal_start, initial_balance.

Examples:
  planner adjust plan.yaml --target monthly_contribution
  planner adjust plan.yaml --target withdrawal_start --apply
  planner adjust plan.yaml --all --format json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetName, _ := cmd.Flags().GetString("target")
			all, _ := cmd.Flags().GetBool("all")
			apply, _ := cmd.Flags().GetBool("apply")
			trace, _ := cmd.Flags().GetBool("trace")
			format, _ := cmd.Flags().GetString("format")

			if all == (targetName != "") {
				return fmt.Errorf("specify exactly one of --target or --all")
			}
			if all && apply {
				return fmt.Errorf("--apply needs a single --target")
			}
			format = strings.ToLower(format)
			if format != "table" && format != "json" {
				return fmt.Errorf("unknown output format: %s (valid: table, json)", format)
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

			solver := shortfall.NewSolver(engine, shortfall.SolverOptions{
				Tolerance:     settings.Solver.Tolerance,
				MaxIterations: settings.Solver.MaxIterations,
				RecordTrace:   trace,
			})
			out := cmd.OutOrStdout()

			if all {
				result, err := solver.SolveAll(cmd.Context(), plan.Parameters)
				if err != nil {
					return err
				}
				if format == "json" {
					s, err := (&shortfall.JSONFormatter{Pretty: true}).FormatMulti(result)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, s)
					return nil
				}
				fmt.Fprint(out, (&shortfall.TableFormatter{}).FormatMulti(result))
				return nil
			}

			target, err := domain.ParseAdjustmentTarget(targetName)
			if err != nil {
				return err
			}

			sess, err := session.New(engine, solver, plan.Parameters)
			if err != nil {
				return err
			}
			adj, err := sess.RequestAdjustment(cmd.Context(), target)
			if err != nil {
				return err
			}

			if format == "json" {
				s, err := (&shortfall.JSONFormatter{Pretty: true}).Format(adj)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, s)
			} else {
				fmt.Fprint(out, (&shortfall.TableFormatter{}).Format(adj))
			}

			if !apply {
				return nil
			}
			if err := sess.Keep(); err != nil {
				return err
			}

			snap := sess.Snapshot()
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Adjustment applied")
			fmt.Fprintln(out, session.AdjustmentMessage(adj))
			fmt.Fprintln(out)

			report, err := output.NewReport(planName(plan, args[0])+" (adjusted)", snap.Parameters, snap.Result, output.SampleDaily)
			if err != nil {
				return err
			}
			data, err := output.ConsoleFormatter{}.Format(report)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
	cmd.Flags().StringP("target", "t", "", "Parameter to adjust")
	cmd.Flags().Bool("all", false, "Solve for every adjustable parameter and compare")
	cmd.Flags().Bool("apply", false, "Merge the adjustment and print the re-projected plan")
	cmd.Flags().Bool("trace", false, "Record every solver iteration")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	return cmd
}
