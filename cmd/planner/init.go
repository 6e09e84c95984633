package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/webxl/inflation-planner/internal/config"
	"github.com/webxl/inflation-planner/internal/domain"
	"github.com/webxl/inflation-planner/pkg/dateutil"
)

const starterPlanName = "starter plan"

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [output-file]",
		Short: "Write a starter parameter file",
		Long: `Write a parameter file filled with the default plan: 200000 saved,
1000/month contributed, 6000/month withdrawn, 3% inflation and 7% return.
With --age the withdrawal window opens at age 67 and lasts 25 years.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := starterPlan(cmd)
			if err != nil {
				return err
			}
			data, err := config.NewInputParser().Marshal(plan)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(args[0]); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", args[0])
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote starter plan to %s\n", args[0])
			return nil
		},
	}
	addStarterFlags(cmd)
	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}

func addStarterFlags(cmd *cobra.Command) {
	cmd.Flags().String("start", "", "Contribution start for the starter plan (YYYY-MM-DD, default today)")
	cmd.Flags().Int("age", 0, "Current age; places the withdrawal window at retirement age")
}

// starterPlan builds the default plan. The clock is only read here, when
// --start is not given.
func starterPlan(cmd *cobra.Command) (*config.Plan, error) {
	start := dateutil.FromTime(time.Now())
	if s, _ := cmd.Flags().GetString("start"); s != "" {
		d, err := dateutil.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("invalid --start: %w", err)
		}
		start = d
	}

	p := domain.DefaultParameters(start)
	if cmd.Flags().Changed("age") {
		age, _ := cmd.Flags().GetInt("age")
		if age < 0 {
			return nil, fmt.Errorf("--age cannot be negative")
		}
		p = p.WithRetirementAge(age)
	}
	return &config.Plan{Name: starterPlanName, Parameters: p}, nil
}
