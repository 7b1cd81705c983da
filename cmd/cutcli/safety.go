package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cutcoach/internal/engine"
)

func newSafetyCmd() *cobra.Command {
	var (
		current, target float64
		days            int
	)
	cmd := &cobra.Command{
		Use:   "safety",
		Short: "Assess how risky the remaining cut is",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if current <= 0 || target <= 0 {
				return fmt.Errorf("--current and --target must be positive")
			}
			if days < 0 {
				return fmt.Errorf("--days must not be negative")
			}
			return printJSON(cmd.OutOrStdout(), engine.AssessSafety(current, target, days))
		},
	}
	cmd.Flags().Float64Var(&current, "current", 0, "current weight in lbs")
	cmd.Flags().Float64Var(&target, "target", 0, "weight class limit in lbs")
	cmd.Flags().IntVar(&days, "days", 0, "days until weigh-in")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}
