package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cutcoach/internal/engine"
)

// scenario is an engine input plus optional tuning, as read from YAML.
type scenario struct {
	engine.Input `yaml:",inline"`
	Engine       struct {
		Decay      float64 `yaml:"decay"`
		WindowDays int     `yaml:"windowDays"`
	} `yaml:"engine"`
}

func loadScenario(path string) (*scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc scenario
	if err := yaml.Unmarshal(b, &sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i := range sc.Logs {
		if sc.Logs[i].ID == 0 {
			sc.Logs[i].ID = int64(i + 1)
		}
	}
	return &sc, nil
}

func newInsightsCmd() *cobra.Command {
	var (
		file string
		now  string
	)
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Compute insights for a scenario file",
		Long: `Reads a YAML scenario (profile, logs, tracking, now) and prints the
engine output as JSON. --now overrides the scenario's time to simulate
another moment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario(file)
			if err != nil {
				return err
			}
			if now != "" {
				t, err := time.Parse(time.RFC3339, now)
				if err != nil {
					return fmt.Errorf("--now must be RFC3339: %w", err)
				}
				sc.Now = t
			}
			if sc.Now.IsZero() {
				sc.Now = time.Now()
			}

			eng := engine.New(engine.Config{Decay: sc.Engine.Decay, WindowDays: sc.Engine.WindowDays})
			out, err := eng.Compute(sc.Input)
			if errors.Is(err, engine.ErrNotConfigured) {
				return printJSON(cmd.OutOrStdout(), map[string]any{"configured": false, "reason": err.Error()})
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "scenario YAML file")
	cmd.Flags().StringVar(&now, "now", "", "simulated current time (RFC3339)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
