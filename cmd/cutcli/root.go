package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cutcli",
		Short:         "Weight-cut projections from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newInsightsCmd(), newSafetyCmd())
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
