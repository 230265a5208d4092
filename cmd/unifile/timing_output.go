package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"unifile/internal/observ"
)

func timingsEnabled(cmd *cobra.Command) (bool, error) {
	enabled, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return false, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return enabled, nil
}

// writeTimings prints the timer report; json goes to out, text to stderr so
// it never mixes with results.
func writeTimings(cmd *cobra.Command, out io.Writer, timer *observ.Timer, asJSON bool) error {
	if timer == nil {
		return nil
	}
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Timings observ.Report `json:"timings"`
		}{timer.Report()})
	}
	fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	return nil
}
