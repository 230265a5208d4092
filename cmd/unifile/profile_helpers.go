package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"unifile/internal/prof"
)

// startProfiling starts CPU profiling and schedules the heap profile according
// to --cpu-profile and --mem-profile. The returned stop must be called once.
func startProfiling(cmd *cobra.Command) (func(), error) {
	cpuPath, err := cmd.Root().PersistentFlags().GetString("cpu-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memPath, err := cmd.Root().PersistentFlags().GetString("mem-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	session, err := prof.Start(cpuPath, memPath)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}, nil
}
