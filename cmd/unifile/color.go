package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// setupColor applies --color globally through color.NoColor.
func setupColor(cmd *cobra.Command) error {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	enabled, err := resolveColor(value, isTerminal(os.Stdout))
	if err != nil {
		return err
	}
	color.NoColor = !enabled
	return nil
}

func resolveColor(value string, tty bool) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return tty && os.Getenv("NO_COLOR") == "", nil
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

var (
	changedColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	addedColor   = color.New(color.FgGreen)
	deletedColor = color.New(color.FgRed)
	hunkColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.Bold)
)
