package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"bfi/internal/diag"
	"bfi/internal/diagfmt"
	"bfi/internal/source"
)

// colorEnabled resolves --color against w.
func colorEnabled(cmd *cobra.Command, w io.Writer) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(mode) {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "auto":
		return isTerminal(w) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, usageError{cmd: cmd, err: fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)}
	}
}

func maxDiagnostics(cmd *cobra.Command) (int, error) {
	n, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return 0, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return n, nil
}

// printDiagnostics renders bag to stderr.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	stderr := cmd.ErrOrStderr()
	useColor, err := colorEnabled(cmd, stderr)
	if err != nil {
		return err
	}
	bag.Sort()
	diagfmt.Pretty(stderr, bag, fs, diagfmt.PrettyOpts{
		Color:     useColor,
		Context:   1,
		ShowNotes: true,
	})
	return nil
}
