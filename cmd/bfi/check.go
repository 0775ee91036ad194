package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bfi/internal/diagfmt"
	"bfi/internal/driver"
	"bfi/internal/source"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] file...",
		Short: "Parse several programs in parallel and report syntax errors",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func() error { return runCheck(cmd, args) })
		},
	}
	cmd.Flags().Int("jobs", 0, "files parsed at once (0 = GOMAXPROCS)")
	cmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	return cmd
}

func runCheck(cmd *cobra.Command, files []string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return usageError{cmd: cmd, err: err}
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return usageError{cmd: cmd, err: fmt.Errorf("unknown format: %s", format)}
	}
	maxDiags, err := maxDiagnostics(cmd)
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	opts := driver.CheckOptions{MaxDiagnostics: maxDiags, Jobs: jobs}
	var (
		fs      *source.FileSet
		results []driver.CheckResult
	)
	if format == "pretty" && shouldUseTUI(mode, cmd.OutOrStdout()) {
		fs, results, err = checkWithUI(cmd.Context(), cmd.OutOrStdout(), files, opts)
	} else {
		fs, results, err = driver.CheckFiles(cmd.Context(), files, opts)
	}
	if err != nil {
		return err
	}

	bag := driver.MergeBags(results, maxDiags)
	failed := 0
	for i := range results {
		if !results[i].OK() {
			failed++
		}
	}

	if format == "json" {
		if err := diagfmt.JSON(cmd.OutOrStdout(), bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			Max:              maxDiags,
		}); err != nil {
			return err
		}
	} else {
		if err := printDiagnostics(cmd, bag, fs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "checked %d file(s): %d ok, %d failed\n", len(results), len(results)-failed, failed)
	}
	if showTimings {
		printStageTimings(cmd.ErrOrStderr(), results)
	}

	if failed > 0 {
		return reportedError{code: exitError}
	}
	return nil
}
