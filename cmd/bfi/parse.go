package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bfi/internal/diagfmt"
	"bfi/internal/driver"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] file",
		Short: "Dump the instruction tree of a program",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func() error { return runParse(cmd, args[0]) })
		},
	}
	cmd.Flags().String("format", "tree", "output format (tree|json)")
	return cmd
}

func runParse(cmd *cobra.Command, path string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "tree" && format != "json" {
		return usageError{cmd: cmd, err: fmt.Errorf("unknown format: %s", format)}
	}
	maxDiags, err := maxDiagnostics(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Parse(cmd.Context(), path, driver.Options{MaxDiagnostics: maxDiags})
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	if err := printDiagnostics(cmd, result.Bag, result.FileSet); err != nil {
		return err
	}
	if result.Err != nil {
		return reportedError{code: exitError}
	}

	if format == "json" {
		return diagfmt.FormatProgramJSON(cmd.OutOrStdout(), result.Program, result.FileSet)
	}
	return diagfmt.FormatProgramPretty(cmd.OutOrStdout(), result.Program, result.FileSet)
}
