package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bfi/internal/version"
)

// main executes the CLI and exits with its status: 0 on success, 1 on
// syntax, runtime and I/O errors, 2 on usage errors.
func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return exitCode(root.ExecuteContext(ctx), root, stderr)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bfi [flags] file",
		Short: "Tape language interpreter and toolchain",
		Long: `bfi runs programs written in the eight-symbol tape language.
Every character other than > < + - . , [ ] is a comment.

A program named like a subcommand (run, check, parse, tokenize, version,
help, completion) is taken as that subcommand; use "bfi run ./run".`,
		Args:          usageArgs(cobra.ExactArgs(1)),
		RunE:          runProgram,
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       version.Current().Version,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{cmd: cmd, err: err}
	})

	root.AddCommand(newRunCmd())
	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.String("config", "", "machine configuration file (default: nearest bfi.toml)")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "ring", "trace storage mode (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "ring buffer capacity in events")
	pf.Duration("trace-heartbeat", 0, "heartbeat interval (0 disables)")

	pf.String("cpu-profile", "", "write CPU profile to file")
	pf.String("mem-profile", "", "write heap profile to file")
	pf.String("runtime-trace", "", "write Go runtime trace to file")

	addRunFlags(root)
	return root
}

// isTerminal проверяет, является ли w терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
