package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bfi/internal/config"
	"bfi/internal/driver"
	"bfi/internal/observ"
	"bfi/internal/vm"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] file",
		Short: "Run a program",
		Long: `Run loads, parses and executes a program. Program input comes from
stdin and output goes to stdout.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: runProgram,
	}
	addRunFlags(cmd)
	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("tape-size", vm.DefaultTapeSize, "number of tape cells")
	f.String("pointer", "fail", "pointer policy past the right edge (fail|grow)")
	f.String("eof", "fail", "input policy at end of input (fail|zero|keep)")
	f.String("vm-trace", "", "write a line per executed step to file (- for stderr)")
	f.String("dump-state", "", "write the final machine state (msgpack) to file")
	f.String("load-state", "", "start from a machine state written by --dump-state")
}

// machineOverrides collects only the run flags the user set explicitly, so
// bfi.toml values survive flag defaults.
func machineOverrides(cmd *cobra.Command) (config.Overrides, error) {
	var o config.Overrides
	f := cmd.Flags()
	if f.Changed("tape-size") {
		n, err := f.GetInt("tape-size")
		if err != nil {
			return o, err
		}
		o.TapeSize = &n
	}
	if f.Changed("pointer") {
		s, err := f.GetString("pointer")
		if err != nil {
			return o, err
		}
		o.Pointer = &s
	}
	if f.Changed("eof") {
		s, err := f.GetString("eof")
		if err != nil {
			return o, err
		}
		o.EOF = &s
	}
	return o, nil
}

func runProgram(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func() error {
		return runFile(cmd, args[0])
	})
}

func runFile(cmd *cobra.Command, path string) error {
	stderr := cmd.ErrOrStderr()

	overrides, err := machineOverrides(cmd)
	if err != nil {
		return err
	}
	if _, err := config.Default().Apply(overrides); err != nil {
		return usageError{cmd: cmd, err: err}
	}
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := driver.ResolveConfig(path, configPath, overrides)
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	machine, err := cfg.VMOptions()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	maxDiags, err := maxDiagnostics(cmd)
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
	}

	initial, err := loadState(cmd)
	if err != nil {
		return err
	}

	stepTrace, closeTrace, err := openOptionalOutput(cmd, "vm-trace")
	if err != nil {
		return err
	}
	defer closeTrace()

	out := bufio.NewWriter(cmd.OutOrStdout())
	res, runErr := driver.Run(cmd.Context(), path, driver.RunOptions{
		Options:   driver.Options{MaxDiagnostics: maxDiags, Timer: timer},
		Machine:   machine,
		Stdin:     bufio.NewReader(cmd.InOrStdin()),
		Stdout:    out,
		StepTrace: stepTrace,
		Initial:   initial,
	})
	if res == nil {
		return runErr
	}
	var rtErr *vm.Error
	if errors.As(runErr, &rtErr) {
		fmt.Fprint(stderr, rtErr.FormatWithFiles(res.FileSet))
	} else if err := printDiagnostics(cmd, res.Bag, res.FileSet); err != nil {
		return err
	}
	if res.Machine != nil {
		if err := dumpState(cmd, res.Machine); err != nil {
			return err
		}
	}
	if timer != nil {
		fmt.Fprint(stderr, timer.Summary())
	}

	if runErr != nil {
		return reportedError{code: exitError}
	}
	return nil
}

func dumpState(cmd *cobra.Command, m *vm.Machine) error {
	path, err := cmd.Flags().GetString("dump-state")
	if err != nil || path == "" {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dump state: %w", err)
	}
	if err := vm.WriteSnapshot(f, m.Snapshot()); err != nil {
		_ = f.Close()
		return fmt.Errorf("dump state: %w", err)
	}
	return f.Close()
}

func loadState(cmd *cobra.Command) (*vm.Snapshot, error) {
	path, err := cmd.Flags().GetString("load-state")
	if err != nil || path == "" {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	defer f.Close()
	snap, err := vm.ReadSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return &snap, nil
}

// openOptionalOutput opens the file named by a string flag; "-" is stderr
// and "" disables the output.
func openOptionalOutput(cmd *cobra.Command, flag string) (io.Writer, func(), error) {
	path, err := cmd.Flags().GetString(flag)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get %s flag: %w", flag, err)
	}
	switch path {
	case "":
		return nil, func() {}, nil
	case "-":
		return cmd.ErrOrStderr(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", flag, err)
	}
	w := bufio.NewWriter(f)
	return w, func() {
		_ = w.Flush()
		_ = f.Close()
	}, nil
}
