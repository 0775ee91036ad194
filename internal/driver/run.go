package driver

import (
	"context"
	"errors"
	"fmt"
	"io"

	"bfi/internal/pipeline"
	"bfi/internal/trace"
	"bfi/internal/vm"
)

type RunOptions struct {
	Options
	Machine vm.Options
	Stdin   io.Reader
	Stdout  io.Writer
	// StepTrace receives one line per executed step when set.
	StepTrace io.Writer
	// Initial, when set, replaces the fresh tape before the program runs.
	// Its tape length wins over Machine.TapeSize.
	Initial *vm.Snapshot
}

type RunResult struct {
	*ParseResult
	// Machine is nil when the program did not parse.
	Machine *vm.Machine
}

// Run loads, parses and executes path on a fresh machine.
//
// The error is the load failure, the *parser.Error or the *vm.Error. On
// syntax and runtime errors the result is still returned so callers can
// render diagnostics and inspect the machine; a runtime error is also
// recorded in Bag.
func Run(ctx context.Context, path string, opts RunOptions) (*RunResult, error) {
	sp, ctx := trace.StartSpan(trace.WithFile(ctx, path), trace.ScopeDriver, "driver.run")
	defer sp.End("")

	p := &phases{ctx: ctx, timer: opts.Timer, sink: opts.Progress, file: path}
	parsed, err := parseUnit(p, path, opts.MaxDiagnostics)
	if err != nil {
		return nil, err
	}
	res := &RunResult{ParseResult: parsed}
	if parsed.Err != nil {
		parsed.Timings = p.timings
		return res, parsed.Err
	}

	var tracer *vm.Tracer
	if opts.StepTrace != nil {
		tracer = vm.NewTracer(opts.StepTrace, parsed.FileSet)
	}
	res.Machine = vm.New(opts.Machine, opts.Stdin, opts.Stdout, tracer)
	if opts.Initial != nil {
		if err := res.Machine.Restore(*opts.Initial); err != nil {
			return nil, fmt.Errorf("load state: %w", err)
		}
	}
	res.Machine.SetEvents(trace.FromContext(ctx))

	end := p.begin(pipeline.StageRun)
	err = res.Machine.Run(parsed.Program)
	end(fmt.Sprintf("steps=%d", res.Machine.Steps()), err)
	parsed.Timings = p.timings

	var rtErr *vm.Error
	if errors.As(err, &rtErr) {
		parsed.Bag.Add(rtErr.Diagnostic())
	}
	return res, err
}
