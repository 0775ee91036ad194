package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"bfi/internal/ast"
	"bfi/internal/diag"
	"bfi/internal/pipeline"
	"bfi/internal/source"
	"bfi/internal/trace"
)

type CheckOptions struct {
	MaxDiagnostics int
	// Jobs bounds the number of files parsed at once; <= 0 means GOMAXPROCS.
	Jobs     int
	Progress pipeline.ProgressSink
}

// CheckResult содержит результат проверки одного файла
type CheckResult struct {
	Path    string
	FileID  source.FileID // source.NoFile when the file failed to load
	Program *ast.Program
	Bag     *diag.Bag
	Timings pipeline.Timings
}

// OK reports whether the file loaded and parsed.
func (r *CheckResult) OK() bool {
	return r.Program != nil && !r.Bag.HasErrors()
}

// CheckFiles loads every path into one FileSet and then lexes and parses
// them in parallel. Results keep the order of paths. Load and syntax
// failures are reported per file; the error is only set on cancellation.
func CheckFiles(ctx context.Context, paths []string, opts CheckOptions) (*source.FileSet, []CheckResult, error) {
	sp, ctx := trace.StartSpan(ctx, trace.ScopeDriver, "driver.check")
	defer sp.End("")

	fileSet := source.NewFileSet()
	results := make([]CheckResult, len(paths))
	if len(paths) == 0 {
		return fileSet, results, nil
	}
	pipeline.EmitQueued(opts.Progress, paths)

	// FileSet не потокобезопасен: загружаем последовательно
	units := make([]*Unit, len(paths))
	for i, path := range paths {
		results[i] = CheckResult{Path: path, FileID: source.NoFile, Bag: diag.NewBag(opts.MaxDiagnostics)}
		p := &phases{ctx: trace.WithFile(ctx, path), sink: opts.Progress, file: path}
		end := p.begin(pipeline.StageLoad)
		id, err := fileSet.Load(path)
		end("", err)
		results[i].Timings = p.timings
		if err != nil {
			loadFailure(results[i].Bag, err)
			continue
		}
		units[i] = &Unit{FileSet: fileSet, File: fileSet.Get(id), FileID: id}
		results[i].FileID = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, unit := range units {
		if unit == nil {
			continue
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			// индекс i уникален для горутины, мьютекс не нужен
			res := &results[i]
			fsp, fctx := trace.StartSpan(trace.WithFile(gctx, res.Path), trace.ScopeFile, "check.file")
			defer fsp.End("")

			p := &phases{ctx: fctx, timings: res.Timings, sink: opts.Progress, file: res.Path}
			toks := lexStage(p, unit)
			res.Program, _ = parseStage(p, unit, toks, res.Bag)
			res.Timings = p.timings
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// MergeBags collects the diagnostics of all results into one sorted bag.
func MergeBags(results []CheckResult, maxDiagnostics int) *diag.Bag {
	total := diag.NewBag(maxDiagnostics)
	for i := range results {
		total.Merge(results[i].Bag)
	}
	total.Sort()
	return total
}
