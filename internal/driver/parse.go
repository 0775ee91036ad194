package driver

import (
	"context"
	"fmt"

	"bfi/internal/ast"
	"bfi/internal/diag"
	"bfi/internal/parser"
	"bfi/internal/pipeline"
	"bfi/internal/token"
	"bfi/internal/trace"
)

type ParseResult struct {
	*Unit
	Tokens  []token.Token
	Program *ast.Program
	Bag     *diag.Bag
	// Err is the *parser.Error when the brackets do not balance.
	Err     error
	Timings pipeline.Timings
}

// Parse loads, lexes and parses path. Syntax errors land in Bag and Err;
// the returned error is reserved for load failures.
func Parse(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	sp, ctx := trace.StartSpan(trace.WithFile(ctx, path), trace.ScopeDriver, "driver.parse")
	defer sp.End("")

	p := &phases{ctx: ctx, timer: opts.Timer, sink: opts.Progress, file: path}
	res, err := parseUnit(p, path, opts.MaxDiagnostics)
	if err != nil {
		return nil, err
	}
	res.Timings = p.timings
	return res, nil
}

func parseUnit(p *phases, path string, maxDiagnostics int) (*ParseResult, error) {
	unit, err := loadUnit(p, path)
	if err != nil {
		return nil, err
	}
	res := &ParseResult{Unit: unit, Bag: diag.NewBag(maxDiagnostics)}
	res.Tokens = lexStage(p, unit)
	res.Program, res.Err = parseStage(p, unit, res.Tokens, res.Bag)
	return res, nil
}

func parseStage(p *phases, unit *Unit, toks []token.Token, bag *diag.Bag) (*ast.Program, error) {
	end := p.begin(pipeline.StageParse)
	prog, err := parser.Parse(toks, parser.Options{
		File:     unit.FileID,
		Reporter: diag.BagReporter{Bag: bag},
	})
	if err != nil {
		end("", err)
		return nil, err
	}
	st := prog.Stats()
	end(fmt.Sprintf("instrs=%d loops=%d depth=%d", st.Instrs, st.Loops, st.MaxDepth), nil)
	return prog, nil
}
