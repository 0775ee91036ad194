package driver

import (
	"context"
	"fmt"

	"bfi/internal/diag"
	"bfi/internal/lexer"
	"bfi/internal/pipeline"
	"bfi/internal/token"
	"bfi/internal/trace"
)

type TokenizeResult struct {
	*Unit
	Tokens  []token.Token
	Bag     *diag.Bag
	Timings pipeline.Timings
}

// Tokenize loads path and lexes it.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	sp, ctx := trace.StartSpan(trace.WithFile(ctx, path), trace.ScopeDriver, "driver.tokenize")
	defer sp.End("")

	p := &phases{ctx: ctx, timer: opts.Timer, sink: opts.Progress, file: path}
	unit, err := loadUnit(p, path)
	if err != nil {
		return nil, err
	}
	res := &TokenizeResult{Unit: unit, Bag: diag.NewBag(opts.MaxDiagnostics)}
	res.Tokens = lexStage(p, unit)
	res.Timings = p.timings
	return res, nil
}

func lexStage(p *phases, unit *Unit) []token.Token {
	end := p.begin(pipeline.StageLex)
	toks := lexer.Tokenize(unit.File)
	end(fmt.Sprintf("tokens=%d", len(toks)), nil)
	return toks
}
