package parser

import (
	"bfi/internal/ast"
	"bfi/internal/diag"
	"bfi/internal/source"
	"bfi/internal/token"
)

type Options struct {
	// File is recorded on the resulting Program.
	File source.FileID
	// Reporter receives SYN diagnostics in addition to the returned error.
	Reporter diag.Reporter
}

// Parse builds the instruction tree for a filtered token sequence.
//
// Один проход слева направо: счётчик глубины и индекс самой внешней
// открытой скобки. Когда ']' возвращает глубину в 0, диапазон строго
// внутри пары разбирается рекурсивно и оборачивается в Loop.
// EOF and Invalid tokens are ignored.
func Parse(tokens []token.Token, opts Options) (*ast.Program, error) {
	instrs, err := parseRange(tokens, 0)
	if err != nil {
		report(opts.Reporter, err)
		return nil, err
	}
	if len(instrs) == 0 && opts.Reporter != nil {
		sp := source.Span{File: opts.File}
		diag.ReportWarning(opts.Reporter, diag.SynEmptyProgram, sp, "program contains no instructions").Emit()
	}
	return &ast.Program{File: opts.File, Instrs: instrs}, nil
}

// parseRange parses tokens whose first element sits at position base of the
// full sequence.
func parseRange(tokens []token.Token, base int) ([]ast.Instr, error) {
	out := make([]ast.Instr, 0, len(tokens))
	depth, open := 0, 0
	for i := range tokens {
		tok := &tokens[i]
		switch tok.Kind {
		case token.LoopStart:
			if depth == 0 {
				open = i
			}
			depth++
		case token.LoopEnd:
			if depth == 0 {
				return nil, &Error{Kind: UnmatchedCloseBracket, Pos: base + i, Span: tok.Span}
			}
			depth--
			if depth > 0 {
				continue
			}
			// диапазон внутри пары всегда сбалансирован
			body, err := parseRange(tokens[open+1:i], base+open+1)
			if err != nil {
				return nil, err
			}
			out = append(out, ast.Loop(body, tokens[open].Span.Cover(tok.Span)))
		default:
			if depth > 0 {
				continue
			}
			if op, ok := ast.LeafOp(tok.Kind); ok {
				out = append(out, ast.Leaf(op, tok.Span))
			}
		}
	}
	if depth > 0 {
		return nil, &Error{Kind: UnmatchedOpenBracket, Pos: base + open, Span: tokens[open].Span}
	}
	return out, nil
}

func report(r diag.Reporter, err error) {
	pe, ok := err.(*Error)
	if r == nil || !ok {
		return
	}
	diag.ReportError(r, pe.Code(), pe.Span, pe.Error()).Emit()
}
