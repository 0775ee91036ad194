// Package testkit holds checks shared by parser, driver and fuzz tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"bfi/internal/ast"
	"bfi/internal/source"
)

// CheckSpanInvariants runs the span invariants of a parsed program:
// 1) every span is non-empty, points at sf and lies within its content
// 2) leaf spans are exactly one byte and cover their instruction character
// 3) a loop span starts at '[' and ends after ']' and covers its body
// 4) siblings appear in source order without overlap
func CheckSpanInvariants(prog *ast.Program, sf *source.File) error {
	if prog == nil || sf == nil {
		return fmt.Errorf("nil program or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	return checkBody(prog.Instrs, sf, lenContent)
}

func checkBody(body []ast.Instr, sf *source.File, limit uint32) error {
	var prev source.Span
	for i := range body {
		in := &body[i]
		sp := in.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("empty %s span: %v", in.Op, sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("%s span file mismatch: got=%d want=%d", in.Op, sp.File, sf.ID)
		}
		if sp.End > limit {
			return fmt.Errorf("%s span %v beyond content (%d bytes)", in.Op, sp, limit)
		}
		if i > 0 && sp.Start < prev.End {
			return fmt.Errorf("%s span %v overlaps previous %v", in.Op, sp, prev)
		}
		prev = sp

		if !in.IsLoop() {
			if sp.Len() != 1 {
				return fmt.Errorf("%s span %v is not one byte", in.Op, sp)
			}
			continue
		}
		if sf.Content[sp.Start] != '[' || sf.Content[sp.End-1] != ']' {
			return fmt.Errorf("loop span %v is not bracketed", sp)
		}
		if len(in.Body) > 0 {
			union := in.Body[0].Span.Cover(in.Body[len(in.Body)-1].Span)
			if union.Start <= sp.Start || union.End >= sp.End {
				return fmt.Errorf("loop span %v does not enclose body %v", sp, union)
			}
		}
		if err := checkBody(in.Body, sf, limit); err != nil {
			return err
		}
	}
	return nil
}
