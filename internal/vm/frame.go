package vm

import "bfi/internal/ast"

// Frame is one activation of an instruction sequence: the program root or
// the body of a loop that is currently iterating.
type Frame struct {
	body []ast.Instr
	ip   int        // next instruction in body
	loop *ast.Instr // nil for the root frame
}

// AtEnd reports whether every instruction of the body ran in this pass.
func (f *Frame) AtEnd() bool {
	return f.ip >= len(f.body)
}
