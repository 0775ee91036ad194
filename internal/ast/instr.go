package ast

import (
	"bfi/internal/source"
	"bfi/internal/token"
)

// Op identifies an instruction: the six leaf operations > < + - . , and OpLoop.
type Op uint8

const (
	OpInvalid Op = iota
	OpIncPtr
	OpDecPtr
	OpInc
	OpDec
	OpOutput
	OpInput
	OpLoop
)

var opNames = [...]string{
	OpInvalid: "invalid",
	OpIncPtr:  "inc_ptr",
	OpDecPtr:  "dec_ptr",
	OpInc:     "inc",
	OpDec:     "dec",
	OpOutput:  "output",
	OpInput:   "input",
	OpLoop:    "loop",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "op(?)"
}

// LeafOp maps a non-bracket token kind to its leaf instruction.
// Brackets, EOF and Invalid report ok=false.
func LeafOp(k token.Kind) (op Op, ok bool) {
	switch k {
	case token.IncPtr:
		return OpIncPtr, true
	case token.DecPtr:
		return OpDecPtr, true
	case token.Inc:
		return OpInc, true
	case token.Dec:
		return OpDec, true
	case token.Output:
		return OpOutput, true
	case token.Input:
		return OpInput, true
	}
	return OpInvalid, false
}

// Instr is one node of the instruction tree. Only OpLoop carries a Body;
// the body is owned by the node, so the program is a strict tree.
type Instr struct {
	Op   Op
	Span source.Span // for loops: from '[' through the matching ']'
	Body []Instr
}

// IsLoop reports whether the instruction is a loop.
func (in *Instr) IsLoop() bool {
	return in.Op == OpLoop
}

// Leaf builds a leaf instruction.
func Leaf(op Op, sp source.Span) Instr {
	return Instr{Op: op, Span: sp}
}

// Loop builds a loop around body.
func Loop(body []Instr, sp source.Span) Instr {
	return Instr{Op: OpLoop, Span: sp, Body: body}
}
