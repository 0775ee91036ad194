package ast

import (
	"strings"

	"bfi/internal/source"
)

// Program is the parsed root instruction sequence. It is immutable once built.
type Program struct {
	File   source.FileID
	Instrs []Instr
}

// Stats summarizes a program tree.
type Stats struct {
	Instrs   int `json:"instrs"` // every node, loops included
	Loops    int `json:"loops"`
	MaxDepth int `json:"max_depth"` // deepest loop nesting; 0 for loop-free programs
}

// Stats walks the whole tree.
func (p *Program) Stats() Stats {
	var st Stats
	Walk(p.Instrs, func(in *Instr, depth int) bool {
		st.Instrs++
		if in.IsLoop() {
			st.Loops++
			st.MaxDepth = max(st.MaxDepth, depth+1)
		}
		return true
	})
	return st
}

// Walk visits instrs in pre-order. depth is the number of enclosing loops.
// Returning false from fn skips the node's body.
func Walk(instrs []Instr, fn func(in *Instr, depth int) bool) {
	type item struct {
		body  []Instr
		depth int
	}
	stack := []item{{body: instrs}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if len(top.body) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		in := &top.body[0]
		top.body = top.body[1:]
		depth := top.depth
		if fn(in, depth) && in.IsLoop() && len(in.Body) > 0 {
			stack = append(stack, item{body: in.Body, depth: depth + 1})
		}
	}
}

// Source re-serializes the tree into canonical instruction characters.
func Source(instrs []Instr) string {
	var sb strings.Builder
	writeSource(&sb, instrs)
	return sb.String()
}

func writeSource(sb *strings.Builder, instrs []Instr) {
	for i := range instrs {
		in := &instrs[i]
		switch in.Op {
		case OpIncPtr:
			sb.WriteByte('>')
		case OpDecPtr:
			sb.WriteByte('<')
		case OpInc:
			sb.WriteByte('+')
		case OpDec:
			sb.WriteByte('-')
		case OpOutput:
			sb.WriteByte('.')
		case OpInput:
			sb.WriteByte(',')
		case OpLoop:
			sb.WriteByte('[')
			writeSource(sb, in.Body)
			sb.WriteByte(']')
		}
	}
}
