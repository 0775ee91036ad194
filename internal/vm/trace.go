package vm

import (
	"fmt"
	"io"

	"bfi/internal/ast"
	"bfi/internal/source"
)

// Tracer prints every executed step.
// Format: [depth=N] #<step> <op> ptr=<P> cell=<C> @ <file>:<line>:<col>
type Tracer struct {
	w     io.Writer
	files *source.FileSet
}

// NewTracer creates a tracer writing to w. files resolves spans; it may be nil.
func NewTracer(w io.Writer, files *source.FileSet) *Tracer {
	return &Tracer{w: w, files: files}
}

func (t *Tracer) traceInstr(m *Machine, in *ast.Instr) {
	if t == nil || t.w == nil {
		return
	}
	t.line(m, in.Op.String(), in.Span)
}

// traceLoopBack records the condition check at the closing bracket.
func (t *Tracer) traceLoopBack(m *Machine, loop *ast.Instr) {
	if t == nil || t.w == nil {
		return
	}
	sp := loop.Span
	if sp.End > sp.Start {
		sp.Start = sp.End - 1
	}
	t.line(m, "loop_back", sp)
}

func (t *Tracer) line(m *Machine, op string, sp source.Span) {
	fmt.Fprintf(t.w, "[depth=%d] #%d %s ptr=%d cell=%d @ %s\n",
		m.Depth(), m.steps, op, m.ptr, m.tape[m.ptr], formatSpan(sp, t.files))
}
