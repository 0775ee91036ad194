package vm

import (
	"fmt"
	"strings"

	"bfi/internal/ast"
	"bfi/internal/diag"
	"bfi/internal/source"
)

// Code identifies the kind of runtime failure.
type Code int

// Stable codes - do not change values.
const (
	PointerOutOfBounds Code = 1001 // VM1001
	InputExhausted     Code = 1002 // VM1002
	InputFailed        Code = 1003 // VM1003: read error other than EOF
	OutputFailed       Code = 1004 // VM1004
)

// String returns the code as "VM1001".
func (c Code) String() string {
	return fmt.Sprintf("VM%d", c)
}

// Diag maps the runtime code to its diagnostic code.
func (c Code) Diag() diag.Code {
	switch c {
	case PointerOutOfBounds:
		return diag.RunPointerOutOfBounds
	case InputExhausted:
		return diag.RunInputExhausted
	case InputFailed:
		return diag.RunInputFailed
	case OutputFailed:
		return diag.RunOutputFailed
	}
	return diag.UnknownCode
}

// Direction of a pointer move.
type Direction uint8

const (
	DirNone Direction = iota
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return "none"
}

// BacktraceFrame is one enclosing loop of the failing instruction.
type BacktraceFrame struct {
	Depth int
	Span  source.Span
}

// Error is a fatal runtime failure. Output written before it stays written.
type Error struct {
	Code      Code
	Message   string
	Direction Direction   // set for PointerOutOfBounds
	Span      source.Span // failing instruction
	Backtrace []BacktraceFrame
	Err       error // underlying I/O error, if any
}

func (e *Error) Error() string {
	return fmt.Sprintf("runtime error %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Diagnostic converts the error into a diagnostic whose notes point at the
// enclosing loops, innermost first.
func (e *Error) Diagnostic() diag.Diagnostic {
	d := diag.NewError(e.Code.Diag(), e.Span, e.Message)
	for _, frame := range e.Backtrace {
		d = d.WithNote(frame.Span, fmt.Sprintf("inside loop at depth %d", frame.Depth))
	}
	return d
}

// FormatWithFiles renders the error with resolved file:line:col positions.
func (e *Error) FormatWithFiles(files *source.FileSet) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "runtime error %s: %s\n", e.Code, e.Message)
	sb.WriteString("at ")
	sb.WriteString(formatSpan(e.Span, files))
	sb.WriteString("\n")

	if len(e.Backtrace) > 0 {
		sb.WriteString("backtrace:\n")
		for i, frame := range e.Backtrace {
			fmt.Fprintf(&sb, "  %d: loop depth=%d at %s\n", i, frame.Depth, formatSpan(frame.Span, files))
		}
	}
	return sb.String()
}

// formatSpan formats a span as "file:line:col" or "<no-span>".
func formatSpan(span source.Span, files *source.FileSet) string {
	if files == nil || (span.Start == 0 && span.End == 0) {
		return "<no-span>"
	}
	return files.Position(span)
}

func (m *Machine) makeError(code Code, in *ast.Instr, msg string) *Error {
	e := &Error{
		Code:    code,
		Message: msg,
	}
	if in != nil {
		e.Span = in.Span
	}
	// innermost loop first; stack[0] is the program root
	for i := len(m.stack) - 1; i > 0; i-- {
		e.Backtrace = append(e.Backtrace, BacktraceFrame{Depth: i, Span: m.stack[i].loop.Span})
	}
	return e
}

func (m *Machine) pointerError(in *ast.Instr, dir Direction) *Error {
	var msg string
	if dir == DirLeft {
		msg = "data pointer moved left of cell 0"
	} else {
		msg = fmt.Sprintf("data pointer moved right past cell %d (tape length %d)", len(m.tape)-1, len(m.tape))
	}
	e := m.makeError(PointerOutOfBounds, in, msg)
	e.Direction = dir
	return e
}

func (m *Machine) ioError(code Code, in *ast.Instr, err error) *Error {
	var msg string
	switch code {
	case InputExhausted:
		msg = fmt.Sprintf("input exhausted at cell %d", m.ptr)
	case InputFailed:
		msg = fmt.Sprintf("reading input: %v", err)
	default:
		msg = fmt.Sprintf("writing output: %v", err)
	}
	e := m.makeError(code, in, msg)
	e.Err = err
	return e
}
