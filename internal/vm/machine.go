package vm

import (
	"errors"
	"io"
	"strconv"

	"bfi/internal/ast"
	"bfi/internal/trace"
)

type flusher interface {
	Flush() error
}

// Machine executes a parsed program on a byte tape.
//
// Loops run on an explicit frame stack, so nesting depth is bounded only by
// memory. A Machine is single-use: build a fresh one for every run.
type Machine struct {
	opts  Options
	tape  []byte
	ptr   int
	in    io.Reader
	out   io.Writer
	steps uint64
	stack []Frame
	trace *Tracer
	// events receives loop-entry points for the structured trace.
	events trace.Tracer

	started bool
	halted  bool
	inBuf   [1]byte
}

// New creates a machine with a zeroed tape and the pointer at cell 0.
// in and out may be nil; reading from a nil input behaves like EOF.
func New(opts Options, in io.Reader, out io.Writer, trace *Tracer) *Machine {
	if opts.TapeSize <= 0 {
		opts.TapeSize = DefaultTapeSize
	}
	if out == nil {
		out = io.Discard
	}
	return &Machine{
		opts:  opts,
		tape:  make([]byte, opts.TapeSize),
		in:    in,
		out:   out,
		trace: trace,
	}
}

// Run executes prog to completion. The sink is flushed before returning,
// also after a runtime error.
func (m *Machine) Run(prog *ast.Program) error {
	m.Start(prog)
	for !m.halted {
		if err := m.Step(); err != nil {
			_ = m.flush()
			return err
		}
	}
	if err := m.flush(); err != nil {
		return m.ioError(OutputFailed, nil, err)
	}
	return nil
}

// SetEvents attaches a structured tracer that is told about loop entries.
func (m *Machine) SetEvents(t trace.Tracer) {
	if t != nil && t.Enabled() {
		m.events = t
	}
}

// Start loads prog into the root frame without executing anything.
func (m *Machine) Start(prog *ast.Program) {
	m.stack = m.stack[:0]
	m.stack = append(m.stack, Frame{body: prog.Instrs})
	m.started = true
	m.halted = false
}

// Step executes one leaf instruction or one loop condition check.
func (m *Machine) Step() *Error {
	if !m.started || m.halted {
		return nil
	}
	top := &m.stack[len(m.stack)-1]

	if top.AtEnd() {
		if top.loop == nil {
			m.stack = m.stack[:0]
			m.halted = true
			return nil
		}
		// конец тела: повторная проверка условия цикла
		m.steps++
		m.trace.traceLoopBack(m, top.loop)
		if m.tape[m.ptr] != 0 {
			top.ip = 0
		} else {
			m.stack = m.stack[:len(m.stack)-1]
		}
		return nil
	}

	in := &top.body[top.ip]
	top.ip++
	m.steps++
	m.trace.traceInstr(m, in)

	switch in.Op {
	case ast.OpIncPtr:
		if m.ptr+1 >= len(m.tape) {
			if m.opts.Pointer != PointerGrow {
				return m.pointerError(in, DirRight)
			}
			m.tape = append(m.tape, make([]byte, growChunk)...)
		}
		m.ptr++
	case ast.OpDecPtr:
		if m.ptr == 0 {
			return m.pointerError(in, DirLeft)
		}
		m.ptr--
	case ast.OpInc:
		m.tape[m.ptr]++
	case ast.OpDec:
		m.tape[m.ptr]--
	case ast.OpOutput:
		if err := m.writeByte(m.tape[m.ptr]); err != nil {
			return m.ioError(OutputFailed, in, err)
		}
	case ast.OpInput:
		return m.input(in)
	case ast.OpLoop:
		if m.tape[m.ptr] != 0 {
			m.stack = append(m.stack, Frame{body: in.Body, loop: in})
			if m.events != nil {
				trace.Point(m.events, trace.ScopeLoop, "loop.enter", "depth="+strconv.Itoa(len(m.stack)-1))
			}
		}
	}
	return nil
}

func (m *Machine) input(in *ast.Instr) *Error {
	// вывод должен дойти до пользователя до блокировки на вводе
	if err := m.flush(); err != nil {
		return m.ioError(OutputFailed, in, err)
	}
	b, err := m.readByte()
	switch {
	case err == nil:
		m.tape[m.ptr] = b
	case errors.Is(err, io.EOF):
		switch m.opts.EOF {
		case EOFZero:
			m.tape[m.ptr] = 0
		case EOFKeep:
		default:
			return m.ioError(InputExhausted, in, err)
		}
	default:
		return m.ioError(InputFailed, in, err)
	}
	return nil
}

func (m *Machine) readByte() (byte, error) {
	if m.in == nil {
		return 0, io.EOF
	}
	if br, ok := m.in.(io.ByteReader); ok {
		return br.ReadByte()
	}
	if _, err := io.ReadFull(m.in, m.inBuf[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			err = io.EOF
		}
		return 0, err
	}
	return m.inBuf[0], nil
}

func (m *Machine) writeByte(b byte) error {
	if bw, ok := m.out.(io.ByteWriter); ok {
		return bw.WriteByte(b)
	}
	_, err := m.out.Write([]byte{b})
	return err
}

func (m *Machine) flush() error {
	if f, ok := m.out.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// Halted reports whether the program ran to completion.
func (m *Machine) Halted() bool { return m.halted }

// Ptr returns the data pointer.
func (m *Machine) Ptr() int { return m.ptr }

// Tape returns the live tape. Callers must not modify it.
func (m *Machine) Tape() []byte { return m.tape }

// Cell returns the value under the pointer.
func (m *Machine) Cell() byte { return m.tape[m.ptr] }

// Steps counts executed leaf instructions and loop checks.
func (m *Machine) Steps() uint64 { return m.steps }

// Depth is the number of loops currently iterating.
func (m *Machine) Depth() int {
	if len(m.stack) == 0 {
		return 0
	}
	return len(m.stack) - 1
}

// Options returns the effective configuration.
func (m *Machine) Options() Options { return m.opts }
