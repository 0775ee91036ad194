package vm

import "fmt"

// DefaultTapeSize is the classic tape length.
const DefaultTapeSize = 30000

// growChunk is how many zero cells PointerGrow appends at a time.
const growChunk = 4096

// PointerPolicy decides what happens when '>' or '<' leaves the tape.
type PointerPolicy uint8

const (
	// PointerFail reports PointerOutOfBounds in either direction.
	PointerFail PointerPolicy = iota
	// PointerGrow extends the tape to the right; moving left of cell 0 still fails.
	PointerGrow
)

func (p PointerPolicy) String() string {
	switch p {
	case PointerFail:
		return "fail"
	case PointerGrow:
		return "grow"
	}
	return fmt.Sprintf("PointerPolicy(%d)", p)
}

// ParsePointerPolicy accepts "fail" or "grow".
func ParsePointerPolicy(s string) (PointerPolicy, error) {
	switch s {
	case "fail":
		return PointerFail, nil
	case "grow":
		return PointerGrow, nil
	}
	return PointerFail, fmt.Errorf("unknown pointer policy %q (want fail|grow)", s)
}

// EOFPolicy decides what ',' does once input is exhausted.
type EOFPolicy uint8

const (
	// EOFFail reports InputExhausted.
	EOFFail EOFPolicy = iota
	// EOFZero stores 0 in the current cell.
	EOFZero
	// EOFKeep leaves the current cell unchanged.
	EOFKeep
)

func (p EOFPolicy) String() string {
	switch p {
	case EOFFail:
		return "fail"
	case EOFZero:
		return "zero"
	case EOFKeep:
		return "keep"
	}
	return fmt.Sprintf("EOFPolicy(%d)", p)
}

// ParseEOFPolicy accepts "fail", "zero" or "keep".
func ParseEOFPolicy(s string) (EOFPolicy, error) {
	switch s {
	case "fail":
		return EOFFail, nil
	case "zero":
		return EOFZero, nil
	case "keep":
		return EOFKeep, nil
	}
	return EOFFail, fmt.Errorf("unknown eof policy %q (want fail|zero|keep)", s)
}

// Options configures a Machine.
type Options struct {
	TapeSize int // <= 0 means DefaultTapeSize
	Pointer  PointerPolicy
	EOF      EOFPolicy
}

// DefaultOptions returns a 30000-cell tape with both policies set to fail.
func DefaultOptions() Options {
	return Options{TapeSize: DefaultTapeSize}
}
