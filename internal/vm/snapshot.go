package vm

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot captures machine state. Cells holds the tape up to the last
// non-zero cell; the rest of TapeLen is implicitly zero.
type Snapshot struct {
	TapeLen int    `msgpack:"tape_len"`
	Ptr     int    `msgpack:"ptr"`
	Steps   uint64 `msgpack:"steps"`
	Cells   []byte `msgpack:"cells"`
}

// Snapshot copies the current state.
func (m *Machine) Snapshot() Snapshot {
	last := len(m.tape)
	for last > 0 && m.tape[last-1] == 0 {
		last--
	}
	cells := make([]byte, last)
	copy(cells, m.tape[:last])
	return Snapshot{
		TapeLen: len(m.tape),
		Ptr:     m.ptr,
		Steps:   m.steps,
		Cells:   cells,
	}
}

// Restore replaces tape, pointer and step counter with s.
func (m *Machine) Restore(s Snapshot) error {
	if s.TapeLen <= 0 || len(s.Cells) > s.TapeLen {
		return fmt.Errorf("snapshot: invalid tape length %d for %d cells", s.TapeLen, len(s.Cells))
	}
	if s.Ptr < 0 || s.Ptr >= s.TapeLen {
		return fmt.Errorf("snapshot: pointer %d outside tape of %d cells", s.Ptr, s.TapeLen)
	}
	m.tape = make([]byte, s.TapeLen)
	copy(m.tape, s.Cells)
	m.ptr = s.Ptr
	m.steps = s.Steps
	return nil
}

// WriteSnapshot encodes s with msgpack.
func WriteSnapshot(w io.Writer, s Snapshot) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(&s); err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: decode: %w", err)
	}
	return s, nil
}
