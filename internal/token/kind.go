package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid is the zero Kind; the lexer never produces it.
	Invalid Kind = iota
	// IncPtr is '>'.
	IncPtr
	// DecPtr is '<'.
	DecPtr
	// Inc is '+'.
	Inc
	// Dec is '-'.
	Dec
	// Output is '.'.
	Output
	// Input is ','.
	Input
	// LoopStart is '['.
	LoopStart
	// LoopEnd is ']'.
	LoopEnd
	// EOF marks the end of the source input.
	EOF
)

var kindChars = [...]byte{
	IncPtr:    '>',
	DecPtr:    '<',
	Inc:       '+',
	Dec:       '-',
	Output:    '.',
	Input:     ',',
	LoopStart: '[',
	LoopEnd:   ']',
}

var kindNames = [...]string{
	Invalid:   "Invalid",
	IncPtr:    "IncPtr",
	DecPtr:    "DecPtr",
	Inc:       "Inc",
	Dec:       "Dec",
	Output:    "Output",
	Input:     "Input",
	LoopStart: "LoopStart",
	LoopEnd:   "LoopEnd",
	EOF:       "EOF",
}

// Lookup maps a source byte to its Kind. ok is false for every byte
// outside the instruction alphabet.
func Lookup(b byte) (k Kind, ok bool) {
	switch b {
	case '>':
		return IncPtr, true
	case '<':
		return DecPtr, true
	case '+':
		return Inc, true
	case '-':
		return Dec, true
	case '.':
		return Output, true
	case ',':
		return Input, true
	case '[':
		return LoopStart, true
	case ']':
		return LoopEnd, true
	}
	return Invalid, false
}

// Char returns the canonical source character for k, or 0 for Invalid and EOF.
func (k Kind) Char() byte {
	if int(k) < len(kindChars) {
		return kindChars[k]
	}
	return 0
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsBracket reports whether k is '[' or ']'.
func (k Kind) IsBracket() bool {
	return k == LoopStart || k == LoopEnd
}

func (k Kind) IsEOF() bool {
	return k == EOF
}
