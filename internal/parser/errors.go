package parser

import (
	"fmt"

	"bfi/internal/diag"
	"bfi/internal/source"
)

type ErrorKind uint8

const (
	UnmatchedOpenBracket ErrorKind = iota + 1
	UnmatchedCloseBracket
)

func (k ErrorKind) String() string {
	switch k {
	case UnmatchedOpenBracket:
		return "UnmatchedOpenBracket"
	case UnmatchedCloseBracket:
		return "UnmatchedCloseBracket"
	}
	return "ErrorKind(?)"
}

// Error is a structural parse failure. Pos is the index of the offending
// bracket in the filtered token sequence; for an unclosed loop it is the
// outermost '[' still open at end of input.
type Error struct {
	Kind ErrorKind
	Pos  int
	Span source.Span
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnmatchedOpenBracket:
		return fmt.Sprintf("unmatched '[' at position %d", e.Pos)
	case UnmatchedCloseBracket:
		return fmt.Sprintf("unmatched ']' at position %d", e.Pos)
	}
	return fmt.Sprintf("parse error at position %d", e.Pos)
}

// Code maps the error to its diagnostic code.
func (e *Error) Code() diag.Code {
	if e.Kind == UnmatchedCloseBracket {
		return diag.SynUnmatchedClose
	}
	return diag.SynUnmatchedOpen
}
