package token

import (
	"bfi/internal/source"
)

// Token represents a single instruction token with its location.
type Token struct {
	Kind  Kind
	Index int // position in the filtered token sequence
	Span  source.Span
}

// IsBracket reports whether the token opens or closes a loop.
func (t Token) IsBracket() bool { return t.Kind.IsBracket() }

func (t Token) String() string {
	if c := t.Kind.Char(); c != 0 {
		return t.Kind.String() + " '" + string(c) + "'"
	}
	return t.Kind.String()
}
