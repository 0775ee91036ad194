package lexer

import (
	"strings"

	"bfi/internal/source"
	"bfi/internal/token"
)

// Lexer turns source bytes into instruction tokens. Every byte outside the
// instruction alphabet is skipped; lexing never fails.
type Lexer struct {
	file   *source.File
	cursor Cursor
	count  int // tokens emitted so far, becomes Token.Index
}

func New(file *source.File) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
	}
}

// Next returns the next instruction token. After the input is exhausted it
// always returns EOF.
func (lx *Lexer) Next() token.Token {
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		kind, ok := token.Lookup(lx.cursor.Bump())
		if !ok {
			continue
		}
		tok := token.Token{
			Kind:  kind,
			Index: lx.count,
			Span:  lx.cursor.SpanFrom(start),
		}
		lx.count++
		return tok
	}
	return token.Token{
		Kind:  token.EOF,
		Index: lx.count,
		Span:  lx.EmptySpan(),
	}
}

// EmptySpan returns a zero-width span at the cursor.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// Tokenize lexes the whole file. The returned slice never contains EOF.
func Tokenize(file *source.File) []token.Token {
	lx := New(file)
	tokens := make([]token.Token, 0, len(file.Content))
	for {
		tok := lx.Next()
		if tok.Kind.IsEOF() {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// Canonical re-serializes tokens to their canonical characters.
func Canonical(tokens []token.Token) string {
	var sb strings.Builder
	sb.Grow(len(tokens))
	for _, tok := range tokens {
		if c := tok.Kind.Char(); c != 0 {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
