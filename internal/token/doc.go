// Package token defines the instruction token kinds of the tape language.
// Invariants:
//   - Every Kind except EOF corresponds 1:1 to one source character (> < + - . , [ ]).
//   - Token.Index is the position in the filtered token sequence, not a byte offset.
//   - Token.Span covers exactly the one source byte the token was lexed from.
package token
