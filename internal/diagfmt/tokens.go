package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"bfi/internal/source"
	"bfi/internal/token"
)

type TokenOutput struct {
	Index int         `json:"index"`
	Kind  string      `json:"kind"`
	Text  string      `json:"text"`
	Span  source.Span `json:"span"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for _, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)
		_, err := fmt.Fprintf(w, "%3d: %-10s %q at %d:%d-%d:%d\n",
			tok.Index, tok.Kind.String(), string(tok.Kind.Char()),
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col)
		if err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, TokenOutput{
			Index: tok.Index,
			Kind:  tok.Kind.String(),
			Text:  string(tok.Kind.Char()),
			Span:  tok.Span,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
