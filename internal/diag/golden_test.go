package diag

import (
	"testing"

	"bfi/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir(".")
	id := fs.AddVirtual("prog.bf", []byte("+\n[+\n]]"))

	diags := []Diagnostic{
		NewError(SynUnmatchedClose, source.Span{File: id, Start: 6, End: 7}, "unmatched ']'\nat token 3"),
		NewError(SynUnmatchedOpen, source.Span{File: id, Start: 2, End: 3}, "unmatched '['").
			WithNote(source.Span{File: id, Start: 0, End: 1}, "program starts here"),
	}

	got := FormatShortDiagnostics(diags, fs, true)
	want := "note SYN2001 prog.bf:1:1 program starts here\n" +
		"error SYN2001 prog.bf:2:1 unmatched '['\n" +
		"error SYN2002 prog.bf:3:2 unmatched ']' at token 3"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}

	if FormatShortDiagnostics(nil, fs, false) != "" {
		t.Fatal("expected empty output for no diagnostics")
	}
}
