package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"bfi/internal/ast"
	"bfi/internal/diag"
	"bfi/internal/lexer"
	"bfi/internal/parser"
	"bfi/internal/source"
)

func TestJSONDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("j.bf", []byte("+\n[+>\n]]"))
	bag := unmatchedOpenBag(fs, id, 2)
	bag.Add(diag.NewError(diag.SynUnmatchedClose, source.Span{File: id, Start: 7, End: 8}, "unmatched ']'"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true, PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("count = %d", out.Count)
	}
	first := out.Diagnostics[0]
	if first.Code != "SYN2001" || first.Severity != "ERROR" {
		t.Fatalf("first = %+v", first)
	}
	if first.Location.File != "j.bf" || first.Location.StartLine != 2 || first.Location.StartCol != 1 {
		t.Fatalf("location = %+v", first.Location)
	}
	if len(first.Notes) != 1 || first.Notes[0].Location.StartLine != 1 {
		t.Fatalf("notes = %+v", first.Notes)
	}
}

func TestJSONMaxAndPositions(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("j.bf", []byte("[[["))
	bag := diag.NewBag(3)
	for i := range uint32(3) {
		bag.Add(diag.NewError(diag.SynUnmatchedOpen, source.Span{File: id, Start: i, End: i + 1}, "open"))
	}

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if out.Count != 2 {
		t.Fatalf("count = %d, want 2", out.Count)
	}
	if out.Diagnostics[0].Location.StartLine != 0 {
		t.Fatal("positions must be omitted unless requested")
	}
	if out.Diagnostics[0].Notes != nil {
		t.Fatal("notes must be omitted unless requested")
	}
}

func parseVirtual(t *testing.T, src string) (*source.FileSet, *ast.Program) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.bf", []byte(src))
	prog, err := parser.Parse(lexer.Tokenize(fs.Get(id)), parser.Options{File: id})
	if err != nil {
		t.Fatal(err)
	}
	return fs, prog
}

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.bf", []byte("a>\n["))
	toks := lexer.Tokenize(fs.Get(id))

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	want := "  0: IncPtr     \">\" at 1:2-1:3\n" +
		"  1: LoopStart  \"[\" at 2:1-2:2\n"
	if buf.String() != want {
		t.Fatalf("got:\n%q\nwant:\n%q", buf.String(), want)
	}

	buf.Reset()
	if err := FormatTokensJSON(&buf, toks); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[1].Kind != "LoopStart" || out[1].Text != "[" || out[1].Index != 1 {
		t.Fatalf("json tokens = %+v", out)
	}
}

func TestFormatProgramPretty(t *testing.T) {
	fs, prog := parseVirtual(t, "+++[>-]<")
	var buf bytes.Buffer
	if err := FormatProgramPretty(&buf, prog, fs); err != nil {
		t.Fatal(err)
	}
	want := "p.bf (instrs: 7, loops: 1, depth: 1)\n" +
		"├─ inc x3 (span: 1:1-1:4)\n" +
		"├─ loop (span: 1:4-1:8)\n" +
		"│  ├─ inc_ptr (span: 1:5-1:6)\n" +
		"│  └─ dec (span: 1:6-1:7)\n" +
		"└─ dec_ptr (span: 1:8-1:9)\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestFormatProgramJSON(t *testing.T) {
	fs, prog := parseVirtual(t, "+[[-]]")
	var buf bytes.Buffer
	if err := FormatProgramJSON(&buf, prog, fs); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"max_depth": 2`) {
		t.Fatalf("stats missing:\n%s", buf.String())
	}
	var out ProgramOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.File != "p.bf" || len(out.Instrs) != 2 {
		t.Fatalf("out = %+v", out)
	}
	inner := out.Instrs[1].Children
	if len(inner) != 1 || inner[0].Op != "loop" || inner[0].Children[0].Op != "dec" {
		t.Fatalf("nested = %+v", inner)
	}
}
