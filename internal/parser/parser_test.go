package parser_test

import (
	"errors"
	"strings"
	"testing"

	"bfi/internal/ast"
	"bfi/internal/diag"
	"bfi/internal/lexer"
	"bfi/internal/parser"
	"bfi/internal/source"
	"bfi/internal/testkit"
	"bfi/internal/token"
)

func tokenize(t *testing.T, src string) (*source.FileSet, source.FileID, []token.Token) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.bf", []byte(src))
	return fs, id, lexer.Tokenize(fs.Get(id))
}

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	_, id, toks := tokenize(t, src)
	prog, err := parser.Parse(toks, parser.Options{File: id})
	if err != nil {
		t.Fatalf("Parse(%q): unexpected error: %v", src, err)
	}
	return prog
}

func TestParseBracketFreeIsOneToOne(t *testing.T) {
	src := "+-><.,  hello +"
	_, _, toks := tokenize(t, src)
	prog := mustParse(t, src)
	if len(prog.Instrs) != len(toks) {
		t.Fatalf("got %d instructions for %d tokens", len(prog.Instrs), len(toks))
	}
	want := []ast.Op{ast.OpInc, ast.OpDec, ast.OpIncPtr, ast.OpDecPtr, ast.OpOutput, ast.OpInput, ast.OpInc}
	for i, op := range want {
		if prog.Instrs[i].Op != op {
			t.Errorf("instr %d: got %s, want %s", i, prog.Instrs[i].Op, op)
		}
		if prog.Instrs[i].Span != toks[i].Span {
			t.Errorf("instr %d: span %v, want %v", i, prog.Instrs[i].Span, toks[i].Span)
		}
	}
}

func TestParseLoopStructure(t *testing.T) {
	prog := mustParse(t, "+>+<[->+<]")
	if len(prog.Instrs) != 5 {
		t.Fatalf("expected 5 top-level instructions, got %d", len(prog.Instrs))
	}
	loop := prog.Instrs[4]
	if !loop.IsLoop() {
		t.Fatalf("last instruction is %s, want loop", loop.Op)
	}
	if got := ast.Source(loop.Body); got != "->+<" {
		t.Fatalf("loop body = %q", got)
	}
	if loop.Span.Start != 4 || loop.Span.End != 10 {
		t.Fatalf("loop span = %v, want 4..10", loop.Span)
	}
}

func TestParseRoundTripsCanonicalSource(t *testing.T) {
	tests := []string{
		"",
		"[]",
		"[[]]",
		"+[>[-]<.]",
		"[[[[+]]]-][.]",
		"++++++++[>++++[>++>+++<<-]>+<<-]>>.",
	}
	for _, src := range tests {
		fs, id, toks := tokenize(t, src)
		prog, err := parser.Parse(toks, parser.Options{File: id})
		if err != nil {
			t.Fatalf("Parse(%q): %v", src, err)
		}
		if got := ast.Source(prog.Instrs); got != src {
			t.Errorf("Source(Parse(%q)) = %q", src, got)
		}
		if err := testkit.CheckSpanInvariants(prog, fs.Get(id)); err != nil {
			t.Errorf("Parse(%q): %v", src, err)
		}
	}
}

func TestParseOneLoopPerPair(t *testing.T) {
	prog := mustParse(t, "[[][[]]]+[]")
	st := prog.Stats()
	if st.Loops != 5 {
		t.Fatalf("loops = %d, want 5", st.Loops)
	}
	if st.MaxDepth != 3 {
		t.Fatalf("max depth = %d, want 3", st.MaxDepth)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		kind parser.ErrorKind
		pos  int
	}{
		{"[+", parser.UnmatchedOpenBracket, 0},
		{"]", parser.UnmatchedCloseBracket, 0},
		{"+]", parser.UnmatchedCloseBracket, 1},
		{"[[]", parser.UnmatchedOpenBracket, 0},
		{"+[]][", parser.UnmatchedCloseBracket, 3},
		{"x [ y", parser.UnmatchedOpenBracket, 0},
		{"[]+[[-]", parser.UnmatchedOpenBracket, 3},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, _, toks := tokenize(t, tt.src)
			prog, err := parser.Parse(toks, parser.Options{})
			if prog != nil {
				t.Fatalf("expected nil program on error")
			}
			var pe *parser.Error
			if !errors.As(err, &pe) {
				t.Fatalf("expected *parser.Error, got %T (%v)", err, err)
			}
			if pe.Kind != tt.kind || pe.Pos != tt.pos {
				t.Fatalf("got %s at %d, want %s at %d", pe.Kind, pe.Pos, tt.kind, tt.pos)
			}
			if pe.Span != toks[tt.pos].Span {
				t.Fatalf("span %v, want %v", pe.Span, toks[tt.pos].Span)
			}
		})
	}
}

func TestParseReportsDiagnostic(t *testing.T) {
	fs, id, toks := tokenize(t, "+\n+]")
	bag := diag.NewBag(8)
	_, err := parser.Parse(toks, parser.Options{File: id, Reporter: diag.BagReporter{Bag: bag}})
	if err == nil {
		t.Fatal("expected error")
	}
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.SynUnmatchedClose || d.Severity != diag.SevError {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if pos := fs.Position(d.Primary); pos != "test.bf:2:2" {
		t.Fatalf("position = %s", pos)
	}
}

func TestParseEmptyProgramWarns(t *testing.T) {
	_, id, toks := tokenize(t, "no instructions here")
	bag := diag.NewBag(8)
	prog, err := parser.Parse(toks, parser.Options{File: id, Reporter: diag.BagReporter{Bag: bag}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Instrs) != 0 {
		t.Fatalf("expected empty program")
	}
	if bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("expected a single warning, got %d items", bag.Len())
	}
}

func TestParseIgnoresEOFToken(t *testing.T) {
	toks := []token.Token{
		{Kind: token.Inc, Index: 0},
		{Kind: token.EOF, Index: 1},
	}
	prog, err := parser.Parse(toks, parser.Options{})
	if err != nil || len(prog.Instrs) != 1 {
		t.Fatalf("got %v, %v", prog, err)
	}
}

func TestParseDeepNesting(t *testing.T) {
	const depth = 5000
	src := strings.Repeat("[", depth) + "+" + strings.Repeat("]", depth)
	prog := mustParse(t, src)
	if st := prog.Stats(); st.MaxDepth != depth || st.Loops != depth {
		t.Fatalf("stats = %+v", st)
	}
}

func BenchmarkParse(b *testing.B) {
	fs := source.NewFileSet()
	src := strings.Repeat("++[>+<-]>[-]<", 2000)
	id := fs.AddVirtual("bench.bf", []byte(src))
	toks := lexer.Tokenize(fs.Get(id))
	b.ResetTimer()
	for b.Loop() {
		if _, err := parser.Parse(toks, parser.Options{File: id}); err != nil {
			b.Fatal(err)
		}
	}
}
