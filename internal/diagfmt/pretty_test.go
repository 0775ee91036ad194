package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"bfi/internal/diag"
	"bfi/internal/source"
)

func unmatchedOpenBag(fs *source.FileSet, id source.FileID, start uint32) *diag.Bag {
	bag := diag.NewBag(10)
	bag.Add(diag.NewError(
		diag.SynUnmatchedOpen,
		source.Span{File: id, Start: start, End: start + 1},
		"unmatched '[' at position 1",
	).WithNote(source.Span{File: id, Start: 0, End: 1}, "program starts here"))
	return bag
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/home/user/project/src/test.bf", []byte("+\n[+>\n"))
	fs.SetBaseDir("/home/user/project")
	bag := unmatchedOpenBag(fs, fileID, 2)

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.bf:2:1"},
		{"Relative path", PathModeRelative, "src/test.bf:2:1"},
		{"Basename only", PathModeBasename, "test.bf:2:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR") || !strings.Contains(output, "SYN2001") {
				t.Errorf("Expected severity and code in output, got:\n%s", output)
			}
		})
	}
}

func TestPrettySnippet(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.bf", []byte("+\n[+>\n"))
	bag := unmatchedOpenBag(fs, id, 2)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})

	want := "test.bf:2:1: ERROR SYN2001: unmatched '[' at position 1\n" +
		"2 | [+>\n" +
		"  | ^\n" +
		"  note: test.bf:1:1: program starts here\n"
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestPrettyContextLines(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("ctx.bf", []byte("+\n+\n[\n+\n+"))
	bag := unmatchedOpenBag(fs, id, 4)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Context: 1})

	for _, want := range []string{"2 | +\n", "3 | [\n", "  | ^\n", "4 | +\n"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("missing %q in:\n%s", want, buf.String())
		}
	}
	if strings.Contains(buf.String(), "5 |") || strings.Contains(buf.String(), "1 |") {
		t.Errorf("context leaked beyond one line:\n%s", buf.String())
	}
}

func TestPrettyCaretUnderWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	// "日本 " is 7 bytes but 5 columns wide
	id := fs.AddVirtual("wide.bf", []byte("日本 ]"))
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.SynUnmatchedClose, source.Span{File: id, Start: 7, End: 8}, "unmatched ']'"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})

	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
	if want := "  | " + strings.Repeat(" ", 5) + "^"; lines[2] != want {
		t.Fatalf("caret line = %q, want %q", lines[2], want)
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("c.bf", []byte("["))
	bag := unmatchedOpenBag(fs, id, 0)

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})

	if strings.Contains(plain.String(), "\x1b[") {
		t.Error("plain output contains escape sequences")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Error("colored output has no escape sequences")
	}
}

func TestCaretMarksSpanWidth(t *testing.T) {
	got := caretMarks("ab[+-]", source.LineCol{Line: 1, Col: 3}, source.LineCol{Line: 1, Col: 7})
	if got != "^~~~" {
		t.Fatalf("caretMarks = %q", got)
	}
	got = caretMarks("[", source.LineCol{Line: 1, Col: 1}, source.LineCol{Line: 3, Col: 1})
	if got != "^" {
		t.Fatalf("multi-line span caret = %q", got)
	}
}

func TestPrettyComposesSnippetOnly(t *testing.T) {
	fs := source.NewFileSet()
	src := ">\u0338]"
	id := fs.AddVirtual("m.bf", []byte(src))
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.SynUnmatchedClose, source.Span{File: id, Start: 3, End: 4}, "unmatched ']'"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})

	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
	if want := "1 | \u226f]"; lines[1] != want {
		t.Fatalf("snippet = %q, want %q", lines[1], want)
	}
	if want := "  |  ^"; lines[2] != want {
		t.Fatalf("caret line = %q, want %q", lines[2], want)
	}
	if string(fs.Get(id).Content) != src {
		t.Fatal("rendering must not touch file content")
	}
}
