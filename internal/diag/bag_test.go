package diag

import (
	"testing"

	"bfi/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	for i := range 3 {
		ok := b.Add(NewError(SynUnmatchedOpen, source.Span{Start: uint32(i)}, "x"))
		if want := i < 2; ok != want {
			t.Fatalf("Add #%d returned %v, want %v", i, ok, want)
		}
	}
	if b.Len() != 2 || b.Cap() != 2 {
		t.Fatalf("Len=%d Cap=%d", b.Len(), b.Cap())
	}
}

func TestBagSeverityQueries(t *testing.T) {
	b := NewBag(4)
	if b.HasErrors() || b.HasWarnings() {
		t.Fatal("empty bag must report nothing")
	}
	b.Add(New(SevWarning, SynEmptyProgram, source.Span{}, "empty"))
	if b.HasErrors() || !b.HasWarnings() {
		t.Fatal("warning only: expected HasWarnings without HasErrors")
	}
	b.Add(NewError(SynUnmatchedClose, source.Span{}, "close"))
	if !b.HasErrors() {
		t.Fatal("expected HasErrors")
	}
}

func TestBagSortDedupMerge(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(SynUnmatchedOpen, source.Span{File: 1, Start: 5, End: 6}, "late"))
	other := NewBag(4)
	other.Add(New(SevWarning, SynEmptyProgram, source.Span{File: 0}, "warn"))
	other.Add(NewError(SynUnmatchedClose, source.Span{File: 0}, "err"))
	other.Add(NewError(SynUnmatchedClose, source.Span{File: 0}, "err again"))

	a.Merge(other)
	if a.Len() != 4 || a.Cap() != 4 {
		t.Fatalf("after merge Len=%d Cap=%d", a.Len(), a.Cap())
	}
	a.Dedup()
	if a.Len() != 3 {
		t.Fatalf("after dedup Len=%d", a.Len())
	}
	a.Sort()
	got := []Code{a.Items()[0].Code, a.Items()[1].Code, a.Items()[2].Code}
	want := []Code{SynUnmatchedClose, SynEmptyProgram, SynUnmatchedOpen}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted codes = %v, want %v", got, want)
		}
	}
}

func TestCodeStrings(t *testing.T) {
	tests := []struct {
		code Code
		id   string
	}{
		{SynUnmatchedOpen, "SYN2001"},
		{RunPointerOutOfBounds, "RUN3001"},
		{IOLoadFileError, "IO4001"},
		{Code(9999), "E0000"},
	}
	for _, tt := range tests {
		if tt.code.ID() != tt.id {
			t.Errorf("ID(%d) = %s, want %s", tt.code, tt.code.ID(), tt.id)
		}
	}
	if Code(9999).Title() != "Unknown error" {
		t.Errorf("unknown code title = %q", Code(9999).Title())
	}
	if got := SynUnmatchedClose.String(); got != "[SYN2002]: unmatched ']'" {
		t.Errorf("String() = %q", got)
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	b := NewBag(4)
	rb := ReportError(BagReporter{Bag: b}, SynUnmatchedOpen, source.Span{}, "open").
		WithNote(source.Span{Start: 1}, "here")
	rb.Emit()
	rb.Emit()
	if b.Len() != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", b.Len())
	}
	if d := b.Items()[0]; len(d.Notes) != 1 || d.Notes[0].Msg != "here" {
		t.Fatalf("note not propagated: %+v", d)
	}
	var nilBuilder *ReportBuilder
	nilBuilder.Emit()
	if nilBuilder.WithNote(source.Span{}, "x") != nil {
		t.Fatal("nil builder must stay nil")
	}
}
