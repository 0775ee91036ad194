package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"bfi/internal/ast"
	"bfi/internal/source"
)

type ProgramNodeOutput struct {
	Op       string              `json:"op"`
	Span     source.Span         `json:"span"`
	Children []ProgramNodeOutput `json:"children,omitempty"`
}

type ProgramOutput struct {
	File   string              `json:"file,omitempty"`
	Stats  ast.Stats           `json:"stats"`
	Instrs []ProgramNodeOutput `json:"instrs"`
}

// FormatProgramPretty печатает дерево инструкций.
// Runs of identical leaves are folded into one line with a repeat count.
func FormatProgramPretty(w io.Writer, prog *ast.Program, fs *source.FileSet) error {
	header := "Program"
	if fs != nil {
		if f := fs.Get(prog.File); f != nil {
			header = f.FormatPath("auto", fs.BaseDir())
		}
	}
	st := prog.Stats()
	if _, err := fmt.Fprintf(w, "%s (instrs: %d, loops: %d, depth: %d)\n", header, st.Instrs, st.Loops, st.MaxDepth); err != nil {
		return err
	}
	return formatInstrsPretty(w, prog.Instrs, fs, "")
}

func formatInstrsPretty(w io.Writer, instrs []ast.Instr, fs *source.FileSet, prefix string) error {
	for i := 0; i < len(instrs); {
		in := &instrs[i]
		run := 1
		if !in.IsLoop() {
			for i+run < len(instrs) && instrs[i+run].Op == in.Op {
				run++
			}
		}
		branch, childPrefix := "├─ ", prefix+"│  "
		if i+run == len(instrs) {
			branch, childPrefix = "└─ ", prefix+"   "
		}

		span, label := in.Span, in.Op.String()
		if run > 1 {
			span = span.Cover(instrs[i+run-1].Span)
			label = fmt.Sprintf("%s x%d", label, run)
		}
		if _, err := fmt.Fprintf(w, "%s%s%s (span: %s)\n", prefix, branch, label, formatSpan(span, fs)); err != nil {
			return err
		}
		if in.IsLoop() {
			if err := formatInstrsPretty(w, in.Body, fs, childPrefix); err != nil {
				return err
			}
		}
		i += run
	}
	return nil
}

// FormatProgramJSON выводит дерево инструкций в JSON.
func FormatProgramJSON(w io.Writer, prog *ast.Program, fs *source.FileSet) error {
	out := ProgramOutput{
		Stats:  prog.Stats(),
		Instrs: programNodes(prog.Instrs),
	}
	if fs != nil {
		if f := fs.Get(prog.File); f != nil {
			out.File = f.Path
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func programNodes(instrs []ast.Instr) []ProgramNodeOutput {
	nodes := make([]ProgramNodeOutput, 0, len(instrs))
	for i := range instrs {
		in := &instrs[i]
		node := ProgramNodeOutput{Op: in.Op.String(), Span: in.Span}
		if in.IsLoop() {
			node.Children = programNodes(in.Body)
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// formatSpan formats a source.Span into a string.
// If fs is non-nil, it resolves the span to start and end positions and returns "startLine:startCol-endLine:endCol".
// If fs is nil, it returns "span(start-end)".
func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil && fs.Get(span.File) != nil {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}
