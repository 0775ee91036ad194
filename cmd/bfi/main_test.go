package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bfi/internal/vm"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func testdata(name string) string {
	return filepath.Join("..", "..", "testdata", name)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"two files", []string{"a.bf", "b.bf"}},
		{"unknown flag", []string{"--no-such-flag", "a.bf"}},
		{"bad pointer policy", []string{"--pointer", "sideways", testdata("move.bf")}},
		{"bad eof policy", []string{"run", "--eof", "maybe", testdata("move.bf")}},
		{"bad tape size", []string{"--tape-size", "0", testdata("move.bf")}},
		{"run without file", []string{"run"}},
		{"check without files", []string{"check"}},
		{"bad ui mode", []string{"check", "--ui", "sometimes", testdata("move.bf")}},
		{"bad trace level", []string{"--trace-level", "loud", testdata("move.bf")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "", tt.args...)
			if res.code != exitUsage {
				t.Fatalf("exit code = %d, want %d\nstderr: %s", res.code, exitUsage, res.stderr)
			}
			if !strings.Contains(res.stderr, "Usage:") {
				t.Errorf("usage not printed:\n%s", res.stderr)
			}
			if res.stdout != "" {
				t.Errorf("stdout = %q", res.stdout)
			}
		})
	}
}

func TestRunHello(t *testing.T) {
	for _, args := range [][]string{
		{testdata("hello.bf")},
		{"run", testdata("hello.bf")},
	} {
		res := runCLI(t, "", args...)
		if res.code != exitOK || res.stdout != "Hello World!\n" {
			t.Fatalf("%v: code=%d stdout=%q stderr=%s", args, res.code, res.stdout, res.stderr)
		}
	}
}

func TestRunEOFPolicies(t *testing.T) {
	res := runCLI(t, "abc", "--eof", "zero", testdata("cat.bf"))
	if res.code != exitOK || res.stdout != "abc" {
		t.Fatalf("zero: code=%d stdout=%q stderr=%s", res.code, res.stdout, res.stderr)
	}

	// по умолчанию конец ввода - ошибка, но вывод до неё сохраняется
	res = runCLI(t, "ab", testdata("cat.bf"))
	if res.code != exitError || res.stdout != "ab" {
		t.Fatalf("fail: code=%d stdout=%q", res.code, res.stdout)
	}
	if !strings.Contains(res.stderr, "runtime error VM1002") {
		t.Fatalf("stderr = %s", res.stderr)
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		file string
		code string
		pos  string
	}{
		{"unmatched_open.bf", "SYN2001", "unmatched_open.bf:1:2"},
		{"unmatched_close.bf", "SYN2002", "unmatched_close.bf:1:2"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			res := runCLI(t, "", testdata(tt.file))
			if res.code != exitError {
				t.Fatalf("exit code = %d", res.code)
			}
			if !strings.Contains(res.stderr, tt.code) || !strings.Contains(res.stderr, tt.pos) {
				t.Fatalf("stderr = %s", res.stderr)
			}
			if res.stdout != "" {
				t.Fatalf("program must not run: stdout = %q", res.stdout)
			}
		})
	}
}

func TestRuntimeError(t *testing.T) {
	res := runCLI(t, "", testdata("left_edge.bf"))
	if res.code != exitError {
		t.Fatalf("exit code = %d", res.code)
	}
	if !strings.Contains(res.stderr, "runtime error VM1001") || !strings.Contains(res.stderr, "left_edge.bf:1:1") {
		t.Fatalf("stderr = %s", res.stderr)
	}
}

func TestMissingFile(t *testing.T) {
	res := runCLI(t, "", filepath.Join(t.TempDir(), "nope.bf"))
	if res.code != exitError || !strings.Contains(res.stderr, "error:") {
		t.Fatalf("code=%d stderr=%s", res.code, res.stderr)
	}
}

func TestConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	prog := writeFile(t, dir, "right.bf", ">>.")
	writeFile(t, dir, "bfi.toml", "[machine]\ntape_size = 2\n")

	res := runCLI(t, "", prog)
	if res.code != exitError || !strings.Contains(res.stderr, "VM1001") {
		t.Fatalf("bfi.toml tape size ignored: code=%d stderr=%s", res.code, res.stderr)
	}

	res = runCLI(t, "", "--pointer", "grow", prog)
	if res.code != exitOK || res.stdout != "\x00" {
		t.Fatalf("flag override: code=%d stdout=%q stderr=%s", res.code, res.stdout, res.stderr)
	}

	other := writeFile(t, t.TempDir(), "wide.toml", "[machine]\ntape_size = 16\n")
	res = runCLI(t, "", "--config", other, prog)
	if res.code != exitOK {
		t.Fatalf("--config: code=%d stderr=%s", res.code, res.stderr)
	}

	bad := writeFile(t, t.TempDir(), "bad.toml", "[machine]\ncolour = 1\n")
	res = runCLI(t, "", "--config", bad, prog)
	if res.code != exitError || !strings.Contains(res.stderr, "unknown keys") {
		t.Fatalf("bad config: code=%d stderr=%s", res.code, res.stderr)
	}
}

func TestDumpState(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.msgpack")
	res := runCLI(t, "", "--dump-state", statePath, testdata("move.bf"))
	if res.code != exitOK {
		t.Fatalf("code=%d stderr=%s", res.code, res.stderr)
	}
	f, err := os.Open(statePath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	snap, err := vm.ReadSnapshot(f)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Ptr != 0 || len(snap.Cells) != 2 || snap.Cells[0] != 0 || snap.Cells[1] != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestVMTraceAndTimings(t *testing.T) {
	res := runCLI(t, "", "--vm-trace", "-", "--timings", testdata("move.bf"))
	if res.code != exitOK {
		t.Fatalf("code=%d stderr=%s", res.code, res.stderr)
	}
	for _, want := range []string{"[depth=0] #1 inc", "loop_back", "timings:", "run"} {
		if !strings.Contains(res.stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, res.stderr)
		}
	}
}

func TestTraceStream(t *testing.T) {
	res := runCLI(t, "", "--trace", "-", "--trace-level", "phase", "--trace-mode", "stream", testdata("move.bf"))
	if res.code != exitOK {
		t.Fatalf("code=%d stderr=%s", res.code, res.stderr)
	}
	for _, want := range []string{"driver.run", "parse"} {
		if !strings.Contains(res.stderr, want) {
			t.Errorf("trace missing %q:\n%s", want, res.stderr)
		}
	}
}

func TestRingDumpOnFailure(t *testing.T) {
	res := runCLI(t, "", "--trace-level", "phase", testdata("left_edge.bf"))
	if res.code != exitError {
		t.Fatalf("code = %d", res.code)
	}
	if !strings.Contains(res.stderr, "trace: last events before failure:") || !strings.Contains(res.stderr, "driver.run") {
		t.Fatalf("stderr = %s", res.stderr)
	}
}

func TestTokenizeAndParse(t *testing.T) {
	res := runCLI(t, "", "tokenize", "--format", "json", testdata("move.bf"))
	if res.code != exitOK {
		t.Fatalf("tokenize: code=%d stderr=%s", res.code, res.stderr)
	}
	var toks []map[string]any
	if err := json.Unmarshal([]byte(res.stdout), &toks); err != nil {
		t.Fatal(err)
	}
	if len(toks) != 10 {
		t.Fatalf("tokens = %d", len(toks))
	}

	res = runCLI(t, "", "parse", testdata("move.bf"))
	if res.code != exitOK || !strings.Contains(res.stdout, "(instrs: 9, loops: 1, depth: 1)") {
		t.Fatalf("parse: code=%d stdout=%s", res.code, res.stdout)
	}

	res = runCLI(t, "", "parse", testdata("unmatched_close.bf"))
	if res.code != exitError || res.stdout != "" {
		t.Fatalf("parse error: code=%d stdout=%s", res.code, res.stdout)
	}
}

func TestCheck(t *testing.T) {
	res := runCLI(t, "", "check", "--ui", "off", "--jobs", "2", testdata("hello.bf"), testdata("move.bf"))
	if res.code != exitOK || !strings.Contains(res.stdout, "checked 2 file(s): 2 ok, 0 failed") {
		t.Fatalf("code=%d stdout=%s stderr=%s", res.code, res.stdout, res.stderr)
	}

	res = runCLI(t, "", "check", "--ui", "off", "--format", "json", testdata("hello.bf"), testdata("unmatched_open.bf"))
	if res.code != exitError {
		t.Fatalf("code = %d", res.code)
	}
	var out struct {
		Count       int `json:"count"`
		Diagnostics []struct {
			Code string `json:"code"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal([]byte(res.stdout), &out); err != nil {
		t.Fatalf("%v\n%s", err, res.stdout)
	}
	if out.Count != 1 || out.Diagnostics[0].Code != "SYN2001" {
		t.Fatalf("diagnostics = %+v", out)
	}
}

func TestVersion(t *testing.T) {
	res := runCLI(t, "", "version", "--format", "json", "--full")
	if res.code != exitOK {
		t.Fatalf("code=%d stderr=%s", res.code, res.stderr)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(res.stdout), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "bfi" || payload.Version == "" || payload.GitCommit == "" {
		t.Fatalf("payload = %+v", payload)
	}

	res = runCLI(t, "", "version")
	if res.code != exitOK || !strings.HasPrefix(res.stdout, "bfi ") {
		t.Fatalf("pretty: %q", res.stdout)
	}
}

func TestRingDumpReportsDropped(t *testing.T) {
	res := runCLI(t, "", "--trace-level", "phase", "--trace-ring-size", "2", testdata("left_edge.bf"))
	if res.code != exitError {
		t.Fatalf("code = %d", res.code)
	}
	if !strings.Contains(res.stderr, "earlier events dropped") {
		t.Fatalf("stderr = %s", res.stderr)
	}
}

func TestLoadStateResumes(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.msgpack")
	if res := runCLI(t, "", "--dump-state", statePath, testdata("move.bf")); res.code != exitOK {
		t.Fatalf("dump: code=%d stderr=%s", res.code, res.stderr)
	}
	prog := filepath.Join(dir, "show.bf")
	if err := os.WriteFile(prog, []byte(">."), 0o600); err != nil {
		t.Fatal(err)
	}

	res := runCLI(t, "", "run", "--load-state", statePath, prog)
	if res.code != exitOK || res.stdout != "\x02" {
		t.Fatalf("code=%d stdout=%q stderr=%s", res.code, res.stdout, res.stderr)
	}

	res = runCLI(t, "", "--load-state", filepath.Join(dir, "missing.msgpack"), prog)
	if res.code != exitError || !strings.Contains(res.stderr, "load state") {
		t.Fatalf("code=%d stderr=%s", res.code, res.stderr)
	}
}

func TestProgramNamedLikeSubcommand(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "run")
	if err := os.WriteFile(prog, []byte("+++."), 0o600); err != nil {
		t.Fatal(err)
	}
	res := runCLI(t, "", "run", prog)
	if res.code != exitOK || res.stdout != "\x03" {
		t.Fatalf("code=%d stdout=%q stderr=%s", res.code, res.stdout, res.stderr)
	}

	help := runCLI(t, "", "--help")
	if !strings.Contains(help.stdout, `bfi run ./run`) {
		t.Fatalf("help does not explain the clash:\n%s", help.stdout)
	}
}
