package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vipyrdocs/internal/diagfmt"
)

const (
	undocumentedReturn = "def f():\n    \"\"\"Summary.\"\"\"\n    return 1\n"
	documented         = "def h():\n    \"\"\"Nothing to see.\"\"\"\n"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func execCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := runWith(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestCheckExitCodes(t *testing.T) {
	dir := t.TempDir()
	cleanFile := writeFile(t, dir, "clean.py", documented)
	dirtyFile := writeFile(t, dir, "dirty.py", undocumentedReturn)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"clean", []string{"check", "--no-config", "--color=off", cleanFile}, exitClean},
		{"findings", []string{"check", "--no-config", "--color=off", dirtyFile}, exitFindings},
		{"disabled rule", []string{"check", "--no-config", "--disable", "DCO030", dirtyFile}, exitClean},
		{"unknown rule", []string{"check", "--no-config", "--disable", "DCO999", dirtyFile}, exitUsage},
		{"bad format", []string{"check", "--no-config", "--format", "xml", cleanFile}, exitUsage},
		{"bad flag", []string{"check", "--no-such-flag"}, exitUsage},
		{"config conflict", []string{"check", "--no-config", "--config", "x.toml", cleanFile}, exitUsage},
		{"bad path style", []string{"check", "--no-config", "--path", "short", cleanFile}, exitUsage},
		{"path conflict", []string{"check", "--no-config", "--path", "basename", "--fullpath", cleanFile}, exitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := execCLI(t, tt.args...)
			if code != tt.want {
				t.Fatalf("exit = %d, want %d (stderr: %s)", code, tt.want, stderr)
			}
		})
	}
}

func TestCheckShortOutput(t *testing.T) {
	dir := t.TempDir()
	dirty := writeFile(t, dir, "dirty.py", undocumentedReturn)

	code, stdout, _ := execCLI(t, "check", "--no-config", "--format", "short", "--path", "basename", dirty)
	if code != exitFindings {
		t.Fatalf("exit = %d, want %d", code, exitFindings)
	}
	if !strings.HasPrefix(stdout, "dirty.py:3:5: DCO030 ") {
		t.Fatalf("unexpected output:\n%s", stdout)
	}
}

func TestCheckJSONOutput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dirty.py", undocumentedReturn)
	writeFile(t, dir, "clean.py", documented)

	code, stdout, stderr := execCLI(t, "check", "--no-config", "--format", "json", dir)
	if code != exitFindings {
		t.Fatalf("exit = %d, want %d (stderr: %s)", code, exitFindings, stderr)
	}
	var payload struct {
		Diagnostics []struct {
			Severity string `json:"severity"`
			Code     string `json:"code"`
			Location *struct {
				File      string `json:"file"`
				StartLine uint32 `json:"start_line"`
			} `json:"location"`
		} `json:"diagnostics"`
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, stdout)
	}
	if payload.Count != 1 || len(payload.Diagnostics) != 1 {
		t.Fatalf("count = %d, diagnostics = %d, want 1", payload.Count, len(payload.Diagnostics))
	}
	d := payload.Diagnostics[0]
	if d.Code != "DCO030" || d.Severity != "error" {
		t.Fatalf("got %s/%s, want DCO030/error", d.Code, d.Severity)
	}
	if d.Location == nil || !strings.HasSuffix(d.Location.File, "dirty.py") {
		t.Fatalf("unexpected location %+v", d.Location)
	}
}

func TestCheckReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	dirty := writeFile(t, dir, "dirty.py", undocumentedReturn)
	writeFile(t, dir, "vipyrdocs.toml", "disable = [\"DCO030\"]\n")

	if code, _, stderr := execCLI(t, "check", dirty); code != exitClean {
		t.Fatalf("exit = %d, want %d (stderr: %s)", code, exitClean, stderr)
	}
	if code, _, _ := execCLI(t, "check", "--no-config", dirty); code != exitFindings {
		t.Fatalf("--no-config exit = %d, want %d", code, exitFindings)
	}
}

func TestRulesCommand(t *testing.T) {
	code, stdout, _ := execCLI(t, "rules", "--format", "json")
	if code != exitClean {
		t.Fatalf("exit = %d", code)
	}
	var rows []ruleJSON
	if err := json.Unmarshal([]byte(stdout), &rows); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(rows) == 0 || rows[0].ID != "DCO010" {
		t.Fatalf("unexpected first rule: %+v", rows)
	}
	seen := make(map[string]bool, len(rows))
	for _, r := range rows {
		if seen[r.ID] {
			t.Fatalf("rule %s listed twice", r.ID)
		}
		seen[r.ID] = true
	}

	code, stdout, _ = execCLI(t, "--color=off", "rules")
	if code != exitClean {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(stdout, "DCO065") || strings.Contains(stdout, "\x1b[") {
		t.Fatalf("unexpected pretty output:\n%s", stdout)
	}
}

func TestVersionCommand(t *testing.T) {
	code, stdout, _ := execCLI(t, "version", "--format", "json")
	if code != exitClean {
		t.Fatalf("exit = %d", code)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if info["version"] == "" {
		t.Fatalf("missing version: %v", info)
	}
	if _, ok := info["git_commit"]; ok {
		t.Fatalf("git_commit must be omitted without --hash: %v", info)
	}

	code, stdout, _ = execCLI(t, "--color=off", "version", "--full")
	if code != exitClean {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(stdout, "commit: unknown") {
		t.Fatalf("unexpected output:\n%s", stdout)
	}
	if code, _, _ := execCLI(t, "version", "--format", "yaml"); code != exitUsage {
		t.Fatalf("bad format exit = %d, want %d", code, exitUsage)
	}
}

func TestCheckTracesToSeveralOutputs(t *testing.T) {
	dir := t.TempDir()
	clean := writeFile(t, dir, "clean.py", documented)
	textOut := filepath.Join(dir, "run.log")
	jsonOut := filepath.Join(dir, "run.ndjson")

	code, _, stderr := execCLI(t, "--trace", textOut, "--trace", jsonOut, "check", "--no-config", "--quiet", clean)
	if code != exitClean {
		t.Fatalf("exit = %d (stderr: %s)", code, stderr)
	}

	text, err := os.ReadFile(textOut)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(text), "+ driver check") || !strings.Contains(string(text), "pass load") {
		t.Errorf("text trace lacks driver/pass events:\n%s", text)
	}

	raw, err := os.ReadFile(jsonOut)
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		var ev map[string]any
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("invalid ndjson line %q: %v", line, err)
		}
		if ev["scope"] == "file" {
			t.Errorf("file scope leaked at phase level: %v", ev)
		}
	}
}

func TestProgressUIDecision(t *testing.T) {
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatal("readUIMode accepted an unknown value")
	}
	tests := []struct {
		name  string
		flags checkFlags
		want  bool
	}{
		{"on with pretty", checkFlags{uiMode: uiModeOn, format: diagfmt.FormatPretty}, true},
		{"on with json", checkFlags{uiMode: uiModeOn, format: diagfmt.FormatJSON}, false},
		{"on but quiet", checkFlags{uiMode: uiModeOn, format: diagfmt.FormatPretty, quiet: true}, false},
		{"off", checkFlags{uiMode: uiModeOff, format: diagfmt.FormatPretty}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wantProgressUI(tt.flags); got != tt.want {
				t.Errorf("wantProgressUI = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckEmptyDirectoryIsClean(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "not python")

	code, stdout, stderr := execCLI(t, "check", "--no-config", "--color=off", dir)
	if code != exitClean {
		t.Fatalf("exit = %d, want %d (stderr: %s)", code, exitClean, stderr)
	}
	if strings.TrimSpace(stdout) != "" {
		t.Errorf("unexpected findings output: %q", stdout)
	}
	if !strings.Contains(stderr, "no Python files found") {
		t.Errorf("stderr lacks the empty-run notice: %q", stderr)
	}
}
