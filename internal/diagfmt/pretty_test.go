package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"vipyrdocs/internal/diag"
	"vipyrdocs/internal/source"
)

// fixture: одна функция без секции Returns.
func fixture(t *testing.T, path string) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	content := []byte("def f(x):\n    \"\"\"Summary.\"\"\"\n    return x\n")
	fileID := fs.AddVirtual(path, content)

	bag := diag.NewBag(10)
	msg := diag.ReturnsSectionMissing.Render("", diag.MessageArgs{})
	bag.Add(diag.NewAt(diag.ReturnsSectionMissing, source.LineCol{Line: 1, Col: 5}, msg).WithFile(fileID))
	return bag, fs
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	bag, fs := fixture(t, "/home/user/project/src/test.py")
	fs.SetBaseDir("/home/user/project")

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.py:1:5:"},
		{"Relative path", PathModeRelative, "src/test.py:1:5:"},
		{"Basename only", PathModeBasename, "test.py:1:5:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode}); err != nil {
				t.Fatal(err)
			}
			output := buf.String()
			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "error: DCO030 function/ method that returns a value") {
				t.Errorf("Expected severity and code once, got:\n%s", output)
			}
			if strings.Count(output, "DCO030 ") != 1 {
				t.Errorf("code repeated:\n%s", output)
			}
		})
	}
}

func TestPrettyContextCaret(t *testing.T) {
	bag, fs := fixture(t, "m.py")
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{Context: true}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("want header, source and caret lines, got:\n%s", buf.String())
	}
	if lines[1] != " 1 | def f(x):" {
		t.Errorf("source line = %q", lines[1])
	}
	if lines[2] != "   |     ^" {
		t.Errorf("caret line = %q", lines[2])
	}
}

func TestExpandLine(t *testing.T) {
	tests := []struct {
		line      string
		col       int
		wantText  string
		wantCaret int
	}{
		{"def f():", 5, "def f():", 4},
		{"\tx = 1", 2, "        x = 1", 8},
		{"日本 = 1", 8, "日本 = 1", 5},
		{"abc", 10, "abc", 3},
	}
	for _, tt := range tests {
		text, caret := expandLine(tt.line, tt.col)
		if text != tt.wantText || caret != tt.wantCaret {
			t.Errorf("expandLine(%q, %d) = %q, %d; want %q, %d", tt.line, tt.col, text, caret, tt.wantText, tt.wantCaret)
		}
	}
}

func TestPrettyTruncatesWideLines(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("w.py", []byte("x = '"+strings.Repeat("a", 100)+"'\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.NewAt(diag.DocstrMissing, source.LineCol{Line: 1, Col: 1}, "msg").WithFile(id))

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{Context: true, Width: 20}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "…") {
		t.Fatalf("expected truncation marker, got:\n%s", buf.String())
	}
}

func TestPrettyRunLevelAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  "timings (check): total 1.00 ms",
		Primary:  source.Span{File: source.NoFile},
		Notes:    []diag.Note{{Span: source.Span{File: source.NoFile}, Msg: `{"kind":"check"}`}},
	})

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true}); err != nil {
		t.Fatal(err)
	}
	want := "info: OBS6001 timings (check): total 1.00 ms\n  note: {\"kind\":\"check\"}\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestShort(t *testing.T) {
	bag, fs := fixture(t, "pkg/m.py")
	id := fs.AddVirtual("pkg/broken.py", []byte("def (\n"))
	w := diag.NewAt(diag.ParseSyntaxError, source.LineCol{Line: 1, Col: 5}, "syntax error")
	w.Severity = diag.SevWarning
	bag.Add(w.WithFile(id))

	var buf bytes.Buffer
	if err := Short(&buf, bag, fs, PathModeAuto); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "pkg/m.py:1:5: DCO030 function/ method") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "pkg/broken.py:1:5: SYN2001 syntax error" {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestParseFormatAndPathMode(t *testing.T) {
	for _, s := range []string{"pretty", "short", "json", "sarif", "golden", ""} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q): %v", s, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
	if m, err := ParsePathMode("basename"); err != nil || m != PathModeBasename {
		t.Errorf("ParsePathMode(basename) = %v, %v", m, err)
	}
	if _, err := ParsePathMode("weird"); err == nil {
		t.Error("ParsePathMode(weird) should fail")
	}
}
