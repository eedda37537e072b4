package diag

import (
	"strings"
	"testing"
)

func TestCodeIDs(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{DocstrMissing, "DCO010"},
		{ReturnsSectionDuplicate, "DCO032"},
		{AttrDocumentedTwice, "DCO065"},
		{ParseSyntaxError, "SYN2001"},
		{IOLoadFileError, "IO4001"},
		{ObsTimings, "OBS6001"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	got := ReturnsSectionDuplicate.Render("", MessageArgs{Count: 3})
	want := "DCO032 a docstring should only contain a single returns section, found 3 (more info: https://example.com/dco032)"
	if got != want {
		t.Fatalf("Render() =\n%q\nwant\n%q", got, want)
	}

	got = ArgUndocumented.Render("https://docs.example.org/rules/", MessageArgs{Name: "timeout"})
	if !strings.HasPrefix(got, `DCO023 "timeout" argument should be described`) {
		t.Errorf("unexpected prefix: %q", got)
	}
	if !strings.HasSuffix(got, "(more info: https://docs.example.org/rules/dco023)") {
		t.Errorf("unexpected suffix: %q", got)
	}
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		in   string
		want Code
		ok   bool
	}{
		{"DCO030", ReturnsSectionMissing, true},
		{"dco041", YieldsSectionUnexpected, true},
		{" DCO010 ", DocstrMissing, true},
		{"returns-duplicate", ReturnsSectionDuplicate, true},
		{"DCO999", UnknownCode, false},
		{"DCO30", UnknownCode, false},
		{"SYN2001", UnknownCode, false},
		{"", UnknownCode, false},
	}
	for _, tt := range tests {
		got, ok := ParseCode(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseCode(%q) = %v,%v; want %v,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRuleCodesTable(t *testing.T) {
	codes := RuleCodes()
	if len(codes) != 26 {
		t.Fatalf("expected 26 rule codes, got %d", len(codes))
	}
	for i, c := range codes {
		if i > 0 && codes[i-1] >= c {
			t.Fatalf("codes not sorted at %d", i)
		}
		if !c.IsRule() || c.Template() == "" || c.Title() == codeDescription[UnknownCode] {
			t.Errorf("%s is missing table data", c.ID())
		}
	}
}
