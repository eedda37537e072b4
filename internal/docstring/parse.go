package docstring

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

var (
	entryRe     = regexp.MustCompile(`^\s*\**(\w+)(\s*\(.*\))?\s*:`)
	bareEntryRe = regexp.MustCompile(`^\s*\**(\w+)\s*$`)
)

const tabWidth = 8

// Parse splits raw docstring text into sections. An empty raw yields the
// zero Parsed.
func Parse(raw string) Parsed {
	var out Parsed
	if strings.TrimSpace(raw) == "" {
		return out
	}
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	margin := baseMargin(lines)
	// Caser хранит состояние, поэтому свой на каждый вызов
	fold := cases.Fold()

	var cur *Occurrence
	underlined := false
	flush := func() {
		if cur == nil {
			return
		}
		cur.Entries = entries(cur.BodyLines, cur.LineOffset+1+boolInt(underlined), underlined)
		out.Occurrences = append(out.Occurrences, *cur)
		cur = nil
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if name, heading, ok := headingAt(fold, lines, i, margin); ok {
			flush()
			cur = &Occurrence{
				Name:       name,
				Heading:    heading,
				LineOffset: i,
				Indent:     leadingBytes(line),
			}
			underlined = i+1 < len(lines) && isUnderline(lines[i+1], width(line))
			if underlined {
				i++
			}
			continue
		}
		if cur != nil {
			cur.BodyLines = append(cur.BodyLines, line)
			continue
		}
		if strings.TrimSpace(line) != "" {
			out.HasSummary = true
		}
	}
	flush()
	return out
}

// baseMargin is the smallest indentation of the non-blank lines after the
// first one. The first line is always treated as indentation zero.
func baseMargin(lines []string) int {
	margin := -1
	for _, l := range lines[1:] {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if w := width(l); margin < 0 || w < margin {
			margin = w
		}
	}
	if margin < 0 {
		return 0
	}
	return margin
}

func headingAt(fold cases.Caser, lines []string, i, margin int) (name, heading string, ok bool) {
	line := lines[i]
	if i > 0 && width(line) != margin {
		return "", "", false
	}
	heading = strings.TrimSpace(line)
	word := strings.TrimSuffix(heading, ":")
	if word == "" || strings.ContainsAny(word, " \t:") {
		return "", "", false
	}
	name, ok = vocabulary[fold.String(word)]
	return name, heading, ok
}

func isUnderline(line string, indent int) bool {
	t := strings.TrimSpace(line)
	return t != "" && strings.Trim(t, "-") == "" && width(line) == indent
}

// entries picks the documented names: lines at the smallest body indentation
// that look like "name: ..." or "name (type): ...". NumPy sections also
// accept a bare "name" line.
func entries(body []string, firstOffset int, numpy bool) []Entry {
	least := -1
	for _, l := range body {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if w := width(l); least < 0 || w < least {
			least = w
		}
	}
	var out []Entry
	for i, l := range body {
		if strings.TrimSpace(l) == "" || width(l) != least {
			continue
		}
		m := entryRe.FindStringSubmatch(l)
		if m == nil && numpy {
			m = bareEntryRe.FindStringSubmatch(l)
		}
		if m == nil {
			continue
		}
		out = append(out, Entry{Name: m[1], LineOffset: firstOffset + i, Indent: leadingBytes(l)})
	}
	return out
}

// width measures leading whitespace with tabs expanded.
func width(s string) int {
	w := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ':
			w++
		case '\t':
			w += tabWidth - w%tabWidth
		default:
			return w
		}
	}
	return w
}

func leadingBytes(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t"))
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
