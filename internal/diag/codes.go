package diag

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type Code uint16

// RulePrefix is the letter prefix of every docstring rule ID.
const RulePrefix = "DCO"

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Docstring presence
	DocstrMissing Code = 10

	// Arguments section
	ArgsSectionMissing    Code = 20
	ArgsSectionUnexpected Code = 21
	ArgsSectionDuplicate  Code = 22
	ArgUndocumented       Code = 23
	ArgNotInSignature     Code = 24
	ArgDocumentedTwice    Code = 25

	// Returns section
	ReturnsSectionMissing    Code = 30
	ReturnsSectionUnexpected Code = 31
	ReturnsSectionDuplicate  Code = 32

	// Yields section
	YieldsSectionMissing    Code = 40
	YieldsSectionUnexpected Code = 41
	YieldsSectionDuplicate  Code = 42

	// Raises section
	RaisesSectionMissing    Code = 50
	RaisesSectionUnexpected Code = 51
	RaisesSectionDuplicate  Code = 52
	ExcUndocumented         Code = 53
	ExcNotRaised            Code = 54
	ReraiseUndocumented     Code = 55
	ExcDocumentedTwice      Code = 56

	// Attributes section
	AttrsSectionMissing    Code = 60
	AttrsSectionUnexpected Code = 61
	AttrsSectionDuplicate  Code = 62
	AttrUndocumented       Code = 63
	AttrNotDefined         Code = 64
	AttrDocumentedTwice    Code = 65

	// Front end
	SynInfo          Code = 2000
	ParseSyntaxError Code = 2001

	// I/O
	IOLoadFileError Code = 4001
	IOWalkError     Code = 4002

	// Observability
	ObsInfo       Code = 6000
	ObsTimings    Code = 6001
	ObsCacheError Code = 6002
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	DocstrMissing: "docstring-missing",

	ArgsSectionMissing:    "args-missing",
	ArgsSectionUnexpected: "args-unexpected",
	ArgsSectionDuplicate:  "args-duplicate",
	ArgUndocumented:       "arg-undocumented",
	ArgNotInSignature:     "arg-not-in-signature",
	ArgDocumentedTwice:    "arg-documented-twice",

	ReturnsSectionMissing:    "returns-missing",
	ReturnsSectionUnexpected: "returns-unexpected",
	ReturnsSectionDuplicate:  "returns-duplicate",

	YieldsSectionMissing:    "yields-missing",
	YieldsSectionUnexpected: "yields-unexpected",
	YieldsSectionDuplicate:  "yields-duplicate",

	RaisesSectionMissing:    "raises-missing",
	RaisesSectionUnexpected: "raises-unexpected",
	RaisesSectionDuplicate:  "raises-duplicate",
	ExcUndocumented:         "exc-undocumented",
	ExcNotRaised:            "exc-not-raised",
	ReraiseUndocumented:     "reraise-undocumented",
	ExcDocumentedTwice:      "exc-documented-twice",

	AttrsSectionMissing:    "attrs-missing",
	AttrsSectionUnexpected: "attrs-unexpected",
	AttrsSectionDuplicate:  "attrs-duplicate",
	AttrUndocumented:       "attr-undocumented",
	AttrNotDefined:         "attr-not-defined",
	AttrDocumentedTwice:    "attr-documented-twice",

	SynInfo:          "Syntax information",
	ParseSyntaxError: "Python source has syntax errors",

	IOLoadFileError: "I/O load file error",
	IOWalkError:     "I/O directory walk error",

	ObsInfo:       "Observability information",
	ObsTimings:    "Pipeline timings",
	ObsCacheError: "Diagnostic cache unavailable",
}

// IsRule reports whether c is a docstring rule code (as opposed to a
// front-end, I/O or observability code).
func (c Code) IsRule() bool {
	return c > 0 && c < 1000
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic > 0 && ic < 1000:
		return fmt.Sprintf("%s%03d", RulePrefix, ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// ParseCode resolves a rule ID such as "DCO030" (case-insensitive) or a rule
// name such as "returns-missing".
func ParseCode(s string) (Code, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return UnknownCode, false
	}
	upper := strings.ToUpper(s)
	if rest, ok := strings.CutPrefix(upper, RulePrefix); ok {
		n, err := strconv.ParseUint(rest, 10, 16)
		if err != nil || len(rest) != 3 {
			return UnknownCode, false
		}
		c := Code(n)
		if _, known := ruleMessages[c]; !known {
			return UnknownCode, false
		}
		return c, true
	}
	lower := strings.ToLower(s)
	for c := range ruleMessages {
		if codeDescription[c] == lower {
			return c, true
		}
	}
	return UnknownCode, false
}

// RuleCodes returns every rule code in ascending order.
func RuleCodes() []Code {
	out := make([]Code, 0, len(ruleMessages))
	for c := range ruleMessages {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
