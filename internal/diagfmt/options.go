package diagfmt

import (
	"fmt"

	"vipyrdocs/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode = source.PathStyle

const (
	// PathModeAuto shows files under the run's base directory relative to it.
	PathModeAuto     = source.PathAuto
	PathModeAbsolute = source.PathAbsolute
	PathModeRelative = source.PathRelative
	PathModeBasename = source.PathBase
)

// ParsePathMode accepts auto, absolute, relative and basename.
func ParsePathMode(s string) (PathMode, error) {
	switch s {
	case "", "auto":
		return PathModeAuto, nil
	case "absolute":
		return PathModeAbsolute, nil
	case "relative":
		return PathModeRelative, nil
	case "basename":
		return PathModeBasename, nil
	}
	return PathModeAuto, fmt.Errorf("unknown path mode %q", s)
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	PathMode PathMode
	// Context включает строку исходника с ^ под колонкой.
	Context bool
	// Width - максимальная ширина строки исходника, 0 - не ограничено.
	Width     int
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode     PathMode
	Max          int // обрезка вывода, не Bag
	IncludeNotes bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InformationURI string
	MoreInfoBase   string // helpUri каждого правила; "" - diag.DefaultMoreInfoBase
	InvocationArgs []string
}

// Format selects the output renderer.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatShort  Format = "short"
	FormatJSON   Format = "json"
	FormatSarif  Format = "sarif"
	// FormatGolden is the sorted, vendored-paths-free form used for snapshots.
	FormatGolden Format = "golden"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatPretty, FormatShort, FormatJSON, FormatSarif, FormatGolden:
		return f, nil
	case "":
		return FormatPretty, nil
	}
	return "", fmt.Errorf("unknown format %q (want pretty, short, json, sarif or golden)", s)
}
