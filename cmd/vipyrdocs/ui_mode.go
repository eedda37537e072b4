package main

import (
	"os"
	"strings"

	"vipyrdocs/internal/diagfmt"
)

// uiMode is the --ui setting for the interactive progress view.
type uiMode uint8

const (
	uiModeAuto uiMode = iota
	uiModeOn
	uiModeOff
)

var uiModeNames = map[string]uiMode{
	"":     uiModeAuto,
	"auto": uiModeAuto,
	"on":   uiModeOn,
	"off":  uiModeOff,
}

func readUIMode(value string) (uiMode, error) {
	if m, ok := uiModeNames[strings.ToLower(strings.TrimSpace(value))]; ok {
		return m, nil
	}
	return uiModeAuto, usagef("invalid --ui value %q (expected auto|on|off)", value)
}

// wantProgressUI decides whether the check runs under the bubbletea view.
// Прогресс рисуется в stderr поверх pretty-вывода, поэтому машинные
// форматы и --quiet его всегда отключают, даже при --ui on.
func wantProgressUI(f checkFlags) bool {
	if f.quiet || f.format != diagfmt.FormatPretty {
		return false
	}
	switch f.uiMode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	if os.Getenv("CI") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal(os.Stdout) && isTerminal(os.Stderr)
}
