package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity. Each level widens the set of scopes
// that get recorded; errors are recorded at every level above off.
type Level uint8

const (
	LevelOff Level = iota
	LevelError
	LevelPhase  // driver and pass spans
	LevelDetail // plus one span per file
	LevelDebug  // plus every definition
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", uint8(l))
}

// ParseLevel is case-insensitive.
func ParseLevel(s string) (Level, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for i, name := range levelNames {
		if name == want {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level %q (expected %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether spans and points of scope are recorded at l.
func (l Level) ShouldEmit(scope Scope) bool {
	switch {
	case l >= LevelDebug:
		return true
	case l == LevelDetail:
		return scope <= ScopeFile
	case l == LevelPhase:
		return scope <= ScopePass
	}
	return false
}

func (l Level) accepts(ev *Event) bool {
	if ev.Error {
		return l != LevelOff
	}
	return l.ShouldEmit(ev.Scope)
}
