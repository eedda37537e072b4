package trace

import (
	"fmt"
	"time"
)

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	ScopeDriver     Scope = iota + 1 // whole run
	ScopePass                        // discover, load, check, cache
	ScopeFile                        // one source file
	ScopeDefinition                  // one function or class
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeFile:
		return "file"
	case ScopeDefinition:
		return "definition"
	default:
		return "unknown"
	}
}

// Field is one key/value attribute of an event. Fields keep the order in
// which they were attached.
type Field struct {
	Key   string
	Value string
}

// F builds a Field, formatting value with fmt.Sprint.
func F(key string, value any) Field {
	if s, ok := value.(string); ok {
		return Field{Key: key, Value: s}
	}
	return Field{Key: key, Value: fmt.Sprint(value)}
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // проставляет трейсер при записи
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 для корня
	Name     string // "check", "load", "pkg/mod.py", "function:load"
	Detail   string
	Error    bool // error points pass LevelError
	Fields   []Field
}
