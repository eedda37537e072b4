package trace

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Format represents the output format for trace events.
type Format uint8

const (
	FormatAuto   Format = iota // pick by output path
	FormatText                 // human-readable text
	FormatNDJSON               // newline-delimited JSON
)

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	default:
		return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
	}
}

// FormatEvent formats an event according to the specified format. start is
// the tracer's creation time, used for relative timestamps in text output.
func FormatEvent(ev *Event, format Format, start time.Time) []byte {
	switch format {
	case FormatNDJSON:
		return formatNDJSON(ev)
	default:
		return formatText(ev, start)
	}
}

type jsonEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Error    bool              `json:"error,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

func formatNDJSON(ev *Event) []byte {
	j := jsonEvent{
		Time:     ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Error:    ev.Error,
	}
	if len(ev.Fields) > 0 {
		// повторный ключ перезаписывает предыдущий
		j.Fields = make(map[string]string, len(ev.Fields))
		for _, f := range ev.Fields {
			j.Fields[f.Key] = f.Value
		}
	}

	data, err := json.Marshal(j)
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

// formatText: "[elapsed] <indent><mark> name (detail) {k=v k=v}".
// Begin is "+", end is "-", points are "*" and errors "!".
func formatText(ev *Event, start time.Time) []byte {
	var sb strings.Builder

	elapsed := ev.Time.Sub(start)
	if start.IsZero() || elapsed < 0 {
		elapsed = 0
	}
	fmt.Fprintf(&sb, "[%9.3fms] ", float64(elapsed.Microseconds())/1000)

	if ev.Scope > ScopeDriver {
		sb.WriteString(strings.Repeat("  ", int(ev.Scope-ScopeDriver)))
	}

	switch {
	case ev.Error:
		sb.WriteString("! ")
	case ev.Kind == KindSpanBegin:
		sb.WriteString("+ ")
	case ev.Kind == KindSpanEnd:
		sb.WriteString("- ")
	default:
		sb.WriteString("* ")
	}
	sb.WriteString(ev.Scope.String())
	sb.WriteByte(' ')
	sb.WriteString(ev.Name)

	if ev.Detail != "" {
		fmt.Fprintf(&sb, " (%s)", ev.Detail)
	}
	if len(ev.Fields) > 0 {
		sb.WriteString(" {")
		for i, f := range ev.Fields {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%s=%s", f.Key, f.Value)
		}
		sb.WriteByte('}')
	}

	sb.WriteByte('\n')
	return []byte(sb.String())
}
