package trace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Tracer receives events. Implementations must be safe for concurrent Emit.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	// Close flushes and releases the output; the tracer is unusable afterwards.
	Close() error
	Level() Level
	Enabled() bool
}

// Open creates a tracer writing to path ("-" or "" is stderr). FormatAuto
// picks NDJSON for .ndjson/.jsonl files and text otherwise. At LevelOff
// nothing is opened and Nop is returned.
func Open(path string, level Level, format Format) (Tracer, error) {
	if level == LevelOff {
		return Nop, nil
	}
	if format == FormatAuto {
		format = formatForPath(path)
	}
	if path == "" || path == "-" {
		return NewStreamTracer(stderrWriter{}, level, format), nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open trace output: %w", err)
	}
	return NewStreamTracer(f, level, format), nil
}

func formatForPath(path string) Format {
	switch filepath.Ext(path) {
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	}
	return FormatText
}

// stderrWriter is not an io.Closer, so closing the tracer leaves stderr open.
type stderrWriter struct{}

func (stderrWriter) Write(p []byte) (int, error) { return os.Stderr.Write(p) }
