package driver

import "time"

// Stage describes a step of checking one file.
type Stage string

const (
	// StageDiscover is emitted once for the whole run (File is empty).
	StageDiscover Stage = "discover"
	StageLoad     Stage = "load"
	StageParse    Stage = "parse"
	StageCheck    Stage = "check"
	// StageCache reports a disk cache hit; the file is not parsed.
	StageCache Stage = "cache"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
	// Findings is the number of diagnostics the file produced; set on
	// StatusDone of StageCheck and StageCache.
	Findings int
}

// ProgressSink consumes progress events. OnEvent is called from worker
// goroutines and must be safe for concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
