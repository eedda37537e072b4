// Package observ measures the phases of a check run.
package observ

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// PhaseID identifies a started phase. Negative ids are ignored by End.
type PhaseID int

type phase struct {
	name  string
	start time.Time
	dur   time.Duration
	note  string
	open  bool
}

// Timer collects durations of driver phases (discover, load, cache, check,
// store). Safe for concurrent use; a nil *Timer records nothing.
type Timer struct {
	mu     sync.Mutex
	phases []phase
	now    func() time.Time
}

func NewTimer() *Timer {
	return &Timer{phases: make([]phase, 0, 8), now: time.Now}
}

// Begin opens a phase.
func (t *Timer) Begin(name string) PhaseID {
	if t == nil {
		return -1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, phase{name: name, start: t.now(), open: true})
	return PhaseID(len(t.phases) - 1)
}

// End closes a phase; повторный End для той же фазы ничего не меняет.
func (t *Timer) End(id PhaseID, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if id < 0 || int(id) >= len(t.phases) {
		return
	}
	p := &t.phases[id]
	if !p.open {
		return
	}
	p.open = false
	p.dur = t.now().Sub(p.start)
	p.note = note
}

// PhaseReport is one closed phase in milliseconds.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report - снимок таймера; открытые фазы в него не попадают.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var (
		rep   Report
		total time.Duration
	)
	for _, p := range t.phases {
		if p.open {
			continue
		}
		total += p.dur
		rep.Phases = append(rep.Phases, PhaseReport{
			Name:       p.name,
			DurationMS: millis(p.dur),
			Note:       p.note,
		})
	}
	rep.TotalMS = millis(total)
	return rep
}

// Write prints one aligned line per phase followed by the total.
func (r Report) Write(w io.Writer) error {
	for _, p := range r.Phases {
		line := fmt.Sprintf("%-10s %8.1f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			line += "  (" + p.Note + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%-10s %8.1f ms\n", "total", r.TotalMS)
	return err
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
