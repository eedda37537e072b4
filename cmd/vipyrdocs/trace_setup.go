package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vipyrdocs/internal/trace"
)

// setupTracing reads the trace flags, attaches the tracer to the command
// context and returns its cleanup. Every --trace output gets its own stream;
// with auto format a *.ndjson or *.jsonl path is written as NDJSON.
func setupTracing(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()

	outputs, err := flags.GetStringArray("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}

	// --trace без уровня включает phase
	if level == trace.LevelOff && len(outputs) > 0 && !flags.Changed("trace-level") {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}
	if len(outputs) == 0 {
		outputs = []string{"-"}
	}

	tracers := make([]trace.Tracer, 0, len(outputs))
	closeAll := func() {
		for _, t := range tracers {
			if err := t.Close(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
			}
		}
	}
	for _, out := range outputs {
		t, err := trace.Open(out, level, format)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("failed to create tracer: %w", err)
		}
		tracers = append(tracers, t)
	}

	var tracer trace.Tracer = tracers[0]
	if len(tracers) > 1 {
		tracer = trace.NewMultiTracer(tracers...)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	return func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		closeAll()
	}, nil
}
