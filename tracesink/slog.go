// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package tracesink adapts kernel.Sink onto github.com/joeycumines/logiface,
// backed by the log/slog handler from github.com/joeycumines/logiface-slog,
// the same composition the teacher repo uses in its own test suite. It is
// the concrete trace destination an application wires in place of
// kernel.NoOpSink when it wants the structured events from spec.md §6
// (task create, ready-start, exec-start, ready-stop+cause, exec-stop, idle,
// tick-ISR enter/exit) on a real logging backend.
package tracesink

import (
	"log/slog"

	"github.com/joeycumines/logiface"
	islog "github.com/joeycumines/logiface-slog"

	kernel "github.com/joeycumines/go-rtkernel"
)

// Sink adapts kernel.Sink onto a logiface.Logger[*islog.Event].
type Sink struct {
	logger *logiface.Logger[*islog.Event]
}

// New builds a Sink writing through handler (e.g. slog.NewJSONHandler).
func New(handler slog.Handler) *Sink {
	return &Sink{
		logger: logiface.New[*islog.Event](islog.NewLogger(handler)),
	}
}

// Trace implements kernel.Sink, emitting one structured log line per event
// with every populated TraceFields attribute attached.
func (s *Sink) Trace(event kernel.TraceEvent, fields kernel.TraceFields) {
	b := s.logger.Debug()
	if fields.TaskID != 0 || fields.TaskName != "" {
		b = b.Int("task_id", int(fields.TaskID)).Str("task_name", fields.TaskName)
	}
	if fields.Priority != 0 {
		b = b.Int("priority", fields.Priority)
	}
	if fields.Cause != "" {
		b = b.Str("cause", fields.Cause)
	}
	if fields.Tick != 0 {
		b = b.Int("tick", int(fields.Tick))
	}
	b.Log(event.String())
}

var _ kernel.Sink = (*Sink)(nil)
