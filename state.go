// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package kernel

import "sync/atomic"

// Status is the kernel-wide lifecycle state, per spec §3.
//
// Allowed transitions: NotInitialized -> Starting (New then Start),
// Starting -> Running, Running <-> Idle, and anything -> Error on an
// invariant violation.
type Status uint32

const (
	// StatusNotInitialized is the state of a Kernel from New until Start
	// (and again after Deinit).
	StatusNotInitialized Status = iota
	// StatusStarting is set for the duration of Start's compaction.
	StatusStarting
	// StatusRunning indicates a task is executing.
	StatusRunning
	// StatusIdle indicates every ready group is empty; the platform is
	// parked in its low-power wait.
	StatusIdle
	// StatusError is terminal: an invariant was violated. The scheduler
	// loop stops dispatching tasks rather than risk corrupting further
	// state.
	StatusError
)

// String returns a human-readable name for s.
func (s Status) String() string {
	switch s {
	case StatusNotInitialized:
		return "NotInitialized"
	case StatusStarting:
		return "Starting"
	case StatusRunning:
		return "Running"
	case StatusIdle:
		return "Idle"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// statusFlag is a lock-free status cell, modeled on the teacher's
// FastState: a plain atomic word with CAS-based transitions, so the tick
// source (which must never block behind the critical-section mutex) can
// cheaply check whether the kernel is idle or errored.
type statusFlag struct {
	v atomic.Uint32
}

func newStatusFlag() *statusFlag {
	s := &statusFlag{}
	s.v.Store(uint32(StatusNotInitialized))
	return s
}

func (s *statusFlag) Load() Status {
	return Status(s.v.Load())
}

func (s *statusFlag) Store(status Status) {
	s.v.Store(uint32(status))
}

// TryTransition attempts to move from `from` to `to`, returning whether it
// succeeded. Use for the reversible Running<->Idle transition.
func (s *statusFlag) TryTransition(from, to Status) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}

// Fail unconditionally forces the Error terminal state; any component
// detecting a StructuralViolation or UnexpectedState calls this.
func (s *statusFlag) Fail() {
	s.v.Store(uint32(StatusError))
}

func (s *statusFlag) IsError() bool {
	return s.Load() == StatusError
}
