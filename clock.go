// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package kernel

import "time"

// TickSource drives the kernel's 1kHz-equivalent systick callback. The
// realtime implementation wraps time.Ticker; tests substitute a manual
// source so delay/timeout assertions (spec §8, P10) are exact rather than
// best-effort.
//
// This indirection mirrors the teacher's catrate/limiter.go pattern of
// routing all time reads through package-level swappable variables
// (timeNow, timeNewTicker) for deterministic tests, generalized here into
// an interface since the kernel is a library, not a package with private
// globals under test.
type TickSource interface {
	// Start begins calling tick for every elapsed period, until Stop is
	// called. Start must not block.
	Start(period time.Duration, tick func())
	// Stop halts future calls to tick. Stop must be safe to call more than
	// once and after Start was never called.
	Stop()
}

// realTickSource drives tick from a time.Ticker on its own goroutine.
type realTickSource struct {
	ticker *time.Ticker
	done   chan struct{}
}

// NewRealTickSource returns the production TickSource.
func NewRealTickSource() TickSource {
	return &realTickSource{}
}

func (r *realTickSource) Start(period time.Duration, tick func()) {
	r.ticker = time.NewTicker(period)
	r.done = make(chan struct{})
	go func() {
		for {
			select {
			case <-r.done:
				return
			case <-r.ticker.C:
				tick()
			}
		}
	}()
}

func (r *realTickSource) Stop() {
	if r.ticker != nil {
		r.ticker.Stop()
	}
	if r.done != nil {
		select {
		case <-r.done:
		default:
			close(r.done)
		}
	}
}

// ManualTickSource is a TickSource driven entirely by test code calling
// Advance; Start/Stop only arm/disarm it. Useful for exercising P10 (delay
// accuracy) and S5 (event timeout) without wall-clock flakiness.
type ManualTickSource struct {
	tick  func()
	armed bool
}

// NewManualTickSource returns a TickSource with no automatic ticking.
func NewManualTickSource() *ManualTickSource {
	return &ManualTickSource{}
}

func (m *ManualTickSource) Start(_ time.Duration, tick func()) {
	m.tick = tick
	m.armed = true
}

func (m *ManualTickSource) Stop() {
	m.armed = false
}

// Advance invokes the tick callback n times, simulating n elapsed periods.
func (m *ManualTickSource) Advance(n int) {
	if !m.armed || m.tick == nil {
		return
	}
	for i := 0; i < n; i++ {
		m.tick()
	}
}

var _ TickSource = (*realTickSource)(nil)
var _ TickSource = (*ManualTickSource)(nil)
