// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package kernel

// Platform is the kernel's sole dependency on real concurrency, standing in
// for spec §4.10's shim (stack-frame build, pendable-trap register swap,
// interrupt mask, idle sleep, shutdown). Go provides no portable way to
// fabricate a task's native stack or force-suspend a goroutine from outside
// it, so every task's "context" here is simply the goroutine Spawn parks on
// a channel receive until Resume grants it the baton — see SPEC_FULL.md §0
// for the full reasoning. Porting the kernel to drive real hardware (or a
// different concurrency model) means reimplementing only this interface.
type Platform interface {
	// Spawn starts t's entry function running on a dedicated goroutine. The
	// goroutine blocks immediately, waiting for the first Resume(t).
	Spawn(t *Task, rt *Runtime)
	// Resume grants the CPU to t until it relinquishes control — because it
	// blocked, yielded, its quantum expired, or it terminated — and reports
	// which. Must only be called from the scheduler loop.
	Resume(t *Task) SwitchCause
	// Suspend relinquishes t's goroutine until the next Resume(t), recording
	// cause as the reason control left t. Must only be called from inside
	// t's own currently-running goroutine.
	Suspend(t *Task, cause SwitchCause)
	// Park blocks the calling (scheduler) goroutine until wake fires,
	// standing in for the hardware's low-power wait instruction.
	Park(wake <-chan struct{})
	// Shutdown releases any platform-owned resources. Idempotent.
	Shutdown()
}
