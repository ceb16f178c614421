// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package kernel

// simPlatform is the only Platform implementation: a goroutine-per-task
// baton handoff. Grounded on the teacher's microbatch.go ping/pong channel
// pairs (a single producer goroutine and a single flush goroutine trade an
// empty struct back and forth, never running concurrently by construction)
// generalized from a fixed pair to an arbitrary number of task goroutines,
// of which only one ever holds the baton at a time.
type simPlatform struct{}

// NewSimPlatform returns the production Platform for this port: a
// simulated CPU whose "hardware" is Go's goroutine scheduler.
func NewSimPlatform() Platform {
	return simPlatform{}
}

func (simPlatform) Spawn(t *Task, rt *Runtime) {
	go func() {
		<-t.grant
		result := t.entry(rt)
		t.exit = result
		t.yield <- CauseTerminated
	}()
}

func (simPlatform) Resume(t *Task) SwitchCause {
	t.grant <- struct{}{}
	return <-t.yield
}

func (simPlatform) Suspend(t *Task, cause SwitchCause) {
	t.yield <- cause
	<-t.grant
}

func (simPlatform) Park(wake <-chan struct{}) {
	<-wake
}

func (simPlatform) Shutdown() {}

var _ Platform = simPlatform{}
