// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package kernel

// Semaphore is a counting semaphore with a FIFO waiter list, per spec §4.5.
// Every method assumes the caller already holds the kernel's critical
// section; Semaphore performs no locking of its own.
type Semaphore struct {
	ID      uint32
	tokens  int
	max     int
	waiters List[*Task]
}

// NewSemaphore allocates a semaphore with initial tokens (clamped to max).
func NewSemaphore(id uint32, initial, max int) *Semaphore {
	if initial > max {
		initial = max
	}
	return &Semaphore{ID: id, tokens: initial, max: max}
}

// Tokens reports the currently available token count.
func (s *Semaphore) Tokens() int { return s.tokens }

// Waiters reports how many tasks are currently blocked on this semaphore.
func (s *Semaphore) Waiters() int { return s.waiters.Len() }

// Acquire implements the blocking half of acquire: on a token, decrements
// and returns (false, nil). Otherwise it transfers t's node into the
// waiter list's tail (FIFO, oldest-served-first per P7) and returns
// (true, nil), obliging the caller to suspend t.
func (s *Semaphore) Acquire(t *Task) (blocked bool, err error) {
	if s.tokens > 0 {
		s.tokens--
		return false, nil
	}
	Transfer(&s.waiters, t.node)
	return true, nil
}

// Release increments the token count and, if a waiter is present, returns
// the oldest one so the scheduler wrapper can move it to its ready group.
// Returns KindContention if tokens is already at max (ReachedMax, spec
// §4.5).
func (s *Semaphore) Release() (woken *Task, err error) {
	if s.tokens == s.max {
		return nil, NewError(KindContention, ComponentSemaphore, "reached max tokens")
	}
	s.tokens++
	if n := s.waiters.PopFront(); n != nil {
		return n.Value, nil
	}
	return nil, nil
}

// AcquireNonBlocking decrements and returns true iff a token was available,
// never touching the waiter list.
func (s *Semaphore) AcquireNonBlocking() bool {
	if s.tokens > 0 {
		s.tokens--
		return true
	}
	return false
}

// ReleaseNonBlocking increments the token count without ever surfacing a
// waiter, per the Open Question 3 decision recorded in SPEC_FULL.md §5:
// the asymmetry with the blocking variant is intentional, preserved
// behavior, not a defect.
func (s *Semaphore) ReleaseNonBlocking() error {
	if s.tokens == s.max {
		return NewError(KindContention, ComponentSemaphore, "reached max tokens")
	}
	s.tokens++
	return nil
}

// IsAvailable reports whether an immediate acquire would succeed.
func (s *Semaphore) IsAvailable() bool { return s.tokens > 0 }

// Flush detaches every waiter and returns them so the caller can move each
// one to its ready group; the waiter list is left empty.
func (s *Semaphore) Flush() []*Task {
	var woken []*Task
	for n := s.waiters.PopFront(); n != nil; n = s.waiters.PopFront() {
		woken = append(woken, n.Value)
	}
	return woken
}
