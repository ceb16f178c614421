// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package kernel

// Mutex is a recursive lock built over a binary Semaphore, per spec §4.6:
// owner re-entry only increments lock_count, and release only clears the
// owner and surfaces the next waiter once lock_count reaches zero.
type Mutex struct {
	ID        uint32
	sem       *Semaphore
	owner     *Task
	lockCount int
}

// NewMutex allocates an unlocked recursive mutex.
func NewMutex(id uint32) *Mutex {
	return &Mutex{ID: id, sem: NewSemaphore(id, 1, 1)}
}

// Owner returns the current holder, or nil if unlocked (invariant I6).
func (m *Mutex) Owner() *Task { return m.owner }

// LockCount returns the current recursion depth.
func (m *Mutex) LockCount() int { return m.lockCount }

// Waiters reports how many tasks are blocked waiting to acquire.
func (m *Mutex) Waiters() int { return m.sem.Waiters() }

// Acquire re-enters if t already owns the mutex; otherwise it attempts the
// underlying semaphore acquire. blocked==true obliges the caller to suspend
// t (its node is already in the semaphore's waiter list).
func (m *Mutex) Acquire(t *Task) (blocked bool, err error) {
	if m.owner == t {
		m.lockCount++
		return false, nil
	}
	blocked, err = m.sem.Acquire(t)
	if err != nil || blocked {
		return blocked, err
	}
	m.owner = t
	m.lockCount = 1
	return false, nil
}

// Release decrements lock_count; once it reaches zero the owner is cleared
// and the underlying semaphore is released, surfacing the next waiter (if
// any) for the scheduler wrapper to re-ready. Fails with KindContention if
// t is not the current owner.
func (m *Mutex) Release(t *Task) (woken *Task, err error) {
	if m.owner != t {
		return nil, NewError(KindContention, ComponentMutex, "not owned by caller")
	}
	m.lockCount--
	if m.lockCount > 0 {
		return nil, nil
	}
	m.owner = nil
	return m.sem.Release()
}

// AcquireNonBlocking behaves like Acquire but never blocks: it reports
// false instead of transferring t into the waiter list.
func (m *Mutex) AcquireNonBlocking(t *Task) bool {
	if m.owner == t {
		m.lockCount++
		return true
	}
	if m.sem.AcquireNonBlocking() {
		m.owner = t
		m.lockCount = 1
		return true
	}
	return false
}

// ReleaseNonBlocking behaves like Release but, per the Open Question 2
// decision (SPEC_FULL.md §5), never surfaces a waiter even when one is
// present — an intentional, preserved asymmetry with the blocking variant.
func (m *Mutex) ReleaseNonBlocking(t *Task) error {
	if m.owner != t {
		return NewError(KindContention, ComponentMutex, "not owned by caller")
	}
	m.lockCount--
	if m.lockCount > 0 {
		return nil
	}
	m.owner = nil
	return m.sem.ReleaseNonBlocking()
}

// Flush detaches every waiter blocked on acquiring this mutex, returning
// them for re-readying, without altering ownership.
func (m *Mutex) Flush() []*Task {
	return m.sem.Flush()
}
