// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package kernel

// This file holds the scheduler core (spec §4.9): priority groups, the
// delay list, the anti-starvation promotion mechanism, the tick handler,
// and the run loop that drives the Platform baton. Every method here
// assumes the caller already holds k.mu, except onTick (which acquires it
// itself, non-blocking, mirroring the tick ISR's "observe the
// critical-section flag and defer" rule from spec §5), run (the
// scheduler's own loop, which takes and releases k.mu around each task's
// turn), and relinquish and finish, which are called after k.mu has been
// released.

// groupFor returns priority p's ready list, creating it on first use.
func (k *Kernel) groupFor(p int) *List[*Task] {
	if k.groups[p] == nil {
		k.groups[p] = &List[*Task]{}
	}
	return k.groups[p]
}

// pickNext pops and returns the oldest task in the highest-priority
// non-empty group (priority groups are scanned low-index-first, since
// smaller index means higher priority), or nil if every group is empty.
func (k *Kernel) pickNext() *Task {
	for _, g := range k.groups {
		if g != nil && g.Len() > 0 {
			return g.PopFront().Value
		}
	}
	return nil
}

// makeReady moves t into its priority group's ready list (from wherever it
// currently is — a wait list, the delay list, or the blocked-events list),
// sets its state, and wakes the scheduler if it was parked idle.
func (k *Kernel) makeReady(t *Task) {
	t.State = TaskReady
	Transfer(k.groupFor(t.Priority), t.node)
	k.sink.Trace(TraceTaskReadyStart, TraceFields{TaskID: t.ID, TaskName: t.Name, Priority: t.Priority})
	k.notifyIdle()
}

// requeue returns a task that relinquished the CPU without blocking
// (quantum expiry or explicit yield) to the tail of its priority group.
func (k *Kernel) requeue(t *Task, cause SwitchCause) {
	t.State = TaskReady
	k.groupFor(t.Priority).PushBack(t.node)
	k.sink.Trace(TraceTaskReadyStart, TraceFields{TaskID: t.ID, TaskName: t.Name, Priority: t.Priority})
}

// notifyIdle wakes the scheduler loop out of its idle park, if it is
// currently idle.
func (k *Kernel) notifyIdle() {
	if k.idleWake != nil {
		close(k.idleWake)
		k.idleWake = nil
	}
}

// insertDelay inserts t into the delay list with ticks remaining, keeping
// the cumulative-delta encoding intact (spec §3): each element's delta is
// additional ticks after its predecessor.
func (k *Kernel) insertDelay(t *Task, ticks int) {
	remaining := ticks
	var prev *Node[*Task]
	cur := k.delay.Front()
	for cur != nil && cur.Value.delayDelta <= remaining {
		remaining -= cur.Value.delayDelta
		prev = cur
		cur = cur.Next()
	}
	t.delayDelta = remaining
	if cur != nil {
		cur.Value.delayDelta -= remaining
	}
	k.delay.InsertAfter(prev, t.node)
}

// wakeFromDelay removes t from the middle of the delay list (an early,
// event-triggered wake rather than a natural tick expiry) and transfers
// its remaining delta onto its successor, preserving the other tasks'
// absolute wake instants, per spec §4.8.
func (k *Kernel) wakeFromDelay(t *Task) {
	next := t.node.Next()
	if next != nil {
		next.Value.delayDelta += t.delayDelta
	}
	t.delayDelta = 0
	k.makeReady(t)
}

// wake moves t to its ready group regardless of which list currently holds
// it, applying the delay-list delta fixup only when that is where t
// actually is.
func (k *Kernel) wake(t *Task) {
	if t.node.Owner() == &k.delay {
		k.wakeFromDelay(t)
		return
	}
	k.makeReady(t)
}

// relinquish is called from inside the currently-running task's own
// goroutine to give up the CPU for cause, without touching any list. The
// scheduler loop (run) is responsible for requeuing a task that yielded or
// hit quantum expiry once Resume returns; blocking/delaying facades must
// already have transferred the task's node before calling this.
func (k *Kernel) relinquish(t *Task, cause SwitchCause) {
	k.sink.Trace(TraceTaskReadyStop, TraceFields{TaskID: t.ID, TaskName: t.Name, Cause: cause.String()})
	k.platform.Suspend(t, cause)
}

// String names a SwitchCause for trace fields.
func (c SwitchCause) String() string {
	switch c {
	case CauseBlocked:
		return "blocked"
	case CauseDelayed:
		return "delayed"
	case CauseYielded:
		return "yielded"
	case CauseQuantumExpired:
		return "quantum_expired"
	case CauseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// lowestOccupied returns the index of the lowest-priority (highest index)
// non-empty group, or 0 if every group is empty.
func (k *Kernel) lowestOccupied() int {
	for p := len(k.groups) - 1; p >= 0; p-- {
		if k.groups[p] != nil && k.groups[p].Len() > 0 {
			return p
		}
	}
	return 0
}

// highestOccupied returns the index of the highest-priority (lowest index)
// non-empty group, or -1 if every group is empty.
func (k *Kernel) highestOccupied() int {
	for p, g := range k.groups {
		if g != nil && g.Len() > 0 {
			return p
		}
	}
	return -1
}

// promote implements the anti-starvation mechanism (spec §4.9): each
// context-switch entry, once the cooldown elapses, the lowest occupied
// priority group is walked up one level at a time until it reaches the
// priority that is about to run, at which point the walk restarts from the
// (possibly new) lowest occupied priority with a cooldown sized to how many
// tasks were just promoted.
func (k *Kernel) promote() {
	if !k.cfg.promotionEnabled {
		return
	}
	if k.promoteCooldown > 0 {
		k.promoteCooldown--
		return
	}
	curPrio := k.highestOccupied()
	if curPrio < 0 || k.promoteTarget <= curPrio {
		return
	}
	m := k.promoteTarget
	src := k.groups[m]
	promoted := 0
	if src != nil && src.Len() > 0 {
		promoted = src.Len()
		for n := src.Front(); n != nil; n = n.Next() {
			n.Value.Priority = m - 1
		}
		Splice(k.groupFor(m-1), src)
	}
	k.promoteTarget--
	if k.promoteTarget <= curPrio {
		k.promoteTarget = k.lowestOccupied()
		k.promoteCooldown = promoted
	}
}

// onTick is the 1kHz-equivalent systick callback (spec §4.9). It is driven
// by a TickSource, possibly from a real-time goroutine running concurrently
// with whichever task currently holds the baton, so it takes the critical
// section non-blockingly: if a facade call is mid-flight, the tick simply
// defers to the next period rather than stalling behind it.
func (k *Kernel) onTick() {
	if !k.mu.TryLock() {
		k.sink.Trace(TraceTickExit, TraceFields{Tick: k.tick})
		return
	}
	defer k.mu.Unlock()

	k.sink.Trace(TraceTickEnter, TraceFields{Tick: k.tick})
	k.tick++

	if head := k.delay.Front(); head != nil {
		if head.Value.delayDelta == 0 {
			k.makeReady(head.Value)
		} else {
			head.Value.delayDelta--
		}
	}

	if cur := k.current; cur != nil && k.status.Load() != StatusIdle {
		cur.quantumRemaining--
		if cur.quantumRemaining <= 0 {
			cur.preempt.Store(true)
		}
	}

	k.sink.Trace(TraceTickExit, TraceFields{Tick: k.tick})
}

// handleTerminate runs the terminate trampoline (spec §4.9): the task is
// moved to the terminated list, its exit value already captured by
// simPlatform.Spawn before it sent CauseTerminated.
func (k *Kernel) handleTerminate(t *Task) {
	t.State = TaskTerminated
	k.terminated.PushBack(t.node)
	k.sink.Trace(TraceTaskReadyStop, TraceFields{TaskID: t.ID, TaskName: t.Name, Cause: "terminated"})
}

func (k *Kernel) allTerminated() bool {
	return k.terminated.Len() == k.tasks.Len()
}

// run is the scheduler loop: it repeatedly picks the next runnable task,
// hands it the CPU via Platform.Resume, and reacts to why it gave the CPU
// back. It owns k.mu except while a task actually holds the baton.
func (k *Kernel) run() {
	for {
		k.mu.Lock()
		if k.status.IsError() {
			k.mu.Unlock()
			return
		}

		k.promote()
		next := k.pickNext()
		if next == nil {
			k.status.Store(StatusIdle)
			k.sink.Trace(TraceIdle, TraceFields{})
			wake := make(chan struct{})
			k.idleWake = wake
			k.mu.Unlock()
			k.platform.Park(wake)
			continue
		}

		k.status.TryTransition(StatusIdle, StatusRunning)
		k.status.Store(StatusRunning)
		k.current = next
		next.State = TaskRunning
		next.quantumRemaining = next.quantumMax
		k.sink.Trace(TraceTaskExecStart, TraceFields{TaskID: next.ID, TaskName: next.Name, Priority: next.Priority})
		k.mu.Unlock()

		cause := k.platform.Resume(next)

		k.mu.Lock()
		k.sink.Trace(TraceTaskExecStop, TraceFields{TaskID: next.ID, TaskName: next.Name, Cause: cause.String()})
		k.current = nil
		switch cause {
		case CauseTerminated:
			k.handleTerminate(next)
		case CauseQuantumExpired, CauseYielded:
			k.requeue(next, cause)
		}

		if k.allTerminated() {
			k.mu.Unlock()
			k.finish()
			return
		}
		k.mu.Unlock()
	}
}

// finish runs once every registered task has terminated: it stops the tick
// source and releases the platform, per spec §4.9's shutdown-on-trampoline
// note.
func (k *Kernel) finish() {
	k.tickSrc.Stop()
	k.platform.Shutdown()
	close(k.doneCh)
}
