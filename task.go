// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package kernel

import "sync/atomic"

// TaskState is a task's scheduling state, per spec §3.
type TaskState int

const (
	// TaskCreated is assigned by NewTask, before the task is registered.
	TaskCreated TaskState = iota
	// TaskReady means the task is a member of some priority group (I3).
	TaskReady
	// TaskRunning means the task is the single current task (I2).
	TaskRunning
	// TaskBlocked means the task is a member of a primitive's wait list,
	// the delay list, or the blocked-on-events list (I4).
	TaskBlocked
	// TaskTerminated means the task returned from its entry function and
	// was moved to the terminated list.
	TaskTerminated
)

// String returns a human-readable name for s.
func (s TaskState) String() string {
	switch s {
	case TaskCreated:
		return "Created"
	case TaskReady:
		return "Ready"
	case TaskRunning:
		return "Running"
	case TaskBlocked:
		return "Blocked"
	case TaskTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// SwitchCause identifies why the running task relinquished the CPU, for
// both the scheduler's bookkeeping and the ready-stop trace event's Cause
// field (spec §6).
type SwitchCause int

const (
	// CauseBlocked means a primitive transferred the task to a wait list.
	CauseBlocked SwitchCause = iota
	// CauseDelayed means the task was inserted into the delay list.
	CauseDelayed
	// CauseYielded means the task called Yield (or delay(0), per
	// SPEC_FULL.md's Open Question 1 resolution).
	CauseYielded
	// CauseQuantumExpired means the tick handler observed a zero quantum.
	CauseQuantumExpired
	// CauseTerminated means the task returned from its entry function.
	CauseTerminated
)

// EntryFunc is a task's body. It receives the Runtime handle it must use
// for every blocking kernel interaction, and may return a value that
// becomes the task's exit value (spec §4.9, "terminate trampoline").
type EntryFunc func(rt *Runtime) any

// rendezvousSlot is the per-task parking location a sender can copy
// directly into, bypassing the message queue's ring (spec §4.7).
type rendezvousSlot struct {
	payload []byte
	set     bool
}

// Task is the kernel's control block: the unit of scheduling (spec §3,
// §4.4). Unlike the source, Task carries no raw stack; its "native stack"
// is the Go goroutine the Platform binds it to, and its saved-registers
// analogue is simply that goroutine being parked on a channel receive.
type Task struct {
	ID       uint32
	Name     string
	Priority int
	State    TaskState

	entry EntryFunc
	exit  any

	quantumMax       int
	quantumRemaining int
	delayDelta       int

	events EventRegister

	rendezvous rendezvousSlot

	node *Node[*Task] // current membership; allocated once by NewTask and relinked between lists

	grant chan struct{}
	yield chan SwitchCause

	preempt atomic.Bool
}

// NewTask builds a task control block in the Created state. priority must
// satisfy priority < MAX_TASKS (enforced by Kernel.AddTask against the
// configured capacity, per I5); quantum is the maximum consecutive ticks
// the task may run before round-robining to the next task in its group.
func NewTask(id uint32, name string, priority, quantum int, entry EntryFunc) *Task {
	t := &Task{
		ID:               id,
		Name:             name,
		Priority:         priority,
		State:            TaskCreated,
		entry:            entry,
		quantumMax:       quantum,
		quantumRemaining: quantum,
		grant:            make(chan struct{}),
		yield:            make(chan SwitchCause),
	}
	t.node = NewNode[*Task](t)
	return t
}

// ExitValue returns the value the task's entry function returned, valid
// once State == TaskTerminated (spec §8, S7).
func (t *Task) ExitValue() any { return t.exit }

// Runtime is the facade handle passed to a task's entry function. Every
// blocking kernel operation a task performs goes through its Runtime,
// which know which Task is calling so the scheduler can relink that exact
// task's Node between lists.
type Runtime struct {
	k    *Kernel
	task *Task
}

// Task returns the control block this Runtime was bound to.
func (rt *Runtime) Task() *Task { return rt.task }

// Checkpoint cooperatively honors a pending quantum-expiry request set by
// the tick handler. Long-running loops that never otherwise call a blocking
// facade method should call this periodically: Go provides no mechanism
// for the scheduler to forcibly suspend a goroutine's execution the way a
// hardware tick interrupt can, so preemption of a non-yielding task is only
// as good as how often it checkpoints (see SPEC_FULL.md §0).
func (rt *Runtime) Checkpoint() {
	if rt.task.preempt.CompareAndSwap(true, false) {
		rt.k.relinquish(rt.task, CauseQuantumExpired)
	}
}

// Yield asks the scheduler to pick the next task; the caller resumes at
// its next turn, per spec §6.
func (rt *Runtime) Yield() {
	rt.k.relinquish(rt.task, CauseYielded)
}

// Delay blocks the calling task for at least ticks ticks (spec §6). A
// non-positive ticks yields to the scheduler instead of inserting into the
// delay list, per the Open Question 1 decision (SPEC_FULL.md §5).
func (rt *Runtime) Delay(ticks int) {
	rt.k.delayTask(rt.task, ticks)
}

// SemAcquire blocks until a token is available.
func (rt *Runtime) SemAcquire(id uint32) error {
	return rt.k.semAcquireBlocking(rt.task, id)
}

// SemAcquireNonBlocking attempts to take a token without blocking.
func (rt *Runtime) SemAcquireNonBlocking(id uint32) (bool, error) {
	return rt.k.SemAcquireNonBlocking(id)
}

// SemRelease increments the token count, re-readying the oldest waiter.
func (rt *Runtime) SemRelease(id uint32) error {
	return rt.k.SemRelease(id)
}

// SemReleaseNonBlocking increments the token count without surfacing any
// waiter (Open Question 3).
func (rt *Runtime) SemReleaseNonBlocking(id uint32) error {
	return rt.k.SemReleaseNonBlocking(id)
}

// SemIsAvailable reports whether an immediate acquire would succeed.
func (rt *Runtime) SemIsAvailable(id uint32) (bool, error) {
	return rt.k.SemIsAvailable(id)
}

// MutexAcquire blocks until the mutex is held by the calling task,
// recursing if it already is.
func (rt *Runtime) MutexAcquire(id uint32) error {
	return rt.k.mutexAcquireBlocking(rt.task, id)
}

// MutexAcquireNonBlocking attempts to acquire without blocking.
func (rt *Runtime) MutexAcquireNonBlocking(id uint32) (bool, error) {
	return rt.k.mutexAcquireNonBlocking(rt.task, id)
}

// MutexRelease decrements the recursion count, releasing and re-readying a
// waiter once it reaches zero.
func (rt *Runtime) MutexRelease(id uint32) error {
	return rt.k.mutexRelease(rt.task, id)
}

// MutexReleaseNonBlocking behaves like MutexRelease but never surfaces a
// waiter (Open Question 2).
func (rt *Runtime) MutexReleaseNonBlocking(id uint32) error {
	return rt.k.mutexReleaseNonBlocking(rt.task, id)
}

// QueueSend blocks until payload is accepted, either by direct delivery to
// a waiting receiver or by the ring.
func (rt *Runtime) QueueSend(id uint32, payload []byte, urgent bool) error {
	return rt.k.queueSendBlocking(rt.task, id, payload, urgent)
}

// QueueSendNonBlocking attempts to send without blocking.
func (rt *Runtime) QueueSendNonBlocking(id uint32, payload []byte, urgent bool) error {
	return rt.k.QueueSendNonBlocking(id, payload, urgent)
}

// QueueReceive blocks until a message is available, writing it into out.
func (rt *Runtime) QueueReceive(id uint32, out []byte) error {
	return rt.k.queueReceiveBlocking(rt.task, id, out)
}

// SetEventWanted configures the bitmask this task's event-wait calls
// require to be satisfied.
func (rt *Runtime) SetEventWanted(mask uint32) {
	rt.task.events.Wanted = mask
}

// SetEventFilter installs the optional notification filter invoked on
// every EventSend targeting this task (spec §4.8).
func (rt *Runtime) SetEventFilter(filter EventFilterFunc) {
	rt.task.events.Filter = filter
}

// EventSend ORs bits into target's received mask and wakes it if its
// wanted mask becomes satisfied.
func (rt *Runtime) EventSend(targetID uint32, bits uint32) error {
	return rt.k.EventSend(targetID, bits)
}

// EventReceiveBlocking blocks until the configured wanted mask is
// satisfied, then clears those bits and returns the pre-clear value in out.
func (rt *Runtime) EventReceiveBlocking(out *uint32) error {
	return rt.k.eventReceiveBlocking(rt.task, out)
}

// EventReceiveTimeout behaves like EventReceiveBlocking but gives up after
// timeoutTicks, returning a KindTimeout error with *out == 0.
func (rt *Runtime) EventReceiveTimeout(out *uint32, timeoutTicks int) error {
	return rt.k.eventReceiveTimeout(rt.task, out, timeoutTicks)
}
