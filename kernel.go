// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package kernel implements a preemptive, priority-based real-time
// multitasking kernel for a single logical CPU, ported to Go's concurrency
// primitives from a Cortex-M-class microcontroller design. See doc.go for
// the package-level architecture notes and SPEC_FULL.md §0 for the
// platform-adaptation rationale.
package kernel

import "sync"

// Kernel is the facade application code uses: task and primitive
// registration, the blocking IPC operations, and lifecycle control. Every
// mutation of its internal state happens under mu, the Go equivalent of
// spec §5's single global critical section — the kernel is single-core by
// construction (one task goroutine ever holds the baton at a time) so one
// mutex is sufficient, exactly as spec §5 argues for the original.
type Kernel struct {
	mu     sync.Mutex
	cfg    *config
	sink   Sink
	status *statusFlag

	platform Platform
	tickSrc  TickSource
	tick     uint64

	tasks *SlotTable[uint32, *Task]
	groups []*List[*Task]

	delay         List[*Task]
	blockedEvents List[*Task]
	terminated    List[*Task]

	semaphores *SlotTable[uint32, *Semaphore]
	mutexes    *SlotTable[uint32, *Mutex]
	queues     *SlotTable[uint32, *Queue]

	current  *Task
	idleWake chan struct{}
	doneCh   chan struct{}

	promoteLowest   int
	promoteTarget   int
	promoteCooldown int
}

// New builds a Kernel and allocates every registry and list, per spec §6's
// init contract ("all registries and lists created; ready for add_task").
// The kernel starts in StatusNotInitialized.
func New(opts ...Option) *Kernel {
	cfg := resolveOptions(opts)
	platform := cfg.platform
	if platform == nil {
		platform = NewSimPlatform()
	}
	tickSrc := cfg.tickSource
	if tickSrc == nil {
		tickSrc = NewRealTickSource()
	}
	k := &Kernel{
		cfg:        cfg,
		sink:       cfg.sink,
		status:     newStatusFlag(),
		platform:   platform,
		tickSrc:    tickSrc,
		tasks:      NewSlotTable[uint32, *Task](cfg.maxTasks),
		groups:     make([]*List[*Task], cfg.maxTasks),
		semaphores: NewSlotTable[uint32, *Semaphore](cfg.maxSemaphores),
		mutexes:    NewSlotTable[uint32, *Mutex](cfg.maxMutexes),
		queues:     NewSlotTable[uint32, *Queue](cfg.maxQueues),
		doneCh:     make(chan struct{}),
	}
	return k
}

// Stats is a read-only snapshot of scheduler bookkeeping, supplementing
// spec §3's "counts for available and terminated tasks" which the source
// tracks but never exposes (SPEC_FULL.md §4).
type Stats struct {
	Tasks           int
	Terminated      int
	Tick            uint64
	Status          Status
	LowestOccupied  int
	PromotionTarget int
}

// Stats returns a point-in-time snapshot.
func (k *Kernel) Stats() Stats {
	k.mu.Lock()
	defer k.mu.Unlock()
	return Stats{
		Tasks:           k.tasks.Len(),
		Terminated:      k.terminated.Len(),
		Tick:            k.tick,
		Status:          k.status.Load(),
		LowestOccupied:  k.promoteLowest,
		PromotionTarget: k.promoteTarget,
	}
}

// AddTask registers t, binding it to a fresh goroutine via the platform.
// Must be called before Start (spec's non-goal: no dynamic task creation
// once running). Fails with KindUnexpectedState after Start, KindNotFound-
// equivalent-by-kind KindCapacityExceeded if priority or id are out of
// range, or if id is already registered.
func (k *Kernel) AddTask(t *Task) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.status.Load() != StatusNotInitialized {
		err := NewError(KindUnexpectedState, ComponentScheduler, "add_task after start")
		k.status.Fail()
		return err
	}
	if t.Priority < 0 || t.Priority >= k.cfg.maxTasks {
		return NewError(KindCapacityExceeded, ComponentTask, "priority out of range")
	}
	if _, exists := k.tasks.Get(t.ID); exists {
		return NewError(KindCapacityExceeded, ComponentTask, "task id already registered")
	}
	if err := k.tasks.Add(t.ID, t); err != nil {
		return WrapError(KindCapacityExceeded, ComponentTask, "task registry full", err)
	}

	t.State = TaskReady
	k.groupFor(t.Priority).PushBack(t.node)
	k.sink.Trace(TraceTaskCreate, TraceFields{TaskID: t.ID, TaskName: t.Name, Priority: t.Priority})

	rt := &Runtime{k: k, task: t}
	k.platform.Spawn(t, rt)
	return nil
}

// Start runs start-time priority compaction (spec §4.9), then launches the
// scheduler loop and the tick source. It returns once the scheduler is
// running; on this platform (no real pendable-switch trap) that is always,
// matching the exception spec §6 carves out for such platforms. Use Wait
// to block until every task has terminated.
func (k *Kernel) Start() error {
	k.mu.Lock()
	if k.status.Load() != StatusNotInitialized {
		k.mu.Unlock()
		err := NewError(KindUnexpectedState, ComponentScheduler, "start called out of order")
		k.status.Fail()
		return err
	}
	k.status.Store(StatusStarting)
	k.compact()
	k.status.Store(StatusRunning)
	k.mu.Unlock()

	k.tickSrc.Start(k.cfg.tickInterval, k.onTick)
	go k.run()
	return nil
}

// compact implements spec §4.9's start-time compaction: scanning from the
// highest-priority (index 0) group downward, every empty group is filled
// by splicing in the nearest higher-index non-empty group,
// re-priority-tagging its tasks to the destination index, so the occupied
// groups end up as a dense prefix starting at 0.
func (k *Kernel) compact() {
	n := len(k.groups)
	for p := 0; p < n; p++ {
		if k.groups[p] != nil && k.groups[p].Len() > 0 {
			continue
		}
		q := -1
		for i := p + 1; i < n; i++ {
			if k.groups[i] != nil && k.groups[i].Len() > 0 {
				q = i
				break
			}
		}
		if q == -1 {
			k.groups[p] = nil
			continue
		}
		src := k.groups[q]
		for node := src.Front(); node != nil; node = node.Next() {
			node.Value.Priority = p
		}
		Splice(k.groupFor(p), src)
		k.groups[q] = nil
	}
	k.promoteLowest = k.lowestOccupied()
	k.promoteTarget = k.promoteLowest
}

// Wait blocks until every registered task has terminated and the kernel
// has shut down (spec §4.9's terminate trampoline shutdown path).
func (k *Kernel) Wait() {
	<-k.doneCh
}

// Deinit tears down every primitive and task registry. Idempotent: a second
// call after a teardown returns without effect, per spec §6.
func (k *Kernel) Deinit() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.status.Load() == StatusNotInitialized && k.tasks.Len() == 0 {
		return
	}
	k.tasks.Delete()
	k.semaphores.Delete()
	k.mutexes.Delete()
	k.queues.Delete()
	k.groups = make([]*List[*Task], k.cfg.maxTasks)
	k.status.Store(StatusNotInitialized)
}

// fail transitions the kernel to StatusError, per spec §7's "kernel halts
// in Error" policy for StructuralViolation and UnexpectedState.
func (k *Kernel) fail(err error) {
	if IsKind(err, KindStructuralViolation) || IsKind(err, KindUnexpectedState) {
		k.status.Fail()
	}
}

// --- Semaphore facade -------------------------------------------------

// SemCreate allocates a counting semaphore and returns its id.
func (k *Kernel) SemCreate(initial, max int) (uint32, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	id, err := k.semaphores.NextID()
	if err != nil {
		return 0, WrapError(KindCapacityExceeded, ComponentSemaphore, "semaphore registry full", err)
	}
	if err := k.semaphores.Add(id, NewSemaphore(id, initial, max)); err != nil {
		return 0, err
	}
	return id, nil
}

// SemDelete returns every waiter to its ready group, then releases the
// slot (spec §4.5's flush contract, applied identically on delete per
// SPEC_FULL.md §4).
func (k *Kernel) SemDelete(id uint32) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	sem, ok := k.semaphores.Get(id)
	if !ok {
		return NewError(KindNotFound, ComponentSemaphore, "unknown semaphore id")
	}
	for _, t := range sem.Flush() {
		k.makeReady(t)
	}
	k.semaphores.Remove(id)
	return nil
}

// SemAcquireNonBlocking attempts to take a token without blocking.
func (k *Kernel) SemAcquireNonBlocking(id uint32) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	sem, ok := k.semaphores.Get(id)
	if !ok {
		return false, NewError(KindNotFound, ComponentSemaphore, "unknown semaphore id")
	}
	return sem.AcquireNonBlocking(), nil
}

// SemReleaseNonBlocking increments the token count without surfacing a
// waiter (Open Question 3, SPEC_FULL.md §5).
func (k *Kernel) SemReleaseNonBlocking(id uint32) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	sem, ok := k.semaphores.Get(id)
	if !ok {
		return NewError(KindNotFound, ComponentSemaphore, "unknown semaphore id")
	}
	return sem.ReleaseNonBlocking()
}

// SemRelease increments the token count and re-readies the oldest waiter,
// if any.
func (k *Kernel) SemRelease(id uint32) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	sem, ok := k.semaphores.Get(id)
	if !ok {
		return NewError(KindNotFound, ComponentSemaphore, "unknown semaphore id")
	}
	woken, err := sem.Release()
	if err != nil {
		return err
	}
	if woken != nil {
		k.makeReady(woken)
	}
	return nil
}

// SemIsAvailable reports whether an immediate acquire would succeed.
func (k *Kernel) SemIsAvailable(id uint32) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	sem, ok := k.semaphores.Get(id)
	if !ok {
		return false, NewError(KindNotFound, ComponentSemaphore, "unknown semaphore id")
	}
	return sem.IsAvailable(), nil
}

func (k *Kernel) semAcquireBlocking(t *Task, id uint32) error {
	for {
		k.mu.Lock()
		sem, ok := k.semaphores.Get(id)
		if !ok {
			k.mu.Unlock()
			return NewError(KindNotFound, ComponentSemaphore, "unknown semaphore id")
		}
		blocked, err := sem.Acquire(t)
		if err != nil {
			k.mu.Unlock()
			k.fail(err)
			return err
		}
		if !blocked {
			k.mu.Unlock()
			return nil
		}
		t.State = TaskBlocked
		k.mu.Unlock()
		k.relinquish(t, CauseBlocked)
	}
}

// --- Mutex facade -------------------------------------------------

// MutexCreate allocates a recursive mutex and returns its id.
func (k *Kernel) MutexCreate() (uint32, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	id, err := k.mutexes.NextID()
	if err != nil {
		return 0, WrapError(KindCapacityExceeded, ComponentMutex, "mutex registry full", err)
	}
	if err := k.mutexes.Add(id, NewMutex(id)); err != nil {
		return 0, err
	}
	return id, nil
}

// MutexDelete returns every waiter to its ready group, then releases the
// slot.
func (k *Kernel) MutexDelete(id uint32) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.mutexes.Get(id)
	if !ok {
		return NewError(KindNotFound, ComponentMutex, "unknown mutex id")
	}
	for _, t := range m.Flush() {
		k.makeReady(t)
	}
	k.mutexes.Remove(id)
	return nil
}

func (k *Kernel) mutexAcquireBlocking(t *Task, id uint32) error {
	for {
		k.mu.Lock()
		m, ok := k.mutexes.Get(id)
		if !ok {
			k.mu.Unlock()
			return NewError(KindNotFound, ComponentMutex, "unknown mutex id")
		}
		blocked, err := m.Acquire(t)
		if err != nil {
			k.mu.Unlock()
			k.fail(err)
			return err
		}
		if !blocked {
			k.mu.Unlock()
			return nil
		}
		t.State = TaskBlocked
		k.mu.Unlock()
		k.relinquish(t, CauseBlocked)
	}
}

func (k *Kernel) mutexRelease(t *Task, id uint32) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.mutexes.Get(id)
	if !ok {
		return NewError(KindNotFound, ComponentMutex, "unknown mutex id")
	}
	woken, err := m.Release(t)
	if err != nil {
		return err
	}
	if woken != nil {
		k.makeReady(woken)
	}
	return nil
}

// mutexAcquireNonBlocking attempts to acquire without blocking. Mutex
// recursion requires knowing the caller's identity, unlike the semaphore
// non-blocking variants, so this is only reachable via Runtime.
func (k *Kernel) mutexAcquireNonBlocking(t *Task, id uint32) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.mutexes.Get(id)
	if !ok {
		return false, NewError(KindNotFound, ComponentMutex, "unknown mutex id")
	}
	return m.AcquireNonBlocking(t), nil
}

func (k *Kernel) mutexReleaseNonBlocking(t *Task, id uint32) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.mutexes.Get(id)
	if !ok {
		return NewError(KindNotFound, ComponentMutex, "unknown mutex id")
	}
	return m.ReleaseNonBlocking(t)
}

// --- Message queue facade -------------------------------------------------

// QueueCreate allocates a message queue and returns its id.
func (k *Kernel) QueueCreate(name string, depth, elemSize int) (uint32, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if depth <= 0 {
		depth = k.cfg.defaultQueueSize
	}
	id, err := k.queues.NextID()
	if err != nil {
		return 0, WrapError(KindCapacityExceeded, ComponentQueue, "queue registry full", err)
	}
	if err := k.queues.Add(id, NewQueue(id, name, depth, elemSize)); err != nil {
		return 0, err
	}
	return id, nil
}

// QueueDelete returns every sender and receiver waiter to its ready
// group, then releases the slot.
func (k *Kernel) QueueDelete(id uint32) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	q, ok := k.queues.Get(id)
	if !ok {
		return NewError(KindNotFound, ComponentQueue, "unknown queue id")
	}
	for _, t := range q.Flush() {
		k.makeReady(t)
	}
	k.queues.Remove(id)
	return nil
}

// QueueSendNonBlocking attempts to send without blocking.
func (k *Kernel) QueueSendNonBlocking(id uint32, payload []byte, urgent bool) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	q, ok := k.queues.Get(id)
	if !ok {
		return NewError(KindNotFound, ComponentQueue, "unknown queue id")
	}
	woken, err := q.trySend(payload, urgent)
	if err != nil {
		return err
	}
	if woken != nil {
		k.makeReady(woken)
	}
	return nil
}

func (k *Kernel) queueSendBlocking(t *Task, id uint32, payload []byte, urgent bool) error {
	for {
		k.mu.Lock()
		q, ok := k.queues.Get(id)
		if !ok {
			k.mu.Unlock()
			return NewError(KindNotFound, ComponentQueue, "unknown queue id")
		}
		woken, err := q.trySend(payload, urgent)
		if err == nil {
			if woken != nil {
				k.makeReady(woken)
			}
			k.mu.Unlock()
			return nil
		}
		if !IsKind(err, KindContention) {
			k.mu.Unlock()
			k.fail(err)
			return err
		}
		q.BlockSender(t)
		t.State = TaskBlocked
		k.mu.Unlock()
		k.relinquish(t, CauseBlocked)
	}
}

func (k *Kernel) queueReceiveBlocking(t *Task, id uint32, out []byte) error {
	for {
		k.mu.Lock()
		q, ok := k.queues.Get(id)
		if !ok {
			k.mu.Unlock()
			return NewError(KindNotFound, ComponentQueue, "unknown queue id")
		}
		woken, got := q.tryReceive(t, out)
		if got {
			if woken != nil {
				k.makeReady(woken)
			}
			k.mu.Unlock()
			return nil
		}
		q.BlockReceiver(t, out)
		t.State = TaskBlocked
		k.mu.Unlock()
		k.relinquish(t, CauseBlocked)
	}
}

// --- Event facade -------------------------------------------------

// EventSend ORs bits into target's received mask, runs its filter if set,
// and wakes it (from the delay list or the blocked-events list) if the
// result satisfies its wanted mask, per spec §4.8.
func (k *Kernel) EventSend(targetID uint32, bits uint32) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	target, ok := k.tasks.Get(targetID)
	if !ok {
		return NewError(KindNotFound, ComponentTask, "unknown task id")
	}
	if !target.events.applySend(bits) {
		return nil
	}
	if owner := target.node.Owner(); owner == &k.delay || owner == &k.blockedEvents {
		k.wake(target)
	}
	return nil
}

func (k *Kernel) eventReceiveBlocking(t *Task, out *uint32) error {
	for {
		k.mu.Lock()
		if t.events.satisfied() {
			t.events.consume(out)
			k.mu.Unlock()
			return nil
		}
		Transfer(&k.blockedEvents, t.node)
		t.State = TaskBlocked
		k.mu.Unlock()
		k.relinquish(t, CauseBlocked)
	}
}

func (k *Kernel) eventReceiveTimeout(t *Task, out *uint32, timeoutTicks int) error {
	k.mu.Lock()
	if t.events.satisfied() {
		t.events.consume(out)
		k.mu.Unlock()
		return nil
	}
	t.events.Timeout = timeoutTicks
	k.insertDelay(t, timeoutTicks)
	t.State = TaskBlocked
	k.mu.Unlock()
	k.relinquish(t, CauseDelayed)

	k.mu.Lock()
	defer k.mu.Unlock()
	if t.events.satisfied() {
		t.events.consume(out)
		return nil
	}
	*out = 0
	return NewError(KindTimeout, ComponentEvent, "event wait timed out")
}

// --- Delay -------------------------------------------------

func (k *Kernel) delayTask(t *Task, ticks int) {
	if ticks <= 0 {
		k.relinquish(t, CauseYielded)
		return
	}
	k.mu.Lock()
	k.insertDelay(t, ticks)
	t.State = TaskBlocked
	k.mu.Unlock()
	k.relinquish(t, CauseDelayed)
}
