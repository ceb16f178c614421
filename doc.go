// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package kernel implements a preemptive, priority-based real-time
// multitasking kernel for a single logical core, modeled after the class of
// fixed-task-set RTOS cores found on Cortex-M microcontrollers.
//
// # Architecture
//
// The kernel is built around a [Kernel] core that owns a set of priority
// groups, a delay list, and three primitive registries (semaphores,
// mutexes, message queues). Application code registers [Task] values before
// [Kernel.Start], then interacts with the running kernel only through the
// facade methods on [Runtime], the handle passed into every task's entry
// function.
//
// # Platform model
//
// A real RTOS core preempts a task by trapping into a pendable-service
// interrupt that swaps stack pointers. Go has no portable equivalent: a
// goroutine's stack cannot be suspended or resumed from outside it. The
// [Platform] interface is therefore the kernel's only dependency on "real"
// concurrency, and its one implementation ([NewSimPlatform]) models the
// single CPU as a baton passed between the scheduler goroutine and exactly
// one task goroutine at a time over unbuffered channels.
// See SPEC_FULL.md §0 for the full rationale.
//
// # Concurrency
//
// Every exported mutation of kernel state happens while the kernel's single
// critical-section mutex is held, mirroring the source's "interrupts
// disabled" discipline (spec §5). Application task entry functions run on
// their own goroutine but are guaranteed never to run concurrently with the
// scheduler or with any other task: the [Platform] only ever grants the
// baton to one goroutine at a time.
//
// # Primitives
//
// [Semaphore], [Mutex], [Queue], and [EventRegister] all block by
// transferring the calling task between the scheduler's ready priority
// group and the primitive's own wait list, then asking the scheduler for a
// context switch. The primitives themselves never retry; the scheduler's
// blocking facade loops (semaphore and mutex acquire, message-queue
// send/receive, blocking event receive) retry after each wake, turning a
// Contention result into a blocking wait per spec §7.
package kernel
