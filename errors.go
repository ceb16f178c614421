// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package kernel

import (
	"errors"
	"fmt"
)

// Kind classifies the reason a facade operation failed, per spec §7.
type Kind int

const (
	// KindNone is the zero value; never returned in a non-nil Error.
	KindNone Kind = iota

	// KindAllocationFailure indicates a container or control block could
	// not be allocated. Fatal for the caller; reported upward unchanged.
	KindAllocationFailure

	// KindCapacityExceeded indicates a compile-time MAX was reached.
	// Recoverable by the caller.
	KindCapacityExceeded

	// KindNotFound indicates an id or key is unknown.
	KindNotFound

	// KindNullValue indicates a lookup found an absent slot.
	KindNullValue

	// KindContention indicates a primitive could not be acquired/sent/
	// received/delivered immediately (NoTokens, OwnedByOtherTask,
	// UnableToSend, UnableToReceive). Surfaced to callers only by
	// non-blocking variants; blocking variants translate it into a wait.
	KindContention

	// KindStructuralViolation indicates an internal invariant broke (list
	// size/pointer desync, missing owner with non-zero lock count). The
	// kernel status transitions to StatusError when this is returned.
	KindStructuralViolation

	// KindUnexpectedState indicates a state-machine transition was
	// refused (e.g. Start or AddTask after Start). The kernel halts in
	// StatusError.
	KindUnexpectedState

	// KindTimeout indicates an event-wait timed out.
	KindTimeout
)

// String returns a human-readable name for k.
func (k Kind) String() string {
	switch k {
	case KindAllocationFailure:
		return "AllocationFailure"
	case KindCapacityExceeded:
		return "CapacityExceeded"
	case KindNotFound:
		return "NotFound"
	case KindNullValue:
		return "NullValue"
	case KindContention:
		return "Contention"
	case KindStructuralViolation:
		return "StructuralViolation"
	case KindUnexpectedState:
		return "UnexpectedState"
	case KindTimeout:
		return "Timeout"
	default:
		return "None"
	}
}

// Component names the subsystem that raised an Error.
type Component string

// Components named by spec §2's table.
const (
	ComponentList      Component = "list"
	ComponentSlotTable Component = "slot_table"
	ComponentRing      Component = "ring"
	ComponentTask      Component = "task"
	ComponentSemaphore Component = "semaphore"
	ComponentMutex     Component = "mutex"
	ComponentQueue     Component = "message_queue"
	ComponentEvent     Component = "event_register"
	ComponentScheduler Component = "scheduler"
	ComponentPlatform  Component = "platform"
)

// Error is the kernel's composite status code: a Kind plus the Component
// that raised it, with an optional wrapped Cause so a subcomponent's
// failure is visible to the caller without losing the originating site, per
// spec §7's "reasons bubble up with a subcomponent tag composed into the
// parent code."
type Error struct {
	Kind      Kind
	Component Component
	Message   string
	Cause     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("kernel: %s: %s: %s", e.Component, e.Kind, e.Message)
	}
	return fmt.Sprintf("kernel: %s: %s", e.Component, e.Kind)
}

// Unwrap returns the wrapped cause, if any, enabling [errors.Is] and
// [errors.As] to walk the chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a *Error with the same Kind and Component,
// regardless of Message/Cause. A target with a zero Component matches any
// Component, and a target with KindNone matches any Kind; this lets callers
// write errors.Is(err, kernel.NewError(kernel.KindContention, "", "")) to check
// the kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != KindNone && t.Kind != e.Kind {
		return false
	}
	if t.Component != "" && t.Component != e.Component {
		return false
	}
	return true
}

// NewError constructs an *Error with no cause.
func NewError(kind Kind, component Component, message string) *Error {
	return &Error{Kind: kind, Component: component, Message: message}
}

// WrapError constructs an *Error that chains cause as its Unwrap target,
// composing the subcomponent's own code into the caller's, per spec §7.
func WrapError(kind Kind, component Component, message string, cause error) *Error {
	return &Error{Kind: kind, Component: component, Message: message, Cause: cause}
}

// IsKind reports whether err is a *Error (directly or via the chain) with
// the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
