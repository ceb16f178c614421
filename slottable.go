// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package kernel

import "golang.org/x/exp/constraints"

// SlotTable is a fixed-capacity, dense-small-integer-keyed table, per spec
// §4.2. It backs the task registry and the three primitive registries
// (semaphores, mutexes, message queues). K is any unsigned integer type,
// matching how the spec's ids (task ids, semaphore/mutex/queue ids) are
// always small non-negative integers rather than a single fixed width.
//
// Grounded on the teacher's registry.go (eventloop): a monotonically
// assigned id maps to a value, with deletion clearing but never recycling
// the id. Unlike registry.go, SlotTable has no GC/weak-pointer concerns
// (the kernel owns every value's lifetime explicitly), so the backing store
// is a plain fixed-size slice rather than a map-plus-scavenger-ring.
type SlotTable[K constraints.Unsigned, V any] struct {
	slots []optSlot[V]
	next  K
}

type optSlot[V any] struct {
	value V
	set   bool
}

// NewSlotTable allocates a table with room for exactly size entries, keyed
// 0..size-1.
func NewSlotTable[K constraints.Unsigned, V any](size int) *SlotTable[K, V] {
	return &SlotTable[K, V]{slots: make([]optSlot[V], size)}
}

// Cap returns the table's fixed capacity.
func (t *SlotTable[K, V]) Cap() int { return len(t.slots) }

// Add stores v at index k, overwriting whatever was there. Returns a
// KindCapacityExceeded *Error if k is out of range.
func (t *SlotTable[K, V]) Add(k K, v V) error {
	if int(k) >= len(t.slots) {
		return NewError(KindCapacityExceeded, ComponentSlotTable, "index out of range")
	}
	t.slots[k] = optSlot[V]{value: v, set: true}
	return nil
}

// NextID returns the next monotonically increasing id and reserves nothing
// else — callers must still Add the value to claim the slot. Returns a
// KindCapacityExceeded *Error once every slot has been issued an id at
// least once.
func (t *SlotTable[K, V]) NextID() (K, error) {
	var zero K
	if int(t.next) >= len(t.slots) {
		return zero, NewError(KindCapacityExceeded, ComponentSlotTable, "registry exhausted")
	}
	id := t.next
	t.next++
	return id, nil
}

// Get returns the value at k and true, or the zero value and false if k is
// out of range or the slot was never set / has been removed.
func (t *SlotTable[K, V]) Get(k K) (V, bool) {
	var zero V
	if int(k) >= len(t.slots) {
		return zero, false
	}
	s := t.slots[k]
	if !s.set {
		return zero, false
	}
	return s.value, true
}

// Remove clears the slot at k, without recycling k for future NextID
// calls, per spec §3 ("deletion clears the slot but does not recycle").
func (t *SlotTable[K, V]) Remove(k K) {
	if int(k) >= len(t.slots) {
		return
	}
	t.slots[k] = optSlot[V]{}
}

// Delete releases the entire backing array, per spec §4.2. The table must
// not be used afterward except to check Cap (which returns 0).
func (t *SlotTable[K, V]) Delete() {
	t.slots = nil
	t.next = 0
}

// Len reports how many slots currently hold a value.
func (t *SlotTable[K, V]) Len() int {
	n := 0
	for _, s := range t.slots {
		if s.set {
			n++
		}
	}
	return n
}

// Each calls fn for every occupied slot, in ascending key order.
func (t *SlotTable[K, V]) Each(fn func(key K, value V)) {
	for i, s := range t.slots {
		if s.set {
			fn(K(i), s.value)
		}
	}
}
