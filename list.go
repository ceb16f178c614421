// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package kernel

// Node is one element of a List. Obtain one via NewNode, then link it with
// List.PushFront/PushBack or one of the Transfer functions.
//
// A Node never copies its payload on move: transferring a task between its
// ready group and a primitive's wait list relinks the same *Node, which is
// exactly the "single back-reference field on the task" that spec §9
// prescribes instead of the source's double-pointer-as-handle idiom.
type Node[T any] struct {
	Value      T
	prev, next *Node[T]
	owner      *List[T]
}

// List is a generic intrusive-style doubly linked list. It never owns T's
// lifetime (the caller does); it only owns the arrangement of Nodes.
//
// None of List's methods are safe for concurrent use — exactly like the
// teacher's ChunkedIngress ("the caller must provide external
// synchronization"), which here is the kernel's critical section.
type List[T any] struct {
	front, back *Node[T]
	size        int
}

// NewNode allocates a detached Node carrying value.
func NewNode[T any](value T) *Node[T] {
	return &Node[T]{Value: value}
}

// Len returns the number of nodes currently in the list.
func (l *List[T]) Len() int { return l.size }

// Owner reports which List currently contains n, or nil if n is detached.
func (n *Node[T]) Owner() *List[T] { return n.owner }

// Next returns the node following n in its owning list, or nil at the end.
func (n *Node[T]) Next() *Node[T] { return n.next }

// Prev returns the node preceding n in its owning list, or nil at the start.
func (n *Node[T]) Prev() *Node[T] { return n.prev }

// Front returns the oldest node (nil if empty).
func (l *List[T]) Front() *Node[T] { return l.front }

// Back returns the newest node (nil if empty).
func (l *List[T]) Back() *Node[T] { return l.back }

func (l *List[T]) link(n *Node[T]) {
	n.owner = l
	l.size++
}

func (l *List[T]) unlink(n *Node[T]) {
	n.owner = nil
	n.prev = nil
	n.next = nil
	l.size--
}

// PushBack appends n at the newest end. Combined with PopFront this gives
// FIFO order (spec §8, P9).
func (l *List[T]) PushBack(n *Node[T]) {
	n.prev = l.back
	n.next = nil
	if l.back != nil {
		l.back.next = n
	} else {
		l.front = n
	}
	l.back = n
	l.link(n)
}

// PushFront prepends n at the oldest end. Combined with PopFront this
// reverses insertion order (spec §8, P9).
func (l *List[T]) PushFront(n *Node[T]) {
	n.next = l.front
	n.prev = nil
	if l.front != nil {
		l.front.prev = n
	} else {
		l.back = n
	}
	l.front = n
	l.link(n)
}

// PopFront removes and returns the oldest node, or nil if the list is
// empty.
func (l *List[T]) PopFront() *Node[T] {
	n := l.front
	if n == nil {
		return nil
	}
	l.front = n.next
	if l.front != nil {
		l.front.prev = nil
	} else {
		l.back = nil
	}
	l.unlink(n)
	return n
}

// PopBack removes and returns the newest node, or nil if the list is empty.
func (l *List[T]) PopBack() *Node[T] {
	n := l.back
	if n == nil {
		return nil
	}
	l.back = n.prev
	if l.back != nil {
		l.back.next = nil
	} else {
		l.front = nil
	}
	l.unlink(n)
	return n
}

// PeekBack returns the newest node without removing it.
func (l *List[T]) PeekBack() *Node[T] { return l.back }

// InsertAfter inserts n immediately after anchor. If anchor is nil, n is
// inserted at the front (oldest position). anchor must already belong to
// l, and n must be detached.
func (l *List[T]) InsertAfter(anchor, n *Node[T]) {
	if anchor == nil {
		l.PushFront(n)
		return
	}
	n.prev = anchor
	n.next = anchor.next
	if anchor.next != nil {
		anchor.next.prev = n
	} else {
		l.back = n
	}
	anchor.next = n
	l.link(n)
}

// Remove detaches n from whichever list currently owns it (which need not
// be l) and returns it. If n is already detached, Remove is a no-op and
// returns n unchanged.
func Remove[T any](n *Node[T]) *Node[T] {
	owner := n.owner
	if owner == nil {
		return n
	}
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		owner.front = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		owner.back = n.prev
	}
	owner.unlink(n)
	return n
}

// Transfer detaches n from its current list (if any) and pushes it onto
// dst at the newest end. This is the primitive the scheduler uses to move
// a task between a ready group and a wait list in O(1).
func Transfer[T any](dst *List[T], n *Node[T]) {
	Remove(n)
	dst.PushBack(n)
}

// TransferFront detaches n from its current list (if any) and pushes it
// onto dst at the oldest end.
func TransferFront[T any](dst *List[T], n *Node[T]) {
	Remove(n)
	dst.PushFront(n)
}

// TransferAfter detaches n from its current list and inserts it into dst
// immediately after anchor (anchor must belong to dst, or be nil to mean
// "at the front").
func TransferAfter[T any](dst *List[T], anchor, n *Node[T]) {
	Remove(n)
	dst.InsertAfter(anchor, n)
}

// Splice appends every node of src onto dst's newest end, in src's
// existing order, leaving src empty. Every moved node's owner is updated,
// which is O(n) in the number of moved nodes; the lists' own head/tail
// bookkeeping is O(1).
func Splice[T any](dst, src *List[T]) {
	if src.size == 0 {
		return
	}
	for n := src.front; n != nil; n = n.next {
		n.owner = dst
	}
	if dst.back != nil {
		dst.back.next = src.front
		src.front.prev = dst.back
	} else {
		dst.front = src.front
	}
	dst.back = src.back
	dst.size += src.size
	src.front, src.back, src.size = nil, nil, 0
}
