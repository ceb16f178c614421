// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package kernel

// Queue is a bounded message queue with symmetric sender/receiver blocking
// and direct-delivery rendezvous, per spec §4.7. Every method assumes the
// caller holds the kernel's critical section.
type Queue struct {
	ID        uint32
	Name      string
	ring      *Ring
	receivers List[*Task]
	senders   List[*Task]
}

// NewQueue allocates a queue holding up to depth elements of elemSize
// bytes each.
func NewQueue(id uint32, name string, depth, elemSize int) *Queue {
	return &Queue{ID: id, Name: name, ring: NewRing(depth, elemSize)}
}

// ElemSize returns the configured per-message byte size.
func (q *Queue) ElemSize() int { return q.ring.ElemSize() }

// Depth returns the ring's element capacity.
func (q *Queue) Depth() int { return q.ring.Cap() }

// trySend implements the non-blocking core of send (spec §4.7): deliver
// directly to a waiting receiver's rendezvous slot if one exists, else fall
// back to the ring (front for normal, back for urgent). Returns the woken
// receiver, if any, for the scheduler wrapper to re-ready.
func (q *Queue) trySend(payload []byte, urgent bool) (woken *Task, err error) {
	if n := q.receivers.PopFront(); n != nil {
		target := n.Value
		copy(target.rendezvous.payload, payload)
		target.rendezvous.set = true
		target.rendezvous.payload = nil
		return target, nil
	}
	if urgent {
		err = q.ring.PushBack(payload)
	} else {
		err = q.ring.PushFront(payload)
	}
	if err != nil {
		if !IsKind(err, KindContention) {
			return nil, err
		}
		return nil, WrapError(KindContention, ComponentQueue, "unable to send", err)
	}
	return nil, nil
}

// BlockSender transfers t into the sender-wait list, for use after trySend
// returns KindContention in a blocking caller.
func (q *Queue) BlockSender(t *Task) {
	Transfer(&q.senders, t.node)
}

// tryReceive implements the non-blocking core of receive (spec §4.7): a
// set rendezvous slot is consumed first, then the ring. Either path may
// surface a blocked sender to re-ready. ok is false only when nothing was
// available to read.
func (q *Queue) tryReceive(t *Task, out []byte) (woken *Task, ok bool) {
	if t.rendezvous.set {
		copy(out, t.rendezvous.payload)
		t.rendezvous.set = false
		t.rendezvous.payload = nil
		if n := q.senders.PopFront(); n != nil {
			return n.Value, true
		}
		return nil, true
	}
	if q.ring.Read(out) {
		if n := q.senders.PopFront(); n != nil {
			return n.Value, true
		}
		return nil, true
	}
	return nil, false
}

// BlockReceiver parks t's rendezvous slot at out and transfers it into the
// receiver-wait list, so a later direct delivery fills out in place.
func (q *Queue) BlockReceiver(t *Task, out []byte) {
	t.rendezvous.payload = out
	Transfer(&q.receivers, t.node)
}

// Flush detaches every sender and receiver waiter, returning them combined
// for re-readying; rendezvous state on any flushed receiver is cleared.
func (q *Queue) Flush() []*Task {
	var woken []*Task
	for n := q.senders.PopFront(); n != nil; n = q.senders.PopFront() {
		woken = append(woken, n.Value)
	}
	for n := q.receivers.PopFront(); n != nil; n = q.receivers.PopFront() {
		n.Value.rendezvous = rendezvousSlot{}
		woken = append(woken, n.Value)
	}
	return woken
}
