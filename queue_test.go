// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package kernel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newQueueTestTask(id uint32) *Task {
	t := &Task{ID: id}
	t.node = NewNode[*Task](t)
	return t
}

func TestQueueRingRoundTripFIFO(t *testing.T) {
	q := NewQueue(1, "q", 2, 4)

	woken, err := q.trySend([]byte("aaaa"), false)
	require.NoError(t, err)
	require.Nil(t, woken)
	woken, err = q.trySend([]byte("bbbb"), false)
	require.NoError(t, err)
	require.Nil(t, woken)

	out := make([]byte, 4)
	receiver := newQueueTestTask(1)
	_, ok := q.tryReceive(receiver, out)
	require.True(t, ok)
	require.Equal(t, "aaaa", string(out))

	_, ok = q.tryReceive(receiver, out)
	require.True(t, ok)
	require.Equal(t, "bbbb", string(out))
}

func TestQueueUrgentSendIsReadFirst(t *testing.T) {
	q := NewQueue(1, "q", 4, 4)
	_, _ = q.trySend([]byte("norm"), false)
	_, _ = q.trySend([]byte("urgt"), true)

	out := make([]byte, 4)
	receiver := newQueueTestTask(1)
	_, ok := q.tryReceive(receiver, out)
	require.True(t, ok)
	require.Equal(t, "urgt", string(out), "urgent send jumps the ring ahead of normal FIFO order")
}

func TestQueueFullTrySendIsContention(t *testing.T) {
	q := NewQueue(1, "q", 1, 4)
	_, err := q.trySend([]byte("aaaa"), false)
	require.NoError(t, err)

	_, err = q.trySend([]byte("bbbb"), false)
	require.Error(t, err)
	require.True(t, IsKind(err, KindContention))
}

func TestQueueDirectDeliveryBypassesRing(t *testing.T) {
	q := NewQueue(1, "q", 4, 4)
	receiver := newQueueTestTask(1)
	out := make([]byte, 4)
	q.BlockReceiver(receiver, out)

	woken, err := q.trySend([]byte("ping"), false)
	require.NoError(t, err)
	require.Equal(t, receiver, woken)
	require.True(t, receiver.rendezvous.set)
	require.Equal(t, "ping", string(out), "payload is copied directly into the receiver's parked buffer")
	require.Equal(t, 0, q.ring.Len(), "direct delivery never touches the ring")
}

func TestQueueEmptyTryReceiveBlocksSender(t *testing.T) {
	q := NewQueue(1, "q", 1, 4)
	receiver := newQueueTestTask(1)
	out := make([]byte, 4)

	_, ok := q.tryReceive(receiver, out)
	require.False(t, ok)

	sender := newQueueTestTask(2)
	q.BlockSender(sender)
	require.Equal(t, &q.senders, sender.node.Owner())
}

func TestQueueReceiveWakesBlockedSenderOnRingDrain(t *testing.T) {
	q := NewQueue(1, "q", 1, 4)
	_, _ = q.trySend([]byte("aaaa"), false)

	sender := newQueueTestTask(2)
	_, err := q.trySend([]byte("bbbb"), false)
	require.True(t, IsKind(err, KindContention))
	q.BlockSender(sender)

	out := make([]byte, 4)
	receiver := newQueueTestTask(1)
	woken, ok := q.tryReceive(receiver, out)
	require.True(t, ok)
	require.Equal(t, sender, woken, "draining a ring slot must surface the oldest blocked sender for retry")
}

func TestQueueFlushClearsRendezvousState(t *testing.T) {
	q := NewQueue(1, "q", 4, 4)
	receiver := newQueueTestTask(1)
	out := make([]byte, 4)
	q.BlockReceiver(receiver, out)
	sender := newQueueTestTask(2)
	q.BlockSender(sender)

	woken := q.Flush()
	require.ElementsMatch(t, []*Task{receiver, sender}, woken)
	require.Equal(t, rendezvousSlot{}, receiver.rendezvous)
}
