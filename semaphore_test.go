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

func TestSemaphoreAcquireReleaseRoundTrip(t *testing.T) {
	s := NewSemaphore(1, 1, 2)
	require.True(t, s.IsAvailable())

	blocked, err := s.Acquire(&Task{node: NewNode[*Task](nil)})
	require.NoError(t, err)
	require.False(t, blocked)
	require.Equal(t, 0, s.Tokens())

	require.NoError(t, s.ReleaseNonBlocking())
	require.Equal(t, 1, s.Tokens())
}

// TestSemaphoreFIFOWaiters checks P7: the oldest waiter is released first.
func TestSemaphoreFIFOWaiters(t *testing.T) {
	s := NewSemaphore(1, 0, 1)
	a := &Task{ID: 1, node: NewNode[*Task](nil)}
	a.node.Value = a
	b := &Task{ID: 2, node: NewNode[*Task](nil)}
	b.node.Value = b

	blocked, err := s.Acquire(a)
	require.NoError(t, err)
	require.True(t, blocked)

	blocked, err = s.Acquire(b)
	require.NoError(t, err)
	require.True(t, blocked)
	require.Equal(t, 2, s.Waiters())

	woken, err := s.Release()
	require.NoError(t, err)
	require.Equal(t, a, woken)
	require.Equal(t, 1, s.Waiters())

	// a's blocking-acquire loop retries and takes the token it was woken for
	blocked, err = s.Acquire(a)
	require.NoError(t, err)
	require.False(t, blocked)

	woken, err = s.Release()
	require.NoError(t, err)
	require.Equal(t, b, woken)
	require.Equal(t, 0, s.Waiters())
}

func TestSemaphoreReleaseAtMaxIsContention(t *testing.T) {
	s := NewSemaphore(1, 1, 1)
	_, err := s.Release()
	require.Error(t, err)
	require.True(t, IsKind(err, KindContention))
}

func TestSemaphoreAcquireNonBlockingNeverTouchesWaiters(t *testing.T) {
	s := NewSemaphore(1, 0, 1)
	require.False(t, s.AcquireNonBlocking())
	require.Equal(t, 0, s.Waiters())
}

func TestSemaphoreFlushReturnsAllWaitersAndEmptiesList(t *testing.T) {
	s := NewSemaphore(1, 0, 1)
	a := &Task{ID: 1, node: NewNode[*Task](nil)}
	a.node.Value = a
	b := &Task{ID: 2, node: NewNode[*Task](nil)}
	b.node.Value = b
	_, _ = s.Acquire(a)
	_, _ = s.Acquire(b)

	woken := s.Flush()
	require.ElementsMatch(t, []*Task{a, b}, woken)
	require.Equal(t, 0, s.Waiters())
}
