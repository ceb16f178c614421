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

func b4(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func u4(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// TestRingRoundTrip checks P8: push/read pairs return identical bytes.
func TestRingRoundTrip(t *testing.T) {
	r := NewRing(4, 4)
	for i := uint32(1); i <= 10; i++ {
		require.NoError(t, r.PushFront(b4(i)))
		out := make([]byte, 4)
		require.True(t, r.Read(out))
		require.Equal(t, i, u4(out))
	}
}

func TestRingFIFO(t *testing.T) {
	r := NewRing(4, 4)
	require.NoError(t, r.PushFront(b4(1)))
	require.NoError(t, r.PushFront(b4(2)))
	require.NoError(t, r.PushFront(b4(3)))

	out := make([]byte, 4)
	require.True(t, r.Read(out))
	require.Equal(t, uint32(1), u4(out))
	require.True(t, r.Read(out))
	require.Equal(t, uint32(2), u4(out))
	require.True(t, r.Read(out))
	require.Equal(t, uint32(3), u4(out))
}

// TestRingUrgentLIFO checks P5: an urgent push is delivered ahead of
// already-queued normal messages.
func TestRingUrgentLIFO(t *testing.T) {
	r := NewRing(4, 4)
	require.NoError(t, r.PushFront(b4(1)))
	require.NoError(t, r.PushFront(b4(2)))
	require.NoError(t, r.PushBack(b4(99))) // urgent

	out := make([]byte, 4)
	require.True(t, r.Read(out))
	require.Equal(t, uint32(99), u4(out))
	require.True(t, r.Read(out))
	require.Equal(t, uint32(1), u4(out))
	require.True(t, r.Read(out))
	require.Equal(t, uint32(2), u4(out))
}

func TestRingPreventsOverwrite(t *testing.T) {
	r := NewRing(2, 4)
	require.NoError(t, r.PushFront(b4(1)))
	require.NoError(t, r.PushFront(b4(2)))
	err := r.PushFront(b4(3))
	require.Error(t, err)
	require.True(t, IsKind(err, KindContention))
}

func TestRingPeekDoesNotAdvance(t *testing.T) {
	r := NewRing(2, 4)
	require.NoError(t, r.PushFront(b4(7)))

	out := make([]byte, 4)
	require.True(t, r.Peek(out))
	require.Equal(t, uint32(7), u4(out))
	require.Equal(t, 1, r.Len())

	require.True(t, r.Read(out))
	require.Equal(t, 0, r.Len())
}

func TestRingEmptyReadFalse(t *testing.T) {
	r := NewRing(2, 4)
	out := make([]byte, 4)
	require.False(t, r.Read(out))
	require.False(t, r.Peek(out))
}
