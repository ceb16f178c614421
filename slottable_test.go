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

func TestSlotTableAddGet(t *testing.T) {
	tbl := NewSlotTable[uint32, string](4)
	require.NoError(t, tbl.Add(0, "a"))
	require.NoError(t, tbl.Add(3, "d"))

	v, ok := tbl.Get(0)
	require.True(t, ok)
	require.Equal(t, "a", v)

	_, ok = tbl.Get(1)
	require.False(t, ok)
}

func TestSlotTableOverflow(t *testing.T) {
	tbl := NewSlotTable[uint32, int](2)
	err := tbl.Add(2, 1)
	require.Error(t, err)
	require.True(t, IsKind(err, KindCapacityExceeded))
}

func TestSlotTableNextIDExhaustion(t *testing.T) {
	tbl := NewSlotTable[uint32, int](2)
	id0, err := tbl.NextID()
	require.NoError(t, err)
	require.Equal(t, uint32(0), id0)

	id1, err := tbl.NextID()
	require.NoError(t, err)
	require.Equal(t, uint32(1), id1)

	_, err = tbl.NextID()
	require.Error(t, err)
}

func TestSlotTableRemoveDoesNotRecycle(t *testing.T) {
	tbl := NewSlotTable[uint32, int](2)
	id, _ := tbl.NextID()
	require.NoError(t, tbl.Add(id, 42))
	tbl.Remove(id)

	_, ok := tbl.Get(id)
	require.False(t, ok)

	// the id counter never rewinds, even though the slot is free again
	next, err := tbl.NextID()
	require.NoError(t, err)
	require.Equal(t, uint32(1), next)
}

func TestSlotTableDelete(t *testing.T) {
	tbl := NewSlotTable[uint32, int](2)
	_ = tbl.Add(0, 1)
	tbl.Delete()
	require.Equal(t, 0, tbl.Cap())
}
