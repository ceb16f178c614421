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

func TestEventRegisterSatisfiedRequiresAllWantedBits(t *testing.T) {
	e := EventRegister{Wanted: 0b101}
	require.False(t, e.applySend(0b001))
	require.True(t, e.applySend(0b100))
}

func TestEventRegisterConsumeClearsOnlyWantedBits(t *testing.T) {
	e := EventRegister{Wanted: 0b011}
	e.applySend(0b111)

	var out uint32
	e.consume(&out)
	require.Equal(t, uint32(0b111), out, "consume reports the full received mask pre-clear")
	require.Equal(t, uint32(0b100), e.Received, "only the wanted bits are cleared")
}

// TestEventRegisterFilterCanVetoSatisfaction checks P12: a filter may
// prevent a spurious wakeup even though the raw OR would satisfy Wanted.
func TestEventRegisterFilterCanVetoSatisfaction(t *testing.T) {
	e := EventRegister{
		Wanted: 0b001,
		Filter: func(received *uint32, wanted uint32) {
			*received &^= 0b001 // always strip the bit the filter cares about
		},
	}
	require.False(t, e.applySend(0b001))
	require.Equal(t, uint32(0), e.Received)
}
