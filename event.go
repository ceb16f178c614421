// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package kernel

// EventFilterFunc may clear bits from received before the wanted/received
// comparison runs, per spec §4.8. It is invoked with a pointer so it can
// veto an otherwise-satisfying combination (P12, no spurious wakeups).
type EventFilterFunc func(received *uint32, wanted uint32)

// EventRegister is the per-task event state: a wanted/received bitmask
// pair plus an optional filter and timeout, per spec §3/§4.8. It has no
// registry of its own — it lives embedded on the owning Task.
type EventRegister struct {
	Wanted   uint32
	Received uint32
	Filter   EventFilterFunc
	Timeout  int
}

// applySend ORs bits into Received, runs the filter if set, and reports
// whether the wanted mask is now satisfied.
func (e *EventRegister) applySend(bits uint32) bool {
	e.Received |= bits
	if e.Filter != nil {
		e.Filter(&e.Received, e.Wanted)
	}
	return e.satisfied()
}

func (e *EventRegister) satisfied() bool {
	return e.Received&e.Wanted == e.Wanted
}

// consume copies Received to out and clears the bits that satisfied Wanted,
// per spec §4.8's receive contract.
func (e *EventRegister) consume(out *uint32) {
	*out = e.Received
	e.Received &^= e.Wanted
}
