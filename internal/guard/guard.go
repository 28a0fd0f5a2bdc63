// Package guard implements the reentrancy protection for mutating vault
// operations: a process-wide in-progress flag, set on entry, cleared on exit,
// checked before anything else. Any call arriving while an operation is in
// progress fails instead of proceeding or deadlocking — in particular a
// nested call made from within the external-transfer interaction step.
package guard

import (
	"errors"
	"sync/atomic"
)

// ErrReentrantCall is returned when a guarded operation is already in progress.
var ErrReentrantCall = errors.New("guard: operation already in progress")

// Guard is the in-progress flag. The zero value is ready to use.
type Guard struct {
	busy atomic.Bool
}

// Enter claims the guard. It must be the first check of every mutating entry
// point; callers pair it with a deferred Exit so the flag is released on
// every path, including error exits.
func (g *Guard) Enter() error {
	if !g.busy.CompareAndSwap(false, true) {
		return ErrReentrantCall
	}
	return nil
}

// Exit releases the guard.
func (g *Guard) Exit() {
	g.busy.Store(false)
}
