package common

import (
	"errors"
	"sync/atomic"
)

// ErrReentrantCall indicates a money-moving entry point was invoked while
// another one was still in flight on the same wallet instance.
var ErrReentrantCall = errors.New("wallet: reentrant call")

// ReentrancyGuard is a single busy flag shared across every entry point that
// moves tokens or native currency. A callee re-entering any guarded method
// before the current one completes observes ErrReentrantCall.
type ReentrancyGuard struct {
	busy atomic.Bool
}

// Enter acquires the guard. Callers must pair a successful Enter with Exit,
// typically via defer.
func (g *ReentrancyGuard) Enter() error {
	if g == nil {
		return nil
	}
	if !g.busy.CompareAndSwap(false, true) {
		return ErrReentrantCall
	}
	return nil
}

// Exit releases the guard.
func (g *ReentrancyGuard) Exit() {
	if g == nil {
		return
	}
	g.busy.Store(false)
}
