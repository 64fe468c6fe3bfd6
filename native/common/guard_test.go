package common

import (
	"errors"
	"testing"
)

func TestGuardBlocksNestedEntry(t *testing.T) {
	var g ReentrancyGuard
	if err := g.Enter(); err != nil {
		t.Fatalf("first enter: %v", err)
	}
	if err := g.Enter(); !errors.Is(err, ErrReentrantCall) {
		t.Fatalf("expected ErrReentrantCall, got %v", err)
	}
	g.Exit()
	if err := g.Enter(); err != nil {
		t.Fatalf("enter after exit: %v", err)
	}
}

func TestGuardNilReceiver(t *testing.T) {
	var g *ReentrancyGuard
	if err := g.Enter(); err != nil {
		t.Fatalf("nil guard enter: %v", err)
	}
	g.Exit()
}
