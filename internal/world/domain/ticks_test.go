package domain

import (
	"testing"
	"time"
)

func TestTicksFromSecs(t *testing.T) {
	if got := TicksFromSecs(1); got != Ticks(TicksPerSecond) {
		t.Fatalf("TicksFromSecs(1) = %d, want %d", got, TicksPerSecond)
	}
	if got := TicksFromSecs(8); got != Ticks(8*TicksPerSecond) {
		t.Fatalf("TicksFromSecs(8) = %d, want %d", got, 8*TicksPerSecond)
	}
	// Saturates instead of wrapping.
	if got := TicksFromSecs(1_000_000); got != 0xffff {
		t.Fatalf("TicksFromSecs(1e6) = %d, want 0xffff", got)
	}
}

func TestTicksArithmetic(t *testing.T) {
	if got := Ticks(0xffff).WrappingAdd(1); got != 0 {
		t.Fatalf("WrappingAdd wrapped to %d, want 0", got)
	}
	if got := Ticks(0xfffe).SaturatingAdd(5); got != 0xffff {
		t.Fatalf("SaturatingAdd = %d, want 0xffff", got)
	}
	if got := Ticks(3).SaturatingSub(10); got != 0 {
		t.Fatalf("SaturatingSub = %d, want 0", got)
	}
	if got, ok := Ticks(10).CheckedSub(3); !ok || got != 7 {
		t.Fatalf("CheckedSub = %d,%v, want 7,true", got, ok)
	}
	if _, ok := Ticks(3).CheckedSub(10); ok {
		t.Fatalf("CheckedSub underflow should fail")
	}
}

func TestTicksEvery(t *testing.T) {
	if Ticks(5).Every(0) {
		t.Fatalf("zero period must never elapse")
	}
	period := TicksFromSecs(8)
	if !Ticks(0).Every(period) {
		t.Fatalf("tick 0 should elapse every period")
	}
	if Ticks(1).Every(period) {
		t.Fatalf("tick 1 should not elapse on an 8s period")
	}
	if !(period * 3).Every(period) {
		t.Fatalf("multiples of the period should elapse")
	}
}

func TestTicksDuration(t *testing.T) {
	if got := Ticks(TicksPerSecond).Duration(); got != time.Second {
		t.Fatalf("Duration = %v, want 1s", got)
	}
}
