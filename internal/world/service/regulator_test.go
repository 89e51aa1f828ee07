package service

import (
	"testing"

	"github.com/SoftbearStudios/kiomet/internal/world/domain"
)

func TestRegulatorJoinFastPath(t *testing.T) {
	r := NewRegulator()
	pid := domain.NewPlayerId(1, 42)

	if !r.Join(pid) {
		t.Fatalf("first join should take the fast path")
	}
	if !r.Active(pid) {
		t.Fatalf("player should be active immediately after a fast path join")
	}
	if r.Join(pid) {
		t.Fatalf("second join should not take the fast path")
	}
}

func TestRegulatorLeaveTakesTwoTicks(t *testing.T) {
	r := NewRegulator()
	pid := domain.NewPlayerId(1, 42)
	r.Join(pid)
	r.Leave(pid)

	if r.Active(pid) {
		t.Fatalf("player should be inactive as soon as they leave")
	}

	var removed []domain.PlayerId
	cb := func(playerId domain.PlayerId, add bool) {
		if add {
			t.Fatalf("unexpected add for %v", playerId)
		}
		removed = append(removed, playerId)
	}

	r.Tick(cb)
	if len(removed) != 0 {
		t.Fatalf("removal fired one tick early")
	}
	r.Tick(cb)
	if len(removed) != 1 || removed[0] != pid {
		t.Fatalf("removed = %v, want [%v]", removed, pid)
	}

	// One more tick and the expired slot is forgotten.
	r.Tick(func(domain.PlayerId, bool) {})
	if r.Len() != 0 {
		t.Fatalf("Len = %d after expiry, want 0", r.Len())
	}
}

func TestRegulatorRejoinKeepsSlot(t *testing.T) {
	r := NewRegulator()
	pid := domain.NewPlayerId(1, 7)
	r.Join(pid)
	r.Leave(pid)
	r.Join(pid)

	var adds, removes int
	for i := 0; i < 4; i++ {
		r.Tick(func(_ domain.PlayerId, add bool) {
			if add {
				adds++
			} else {
				removes++
			}
		})
	}
	// The pending leave still drains, then the rejoin adds the player
	// back. They must end up active.
	if removes != 1 || adds != 1 {
		t.Fatalf("adds=%d removes=%d, want 1 and 1", adds, removes)
	}
	if !r.Active(pid) {
		t.Fatalf("rejoined player should be active")
	}
}

func TestRegulatorLeaveUnknownIsNoop(t *testing.T) {
	r := NewRegulator()
	r.Leave(domain.NewPlayerId(1, 99))
	if r.Len() != 0 {
		t.Fatalf("leaving an unknown player should not track it")
	}
}

func TestRegulatorChurnCollapses(t *testing.T) {
	r := NewRegulator()
	pid := domain.NewPlayerId(2, 5)
	r.Join(pid)
	r.Leave(pid)
	r.Join(pid)
	r.Leave(pid)
	r.Join(pid)

	var adds, removes int
	for i := 0; i < 6; i++ {
		r.Tick(func(_ domain.PlayerId, add bool) {
			if add {
				adds++
			} else {
				removes++
			}
		})
	}
	if removes != 1 || adds != 1 {
		t.Fatalf("churn produced adds=%d removes=%d, want 1 and 1", adds, removes)
	}
}
