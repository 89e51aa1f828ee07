package dc

import (
	"context"
	"testing"
	"time"

	"github.com/SoftbearStudios/kiomet/internal/world/infra/persistence/memory"
	"github.com/SoftbearStudios/kiomet/internal/world/snapshot"
)

func TestWorldDCDrainsNewestOnClose(t *testing.T) {
	repo := memory.NewWorldRepository()
	d := NewWorldDC(repo, 7, time.Minute)

	for tick := uint16(1); tick <= 3; tick++ {
		d.Enqueue(&snapshot.World{Tick: tick})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	snap, err := repo.Load(context.Background(), 7)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap == nil {
		t.Fatalf("nothing persisted")
	}
	if snap.ServerId != 7 {
		t.Fatalf("ServerId = %d, want 7", snap.ServerId)
	}
	if snap.Tick != 3 {
		t.Fatalf("Tick = %d, want the newest snapshot", snap.Tick)
	}
}

func TestWorldDCEnqueueAfterClose(t *testing.T) {
	repo := memory.NewWorldRepository()
	d := NewWorldDC(repo, 1, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Dropped silently instead of waking a stopped writer.
	d.Enqueue(&snapshot.World{Tick: 9})

	snap, err := repo.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap != nil {
		t.Fatalf("snapshot persisted after close")
	}
}

func TestWorldDCLoadRoundTrip(t *testing.T) {
	repo := memory.NewWorldRepository()
	d := NewWorldDC(repo, 2, time.Minute)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = d.Close(ctx)
	}()

	snap, err := d.Load(context.Background())
	if err != nil {
		t.Fatalf("Load on empty repo: %v", err)
	}
	if snap != nil {
		t.Fatalf("expected no snapshot for a fresh server")
	}
}
