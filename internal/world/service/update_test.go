package service

import (
	"testing"

	"github.com/SoftbearStudios/kiomet/internal/world/domain"
)

func TestGameUpdateSkipsUnchangedChunks(t *testing.T) {
	s := newTestService()
	pid := humanId(40)
	s.Join(pid, "Nia")

	centerChunk, _ := domain.WorldCenter.Split()
	view := domain.ChunkRectangle{BottomLeft: centerChunk, TopRight: centerChunk}
	if err := s.SetViewport(pid, view); err != nil {
		t.Fatalf("set viewport: %v", err)
	}

	first := s.GetGameUpdate(pid)
	if first == nil || len(first.Chunks) != 1 {
		t.Fatalf("first update should carry the newly visible chunk, got %+v", first)
	}

	// Nothing happened since, so the chunk is not resent.
	second := s.GetGameUpdate(pid)
	if second == nil {
		t.Fatalf("an update is produced every tick")
	}
	if len(second.Chunks) != 0 {
		t.Fatalf("unchanged chunk resent, got %d chunks", len(second.Chunks))
	}

	// Any mutation makes the next update carry the chunk again.
	_, relative := domain.WorldCenter.Split()
	s.World().Chunk(centerChunk).Insert(relative, domain.NewTower(domain.WorldCenter))
	third := s.GetGameUpdate(pid)
	if len(third.Chunks) != 1 {
		t.Fatalf("modified chunk not resent, got %d chunks", len(third.Chunks))
	}
}

func TestGameUpdateResendsChunkAfterScrollOut(t *testing.T) {
	s := newTestService()
	pid := humanId(41)
	s.Join(pid, "Ott")

	centerChunk, _ := domain.WorldCenter.Split()
	view := domain.ChunkRectangle{BottomLeft: centerChunk, TopRight: centerChunk}
	if err := s.SetViewport(pid, view); err != nil {
		t.Fatalf("set viewport: %v", err)
	}

	if first := s.GetGameUpdate(pid); len(first.Chunks) != 1 {
		t.Fatalf("first update should carry the chunk")
	}

	// Scroll away and back; the chunk resends in full even though it
	// did not change.
	if err := s.SetViewport(pid, domain.InvalidChunkRectangle()); err != nil {
		t.Fatalf("clear viewport: %v", err)
	}
	if away := s.GetGameUpdate(pid); len(away.Chunks) != 0 {
		t.Fatalf("empty viewport should carry no chunks")
	}

	if err := s.SetViewport(pid, view); err != nil {
		t.Fatalf("restore viewport: %v", err)
	}
	if back := s.GetGameUpdate(pid); len(back.Chunks) != 1 {
		t.Fatalf("returning chunk should resend in full")
	}
}
