package domain

import "testing"

func TestChunkModifiedSince(t *testing.T) {
	w := NewWorld()
	chunkId := ChunkId{X: 3, Y: 4}
	_, relative := chunkId.BottomLeftTower().Split()

	onInfo := func(InfoEvent) {}
	var inputs WorldInputs
	inputs.ChunkInputs = append(inputs.ChunkInputs, AddressedChunkInput{
		ChunkId: chunkId,
		Input:   ChunkInput{Kind: ChunkInputGenerate, TowerIds: []RelativeTowerId{relative}},
	})
	w.Update(&inputs, onInfo)

	if !w.ChunkModifiedSince(chunkId, 0) {
		t.Fatalf("generating a tower should mark the chunk modified")
	}
	other := ChunkId{X: 20, Y: 20}
	if w.ChunkModifiedSince(other, 0) {
		t.Fatalf("untouched chunk reported modified")
	}

	sentAt := w.Tick()
	inputs.Reset()
	w.Update(&inputs, onInfo)

	// The lone unowned tower does nothing this tick.
	if w.ChunkModifiedSince(chunkId, sentAt) {
		t.Fatalf("idle chunk reported modified after resend")
	}
	// A reader that last saw the chunk before the change still needs it.
	if !w.ChunkModifiedSince(chunkId, 0) {
		t.Fatalf("stale reader should still see the chunk as modified")
	}
}

func TestChunkDirtyBeforeTickStamp(t *testing.T) {
	w := NewWorld()
	chunkId := ChunkId{X: 5, Y: 5}
	towerId := chunkId.BottomLeftTower()
	_, relative := towerId.Split()

	// Direct inserts, like a snapshot restore, count as modifications
	// even before the next world tick stamps them.
	w.Chunk(chunkId).Insert(relative, NewTower(towerId))
	if !w.ChunkModifiedSince(chunkId, w.Tick()) {
		t.Fatalf("freshly inserted tower should mark the chunk modified")
	}
}
