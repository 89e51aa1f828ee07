package domain

import "testing"

func TestTowerIdSplitRoundTrip(t *testing.T) {
	ids := []TowerId{
		{X: 0, Y: 0},
		{X: 15, Y: 15},
		{X: 16, Y: 16},
		{X: 255, Y: 257},
		{X: WorldSize - 1, Y: WorldSize - 1},
	}
	for _, id := range ids {
		chunkId, relative := id.Split()
		if !chunkId.IsValid() {
			t.Fatalf("%v: invalid chunk id %v", id, chunkId)
		}
		if got := relative.Upgrade(chunkId); got != id {
			t.Fatalf("%v: round trip produced %v", id, got)
		}
	}
}

func TestTowerIdNeighborsSymmetric(t *testing.T) {
	// Interior region, away from the world border.
	for y := uint16(100); y < 110; y++ {
		for x := uint16(100); x < 110; x++ {
			id := TowerId{X: x, Y: y}
			id.Neighbors(func(neighborId TowerId) bool {
				if absDiffU16(neighborId.X, id.X) > 1 || absDiffU16(neighborId.Y, id.Y) > 1 {
					t.Fatalf("%v: neighbor %v not adjacent", id, neighborId)
				}
				if !neighborId.IsNeighbor(id) {
					t.Fatalf("%v -> %v road is one way", id, neighborId)
				}
				return true
			})
		}
	}
}

func TestTowerIdNeighborToOpposite(t *testing.T) {
	id := TowerId{X: 256, Y: 256}
	id.NeighborsEnumerated(func(n TowerNeighbor, neighborId TowerId) bool {
		back, ok := neighborId.NeighborTo(id)
		if !ok {
			t.Fatalf("%v: no road back from %v", id, neighborId)
		}
		if back != n.Opposite() {
			t.Fatalf("%v -> %v: direction %v, back %v, want %v", id, neighborId, n, back, n.Opposite())
		}
		return true
	})
}

func TestTowerIdTypeDeterministic(t *testing.T) {
	a := TowerId{X: 200, Y: 300}
	if a.Type() != a.Type() {
		t.Fatalf("tower type must be deterministic")
	}
	// Types vary across the map.
	varied := false
	first := TowerId{X: 100, Y: 100}.Type()
	for x := uint16(100); x < 140 && !varied; x++ {
		if (TowerId{X: x, Y: 100}).Type() != first {
			varied = true
		}
	}
	if !varied {
		t.Fatalf("expected varied tower types along a row")
	}
}

func TestTowerIdDistance(t *testing.T) {
	a := TowerId{X: 250, Y: 250}
	b := TowerId{X: 253, Y: 250}
	if a.DistanceSquared(a) != 0 {
		t.Fatalf("distance to self must be zero")
	}
	if a.DistanceSquared(b) != b.DistanceSquared(a) {
		t.Fatalf("distance must be symmetric")
	}
	d := a.Distance(b)
	// Three cells of five world units, give or take sub-cell offsets.
	if d < 10 || d > 25 {
		t.Fatalf("distance = %d, want roughly 15", d)
	}
}

func TestTowerIdValidity(t *testing.T) {
	if !(TowerId{X: WorldSize - 1, Y: 0}).IsValid() {
		t.Fatalf("edge id should be valid")
	}
	if (TowerId{X: WorldSize, Y: 0}).IsValid() {
		t.Fatalf("out of range id should be invalid")
	}
}
