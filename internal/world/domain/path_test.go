package domain

import "testing"

func roadPathFrom(t *testing.T, source TowerId, hops int) []TowerId {
	t.Helper()
	path := []TowerId{source}
	prev := source
	for len(path) < hops+1 {
		var next TowerId
		found := false
		prev.Neighbors(func(id TowerId) bool {
			for _, seen := range path {
				if id == seen {
					return true
				}
			}
			next = id
			found = true
			return false
		})
		if !found {
			t.Fatalf("no unvisited neighbor from %v", prev)
		}
		path = append(path, next)
		prev = next
	}
	return path
}

func TestNewPathPanicsOnShortInput(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("NewPath with one tower must panic")
		}
	}()
	NewPath([]TowerId{{X: 1, Y: 1}})
}

func TestPathValidateRoads(t *testing.T) {
	contains := func(TowerId) bool { return true }
	source := TowerId{X: 256, Y: 256}
	towers := roadPathFrom(t, source, 3)
	path := NewPath(towers)

	if err := path.Validate(contains, source, 0); err != nil {
		t.Fatalf("valid road path rejected: %v", err)
	}
	if err := path.Validate(contains, TowerId{X: 1, Y: 1}, 0); err == nil {
		t.Fatalf("source mismatch accepted")
	}
	if err := path.Validate(func(TowerId) bool { return false }, source, 0); err == nil {
		t.Fatalf("path through missing towers accepted")
	}

	// Jumping to a non-neighbor is not a road.
	broken := NewPath([]TowerId{source, {X: source.X + 5, Y: source.Y}})
	if err := broken.Validate(contains, source, 0); err == nil {
		t.Fatalf("non neighbor hop accepted")
	}

	// A hop to the same tower is a duplicate.
	duplicate := NewPath([]TowerId{source, source})
	if err := duplicate.Validate(contains, source, 0); err == nil {
		t.Fatalf("duplicate hop accepted")
	}
}

func TestPathValidateRanged(t *testing.T) {
	contains := func(TowerId) bool { return true }
	source := TowerId{X: 256, Y: 256}
	near := TowerId{X: 258, Y: 256}
	far := TowerId{X: 300, Y: 256}

	ok := NewPath([]TowerId{source, near})
	if err := ok.Validate(contains, source, 40); err != nil {
		t.Fatalf("short ranged shot rejected: %v", err)
	}
	tooFar := NewPath([]TowerId{source, far})
	if err := tooFar.Validate(contains, source, 40); err == nil {
		t.Fatalf("out of range shot accepted")
	}
	// Ranged paths are exactly one edge.
	multi := NewPath([]TowerId{source, near, {X: 260, Y: 256}})
	if err := multi.Validate(contains, source, 40); err == nil {
		t.Fatalf("multi hop ranged path accepted")
	}
}

func TestPathOrderAndClone(t *testing.T) {
	towers := roadPathFrom(t, TowerId{X: 100, Y: 100}, 2)
	path := NewPath(towers)

	if path.Source() != towers[0] {
		t.Fatalf("Source = %v, want %v", path.Source(), towers[0])
	}
	if path.Destination() != towers[len(towers)-1] {
		t.Fatalf("Destination = %v, want %v", path.Destination(), towers[len(towers)-1])
	}
	got := path.Towers()
	for i := range towers {
		if got[i] != towers[i] {
			t.Fatalf("Towers()[%d] = %v, want %v", i, got[i], towers[i])
		}
	}

	clone := path.Clone()
	clone.pop()
	if path.Len() != len(towers) {
		t.Fatalf("mutating a clone changed the original")
	}
}
