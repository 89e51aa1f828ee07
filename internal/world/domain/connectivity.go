package domain

import "sync"

// connectivityTable maps every reachable tower id to the direction of its
// BFS parent towards the world center. Used to keep spawn bubbles and
// shrink survivors connected.
var connectivityOnce = sync.OnceValue(newConnectivityTable)

type connectivityEntry struct {
	neighbor TowerNeighbor
	valid    bool
}

func newConnectivityTable() *[WorldSize][WorldSize]connectivityEntry {
	table := new([WorldSize][WorldSize]connectivityEntry)
	frontier := make([]TowerId, 0, 2048)

	// The world center connects to one of its neighbors arbitrarily.
	center := WorldCenter
	var first TowerNeighbor
	center.NeighborsEnumerated(func(n TowerNeighbor, _ TowerId) bool {
		first = n
		return false
	})
	table[center.Y][center.X] = connectivityEntry{neighbor: first, valid: true}
	frontier = append(frontier, center)

	for len(frontier) > 0 {
		parent := frontier[0]
		frontier = frontier[1:]
		parent.NeighborsEnumerated(func(n TowerNeighbor, id TowerId) bool {
			e := &table[id.Y][id.X]
			if e.valid {
				return true
			}
			*e = connectivityEntry{neighbor: n.Opposite(), valid: true}
			frontier = append(frontier, id)
			return true
		})
	}
	return table
}

// Connectivity is the direction towards the world center, if reachable.
func (t TowerId) Connectivity() (TowerNeighbor, bool) {
	if !t.IsValid() {
		return 0, false
	}
	e := connectivityOnce()[t.Y][t.X]
	return e.neighbor, e.valid
}

// ConnectivityId is the next tower id towards the world center.
func (t TowerId) ConnectivityId() (TowerId, bool) {
	n, ok := t.Connectivity()
	if !ok {
		return TowerId{}, false
	}
	return t.NeighborUnchecked(n), true
}
