package domain

import "container/heap"

// Fixed point scale for distances so integer square roots don't lose the
// fractional part. Only 33 bits of squared distance are ever used, so a
// squared scale up to 1<<30 is safe.
const (
	pathD2Scale uint64 = 1 << 16
	pathDScale  uint32 = 1 << 8
)

// FindBestPath finds a path from src to dst, or ok=false if unreachable.
// Ranged units (maxEdgeDistance != 0) travel a single direct edge.
func (w *World) FindBestPath(src, dst TowerId, maxEdgeDistance uint32, playerId PlayerId, filter func(TowerId) bool) ([]TowerId, bool) {
	if maxEdgeDistance != 0 {
		if src.Distance(dst) <= maxEdgeDistance && filter(dst) {
			return []TowerId{src, dst}, true
		}
		return nil, false
	}
	path, _, ok := w.astar(src, dst, playerId, filter)
	if !ok || len(path) < 2 {
		return nil, false
	}
	return path, true
}

// FindBestIncompletePath is like FindBestPath but falls back to a path
// towards the closest reachable tower when dst can't be reached.
func (w *World) FindBestIncompletePath(src, dst TowerId, maxEdgeDistance uint32, playerId PlayerId, filter func(TowerId) bool) []TowerId {
	if maxEdgeDistance != 0 {
		if src.Distance(dst) <= maxEdgeDistance && filter(dst) {
			return []TowerId{src, dst}
		}
		return []TowerId{src}
	}
	path, reachable, ok := w.astar(src, dst, playerId, filter)
	if ok {
		return path
	}
	path, _, ok = w.astar(src, reachable, playerId, filter)
	if !ok {
		return nil
	}
	return path
}

type pathNode struct {
	id TowerId
	f  uint64
	g  uint64
}

type pathQueue []pathNode

func (q pathQueue) Len() int           { return len(q) }
func (q pathQueue) Less(i, j int) bool { return q[i].f < q[j].f }
func (q pathQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *pathQueue) Push(x any)        { *q = append(*q, x.(pathNode)) }
func (q *pathQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// astar searches the road graph for a path from src to dst. On failure
// it returns the closest reachable tower as a fallback target. Costs
// penalize enemy and zombie towers heavily, and own towers slightly so
// expansion prefers claiming new ones.
func (w *World) astar(src, dst TowerId, playerId PlayerId, filter func(TowerId) bool) ([]TowerId, TowerId, bool) {
	var dstPlayerId PlayerId
	if t := w.GetTower(dst); t != nil {
		dstPlayerId = t.PlayerId
	}

	heuristic := func(pos TowerId) uint64 {
		h := uint64(integerSqrt(pos.DistanceSquared(dst) * pathD2Scale))
		tower := w.GetTower(pos)
		if tower == nil {
			return h
		}
		if tower.PlayerId == playerId && playerId.IsSome() {
			// Prioritize claiming new towers.
			h += uint64(2 * pathDScale)
		} else if tower.PlayerId.IsSome() || !tower.Units.IsEmpty() {
			// Deprioritize going through enemies and zombies.
			h += uint64(32 * pathDScale)
		}
		return h
	}

	// Don't visit every tower when a path can't be found quickly.
	distance := src.Distance(dst)
	if distance < 2048 {
		distance = 2048
	}
	emergencyStop := 128 + int(distance)

	shortestId := src
	shortestH := uint64(1) << 62

	open := pathQueue{{id: src, f: heuristic(src)}}
	gScore := map[TowerId]uint64{src: 0}
	cameFrom := make(map[TowerId]TowerId)
	closed := make(map[TowerId]struct{})

	for open.Len() > 0 {
		current := heap.Pop(&open).(pathNode)
		if _, done := closed[current.id]; done {
			continue
		}
		closed[current.id] = struct{}{}

		emergencyStop--
		if current.id == dst {
			// Reconstruct in travel order.
			var reversed []TowerId
			for id := dst; ; {
				reversed = append(reversed, id)
				prev, ok := cameFrom[id]
				if !ok {
					break
				}
				id = prev
			}
			path := make([]TowerId, len(reversed))
			for i, id := range reversed {
				path[len(reversed)-1-i] = id
			}
			return path, dst, true
		}
		if emergencyStop <= 0 {
			break
		}

		current.id.Neighbors(func(neighbor TowerId) bool {
			tower := w.GetTower(neighbor)
			if tower == nil {
				return true
			}
			// Roads through an ally's land would strand the force.
			if tower.PlayerId.IsSome() && tower.PlayerId != dstPlayerId &&
				w.HaveAlliance(playerId, tower.PlayerId) {
				return true
			}
			if !filter(neighbor) {
				return true
			}

			cost := uint64(integerSqrt(current.id.DistanceSquared(neighbor) * pathD2Scale))
			g := gScore[current.id] + cost
			if old, seen := gScore[neighbor]; seen && g >= old {
				return true
			}
			gScore[neighbor] = g
			cameFrom[neighbor] = current.id

			h := heuristic(neighbor)
			if h < shortestH {
				shortestH = h
				shortestId = neighbor
			}
			heap.Push(&open, pathNode{id: neighbor, f: g + h, g: g})
			return true
		})
	}

	return nil, shortestId, false
}
