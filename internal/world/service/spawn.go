package service

import (
	"math"
	"math/bits"

	"go.uber.org/zap"

	"github.com/SoftbearStudios/kiomet/internal/world/domain"
	"github.com/SoftbearStudios/kiomet/internal/world/protocol"
)

const (
	// spawnMaxTries bounds the random search for a spawn tower.
	spawnMaxTries = 100_000
	// Spawn bubbles guarantee generated terrain around a fresh player.
	spawnBubbleRadius    = 50
	spawnBubbleRadiusBot = 35
)

// SpawnPlayer places a dead player back into the world at a random safe
// tower near the center, generating the terrain bubble around it.
func (s *TowerService) SpawnPlayer(playerId domain.PlayerId) error {
	player := s.players[playerId]
	if player == nil {
		return ErrPlayerUnknown
	}
	if player.Alive || player.pendingSpawn {
		return ErrAlreadyAlive
	}

	governor := spawnMaxTries
	// Search a disk of ~100 towers, growing if nothing fits.
	searchRadius := uint16(math.Sqrt(100 / math.Pi))

	var spawnId domain.TowerId
	for {
		if governor == 0 {
			s.log.Warn("spawn search exhausted",
				zap.Uint32("playerId", uint32(playerId)),
				zap.Uint16("searchRadius", searchRadius),
			)
			return domain.ErrNoSpawnFound
		}
		governor--

		towerId := s.randomTowerNear(domain.WorldCenter, searchRadius)
		if s.isSpawnable(towerId) {
			if tries := spawnMaxTries - governor; tries > spawnMaxTries/2 {
				s.log.Warn("slow spawn search",
					zap.Int("tries", tries),
					zap.Uint16("searchRadius", searchRadius),
					zap.Bool("bot", playerId.IsBot()),
				)
			}
			spawnId = towerId
			break
		}

		if governor%8 == 0 {
			searchRadius++
		}
	}

	player.Lifetime = 0
	player.DeathReason = nil
	player.Score = 0
	player.Alerts = protocol.Alerts{}
	player.pendingSpawn = true

	// Generate the spawn bubble, including any missing towers on the
	// connectivity paths back towards the center.
	towerIds := make(map[domain.TowerId]struct{})
	spawnBubble(spawnId, playerId, func(id domain.TowerId) {
		s.traverse(towerIds, id)
	})
	s.generate(towerIds)

	chunkId, relative := spawnId.Split()
	s.inputs.ChunkInputs = append(s.inputs.ChunkInputs, domain.AddressedChunkInput{
		ChunkId: chunkId,
		Input: domain.ChunkInput{
			Kind:     domain.ChunkInputSpawn,
			TowerId:  relative,
			PlayerId: playerId,
		},
	})

	spawnId.Neighbors(func(neighborId domain.TowerId) bool {
		neighborChunk, neighborRelative := neighborId.Split()
		s.inputs.ChunkInputs = append(s.inputs.ChunkInputs, domain.AddressedChunkInput{
			ChunkId: neighborChunk,
			Input: domain.ChunkInput{
				Kind:    domain.ChunkInputClearZombies,
				TowerId: neighborRelative,
			},
		})
		return true
	})
	return nil
}

// randomTowerNear picks a tower id uniformly inside a disk around
// center, clamped to the world.
func (s *TowerService) randomTowerNear(center domain.TowerId, radius uint16) domain.TowerId {
	angle := s.rng.Float64() * 2 * math.Pi
	dist := float64(radius) * math.Sqrt(s.rng.Float64())
	x := math.Floor(float64(center.X) + 0.5 + dist*math.Cos(angle))
	y := math.Floor(float64(center.Y) + 0.5 + dist*math.Sin(angle))
	return domain.TowerId{
		X: uint16(clampFloat(x, 0, domain.WorldSize-1)),
		Y: uint16(clampFloat(y, 0, domain.WorldSize-1)),
	}
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func (s *TowerService) isSpawnable(towerId domain.TowerId) bool {
	if _, ok := towerId.Connectivity(); !ok {
		return false
	}
	return s.isGoodSpawn(towerId) && s.isSafeSpawn(towerId)
}

// isGoodSpawn wants an unowned tower with enough neighbors to expand
// into, either spawnable itself or next to spawnable terrain.
func (s *TowerService) isGoodSpawn(towerId domain.TowerId) bool {
	// Towers that do not exist yet take their natural type.
	towerType := func(id domain.TowerId) (domain.TowerType, bool) {
		if tower := s.world.GetTower(id); tower != nil {
			if tower.PlayerId.IsSome() {
				return 0, false
			}
			return tower.TowerType, true
		}
		return id.Type(), true
	}

	selfType, ok := towerType(towerId)
	if !ok {
		return false
	}

	neighbors := 0
	spawnableNeighbors := 0
	good := true
	towerId.Neighbors(func(neighborId domain.TowerId) bool {
		neighbors++
		neighborType, ok := towerType(neighborId)
		if !ok {
			good = false
			return false
		}
		if neighborType.IsSpawnable() {
			spawnableNeighbors++
		}
		return true
	})
	if !good {
		return false
	}
	return (selfType.IsSpawnable() && neighbors >= 3) || spawnableNeighbors >= 2
}

// isSafeSpawn runs a four hop breadth first search and fails if any
// reached tower is owned or under attack. The visited set is an 8x8
// bitboard, and at least 12 distinct cells must be reachable so the
// player is not boxed in.
func (s *TowerService) isSafeSpawn(towerId domain.TowerId) bool {
	var set uint64
	insert := func(id domain.TowerId) bool {
		index := (id.X & 7) | ((id.Y & 7) << 3)
		bit := uint64(1) << index
		inserted := set&bit == 0
		set |= bit
		return inserted
	}

	var a, b [16]domain.TowerId
	a[0] = towerId
	length := 1

	safe := true
	for hop := 0; hop < 4 && safe; hop++ {
		n := length
		if n > len(a) {
			n = len(a)
		}
		length = 0
		for _, id := range a[:n] {
			id.Neighbors(func(neighborId domain.TowerId) bool {
				if !insert(neighborId) {
					return true
				}
				if tower := s.world.GetTower(neighborId); tower != nil &&
					(tower.PlayerId.IsSome() || len(tower.InboundForces) > 0) {
					safe = false
					return false
				}
				b[length%len(b)] = neighborId
				length++
				return true
			})
			if !safe {
				break
			}
		}
		a, b = b, a
	}
	return safe && bits.OnesCount64(set) >= 12
}

// generate queues creation of every tower id, grouped by chunk.
func (s *TowerService) generate(towerIds map[domain.TowerId]struct{}) {
	for chunkId, relative := range groupByChunk(towerIds) {
		s.inputs.ChunkInputs = append(s.inputs.ChunkInputs, domain.AddressedChunkInput{
			ChunkId: chunkId,
			Input: domain.ChunkInput{
				Kind:     domain.ChunkInputGenerate,
				TowerIds: relative,
			},
		})
	}
}

// destroy queues removal of every tower id, grouped by chunk.
func (s *TowerService) destroy(towerIds []domain.TowerId) {
	grouped := make(map[domain.ChunkId][]domain.RelativeTowerId)
	for _, towerId := range towerIds {
		chunkId, relative := towerId.Split()
		grouped[chunkId] = append(grouped[chunkId], relative)
	}
	for chunkId, relative := range grouped {
		s.inputs.ChunkMaintenance = append(s.inputs.ChunkMaintenance, domain.AddressedChunkMaintenance{
			ChunkId: chunkId,
			Maintenance: domain.ChunkMaintenance{
				Kind:     domain.ChunkMaintenanceDestroy,
				TowerIds: relative,
			},
		})
	}
}

func groupByChunk(towerIds map[domain.TowerId]struct{}) map[domain.ChunkId][]domain.RelativeTowerId {
	grouped := make(map[domain.ChunkId][]domain.RelativeTowerId)
	for towerId := range towerIds {
		chunkId, relative := towerId.Split()
		grouped[chunkId] = append(grouped[chunkId], relative)
	}
	return grouped
}

// traverse adds missing towers along the connectivity path from towerId
// towards the center, stopping at the first existing tower.
func (s *TowerService) traverse(towerIds map[domain.TowerId]struct{}, towerId domain.TowerId) {
	for s.world.GetTower(towerId) == nil {
		if _, seen := towerIds[towerId]; seen {
			break
		}
		towerIds[towerId] = struct{}{}
		dir, ok := towerId.Connectivity()
		if !ok {
			break
		}
		towerId = towerId.NeighborUnchecked(dir)
	}
}

// spawnBubble visits every tower id within the spawn radius of a tower.
// Bots get a smaller bubble so they cost less to host.
func spawnBubble(towerId domain.TowerId, playerId domain.PlayerId, f func(domain.TowerId)) {
	radius := uint16(spawnBubbleRadius)
	if playerId.IsBot() {
		radius = spawnBubbleRadiusBot
	}
	bubble(towerId, radius, f)
}

// bubble visits every tower id reachable by roads within a radius.
func bubble(origin domain.TowerId, radius uint16, f func(domain.TowerId)) {
	seen := map[domain.TowerId]struct{}{origin: {}}
	queue := []domain.TowerId{origin}
	r2 := uint64(radius) * uint64(radius)

	f(origin)
	for len(queue) > 0 {
		towerId := queue[0]
		queue = queue[1:]
		towerId.Neighbors(func(neighborId domain.TowerId) bool {
			if neighborId.DistanceSquared(origin) > r2 {
				return true
			}
			if _, ok := seen[neighborId]; !ok {
				seen[neighborId] = struct{}{}
				queue = append(queue, neighborId)
				f(neighborId)
			}
			return true
		})
	}
}

// shrink destroys every tower not anchored to a player. A tower is
// anchored if it is reachable along connectivity from a tower that
// cannot be destroyed, or sits inside a ruler's spawn bubble.
func (s *TowerService) shrink() {
	worldRect := domain.TowerRectangle{
		BottomLeft: domain.TowerId{},
		TopRight:   domain.TowerId{X: domain.WorldSize - 1, Y: domain.WorldSize - 1},
	}
	locked := domain.NewTowerSet(worldRect)

	lockChain := func(towerId domain.TowerId) {
		t := towerId
		for locked.Insert(t) {
			next, ok := t.ConnectivityId()
			if !ok {
				break
			}
			t = next
		}
	}

	s.world.ForEachTower(func(towerId domain.TowerId, tower *domain.Tower) bool {
		if tower.CanDestroy() {
			return true
		}
		lockChain(towerId)
		tower.ForEachRuler(func(playerId domain.PlayerId) {
			spawnBubble(towerId, playerId, func(id domain.TowerId) {
				if s.world.ContainsTower(id) {
					lockChain(id)
				}
			})
		})
		return true
	})

	var toDestroy []domain.TowerId
	s.world.ForEachTower(func(towerId domain.TowerId, _ *domain.Tower) bool {
		if !locked.Contains(towerId) {
			toDestroy = append(toDestroy, towerId)
		}
		return true
	})
	s.destroy(toDestroy)
}
