package domain

// World owns every chunk, the alliance state of every player, and the
// global tick counter. It is the single authoritative copy of the game.
type World struct {
	chunks  [WorldSizeChunks][WorldSizeChunks]*Chunk
	players map[PlayerId]*Player
	tick    Ticks
}

func NewWorld() *World {
	w := &World{players: make(map[PlayerId]*Player)}
	for y := range w.chunks {
		for x := range w.chunks {
			w.chunks[y][x] = NewChunk(ChunkId{X: uint8(x), Y: uint8(y)})
		}
	}
	return w
}

func (w *World) Tick() Ticks {
	return w.tick
}

// SetTick restores the tick counter from a snapshot.
func (w *World) SetTick(t Ticks) {
	w.tick = t
}

func (w *World) Chunk(chunkId ChunkId) *Chunk {
	if !chunkId.IsValid() {
		return nil
	}
	return w.chunks[chunkId.Y][chunkId.X]
}

// GetTower returns the tower at an id, or nil.
func (w *World) GetTower(towerId TowerId) *Tower {
	if !towerId.IsValid() {
		return nil
	}
	chunkId, relative := towerId.Split()
	return w.chunks[chunkId.Y][chunkId.X].Get(relative)
}

func (w *World) ContainsTower(towerId TowerId) bool {
	return w.GetTower(towerId) != nil
}

// ForEachChunk visits chunks y first. Stops early if f returns false.
func (w *World) ForEachChunk(f func(*Chunk) bool) {
	for y := range w.chunks {
		for x := range w.chunks {
			if !f(w.chunks[y][x]) {
				return
			}
		}
	}
}

// ForEachTower visits every tower in the world.
func (w *World) ForEachTower(f func(TowerId, *Tower) bool) {
	stopped := false
	w.ForEachChunk(func(c *Chunk) bool {
		c.ForEach(func(id TowerId, t *Tower) bool {
			if !f(id, t) {
				stopped = true
			}
			return !stopped
		})
		return !stopped
	})
}

// ForEachTowerInRect visits existing towers inside a rectangle.
func (w *World) ForEachTowerInRect(rect TowerRectangle, f func(TowerId, *Tower) bool) {
	rect.ForEach(func(id TowerId) bool {
		if t := w.GetTower(id); t != nil {
			return f(id, t)
		}
		return true
	})
}

// ForEachTowerInCircle visits existing towers within a world unit radius.
func (w *World) ForEachTowerInCircle(center TowerId, radius uint16, f func(TowerId, *Tower) bool) {
	center.IterRadius(radius, func(id TowerId) bool {
		if t := w.GetTower(id); t != nil {
			return f(id, t)
		}
		return true
	})
}

// Player returns a player's alliance state, or nil if unknown.
func (w *World) Player(playerId PlayerId) *Player {
	return w.players[playerId]
}

// EnsurePlayer creates the player's alliance state if absent.
func (w *World) EnsurePlayer(playerId PlayerId) *Player {
	p := w.players[playerId]
	if p == nil {
		p = NewPlayer()
		w.players[playerId] = p
	}
	return p
}

func (w *World) RemovePlayer(playerId PlayerId) {
	delete(w.players, playerId)
}

func (w *World) ForEachPlayer(f func(PlayerId, *Player)) {
	for id, p := range w.players {
		f(id, p)
	}
}

// HaveAlliance reports whether two players are mutually allied.
func (w *World) HaveAlliance(a, b PlayerId) bool {
	pa, pb := w.players[a], w.players[b]
	return pa != nil && pb != nil && pa.IsAlly(b) && pb.IsAlly(a)
}

// ChunkInputKind tags the variants of ChunkInput.
type ChunkInputKind uint8

const (
	ChunkInputAddInboundForce ChunkInputKind = iota
	ChunkInputClearZombies
	ChunkInputDeployForce
	ChunkInputGenerate
	ChunkInputSetSupplyLine
	ChunkInputSpawn
	ChunkInputUpgradeTower
)

// ChunkInput is a command targeting a tower inside a chunk, applied
// during the tick after battles resolve.
type ChunkInput struct {
	Kind     ChunkInputKind
	TowerId  RelativeTowerId
	TowerIds []RelativeTowerId
	Force    Force
	Path     *Path
	PlayerId PlayerId
	Type     TowerType
}

// AddressedChunkInput is a ChunkInput with its destination chunk.
type AddressedChunkInput struct {
	ChunkId ChunkId
	Input   ChunkInput
}

// ChunkMaintenanceKind tags the variants of ChunkMaintenance.
type ChunkMaintenanceKind uint8

const (
	// ChunkMaintenanceDestroy removes towers. Runs first in the tick so
	// no events are in flight towards the doomed towers.
	ChunkMaintenanceDestroy ChunkMaintenanceKind = iota
	ChunkMaintenanceKillPlayer
)

// ChunkMaintenance is cleanup that must run before anything else in the
// tick.
type ChunkMaintenance struct {
	Kind     ChunkMaintenanceKind
	TowerIds []RelativeTowerId
	PlayerId PlayerId
}

// AddressedChunkMaintenance is a ChunkMaintenance with its chunk.
type AddressedChunkMaintenance struct {
	ChunkId     ChunkId
	Maintenance ChunkMaintenance
}

// PlayerInputKind tags the variants of PlayerInput.
type PlayerInputKind uint8

const (
	PlayerInputDied PlayerInputKind = iota
	// PlayerInputAddAlly is a one-directional alliance request.
	PlayerInputAddAlly
	// PlayerInputNewAlliance records a bidirectional alliance formed
	// this tick.
	PlayerInputNewAlliance
	PlayerInputRemoveAlly
	// PlayerInputRemoveDeadAlly cleans up after an ally died.
	PlayerInputRemoveDeadAlly
)

// PlayerInput mutates a player's alliance state.
type PlayerInput struct {
	Kind     PlayerInputKind
	PlayerId PlayerId
	Other    PlayerId
}

// WorldInputs is everything the server wants applied during one tick, in
// phase order.
type WorldInputs struct {
	ChunkMaintenance []AddressedChunkMaintenance
	ChunkInputs      []AddressedChunkInput
	PlayerInputs     []PlayerInput
}

func (in *WorldInputs) Reset() {
	in.ChunkMaintenance = in.ChunkMaintenance[:0]
	in.ChunkInputs = in.ChunkInputs[:0]
	in.PlayerInputs = in.PlayerInputs[:0]
}

// Update advances the world by one tick: maintenance, halts caused by
// destroyed towers and fresh alliances, per-chunk simulation, queued
// inputs, then cross-chunk event delivery.
func (w *World) Update(inputs *WorldInputs, onInfo OnInfo) {
	for _, m := range inputs.ChunkMaintenance {
		chunk := w.Chunk(m.ChunkId)
		switch m.Maintenance.Kind {
		case ChunkMaintenanceDestroy:
			chunk.Destroy(m.Maintenance.TowerIds)
		case ChunkMaintenanceKillPlayer:
			chunk.KillPlayer(m.Maintenance.PlayerId, onInfo)
		}
	}

	w.tick = w.tick.WrappingAdd(1)

	w.applyHalts()

	for _, p := range w.players {
		clear(p.NewAlliances)
	}

	// Events produced while ticking are buffered and delivered after all
	// inputs so every chunk observes the same tick boundary.
	var events []AddressedChunkEvent
	onEvent := func(dst ChunkId, e ChunkEvent) {
		events = append(events, AddressedChunkEvent{Dst: dst, Event: e})
	}

	lookup := func(id PlayerId) *Player { return w.players[id] }
	w.ForEachChunk(func(c *Chunk) bool {
		c.Tick(w.tick, lookup, onEvent, onInfo)
		return true
	})

	for _, in := range inputs.ChunkInputs {
		chunk := w.Chunk(in.ChunkId)
		i := in.Input
		switch i.Kind {
		case ChunkInputAddInboundForce:
			chunk.AddInboundForce(i.TowerId, i.Force)
		case ChunkInputClearZombies:
			chunk.ClearZombies(i.TowerId)
		case ChunkInputDeployForce:
			chunk.ApplyDeployForce(i.TowerId, i.Path.Clone(), onEvent)
		case ChunkInputGenerate:
			chunk.Generate(i.TowerIds)
		case ChunkInputSetSupplyLine:
			chunk.SetSupplyLine(i.TowerId, i.Path)
		case ChunkInputSpawn:
			chunk.Spawn(i.TowerId, i.PlayerId, onEvent, onInfo)
		case ChunkInputUpgradeTower:
			chunk.UpgradeTower(i.TowerId, i.Type)
		}
	}

	for _, in := range inputs.PlayerInputs {
		player := w.EnsurePlayer(in.PlayerId)
		switch in.Kind {
		case PlayerInputDied:
			player.ClearAllies()
		case PlayerInputAddAlly:
			player.AddAlly(in.Other)
		case PlayerInputNewAlliance:
			player.NewAlliances[in.Other] = struct{}{}
		case PlayerInputRemoveAlly, PlayerInputRemoveDeadAlly:
			player.RemoveAlly(in.Other)
		}
	}

	for _, e := range events {
		w.Chunk(e.Dst).ApplyEvent(e.Event)
	}

	// Fold the per-chunk dirty flags into modification stamps so client
	// updates can skip chunks unchanged since they were last sent.
	w.ForEachChunk(func(c *Chunk) bool {
		if c.dirty {
			c.dirty = false
			c.modified = w.tick
		}
		return true
	})
}

// ChunkModifiedSince reports whether a chunk changed after the given
// tick. The comparison wraps, like the tick counter itself.
func (w *World) ChunkModifiedSince(chunkId ChunkId, since Ticks) bool {
	c := w.Chunk(chunkId)
	if c == nil {
		return false
	}
	return c.dirty || w.tick-c.modified < w.tick-since
}

type haltAction struct {
	chunk      *Chunk
	towerId    RelativeTowerId
	forceIndex int
	supplyLine bool
}

// applyHalts truncates forces and clears supply lines whose remaining
// path crosses a destroyed tower or a freshly allied player. Collected
// first, applied after, so the scan sees a consistent world.
func (w *World) applyHalts() {
	var halts []haltAction

	shouldHalt := func(upstream *Player, towerId TowerId) bool {
		tower := w.GetTower(towerId)
		if tower == nil {
			// Tower was destroyed.
			return true
		}
		if upstream == nil || len(upstream.NewAlliances) == 0 {
			return false
		}
		if !tower.PlayerId.IsSome() {
			return false
		}
		_, fresh := upstream.NewAlliances[tower.PlayerId]
		return fresh
	}

	w.ForEachChunk(func(chunk *Chunk) bool {
		for i := range chunk.towers {
			tower := chunk.towers[i]
			if tower == nil {
				continue
			}
			relative := RelativeTowerId(i)

			for fi := range tower.InboundForces {
				force := &tower.InboundForces[fi]
				if !force.PlayerId.IsSome() {
					continue
				}
				upstream := w.players[force.PlayerId]

				// Skip the current segment; a force already on a road
				// finishes it.
				towers := force.Path().Towers()
				halted := false
				for _, id := range towers[2:] {
					if shouldHalt(upstream, id) {
						halted = true
						break
					}
				}
				if halted {
					halts = append(halts, haltAction{chunk: chunk, towerId: relative, forceIndex: fi})
				}
			}

			if tower.SupplyLine == nil || !tower.PlayerId.IsSome() {
				continue
			}
			upstream := w.players[tower.PlayerId]
			halted := false
			tower.SupplyLine.ForEach(func(id TowerId) bool {
				if shouldHalt(upstream, id) {
					halted = true
					return false
				}
				return true
			})
			if halted {
				halts = append(halts, haltAction{chunk: chunk, towerId: relative, supplyLine: true})
			}
		}
		return true
	})

	for _, h := range halts {
		if h.supplyLine {
			h.chunk.HaltSupplyLine(h.towerId)
		} else {
			h.chunk.HaltForce(h.towerId, h.forceIndex)
		}
	}
}

// DistanceSquaredToCenter is how far a tower is from the world center.
func DistanceSquaredToCenter(towerId TowerId) uint64 {
	return WorldCenter.DistanceSquared(towerId)
}
