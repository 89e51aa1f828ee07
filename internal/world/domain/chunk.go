package domain

// The world is divided into square chunks so ticks and client updates
// operate on bounded pieces.
const (
	ChunkSize       = 16
	ChunkArea       = ChunkSize * ChunkSize
	WorldSizeChunks = WorldSize / ChunkSize
)

// ChunkId addresses a chunk. Ordering is y first, then x, matching the
// iteration order of rectangles.
type ChunkId struct {
	X uint8 `json:"x"`
	Y uint8 `json:"y"`
}

func ChunkIdOf(t TowerId) ChunkId {
	return ChunkId{X: uint8(t.X / ChunkSize), Y: uint8(t.Y / ChunkSize)}
}

func (c ChunkId) IsValid() bool {
	return c.X < WorldSizeChunks && c.Y < WorldSizeChunks
}

// Less orders chunk ids y first.
func (c ChunkId) Less(other ChunkId) bool {
	if c.Y != other.Y {
		return c.Y < other.Y
	}
	return c.X < other.X
}

// BottomLeftTower is the lowest tower id inside the chunk.
func (c ChunkId) BottomLeftTower() TowerId {
	return TowerId{X: uint16(c.X) * ChunkSize, Y: uint16(c.Y) * ChunkSize}
}

// TopRightTower is the highest tower id inside the chunk.
func (c ChunkId) TopRightTower() TowerId {
	return TowerId{
		X: uint16(c.X)*ChunkSize + ChunkSize - 1,
		Y: uint16(c.Y)*ChunkSize + ChunkSize - 1,
	}
}

// RelativeTowerId is a TowerId relative to its chunk, one byte on the
// wire instead of four.
type RelativeTowerId uint8

func RelativeTowerIdOf(t TowerId) RelativeTowerId {
	return RelativeTowerId(uint8(t.X%ChunkSize) + uint8(t.Y%ChunkSize)*ChunkSize)
}

// Upgrade converts back to an absolute TowerId given the chunk.
func (r RelativeTowerId) Upgrade(chunkId ChunkId) TowerId {
	bl := chunkId.BottomLeftTower()
	return TowerId{
		X: bl.X + uint16(r%ChunkSize),
		Y: bl.Y + uint16(r/ChunkSize),
	}
}

// Chunk is a 16x16 patch of the tower grid.
type Chunk struct {
	towers  [ChunkArea]*Tower
	ChunkId ChunkId
	// dirty is set by any mutation and folded into modified at the end
	// of the world tick, so clients can skip chunks they already have.
	dirty    bool
	modified Ticks
}

func NewChunk(chunkId ChunkId) *Chunk {
	return &Chunk{ChunkId: chunkId}
}

func (c *Chunk) Get(towerId RelativeTowerId) *Tower {
	return c.towers[towerId]
}

// mustGet panics on a missing tower, which indicates routing corruption.
func (c *Chunk) mustGet(towerId RelativeTowerId) *Tower {
	t := c.towers[towerId]
	if t == nil {
		panic("missing tower in chunk")
	}
	return t
}

// Insert places a new tower. Panics if the slot is occupied.
func (c *Chunk) Insert(towerId RelativeTowerId, tower *Tower) {
	if c.towers[towerId] != nil {
		panic("tower already exists")
	}
	c.towers[towerId] = tower
	c.dirty = true
}

// Remove deletes and returns the tower. Panics if absent.
func (c *Chunk) Remove(towerId RelativeTowerId) *Tower {
	t := c.mustGet(towerId)
	c.towers[towerId] = nil
	c.dirty = true
	return t
}

func (c *Chunk) Len() int {
	n := 0
	for _, t := range c.towers {
		if t != nil {
			n++
		}
	}
	return n
}

// ForEach visits towers in relative id order. Stops early if f returns
// false.
func (c *Chunk) ForEach(f func(TowerId, *Tower) bool) {
	for i, t := range c.towers {
		if t == nil {
			continue
		}
		if !f(RelativeTowerId(i).Upgrade(c.ChunkId), t) {
			return
		}
	}
}

// ForEachPlayerId visits the owner of every tower and force in the
// chunk, with repeats.
func (c *Chunk) ForEachPlayerId(f func(PlayerId)) {
	for _, t := range c.towers {
		if t == nil {
			continue
		}
		if t.PlayerId.IsSome() {
			f(t.PlayerId)
		}
		for i := range t.InboundForces {
			if id := t.InboundForces[i].PlayerId; id.IsSome() {
				f(id)
			}
		}
		for i := range t.OutboundForces {
			if id := t.OutboundForces[i].PlayerId; id.IsSome() {
				f(id)
			}
		}
	}
}

// ChunkEventKind tags the variants of ChunkEvent.
type ChunkEventKind uint8

const (
	ChunkEventAddInboundForce ChunkEventKind = iota
	// ChunkEventAddOutboundForce adds the shadow copy that allows
	// inter-tower battles.
	ChunkEventAddOutboundForce
)

// ChunkEvent is produced by one chunk's tick and applied to another
// (possibly the same) chunk afterwards.
type ChunkEvent struct {
	Kind    ChunkEventKind
	TowerId RelativeTowerId
	Force   Force
}

// AddressedChunkEvent is a ChunkEvent with its destination chunk.
type AddressedChunkEvent struct {
	Dst   ChunkId
	Event ChunkEvent
}

// OnChunkEvent receives events routed to other chunks during a tick.
type OnChunkEvent func(dst ChunkId, event ChunkEvent)

// AddOutboundForceEvent builds the outbound mirror event. Outbound
// forces only need the current segment of the path.
func AddOutboundForceEvent(towerId RelativeTowerId, force *Force) ChunkEvent {
	return ChunkEvent{
		Kind:    ChunkEventAddOutboundForce,
		TowerId: towerId,
		Force:   force.Halted(),
	}
}

// ApplyEvent applies an event produced by a tick.
func (c *Chunk) ApplyEvent(e ChunkEvent) {
	c.dirty = true
	tower := c.mustGet(e.TowerId)
	switch e.Kind {
	case ChunkEventAddInboundForce:
		tower.InboundForces = append(tower.InboundForces, e.Force)
	case ChunkEventAddOutboundForce:
		tower.OutboundForces = append(tower.OutboundForces, e.Force)
	}
}

// AddInboundForce injects a force directly, bypassing a source tower.
func (c *Chunk) AddInboundForce(towerId RelativeTowerId, force Force) {
	c.dirty = true
	tower := c.mustGet(towerId)
	tower.InboundForces = append(tower.InboundForces, force)
}

// ClearZombies empties an unowned tower, making room while spawning.
func (c *Chunk) ClearZombies(towerId RelativeTowerId) {
	tower := c.mustGet(towerId)
	if !tower.PlayerId.IsSome() {
		tower.Units.Clear()
		c.dirty = true
	}
}

// ApplyDeployForce sends a tower's deployable units along a path.
func (c *Chunk) ApplyDeployForce(towerId RelativeTowerId, path Path, onEvent OnChunkEvent) {
	c.dirty = true
	for _, e := range c.mustGet(towerId).DeployForce(path) {
		onEvent(e.Dst, e.Event)
	}
}

// Generate creates the naturally occurring towers at the given slots.
func (c *Chunk) Generate(towerIds []RelativeTowerId) {
	for _, towerId := range towerIds {
		c.Insert(towerId, NewTower(towerId.Upgrade(c.ChunkId)))
	}
}

// SetSupplyLine sets or clears where a tower routes its overflow.
func (c *Chunk) SetSupplyLine(towerId RelativeTowerId, path *Path) {
	c.mustGet(towerId).SupplyLine = path
	c.dirty = true
}

// Spawn claims a tower for a new player, stocking it with a ruler and
// full shields, and pushes a starter escort to every neighbor.
func (c *Chunk) Spawn(towerId RelativeTowerId, playerId PlayerId, onEvent OnChunkEvent, onInfo OnInfo) {
	c.dirty = true
	tower := c.mustGet(towerId)
	absolute := towerId.Upgrade(c.ChunkId)

	tower.Units = Units{}
	tower.SetPlayerId(playerId)

	onInfo(InfoEvent{
		Position: absolute.Vec2(),
		Info: Info{
			Kind:         InfoGainedTower,
			PlayerId:     playerId,
			TowerId:      absolute,
			GainedReason: GainedTowerSpawned,
		},
	})

	tower.Units.AddToTower(UnitRuler, 1, tower.TowerType, false)
	tower.Units.AddToTower(UnitShield, ^uint(0), tower.TowerType, false)

	var escort Units
	escort.Add(UnitSoldier, 4)
	escort.Add(UnitShield, 15)
	absolute.Neighbors(func(neighbor TowerId) bool {
		force := NewForce(playerId, escort, NewPath([]TowerId{absolute, neighbor}))
		for _, e := range tower.SendForce(force) {
			onEvent(e.Dst, e.Event)
		}
		return true
	})
}

// UpgradeTower changes a tower's type, suspending it for the upgrade
// delay and dropping units that no longer fit.
func (c *Chunk) UpgradeTower(towerId RelativeTowerId, towerType TowerType) {
	c.dirty = true
	tower := c.mustGet(towerId)
	tower.TowerType = towerType

	delay := towerType.Delay()
	if delay > 255 {
		delay = 255
	}
	tower.Delay = uint8(delay)

	tower.ReconcileUnits()

	if tower.SupplyLine != nil && !tower.GeneratesMobileUnits() {
		tower.SupplyLine = nil
	}
}

// Destroy removes towers. Must run before events are in flight or a
// tower with incoming units could vanish.
func (c *Chunk) Destroy(towerIds []RelativeTowerId) {
	for _, towerId := range towerIds {
		c.Remove(towerId)
	}
}

// KillPlayer strips a dead player from the chunk: rulers and shields are
// removed, towers are released, and the player's forces are purged.
func (c *Chunk) KillPlayer(playerId PlayerId, onInfo OnInfo) {
	c.dirty = true
	c.ForEach(func(towerId TowerId, tower *Tower) bool {
		if tower.PlayerId == playerId && playerId.IsSome() {
			tower.Units.Subtract(UnitRuler, ^uint(0))
			tower.Units.Subtract(UnitShield, ^uint(0))
			tower.SetPlayerId(NoPlayer)

			onInfo(InfoEvent{
				Position: towerId.Vec2(),
				Info: Info{
					Kind:       InfoLostTower,
					PlayerId:   playerId,
					TowerId:    towerId,
					LostReason: LostTowerPlayerKilled,
				},
			})
		}
		tower.InboundForces = retainForces(tower.InboundForces, func(f *Force) bool {
			return f.PlayerId != playerId
		})
		tower.OutboundForces = retainForces(tower.OutboundForces, func(f *Force) bool {
			return f.PlayerId != playerId
		})
		return true
	})
}

// HaltForce truncates an inbound force's path at its current segment.
func (c *Chunk) HaltForce(towerId RelativeTowerId, index int) {
	tower := c.mustGet(towerId)
	if index < len(tower.InboundForces) {
		tower.InboundForces[index].Halt()
		c.dirty = true
	}
}

// HaltSupplyLine clears a tower's supply line.
func (c *Chunk) HaltSupplyLine(towerId RelativeTowerId) {
	c.mustGet(towerId).SupplyLine = nil
	c.dirty = true
}

func retainForces(forces []Force, keep func(*Force) bool) []Force {
	out := forces[:0]
	for i := range forces {
		if keep(&forces[i]) {
			out = append(out, forces[i])
		}
	}
	// Zero dropped tails so garrisons don't pin old paths.
	for i := len(out); i < len(forces); i++ {
		forces[i] = Force{}
	}
	return out
}

// Tick advances every tower in the chunk by one simulation step:
// generation and decay, supply line deploys, battles between passing
// forces, and battles between arriving forces and garrisons.
func (c *Chunk) Tick(tick Ticks, players PlayerLookup, onEvent OnChunkEvent, onInfo OnInfo) {
	relationship := func(a, b PlayerId) Relationship {
		return RelationshipBetween(players, a, b)
	}

	// Spread periodic work across chunks.
	tickOffset := Ticks(uint16(c.ChunkId.X) | uint16(c.ChunkId.Y)<<8)
	tick = tick.WrappingAdd(tickOffset)
	downgrade := tick.Every(TicksFromSecs(60))

	for i := range c.towers {
		tower := c.towers[i]
		if tower == nil {
			continue
		}
		towerId := RelativeTowerId(i).Upgrade(c.ChunkId)

		touched := len(tower.InboundForces) > 0 || len(tower.OutboundForces) > 0

		deploy := false
		diminishSecs := uint32(10)
		if tower.PlayerId.IsSome() {
			diminishSecs = 30
		}
		if tick.Every(TicksFromSecs(diminishSecs)) {
			removed := tower.DiminishUnitsIfDeadOrOverflow()
			touched = touched || removed != 0
			deploy = removed != 0 && tower.Active()
		}

		// Either count down the delay or generate/decay, never both.
		if tower.Delay > 0 {
			tower.Delay--
			touched = true
		} else if tower.PlayerId.IsSome() {
			for _, unit := range AllUnits() {
				period, ok := tower.TowerType.UnitGeneration(unit)
				if !ok || !tick.Every(period) {
					continue
				}
				// Add 2 but take back up to 1 to probe for room.
				a := tower.Units.AddToTower(unit, 2, tower.TowerType, false)
				if a >= 1 {
					tower.Units.Subtract(unit, a-1)
				}
				touched = touched || a != 0
				deploy = deploy || (unit.IsMobileAt(tower.TowerType, true) && a < 2)
			}
		} else if dg, ok := tower.TowerType.Downgrade(); ok && downgrade {
			tower.TowerType = dg
			tower.ReconcileUnits()
			touched = true
		}

		if deploy && !tower.Units.HasRuler() && tower.SupplyLine != nil {
			// Don't send soldiers along a nuke supply line.
			force := tower.ForceUnits()
			if force.MaxEdgeDistance() >= tower.TowerType.RangedDistance() {
				for _, e := range tower.DeployForce(tower.SupplyLine.Clone()) {
					onEvent(e.Dst, e.Event)
				}
				touched = true
			}
		}

		c.forceVersusForce(tower, relationship, onInfo)
		c.forceVersusTower(tower, towerId, relationship, onEvent, onInfo)

		tower.OutboundForces = retainForces(tower.OutboundForces, func(f *Force) bool {
			return !f.rawTick()
		})

		if touched {
			c.dirty = true
		}
	}
}

// forceVersusForce fights inbound forces against outbound mirrors that
// overlap them on the same road this tick.
func (c *Chunk) forceVersusForce(tower *Tower, relationship func(a, b PlayerId) Relationship, onInfo OnInfo) {
	if len(tower.InboundForces) == 0 || len(tower.OutboundForces) == 0 {
		return
	}

	tower.InboundForces = retainForces(tower.InboundForces, func(inbound *Force) bool {
		allSame := true
		for j := range tower.OutboundForces {
			if tower.OutboundForces[j].PlayerId != inbound.PlayerId {
				allSame = false
				break
			}
		}
		if allSame {
			// Avoid the window math inside large territories.
			return true
		}

		inboundRequired := uint16(inbound.ProgressRequired())
		next := uint16(inbound.PathProgress) + uint16(inbound.progressPerTick())
		if next > 255 {
			next = 255
		}
		inboundProgress := saturatingSubU16(inboundRequired, next)
		inboundNextProgress := saturatingSubU16(inboundRequired, uint16(inbound.PathProgress))

		inboundSurvived := true

		tower.OutboundForces = retainForces(tower.OutboundForces, func(outbound *Force) bool {
			if !inboundSurvived {
				// Inbound is dead, it can no longer engage outbounds.
				return true
			}
			if outbound.CurrentDestination() != inbound.CurrentSource() {
				// Not on the same road.
				return true
			}
			if outbound.PlayerId == inbound.PlayerId {
				return true
			}

			outboundRequired := uint16(outbound.ProgressRequired())

			// Cross multiply so the windows share a denominator.
			effInbound := inboundProgress * outboundRequired
			effInboundNext := inboundNextProgress * outboundRequired

			outNext := uint16(outbound.PathProgress) + uint16(outbound.progressPerTick())
			if outNext > 255 {
				outNext = 255
			}
			effOutbound := uint16(outbound.PathProgress) * inboundRequired
			effOutboundNext := outNext * inboundRequired

			overlap := maxU16(effInbound, effOutbound) <= minU16(effInboundNext, effOutboundNext)
			if !overlap || !relationship(inbound.PlayerId, outbound.PlayerId).IsUnfriendly(false) {
				return true
			}

			position := inbound.InterpolatedPosition(0)

			// Only one copy of this battle reports events, so the pair
			// of chunks stays consistent even if fighting isn't
			// commutative.
			authoritative := outbound.CurrentDestination().Less(inbound.CurrentDestination())

			att := ForceCombatants(&inbound.Units)
			def := ForceCombatants(&outbound.Units)
			winner, decided := Fight(&att, &def, func(info CombatInfo) {
				if authoritative {
					onInfo(info.InfoEvent(position, inbound.PlayerId, outbound.PlayerId))
				}
			})

			inboundSurvived = decided && winner == CombatAttacker
			return decided && winner == CombatDefender
		})

		return inboundSurvived
	})
}

// forceVersusTower processes forces arriving this tick: battles, capture,
// exploration, moving on along supply lines, and merging into garrisons.
func (c *Chunk) forceVersusTower(tower *Tower, towerId TowerId, relationship func(a, b PlayerId) Relationship, onEvent OnChunkEvent, onInfo OnInfo) {
	position := towerId.Vec2()

	tower.InboundForces = retainForces(tower.InboundForces, func(force *Force) bool {
		if !force.tick() {
			return true
		}

		towerPlayerId := tower.PlayerId
		if towerPlayerId.IsSome() || !tower.Units.IsEmpty() {
			forcePlayerId := force.PlayerId
			if relationship(towerPlayerId, forcePlayerId).IsUnfriendly(force.Units.HasRuler()) {
				forceCombatants := ForceCombatants(&force.Units)
				towerCombatants := TowerCombatants(tower.TowerType, &tower.Units)

				towerEmped := false
				winner, decided := Fight(&forceCombatants, &towerCombatants, func(info CombatInfo) {
					towerEmped = towerEmped || (info.Kind == CombatEmp && info.Side == CombatAttacker)
					onInfo(info.InfoEvent(position, forcePlayerId, towerPlayerId))
				})

				if towerEmped {
					empDelay := uint8(TicksFromSecs(EmpSeconds))
					if tower.Delay < empDelay {
						tower.Delay = empDelay
					}
				}

				attackerWon := decided && winner == CombatAttacker
				defenderWon := decided && winner == CombatDefender

				if !attackerWon && forcePlayerId.IsSome() {
					onInfo(InfoEvent{
						Position: position,
						Info:     Info{Kind: InfoLostForce, PlayerId: forcePlayerId},
					})
				}

				if !defenderWon {
					if towerPlayerId.IsSome() {
						reason := LostTowerDestroyed
						if attackerWon {
							reason = LostTowerCaptured
						}
						onInfo(InfoEvent{
							Position: position,
							Info: Info{
								Kind:          InfoLostTower,
								TowerId:       towerId,
								PlayerId:      towerPlayerId,
								OtherPlayerId: forcePlayerId,
								LostReason:    reason,
							},
						})
					}

					newPlayerId := NoPlayer
					if attackerWon && forcePlayerId.IsSome() {
						onInfo(InfoEvent{
							Position: position,
							Info: Info{
								Kind:          InfoGainedTower,
								TowerId:       towerId,
								PlayerId:      forcePlayerId,
								OtherPlayerId: towerPlayerId,
								GainedReason:  GainedTowerCaptured,
							},
						})
						newPlayerId = forcePlayerId
					}

					// Nuked zombies have no owner to clear.
					if tower.PlayerId.IsSome() || newPlayerId.IsSome() {
						setPlayerIdInner(&tower.PlayerId, &tower.SupplyLine, newPlayerId)
					}

					// Not captured, blown up.
					if !tower.PlayerId.IsSome() {
						tower.TowerType = tower.TowerType.Basis()
						tower.Delay = 0
					}
				}
			}
			// Otherwise the force may move on or end its journey below.
		} else if force.PlayerId.IsSome() && force.Units.IsAlive() {
			// Force explored an empty tower.
			onInfo(InfoEvent{
				Position: position,
				Info: Info{
					Kind:         InfoGainedTower,
					TowerId:      towerId,
					PlayerId:     force.PlayerId,
					GainedReason: GainedTowerExplored,
				},
			})
			setPlayerIdInner(&tower.PlayerId, &tower.SupplyLine, force.PlayerId)
			tower.ReconcileUnits()
		}

		rel := relationship(force.PlayerId, tower.PlayerId)

		switch {
		case force.Units.IsEmpty():
			// Drop.
		case force.Fuel == 0:
			// Expire.
			if force.PlayerId.IsSome() {
				onInfo(InfoEvent{
					Position: position,
					Info:     Info{Kind: InfoLostForce, PlayerId: force.PlayerId},
				})
			}
		case (rel == RelationshipAlly || rel == RelationshipComrade) &&
			force.TryMoveOn(tower.TowerType, &tower.Units, allyIf(rel, tower.PlayerId), tower.SupplyLine):
			crammed := 0
			for j := range tower.OutboundForces {
				if tower.OutboundForces[j].CurrentDestination() == force.CurrentDestination() {
					crammed++
				}
			}
			if force.Units.isMany() && crammed >= 8 {
				// Cramming: too many forces on one road.
				if force.PlayerId.IsSome() {
					onInfo(InfoEvent{
						Position: position,
						Info:     Info{Kind: InfoLostForce, PlayerId: force.PlayerId},
					})
				}
			} else {
				srcChunk, srcTower := force.CurrentSource().Split()
				onEvent(srcChunk, AddOutboundForceEvent(srcTower, force))

				dstChunk, dstTower := force.CurrentDestination().Split()
				onEvent(dstChunk, ChunkEvent{
					Kind:    ChunkEventAddInboundForce,
					TowerId: dstTower,
					Force:   *force,
				})
			}
		case rel.IsFriendly(force.Units.HasRuler()):
			// Force arrived. Only owned towers may overflow.
			tower.Units.AddUnitsToTower(force.Units, tower.TowerType, tower.PlayerId.IsSome())
		case force.Units.Available(UnitRuler) > 0:
			// A shield stopped the ruler cold.
			if force.PlayerId.IsSome() {
				onInfo(InfoEvent{
					Position: position,
					Info: Info{
						Kind:       InfoLostRuler,
						PlayerId:   force.PlayerId,
						KillerUnit: UnitShield,
					},
				})
			}
		}
		return false
	})
}

func allyIf(rel Relationship, playerId PlayerId) PlayerId {
	if rel == RelationshipAlly {
		return playerId
	}
	return NoPlayer
}
