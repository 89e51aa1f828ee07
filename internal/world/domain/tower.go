package domain

// Tower is a single grid cell with a garrison and the forces moving
// through it.
type Tower struct {
	PlayerId  PlayerId
	Units     Units
	TowerType TowerType
	// Delay in ticks until the tower is usable again (upgrade or EMP).
	// Zero means active.
	Delay uint8
	// InboundForces will eventually arrive and be processed here.
	InboundForces []Force
	// OutboundForces mirror the inbound forces of the opposing tower so
	// forces traveling the same road can fight. Discarded on arrival.
	OutboundForces []Force
	// SupplyLine is where the tower sends units when it overflows. Nil
	// when unset.
	SupplyLine *Path
}

// NewTower builds the unowned tower that naturally occurs at an id.
func NewTower(towerId TowerId) *Tower {
	return NewTowerWithType(towerId.Type())
}

func NewTowerWithType(towerType TowerType) *Tower {
	return &Tower{TowerType: towerType}
}

// Active reports whether the tower provides its services. Inactive towers
// don't generate units, extend sensors, or count towards upgrades.
func (t *Tower) Active() bool {
	return t.Delay == 0
}

// CanDestroy reports whether the tower may be removed from the world.
func (t *Tower) CanDestroy() bool {
	return len(t.InboundForces) == 0 && !t.PlayerId.IsSome()
}

// ForEachRuler visits players whose ruler is at or inbound to this tower.
func (t *Tower) ForEachRuler(f func(PlayerId)) {
	if t.PlayerId.IsSome() && t.Units.HasRuler() {
		f(t.PlayerId)
	}
	for i := range t.InboundForces {
		force := &t.InboundForces[i]
		if force.Units.HasRuler() {
			f(force.PlayerId)
		}
	}
}

// ForceUnits is the subset of the garrison deployable in a force.
func (t *Tower) ForceUnits() Units {
	var ret Units
	t.Units.ForEach(func(unit Unit, count uint) {
		if unit.IsMobileAt(t.TowerType, true) {
			ret.Add(unit, count)
		}
	})
	return ret
}

// TakeForceUnits removes and returns all deployable units.
func (t *Tower) TakeForceUnits() Units {
	ret := t.ForceUnits()
	ret.ForEach(func(unit Unit, count uint) {
		t.Units.Subtract(unit, count)
	})
	return ret
}

// DiminishUnitsIfDeadOrOverflow removes one of each unit over capacity,
// or one of every unit if the tower is unowned. Returns how many mobile
// units were removed, which hints that a deploy may relieve pressure.
func (t *Tower) DiminishUnitsIfDeadOrOverflow() uint {
	var mobile uint
	for _, unit := range AllUnits() {
		if !t.PlayerId.IsSome() || t.Units.Available(unit) > t.Units.Capacity(unit, t.TowerType, true) {
			subtracted := t.Units.Subtract(unit, 1)
			if unit.IsMobileAt(t.TowerType, true) {
				mobile += subtracted
			}
		}
	}
	return mobile
}

// UnitGeneration is the period at which the tower produces a unit. A
// resident ruler suppresses everything but shields.
func (t *Tower) UnitGeneration(unit Unit) (Ticks, bool) {
	if unit != UnitShield && t.Units.HasRuler() {
		return 0, false
	}
	return t.TowerType.UnitGeneration(unit)
}

// GeneratesMobileUnits reports whether the tower produces anything worth
// a supply line.
func (t *Tower) GeneratesMobileUnits() bool {
	for _, unit := range AllUnits() {
		if !unit.IsMobileAt(t.TowerType, true) {
			continue
		}
		if _, ok := t.UnitGeneration(unit); ok {
			return true
		}
	}
	return false
}

func (t *Tower) ReconcileUnits() {
	t.Units.Reconcile(t.TowerType, t.PlayerId.IsSome())
}

// SetPlayerId transfers ownership. Must be used instead of assigning
// PlayerId directly so the supply line is cleared. The caller must have
// removed rulers and shields first.
func (t *Tower) SetPlayerId(playerId PlayerId) {
	setPlayerIdInner(&t.PlayerId, &t.SupplyLine, playerId)
}

func setPlayerIdInner(current *PlayerId, supply **Path, next PlayerId) {
	if current.IsSome() {
		*supply = nil
	}
	*current = next
}

// DeployForce sends all deployable units along a path, producing the
// outbound mirror and inbound events for the affected chunks.
func (t *Tower) DeployForce(path Path) [2]AddressedChunkEvent {
	units := t.TakeForceUnits()
	return t.SendForce(NewForce(t.PlayerId, units, path))
}

// SendForce routes a force: an outbound mirror at its source chunk and
// the real inbound force at its destination chunk.
func (t *Tower) SendForce(force Force) [2]AddressedChunkEvent {
	srcChunk, srcTower := force.CurrentSource().Split()
	dstChunk, dstTower := force.CurrentDestination().Split()
	return [2]AddressedChunkEvent{
		{
			Dst:   srcChunk,
			Event: AddOutboundForceEvent(srcTower, &force),
		},
		{
			Dst: dstChunk,
			Event: ChunkEvent{
				Kind:    ChunkEventAddInboundForce,
				TowerId: dstTower,
				Force:   force,
			},
		},
	}
}
