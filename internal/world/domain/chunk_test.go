package domain

import "testing"

func noChunkEvent(ChunkId, ChunkEvent) {}

func noInfo(InfoEvent) {}

func enemiesOnly(PlayerId) *Player { return nil }

func TestChunkTickGeneration(t *testing.T) {
	pid := NewPlayerId(1, 7)
	c := NewChunk(ChunkId{})

	growing := NewTowerWithType(TowerBarracks)
	growing.SetPlayerId(pid)
	growing.Units.AddToTower(UnitSoldier, 2, TowerBarracks, false)
	c.Insert(0, growing)

	full := NewTowerWithType(TowerBarracks)
	full.SetPlayerId(pid)
	full.Units.AddToTower(UnitSoldier, 12, TowerBarracks, false)
	c.Insert(1, full)

	period, ok := TowerBarracks.UnitGeneration(UnitSoldier)
	if !ok {
		t.Fatalf("barracks should generate soldiers")
	}

	c.Tick(period, enemiesOnly, noChunkEvent, noInfo)

	// Generation adds two and takes one back, netting a single soldier
	// while there is room.
	if got := growing.Units.Available(UnitSoldier); got != 3 {
		t.Fatalf("soldiers after generation = %d, want 3", got)
	}
	if got := full.Units.Available(UnitSoldier); got != 12 {
		t.Fatalf("soldiers at capacity = %d, want 12", got)
	}
}

func TestChunkTickEmpDelaysTower(t *testing.T) {
	attacker := NewPlayerId(1, 8)
	defender := NewPlayerId(1, 9)

	c := NewChunk(ChunkId{})
	target := TowerId{X: 0, Y: 0}
	_, rel := target.Split()

	tower := NewTowerWithType(TowerVillage)
	tower.SetPlayerId(defender)
	tower.Units.AddToTower(UnitSoldier, 2, TowerVillage, false)
	c.Insert(rel, tower)

	var emp Units
	emp.Add(UnitEmp, 1)
	force := NewForce(attacker, emp, NewPath([]TowerId{{X: 1, Y: 0}, target}))
	force.PathProgress = 255
	c.AddInboundForce(rel, force)

	var kinds []InfoKind
	c.Tick(1, enemiesOnly, noChunkEvent, func(e InfoEvent) {
		kinds = append(kinds, e.Info.Kind)
	})

	if got, want := tower.Delay, uint8(TicksFromSecs(EmpSeconds)); got != want {
		t.Fatalf("Delay = %d, want %d", got, want)
	}
	if tower.PlayerId != defender {
		t.Fatalf("an emp must not capture the tower")
	}
	if got := tower.Units.Available(UnitSoldier); got != 1 {
		t.Fatalf("garrison after emp = %d soldiers, want 1", got)
	}
	if len(tower.InboundForces) != 0 {
		t.Fatalf("the spent force should be dropped")
	}
	var sawEmp, sawLostForce bool
	for _, k := range kinds {
		sawEmp = sawEmp || k == InfoEmp
		sawLostForce = sawLostForce || k == InfoLostForce
	}
	if !sawEmp || !sawLostForce {
		t.Fatalf("kinds = %v, want an emp and the attacker losing the force", kinds)
	}
}

func TestChunkTickCramming(t *testing.T) {
	pid := NewPlayerId(1, 10)

	through := TowerId{X: 0, Y: 0}
	next := TowerId{X: 1, Y: 0}
	origin := TowerId{X: 0, Y: 1}

	setup := func(outbound int) (*Chunk, *Tower) {
		c := NewChunk(ChunkId{})
		_, rel := through.Split()
		tower := NewTowerWithType(TowerVillage)
		tower.SetPlayerId(pid)
		c.Insert(rel, tower)

		var soldiers Units
		soldiers.Add(UnitSoldier, 2)
		for i := 0; i < outbound; i++ {
			tower.OutboundForces = append(tower.OutboundForces,
				NewForce(pid, soldiers, NewPath([]TowerId{through, next})))
		}

		force := NewForce(pid, soldiers, NewPath([]TowerId{origin, through, next}))
		force.PathProgress = 255
		c.AddInboundForce(rel, force)
		return c, tower
	}

	// Eight forces already on the road is the limit.
	c, tower := setup(8)
	events := 0
	lost := false
	c.Tick(1, enemiesOnly, func(ChunkId, ChunkEvent) { events++ }, func(e InfoEvent) {
		lost = lost || (e.Info.Kind == InfoLostForce && e.Info.PlayerId == pid)
	})
	if events != 0 || !lost {
		t.Fatalf("events = %d lost = %v, want the crammed force to die without moving on", events, lost)
	}
	if len(tower.InboundForces) != 0 {
		t.Fatalf("the crammed force should be removed")
	}

	// One slot free lets the force through.
	c, _ = setup(7)
	inbound := 0
	c.Tick(1, enemiesOnly, func(_ ChunkId, e ChunkEvent) {
		if e.Kind == ChunkEventAddInboundForce {
			inbound++
		}
	}, noInfo)
	if inbound != 1 {
		t.Fatalf("forwarded forces = %d, want 1", inbound)
	}
}

func TestChunkSpawnStocksTowerAndEscorts(t *testing.T) {
	pid := NewPlayerId(1, 11)
	towerId := TowerId{X: 130, Y: 130}
	chunkId, rel := towerId.Split()

	c := NewChunk(chunkId)
	c.Insert(rel, NewTowerWithType(TowerVillage))

	var events []AddressedChunkEvent
	spawned := false
	c.Spawn(rel, pid, func(dst ChunkId, e ChunkEvent) {
		events = append(events, AddressedChunkEvent{Dst: dst, Event: e})
	}, func(e InfoEvent) {
		spawned = spawned || (e.Info.Kind == InfoGainedTower &&
			e.Info.GainedReason == GainedTowerSpawned && e.Info.PlayerId == pid)
	})

	tower := c.Get(rel)
	if tower.PlayerId != pid {
		t.Fatalf("PlayerId = %v, want %v", tower.PlayerId, pid)
	}
	if got := tower.Units.Available(UnitRuler); got != 1 {
		t.Fatalf("rulers = %d, want 1", got)
	}
	wantShields := TowerVillage.RawUnitCapacity(UnitShield) + RulerShieldBoost
	if got := tower.Units.Available(UnitShield); got != wantShields {
		t.Fatalf("shields = %d, want %d", got, wantShields)
	}
	if !spawned {
		t.Fatalf("spawning should report the gained tower")
	}

	neighbors := 0
	towerId.Neighbors(func(TowerId) bool {
		neighbors++
		return true
	})
	if neighbors == 0 {
		t.Fatalf("spawn tower should have neighbors")
	}
	if len(events) != 2*neighbors {
		t.Fatalf("events = %d, want two per neighbor = %d", len(events), 2*neighbors)
	}
	escorts := 0
	for _, e := range events {
		if e.Event.Kind != ChunkEventAddInboundForce {
			continue
		}
		escorts++
		units := e.Event.Force.Units
		if units.Available(UnitSoldier) != 4 || units.Available(UnitShield) != 15 {
			t.Fatalf("escort = %d soldiers %d shields, want 4 and 15",
				units.Available(UnitSoldier), units.Available(UnitShield))
		}
	}
	if escorts != neighbors {
		t.Fatalf("escorts = %d, want one per neighbor", escorts)
	}
}
