package domain

// TowerType enumerates every structure in the world. Each type has static
// data: garrison capacities, unit generation periods, upgrade
// prerequisites, and sensor range.
type TowerType uint8

const (
	TowerAirfield TowerType = iota
	TowerArmory
	TowerArtillery
	TowerBarracks
	TowerBunker
	TowerCentrifuge
	TowerCity
	TowerCliff
	TowerEws
	TowerFactory
	TowerGenerator
	TowerHeadquarters
	TowerHelipad
	TowerLauncher
	TowerMine
	TowerProjector
	TowerQuarry
	TowerRadar
	TowerRampart
	TowerReactor
	TowerRefinery
	TowerRocket
	TowerRunway
	TowerSatellite
	TowerSilo
	TowerTown
	TowerVillage

	TowerTypeCount = int(TowerVillage) + 1
)

// Defaults shared by all tower types.
const (
	defaultDelaySecs     = 10
	defaultSensorRadius  = 12
	defaultShieldGenSecs = 5
	defaultRulerCapacity = 1
	defaultScoreWeight   = 1
	noDowngrade          = TowerType(255)
)

type towerData struct {
	name          string
	capacities    map[Unit]uint
	generation    map[Unit]uint32 // seconds per unit; Shield defaults to 5
	downgrade     TowerType
	delaySecs     uint32 // to upgrade/downgrade to this type
	prerequisites map[TowerType]uint8
	sensorRadius  uint16
	scoreWeight   uint32
	spawnable     bool
}

var towerTable = [TowerTypeCount]towerData{
	TowerAirfield: {
		name:          "airfield",
		spawnable:     true,
		downgrade:     TowerRunway,
		delaySecs:     20,
		prerequisites: map[TowerType]uint8{TowerFactory: 2, TowerRadar: 1},
		capacities:    map[Unit]uint{UnitFighter: 4, UnitBomber: 4, UnitSoldier: 4, UnitTank: 3, UnitShield: 10},
		generation:    map[Unit]uint32{UnitBomber: 30},
	},
	TowerArmory: {
		name:          "armory",
		spawnable:     true,
		downgrade:     TowerBarracks,
		delaySecs:     25,
		prerequisites: map[TowerType]uint8{TowerFactory: 1, TowerMine: 1},
		capacities:    map[Unit]uint{UnitSoldier: 4, UnitTank: 5, UnitShield: 15},
		generation:    map[Unit]uint32{UnitTank: 15},
	},
	TowerArtillery: {
		name:          "artillery",
		downgrade:     TowerBunker,
		delaySecs:     40,
		prerequisites: map[TowerType]uint8{TowerRefinery: 2, TowerRadar: 3},
		capacities:    map[Unit]uint{UnitShell: 3, UnitShield: 20},
		generation:    map[Unit]uint32{UnitShell: 15},
	},
	TowerBarracks: {
		name:       "barracks",
		spawnable:  true,
		downgrade:  noDowngrade,
		capacities: map[Unit]uint{UnitSoldier: 12, UnitTank: 2, UnitShield: 10},
		generation: map[Unit]uint32{UnitSoldier: 6},
	},
	TowerBunker: {
		name:          "bunker",
		downgrade:     TowerMine,
		delaySecs:     30,
		prerequisites: map[TowerType]uint8{TowerHeadquarters: 1, TowerEws: 1},
		capacities:    map[Unit]uint{UnitSoldier: 6, UnitShield: 40},
	},
	TowerCentrifuge: {
		name:          "centrifuge",
		downgrade:     TowerFactory,
		delaySecs:     30,
		prerequisites: map[TowerType]uint8{TowerMine: 3},
		capacities:    map[Unit]uint{UnitSoldier: 4, UnitTank: 2, UnitShield: 15},
	},
	TowerCity: {
		name:          "city",
		scoreWeight:   5,
		downgrade:     TowerTown,
		delaySecs:     30,
		prerequisites: map[TowerType]uint8{TowerQuarry: 2, TowerReactor: 1, TowerTown: 3},
		capacities:    map[Unit]uint{UnitFighter: 2, UnitSoldier: 6, UnitTank: 2, UnitShield: 15},
	},
	TowerCliff: {
		name:       "cliff",
		downgrade:  noDowngrade,
		capacities: map[Unit]uint{UnitSoldier: 4, UnitTank: 2, UnitShield: 30},
	},
	TowerEws: {
		name:          "ews",
		sensorRadius:  20,
		downgrade:     TowerRadar,
		delaySecs:     30,
		prerequisites: map[TowerType]uint8{TowerGenerator: 2},
		capacities:    map[Unit]uint{UnitSoldier: 4, UnitTank: 2, UnitShield: 15},
	},
	TowerFactory: {
		name:        "factory",
		scoreWeight: 2,
		downgrade:   noDowngrade,
		capacities:  map[Unit]uint{UnitSoldier: 4, UnitTank: 2, UnitShield: 10},
	},
	TowerGenerator: {
		name:       "generator",
		downgrade:  noDowngrade,
		capacities: map[Unit]uint{UnitSoldier: 4, UnitTank: 2, UnitShield: 10},
	},
	TowerHeadquarters: {
		name:          "headquarters",
		downgrade:     TowerVillage,
		delaySecs:     20,
		prerequisites: map[TowerType]uint8{TowerRadar: 1},
		capacities:    map[Unit]uint{UnitSoldier: 8, UnitTank: 2, UnitShield: 40},
	},
	TowerHelipad: {
		name:          "helipad",
		spawnable:     true,
		downgrade:     TowerAirfield,
		delaySecs:     20,
		prerequisites: map[TowerType]uint8{TowerArmory: 2, TowerFactory: 3},
		capacities:    map[Unit]uint{UnitChopper: 3, UnitSoldier: 4, UnitTank: 2, UnitShield: 15},
		generation:    map[Unit]uint32{UnitChopper: 30},
	},
	TowerLauncher: {
		name:          "launcher",
		downgrade:     TowerRocket,
		delaySecs:     30,
		prerequisites: map[TowerType]uint8{TowerAirfield: 2},
		capacities:    map[Unit]uint{UnitEmp: 1, UnitShield: 15},
		generation:    map[Unit]uint32{UnitEmp: 80},
	},
	TowerMine: {
		name:        "mine",
		scoreWeight: 2,
		downgrade:   noDowngrade,
		capacities:  map[Unit]uint{UnitSoldier: 4, UnitTank: 2, UnitShield: 15},
	},
	TowerProjector: {
		name:          "projector",
		downgrade:     TowerCentrifuge,
		delaySecs:     20,
		prerequisites: map[TowerType]uint8{TowerRampart: 2, TowerReactor: 2},
		capacities:    map[Unit]uint{UnitSoldier: 4, UnitTank: 2, UnitShield: 10},
		generation:    map[Unit]uint32{UnitShield: 3},
	},
	TowerQuarry: {
		name:          "quarry",
		scoreWeight:   2,
		downgrade:     TowerCliff,
		delaySecs:     20,
		prerequisites: map[TowerType]uint8{TowerVillage: 1},
		capacities:    map[Unit]uint{UnitSoldier: 6, UnitTank: 2, UnitShield: 10},
	},
	TowerRadar: {
		name:         "radar",
		sensorRadius: 16,
		downgrade:    noDowngrade,
		capacities:   map[Unit]uint{UnitSoldier: 4, UnitTank: 2, UnitShield: 10},
	},
	TowerRampart: {
		name:          "rampart",
		downgrade:     TowerCliff,
		delaySecs:     20,
		prerequisites: map[TowerType]uint8{TowerBarracks: 2},
		capacities:    map[Unit]uint{UnitSoldier: 8, UnitShield: 45},
		generation:    map[Unit]uint32{UnitShield: 3},
	},
	TowerReactor: {
		name:          "reactor",
		downgrade:     TowerGenerator,
		delaySecs:     40,
		prerequisites: map[TowerType]uint8{TowerCentrifuge: 1},
		capacities:    map[Unit]uint{UnitSoldier: 4, UnitTank: 2, UnitShield: 10},
	},
	TowerRefinery: {
		name:          "refinery",
		scoreWeight:   3,
		downgrade:     TowerFactory,
		delaySecs:     20,
		prerequisites: map[TowerType]uint8{TowerGenerator: 3, TowerCliff: 1},
		capacities:    map[Unit]uint{UnitSoldier: 4, UnitTank: 2, UnitShield: 5},
	},
	TowerRocket: {
		name:          "rocket",
		downgrade:     TowerRadar,
		delaySecs:     20,
		prerequisites: map[TowerType]uint8{TowerRefinery: 1},
		capacities:    map[Unit]uint{UnitSoldier: 4, UnitTank: 2, UnitShield: 15},
	},
	TowerRunway: {
		name:       "runway",
		spawnable:  true,
		downgrade:  noDowngrade,
		capacities: map[Unit]uint{UnitFighter: 4, UnitSoldier: 4, UnitTank: 2, UnitShield: 5},
		generation: map[Unit]uint32{UnitFighter: 30},
	},
	TowerSatellite: {
		name:          "satellite",
		sensorRadius:  30,
		downgrade:     TowerEws,
		delaySecs:     40,
		prerequisites: map[TowerType]uint8{TowerRocket: 2, TowerGenerator: 5},
		capacities:    map[Unit]uint{UnitSoldier: 4, UnitTank: 2, UnitShield: 15},
	},
	TowerSilo: {
		name:          "silo",
		downgrade:     TowerQuarry,
		delaySecs:     40,
		prerequisites: map[TowerType]uint8{TowerCentrifuge: 2},
		capacities:    map[Unit]uint{UnitNuke: 1, UnitSoldier: 4, UnitTank: 1, UnitShield: 20},
		generation:    map[Unit]uint32{UnitNuke: 120},
	},
	TowerTown: {
		name:          "town",
		scoreWeight:   2,
		downgrade:     TowerVillage,
		delaySecs:     20,
		prerequisites: map[TowerType]uint8{TowerGenerator: 1, TowerVillage: 3},
		capacities:    map[Unit]uint{UnitFighter: 1, UnitSoldier: 4, UnitTank: 1, UnitShield: 10},
	},
	TowerVillage: {
		name:       "village",
		downgrade:  noDowngrade,
		capacities: map[Unit]uint{UnitSoldier: 4, UnitShield: 5},
	},
}

func (t TowerType) data() *towerData {
	return &towerTable[t]
}

func (t TowerType) String() string {
	if int(t) < TowerTypeCount {
		return t.data().name
	}
	return "unknown"
}

// TowerTypeFromRepr converts a wire byte back to a TowerType.
func TowerTypeFromRepr(v uint8) (TowerType, bool) {
	if int(v) < TowerTypeCount {
		return TowerType(v), true
	}
	return 0, false
}

// AllTowerTypes iterates every tower type in declaration order.
func AllTowerTypes() [TowerTypeCount]TowerType {
	var types [TowerTypeCount]TowerType
	for i := range types {
		types[i] = TowerType(i)
	}
	return types
}

// RawUnitCapacity is the garrison capacity for a unit, not counting the
// ruler boost. Every tower can hold exactly one ruler.
func (t TowerType) RawUnitCapacity(unit Unit) uint {
	if unit == UnitRuler {
		return defaultRulerCapacity
	}
	return t.data().capacities[unit]
}

// UnitGeneration is the period between generated units, or (0, false) if
// the tower doesn't generate the unit. All towers generate shields.
func (t TowerType) UnitGeneration(unit Unit) (Ticks, bool) {
	if secs, ok := t.data().generation[unit]; ok {
		return TicksFromSecs(secs), true
	}
	if unit == UnitShield {
		return TicksFromSecs(defaultShieldGenSecs), true
	}
	return 0, false
}

// Prerequisite is how many towers of the given type upgrading to this
// tower requires within supply-connected territory.
func (t TowerType) Prerequisite(other TowerType) uint8 {
	return t.data().prerequisites[other]
}

// Delay is how long an upgrade or downgrade to this tower takes.
func (t TowerType) Delay() Ticks {
	secs := t.data().delaySecs
	if secs == 0 {
		secs = defaultDelaySecs
	}
	return TicksFromSecs(secs)
}

// Downgrade is the tower this type reverts to, if any.
func (t TowerType) Downgrade() (TowerType, bool) {
	d := t.data().downgrade
	if d == noDowngrade {
		return 0, false
	}
	return d, true
}

func (t TowerType) SensorRadius() uint16 {
	if r := t.data().sensorRadius; r != 0 {
		return r
	}
	return defaultSensorRadius
}

func (t TowerType) ScoreWeight() uint32 {
	if w := t.data().scoreWeight; w != 0 {
		return w
	}
	return defaultScoreWeight
}

func (t TowerType) IsSpawnable() bool {
	return t.data().spawnable
}

func (t TowerType) CanUpgradeTo(other TowerType) bool {
	d, ok := other.Downgrade()
	return ok && d == t
}

// Upgrades iterates the tower types this type can upgrade to.
func (t TowerType) Upgrades() []TowerType {
	var ret []TowerType
	for _, other := range AllTowerTypes() {
		if t.CanUpgradeTo(other) {
			ret = append(ret, other)
		}
	}
	return ret
}

// GeneratesMobileUnits ignores ruler occupancy; prefer Tower.GeneratesMobileUnits.
func (t TowerType) GeneratesMobileUnits() bool {
	for _, unit := range AllUnits() {
		if !unit.IsMobileAt(t, true) {
			continue
		}
		if _, ok := t.UnitGeneration(unit); ok {
			return true
		}
	}
	return false
}

// RangedDistance is the max edge distance of a generated ranged unit, or
// 0 if the tower generates none.
func (t TowerType) RangedDistance() uint32 {
	for _, unit := range AllUnits() {
		if _, ok := t.UnitGeneration(unit); ok {
			if d := unit.RangedDistance(); d != 0 {
				return d
			}
		}
	}
	return 0
}

// RangedDamage is the damage a tower of this type takes from a ranged
// attack. Hardened towers shrug off part of it.
func (t TowerType) RangedDamage(damage uint8) uint8 {
	switch t {
	case TowerBunker:
		return damage / 3
	case TowerHeadquarters:
		return damage * 2 / 3
	default:
		return damage
	}
}

func (t TowerType) MaxRangedDamage() uint8 {
	return t.RangedDamage(InfiniteDamage)
}

// Level is zero-indexed; every tower outranks its downgrade and its
// prerequisites.
func (t TowerType) Level() int {
	max := -1
	for _, other := range AllTowerTypes() {
		if t.Prerequisite(other) > 0 {
			if l := other.Level(); l > max {
				max = l
			}
		}
	}
	if d, ok := t.Downgrade(); ok {
		if l := d.Level(); l > max {
			max = l
		}
	}
	return max + 1
}

// Basis is the lowest level tower that can upgrade into this one.
func (t TowerType) Basis() TowerType {
	for {
		d, ok := t.Downgrade()
		if !ok {
			return t
		}
		t = d
	}
}

// HasPrerequisites checks tower counts against this type's requirements.
func (t TowerType) HasPrerequisites(counts *TowerCounts) bool {
	for other, required := range t.data().prerequisites {
		if counts.Get(other) < uint16(required) {
			return false
		}
	}
	return true
}

// MaxSensorRange is the largest sensor radius in tower cells.
func MaxSensorRange() uint16 {
	var max uint16
	for _, t := range AllTowerTypes() {
		if r := t.SensorRadius(); r > max {
			max = r
		}
	}
	return (max + TowerIdConversion - 1) / TowerIdConversion
}

// generateTowerType picks a deterministic basis tower type from a hash.
func generateTowerType(hash uint8) TowerType {
	var bases []TowerType
	for _, t := range AllTowerTypes() {
		if _, ok := t.Downgrade(); !ok {
			bases = append(bases, t)
		}
	}
	return bases[int(hash)%len(bases)]
}

// TowerCounts tallies owned towers per type.
type TowerCounts struct {
	counts [TowerTypeCount]uint16
}

func (c *TowerCounts) Get(t TowerType) uint16 { return c.counts[t] }

func (c *TowerCounts) Add(t TowerType, n uint16) { c.counts[t] += n }

func (c *TowerCounts) Clear() { *c = TowerCounts{} }

func (c *TowerCounts) Total() uint32 {
	var total uint32
	for _, n := range c.counts {
		total += uint32(n)
	}
	return total
}

// Score is the weighted tower score used for leaderboards.
func (c *TowerCounts) Score() uint32 {
	var score uint32
	for i, n := range c.counts {
		score += TowerType(i).ScoreWeight() * uint32(n)
	}
	return score
}

// ForEach visits nonzero counts in declaration order.
func (c *TowerCounts) ForEach(f func(TowerType, uint16)) {
	for i, n := range c.counts {
		if n > 0 {
			f(TowerType(i), n)
		}
	}
}
