package domain

// Units holds the composition of a tower garrison or a force. Shields are
// always tracked; regular units share an array; special units (shell,
// emp, nuke, ruler) are exclusive: adding one evicts regular units, and a
// higher priority single cannot be displaced by a lower one.
type Units struct {
	always [alwaysUnitCount]uint8
	many   [manyUnitCount]uint8
	// single is meaningful only when singleCount > 0.
	single      Unit
	singleCount uint8
}

// UnitsCapacity is the per-slot cap of any unit count.
const UnitsCapacity = 255

// RulerShieldBoost is the extra shield capacity a ruler grants its tower.
const RulerShieldBoost = 10

func (u *Units) isMany() bool {
	return u.singleCount == 0
}

// Available returns the amount of a unit present.
func (u *Units) Available(unit Unit) uint {
	switch unit.category() {
	case categoryAlways:
		return uint(u.always[unit-firstAlwaysUnit])
	case categoryMany:
		if !u.isMany() {
			return 0
		}
		return uint(u.many[unit-firstManyUnit])
	default:
		if u.singleCount > 0 && u.single == unit {
			return uint(u.singleCount)
		}
		return 0
	}
}

func (u *Units) Contains(unit Unit) bool {
	return u.Available(unit) > 0
}

func (u *Units) HasRuler() bool {
	return u.Contains(UnitRuler)
}

// Clear removes all units.
func (u *Units) Clear() {
	*u = Units{}
}

func (u *Units) IsEmpty() bool {
	return *u == Units{}
}

// Len is the total number of units.
func (u *Units) Len() uint {
	var total uint
	for _, unit := range AllUnits() {
		total += u.Available(unit)
	}
	return total
}

// Capacity is the room for a unit, accounting for the ruler shield boost.
// A tower type of TowerNone means no tower (forces), i.e. unlimited.
func (u *Units) Capacity(unit Unit, towerType TowerType, atTower bool) uint {
	if !atTower {
		return UnitsCapacity
	}
	c := towerType.RawUnitCapacity(unit)
	if unit == UnitShield && u.HasRuler() {
		c += RulerShieldBoost
	}
	if c > UnitsCapacity {
		c = UnitsCapacity
	}
	return c
}

func (u *Units) spaceRemaining(unit Unit, towerType TowerType, atTower, overflow bool) uint {
	switch unit.category() {
	case categoryAlways:
	case categoryMany:
		// Many can't displace a single. A single can never be zero.
		if !u.isMany() {
			return 0
		}
	default:
		// Singles can't displace other singles of higher priority.
		if u.singleCount > 0 && u.single > unit {
			return 0
		}
	}
	cap := u.Capacity(unit, towerType, atTower)
	if overflow {
		cap += unit.MaxOverflow()
	}
	avail := u.Available(unit)
	if avail >= cap {
		return 0
	}
	return cap - avail
}

func (u *Units) addInner(unit Unit, count uint, towerType TowerType, atTower, overflow bool) uint {
	added := count
	if space := u.spaceRemaining(unit, towerType, atTower, overflow); added > space {
		added = space
	}
	if added == 0 {
		return 0
	}
	switch unit.category() {
	case categoryAlways:
		u.always[unit-firstAlwaysUnit] += uint8(added)
	case categoryMany:
		u.many[unit-firstManyUnit] += uint8(added)
	default:
		if u.isMany() {
			// A single evicts all regular units.
			u.many = [manyUnitCount]uint8{}
			u.single = unit
			u.singleCount = uint8(added)
		} else if u.single == unit {
			u.singleCount += uint8(added)
		} else {
			u.single = unit
			u.singleCount = uint8(added)
		}
	}
	return added
}

// Add adds units outside of a tower (e.g. in a force). Returns the amount
// actually added.
func (u *Units) Add(unit Unit, count uint) uint {
	return u.addInner(unit, count, 0, false, true)
}

// AddToTower adds units to a tower of the given type. Overflow allows the
// added units to temporarily exceed capacity.
func (u *Units) AddToTower(unit Unit, count uint, towerType TowerType, overflow bool) uint {
	return u.addInner(unit, count, towerType, true, overflow)
}

// Subtract removes up to count of unit and returns the amount removed.
func (u *Units) Subtract(unit Unit, count uint) uint {
	avail := u.Available(unit)
	sub := count
	if sub > avail {
		sub = avail
	}
	if sub == 0 {
		return 0
	}
	switch unit.category() {
	case categoryAlways:
		u.always[unit-firstAlwaysUnit] -= uint8(sub)
	case categoryMany:
		u.many[unit-firstManyUnit] -= uint8(sub)
	default:
		u.singleCount -= uint8(sub)
		if u.singleCount == 0 {
			u.single = 0
		}
	}
	return sub
}

// ForEach visits units with nonzero counts in priority order.
func (u *Units) ForEach(f func(Unit, uint)) {
	for _, unit := range AllUnits() {
		if count := u.Available(unit); count > 0 {
			f(unit, count)
		}
	}
}

// AddUnitsToTower transfers other's non-single-use units into a tower.
func (u *Units) AddUnitsToTower(other Units, towerType TowerType, overflow bool) {
	other.ForEach(func(unit Unit, count uint) {
		if unit.IsSingleUse() {
			return
		}
		u.AddToTower(unit, count, towerType, overflow)
	})
}

// Reconcile rebuilds the units for a new tower type, dropping whatever no
// longer fits.
func (u *Units) Reconcile(towerType TowerType, hasPlayer bool) {
	old := *u
	u.Clear()
	u.AddUnitsToTower(old, towerType, hasPlayer)
}

// IsAlive reports whether the units can claim towers, i.e. contain
// something besides shields and single-use projectiles.
func (u *Units) IsAlive() bool {
	alive := false
	u.ForEach(func(unit Unit, _ uint) {
		if !unit.IsSingleUse() && unit != UnitShield {
			alive = true
		}
	})
	return alive
}

// MaxEdgeDistance is the off-road travel distance shared by all units, or
// 0 for road-bound forces. Mixed forces are road-bound by construction.
func (u *Units) MaxEdgeDistance() uint32 {
	var ret uint32
	u.ForEach(func(unit Unit, _ uint) {
		if d := unit.RangedDistance(); d != 0 {
			ret = d
		}
	})
	return ret
}

// RandomUnits builds a zombie force of roughly the given total ground
// damage from a seed.
func RandomUnits(damage uint32, allowNuke bool, seed uint16) Units {
	var units Units
	for _, unit := range [...]Unit{UnitSoldier, UnitTank, UnitBomber, UnitNuke} {
		if unit == UnitNuke && !allowNuke && seed&0b11 != 0 {
			// Zombie nukes can't capture, so send them rarely.
			continue
		}
		governor := 3 + seed&0b111
		seed >>= 3
		for damage > 0 && governor > 0 {
			units.Add(unit, 1)
			d := DamageToFinite(unit.ForceGroundDamage())
			if d > damage {
				damage = 0
			} else {
				damage -= d
			}
			governor--
		}
	}
	return units
}
