package domain

// Unit is a troop or projectile type, declared in combat priority order.
// The order matters: shields are consumed first, rulers fight last.
type Unit uint8

const (
	// UnitShield is least flexible, so it is consumed first.
	UnitShield Unit = iota
	// UnitFighter takes out bombers and other fighters before they deal damage.
	UnitFighter
	UnitChopper
	UnitBomber
	UnitTank
	UnitSoldier
	// Special units fight after regular ones.
	UnitShell
	UnitEmp
	UnitNuke
	// UnitRuler is a last resort. Losing it loses the game.
	UnitRuler

	UnitCount = int(UnitRuler) + 1
)

// Category boundaries. Shield is always tracked, Fighter..Soldier can mix
// freely, Shell..Ruler are exclusive singles.
const (
	firstAlwaysUnit = UnitShield
	firstManyUnit   = UnitFighter
	firstSingleUnit = UnitShell

	alwaysUnitCount = int(firstManyUnit - firstAlwaysUnit)
	manyUnitCount   = int(firstSingleUnit - firstManyUnit)
)

const (
	// InfiniteDamage is a sentinel; units otherwise deal 1..=30.
	InfiniteDamage uint8 = 31
	// EmpSeconds is how long an EMP disables a tower.
	EmpSeconds = 60
)

type unitCategory uint8

const (
	categoryAlways unitCategory = iota
	categoryMany
	categorySingle
)

func (u Unit) category() unitCategory {
	switch {
	case u < firstManyUnit:
		return categoryAlways
	case u < firstSingleUnit:
		return categoryMany
	default:
		return categorySingle
	}
}

// Speed is an ordered movement class. Zero is immobile.
type Speed uint8

const (
	SpeedImmobile Speed = iota
	SpeedSlow
	SpeedNormal
	SpeedFast
)

var unitNames = [UnitCount]string{
	"shield", "fighter", "chopper", "bomber", "tank", "soldier",
	"shell", "emp", "nuke", "ruler",
}

func (u Unit) String() string {
	if int(u) < len(unitNames) {
		return unitNames[u]
	}
	return "unknown"
}

// UnitFromRepr converts a wire byte back to a Unit.
func UnitFromRepr(v uint8) (Unit, bool) {
	if int(v) < UnitCount {
		return Unit(v), true
	}
	return 0, false
}

// AllUnits iterates every unit in priority order.
func AllUnits() [UnitCount]Unit {
	var units [UnitCount]Unit
	for i := range units {
		units[i] = Unit(i)
	}
	return units
}

// MaxOverflow is how far past capacity a unit may temporarily pile up,
// e.g. after a downgrade or while a shield generator keeps producing.
func (u Unit) MaxOverflow() uint {
	switch u {
	case UnitShield:
		return 15
	case UnitSoldier:
		return 10
	case UnitTank:
		return 5
	case UnitFighter:
		return 4
	case UnitBomber, UnitChopper:
		return 2
	default:
		return 0
	}
}

// Damage dealt by this unit fighting in the given field against an enemy
// in enemyField. Result is 1..=30 or InfiniteDamage.
func (u Unit) Damage(field, enemyField Field) uint8 {
	switch {
	case u == UnitTank:
		return 3
	case u == UnitFighter && field == FieldAir:
		return 3
	case u == UnitBomber && field == FieldAir && enemyField == FieldSurface:
		return 5
	case u == UnitChopper && field == FieldAir:
		return 3
	case u == UnitNuke:
		return InfiniteDamage
	case u == UnitShell:
		return 3
	default:
		return 1
	}
}

// ForceGroundDamage is the damage this unit would deal from a force to
// ground targets.
func (u Unit) ForceGroundDamage() uint8 {
	return u.Damage(u.FieldOf(false, true, false), FieldSurface)
}

// DamageToFinite widens a damage byte, mapping InfiniteDamage to a huge
// finite value so sums stay comparable.
func DamageToFinite(damage uint8) uint32 {
	if damage == InfiniteDamage {
		return 1<<31 - 1
	}
	return uint32(damage)
}

// IsSingleUse reports whether a unit is consumed on use. Units that can
// skip over roads must be single use to prevent territory acquisition.
func (u Unit) IsSingleUse() bool {
	return u.RangedDistance() != 0
}

// FieldOf returns the field a unit occupies. anyAir only matters for
// shields, whose field is the max field in their group.
func (u Unit) FieldOf(overflow, inForce, anyAir bool) Field {
	switch u {
	case UnitShield:
		if anyAir {
			return FieldAir
		}
	case UnitBomber, UnitChopper, UnitFighter, UnitShell, UnitEmp, UnitNuke:
		if overflow || inForce {
			return FieldAir
		}
	}
	return FieldSurface
}

// IsFieldPossible reports whether the unit can ever occupy the field.
func (u Unit) IsFieldPossible(field Field) bool {
	for bits := 0; bits < 8; bits++ {
		if u.FieldOf(bits>>2&1 == 1, bits>>1&1 == 1, bits&1 == 1) == field {
			return true
		}
	}
	return false
}

// RangedDistance is how far the unit can travel off-road in world units,
// or 0 if it only travels on roads.
func (u Unit) RangedDistance() uint32 {
	switch u {
	case UnitNuke, UnitShell:
		return 5 * MaxRoadLength
	case UnitEmp:
		return 8 * MaxRoadLength
	default:
		return 0
	}
}

// IsRanged reports whether the unit skips roads entirely.
func (u Unit) IsRanged() bool {
	return u.RangedDistance() != 0
}

// SpeedAt returns the movement class of the unit, optionally stationed at
// a tower type. Shields only move from shield projectors.
func (u Unit) SpeedAt(towerType TowerType, atTower bool) Speed {
	switch u {
	case UnitBomber, UnitFighter, UnitChopper, UnitShell:
		return SpeedFast
	case UnitNuke, UnitTank:
		return SpeedSlow
	case UnitShield:
		if !atTower || towerType == TowerProjector {
			return SpeedFast
		}
		return SpeedImmobile
	default:
		return SpeedNormal
	}
}

func (u Unit) Weight() uint8 {
	switch u {
	case UnitTank:
		return 2
	case UnitSoldier:
		return 1
	default:
		return 0
	}
}

func (u Unit) IsMobileAt(towerType TowerType, atTower bool) bool {
	return u.SpeedAt(towerType, atTower) != SpeedImmobile
}

func (u Unit) IsMobile() bool {
	return u.IsMobileAt(0, false)
}

// CanCapture reports whether the unit can claim a tower on arrival.
func (u Unit) CanCapture() bool {
	return u.IsMobile() && u != UnitShield && !u.IsSingleUse()
}
