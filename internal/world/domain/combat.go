package domain

// CombatSide distinguishes the two parties of a fight.
type CombatSide uint8

const (
	CombatAttacker CombatSide = iota
	CombatDefender
)

func combatSideFromAttacker(isAttacker bool) CombatSide {
	if isAttacker {
		return CombatAttacker
	}
	return CombatDefender
}

// CombatInfoKind tags the variants of CombatInfo.
type CombatInfoKind uint8

const (
	CombatAttackerLostRuler CombatInfoKind = iota
	CombatDefenderLostRuler
	CombatEmp
	CombatNuclearExplosion
	CombatShellExplosion
)

// CombatInfo is an event produced while resolving a fight.
type CombatInfo struct {
	Kind CombatInfoKind
	// Side is which party fired the EMP.
	Side CombatSide
	// Unit is what killed the ruler.
	Unit Unit
}

// InfoEvent converts a combat event to a world event at a position.
func (c CombatInfo) InfoEvent(position Vec2, attacker, defender PlayerId) InfoEvent {
	var info Info
	switch c.Kind {
	case CombatAttackerLostRuler:
		info = Info{Kind: InfoLostRuler, PlayerId: attacker, OtherPlayerId: defender, KillerUnit: c.Unit}
	case CombatDefenderLostRuler:
		info = Info{Kind: InfoLostRuler, PlayerId: defender, OtherPlayerId: attacker, KillerUnit: c.Unit}
	case CombatEmp:
		who := attacker
		if c.Side == CombatDefender {
			who = defender
		}
		info = Info{Kind: InfoEmp, PlayerId: who}
	case CombatNuclearExplosion:
		info = Info{Kind: InfoNuclearExplosion}
	default:
		info = Info{Kind: InfoShellExplosion}
	}
	return InfoEvent{Position: position, Info: info}
}

// OnCombatInfo receives combat events as they happen.
type OnCombatInfo func(CombatInfo)

// Combatants is one side of a fight: the units plus, for towers, the type
// that scales ranged damage and determines capacities.
type Combatants struct {
	Units     *Units
	TowerType TowerType
	IsTower   bool
}

// TowerCombatants wraps a tower's garrison for a fight.
func TowerCombatants(towerType TowerType, units *Units) Combatants {
	return Combatants{Units: units, TowerType: towerType, IsTower: true}
}

// ForceCombatants wraps a force's units for a fight.
func ForceCombatants(units *Units) Combatants {
	return Combatants{Units: units}
}

type lastUnit struct {
	unit Unit
	ok   bool
}

// Fight resolves combat between two combatants, mutating both in place.
// At most one side can be a tower, conventionally the defender. The tower
// wins stalemates without mutually assured destruction. Returns the
// winner, or ok=false on a stalemate.
//
// Units join the fight one at a time in priority order, accumulating
// signed damage (attacker positive). Whichever side is behind commits its
// next unit; a committed unit dies when its side needs another.
func Fight(attacker, defender *Combatants, onInfo OnCombatInfo) (CombatSide, bool) {
	// Shields are not used offensively against towers.
	if attacker.IsTower {
		defender.Units.Subtract(UnitShield, ^uint(0))
	}
	if defender.IsTower {
		attacker.Units.Subtract(UnitShield, ^uint(0))
	}

	var damage int64
	var lastAttacker, lastDefender lastUnit
	var emped, nuked, shelled bool

	replaceUnit := func(me *Combatants, isAttacker bool, myLast *lastUnit, enemyLast lastUnit, unit lastUnit) {
		side := combatSideFromAttacker(isAttacker)

		// Single-use units are consumed right away, with deduplicated
		// events if both sides fire the same kind.
		if unit.ok && unit.unit.IsSingleUse() {
			switch unit.unit {
			case UnitEmp:
				if !emped {
					emped = true
					onInfo(CombatInfo{Kind: CombatEmp, Side: side})
				}
			case UnitNuke:
				if !nuked {
					nuked = true
					onInfo(CombatInfo{Kind: CombatNuclearExplosion})
				}
			case UnitShell:
				if !shelled {
					shelled = true
					onInfo(CombatInfo{Kind: CombatShellExplosion})
				}
			}
			me.Units.Subtract(unit.unit, 1)
		}

		// Needing another unit kills the previous one.
		if myLast.ok && !myLast.unit.IsSingleUse() {
			if myLast.unit == UnitRuler {
				kind := CombatDefenderLostRuler
				if isAttacker {
					kind = CombatAttackerLostRuler
				}
				onInfo(CombatInfo{Kind: kind, Unit: enemyLast.unit})
			}
			me.Units.Subtract(myLast.unit, 1)
		}

		// Keep the ruler's killer visible through a stalemate.
		if unit.ok {
			*myLast = unit
		}
	}

	forEachUnused := func(me *Combatants, last lastUnit, f func(Unit, uint)) {
		me.Units.ForEach(func(u Unit, c uint) {
			// Don't count the unit already in use.
			if last.ok && last.unit == u && !u.IsSingleUse() {
				c--
				if c == 0 {
					return
				}
			}
			f(u, c)
		})
	}

	damageAgainst := func(unit Unit, unitField Field, enemy *Combatants, enemyField Field, prevDmg int64) int64 {
		unitDamage := unit.Damage(unitField, enemyField)
		if unit.IsRanged() && enemy.IsTower {
			// Nukes don't one-shot bunkers.
			unitDamage = enemy.TowerType.RangedDamage(unitDamage)
		}

		d := int64(DamageToFinite(unitDamage))

		var dir int64 = 1
		if enemy == attacker {
			dir = -1
		}

		// Nukes can't defend against enemy nuclear annihilation.
		if prevDmg*-dir > (1<<31-1)/2 && d > 1000 {
			d = 1000
		}
		return d * dir
	}

	for _, field := range [...]Field{FieldAir, FieldSurface} {
		for {
			nextUnitInner := func(me *Combatants, last lastUnit, anyAir bool) (Unit, Field, bool) {
				var retUnit Unit
				var retField Field
				found := false
				forEachUnused(me, last, func(u Unit, c uint) {
					if found {
						return
					}
					overflow := me.IsTower && c > me.Units.Capacity(u, me.TowerType, true)
					unitField := u.FieldOf(overflow, !me.IsTower, anyAir)
					if unitField >= field {
						retUnit, retField, found = u, unitField, true
					}
				})
				return retUnit, retField, found
			}

			// Resolve twice in the air field so shields can be counted
			// airborne when anything else in the group flies.
			nextUnit := func(me *Combatants, last lastUnit) (Unit, Field, bool) {
				u, uf, ok := nextUnitInner(me, last, false)
				if ok && field == FieldAir {
					return nextUnitInner(me, last, true)
				}
				return u, uf, ok
			}

			var nextA, nextD Unit
			var nextAField, nextDField Field
			var nextAOk, nextDOk bool
			switch {
			case damage < 0:
				nextA, nextAField, nextAOk = nextUnit(attacker, lastAttacker)
			case damage > 0:
				nextD, nextDField, nextDOk = nextUnit(defender, lastDefender)
			default:
				nextA, nextAField, nextAOk = nextUnit(attacker, lastAttacker)
				_, _, defenderHas := nextUnit(defender, lastDefender)
				nextAOk = nextAOk && defenderHas
			}

			if nextAOk {
				replaceUnit(attacker, true, &lastAttacker, lastDefender, lastUnit{unit: nextA, ok: true})
				damage += damageAgainst(nextA, nextAField, defender, field, damage)
			} else if nextDOk {
				replaceUnit(defender, false, &lastDefender, lastAttacker, lastUnit{unit: nextD, ok: true})
				damage += damageAgainst(nextD, nextDField, attacker, field, damage)
			} else {
				break
			}
		}
	}

	// One side ran out of units; the leftover damage kills the last
	// engaged unit of the losing side.
	nextUnusedUnit := func(me *Combatants, last lastUnit) lastUnit {
		var ret lastUnit
		forEachUnused(me, last, func(u Unit, _ uint) {
			if !ret.ok {
				ret = lastUnit{unit: u, ok: true}
			}
		})
		return ret
	}

	nextAttacker := nextUnusedUnit(attacker, lastAttacker)
	nextDefender := nextUnusedUnit(defender, lastDefender)

	ordering := [2]CombatSide{CombatAttacker, CombatDefender}
	if nextDefender.ok {
		ordering[0], ordering[1] = ordering[1], ordering[0]
	}

	for _, side := range ordering {
		switch {
		case side == CombatAttacker && damage <= 0:
			if nextAttacker.ok {
				damage += damageAgainst(nextAttacker.unit, FieldSurface, defender, FieldSurface, damage)
			}
			replaceUnit(attacker, true, &lastAttacker, lastDefender, nextAttacker)
		case side == CombatDefender && damage >= 0:
			if nextDefender.ok {
				damage += damageAgainst(nextDefender.unit, FieldSurface, attacker, FieldSurface, damage)
			}
			replaceUnit(defender, false, &lastDefender, lastAttacker, nextDefender)
		}
	}

	switch {
	case attacker.Units.IsAlive() || (attacker.IsTower && damage >= 0):
		return CombatAttacker, true
	case defender.Units.IsAlive() || (defender.IsTower && damage <= 0):
		return CombatDefender, true
	default:
		return 0, false // Stalemate.
	}
}
