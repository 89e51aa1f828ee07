package domain

import "testing"

func TestUnitsAddSubtract(t *testing.T) {
	var u Units

	if got := u.Add(UnitSoldier, 10); got != 10 {
		t.Fatalf("Add soldiers = %d, want 10", got)
	}
	if got := u.Available(UnitSoldier); got != 10 {
		t.Fatalf("Available = %d, want 10", got)
	}
	if got := u.Len(); got != 10 {
		t.Fatalf("Len = %d, want 10", got)
	}
	if got := u.Subtract(UnitSoldier, 4); got != 4 {
		t.Fatalf("Subtract = %d, want 4", got)
	}
	// Subtracting more than available removes what is there.
	if got := u.Subtract(UnitSoldier, 100); got != 6 {
		t.Fatalf("Subtract overshoot = %d, want 6", got)
	}
	if !u.IsEmpty() {
		t.Fatalf("units should be empty after removing everything")
	}
}

func TestUnitsSingleEvictsRegulars(t *testing.T) {
	var u Units
	u.Add(UnitSoldier, 5)
	u.Add(UnitTank, 2)

	if got := u.Add(UnitNuke, 1); got != 1 {
		t.Fatalf("Add nuke = %d, want 1", got)
	}
	if got := u.Available(UnitSoldier); got != 0 {
		t.Fatalf("soldiers survived a nuke eviction: %d", got)
	}
	if got := u.Available(UnitNuke); got != 1 {
		t.Fatalf("Available nuke = %d, want 1", got)
	}

	// Regulars cannot displace a single.
	if got := u.Add(UnitSoldier, 3); got != 0 {
		t.Fatalf("soldier displaced a single: %d", got)
	}
}

func TestUnitsSinglePriority(t *testing.T) {
	var u Units
	u.Add(UnitRuler, 1)
	if !u.HasRuler() {
		t.Fatalf("ruler not tracked")
	}

	// A lower priority single cannot displace the ruler.
	if got := u.Add(UnitNuke, 1); got != 0 {
		t.Fatalf("nuke displaced the ruler: %d", got)
	}

	// The other way around works.
	var v Units
	v.Add(UnitNuke, 1)
	if got := v.Add(UnitRuler, 1); got != 1 {
		t.Fatalf("ruler could not displace a nuke: %d", got)
	}
	if v.Available(UnitNuke) != 0 || !v.HasRuler() {
		t.Fatalf("ruler displacement left %d nukes, ruler=%v", v.Available(UnitNuke), v.HasRuler())
	}
}

func TestUnitsShieldAlwaysTracked(t *testing.T) {
	var u Units
	u.Add(UnitShield, 3)
	u.Add(UnitNuke, 1)
	if got := u.Available(UnitShield); got != 3 {
		t.Fatalf("shields lost to a single: %d", got)
	}
}

func TestUnitsTowerCapacity(t *testing.T) {
	var u Units
	// Villages hold 4 soldiers and no tanks.
	if got := u.AddToTower(UnitSoldier, 10, TowerVillage, false); got != 4 {
		t.Fatalf("AddToTower soldiers = %d, want 4", got)
	}
	if got := u.AddToTower(UnitTank, 1, TowerVillage, false); got != 0 {
		t.Fatalf("village accepted a tank")
	}
	// Overflow stretches the cap by the unit's overflow allowance.
	if got := u.AddToTower(UnitSoldier, 100, TowerVillage, true); got != uint(UnitSoldier.MaxOverflow()) {
		t.Fatalf("overflow add = %d, want %d", got, UnitSoldier.MaxOverflow())
	}
}

func TestUnitsRulerShieldBoost(t *testing.T) {
	var u Units
	u.AddToTower(UnitRuler, 1, TowerVillage, false)
	base := TowerVillage.RawUnitCapacity(UnitShield)
	if got := u.Capacity(UnitShield, TowerVillage, true); got != base+RulerShieldBoost {
		t.Fatalf("shield capacity with ruler = %d, want %d", got, base+RulerShieldBoost)
	}
}

func TestUnitsIsAlive(t *testing.T) {
	var u Units
	u.Add(UnitShield, 5)
	if u.IsAlive() {
		t.Fatalf("shields alone should not be alive")
	}
	u.Add(UnitSoldier, 1)
	if !u.IsAlive() {
		t.Fatalf("a soldier should be alive")
	}

	var w Units
	w.Add(UnitNuke, 1)
	if w.IsAlive() {
		t.Fatalf("single use projectiles should not be alive")
	}
}
