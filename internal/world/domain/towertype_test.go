package domain

import "testing"

func TestTowerTypeFromRepr(t *testing.T) {
	for _, tt := range AllTowerTypes() {
		got, ok := TowerTypeFromRepr(uint8(tt))
		if !ok || got != tt {
			t.Fatalf("repr round trip failed for %v", tt)
		}
	}
	if _, ok := TowerTypeFromRepr(uint8(TowerTypeCount)); ok {
		t.Fatalf("out of range repr accepted")
	}
}

func TestTowerTypeUpgradeGraph(t *testing.T) {
	for _, tt := range AllTowerTypes() {
		for _, up := range tt.Upgrades() {
			if !tt.CanUpgradeTo(up) {
				t.Fatalf("%v lists %v as upgrade but CanUpgradeTo disagrees", tt, up)
			}
			d, ok := up.Downgrade()
			if !ok || d != tt {
				t.Fatalf("%v upgrades to %v but %v downgrades to %v", tt, up, up, d)
			}
			if up.Level() <= tt.Level() {
				t.Fatalf("%v (level %d) upgrades to %v (level %d)", tt, tt.Level(), up, up.Level())
			}
		}
	}
}

func TestTowerTypeBasis(t *testing.T) {
	for _, tt := range AllTowerTypes() {
		basis := tt.Basis()
		if _, ok := basis.Downgrade(); ok {
			t.Fatalf("basis %v of %v still has a downgrade", basis, tt)
		}
	}
}

func TestTowerTypeSpawnable(t *testing.T) {
	any := false
	for _, tt := range AllTowerTypes() {
		if tt.IsSpawnable() {
			any = true
		}
	}
	if !any {
		t.Fatalf("no spawnable tower type")
	}
}

func TestTowerTypeShieldGeneration(t *testing.T) {
	for _, tt := range AllTowerTypes() {
		if _, ok := tt.UnitGeneration(UnitShield); !ok {
			t.Fatalf("%v does not generate shields", tt)
		}
	}
}

func TestTowerTypeRulerCapacity(t *testing.T) {
	for _, tt := range AllTowerTypes() {
		if got := tt.RawUnitCapacity(UnitRuler); got != 1 {
			t.Fatalf("%v ruler capacity = %d, want 1", tt, got)
		}
	}
}

func TestTowerTypeRangedDamage(t *testing.T) {
	if got := TowerBunker.RangedDamage(30); got != 10 {
		t.Fatalf("bunker ranged damage = %d, want 10", got)
	}
	if got := TowerVillage.RangedDamage(30); got != 30 {
		t.Fatalf("village ranged damage = %d, want 30", got)
	}
	if TowerBunker.MaxRangedDamage() >= InfiniteDamage {
		t.Fatalf("bunkers should cap nuke damage below infinite")
	}
}
