package domain

import "testing"

func forceWith(units Units) Force {
	path := NewPath([]TowerId{{X: 100, Y: 100}, {X: 101, Y: 100}})
	return NewForce(SoloPlayer, units, path)
}

func TestForceSpeedChopperCarry(t *testing.T) {
	cases := []struct {
		name  string
		units map[Unit]uint
		want  Speed
	}{
		{"lone soldier", map[Unit]uint{UnitSoldier: 1}, SpeedNormal},
		{"lone tank", map[Unit]uint{UnitTank: 1}, SpeedSlow},
		{"lone fighter", map[Unit]uint{UnitFighter: 1}, SpeedFast},
		{"chopper carries a tank", map[Unit]uint{UnitChopper: 1, UnitTank: 1}, SpeedFast},
		{"chopper carries four soldiers", map[Unit]uint{UnitChopper: 1, UnitSoldier: 4}, SpeedFast},
		{"fifth soldier walks", map[Unit]uint{UnitChopper: 1, UnitSoldier: 5}, SpeedNormal},
		{"slow units ride, the rest walks", map[Unit]uint{UnitChopper: 1, UnitTank: 2, UnitSoldier: 1}, SpeedNormal},
		{"overloaded chopper crawls", map[Unit]uint{UnitChopper: 1, UnitTank: 3}, SpeedSlow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var units Units
			for unit, count := range tc.units {
				units.Add(unit, count)
			}
			force := forceWith(units)
			if got := force.Speed(); got != tc.want {
				t.Fatalf("Speed = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestForcePickUpPassengers(t *testing.T) {
	var cargo Units
	cargo.Add(UnitChopper, 1)
	force := forceWith(cargo)

	var garrison Units
	garrison.Add(UnitSoldier, 6)
	garrison.Add(UnitTank, 2)

	force.pickUpPassengers(&garrison)

	// One chopper carries four weight, so it takes four soldiers and
	// refuses tanks that would slow it down.
	if got := force.Units.Available(UnitSoldier); got != 4 {
		t.Fatalf("picked up soldiers = %d, want 4", got)
	}
	if got := force.Units.Available(UnitTank); got != 0 {
		t.Fatalf("picked up tanks = %d, want 0", got)
	}
	if got := force.Speed(); got != SpeedFast {
		t.Fatalf("Speed = %v, want %v after loading", got, SpeedFast)
	}
	if garrison.Available(UnitSoldier) != 2 || garrison.Available(UnitTank) != 2 {
		t.Fatalf("garrison = %d soldiers %d tanks, want 2 and 2",
			garrison.Available(UnitSoldier), garrison.Available(UnitTank))
	}
}
