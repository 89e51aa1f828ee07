package domain

import "testing"

func fightEvents() (*[]CombatInfo, OnCombatInfo) {
	events := &[]CombatInfo{}
	return events, func(info CombatInfo) { *events = append(*events, info) }
}

func TestFightTowerWinsStalemate(t *testing.T) {
	var attacker, garrison Units
	attacker.Add(UnitSoldier, 1)
	garrison.Add(UnitSoldier, 1)

	att := ForceCombatants(&attacker)
	def := TowerCombatants(TowerVillage, &garrison)
	winner, decided := Fight(&att, &def, func(CombatInfo) {})
	if !decided || winner != CombatDefender {
		t.Fatalf("winner = %v decided = %v, want the tower to win the stalemate", winner, decided)
	}
	if !attacker.IsEmpty() || !garrison.IsEmpty() {
		t.Fatalf("an even fight should spend both sides")
	}

	// The same fight between two forces has no winner.
	var a, d Units
	a.Add(UnitSoldier, 1)
	d.Add(UnitSoldier, 1)
	att = ForceCombatants(&a)
	def = ForceCombatants(&d)
	if _, decided := Fight(&att, &def, func(CombatInfo) {}); decided {
		t.Fatalf("force on force stalemate should stay undecided")
	}
}

func TestFightRangedDamageReduction(t *testing.T) {
	cases := []struct {
		name         string
		towerType    TowerType
		wantDecided  bool
		wantSoldiers uint
	}{
		// A bunker takes a third of the shell's damage.
		{"bunker", TowerBunker, true, 1},
		// Headquarters take two thirds and hold on as the tower.
		{"headquarters", TowerHeadquarters, true, 0},
		// An unhardened village loses its whole garrison.
		{"village", TowerVillage, false, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var force, garrison Units
			force.Add(UnitShell, 1)
			garrison.Add(UnitSoldier, 2)

			events, onInfo := fightEvents()
			att := ForceCombatants(&force)
			def := TowerCombatants(tc.towerType, &garrison)
			winner, decided := Fight(&att, &def, onInfo)

			if decided != tc.wantDecided {
				t.Fatalf("decided = %v, want %v", decided, tc.wantDecided)
			}
			if decided && winner != CombatDefender {
				t.Fatalf("winner = %v, want the defender", winner)
			}
			if got := garrison.Available(UnitSoldier); got != tc.wantSoldiers {
				t.Fatalf("surviving soldiers = %d, want %d", got, tc.wantSoldiers)
			}
			shells := 0
			for _, e := range *events {
				if e.Kind == CombatShellExplosion {
					shells++
				}
			}
			if shells != 1 {
				t.Fatalf("shell explosions = %d, want 1", shells)
			}
		})
	}
}

func TestFightNukeExchangeIsMutual(t *testing.T) {
	var force, garrison Units
	force.Add(UnitNuke, 1)
	garrison.Add(UnitNuke, 1)

	events, onInfo := fightEvents()
	att := ForceCombatants(&force)
	def := TowerCombatants(TowerSilo, &garrison)
	_, decided := Fight(&att, &def, onInfo)

	// The defending nuke can only blunt the incoming one, so neither the
	// silo nor the force survives.
	if decided {
		t.Fatalf("nuke exchange should end in mutual destruction")
	}
	if !force.IsEmpty() || !garrison.IsEmpty() {
		t.Fatalf("both nukes should be consumed")
	}
	if len(*events) != 1 || (*events)[0].Kind != CombatNuclearExplosion {
		t.Fatalf("events = %+v, want a single nuclear explosion", *events)
	}
}

func TestFightEmpEventAttribution(t *testing.T) {
	var force, garrison Units
	force.Add(UnitEmp, 1)
	garrison.Add(UnitEmp, 1)

	events, onInfo := fightEvents()
	att := ForceCombatants(&force)
	def := TowerCombatants(TowerLauncher, &garrison)
	Fight(&att, &def, onInfo)

	if len(*events) != 1 {
		t.Fatalf("events = %+v, want a single emp", *events)
	}
	e := (*events)[0]
	if e.Kind != CombatEmp || e.Side != CombatAttacker {
		t.Fatalf("event = %+v, want an emp credited to the attacker", e)
	}
}

func TestFightShieldsFlyWithAircraft(t *testing.T) {
	// Alone, a shield stays on the surface where a bomber outdamages it.
	var bomber, lone Units
	bomber.Add(UnitBomber, 1)
	lone.Add(UnitShield, 1)
	att := ForceCombatants(&bomber)
	def := ForceCombatants(&lone)
	winner, decided := Fight(&att, &def, func(CombatInfo) {})
	if !decided || winner != CombatAttacker {
		t.Fatalf("winner = %v decided = %v, want the bomber to beat a grounded shield", winner, decided)
	}
	if bomber.Available(UnitBomber) != 1 {
		t.Fatalf("bomber should survive the shield")
	}

	// A chopper in the group lifts the shield into the air field, where
	// bombs are useless.
	var bomber2, escorted Units
	bomber2.Add(UnitBomber, 1)
	escorted.Add(UnitShield, 1)
	escorted.Add(UnitChopper, 1)
	att = ForceCombatants(&bomber2)
	def = ForceCombatants(&escorted)
	winner, decided = Fight(&att, &def, func(CombatInfo) {})
	if !decided || winner != CombatDefender {
		t.Fatalf("winner = %v decided = %v, want the airborne shield to save the chopper", winner, decided)
	}
	if escorted.Available(UnitChopper) != 1 || escorted.Available(UnitShield) != 0 {
		t.Fatalf("defenders = %d choppers %d shields, want the shield to die for the chopper",
			escorted.Available(UnitChopper), escorted.Available(UnitShield))
	}
}

func TestFightReportsRulerKiller(t *testing.T) {
	var force, garrison Units
	force.Add(UnitSoldier, 2)
	garrison.Add(UnitRuler, 1)

	events, onInfo := fightEvents()
	att := ForceCombatants(&force)
	def := TowerCombatants(TowerVillage, &garrison)
	winner, decided := Fight(&att, &def, onInfo)

	if !decided || winner != CombatAttacker {
		t.Fatalf("winner = %v decided = %v, want two soldiers to take an undefended ruler", winner, decided)
	}
	if got := force.Available(UnitSoldier); got != 1 {
		t.Fatalf("surviving soldiers = %d, want 1", got)
	}
	if len(*events) != 1 {
		t.Fatalf("events = %+v, want only the ruler's death", *events)
	}
	e := (*events)[0]
	if e.Kind != CombatDefenderLostRuler || e.Unit != UnitSoldier {
		t.Fatalf("event = %+v, want the defender losing the ruler to a soldier", e)
	}
}
