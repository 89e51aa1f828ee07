package service

import (
	"github.com/SoftbearStudios/kiomet/internal/world/domain"
	"github.com/SoftbearStudios/kiomet/internal/world/snapshot"
)

// Snapshot captures the world and player bookkeeping for persistence.
// Connections, bots, and in-flight client knowledge are not part of it;
// they rebuild themselves after a restart.
func (s *TowerService) Snapshot() *snapshot.World {
	snap := &snapshot.World{Tick: uint16(s.world.Tick())}

	s.world.ForEachTower(func(towerId domain.TowerId, tower *domain.Tower) bool {
		st := snapshot.Tower{
			X:         towerId.X,
			Y:         towerId.Y,
			PlayerId:  uint32(tower.PlayerId),
			TowerType: uint8(tower.TowerType),
			Delay:     tower.Delay,
			Units:     snapshotUnits(&tower.Units),
		}
		if tower.SupplyLine != nil {
			st.SupplyLine = snapshot.Positions(tower.SupplyLine.Towers())
		}
		for i := range tower.InboundForces {
			force := &tower.InboundForces[i]
			st.Inbound = append(st.Inbound, snapshot.Force{
				PlayerId: uint32(force.PlayerId),
				Units:    snapshotUnits(&force.Units),
				Path:     snapshot.Positions(force.Path().Towers()),
				Progress: force.PathProgress,
				Fuel:     force.Fuel,
			})
		}
		snap.Towers = append(snap.Towers, st)
		return true
	})

	for playerId, player := range s.players {
		if playerId.IsBot() {
			continue
		}
		sp := snapshot.Player{
			PlayerId: uint32(playerId),
			Alias:    player.Alias,
			Alive:    player.Alive,
			Score:    player.Score,
			Lifetime: uint16(player.Lifetime),
		}
		if worldPlayer := s.world.Player(playerId); worldPlayer != nil {
			for allyId := range worldPlayer.Allies {
				sp.Allies = append(sp.Allies, uint32(allyId))
			}
		}
		snap.Players = append(snap.Players, sp)
	}
	return snap
}

// RestoreSnapshot rebuilds the world from a snapshot. Must run before
// the first tick.
func (s *TowerService) RestoreSnapshot(snap *snapshot.World) {
	if snap == nil {
		return
	}
	s.world.SetTick(domain.Ticks(snap.Tick))

	for _, st := range snap.Towers {
		towerId := domain.TowerId{X: st.X, Y: st.Y}
		towerType, ok := domain.TowerTypeFromRepr(st.TowerType)
		if !ok {
			continue
		}
		tower := domain.NewTowerWithType(towerType)
		tower.PlayerId = domain.PlayerId(st.PlayerId)
		tower.Delay = st.Delay
		restoreUnits(&tower.Units, st.Units)
		if len(st.SupplyLine) >= 2 {
			path := domain.NewPath(snapshot.TowerIds(st.SupplyLine))
			tower.SupplyLine = &path
		}
		for _, sf := range st.Inbound {
			if len(sf.Path) < 2 {
				continue
			}
			var units domain.Units
			restoreUnits(&units, sf.Units)
			path := domain.NewPath(snapshot.TowerIds(sf.Path))
			var force domain.Force
			if playerId := domain.PlayerId(sf.PlayerId); playerId.IsSome() {
				force = domain.NewForce(playerId, units, path)
			} else {
				force = domain.NewZombieForce(units, path)
			}
			force.PathProgress = sf.Progress
			force.Fuel = sf.Fuel
			tower.InboundForces = append(tower.InboundForces, force)
		}

		chunkId, relative := towerId.Split()
		if chunk := s.world.Chunk(chunkId); chunk != nil {
			chunk.Insert(relative, tower)
		}
	}

	for _, sp := range snap.Players {
		playerId := domain.PlayerId(sp.PlayerId)
		player := newPlayerData(sp.Alias)
		player.Alive = sp.Alive
		player.Score = sp.Score
		player.Lifetime = domain.Ticks(sp.Lifetime)
		s.players[playerId] = player

		worldPlayer := s.world.EnsurePlayer(playerId)
		for _, allyId := range sp.Allies {
			worldPlayer.AddAlly(domain.PlayerId(allyId))
		}
	}

	// Rebuild tower ownership indexes from the world itself.
	s.world.ForEachTower(func(towerId domain.TowerId, tower *domain.Tower) bool {
		if player := s.players[tower.PlayerId]; player != nil {
			player.Towers[towerId] = struct{}{}
		}
		return true
	})
}

func snapshotUnits(units *domain.Units) []snapshot.UnitCount {
	var out []snapshot.UnitCount
	units.ForEach(func(unit domain.Unit, count uint) {
		out = append(out, snapshot.UnitCount{Unit: uint8(unit), Count: count})
	})
	return out
}

func restoreUnits(units *domain.Units, counts []snapshot.UnitCount) {
	for _, uc := range counts {
		if unit, ok := domain.UnitFromRepr(uc.Unit); ok {
			units.Add(unit, uc.Count)
		}
	}
}
