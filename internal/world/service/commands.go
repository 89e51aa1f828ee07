package service

import (
	"github.com/SoftbearStudios/kiomet/internal/world/domain"
	"github.com/SoftbearStudios/kiomet/internal/world/protocol"
)

// Alliance handles an alliance request or break from playerId towards
// with. Requests are one-directional and become a mutual alliance when
// both sides have requested; breaking is always mutual.
func (s *TowerService) Alliance(playerId, with domain.PlayerId, breakAlliance bool) error {
	if s.players[playerId] == nil {
		return ErrPlayerUnknown
	}
	if s.players[with] == nil {
		return ErrPlayerUnknown.WithData("reason", "alliance with inactive player")
	}

	me := s.world.Player(playerId)
	other := s.world.Player(with)

	newAlliance := !breakAlliance &&
		(me == nil || !me.IsAlly(with)) &&
		other != nil && other.IsAlly(playerId)

	if newAlliance {
		for _, pair := range [2][2]domain.PlayerId{{playerId, with}, {with, playerId}} {
			s.inputs.PlayerInputs = append(s.inputs.PlayerInputs, domain.PlayerInput{
				Kind:     domain.PlayerInputNewAlliance,
				PlayerId: pair[0],
				Other:    pair[1],
			})
		}
	}

	if breakAlliance {
		// Only breaking is mutual.
		for _, pair := range [2][2]domain.PlayerId{{playerId, with}, {with, playerId}} {
			s.inputs.PlayerInputs = append(s.inputs.PlayerInputs, domain.PlayerInput{
				Kind:     domain.PlayerInputRemoveAlly,
				PlayerId: pair[0],
				Other:    pair[1],
			})
		}
	} else {
		s.inputs.PlayerInputs = append(s.inputs.PlayerInputs, domain.PlayerInput{
			Kind:     domain.PlayerInputAddAlly,
			PlayerId: playerId,
			Other:    with,
		})
	}
	return nil
}

// DeployForce sends every deployable unit of a tower along a path.
func (s *TowerService) DeployForce(playerId domain.PlayerId, towerId domain.TowerId, path domain.Path) error {
	tower := s.world.GetTower(towerId)
	if tower == nil {
		return domain.ErrTowerMissing
	}
	if tower.PlayerId != playerId {
		return domain.ErrNotOwner
	}

	strength := tower.ForceUnits()
	if strength.IsEmpty() {
		return ErrEmptyForce
	}

	if err := path.Validate(s.world.ContainsTower, towerId, strength.MaxEdgeDistance()); err != nil {
		return err
	}

	if !playerId.IsBot() {
		if player := s.players[playerId]; player != nil {
			player.Alerts.Flags |= protocol.AlertDeployedAnyForce
		}
	}

	chunkId, relative := towerId.Split()
	p := path.Clone()
	s.inputs.ChunkInputs = append(s.inputs.ChunkInputs, domain.AddressedChunkInput{
		ChunkId: chunkId,
		Input: domain.ChunkInput{
			Kind:    domain.ChunkInputDeployForce,
			TowerId: relative,
			Path:    &p,
		},
	})
	return nil
}

// SetSupplyLine sets, replaces, or clears (path nil) a tower's supply
// line. Setting a line also deploys the tower's current garrison along
// it first, unless the garrison mixes ranged and normal units.
func (s *TowerService) SetSupplyLine(playerId domain.PlayerId, towerId domain.TowerId, path *domain.Path) error {
	if path != nil {
		if tower := s.world.GetTower(towerId); tower != nil && s.deployableAlongSupplyLine(tower) {
			if err := s.DeployForce(playerId, towerId, *path); err != nil {
				return err
			}
		}
	}
	return s.setSupplyLine(playerId, towerId, path)
}

// deployableAlongSupplyLine reports whether the tower's mobile units can
// all travel the tower's full ranged distance. Soldiers must not be sent
// down a nuke's supply line.
func (s *TowerService) deployableAlongSupplyLine(tower *domain.Tower) bool {
	maxEdgeDistance := tower.TowerType.RangedDistance()
	mobile := false
	for _, unit := range domain.AllUnits() {
		if !unit.IsMobileAt(tower.TowerType, true) || !tower.Units.Contains(unit) {
			continue
		}
		mobile = true
		if unit.RangedDistance() != maxEdgeDistance {
			return false
		}
	}
	return mobile
}

func (s *TowerService) setSupplyLine(playerId domain.PlayerId, towerId domain.TowerId, path *domain.Path) error {
	tower := s.world.GetTower(towerId)
	if tower == nil {
		return domain.ErrTowerMissing
	}
	if tower.PlayerId != playerId {
		return domain.ErrNotOwner
	}
	if !tower.GeneratesMobileUnits() {
		return domain.ErrUpgradeDenied.WithData("reason", "tower cannot have a supply line")
	}

	if path != nil {
		if err := path.Validate(s.world.ContainsTower, towerId, tower.TowerType.RangedDistance()); err != nil {
			return err
		}
		// Setting the identical line again toggles it off.
		if tower.SupplyLine != nil && samePath(*path, *tower.SupplyLine) {
			path = nil
		}
	}

	if !playerId.IsBot() {
		if player := s.players[playerId]; player != nil {
			if path != nil {
				player.Alerts.Flags |= protocol.AlertSetAnySupplyLine
			} else {
				player.Alerts.Flags |= protocol.AlertUnsetAnySupplyLine
			}
		}
	}

	chunkId, relative := towerId.Split()
	s.inputs.ChunkInputs = append(s.inputs.ChunkInputs, domain.AddressedChunkInput{
		ChunkId: chunkId,
		Input: domain.ChunkInput{
			Kind:    domain.ChunkInputSetSupplyLine,
			TowerId: relative,
			Path:    clonePath(path),
		},
	})
	return nil
}

func clonePath(path *domain.Path) *domain.Path {
	if path == nil {
		return nil
	}
	p := path.Clone()
	return &p
}

func samePath(a, b domain.Path) bool {
	at, bt := a.Towers(), b.Towers()
	if len(at) != len(bt) {
		return false
	}
	for i := range at {
		if at[i] != bt[i] {
			return false
		}
	}
	return true
}

// UpgradeTower upgrades a tower, or downgrades it to its basis.
func (s *TowerService) UpgradeTower(playerId domain.PlayerId, towerId domain.TowerId, upgrade domain.TowerType) error {
	tower := s.world.GetTower(towerId)
	if tower == nil {
		return domain.ErrTowerMissing
	}
	if tower.PlayerId != playerId {
		return domain.ErrNotOwner
	}
	if !tower.Active() {
		return domain.ErrTowerBusy
	}
	player := s.players[playerId]
	if player == nil {
		return ErrPlayerUnknown
	}

	if tower.TowerType.CanUpgradeTo(upgrade) {
		if !upgrade.HasPrerequisites(&player.TowerCounts) {
			return domain.ErrUpgradeDenied
		}
		player.Alerts.Flags |= protocol.AlertUpgradedAnyTower
	} else if basis := tower.TowerType.Basis(); basis != upgrade {
		return domain.ErrUpgradeDenied.WithData("reason", "invalid upgrade path")
	}

	chunkId, relative := towerId.Split()
	s.inputs.ChunkInputs = append(s.inputs.ChunkInputs, domain.AddressedChunkInput{
		ChunkId: chunkId,
		Input: domain.ChunkInput{
			Kind:    domain.ChunkInputUpgradeTower,
			TowerId: relative,
			Type:    upgrade,
		},
	})
	return nil
}

// SetViewport records which chunks the client is looking at.
func (s *TowerService) SetViewport(playerId domain.PlayerId, viewport domain.ChunkRectangle) error {
	client := s.clients[playerId]
	if client == nil {
		return ErrPlayerUnknown.WithData("reason", "bots have no viewport")
	}
	client.viewport = viewport
	return nil
}
