package service

import (
	"reflect"

	"github.com/SoftbearStudios/kiomet/internal/world/domain"
	"github.com/SoftbearStudios/kiomet/internal/world/protocol"
)

// newChunksPerUpdate limits how many chunks a client can discover per
// update, bounding the size of a single message while panning.
const newChunksPerUpdate = 6

// GetGameUpdate builds the per-tick update for one connected client.
// Known chunks resend only when they changed since the client last got
// them; newly visible chunks trickle in under a governor. An update is
// produced every tick, even an empty one, so the client keeps accurate
// time.
func (s *TowerService) GetGameUpdate(playerId domain.PlayerId) *protocol.Update {
	if !s.regulator.Active(playerId) {
		return nil
	}
	player := s.players[playerId]
	client := s.clients[playerId]
	if player == nil || client == nil {
		return nil
	}

	bounding := s.boundingRectangle(player)

	worldChunks := domain.ChunkRectangle{
		BottomLeft: domain.ChunkId{X: 0, Y: 0},
		TopRight:   domain.ChunkId{X: domain.WorldSizeChunks - 1, Y: domain.WorldSizeChunks - 1},
	}
	viewport := client.viewport
	if !client.admin {
		viewport = viewport.ClampTo(domain.ChunkRectangleOf(bounding))
	}
	viewport = viewport.ClampTo(worldChunks)

	now := s.world.Tick()
	update := &protocol.Update{Tick: now}

	visible := make(map[domain.ChunkId]struct{})
	governor := newChunksPerUpdate
	if viewport.IsValid() {
		viewport.ForEach(func(chunkId domain.ChunkId) bool {
			sentAt, known := client.known[chunkId]
			if !known {
				if governor == 0 {
					return true
				}
				governor--
			}
			visible[chunkId] = struct{}{}
			if known && !s.world.ChunkModifiedSince(chunkId, sentAt) {
				return true
			}
			client.known[chunkId] = now
			update.Chunks = append(update.Chunks, s.snapshotChunk(chunkId))
			return true
		})
	}

	// Forget chunks that scrolled out of the viewport so they resend in
	// full when they come back.
	for chunkId := range client.known {
		if _, ok := visible[chunkId]; !ok {
			delete(client.known, chunkId)
		}
	}

	nonActor := &protocol.NonActor{
		Alive:             player.Alive,
		Alerts:            player.Alerts,
		TowerCounts:       protocol.TowerCountEntries(&player.TowerCounts),
		DeathReason:       player.DeathReason,
		BoundingRectangle: bounding,
	}
	if client.nonActor == nil || !reflect.DeepEqual(client.nonActor, nonActor) {
		update.NonActor = nonActor
		client.nonActor = nonActor
	}

	return update
}

// boundingRectangle is the part of the world a player may view: their
// towers plus the reach of their best sensor, or the center chunk while
// they have nothing.
func (s *TowerService) boundingRectangle(player *PlayerData) domain.TowerRectangle {
	if len(player.Towers) == 0 {
		centerChunk, _ := domain.WorldCenter.Split()
		return domain.TowerRectangleOf(domain.ChunkRectangle{
			BottomLeft: centerChunk,
			TopRight:   centerChunk,
		})
	}

	ids := make([]domain.TowerId, 0, len(player.Towers))
	for towerId := range player.Towers {
		ids = append(ids, towerId)
	}

	var margin uint16
	player.TowerCounts.ForEach(func(towerType domain.TowerType, count uint16) {
		if count == 0 {
			return
		}
		if r := towerType.SensorRadius() / domain.TowerIdConversion; r > margin {
			margin = r
		}
	})
	if margin < 3 {
		margin = 3
	} else if margin > 12 {
		margin = 12
	}
	return domain.BoundingTowerRectangle(ids).AddMargin(margin)
}

func (s *TowerService) snapshotChunk(chunkId domain.ChunkId) protocol.ChunkSnapshot {
	snapshot := protocol.ChunkSnapshot{ChunkId: chunkId}
	chunk := s.world.Chunk(chunkId)
	if chunk == nil {
		return snapshot
	}
	chunk.ForEach(func(towerId domain.TowerId, tower *domain.Tower) bool {
		ts := protocol.TowerSnapshot{
			TowerId:   towerId,
			PlayerId:  tower.PlayerId,
			TowerType: tower.TowerType,
			Delay:     tower.Delay,
			Units:     protocol.UnitEntries(&tower.Units),
		}
		if tower.SupplyLine != nil {
			ts.SupplyLine = tower.SupplyLine.Towers()
		}
		for i := range tower.InboundForces {
			force := &tower.InboundForces[i]
			ts.InboundForces = append(ts.InboundForces, protocol.ForceSnapshot{
				PlayerId: force.PlayerId,
				Units:    protocol.UnitEntries(&force.Units),
				Path:     force.Path().Towers(),
				Progress: force.PathProgress,
			})
		}
		snapshot.Towers = append(snapshot.Towers, ts)
		return true
	})
	return snapshot
}
