package service

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/SoftbearStudios/kiomet/internal/world/domain"
	"github.com/SoftbearStudios/kiomet/internal/world/protocol"
	"github.com/SoftbearStudios/kiomet/modules/kit/logx"
)

// Config tunes the service. Zero values fall back to defaults.
type Config struct {
	// MinBots is the bot population floor.
	MinBots int
	// BotPercent is the share of the total population that should be
	// bots when humans are online.
	BotPercent int
	// LeaderboardMinPlayers is how many humans must be online before
	// scores count towards the persistent leaderboard.
	LeaderboardMinPlayers int
	// MaxPlayers caps concurrent humans. Zero means unlimited.
	MaxPlayers int
}

func (c Config) withDefaults() Config {
	if c.MinBots <= 0 {
		c.MinBots = 10
	}
	if c.BotPercent <= 0 || c.BotPercent >= 100 {
		c.BotPercent = 80
	}
	if c.LeaderboardMinPlayers <= 0 {
		c.LeaderboardMinPlayers = 5
	}
	return c
}

// TowerService owns the authoritative world and everything around it:
// player bookkeeping, bots, the join/leave regulator, and the input
// queue applied at each tick boundary.
//
// It is not safe for concurrent use. The world actor serializes access.
type TowerService struct {
	cfg Config
	log logx.Logger
	rng *rand.Rand

	world     *domain.World
	regulator *Regulator

	players map[domain.PlayerId]*PlayerData
	clients map[domain.PlayerId]*ClientData
	bots    map[domain.PlayerId]*TowerBot

	// maybeDead players are checked and killed at the next tick
	// boundary. A player can land here twice (lost ruler and left).
	maybeDead map[domain.PlayerId]struct{}

	inputs  domain.WorldInputs
	nextBot int

	// onDeath fires when a human dies with a score worth recording and
	// enough humans online for it to have been fair competition.
	onDeath func(playerId domain.PlayerId, alias string, score uint32)
}

func NewTowerService(cfg Config, log logx.Logger) *TowerService {
	if log == nil {
		log = logx.NewNop()
	}
	return &TowerService{
		cfg:       cfg.withDefaults(),
		log:       log,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		world:     domain.NewWorld(),
		regulator: NewRegulator(),
		players:   make(map[domain.PlayerId]*PlayerData),
		clients:   make(map[domain.PlayerId]*ClientData),
		bots:      make(map[domain.PlayerId]*TowerBot),
		maybeDead: make(map[domain.PlayerId]struct{}),
	}
}

// World exposes the world for read-only use by updates and tests.
func (s *TowerService) World() *domain.World {
	return s.world
}

// SetDeathHook registers the leaderboard callback. Must be set before
// the first tick.
func (s *TowerService) SetDeathHook(f func(playerId domain.PlayerId, alias string, score uint32)) {
	s.onDeath = f
}

// ForEachClientUpdate builds and hands out this tick's update for every
// connected client.
func (s *TowerService) ForEachClientUpdate(f func(playerId domain.PlayerId, update *protocol.Update)) {
	for playerId := range s.clients {
		if update := s.GetGameUpdate(playerId); update != nil {
			f(playerId, update)
		}
	}
}

func (s *TowerService) humanCount() int {
	humans := 0
	for playerId := range s.players {
		if !playerId.IsBot() {
			humans++
		}
	}
	return humans
}

// CanJoin reports whether the player would be admitted. Known players
// always may rejoin; fresh humans are refused at the population cap.
func (s *TowerService) CanJoin(playerId domain.PlayerId) bool {
	if s.cfg.MaxPlayers <= 0 || playerId.IsBot() || s.players[playerId] != nil {
		return true
	}
	return s.humanCount() < s.cfg.MaxPlayers
}

// Join admits a player to the simulation. Rejoining before a pending
// leave is processed keeps the slot.
func (s *TowerService) Join(playerId domain.PlayerId, alias string) {
	if s.regulator.Join(playerId) {
		s.world.EnsurePlayer(playerId)
	}
	player := s.players[playerId]
	if player == nil {
		player = newPlayerData(alias)
		s.players[playerId] = player
	} else if alias != "" {
		player.Alias = alias
	}
	if !playerId.IsBot() && s.clients[playerId] == nil {
		s.clients[playerId] = newClientData()
	}
}

// Leave schedules the player's removal. Their towers die with them at
// the next tick boundary.
func (s *TowerService) Leave(playerId domain.PlayerId) {
	s.regulator.Leave(playerId)
	s.maybeDead[playerId] = struct{}{}
}

// Active reports whether the player is currently in the simulation.
func (s *TowerService) Active(playerId domain.PlayerId) bool {
	return s.regulator.Active(playerId)
}

// Tick advances the simulation by one step. Commands received since the
// last tick have already been queued into the input buffer.
func (s *TowerService) Tick() {
	s.updateBots()

	// Deaths and the shrinking border produce chunk maintenance, which
	// the world applies before anything else in the tick.
	for playerId := range s.maybeDead {
		s.killPlayer(playerId)
	}
	clear(s.maybeDead)

	if s.world.Tick().WrappingAdd(1).Every(domain.TicksFromSecs(8)) {
		s.shrink()
	}

	s.world.Update(&s.inputs, s.onInfo)
	s.inputs.Reset()

	s.recomputePlayers()

	s.regulator.Tick(func(playerId domain.PlayerId, add bool) {
		if add {
			s.world.EnsurePlayer(playerId)
			return
		}
		s.world.RemovePlayer(playerId)
		delete(s.players, playerId)
		delete(s.clients, playerId)
		delete(s.bots, playerId)
	})

	s.maintainBots()
}

// recomputePlayers refreshes lifetimes every tick and, once per second,
// scores, tower counts, and alerts.
func (s *TowerService) recomputePlayers() {
	everySecond := s.world.Tick().Every(domain.TicksFromSecs(1))

	for playerId, player := range s.players {
		if !player.Alive {
			continue
		}
		player.Lifetime = player.Lifetime.SaturatingAdd(1)
		if !everySecond {
			continue
		}

		var score uint64
		var towerCounts domain.TowerCounts

		alerts := &player.Alerts
		alerts.ResetEphemeral()
		flags := alerts.Flags

		// Assume the ruler is not safe until proven otherwise.
		flags |= protocol.AlertRulerNotSafe

		for towerId := range player.Towers {
			tower := s.world.GetTower(towerId)
			if tower == nil {
				continue
			}
			id := towerId

			if tower.Units.HasRuler() {
				alerts.RulerPosition = &id

				shielded := tower.Units.Available(domain.UnitShield) >=
					uint(domain.DamageToFinite(tower.TowerType.MaxRangedDamage()))
				surrounded := true
				towerId.Neighbors(func(neighborId domain.TowerId) bool {
					if t := s.world.GetTower(neighborId); t != nil && t.PlayerId != playerId {
						surrounded = false
						return false
					}
					return true
				})
				inboundOwn := true
				inboundForeign := false
				for i := range tower.InboundForces {
					if tower.InboundForces[i].PlayerId != playerId {
						inboundOwn = false
						inboundForeign = true
					}
				}
				if (shielded || surrounded) && inboundOwn {
					flags &^= protocol.AlertRulerNotSafe
				} else if inboundForeign {
					flags |= protocol.AlertRulerUnderAttack
				}
			} else if tower.Active() {
				for _, unit := range domain.AllUnits() {
					if !unit.IsMobileAt(tower.TowerType, true) || !tower.Units.Contains(unit) {
						continue
					}
					_, generates := tower.UnitGeneration(unit)
					if generates && tower.SupplyLine != nil {
						// The overflow drains on its own.
						continue
					}
					available := tower.Units.Available(unit)
					capacity := tower.Units.Capacity(unit, tower.TowerType, true)
					switch {
					case available > capacity:
						alerts.Overflowing = &id
					case available == capacity && generates:
						alerts.Full = &id
					}
				}
			}

			for i := range tower.InboundForces {
				if !tower.InboundForces[i].PlayerId.IsSome() {
					alerts.Zombies = &id
					break
				}
			}

			// Inactive towers do not count towards score or counts.
			if !tower.Active() {
				continue
			}
			score += uint64(tower.TowerType.ScoreWeight())
			towerCounts.Add(tower.TowerType, 1)
		}

		alerts.Flags = flags
		if score > math.MaxUint32 {
			score = math.MaxUint32
		}
		player.Score = uint32(score)
		player.TowerCounts = towerCounts
	}
}

// onInfo processes gameplay events emitted by the world during a tick.
func (s *TowerService) onInfo(e domain.InfoEvent) {
	switch e.Info.Kind {
	case domain.InfoGainedTower:
		player := s.players[e.Info.PlayerId]
		if player == nil {
			return
		}
		if e.Info.GainedReason == domain.GainedTowerSpawned {
			player.Alive = true
			player.pendingSpawn = false
		}
		player.Towers[e.Info.TowerId] = struct{}{}
	case domain.InfoLostRuler:
		player := s.players[e.Info.PlayerId]
		if player == nil {
			return
		}
		var alias string
		if killer := s.players[e.Info.OtherPlayerId]; killer != nil {
			alias = killer.Alias
		}
		player.DeathReason = &protocol.DeathReason{Alias: alias, Unit: e.Info.KillerUnit}
		s.maybeDead[e.Info.PlayerId] = struct{}{}
	case domain.InfoLostTower:
		if player := s.players[e.Info.PlayerId]; player != nil {
			delete(player.Towers, e.Info.TowerId)
		}
	}
}

// killPlayer marks the player dead and queues the maintenance that wipes
// their towers and alliances. Safe to call after the player left.
func (s *TowerService) killPlayer(playerId domain.PlayerId) {
	if player := s.players[playerId]; player != nil {
		if !player.Alive {
			return
		}
		player.Alive = false
		s.log.Info("player died",
			zap.Uint32("playerId", uint32(playerId)),
			zap.String("alias", player.Alias),
			zap.Uint32("score", player.Score),
		)
		if s.onDeath != nil && !playerId.IsBot() && player.Score > 0 &&
			s.humanCount() >= s.cfg.LeaderboardMinPlayers {
			s.onDeath(playerId, player.Alias, player.Score)
		}
	}

	for y := uint8(0); y < domain.WorldSizeChunks; y++ {
		for x := uint8(0); x < domain.WorldSizeChunks; x++ {
			s.inputs.ChunkMaintenance = append(s.inputs.ChunkMaintenance, domain.AddressedChunkMaintenance{
				ChunkId: domain.ChunkId{X: x, Y: y},
				Maintenance: domain.ChunkMaintenance{
					Kind:     domain.ChunkMaintenanceKillPlayer,
					PlayerId: playerId,
				},
			})
		}
	}

	// The player may already be out of the world if they died the tick
	// after leaving.
	if worldPlayer := s.world.Player(playerId); worldPlayer != nil {
		for allyId := range worldPlayer.Allies {
			s.inputs.PlayerInputs = append(s.inputs.PlayerInputs, domain.PlayerInput{
				Kind:     domain.PlayerInputRemoveDeadAlly,
				PlayerId: allyId,
				Other:    playerId,
			})
		}
		s.inputs.PlayerInputs = append(s.inputs.PlayerInputs, domain.PlayerInput{
			Kind:     domain.PlayerInputDied,
			PlayerId: playerId,
		})
	}
}

// Stats is a snapshot of service-level counters for the status API.
type Stats struct {
	Tick    domain.Ticks
	Players int
	Bots    int
}

func (s *TowerService) Stats() Stats {
	return Stats{Tick: s.world.Tick(), Players: s.humanCount(), Bots: len(s.bots)}
}

// Leaderboard returns the top scoring living players. Bots are excluded
// unless includeBots is set.
func (s *TowerService) Leaderboard(limit int, includeBots bool) []protocol.LeaderboardEntry {
	var entries []protocol.LeaderboardEntry
	for playerId, player := range s.players {
		if !player.Alive {
			continue
		}
		if playerId.IsBot() && !includeBots {
			continue
		}
		entries = append(entries, protocol.LeaderboardEntry{Alias: player.Alias, Score: player.Score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Alias < entries[j].Alias
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Player exposes a player's bookkeeping, or nil.
func (s *TowerService) Player(playerId domain.PlayerId) *PlayerData {
	return s.players[playerId]
}
