package service

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/SoftbearStudios/kiomet/internal/world/domain"
)

// TowerBot plays like an impatient human: it expands to a random
// ambition, picks fights with big neighbors, allies with small ones, and
// eventually quits to make room near the center.
type TowerBot struct {
	// territorialAmbition is roughly how many towers the bot wants,
	// in units of eight.
	territorialAmbition uint8
	beforeQuit          domain.Ticks
	// warAgainst is NoPlayer when at peace.
	warAgainst   domain.PlayerId
	warRemaining domain.Ticks
}

func newTowerBot(rng *rand.Rand) *TowerBot {
	return &TowerBot{
		territorialAmbition: uint8(8 + rng.Intn(5)),
		beforeQuit:          randomBeforeQuit(rng),
	}
}

func randomBeforeQuit(rng *rand.Rand) domain.Ticks {
	return domain.TicksFromSecs(uint32(1800 + rng.Intn(3601)))
}

var botAliases = [...]string{
	"Alder", "Basil", "Cedar", "Dune", "Ember", "Fjord", "Gale", "Hazel",
	"Iris", "Juniper", "Krait", "Larch", "Moss", "Nimbus", "Onyx", "Pike",
	"Quill", "Reed", "Sable", "Thorn", "Umber", "Vale", "Wren", "Yarrow",
}

func botAlias(rng *rand.Rand) string {
	return botAliases[rng.Intn(len(botAliases))]
}

// updateBots lets every active bot issue at most one command.
func (s *TowerService) updateBots() {
	for botId, bot := range s.bots {
		if s.regulator.Active(botId) {
			s.updateBot(botId, bot)
		}
	}
}

// maintainBots tops the bot population up to the configured floor plus a
// share of the human population.
func (s *TowerService) maintainBots() {
	humans := 0
	for playerId := range s.players {
		if !playerId.IsBot() {
			humans++
		}
	}
	desired := humans * s.cfg.BotPercent / (100 - s.cfg.BotPercent)
	if desired < s.cfg.MinBots {
		desired = s.cfg.MinBots
	}

	for attempts := 0; len(s.bots) < desired && attempts < 1024; attempts++ {
		botId, ok := domain.NthBot(s.nextBot)
		if !ok {
			break
		}
		s.nextBot++
		if s.players[botId] != nil {
			// Previous occupant still draining out.
			continue
		}
		s.bots[botId] = newTowerBot(s.rng)
		s.Join(botId, botAlias(s.rng))
	}
}

func (s *TowerService) updateBot(botId domain.PlayerId, bot *TowerBot) {
	player := s.players[botId]
	if player == nil {
		s.Leave(botId)
		return
	}

	if !player.Alive {
		bot.warAgainst = domain.NoPlayer
		bot.beforeQuit = randomBeforeQuit(s.rng)
		if !player.pendingSpawn {
			if err := s.SpawnPlayer(botId); err != nil {
				s.log.Warn("bot spawn failed", zap.Uint32("botId", uint32(botId)), zap.Error(err))
			}
		}
		return
	}

	// A random owned tower with something to send. There may be none
	// while the ruler is on the run.
	var towerId domain.TowerId
	var tower *domain.Tower
	candidates := 0
	for id := range player.Towers {
		t := s.world.GetTower(id)
		if t == nil {
			continue
		}
		force := t.ForceUnits()
		if force.IsEmpty() {
			continue
		}
		candidates++
		if s.rng.Intn(candidates) == 0 {
			towerId, tower = id, t
		}
	}
	if tower == nil {
		return
	}

	if bot.beforeQuit == 0 {
		// Close to the world center; leave to make room for humans.
		s.log.Info("bot quitting",
			zap.Uint32("botId", uint32(botId)),
			zap.Int("towers", len(player.Towers)),
		)
		s.Leave(botId)
		return
	}
	bot.beforeQuit--

	// Wars expire, and end early when the target dies.
	if bot.warAgainst.IsSome() {
		against := s.players[bot.warAgainst]
		if bot.warRemaining == 0 || against == nil || !against.Alive {
			bot.warAgainst = domain.NoPlayer
		} else {
			bot.warRemaining--
		}
	}

	// Upgrade when shields are comfortable. War raises the bar.
	minShield := tower.TowerType.RawUnitCapacity(domain.UnitShield)
	if bot.warAgainst == domain.NoPlayer {
		minShield /= 2
	}
	if tower.Units.Available(domain.UnitShield) >= minShield {
		if upgrade, ok := s.randomBotUpgrade(tower.TowerType, player); ok {
			if err := s.UpgradeTower(botId, towerId, upgrade); err == nil {
				return
			}
		}
	}

	worldPlayer := s.world.Player(botId)

	if bot.warAgainst == domain.NoPlayer && s.rng.Float64() < 0.005 {
		if s.botDeclareWar(botId, bot, towerId, worldPlayer) {
			return
		}
	}

	if s.rng.Float64() < 0.0025 {
		if s.botProposeAlliance(botId, bot, towerId, worldPlayer) {
			return
		}
	}

	s.botDispatchForce(botId, bot, towerId, tower)
}

func (s *TowerService) randomBotUpgrade(towerType domain.TowerType, player *PlayerData) (domain.TowerType, bool) {
	var choice domain.TowerType
	candidates := 0
	for _, upgrade := range towerType.Upgrades() {
		// Bots can't use helipads.
		if upgrade == domain.TowerHelipad || !upgrade.HasPrerequisites(&player.TowerCounts) {
			continue
		}
		candidates++
		if s.rng.Intn(candidates) == 0 {
			choice = upgrade
		}
	}
	return choice, candidates > 0
}

// botDeclareWar goes to war with the biggest nearby human empire that
// exceeds the bot's ambition. Returns true if a command was issued.
func (s *TowerService) botDeclareWar(botId domain.PlayerId, bot *TowerBot, near domain.TowerId, worldPlayer *domain.Player) bool {
	var bestId domain.PlayerId
	bestTowers := 0
	s.forEachTowerInSquare(near, 5, func(_ domain.TowerId, t *domain.Tower) {
		enemyId := t.PlayerId
		if !enemyId.IsSome() || enemyId == botId || enemyId.IsBot() {
			return
		}
		enemy := s.players[enemyId]
		if enemy == nil || len(enemy.Towers)/8 <= int(bot.territorialAmbition) {
			return
		}
		if len(enemy.Towers) > bestTowers {
			bestId, bestTowers = enemyId, len(enemy.Towers)
		}
	})
	if !bestId.IsSome() {
		return false
	}

	warSecs := uint32(180)
	if bestTowers > 500 {
		warSecs = 360
	}
	bot.warAgainst = bestId
	bot.warRemaining = domain.TicksFromSecs(warSecs)
	s.log.Info("bot declaring war",
		zap.Uint32("botId", uint32(botId)),
		zap.Uint32("against", uint32(bestId)),
		zap.Int("enemyTowers", bestTowers),
	)

	if worldPlayer != nil && worldPlayer.IsAlly(bestId) {
		return s.Alliance(botId, bestId, true) == nil
	}
	return false
}

// botProposeAlliance requests an alliance with a modest neighbor. The id
// parity check splits bots into two camps so not everyone allies.
func (s *TowerService) botProposeAlliance(botId domain.PlayerId, bot *TowerBot, near domain.TowerId, worldPlayer *domain.Player) bool {
	var with domain.PlayerId
	s.forEachTowerInSquare(near, 4, func(_ domain.TowerId, t *domain.Tower) {
		if with.IsSome() {
			return
		}
		candidateId := t.PlayerId
		if !candidateId.IsSome() || candidateId == botId {
			return
		}
		candidate := s.players[candidateId]
		if candidate == nil ||
			len(candidate.Towers)/8 > int(bot.territorialAmbition) ||
			(uint32(candidateId)^uint32(botId))&1 != 0 ||
			(worldPlayer != nil && worldPlayer.IsAlly(candidateId)) {
			return
		}
		with = candidateId
	})
	if !with.IsSome() {
		return false
	}
	return s.Alliance(botId, with, false) == nil
}

func (s *TowerService) botDispatchForce(botId domain.PlayerId, bot *TowerBot, towerId domain.TowerId, tower *domain.Tower) {
	strength := tower.ForceUnits()
	if strength.IsEmpty() {
		return
	}
	sendingRuler := strength.Contains(domain.UnitRuler)

	// Will this force do real damage, or just bounce off?
	var totalDamage uint64
	strength.ForEach(func(unit domain.Unit, count uint) {
		damage := unit.Damage(unit.FieldOf(false, true, false), domain.FieldSurface)
		totalDamage += uint64(domain.DamageToFinite(damage)) * uint64(count)
	})
	formidable := totalDamage >= 5

	var destination domain.TowerId
	found := 0
	s.forEachTowerInSquare(towerId, 5, func(candidateId domain.TowerId, candidate *domain.Tower) {
		if !s.botWantsDestination(botId, bot, sendingRuler, formidable, candidate) {
			return
		}
		found++
		if s.rng.Intn(found) == 0 {
			destination = candidateId
		}
	})
	if found == 0 {
		return
	}

	pathIds, ok := s.world.FindBestPath(towerId, destination, strength.MaxEdgeDistance(), botId,
		func(domain.TowerId) bool { return true })
	if !ok || len(pathIds) < 2 {
		return
	}

	if sendingRuler || !tower.GeneratesMobileUnits() || s.rng.Float64() < 0.75 {
		_ = s.DeployForce(botId, pathIds[0], domain.NewPath(pathIds))
	} else {
		path := domain.NewPath(pathIds)
		_ = s.SetSupplyLine(botId, pathIds[0], &path)
	}
}

func (s *TowerService) botWantsDestination(botId domain.PlayerId, bot *TowerBot, sendingRuler, formidable bool, candidate *domain.Tower) bool {
	if candidate.PlayerId == botId {
		// Shuffle units at peace, or bunker the ruler behind shields
		// while at war.
		return bot.warAgainst == domain.NoPlayer ||
			(sendingRuler && candidate.Units.Available(domain.UnitShield) >
				uint(domain.DamageToFinite(candidate.TowerType.MaxRangedDamage())))
	}

	mutualAlly := candidate.PlayerId.IsSome() && s.world.HaveAlliance(botId, candidate.PlayerId)
	if sendingRuler || mutualAlly {
		// Never send the ruler abroad, or forces at an ally.
		return false
	}

	if bot.warAgainst.IsSome() {
		// Focus the adversary, or grab unclaimed ground.
		return (formidable && candidate.PlayerId == bot.warAgainst) || !candidate.PlayerId.IsSome()
	}

	if !candidate.PlayerId.IsSome() {
		return true
	}
	enemy := s.players[candidate.PlayerId]
	if enemy == nil {
		return true
	}
	// Punch up at big empires, poke with harmless forces, and contest
	// towers that recently changed hands. Leave small players alone.
	return len(enemy.Towers)/4 > int(bot.territorialAmbition) ||
		enemy.Score > 1000 ||
		!formidable ||
		candidate.Units.Available(domain.UnitShield) < 5
}

// forEachTowerInSquare visits towers within a Chebyshev radius.
func (s *TowerService) forEachTowerInSquare(center domain.TowerId, radius uint16, f func(domain.TowerId, *domain.Tower)) {
	rect := domain.CenteredTowerRectangle(center, 2*radius+1, 2*radius+1)
	s.world.ForEachTowerInRect(rect, func(towerId domain.TowerId, tower *domain.Tower) bool {
		f(towerId, tower)
		return true
	})
}
