package domain

// PlayerId identifies a player. Zero means no player, e.g. a zombie tower
// or a force spawned by the shrinking border.
type PlayerId uint32

const (
	// NoPlayer marks unowned towers and ownerless forces.
	NoPlayer PlayerId = 0
	// SoloPlayer is reserved for offline single player mode.
	SoloPlayer PlayerId = 1

	playerIdDayBits    = 10
	playerIdRandomBits = 32 - playerIdDayBits
	playerIdRandomMask = 1<<playerIdRandomBits - 1
	playerIdDayMask    = ^uint32(playerIdRandomMask)
)

// NewPlayerId combines the day a session started with random entropy so
// real player ids never collide with the bot range.
func NewPlayerId(day uint32, random uint32) PlayerId {
	if day == 0 {
		day = 1
	}
	return PlayerId(day<<playerIdRandomBits | random&playerIdRandomMask)
}

// IsSome reports whether the id refers to an actual player.
func (p PlayerId) IsSome() bool {
	return p != NoPlayer
}

// IsBot reports whether the id is reserved for bots. Bots occupy the low
// id range that real players can never be assigned.
func (p PlayerId) IsBot() bool {
	return uint32(p)&playerIdDayMask == 0 && p > SoloPlayer
}

func (p PlayerId) IsSolo() bool {
	return p == SoloPlayer
}

// BotNumber is the zero-based bot index, valid only when IsBot.
func (p PlayerId) BotNumber() (int, bool) {
	if !p.IsBot() {
		return 0, false
	}
	return int(p) - 2, true
}

// NthBot is the player id of the nth bot.
func NthBot(n int) (PlayerId, bool) {
	id := PlayerId(uint32(n) + 2)
	if !id.IsBot() {
		return NoPlayer, false
	}
	return id, true
}

// Player is the per-player alliance state referenced during combat
// resolution. Towers and forces carry only the PlayerId.
type Player struct {
	// Allies holds one-directional alliance requests. A mutual pair of
	// requests makes two players allied.
	Allies map[PlayerId]struct{}
	// NewAlliances records alliances that became mutual this tick so
	// supply lines and forces crossing the new ally can be halted.
	NewAlliances map[PlayerId]struct{}
}

func NewPlayer() *Player {
	return &Player{
		Allies:       make(map[PlayerId]struct{}),
		NewAlliances: make(map[PlayerId]struct{}),
	}
}

func (p *Player) IsAlly(other PlayerId) bool {
	_, ok := p.Allies[other]
	return ok
}

func (p *Player) AddAlly(other PlayerId) {
	p.Allies[other] = struct{}{}
}

func (p *Player) RemoveAlly(other PlayerId) {
	delete(p.Allies, other)
}

func (p *Player) ClearAllies() {
	clear(p.Allies)
}

// Relationship classifies two sides of an encounter.
type Relationship uint8

const (
	// RelationshipComrade is the same player or two zombies.
	RelationshipComrade Relationship = iota
	// RelationshipAlly is a mutual alliance.
	RelationshipAlly
	// RelationshipEnemy is everything else.
	RelationshipEnemy
)

func (r Relationship) IsAlly() bool {
	return r == RelationshipAlly
}

// IsFriendly reports whether the sides won't fight. An arriving ruler
// makes allies fight so a king can't hide in an ally's tower.
func (r Relationship) IsFriendly(rulerArrivingAtTower bool) bool {
	switch r {
	case RelationshipComrade:
		return true
	case RelationshipAlly:
		return !rulerArrivingAtTower
	default:
		return false
	}
}

func (r Relationship) IsUnfriendly(rulerArrivingAtTower bool) bool {
	return !r.IsFriendly(rulerArrivingAtTower)
}

// PlayerLookup resolves alliance state during a chunk tick.
type PlayerLookup func(PlayerId) *Player

// RelationshipBetween computes the relationship of two owners using the
// lookup for alliance state.
func RelationshipBetween(players PlayerLookup, a, b PlayerId) Relationship {
	if a == b {
		return RelationshipComrade
	}
	if a.IsSome() && b.IsSome() {
		pa, pb := players(a), players(b)
		if pa != nil && pb != nil && pa.IsAlly(b) && pb.IsAlly(a) {
			return RelationshipAlly
		}
	}
	return RelationshipEnemy
}
