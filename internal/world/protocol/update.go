package protocol

import "github.com/SoftbearStudios/kiomet/internal/world/domain"

// UnitCountEntry is one unit type and how many of it are present.
type UnitCountEntry struct {
	Unit  domain.Unit
	Count uint
}

func UnitEntries(units *domain.Units) []UnitCountEntry {
	var entries []UnitCountEntry
	units.ForEach(func(u domain.Unit, count uint) {
		entries = append(entries, UnitCountEntry{Unit: u, Count: count})
	})
	return entries
}

// ForceSnapshot is a force in flight as seen by a client.
type ForceSnapshot struct {
	PlayerId domain.PlayerId
	Units    []UnitCountEntry
	Path     []domain.TowerId
	Progress uint8
}

// TowerSnapshot is one tower's visible state.
type TowerSnapshot struct {
	TowerId       domain.TowerId
	PlayerId      domain.PlayerId
	TowerType     domain.TowerType
	Delay         uint8
	Units         []UnitCountEntry
	SupplyLine    []domain.TowerId
	InboundForces []ForceSnapshot
}

// ChunkSnapshot is the full visible state of one chunk. Clients replace
// their copy of the chunk wholesale.
type ChunkSnapshot struct {
	ChunkId domain.ChunkId
	Towers  []TowerSnapshot
}

// NonActor is the per-player status that lives outside the world
// simulation. It is diffed: the server resends it only when it changed.
type NonActor struct {
	Alive             bool
	Alerts            Alerts
	TowerCounts       []TowerCountEntry
	DeathReason       *DeathReason
	BoundingRectangle domain.TowerRectangle
}

// TowerCountEntry is how many active towers of a type the player owns,
// clamped so prerequisite checks stay cheap on the client.
type TowerCountEntry struct {
	TowerType domain.TowerType
	Count     uint8
}

func TowerCountEntries(counts *domain.TowerCounts) []TowerCountEntry {
	var entries []TowerCountEntry
	counts.ForEach(func(t domain.TowerType, n uint16) {
		if n > 255 {
			n = 255
		}
		entries = append(entries, TowerCountEntry{TowerType: t, Count: uint8(n)})
	})
	return entries
}

// Update is one tick's worth of state for one client. Chunks carries
// only chunks that are newly visible or changed since the last update.
// An update is sent every tick even when empty so clients keep time.
type Update struct {
	Tick     domain.Ticks
	Chunks   []ChunkSnapshot
	NonActor *NonActor
}

// LeaderboardEntry is one row of the public leaderboard.
type LeaderboardEntry struct {
	Alias string
	Score uint32
}
