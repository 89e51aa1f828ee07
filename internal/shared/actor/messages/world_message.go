package messages

import (
	"github.com/SoftbearStudios/kiomet/internal/world/domain"
	"github.com/SoftbearStudios/kiomet/internal/world/protocol"
)

// WorldMessage is anything routed to the world actor on behalf of a
// player.
type WorldMessage interface {
	PlayerID() uint32
}

type WorldBaseMessage struct {
	PlayerId uint32
}

func (m WorldBaseMessage) PlayerID() uint32 {
	return m.PlayerId
}

// JoinGame admits a player session into the simulation.
type JoinGame struct {
	WorldBaseMessage
	Alias string
}

// LeaveGame schedules the player's removal.
type LeaveGame struct {
	WorldBaseMessage
}

// SpawnCommand places a dead player back into the world.
type SpawnCommand struct {
	WorldBaseMessage
}

// DeployForceCommand sends a tower's garrison along a path. The first
// path element is the source tower.
type DeployForceCommand struct {
	WorldBaseMessage
	Path []domain.TowerId
}

// SetSupplyLineCommand sets or, with an empty path, clears a supply
// line.
type SetSupplyLineCommand struct {
	WorldBaseMessage
	TowerId domain.TowerId
	Path    []domain.TowerId
}

// UpgradeCommand upgrades or downgrades a tower.
type UpgradeCommand struct {
	WorldBaseMessage
	TowerId   domain.TowerId
	TowerType domain.TowerType
}

// AllianceCommand requests or breaks an alliance.
type AllianceCommand struct {
	WorldBaseMessage
	With          uint32
	BreakAlliance bool
}

// SetViewportCommand tells the server which chunks the client renders.
type SetViewportCommand struct {
	WorldBaseMessage
	Viewport domain.ChunkRectangle
}

// QueryStats asks for service counters.
type QueryStats struct {
	WorldBaseMessage
}

// QueryLeaderboard asks for the live in-game leaderboard.
type QueryLeaderboard struct {
	WorldBaseMessage
	Limit int
}

// CommandReply acknowledges a command. Code follows transport codes.
type CommandReply struct {
	Code    int
	Message string
}

type StatsReply struct {
	Tick    uint16
	Players int
	Bots    int
}

type LeaderboardReply struct {
	Entries []protocol.LeaderboardEntry
}
