package service

import (
	"github.com/SoftbearStudios/kiomet/internal/world/domain"
	"github.com/SoftbearStudios/kiomet/internal/world/protocol"
)

// PlayerData is the server's bookkeeping for one player, bot or human.
// The world itself only knows PlayerIds; everything else lives here.
type PlayerData struct {
	Alias string
	Alive bool
	// Towers indexes the towers the player owns, maintained from info
	// events as the world changes hands.
	Towers map[domain.TowerId]struct{}
	// Lifetime counts how long the player has been alive, saturating.
	Lifetime domain.Ticks
	// Score and TowerCounts are recomputed once per second.
	Score       uint32
	TowerCounts domain.TowerCounts
	// DeathReason is set when the ruler dies and cleared on respawn.
	DeathReason *protocol.DeathReason
	Alerts      protocol.Alerts

	// pendingSpawn is set between queueing a spawn and the world
	// confirming it, so a double spawn command cannot slip through.
	pendingSpawn bool
}

func newPlayerData(alias string) *PlayerData {
	return &PlayerData{
		Alias:  alias,
		Towers: make(map[domain.TowerId]struct{}),
	}
}

// ClientData tracks what one connected client has been told, so updates
// only carry what is new to them.
type ClientData struct {
	// known maps chunk ids the client has a copy of to the tick they
	// last received it.
	known    map[domain.ChunkId]domain.Ticks
	nonActor *protocol.NonActor
	viewport domain.ChunkRectangle
	admin    bool
}

func newClientData() *ClientData {
	return &ClientData{
		known:    make(map[domain.ChunkId]domain.Ticks),
		viewport: domain.InvalidChunkRectangle(),
	}
}
