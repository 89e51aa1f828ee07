// Package snapshot defines the persisted form of a world. The same
// structs serve as MongoDB documents.
package snapshot

import "github.com/SoftbearStudios/kiomet/internal/world/domain"

// World is a full copy of the simulation state plus the server side
// player bookkeeping needed to resume it.
type World struct {
	ServerId int      `bson:"_id"`
	Version  uint64   `bson:"version"`
	Tick     uint16   `bson:"tick"`
	Towers   []Tower  `bson:"towers"`
	Players  []Player `bson:"players"`
}

type Tower struct {
	X          uint16      `bson:"x"`
	Y          uint16      `bson:"y"`
	PlayerId   uint32      `bson:"playerId,omitempty"`
	TowerType  uint8       `bson:"towerType"`
	Delay      uint8       `bson:"delay,omitempty"`
	Units      []UnitCount `bson:"units,omitempty"`
	SupplyLine []Position  `bson:"supplyLine,omitempty"`
	Inbound    []Force     `bson:"inbound,omitempty"`
}

type Force struct {
	PlayerId uint32      `bson:"playerId,omitempty"`
	Units    []UnitCount `bson:"units"`
	Path     []Position  `bson:"path"`
	Progress uint8       `bson:"progress,omitempty"`
	Fuel     uint8       `bson:"fuel"`
}

type UnitCount struct {
	Unit  uint8 `bson:"unit"`
	Count uint  `bson:"count"`
}

type Position struct {
	X uint16 `bson:"x"`
	Y uint16 `bson:"y"`
}

type Player struct {
	PlayerId uint32   `bson:"playerId"`
	Alias    string   `bson:"alias"`
	Alive    bool     `bson:"alive"`
	Score    uint32   `bson:"score"`
	Lifetime uint16   `bson:"lifetime"`
	Allies   []uint32 `bson:"allies,omitempty"`
}

func PositionOf(id domain.TowerId) Position {
	return Position{X: id.X, Y: id.Y}
}

func (p Position) TowerId() domain.TowerId {
	return domain.TowerId{X: p.X, Y: p.Y}
}

func Positions(ids []domain.TowerId) []Position {
	out := make([]Position, len(ids))
	for i, id := range ids {
		out[i] = PositionOf(id)
	}
	return out
}

func TowerIds(positions []Position) []domain.TowerId {
	out := make([]domain.TowerId, len(positions))
	for i, p := range positions {
		out[i] = p.TowerId()
	}
	return out
}
