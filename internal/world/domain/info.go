package domain

// InfoKind tags the variants of Info.
type InfoKind uint8

const (
	InfoGainedTower InfoKind = iota
	InfoLostForce
	InfoLostRuler
	InfoLostTower
	InfoEmp
	InfoNuclearExplosion
	InfoShellExplosion
)

// GainedTowerReason is why a player gained a tower.
type GainedTowerReason uint8

const (
	GainedTowerCaptured GainedTowerReason = iota
	GainedTowerExplored
	GainedTowerSpawned
)

// LostTowerReason is why a player lost a tower.
type LostTowerReason uint8

const (
	LostTowerCaptured LostTowerReason = iota
	LostTowerDestroyed
	// LostTowerPlayerKilled means the owner died.
	LostTowerPlayerKilled
)

// Info describes a gameplay event observed during a tick. The server uses
// it for alerts, kill attribution, and death reasons; clients render it.
type Info struct {
	Kind InfoKind
	// PlayerId is the subject: who gained, lost, or fired.
	PlayerId PlayerId
	// OtherPlayerId is the counterparty, e.g. who captured the tower or
	// killed the ruler. NoPlayer when unattributed.
	OtherPlayerId PlayerId
	TowerId       TowerId
	GainedReason  GainedTowerReason
	LostReason    LostTowerReason
	// KillerUnit is the unit that killed a ruler.
	KillerUnit Unit
}

// InfoEvent is an Info with the world position it happened at.
type InfoEvent struct {
	Position Vec2
	Info     Info
}

// OnInfo receives gameplay events during a tick.
type OnInfo func(InfoEvent)
