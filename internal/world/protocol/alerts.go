package protocol

import "github.com/SoftbearStudios/kiomet/internal/world/domain"

// AlertFlag is a bit set of conditions the client should surface.
type AlertFlag uint8

const (
	// AlertRulerNotSafe means the ruler's tower could be overwhelmed by a
	// single ranged volley or has unfriendly neighbors.
	AlertRulerNotSafe AlertFlag = 1 << iota
	// AlertRulerUnderAttack means a foreign force is inbound to the
	// ruler's tower.
	AlertRulerUnderAttack
	// The remaining flags are tutorial progress markers. They latch on
	// and never reset.
	AlertDeployedAnyForce
	AlertUpgradedAnyTower
	AlertSetAnySupplyLine
	AlertUnsetAnySupplyLine
)

func (f AlertFlag) Contains(other AlertFlag) bool {
	return f&other == other
}

// Alerts summarizes a player's situation, recomputed once per second.
// Tower pointers are nil when the corresponding alert is inactive.
type Alerts struct {
	RulerPosition *domain.TowerId
	Overflowing   *domain.TowerId
	Full          *domain.TowerId
	Zombies       *domain.TowerId
	Flags         AlertFlag
}

// ResetEphemeral clears everything that is recomputed each second,
// keeping the latched tutorial flags.
func (a *Alerts) ResetEphemeral() {
	a.RulerPosition = nil
	a.Overflowing = nil
	a.Full = nil
	a.Zombies = nil
	a.Flags &^= AlertRulerNotSafe | AlertRulerUnderAttack
}
