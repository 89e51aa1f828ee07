package dto

import "github.com/SoftbearStudios/kiomet/internal/world/domain"

// TowerRef addresses one tower cell on the wire.
type TowerRef struct {
	X uint16 `json:"x"`
	Y uint16 `json:"y"`
}

func (t TowerRef) TowerId() domain.TowerId {
	return domain.TowerId{X: t.X, Y: t.Y}
}

func TowerIds(refs []TowerRef) []domain.TowerId {
	if len(refs) == 0 {
		return nil
	}
	ids := make([]domain.TowerId, len(refs))
	for i, ref := range refs {
		ids[i] = ref.TowerId()
	}
	return ids
}

type SpawnReq struct{}

// DeployForceReq sends units along Path; the first element is the
// source tower.
type DeployForceReq struct {
	Path []TowerRef `json:"path"`
}

// SetSupplyLineReq sets a supply line, or clears it when Path is empty.
type SetSupplyLineReq struct {
	Tower TowerRef   `json:"tower"`
	Path  []TowerRef `json:"path"`
}

type UpgradeReq struct {
	Tower TowerRef `json:"tower"`
	// TowerType is the numeric tower type to upgrade or downgrade to.
	TowerType uint8 `json:"towerType"`
}

type AllianceReq struct {
	With  uint32 `json:"with"`
	Break bool   `json:"break"`
}

type ViewportReq struct {
	Viewport domain.ChunkRectangle `json:"viewport"`
}

type ChatSendReq struct {
	Text string `json:"text"`
}
