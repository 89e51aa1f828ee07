package domain

import (
	"time"

	"github.com/SoftbearStudios/kiomet/modules/kit/errx"
)

// Record is a player's best score, one row per player id.
type Record struct {
	Id        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	PlayerId  uint32    `gorm:"column:player_id;uniqueIndex;not null" json:"playerId"`
	Alias     string    `gorm:"column:alias;type:varchar(24);not null" json:"alias"`
	Score     uint32    `gorm:"column:score;not null;index" json:"score"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Record) TableName() string {
	return "leaderboard"
}

const CodeStoreUnavailable errx.Code = "LB_STORE_UNAVAILABLE"

var ErrStoreUnavailable = errx.NewSys(CodeStoreUnavailable, "leaderboard store unavailable")
