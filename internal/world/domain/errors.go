package domain

import "github.com/SoftbearStudios/kiomet/modules/kit/errx"

// Business error codes of the world domain. System codes live in errx.
const (
	CodeInvalidPath   errx.Code = "WORLD_INVALID_PATH"
	CodeNotOwner      errx.Code = "WORLD_NOT_OWNER"
	CodeTowerMissing  errx.Code = "WORLD_TOWER_MISSING"
	CodeTowerBusy     errx.Code = "WORLD_TOWER_BUSY"
	CodeUpgradeDenied errx.Code = "WORLD_UPGRADE_DENIED"
	CodeNoSpawnFound  errx.Code = "WORLD_NO_SPAWN_FOUND"
)

var (
	ErrNotOwner      = errx.NewBiz(CodeNotOwner, "tower not owned by player")
	ErrTowerMissing  = errx.NewBiz(CodeTowerMissing, "tower does not exist")
	ErrTowerBusy     = errx.NewBiz(CodeTowerBusy, "tower is delayed")
	ErrUpgradeDenied = errx.NewBiz(CodeUpgradeDenied, "upgrade prerequisites not met")
	ErrNoSpawnFound  = errx.NewBiz(CodeNoSpawnFound, "no suitable spawn location")
)
