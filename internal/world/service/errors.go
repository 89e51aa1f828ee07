package service

import "github.com/SoftbearStudios/kiomet/modules/kit/errx"

// Business error codes of the server service layer.
const (
	CodePlayerUnknown  errx.Code = "SVC_PLAYER_UNKNOWN"
	CodePlayerInactive errx.Code = "SVC_PLAYER_INACTIVE"
	CodeAlreadyAlive   errx.Code = "SVC_ALREADY_ALIVE"
	CodeEmptyForce     errx.Code = "SVC_EMPTY_FORCE"
)

var (
	ErrPlayerUnknown  = errx.NewBiz(CodePlayerUnknown, "player does not exist")
	ErrPlayerInactive = errx.NewBiz(CodePlayerInactive, "player is not active in the simulation")
	ErrAlreadyAlive   = errx.NewBiz(CodeAlreadyAlive, "player is already alive")
	ErrEmptyForce     = errx.NewBiz(CodeEmptyForce, "tower has no deployable units")
)
