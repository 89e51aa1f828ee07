package app

import "github.com/SoftbearStudios/kiomet/modules/kit/errx"

const (
	CodeInvalidToken errx.Code = "GATE_INVALID_TOKEN"
	CodeWorldBusy    errx.Code = "GATE_WORLD_BUSY"
)

var (
	ErrInvalidToken = errx.NewBiz(CodeInvalidToken, "session token invalid or expired")
	ErrWorldBusy    = errx.NewSys(CodeWorldBusy, "world is not accepting players")
)
