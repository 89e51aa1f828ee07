package handler

import (
	"context"
	"errors"
	"time"

	chatapp "github.com/SoftbearStudios/kiomet/internal/chat/app"
	"github.com/SoftbearStudios/kiomet/internal/gate/app"
	lbapp "github.com/SoftbearStudios/kiomet/internal/leaderboard/app"
	"github.com/SoftbearStudios/kiomet/internal/shared/serverconfig"
	"github.com/SoftbearStudios/kiomet/internal/shared/session"
	"github.com/SoftbearStudios/kiomet/internal/shared/transport"
	"github.com/SoftbearStudios/kiomet/internal/world/actor"
	"github.com/SoftbearStudios/kiomet/modules/kit/errx"
	"github.com/SoftbearStudios/kiomet/modules/kit/logx"
)

// Gate bundles everything the edge handlers need.
type Gate struct {
	Session     session.Manager
	GateService *app.GateService
	Runtime     *actor.Runtime
	Chat        *chatapp.Service
	Leaderboard *lbapp.Service
	Server      serverconfig.ServerConfig
	Started     time.Time
	Log         logx.Logger
}

func NewGate(
	s session.Manager,
	runtime *actor.Runtime,
	chat *chatapp.Service,
	leaderboard *lbapp.Service,
	server serverconfig.ServerConfig,
	log logx.Logger,
) *Gate {
	return &Gate{
		Session:     s,
		GateService: app.NewGateService(runtime),
		Runtime:     runtime,
		Chat:        chat,
		Leaderboard: leaderboard,
		Server:      server,
		Started:     time.Now(),
		Log:         log,
	}
}

// HandleError maps an error to a wire code and client safe message.
func HandleError(err error) (int, string) {
	if err == nil {
		return transport.OK, ""
	}
	var e *errx.Error
	if errors.As(err, &e) && e.IsBiz() {
		return transport.Rejected, e.Msg()
	}
	return actor.CodeFromError(err), "server busy, try again later"
}

// ReportError prints a surfaced error once at the interface layer.
// Business rejections log at INFO without a stack, everything else as a
// sys error with cause chain and origin stack.
func (g *Gate) ReportError(ctx context.Context, action string, err error) {
	if err == nil {
		return
	}
	var e *errx.Error
	if errors.As(err, &e) && e.IsBiz() {
		logx.ReportBizWithLoggerContext(ctx, g.Log, logx.NewBizLog(action, e.Reason(), e.Msg()))
		return
	}
	logx.ReportSysErrorWithLoggerContext(ctx, g.Log, logx.NewSysLog(action, err))
}
