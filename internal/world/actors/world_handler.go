package actors

import (
	"errors"

	"github.com/asynkron/protoactor-go/actor"

	"github.com/SoftbearStudios/kiomet/internal/shared/actor/messages"
	"github.com/SoftbearStudios/kiomet/internal/shared/transport"
	"github.com/SoftbearStudios/kiomet/internal/world/domain"
	"github.com/SoftbearStudios/kiomet/modules/kit/errx"
)

type WorldHandler struct{}

var WH = &WorldHandler{}

func (h *WorldHandler) HandleJoinGame(ctx actor.Context, p *WorldActor, req messages.JoinGame) {
	playerId := domain.PlayerId(req.PlayerId)
	if !p.svc.CanJoin(playerId) {
		ctx.Respond(fail(transport.Rejected, "server is full"))
		return
	}
	p.svc.Join(playerId, req.Alias)
	ctx.Respond(ok())
}

func (h *WorldHandler) HandleLeaveGame(ctx actor.Context, p *WorldActor, req messages.LeaveGame) {
	p.svc.Leave(domain.PlayerId(req.PlayerId))
	ctx.Respond(ok())
}

func (h *WorldHandler) HandleSpawn(ctx actor.Context, p *WorldActor, req messages.SpawnCommand) {
	ctx.Respond(result(p.svc.SpawnPlayer(domain.PlayerId(req.PlayerId))))
}

func (h *WorldHandler) HandleDeployForce(ctx actor.Context, p *WorldActor, req messages.DeployForceCommand) {
	if len(req.Path) < 2 {
		ctx.Respond(fail(transport.InvalidParam, "path needs at least two towers"))
		return
	}
	path := domain.NewPath(req.Path)
	ctx.Respond(result(p.svc.DeployForce(domain.PlayerId(req.PlayerId), req.Path[0], path)))
}

func (h *WorldHandler) HandleSetSupplyLine(ctx actor.Context, p *WorldActor, req messages.SetSupplyLineCommand) {
	var path *domain.Path
	if len(req.Path) > 0 {
		if len(req.Path) < 2 {
			ctx.Respond(fail(transport.InvalidParam, "path needs at least two towers"))
			return
		}
		pp := domain.NewPath(req.Path)
		path = &pp
	}
	ctx.Respond(result(p.svc.SetSupplyLine(domain.PlayerId(req.PlayerId), req.TowerId, path)))
}

func (h *WorldHandler) HandleUpgrade(ctx actor.Context, p *WorldActor, req messages.UpgradeCommand) {
	ctx.Respond(result(p.svc.UpgradeTower(domain.PlayerId(req.PlayerId), req.TowerId, req.TowerType)))
}

func (h *WorldHandler) HandleAlliance(ctx actor.Context, p *WorldActor, req messages.AllianceCommand) {
	ctx.Respond(result(p.svc.Alliance(domain.PlayerId(req.PlayerId), domain.PlayerId(req.With), req.BreakAlliance)))
}

func (h *WorldHandler) HandleSetViewport(ctx actor.Context, p *WorldActor, req messages.SetViewportCommand) {
	ctx.Respond(result(p.svc.SetViewport(domain.PlayerId(req.PlayerId), req.Viewport)))
}

func (h *WorldHandler) HandleQueryStats(ctx actor.Context, p *WorldActor, req messages.QueryStats) {
	stats := p.svc.Stats()
	ctx.Respond(messages.StatsReply{
		Tick:    uint16(stats.Tick),
		Players: stats.Players,
		Bots:    stats.Bots,
	})
}

func (h *WorldHandler) HandleQueryLeaderboard(ctx actor.Context, p *WorldActor, req messages.QueryLeaderboard) {
	ctx.Respond(messages.LeaderboardReply{
		Entries: p.svc.Leaderboard(req.Limit, false),
	})
}

func ok() messages.CommandReply {
	return messages.CommandReply{Code: transport.OK}
}

func fail(code int, message string) messages.CommandReply {
	return messages.CommandReply{Code: code, Message: message}
}

func result(err error) messages.CommandReply {
	if err == nil {
		return ok()
	}
	var e *errx.Error
	if errors.As(err, &e) && e.IsBiz() {
		return fail(transport.Rejected, e.Msg())
	}
	return fail(transport.SystemError, "internal error")
}
