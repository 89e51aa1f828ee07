package actors

import (
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"github.com/SoftbearStudios/kiomet/internal/shared/actor/messages"
	"github.com/SoftbearStudios/kiomet/internal/shared/transport"
	"github.com/SoftbearStudios/kiomet/internal/world/app/port"
	"github.com/SoftbearStudios/kiomet/internal/world/dc"
	"github.com/SoftbearStudios/kiomet/internal/world/domain"
	"github.com/SoftbearStudios/kiomet/internal/world/protocol"
	"github.com/SoftbearStudios/kiomet/internal/world/service"
	"github.com/SoftbearStudios/kiomet/modules/kit/logx"
)

type State int

const (
	None State = iota
	Init
	Online
	Offline
	Stopping
)

// Pusher delivers a per-tick update to a connected player session.
type Pusher func(playerId uint32, update *protocol.Update)

// DeathHook records a player's final score when their ruler dies.
type DeathHook func(playerId uint32, alias string, score uint32)

// Options configures the world actor and everything it hosts.
type Options struct {
	ServerId      int
	Game          service.Config
	Repo          port.WorldRepository
	SnapshotEvery time.Duration
	Push          Pusher
	OnDeath       DeathHook
	Logger        logx.Logger
}

// WorldActor hosts the single authoritative simulation. All game
// commands are serialized through its mailbox, so the service below it
// never needs locks.
type WorldActor struct {
	state      State
	opts       Options
	svc        *service.TowerService
	dc         *dc.WorldDC
	dispatcher *Dispatcher
	loopStop   chan struct{}
}

type simTick struct{}

func (simTick) NotInfluenceReceiveTimeout() {}

type snapshotTick struct{}

func (snapshotTick) NotInfluenceReceiveTimeout() {}

func NewWorldActor(opts Options) *WorldActor {
	if opts.Logger == nil {
		opts.Logger = logx.NewNop()
	}
	return &WorldActor{
		state:      None,
		opts:       opts,
		dc:         dc.NewWorldDC(opts.Repo, opts.ServerId, opts.SnapshotEvery),
		dispatcher: NewDispatcher(),
	}
}

func (p *WorldActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.state = Init
		p.init(ctx)
		return
	case *actor.Stopping:
		p.stopLoops()
		if p.svc != nil {
			p.dc.Enqueue(p.svc.Snapshot())
		}
		closeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := p.dc.Close(closeCtx); err != nil {
			p.opts.Logger.Error("world dc close failed", zap.Int("server_id", p.opts.ServerId), zap.Error(err))
		}
		p.state = Stopping
		return
	case *actor.Stopped:
		p.stopLoops()
		p.state = Offline
		return
	case *actor.Restarting:
		p.stopLoops()
		p.state = Init
		return
	case simTick:
		if p.state != Online {
			return
		}
		p.svc.Tick()
		if p.opts.Push != nil {
			p.svc.ForEachClientUpdate(func(playerId domain.PlayerId, update *protocol.Update) {
				p.opts.Push(uint32(playerId), update)
			})
		}
		return
	case snapshotTick:
		if p.state != Online {
			return
		}
		p.dc.Enqueue(p.svc.Snapshot())
		return
	case messages.WorldMessage:
		if msg == nil {
			ctx.Respond(fail(transport.InvalidParam, "nil request"))
			return
		}
		if p.state != Online {
			ctx.Respond(fail(transport.SystemError, "world not online"))
			return
		}
		p.dispatcher.Dispatch(ctx, p, msg)
	default:
		return
	}
}

func (p *WorldActor) init(ctx actor.Context) {
	p.svc = service.NewTowerService(p.opts.Game, p.opts.Logger)
	if p.opts.OnDeath != nil {
		hook := p.opts.OnDeath
		p.svc.SetDeathHook(func(playerId domain.PlayerId, alias string, score uint32) {
			hook(uint32(playerId), alias, score)
		})
	}

	loadCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap, err := p.dc.Load(loadCtx)
	if err != nil {
		p.opts.Logger.Error("world snapshot load failed", zap.Int("server_id", p.opts.ServerId), zap.Error(err))
		p.state = Stopping
		ctx.Stop(ctx.Self())
		return
	}
	if snap != nil {
		p.svc.RestoreSnapshot(snap)
		p.opts.Logger.Info("world restored from snapshot",
			zap.Int("server_id", p.opts.ServerId),
			zap.Uint64("version", snap.Version),
			zap.Int("towers", len(snap.Towers)))
	}

	p.state = Online
	p.startLoops(ctx)
}

func (p *WorldActor) Service() *service.TowerService {
	return p.svc
}

func (p *WorldActor) DC() *dc.WorldDC {
	return p.dc
}

// startLoops drives the simulation and the snapshot schedule. Ticker
// goroutines only post mailbox messages; all state stays on the actor.
func (p *WorldActor) startLoops(ctx actor.Context) {
	if p.loopStop != nil {
		return
	}
	p.loopStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func(stop <-chan struct{}) {
		sim := time.NewTicker(domain.TickPeriod)
		defer sim.Stop()
		snap := time.NewTicker(p.dc.FlushEvery())
		defer snap.Stop()
		for {
			select {
			case <-sim.C:
				root.Send(self, simTick{})
			case <-snap.C:
				root.Send(self, snapshotTick{})
			case <-stop:
				return
			}
		}
	}(p.loopStop)
}

func (p *WorldActor) stopLoops() {
	if p.loopStop == nil {
		return
	}
	close(p.loopStop)
	p.loopStop = nil
}
