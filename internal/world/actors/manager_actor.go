package actors

import (
	"github.com/asynkron/protoactor-go/actor"

	"github.com/SoftbearStudios/kiomet/internal/shared/actor/messages"
	"github.com/SoftbearStudios/kiomet/internal/shared/transport"
)

// ManagerActor owns the world actor and forwards all player traffic to
// it. One world per server process; the map keys on server id so a
// future multi-world deployment only changes spawning.
type ManagerActor struct {
	opts        Options
	worldActors map[int]*actor.PID
}

func NewManagerActor(opts Options) *ManagerActor {
	return &ManagerActor{
		opts:        opts,
		worldActors: make(map[int]*actor.PID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	req, ok := ctx.Message().(messages.WorldMessage)
	if !ok {
		return
	}
	if req == nil {
		ctx.Respond(fail(transport.InvalidParam, "nil request"))
		return
	}

	ctx.Forward(m.getOrSpawn(ctx, m.opts.ServerId))
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, serverId int) *actor.PID {
	if pid, ok := m.worldActors[serverId]; ok && pid != nil {
		return pid
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewWorldActor(m.opts)
	})
	pid := ctx.Spawn(props)
	m.worldActors[serverId] = pid
	return pid
}
