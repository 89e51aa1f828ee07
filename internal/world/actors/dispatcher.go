package actors

import (
	"reflect"

	"github.com/asynkron/protoactor-go/actor"

	"github.com/SoftbearStudios/kiomet/internal/shared/actor/messages"
	"github.com/SoftbearStudios/kiomet/internal/shared/transport"
)

type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

type Handler struct {
	fn      reflect.Value
	reqType reflect.Type
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, WH.HandleJoinGame)
	register(d, WH.HandleLeaveGame)
	register(d, WH.HandleSpawn)
	register(d, WH.HandleDeployForce)
	register(d, WH.HandleSetSupplyLine)
	register(d, WH.HandleUpgrade)
	register(d, WH.HandleAlliance)
	register(d, WH.HandleSetViewport)
	register(d, WH.HandleQueryStats)
	register(d, WH.HandleQueryLeaderboard)
}

func register[Req any](
	d *Dispatcher,
	fn func(ctx actor.Context, p *WorldActor, req Req),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType == nil {
		panic("dispatcher req type cannot be nil")
	}

	d.handlers[reqType] = Handler{
		fn:      reflect.ValueOf(fn),
		reqType: reqType,
	}
}

func (d *Dispatcher) Dispatch(ctx actor.Context, p *WorldActor, req messages.WorldMessage) {
	if req == nil {
		ctx.Respond(fail(transport.InvalidParam, "nil request"))
		return
	}

	bodyType := reflect.TypeOf(req)
	handler, ok := d.handlers[bodyType]
	if !ok {
		ctx.Respond(fail(transport.NotFound, "no handler for request body"))
		return
	}

	if bodyType != handler.reqType {
		ctx.Respond(fail(transport.InvalidParam, "request body type mismatch"))
		return
	}

	handler.fn.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(p),
		reflect.ValueOf(req),
	})
}
