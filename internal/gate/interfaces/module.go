package interfaces

import (
	"github.com/gin-gonic/gin"

	chatapp "github.com/SoftbearStudios/kiomet/internal/chat/app"
	"github.com/SoftbearStudios/kiomet/internal/gate/interfaces/handler"
	"github.com/SoftbearStudios/kiomet/internal/gate/interfaces/handler/http"
	ws2 "github.com/SoftbearStudios/kiomet/internal/gate/interfaces/handler/ws"
	lbapp "github.com/SoftbearStudios/kiomet/internal/leaderboard/app"
	"github.com/SoftbearStudios/kiomet/internal/shared/serverconfig"
	"github.com/SoftbearStudios/kiomet/internal/shared/session"
	transporthttp "github.com/SoftbearStudios/kiomet/internal/shared/transport/http"
	"github.com/SoftbearStudios/kiomet/internal/shared/transport/ws"
	"github.com/SoftbearStudios/kiomet/internal/world/actor"
	"github.com/SoftbearStudios/kiomet/modules/kit/logx"
)

type Module struct {
	wsHandler   *ws2.WsHandler
	httpHandler *http.HttpHandler
}

func New(
	s session.Manager,
	runtime *actor.Runtime,
	chat *chatapp.Service,
	leaderboard *lbapp.Service,
	server serverconfig.ServerConfig,
	log logx.Logger,
) *Module {
	gate := handler.NewGate(s, runtime, chat, leaderboard, server, log)
	return &Module{
		wsHandler:   ws2.NewWsHandler(gate),
		httpHandler: http.NewHttpHandler(gate),
	}
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

var _ ws.Registrar = (*Module)(nil)
var _ transporthttp.Registrar = (*Module)(nil)
