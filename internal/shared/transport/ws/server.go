package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/SoftbearStudios/kiomet/modules/kit/logx"
)

type Server struct {
	router *Router
	log    logx.Logger
}

func NewServer(r *Router, l logx.Logger) *Server {
	return &Server{
		router: r,
		log:    l,
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	upgrader := websocket.Upgrader{
		// The game client may be served from any origin.
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	wsConn, err := upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}

	wsServer := NewWsServer(wsConn, s.log)
	wsServer.Router(s.router)
	wsServer.Run()
}
