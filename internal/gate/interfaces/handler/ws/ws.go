package ws

import (
	"context"

	"github.com/SoftbearStudios/kiomet/internal/gate/app/model"
	"github.com/SoftbearStudios/kiomet/internal/gate/interfaces/handler"
	"github.com/SoftbearStudios/kiomet/internal/gate/interfaces/handler/ws/dto"
	"github.com/SoftbearStudios/kiomet/internal/shared/actor/messages"
	"github.com/SoftbearStudios/kiomet/internal/shared/transport"
	"github.com/SoftbearStudios/kiomet/internal/shared/transport/ws"
	"github.com/SoftbearStudios/kiomet/internal/world/domain"
)

type WsHandler struct {
	gate *handler.Gate
}

func NewWsHandler(g *handler.Gate) *WsHandler {
	return &WsHandler{gate: g}
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	accountGroup := r.Group("account")
	accountGroup.Handle("login", h.Login)

	gameGroup := r.Group("game")
	gameGroup.Handle("spawn", h.Spawn)
	gameGroup.Handle("deployForce", h.DeployForce)
	gameGroup.Handle("setSupplyLine", h.SetSupplyLine)
	gameGroup.Handle("upgrade", h.Upgrade)
	gameGroup.Handle("alliance", h.Alliance)
	gameGroup.Handle("setViewport", h.SetViewport)

	chatGroup := r.Group("chat")
	chatGroup.Handle("send", h.ChatSend)
}

func (h *WsHandler) Login(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil || wsResp == nil || wsResp.Body == nil {
		h.fail(wsResp, transport.InvalidParam, "invalid request")
		return
	}

	var req model.LoginReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, "invalid request")
		return
	}

	loginResp, err := h.gate.GateService.Login(ctx, req)
	if err != nil {
		h.error(ctx, "account login", wsResp, err)
		return
	}

	conn := wsReq.Conn
	conn.SetProperty(ws.ConnKeyUID, int(loginResp.PlayerId))
	conn.SetProperty(ws.ConnKeyAlias, loginResp.Alias)
	h.gate.Session.Bind(int(loginResp.PlayerId), loginResp.Token, conn)
	go h.watchLogout(conn, loginResp.PlayerId)
	h.ok(wsResp, loginResp)
}

// watchLogout removes the player when their connection ends. A kicked
// connection whose uid has already been rebound leaves the player in
// place for the new session.
func (h *WsHandler) watchLogout(conn ws.WSConn, playerId uint32) {
	<-conn.Done()
	if cur, ok := h.gate.Session.GetConn(int(playerId)); ok && cur != conn {
		return
	}
	h.gate.GateService.Logout(playerId)
	if h.gate.Chat != nil {
		h.gate.Chat.Forget(playerId)
	}
}

func (h *WsHandler) Spawn(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	playerId, ok := h.playerId(wsReq, wsResp)
	if !ok {
		return
	}
	h.command(ctx, "game spawn", wsResp, messages.SpawnCommand{
		WorldBaseMessage: messages.WorldBaseMessage{PlayerId: playerId},
	})
}

func (h *WsHandler) DeployForce(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	playerId, ok := h.playerId(wsReq, wsResp)
	if !ok {
		return
	}

	var req dto.DeployForceReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, err.Error())
		return
	}
	if len(req.Path) < 2 {
		h.fail(wsResp, transport.InvalidParam, "path needs at least two towers")
		return
	}

	h.command(ctx, "game deploy force", wsResp, messages.DeployForceCommand{
		WorldBaseMessage: messages.WorldBaseMessage{PlayerId: playerId},
		Path:             dto.TowerIds(req.Path),
	})
}

func (h *WsHandler) SetSupplyLine(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	playerId, ok := h.playerId(wsReq, wsResp)
	if !ok {
		return
	}

	var req dto.SetSupplyLineReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, err.Error())
		return
	}
	if len(req.Path) == 1 {
		h.fail(wsResp, transport.InvalidParam, "path needs at least two towers")
		return
	}

	h.command(ctx, "game set supply line", wsResp, messages.SetSupplyLineCommand{
		WorldBaseMessage: messages.WorldBaseMessage{PlayerId: playerId},
		TowerId:          req.Tower.TowerId(),
		Path:             dto.TowerIds(req.Path),
	})
}

func (h *WsHandler) Upgrade(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	playerId, ok := h.playerId(wsReq, wsResp)
	if !ok {
		return
	}

	var req dto.UpgradeReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, err.Error())
		return
	}
	towerType, ok := domain.TowerTypeFromRepr(req.TowerType)
	if !ok {
		h.fail(wsResp, transport.InvalidParam, "unknown tower type")
		return
	}

	h.command(ctx, "game upgrade", wsResp, messages.UpgradeCommand{
		WorldBaseMessage: messages.WorldBaseMessage{PlayerId: playerId},
		TowerId:          req.Tower.TowerId(),
		TowerType:        towerType,
	})
}

func (h *WsHandler) Alliance(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	playerId, ok := h.playerId(wsReq, wsResp)
	if !ok {
		return
	}

	var req dto.AllianceReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, err.Error())
		return
	}
	if req.With == playerId {
		h.fail(wsResp, transport.InvalidParam, "cannot ally with yourself")
		return
	}

	h.command(ctx, "game alliance", wsResp, messages.AllianceCommand{
		WorldBaseMessage: messages.WorldBaseMessage{PlayerId: playerId},
		With:             req.With,
		BreakAlliance:    req.Break,
	})
}

func (h *WsHandler) SetViewport(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	playerId, ok := h.playerId(wsReq, wsResp)
	if !ok {
		return
	}

	var req dto.ViewportReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, err.Error())
		return
	}

	h.command(ctx, "game set viewport", wsResp, messages.SetViewportCommand{
		WorldBaseMessage: messages.WorldBaseMessage{PlayerId: playerId},
		Viewport:         req.Viewport,
	})
}

func (h *WsHandler) ChatSend(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	playerId, ok := h.playerId(wsReq, wsResp)
	if !ok {
		return
	}
	if h.gate.Chat == nil {
		h.fail(wsResp, transport.SystemError, "chat unavailable")
		return
	}

	var req dto.ChatSendReq
	if err := ws.BindJSON(wsReq, &req); err != nil {
		h.fail(wsResp, transport.InvalidParam, err.Error())
		return
	}

	alias := h.alias(wsReq.Conn)
	msg, err := h.gate.Chat.Send(playerId, alias, req.Text)
	if err != nil {
		h.error(ctx, "chat send", wsResp, err)
		return
	}
	h.ok(wsResp, msg)
}

// alias reads the display name stashed on the connection at login.
func (h *WsHandler) alias(conn ws.WSConn) string {
	if v := conn.GetProperty(ws.ConnKeyAlias); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "Anonymous"
}

// playerId resolves the bound player for the request connection.
func (h *WsHandler) playerId(wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) (uint32, bool) {
	if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil || wsResp == nil || wsResp.Body == nil {
		h.fail(wsResp, transport.InvalidParam, "invalid request")
		return 0, false
	}
	uid, ok := h.gate.Session.GetUID(wsReq.Conn)
	if !ok || uid <= 0 {
		h.fail(wsResp, transport.SessionInvalid, "not logged in")
		return 0, false
	}
	return uint32(uid), true
}

func (h *WsHandler) command(ctx context.Context, action string, wsResp *ws.WsMsgResp, msg messages.WorldMessage) {
	reply, err := h.gate.Runtime.Command(ctx, msg)
	if err != nil {
		h.error(ctx, action, wsResp, err)
		return
	}
	if reply.Code != transport.OK {
		h.fail(wsResp, reply.Code, reply.Message)
		return
	}
	h.ok(wsResp, nil)
}

func (h *WsHandler) ok(resp *ws.WsMsgResp, data any) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.OK
	resp.Body.Msg = data
}

func (h *WsHandler) fail(resp *ws.WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	if msg != "" {
		resp.Body.Msg = msg
	}
}

func (h *WsHandler) error(ctx context.Context, action string, resp *ws.WsMsgResp, err error) {
	h.gate.ReportError(ctx, action, err)
	code, msg := handler.HandleError(err)
	h.fail(resp, code, msg)
}
