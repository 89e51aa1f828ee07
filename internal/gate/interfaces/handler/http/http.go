package http

import (
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SoftbearStudios/kiomet/internal/gate/interfaces/handler"
	"github.com/SoftbearStudios/kiomet/internal/shared/actor/messages"
	"github.com/SoftbearStudios/kiomet/internal/shared/transport"
)

type HttpHandler struct {
	gate *handler.Gate
}

func NewHttpHandler(g *handler.Gate) *HttpHandler {
	return &HttpHandler{gate: g}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/status", h.Status)
	group.GET("/leaderboard", h.Leaderboard)
}

// Status reports server identity and live simulation counters.
func (h *HttpHandler) Status(c *gin.Context) {
	res, err := h.gate.Runtime.Ask(c.Request.Context(), messages.QueryStats{})
	if err != nil {
		h.error(c, "query status", err)
		return
	}
	stats, ok := res.(messages.StatsReply)
	if !ok {
		h.fail(c, transport.SystemError, "unexpected world reply")
		return
	}

	h.ok(c, gin.H{
		"serverId": h.gate.Server.ServerID,
		"domain":   h.gate.Server.Domain,
		"uptimeS":  int64(time.Since(h.gate.Started) / time.Second),
		"tick":     stats.Tick,
		"players":  stats.Players,
		"bots":     stats.Bots,
	})
}

// Leaderboard returns the persisted all-time board when a store is
// configured, otherwise the live in-game board.
func (h *HttpHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if h.gate.Leaderboard.Enabled() {
		records, err := h.gate.Leaderboard.Top(c.Request.Context(), limit)
		if err != nil {
			h.error(c, "query leaderboard", err)
			return
		}
		h.ok(c, records)
		return
	}

	res, err := h.gate.Runtime.Ask(c.Request.Context(), messages.QueryLeaderboard{Limit: limit})
	if err != nil {
		h.error(c, "query leaderboard", err)
		return
	}
	reply, ok := res.(messages.LeaderboardReply)
	if !ok {
		h.fail(c, transport.SystemError, "unexpected world reply")
		return
	}
	h.ok(c, reply.Entries)
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, gin.H{"code": transport.OK, "msg": data})
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(nethttp.StatusOK, gin.H{"code": code, "msg": msg})
}

func (h *HttpHandler) error(c *gin.Context, action string, err error) {
	h.gate.ReportError(c.Request.Context(), action, err)
	code, msg := handler.HandleError(err)
	h.fail(c, code, msg)
}
