package app

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/SoftbearStudios/kiomet/internal/gate/app/model"
	"github.com/SoftbearStudios/kiomet/internal/shared/actor/messages"
	"github.com/SoftbearStudios/kiomet/internal/shared/security"
	"github.com/SoftbearStudios/kiomet/internal/shared/transport"
	"github.com/SoftbearStudios/kiomet/internal/world/actor"
	"github.com/SoftbearStudios/kiomet/internal/world/domain"
)

const (
	maxAliasLen  = 12
	defaultAlias = "Anonymous"
)

// GateService admits players into the world. It mints player ids, issues
// session tokens and performs the world join handshake.
type GateService struct {
	runtime *actor.Runtime

	mu  sync.Mutex
	rng *rand.Rand
}

func NewGateService(runtime *actor.Runtime) *GateService {
	return &GateService{
		runtime: runtime,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *GateService) Login(ctx context.Context, req model.LoginReq) (*model.LoginResp, error) {
	alias := SanitizeAlias(req.Alias)

	var playerId domain.PlayerId
	token := req.Token
	if token != "" {
		_, claims, err := security.ParseToken(token)
		if err != nil {
			return nil, ErrInvalidToken.WithCause(err)
		}
		playerId = domain.PlayerId(uint32(claims.Uid))
		if !playerId.IsSome() || playerId.IsBot() {
			return nil, ErrInvalidToken
		}
	} else {
		playerId = g.newPlayerId()
		minted, err := security.Award(int(playerId))
		if err != nil {
			return nil, err
		}
		token = minted
	}

	reply, err := g.runtime.Command(ctx, messages.JoinGame{
		WorldBaseMessage: messages.WorldBaseMessage{PlayerId: uint32(playerId)},
		Alias:            alias,
	})
	if err != nil {
		return nil, err
	}
	if reply.Code != transport.OK {
		return nil, ErrWorldBusy.WithData("code", reply.Code)
	}

	return &model.LoginResp{
		PlayerId: uint32(playerId),
		Alias:    alias,
		Token:    token,
	}, nil
}

// Logout schedules the player's removal from the world.
func (g *GateService) Logout(playerId uint32) {
	g.runtime.Tell(messages.LeaveGame{
		WorldBaseMessage: messages.WorldBaseMessage{PlayerId: playerId},
	})
}

// newPlayerId folds the current day into the id so it can never land in
// the bot range.
func (g *GateService) newPlayerId() domain.PlayerId {
	day := uint32(time.Now().Unix()/86400) & 0x3ff
	g.mu.Lock()
	random := g.rng.Uint32()
	g.mu.Unlock()
	return domain.NewPlayerId(day, random)
}

// SanitizeAlias trims and bounds a display name, falling back to a
// placeholder when nothing printable is left.
func SanitizeAlias(alias string) string {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return defaultAlias
	}
	runes := []rune(alias)
	if len(runes) > maxAliasLen {
		runes = runes[:maxAliasLen]
	}
	return string(runes)
}
