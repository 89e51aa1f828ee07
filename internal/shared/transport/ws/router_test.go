package ws

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SoftbearStudios/kiomet/internal/shared/transport"
	"github.com/SoftbearStudios/kiomet/modules/kit/logx"
)

func dispatch(r *Router, name string) *WsMsgResp {
	req := &WsMsgReq{Body: &ReqBody{Name: name}}
	resp := &WsMsgResp{Body: &RespBody{Name: name}}
	r.Dispatch(req, resp)
	return resp
}

func TestRouterDispatch(t *testing.T) {
	r := NewRouter(logx.NewNop())
	called := false
	r.Group("game").Handle("spawn", func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp) {
		called = true
		resp.Body.Code = transport.OK
	})

	resp := dispatch(r, "game.spawn")
	require.True(t, called)
	require.Equal(t, transport.OK, resp.Body.Code)
}

func TestRouterUnknownRoutes(t *testing.T) {
	r := NewRouter(logx.NewNop())
	r.Group("game").Handle("spawn", func(context.Context, *WsMsgReq, *WsMsgResp) {})

	for _, name := range []string{"nosuch.spawn", "game.nosuch", "notdotted", "game.", ".spawn"} {
		resp := dispatch(r, name)
		require.Equal(t, transport.InvalidParam, resp.Body.Code, "route %q", name)
	}
}

func TestRouterDefaultsToSystemError(t *testing.T) {
	r := NewRouter(logx.NewNop())
	// A handler that forgets to set a code must not report success.
	r.Group("game").Handle("spawn", func(context.Context, *WsMsgReq, *WsMsgResp) {})

	resp := dispatch(r, "game.spawn")
	require.Equal(t, transport.SystemError, resp.Body.Code)
}

func TestBindJSON(t *testing.T) {
	type payload struct {
		Alias string `json:"alias"`
	}
	req := &WsMsgReq{Body: &ReqBody{
		Name: "account.login",
		Msg:  map[string]any{"alias": "Ada"},
	}}

	var got payload
	require.NoError(t, BindJSON(req, &got))
	require.Equal(t, "Ada", got.Alias)

	require.Error(t, BindJSON(nil, &got))
	require.Error(t, BindJSON(&WsMsgReq{}, &got))
}
