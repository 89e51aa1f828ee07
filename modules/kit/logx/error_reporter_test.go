package logx

import (
	"errors"
	"testing"

	"github.com/SoftbearStudios/kiomet/modules/kit/errx"
)

func TestBuildErrorLog_ExtractsSemanticsAndStack(t *testing.T) {
	cause := errors.New("db down")
	e := errx.NewSys("SYS_INTERNAL", "internal server error").
		WithData("method", "Login").
		WithCause(cause)

	meta := BuildErrorLog(e)
	if meta.Error == "" {
		t.Fatalf("expected meta.Error to be set")
	}
	if meta.Code == "" {
		t.Fatalf("expected meta.Code to be set")
	}
	if meta.Msg == "" {
		t.Fatalf("expected meta.Msg to be set")
	}
	if meta.Data == nil || meta.Data["method"] != "Login" {
		t.Fatalf("expected meta.Data to contain method=Login, got=%v", meta.Data)
	}
	if len(meta.CauseChain) == 0 {
		t.Fatalf("expected meta.CauseChain to be non-empty")
	}
	if meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("expected origin/stack of the failure site, origin=%q stack=%q", meta.Origin, meta.Stack)
	}
}
