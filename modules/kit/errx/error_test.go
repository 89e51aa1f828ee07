package errx

import (
	"errors"
	"testing"
)

func TestError_Is_ComparesByCodeOnly(t *testing.T) {
	e1 := NewBiz("BIZ_X", "x").WithData("k", "v").WithCause(errors.New("cause1"))
	e2 := NewBiz("BIZ_X", "x2").WithData("k2", "v2").WithCause(errors.New("cause2"))
	if !errors.Is(e1, e2) {
		t.Fatalf("expected errors.Is(e1, e2)==true (code only), e1=%v e2=%v", e1, e2)
	}
}

func TestError_BizErrorSkipsStackButKeepsCause(t *testing.T) {
	cause := errors.New("db down")
	err := NewBiz("BIZ_LOGIN_FAIL", "bad username or password").WithCause(cause)
	if got := err.Stack(); got != nil {
		t.Fatalf("expected no stack on business error, got=%v", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause chain preserved, err=%v", err)
	}
}

func TestError_SysErrorCapturesStackOnce(t *testing.T) {
	cause := errors.New("io timeout")
	sys := NewSys("SYS_DB_UNAVAILABLE", "system unavailable").WithCause(cause)
	if got := sys.Stack(); len(got) == 0 {
		t.Fatalf("expected system error to capture a stack, got=%v", got)
	}

	// Wrapping again must not capture a second stack when the chain has one.
	sys2 := NewSys("SYS_GATEWAY_ERROR", "gateway failed").WithCause(sys)
	if got := sys2.Stack(); got != nil {
		t.Fatalf("expected no duplicate stack capture, got=%v", got)
	}
}

func TestError_DataCopiedOnWrite(t *testing.T) {
	m := map[string]any{"k": "v"}
	err := NewBiz("BIZ_X", "").WithDataMap(m)
	m["k"] = "mutated"
	if got := err.Data()["k"]; got != "v" {
		t.Fatalf("expected data copied at construction, got=%v", got)
	}
}
