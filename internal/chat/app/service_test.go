package app

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	chatdomain "github.com/SoftbearStudios/kiomet/internal/chat/domain"
	"github.com/SoftbearStudios/kiomet/internal/shared/serverconfig"
	"github.com/SoftbearStudios/kiomet/internal/shared/transport/ws"
)

type fakeConn struct {
	mu     sync.Mutex
	pushes []string
	done   chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{done: make(chan struct{})}
}

func (c *fakeConn) SetProperty(string, any) {}
func (c *fakeConn) GetProperty(string) any  { return nil }
func (c *fakeConn) RemoveProperty(string)   {}
func (c *fakeConn) Addr() string            { return "test" }
func (c *fakeConn) Close()                  {}
func (c *fakeConn) Done() <-chan struct{}   { return c.done }

func (c *fakeConn) Push(name string, _ any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pushes = append(c.pushes, name)
}

func (c *fakeConn) pushed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.pushes...)
}

type fakeSessions struct {
	conns map[int]ws.WSConn
}

func (f *fakeSessions) Bind(int, string, ws.WSConn)       {}
func (f *fakeSessions) UnbindConn(ws.WSConn)              {}
func (f *fakeSessions) UnbindUID(int)                     {}
func (f *fakeSessions) GetConn(uid int) (ws.WSConn, bool) { c, ok := f.conns[uid]; return c, ok }
func (f *fakeSessions) GetUID(ws.WSConn) (int, bool)      { return 0, false }

func (f *fakeSessions) ForEach(fn func(uid int, conn ws.WSConn)) {
	for uid, conn := range f.conns {
		fn(uid, conn)
	}
}

func TestSendValidation(t *testing.T) {
	s := NewService(serverconfig.ChatConfig{}, &fakeSessions{}, nil)

	if _, err := s.Send(1, "Ada", "   "); !errors.Is(err, chatdomain.ErrEmptyMessage) {
		t.Fatalf("blank message = %v, want ErrEmptyMessage", err)
	}
	long := strings.Repeat("x", chatdomain.MaxMessageLen+1)
	if _, err := s.Send(1, "Ada", long); !errors.Is(err, chatdomain.ErrTooLong) {
		t.Fatalf("oversized message = %v, want ErrTooLong", err)
	}

	msg, err := s.Send(1, "Ada", "  hello  ")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if msg.Text != "hello" {
		t.Fatalf("Text = %q, want trimmed text", msg.Text)
	}
	if msg.Id == "" || msg.PlayerId != 1 || msg.Alias != "Ada" {
		t.Fatalf("message envelope wrong: %+v", msg)
	}
}

func TestSendBroadcasts(t *testing.T) {
	a, b := newFakeConn(), newFakeConn()
	sessions := &fakeSessions{conns: map[int]ws.WSConn{1: a, 2: b}}
	s := NewService(serverconfig.ChatConfig{}, sessions, nil)

	if _, err := s.Send(1, "Ada", "hi"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	for _, conn := range []*fakeConn{a, b} {
		got := conn.pushed()
		if len(got) != 1 || got[0] != "chat.message" {
			t.Fatalf("pushes = %v, want one chat.message", got)
		}
	}
}

func TestSendRateLimit(t *testing.T) {
	s := NewService(serverconfig.ChatConfig{}, &fakeSessions{}, nil)

	for i := 0; i < rateMessages; i++ {
		if _, err := s.Send(7, "Ada", "spam"); err != nil {
			t.Fatalf("message %d: %v", i, err)
		}
	}
	if _, err := s.Send(7, "Ada", "spam"); !errors.Is(err, chatdomain.ErrRateLimited) {
		t.Fatalf("burst overflow = %v, want ErrRateLimited", err)
	}

	// Other senders have their own window.
	if _, err := s.Send(8, "Eve", "hi"); err != nil {
		t.Fatalf("independent sender: %v", err)
	}

	s.Forget(7)
	if _, err := s.Send(7, "Ada", "back"); err != nil {
		t.Fatalf("after Forget: %v", err)
	}
}

func TestAllowSlidingWindow(t *testing.T) {
	s := NewService(serverconfig.ChatConfig{}, nil, nil)
	base := time.Now()

	for i := 0; i < rateMessages; i++ {
		if !s.allow(1, base) {
			t.Fatalf("message %d inside the window refused", i)
		}
	}
	if s.allow(1, base) {
		t.Fatalf("window overflow allowed")
	}
	if !s.allow(1, base.Add(rateWindow+time.Second)) {
		t.Fatalf("expired window still limiting")
	}
}
