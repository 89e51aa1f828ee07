package session

import (
	"sync"

	"github.com/SoftbearStudios/kiomet/internal/shared/transport/ws"
)

type Manager interface {
	Bind(uid int, token string, conn ws.WSConn)
	UnbindConn(conn ws.WSConn)
	UnbindUID(uid int)
	GetConn(uid int) (ws.WSConn, bool)
	GetUID(conn ws.WSConn) (int, bool)
	ForEach(f func(uid int, conn ws.WSConn))
}

type SessMgr struct {
	sync.RWMutex
	uid2token map[int]string
	uid2conn  map[int]ws.WSConn
	conn2uid  map[ws.WSConn]int
	watched   map[ws.WSConn]struct{}
}

func NewSessMgr() Manager {
	return &SessMgr{
		uid2token: make(map[int]string),
		uid2conn:  make(map[int]ws.WSConn),
		conn2uid:  make(map[ws.WSConn]int),
		watched:   make(map[ws.WSConn]struct{}),
	}
}

func (s *SessMgr) Bind(uid int, token string, conn ws.WSConn) {
	if conn == nil {
		return
	}
	s.Lock()
	defer s.Unlock()

	// One watcher per connection: unbind automatically when it closes so
	// conn2uid can't grow without bound.
	if _, ok := s.watched[conn]; !ok {
		s.watched[conn] = struct{}{}
		go s.watchConnDone(conn)
	}

	oldConn := s.uid2conn[uid]
	// Kick the previous connection of the same uid.
	if oldConn != nil && oldConn != conn {
		oldConn.Push("robLogin", nil)
		oldConn.Close()
	}
	s.uid2conn[uid] = conn
	s.conn2uid[conn] = uid
	s.uid2token[uid] = token
}

func (s *SessMgr) watchConnDone(conn ws.WSConn) {
	<-conn.Done()
	s.UnbindConn(conn)
}

func (s *SessMgr) UnbindConn(conn ws.WSConn) {
	s.Lock()
	defer s.Unlock()
	uid := s.conn2uid[conn]
	delete(s.watched, conn)
	delete(s.conn2uid, conn)
	if s.uid2conn[uid] == conn {
		delete(s.uid2conn, uid)
	}
}

func (s *SessMgr) UnbindUID(uid int) {
	s.Lock()
	defer s.Unlock()
	conn, ok := s.uid2conn[uid]
	if ok {
		delete(s.watched, conn)
		delete(s.conn2uid, conn)
	}
	delete(s.uid2conn, uid)
}

func (s *SessMgr) GetConn(uid int) (ws.WSConn, bool) {
	s.RLock()
	defer s.RUnlock()
	conn, ok := s.uid2conn[uid]
	return conn, ok
}

func (s *SessMgr) GetUID(conn ws.WSConn) (int, bool) {
	s.RLock()
	defer s.RUnlock()
	uid, ok := s.conn2uid[conn]
	return uid, ok
}

// ForEach visits a snapshot of the bound sessions.
func (s *SessMgr) ForEach(f func(uid int, conn ws.WSConn)) {
	s.RLock()
	snapshot := make(map[int]ws.WSConn, len(s.uid2conn))
	for uid, conn := range s.uid2conn {
		snapshot[uid] = conn
	}
	s.RUnlock()
	for uid, conn := range snapshot {
		f(uid, conn)
	}
}
