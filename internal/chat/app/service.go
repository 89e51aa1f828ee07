package app

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/lumberjack"

	"github.com/SoftbearStudios/kiomet/internal/chat/domain"
	"github.com/SoftbearStudios/kiomet/internal/shared/serverconfig"
	"github.com/SoftbearStudios/kiomet/internal/shared/session"
	"github.com/SoftbearStudios/kiomet/internal/shared/transport/ws"
	"github.com/SoftbearStudios/kiomet/modules/kit/logx"
	"go.uber.org/zap"
)

const (
	rateWindow   = 10 * time.Second
	rateMessages = 5
)

// Service broadcasts chat to every bound session and mirrors each line
// to a rotating moderation log when one is configured.
type Service struct {
	sessions session.Manager
	log      logx.Logger
	sink     *lumberjack.Logger

	mu   sync.Mutex
	sent map[uint32][]time.Time
}

func NewService(cfg serverconfig.ChatConfig, sessions session.Manager, log logx.Logger) *Service {
	if log == nil {
		log = logx.NewNop()
	}
	s := &Service{
		sessions: sessions,
		log:      log,
		sent:     make(map[uint32][]time.Time),
	}
	if cfg.LogFile != "" {
		s.sink = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
		}
	}
	return s
}

// Send validates, rate limits, records and broadcasts one message.
func (s *Service) Send(playerId uint32, alias, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyMessage
	}
	if len(text) > domain.MaxMessageLen {
		return nil, domain.ErrTooLong
	}
	if !s.allow(playerId, time.Now()) {
		return nil, domain.ErrRateLimited
	}

	msg := &domain.Message{
		Id:       uuid.NewString(),
		PlayerId: playerId,
		Alias:    alias,
		Text:     text,
		SentAt:   time.Now().UTC(),
	}
	s.record(msg)
	s.broadcast(msg)
	return msg, nil
}

// allow enforces a sliding window per sender.
func (s *Service) allow(playerId uint32, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	recent := s.sent[playerId][:0]
	for _, t := range s.sent[playerId] {
		if now.Sub(t) < rateWindow {
			recent = append(recent, t)
		}
	}
	if len(recent) >= rateMessages {
		s.sent[playerId] = recent
		return false
	}
	s.sent[playerId] = append(recent, now)
	return true
}

// record appends one JSON line to the moderation log.
func (s *Service) record(msg *domain.Message) {
	if s.sink == nil {
		return
	}
	line, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if _, err := s.sink.Write(append(line, '\n')); err != nil {
		s.log.Error("chat log write failed", zap.Error(err))
	}
}

func (s *Service) broadcast(msg *domain.Message) {
	if s.sessions == nil {
		return
	}
	s.sessions.ForEach(func(uid int, conn ws.WSConn) {
		conn.Push("chat.message", msg)
	})
}

// Forget drops the rate limit state of a departed player.
func (s *Service) Forget(playerId uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sent, playerId)
}

func (s *Service) Close() error {
	if s.sink == nil {
		return nil
	}
	return s.sink.Close()
}
