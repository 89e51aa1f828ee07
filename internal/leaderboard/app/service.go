package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/SoftbearStudios/kiomet/internal/leaderboard/domain"
	"github.com/SoftbearStudios/kiomet/modules/kit/logx"
)

const (
	defaultTopLimit = 10
	maxTopLimit     = 100
	writeTimeout    = 5 * time.Second
)

// Service keeps all-time best scores. With no repo configured it is a
// no-op, so a server without MySQL still runs.
type Service struct {
	repo RecordRepo
	log  logx.Logger
}

func NewService(repo RecordRepo, log logx.Logger) *Service {
	if log == nil {
		log = logx.NewNop()
	}
	return &Service{
		repo: repo,
		log:  log,
	}
}

func (s *Service) Enabled() bool {
	return s != nil && s.repo != nil
}

// Record persists a finished run. Called from the simulation death hook,
// so the write happens off the caller's goroutine.
func (s *Service) Record(playerId uint32, alias string, score uint32) {
	if !s.Enabled() {
		return
	}
	record := domain.Record{
		PlayerId: playerId,
		Alias:    alias,
		Score:    score,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := s.repo.UpsertBest(ctx, record); err != nil {
			s.log.Error("leaderboard record failed",
				zap.Uint32("playerId", playerId),
				zap.Uint32("score", score),
				zap.Error(err))
		}
	}()
}

// Top returns the best scores of all time, highest first.
func (s *Service) Top(ctx context.Context, limit int) ([]domain.Record, error) {
	if !s.Enabled() {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}
	return s.repo.TopN(ctx, limit)
}
