package app

import (
	"context"

	"github.com/SoftbearStudios/kiomet/internal/leaderboard/domain"
)

type RecordRepo interface {
	UpsertBest(ctx context.Context, record domain.Record) error
	TopN(ctx context.Context, limit int) ([]domain.Record, error)
}
