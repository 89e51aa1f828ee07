package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SoftbearStudios/kiomet/internal/leaderboard/domain"
)

type RecordRepo struct {
	db *gorm.DB
}

func NewRecordRepo(db *gorm.DB) *RecordRepo {
	return &RecordRepo{
		db: db,
	}
}

// bestScoreConflict resolves a duplicate player row in the database so
// concurrent deaths never regress a record. The alias follows the score:
// a run that doesn't beat the stored score keeps the stored alias too.
func bestScoreConflict() clause.OnConflict {
	return clause.OnConflict{
		Columns: []clause.Column{{Name: "player_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"alias": gorm.Expr("IF(VALUES(score) > score, VALUES(alias), alias)"),
			"score": gorm.Expr("GREATEST(score, VALUES(score))"),
		}),
	}
}

// UpsertBest records a finished run, keeping only the best score per
// player.
func (r *RecordRepo) UpsertBest(ctx context.Context, record domain.Record) error {
	err := r.db.WithContext(ctx).Clauses(bestScoreConflict()).Create(&record).Error
	if err != nil {
		return domain.ErrStoreUnavailable.WithData("player_id", record.PlayerId).WithCause(err)
	}
	return nil
}

func (r *RecordRepo) TopN(ctx context.Context, limit int) ([]domain.Record, error) {
	var records []domain.Record
	err := r.db.WithContext(ctx).
		Order("score DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, domain.ErrStoreUnavailable.WithCause(err)
	}
	return records, nil
}
