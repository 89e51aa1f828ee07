package app

import (
	"context"
	"testing"
	"time"

	"github.com/SoftbearStudios/kiomet/internal/leaderboard/domain"
)

type fakeRepo struct {
	upserts chan domain.Record
	topped  int
	records []domain.Record
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{upserts: make(chan domain.Record, 8)}
}

func (f *fakeRepo) UpsertBest(_ context.Context, record domain.Record) error {
	f.upserts <- record
	return nil
}

func (f *fakeRepo) TopN(_ context.Context, limit int) ([]domain.Record, error) {
	f.topped = limit
	if len(f.records) > limit {
		return f.records[:limit], nil
	}
	return f.records, nil
}

func TestDisabledServiceIsNoop(t *testing.T) {
	s := NewService(nil, nil)
	if s.Enabled() {
		t.Fatalf("service without a repo should be disabled")
	}
	s.Record(1, "Ada", 100)
	got, err := s.Top(context.Background(), 10)
	if err != nil || got != nil {
		t.Fatalf("Top on disabled service = %v, %v", got, err)
	}
}

func TestRecordWritesAsync(t *testing.T) {
	repo := newFakeRepo()
	s := NewService(repo, nil)

	s.Record(42, "Ada", 900)
	select {
	case record := <-repo.upserts:
		if record.PlayerId != 42 || record.Alias != "Ada" || record.Score != 900 {
			t.Fatalf("upserted %+v", record)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no upsert within two seconds")
	}
}

func TestTopClampsLimit(t *testing.T) {
	repo := newFakeRepo()
	repo.records = []domain.Record{{PlayerId: 1, Alias: "Ada", Score: 10}}
	s := NewService(repo, nil)

	if _, err := s.Top(context.Background(), 0); err != nil {
		t.Fatalf("Top: %v", err)
	}
	if repo.topped != defaultTopLimit {
		t.Fatalf("zero limit passed %d, want default %d", repo.topped, defaultTopLimit)
	}

	if _, err := s.Top(context.Background(), 10_000); err != nil {
		t.Fatalf("Top: %v", err)
	}
	if repo.topped != maxTopLimit {
		t.Fatalf("huge limit passed %d, want cap %d", repo.topped, maxTopLimit)
	}

	got, err := s.Top(context.Background(), 5)
	if err != nil || len(got) != 1 || got[0].Alias != "Ada" {
		t.Fatalf("Top = %v, %v", got, err)
	}
}
