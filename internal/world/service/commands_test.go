package service

import (
	"errors"
	"testing"

	"github.com/SoftbearStudios/kiomet/internal/world/domain"
)

// spawnAlive joins and spawns a player, ticking until a tower exists.
func spawnAlive(t *testing.T, s *TowerService, pid domain.PlayerId, alias string) domain.TowerId {
	t.Helper()
	s.Join(pid, alias)
	if err := s.SpawnPlayer(pid); err != nil {
		t.Fatalf("spawn %s: %v", alias, err)
	}
	s.Tick()
	player := s.Player(pid)
	if player == nil || !player.Alive {
		t.Fatalf("%s did not come alive", alias)
	}
	for towerId := range player.Towers {
		return towerId
	}
	t.Fatalf("%s owns no towers", alias)
	return domain.TowerId{}
}

func TestDeployForceValidation(t *testing.T) {
	s := newTestService()
	pid := humanId(40)
	s.Join(pid, "Ada")

	missing := domain.NewPath([]domain.TowerId{{X: 1, Y: 1}, {X: 1, Y: 2}})
	if err := s.DeployForce(pid, domain.TowerId{X: 1, Y: 1}, missing); !errors.Is(err, domain.ErrTowerMissing) {
		t.Fatalf("deploy from missing tower = %v, want ErrTowerMissing", err)
	}

	home := spawnAlive(t, s, pid, "Ada")
	other := humanId(41)
	s.Join(other, "Eve")

	var next domain.TowerId
	home.Neighbors(func(id domain.TowerId) bool {
		next = id
		return false
	})
	path := domain.NewPath([]domain.TowerId{home, next})
	if err := s.DeployForce(other, home, path); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("deploy from foreign tower = %v, want ErrNotOwner", err)
	}
}

func TestUpgradeTowerValidation(t *testing.T) {
	s := newTestService()
	pid := humanId(42)

	if err := s.UpgradeTower(pid, domain.TowerId{X: 2, Y: 2}, domain.TowerBunker); !errors.Is(err, domain.ErrTowerMissing) {
		t.Fatalf("upgrade missing tower = %v, want ErrTowerMissing", err)
	}

	home := spawnAlive(t, s, pid, "Ada")
	other := humanId(43)
	s.Join(other, "Eve")
	if err := s.UpgradeTower(other, home, domain.TowerBunker); !errors.Is(err, domain.ErrNotOwner) {
		t.Fatalf("upgrade foreign tower = %v, want ErrNotOwner", err)
	}
}

func TestAllianceHandshake(t *testing.T) {
	s := newTestService()
	p1 := humanId(50)
	p2 := humanId(51)

	if err := s.Alliance(p1, p2, false); !errors.Is(err, ErrPlayerUnknown) {
		t.Fatalf("alliance between unknown players = %v, want ErrPlayerUnknown", err)
	}

	s.Join(p1, "Ada")
	s.Join(p2, "Eve")

	if err := s.Alliance(p1, p2, false); err != nil {
		t.Fatalf("first request: %v", err)
	}
	s.Tick()
	if s.World().HaveAlliance(p1, p2) {
		t.Fatalf("one-sided request should not be an alliance")
	}

	if err := s.Alliance(p2, p1, false); err != nil {
		t.Fatalf("second request: %v", err)
	}
	s.Tick()
	if !s.World().HaveAlliance(p1, p2) {
		t.Fatalf("mutual requests should form an alliance")
	}

	if err := s.Alliance(p1, p2, true); err != nil {
		t.Fatalf("break: %v", err)
	}
	s.Tick()
	if s.World().HaveAlliance(p1, p2) {
		t.Fatalf("breaking should dissolve the alliance for both sides")
	}
}

func TestSetViewport(t *testing.T) {
	s := newTestService()
	pid := humanId(60)
	s.Join(pid, "Ada")

	viewport := domain.ChunkRectangle{
		BottomLeft: domain.ChunkId{X: 0, Y: 0},
		TopRight:   domain.ChunkId{X: 3, Y: 3},
	}
	if err := s.SetViewport(pid, viewport); err != nil {
		t.Fatalf("viewport for a client: %v", err)
	}

	bot, _ := domain.NthBot(0)
	s.Join(bot, "Alder")
	if err := s.SetViewport(bot, viewport); !errors.Is(err, ErrPlayerUnknown) {
		t.Fatalf("viewport for a bot = %v, want ErrPlayerUnknown", err)
	}
}
