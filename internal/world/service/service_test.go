package service

import (
	"errors"
	"testing"

	"github.com/SoftbearStudios/kiomet/internal/world/domain"
)

func newTestService() *TowerService {
	return NewTowerService(Config{}, nil)
}

func humanId(random uint32) domain.PlayerId {
	return domain.NewPlayerId(1, random)
}

func TestJoinMakesPlayerActive(t *testing.T) {
	s := newTestService()
	pid := humanId(10)

	s.Join(pid, "Alice")
	if !s.Active(pid) {
		t.Fatalf("player should be active right after joining")
	}
	player := s.Player(pid)
	if player == nil || player.Alias != "Alice" {
		t.Fatalf("player bookkeeping missing or wrong alias")
	}
	if player.Alive {
		t.Fatalf("joined player should not be alive before spawning")
	}
}

func TestSpawnPlayer(t *testing.T) {
	s := newTestService()
	pid := humanId(11)

	if err := s.SpawnPlayer(pid); !errors.Is(err, ErrPlayerUnknown) {
		t.Fatalf("spawn before join = %v, want ErrPlayerUnknown", err)
	}

	s.Join(pid, "Bob")
	if err := s.SpawnPlayer(pid); err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	if err := s.SpawnPlayer(pid); !errors.Is(err, ErrAlreadyAlive) {
		t.Fatalf("double spawn = %v, want ErrAlreadyAlive", err)
	}

	s.Tick()
	player := s.Player(pid)
	if player == nil || !player.Alive {
		t.Fatalf("player should be alive after the spawn tick")
	}
	if len(player.Towers) == 0 {
		t.Fatalf("spawned player owns no towers")
	}
	if err := s.SpawnPlayer(pid); !errors.Is(err, ErrAlreadyAlive) {
		t.Fatalf("respawn while alive = %v, want ErrAlreadyAlive", err)
	}
}

func TestLeaveRemovesPlayer(t *testing.T) {
	s := newTestService()
	pid := humanId(12)

	s.Join(pid, "Carol")
	if err := s.SpawnPlayer(pid); err != nil {
		t.Fatalf("spawn failed: %v", err)
	}
	s.Tick()

	s.Leave(pid)
	if s.Active(pid) {
		t.Fatalf("player should be inactive immediately after leaving")
	}

	s.Tick()
	s.Tick()
	if s.Player(pid) != nil {
		t.Fatalf("player bookkeeping should be gone two ticks after leaving")
	}
	if s.World().Player(pid) != nil {
		t.Fatalf("world player should be gone two ticks after leaving")
	}
}

func TestStatsCountsBotsAndHumans(t *testing.T) {
	s := newTestService()
	pid := humanId(13)
	s.Join(pid, "Dan")

	s.Tick()
	stats := s.Stats()
	if stats.Players != 1 {
		t.Fatalf("Players = %d, want 1", stats.Players)
	}
	// The bot population floor defaults to ten.
	if stats.Bots != 10 {
		t.Fatalf("Bots = %d, want 10", stats.Bots)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	s := newTestService()
	type entry struct {
		random uint32
		alias  string
		score  uint32
	}
	players := []entry{
		{20, "Zed", 50},
		{21, "Amy", 50},
		{22, "Max", 90},
		{23, "Lia", 10},
	}
	for _, p := range players {
		pid := humanId(p.random)
		s.Join(pid, p.alias)
		data := s.Player(pid)
		data.Alive = true
		data.Score = p.score
	}
	// A dead player never ranks.
	dead := humanId(24)
	s.Join(dead, "Ghost")
	s.Player(dead).Score = 999

	got := s.Leaderboard(10, false)
	want := []string{"Max", "Amy", "Zed", "Lia"}
	if len(got) != len(want) {
		t.Fatalf("leaderboard has %d entries, want %d", len(got), len(want))
	}
	for i, alias := range want {
		if got[i].Alias != alias {
			t.Fatalf("leaderboard[%d] = %q, want %q", i, got[i].Alias, alias)
		}
	}

	if top := s.Leaderboard(2, false); len(top) != 2 || top[0].Alias != "Max" {
		t.Fatalf("limited leaderboard = %v", top)
	}
}

func TestCanJoinHonorsPlayerCap(t *testing.T) {
	s := NewTowerService(Config{MaxPlayers: 1}, nil)
	first := humanId(70)
	second := humanId(71)

	if !s.CanJoin(first) {
		t.Fatalf("empty server refused a player")
	}
	s.Join(first, "Ada")
	if s.CanJoin(second) {
		t.Fatalf("cap of one admitted a second human")
	}
	// Known players and bots are never capped.
	if !s.CanJoin(first) {
		t.Fatalf("rejoin refused at the cap")
	}
	bot, _ := domain.NthBot(0)
	if !s.CanJoin(bot) {
		t.Fatalf("bot refused at the cap")
	}
}

func TestDeathHookFiresForHumans(t *testing.T) {
	s := NewTowerService(Config{LeaderboardMinPlayers: 1}, nil)
	pid := humanId(30)

	var gotAlias string
	var gotScore uint32
	s.SetDeathHook(func(playerId domain.PlayerId, alias string, score uint32) {
		if playerId != pid {
			t.Fatalf("death hook for %v, want %v", playerId, pid)
		}
		gotAlias, gotScore = alias, score
	})

	s.Join(pid, "Eve")
	player := s.Player(pid)
	player.Alive = true
	player.Score = 123

	s.Leave(pid)
	s.Tick()
	if gotAlias != "Eve" || gotScore != 123 {
		t.Fatalf("death hook got (%q, %d), want (Eve, 123)", gotAlias, gotScore)
	}
}
