package app

import (
	"strings"
	"testing"
)

func TestSanitizeAlias(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Ada", "Ada"},
		{"  Ada  ", "Ada"},
		{"", "Anonymous"},
		{"   ", "Anonymous"},
		{strings.Repeat("a", 20), strings.Repeat("a", 12)},
		// Truncation counts runes, not bytes.
		{strings.Repeat("é", 20), strings.Repeat("é", 12)},
	}
	for _, c := range cases {
		if got := SanitizeAlias(c.in); got != c.want {
			t.Fatalf("SanitizeAlias(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNewPlayerIdNeverBot(t *testing.T) {
	g := NewGateService(nil)
	for i := 0; i < 1000; i++ {
		pid := g.newPlayerId()
		if !pid.IsSome() || pid.IsBot() {
			t.Fatalf("minted id %v is unusable", pid)
		}
	}
}
