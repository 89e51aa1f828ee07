package repo

import (
	"strings"
	"testing"

	"gorm.io/gorm/clause"
)

func TestBestScoreConflictKeepsBetterRecord(t *testing.T) {
	c := bestScoreConflict()
	if len(c.Columns) != 1 || c.Columns[0].Name != "player_id" {
		t.Fatalf("conflict target = %+v, want player_id", c.Columns)
	}

	exprs := map[string]string{}
	for _, assignment := range c.DoUpdates {
		expr, ok := assignment.Value.(clause.Expr)
		if !ok {
			t.Fatalf("%s assignment is not an expression: %T", assignment.Column.Name, assignment.Value)
		}
		exprs[assignment.Column.Name] = expr.SQL
	}

	if got := exprs["score"]; !strings.Contains(got, "GREATEST(score, VALUES(score))") {
		t.Fatalf("score assignment = %q, want the stored maximum kept", got)
	}
	// A worse posthumous run must not relabel a better record.
	if got := exprs["alias"]; !strings.Contains(got, "IF(VALUES(score) > score") {
		t.Fatalf("alias assignment = %q, want it gated on the score improving", got)
	}
}
