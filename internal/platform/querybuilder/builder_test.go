package querybuilder

import (
	"database/sql"
	"testing"
)

func TestSelectBuilder_JoinWhereOrder(t *testing.T) {
	query, args, err := Select("m.id", "t1.name").
		From("matches m").
		LeftJoin("teams t1", "t1.id = m.team1_id").
		Where(Eq("m.finished", false), Gt("m.matchday", 3), NotNull("m.kickoff_at")).
		OrderBy("m.matchday ASC", "m.id ASC").
		Limit(1).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT m.id, t1.name FROM matches m LEFT JOIN teams t1 ON t1.id = m.team1_id WHERE m.finished = $1 AND m.matchday > $2 AND m.kickoff_at IS NOT NULL ORDER BY m.matchday ASC, m.id ASC LIMIT 1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != false || args[1] != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInIsFalse(t *testing.T) {
	query, args, err := Select("id").From("predictions").Where(In("match_id", []int64{})).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM predictions WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected query %q args %+v", query, args)
	}
}

func TestUpdateBuilder_ExprAndReturning(t *testing.T) {
	query, args, err := Update("matches").
		Set("team1_score", 2).
		SetExpr("evaluated_at", "COALESCE(?, NOW())", "2023-09-02").
		Where(Eq("id", int64(66)), Eq("predictions_evaluated", false)).
		Returning("id").
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE matches SET team1_score = $1, evaluated_at = COALESCE($2, NOW()) WHERE id = $3 AND predictions_evaluated = $4 RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != int64(66) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

type row struct {
	ID      int64        `db:"id"`
	Name    string       `db:"name"`
	Updated sql.NullTime `db:"updated_at"`
	ignored string
	Skip    string `db:"-"`
}

func TestInsertModels_MultiRow(t *testing.T) {
	query, args, err := InsertModels("teams", []row{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}, "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (id, name, updated_at) VALUES ($1, $2, $3), ($4, $5, $6) ON CONFLICT (id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 || args[3] != int64(2) {
		t.Fatalf("unexpected args: %+v", args)
	}
	if cols := Columns(row{}); len(cols) != 3 {
		t.Fatalf("unexpected columns: %v", cols)
	}
}
