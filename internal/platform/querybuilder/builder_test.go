package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "team_name").
		From("teams").
		Where(Eq("normalized_name", "arsenal")).
		OrderBy("id").
		Limit(1).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, team_name FROM teams WHERE normalized_name = $1 ORDER BY id LIMIT 1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "arsenal" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderNullCondition(t *testing.T) {
	query, args, err := Select("id").
		From("players").
		Where(Eq("player_name", "Trialist"), IsNull("born")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM players WHERE player_name = $1 AND born IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderMultiRow(t *testing.T) {
	query, args, err := InsertInto("seasons").
		Columns("season_code", "start_year", "end_year").
		Values("2019-2020", 2019, 2020).
		Values("2020-2021", 2020, 2021).
		Suffix("ON CONFLICT (season_code) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO seasons (season_code, start_year, end_year) VALUES ($1, $2, $3), ($4, $5, $6) ON CONFLICT (season_code) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderRowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("seasons").
		Columns("season_code", "start_year").
		Values("2019-2020").
		ToSQL()
	if err == nil {
		t.Fatal("expected row width mismatch error")
	}
}

type seasonInsertModel struct {
	Code      string `db:"season_code"`
	StartYear int    `db:"start_year"`
	EndYear   int    `db:"end_year"`
	ignored   string //nolint:unused
}

func TestInsertModels(t *testing.T) {
	rows := []seasonInsertModel{
		{Code: "2019-2020", StartYear: 2019, EndYear: 2020},
		{Code: "2024", StartYear: 2024, EndYear: 2024},
	}

	query, args, err := InsertModels("seasons", rows, "ON CONFLICT DO NOTHING")
	if err != nil {
		t.Fatalf("build insert models query: %v", err)
	}

	wantQuery := "INSERT INTO seasons (season_code, start_year, end_year) VALUES ($1, $2, $3), ($4, $5, $6) ON CONFLICT DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 || args[3] != "2024" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModelsEmpty(t *testing.T) {
	if _, _, err := InsertModels[seasonInsertModel]("seasons", nil, ""); err == nil {
		t.Fatal("expected error for empty model slice")
	}
}
