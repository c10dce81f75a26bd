package etl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mavdeev/footstats/internal/config"
	"github.com/mavdeev/footstats/internal/domain/playerstats"
	"github.com/mavdeev/footstats/internal/infrastructure/repository/memory"
)

type pipelineFixture struct {
	pipeline  *Pipeline
	teams     *memory.TeamRepository
	players   *memory.PlayerRepository
	matches   *memory.MatchRepository
	standings *memory.StandingRepository
	teamStats *memory.TeamStatsRepository
	stats     *memory.PlayerStatsRepository
	warehouse *memory.Warehouse
}

func testMappings() map[string]map[string]string {
	return map[string]map[string]string{
		"matches": {
			"date": "match_date", "time": "match_time", "wk": "match_week",
			"day": "day_of_week", "home": "home_team_name", "away": "away_team_name",
			"xg": "home_xg", "xg.1": "away_xg",
		},
		"standings": {
			"rk": "rank", "squad": "team_name", "mp": "matches_played",
			"w": "wins", "d": "draws", "l": "losses", "gf": "goals_for",
			"ga": "goals_against", "gd": "goal_difference", "pts": "points",
			"pts/mp": "points_per_match",
		},
		"team_stats": {
			"squad": "team_name", "# pl": "players_used", "age": "avg_age",
			"poss": "possession_pct", "mp": "matches_played", "min": "minutes",
			"90s": "ninety_s", "gls": "goals", "ast": "assists",
		},
		"player_standard": {
			"player": "player_name", "squad": "team_name", "pos": "position",
			"mp": "matches_played", "min": "minutes", "90s": "ninety_s",
			"gls": "goals", "ast": "assists",
		},
		"player_shooting": {
			"90s": "ninety_s", "gls": "goals", "sh": "shots", "sot": "shots_on_target",
		},
		"player_passing": {
			"90s": "ninety_s", "cmp": "total_cmp", "att": "total_att",
		},
	}
}

func writeFixtureFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeLeagueSeasonDir(t *testing.T, rawDir, name string) {
	t.Helper()
	dir := filepath.Join(rawDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	writeFixtureFile(t, dir, StandingsFile,
		"Rk,Squad,MP,W,D,L,GF,GA,GD,Pts\n"+
			"1,Liverpool,38,32,3,3,85,33,52,99\n"+
			"2,Man City,38,26,3,9,102,35,67,81\n")

	writeFixtureFile(t, dir, ScheduleFile,
		"Wk,Day,Date,Time,Home,xG,Score,xG.1,Away,Attendance,Venue,Referee\n"+
			"1,Fri,2019-08-09,20:00,Liverpool,1.6,4-1,1.0,Man City,53333,Anfield,Michael Oliver\n"+
			"2,Sat,2019-08-17,15:00,Man City,2.8,2-2,0.6,Liverpool,54013,Etihad Stadium,Mike Dean\n")

	writeFixtureFile(t, dir, TeamStatsFile,
		"Squad,# Pl,Age,Poss,MP,Min,90s,Gls,Ast\n"+
			"Liverpool,24,27.1,62.0,38,3420,38.0,85,64\n"+
			"Man City,23,26.8,65.3,38,3420,38.0,102,77\n")

	writeFixtureFile(t, dir, "player_standard_stats.csv",
		"Player,Nation,Pos,Squad,Age,Born,MP,Min,90s,Gls,Ast\n"+
			"Mohamed Salah,eg EGY,FW,Liverpool,27.2,1992,38,3254,36.2,19,10\n"+
			"Kevin De Bruyne,be BEL,MF,Man City,28.1,1991,35,2800,31.1,13,20\n")

	writeFixtureFile(t, dir, "player_shooting_stats.csv",
		"Rk,Player,Nation,Pos,Squad,Age,Born,90s,Gls,Sh,SoT\n"+
			"1,Mohamed Salah,eg EGY,FW,Liverpool,27.2,1992,36.2,19,132,60\n"+
			"2,Kevin De Bruyne,be BEL,MF,Man City,28.1,1991,31.1,13,88,34\n")

	writeFixtureFile(t, dir, "player_passing_stats.csv",
		"Rk,Player,Nation,Pos,Squad,Age,Born,90s,Cmp,Att\n"+
			"1,Mohamed Salah,eg EGY,FW,Liverpool,27.2,1992,36.2,900,1200\n"+
			"2,Kevin De Bruyne,be BEL,MF,Man City,28.1,1991,31.1,1800,2300\n")
}

func newPipelineFixture(t *testing.T, rawDir string, errorMode string, workers int) *pipelineFixture {
	t.Helper()

	cfg := config.Config{
		ETL: config.ETLConfig{BatchSize: 100, Workers: workers, ErrorMode: errorMode},
		Validation: config.ValidationConfig{
			MinYear: 2000, MaxYear: 2030, MinBirthYear: 1950, MaxGoalsPerMatch: 20,
		},
		SpecialValues: config.SpecialValuesConfig{
			NullValues: []string{"", "N/A", "NULL", "None", "-"},
		},
		FieldMappings: testMappings(),
		Paths:         config.PathsConfig{RawData: rawDir},
	}

	registry := map[string]config.LeagueEntry{
		"epl": {Name: "Premier League", Country: "England", CompID: 9},
	}

	cache := NewIDCache()
	cleaner := NewCleaner(cfg.SpecialValues)
	validator := NewRowValidator(cfg.Validation, nil)
	strict := errorMode == config.ErrorModeStrict
	reader := NewCSVReader(NewFieldMapper(cfg.FieldMappings), strict, nil)

	leagues := memory.NewLeagueRepository()
	seasons := memory.NewSeasonRepository()
	teams := memory.NewTeamRepository()
	players := memory.NewPlayerRepository()
	matches := memory.NewMatchRepository()
	standings := memory.NewStandingRepository()
	teamStats := memory.NewTeamStatsRepository()
	stats := memory.NewPlayerStatsRepository()

	teamResolver := NewTeamResolver(teams, cache, nil)
	playerResolver := NewPlayerResolver(players, cache, validator, nil)

	warehouse := &memory.Warehouse{
		Teams: teams, Players: players, Matches: matches,
		Standings: standings, TeamStats: teamStats, PlayerStats: stats,
	}

	pipeline := NewPipeline(cfg, registry, cache,
		NewReferenceLoader(leagues, seasons, cache, nil),
		NewStandingsLoader(standings, teamResolver, reader, cleaner, cache, cfg.ETL.BatchSize, nil),
		NewMatchesLoader(matches, teamResolver, reader, cleaner, validator, cache, cfg.ETL.BatchSize, strict, nil),
		NewTeamStatsLoader(teamStats, teamResolver, reader, cleaner, cache, cfg.ETL.BatchSize, nil),
		NewPlayerStatsLoader(stats, playerResolver, teamResolver, reader, cleaner, cache, cfg.ETL.BatchSize, nil),
		warehouse, nil)

	return &pipelineFixture{
		pipeline:  pipeline,
		teams:     teams,
		players:   players,
		matches:   matches,
		standings: standings,
		teamStats: teamStats,
		stats:     stats,
		warehouse: warehouse,
	}
}

func TestPipelineRun(t *testing.T) {
	rawDir := t.TempDir()
	writeLeagueSeasonDir(t, rawDir, "epl_2019-2020")

	fixture := newPipelineFixture(t, rawDir, config.ErrorModeStrict, 1)
	report, err := fixture.pipeline.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if report.Leagues != 1 || report.Seasons != 1 {
		t.Fatalf("reference counts = (%d, %d), want (1, 1)", report.Leagues, report.Seasons)
	}
	if report.Standings != 2 {
		t.Errorf("standings = %d, want 2", report.Standings)
	}
	if report.Matches != 2 {
		t.Errorf("matches = %d, want 2", report.Matches)
	}
	if report.TeamStats != 2 {
		t.Errorf("team stats = %d, want 2", report.TeamStats)
	}
	if report.Teams != 2 {
		t.Errorf("teams = %d, want 2", report.Teams)
	}
	if report.Players != 2 {
		t.Errorf("players = %d, want 2", report.Players)
	}
	if got := report.PlayerStats["standard"]; got != 2 {
		t.Errorf("standard stats = %d, want 2", got)
	}
	if got := report.PlayerStats["shooting"]; got != 2 {
		t.Errorf("shooting stats = %d, want 2", got)
	}
	if got := report.PlayerStats["passing"]; got != 2 {
		t.Errorf("passing stats = %d, want 2", got)
	}

	if len(report.Directories) != 1 || report.Directories[0].Status != "ok" {
		t.Fatalf("directories = %+v", report.Directories)
	}
	if fixture.warehouse.AnalyzeCalls != 1 {
		t.Errorf("analyze calls = %d, want 1", fixture.warehouse.AnalyzeCalls)
	}
	if report.TableCounts["matches"] != 2 {
		t.Errorf("table count matches = %d, want 2", report.TableCounts["matches"])
	}

	// Resolved fixture rows carry parsed scores and distinct team ids.
	first := fixture.matches.Matches[0]
	if first.HomeGoals == nil || *first.HomeGoals != 4 || first.AwayGoals == nil || *first.AwayGoals != 1 {
		t.Errorf("first match goals = (%v, %v)", first.HomeGoals, first.AwayGoals)
	}
	if first.HomeTeamID == first.AwayTeamID {
		t.Error("home and away resolved to the same team")
	}

	// Passing rows keep only numeric non-service columns.
	passing := fixture.stats.Categories[playerstats.CategoryPassing]
	if len(passing) != 2 {
		t.Fatalf("passing rows = %d", len(passing))
	}
	if passing[0].Values["total_cmp"] != 900 {
		t.Errorf("total_cmp = %v", passing[0].Values["total_cmp"])
	}
	if _, ok := passing[0].Values["player"]; ok {
		t.Error("service column leaked into category values")
	}
}

func TestPipelineSkipsUnmappedStatColumns(t *testing.T) {
	rawDir := t.TempDir()
	writeLeagueSeasonDir(t, rawDir, "epl_2019-2020")

	// Raw export headers the field mapping does not cover must degrade to
	// skipped columns. cmp% and totdist are not passing table columns, and
	// leaking them into the insert column list would break every batch.
	dir := filepath.Join(rawDir, "epl_2019-2020")
	writeFixtureFile(t, dir, "player_passing_stats.csv",
		"Rk,Player,Nation,Pos,Squad,Age,Born,90s,Cmp,Att,Cmp%,TotDist,PrgDist\n"+
			"1,Mohamed Salah,eg EGY,FW,Liverpool,27.2,1992,36.2,900,1200,75.0,15000,5000\n")

	fixture := newPipelineFixture(t, rawDir, config.ErrorModeStrict, 1)
	report, err := fixture.pipeline.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := report.PlayerStats["passing"]; got != 1 {
		t.Fatalf("passing stats = %d, want 1", got)
	}

	row := fixture.stats.Categories[playerstats.CategoryPassing][0]
	if row.Values["ninety_s"] != 36.2 {
		t.Errorf("ninety_s = %v", row.Values["ninety_s"])
	}
	if row.Values["total_cmp"] != 900 {
		t.Errorf("total_cmp = %v", row.Values["total_cmp"])
	}
	for _, column := range []string{"cmp%", "totdist", "prgdist"} {
		if _, ok := row.Values[column]; ok {
			t.Errorf("unmapped column %q reached the stored row", column)
		}
	}
}

func TestPipelineRunIsIdempotent(t *testing.T) {
	rawDir := t.TempDir()
	writeLeagueSeasonDir(t, rawDir, "epl_2019-2020")

	fixture := newPipelineFixture(t, rawDir, config.ErrorModeStrict, 1)
	if _, err := fixture.pipeline.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	// A fresh pipeline over the same repositories replays the files; the
	// duplicate fact rows must be skipped by the storage layer.
	rerun := newPipelineReusingStores(t, rawDir, fixture)

	report, err := rerun.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if report.Matches != 0 {
		t.Errorf("rerun matches = %d, want 0", report.Matches)
	}
	if report.Standings != 0 {
		t.Errorf("rerun standings = %d, want 0", report.Standings)
	}
	if got := report.PlayerStats["standard"]; got != 0 {
		t.Errorf("rerun standard stats = %d, want 0", got)
	}
	if len(fixture.matches.Matches) != 2 {
		t.Errorf("stored matches = %d, want 2", len(fixture.matches.Matches))
	}
}

// newPipelineReusingStores builds a second pipeline with a fresh cache but
// the first run's repositories, simulating a process restart over a loaded
// database.
func newPipelineReusingStores(t *testing.T, rawDir string, prev *pipelineFixture) *Pipeline {
	t.Helper()

	cfg := config.Config{
		ETL: config.ETLConfig{BatchSize: 100, Workers: 1, ErrorMode: config.ErrorModeStrict},
		Validation: config.ValidationConfig{
			MinYear: 2000, MaxYear: 2030, MinBirthYear: 1950, MaxGoalsPerMatch: 20,
		},
		SpecialValues: config.SpecialValuesConfig{
			NullValues: []string{"", "N/A", "NULL", "None", "-"},
		},
		FieldMappings: testMappings(),
		Paths:         config.PathsConfig{RawData: rawDir},
	}
	registry := map[string]config.LeagueEntry{
		"epl": {Name: "Premier League", Country: "England", CompID: 9},
	}

	cache := NewIDCache()
	cleaner := NewCleaner(cfg.SpecialValues)
	validator := NewRowValidator(cfg.Validation, nil)
	reader := NewCSVReader(NewFieldMapper(cfg.FieldMappings), true, nil)

	leagues := memory.NewLeagueRepository()
	seasons := memory.NewSeasonRepository()
	teamResolver := NewTeamResolver(prev.teams, cache, nil)
	playerResolver := NewPlayerResolver(prev.players, cache, validator, nil)

	return NewPipeline(cfg, registry, cache,
		NewReferenceLoader(leagues, seasons, cache, nil),
		NewStandingsLoader(prev.standings, teamResolver, reader, cleaner, cache, 100, nil),
		NewMatchesLoader(prev.matches, teamResolver, reader, cleaner, validator, cache, 100, true, nil),
		NewTeamStatsLoader(prev.teamStats, teamResolver, reader, cleaner, cache, 100, nil),
		NewPlayerStatsLoader(prev.stats, playerResolver, teamResolver, reader, cleaner, cache, 100, nil),
		nil, nil)
}

func TestPipelineSkipsUnknownLeague(t *testing.T) {
	rawDir := t.TempDir()
	writeLeagueSeasonDir(t, rawDir, "epl_2019-2020")
	writeLeagueSeasonDir(t, rawDir, "serieb_2019-2020")

	fixture := newPipelineFixture(t, rawDir, config.ErrorModeStrict, 1)
	report, err := fixture.pipeline.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(report.Directories) != 2 {
		t.Fatalf("directories = %d, want 2", len(report.Directories))
	}
	statuses := map[string]string{}
	for _, dir := range report.Directories {
		statuses[dir.Directory] = dir.Status
	}
	if statuses["epl_2019-2020"] != "ok" {
		t.Errorf("epl status = %q", statuses["epl_2019-2020"])
	}
	if statuses["serieb_2019-2020"] != "skipped" {
		t.Errorf("serieb status = %q", statuses["serieb_2019-2020"])
	}
}

func TestPipelineContinueModeSurvivesBadFile(t *testing.T) {
	rawDir := t.TempDir()
	writeLeagueSeasonDir(t, rawDir, "epl_2019-2020")

	// A ragged schedule row. Continue mode drops the row, strict mode
	// fails the run.
	badDir := filepath.Join(rawDir, "epl_2020-2021")
	if err := os.MkdirAll(badDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFixtureFile(t, badDir, ScheduleFile,
		"Wk,Day,Date,Time,Home,xG,Score,xG.1,Away,Attendance,Venue,Referee\n"+
			"1,Sat,2020-09-12,12:30,Fulham,broken-row\n"+
			"1,Sat,2020-09-12,15:00,Crystal Palace,1.2,1-0,0.8,Southampton,0,Selhurst Park,Jonathan Moss\n")

	lenient := newPipelineFixture(t, rawDir, config.ErrorModeContinue, 1)
	report, err := lenient.pipeline.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, dir := range report.Directories {
		if dir.Status != "ok" {
			t.Errorf("directory %s status = %q", dir.Directory, dir.Status)
		}
	}
	if report.Matches != 3 {
		t.Errorf("matches = %d, want 3", report.Matches)
	}

	strict := newPipelineFixture(t, rawDir, config.ErrorModeStrict, 1)
	if _, err := strict.pipeline.Run(context.Background()); err == nil {
		t.Fatal("strict mode expected error")
	}
}

func TestPipelineConcurrentWorkers(t *testing.T) {
	rawDir := t.TempDir()
	writeLeagueSeasonDir(t, rawDir, "epl_2019-2020")
	writeLeagueSeasonDir(t, rawDir, "epl_2020-2021")
	writeLeagueSeasonDir(t, rawDir, "epl_2021-2022")

	fixture := newPipelineFixture(t, rawDir, config.ErrorModeStrict, 3)
	report, err := fixture.pipeline.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(report.Directories) != 3 {
		t.Fatalf("directories = %d, want 3", len(report.Directories))
	}
	// The same fixture files repeat per season, so dimensions stay
	// de-duplicated while facts accumulate per season.
	if report.Teams != 2 {
		t.Errorf("teams = %d, want 2", report.Teams)
	}
	if report.Players != 2 {
		t.Errorf("players = %d, want 2", report.Players)
	}
	if report.Matches != 6 {
		t.Errorf("matches = %d, want 6", report.Matches)
	}
	if got := report.PlayerStats["standard"]; got != 6 {
		t.Errorf("standard stats = %d, want 6", got)
	}
}
