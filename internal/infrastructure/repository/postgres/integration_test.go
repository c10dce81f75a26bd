package postgres

import (
	"context"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mavdeev/footstats/internal/domain/league"
	"github.com/mavdeev/footstats/internal/domain/match"
	"github.com/mavdeev/footstats/internal/domain/player"
	"github.com/mavdeev/footstats/internal/domain/playerstats"
	"github.com/mavdeev/footstats/internal/domain/season"
	"github.com/mavdeev/footstats/internal/domain/standing"
	"github.com/mavdeev/footstats/internal/domain/team"
)

func startPostgres(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container tests in short mode")
	}

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx,
		"postgres:17-alpine",
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.WithDatabase("footstats"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(ctx) })

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	migrator, err := migrate.New("file://"+filepath.ToSlash(migrationsDir(t)), connStr)
	require.NoError(t, err)
	require.NoError(t, migrator.Up())
	srcErr, dbErr := migrator.Close()
	require.NoError(t, srcErr)
	require.NoError(t, dbErr)

	db, err := sqlx.Connect("postgres", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func migrationsDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "..", "db", "migrations")
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func TestRepositoriesAgainstPostgres(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	leagues := NewLeagueRepository(db)
	seasons := NewSeasonRepository(db)
	teams := NewTeamRepository(db)
	players := NewPlayerRepository(db)
	matches := NewMatchRepository(db)
	standings := NewStandingRepository(db)
	stats := NewPlayerStatsRepository(db)
	admin := NewAdminRepository(db)

	leagueID, created, err := leagues.GetOrCreate(ctx, league.League{
		Code: "epl", Name: "Premier League", Country: "England", CompID: 9,
	})
	require.NoError(t, err)
	require.True(t, created)

	again, created, err := leagues.GetOrCreate(ctx, league.League{
		Code: "epl", Name: "Premier League", Country: "England", CompID: 9,
	})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, leagueID, again)

	seasonID, _, err := seasons.GetOrCreate(ctx, season.Season{
		Code: "2019-2020", StartYear: intPtr(2019), EndYear: intPtr(2020),
	})
	require.NoError(t, err)

	liverpoolID, _, err := teams.GetOrCreate(ctx, team.Team{Name: "Liverpool", NormalizedName: "liverpool"})
	require.NoError(t, err)
	cityID, _, err := teams.GetOrCreate(ctx, team.Team{Name: "Man City", NormalizedName: "man city"})
	require.NoError(t, err)

	// Name variants collapse onto the normalized identity.
	dup, created, err := teams.GetOrCreate(ctx, team.Team{Name: "LIVERPOOL ", NormalizedName: "liverpool"})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, liverpoolID, dup)

	t.Run("matches idempotent bulk insert", func(t *testing.T) {
		fixture := match.Match{
			LeagueID:   leagueID,
			SeasonID:   seasonID,
			Date:       time.Date(2019, 8, 9, 0, 0, 0, 0, time.UTC),
			HomeTeamID: liverpoolID,
			AwayTeamID: cityID,
			Score:      strPtr("4-1"),
			HomeGoals:  intPtr(4),
			AwayGoals:  intPtr(1),
			HomeXG:     floatPtr(1.6),
		}

		inserted, err := matches.BulkInsert(ctx, []match.Match{fixture}, 10)
		require.NoError(t, err)
		require.Equal(t, 1, inserted)

		inserted, err = matches.BulkInsert(ctx, []match.Match{fixture}, 10)
		require.NoError(t, err)
		require.Equal(t, 0, inserted)
	})

	t.Run("standings unique per team season", func(t *testing.T) {
		row := standing.Standing{
			LeagueID: leagueID, SeasonID: seasonID, TeamID: liverpoolID,
			Rank: intPtr(1), Points: intPtr(99), XG: floatPtr(75.2),
		}

		inserted, err := standings.BulkInsert(ctx, []standing.Standing{row}, 10)
		require.NoError(t, err)
		require.Equal(t, 1, inserted)

		inserted, err = standings.BulkInsert(ctx, []standing.Standing{row}, 10)
		require.NoError(t, err)
		require.Equal(t, 0, inserted)
	})

	t.Run("players keyed by name and born", func(t *testing.T) {
		salahID, created, err := players.GetOrCreate(ctx, player.Player{
			Name: "Mohamed Salah", Nation: strPtr("EGY"), Born: intPtr(1992), Position: strPtr("FW"),
		})
		require.NoError(t, err)
		require.True(t, created)

		sameID, created, err := players.GetOrCreate(ctx, player.Player{
			Name: "Mohamed Salah", Born: intPtr(1992),
		})
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, salahID, sameID)

		otherID, created, err := players.GetOrCreate(ctx, player.Player{
			Name: "Mohamed Salah", Born: intPtr(1999),
		})
		require.NoError(t, err)
		require.True(t, created)
		require.NotEqual(t, salahID, otherID)

		noBornID, created, err := players.GetOrCreate(ctx, player.Player{Name: "Trialist"})
		require.NoError(t, err)
		require.True(t, created)

		noBornAgain, created, err := players.GetOrCreate(ctx, player.Player{Name: "Trialist"})
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, noBornID, noBornAgain)
	})

	t.Run("concurrent creation of a player without born", func(t *testing.T) {
		// Racing inserts must fall through to the re-select path even when
		// the conflict lands on the partial index for null born.
		const workers = 8
		ids := make([]int64, workers)
		errs := make([]error, workers)

		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				ids[i], _, errs[i] = players.GetOrCreate(ctx, player.Player{Name: "Youth Prospect"})
			}(i)
		}
		wg.Wait()

		for i := 0; i < workers; i++ {
			require.NoError(t, errs[i])
			require.Equal(t, ids[0], ids[i])
		}

		var count int
		require.NoError(t, db.GetContext(ctx, &count,
			"SELECT COUNT(*) FROM players WHERE player_name = $1", "Youth Prospect"))
		require.Equal(t, 1, count)
	})

	t.Run("player stats chain", func(t *testing.T) {
		playerID, _, err := players.GetOrCreate(ctx, player.Player{
			Name: "Sadio Mane", Born: intPtr(1992),
		})
		require.NoError(t, err)

		linkID, created, err := stats.GetOrCreateLink(ctx, playerstats.PlayerTeamSeason{
			PlayerID: playerID, TeamID: liverpoolID, LeagueID: leagueID, SeasonID: seasonID,
			Age: floatPtr(27.3),
		})
		require.NoError(t, err)
		require.True(t, created)

		sameLink, created, err := stats.GetOrCreateLink(ctx, playerstats.PlayerTeamSeason{
			PlayerID: playerID, TeamID: liverpoolID, LeagueID: leagueID, SeasonID: seasonID,
		})
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, linkID, sameLink)

		inserted, err := stats.InsertStandard(ctx, []playerstats.StandardStats{{
			LinkID: linkID, MatchesPlayed: intPtr(35), Goals: intPtr(18), XG: floatPtr(15.1),
		}}, 10)
		require.NoError(t, err)
		require.Equal(t, 1, inserted)

		inserted, err = stats.InsertStandard(ctx, []playerstats.StandardStats{{
			LinkID: linkID, MatchesPlayed: intPtr(35),
		}}, 10)
		require.NoError(t, err)
		require.Equal(t, 0, inserted)

		// The cmp% value names no passing table column. The insert must
		// drop it instead of emitting it as an identifier.
		inserted, err = stats.InsertCategory(ctx, playerstats.CategoryPassing, []playerstats.CategoryRow{{
			LinkID: linkID,
			Values: map[string]float64{"total_cmp": 900, "total_att": 1100, "key_passes": 55, "cmp%": 81.8},
		}}, 10)
		require.NoError(t, err)
		require.Equal(t, 1, inserted)

		var keyPasses float64
		err = db.GetContext(ctx, &keyPasses,
			"SELECT key_passes FROM player_passing_stats WHERE player_team_season_id = $1", linkID)
		require.NoError(t, err)
		require.Equal(t, 55.0, keyPasses)
	})

	t.Run("admin operations", func(t *testing.T) {
		counts, err := admin.TableStats(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(1), counts["leagues"])
		require.Equal(t, int64(2), counts["teams"])
		require.Equal(t, int64(1), counts["matches"])

		require.NoError(t, admin.Analyze(ctx))

		require.NoError(t, admin.TruncateAll(ctx))
		counts, err = admin.TableStats(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(0), counts["leagues"])
		require.Equal(t, int64(0), counts["matches"])
	})
}
