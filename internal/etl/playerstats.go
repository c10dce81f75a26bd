package etl

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc"

	"github.com/mavdeev/footstats/internal/domain/playerstats"
	"github.com/mavdeev/footstats/internal/platform/logging"
)

// categoryFiles maps each statistics category to its CSV export. The keeper
// files carry the plural spelling the scraper produced.
var categoryFiles = map[playerstats.Category]string{
	playerstats.CategoryStandard:     "player_standard_stats.csv",
	playerstats.CategoryShooting:     "player_shooting_stats.csv",
	playerstats.CategoryPassing:      "player_passing_stats.csv",
	playerstats.CategoryPassingTypes: "player_passing_types_stats.csv",
	playerstats.CategoryDefense:      "player_defense_stats.csv",
	playerstats.CategoryPossession:   "player_possession_stats.csv",
	playerstats.CategoryMisc:         "player_misc_stats.csv",
	playerstats.CategoryKeeper:       "player_keepers_stats.csv",
	playerstats.CategoryKeeperAdv:    "player_keepers_adv_stats.csv",
}

// serviceColumns are CSV columns that identify the row rather than carry a
// stat value. They never become table columns in the dynamic categories.
var serviceColumns = map[string]struct{}{
	"rk": {}, "player": {}, "squad": {}, "nation": {}, "pos": {},
	"age": {}, "born": {}, "matches": {}, "mp": {}, "starts": {},
	"min": {}, "ga90": {}, "90": {}, "att_goal_k": {}, "cmp_launch": {},
}

// PlayerStatsLoader loads all nine per-player statistics categories. The
// standard category goes first: it creates the player and link dimension
// rows every other category resolves against.
type PlayerStatsLoader struct {
	repo      playerstats.Repository
	players   *PlayerResolver
	teams     *TeamResolver
	reader    *CSVReader
	cleaner   *Cleaner
	cache     *IDCache
	batchSize int
	logger    *logging.Logger
}

func NewPlayerStatsLoader(repo playerstats.Repository, players *PlayerResolver, teams *TeamResolver,
	reader *CSVReader, cleaner *Cleaner, cache *IDCache, batchSize int, logger *logging.Logger) *PlayerStatsLoader {
	return &PlayerStatsLoader{
		repo:      repo,
		players:   players,
		teams:     teams,
		reader:    reader,
		cleaner:   cleaner,
		cache:     cache,
		batchSize: batchSize,
		logger:    logger,
	}
}

// LoadAll loads every category present in dir and returns per-category row
// counts. Category files are parsed concurrently, inserts stay sequential
// in category order.
func (l *PlayerStatsLoader) LoadAll(ctx context.Context, dir, leagueCode, seasonCode string) (map[playerstats.Category]int, error) {
	counts := make(map[playerstats.Category]int, len(playerstats.Categories))

	inserted, err := l.loadStandard(ctx, dir, leagueCode, seasonCode)
	if err != nil {
		return counts, err
	}
	counts[playerstats.CategoryStandard] = inserted

	rest := playerstats.Categories[1:]
	parsed := make(map[playerstats.Category][]Record, len(rest))
	parseErrs := make(map[playerstats.Category]error, len(rest))

	var mu sync.Mutex
	var wg conc.WaitGroup
	for _, category := range rest {
		category := category
		wg.Go(func() {
			records, _, err := l.reader.ReadFile(filepath.Join(dir, categoryFiles[category]), "player_"+string(category))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				parseErrs[category] = err
				return
			}
			parsed[category] = records
		})
	}
	wg.Wait()

	leagueID, ok := l.cache.League(leagueCode)
	if !ok {
		return counts, crerr.Newf("league %q not loaded", leagueCode)
	}
	seasonID, ok := l.cache.Season(seasonCode)
	if !ok {
		return counts, crerr.Newf("season %q not loaded", seasonCode)
	}

	for _, category := range rest {
		if err := parseErrs[category]; err != nil {
			if errors.Is(err, ErrFileMissing) {
				continue
			}
			return counts, err
		}

		var inserted int
		var err error
		if category == playerstats.CategoryShooting {
			inserted, err = l.loadShooting(ctx, parsed[category], leagueID, seasonID)
		} else {
			inserted, err = l.loadCategory(ctx, category, parsed[category], leagueID, seasonID)
		}
		if err != nil {
			return counts, fmt.Errorf("load %s stats for %s %s: %w", category, leagueCode, seasonCode, err)
		}
		counts[category] = inserted
	}

	return counts, nil
}

func (l *PlayerStatsLoader) loadStandard(ctx context.Context, dir, leagueCode, seasonCode string) (int, error) {
	records, _, err := l.reader.ReadFile(filepath.Join(dir, categoryFiles[playerstats.CategoryStandard]), "player_standard")
	if err != nil {
		if errors.Is(err, ErrFileMissing) {
			l.logger.Warn("player standard stats file missing", "dir", dir)
			return 0, nil
		}
		return 0, err
	}

	leagueID, ok := l.cache.League(leagueCode)
	if !ok {
		return 0, crerr.Newf("league %q not loaded", leagueCode)
	}
	seasonID, ok := l.cache.Season(seasonCode)
	if !ok {
		return 0, crerr.Newf("season %q not loaded", seasonCode)
	}

	rows := make([]playerstats.StandardStats, 0, len(records))
	for _, record := range records {
		name, ok := l.cleaner.Clean(record.Get("player_name"))
		if !ok || isRepeatedHeader(name) {
			continue
		}

		var nation *string
		if raw, ok := l.cleaner.Clean(record.Get("nation")); ok {
			nation = ParseNationCode(raw)
		}
		born := l.cleaner.Int(record.Get("born"))
		position := l.cleaner.String(record.Get("position"))

		playerID, err := l.players.Resolve(ctx, name, nation, born, position)
		if err != nil {
			if errors.Is(err, errSkipRow) {
				continue
			}
			return 0, err
		}

		teamName, ok := l.cleaner.Clean(record.Get("team_name"))
		if !ok {
			continue
		}
		teamID, err := l.teams.Resolve(ctx, teamName)
		if err != nil {
			if errors.Is(err, errSkipRow) {
				continue
			}
			return 0, err
		}

		linkID, err := l.resolveLink(ctx, playerID, teamID, leagueID, seasonID, l.cleaner.Float(record.Get("age")))
		if err != nil {
			return 0, err
		}

		rows = append(rows, playerstats.StandardStats{
			LinkID: linkID,

			MatchesPlayed: l.cleaner.Int(record.Get("matches_played")),
			Starts:        l.cleaner.Int(record.Get("starts")),
			Minutes:       l.cleaner.Int(record.Get("minutes")),
			Nineties:      l.cleaner.Float(record.Get("ninety_s")),

			Goals:           l.cleaner.Int(record.Get("goals")),
			Assists:         l.cleaner.Int(record.Get("assists")),
			GoalsAssists:    l.cleaner.Int(record.Get("goals_assists")),
			GoalsNonPenalty: l.cleaner.Int(record.Get("goals_non_penalty")),
			Penalties:       l.cleaner.Int(record.Get("penalties")),
			PenaltyAttempts: l.cleaner.Int(record.Get("penalty_attempts")),

			XG:      l.cleaner.Float(record.Get("xg")),
			NPXG:    l.cleaner.Float(record.Get("npxg")),
			XAG:     l.cleaner.Float(record.Get("xag")),
			NPXGXAG: l.cleaner.Float(record.Get("npxg_xag")),

			ProgressiveCarries:    l.cleaner.Int(record.Get("progressive_carries")),
			ProgressivePasses:     l.cleaner.Int(record.Get("progressive_passes")),
			ProgressiveReceptions: l.cleaner.Int(record.Get("progressive_receptions")),
			YellowCards:           l.cleaner.Int(record.Get("yellow_cards")),
			RedCards:              l.cleaner.Int(record.Get("red_cards")),

			GoalsPer90:                  l.cleaner.Float(record.Get("goals_per_90")),
			AssistsPer90:                l.cleaner.Float(record.Get("assists_per_90")),
			GoalsAssistsPer90:           l.cleaner.Float(record.Get("goals_assists_per_90")),
			GoalsNonPenaltyPer90:        l.cleaner.Float(record.Get("goals_non_penalty_per_90")),
			GoalsAssistsNonPenaltyPer90: l.cleaner.Float(record.Get("goals_assists_non_penalty_per_90")),
			XGPer90:                     l.cleaner.Float(record.Get("xg_per_90")),
			XAGPer90:                    l.cleaner.Float(record.Get("xag_per_90")),
			XGXAGPer90:                  l.cleaner.Float(record.Get("xg_xag_per_90")),
			NPXGPer90:                   l.cleaner.Float(record.Get("npxg_per_90")),
			NPXGXAGPer90:                l.cleaner.Float(record.Get("npxg_xag_per_90")),
		})
	}

	inserted, err := l.repo.InsertStandard(ctx, rows, l.batchSize)
	if err != nil {
		return 0, fmt.Errorf("insert player standard stats for %s %s: %w", leagueCode, seasonCode, err)
	}

	l.logger.Info("player standard stats loaded", "league", leagueCode, "season", seasonCode, "count", inserted)
	return inserted, nil
}

func (l *PlayerStatsLoader) loadShooting(ctx context.Context, records []Record, leagueID, seasonID int64) (int, error) {
	rows := make([]playerstats.ShootingStats, 0, len(records))
	for _, record := range records {
		linkID, ok, err := l.lookupLink(ctx, record, leagueID, seasonID)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}

		rows = append(rows, playerstats.ShootingStats{
			LinkID: linkID,

			Nineties:      l.cleaner.Float(record.Get("ninety_s")),
			Goals:         l.cleaner.Int(record.Get("goals")),
			Shots:         l.cleaner.Int(record.Get("shots")),
			ShotsOnTarget: l.cleaner.Int(record.Get("shots_on_target")),
			SOTPct:        l.cleaner.Float(record.Get("sot_pct")),
			ShotsPer90:    l.cleaner.Float(record.Get("shots_per_90")),
			SOTPer90:      l.cleaner.Float(record.Get("sot_per_90")),
			GoalsPerShot:  l.cleaner.Float(record.Get("goals_per_shot")),
			GoalsPerSOT:   l.cleaner.Float(record.Get("goals_per_sot")),
			AvgDistance:   l.cleaner.Float(record.Get("avg_distance")),
			FreeKicks:     l.cleaner.Int(record.Get("free_kicks")),

			Penalties:       l.cleaner.Int(record.Get("penalties")),
			PenaltyAttempts: l.cleaner.Int(record.Get("penalty_attempts")),

			XG:             l.cleaner.Float(record.Get("xg")),
			NPXG:           l.cleaner.Float(record.Get("npxg")),
			NPXGPerShot:    l.cleaner.Float(record.Get("npxg_per_shot")),
			GoalsMinusXG:   l.cleaner.Float(record.Get("goals_minus_xg")),
			NPGoalsMinusXG: l.cleaner.Float(record.Get("np_goals_minus_xg")),
		})
	}

	inserted, err := l.repo.InsertShooting(ctx, rows, l.batchSize)
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func (l *PlayerStatsLoader) loadCategory(ctx context.Context, category playerstats.Category, records []Record, leagueID, seasonID int64) (int, error) {
	rows := make([]playerstats.CategoryRow, 0, len(records))
	dropped := make(map[string]struct{})
	for _, record := range records {
		linkID, ok, err := l.lookupLink(ctx, record, leagueID, seasonID)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}

		values := make(map[string]float64)
		for column, raw := range record {
			if _, skip := serviceColumns[column]; skip {
				continue
			}
			// Headers the field mapping left unmapped do not exist in the
			// category table. They skip the row's value, not the file.
			if !playerstats.KnownColumn(category, column) {
				dropped[column] = struct{}{}
				continue
			}
			if parsed := l.cleaner.Float(raw); parsed != nil {
				values[column] = *parsed
			}
		}

		rows = append(rows, playerstats.CategoryRow{LinkID: linkID, Values: values})
	}

	if len(dropped) > 0 {
		columns := make([]string, 0, len(dropped))
		for column := range dropped {
			columns = append(columns, column)
		}
		sort.Strings(columns)
		l.logger.Warn("skipping unmapped columns",
			"category", string(category), "columns", strings.Join(columns, ", "))
	}

	inserted, err := l.repo.InsertCategory(ctx, category, rows, l.batchSize)
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// lookupLink resolves the player_team_seasons id for a non-standard
// category row. The row identifies the player by name only: birth years are
// absent outside the standard file, so the lookup falls back to the cached
// name index. Rows for players the standard file never introduced get
// dropped, matching the "standard seeds links" contract.
func (l *PlayerStatsLoader) lookupLink(ctx context.Context, record Record, leagueID, seasonID int64) (int64, bool, error) {
	name, ok := l.cleaner.Clean(record.Get("player"))
	if !ok || isRepeatedHeader(name) {
		return 0, false, nil
	}
	teamName, ok := l.cleaner.Clean(record.Get("squad"))
	if !ok {
		return 0, false, nil
	}

	playerID, ok := l.cache.PlayerByName(name)
	if !ok {
		return 0, false, nil
	}
	teamID, err := l.teams.Resolve(ctx, teamName)
	if err != nil {
		if errors.Is(err, errSkipRow) {
			return 0, false, nil
		}
		return 0, false, err
	}

	linkID, ok := l.cache.Link(playerID, teamID, leagueID, seasonID)
	if !ok {
		return 0, false, nil
	}
	return linkID, true, nil
}

func (l *PlayerStatsLoader) resolveLink(ctx context.Context, playerID, teamID, leagueID, seasonID int64, age *float64) (int64, error) {
	if id, ok := l.cache.Link(playerID, teamID, leagueID, seasonID); ok {
		return id, nil
	}

	link := playerstats.PlayerTeamSeason{
		PlayerID: playerID,
		TeamID:   teamID,
		LeagueID: leagueID,
		SeasonID: seasonID,
		Age:      age,
	}
	id, _, err := l.repo.GetOrCreateLink(ctx, link)
	if err != nil {
		return 0, fmt.Errorf("resolve player team season: %w", err)
	}

	l.cache.SetLink(playerID, teamID, leagueID, seasonID, id)
	return id, nil
}

// isRepeatedHeader detects FBref's mid-file header rows that repeat the
// column names as data.
func isRepeatedHeader(value string) bool {
	switch strings.ToLower(value) {
	case "player", "rk", "squad":
		return true
	}
	return false
}
