package etl

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	crerr "github.com/cockroachdb/errors"

	"github.com/mavdeev/footstats/internal/domain/teamstats"
	"github.com/mavdeev/footstats/internal/platform/logging"
)

// TeamStatsFile is the per-team season statistics export.
const TeamStatsFile = "team_standard_stats.csv"

type TeamStatsLoader struct {
	repo      teamstats.Repository
	teams     *TeamResolver
	reader    *CSVReader
	cleaner   *Cleaner
	cache     *IDCache
	batchSize int
	logger    *logging.Logger
}

func NewTeamStatsLoader(repo teamstats.Repository, teams *TeamResolver, reader *CSVReader,
	cleaner *Cleaner, cache *IDCache, batchSize int, logger *logging.Logger) *TeamStatsLoader {
	return &TeamStatsLoader{
		repo:      repo,
		teams:     teams,
		reader:    reader,
		cleaner:   cleaner,
		cache:     cache,
		batchSize: batchSize,
		logger:    logger,
	}
}

func (l *TeamStatsLoader) Load(ctx context.Context, dir, leagueCode, seasonCode string) (int, error) {
	records, _, err := l.reader.ReadFile(filepath.Join(dir, TeamStatsFile), "team_stats")
	if err != nil {
		if errors.Is(err, ErrFileMissing) {
			l.logger.Warn("team stats file missing", "dir", dir)
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

	rows := make([]teamstats.SeasonStats, 0, len(records))
	for _, record := range records {
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

		rows = append(rows, teamstats.SeasonStats{
			LeagueID: leagueID,
			SeasonID: seasonID,
			TeamID:   teamID,

			PlayersUsed:   l.cleaner.Int(record.Get("players_used")),
			AvgAge:        l.cleaner.Float(record.Get("avg_age")),
			PossessionPct: l.cleaner.Float(record.Get("possession_pct")),
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

			YellowCards:        l.cleaner.Int(record.Get("yellow_cards")),
			RedCards:           l.cleaner.Int(record.Get("red_cards")),
			ProgressiveCarries: l.cleaner.Int(record.Get("progressive_carries")),
			ProgressivePasses:  l.cleaner.Int(record.Get("progressive_passes")),

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

	inserted, err := l.repo.BulkInsert(ctx, rows, l.batchSize)
	if err != nil {
		return 0, fmt.Errorf("insert team stats for %s %s: %w", leagueCode, seasonCode, err)
	}

	l.logger.Info("team stats loaded", "league", leagueCode, "season", seasonCode, "count", inserted)
	return inserted, nil
}
