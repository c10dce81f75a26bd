package etl

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	crerr "github.com/cockroachdb/errors"

	"github.com/mavdeev/footstats/internal/domain/standing"
	"github.com/mavdeev/footstats/internal/platform/logging"
)

// StandingsFile is the league-table export inside each league-season
// directory. It is loaded first because it introduces the season's teams.
const StandingsFile = "standings.csv"

type StandingsLoader struct {
	repo      standing.Repository
	teams     *TeamResolver
	reader    *CSVReader
	cleaner   *Cleaner
	cache     *IDCache
	batchSize int
	logger    *logging.Logger
}

func NewStandingsLoader(repo standing.Repository, teams *TeamResolver, reader *CSVReader,
	cleaner *Cleaner, cache *IDCache, batchSize int, logger *logging.Logger) *StandingsLoader {
	return &StandingsLoader{
		repo:      repo,
		teams:     teams,
		reader:    reader,
		cleaner:   cleaner,
		cache:     cache,
		batchSize: batchSize,
		logger:    logger,
	}
}

func (l *StandingsLoader) Load(ctx context.Context, dir, leagueCode, seasonCode string) (int, error) {
	records, _, err := l.reader.ReadFile(filepath.Join(dir, StandingsFile), "standings")
	if err != nil {
		if errors.Is(err, ErrFileMissing) {
			l.logger.Warn("standings file missing", "dir", dir)
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

	rows := make([]standing.Standing, 0, len(records))
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

		rows = append(rows, standing.Standing{
			LeagueID:       leagueID,
			SeasonID:       seasonID,
			TeamID:         teamID,
			Rank:           l.cleaner.Int(record.Get("rank")),
			MatchesPlayed:  l.cleaner.Int(record.Get("matches_played")),
			Wins:           l.cleaner.Int(record.Get("wins")),
			Draws:          l.cleaner.Int(record.Get("draws")),
			Losses:         l.cleaner.Int(record.Get("losses")),
			GoalsFor:       l.cleaner.Int(record.Get("goals_for")),
			GoalsAgainst:   l.cleaner.Int(record.Get("goals_against")),
			GoalDifference: l.cleaner.Int(record.Get("goal_difference")),
			Points:         l.cleaner.Int(record.Get("points")),
			PointsPerMatch: l.cleaner.Float(record.Get("points_per_match")),
			XG:             l.cleaner.Float(record.Get("xg")),
			XGA:            l.cleaner.Float(record.Get("xga")),
			XGD:            l.cleaner.Float(record.Get("xgd")),
			XGDPer90:       l.cleaner.Float(record.Get("xgd_per_90")),
			Attendance:     l.cleaner.Int(record.Get("attendance")),
			TopScorer:      l.cleaner.String(record.Get("top_scorer")),
			Goalkeeper:     l.cleaner.String(record.Get("goalkeeper")),
			Notes:          l.cleaner.String(record.Get("notes")),
		})
	}

	inserted, err := l.repo.BulkInsert(ctx, rows, l.batchSize)
	if err != nil {
		return 0, fmt.Errorf("insert standings for %s %s: %w", leagueCode, seasonCode, err)
	}

	l.logger.Info("standings loaded", "league", leagueCode, "season", seasonCode, "count", inserted)
	return inserted, nil
}
