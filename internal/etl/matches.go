package etl

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	crerr "github.com/cockroachdb/errors"

	"github.com/mavdeev/footstats/internal/domain/match"
	"github.com/mavdeev/footstats/internal/platform/logging"
)

// ScheduleFile is the fixtures export inside each league-season directory.
const ScheduleFile = "schedule_results.csv"

// MatchesLoader loads fixtures from schedule_results.csv into the matches
// fact table.
type MatchesLoader struct {
	repo      match.Repository
	teams     *TeamResolver
	reader    *CSVReader
	cleaner   *Cleaner
	validator *RowValidator
	cache     *IDCache
	batchSize int
	strict    bool
	logger    *logging.Logger
}

func NewMatchesLoader(repo match.Repository, teams *TeamResolver, reader *CSVReader,
	cleaner *Cleaner, validator *RowValidator, cache *IDCache,
	batchSize int, strict bool, logger *logging.Logger) *MatchesLoader {
	return &MatchesLoader{
		repo:      repo,
		teams:     teams,
		reader:    reader,
		cleaner:   cleaner,
		validator: validator,
		cache:     cache,
		batchSize: batchSize,
		strict:    strict,
		logger:    logger,
	}
}

// Load reads the schedule file in dir and bulk-inserts fixtures. A missing
// file loads nothing. Rows without a parseable date or resolvable teams are
// skipped.
func (l *MatchesLoader) Load(ctx context.Context, dir, leagueCode, seasonCode string) (int, error) {
	records, _, err := l.reader.ReadFile(filepath.Join(dir, ScheduleFile), "matches")
	if err != nil {
		if errors.Is(err, ErrFileMissing) {
			l.logger.Warn("schedule file missing", "dir", dir)
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

	matches := make([]match.Match, 0, len(records))
	for _, record := range records {
		row, err := l.buildMatch(ctx, record, leagueID, seasonID)
		if err != nil {
			if errors.Is(err, errSkipRow) {
				continue
			}
			if l.strict {
				return 0, err
			}
			l.logger.Warn("dropping match row", "dir", dir, "error", err.Error())
			continue
		}
		matches = append(matches, row)
	}

	inserted, err := l.repo.BulkInsert(ctx, matches, l.batchSize)
	if err != nil {
		return 0, fmt.Errorf("insert matches for %s %s: %w", leagueCode, seasonCode, err)
	}

	l.logger.Info("matches loaded", "league", leagueCode, "season", seasonCode, "count", inserted)
	return inserted, nil
}

func (l *MatchesLoader) buildMatch(ctx context.Context, record Record, leagueID, seasonID int64) (match.Match, error) {
	rawDate, _ := l.cleaner.Clean(record.Get("match_date"))
	date, ok := ParseDate(rawDate)
	if !ok {
		return match.Match{}, crerr.Wrap(errSkipRow, "unparseable match date")
	}

	homeName, ok := l.cleaner.Clean(record.Get("home_team_name"))
	if !ok {
		return match.Match{}, crerr.Wrap(errSkipRow, "missing home team")
	}
	awayName, ok := l.cleaner.Clean(record.Get("away_team_name"))
	if !ok {
		return match.Match{}, crerr.Wrap(errSkipRow, "missing away team")
	}

	homeID, err := l.teams.Resolve(ctx, homeName)
	if err != nil {
		return match.Match{}, err
	}
	awayID, err := l.teams.Resolve(ctx, awayName)
	if err != nil {
		return match.Match{}, err
	}

	score := l.cleaner.String(record.Get("score"))
	var homeGoals, awayGoals *int
	if score != nil {
		homeGoals, awayGoals = ParseScore(*score)
	}

	row := match.Match{
		LeagueID:   leagueID,
		SeasonID:   seasonID,
		MatchWeek:  l.cleaner.Int(record.Get("match_week")),
		Date:       date,
		Kickoff:    ParseKickoff(record.Get("match_time")),
		DayOfWeek:  l.cleaner.String(record.Get("day_of_week")),
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		Score:      score,
		HomeGoals:  homeGoals,
		AwayGoals:  awayGoals,
		HomeXG:     l.cleaner.Float(record.Get("home_xg")),
		AwayXG:     l.cleaner.Float(record.Get("away_xg")),
		Venue:      l.cleaner.String(record.Get("venue")),
		Referee:    l.cleaner.String(record.Get("referee")),
		Attendance: l.cleaner.Int(record.Get("attendance")),
		ReportURL:  l.cleaner.String(record.Get("match_report_url")),
		Notes:      l.cleaner.String(record.Get("notes")),
	}

	if err := l.validator.ValidateMatch(row); err != nil {
		return match.Match{}, crerr.Wrapf(errSkipRow, "%v", err)
	}
	return row, nil
}
