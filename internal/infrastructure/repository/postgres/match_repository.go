package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mavdeev/footstats/internal/domain/match"
	qb "github.com/mavdeev/footstats/internal/platform/querybuilder"
)

type matchInsertModel struct {
	LeagueID   int64     `db:"league_id"`
	SeasonID   int64     `db:"season_id"`
	MatchWeek  *int      `db:"match_week"`
	Date       time.Time `db:"match_date"`
	Kickoff    *string   `db:"match_time"`
	DayOfWeek  *string   `db:"day_of_week"`
	HomeTeamID int64     `db:"home_team_id"`
	AwayTeamID int64     `db:"away_team_id"`
	Score      *string   `db:"score"`
	HomeGoals  *int      `db:"home_goals"`
	AwayGoals  *int      `db:"away_goals"`
	HomeXG     *float64  `db:"home_xg"`
	AwayXG     *float64  `db:"away_xg"`
	Venue      *string   `db:"venue"`
	Referee    *string   `db:"referee"`
	Attendance *int      `db:"attendance"`
	ReportURL  *string   `db:"match_report_url"`
	Notes      *string   `db:"notes"`
}

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// BulkInsert loads matches in batches. The fixture identity constraint
// makes replays of the same file a no-op; the returned count covers only
// rows actually inserted.
func (r *MatchRepository) BulkInsert(ctx context.Context, matches []match.Match, batchSize int) (int, error) {
	batchSize = clampBatchSize(batchSize)

	total := 0
	for start := 0; start < len(matches); start += batchSize {
		end := start + batchSize
		if end > len(matches) {
			end = len(matches)
		}

		rows := make([]matchInsertModel, 0, end-start)
		for _, m := range matches[start:end] {
			rows = append(rows, matchInsertModel{
				LeagueID:   m.LeagueID,
				SeasonID:   m.SeasonID,
				MatchWeek:  m.MatchWeek,
				Date:       m.Date,
				Kickoff:    m.Kickoff,
				DayOfWeek:  m.DayOfWeek,
				HomeTeamID: m.HomeTeamID,
				AwayTeamID: m.AwayTeamID,
				Score:      m.Score,
				HomeGoals:  m.HomeGoals,
				AwayGoals:  m.AwayGoals,
				HomeXG:     m.HomeXG,
				AwayXG:     m.AwayXG,
				Venue:      m.Venue,
				Referee:    m.Referee,
				Attendance: m.Attendance,
				ReportURL:  m.ReportURL,
				Notes:      m.Notes,
			})
		}

		query, args, err := qb.InsertModels("matches", rows,
			"ON CONFLICT (league_id, season_id, match_date, home_team_id, away_team_id) DO NOTHING")
		if err != nil {
			return total, fmt.Errorf("build insert matches query: %w", err)
		}

		result, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return total, fmt.Errorf("insert matches batch: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("count inserted matches: %w", err)
		}
		total += int(affected)
	}

	return total, nil
}
