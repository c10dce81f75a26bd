package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mavdeev/footstats/internal/domain/standing"
	qb "github.com/mavdeev/footstats/internal/platform/querybuilder"
)

type standingInsertModel struct {
	LeagueID       int64    `db:"league_id"`
	SeasonID       int64    `db:"season_id"`
	TeamID         int64    `db:"team_id"`
	Rank           *int     `db:"rank"`
	MatchesPlayed  *int     `db:"matches_played"`
	Wins           *int     `db:"wins"`
	Draws          *int     `db:"draws"`
	Losses         *int     `db:"losses"`
	GoalsFor       *int     `db:"goals_for"`
	GoalsAgainst   *int     `db:"goals_against"`
	GoalDifference *int     `db:"goal_difference"`
	Points         *int     `db:"points"`
	PointsPerMatch *float64 `db:"points_per_match"`
	XG             *float64 `db:"xg"`
	XGA            *float64 `db:"xga"`
	XGD            *float64 `db:"xgd"`
	XGDPer90       *float64 `db:"xgd_per_90"`
	Attendance     *int     `db:"attendance"`
	TopScorer      *string  `db:"top_scorer"`
	Goalkeeper     *string  `db:"goalkeeper"`
	Notes          *string  `db:"notes"`
}

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

func (r *StandingRepository) BulkInsert(ctx context.Context, standings []standing.Standing, batchSize int) (int, error) {
	batchSize = clampBatchSize(batchSize)

	total := 0
	for start := 0; start < len(standings); start += batchSize {
		end := start + batchSize
		if end > len(standings) {
			end = len(standings)
		}

		rows := make([]standingInsertModel, 0, end-start)
		for _, s := range standings[start:end] {
			rows = append(rows, standingInsertModel{
				LeagueID:       s.LeagueID,
				SeasonID:       s.SeasonID,
				TeamID:         s.TeamID,
				Rank:           s.Rank,
				MatchesPlayed:  s.MatchesPlayed,
				Wins:           s.Wins,
				Draws:          s.Draws,
				Losses:         s.Losses,
				GoalsFor:       s.GoalsFor,
				GoalsAgainst:   s.GoalsAgainst,
				GoalDifference: s.GoalDifference,
				Points:         s.Points,
				PointsPerMatch: s.PointsPerMatch,
				XG:             s.XG,
				XGA:            s.XGA,
				XGD:            s.XGD,
				XGDPer90:       s.XGDPer90,
				Attendance:     s.Attendance,
				TopScorer:      s.TopScorer,
				Goalkeeper:     s.Goalkeeper,
				Notes:          s.Notes,
			})
		}

		query, args, err := qb.InsertModels("standings", rows,
			"ON CONFLICT (league_id, season_id, team_id) DO NOTHING")
		if err != nil {
			return total, fmt.Errorf("build insert standings query: %w", err)
		}

		result, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return total, fmt.Errorf("insert standings batch: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("count inserted standings: %w", err)
		}
		total += int(affected)
	}

	return total, nil
}
