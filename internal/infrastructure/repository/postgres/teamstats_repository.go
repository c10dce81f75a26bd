package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mavdeev/footstats/internal/domain/teamstats"
	qb "github.com/mavdeev/footstats/internal/platform/querybuilder"
)

type teamStatsInsertModel struct {
	LeagueID int64 `db:"league_id"`
	SeasonID int64 `db:"season_id"`
	TeamID   int64 `db:"team_id"`

	PlayersUsed   *int     `db:"players_used"`
	AvgAge        *float64 `db:"avg_age"`
	PossessionPct *float64 `db:"possession_pct"`
	MatchesPlayed *int     `db:"matches_played"`
	Starts        *int     `db:"starts"`
	Minutes       *int     `db:"minutes"`
	Nineties      *float64 `db:"ninety_s"`

	Goals           *int `db:"goals"`
	Assists         *int `db:"assists"`
	GoalsAssists    *int `db:"goals_assists"`
	GoalsNonPenalty *int `db:"goals_non_penalty"`
	Penalties       *int `db:"penalties"`
	PenaltyAttempts *int `db:"penalty_attempts"`

	XG      *float64 `db:"xg"`
	NPXG    *float64 `db:"npxg"`
	XAG     *float64 `db:"xag"`
	NPXGXAG *float64 `db:"npxg_xag"`

	YellowCards        *int `db:"yellow_cards"`
	RedCards           *int `db:"red_cards"`
	ProgressiveCarries *int `db:"progressive_carries"`
	ProgressivePasses  *int `db:"progressive_passes"`

	GoalsPer90                  *float64 `db:"goals_per_90"`
	AssistsPer90                *float64 `db:"assists_per_90"`
	GoalsAssistsPer90           *float64 `db:"goals_assists_per_90"`
	GoalsNonPenaltyPer90        *float64 `db:"goals_non_penalty_per_90"`
	GoalsAssistsNonPenaltyPer90 *float64 `db:"goals_assists_non_penalty_per_90"`
	XGPer90                     *float64 `db:"xg_per_90"`
	XAGPer90                    *float64 `db:"xag_per_90"`
	XGXAGPer90                  *float64 `db:"xg_xag_per_90"`
	NPXGPer90                   *float64 `db:"npxg_per_90"`
	NPXGXAGPer90                *float64 `db:"npxg_xag_per_90"`
}

type TeamStatsRepository struct {
	db *sqlx.DB
}

func NewTeamStatsRepository(db *sqlx.DB) *TeamStatsRepository {
	return &TeamStatsRepository{db: db}
}

func (r *TeamStatsRepository) BulkInsert(ctx context.Context, stats []teamstats.SeasonStats, batchSize int) (int, error) {
	batchSize = clampBatchSize(batchSize)

	total := 0
	for start := 0; start < len(stats); start += batchSize {
		end := start + batchSize
		if end > len(stats) {
			end = len(stats)
		}

		rows := make([]teamStatsInsertModel, 0, end-start)
		for _, s := range stats[start:end] {
			rows = append(rows, teamStatsInsertModel{
				LeagueID: s.LeagueID,
				SeasonID: s.SeasonID,
				TeamID:   s.TeamID,

				PlayersUsed:   s.PlayersUsed,
				AvgAge:        s.AvgAge,
				PossessionPct: s.PossessionPct,
				MatchesPlayed: s.MatchesPlayed,
				Starts:        s.Starts,
				Minutes:       s.Minutes,
				Nineties:      s.Nineties,

				Goals:           s.Goals,
				Assists:         s.Assists,
				GoalsAssists:    s.GoalsAssists,
				GoalsNonPenalty: s.GoalsNonPenalty,
				Penalties:       s.Penalties,
				PenaltyAttempts: s.PenaltyAttempts,

				XG:      s.XG,
				NPXG:    s.NPXG,
				XAG:     s.XAG,
				NPXGXAG: s.NPXGXAG,

				YellowCards:        s.YellowCards,
				RedCards:           s.RedCards,
				ProgressiveCarries: s.ProgressiveCarries,
				ProgressivePasses:  s.ProgressivePasses,

				GoalsPer90:                  s.GoalsPer90,
				AssistsPer90:                s.AssistsPer90,
				GoalsAssistsPer90:           s.GoalsAssistsPer90,
				GoalsNonPenaltyPer90:        s.GoalsNonPenaltyPer90,
				GoalsAssistsNonPenaltyPer90: s.GoalsAssistsNonPenaltyPer90,
				XGPer90:                     s.XGPer90,
				XAGPer90:                    s.XAGPer90,
				XGXAGPer90:                  s.XGXAGPer90,
				NPXGPer90:                   s.NPXGPer90,
				NPXGXAGPer90:                s.NPXGXAGPer90,
			})
		}

		query, args, err := qb.InsertModels("team_season_stats", rows,
			"ON CONFLICT (league_id, season_id, team_id) DO NOTHING")
		if err != nil {
			return total, fmt.Errorf("build insert team stats query: %w", err)
		}

		result, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return total, fmt.Errorf("insert team stats batch: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("count inserted team stats: %w", err)
		}
		total += int(affected)
	}

	return total, nil
}
