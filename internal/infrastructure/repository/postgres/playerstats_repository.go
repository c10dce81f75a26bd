package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mavdeev/footstats/internal/domain/playerstats"
	qb "github.com/mavdeev/footstats/internal/platform/querybuilder"
)

type linkInsertModel struct {
	PlayerID int64    `db:"player_id"`
	TeamID   int64    `db:"team_id"`
	LeagueID int64    `db:"league_id"`
	SeasonID int64    `db:"season_id"`
	Age      *float64 `db:"age"`
}

type standardStatsInsertModel struct {
	LinkID int64 `db:"player_team_season_id"`

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

	ProgressiveCarries    *int `db:"progressive_carries"`
	ProgressivePasses     *int `db:"progressive_passes"`
	ProgressiveReceptions *int `db:"progressive_receptions"`
	YellowCards           *int `db:"yellow_cards"`
	RedCards              *int `db:"red_cards"`

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

type shootingStatsInsertModel struct {
	LinkID int64 `db:"player_team_season_id"`

	Nineties      *float64 `db:"ninety_s"`
	Goals         *int     `db:"goals"`
	Shots         *int     `db:"shots"`
	ShotsOnTarget *int     `db:"shots_on_target"`
	SOTPct        *float64 `db:"sot_pct"`
	ShotsPer90    *float64 `db:"shots_per_90"`
	SOTPer90      *float64 `db:"sot_per_90"`
	GoalsPerShot  *float64 `db:"goals_per_shot"`
	GoalsPerSOT   *float64 `db:"goals_per_sot"`
	AvgDistance   *float64 `db:"avg_distance"`
	FreeKicks     *int     `db:"free_kicks"`

	Penalties       *int `db:"penalties"`
	PenaltyAttempts *int `db:"penalty_attempts"`

	XG             *float64 `db:"xg"`
	NPXG           *float64 `db:"npxg"`
	NPXGPerShot    *float64 `db:"npxg_per_shot"`
	GoalsMinusXG   *float64 `db:"goals_minus_xg"`
	NPGoalsMinusXG *float64 `db:"np_goals_minus_xg"`
}

type PlayerStatsRepository struct {
	db *sqlx.DB
}

func NewPlayerStatsRepository(db *sqlx.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

func (r *PlayerStatsRepository) GetOrCreateLink(ctx context.Context, link playerstats.PlayerTeamSeason) (int64, bool, error) {
	id, found, err := r.findLink(ctx, link)
	if err != nil {
		return 0, false, err
	}
	if found {
		return id, false, nil
	}

	model := linkInsertModel{
		PlayerID: link.PlayerID,
		TeamID:   link.TeamID,
		LeagueID: link.LeagueID,
		SeasonID: link.SeasonID,
		Age:      link.Age,
	}
	query, args, err := qb.InsertModel("player_team_seasons", model,
		"ON CONFLICT (player_id, team_id, league_id, season_id) DO NOTHING RETURNING id")
	if err != nil {
		return 0, false, fmt.Errorf("build insert player team season query: %w", err)
	}

	var newID int64
	if err := r.db.GetContext(ctx, &newID, query, args...); err != nil {
		if isNotFound(err) {
			id, _, err := r.findLink(ctx, link)
			return id, false, err
		}
		return 0, false, fmt.Errorf("insert player team season: %w", err)
	}

	return newID, true, nil
}

func (r *PlayerStatsRepository) InsertStandard(ctx context.Context, stats []playerstats.StandardStats, batchSize int) (int, error) {
	batchSize = clampBatchSize(batchSize)

	total := 0
	for start := 0; start < len(stats); start += batchSize {
		end := start + batchSize
		if end > len(stats) {
			end = len(stats)
		}

		rows := make([]standardStatsInsertModel, 0, end-start)
		for _, s := range stats[start:end] {
			rows = append(rows, standardStatsInsertModel{
				LinkID: s.LinkID,

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

				ProgressiveCarries:    s.ProgressiveCarries,
				ProgressivePasses:     s.ProgressivePasses,
				ProgressiveReceptions: s.ProgressiveReceptions,
				YellowCards:           s.YellowCards,
				RedCards:              s.RedCards,

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

		query, args, err := qb.InsertModels("player_standard_stats", rows,
			"ON CONFLICT (player_team_season_id) DO NOTHING")
		if err != nil {
			return total, fmt.Errorf("build insert player standard stats query: %w", err)
		}

		result, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return total, fmt.Errorf("insert player standard stats batch: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("count inserted player standard stats: %w", err)
		}
		total += int(affected)
	}

	return total, nil
}

func (r *PlayerStatsRepository) InsertShooting(ctx context.Context, stats []playerstats.ShootingStats, batchSize int) (int, error) {
	batchSize = clampBatchSize(batchSize)

	total := 0
	for start := 0; start < len(stats); start += batchSize {
		end := start + batchSize
		if end > len(stats) {
			end = len(stats)
		}

		rows := make([]shootingStatsInsertModel, 0, end-start)
		for _, s := range stats[start:end] {
			rows = append(rows, shootingStatsInsertModel{
				LinkID: s.LinkID,

				Nineties:      s.Nineties,
				Goals:         s.Goals,
				Shots:         s.Shots,
				ShotsOnTarget: s.ShotsOnTarget,
				SOTPct:        s.SOTPct,
				ShotsPer90:    s.ShotsPer90,
				SOTPer90:      s.SOTPer90,
				GoalsPerShot:  s.GoalsPerShot,
				GoalsPerSOT:   s.GoalsPerSOT,
				AvgDistance:   s.AvgDistance,
				FreeKicks:     s.FreeKicks,

				Penalties:       s.Penalties,
				PenaltyAttempts: s.PenaltyAttempts,

				XG:             s.XG,
				NPXG:           s.NPXG,
				NPXGPerShot:    s.NPXGPerShot,
				GoalsMinusXG:   s.GoalsMinusXG,
				NPGoalsMinusXG: s.NPGoalsMinusXG,
			})
		}

		query, args, err := qb.InsertModels("player_shooting_stats", rows,
			"ON CONFLICT (player_team_season_id) DO NOTHING")
		if err != nil {
			return total, fmt.Errorf("build insert player shooting stats query: %w", err)
		}

		result, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return total, fmt.Errorf("insert player shooting stats batch: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("count inserted player shooting stats: %w", err)
		}
		total += int(affected)
	}

	return total, nil
}

// InsertCategory loads one of the dynamic-column categories. Columns are
// the sorted union across the batch, restricted to the columns the category
// table actually has; rows missing a column insert null.
func (r *PlayerStatsRepository) InsertCategory(ctx context.Context, category playerstats.Category, rows []playerstats.CategoryRow, batchSize int) (int, error) {
	if !category.Valid() {
		return 0, fmt.Errorf("unknown player stats category %q", category)
	}
	batchSize = clampBatchSize(batchSize)

	total := 0
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		columns := playerstats.InsertableColumns(category, batch)
		builder := qb.InsertInto(category.Table()).
			Columns(append([]string{"player_team_season_id"}, columns...)...)
		for _, row := range batch {
			values := make([]any, 0, len(columns)+1)
			values = append(values, row.LinkID)
			for _, column := range columns {
				if v, ok := row.Values[column]; ok {
					values = append(values, v)
				} else {
					values = append(values, nil)
				}
			}
			builder.Values(values...)
		}

		query, args, err := builder.
			Suffix("ON CONFLICT (player_team_season_id) DO NOTHING").
			ToSQL()
		if err != nil {
			return total, fmt.Errorf("build insert %s query: %w", category.Table(), err)
		}

		result, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return total, fmt.Errorf("insert %s batch: %w", category.Table(), err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("count inserted %s rows: %w", category.Table(), err)
		}
		total += int(affected)
	}

	return total, nil
}

func (r *PlayerStatsRepository) findLink(ctx context.Context, link playerstats.PlayerTeamSeason) (int64, bool, error) {
	query, args, err := qb.Select("id").From("player_team_seasons").
		Where(
			qb.Eq("player_id", link.PlayerID),
			qb.Eq("team_id", link.TeamID),
			qb.Eq("league_id", link.LeagueID),
			qb.Eq("season_id", link.SeasonID),
		).
		ToSQL()
	if err != nil {
		return 0, false, fmt.Errorf("build find player team season query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("find player team season: %w", err)
	}
	return id, true, nil
}
