package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mavdeev/footstats/internal/domain/season"
	qb "github.com/mavdeev/footstats/internal/platform/querybuilder"
)

type seasonInsertModel struct {
	Code      string `db:"season_code"`
	StartYear *int   `db:"start_year"`
	EndYear   *int   `db:"end_year"`
}

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) GetOrCreate(ctx context.Context, s season.Season) (int64, bool, error) {
	id, found, err := r.findByCode(ctx, s.Code)
	if err != nil {
		return 0, false, err
	}
	if found {
		return id, false, nil
	}

	model := seasonInsertModel{Code: s.Code, StartYear: s.StartYear, EndYear: s.EndYear}
	query, args, err := qb.InsertModel("seasons", model,
		"ON CONFLICT (season_code) DO NOTHING RETURNING id")
	if err != nil {
		return 0, false, fmt.Errorf("build insert season query: %w", err)
	}

	var newID int64
	if err := r.db.GetContext(ctx, &newID, query, args...); err != nil {
		if isNotFound(err) {
			id, _, err := r.findByCode(ctx, s.Code)
			return id, false, err
		}
		return 0, false, fmt.Errorf("insert season %s: %w", s.Code, err)
	}

	return newID, true, nil
}

func (r *SeasonRepository) List(ctx context.Context) ([]season.Season, error) {
	query, args, err := qb.Select("id", "season_code", "start_year", "end_year").
		From("seasons").
		OrderBy("season_code").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select seasons query: %w", err)
	}

	var rows []struct {
		ID        int64  `db:"id"`
		Code      string `db:"season_code"`
		StartYear *int   `db:"start_year"`
		EndYear   *int   `db:"end_year"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select seasons: %w", err)
	}

	out := make([]season.Season, 0, len(rows))
	for _, row := range rows {
		out = append(out, season.Season{
			ID:        row.ID,
			Code:      row.Code,
			StartYear: row.StartYear,
			EndYear:   row.EndYear,
		})
	}
	return out, nil
}

func (r *SeasonRepository) findByCode(ctx context.Context, code string) (int64, bool, error) {
	query, args, err := qb.Select("id").From("seasons").
		Where(qb.Eq("season_code", code)).
		ToSQL()
	if err != nil {
		return 0, false, fmt.Errorf("build find season query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("find season %s: %w", code, err)
	}
	return id, true, nil
}
