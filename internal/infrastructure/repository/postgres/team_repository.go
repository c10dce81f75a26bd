package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mavdeev/footstats/internal/domain/team"
	qb "github.com/mavdeev/footstats/internal/platform/querybuilder"
)

type teamInsertModel struct {
	Name           string `db:"team_name"`
	NormalizedName string `db:"normalized_name"`
}

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetOrCreate(ctx context.Context, t team.Team) (int64, bool, error) {
	id, found, err := r.findByNormalizedName(ctx, t.NormalizedName)
	if err != nil {
		return 0, false, err
	}
	if found {
		return id, false, nil
	}

	model := teamInsertModel{Name: t.Name, NormalizedName: t.NormalizedName}
	query, args, err := qb.InsertModel("teams", model,
		"ON CONFLICT (normalized_name) DO NOTHING RETURNING id")
	if err != nil {
		return 0, false, fmt.Errorf("build insert team query: %w", err)
	}

	var newID int64
	if err := r.db.GetContext(ctx, &newID, query, args...); err != nil {
		if isNotFound(err) {
			id, _, err := r.findByNormalizedName(ctx, t.NormalizedName)
			return id, false, err
		}
		return 0, false, fmt.Errorf("insert team %q: %w", t.Name, err)
	}

	return newID, true, nil
}

func (r *TeamRepository) findByNormalizedName(ctx context.Context, normalized string) (int64, bool, error) {
	query, args, err := qb.Select("id").From("teams").
		Where(qb.Eq("normalized_name", normalized)).
		ToSQL()
	if err != nil {
		return 0, false, fmt.Errorf("build find team query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("find team %q: %w", normalized, err)
	}
	return id, true, nil
}
