package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mavdeev/footstats/internal/domain/league"
	qb "github.com/mavdeev/footstats/internal/platform/querybuilder"
)

type leagueInsertModel struct {
	Code    string `db:"league_code"`
	Name    string `db:"league_name"`
	Country string `db:"country"`
	CompID  int    `db:"comp_id"`
}

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) GetOrCreate(ctx context.Context, l league.League) (int64, bool, error) {
	id, found, err := r.findByCode(ctx, l.Code)
	if err != nil {
		return 0, false, err
	}
	if found {
		return id, false, nil
	}

	model := leagueInsertModel{Code: l.Code, Name: l.Name, Country: l.Country, CompID: l.CompID}
	query, args, err := qb.InsertModel("leagues", model,
		"ON CONFLICT (league_code) DO NOTHING RETURNING id")
	if err != nil {
		return 0, false, fmt.Errorf("build insert league query: %w", err)
	}

	var newID int64
	if err := r.db.GetContext(ctx, &newID, query, args...); err != nil {
		if isNotFound(err) {
			// Lost a race with a concurrent insert; the row exists now.
			id, _, err := r.findByCode(ctx, l.Code)
			return id, false, err
		}
		return 0, false, fmt.Errorf("insert league %s: %w", l.Code, err)
	}

	return newID, true, nil
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("id", "league_code", "league_name", "country", "comp_id").
		From("leagues").
		OrderBy("league_code").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []struct {
		ID      int64  `db:"id"`
		Code    string `db:"league_code"`
		Name    string `db:"league_name"`
		Country string `db:"country"`
		CompID  int    `db:"comp_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, league.League{
			ID:      row.ID,
			Code:    row.Code,
			Name:    row.Name,
			Country: row.Country,
			CompID:  row.CompID,
		})
	}
	return out, nil
}

func (r *LeagueRepository) findByCode(ctx context.Context, code string) (int64, bool, error) {
	query, args, err := qb.Select("id").From("leagues").
		Where(qb.Eq("league_code", code)).
		ToSQL()
	if err != nil {
		return 0, false, fmt.Errorf("build find league query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("find league %s: %w", code, err)
	}
	return id, true, nil
}
