package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mavdeev/footstats/internal/domain/player"
	qb "github.com/mavdeev/footstats/internal/platform/querybuilder"
)

type playerInsertModel struct {
	Name     string  `db:"player_name"`
	Nation   *string `db:"nation"`
	Born     *int    `db:"born"`
	Position *string `db:"position"`
}

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// GetOrCreate resolves a player by the (name, born) identity. Players
// without a birth year match only rows where born is null.
func (r *PlayerRepository) GetOrCreate(ctx context.Context, p player.Player) (int64, bool, error) {
	id, found, err := r.find(ctx, p.Name, p.Born)
	if err != nil {
		return 0, false, err
	}
	if found {
		return id, false, nil
	}

	// A bare ON CONFLICT arbitrates both the (player_name, born) constraint
	// and the partial unique index for rows with a null born.
	model := playerInsertModel{Name: p.Name, Nation: p.Nation, Born: p.Born, Position: p.Position}
	query, args, err := qb.InsertModel("players", model,
		"ON CONFLICT DO NOTHING RETURNING id")
	if err != nil {
		return 0, false, fmt.Errorf("build insert player query: %w", err)
	}

	var newID int64
	if err := r.db.GetContext(ctx, &newID, query, args...); err != nil {
		if isNotFound(err) {
			id, _, err := r.find(ctx, p.Name, p.Born)
			return id, false, err
		}
		return 0, false, fmt.Errorf("insert player %q: %w", p.Name, err)
	}

	return newID, true, nil
}

func (r *PlayerRepository) find(ctx context.Context, name string, born *int) (int64, bool, error) {
	builder := qb.Select("id").From("players")
	if born != nil {
		builder.Where(qb.Eq("player_name", name), qb.Eq("born", *born))
	} else {
		builder.Where(qb.Eq("player_name", name), qb.IsNull("born"))
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return 0, false, fmt.Errorf("build find player query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("find player %q: %w", name, err)
	}
	return id, true, nil
}
