package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mavdeev/footstats/internal/domain/playerstats"
)

// warehouseTables lists every table the loader owns, in dependency order.
func warehouseTables() []string {
	tables := []string{
		"leagues",
		"seasons",
		"teams",
		"players",
		"matches",
		"standings",
		"team_season_stats",
		"player_team_seasons",
	}
	for _, category := range playerstats.Categories {
		tables = append(tables, category.Table())
	}
	return tables
}

// AdminRepository covers warehouse maintenance: row counts, truncation and
// planner statistics.
type AdminRepository struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) TableStats(ctx context.Context) (map[string]int64, error) {
	stats := make(map[string]int64)
	for _, table := range warehouseTables() {
		var count int64
		if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM "+table); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		stats[table] = count
	}
	return stats, nil
}

// TruncateAll empties every warehouse table and resets the id sequences.
func (r *AdminRepository) TruncateAll(ctx context.Context) error {
	for i := len(warehouseTables()) - 1; i >= 0; i-- {
		table := warehouseTables()[i]
		if _, err := r.db.ExecContext(ctx, "TRUNCATE TABLE "+table+" RESTART IDENTITY CASCADE"); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

// Analyze reclaims dead tuples and refreshes planner statistics after a
// bulk load. VACUUM cannot run inside a transaction, so this goes straight
// through the pool connection.
func (r *AdminRepository) Analyze(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "VACUUM ANALYZE"); err != nil {
		return fmt.Errorf("vacuum analyze: %w", err)
	}
	return nil
}
