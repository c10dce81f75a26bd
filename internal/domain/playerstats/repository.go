package playerstats

import "context"

type Repository interface {
	// GetOrCreateLink resolves the player_team_seasons row for the
	// (player, team, league, season) tuple, inserting when absent.
	GetOrCreateLink(ctx context.Context, link PlayerTeamSeason) (int64, bool, error)

	InsertStandard(ctx context.Context, rows []StandardStats, batchSize int) (int, error)
	InsertShooting(ctx context.Context, rows []ShootingStats, batchSize int) (int, error)
	// InsertCategory loads one of the dynamic-column categories.
	InsertCategory(ctx context.Context, category Category, rows []CategoryRow, batchSize int) (int, error)
}
