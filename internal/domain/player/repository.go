package player

import "context"

type Repository interface {
	// GetOrCreate resolves a player by (name, born), inserting when absent.
	GetOrCreate(ctx context.Context, p Player) (int64, bool, error)
}
