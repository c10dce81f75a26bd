package team

import "context"

type Repository interface {
	// GetOrCreate resolves a team by normalized name, inserting when absent.
	GetOrCreate(ctx context.Context, t Team) (int64, bool, error)
}
