package league

import "context"

// Repository describes league persistence needs from the loaders.
type Repository interface {
	// GetOrCreate returns the id for the league with the same code,
	// inserting it first when absent. The second result reports whether a
	// new row was created.
	GetOrCreate(ctx context.Context, l League) (int64, bool, error)
	List(ctx context.Context) ([]League, error)
}
