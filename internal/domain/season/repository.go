package season

import "context"

type Repository interface {
	GetOrCreate(ctx context.Context, s Season) (int64, bool, error)
	List(ctx context.Context) ([]Season, error)
}
