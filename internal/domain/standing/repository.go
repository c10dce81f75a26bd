package standing

import "context"

type Repository interface {
	BulkInsert(ctx context.Context, standings []Standing, batchSize int) (int, error)
}
