package teamstats

import "context"

type Repository interface {
	BulkInsert(ctx context.Context, stats []SeasonStats, batchSize int) (int, error)
}
