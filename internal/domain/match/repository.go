package match

import "context"

type Repository interface {
	// BulkInsert loads matches in batches of batchSize. Duplicate fixtures
	// (same league, season, date and teams) are skipped, so re-running a
	// load is safe. Returns the number of rows actually inserted.
	BulkInsert(ctx context.Context, matches []Match, batchSize int) (int, error)
}
