package postgres

import (
	"database/sql"
	"errors"
)

const defaultBatchSize = 1000

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func clampBatchSize(batchSize int) int {
	if batchSize <= 0 {
		return defaultBatchSize
	}
	return batchSize
}
