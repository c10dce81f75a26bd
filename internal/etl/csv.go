package etl

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	crerr "github.com/cockroachdb/errors"

	"github.com/mavdeev/footstats/internal/platform/logging"
)

// ErrFileMissing marks an expected source file that is absent from a
// league-season directory. Loaders treat it as "nothing to load".
var ErrFileMissing = crerr.New("source file missing")

// Record is one CSV data row keyed by mapped column name.
type Record map[string]string

func (r Record) Get(column string) string {
	return r[column]
}

// CSVReader reads source files into records. In strict mode a malformed row
// fails the whole file, otherwise the row is logged and skipped.
type CSVReader struct {
	mapper *FieldMapper
	strict bool
	logger *logging.Logger
}

func NewCSVReader(mapper *FieldMapper, strict bool, logger *logging.Logger) *CSVReader {
	return &CSVReader{mapper: mapper, strict: strict, logger: logger}
}

// ReadFile parses path into records, renaming headers with the mapping for
// mappingKey. The skipped count reports malformed rows dropped in
// non-strict mode.
func (r *CSVReader) ReadFile(path, mappingKey string) (records []Record, skipped int, err error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, crerr.Wrapf(ErrFileMissing, "%s", path)
		}
		return nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	rawHeaders, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("read header of %s: %w", path, err)
	}
	headers := r.mapper.Rename(mappingKey, rawHeaders)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if r.strict {
				return nil, skipped, fmt.Errorf("read %s: %w", path, err)
			}
			skipped++
			r.logger.Warn("skipping malformed row",
				"file", path,
				"error", err.Error(),
			)
			continue
		}

		record := make(Record, len(headers))
		for i, header := range headers {
			if i < len(row) {
				record[header] = row[i]
			}
		}
		records = append(records, record)
	}

	return records, skipped, nil
}
