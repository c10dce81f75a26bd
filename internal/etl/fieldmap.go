package etl

import (
	"fmt"
	"strings"
)

// FieldMapper renames CSV headers to their database column names using the
// per-file mapping tables from config. Headers without a mapping pass
// through lowercased.
type FieldMapper struct {
	mappings map[string]map[string]string
}

func NewFieldMapper(mappings map[string]map[string]string) *FieldMapper {
	return &FieldMapper{mappings: mappings}
}

// Rename maps a header row for the given mapping key ("matches",
// "player_standard_stats", ...). Unknown keys leave headers untouched
// apart from normalization. Repeated headers get a positional suffix
// before lookup, so a file with two xG columns exposes "xg" and "xg.1"
// to the mapping table.
func (m *FieldMapper) Rename(key string, headers []string) []string {
	mapping := m.mappings[key]

	renamed := make([]string, len(headers))
	seen := make(map[string]int, len(headers))
	for i, header := range headers {
		normalized := strings.ToLower(strings.TrimSpace(header))
		if n := seen[normalized]; n > 0 {
			seen[normalized] = n + 1
			normalized = fmt.Sprintf("%s.%d", normalized, n)
		} else {
			seen[normalized] = 1
		}
		if mapped, ok := mapping[normalized]; ok {
			normalized = mapped
		}
		renamed[i] = normalized
	}

	return renamed
}
