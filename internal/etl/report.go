package etl

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bytedance/sonic"

	"github.com/mavdeev/footstats/internal/platform/logging"
)

// DirectoryResult records the outcome of one league-season directory.
type DirectoryResult struct {
	Directory   string         `json:"directory"`
	League      string         `json:"league"`
	Season      string         `json:"season"`
	Status      string         `json:"status"` // ok, failed, skipped
	Error       string         `json:"error,omitempty"`
	Standings   int            `json:"standings"`
	Matches     int            `json:"matches"`
	TeamStats   int            `json:"team_stats"`
	PlayerStats map[string]int `json:"player_stats,omitempty"`
	DurationMS  int64          `json:"duration_ms"`
}

// Report summarizes a full run for the log and the JSON report file.
type Report struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMS int64     `json:"duration_ms"`

	Leagues int `json:"leagues"`
	Seasons int `json:"seasons"`
	Teams   int `json:"teams"`
	Players int `json:"players"`

	Standings   int            `json:"standings"`
	Matches     int            `json:"matches"`
	TeamStats   int            `json:"team_stats"`
	PlayerStats map[string]int `json:"player_stats"`

	Directories []DirectoryResult `json:"directories"`
	TableCounts map[string]int64  `json:"table_counts,omitempty"`
}

// WriteJSON writes the report to path, creating parent directories.
func (r *Report) WriteJSON(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	data, err := sonic.ConfigDefault.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Log prints the migration summary the way operators expect to scan it.
func (r *Report) Log(logger *logging.Logger) {
	logger.Info("migration summary",
		"leagues", r.Leagues,
		"seasons", r.Seasons,
		"teams", r.Teams,
		"players", r.Players,
		"matches", r.Matches,
		"standings", r.Standings,
		"team_stats", r.TeamStats,
		"duration", time.Duration(r.DurationMS)*time.Millisecond,
	)

	categories := make([]string, 0, len(r.PlayerStats))
	for category := range r.PlayerStats {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		logger.Info("player stats summary", "category", category, "rows", r.PlayerStats[category])
	}

	if len(r.TableCounts) > 0 {
		tables := make([]string, 0, len(r.TableCounts))
		for table := range r.TableCounts {
			tables = append(tables, table)
		}
		sort.Strings(tables)
		for _, table := range tables {
			if r.TableCounts[table] > 0 {
				logger.Info("table row count", "table", table, "rows", r.TableCounts[table])
			}
		}
	}
}
