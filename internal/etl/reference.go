package etl

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/mavdeev/footstats/internal/config"
	"github.com/mavdeev/footstats/internal/domain/league"
	"github.com/mavdeev/footstats/internal/domain/season"
	"github.com/mavdeev/footstats/internal/platform/logging"
)

// ReferenceLoader seeds the league and season dimensions before any fact
// data is touched.
type ReferenceLoader struct {
	leagues league.Repository
	seasons season.Repository
	cache   *IDCache
	logger  *logging.Logger
}

func NewReferenceLoader(leagues league.Repository, seasons season.Repository, cache *IDCache, logger *logging.Logger) *ReferenceLoader {
	return &ReferenceLoader{
		leagues: leagues,
		seasons: seasons,
		cache:   cache,
		logger:  logger,
	}
}

// LoadLeagues upserts every league from the registry and caches its id.
func (l *ReferenceLoader) LoadLeagues(ctx context.Context, registry map[string]config.LeagueEntry) (int, error) {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		entry := registry[code]
		record := league.League{
			Code:    code,
			Name:    entry.Name,
			Country: entry.Country,
			CompID:  entry.CompID,
		}
		if err := record.Validate(); err != nil {
			return 0, fmt.Errorf("league %s: %w", code, err)
		}

		id, created, err := l.leagues.GetOrCreate(ctx, record)
		if err != nil {
			return 0, fmt.Errorf("load league %s: %w", code, err)
		}
		l.cache.SetLeague(code, id)
		if created {
			l.logger.Debug("created league", "code", code, "id", id)
		}
	}

	l.logger.Info("leagues loaded", "count", len(codes))
	return len(codes), nil
}

// LoadSeasons scans the raw-data directory names, derives the distinct
// season codes and upserts them.
func (l *ReferenceLoader) LoadSeasons(ctx context.Context, rawDataPath string) (int, error) {
	entries, err := os.ReadDir(rawDataPath)
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", rawDataPath, err)
	}

	codes := make(map[string]struct{})
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		_, seasonCode, err := ParseDirectoryName(entry.Name())
		if err != nil {
			l.logger.Warn("skipping unrecognized directory", "name", entry.Name())
			continue
		}
		codes[seasonCode] = struct{}{}
	}

	sorted := make([]string, 0, len(codes))
	for code := range codes {
		sorted = append(sorted, code)
	}
	sort.Strings(sorted)

	for _, code := range sorted {
		start, end := SeasonYears(code)
		record := season.Season{Code: code, StartYear: start, EndYear: end}
		if err := record.Validate(); err != nil {
			return 0, fmt.Errorf("season %s: %w", code, err)
		}

		id, created, err := l.seasons.GetOrCreate(ctx, record)
		if err != nil {
			return 0, fmt.Errorf("load season %s: %w", code, err)
		}
		l.cache.SetSeason(code, id)
		if created {
			l.logger.Debug("created season", "code", code, "id", id)
		}
	}

	l.logger.Info("seasons loaded", "count", len(sorted))
	return len(sorted), nil
}
