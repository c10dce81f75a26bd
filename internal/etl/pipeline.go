package etl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/mavdeev/footstats/internal/config"
	"github.com/mavdeev/footstats/internal/domain/playerstats"
	"github.com/mavdeev/footstats/internal/platform/logging"
)

// Warehouse exposes the post-load maintenance operations the pipeline runs
// after data lands.
type Warehouse interface {
	TableStats(ctx context.Context) (map[string]int64, error)
	Analyze(ctx context.Context) error
}

const (
	statusOK      = "ok"
	statusFailed  = "failed"
	statusSkipped = "skipped"
)

// Pipeline drives a full migration run: reference data first, then every
// league-season directory in fixed file order, then warehouse maintenance.
type Pipeline struct {
	cfg       config.Config
	registry  map[string]config.LeagueEntry
	cache     *IDCache
	reference *ReferenceLoader
	standings *StandingsLoader
	matches   *MatchesLoader
	teamStats *TeamStatsLoader
	players   *PlayerStatsLoader
	warehouse Warehouse
	logger    *logging.Logger
}

func NewPipeline(cfg config.Config, registry map[string]config.LeagueEntry, cache *IDCache,
	reference *ReferenceLoader, standings *StandingsLoader, matches *MatchesLoader,
	teamStats *TeamStatsLoader, players *PlayerStatsLoader,
	warehouse Warehouse, logger *logging.Logger) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		registry:  registry,
		cache:     cache,
		reference: reference,
		standings: standings,
		matches:   matches,
		teamStats: teamStats,
		players:   players,
		warehouse: warehouse,
		logger:    logger,
	}
}

// Run executes the whole migration and returns its report. In strict error
// mode the first directory failure aborts the run; in continue mode failed
// directories are recorded and the rest proceed.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	started := time.Now()
	report := &Report{
		StartedAt:   started,
		PlayerStats: make(map[string]int),
	}

	leagues, err := p.reference.LoadLeagues(ctx, p.registry)
	if err != nil {
		return report, fmt.Errorf("load leagues: %w", err)
	}
	report.Leagues = leagues

	seasons, err := p.reference.LoadSeasons(ctx, p.cfg.Paths.RawData)
	if err != nil {
		return report, fmt.Errorf("load seasons: %w", err)
	}
	report.Seasons = seasons

	dirs, err := p.listDirectories()
	if err != nil {
		return report, err
	}
	p.logger.Info("found league-season directories", "count", len(dirs))

	results, err := p.processDirectories(ctx, dirs)
	if err != nil {
		return report, err
	}

	for _, result := range results {
		report.Directories = append(report.Directories, result)
		if result.Status != statusOK {
			continue
		}
		report.Standings += result.Standings
		report.Matches += result.Matches
		report.TeamStats += result.TeamStats
		for category, count := range result.PlayerStats {
			report.PlayerStats[category] += count
		}
	}

	sizes := p.cache.Sizes()
	report.Teams = sizes["teams"]
	report.Players = sizes["players"]

	if p.warehouse != nil {
		if err := p.warehouse.Analyze(ctx); err != nil {
			p.logger.Warn("analyze failed", "error", err.Error())
		}
		if counts, err := p.warehouse.TableStats(ctx); err != nil {
			p.logger.Warn("table stats unavailable", "error", err.Error())
		} else {
			report.TableCounts = counts
		}
	}

	report.FinishedAt = time.Now()
	report.DurationMS = time.Since(started).Milliseconds()
	report.Log(p.logger)

	if p.cfg.Paths.Report != "" {
		if err := report.WriteJSON(p.cfg.Paths.Report); err != nil {
			p.logger.Warn("report not written", "error", err.Error())
		} else {
			p.logger.Info("report written", "path", p.cfg.Paths.Report)
		}
	}

	if p.cfg.ETL.ErrorMode == config.ErrorModeContinue {
		failed := 0
		for _, result := range report.Directories {
			if result.Status == statusFailed {
				failed++
			}
		}
		if failed > 0 {
			p.logger.Warn("run finished with failed directories", "failed", failed)
		}
	}

	return report, nil
}

type directoryTask struct {
	name   string
	league string
	season string
}

func (p *Pipeline) listDirectories() ([]directoryTask, error) {
	entries, err := os.ReadDir(p.cfg.Paths.RawData)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", p.cfg.Paths.RawData, err)
	}

	var tasks []directoryTask
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		league, season, err := ParseDirectoryName(entry.Name())
		if err != nil {
			p.logger.Warn("skipping unrecognized directory", "name", entry.Name())
			continue
		}
		tasks = append(tasks, directoryTask{name: entry.Name(), league: league, season: season})
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].name < tasks[j].name })
	return tasks, nil
}

func (p *Pipeline) processDirectories(ctx context.Context, tasks []directoryTask) ([]DirectoryResult, error) {
	strict := p.cfg.ETL.ErrorMode == config.ErrorModeStrict

	workers := p.cfg.ETL.Workers
	if workers <= 1 || len(tasks) <= 1 {
		results := make([]DirectoryResult, 0, len(tasks))
		for _, task := range tasks {
			result := p.processDirectory(ctx, task)
			results = append(results, result)
			if strict && result.Status == statusFailed {
				return results, crerr.Newf("directory %s failed: %s", result.Directory, result.Error)
			}
		}
		return results, nil
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	out := make(chan DirectoryResult, len(tasks))
	var aborted atomic.Bool

	var wg sync.WaitGroup
	for _, task := range tasks {
		task := task
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			if aborted.Load() {
				out <- DirectoryResult{
					Directory: task.name,
					League:    task.league,
					Season:    task.season,
					Status:    statusSkipped,
				}
				return
			}

			result := p.processDirectory(ctx, task)
			if strict && result.Status == statusFailed {
				aborted.Store(true)
			}
			out <- result
		}); err != nil {
			wg.Done()
			return nil, fmt.Errorf("submit directory to worker pool: %w", err)
		}
	}

	wg.Wait()
	close(out)

	results := make([]DirectoryResult, 0, len(tasks))
	for result := range out {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Directory < results[j].Directory })

	if strict {
		for _, result := range results {
			if result.Status == statusFailed {
				return results, crerr.Newf("directory %s failed: %s", result.Directory, result.Error)
			}
		}
	}

	return results, nil
}

// processDirectory loads one league-season directory. File order is fixed:
// standings introduce teams, matches and team stats reuse them, player
// standard stats seed the links the remaining categories attach to.
func (p *Pipeline) processDirectory(ctx context.Context, task directoryTask) DirectoryResult {
	start := time.Now()
	result := DirectoryResult{
		Directory: task.name,
		League:    task.league,
		Season:    task.season,
		Status:    statusOK,
	}

	if _, ok := p.cache.League(task.league); !ok {
		p.logger.Warn("league not in registry, skipping directory", "dir", task.name, "league", task.league)
		result.Status = statusSkipped
		return result
	}
	if _, ok := p.cache.Season(task.season); !ok {
		p.logger.Warn("season not loaded, skipping directory", "dir", task.name, "season", task.season)
		result.Status = statusSkipped
		return result
	}

	p.logger.Info("processing directory", "dir", task.name)
	dir := filepath.Join(p.cfg.Paths.RawData, task.name)

	fail := func(err error) DirectoryResult {
		result.Status = statusFailed
		result.Error = err.Error()
		result.DurationMS = time.Since(start).Milliseconds()
		p.logger.Error("directory failed", "dir", task.name, "error", err.Error())
		return result
	}

	count, err := p.standings.Load(ctx, dir, task.league, task.season)
	if err != nil {
		return fail(err)
	}
	result.Standings = count

	count, err = p.matches.Load(ctx, dir, task.league, task.season)
	if err != nil {
		return fail(err)
	}
	result.Matches = count

	count, err = p.teamStats.Load(ctx, dir, task.league, task.season)
	if err != nil {
		return fail(err)
	}
	result.TeamStats = count

	playerCounts, err := p.players.LoadAll(ctx, dir, task.league, task.season)
	if err != nil {
		return fail(err)
	}
	result.PlayerStats = make(map[string]int, len(playerCounts))
	for category, count := range playerCounts {
		result.PlayerStats[string(category)] = count
	}

	result.DurationMS = time.Since(start).Milliseconds()
	return result
}

// CategoryTables lists the player stat tables in load order, for the stats
// command output.
func CategoryTables() []string {
	tables := make([]string, 0, len(playerstats.Categories))
	for _, category := range playerstats.Categories {
		tables = append(tables, category.Table())
	}
	return tables
}
