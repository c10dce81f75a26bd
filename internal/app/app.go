package app

import (
	"context"
	"os"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/mavdeev/footstats/internal/config"
	"github.com/mavdeev/footstats/internal/etl"
	"github.com/mavdeev/footstats/internal/infrastructure/repository/postgres"
	"github.com/mavdeev/footstats/internal/platform/logging"
)

// App holds everything a loader process needs: the traced database handle,
// the assembled pipeline and the admin repository for warehouse maintenance.
type App struct {
	Config   config.Config
	Logger   *logging.Logger
	DB       *sqlx.DB
	Pipeline *etl.Pipeline
	Admin    *postgres.AdminRepository
	Registry map[string]config.LeagueEntry
}

// New opens the database and wires repositories, resolvers and loaders.
// The caller owns the returned App and must Close it.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	registry, err := config.LoadLeagues(cfg.Paths.Leagues)
	if err != nil {
		return nil, crerr.Wrap(err, "load league registry")
	}

	db, err := openDB(ctx, cfg.Database)
	if err != nil {
		return nil, crerr.Wrap(err, "open database")
	}

	leagueRepo := postgres.NewLeagueRepository(db)
	seasonRepo := postgres.NewSeasonRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	playerRepo := postgres.NewPlayerRepository(db)
	matchRepo := postgres.NewMatchRepository(db)
	standingRepo := postgres.NewStandingRepository(db)
	teamStatsRepo := postgres.NewTeamStatsRepository(db)
	playerStatsRepo := postgres.NewPlayerStatsRepository(db)
	admin := postgres.NewAdminRepository(db)

	strict := cfg.ETL.ErrorMode == config.ErrorModeStrict
	cache := etl.NewIDCache()
	cleaner := etl.NewCleaner(cfg.SpecialValues)
	validator := etl.NewRowValidator(cfg.Validation, logger)
	reader := etl.NewCSVReader(etl.NewFieldMapper(cfg.FieldMappings), strict, logger)

	teams := etl.NewTeamResolver(teamRepo, cache, logger)
	players := etl.NewPlayerResolver(playerRepo, cache, validator, logger)

	pipeline := etl.NewPipeline(cfg, registry, cache,
		etl.NewReferenceLoader(leagueRepo, seasonRepo, cache, logger),
		etl.NewStandingsLoader(standingRepo, teams, reader, cleaner, cache, cfg.ETL.BatchSize, logger),
		etl.NewMatchesLoader(matchRepo, teams, reader, cleaner, validator, cache, cfg.ETL.BatchSize, strict, logger),
		etl.NewTeamStatsLoader(teamStatsRepo, teams, reader, cleaner, cache, cfg.ETL.BatchSize, logger),
		etl.NewPlayerStatsLoader(playerStatsRepo, players, teams, reader, cleaner, cache, cfg.ETL.BatchSize, logger),
		admin, logger)

	return &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Pipeline: pipeline,
		Admin:    admin,
		Registry: registry,
	}, nil
}

func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func openDB(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.URL, envBool("DB_DISABLE_PREPARED_BINARY_RESULT"))

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	pingCtx := ctx
	if cfg.ConnTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, crerr.Wrap(err, "ping database")
	}

	return db, nil
}

func envBool(key string) bool {
	switch strings.TrimSpace(strings.ToLower(os.Getenv(key))) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}
