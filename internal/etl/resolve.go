package etl

import (
	"context"
	"fmt"

	crerr "github.com/cockroachdb/errors"

	"github.com/mavdeev/footstats/internal/domain/player"
	"github.com/mavdeev/footstats/internal/domain/team"
	"github.com/mavdeev/footstats/internal/platform/logging"
)

// errSkipRow marks rows that cannot be resolved into the schema and should
// be dropped without failing the file.
var errSkipRow = crerr.New("row skipped")

// TeamResolver de-duplicates teams across files by normalized name,
// memoizing ids in the run cache.
type TeamResolver struct {
	repo   team.Repository
	cache  *IDCache
	logger *logging.Logger
}

func NewTeamResolver(repo team.Repository, cache *IDCache, logger *logging.Logger) *TeamResolver {
	return &TeamResolver{repo: repo, cache: cache, logger: logger}
}

// Resolve returns the team id for name, creating the dimension row when
// first seen. Empty names yield errSkipRow.
func (r *TeamResolver) Resolve(ctx context.Context, name string) (int64, error) {
	normalized := NormalizeTeamName(name)
	if normalized == "" {
		return 0, crerr.Wrap(errSkipRow, "empty team name")
	}

	if id, ok := r.cache.Team(normalized); ok {
		return id, nil
	}

	record := team.Team{Name: name, NormalizedName: normalized}
	id, created, err := r.repo.GetOrCreate(ctx, record)
	if err != nil {
		return 0, fmt.Errorf("resolve team %q: %w", name, err)
	}

	r.cache.SetTeam(normalized, id)
	if created {
		r.logger.Debug("created team", "name", name, "id", id)
	}
	return id, nil
}

// PlayerResolver de-duplicates players by the (name, born) pair.
type PlayerResolver struct {
	players   player.Repository
	cache     *IDCache
	validator *RowValidator
	logger    *logging.Logger
}

func NewPlayerResolver(players player.Repository, cache *IDCache, validator *RowValidator, logger *logging.Logger) *PlayerResolver {
	return &PlayerResolver{
		players:   players,
		cache:     cache,
		validator: validator,
		logger:    logger,
	}
}

// Resolve returns the player id, creating the dimension row when first
// seen. Rows failing validation yield errSkipRow.
func (r *PlayerResolver) Resolve(ctx context.Context, name string, nation *string, born *int, position *string) (int64, error) {
	if name == "" {
		return 0, crerr.Wrap(errSkipRow, "empty player name")
	}

	if id, ok := r.cache.Player(name, born); ok {
		return id, nil
	}

	record := player.Player{Name: name, Nation: nation, Born: born, Position: position}
	if err := r.validator.ValidatePlayer(record); err != nil {
		r.logger.Warn("dropping invalid player row", "player", name, "error", err.Error())
		return 0, crerr.Wrapf(errSkipRow, "player %q", name)
	}

	id, created, err := r.players.GetOrCreate(ctx, record)
	if err != nil {
		return 0, fmt.Errorf("resolve player %q: %w", name, err)
	}

	r.cache.SetPlayer(name, born, id)
	if created {
		r.logger.Debug("created player", "name", name, "id", id)
	}
	return id, nil
}
