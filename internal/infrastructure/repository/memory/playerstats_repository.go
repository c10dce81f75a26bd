package memory

import (
	"context"
	"sync"

	"github.com/mavdeev/footstats/internal/domain/playerstats"
)

type linkIdentity struct {
	playerID int64
	teamID   int64
	leagueID int64
	seasonID int64
}

type PlayerStatsRepository struct {
	mu         sync.Mutex
	nextLinkID int64
	links      map[linkIdentity]int64

	Standard     []playerstats.StandardStats
	Shooting     []playerstats.ShootingStats
	Categories   map[playerstats.Category][]playerstats.CategoryRow
	standardSeen map[int64]struct{}
	shootingSeen map[int64]struct{}
	categorySeen map[playerstats.Category]map[int64]struct{}
}

func NewPlayerStatsRepository() *PlayerStatsRepository {
	return &PlayerStatsRepository{
		links:        make(map[linkIdentity]int64),
		Categories:   make(map[playerstats.Category][]playerstats.CategoryRow),
		standardSeen: make(map[int64]struct{}),
		shootingSeen: make(map[int64]struct{}),
		categorySeen: make(map[playerstats.Category]map[int64]struct{}),
	}
}

func (r *PlayerStatsRepository) GetOrCreateLink(_ context.Context, link playerstats.PlayerTeamSeason) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := linkIdentity{
		playerID: link.PlayerID,
		teamID:   link.TeamID,
		leagueID: link.LeagueID,
		seasonID: link.SeasonID,
	}
	if id, ok := r.links[key]; ok {
		return id, false, nil
	}

	r.nextLinkID++
	r.links[key] = r.nextLinkID
	return r.nextLinkID, true, nil
}

func (r *PlayerStatsRepository) InsertStandard(_ context.Context, rows []playerstats.StandardStats, _ int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := 0
	for _, row := range rows {
		if _, dup := r.standardSeen[row.LinkID]; dup {
			continue
		}
		r.standardSeen[row.LinkID] = struct{}{}
		r.Standard = append(r.Standard, row)
		inserted++
	}
	return inserted, nil
}

func (r *PlayerStatsRepository) InsertShooting(_ context.Context, rows []playerstats.ShootingStats, _ int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := 0
	for _, row := range rows {
		if _, dup := r.shootingSeen[row.LinkID]; dup {
			continue
		}
		r.shootingSeen[row.LinkID] = struct{}{}
		r.Shooting = append(r.Shooting, row)
		inserted++
	}
	return inserted, nil
}

func (r *PlayerStatsRepository) InsertCategory(_ context.Context, category playerstats.Category, rows []playerstats.CategoryRow, _ int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := r.categorySeen[category]
	if seen == nil {
		seen = make(map[int64]struct{})
		r.categorySeen[category] = seen
	}

	inserted := 0
	for _, row := range rows {
		if _, dup := seen[row.LinkID]; dup {
			continue
		}
		seen[row.LinkID] = struct{}{}
		r.Categories[category] = append(r.Categories[category], row)
		inserted++
	}
	return inserted, nil
}

// LinkCount reports stored link rows, for test assertions.
func (r *PlayerStatsRepository) LinkCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.links)
}
