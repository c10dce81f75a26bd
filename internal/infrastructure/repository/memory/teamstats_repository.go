package memory

import (
	"context"
	"sync"

	"github.com/mavdeev/footstats/internal/domain/teamstats"
)

type TeamStatsRepository struct {
	mu    sync.Mutex
	seen  map[standingIdentity]struct{}
	Stats []teamstats.SeasonStats
}

func NewTeamStatsRepository() *TeamStatsRepository {
	return &TeamStatsRepository{seen: make(map[standingIdentity]struct{})}
}

func (r *TeamStatsRepository) BulkInsert(_ context.Context, stats []teamstats.SeasonStats, _ int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := 0
	for _, s := range stats {
		key := standingIdentity{leagueID: s.LeagueID, seasonID: s.SeasonID, teamID: s.TeamID}
		if _, dup := r.seen[key]; dup {
			continue
		}
		r.seen[key] = struct{}{}
		r.Stats = append(r.Stats, s)
		inserted++
	}

	return inserted, nil
}
