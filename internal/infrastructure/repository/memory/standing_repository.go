package memory

import (
	"context"
	"sync"

	"github.com/mavdeev/footstats/internal/domain/standing"
)

type standingIdentity struct {
	leagueID int64
	seasonID int64
	teamID   int64
}

type StandingRepository struct {
	mu        sync.Mutex
	seen      map[standingIdentity]struct{}
	Standings []standing.Standing
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{seen: make(map[standingIdentity]struct{})}
}

func (r *StandingRepository) BulkInsert(_ context.Context, standings []standing.Standing, _ int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := 0
	for _, s := range standings {
		key := standingIdentity{leagueID: s.LeagueID, seasonID: s.SeasonID, teamID: s.TeamID}
		if _, dup := r.seen[key]; dup {
			continue
		}
		r.seen[key] = struct{}{}
		r.Standings = append(r.Standings, s)
		inserted++
	}

	return inserted, nil
}
