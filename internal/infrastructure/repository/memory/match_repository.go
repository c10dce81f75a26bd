package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mavdeev/footstats/internal/domain/match"
)

type fixtureIdentity struct {
	leagueID int64
	seasonID int64
	date     time.Time
	homeID   int64
	awayID   int64
}

type MatchRepository struct {
	mu      sync.Mutex
	seen    map[fixtureIdentity]struct{}
	Matches []match.Match
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{seen: make(map[fixtureIdentity]struct{})}
}

func (r *MatchRepository) BulkInsert(_ context.Context, matches []match.Match, _ int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := 0
	for _, m := range matches {
		key := fixtureIdentity{
			leagueID: m.LeagueID,
			seasonID: m.SeasonID,
			date:     m.Date,
			homeID:   m.HomeTeamID,
			awayID:   m.AwayTeamID,
		}
		if _, dup := r.seen[key]; dup {
			continue
		}
		r.seen[key] = struct{}{}
		r.Matches = append(r.Matches, m)
		inserted++
	}

	return inserted, nil
}
