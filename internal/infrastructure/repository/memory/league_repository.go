// Package memory holds in-memory repository implementations used by loader
// and pipeline tests. They mirror the postgres semantics: get-or-create on
// the dimension identity keys, duplicate skipping on the fact tables.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mavdeev/footstats/internal/domain/league"
)

type LeagueRepository struct {
	mu     sync.Mutex
	nextID int64
	byCode map[string]league.League
}

func NewLeagueRepository() *LeagueRepository {
	return &LeagueRepository{byCode: make(map[string]league.League)}
}

func (r *LeagueRepository) GetOrCreate(_ context.Context, l league.League) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byCode[l.Code]; ok {
		return existing.ID, false, nil
	}

	r.nextID++
	l.ID = r.nextID
	r.byCode[l.Code] = l
	return l.ID, true, nil
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]league.League, 0, len(r.byCode))
	for _, item := range r.byCode {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}
