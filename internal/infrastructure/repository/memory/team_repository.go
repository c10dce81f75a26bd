package memory

import (
	"context"
	"sync"

	"github.com/mavdeev/footstats/internal/domain/team"
)

type TeamRepository struct {
	mu           sync.Mutex
	nextID       int64
	byNormalized map[string]team.Team
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{byNormalized: make(map[string]team.Team)}
}

func (r *TeamRepository) GetOrCreate(_ context.Context, t team.Team) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byNormalized[t.NormalizedName]; ok {
		return existing.ID, false, nil
	}

	r.nextID++
	t.ID = r.nextID
	r.byNormalized[t.NormalizedName] = t
	return t.ID, true, nil
}

// Count reports stored teams, for test assertions.
func (r *TeamRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byNormalized)
}
