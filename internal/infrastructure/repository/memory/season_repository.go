package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mavdeev/footstats/internal/domain/season"
)

type SeasonRepository struct {
	mu     sync.Mutex
	nextID int64
	byCode map[string]season.Season
}

func NewSeasonRepository() *SeasonRepository {
	return &SeasonRepository{byCode: make(map[string]season.Season)}
}

func (r *SeasonRepository) GetOrCreate(_ context.Context, s season.Season) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byCode[s.Code]; ok {
		return existing.ID, false, nil
	}

	r.nextID++
	s.ID = r.nextID
	r.byCode[s.Code] = s
	return s.ID, true, nil
}

func (r *SeasonRepository) List(_ context.Context) ([]season.Season, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]season.Season, 0, len(r.byCode))
	for _, item := range r.byCode {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}
