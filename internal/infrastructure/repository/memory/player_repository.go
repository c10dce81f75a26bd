package memory

import (
	"context"
	"sync"

	"github.com/mavdeev/footstats/internal/domain/player"
)

type playerIdentity struct {
	name string
	born int
}

type PlayerRepository struct {
	mu     sync.Mutex
	nextID int64
	byKey  map[playerIdentity]player.Player
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{byKey: make(map[playerIdentity]player.Player)}
}

func (r *PlayerRepository) GetOrCreate(_ context.Context, p player.Player) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := playerIdentity{name: p.Name}
	if p.Born != nil {
		key.born = *p.Born
	}

	if existing, ok := r.byKey[key]; ok {
		return existing.ID, false, nil
	}

	r.nextID++
	p.ID = r.nextID
	r.byKey[key] = p
	return p.ID, true, nil
}

func (r *PlayerRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byKey)
}
