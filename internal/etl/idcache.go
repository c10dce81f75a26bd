package etl

import (
	"sync"
)

type playerKey struct {
	name string
	born int // 0 when unknown
}

type linkKey struct {
	playerID int64
	teamID   int64
	leagueID int64
	seasonID int64
}

// IDCache holds dimension identities resolved during a run so repeated
// rows hit memory instead of the database. Safe for concurrent directory
// workers.
type IDCache struct {
	mu      sync.RWMutex
	leagues map[string]int64 // by league code
	seasons map[string]int64 // by season code
	teams   map[string]int64 // by normalized name
	players map[playerKey]int64
	links   map[linkKey]int64
}

func NewIDCache() *IDCache {
	return &IDCache{
		leagues: make(map[string]int64),
		seasons: make(map[string]int64),
		teams:   make(map[string]int64),
		players: make(map[playerKey]int64),
		links:   make(map[linkKey]int64),
	}
}

func (c *IDCache) League(code string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.leagues[code]
	return id, ok
}

func (c *IDCache) SetLeague(code string, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leagues[code] = id
}

func (c *IDCache) Season(code string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.seasons[code]
	return id, ok
}

func (c *IDCache) SetSeason(code string, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seasons[code] = id
}

func (c *IDCache) Team(normalizedName string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.teams[normalizedName]
	return id, ok
}

func (c *IDCache) SetTeam(normalizedName string, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teams[normalizedName] = id
}

func (c *IDCache) Player(name string, born *int) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.players[newPlayerKey(name, born)]
	return id, ok
}

func (c *IDCache) SetPlayer(name string, born *int, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.players[newPlayerKey(name, born)] = id
}

// PlayerByName scans for a player regardless of birth year. Category files
// beyond the standard one carry no "born" column, so the lookup has to fall
// back to the name alone.
func (c *IDCache) PlayerByName(name string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if id, ok := c.players[playerKey{name: name}]; ok {
		return id, true
	}
	for key, id := range c.players {
		if key.name == name {
			return id, true
		}
	}
	return 0, false
}

func (c *IDCache) Link(playerID, teamID, leagueID, seasonID int64) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.links[linkKey{playerID, teamID, leagueID, seasonID}]
	return id, ok
}

func (c *IDCache) SetLink(playerID, teamID, leagueID, seasonID, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.links[linkKey{playerID, teamID, leagueID, seasonID}] = id
}

// Sizes reports per-dimension cache entry counts for the run summary.
func (c *IDCache) Sizes() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]int{
		"leagues":             len(c.leagues),
		"seasons":             len(c.seasons),
		"teams":               len(c.teams),
		"players":             len(c.players),
		"player_team_seasons": len(c.links),
	}
}

func newPlayerKey(name string, born *int) playerKey {
	key := playerKey{name: name}
	if born != nil {
		key.born = *born
	}
	return key
}
