package memory

import (
	"context"

	"github.com/mavdeev/footstats/internal/domain/playerstats"
)

// Warehouse aggregates row counts across the in-memory repositories so
// pipeline tests can exercise the post-load maintenance hooks.
type Warehouse struct {
	Teams       *TeamRepository
	Players     *PlayerRepository
	Matches     *MatchRepository
	Standings   *StandingRepository
	TeamStats   *TeamStatsRepository
	PlayerStats *PlayerStatsRepository

	AnalyzeCalls int
}

func (w *Warehouse) TableStats(_ context.Context) (map[string]int64, error) {
	stats := map[string]int64{
		"teams":               int64(w.Teams.Count()),
		"players":             int64(w.Players.Count()),
		"matches":             int64(len(w.Matches.Matches)),
		"standings":           int64(len(w.Standings.Standings)),
		"team_season_stats":   int64(len(w.TeamStats.Stats)),
		"player_team_seasons": int64(w.PlayerStats.LinkCount()),
	}
	stats[playerstats.CategoryStandard.Table()] = int64(len(w.PlayerStats.Standard))
	stats[playerstats.CategoryShooting.Table()] = int64(len(w.PlayerStats.Shooting))
	for category, rows := range w.PlayerStats.Categories {
		stats[category.Table()] = int64(len(rows))
	}
	return stats, nil
}

func (w *Warehouse) Analyze(_ context.Context) error {
	w.AnalyzeCalls++
	return nil
}
