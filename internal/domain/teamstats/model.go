package teamstats

import "fmt"

// SeasonStats is the team_standard_stats.csv fact row for one team in a
// league-season.
type SeasonStats struct {
	LeagueID int64
	SeasonID int64
	TeamID   int64

	PlayersUsed   *int
	AvgAge        *float64
	PossessionPct *float64
	MatchesPlayed *int
	Starts        *int
	Minutes       *int
	Nineties      *float64

	Goals           *int
	Assists         *int
	GoalsAssists    *int
	GoalsNonPenalty *int
	Penalties       *int
	PenaltyAttempts *int

	XG      *float64
	NPXG    *float64
	XAG     *float64
	NPXGXAG *float64

	YellowCards        *int
	RedCards           *int
	ProgressiveCarries *int
	ProgressivePasses  *int

	GoalsPer90                  *float64
	AssistsPer90                *float64
	GoalsAssistsPer90           *float64
	GoalsNonPenaltyPer90        *float64
	GoalsAssistsNonPenaltyPer90 *float64
	XGPer90                     *float64
	XAGPer90                    *float64
	XGXAGPer90                  *float64
	NPXGPer90                   *float64
	NPXGXAGPer90                *float64
}

func (s SeasonStats) Validate() error {
	if s.LeagueID == 0 || s.SeasonID == 0 {
		return fmt.Errorf("team stats league and season are required")
	}
	if s.TeamID == 0 {
		return fmt.Errorf("team stats team is required")
	}

	return nil
}
