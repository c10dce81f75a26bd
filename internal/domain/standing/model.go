package standing

import "fmt"

// Standing is one league-table row for a team in a league-season.
type Standing struct {
	LeagueID       int64
	SeasonID       int64
	TeamID         int64
	Rank           *int
	MatchesPlayed  *int
	Wins           *int
	Draws          *int
	Losses         *int
	GoalsFor       *int
	GoalsAgainst   *int
	GoalDifference *int
	Points         *int
	PointsPerMatch *float64
	XG             *float64
	XGA            *float64
	XGD            *float64
	XGDPer90       *float64
	Attendance     *int
	TopScorer      *string
	Goalkeeper     *string
	Notes          *string
}

func (s Standing) Validate() error {
	if s.LeagueID == 0 || s.SeasonID == 0 {
		return fmt.Errorf("standing league and season are required")
	}
	if s.TeamID == 0 {
		return fmt.Errorf("standing team is required")
	}

	return nil
}
