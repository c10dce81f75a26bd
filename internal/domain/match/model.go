package match

import (
	"fmt"
	"time"
)

// Match is one fixture row from schedule_results.csv, already resolved
// against the league, season and team dimensions.
type Match struct {
	LeagueID   int64
	SeasonID   int64
	MatchWeek  *int
	Date       time.Time
	Kickoff    *string
	DayOfWeek  *string
	HomeTeamID int64
	AwayTeamID int64
	Score      *string
	HomeGoals  *int
	AwayGoals  *int
	HomeXG     *float64
	AwayXG     *float64
	Venue      *string
	Referee    *string
	Attendance *int
	ReportURL  *string
	Notes      *string
}

func (m Match) Validate() error {
	if m.Date.IsZero() {
		return fmt.Errorf("match date is required")
	}
	if m.HomeTeamID == 0 || m.AwayTeamID == 0 {
		return fmt.Errorf("match teams are required")
	}
	if m.HomeTeamID == m.AwayTeamID {
		return fmt.Errorf("match home and away teams are the same")
	}

	return nil
}
