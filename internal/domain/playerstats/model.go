package playerstats

import "fmt"

// Category names one of the per-player statistics datasets FBref exports.
type Category string

const (
	CategoryStandard     Category = "standard"
	CategoryShooting     Category = "shooting"
	CategoryPassing      Category = "passing"
	CategoryPassingTypes Category = "passing_types"
	CategoryDefense      Category = "defense"
	CategoryPossession   Category = "possession"
	CategoryMisc         Category = "misc"
	CategoryKeeper       Category = "keeper"
	CategoryKeeperAdv    Category = "keeper_adv"
)

// Categories is the load order: standard first because it seeds the
// player_team_seasons link rows the other categories attach to.
var Categories = []Category{
	CategoryStandard,
	CategoryShooting,
	CategoryPassing,
	CategoryPassingTypes,
	CategoryDefense,
	CategoryPossession,
	CategoryMisc,
	CategoryKeeper,
	CategoryKeeperAdv,
}

// Table returns the warehouse table holding this category.
func (c Category) Table() string {
	return "player_" + string(c) + "_stats"
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// PlayerTeamSeason links a player to a team within a league-season. All
// nine stat tables hang off this row.
type PlayerTeamSeason struct {
	ID       int64
	PlayerID int64
	TeamID   int64
	LeagueID int64
	SeasonID int64
	Age      *float64
}

func (p PlayerTeamSeason) Validate() error {
	if p.PlayerID == 0 || p.TeamID == 0 {
		return fmt.Errorf("player team season needs player and team")
	}
	if p.LeagueID == 0 || p.SeasonID == 0 {
		return fmt.Errorf("player team season needs league and season")
	}

	return nil
}

// StandardStats is the player_standard_stats.csv fact row.
type StandardStats struct {
	LinkID int64

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

	ProgressiveCarries    *int
	ProgressivePasses     *int
	ProgressiveReceptions *int
	YellowCards           *int
	RedCards              *int

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

// ShootingStats is the player_shooting_stats.csv fact row.
type ShootingStats struct {
	LinkID int64

	Nineties        *float64
	Goals           *int
	Shots           *int
	ShotsOnTarget   *int
	SOTPct          *float64
	ShotsPer90      *float64
	SOTPer90        *float64
	GoalsPerShot    *float64
	GoalsPerSOT     *float64
	AvgDistance     *float64
	FreeKicks       *int
	Penalties       *int
	PenaltyAttempts *int
	XG              *float64
	NPXG            *float64
	NPXGPerShot     *float64
	GoalsMinusXG    *float64
	NPGoalsMinusXG  *float64
}

// CategoryRow is a row of one of the remaining seven categories: a link id
// plus the numeric columns that survived cleaning and field mapping. Column
// sets can differ between seasons, so the shape stays dynamic.
type CategoryRow struct {
	LinkID int64
	Values map[string]float64
}
