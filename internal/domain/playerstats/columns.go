package playerstats

import "sort"

// categoryColumns mirrors the metric columns of each dynamic category table.
// Mapped CSV values that name no table column are dropped before insert, so
// an incomplete field mapping skips a column instead of failing the batch.
var categoryColumns = map[Category][]string{
	CategoryPassing: {
		"ninety_s",
		"total_cmp", "total_att", "total_cmp_pct",
		"total_distance", "progressive_distance",
		"short_cmp", "short_att", "short_cmp_pct",
		"medium_cmp", "medium_att", "medium_cmp_pct",
		"long_cmp", "long_att", "long_cmp_pct",
		"assists", "xag", "xa", "assists_minus_xag",
		"key_passes", "final_third_passes",
		"passes_into_penalty_area", "crosses_into_penalty_area",
		"progressive_passes",
	},
	CategoryPassingTypes: {
		"ninety_s",
		"passes_attempted", "live_passes", "dead_passes",
		"free_kick_passes", "through_balls", "switches", "crosses",
		"throw_ins", "corner_kicks",
		"corner_inswing", "corner_outswing", "corner_straight",
		"passes_completed", "passes_offside", "passes_blocked",
	},
	CategoryDefense: {
		"ninety_s",
		"tackles", "tackles_won",
		"tackles_def_3rd", "tackles_mid_3rd", "tackles_att_3rd",
		"dribblers_tackled", "dribbles_challenged", "tackle_pct",
		"challenges_lost",
		"blocks", "shots_blocked", "passes_blocked",
		"interceptions", "tackles_interceptions", "clearances", "errors",
	},
	CategoryPossession: {
		"ninety_s",
		"touches", "touches_def_pen",
		"touches_def_3rd", "touches_mid_3rd", "touches_att_3rd",
		"touches_att_pen", "touches_live",
		"take_ons_attempted", "take_ons_succeeded", "take_on_pct",
		"take_ons_tackled", "take_on_tackled_pct",
		"carries", "carry_distance", "carry_progressive_distance",
		"progressive_carries",
		"carries_into_final_third", "carries_into_penalty_area",
		"miscontrols", "dispossessed",
		"passes_received", "progressive_receptions",
	},
	CategoryMisc: {
		"ninety_s",
		"yellow_cards", "red_cards", "second_yellow_cards",
		"fouls_committed", "fouls_drawn", "offsides", "crosses",
		"interceptions", "tackles_won",
		"penalties_won", "penalties_conceded", "own_goals",
		"ball_recoveries",
		"aerials_won", "aerials_lost", "aerial_win_pct",
	},
	CategoryKeeper: {
		"ninety_s",
		"goals_against", "goals_against_per_90",
		"shots_on_target_against", "saves", "save_pct",
		"wins", "draws", "losses",
		"clean_sheets", "clean_sheet_pct",
		"penalties_attempted", "penalties_allowed",
		"penalties_saved", "penalties_missed", "penalty_save_pct",
	},
	CategoryKeeperAdv: {
		"ninety_s",
		"goals_against", "free_kick_goals_against",
		"corner_goals_against", "own_goals_against",
		"psxg", "psxg_per_sot", "psxg_net", "psxg_net_per_90",
		"launched_cmp", "launched_att", "launched_cmp_pct",
		"passes_attempted", "throws_attempted", "launch_pct",
		"avg_pass_length",
		"goal_kicks_attempted", "goal_kick_launch_pct",
		"goal_kick_avg_length",
		"crosses_faced", "crosses_stopped", "crosses_stopped_pct",
		"def_actions_outside_pen", "def_actions_outside_pen_per_90",
		"avg_def_action_distance",
	},
}

var categoryColumnSets = func() map[Category]map[string]struct{} {
	sets := make(map[Category]map[string]struct{}, len(categoryColumns))
	for category, columns := range categoryColumns {
		set := make(map[string]struct{}, len(columns))
		for _, column := range columns {
			set[column] = struct{}{}
		}
		sets[category] = set
	}
	return sets
}()

// KnownColumn reports whether the category's table has the given column.
func KnownColumn(c Category, column string) bool {
	_, ok := categoryColumnSets[c][column]
	return ok
}

// InsertableColumns returns the sorted union of value columns across rows,
// restricted to the category's table columns.
func InsertableColumns(c Category, rows []CategoryRow) []string {
	allowed := categoryColumnSets[c]

	seen := make(map[string]struct{})
	for _, row := range rows {
		for col := range row.Values {
			if _, ok := allowed[col]; ok {
				seen[col] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for col := range seen {
		out = append(out, col)
	}
	sort.Strings(out)
	return out
}
