// Package aggregation computes the derived read-only views: league-wide
// totals, top-5 leaderboards and tournament standings. Everything here
// is a pure function of the rows passed in — no caching, no mutation —
// and is recomputed on every request.
package aggregation

import (
	"sort"

	"league-management-system/models"
)

// TopN is how many entries a leaderboard carries.
const TopN = 5

// Totals is the league-wide statistic summary.
type Totals struct {
	TotalPoints   int64 `json:"total_points"`
	TotalMinutes  int64 `json:"total_minutes"`
	MatchesPlayed int64 `json:"matches_played"` // statistics flagged as played
}

// LeagueTotals sums every statistic line in the store.
func LeagueTotals(stats []models.MatchStatistic) Totals {
	var t Totals
	for _, s := range stats {
		t.TotalPoints += int64(s.Points)
		t.TotalMinutes += int64(s.Minutes)
		if s.Played {
			t.MatchesPlayed++
		}
	}
	return t
}

// PlayerTotal is one leaderboard row.
type PlayerTotal struct {
	Player models.Player `json:"player"`
	Total  int64         `json:"total"`
}

// topBy groups statistics by player in first-seen order, sums the given
// value per player, keeps strictly positive totals and returns the top
// five. The stable sort keeps first-seen order among equal totals, so
// ties resolve deterministically even though callers shouldn't rely on
// the order within a tie.
func topBy(stats []models.MatchStatistic, value func(models.MatchStatistic) int64) []PlayerTotal {
	index := make(map[string]int)
	rows := make([]PlayerTotal, 0)
	for _, s := range stats {
		i, seen := index[s.PlayerID]
		if !seen {
			index[s.PlayerID] = len(rows)
			rows = append(rows, PlayerTotal{Player: s.Player})
			i = len(rows) - 1
		}
		rows[i].Total += value(s)
	}

	kept := rows[:0]
	for _, r := range rows {
		if r.Total > 0 {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Total > kept[j].Total })
	if len(kept) > TopN {
		kept = kept[:TopN]
	}
	return kept
}

// TopScorers ranks players by summed points.
func TopScorers(stats []models.MatchStatistic) []PlayerTotal {
	return topBy(stats, func(s models.MatchStatistic) int64 { return int64(s.Points) })
}

// TopMinutes ranks players by summed minutes played.
func TopMinutes(stats []models.MatchStatistic) []PlayerTotal {
	return topBy(stats, func(s models.MatchStatistic) int64 { return int64(s.Minutes) })
}

// TopParticipation ranks players by how many statistics flag them as
// having played.
func TopParticipation(stats []models.MatchStatistic) []PlayerTotal {
	return topBy(stats, func(s models.MatchStatistic) int64 {
		if s.Played {
			return 1
		}
		return 0
	})
}

// SortStandings orders a tournament's enrollments into its standings:
// accumulated points descending, ties broken by team name ascending.
// The slice is sorted in place and returned. Enrollments need Team
// preloaded.
func SortStandings(enrollments []models.Enrollment) []models.Enrollment {
	sort.SliceStable(enrollments, func(i, j int) bool {
		if enrollments[i].Points != enrollments[j].Points {
			return enrollments[i].Points > enrollments[j].Points
		}
		return enrollments[i].Team.Name < enrollments[j].Team.Name
	})
	return enrollments
}
