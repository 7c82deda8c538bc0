package aggregation

import (
	"testing"

	"league-management-system/models"
)

func stat(playerID string, points, minutes int, played bool) models.MatchStatistic {
	return models.MatchStatistic{
		PlayerID: playerID,
		Player:   models.Player{ID: playerID, Name: playerID},
		Points:   points,
		Minutes:  minutes,
		Played:   played,
	}
}

func TestLeagueTotals(t *testing.T) {
	stats := []models.MatchStatistic{
		stat("p1", 10, 90, true),
		stat("p2", 0, 45, true),
		stat("p3", 5, 0, false),
	}
	got := LeagueTotals(stats)
	if got.TotalPoints != 15 || got.TotalMinutes != 135 || got.MatchesPlayed != 2 {
		t.Fatalf("unexpected totals: %+v", got)
	}

	if empty := LeagueTotals(nil); empty != (Totals{}) {
		t.Fatalf("empty store should produce zero totals, got %+v", empty)
	}
}

func TestTopScorersLimitAndThreshold(t *testing.T) {
	var stats []models.MatchStatistic
	// Seven scoring players plus one on zero; only five may survive.
	for i, pts := range []int{3, 9, 1, 7, 5, 2, 8} {
		stats = append(stats, stat(string(rune('a'+i)), pts, 0, true))
	}
	stats = append(stats, stat("zero", 0, 30, true))

	top := TopScorers(stats)
	if len(top) != TopN {
		t.Fatalf("expected %d entries, got %d", TopN, len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i].Total > top[i-1].Total {
			t.Fatalf("not sorted descending: %+v", top)
		}
	}
	for _, r := range top {
		if r.Total <= 0 {
			t.Fatalf("player with non-positive total leaked in: %+v", r)
		}
	}
}

func TestTopScorersAccumulatesAcrossMatches(t *testing.T) {
	stats := []models.MatchStatistic{
		stat("p1", 4, 0, true),
		stat("p2", 6, 0, true),
		stat("p1", 5, 0, true), // p1 now leads with 9
	}
	top := TopScorers(stats)
	if top[0].Player.ID != "p1" || top[0].Total != 9 {
		t.Fatalf("expected p1 on 9, got %+v", top)
	}
}

func TestTopScorersTieKeepsFirstSeenOrder(t *testing.T) {
	stats := []models.MatchStatistic{
		stat("late", 0, 0, false),
		stat("first", 7, 0, true),
		stat("second", 7, 0, true),
		stat("late", 7, 0, true),
	}
	top := TopScorers(stats)
	want := []string{"late", "first", "second"}
	for i, id := range want {
		if top[i].Player.ID != id {
			t.Fatalf("tie order broke: got %v at %d, want %v", top[i].Player.ID, i, id)
		}
	}
}

func TestTopMinutes(t *testing.T) {
	stats := []models.MatchStatistic{
		stat("p1", 0, 30, true),
		stat("p2", 9, 0, true), // scorer with zero minutes stays out
		stat("p1", 0, 60, true),
	}
	top := TopMinutes(stats)
	if len(top) != 1 || top[0].Player.ID != "p1" || top[0].Total != 90 {
		t.Fatalf("unexpected minutes leaderboard: %+v", top)
	}
}

func TestTopParticipation(t *testing.T) {
	stats := []models.MatchStatistic{
		stat("p1", 0, 0, true),
		stat("p1", 0, 0, true),
		stat("p2", 12, 90, false), // never flagged as played
		stat("p3", 0, 0, true),
	}
	top := TopParticipation(stats)
	if len(top) != 2 {
		t.Fatalf("expected two participants, got %+v", top)
	}
	if top[0].Player.ID != "p1" || top[0].Total != 2 {
		t.Fatalf("expected p1 with 2 appearances first, got %+v", top)
	}
}

func TestSortStandings(t *testing.T) {
	enrollments := []models.Enrollment{
		{Points: 10, Team: models.Team{Name: "Zeta"}},
		{Points: 10, Team: models.Team{Name: "Alpha"}},
		{Points: 5, Team: models.Team{Name: "Beta"}},
	}
	got := SortStandings(enrollments)
	want := []string{"Alpha", "Zeta", "Beta"}
	for i, name := range want {
		if got[i].Team.Name != name {
			t.Fatalf("standings order wrong at %d: got %s, want %s", i, got[i].Team.Name, name)
		}
	}
}
