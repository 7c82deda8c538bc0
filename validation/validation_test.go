package validation

import (
	"sync"
	"testing"

	"league-management-system/models"
)

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func sport(id, name string) models.Sport {
	return models.Sport{ID: id, Name: name}
}

func TestValidateTeamNames(t *testing.T) {
	tests := []struct {
		name     string
		teamName string
		wantRule Rule
		wantOK   bool
	}{
		{"plain name", "Lakeside Rovers", "", true},
		{"short name", "FC", RuleNameTooShort, false},
		{"exact admin", "admin", RuleForbiddenName, false},
		{"admin uppercase", "ADMIN", RuleForbiddenName, false},
		{"admin embedded", "The Admins", RuleForbiddenName, false},
		{"root embedded", "RootBeer FC", RuleForbiddenName, false},
		{"superuser", "superuser united", RuleForbiddenName, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateTeam(&models.Team{Name: tt.teamName})
			if tt.wantOK {
				if len(errs) != 0 {
					t.Fatalf("expected valid, got %v", errs)
				}
				return
			}
			if !errs.Has(tt.wantRule) {
				t.Fatalf("expected rule %s, got %v", tt.wantRule, errs)
			}
		})
	}
}

func TestValidatePlayerJersey(t *testing.T) {
	tests := []struct {
		name   string
		jersey *int
		wantOK bool
	}{
		{"unassigned", nil, true},
		{"zero reserved", intPtr(0), false},
		{"lowest valid", intPtr(1), true},
		{"highest valid", intPtr(99), true},
		{"above range", intPtr(100), false},
		{"negative", intPtr(-3), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidatePlayer(&models.Player{Name: "Iker", JerseyNumber: tt.jersey})
			if tt.wantOK && len(errs) != 0 {
				t.Fatalf("expected valid, got %v", errs)
			}
			if !tt.wantOK && !errs.Has(RuleInvalidJerseyNumber) {
				t.Fatalf("expected invalid_jersey_number, got %v", errs)
			}
		})
	}
}

func TestValidatePlayerName(t *testing.T) {
	errs := ValidatePlayer(&models.Player{Name: "superuser"})
	if !errs.Has(RuleForbiddenName) {
		t.Fatalf("expected forbidden_name, got %v", errs)
	}
	if errs = ValidatePlayer(&models.Player{Name: "X"}); !errs.Has(RuleNameTooShort) {
		t.Fatalf("expected name_too_short, got %v", errs)
	}
	if errs = ValidatePlayer(&models.Player{Name: "Xu"}); len(errs) != 0 {
		t.Fatalf("two-rune name should pass, got %v", errs)
	}
}

func TestValidateEnrollment(t *testing.T) {
	football := sport("s1", "Football")
	tennis := sport("s2", "Tennis")

	e := &models.Enrollment{
		Team:       models.Team{ID: "t1", Name: "Lakeside Rovers", SportID: football.ID, Sport: football},
		Tournament: models.Tournament{ID: "c1", SportID: football.ID, Sport: football},
	}
	if errs := ValidateEnrollment(e); len(errs) != 0 {
		t.Fatalf("matching sports should pass, got %v", errs)
	}

	e.Tournament = models.Tournament{ID: "c2", SportID: tennis.ID, Sport: tennis}
	errs := ValidateEnrollment(e)
	if !errs.Has(RuleSportMismatch) {
		t.Fatalf("expected sport_mismatch, got %v", errs)
	}
	if errs[0].Field != "team_id" {
		t.Fatalf("expected failure on team_id, got %q", errs[0].Field)
	}
}

func TestValidateMatch(t *testing.T) {
	football := sport("s1", "Football")
	tennis := sport("s2", "Tennis")

	home := models.Team{ID: "t1", SportID: football.ID}
	away := models.Team{ID: "t2", SportID: football.ID}
	tournament := models.Tournament{ID: "c1", SportID: football.ID}

	valid := &models.Match{
		TournamentID: tournament.ID, Tournament: tournament,
		HomeTeamID: home.ID, HomeTeam: home,
		AwayTeamID: away.ID, AwayTeam: away,
	}
	if errs := ValidateMatch(valid); len(errs) != 0 {
		t.Fatalf("expected valid match, got %v", errs)
	}

	self := *valid
	self.AwayTeamID = home.ID
	self.AwayTeam = home
	if errs := ValidateMatch(&self); !errs.Has(RuleSelfMatch) {
		t.Fatalf("expected self_match, got %v", errs)
	}

	wrongAway := *valid
	wrongAway.AwayTeam = models.Team{ID: "t3", SportID: tennis.ID}
	wrongAway.AwayTeamID = "t3"
	if errs := ValidateMatch(&wrongAway); !errs.Has(RuleSportMismatch) {
		t.Fatalf("expected sport_mismatch, got %v", errs)
	}

	// Rules are independent: both teams off-sport reports each field.
	bothWrong := *valid
	bothWrong.Tournament = models.Tournament{ID: "c2", SportID: tennis.ID}
	bothWrong.TournamentID = "c2"
	errs := ValidateMatch(&bothWrong)
	if len(errs) != 2 {
		t.Fatalf("expected two failures, got %v", errs)
	}
}

func TestValidateStatistic(t *testing.T) {
	match := models.Match{ID: "m1", HomeTeamID: "t1", AwayTeamID: "t2"}

	tests := []struct {
		name   string
		teamID *string
		wantOK bool
	}{
		{"home roster", strPtr("t1"), true},
		{"away roster", strPtr("t2"), true},
		{"other team", strPtr("t3"), false},
		{"free agent", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &models.MatchStatistic{
				Match:  match,
				Player: models.Player{ID: "p1", Name: "Iker", TeamID: tt.teamID},
			}
			errs := ValidateStatistic(s)
			if tt.wantOK && len(errs) != 0 {
				t.Fatalf("expected valid, got %v", errs)
			}
			if !tt.wantOK && !errs.Has(RuleRosterMismatch) {
				t.Fatalf("expected roster_mismatch, got %v", errs)
			}
		})
	}
}

func TestErrorsAsError(t *testing.T) {
	var empty Errors
	if empty.AsError() != nil {
		t.Fatal("empty Errors should collapse to nil")
	}
	errs := Errors{{Field: "name", Rule: RuleForbiddenName, Message: "nope"}}
	if errs.AsError() == nil {
		t.Fatal("non-empty Errors should be an error")
	}
}

// Handlers validate from many goroutines at once; the folding path must
// hold up under that.
func TestValidateTeamConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				ok := models.Team{Name: "Lakeside Rovers"}
				if errs := ValidateTeam(&ok); len(errs) != 0 {
					t.Errorf("unexpected errors for clean name: %v", errs)
					return
				}
				bad := models.Team{Name: "ADMIN United"}
				if errs := ValidateTeam(&bad); !errs.Has(RuleForbiddenName) {
					t.Error("forbidden name slipped through under concurrency")
					return
				}
			}
		}()
	}
	wg.Wait()
}
