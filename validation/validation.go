// Package validation holds the cross-entity consistency rules checked
// before any write. Validators are pure: they take a fully resolved
// candidate entity and report every broken rule, per field. Persisting
// anything is the caller's job and must not happen unless the result
// is empty.
package validation

import (
	"fmt"
	"strings"

	"league-management-system/models"

	"golang.org/x/text/cases"
)

// Rule identifies which invariant broke.
type Rule string

const (
	RuleSportMismatch       Rule = "sport_mismatch"
	RuleSelfMatch           Rule = "self_match"
	RuleRosterMismatch      Rule = "roster_mismatch"
	RuleForbiddenName       Rule = "forbidden_name"
	RuleInvalidJerseyNumber Rule = "invalid_jersey_number"
	RuleNameTooShort        Rule = "name_too_short"
)

// FieldError is a single broken rule on a single field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    Rule   `json:"rule"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errors collects every broken rule for one candidate entity.
// A nil/empty Errors means the entity is valid.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether any collected failure broke the given rule.
func (e Errors) Has(rule Rule) bool {
	for _, fe := range e {
		if fe.Rule == rule {
			return true
		}
	}
	return false
}

// AsError returns the collection as an error, or nil when empty, so
// callers can write `if err := validation.ValidateX(...).AsError(); err != nil`.
func (e Errors) AsError() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Names nobody gets to register a team or player under. Matching is a
// case-folded substring check, so "RootBeer FC" is out too.
var forbiddenNameTokens = []string{"admin", "root", "superuser"}

func checkName(field, name string, minLen int) Errors {
	var errs Errors
	trimmed := strings.TrimSpace(name)
	if len([]rune(trimmed)) < minLen {
		errs = append(errs, FieldError{
			Field:   field,
			Rule:    RuleNameTooShort,
			Message: fmt.Sprintf("name must be at least %d characters", minLen),
		})
	}
	// A Caser may be stateful, so build one per call rather than sharing.
	folded := cases.Fold().String(trimmed)
	for _, token := range forbiddenNameTokens {
		if strings.Contains(folded, token) {
			errs = append(errs, FieldError{
				Field:   field,
				Rule:    RuleForbiddenName,
				Message: fmt.Sprintf("the name %q is not allowed", trimmed),
			})
			break
		}
	}
	return errs
}

// ValidateTeam checks the team's own fields. Ownership and sport
// immutability are enforced by the write path, not here.
func ValidateTeam(t *models.Team) Errors {
	return checkName("name", t.Name, 3)
}

// ValidatePlayer checks the player's name and jersey number. A nil
// jersey means unassigned and is always fine; 0 is reserved.
func ValidatePlayer(p *models.Player) Errors {
	errs := checkName("name", p.Name, 2)
	if p.JerseyNumber != nil {
		n := *p.JerseyNumber
		switch {
		case n == 0:
			errs = append(errs, FieldError{
				Field:   "jersey_number",
				Rule:    RuleInvalidJerseyNumber,
				Message: "jersey number 0 is not valid in this league",
			})
		case n < 1 || n > 99:
			errs = append(errs, FieldError{
				Field:   "jersey_number",
				Rule:    RuleInvalidJerseyNumber,
				Message: "jersey number must be between 1 and 99",
			})
		}
	}
	return errs
}

// ValidateEnrollment requires e.Team and e.Tournament to be resolved.
func ValidateEnrollment(e *models.Enrollment) Errors {
	var errs Errors
	if e.Team.SportID != e.Tournament.SportID {
		errs = append(errs, FieldError{
			Field: "team_id",
			Rule:  RuleSportMismatch,
			Message: fmt.Sprintf("team %q plays %s and cannot enroll in a %s tournament",
				e.Team.Name, e.Team.Sport.Name, e.Tournament.Sport.Name),
		})
	}
	return errs
}

// ValidateMatch requires m.HomeTeam, m.AwayTeam and m.Tournament to be
// resolved. All rules are independent; a self-match against a team of
// the wrong sport reports both.
func ValidateMatch(m *models.Match) Errors {
	var errs Errors
	if m.HomeTeamID == m.AwayTeamID {
		errs = append(errs, FieldError{
			Field:   "away_team_id",
			Rule:    RuleSelfMatch,
			Message: "a team cannot play against itself",
		})
	}
	if m.HomeTeam.SportID != m.Tournament.SportID {
		errs = append(errs, FieldError{
			Field:   "home_team_id",
			Rule:    RuleSportMismatch,
			Message: "home team does not play the tournament's sport",
		})
	}
	if m.AwayTeam.SportID != m.Tournament.SportID {
		errs = append(errs, FieldError{
			Field:   "away_team_id",
			Rule:    RuleSportMismatch,
			Message: "away team does not play the tournament's sport",
		})
	}
	return errs
}

// ValidateStatistic requires s.Match and s.Player to be resolved. The
// player must be on the roster of one of the two teams in the match;
// a free agent (no team) never qualifies.
func ValidateStatistic(s *models.MatchStatistic) Errors {
	var errs Errors
	onRoster := s.Player.TeamID != nil &&
		(*s.Player.TeamID == s.Match.HomeTeamID || *s.Player.TeamID == s.Match.AwayTeamID)
	if !onRoster {
		errs = append(errs, FieldError{
			Field: "player_id",
			Rule:  RuleRosterMismatch,
			Message: fmt.Sprintf("player %q does not belong to either team in this match",
				s.Player.Name),
		})
	}
	return errs
}
