package models

import (
	"reflect"
	"testing"

	"gorm.io/gorm"
)

var deletedAtType = reflect.TypeOf(gorm.DeletedAt{})

func hasDeletedAt(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type == deletedAtType {
			return true
		}
		if f.Anonymous && f.Type.Kind() == reflect.Struct && hasDeletedAt(f.Type) {
			return true
		}
	}
	return false
}

// Rows carrying a unique index must be hard-deleted: a soft-deleted row
// would keep holding the index slot, so re-creating the same sport name,
// re-enrolling a team, or re-recording a statistic line would 409 forever.
func TestUniqueIndexedModelsAreHardDeleted(t *testing.T) {
	tests := []struct {
		name       string
		model      interface{}
		softDelete bool
	}{
		{"Sport", Sport{}, false},          // unique name
		{"Enrollment", Enrollment{}, false}, // unique (tournament, team)
		{"MatchStatistic", MatchStatistic{}, false}, // unique (match, player)
		{"Team", Team{}, true},
		{"Player", Player{}, true},
		{"Tournament", Tournament{}, true},
		{"Match", Match{}, true},
		{"LeagueUser", LeagueUser{}, true},
	}
	for _, tt := range tests {
		got := hasDeletedAt(reflect.TypeOf(tt.model))
		if got != tt.softDelete {
			t.Errorf("%s: soft delete = %v, want %v", tt.name, got, tt.softDelete)
		}
	}
}
