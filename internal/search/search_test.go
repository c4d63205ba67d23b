package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aquavenda/pos/internal/service/models/lastorder"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fragment string
		expected bool
	}{
		{"prefix", "St Abc Cde Agh", "St Abc Cde", true},
		{"suffix", "St Abc Cde Agh", "Agh", true},
		{"interior", "St Abc Cde Agh", "Cde", true},
		{"lower case fragment", "St Abc Cde Agh", "cde", true},
		{"upper case fragment", "st abc cde agh", "CDE", true},
		{"no match", "St Abc Cde Agh", "Xyz", false},
		{"digits", "99887766", "8877", true},
		{"empty value", "", "a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Match(tt.value, tt.fragment))
		})
	}
}

func TestNormalizePhoneFragment(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		expected string
	}{
		{"plain digits", "99887766", "99887766"},
		{"leading non-digits stripped", "tel: 99887766", "99887766"},
		{"leading plus stripped", "+55 99887766", "5599887766"},
		{"inner whitespace removed", "99 88 77 66", "99887766"},
		{"tabs removed", "998\t877", "998877"},
		{"only letters", "abc", ""},
		{"empty", "", ""},
		{"inner punctuation kept", "9988-7766", "9988-7766"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePhoneFragment(tt.fragment))
		})
	}
}

func TestRankOrdersByCreatedThenField(t *testing.T) {
	t1 := time.Date(2019, 2, 23, 23, 50, 0, 0, time.UTC)
	t2 := time.Date(2019, 2, 23, 23, 59, 0, 0, time.UTC)

	entries := []lastorder.Entry{
		{ID: "c", Address: "Cv. Abc", Created: t1},
		{ID: "b", Address: "Bv. Abc", Created: t2},
		{ID: "a", Address: "Av. Abc", Created: t1},
	}

	ranked := Rank(entries, func(e lastorder.Entry) string { return e.Address }, 0)

	got := make([]string, len(ranked))
	for i, e := range ranked {
		got[i] = e.ID
	}
	// t1 before t2; within t1 alphabetical by address.
	assert.Equal(t, []string{"a", "c", "b"}, got)
}

func TestRankTruncatesToLimit(t *testing.T) {
	entries := []lastorder.Entry{
		{ID: "1", Address: "St Abc AAAA"},
		{ID: "2", Address: "St Abc BBBB"},
		{ID: "3", Address: "St Abc CCCC"},
	}

	ranked := Rank(entries, func(e lastorder.Entry) string { return e.Address }, 2)

	assert.Len(t, ranked, 2)
	assert.Equal(t, "1", ranked[0].ID)
	assert.Equal(t, "2", ranked[1].ID)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	entries := []lastorder.Entry{
		{ID: "2", Address: "B"},
		{ID: "1", Address: "A"},
	}

	Rank(entries, func(e lastorder.Entry) string { return e.Address }, 0)

	assert.Equal(t, "2", entries[0].ID)
}
