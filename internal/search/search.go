// Package search implements the fragment matching and ranking used by
// the returning-customer lookups. It is pure: filtering and ordering
// happen over index entries already loaded from the store.
package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/aquavenda/pos/internal/service/models/lastorder"
)

const (
	// DefaultLimit bounds a result set when the caller does not ask
	// for a specific size.
	DefaultLimit = 5

	// MinPhoneDigits is the minimum number of digits a phone fragment
	// must keep after normalization. Shorter fragments match far too
	// many customers to be useful suggestions.
	MinPhoneDigits = 4
)

// Match reports whether value contains fragment at any position,
// ignoring case. Prefix, interior, and suffix matches all qualify:
// operators often remember only a street name or the last digits of a
// number.
func Match(value, fragment string) bool {
	return strings.Contains(strings.ToUpper(value), strings.ToUpper(fragment))
}

// NormalizePhoneFragment strips the leading run of non-digit characters
// and every whitespace character from a phone fragment, leaving the
// digits an operator actually typed.
func NormalizePhoneFragment(fragment string) string {
	trimmed := strings.TrimLeftFunc(fragment, func(r rune) bool {
		return !unicode.IsDigit(r)
	})

	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range trimmed {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// Rank orders matched entries for display, ascending by the time the
// slot was first seen with ties broken by the field value, and truncates
// to limit. Freshness of the referenced order is the index's concern
// (last-write-wins upsert), not the sort's.
func Rank(entries []lastorder.Entry, field func(lastorder.Entry) string, limit int) []lastorder.Entry {
	ranked := make([]lastorder.Entry, len(entries))
	copy(ranked, entries)

	sort.SliceStable(ranked, func(i, j int) bool {
		if !ranked[i].Created.Equal(ranked[j].Created) {
			return ranked[i].Created.Before(ranked[j].Created)
		}

		return field(ranked[i]) < field(ranked[j])
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}
