// Package filter evaluates structured predicates against stored records.
//
// Matching is a pure conjunction: every set field must hold, unset fields
// impose no constraint. The package never mutates its inputs and is safe
// for unsynchronized concurrent use.
package filter

import (
	"golang.org/x/text/cases"

	"github.com/teranos/corpus/lex/types"
)

// Matches reports whether rec satisfies every predicate set on f.
// The empty filter matches every record. Callers must run Validate first;
// Matches assumes a well-formed filter.
func Matches(rec types.StringRecord, f types.Filter) bool {
	props := rec.Properties

	if f.MinLength != nil && props.Length < *f.MinLength {
		return false
	}
	if f.MaxLength != nil && props.Length > *f.MaxLength {
		return false
	}
	if f.WordCount != nil && props.WordCount != *f.WordCount {
		return false
	}
	if f.IsPalindrome != nil && props.IsPalindrome != *f.IsPalindrome {
		return false
	}
	if f.UniqueChars != nil && props.UniqueChars != *f.UniqueChars {
		return false
	}
	if f.ContainsCharacter != nil && !containsFold(rec.Value, *f.ContainsCharacter) {
		return false
	}
	return true
}

// Apply returns the records that satisfy f, preserving the relative order
// of the input. The input slice is never modified.
func Apply(records []types.StringRecord, f types.Filter) []types.StringRecord {
	matched := make([]types.StringRecord, 0, len(records))
	for _, rec := range records {
		if Matches(rec, f) {
			matched = append(matched, rec)
		}
	}
	return matched
}

// containsFold reports whether any rune of value equals the single rune of
// ch under Unicode case folding, so 'a' finds "A" and vice versa.
func containsFold(value, ch string) bool {
	folded := cases.Fold().String(ch)
	for _, r := range value {
		if cases.Fold().String(string(r)) == folded {
			return true
		}
	}
	return false
}
