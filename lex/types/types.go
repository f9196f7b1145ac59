package types

import (
	"time"
)

// Properties holds the derived, immutable measurements of a stored string.
// All fields are computed once at creation time and never recomputed.
type Properties struct {
	Length        int            `json:"length"`                  // Unicode code points in Value
	IsPalindrome  bool           `json:"is_palindrome"`           // Alphanumeric-only, case-folded palindrome check
	UniqueChars   int            `json:"unique_characters"`       // Distinct characters, case-sensitive
	WordCount     int            `json:"word_count"`              // Maximal runs of non-whitespace
	SHA256Hash    string         `json:"sha256_hash"`             // Hex digest of the raw UTF-8 value, same as record ID
	CharFrequency map[string]int `json:"character_frequency_map"` // Character -> occurrence count, keys are single runes
}

// StringRecord is the unit of storage: a verbatim input string, its derived
// properties, and its content-hash identity
type StringRecord struct {
	ID         string     `db:"id" json:"id"`                 // Hex SHA-256 of the raw value
	Value      string     `db:"value" json:"value"`           // Original input, stored verbatim
	Properties Properties `db:"properties" json:"properties"` // Derived measurements
	CreatedAt  time.Time  `db:"created_at" json:"created_at"` // Assigned once at creation (UTC)
}

// Filter is a conjunction of optional predicates over stored records.
// Nil fields impose no constraint; the zero Filter matches every record.
type Filter struct {
	MinLength         *int    `json:"min_length,omitempty"`         // Inclusive lower bound on Length
	MaxLength         *int    `json:"max_length,omitempty"`         // Inclusive upper bound on Length
	WordCount         *int    `json:"word_count,omitempty"`         // Exact word count
	IsPalindrome      *bool   `json:"is_palindrome,omitempty"`      // Palindrome classification
	ContainsCharacter *string `json:"contains_character,omitempty"` // Single character, case-insensitive membership in Value
	UniqueChars       *int    `json:"unique_characters,omitempty"`  // Exact distinct-character count
}

// IsEmpty returns true when no predicate field is set.
// An empty filter matches everything; callers that require at least one
// recognized clause (the natural-language path) must check this.
func (f Filter) IsEmpty() bool {
	return f.MinLength == nil &&
		f.MaxLength == nil &&
		f.WordCount == nil &&
		f.IsPalindrome == nil &&
		f.ContainsCharacter == nil &&
		f.UniqueChars == nil
}

// Fields returns the names of the predicate fields that are set, in the
// contract vocabulary. Used for logging and the filters_applied echo.
func (f Filter) Fields() []string {
	var fields []string
	if f.MinLength != nil {
		fields = append(fields, "min_length")
	}
	if f.MaxLength != nil {
		fields = append(fields, "max_length")
	}
	if f.WordCount != nil {
		fields = append(fields, "word_count")
	}
	if f.IsPalindrome != nil {
		fields = append(fields, "is_palindrome")
	}
	if f.ContainsCharacter != nil {
		fields = append(fields, "contains_character")
	}
	if f.UniqueChars != nil {
		fields = append(fields, "unique_characters")
	}
	return fields
}
