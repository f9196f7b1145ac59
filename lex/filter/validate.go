package filter

import (
	"unicode/utf8"

	"github.com/teranos/corpus/errors"
	"github.com/teranos/corpus/lex/types"
)

// Validate rejects malformed filters before they reach Matches/Apply.
// Well-formed means: non-negative bounds and counts, min_length not above
// max_length, and contains_character exactly one character. Violations
// return an error wrapping errors.ErrInvalidRequest.
func Validate(f types.Filter) error {
	if f.MinLength != nil && *f.MinLength < 0 {
		return errors.NewInvalidRequestError("min_length cannot be negative, got %d", *f.MinLength)
	}
	if f.MaxLength != nil && *f.MaxLength < 0 {
		return errors.NewInvalidRequestError("max_length cannot be negative, got %d", *f.MaxLength)
	}
	if f.MinLength != nil && f.MaxLength != nil && *f.MinLength > *f.MaxLength {
		return errors.NewInvalidRequestError("min_length cannot be greater than max_length")
	}
	if f.WordCount != nil && *f.WordCount < 0 {
		return errors.NewInvalidRequestError("word_count cannot be negative, got %d", *f.WordCount)
	}
	if f.UniqueChars != nil && *f.UniqueChars < 0 {
		return errors.NewInvalidRequestError("unique_characters cannot be negative, got %d", *f.UniqueChars)
	}
	if f.ContainsCharacter != nil {
		if n := utf8.RuneCountInString(*f.ContainsCharacter); n != 1 {
			return errors.NewInvalidRequestError("contains_character must be exactly one character, got %d", n)
		}
	}
	return nil
}
