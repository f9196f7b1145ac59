// Package analysis computes the derived properties of an input string.
//
// All functions are pure: they read only their arguments, making them safe
// for unsynchronized concurrent use. Callers must reject empty input before
// analysis; an empty value has no record identity.
package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/teranos/corpus/lex/types"
)

// HashValue returns the hex-encoded SHA-256 digest of the raw UTF-8 bytes
// of value. The digest doubles as the record ID, so two requests carrying
// the same value always collide on the same key.
func HashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// Analyze derives the full property set for a non-empty value.
// Deterministic: repeated calls with the same value yield equal results.
func Analyze(value string) types.Properties {
	// Single pass over the runes fills the frequency map and counts code
	// points, so the frequency counts sum to Length by construction.
	freq := make(map[string]int)
	length := 0
	for _, r := range value {
		freq[string(r)]++
		length++
	}

	return types.Properties{
		Length:        length,
		IsPalindrome:  isPalindrome(value),
		UniqueChars:   len(freq),
		WordCount:     len(strings.Fields(value)),
		SHA256Hash:    HashValue(value),
		CharFrequency: freq,
	}
}

// NewRecord analyzes value and assembles a complete record with its
// content-hash identity and a UTC creation timestamp.
func NewRecord(value string, now time.Time) types.StringRecord {
	props := Analyze(value)
	return types.StringRecord{
		ID:         props.SHA256Hash,
		Value:      value,
		Properties: props,
		CreatedAt:  now.UTC(),
	}
}

// isPalindrome strips every rune that is not a Unicode letter or digit,
// case-folds the remainder, and compares it to its reverse. Sentence-style
// palindromes ("A man, a plan, a canal: Panama") therefore classify as
// palindromes. A value with no alphanumeric runes is not a palindrome.
func isPalindrome(value string) bool {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return false
	}

	// Fold before comparing so characters with multi-rune or non-trivial
	// case mappings compare correctly in both directions.
	normalized := []rune(cases.Fold().String(b.String()))
	for i, j := 0, len(normalized)-1; i < j; i, j = i+1, j-1 {
		if normalized[i] != normalized[j] {
			return false
		}
	}
	return true
}
