package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/teranos/corpus/internal/util"
	"github.com/teranos/corpus/lex/types"
)

// rule is one entry of the interpretation table: a named matcher that writes
// its fragment into the filter when the query contains its phrase.
type rule struct {
	name  string
	apply func(query string, f *types.Filter)
}

// Numeric and letter extraction patterns. Numbers are non-negative integers
// written in digits; word-form numerals are out of scope. Letters are ASCII,
// mirroring the phrase forms the rules recognize.
var (
	longerThanPattern  = regexp.MustCompile(`longer than (\d+)`)
	shorterThanPattern = regexp.MustCompile(`shorter than (\d+)`)
	theLetterPattern   = regexp.MustCompile(`contain(?:s|ing)? the letter ([a-z])`)
	containingPattern  = regexp.MustCompile(`containing ([a-z])`)
)

// buildRules returns the rule table in application order. Order is part of
// the contract: the weaker "containing X" form only fires when the explicit
// "the letter X" form did not, and "first vowel" overrides both.
func buildRules(firstVowel rune) []rule {
	return []rule{
		{
			// "single word" / "one word" -> word_count = 1
			name: "single-word",
			apply: func(query string, f *types.Filter) {
				if strings.Contains(query, "single word") || strings.Contains(query, "one word") {
					f.WordCount = util.Ptr(1)
				}
			},
		},
		{
			// "palindrome" / "palindromic" -> is_palindrome = true
			name: "palindrome",
			apply: func(query string, f *types.Filter) {
				if strings.Contains(query, "palindrom") {
					f.IsPalindrome = util.Ptr(true)
				}
			},
		},
		{
			// "longer than N" -> min_length = N + 1 (strictly longer)
			name: "longer-than",
			apply: func(query string, f *types.Filter) {
				if n, ok := extractNumber(longerThanPattern, query); ok {
					f.MinLength = util.Ptr(n + 1)
				}
			},
		},
		{
			// "shorter than N" -> max_length = N - 1 (strictly shorter)
			name: "shorter-than",
			apply: func(query string, f *types.Filter) {
				if n, ok := extractNumber(shorterThanPattern, query); ok {
					f.MaxLength = util.Ptr(n - 1)
				}
			},
		},
		{
			// "contains the letter x" / "containing the letter x"
			name: "the-letter",
			apply: func(query string, f *types.Filter) {
				if m := theLetterPattern.FindStringSubmatch(query); m != nil {
					f.ContainsCharacter = util.Ptr(m[1])
				}
			},
		},
		{
			// "containing x" fallback; never overrides the explicit form
			name: "containing",
			apply: func(query string, f *types.Filter) {
				if f.ContainsCharacter != nil {
					return
				}
				if m := containingPattern.FindStringSubmatch(query); m != nil {
					f.ContainsCharacter = util.Ptr(m[1])
				}
			},
		},
		{
			// "first vowel" -> the configured vowel, 'a' by default
			name: "first-vowel",
			apply: func(query string, f *types.Filter) {
				if strings.Contains(query, "first vowel") {
					f.ContainsCharacter = util.Ptr(string(firstVowel))
				}
			},
		},
	}
}

// extractNumber returns the first capture of pattern parsed as a
// non-negative integer. Digits that overflow int report no match.
func extractNumber(pattern *regexp.Regexp, query string) (int, bool) {
	m := pattern.FindStringSubmatch(query)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
