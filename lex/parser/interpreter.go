// Package parser translates free-text queries into structured filters.
//
// Interpretation is deliberately not NLP: an ordered table of
// phrase-to-fragment rules is matched against the normalized query text and
// the recognized fragments are merged into a single conjunctive filter.
// A query that matches no rule is an error, never an empty filter, so
// "I understood nothing" stays distinguishable from "filter by nothing".
package parser

import (
	"strings"

	"github.com/teranos/corpus/errors"
	"github.com/teranos/corpus/lex/types"
)

// DefaultFirstVowel is the character produced by the "first vowel" rule
// unless overridden with WithFirstVowel.
const DefaultFirstVowel = 'a'

// Interpreter holds the configured rule table.
// The zero value is not usable; construct with New.
type Interpreter struct {
	firstVowel rune
	rules      []rule
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithFirstVowel overrides the character emitted by the "first vowel" rule.
func WithFirstVowel(r rune) Option {
	return func(in *Interpreter) {
		in.firstVowel = r
	}
}

// New builds an Interpreter with the default rule table.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{firstVowel: DefaultFirstVowel}
	for _, opt := range opts {
		opt(in)
	}
	in.rules = buildRules(in.firstVowel)
	return in
}

// Interpret matches the rule table against query and merges the recognized
// fragments into a filter. Rules run in table order; when two rules set the
// same field the later one wins. Returns an error wrapping
// errors.ErrUninterpretable when no rule matches.
//
// The returned filter is not validated here: a query like "shorter than 0"
// produces max_length = -1 and is rejected by the caller's boundary
// validation, the same place a malformed structured filter would be.
func (in *Interpreter) Interpret(query string) (types.Filter, error) {
	normalized := normalizeQuery(query)

	var f types.Filter
	for _, r := range in.rules {
		r.apply(normalized, &f)
	}

	if f.IsEmpty() {
		return types.Filter{}, errors.NewUninterpretableError("no interpretable filters found in query %q", query)
	}
	return f, nil
}

// Explain returns the rule names in application order, for diagnostics.
func (in *Interpreter) Explain() []string {
	names := make([]string, len(in.rules))
	for i, r := range in.rules {
		names[i] = r.name
	}
	return names
}

// normalizeQuery lowercases the query and collapses all whitespace runs to
// single spaces so phrase rules match regardless of input spacing.
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
