package config

import (
	"unicode/utf8"

	"github.com/teranos/corpus/errors"
)

// Validate checks the configuration for values that would break the daemon
// at runtime. Called by Load after unmarshaling, so a bad layer fails fast
// instead of surfacing as a confusing listen or limiter error later.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.Newf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Server.RateLimitRPS <= 0 {
		return errors.Newf("server.rate_limit_rps must be positive, got %g", c.Server.RateLimitRPS)
	}
	if c.Server.RateLimitBurst < 1 {
		return errors.Newf("server.rate_limit_burst must be at least 1, got %d", c.Server.RateLimitBurst)
	}
	if c.Interpreter.FirstVowel != "" {
		if n := utf8.RuneCountInString(c.Interpreter.FirstVowel); n != 1 {
			return errors.Newf("interpreter.first_vowel must be a single character, got %q", c.Interpreter.FirstVowel)
		}
	}
	return nil
}
