// Package config loads and watches the layered corpus configuration.
//
// Precedence, lowest to highest: built-in defaults, system config
// (/etc/corpus/config.toml), user config (~/.config/corpus/config.toml),
// project config (.corpus/config.toml found by upward search), CORPUS_*
// environment variables.
package config

// Config represents the corpus daemon and CLI configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Interpreter InterpreterConfig `mapstructure:"interpreter"`
}

// ServerConfig configures the corpus HTTP daemon
type ServerConfig struct {
	Host           string  `mapstructure:"host"`
	Port           int     `mapstructure:"port"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`   // Token refill rate per client IP
	RateLimitBurst int     `mapstructure:"rate_limit_burst"` // Bucket size per client IP
}

// DatabaseConfig configures the SQLite database
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig configures the default log output; command-line flags
// override both fields.
type LoggingConfig struct {
	Verbosity int  `mapstructure:"verbosity"` // 0-4, see logger verbosity ladder
	JSON      bool `mapstructure:"json"`
}

// InterpreterConfig tunes the natural-language rule table
type InterpreterConfig struct {
	FirstVowel string `mapstructure:"first_vowel"` // Character emitted by the "first vowel" rule
}

// Server port constants
const (
	DefaultServerPort = 8420
	DefaultServerHost = "127.0.0.1"
)

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return "corpus.db"
	}
	return c.Database.Path
}

// GetFirstVowel returns the configured first-vowel rune, falling back to 'a'
// when unset. Validate guarantees the value is at most one rune, so the
// conversion here cannot truncate.
func (c *Config) GetFirstVowel() rune {
	if c.Interpreter.FirstVowel == "" {
		return 'a'
	}
	return []rune(c.Interpreter.FirstVowel)[0]
}

// Map returns the config as a nested map in the TOML file's key layout.
// Save marshals this shape to disk and the daemon's config endpoint
// serializes it to JSON, so both surfaces show the same vocabulary.
func (c *Config) Map() map[string]interface{} {
	return map[string]interface{}{
		"server": map[string]interface{}{
			"host":             c.Server.Host,
			"port":             c.Server.Port,
			"rate_limit_rps":   c.Server.RateLimitRPS,
			"rate_limit_burst": c.Server.RateLimitBurst,
		},
		"database": map[string]interface{}{
			"path": c.Database.Path,
		},
		"logging": map[string]interface{}{
			"verbosity": c.Logging.Verbosity,
			"json":      c.Logging.JSON,
		},
		"interpreter": map[string]interface{}{
			"first_vowel": c.Interpreter.FirstVowel,
		},
	}
}
