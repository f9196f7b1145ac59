package config

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", DefaultServerHost)
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.rate_limit_rps", 50.0)
	v.SetDefault("server.rate_limit_burst", 100)

	// Database defaults
	v.SetDefault("database.path", "corpus.db")

	// Logging defaults
	v.SetDefault("logging.verbosity", 1)
	v.SetDefault("logging.json", false)

	// Interpreter defaults
	v.SetDefault("interpreter.first_vowel", "a")
}
