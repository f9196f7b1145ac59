package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
[server]
port = 9000
rate_limit_rps = 10.0

[database]
path = "/tmp/test-corpus.db"

[interpreter]
first_vowel = "e"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 10.0, cfg.Server.RateLimitRPS)
	assert.Equal(t, "/tmp/test-corpus.db", cfg.Database.Path)
	assert.Equal(t, 'e', cfg.GetFirstVowel())

	// Unset sections fall back to defaults
	assert.Equal(t, DefaultServerHost, cfg.Server.Host)
	assert.Equal(t, 100, cfg.Server.RateLimitBurst)
	assert.Equal(t, 1, cfg.Logging.Verbosity)
}

func TestLoadFromFileDefaults(t *testing.T) {
	path := writeConfigFile(t, "")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "corpus.db", cfg.GetDatabasePath())
	assert.Equal(t, 'a', cfg.GetFirstVowel())
}

func TestLoadFromFileRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"port out of range", "[server]\nport = 99999\n"},
		{"zero rate limit", "[server]\nrate_limit_rps = 0.0\n"},
		{"multi-char vowel", "[interpreter]\nfirst_vowel = \"ae\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)
			_, err := LoadFromFile(path)
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{
			Host:           DefaultServerHost,
			Port:           DefaultServerPort,
			RateLimitRPS:   50,
			RateLimitBurst: 100,
		},
	}
	assert.NoError(t, cfg.Validate())

	cfg.Server.RateLimitBurst = 0
	assert.Error(t, cfg.Validate())
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           9090,
			RateLimitRPS:   25,
			RateLimitBurst: 50,
		},
		Database:    DatabaseConfig{Path: "round.db"},
		Logging:     LoggingConfig{Verbosity: 2},
		Interpreter: InterpreterConfig{FirstVowel: "e"},
	}
	require.NoError(t, SaveTo(cfg, path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", loaded.Server.Host)
	assert.Equal(t, 9090, loaded.Server.Port)
	assert.Equal(t, "round.db", loaded.Database.Path)
	assert.Equal(t, 2, loaded.Logging.Verbosity)
	assert.Equal(t, "e", loaded.Interpreter.FirstVowel)
}

func TestSaveToRotatesBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := &Config{
		Server: ServerConfig{
			Host:           DefaultServerHost,
			Port:           DefaultServerPort,
			RateLimitRPS:   50,
			RateLimitBurst: 100,
		},
	}
	require.NoError(t, SaveTo(cfg, path))

	// Second save rotates the first write into .back1
	cfg.Server.Port = 9001
	require.NoError(t, SaveTo(cfg, path))

	_, err := os.Stat(path + ".back1")
	assert.NoError(t, err, "expected .back1 after second save")

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9001, loaded.Server.Port)
}

func TestSaveRefusesInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := &Config{Server: ServerConfig{Port: -1}}
	assert.Error(t, SaveTo(cfg, path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "invalid config must not be written")
}
