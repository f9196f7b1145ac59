package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/teranos/corpus/errors"
)

var (
	globalConfig  *Config
	viperInstance *viper.Viper
	globalMu      sync.Mutex
)

// Load reads the corpus configuration using Viper. The result is cached;
// call Reset to force a reload (the watcher does this on file changes).
func Load() (*Config, error) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	globalConfig = &config
	return globalConfig, nil
}

// LoadFromFile loads configuration from a specific file path, bypassing the
// layered search. Used by tests and the --config flag.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", configPath)
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid configuration in %s", configPath)
	}

	return &config, nil
}

// Reset clears the cached configuration so the next Load re-reads every
// layer. Used by the watcher and by tests.
func Reset() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = nil
	viperInstance = nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	globalMu.Lock()
	defer globalMu.Unlock()
	return initViper()
}

// initViper initializes Viper with configuration sources and defaults.
// Callers must hold globalMu.
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	v.SetEnvPrefix("CORPUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// ConfigFilePaths returns every config file path that exists, in precedence
// order (lowest first). Used by `corpus config path` and the watcher.
func ConfigFilePaths() []string {
	var paths []string
	for _, p := range candidateConfigPaths() {
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		}
	}
	return paths
}

// candidateConfigPaths lists the layered config locations, lowest
// precedence first. Missing files are skipped at merge time.
func candidateConfigPaths() []string {
	paths := []string{"/etc/corpus/config.toml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "corpus", "config.toml"))
	}

	if project := findProjectConfig(); project != "" {
		paths = append(paths, project)
	}

	return paths
}

// findProjectConfig searches for .corpus/config.toml by walking up the
// directory tree from the working directory. Returns the first hit, or an
// empty string when none is found.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, ".corpus", "config.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// mergeConfigFiles merges the layered config files into v in precedence
// order. Each file is parsed in isolation so one malformed layer does not
// poison the layers below it.
func mergeConfigFiles(v *viper.Viper) {
	for _, configPath := range candidateConfigPaths() {
		if _, err := os.Stat(configPath); err != nil {
			continue
		}

		layer := viper.New()
		layer.SetConfigFile(configPath)
		layer.SetConfigType("toml")
		if err := layer.ReadInConfig(); err != nil {
			continue
		}

		for _, key := range layer.AllKeys() {
			v.Set(key, layer.Get(key))
		}
	}
}
