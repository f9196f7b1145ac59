package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/corpus/config"
	corpustesting "github.com/teranos/corpus/internal/testing"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:           config.DefaultServerHost,
			Port:           config.DefaultServerPort,
			RateLimitRPS:   50,
			RateLimitBurst: 100,
		},
	}
}

func TestNewRejectsNilDatabase(t *testing.T) {
	_, err := New(nil, "corpus.db", testConfig(), 1)
	assert.Error(t, err)
}

func TestNewRejectsBadVerbosity(t *testing.T) {
	database := corpustesting.CreateMigratedTestDB(t)

	for _, verbosity := range []int{-1, 5} {
		_, err := New(database, "corpus.db", testConfig(), verbosity)
		assert.Error(t, err, "verbosity %d must be rejected", verbosity)
	}
}

func TestNewBuildsRunningServer(t *testing.T) {
	database := corpustesting.CreateMigratedTestDB(t)

	s, err := New(database, "corpus.db", testConfig(), 1)
	require.NoError(t, err)
	t.Cleanup(func() { s.Stop() })

	assert.Equal(t, ServerStateRunning, s.getState())
	assert.NotNil(t, s.store)
	assert.NotNil(t, s.currentInterpreter())
	assert.Equal(t, 0, s.clientCount())
}
