package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		ServerPort:          8080,
		LeaderboardLimit:    DefaultLeaderboardLimit,
		LeaderboardCacheTTL: DefaultLeaderboardCacheTTL,
	}
}

func TestValidateConfig(t *testing.T) {
	log := logger.New("test")

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "Valid", mutate: func(c *Config) {}},
		{name: "Missing port", mutate: func(c *Config) { c.ServerPort = 0 }, wantErr: true},
		{name: "Zero limit", mutate: func(c *Config) { c.LeaderboardLimit = 0 }, wantErr: true},
		{name: "Limit over max", mutate: func(c *Config) { c.LeaderboardLimit = 101 }, wantErr: true},
		{name: "Negative ttl", mutate: func(c *Config) { c.LeaderboardCacheTTL = -1 }, wantErr: true},
		{name: "Zero ttl disables caching", mutate: func(c *Config) { c.LeaderboardCacheTTL = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(&config)

			err := validateConfig(config, log)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "tastebuddin")
	t.Setenv("SCHEDULER_ENABLED", "true")
	t.Setenv("LEADERBOARD_LIMIT", "25")
	t.Setenv("AUTH_JWT_SECRET", "secret")

	config, err := New()

	require.NoError(t, err)
	assert.Equal(t, 9090, config.ServerPort)
	assert.Equal(t, "db", config.DatabaseHost)
	assert.Equal(t, 5432, config.DatabasePort)
	assert.Equal(t, -1, config.DatabaseCacheReset)
	assert.True(t, config.SchedulerEnabled)
	assert.Equal(t, 25, config.LeaderboardLimit)
	assert.Equal(t, 5*time.Minute, config.LeaderboardTTL())
	assert.True(t, config.AuthEnabled())
	assert.Equal(t, "production", config.Environment)
}

func TestConfig_DSN(t *testing.T) {
	config := Config{
		DatabaseHost:     "localhost",
		DatabasePort:     5432,
		DatabaseUser:     "chef",
		DatabasePassword: "pw",
		DatabaseName:     "recipes",
	}

	assert.Equal(
		t,
		"host=localhost port=5432 user=chef password=pw dbname=recipes sslmode=disable TimeZone=UTC",
		config.DSN(),
	)
}

func TestLoadSynonyms(t *testing.T) {
	t.Run("Defaults without a file", func(t *testing.T) {
		synonyms, err := LoadSynonyms("")
		require.NoError(t, err)
		assert.Equal(t, "peanut", synonyms["peanuts"])
	})

	t.Run("File groups extend defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "synonyms.yaml")
		content := "synonyms:\n  dairy:\n    - milk\n    - cow cheese\n  treenuts: [almond, cashew]\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		synonyms, err := LoadSynonyms(path)
		require.NoError(t, err)
		assert.Equal(t, "dairy", synonyms["milk"])
		assert.Equal(t, "dairy", synonyms["cow cheese"])
		assert.Equal(t, "treenuts", synonyms["almond"])
		assert.Equal(t, "peanut", synonyms["peanuts"])
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := LoadSynonyms(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestConfig_Canonicalizer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synonyms.yaml")
	require.NoError(t, os.WriteFile(path, []byte("synonyms:\n  dairy: [milk]\n"), 0o600))

	canon, err := Config{AllergenSynonymsFile: path}.Canonicalizer()

	require.NoError(t, err)
	assert.Equal(t, "dairy", canon.Normalize("Milk"))
}
