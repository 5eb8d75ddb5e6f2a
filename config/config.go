package config

import (
	"fmt"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

const (
	DefaultLeaderboardLimit    = 10
	MaxLeaderboardLimit        = 100
	DefaultLeaderboardCacheTTL = 300
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset   int    `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	AuthJWTSecret        string `mapstructure:"AUTH_JWT_SECRET"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`
	LeaderboardCacheTTL  int    `mapstructure:"LEADERBOARD_CACHE_TTL"`
	LeaderboardLimit     int    `mapstructure:"LEADERBOARD_LIMIT"`
	AllergenSynonymsFile string `mapstructure:"ALLERGEN_SYNONYMS_FILE"`
}

var envVars = []string{
	"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
	"CORS_ALLOW_ORIGINS", "AUTH_JWT_SECRET", "SCHEDULER_ENABLED",
	"LEADERBOARD_CACHE_TTL", "LEADERBOARD_LIMIT", "ALLERGEN_SYNONYMS_FILE",
}

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_CACHE_RESET", -1)
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("LEADERBOARD_CACHE_TTL", DefaultLeaderboardCacheTTL)
	v.SetDefault("LEADERBOARD_LIMIT", DefaultLeaderboardLimit)

	for _, env := range envVars {
		if err := v.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	envVarsSet := v.IsSet("SERVER_PORT") && v.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		v.SetConfigFile(".env")
		v.SetConfigType("env")

		if err := v.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		v.SetConfigFile(".env.local")
		if err := v.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info(
		"Successfully initialized config",
		"environment", config.Environment,
		"port", config.ServerPort,
		"scheduler", config.SchedulerEnabled,
		"auth", config.AuthEnabled(),
	)
	return config, nil
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.LeaderboardLimit < 1 || config.LeaderboardLimit > MaxLeaderboardLimit {
		return log.Error(
			"Fatal error: LEADERBOARD_LIMIT must be between 1 and 100",
			"limit", config.LeaderboardLimit,
		)
	}

	if config.LeaderboardCacheTTL < 0 {
		return log.Error(
			"Fatal error: LEADERBOARD_CACHE_TTL cannot be negative",
			"ttl", config.LeaderboardCacheTTL,
		)
	}

	return nil
}

// DSN builds the PostgreSQL connection string shared by GORM and sql-migrate.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
	)
}

// LeaderboardTTL is the lifetime of a cached leaderboard. Zero disables
// caching.
func (c Config) LeaderboardTTL() time.Duration {
	return time.Duration(c.LeaderboardCacheTTL) * time.Second
}

func (c Config) AuthEnabled() bool {
	return c.AuthJWTSecret != ""
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}
