package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tastebuddin/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type CacheClient valkey.Client

type Cache struct {
	General     CacheClient
	User        CacheClient
	Leaderboard CacheClient
	Events      CacheClient
}

type DB struct {
	SQL   *gorm.DB
	Cache Cache
	log   logger.Logger
}

func New(config config.Config) (DB, error) {
	log := logger.New("database").Function("New")

	log.Info("Initializing database")
	db := &DB{log: log}

	err := db.initializeDB(config)
	if err != nil {
		return DB{}, log.Err("failed to initialize database", err)
	}

	err = db.initializeCacheDB(config)
	if err != nil {
		return DB{}, log.Err("failed to initialize cache database", err)
	}

	return *db, nil
}

func (s *DB) initializeDB(config config.Config) error {
	level := gormLogger.Silent
	if config.Environment == "development" {
		level = gormLogger.Warn
	}

	sqlLogger := gormLogger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	gormConfig := &gorm.Config{
		Logger:                 sqlLogger,
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	}

	return s.initializePostgresDB(gormConfig, config)
}

func (s *DB) initializePostgresDB(gormConfig *gorm.Config, config config.Config) error {
	log := s.log.Function("initializePostgresDB")

	if config.DatabaseHost == "" {
		return log.Error("database host is empty")
	}
	if config.DatabaseName == "" {
		return log.Error("database name is empty")
	}
	if config.DatabaseUser == "" {
		return log.Error("database user is empty")
	}

	log.Info(
		"Connecting to PostgreSQL",
		"host",
		config.DatabaseHost,
		"port",
		config.DatabasePort,
		"database",
		config.DatabaseName,
	)
	db, err := gorm.Open(postgres.Open(config.DSN()), gormConfig)
	if err != nil {
		return log.Err("failed to open PostgreSQL database with GORM", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return log.Err("failed to get database from GORM", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return log.Err("failed to ping PostgreSQL database through GORM", err)
	}

	log.Info("Successfully connected to PostgreSQL with GORM")
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	s.SQL = db

	return nil
}

func (s *DB) Close() (err error) {
	if s.SQL != nil {
		sqlDB, dbErr := s.SQL.DB()
		if dbErr == nil {
			if closeErr := sqlDB.Close(); closeErr != nil {
				err = s.log.Err("failed to close database", closeErr)
			}
		}
	}

	for _, cache := range s.Cache.clients() {
		if cache.client != nil {
			cache.client.Close()
		}
	}

	return err
}

func (s *DB) SQLWithContext(ctx context.Context) *gorm.DB {
	return s.SQL.WithContext(ctx)
}

// Ping checks both the SQL connection and the general cache.
func (s *DB) Ping(ctx context.Context) error {
	log := s.log.Function("Ping")

	if s.SQL == nil {
		return log.ErrMsg("database not initialized")
	}

	sqlDB, err := s.SQL.DB()
	if err != nil {
		return log.Err("failed to get database from GORM", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return log.Err("database ping failed", err)
	}

	if s.Cache.General != nil {
		if err := s.Cache.General.Do(ctx, s.Cache.General.B().Ping().Build()).Error(); err != nil {
			return log.Err("cache ping failed", err)
		}
	}

	return nil
}

func (s *DB) FlushAllCaches() error {
	log := s.log.Function("FlushAllCaches")
	log.Info("Flushing all cache databases")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, cache := range s.Cache.clients() {
		if cache.client == nil {
			continue
		}
		if err := cache.client.Do(ctx, cache.client.B().Flushdb().Build()).Error(); err != nil {
			return log.Err("Failed to flush cache database", err, "cache", cache.name)
		}
		log.Info("Successfully flushed cache database", "cache", cache.name)
	}

	log.Info("All cache databases flushed successfully")
	return nil
}

type namedClient struct {
	client CacheClient
	name   string
}

func (c Cache) clients() []namedClient {
	return []namedClient{
		{c.General, "General"},
		{c.User, "User"},
		{c.Leaderboard, "Leaderboard"},
		{c.Events, "Events"},
	}
}

func (c Cache) byIndex(index int) (namedClient, error) {
	clients := c.clients()
	if index < 0 || index >= len(clients) {
		return namedClient{}, fmt.Errorf("invalid cache database index %d", index)
	}
	return clients[index], nil
}
