package database

import (
	"context"
	"fmt"
	"time"

	"tastebuddin/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

// Valkey database indexes, one per cache category. Order matches
// Cache.clients.
const (
	// GENERAL_CACHE_INDEX (DB 0) - health checks and miscellaneous keys
	GENERAL_CACHE_INDEX = iota

	// USER_CACHE_INDEX (DB 1) - user profiles keyed by id
	USER_CACHE_INDEX

	// LEADERBOARD_CACHE_INDEX (DB 2) - computed recipe and author boards
	LEADERBOARD_CACHE_INDEX

	// EVENTS_CACHE_INDEX (DB 3) - pub/sub for cache invalidation
	EVENTS_CACHE_INDEX
)

func newCacheClient(address string, index int) (CacheClient, error) {
	return valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{address},
			SelectDB:    index,
		},
	)
}

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}
	target := fmt.Sprintf("%s:%d", address, port)

	var cacheDB Cache
	var err error

	if cacheDB.General, err = newCacheClient(target, GENERAL_CACHE_INDEX); err != nil {
		return log.Err("failed to create general valkey client", err)
	}

	if cacheDB.User, err = newCacheClient(target, USER_CACHE_INDEX); err != nil {
		return log.Err("failed to create user valkey client", err)
	}

	if cacheDB.Leaderboard, err = newCacheClient(target, LEADERBOARD_CACHE_INDEX); err != nil {
		return log.Err("failed to create leaderboard valkey client", err)
	}

	if cacheDB.Events, err = newCacheClient(target, EVENTS_CACHE_INDEX); err != nil {
		return log.Err("failed to create events valkey client", err)
	}

	s.Cache = cacheDB

	if config.DatabaseCacheReset != -1 {
		go clearCacheDB(config.DatabaseCacheReset, cacheDB)
	}

	return nil
}

func clearCacheDB(index int, cacheDB Cache) {
	log := logger.New("database").File("cache.database").Function("clearCacheDB")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cache, err := cacheDB.byIndex(index)
	if err != nil {
		log.Warn("Invalid cache database index", "index", index)
		return
	}

	if err := cache.client.Do(ctx, cache.client.B().Flushdb().Build()).Error(); err != nil {
		log.Er("Failed to clear cache database", err, "index", index, "dbName", cache.name)
		return
	}

	log.Info("Successfully cleared cache database", "index", index, "dbName", cache.name)
}
