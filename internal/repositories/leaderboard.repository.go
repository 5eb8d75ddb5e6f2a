package repositories

import (
	"context"
	"time"

	"tastebuddin/internal/database"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	LEADERBOARD_CACHE_PREFIX = "leaderboard"
	LEADERBOARD_KEYS_SET     = "leaderboard:keys"
)

// LeaderboardRepository stores computed boards in the leaderboard cache.
// Every written key is tracked in a set so Clear can drop them together.
type LeaderboardRepository interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Clear(ctx context.Context) error
}

type leaderboardRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewLeaderboardRepository(cache database.CacheClient) LeaderboardRepository {
	return &leaderboardRepository{
		cache: cache,
		log:   logger.New("leaderboardRepository"),
	}
}

func (r *leaderboardRepository) Get(ctx context.Context, key string, result any) (bool, error) {
	if r.cache == nil {
		return false, nil
	}

	found, err := database.NewCacheBuilder(r.cache, key).
		WithContext(ctx).
		WithHash(LEADERBOARD_CACHE_PREFIX).
		Get(result)
	if err != nil {
		return false, r.log.TraceFromContext(ctx).Function("Get").
			Err("failed to read leaderboard cache", err, "key", key)
	}

	return found, nil
}

func (r *leaderboardRepository) Set(
	ctx context.Context,
	key string,
	value any,
	ttl time.Duration,
) error {
	if r.cache == nil || ttl <= 0 {
		return nil
	}

	log := r.log.TraceFromContext(ctx).Function("Set")

	builder := database.NewCacheBuilder(r.cache, key).
		WithContext(ctx).
		WithHash(LEADERBOARD_CACHE_PREFIX).
		WithStruct(value).
		WithTTL(ttl)
	if err := builder.Set(); err != nil {
		return log.Err("failed to write leaderboard cache", err, "key", key)
	}

	err := database.NewCacheBuilder(r.cache, LEADERBOARD_KEYS_SET).
		WithContext(ctx).
		WithMember(builder.Key()).
		SetSadd()
	if err != nil {
		return log.Err("failed to track leaderboard key", err, "key", key)
	}

	return nil
}

func (r *leaderboardRepository) Clear(ctx context.Context) error {
	if r.cache == nil {
		return nil
	}

	log := r.log.TraceFromContext(ctx).Function("Clear")

	keys, err := database.NewCacheBuilder(r.cache, LEADERBOARD_KEYS_SET).
		WithContext(ctx).
		GetSetMembers()
	if err != nil {
		return log.Err("failed to list leaderboard keys", err)
	}

	keys = append(keys, LEADERBOARD_KEYS_SET)
	if err := database.NewCacheBuilder(r.cache, keys).WithContext(ctx).Delete(); err != nil {
		return log.Err("failed to clear leaderboard cache", err, "keys", len(keys))
	}

	log.Debug("Cleared leaderboard cache", "keys", len(keys)-1)
	return nil
}
