package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tastebuddin/internal/leaderboard"
	"tastebuddin/internal/metrics"
	"tastebuddin/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const (
	DailyWindowDays  = 1
	WeeklyWindowDays = 7
)

type cachedRecipeBoard struct {
	Entries []leaderboard.RecipeEntry `json:"entries"`
}

type cachedAuthorBoard struct {
	Entries []leaderboard.AuthorEntry `json:"entries"`
}

// LeaderboardService computes boards from recipe snapshots and keeps them
// in the leaderboard cache for ttl. Empty outcomes are cached too.
type LeaderboardService struct {
	db         *gorm.DB
	recipes    repositories.RecipeRepository
	cache      repositories.LeaderboardRepository
	aggregator *leaderboard.Aggregator
	ttl        time.Duration
	limit      int
	log        logger.Logger
}

func NewLeaderboardService(
	db *gorm.DB,
	repos repositories.Repository,
	aggregator *leaderboard.Aggregator,
	ttl time.Duration,
	defaultLimit int,
) *LeaderboardService {
	if aggregator == nil {
		aggregator = leaderboard.New()
	}

	return &LeaderboardService{
		db:         db,
		recipes:    repos.Recipe,
		cache:      repos.Leaderboard,
		aggregator: aggregator,
		ttl:        ttl,
		limit:      defaultLimit,
		log:        logger.New("LeaderboardService"),
	}
}

func (s *LeaderboardService) DefaultLimit() int {
	return s.limit
}

// RecipeBoard ranks recipes created in the last days. An empty window
// returns leaderboard.ErrNoItemsInWindow.
func (s *LeaderboardService) RecipeBoard(
	ctx context.Context,
	days int,
	limit int,
) ([]leaderboard.RecipeEntry, error) {
	log := s.log.TraceFromContext(ctx).Function("RecipeBoard")
	defer metrics.ObserveLeaderboard(boardName(days))()

	if days < 1 {
		return nil, leaderboard.ErrInvalidWindow
	}

	key := fmt.Sprintf("recipes:%d:%d", days, limit)

	var cached cachedRecipeBoard
	if s.readCache(ctx, key, &cached) {
		if len(cached.Entries) == 0 {
			return nil, leaderboard.ErrNoItemsInWindow
		}
		return cached.Entries, nil
	}

	from, _ := s.aggregator.Window(days)
	recipes, err := s.recipes.GetCreatedSince(ctx, s.db, from)
	if err != nil {
		return nil, err
	}

	entries, err := s.aggregator.TopRecipes(recipes, days, limit)
	if err != nil && !errors.Is(err, leaderboard.ErrNoItemsInWindow) {
		return nil, log.Err("failed to rank recipes", err, "days", days)
	}

	s.writeCache(ctx, key, cachedRecipeBoard{Entries: entries})

	return entries, err
}

// AuthorBoard ranks authors by the likes across all their recipes.
func (s *LeaderboardService) AuthorBoard(
	ctx context.Context,
	limit int,
) ([]leaderboard.AuthorEntry, error) {
	log := s.log.TraceFromContext(ctx).Function("AuthorBoard")
	defer metrics.ObserveLeaderboard("authors")()

	key := fmt.Sprintf("authors:%d", limit)

	var cached cachedAuthorBoard
	if s.readCache(ctx, key, &cached) {
		if len(cached.Entries) == 0 {
			return nil, leaderboard.ErrNoAuthorData
		}
		return cached.Entries, nil
	}

	recipes, err := s.recipes.GetAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	entries, err := s.aggregator.TopAuthors(recipes, limit)
	if err != nil && !errors.Is(err, leaderboard.ErrNoAuthorData) {
		return nil, log.Err("failed to rank authors", err)
	}

	s.writeCache(ctx, key, cachedAuthorBoard{Entries: entries})

	return entries, err
}

func (s *LeaderboardService) Invalidate(ctx context.Context) error {
	return s.cache.Clear(ctx)
}

// Warm drops every cached board and recomputes the default ones.
func (s *LeaderboardService) Warm(ctx context.Context) error {
	log := s.log.TraceFromContext(ctx).Function("Warm")

	if err := s.Invalidate(ctx); err != nil {
		log.Warn("failed to clear leaderboard cache before warming", "error", err)
	}

	for _, days := range []int{DailyWindowDays, WeeklyWindowDays} {
		if _, err := s.RecipeBoard(ctx, days, s.limit); err != nil &&
			!errors.Is(err, leaderboard.ErrNoItemsInWindow) {
			return err
		}
	}

	if _, err := s.AuthorBoard(ctx, s.limit); err != nil &&
		!errors.Is(err, leaderboard.ErrNoAuthorData) {
		return err
	}

	log.Info("Leaderboards warmed", "limit", s.limit)
	return nil
}

func (s *LeaderboardService) readCache(ctx context.Context, key string, result any) bool {
	if s.ttl <= 0 {
		return false
	}

	found, err := s.cache.Get(ctx, key, result)
	if err != nil {
		s.log.TraceFromContext(ctx).Function("readCache").
			Warn("leaderboard cache read failed", "key", key, "error", err)
		return false
	}

	metrics.RecordCache("leaderboard", found)
	return found
}

func (s *LeaderboardService) writeCache(ctx context.Context, key string, value any) {
	if s.ttl <= 0 {
		return
	}

	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.log.TraceFromContext(ctx).Function("writeCache").
			Warn("leaderboard cache write failed", "key", key, "error", err)
	}
}

func boardName(days int) string {
	switch days {
	case DailyWindowDays:
		return "daily"
	case WeeklyWindowDays:
		return "weekly"
	default:
		return "custom"
	}
}
