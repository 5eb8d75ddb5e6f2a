package leaderboardController

import (
	"context"
	"errors"

	"tastebuddin/config"
	"tastebuddin/internal/leaderboard"
	"tastebuddin/internal/services"
	"tastebuddin/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

type boardService interface {
	RecipeBoard(ctx context.Context, days, limit int) ([]leaderboard.RecipeEntry, error)
	AuthorBoard(ctx context.Context, limit int) ([]leaderboard.AuthorEntry, error)
}

type LeaderboardController struct {
	boards       boardService
	defaultLimit int
	log          logger.Logger
}

type LeaderboardControllerInterface interface {
	Daily(ctx context.Context, limit int) ([]leaderboard.RecipeEntry, error)
	Weekly(ctx context.Context, limit int) ([]leaderboard.RecipeEntry, error)
	Recipes(ctx context.Context, days, limit int) ([]leaderboard.RecipeEntry, error)
	Authors(ctx context.Context, limit int) ([]leaderboard.AuthorEntry, error)
}

func New(boards boardService, defaultLimit int) LeaderboardControllerInterface {
	if defaultLimit < 1 {
		defaultLimit = config.DefaultLeaderboardLimit
	}

	return &LeaderboardController{
		boards:       boards,
		defaultLimit: defaultLimit,
		log:          logger.New("leaderboardController"),
	}
}

func (c *LeaderboardController) Daily(ctx context.Context, limit int) ([]leaderboard.RecipeEntry, error) {
	return c.Recipes(ctx, services.DailyWindowDays, limit)
}

func (c *LeaderboardController) Weekly(ctx context.Context, limit int) ([]leaderboard.RecipeEntry, error) {
	return c.Recipes(ctx, services.WeeklyWindowDays, limit)
}

// Recipes ranks recipes created in the last days. An empty window comes
// back as leaderboard.ErrNoItemsInWindow.
func (c *LeaderboardController) Recipes(
	ctx context.Context,
	days int,
	limit int,
) ([]leaderboard.RecipeEntry, error) {
	log := c.log.TraceFromContext(ctx).Function("Recipes")

	if days < 1 {
		return nil, log.ErrorWithType(types.ErrValidation, "days must be at least 1", "days", days)
	}

	entries, err := c.boards.RecipeBoard(ctx, days, c.limit(limit))
	if err != nil {
		return nil, c.translate(log, err, "failed to build recipe leaderboard", "days", days)
	}

	return entries, nil
}

func (c *LeaderboardController) Authors(ctx context.Context, limit int) ([]leaderboard.AuthorEntry, error) {
	log := c.log.TraceFromContext(ctx).Function("Authors")

	entries, err := c.boards.AuthorBoard(ctx, c.limit(limit))
	if err != nil {
		return nil, c.translate(log, err, "failed to build author leaderboard")
	}

	return entries, nil
}

// limit falls back to the default for non-positive values and caps at the
// maximum.
func (c *LeaderboardController) limit(requested int) int {
	if requested < 1 {
		return c.defaultLimit
	}
	return min(requested, config.MaxLeaderboardLimit)
}

func (c *LeaderboardController) translate(log logger.Logger, err error, msg string, args ...any) error {
	switch {
	case errors.Is(err, leaderboard.ErrNoItemsInWindow), errors.Is(err, leaderboard.ErrNoAuthorData):
		return err
	case errors.Is(err, leaderboard.ErrInvalidWindow):
		return log.ErrorWithType(types.ErrValidation, err.Error())
	default:
		return types.StoreError(log, err, msg, args...)
	}
}
