package feedController

import (
	"context"
	"errors"

	"tastebuddin/internal/feed"
	"tastebuddin/internal/metrics"
	. "tastebuddin/internal/models"
	"tastebuddin/internal/repositories"
	"tastebuddin/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type FeedController struct {
	recipeRepo repositories.RecipeRepository
	userRepo   repositories.UserRepository
	engine     *feed.Engine
	db         *gorm.DB
	log        logger.Logger
}

type FeedControllerInterface interface {
	GetFeed(ctx context.Context, identifier string) ([]Recipe, error)
	Preview(ctx context.Context, request *types.FeedPreviewRequest) []Recipe
}

func New(repos repositories.Repository, engine *feed.Engine, db *gorm.DB) FeedControllerInterface {
	return &FeedController{
		recipeRepo: repos.Recipe,
		userRepo:   repos.User,
		engine:     engine,
		db:         db,
		log:        logger.New("feedController"),
	}
}

// GetFeed returns the user's unseen recipes that are free of their
// allergens, in catalog order.
func (c *FeedController) GetFeed(ctx context.Context, identifier string) ([]Recipe, error) {
	log := c.log.TraceFromContext(ctx).Function("GetFeed")

	user, err := c.userRepo.GetByIdentifier(ctx, c.db, identifier)
	if err != nil {
		metrics.RecordFeed(feedOutcome(err), 0, 0)
		return nil, types.StoreError(log, err, "failed to resolve feed user", "identifier", identifier)
	}

	if len(user.UnseenRecipes) == 0 {
		metrics.RecordFeed("empty", 0, 0)
		return []Recipe{}, nil
	}

	recipes, err := c.recipeRepo.GetByIDs(ctx, c.db, user.UnseenRecipes)
	if err != nil {
		metrics.RecordFeed(feedOutcome(err), len(user.UnseenRecipes), 0)
		return nil, types.StoreError(log, err, "failed to load unseen recipes", "userID", user.ID)
	}

	result := c.engine.Generate(recipes, *user)
	metrics.RecordFeed("ok", len(user.UnseenRecipes), len(result))

	log.Debug("Feed generated", "userID", user.ID, "unseen", len(user.UnseenRecipes), "returned", len(result))
	return result, nil
}

// Preview runs the feed pipeline over caller-supplied recipe and profile
// attribute maps without touching the store.
func (c *FeedController) Preview(ctx context.Context, request *types.FeedPreviewRequest) []Recipe {
	result := c.engine.GenerateFromAttributes(request.Recipes, request.Profile)

	c.log.TraceFromContext(ctx).Function("Preview").Debug("Preview feed generated", "returned", len(result))
	return result
}

func feedOutcome(err error) string {
	if errors.Is(err, repositories.ErrNotFound) {
		return "not_found"
	}
	return "unavailable"
}
