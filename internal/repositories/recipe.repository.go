package repositories

import (
	"context"
	"errors"
	"time"

	"tastebuddin/internal/metrics"
	. "tastebuddin/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"gorm.io/gorm"
)

const (
	RECIPE_BREAKER_NAME     = "recipe-snapshot"
	RECIPE_BREAKER_FAILURES = 5
	RECIPE_BREAKER_TIMEOUT  = 30 * time.Second
)

type RecipeRepository interface {
	GetAll(ctx context.Context, tx *gorm.DB) ([]Recipe, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*Recipe, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []int) ([]Recipe, error)
	GetByAuthor(ctx context.Context, tx *gorm.DB, authorID uuid.UUID) ([]Recipe, error)
	GetCreatedSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]Recipe, error)
	Create(ctx context.Context, tx *gorm.DB, recipe *Recipe) error
	Update(ctx context.Context, tx *gorm.DB, recipe *Recipe) error
	Delete(ctx context.Context, tx *gorm.DB, id int) error
	AdjustLikes(ctx context.Context, tx *gorm.DB, id int, delta int) error
}

type recipeRepository struct {
	breaker *gobreaker.CircuitBreaker[[]Recipe]
	log     logger.Logger
}

func NewRecipeRepository() RecipeRepository {
	log := logger.New("recipeRepository")

	breaker := gobreaker.NewCircuitBreaker[[]Recipe](gobreaker.Settings{
		Name:        RECIPE_BREAKER_NAME,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     RECIPE_BREAKER_TIMEOUT,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= RECIPE_BREAKER_FAILURES
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Function("OnStateChange").
				Warn("recipe snapshot breaker changed state", "from", from.String(), "to", to.String())
			metrics.RecordBreakerTransition(name, from, to)
		},
	})

	return &recipeRepository{
		breaker: breaker,
		log:     log,
	}
}

// GetAll reads the full recipe snapshot in catalog order. Repeated store
// failures open a breaker so callers fail fast with ErrUnavailable.
func (r *recipeRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]Recipe, error) {
	log := r.log.TraceFromContext(ctx).Function("GetAll")

	recipes, err := r.breaker.Execute(func() ([]Recipe, error) {
		return gorm.G[Recipe](tx).Order("id").Find(ctx)
	})
	if err != nil {
		return nil, classify(log, err, "failed to fetch recipes")
	}

	return recipes, nil
}

func (r *recipeRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*Recipe, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	recipe, err := gorm.G[Recipe](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, classify(log, err, "failed to get recipe", "recipeID", id)
	}

	return &recipe, nil
}

func (r *recipeRepository) GetByIDs(ctx context.Context, tx *gorm.DB, ids []int) ([]Recipe, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByIDs")

	if len(ids) == 0 {
		return []Recipe{}, nil
	}

	recipes, err := gorm.G[Recipe](tx).Where("id IN ?", ids).Order("id").Find(ctx)
	if err != nil {
		return nil, classify(log, err, "failed to get recipes by ids", "count", len(ids))
	}

	return recipes, nil
}

func (r *recipeRepository) GetByAuthor(
	ctx context.Context,
	tx *gorm.DB,
	authorID uuid.UUID,
) ([]Recipe, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByAuthor")

	recipes, err := gorm.G[Recipe](tx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(ctx)
	if err != nil {
		return nil, classify(log, err, "failed to get recipes by author", "authorID", authorID)
	}

	return recipes, nil
}

func (r *recipeRepository) GetCreatedSince(
	ctx context.Context,
	tx *gorm.DB,
	since time.Time,
) ([]Recipe, error) {
	log := r.log.TraceFromContext(ctx).Function("GetCreatedSince")

	recipes, err := gorm.G[Recipe](tx).
		Where("created_at >= ?", since).
		Order("id").
		Find(ctx)
	if err != nil {
		return nil, classify(log, err, "failed to get recent recipes", "since", since)
	}

	return recipes, nil
}

func (r *recipeRepository) Create(ctx context.Context, tx *gorm.DB, recipe *Recipe) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := gorm.G[Recipe](tx).Create(ctx, recipe); err != nil {
		return classify(log, err, "failed to create recipe", "title", recipe.Title)
	}

	return nil
}

func (r *recipeRepository) Update(ctx context.Context, tx *gorm.DB, recipe *Recipe) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	if recipe.ID == 0 {
		return log.ErrorWithType(ErrNotFound, "recipe id is required for update")
	}

	if err := tx.WithContext(ctx).Save(recipe).Error; err != nil {
		return classify(log, err, "failed to update recipe", "recipeID", recipe.ID)
	}

	return nil
}

func (r *recipeRepository) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	log := r.log.TraceFromContext(ctx).Function("Delete")

	rowsAffected, err := gorm.G[Recipe](tx).Where("id = ?", id).Delete(ctx)
	if err != nil {
		return classify(log, err, "failed to delete recipe", "recipeID", id)
	}

	if rowsAffected == 0 {
		return log.ErrorWithType(ErrNotFound, "recipe not found", "recipeID", id)
	}

	return nil
}

// AdjustLikes moves the like counter by delta, never below zero.
func (r *recipeRepository) AdjustLikes(ctx context.Context, tx *gorm.DB, id int, delta int) error {
	log := r.log.TraceFromContext(ctx).Function("AdjustLikes")

	rowsAffected, err := gorm.G[Recipe](tx).
		Where("id = ?", id).
		Update(ctx, "likes", gorm.Expr("GREATEST(likes + ?, 0)", delta))
	if err != nil {
		return classify(log, err, "failed to adjust recipe likes", "recipeID", id, "delta", delta)
	}

	if rowsAffected == 0 {
		return log.ErrorWithType(ErrNotFound, "recipe not found", "recipeID", id)
	}

	return nil
}
