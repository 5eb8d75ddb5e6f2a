package recipesController

import (
	"context"

	"tastebuddin/internal/events"
	"tastebuddin/internal/feed"
	. "tastebuddin/internal/models"
	"tastebuddin/internal/repositories"
	"tastebuddin/internal/services"
	"tastebuddin/internal/types"
	"tastebuddin/internal/utils"
	"tastebuddin/internal/validation"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RecipesController struct {
	recipeRepo  repositories.RecipeRepository
	userRepo    repositories.UserRepository
	transaction services.Transactor
	publisher   events.Publisher
	engine      *feed.Engine
	db          *gorm.DB
	log         logger.Logger
}

// UpdateRecipeRequest names the acting user alongside the editable fields.
type UpdateRecipeRequest struct {
	UserID uuid.UUID `json:"userId"`
	RecipeUpdate
}

type RecipesControllerInterface interface {
	List(ctx context.Context, authorID uuid.UUID) ([]Recipe, error)
	Get(ctx context.Context, id int) (*Recipe, error)
	Create(ctx context.Context, request *types.CreateRecipeRequest) (*Recipe, error)
	Update(ctx context.Context, actorID uuid.UUID, id int, update *RecipeUpdate) (*Recipe, error)
	Delete(ctx context.Context, actorID uuid.UUID, id int) error
}

func New(
	repos repositories.Repository,
	transaction services.Transactor,
	publisher events.Publisher,
	engine *feed.Engine,
	db *gorm.DB,
) RecipesControllerInterface {
	return &RecipesController{
		recipeRepo:  repos.Recipe,
		userRepo:    repos.User,
		transaction: transaction,
		publisher:   publisher,
		engine:      engine,
		db:          db,
		log:         logger.New("recipesController"),
	}
}

// List returns the catalog, or one author's recipes when authorID is set.
func (c *RecipesController) List(ctx context.Context, authorID uuid.UUID) ([]Recipe, error) {
	log := c.log.TraceFromContext(ctx).Function("List")

	var (
		recipes []Recipe
		err     error
	)
	if authorID == uuid.Nil {
		recipes, err = c.recipeRepo.GetAll(ctx, c.db)
	} else {
		recipes, err = c.recipeRepo.GetByAuthor(ctx, c.db, authorID)
	}
	if err != nil {
		return nil, types.StoreError(log, err, "failed to list recipes", "authorID", authorID)
	}

	return recipes, nil
}

func (c *RecipesController) Get(ctx context.Context, id int) (*Recipe, error) {
	log := c.log.TraceFromContext(ctx).Function("Get")

	recipe, err := c.recipeRepo.GetByID(ctx, c.db, id)
	if err != nil {
		return nil, types.StoreError(log, err, "failed to get recipe", "recipeID", id)
	}

	return recipe, nil
}

// Create stores a recipe and queues it as unseen for every other user whose
// allergens it does not contain.
func (c *RecipesController) Create(
	ctx context.Context,
	request *types.CreateRecipeRequest,
) (*Recipe, error) {
	log := c.log.TraceFromContext(ctx).Function("Create")

	request.Title = utils.CleanText(request.Title)
	if err := validation.ValidateStruct(request); err != nil {
		return nil, log.ErrorWithType(types.ErrValidation, err.Error())
	}

	recipe := &Recipe{
		Title:               request.Title,
		Description:         utils.CleanText(request.Description),
		Category:            utils.CleanText(request.Category),
		MinutesToComplete:   request.MinutesToComplete,
		Ingredients:         TokenList(utils.CleanLines(request.Ingredients)),
		Directions:          datatypes.JSONSlice[string](utils.CleanLines(request.Directions)),
		DietaryRestrictions: TokenList(utils.CleanLines(request.DietaryRestrictions)),
		PhotoPath:           utils.CleanText(request.PhotoPath),
		AuthorID:            request.AuthorID,
	}

	var recipients []uuid.UUID
	err := c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		author, err := c.userRepo.GetByID(ctx, tx, request.AuthorID)
		if err != nil {
			return types.StoreError(log, err, "failed to resolve recipe author", "authorID", request.AuthorID)
		}
		recipe.AuthorName = author.Username

		if err := c.recipeRepo.Create(ctx, tx, recipe); err != nil {
			return types.StoreError(log, err, "failed to create recipe", "title", recipe.Title)
		}

		users, err := c.userRepo.GetAll(ctx, tx)
		if err != nil {
			return types.StoreError(log, err, "failed to load users for fan-out")
		}

		for _, user := range c.engine.SafeFor(*recipe, users) {
			if user.ID != author.ID {
				recipients = append(recipients, user.ID)
			}
		}

		if err := c.userRepo.AppendUnseen(ctx, tx, recipients, recipe.ID); err != nil {
			return types.StoreError(log, err, "failed to queue recipe for users", "recipeID", recipe.ID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	c.announce(ctx, events.RECIPE_CREATED, recipe.ID, &recipe.AuthorID)

	log.Info("Recipe created", "recipeID", recipe.ID, "authorID", recipe.AuthorID, "recipients", len(recipients))
	return recipe, nil
}

// Update applies author edits. Only the recipe's author may edit it.
func (c *RecipesController) Update(
	ctx context.Context,
	actorID uuid.UUID,
	id int,
	update *RecipeUpdate,
) (*Recipe, error) {
	log := c.log.TraceFromContext(ctx).Function("Update")

	if err := validation.ValidateStruct(update); err != nil {
		return nil, log.ErrorWithType(types.ErrValidation, err.Error())
	}

	var recipe *Recipe
	err := c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		recipe, err = c.recipeRepo.GetByID(ctx, tx, id)
		if err != nil {
			return types.StoreError(log, err, "failed to get recipe", "recipeID", id)
		}

		if recipe.AuthorID != actorID {
			return log.ErrorWithType(types.ErrForbidden, "only the author can edit a recipe",
				"recipeID", id, "actorID", actorID)
		}

		update.Apply(recipe)
		recipe.Title = utils.CleanText(recipe.Title)
		if recipe.Title == "" {
			return log.ErrorWithType(types.ErrValidation, "title is required")
		}

		if err := c.recipeRepo.Update(ctx, tx, recipe); err != nil {
			return types.StoreError(log, err, "failed to update recipe", "recipeID", id)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	c.announce(ctx, events.RECIPE_UPDATED, recipe.ID, &actorID)

	return recipe, nil
}

// Delete removes a recipe, drops it from every user list and takes its likes
// off the author's total. Only the author may delete.
func (c *RecipesController) Delete(ctx context.Context, actorID uuid.UUID, id int) error {
	log := c.log.TraceFromContext(ctx).Function("Delete")

	err := c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		recipe, err := c.recipeRepo.GetByID(ctx, tx, id)
		if err != nil {
			return types.StoreError(log, err, "failed to get recipe", "recipeID", id)
		}

		if recipe.AuthorID != actorID {
			return log.ErrorWithType(types.ErrForbidden, "only the author can delete a recipe",
				"recipeID", id, "actorID", actorID)
		}

		if err := c.recipeRepo.Delete(ctx, tx, id); err != nil {
			return types.StoreError(log, err, "failed to delete recipe", "recipeID", id)
		}

		if err := c.userRepo.RemoveRecipeReferences(ctx, tx, id); err != nil {
			return types.StoreError(log, err, "failed to remove recipe from user lists", "recipeID", id)
		}

		if recipe.Likes > 0 {
			err := c.userRepo.AdjustTotalLikes(ctx, tx, recipe.AuthorID, -recipe.Likes)
			if err != nil {
				return types.StoreError(log, err, "failed to adjust author likes", "authorID", recipe.AuthorID)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	c.announce(ctx, events.RECIPE_DELETED, id, &actorID)

	log.Info("Recipe deleted", "recipeID", id)
	return nil
}

func (c *RecipesController) announce(
	ctx context.Context,
	messageType events.MessageType,
	recipeID int,
	userID *uuid.UUID,
) {
	if err := events.PublishRecipeChange(c.publisher, messageType, recipeID, userID); err != nil {
		c.log.TraceFromContext(ctx).Function("announce").
			Warn("failed to publish recipe change", "type", messageType, "recipeID", recipeID, "error", err)
	}
}
