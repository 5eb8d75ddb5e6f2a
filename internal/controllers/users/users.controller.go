package usersController

import (
	"context"
	"errors"

	"tastebuddin/internal/events"
	"tastebuddin/internal/feed"
	"tastebuddin/internal/metrics"
	. "tastebuddin/internal/models"
	"tastebuddin/internal/repositories"
	"tastebuddin/internal/services"
	"tastebuddin/internal/types"
	"tastebuddin/internal/validation"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsersController struct {
	recipeRepo  repositories.RecipeRepository
	userRepo    repositories.UserRepository
	transaction services.Transactor
	publisher   events.Publisher
	engine      *feed.Engine
	db          *gorm.DB
	log         logger.Logger
}

type UsersControllerInterface interface {
	Create(ctx context.Context, request *types.CreateUserRequest) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Like(ctx context.Context, request *types.RecipeActionRequest) (*types.ActionResult, error)
	Unlike(ctx context.Context, request *types.RecipeActionRequest) (*types.ActionResult, error)
	Dislike(ctx context.Context, request *types.RecipeActionRequest) (*types.ActionResult, error)
	AddUnseen(ctx context.Context, request *types.RecipeActionRequest) (*types.ActionResult, error)
	Liked(ctx context.Context, identifier string) ([]Recipe, error)
	Get(ctx context.Context, identifier string) (*User, error)
	PublicProfile(ctx context.Context, username string) (*UserProfile, error)
	UpdateProfile(
		ctx context.Context,
		actorID uuid.UUID,
		username string,
		request *types.UpdateProfileRequest,
	) (*UserProfile, error)
	UpdateAllergens(
		ctx context.Context,
		userID uuid.UUID,
		request *types.UpdateAllergensRequest,
	) (*User, error)
}

func New(
	repos repositories.Repository,
	transaction services.Transactor,
	publisher events.Publisher,
	engine *feed.Engine,
	db *gorm.DB,
) UsersControllerInterface {
	return &UsersController{
		recipeRepo:  repos.Recipe,
		userRepo:    repos.User,
		transaction: transaction,
		publisher:   publisher,
		engine:      engine,
		db:          db,
		log:         logger.New("usersController"),
	}
}

// Create registers a user. Allergens are stored in canonical form and every
// recipe that is safe for them starts out unseen.
func (c *UsersController) Create(ctx context.Context, request *types.CreateUserRequest) (*User, error) {
	log := c.log.TraceFromContext(ctx).Function("Create")

	if err := validation.ValidateStruct(request); err != nil {
		return nil, log.ErrorWithType(types.ErrValidation, err.Error())
	}

	exists, err := c.userRepo.UsernameExists(ctx, c.db, request.Username)
	if err != nil {
		return nil, types.StoreError(log, err, "failed to check username", "username", request.Username)
	}
	if exists {
		return nil, log.ErrorWithType(types.ErrConflict, "username already taken", "username", request.Username)
	}

	recipes, err := c.recipeRepo.GetAll(ctx, c.db)
	if err != nil {
		return nil, types.StoreError(log, err, "failed to load recipes for new user")
	}

	allergens := c.engine.Canonicalizer().NormalizeAll(request.Allergens)
	user := &User{
		Username:        request.Username,
		Allergens:       TokenList(allergens),
		UnseenRecipes:   IDList(c.engine.SafeIDs(recipes, allergens)),
		LikedRecipes:    IDList{},
		DislikedRecipes: IDList{},
	}

	if err := c.userRepo.Create(ctx, c.db, user); err != nil {
		return nil, types.StoreError(log, err, "failed to create user", "username", request.Username)
	}

	log.Info("User created", "userID", user.ID, "unseen", len(user.UnseenRecipes))
	return user, nil
}

func (c *UsersController) UsernameExists(ctx context.Context, username string) (bool, error) {
	log := c.log.TraceFromContext(ctx).Function("UsernameExists")

	exists, err := c.userRepo.UsernameExists(ctx, c.db, username)
	if err != nil {
		return false, types.StoreError(log, err, "failed to check username", "username", username)
	}

	return exists, nil
}

// Like moves a recipe into the user's liked list. Counts move only when the
// recipe was not already liked.
func (c *UsersController) Like(
	ctx context.Context,
	request *types.RecipeActionRequest,
) (*types.ActionResult, error) {
	return c.transition(ctx, "like", request, func(user *User, recipe *Recipe) (bool, int) {
		if user.Like(recipe.ID) {
			return true, 1
		}
		return false, 0
	})
}

func (c *UsersController) Unlike(
	ctx context.Context,
	request *types.RecipeActionRequest,
) (*types.ActionResult, error) {
	return c.transition(ctx, "unlike", request, func(user *User, recipe *Recipe) (bool, int) {
		if user.Unlike(recipe.ID) {
			return true, -1
		}
		return false, 0
	})
}

// Dislike moves a recipe into the disliked list, withdrawing any like.
func (c *UsersController) Dislike(
	ctx context.Context,
	request *types.RecipeActionRequest,
) (*types.ActionResult, error) {
	return c.transition(ctx, "dislike", request, func(user *User, recipe *Recipe) (bool, int) {
		alreadyDisliked := user.DislikedRecipes.Contains(recipe.ID)
		wasUnseen := user.UnseenRecipes.Contains(recipe.ID)
		if user.Dislike(recipe.ID) {
			return true, -1
		}
		return !alreadyDisliked || wasUnseen, 0
	})
}

// AddUnseen queues a recipe the user has not yet reacted to.
func (c *UsersController) AddUnseen(
	ctx context.Context,
	request *types.RecipeActionRequest,
) (*types.ActionResult, error) {
	return c.transition(ctx, "unseen", request, func(user *User, recipe *Recipe) (bool, int) {
		if user.LikedRecipes.Contains(recipe.ID) || user.DislikedRecipes.Contains(recipe.ID) {
			return false, 0
		}
		return user.UnseenRecipes.Add(recipe.ID), 0
	})
}

// transition applies fn to the locked user row. delta is the change to the
// recipe's likes and its author's total.
func (c *UsersController) transition(
	ctx context.Context,
	action string,
	request *types.RecipeActionRequest,
	fn func(user *User, recipe *Recipe) (changed bool, delta int),
) (*types.ActionResult, error) {
	log := c.log.TraceFromContext(ctx).Function("transition").With("action", action)

	if err := validation.ValidateStruct(request); err != nil {
		return nil, log.ErrorWithType(types.ErrValidation, err.Error())
	}

	var (
		user    *User
		changed bool
		delta   int
	)
	err := c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		user, err = c.userRepo.GetForUpdate(ctx, tx, request.UserID)
		if err != nil {
			return types.StoreError(log, err, "failed to load user", "userID", request.UserID)
		}

		recipe, err := c.recipeRepo.GetByID(ctx, tx, request.RecipeID)
		if err != nil {
			return types.StoreError(log, err, "failed to load recipe", "recipeID", request.RecipeID)
		}

		changed, delta = fn(user, recipe)
		if !changed {
			return nil
		}

		if err := c.userRepo.Update(ctx, tx, user); err != nil {
			return types.StoreError(log, err, "failed to save user lists", "userID", user.ID)
		}

		if delta == 0 {
			return nil
		}

		if err := c.recipeRepo.AdjustLikes(ctx, tx, recipe.ID, delta); err != nil {
			return types.StoreError(log, err, "failed to adjust recipe likes", "recipeID", recipe.ID)
		}

		if recipe.AuthorID == uuid.Nil {
			return nil
		}

		err = c.userRepo.AdjustTotalLikes(ctx, tx, recipe.AuthorID, delta)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return types.StoreError(log, err, "failed to adjust author likes", "authorID", recipe.AuthorID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		c.userRepo.ClearCache(ctx, user.ID)
		metrics.LikeTransitions.WithLabelValues(action).Inc()
	}

	if delta != 0 {
		messageType := events.RECIPE_LIKED
		if delta < 0 {
			messageType = events.RECIPE_UNLIKED
		}
		if err := events.PublishRecipeChange(c.publisher, messageType, request.RecipeID, &user.ID); err != nil {
			log.Warn("failed to publish like change", "recipeID", request.RecipeID, "error", err)
		}
	}

	return &types.ActionResult{
		Changed:         changed,
		UnseenRecipes:   orEmpty(user.UnseenRecipes),
		LikedRecipes:    orEmpty(user.LikedRecipes),
		DislikedRecipes: orEmpty(user.DislikedRecipes),
	}, nil
}

// Liked returns the recipes the user has liked, in catalog order.
func (c *UsersController) Liked(ctx context.Context, identifier string) ([]Recipe, error) {
	log := c.log.TraceFromContext(ctx).Function("Liked")

	user, err := c.userRepo.GetByIdentifier(ctx, c.db, identifier)
	if err != nil {
		return nil, types.StoreError(log, err, "failed to resolve user", "identifier", identifier)
	}

	recipes, err := c.recipeRepo.GetByIDs(ctx, c.db, user.LikedRecipes)
	if err != nil {
		return nil, types.StoreError(log, err, "failed to load liked recipes", "userID", user.ID)
	}

	return recipes, nil
}

func (c *UsersController) Get(ctx context.Context, identifier string) (*User, error) {
	log := c.log.TraceFromContext(ctx).Function("Get")

	user, err := c.userRepo.GetByIdentifier(ctx, c.db, identifier)
	if err != nil {
		return nil, types.StoreError(log, err, "failed to resolve user", "identifier", identifier)
	}

	return user, nil
}

func (c *UsersController) PublicProfile(ctx context.Context, username string) (*UserProfile, error) {
	log := c.log.TraceFromContext(ctx).Function("PublicProfile")

	user, err := c.userRepo.GetByUsername(ctx, c.db, username)
	if err != nil {
		return nil, types.StoreError(log, err, "failed to get profile", "username", username)
	}

	profile := user.ToProfile()
	return &profile, nil
}

// UpdateProfile renames a user or replaces their allergens. A non-nil actor
// must be the profile owner.
func (c *UsersController) UpdateProfile(
	ctx context.Context,
	actorID uuid.UUID,
	username string,
	request *types.UpdateProfileRequest,
) (*UserProfile, error) {
	log := c.log.TraceFromContext(ctx).Function("UpdateProfile")

	if err := validation.ValidateStruct(request); err != nil {
		return nil, log.ErrorWithType(types.ErrValidation, err.Error())
	}

	var user *User
	err := c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		user, err = c.userRepo.GetByUsername(ctx, tx, username)
		if err != nil {
			return types.StoreError(log, err, "failed to get profile", "username", username)
		}

		if actorID != uuid.Nil && actorID != user.ID {
			return log.ErrorWithType(types.ErrForbidden, "profile belongs to another user",
				"username", username, "actorID", actorID)
		}

		if request.Username != nil && *request.Username != user.Username {
			exists, err := c.userRepo.UsernameExists(ctx, tx, *request.Username)
			if err != nil {
				return types.StoreError(log, err, "failed to check username", "username", *request.Username)
			}
			if exists {
				return log.ErrorWithType(types.ErrConflict, "username already taken", "username", *request.Username)
			}
			user.Username = *request.Username
		}

		if request.Allergens != nil {
			user.Allergens = TokenList(c.engine.Canonicalizer().NormalizeAll(request.Allergens))
		}

		if err := c.userRepo.Update(ctx, tx, user); err != nil {
			return types.StoreError(log, err, "failed to update profile", "userID", user.ID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	c.userRepo.ClearCache(ctx, user.ID)

	profile := user.ToProfile()
	return &profile, nil
}

// UpdateAllergens replaces the user's allergens. The feed applies them on
// the next read; unseen lists are left as they are.
func (c *UsersController) UpdateAllergens(
	ctx context.Context,
	userID uuid.UUID,
	request *types.UpdateAllergensRequest,
) (*User, error) {
	log := c.log.TraceFromContext(ctx).Function("UpdateAllergens")

	var user *User
	err := c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		user, err = c.userRepo.GetForUpdate(ctx, tx, userID)
		if err != nil {
			return types.StoreError(log, err, "failed to load user", "userID", userID)
		}

		user.Allergens = TokenList(c.engine.Canonicalizer().NormalizeAll(request.Allergens))

		if err := c.userRepo.Update(ctx, tx, user); err != nil {
			return types.StoreError(log, err, "failed to update allergens", "userID", userID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	c.userRepo.ClearCache(ctx, user.ID)

	return user, nil
}

func orEmpty(ids IDList) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}
