package repositories

import (
	"context"
	"time"

	"tastebuddin/internal/database"
	. "tastebuddin/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	USER_CACHE_EXPIRY = 24 * time.Hour
	USER_CACHE_PREFIX = "user"
)

type UserRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error)
	GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*User, error)
	GetByIdentifier(ctx context.Context, tx *gorm.DB, identifier string) (*User, error)
	UsernameExists(ctx context.Context, tx *gorm.DB, username string) (bool, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]User, error)
	Create(ctx context.Context, tx *gorm.DB, user *User) error
	Update(ctx context.Context, tx *gorm.DB, user *User) error
	AdjustTotalLikes(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error
	AppendUnseen(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID, recipeID int) error
	RemoveRecipeReferences(ctx context.Context, tx *gorm.DB, recipeID int) error
	ClearCache(ctx context.Context, id uuid.UUID)
}

type userRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewUserRepository(cache database.CacheClient) UserRepository {
	return &userRepository{
		cache: cache,
		log:   logger.New("userRepository"),
	}
}

func (r *userRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	var user User
	if r.getCacheByID(ctx, id, &user) {
		return &user, nil
	}

	user, err := gorm.G[User](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, classify(log, err, "failed to get user by id", "userID", id)
	}

	r.addUserToCache(ctx, &user)

	return &user, nil
}

// GetForUpdate reads the row under a lock, skipping the cache, so list
// transitions inside a transaction see committed state.
func (r *userRepository) GetForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*User, error) {
	log := r.log.TraceFromContext(ctx).Function("GetForUpdate")

	var user User
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, classify(log, err, "failed to lock user", "userID", id)
	}

	return &user, nil
}

func (r *userRepository) GetByUsername(
	ctx context.Context,
	tx *gorm.DB,
	username string,
) (*User, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByUsername")

	user, err := gorm.G[User](tx).Where("username = ?", username).First(ctx)
	if err != nil {
		return nil, classify(log, err, "failed to get user by username", "username", username)
	}

	return &user, nil
}

// GetByIdentifier accepts either a user id or a username.
func (r *userRepository) GetByIdentifier(
	ctx context.Context,
	tx *gorm.DB,
	identifier string,
) (*User, error) {
	if id, err := uuid.Parse(identifier); err == nil {
		return r.GetByID(ctx, tx, id)
	}

	return r.GetByUsername(ctx, tx, identifier)
}

func (r *userRepository) UsernameExists(
	ctx context.Context,
	tx *gorm.DB,
	username string,
) (bool, error) {
	log := r.log.TraceFromContext(ctx).Function("UsernameExists")

	count, err := gorm.G[User](tx).Where("username = ?", username).Count(ctx, "id")
	if err != nil {
		return false, classify(log, err, "failed to check username", "username", username)
	}

	return count > 0, nil
}

func (r *userRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]User, error) {
	log := r.log.TraceFromContext(ctx).Function("GetAll")

	users, err := gorm.G[User](tx).Order("created_at").Find(ctx)
	if err != nil {
		return nil, classify(log, err, "failed to get users")
	}

	return users, nil
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *User) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := gorm.G[User](tx).Create(ctx, user); err != nil {
		return classify(log, err, "failed to create user", "username", user.Username)
	}

	return nil
}

func (r *userRepository) Update(ctx context.Context, tx *gorm.DB, user *User) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	if err := tx.WithContext(ctx).Save(user).Error; err != nil {
		return classify(log, err, "failed to update user", "userID", user.ID)
	}

	r.ClearCache(ctx, user.ID)

	return nil
}

// AdjustTotalLikes moves an author's received-like total by delta, never
// below zero.
func (r *userRepository) AdjustTotalLikes(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	delta int,
) error {
	log := r.log.TraceFromContext(ctx).Function("AdjustTotalLikes")

	rowsAffected, err := gorm.G[User](tx).
		Where("id = ?", id).
		Update(ctx, "total_likes", gorm.Expr("GREATEST(total_likes + ?, 0)", delta))
	if err != nil {
		return classify(log, err, "failed to adjust total likes", "userID", id, "delta", delta)
	}

	if rowsAffected == 0 {
		return log.ErrorWithType(ErrNotFound, "user not found", "userID", id)
	}

	r.ClearCache(ctx, id)

	return nil
}

// AppendUnseen adds recipeID to the unseen list of every listed user that
// does not already hold it.
func (r *userRepository) AppendUnseen(
	ctx context.Context,
	tx *gorm.DB,
	userIDs []uuid.UUID,
	recipeID int,
) error {
	log := r.log.TraceFromContext(ctx).Function("AppendUnseen")

	if len(userIDs) == 0 {
		return nil
	}

	_, err := gorm.G[User](tx).
		Where("id IN ?", userIDs).
		Where("NOT (? = ANY(COALESCE(unseen_recipes, '{}')))", recipeID).
		Update(ctx, "unseen_recipes", gorm.Expr("array_append(COALESCE(unseen_recipes, '{}'), ?)", recipeID))
	if err != nil {
		return classify(log, err, "failed to append unseen recipe", "recipeID", recipeID, "users", len(userIDs))
	}

	for _, id := range userIDs {
		r.ClearCache(ctx, id)
	}

	return nil
}

// RemoveRecipeReferences drops a deleted recipe from every user list.
func (r *userRepository) RemoveRecipeReferences(ctx context.Context, tx *gorm.DB, recipeID int) error {
	log := r.log.TraceFromContext(ctx).Function("RemoveRecipeReferences")

	var userIDs []uuid.UUID
	err := tx.WithContext(ctx).
		Model(&User{}).
		Where(
			"? = ANY(unseen_recipes) OR ? = ANY(liked_recipes) OR ? = ANY(disliked_recipes)",
			recipeID, recipeID, recipeID,
		).
		Pluck("id", &userIDs).Error
	if err != nil {
		return classify(log, err, "failed to find users referencing recipe", "recipeID", recipeID)
	}

	if len(userIDs) == 0 {
		return nil
	}

	err = tx.WithContext(ctx).
		Model(&User{}).
		Where("id IN ?", userIDs).
		Updates(map[string]any{
			"unseen_recipes":   gorm.Expr("array_remove(unseen_recipes, ?)", recipeID),
			"liked_recipes":    gorm.Expr("array_remove(liked_recipes, ?)", recipeID),
			"disliked_recipes": gorm.Expr("array_remove(disliked_recipes, ?)", recipeID),
		}).Error
	if err != nil {
		return classify(log, err, "failed to remove recipe references", "recipeID", recipeID)
	}

	for _, id := range userIDs {
		r.ClearCache(ctx, id)
	}

	return nil
}

func (r *userRepository) ClearCache(ctx context.Context, id uuid.UUID) {
	if r.cache == nil {
		return
	}

	err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		Delete()
	if err != nil {
		r.log.TraceFromContext(ctx).Function("ClearCache").
			Warn("failed to clear user cache", "userID", id, "error", err)
	}
}

func (r *userRepository) getCacheByID(ctx context.Context, id uuid.UUID, user *User) bool {
	if r.cache == nil {
		return false
	}

	found, err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		Get(user)
	if err != nil {
		r.log.TraceFromContext(ctx).Function("getCacheByID").
			Warn("failed to get user from cache", "userID", id, "error", err)
		return false
	}

	return found
}

func (r *userRepository) addUserToCache(ctx context.Context, user *User) {
	if r.cache == nil {
		return
	}

	err := database.NewCacheBuilder(r.cache, user.ID).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		WithStruct(user).
		WithTTL(USER_CACHE_EXPIRY).
		Set()
	if err != nil {
		r.log.TraceFromContext(ctx).Function("addUserToCache").
			Warn("failed to add user to cache", "userID", user.ID, "error", err)
	}
}
