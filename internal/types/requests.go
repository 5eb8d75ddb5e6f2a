package types

import "github.com/google/uuid"

// RecipeActionRequest is the body of like, unlike, dislike and unseen calls.
type RecipeActionRequest struct {
	UserID   uuid.UUID `json:"userId"   validate:"required"`
	RecipeID int       `json:"recipeId" validate:"gt=0"`
}

type CreateUserRequest struct {
	Username  string   `json:"username"  validate:"required,username"`
	Allergens []string `json:"allergens"`
}

type UpdateAllergensRequest struct {
	Allergens []string `json:"allergens"`
}

type UpdateProfileRequest struct {
	Username  *string  `json:"username"  validate:"omitempty,username"`
	Allergens []string `json:"allergens"`
}

type CreateRecipeRequest struct {
	Title               string    `json:"title"               validate:"required,max=200"`
	Description         string    `json:"description"`
	Category            string    `json:"category"            validate:"max=100"`
	MinutesToComplete   int       `json:"minutesToComplete"   validate:"gte=0"`
	Ingredients         []string  `json:"ingredients"`
	Directions          []string  `json:"directions"`
	DietaryRestrictions []string  `json:"dietaryRestrictions"`
	PhotoPath           string    `json:"photoPath"`
	AuthorID            uuid.UUID `json:"authorId"            validate:"required"`
}

// FeedPreviewRequest carries raw attribute maps for a stateless feed.
type FeedPreviewRequest struct {
	Recipes any `json:"recipes"`
	Profile any `json:"profile"`
}

// ActionResult reports the user's lists after a like-state change.
type ActionResult struct {
	Changed         bool  `json:"changed"`
	UnseenRecipes   []int `json:"unseenRecipes"`
	LikedRecipes    []int `json:"likedRecipes"`
	DislikedRecipes []int `json:"dislikedRecipes"`
}
