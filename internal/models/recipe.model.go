package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Recipe struct {
	BaseModel
	Title               string                      `gorm:"type:text;not null"                    json:"title"`
	Description         string                      `gorm:"type:text"                             json:"description"`
	Category            string                      `gorm:"type:text;index"                       json:"category"`
	MinutesToComplete   int                         `gorm:"type:int;default:0"                    json:"minutesToComplete"`
	Ingredients         TokenList                   `gorm:"type:text[]"                           json:"ingredients"`
	Directions          datatypes.JSONSlice[string] `gorm:"type:jsonb"                            json:"directions"`
	DietaryRestrictions TokenList                   `gorm:"type:text[]"                           json:"dietaryRestrictions"`
	Likes               int                         `gorm:"type:int;not null;default:0"           json:"likes"`
	AuthorID            uuid.UUID                   `gorm:"type:uuid;index"                       json:"authorId"`
	AuthorName          string                      `gorm:"type:text"                             json:"authorName"`
	PhotoPath           string                      `gorm:"type:text"                             json:"photoPath"`
}

// RecipeUpdate carries the author-editable fields of a recipe. Nil fields are
// left untouched.
type RecipeUpdate struct {
	Title               *string   `json:"title"               validate:"omitempty,min=1,max=200"`
	Description         *string   `json:"description"`
	Category            *string   `json:"category"            validate:"omitempty,max=100"`
	MinutesToComplete   *int      `json:"minutesToComplete"   validate:"omitempty,min=0"`
	PhotoPath           *string   `json:"photoPath"`
	Ingredients         TokenList `json:"ingredients"`
	Directions          TokenList `json:"directions"`
	DietaryRestrictions TokenList `json:"dietaryRestrictions"`
}

// Apply copies the set fields onto the recipe.
func (u RecipeUpdate) Apply(recipe *Recipe) {
	if u.Title != nil {
		recipe.Title = *u.Title
	}
	if u.Description != nil {
		recipe.Description = *u.Description
	}
	if u.Category != nil {
		recipe.Category = *u.Category
	}
	if u.MinutesToComplete != nil {
		recipe.MinutesToComplete = *u.MinutesToComplete
	}
	if u.PhotoPath != nil {
		recipe.PhotoPath = *u.PhotoPath
	}
	if u.Ingredients != nil {
		recipe.Ingredients = u.Ingredients
	}
	if u.Directions != nil {
		recipe.Directions = datatypes.JSONSlice[string](u.Directions)
	}
	if u.DietaryRestrictions != nil {
		recipe.DietaryRestrictions = u.DietaryRestrictions
	}
}
