package models

import (
	"time"
)

type User struct {
	BaseUUIDModel
	Username        string    `gorm:"type:text;uniqueIndex;not null" json:"username"`
	Allergens       TokenList `gorm:"type:text[]"                    json:"allergens"`
	UnseenRecipes   IDList    `gorm:"type:integer[]"                 json:"unseenRecipes"`
	LikedRecipes    IDList    `gorm:"type:integer[]"                 json:"likedRecipes"`
	DislikedRecipes IDList    `gorm:"type:integer[]"                 json:"dislikedRecipes"`
	TotalLikes      int       `gorm:"type:int;not null;default:0"    json:"totalLikes"`
}

// UserProfile represents public user profile information
type UserProfile struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Allergens   TokenList `json:"allergens"`
	TotalLikes  int       `json:"totalLikes"`
	LikedCount  int       `json:"likedCount"`
	RecipesSeen int       `json:"recipesSeen"`
	MemberSince time.Time `json:"memberSince"`
}

// ToProfile converts a User to a UserProfile (public information only)
func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:          u.ID.String(),
		Username:    u.Username,
		Allergens:   u.Allergens,
		TotalLikes:  u.TotalLikes,
		LikedCount:  len(u.LikedRecipes),
		RecipesSeen: len(u.LikedRecipes) + len(u.DislikedRecipes),
		MemberSince: u.CreatedAt,
	}
}

// Like records a like for recipeID. It reports false when the recipe was
// already liked so callers only count real transitions.
func (u *User) Like(recipeID int) bool {
	u.UnseenRecipes.Remove(recipeID)
	u.DislikedRecipes.Remove(recipeID)
	return u.LikedRecipes.Add(recipeID)
}

// Unlike removes a like and reports whether one was present.
func (u *User) Unlike(recipeID int) bool {
	return u.LikedRecipes.Remove(recipeID)
}

// Dislike records a dislike for recipeID. It reports whether a previous like
// was withdrawn by the dislike.
func (u *User) Dislike(recipeID int) (withdrewLike bool) {
	u.UnseenRecipes.Remove(recipeID)
	withdrewLike = u.LikedRecipes.Remove(recipeID)
	u.DislikedRecipes.Add(recipeID)
	return withdrewLike
}
