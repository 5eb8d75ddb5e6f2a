// Package feed composes the swipe feed: the allergen-safe subset of a user's
// unseen recipes.
package feed

import (
	"slices"

	"tastebuddin/internal/models"
	"tastebuddin/internal/tokens"
)

// Engine is stateless apart from its synonym table and is safe for concurrent
// use. Inputs are never mutated.
type Engine struct {
	canon *tokens.Canonicalizer
}

func New(canon *tokens.Canonicalizer) *Engine {
	if canon == nil {
		canon = tokens.Default()
	}
	return &Engine{canon: canon}
}

func (e *Engine) Canonicalizer() *tokens.Canonicalizer {
	return e.canon
}

// AllergenSet normalizes a user's declared allergens.
func (e *Engine) AllergenSet(allergens []string) tokens.Set {
	return e.canon.NormalizeSet(allergens)
}

// IsSafe reports whether none of the recipe's restriction or ingredient tokens
// match the allergen set.
func (e *Engine) IsSafe(recipe models.Recipe, allergens tokens.Set) bool {
	if len(allergens) == 0 {
		return true
	}
	return !e.canon.NormalizeSet(recipe.DietaryRestrictions, recipe.Ingredients).Intersects(allergens)
}

// FilterSafe drops recipes that conflict with any allergen, keeping input
// order. With no usable allergens every recipe is returned.
func (e *Engine) FilterSafe(recipes []models.Recipe, allergens []string) []models.Recipe {
	allergenSet := e.AllergenSet(allergens)
	if len(allergenSet) == 0 {
		return cloneRecipes(recipes)
	}

	safe := make([]models.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		if e.IsSafe(recipe, allergenSet) {
			safe = append(safe, recipe)
		}
	}
	return safe
}

// SafeIDs returns the ids of recipes that are safe for the allergens.
func (e *Engine) SafeIDs(recipes []models.Recipe, allergens []string) []int {
	safe := e.FilterSafe(recipes, allergens)
	ids := make([]int, 0, len(safe))
	for _, recipe := range safe {
		ids = append(ids, recipe.ID)
	}
	return ids
}

// SafeFor returns the users for whom the recipe is allergen-safe.
func (e *Engine) SafeFor(recipe models.Recipe, users []models.User) []models.User {
	recipeTokens := e.canon.NormalizeSet(recipe.DietaryRestrictions, recipe.Ingredients)

	result := make([]models.User, 0, len(users))
	for _, user := range users {
		if !recipeTokens.Intersects(e.AllergenSet(user.Allergens)) {
			result = append(result, user)
		}
	}
	return result
}

// FilterUnseen keeps the recipes whose id is in unseen. An empty unseen list
// yields an empty result.
func FilterUnseen(recipes []models.Recipe, unseen []int) []models.Recipe {
	if len(unseen) == 0 {
		return []models.Recipe{}
	}

	unseenSet := models.IDList(unseen).Set()
	result := make([]models.Recipe, 0, min(len(recipes), len(unseen)))
	for _, recipe := range recipes {
		if _, ok := unseenSet[recipe.ID]; ok {
			result = append(result, recipe)
		}
	}
	return result
}

// Generate builds the feed for a user: unseen recipes first, then the allergen
// filter. A user with nothing unseen gets an empty feed. The result keeps
// catalog order and is neither re-ranked nor truncated.
func (e *Engine) Generate(recipes []models.Recipe, user models.User) []models.Recipe {
	if len(user.UnseenRecipes) == 0 {
		return []models.Recipe{}
	}
	return e.FilterSafe(FilterUnseen(recipes, user.UnseenRecipes), user.Allergens)
}

// GenerateFromAttributes decodes loosely typed recipe and profile attribute
// maps and generates the feed. Malformed shapes degrade to empty input.
func (e *Engine) GenerateFromAttributes(rawRecipes any, rawProfile any) []models.Recipe {
	return e.Generate(DecodeRecipes(rawRecipes), DecodeProfile(rawProfile))
}

func cloneRecipes(recipes []models.Recipe) []models.Recipe {
	if recipes == nil {
		return []models.Recipe{}
	}
	return slices.Clone(recipes)
}
