// Package leaderboard ranks recipes by likes inside a creation window and
// authors by the likes their recipes have earned.
package leaderboard

import (
	"errors"
	"slices"
	"time"

	"tastebuddin/internal/models"

	"github.com/google/uuid"
)

const UnknownAuthor = "Unknown"

var (
	ErrNoItemsInWindow = errors.New("no recipes found in window")
	ErrNoAuthorData    = errors.New("no author data found")
	ErrInvalidWindow   = errors.New("window must be at least one day")
)

type RecipeEntry struct {
	Rank       int       `json:"rank"`
	RecipeID   int       `json:"recipeId"`
	Title      string    `json:"title"`
	AuthorID   uuid.UUID `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Likes      int       `json:"likes"`
	PhotoPath  string    `json:"photoPath"`
	CreatedAt  time.Time `json:"createdAt"`
}

type AuthorEntry struct {
	Rank        int       `json:"rank"`
	AuthorID    uuid.UUID `json:"authorId"`
	Author      string    `json:"author"`
	TotalLikes  int       `json:"totalLikes"`
	RecipeCount int       `json:"recipeCount"`
}

// Aggregator works on read-only snapshots and holds no state besides its
// clock.
type Aggregator struct {
	now func() time.Time
}

func New() *Aggregator {
	return &Aggregator{now: time.Now}
}

func NewWithClock(now func() time.Time) *Aggregator {
	return &Aggregator{now: now}
}

// Window returns the inclusive creation window for a board spanning days.
func (a *Aggregator) Window(days int) (from, to time.Time) {
	to = a.now()
	return to.AddDate(0, 0, -days), to
}

// TopRecipes ranks recipes created within the last days by likes, highest
// first. Ties keep snapshot order. A limit of zero or less keeps every entry.
// An empty window returns ErrNoItemsInWindow rather than an empty ranking.
func (a *Aggregator) TopRecipes(recipes []models.Recipe, days, limit int) ([]RecipeEntry, error) {
	if days < 1 {
		return nil, ErrInvalidWindow
	}

	from, to := a.Window(days)
	inWindow := make([]models.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		if recipe.CreatedAt.Before(from) || recipe.CreatedAt.After(to) {
			continue
		}
		inWindow = append(inWindow, recipe)
	}

	if len(inWindow) == 0 {
		return nil, ErrNoItemsInWindow
	}

	slices.SortStableFunc(inWindow, func(x, y models.Recipe) int {
		return likesOf(y.Likes) - likesOf(x.Likes)
	})

	entries := make([]RecipeEntry, 0, len(inWindow))
	for i, recipe := range truncate(inWindow, limit) {
		entries = append(entries, RecipeEntry{
			Rank:       i + 1,
			RecipeID:   recipe.ID,
			Title:      recipe.Title,
			AuthorID:   recipe.AuthorID,
			AuthorName: authorName(recipe.AuthorName),
			Likes:      likesOf(recipe.Likes),
			PhotoPath:  recipe.PhotoPath,
			CreatedAt:  recipe.CreatedAt,
		})
	}

	return entries, nil
}

// TopAuthors sums likes per author across all recipes and ranks them, ties in
// order of first appearance. Recipes without an author id are grouped by
// author name.
func (a *Aggregator) TopAuthors(recipes []models.Recipe, limit int) ([]AuthorEntry, error) {
	if len(recipes) == 0 {
		return nil, ErrNoAuthorData
	}

	index := make(map[string]int)
	authors := make([]AuthorEntry, 0)
	for _, recipe := range recipes {
		key := authorKey(recipe)
		i, ok := index[key]
		if !ok {
			i = len(authors)
			index[key] = i
			authors = append(authors, AuthorEntry{AuthorID: recipe.AuthorID})
		}

		entry := &authors[i]
		entry.TotalLikes += likesOf(recipe.Likes)
		entry.RecipeCount++
		if entry.Author == "" && recipe.AuthorName != "" {
			entry.Author = recipe.AuthorName
		}
	}

	slices.SortStableFunc(authors, func(x, y AuthorEntry) int {
		return y.TotalLikes - x.TotalLikes
	})

	authors = truncate(authors, limit)
	for i := range authors {
		authors[i].Rank = i + 1
		authors[i].Author = authorName(authors[i].Author)
	}

	return authors, nil
}

func authorKey(recipe models.Recipe) string {
	if recipe.AuthorID != uuid.Nil {
		return "id:" + recipe.AuthorID.String()
	}
	return "name:" + recipe.AuthorName
}

func authorName(name string) string {
	if name == "" {
		return UnknownAuthor
	}
	return name
}

func likesOf(likes int) int {
	return max(likes, 0)
}

func truncate[T any](items []T, limit int) []T {
	if limit <= 0 || limit >= len(items) {
		return items
	}
	return items[:limit]
}
