package seed

import (
	"time"

	"tastebuddin/config"
	"tastebuddin/internal/feed"
	. "tastebuddin/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type seedRecipe struct {
	recipe Recipe
	author string
	age    time.Duration
}

func seedUsers() []User {
	return []User{
		{Username: "alice", Allergens: TokenList{"peanuts"}},
		{Username: "bob", Allergens: TokenList{"milk"}},
		{Username: "carol"},
	}
}

func seedRecipes() []seedRecipe {
	return []seedRecipe{
		{
			author: "alice",
			age:    2 * time.Hour,
			recipe: Recipe{
				Title:               "Fluffy Buttermilk Pancakes",
				Description:         "Weekend pancakes with a crisp edge.",
				Category:            "Breakfast",
				MinutesToComplete:   25,
				Ingredients:         TokenList{"flour", "buttermilk", "egg", "sugar", "butter"},
				Directions:          datatypes.JSONSlice[string]{"Whisk dry ingredients.", "Fold in wet ingredients.", "Cook on a hot griddle."},
				DietaryRestrictions: TokenList{"dairy", "egg"},
				Likes:               4,
			},
		},
		{
			author: "bob",
			age:    30 * time.Hour,
			recipe: Recipe{
				Title:               "Veggie Omelette",
				Description:         "Quick omelette loaded with peppers and spinach.",
				Category:            "Breakfast",
				MinutesToComplete:   15,
				Ingredients:         TokenList{"egg", "bell pepper", "spinach", "onion"},
				Directions:          datatypes.JSONSlice[string]{"Beat the eggs.", "Saute the vegetables.", "Fold and serve."},
				DietaryRestrictions: TokenList{"egg"},
				Likes:               2,
			},
		},
		{
			author: "carol",
			age:    3 * 24 * time.Hour,
			recipe: Recipe{
				Title:               "Peanut Noodle Bowl",
				Description:         "Cold noodles in a spicy peanut sauce.",
				Category:            "Dinner",
				MinutesToComplete:   20,
				Ingredients:         TokenList{"noodles", "peanut butter", "soy sauce", "lime"},
				Directions:          datatypes.JSONSlice[string]{"Cook the noodles.", "Whisk the sauce.", "Toss and chill."},
				DietaryRestrictions: TokenList{"peanut", "soy"},
				Likes:               7,
			},
		},
		{
			author: "carol",
			age:    10 * 24 * time.Hour,
			recipe: Recipe{
				Title:               "Tomato Basil Soup",
				Description:         "Roasted tomato soup finished with fresh basil.",
				Category:            "Lunch",
				MinutesToComplete:   45,
				Ingredients:         TokenList{"tomato", "basil", "garlic", "olive oil"},
				Directions:          datatypes.JSONSlice[string]{"Roast the tomatoes.", "Blend with stock.", "Season and serve."},
				DietaryRestrictions: TokenList{"vegan"},
				Likes:               1,
			},
		},
	}
}

// Seed loads sample users and recipes. Every user starts with the recipes
// that are safe for them, except their own, in their unseen list.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	canon, err := config.Canonicalizer()
	if err != nil {
		return log.Err("failed to load allergen synonyms", err)
	}
	engine := feed.New(canon)

	return db.Transaction(func(tx *gorm.DB) error {
		users := map[string]*User{}
		for _, user := range seedUsers() {
			user.Allergens = canon.NormalizeAll(user.Allergens)
			if err := tx.Create(&user).Error; err != nil {
				return log.Err("failed to create user", err, "username", user.Username)
			}
			log.Info("Seeded user", "username", user.Username)
			users[user.Username] = &user
		}

		recipes := make([]Recipe, 0, len(seedRecipes()))
		for _, seeded := range seedRecipes() {
			author := users[seeded.author]
			recipe := seeded.recipe
			recipe.AuthorID = author.ID
			recipe.AuthorName = author.Username
			recipe.CreatedAt = time.Now().Add(-seeded.age)

			if err := tx.Create(&recipe).Error; err != nil {
				return log.Err("failed to create recipe", err, "title", recipe.Title)
			}
			author.TotalLikes += recipe.Likes
			recipes = append(recipes, recipe)
			log.Info("Seeded recipe", "title", recipe.Title, "author", author.Username)
		}

		for _, user := range users {
			var others []Recipe
			for _, recipe := range recipes {
				if recipe.AuthorID != user.ID {
					others = append(others, recipe)
				}
			}
			user.UnseenRecipes = engine.SafeIDs(others, user.Allergens)

			if err := tx.Save(user).Error; err != nil {
				return log.Err("failed to update user", err, "username", user.Username)
			}
		}

		log.Info("Seed complete", "users", len(users), "recipes", len(recipes))
		return nil
	})
}
