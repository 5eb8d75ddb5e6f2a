package repositories

import (
	"tastebuddin/internal/database"
)

type Repository struct {
	Recipe      RecipeRepository
	User        UserRepository
	Leaderboard LeaderboardRepository
}

func New(db database.DB) Repository {
	return Repository{
		Recipe:      NewRecipeRepository(),
		User:        NewUserRepository(db.Cache.User),
		Leaderboard: NewLeaderboardRepository(db.Cache.Leaderboard),
	}
}
