package controllers

import (
	"tastebuddin/config"
	"tastebuddin/internal/database"
	"tastebuddin/internal/events"
	"tastebuddin/internal/feed"
	"tastebuddin/internal/repositories"
	"tastebuddin/internal/services"

	feedController "tastebuddin/internal/controllers/feed"
	leaderboardController "tastebuddin/internal/controllers/leaderboard"
	recipesController "tastebuddin/internal/controllers/recipes"
	usersController "tastebuddin/internal/controllers/users"
)

type Controllers struct {
	Feed        feedController.FeedControllerInterface
	Recipes     recipesController.RecipesControllerInterface
	Users       usersController.UsersControllerInterface
	Leaderboard leaderboardController.LeaderboardControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus events.Publisher,
	engine *feed.Engine,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		Feed:        feedController.New(repos, engine, db.SQL),
		Recipes:     recipesController.New(repos, services.Transaction, eventBus, engine, db.SQL),
		Users:       usersController.New(repos, services.Transaction, eventBus, engine, db.SQL),
		Leaderboard: leaderboardController.New(services.Leaderboard, config.LeaderboardLimit),
	}
}
