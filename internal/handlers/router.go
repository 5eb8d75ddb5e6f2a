package handlers

import (
	"tastebuddin/internal/app"
	"tastebuddin/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	api := router.Group("/api", app.Middleware.TraceID())

	HealthHandler(api, app.Config, app.Database.Ping)
	NewFeedHandler(*app, api).Register()
	NewLeaderboardHandler(*app, api).Register()
	NewRecipesHandler(*app, api).Register()
	NewUsersHandler(*app, api).Register()

	return nil
}
