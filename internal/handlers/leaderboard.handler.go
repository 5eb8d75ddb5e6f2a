package handlers

import (
	"errors"

	"tastebuddin/internal/app"
	leaderboardController "tastebuddin/internal/controllers/leaderboard"
	"tastebuddin/internal/leaderboard"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type LeaderboardHandler struct {
	Handler
	leaderboardController leaderboardController.LeaderboardControllerInterface
}

func NewLeaderboardHandler(app app.App, router fiber.Router) *LeaderboardHandler {
	log := logger.New("handlers").File("leaderboard_handler")
	return &LeaderboardHandler{
		leaderboardController: app.Controllers.Leaderboard,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *LeaderboardHandler) Register() {
	boards := h.router.Group("/leaderboard")

	boards.Get("/daily", h.getDaily)
	boards.Get("/weekly", h.getWeekly)
	boards.Get("/recipes", h.getRecipes)
	boards.Get("/authors", h.getAuthors)
}

func (h *LeaderboardHandler) getDaily(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getDaily")

	limit, err := queryInt(c, "limit")
	if err != nil {
		return badRequest(c, "limit must be a number")
	}

	entries, err := h.leaderboardController.Daily(c.UserContext(), limit)
	return h.respond(c, log, entries, err)
}

func (h *LeaderboardHandler) getWeekly(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getWeekly")

	limit, err := queryInt(c, "limit")
	if err != nil {
		return badRequest(c, "limit must be a number")
	}

	entries, err := h.leaderboardController.Weekly(c.UserContext(), limit)
	return h.respond(c, log, entries, err)
}

func (h *LeaderboardHandler) getRecipes(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getRecipes")

	days, err := queryInt(c, "days")
	if err != nil {
		return badRequest(c, "days must be a number")
	}
	if c.Query("days") == "" {
		days = 1
	}

	limit, err := queryInt(c, "limit")
	if err != nil {
		return badRequest(c, "limit must be a number")
	}

	entries, err := h.leaderboardController.Recipes(c.UserContext(), days, limit)
	return h.respond(c, log, entries, err)
}

func (h *LeaderboardHandler) getAuthors(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getAuthors")

	limit, err := queryInt(c, "limit")
	if err != nil {
		return badRequest(c, "limit must be a number")
	}

	entries, err := h.leaderboardController.Authors(c.UserContext(), limit)
	return h.respond(c, log, entries, err)
}

// respond reports an empty window as a message rather than a failure.
func (h *LeaderboardHandler) respond(c *fiber.Ctx, log logger.Logger, entries any, err error) error {
	switch {
	case errors.Is(err, leaderboard.ErrNoItemsInWindow), errors.Is(err, leaderboard.ErrNoAuthorData):
		return c.JSON(fiber.Map{
			"entries": []any{},
			"message": err.Error(),
		})
	case err != nil:
		return respondError(c, log, err, "Failed to build leaderboard")
	}

	return c.JSON(fiber.Map{
		"entries": entries,
	})
}
