package handlers

import (
	"tastebuddin/internal/app"
	feedController "tastebuddin/internal/controllers/feed"
	"tastebuddin/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type FeedHandler struct {
	Handler
	feedController feedController.FeedControllerInterface
}

func NewFeedHandler(app app.App, router fiber.Router) *FeedHandler {
	log := logger.New("handlers").File("feed_handler")
	return &FeedHandler{
		feedController: app.Controllers.Feed,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *FeedHandler) Register() {
	feed := h.router.Group("/feed")

	feed.Post("/preview", h.preview)
	feed.Get("/:identifier", h.getFeed)
}

func (h *FeedHandler) getFeed(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getFeed")

	identifier := c.Params("identifier")
	recipes, err := h.feedController.GetFeed(c.UserContext(), identifier)
	if err != nil {
		return respondError(c, log, err, "Failed to generate feed")
	}

	return c.JSON(fiber.Map{
		"recipes": recipes,
	})
}

func (h *FeedHandler) preview(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("preview")

	var req types.FeedPreviewRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return badRequest(c, "Invalid request body")
	}

	return c.JSON(fiber.Map{
		"recipes": h.feedController.Preview(c.UserContext(), &req),
	})
}
