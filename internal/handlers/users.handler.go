package handlers

import (
	"context"

	"tastebuddin/internal/app"
	usersController "tastebuddin/internal/controllers/users"
	"tastebuddin/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UsersHandler struct {
	Handler
	usersController usersController.UsersControllerInterface
}

type recipeAction func(context.Context, *types.RecipeActionRequest) (*types.ActionResult, error)

func NewUsersHandler(app app.App, router fiber.Router) *UsersHandler {
	log := logger.New("handlers").File("users_handler")
	return &UsersHandler{
		usersController: app.Controllers.Users,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UsersHandler) Register() {
	users := h.router.Group("/users")
	auth := h.middleware.RequireAuth()

	users.Post("", h.createUser)
	users.Get("/exists/:username", h.usernameExists)
	users.Get("/public/:username", h.getPublicProfile)
	users.Put("/public/:username", auth, h.updatePublicProfile)

	users.Post("/like", auth, h.action("like", h.usersController.Like))
	users.Post("/unlike", auth, h.action("unlike", h.usersController.Unlike))
	users.Post("/dislike", auth, h.action("dislike", h.usersController.Dislike))
	users.Post("/unseen", auth, h.action("unseen", h.usersController.AddUnseen))

	users.Get("/:identifier", h.getUser)
	users.Get("/:identifier/liked", h.getLiked)
	users.Put("/:id/allergens", auth, h.updateAllergens)
}

func (h *UsersHandler) createUser(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createUser")

	var req types.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return badRequest(c, "Invalid request body")
	}

	user, err := h.usersController.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, log, err, "Failed to create user")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": user,
	})
}

func (h *UsersHandler) usernameExists(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("usernameExists")

	exists, err := h.usersController.UsernameExists(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, log, err, "Failed to check username")
	}

	return c.JSON(fiber.Map{
		"exists": exists,
	})
}

func (h *UsersHandler) getUser(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getUser")

	user, err := h.usersController.Get(c.UserContext(), c.Params("identifier"))
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve user")
	}

	return c.JSON(fiber.Map{
		"user": user,
	})
}

func (h *UsersHandler) getLiked(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getLiked")

	recipes, err := h.usersController.Liked(c.UserContext(), c.Params("identifier"))
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve liked recipes")
	}

	return c.JSON(fiber.Map{
		"recipes": recipes,
	})
}

func (h *UsersHandler) getPublicProfile(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getPublicProfile")

	profile, err := h.usersController.PublicProfile(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve profile")
	}

	return c.JSON(fiber.Map{
		"profile": profile,
	})
}

func (h *UsersHandler) updatePublicProfile(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updatePublicProfile")

	var req types.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return badRequest(c, "Invalid request body")
	}

	actor, err := actorID(c, uuid.Nil)
	if err != nil {
		return respondError(c, log, err, "Failed to update profile")
	}

	profile, err := h.usersController.UpdateProfile(c.UserContext(), actor, c.Params("username"), &req)
	if err != nil {
		return respondError(c, log, err, "Failed to update profile")
	}

	return c.JSON(fiber.Map{
		"profile": profile,
	})
}

func (h *UsersHandler) updateAllergens(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateAllergens")

	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	var req types.UpdateAllergensRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return badRequest(c, "Invalid request body")
	}

	if userID, err = actorID(c, userID); err != nil {
		return respondError(c, log, err, "Failed to update allergens")
	}

	user, err := h.usersController.UpdateAllergens(c.UserContext(), userID, &req)
	if err != nil {
		return respondError(c, log, err, "Failed to update allergens")
	}

	return c.JSON(fiber.Map{
		"user": user,
	})
}

func (h *UsersHandler) action(name string, run recipeAction) fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := h.log.TraceFromContext(c.UserContext()).Function(name)

		var req types.RecipeActionRequest
		if err := c.BodyParser(&req); err != nil {
			log.Warn("Invalid request body", "error", err)
			return badRequest(c, "Invalid request body")
		}

		userID, err := actorID(c, req.UserID)
		if err != nil {
			return respondError(c, log, err, "Failed to "+name+" recipe")
		}
		req.UserID = userID

		result, err := run(c.UserContext(), &req)
		if err != nil {
			return respondError(c, log, err, "Failed to "+name+" recipe")
		}

		return c.JSON(fiber.Map{
			"result": result,
		})
	}
}
