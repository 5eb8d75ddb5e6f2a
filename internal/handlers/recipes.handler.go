package handlers

import (
	"tastebuddin/internal/app"
	recipesController "tastebuddin/internal/controllers/recipes"
	"tastebuddin/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RecipesHandler struct {
	Handler
	recipesController recipesController.RecipesControllerInterface
}

func NewRecipesHandler(app app.App, router fiber.Router) *RecipesHandler {
	log := logger.New("handlers").File("recipes_handler")
	return &RecipesHandler{
		recipesController: app.Controllers.Recipes,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RecipesHandler) Register() {
	recipes := h.router.Group("/recipes")

	recipes.Get("", h.listRecipes)
	recipes.Get("/:id", h.getRecipe)
	recipes.Post("", h.middleware.RequireAuth(), h.createRecipe)
	recipes.Put("/:id", h.middleware.RequireAuth(), h.updateRecipe)
	recipes.Delete("/:id", h.middleware.RequireAuth(), h.deleteRecipe)
}

func (h *RecipesHandler) listRecipes(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("listRecipes")

	authorID := uuid.Nil
	if raw := c.Query("authorId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "authorId must be a valid id")
		}
		authorID = parsed
	}

	recipes, err := h.recipesController.List(c.UserContext(), authorID)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve recipes")
	}

	return c.JSON(fiber.Map{
		"recipes": recipes,
	})
}

func (h *RecipesHandler) getRecipe(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("getRecipe")

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "Invalid recipe id")
	}

	recipe, err := h.recipesController.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve recipe")
	}

	return c.JSON(fiber.Map{
		"recipe": recipe,
	})
}

func (h *RecipesHandler) createRecipe(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("createRecipe")

	var req types.CreateRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return badRequest(c, "Invalid request body")
	}

	authorID, err := actorID(c, req.AuthorID)
	if err != nil {
		return respondError(c, log, err, "Failed to create recipe")
	}
	req.AuthorID = authorID

	recipe, err := h.recipesController.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, log, err, "Failed to create recipe")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"recipe": recipe,
	})
}

func (h *RecipesHandler) updateRecipe(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("updateRecipe")

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "Invalid recipe id")
	}

	var req recipesController.UpdateRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return badRequest(c, "Invalid request body")
	}

	actor, err := actorID(c, req.UserID)
	if err != nil {
		return respondError(c, log, err, "Failed to update recipe")
	}

	recipe, err := h.recipesController.Update(c.UserContext(), actor, id, &req.RecipeUpdate)
	if err != nil {
		return respondError(c, log, err, "Failed to update recipe")
	}

	return c.JSON(fiber.Map{
		"recipe": recipe,
	})
}

func (h *RecipesHandler) deleteRecipe(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("deleteRecipe")

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return badRequest(c, "Invalid recipe id")
	}

	claimed := uuid.Nil
	if raw := c.Query("userId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "userId must be a valid id")
		}
		claimed = parsed
	}

	actor, err := actorID(c, claimed)
	if err != nil {
		return respondError(c, log, err, "Failed to delete recipe")
	}

	if err := h.recipesController.Delete(c.UserContext(), actor, id); err != nil {
		return respondError(c, log, err, "Failed to delete recipe")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
