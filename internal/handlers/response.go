package handlers

import (
	"errors"
	"strconv"

	"tastebuddin/internal/handlers/middleware"
	"tastebuddin/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, types.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, types.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, types.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, types.ErrUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err using the status its sentinel maps to. Server side
// failures hide the underlying message behind msg.
func respondError(c *fiber.Ctx, log logger.Logger, err error, msg string) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.Er(msg, err)
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	log.Info(msg, "status", status, "error", err)
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// actorID resolves who is acting. With auth enabled the token subject wins
// and a different claimed id is rejected.
func actorID(c *fiber.Ctx, claimed uuid.UUID) (uuid.UUID, error) {
	authenticated, ok := middleware.GetUserID(c)
	if !ok {
		return claimed, nil
	}

	if claimed != uuid.Nil && claimed != authenticated {
		return uuid.Nil, types.ErrForbidden
	}

	return authenticated, nil
}

func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
