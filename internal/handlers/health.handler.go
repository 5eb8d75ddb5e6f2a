package handlers

import (
	"context"
	"time"

	"tastebuddin/config"

	"github.com/gofiber/fiber/v2"
)

const readinessTimeout = 2 * time.Second

func HealthHandler(router fiber.Router, config config.Config, ping func(context.Context) error) {
	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"version": config.GeneralVersion,
			"service": "tastebuddin_api",
		})
	})

	router.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
		defer cancel()

		if err := ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
				"error":  err.Error(),
			})
		}

		return c.JSON(fiber.Map{"status": "ready"})
	})
}
