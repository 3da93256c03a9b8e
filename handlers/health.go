package handlers

import "github.com/gofiber/fiber/v2"

const (
	ServiceName = "crucible-api"
	Version     = "1.0.0"
)

func SetupHealthRoutes(api fiber.Router) {
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": ServiceName,
			"version": Version,
		})
	})
}
