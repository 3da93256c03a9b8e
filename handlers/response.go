package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"crucible-api/services"
)

// fail maps a service error onto a status code. Anything that is not a
// services.Error is a storage or programming fault and is hidden from callers.
func fail(c *fiber.Ctx, err error) error {
	var se *services.Error
	if !errors.As(err, &se) {
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Internal server error",
		})
	}

	status := fiber.StatusBadRequest
	switch se.Kind {
	case services.KindNotFound:
		status = fiber.StatusNotFound
	case services.KindUnauthorized:
		status = fiber.StatusUnauthorized
	case services.KindForbidden:
		status = fiber.StatusForbidden
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   se.Message,
	})
}

// ErrorHandler is the app-wide fiber error handler. Errors returned from
// middleware (such as services.ErrUnauthorized) get the same JSON shape as
// handler failures.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"success": false,
			"error":   fe.Message,
		})
	}
	return fail(c, err)
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   "Invalid JSON body",
	})
}

// parseOptionalBody decodes the body only when one was sent
func parseOptionalBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}
