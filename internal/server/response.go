package server

import "github.com/gofiber/fiber/v2"

func errorResponse(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{"error": message})
}
