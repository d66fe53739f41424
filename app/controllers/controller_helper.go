package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/siteweaverhq/siteweaver/internal/pkg/wizard"
)

// jsonError writes the standard error envelope.
func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}

// parseStepParam reads and validates the :step route parameter.
func parseStepParam(c *fiber.Ctx) (wizard.Step, error) {
	n, err := strconv.Atoi(c.Params("step"))
	if err != nil {
		return 0, err
	}
	step := wizard.Step(n)
	if !step.Valid() {
		return 0, fiber.ErrBadRequest
	}
	return step, nil
}
