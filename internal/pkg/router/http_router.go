package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/siteweaverhq/siteweaver/internal/pkg/constants"
	"github.com/siteweaverhq/siteweaver/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	app.Get(constants.HealthRoute, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
