package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/siteweaverhq/siteweaver/app/controllers"
	"github.com/siteweaverhq/siteweaver/internal/pkg/constants"
	"github.com/siteweaverhq/siteweaver/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute, limiter.New())
	v1 := api.Group(constants.APIv1Route)

	// Public: starting a session needs no token.
	v1.Post(constants.SessionsRoute, controllers.HandleCreateSession)

	// Everything else acts on a resolved session.
	authed := v1.Group("", middleware.SessionTokenMiddleware())

	authed.Get(constants.SessionRoute, controllers.HandleGetSession)
	authed.Put(constants.StepsRoute+"/:step", controllers.HandleSaveStep)
	authed.Post(constants.StepsRoute+"/:step/advance", controllers.HandleAdvanceStep)

	authed.Post(constants.CheckoutRoute+"/refresh", controllers.HandleRefreshPricing)
	authed.Post(constants.CheckoutRoute+"/discount/verify", controllers.HandleVerifyDiscount)
	authed.Delete(constants.CheckoutRoute+"/discount", controllers.HandleRemoveDiscount)
	authed.Post(constants.CheckoutRoute+"/confirm", controllers.HandleConfirmCheckout)

	authed.Post(constants.AssetsRoute, controllers.HandleUploadAsset)
	authed.Get(constants.AssetsRoute, controllers.HandleListAssets)
	authed.Delete(constants.AssetsRoute+"/:uuid", controllers.HandleDeleteAsset)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
