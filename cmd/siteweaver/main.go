package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/siteweaverhq/siteweaver/app/controllers"
	"github.com/siteweaverhq/siteweaver/app/repository"
	"github.com/siteweaverhq/siteweaver/internal/pkg/analytics"
	"github.com/siteweaverhq/siteweaver/internal/pkg/assetstore"
	"github.com/siteweaverhq/siteweaver/internal/pkg/cache"
	"github.com/siteweaverhq/siteweaver/internal/pkg/database"
	"github.com/siteweaverhq/siteweaver/internal/pkg/env"
	"github.com/siteweaverhq/siteweaver/internal/pkg/payment"
	"github.com/siteweaverhq/siteweaver/internal/pkg/pricing"
	"github.com/siteweaverhq/siteweaver/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	wireControllers()

	// init fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: 26214400, // 25 MiB, matches the upload cap
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "test"),
		},
	}), monitor.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}

// wireControllers builds the checkout and upload collaborators once and
// installs them on the controllers.
func wireControllers() {
	repos := repository.GetGlobalFactory().GetRepositories()

	pricingService := pricing.NewService(
		pricing.LoadCatalogFromEnv(),
		repos.Discount,
		repos.CheckoutAttempt,
		pricing.NewStripeIntentClientFromEnv(),
	)
	controllers.InitializeCheckoutController(controllers.CheckoutDeps{
		Backend:  pricingService,
		Provider: payment.NewStripeProviderFromEnv(),
		Observer: analytics.NewTracker(),
		Redeem:   pricingService.RedeemDiscount,
	})

	assetCfg, err := assetstore.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid asset store configuration: %v", err)
	}
	if assetCfg.IsEnabled() {
		client, err := assetstore.NewClient(assetCfg)
		if err != nil {
			// Uploads are optional; run without them rather than refusing to start.
			log.Printf("Asset store unavailable, uploads disabled: %v", err)
		} else {
			controllers.InitializeUploadController(client, assetCfg)
		}
	}
}
