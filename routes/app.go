package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"sneakershop/config"
	"sneakershop/controllers"
	"sneakershop/middleware"
)

// NewApp builds the fiber app with the middleware stack and all routes.
func NewApp(cfg config.Config, d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "SneakerShop API",
		ErrorHandler: controllers.ErrorHandler(cfg.IsDevelopment()),
		BodyLimit:    cfg.MaxUploadMB * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins, // คั่นด้วย comma
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, x-auth-token",
	}))
	app.Use(middleware.Timeout(cfg.RequestTimeout))

	RegisterRoutes(app, d)
	return app
}
