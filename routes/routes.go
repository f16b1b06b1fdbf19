package routes

import (
	"github.com/gofiber/fiber/v2"

	"sneakershop/controllers"
	"sneakershop/middleware"
	"sneakershop/services"
)

// Deps holds what the route handlers are built from.
type Deps struct {
	Auth      *services.AuthService
	Catalog   *services.CatalogService
	UploadDir string
}

func RegisterRoutes(app *fiber.App, d Deps) {
	authCtl := controllers.NewAuthController(d.Auth)
	productCtl := controllers.NewProductController(d.Catalog)
	uploadCtl := controllers.NewUploadController(d.Catalog)

	requireAdmin := []fiber.Handler{middleware.JWTMiddleware(d.Auth), middleware.RequireAdmin}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("API is running...")
	})

	// auth
	auth := app.Group("/api/auth")
	auth.Post("/register", authCtl.Register)
	auth.Post("/login", authCtl.Login)

	// products
	products := app.Group("/api/products")
	products.Get("/", productCtl.List)
	products.Get("/:id", productCtl.Get)
	products.Post("/", append(requireAdmin, productCtl.Create)...)
	products.Put("/:id", append(requireAdmin, productCtl.Update)...)
	products.Patch("/:id", append(requireAdmin, productCtl.Update)...)
	products.Delete("/:id", append(requireAdmin, productCtl.Delete)...)

	// uploads
	app.Post("/api/upload", append(requireAdmin, uploadCtl.Upload)...)
	app.Static("/uploads", d.UploadDir)
}
