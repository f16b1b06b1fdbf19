package controllers

import (
	"github.com/gofiber/fiber/v2"

	"sneakershop/apperror"
	"sneakershop/middleware"
	"sneakershop/services"
)

type UploadController struct {
	catalog *services.CatalogService
}

func NewUploadController(catalog *services.CatalogService) *UploadController {
	return &UploadController{catalog: catalog}
}

// POST /api/upload
func (h *UploadController) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return apperror.Validation("Image is required", apperror.FieldError{Field: "image", Message: "image is required"})
	}

	p, err := h.catalog.Upload(c.UserContext(), file, middleware.Identity(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Image uploaded", "path": p})
}
