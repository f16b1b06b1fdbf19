package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"sneakershop/services"
)

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// GET /api/products  (filter + sort + paginate)
func (h *ProductController) List(c *fiber.Ctx) error {
	q, err := services.ParseListQuery(c.Queries())
	if err != nil {
		return err
	}

	resp, err := h.catalog.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GET /api/products/:id
func (h *ProductController) Get(c *fiber.Ctx) error {
	p, err := h.catalog.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// helpers
func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		v := strings.TrimSpace(p)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
