package controllers

import (
	"math"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"sneakershop/apperror"
	"sneakershop/middleware"
	"sneakershop/models"
)

// POST /api/products  (JSON or multipart with an optional "image" file)
func (h *ProductController) Create(c *fiber.Ctx) error {
	in, image, err := parseProductInput(c)
	if err != nil {
		return err
	}

	p, err := h.catalog.Create(c.UserContext(), in, image, middleware.Identity(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT|PATCH /api/products/:id
func (h *ProductController) Update(c *fiber.Ctx) error {
	in, image, err := parseProductInput(c)
	if err != nil {
		return err
	}

	p, err := h.catalog.Update(c.UserContext(), c.Params("id"), in, image, middleware.Identity(c))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// DELETE /api/products/:id
func (h *ProductController) Delete(c *fiber.Ctx) error {
	if err := h.catalog.Delete(c.UserContext(), c.Params("id"), middleware.Identity(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Product removed"})
}

// parseProductInput reads a product from a multipart form when the request
// is one, otherwise from the JSON body.
func parseProductInput(c *fiber.Ctx) (models.ProductInput, *multipart.FileHeader, error) {
	var in models.ProductInput

	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if err := c.BodyParser(&in); err != nil {
			return in, nil, apperror.Validation("Invalid request body")
		}
		return in, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return in, nil, apperror.Validation("Invalid multipart form")
	}

	f := formReader{values: form.Value}
	in.Name = f.text("name")
	in.Brand = f.text("brand")
	in.Description = f.text("description")
	in.Price = f.number("price")
	in.Sizes = f.list("sizes")
	in.Colors = f.list("colors")
	in.CountInStock = f.integer("countInStock", "count_in_stock")
	in.Rating = f.number("rating")
	in.NumReviews = f.integer("numReviews", "num_reviews")
	if len(f.errs) > 0 {
		return in, nil, apperror.Validation("Invalid product data", f.errs...)
	}

	var image *multipart.FileHeader
	if files := form.File["image"]; len(files) > 0 {
		image = files[0]
	}
	return in, image, nil
}

// formReader pulls optional typed fields out of a multipart form and
// collects parse failures.
type formReader struct {
	values map[string][]string
	errs   []apperror.FieldError
}

func (f *formReader) lookup(keys ...string) (string, string, bool) {
	for _, k := range keys {
		if v, ok := f.values[k]; ok && len(v) > 0 {
			return k, strings.TrimSpace(v[0]), true
		}
	}
	return "", "", false
}

func (f *formReader) text(key string) *string {
	_, v, ok := f.lookup(key)
	if !ok {
		return nil
	}
	return &v
}

func (f *formReader) number(key string) *float64 {
	k, v, ok := f.lookup(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		f.errs = append(f.errs, apperror.FieldError{Field: k, Message: k + " must be a number"})
		return nil
	}
	return &n
}

func (f *formReader) integer(keys ...string) *int {
	k, v, ok := f.lookup(keys...)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		f.errs = append(f.errs, apperror.FieldError{Field: k, Message: k + " must be an integer"})
		return nil
	}
	return &n
}

// list accepts both repeated fields and a comma separated value.
func (f *formReader) list(key string) []string {
	raw, ok := f.values[key]
	if !ok {
		return nil
	}
	out := []string{}
	for _, v := range raw {
		out = append(out, splitCSV(v)...)
	}
	return out
}
