package controllers

import (
	"github.com/gofiber/fiber/v2"

	"sneakershop/apperror"
	"sneakershop/models"
	"sneakershop/services"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// POST /api/auth/register
func (h *AuthController) Register(c *fiber.Ctx) error {
	var in models.UserInput
	if err := c.BodyParser(&in); err != nil {
		return apperror.Validation("Invalid request body")
	}

	user, err := h.auth.Register(c.UserContext(), in)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// POST /api/auth/login
func (h *AuthController) Login(c *fiber.Ctx) error {
	var in models.UserInput
	if err := c.BodyParser(&in); err != nil {
		return apperror.Validation("Invalid request body")
	}

	resp, err := h.auth.Login(c.UserContext(), in.Email, in.Password)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
