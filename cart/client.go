package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"sneakershop/apperror"
	"sneakershop/models"
)

// APIClient talks to the SneakerShop API.
type APIClient struct {
	baseURL string
	timeout time.Duration
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

// Product fetches GET /api/products/:id.
func (c *APIClient) Product(ctx context.Context, id string) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a := fiber.Get(c.baseURL + "/api/products/" + url.PathEscape(id))
	a.Timeout(c.timeout)

	var p models.Product
	if err := c.send(a, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Login posts credentials to POST /api/auth/login.
func (c *APIClient) Login(ctx context.Context, email, password string) (*models.LoginResp, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a := fiber.Post(c.baseURL + "/api/auth/login")
	a.Timeout(c.timeout)
	a.JSON(models.UserInput{Email: email, Password: password})

	var resp models.LoginResp
	if err := c.send(a, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) send(a *fiber.Agent, out any) error {
	if err := a.Parse(); err != nil {
		return apperror.Internal("Invalid API address", err)
	}
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return apperror.Internal("API request failed", errs[0])
	}
	if code >= fiber.StatusBadRequest {
		return decodeError(code, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperror.Internal("Invalid API response", err)
	}
	return nil
}

// decodeError turns an {"error", "details"} response back into the
// matching apperror kind.
func decodeError(code int, body []byte) error {
	var resp struct {
		Error   string                `json:"error"`
		Details []apperror.FieldError `json:"details"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Error == "" {
		resp.Error = fiber.ErrInternalServerError.Message
		if code < fiber.StatusInternalServerError {
			resp.Error = fmt.Sprintf("Request failed with status %d", code)
		}
	}

	switch code {
	case fiber.StatusBadRequest:
		return apperror.Validation(resp.Error, resp.Details...)
	case fiber.StatusUnauthorized:
		return apperror.Auth(resp.Error)
	case fiber.StatusForbidden:
		return apperror.Forbidden(resp.Error)
	case fiber.StatusNotFound:
		return apperror.NotFound(resp.Error)
	case fiber.StatusConflict:
		return apperror.Conflict(resp.Error)
	}
	return apperror.Internal(resp.Error, nil)
}
