package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"sneakershop/apperror"
)

// ErrorHandler renders every error returned by a handler as
// {"error": message} plus field details. Causes of internal errors are
// only included when showCause is set.
func ErrorHandler(showCause bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		appErr, ok := apperror.As(err)
		if !ok {
			appErr = apperror.Internal("Internal server error", err)
		}

		body := fiber.Map{"error": appErr.Message}
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
		if appErr.Kind == apperror.KindInternal {
			log.Errorw("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
			if showCause && appErr.Err != nil {
				body["cause"] = appErr.Err.Error()
			}
		}
		return c.Status(appErr.Kind.Status()).JSON(body)
	}
}
