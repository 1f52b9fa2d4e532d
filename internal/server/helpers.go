package server

import (
	"errors"

	"github.com/funkydonkey/fatherhood-is/internal/models"

	"github.com/gofiber/fiber/v2"
)

// respondAppError maps an application error code to its HTTP status and
// writes the standardized error body.
func respondAppError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeValidation:
			status = fiber.StatusBadRequest
		case models.CodeNotFound:
			status = fiber.StatusNotFound
		case models.CodeRateLimited:
			status = fiber.StatusTooManyRequests
		}
	}

	return models.RespondWithError(c, status, err)
}
