package serverutils

import (
	"errors"

	"food-consult-bot/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorMapper lets callers translate domain errors into a status code.
type ErrorMapper func(err error) (int, bool)

func ErrorHandlerMiddleware(log logger.ILogger, mappers ...ErrorMapper) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var verr *ValidationError
		if errors.As(err, &verr) {
			body := ErrorResponse(fiber.StatusBadRequest, "Invalid request")
			body.Errors = verr.Fields
			return ctx.Status(fiber.StatusBadRequest).JSON(body)
		}

		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			return ctx.Status(ferr.Code).JSON(ErrorResponse(ferr.Code, ferr.Message))
		}

		for _, m := range mappers {
			if code, ok := m(err); ok {
				return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
			}
		}

		log.Error("HTTP", "Unhandled request error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
	}
}
