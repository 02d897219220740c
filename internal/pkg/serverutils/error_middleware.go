package serverutils

import (
	"errors"

	"ai-qa-agent-be/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors returned by handlers into the
// error envelope. Classified errors map to their taxonomy status; anything
// unclassified is reported as an upstream failure without leaking internals.
func ErrorHandlerMiddleware(logger interface {
	Error(module, message string, details map[string]interface{})
}) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		// fiber's own errors (404 route, body limit) keep their status
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse("HTTP_ERROR", fiberErr.Message))
		}

		kind := apperr.KindOf(err)
		status := apperr.HTTPStatus(err)
		if logger != nil && status >= fiber.StatusInternalServerError {
			logger.Error("http", "request failed", map[string]interface{}{
				"path":  ctx.Path(),
				"error": err.Error(),
			})
		}

		return ctx.Status(status).JSON(ErrorResponse(string(kind), apperr.MessageOf(err)))
	}
}
