package middlewares

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/alshahriar/gymfit/internal/render"
)

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	slog.Error("unhandled error", "code", code, "path", ctx.Path(), "error", err)
	switch code {
	case fiber.StatusNotFound:
		return render.RenderNotFoundError(ctx)
	default:
		return render.RenderInternalError(ctx)
	}
}
