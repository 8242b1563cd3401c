package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alshahriar/gymfit/internal/middlewares/sessions"
)

// RequireLogin redirects anonymous requests to the login page with a
// warning; it never hard-fails.
func RequireLogin(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	if !session.IsLoggedIn() {
		sessions.AddFlash(ctx, sessions.FlashError, "Please login first!")
		return ctx.Redirect("/login")
	}
	return ctx.Next()
}

// RequireAdmin bounces non-admin users back to the dashboard with a
// warning.
func RequireAdmin(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	if !session.IsLoggedIn() {
		sessions.AddFlash(ctx, sessions.FlashError, "Please login first!")
		return ctx.Redirect("/login")
	}
	if !session.IsAdmin() {
		sessions.AddFlash(ctx, sessions.FlashError, "Unauthorized access!")
		return ctx.Redirect("/dashboard")
	}
	return ctx.Next()
}
