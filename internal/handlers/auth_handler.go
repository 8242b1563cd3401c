package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/alshahriar/gymfit/internal/auth"
	"github.com/alshahriar/gymfit/internal/middlewares/sessions"
	"github.com/alshahriar/gymfit/internal/render"
)

// AuthHandler handles the login/logout and forced password change pages.
type AuthHandler struct {
	authService *auth.AuthenticateService
}

func NewAuthHandler(authService *auth.AuthenticateService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) GetLogin(ctx *fiber.Ctx) error {
	if sess := sessions.Get(ctx); sess.IsLoggedIn() {
		return ctx.Redirect("/dashboard")
	}
	return render.RenderLogin(ctx, render.LoginPageData{
		Flashes: sessions.PopFlashes(ctx),
	})
}

func (h *AuthHandler) PostLogin(ctx *fiber.Ctx) error {
	var (
		username = ctx.FormValue("username")
		password = ctx.FormValue("password")
	)
	if username == "" || password == "" {
		return render.RenderLogin(ctx, render.LoginPageData{
			Username: username,
			ErrorMsg: "Username and password are required.",
		})
	}

	user, err := h.authService.PasswordLogin(ctx.Context(), username, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return render.RenderLogin(ctx, render.LoginPageData{
			Username: username,
			ErrorMsg: "Invalid username or password!",
		})
	}
	if err != nil {
		slog.Error("Login failed", "username", username, "error", err)
		return render.RenderInternalError(ctx)
	}

	sessions.Set(ctx, sessions.SessionData{
		IP:          ctx.IP(),
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
		DisplayName: user.DisplayName,
		MustChange:  user.PasswordChangeRequired,
		LoginTime:   time.Now(),
	})
	if user.PasswordChangeRequired {
		return ctx.Redirect("/change-password")
	}
	sessions.AddFlash(ctx, sessions.FlashSuccess, "Login successful!")
	return ctx.Redirect("/dashboard")
}

func (h *AuthHandler) GetLogout(ctx *fiber.Ctx) error {
	if err := sessions.Destroy(ctx); err != nil {
		slog.Error("Failed to destroy session", "error", err)
	}
	return ctx.Redirect("/")
}

func (h *AuthHandler) GetChangePassword(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	return render.RenderChangePassword(ctx, render.ChangePasswordPageData{
		Forced: session.MustChange,
	})
}

func (h *AuthHandler) PostChangePassword(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	var (
		current = ctx.FormValue("currentPassword")
		newPw   = ctx.FormValue("newPassword")
		confirm = ctx.FormValue("confirmPassword")
	)
	pageData := render.ChangePasswordPageData{Forced: session.MustChange}
	if err := validatePassword(newPw); err != nil {
		pageData.ErrorMsg = err.Error()
		return render.RenderChangePassword(ctx, pageData)
	}

	err := h.authService.ChangePassword(ctx.Context(), session.UserID, current, newPw, confirm)
	switch {
	case errors.Is(err, auth.ErrPasswordMismatch):
		pageData.ErrorMsg = "Passwords do not match."
		return render.RenderChangePassword(ctx, pageData)
	case errors.Is(err, auth.ErrInvalidCredentials):
		pageData.ErrorMsg = "Current password is incorrect."
		return render.RenderChangePassword(ctx, pageData)
	case err != nil:
		slog.Error("Failed to change password", "user", session.Username, "error", err)
		return render.RenderInternalError(ctx)
	}

	session.MustChange = false
	sessions.Set(ctx, session)
	sessions.AddFlash(ctx, sessions.FlashSuccess, "Password updated.")
	return ctx.Redirect("/dashboard")
}
