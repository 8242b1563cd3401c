package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/alshahriar/gymfit/internal/auth"
	"github.com/alshahriar/gymfit/internal/render"
)

// ResetPasswordHandler handles the forgot-password and reset-password
// pages. The forgot form always reports success so the page cannot be
// used to probe registered emails.
type ResetPasswordHandler struct {
	resetService *auth.ResetService
	baseURL      string
}

func NewResetPasswordHandler(resetService *auth.ResetService, baseURL string) *ResetPasswordHandler {
	return &ResetPasswordHandler{
		resetService: resetService,
		baseURL:      baseURL,
	}
}

func (h *ResetPasswordHandler) GetForgotPassword(ctx *fiber.Ctx) error {
	return render.RenderForgotPassword(ctx, render.ForgotPasswordPageData{})
}

func (h *ResetPasswordHandler) PostForgotPassword(ctx *fiber.Ctx) error {
	email := ctx.FormValue("email")
	if err := validateEmail(email); err != nil {
		return render.RenderForgotPassword(ctx, render.ForgotPasswordPageData{
			Email:    email,
			ErrorMsg: err.Error(),
		})
	}

	if err := h.resetService.RequestReset(ctx.Context(), email, h.baseURL); err != nil {
		slog.Error("Failed to create password reset token", "error", err)
		return render.RenderInternalError(ctx)
	}
	return render.RenderForgotPassword(ctx, render.ForgotPasswordPageData{EmailSent: true})
}

func (h *ResetPasswordHandler) GetResetPassword(ctx *fiber.Ctx) error {
	return render.RenderResetPassword(ctx, render.ResetPasswordPageData{
		Token: ctx.Params("token"),
	})
}

func (h *ResetPasswordHandler) PostResetPassword(ctx *fiber.Ctx) error {
	token := ctx.Params("token")
	pageData := render.ResetPasswordPageData{Token: token}

	newPassword := ctx.FormValue("newPassword")
	if err := validatePassword(newPassword); err != nil {
		pageData.ErrorMsg = err.Error()
		return render.RenderResetPassword(ctx, pageData)
	}

	err := h.resetService.Reset(ctx.Context(), token, newPassword, ctx.FormValue("confirmPassword"))
	switch {
	case errors.Is(err, auth.ErrPasswordMismatch):
		pageData.ErrorMsg = "Passwords do not match."
		return render.RenderResetPassword(ctx, pageData)
	case errors.Is(err, auth.ErrTokenExpired):
		pageData.ErrorMsg = "This reset link has expired. Please request a new one."
		return render.RenderResetPassword(ctx, pageData)
	case errors.Is(err, auth.ErrTokenInvalid):
		pageData.ErrorMsg = "This reset link is invalid or has already been used."
		return render.RenderResetPassword(ctx, pageData)
	case err != nil:
		slog.Error("Failed to reset password", "error", err)
		return render.RenderInternalError(ctx)
	}
	return render.RenderPasswordUpdated(ctx)
}
