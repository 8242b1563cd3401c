package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/alshahriar/gymfit/internal/members"
	"github.com/alshahriar/gymfit/internal/middlewares/sessions"
	"github.com/alshahriar/gymfit/internal/render"
)

var MsgEmailRegistered = "Email already registered! Please use a different email."

// RegisterHandler handles the public membership application form.
type RegisterHandler struct {
	memberService *members.Service
}

func NewRegisterHandler(memberService *members.Service) *RegisterHandler {
	return &RegisterHandler{memberService: memberService}
}

func registrationFormValues(ctx *fiber.Ctx) map[string]string {
	return map[string]string{
		"firstName":  ctx.FormValue("firstName"),
		"lastName":   ctx.FormValue("lastName"),
		"email":      ctx.FormValue("email"),
		"phone":      ctx.FormValue("phone"),
		"dob":        ctx.FormValue("dob"),
		"gender":     ctx.FormValue("gender"),
		"address":    ctx.FormValue("address"),
		"membership": ctx.FormValue("membership"),
	}
}

func validateRegistrationForm(form map[string]string) map[string]string {
	formErrors := make(map[string]string)
	if err := validateRequired(form["firstName"], "First name"); err != nil {
		formErrors["firstName"] = err.Error()
	}
	if err := validateRequired(form["lastName"], "Last name"); err != nil {
		formErrors["lastName"] = err.Error()
	}
	if err := validateEmail(form["email"]); err != nil {
		formErrors["email"] = err.Error()
	}
	if err := validateRequired(form["phone"], "Phone"); err != nil {
		formErrors["phone"] = err.Error()
	}
	return formErrors
}

func (h *RegisterHandler) GetRegister(ctx *fiber.Ctx) error {
	return render.RenderRegister(ctx, render.RegisterPageData{
		Form:       map[string]string{},
		FormErrors: map[string]string{},
	})
}

func (h *RegisterHandler) PostRegister(ctx *fiber.Ctx) error {
	form := registrationFormValues(ctx)
	pageData := render.RegisterPageData{
		Form:       form,
		FormErrors: validateRegistrationForm(form),
	}
	if len(pageData.FormErrors) > 0 {
		return render.RenderRegister(ctx, pageData)
	}

	_, err := h.memberService.Submit(ctx.Context(), members.RegistrationForm{
		FirstName: form["firstName"],
		LastName:  form["lastName"],
		Email:     form["email"],
		Phone:     form["phone"],
		DOB:       form["dob"],
		Gender:    form["gender"],
		Address:   form["address"],
		Plan:      form["membership"],
	})
	if errors.Is(err, members.ErrDuplicateEmail) {
		pageData.ErrorMsg = MsgEmailRegistered
		return render.RenderRegister(ctx, pageData)
	}
	if err != nil {
		slog.Error("Failed to submit registration", "error", err)
		return render.RenderInternalError(ctx)
	}

	sessions.AddFlash(ctx, sessions.FlashSuccess,
		"Registration successful! Your application is pending admin approval.")
	return ctx.Redirect("/register-success")
}

func (h *RegisterHandler) GetRegisterSuccess(ctx *fiber.Ctx) error {
	return render.RenderRegisterSuccess(ctx)
}
