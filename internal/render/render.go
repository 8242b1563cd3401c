package render

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var globalVars fiber.Map

func InitValues(data fiber.Map) {
	globalVars = data
}

// NewHtmlEngine serves templates from templateDir when set, otherwise from
// the embedded copies.
func NewHtmlEngine(templateDir string) fiber.Views {
	if templateDir != "" {
		return html.NewFileSystem(http.Dir(templateDir), ".html")
	}
	renderFS, _ := fs.Sub(templateFS, "templates")
	return html.NewFileSystem(http.FS(renderFS), ".html")
}

func siteName() interface{} {
	return globalVars["siteName"]
}

func RenderIndex(ctx *fiber.Ctx) error {
	return ctx.Render("index", fiber.Map{
		"siteName": siteName(),
	})
}

func RenderLogin(ctx *fiber.Ctx, data LoginPageData) error {
	return ctx.Render("login", fiber.Map{
		"siteName": siteName(),
		"username": data.Username,
		"errorMsg": data.ErrorMsg,
		"flashes":  data.Flashes,
	})
}

func RenderRegister(ctx *fiber.Ctx, data RegisterPageData) error {
	return ctx.Render("register", fiber.Map{
		"siteName":   siteName(),
		"form":       data.Form,
		"formErrors": data.FormErrors,
		"errorMsg":   data.ErrorMsg,
	})
}

func RenderRegisterSuccess(ctx *fiber.Ctx) error {
	return ctx.Render("register-success", fiber.Map{
		"siteName": siteName(),
	})
}

func RenderDashboard(ctx *fiber.Ctx, data DashboardPageData) error {
	return ctx.Render("dashboard", fiber.Map{
		"siteName":     siteName(),
		"displayName":  data.DisplayName,
		"role":         data.Role,
		"pendingCount": data.PendingCount,
		"members":      data.Members,
		"flashes":      data.Flashes,
	})
}

func RenderMembers(ctx *fiber.Ctx, data MembersPageData) error {
	return ctx.Render("members", fiber.Map{
		"siteName":    siteName(),
		"displayName": data.DisplayName,
		"role":        data.Role,
		"members":     data.Members,
		"flashes":     data.Flashes,
	})
}

func RenderTrainers(ctx *fiber.Ctx) error {
	return ctx.Render("trainers", fiber.Map{
		"siteName": siteName(),
	})
}

func RenderClasses(ctx *fiber.Ctx) error {
	return ctx.Render("classes", fiber.Map{
		"siteName": siteName(),
	})
}

func RenderPendingRegistrations(ctx *fiber.Ctx, data PendingRegistrationsPageData) error {
	return ctx.Render("pending-registrations", fiber.Map{
		"siteName":      siteName(),
		"displayName":   data.DisplayName,
		"registrations": data.Registrations,
		"flashes":       data.Flashes,
	})
}

func RenderEditMember(ctx *fiber.Ctx, data EditMemberPageData) error {
	return ctx.Render("edit-member", fiber.Map{
		"siteName": siteName(),
		"member":   data.Member,
		"errorMsg": data.ErrorMsg,
	})
}

func RenderForgotPassword(ctx *fiber.Ctx, data ForgotPasswordPageData) error {
	return ctx.Render("forgot-password", fiber.Map{
		"siteName":  siteName(),
		"email":     data.Email,
		"emailSent": data.EmailSent,
		"errorMsg":  data.ErrorMsg,
	})
}

func RenderResetPassword(ctx *fiber.Ctx, data ResetPasswordPageData) error {
	return ctx.Render("reset-password", fiber.Map{
		"siteName": siteName(),
		"token":    data.Token,
		"errorMsg": data.ErrorMsg,
	})
}

func RenderPasswordUpdated(ctx *fiber.Ctx) error {
	return ctx.Render("password-updated", fiber.Map{
		"siteName": siteName(),
	})
}

func RenderChangePassword(ctx *fiber.Ctx, data ChangePasswordPageData) error {
	return ctx.Render("change-password", fiber.Map{
		"siteName": siteName(),
		"errorMsg": data.ErrorMsg,
		"forced":   data.Forced,
	})
}

func RenderNotFoundError(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusNotFound).Render("not-found", fiber.Map{
		"siteName": siteName(),
	})
}

func RenderInternalError(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusInternalServerError).Render("internal-error", fiber.Map{
		"siteName": siteName(),
	})
}
