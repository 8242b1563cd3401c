package render

import (
	"github.com/alshahriar/gymfit/internal/middlewares/sessions"
	"github.com/alshahriar/gymfit/model"
)

type LoginPageData struct {
	Username string
	ErrorMsg string
	Flashes  []sessions.Flash
}

type RegisterPageData struct {
	Form       map[string]string
	FormErrors map[string]string
	ErrorMsg   string
}

type DashboardPageData struct {
	DisplayName  string
	Role         string
	PendingCount int64
	Members      []model.Member
	Flashes      []sessions.Flash
}

type MembersPageData struct {
	DisplayName string
	Role        string
	Members     []model.Member
	Flashes     []sessions.Flash
}

type PendingRegistrationsPageData struct {
	DisplayName   string
	Registrations []model.Registration
	Flashes       []sessions.Flash
}

type EditMemberPageData struct {
	Member   *model.Member
	ErrorMsg string
}

type ForgotPasswordPageData struct {
	Email     string
	EmailSent bool
	ErrorMsg  string
}

type ResetPasswordPageData struct {
	Token    string
	ErrorMsg string
}

type ChangePasswordPageData struct {
	ErrorMsg string
	Forced   bool
}
