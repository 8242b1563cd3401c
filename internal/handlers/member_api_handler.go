package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/alshahriar/gymfit/internal/members"
	"github.com/alshahriar/gymfit/internal/middlewares/sessions"
	"github.com/alshahriar/gymfit/model"
)

// memberDTO is the JSON shape of GET /api/member/:id.
type memberDTO struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Membership string `json:"membership"`
	Amount     int    `json:"amount"`
	JoinDate   string `json:"join_date"`
	ExpiryDate string `json:"expiry_date"`
	Status     string `json:"status"`
}

func newMemberDTO(m *model.Member) memberDTO {
	return memberDTO{
		ID:         m.Code(),
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Email:      m.Email,
		Phone:      m.Phone,
		Membership: m.Plan,
		Amount:     m.Amount,
		JoinDate:   m.JoinDate.Format("2006-01-02"),
		ExpiryDate: m.ExpiryDate.Format("2006-01-02"),
		Status:     m.Status,
	}
}

// MemberAPIHandler serves the member detail JSON used by the dashboard.
type MemberAPIHandler struct {
	memberService *members.Service
}

func NewMemberAPIHandler(memberService *members.Service) *MemberAPIHandler {
	return &MemberAPIHandler{memberService: memberService}
}

func (h *MemberAPIHandler) GetMember(ctx *fiber.Ctx) error {
	if sess := sessions.Get(ctx); !sess.IsLoggedIn() {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	member, err := h.memberService.GetMember(ctx.Context(), ctx.Params("id"))
	if errors.Is(err, members.ErrMemberNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Member not found"})
	}
	if err != nil {
		slog.Error("Failed to load member", "member", ctx.Params("id"), "error", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal error"})
	}
	return ctx.JSON(newMemberDTO(member))
}
