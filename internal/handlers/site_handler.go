package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/alshahriar/gymfit/internal/members"
	"github.com/alshahriar/gymfit/internal/middlewares/sessions"
	"github.com/alshahriar/gymfit/internal/render"
)

// SiteHandler serves the landing page and the logged-in browse pages.
type SiteHandler struct {
	memberService *members.Service
}

func NewSiteHandler(memberService *members.Service) *SiteHandler {
	return &SiteHandler{memberService: memberService}
}

func (h *SiteHandler) GetIndex(ctx *fiber.Ctx) error {
	return render.RenderIndex(ctx)
}

func (h *SiteHandler) GetDashboard(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)

	pendingCount, err := h.memberService.PendingCount(ctx.Context())
	if err != nil {
		slog.Error("Failed to count pending registrations", "error", err)
		return render.RenderInternalError(ctx)
	}
	memberList, err := h.memberService.ListMembers(ctx.Context())
	if err != nil {
		slog.Error("Failed to list members", "error", err)
		return render.RenderInternalError(ctx)
	}

	return render.RenderDashboard(ctx, render.DashboardPageData{
		DisplayName:  session.DisplayName,
		Role:         session.Role,
		PendingCount: pendingCount,
		Members:      memberList,
		Flashes:      sessions.PopFlashes(ctx),
	})
}

func (h *SiteHandler) GetMembers(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	memberList, err := h.memberService.ListMembers(ctx.Context())
	if err != nil {
		slog.Error("Failed to list members", "error", err)
		return render.RenderInternalError(ctx)
	}
	return render.RenderMembers(ctx, render.MembersPageData{
		DisplayName: session.DisplayName,
		Role:        session.Role,
		Members:     memberList,
		Flashes:     sessions.PopFlashes(ctx),
	})
}

func (h *SiteHandler) GetTrainers(ctx *fiber.Ctx) error {
	return render.RenderTrainers(ctx)
}

func (h *SiteHandler) GetClasses(ctx *fiber.Ctx) error {
	return render.RenderClasses(ctx)
}
