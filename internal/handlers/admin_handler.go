package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/alshahriar/gymfit/internal/members"
	"github.com/alshahriar/gymfit/internal/middlewares/sessions"
	"github.com/alshahriar/gymfit/internal/render"
)

// AdminHandler handles the admin-only registration review and member
// management pages. Routes using it sit behind the RequireAdmin guard;
// the service re-checks the actor role anyway.
type AdminHandler struct {
	memberService *members.Service
}

func NewAdminHandler(memberService *members.Service) *AdminHandler {
	return &AdminHandler{memberService: memberService}
}

func actorFromSession(ctx *fiber.Ctx) members.Actor {
	session := sessions.Get(ctx)
	return members.Actor{Username: session.Username, Role: session.Role}
}

func (h *AdminHandler) GetPendingRegistrations(ctx *fiber.Ctx) error {
	regs, err := h.memberService.ListPendingRegistrations(ctx.Context())
	if err != nil {
		slog.Error("Failed to list pending registrations", "error", err)
		return render.RenderInternalError(ctx)
	}
	return render.RenderPendingRegistrations(ctx, render.PendingRegistrationsPageData{
		DisplayName:   sessions.Get(ctx).DisplayName,
		Registrations: regs,
		Flashes:       sessions.PopFlashes(ctx),
	})
}

func (h *AdminHandler) GetApproveRegistration(ctx *fiber.Ctx) error {
	code := ctx.Params("id")
	member, err := h.memberService.Approve(ctx.Context(), code, actorFromSession(ctx))
	switch {
	case errors.Is(err, members.ErrRegistrationNotFound):
		sessions.AddFlash(ctx, sessions.FlashError, "Registration not found!")
	case errors.Is(err, members.ErrDuplicateEmail):
		sessions.AddFlash(ctx, sessions.FlashError, "A member with this email already exists!")
	case err != nil:
		slog.Error("Failed to approve registration", "registration", code, "error", err)
		sessions.AddFlash(ctx, sessions.FlashError, "Approval failed, please try again.")
	default:
		sessions.AddFlash(ctx, sessions.FlashSuccess,
			fmt.Sprintf("Registration approved! Member ID: %s. Login credentials sent to %s", member.Code(), member.Email))
	}
	return ctx.Redirect("/pending-registrations")
}

func (h *AdminHandler) GetRejectRegistration(ctx *fiber.Ctx) error {
	code := ctx.Params("id")
	err := h.memberService.Reject(ctx.Context(), code, actorFromSession(ctx))
	switch {
	case errors.Is(err, members.ErrRegistrationNotFound):
		sessions.AddFlash(ctx, sessions.FlashError, "Registration not found!")
	case err != nil:
		slog.Error("Failed to reject registration", "registration", code, "error", err)
		sessions.AddFlash(ctx, sessions.FlashError, "Rejection failed, please try again.")
	default:
		sessions.AddFlash(ctx, sessions.FlashWarning, fmt.Sprintf("Registration %s rejected", code))
	}
	return ctx.Redirect("/pending-registrations")
}

func (h *AdminHandler) GetEditMember(ctx *fiber.Ctx) error {
	member, err := h.memberService.GetMember(ctx.Context(), ctx.Params("id"))
	if errors.Is(err, members.ErrMemberNotFound) {
		sessions.AddFlash(ctx, sessions.FlashError, "Member not found!")
		return ctx.Redirect("/dashboard")
	}
	if err != nil {
		slog.Error("Failed to load member", "member", ctx.Params("id"), "error", err)
		return render.RenderInternalError(ctx)
	}
	return render.RenderEditMember(ctx, render.EditMemberPageData{Member: member})
}

func (h *AdminHandler) PostEditMember(ctx *fiber.Ctx) error {
	code := ctx.Params("id")
	upd := members.MemberUpdate{
		FirstName: ctx.FormValue("firstName"),
		LastName:  ctx.FormValue("lastName"),
		Email:     ctx.FormValue("email"),
		Phone:     ctx.FormValue("phone"),
		Plan:      ctx.FormValue("membership"),
		Status:    ctx.FormValue("status"),
	}

	err := h.memberService.UpdateMember(ctx.Context(), code, upd, actorFromSession(ctx))
	switch {
	case errors.Is(err, members.ErrMemberNotFound):
		sessions.AddFlash(ctx, sessions.FlashError, "Member not found!")
		return ctx.Redirect("/dashboard")
	case errors.Is(err, members.ErrDuplicateEmail):
		member, getErr := h.memberService.GetMember(ctx.Context(), code)
		if getErr != nil {
			return render.RenderInternalError(ctx)
		}
		return render.RenderEditMember(ctx, render.EditMemberPageData{
			Member:   member,
			ErrorMsg: MsgEmailRegistered,
		})
	case err != nil:
		slog.Error("Failed to update member", "member", code, "error", err)
		return render.RenderInternalError(ctx)
	}

	sessions.AddFlash(ctx, sessions.FlashSuccess, fmt.Sprintf("Member %s updated successfully!", code))
	return ctx.Redirect("/dashboard")
}

func (h *AdminHandler) GetDeleteMember(ctx *fiber.Ctx) error {
	code := ctx.Params("id")
	err := h.memberService.DeleteMember(ctx.Context(), code, actorFromSession(ctx))
	switch {
	case errors.Is(err, members.ErrMemberNotFound):
		sessions.AddFlash(ctx, sessions.FlashError, "Member not found!")
	case err != nil:
		slog.Error("Failed to delete member", "member", code, "error", err)
		sessions.AddFlash(ctx, sessions.FlashError, "Delete failed, please try again.")
	default:
		sessions.AddFlash(ctx, sessions.FlashSuccess, fmt.Sprintf("Member %s deleted successfully!", code))
	}
	return ctx.Redirect("/dashboard")
}
