package sessions

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const flashKey = "flash"

const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Level   string
	Message string
}

// AddFlash queues a message for the next page render.
func AddFlash(ctx *fiber.Ctx, level string, message string) {
	sess := ctx.Locals(injectSessionKey).(*session.Session)
	queued, _ := sess.Get(flashKey).([]Flash)
	sess.Set(flashKey, append(queued, Flash{Level: level, Message: message}))
}

// PopFlashes returns the queued messages and clears them.
func PopFlashes(ctx *fiber.Ctx) []Flash {
	sess := ctx.Locals(injectSessionKey).(*session.Session)
	queued, _ := sess.Get(flashKey).([]Flash)
	if len(queued) > 0 {
		sess.Delete(flashKey)
	}
	return queued
}
