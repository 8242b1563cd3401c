package sessions

import (
	"crypto/rand"
	"encoding/gob"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/alshahriar/gymfit/model"
)

const (
	injectSessionKey = "session"
	sessionDataKey   = "data"
)

// SessionData is the per-login state carried in the session cookie store:
// who is logged in, their role and display name.
type SessionData struct {
	IP          string
	UserID      uint
	Username    string
	Role        string
	DisplayName string
	MustChange  bool // account carries a one-time credential
	LoginTime   time.Time
	LastSeen    time.Time
}

func (s *SessionData) IsLoggedIn() bool {
	return s.UserID != 0
}

func (s *SessionData) IsAdmin() bool {
	return s.UserID != 0 && s.Role == model.RoleAdmin
}

func init() {
	gob.Register(SessionData{})
	gob.Register([]Flash{})
}

func GenerateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Could not generate session id", "error", err)
		return ""
	}
	return hex.EncodeToString(b)
}

func Get(ctx *fiber.Ctx) SessionData {
	sess := ctx.Locals(injectSessionKey).(*session.Session)
	data, _ := sess.Get(sessionDataKey).(SessionData)
	return data
}

func Set(ctx *fiber.Ctx, data SessionData) {
	sess := ctx.Locals(injectSessionKey).(*session.Session)
	sess.Set(sessionDataKey, data)
}

func Destroy(ctx *fiber.Ctx) error {
	sess := ctx.Locals(injectSessionKey).(*session.Session)
	return sess.Destroy()
}

func SessionMiddleware(store *session.Store) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sess, err := store.Get(ctx)
		if err != nil {
			return err
		}

		ctx.Locals(injectSessionKey, sess)
		if err := ctx.Next(); err != nil {
			return err
		}

		if data, ok := sess.Get(sessionDataKey).(SessionData); ok {
			data.LastSeen = time.Now()
			sess.Set(sessionDataKey, data)
		}
		return sess.Save()
	}
}
