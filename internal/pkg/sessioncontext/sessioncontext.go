package sessioncontext

import (
	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the session token middleware.
const (
	KeySessionContext = "SESSION_CONTEXT"
	KeySessionID      = "SESSION_ID"
	KeySessionUUID    = "SESSION_UUID"
	KeySubmissionID   = "SUBMISSION_ID"
)

// SessionContext identifies the onboarding session a request acts on.
type SessionContext struct {
	SessionID    uint
	SessionUUID  string
	SubmissionID uint
	IsResolved   bool
}

// GetSessionContext reads the session context from request locals.
func GetSessionContext(c *fiber.Ctx) SessionContext {
	if ctx, ok := c.Locals(KeySessionContext).(SessionContext); ok {
		return ctx
	}
	return SessionContext{}
}

// SetSessionContext stores the session context in request locals.
func SetSessionContext(c *fiber.Ctx, ctx SessionContext) {
	c.Locals(KeySessionContext, ctx)
	c.Locals(KeySessionID, ctx.SessionID)
	c.Locals(KeySessionUUID, ctx.SessionUUID)
	c.Locals(KeySubmissionID, ctx.SubmissionID)
}
