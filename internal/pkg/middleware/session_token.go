package middleware

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/siteweaverhq/siteweaver/app/models"
	"github.com/siteweaverhq/siteweaver/app/repository"
	"github.com/siteweaverhq/siteweaver/internal/pkg/database"
	usersession "github.com/siteweaverhq/siteweaver/internal/pkg/session"
	"github.com/siteweaverhq/siteweaver/internal/pkg/sessioncontext"
)

// SessionTokenMiddleware resolves the onboarding session from the resume
// token header and attaches it to the request context. Requests without a
// valid token are rejected before any handler runs.
func SessionTokenMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractTokenFromHeader(c)
		if token == "" {
			// Browser clients carry the token in the cookie session instead.
			token = usersession.GetSessionValue(c, usersession.ResumeTokenKey)
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing session token"})
		}

		db := database.GetDB()
		if db == nil {
			log.Print("session token middleware: database unavailable")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Database unavailable"})
		}

		repos := repository.GetGlobalFactory().GetRepositories()
		session, err := repos.Session.GetByResumeToken(token)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid session token"})
			}
			log.Printf("session token lookup failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Session lookup failed"})
		}

		if session.Status == models.SessionStatusAbandoned {
			return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": "gone", "message": "Session expired"})
		}

		sub, err := repos.Submission.GetOrCreateBySessionID(session.ID)
		if err != nil {
			log.Printf("submission resolve failed for session %d: %v", session.ID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Submission lookup failed"})
		}

		sessioncontext.SetSessionContext(c, sessioncontext.SessionContext{
			SessionID:    session.ID,
			SessionUUID:  session.UUID,
			SubmissionID: sub.ID,
			IsResolved:   true,
		})

		return c.Next()
	}
}

func extractTokenFromHeader(c *fiber.Ctx) string {
	token := strings.TrimSpace(c.Get("X-Session-Token"))
	if token != "" {
		return token
	}
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
