package controllers

import (
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/siteweaverhq/siteweaver/app/models"
	"github.com/siteweaverhq/siteweaver/app/repository"
	usersession "github.com/siteweaverhq/siteweaver/internal/pkg/session"
	"github.com/siteweaverhq/siteweaver/internal/pkg/sessioncontext"
	"github.com/siteweaverhq/siteweaver/internal/pkg/wizard"
)

// saveDebounce is how long step saves are coalesced before hitting the
// database. A burst of keystroke-driven saves becomes one write.
const saveDebounce = 750 * time.Millisecond

var (
	saverMu  sync.Mutex
	saverMap = make(map[uint]*wizard.Saver)
)

// saverFor returns the debounced persister for one submission.
func saverFor(submissionID uint) *wizard.Saver {
	saverMu.Lock()
	defer saverMu.Unlock()

	if s, ok := saverMap[submissionID]; ok {
		return s
	}
	s := wizard.NewSaver(saveDebounce, func(raw string) error {
		repos := repository.GetGlobalFactory().GetRepositories()
		return repos.Submission.SaveFormData(submissionID, raw)
	})
	saverMap[submissionID] = s
	return s
}

// flushSaver forces any pending debounced save to disk.
func flushSaver(submissionID uint) {
	saverMu.Lock()
	s, ok := saverMap[submissionID]
	saverMu.Unlock()
	if ok {
		if err := s.Flush(); err != nil {
			log.Warnf("[Onboarding] flush form data for submission %d: %v", submissionID, err)
		}
	}
}

// HandleCreateSession starts a new onboarding session and returns the resume
// token the client stores locally.
func HandleCreateSession(c *fiber.Ctx) error {
	repos := repository.GetGlobalFactory().GetRepositories()

	session := &models.OnboardingSession{
		Status:      models.SessionStatusActive,
		CurrentStep: int(wizard.StepBusinessProfile),
	}
	if err := repos.Session.Create(session); err != nil {
		log.Errorf("[Onboarding] create session: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not create session")
	}

	if _, err := repos.Submission.GetOrCreateBySessionID(session.ID); err != nil {
		log.Errorf("[Onboarding] create submission for session %d: %v", session.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not create session")
	}

	// Mirror the token into the cookie session for browser clients. API
	// clients keep using the X-Session-Token header.
	if err := usersession.SetSessionValue(c, usersession.ResumeTokenKey, session.ResumeToken); err != nil {
		log.Warnf("[Onboarding] could not persist resume token cookie: %v", err)
	}

	log.Infof("[Onboarding] Session created: %s", session.UUID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session_uuid": session.UUID,
		"resume_token": session.ResumeToken,
		"current_step": session.CurrentStep,
		"step_count":   wizard.StepCount,
	})
}

// HandleGetSession returns the session, its form data and step progress so a
// returning visitor can resume mid-wizard.
func HandleGetSession(c *fiber.Ctx) error {
	sctx := sessioncontext.GetSessionContext(c)
	repos := repository.GetGlobalFactory().GetRepositories()

	session, err := repos.Session.GetByUUID(sctx.SessionUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Session not found")
		}
		log.Errorf("[Onboarding] load session %s: %v", sctx.SessionUUID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load session")
	}

	flushSaver(sctx.SubmissionID)
	sub, err := repos.Submission.GetByID(sctx.SubmissionID)
	if err != nil {
		log.Errorf("[Onboarding] load submission %d: %v", sctx.SubmissionID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load session")
	}

	formData, err := wizard.ParseFormData(sub.FormDataJSON)
	if err != nil {
		log.Errorf("[Onboarding] corrupt form data on submission %d: %v", sub.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not load form data")
	}

	completed := make([]int, 0, wizard.StepCount)
	for s := wizard.StepBusinessProfile; s.Valid(); s++ {
		if sub.StepCompleted(int(s)) {
			completed = append(completed, int(s))
		}
	}

	return c.JSON(fiber.Map{
		"session_uuid":    session.UUID,
		"status":          session.Status,
		"current_step":    session.CurrentStep,
		"step_count":      wizard.StepCount,
		"completed_steps": completed,
		"form_data":       formData,
	})
}

// HandleSaveStep stores the form data for one step. The full aggregate is
// sent each time; only the target step's section is validated. Valid saves
// mark the step complete and sync the checkout-relevant columns.
func HandleSaveStep(c *fiber.Ctx) error {
	step, err := parseStepParam(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid step")
	}
	if step == wizard.StepCheckout {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "The checkout step has no form data")
	}

	var formData wizard.FormData
	if err := c.BodyParser(&formData); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid form data")
	}

	if err := formData.ValidateStep(step); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "validation_failed",
			"step":    step.String(),
			"message": err.Error(),
		})
	}

	sctx := sessioncontext.GetSessionContext(c)
	repos := repository.GetGlobalFactory().GetRepositories()

	sub, err := repos.Submission.GetByID(sctx.SubmissionID)
	if err != nil {
		log.Errorf("[Onboarding] load submission %d: %v", sctx.SubmissionID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not save step")
	}

	// Columns the checkout core reads directly stay in sync with the JSON
	// aggregate.
	if err := sub.SetLanguages(formData.Languages.Additional); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid languages")
	}
	sub.DiscountCode = formData.Review.DiscountCode
	sub.AcceptTerms = formData.Review.AcceptTerms
	sub.MarkStepCompleted(int(step))
	if err := repos.Submission.Update(sub); err != nil {
		log.Errorf("[Onboarding] update submission %d: %v", sub.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not save step")
	}

	raw, err := formData.Encode()
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid form data")
	}
	saverFor(sub.ID).Save(raw)

	return c.JSON(fiber.Map{
		"step":      step.String(),
		"completed": true,
	})
}

// HandleAdvanceStep moves the session pointer to the target step. Forward
// moves require the preceding required steps to be complete.
func HandleAdvanceStep(c *fiber.Ctx) error {
	target, err := parseStepParam(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid step")
	}

	sctx := sessioncontext.GetSessionContext(c)
	repos := repository.GetGlobalFactory().GetRepositories()

	session, err := repos.Session.GetByUUID(sctx.SessionUUID)
	if err != nil {
		log.Errorf("[Onboarding] load session %s: %v", sctx.SessionUUID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not advance")
	}

	flushSaver(sctx.SubmissionID)
	sub, err := repos.Submission.GetByID(sctx.SubmissionID)
	if err != nil {
		log.Errorf("[Onboarding] load submission %d: %v", sctx.SubmissionID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not advance")
	}

	ok := wizard.CanAdvance(target, wizard.Step(session.CurrentStep), func(s wizard.Step) bool {
		return sub.StepCompleted(int(s))
	})
	if !ok {
		return jsonError(c, fiber.StatusConflict, "step_locked", "Complete the earlier steps first")
	}

	session.CurrentStep = int(target)
	if err := repos.Session.Update(session); err != nil {
		log.Errorf("[Onboarding] update session %s: %v", session.UUID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not advance")
	}

	return c.JSON(fiber.Map{
		"current_step": session.CurrentStep,
		"step":         target.String(),
	})
}
