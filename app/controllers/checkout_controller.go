package controllers

import (
	"context"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/siteweaverhq/siteweaver/app/repository"
	"github.com/siteweaverhq/siteweaver/internal/pkg/checkout"
	"github.com/siteweaverhq/siteweaver/internal/pkg/env"
	"github.com/siteweaverhq/siteweaver/internal/pkg/payment"
	"github.com/siteweaverhq/siteweaver/internal/pkg/pricing"
	"github.com/siteweaverhq/siteweaver/internal/pkg/sessioncontext"
	"github.com/siteweaverhq/siteweaver/internal/pkg/wizard"
)

// CheckoutDeps are the collaborators the checkout endpoints wire into each
// per-submission flow. Installed once at startup.
type CheckoutDeps struct {
	Backend  pricing.Backend
	Provider payment.Provider
	Observer checkout.Observer

	// Redeem is called with the active discount code after a completed
	// purchase. Best effort.
	Redeem func(ctx context.Context, code string)
}

var (
	checkoutDeps CheckoutDeps

	flowMu  sync.Mutex
	flowMap = make(map[uint]*checkout.Flow)
)

// InitializeCheckoutController installs the checkout collaborators.
func InitializeCheckoutController(deps CheckoutDeps) {
	checkoutDeps = deps
}

// flowFor returns the checkout flow for one submission, creating it on first
// use. The flow holds the request-key cache and the confirmation state
// machine; everything it needs to rebuild after a restart lives in the
// database.
func flowFor(sctx sessioncontext.SessionContext) *checkout.Flow {
	flowMu.Lock()
	defer flowMu.Unlock()

	if f, ok := flowMap[sctx.SubmissionID]; ok {
		return f
	}
	f := checkout.NewFlow(checkout.Config{
		SessionID:    sctx.SessionUUID,
		SubmissionID: sctx.SubmissionID,
		Backend:      checkoutDeps.Backend,
		Provider:     checkoutDeps.Provider,
		Observer:     checkoutDeps.Observer,
		OnComplete:   func() { completePurchase(sctx) },
	})
	flowMap[sctx.SubmissionID] = f
	return f
}

// completePurchase marks the session finished and redeems the discount. Runs
// exactly once per flow, from the flow's completion hook.
func completePurchase(sctx sessioncontext.SessionContext) {
	repos := repository.GetGlobalFactory().GetRepositories()

	if err := repos.Session.MarkCompleted(sctx.SessionID); err != nil {
		log.Errorf("[Checkout] mark session %s completed: %v", sctx.SessionUUID, err)
	}

	sub, err := repos.Submission.GetByID(sctx.SubmissionID)
	if err != nil {
		log.Errorf("[Checkout] load submission %d after purchase: %v", sctx.SubmissionID, err)
		return
	}
	if sub.DiscountCode != "" && checkoutDeps.Redeem != nil {
		checkoutDeps.Redeem(context.Background(), sub.DiscountCode)
	}

	log.Infof("[Checkout] Purchase completed for session %s", sctx.SessionUUID)
}

type refreshRequest struct {
	Languages    []string `json:"languages"`
	DiscountCode string   `json:"discount_code"`
}

// HandleRefreshPricing reprices the checkout for the given inputs and returns
// the summary plus the client secret when a payment is required. Identical
// inputs are served from the flow's request cache without a provider call.
func HandleRefreshPricing(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	sctx := sessioncontext.GetSessionContext(c)
	flow := flowFor(sctx)

	result, err := flow.Refresh(c.UserContext(), req.Languages, req.DiscountCode, false)
	if err != nil {
		switch {
		case checkout.IsSuperseded(err):
			// A newer refresh took over; this response carries no state.
			return c.SendStatus(fiber.StatusNoContent)
		case checkout.IsDiscountRejection(err):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":   "invalid_discount_code",
				"field":   "discount_code",
				"message": "This code is not valid.",
			})
		default:
			log.Errorf("[Checkout] refresh failed for submission %d: %v", sctx.SubmissionID, err)
			return jsonError(c, fiber.StatusBadGateway, "pricing_unavailable", "Pricing is temporarily unavailable. Please try again.")
		}
	}

	return c.JSON(fiber.Map{
		"request_key":      result.Key,
		"summary":          result.Summary,
		"payment_required": result.Intent.PaymentRequired,
		"has_zero_payment": result.Intent.HasZeroPayment,
		"client_secret":    result.Intent.ClientSecret,
	})
}

type verifyDiscountRequest struct {
	Code string `json:"code"`
}

// HandleVerifyDiscount checks a discount code explicitly. Rejections come
// back as a field-level result, not an error; only infrastructure failures
// produce an error status.
func HandleVerifyDiscount(c *fiber.Ctx) error {
	var req verifyDiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	sctx := sessioncontext.GetSessionContext(c)
	flow := flowFor(sctx)

	validation, err := flow.VerifyDiscount(c.UserContext(), req.Code)
	if err != nil {
		switch {
		case checkout.IsSuperseded(err):
			return c.SendStatus(fiber.StatusNoContent)
		case err == checkout.ErrEmptyDiscountCode:
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":   "empty_discount_code",
				"field":   "discount_code",
				"message": "Enter a code first.",
			})
		default:
			log.Errorf("[Checkout] discount verify failed for submission %d: %v", sctx.SubmissionID, err)
			return jsonError(c, fiber.StatusBadGateway, "pricing_unavailable", "Verification is temporarily unavailable. Please try again.")
		}
	}

	return c.JSON(validation)
}

// HandleRemoveDiscount drops the active discount and returns repriced totals.
func HandleRemoveDiscount(c *fiber.Ctx) error {
	sctx := sessioncontext.GetSessionContext(c)
	flow := flowFor(sctx)

	result, err := flow.RemoveDiscount(c.UserContext())
	if err != nil {
		if checkout.IsSuperseded(err) {
			return c.SendStatus(fiber.StatusNoContent)
		}
		log.Errorf("[Checkout] remove discount failed for submission %d: %v", sctx.SubmissionID, err)
		return jsonError(c, fiber.StatusBadGateway, "pricing_unavailable", "Pricing is temporarily unavailable. Please try again.")
	}

	return c.JSON(fiber.Map{
		"request_key":      result.Key,
		"summary":          result.Summary,
		"payment_required": result.Intent.PaymentRequired,
		"has_zero_payment": result.Intent.HasZeroPayment,
		"client_secret":    result.Intent.ClientSecret,
	})
}

type confirmRequest struct {
	AcceptTerms     bool   `json:"accept_terms"`
	PaymentMethodID string `json:"payment_method_id"`
}

// HandleConfirmCheckout runs the final submit: terms gate, double-submit
// gate, then the payment confirmation state machine. Billing details are
// prefilled from the contact step.
func HandleConfirmCheckout(c *fiber.Ctx) error {
	var req confirmRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	sctx := sessioncontext.GetSessionContext(c)
	flow := flowFor(sctx)

	outcome, err := flow.Submit(c.UserContext(), checkout.SubmitParams{
		AcceptTerms:     req.AcceptTerms,
		PaymentMethodID: req.PaymentMethodID,
		Billing:         billingFromSubmission(sctx.SubmissionID),
	})
	if err != nil {
		switch err {
		case checkout.ErrTermsNotAccepted:
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":   "terms_not_accepted",
				"field":   "accept_terms",
				"message": "Please accept the terms and conditions.",
			})
		case checkout.ErrSubmitInFlight:
			return jsonError(c, fiber.StatusConflict, "submit_in_flight", "Your order is already being processed.")
		case checkout.ErrNoCheckout:
			return jsonError(c, fiber.StatusConflict, "no_checkout", "Refresh the pricing before confirming.")
		default:
			log.Errorf("[Checkout] confirm failed for submission %d: %v", sctx.SubmissionID, err)
			return jsonError(c, fiber.StatusBadGateway, "payment_unavailable", "Payment could not be processed. Please try again.")
		}
	}

	switch outcome.Status {
	case checkout.OutcomeCompleted:
		return c.JSON(fiber.Map{
			"status":       "completed",
			"redirect_url": env.GetEnv("PUBLIC_DOMAIN", "") + "/onboarding/complete",
		})
	case checkout.OutcomeRequiresAction:
		return c.JSON(fiber.Map{"status": "requires_action"})
	case checkout.OutcomePending:
		return c.JSON(fiber.Map{"status": "pending", "message": outcome.Message})
	default:
		return c.JSON(fiber.Map{"status": "failed", "message": outcome.Message})
	}
}

// billingFromSubmission builds the billing prefill from the contact step.
// Missing data degrades to empty fields; the provider tolerates that.
func billingFromSubmission(submissionID uint) payment.BillingDetails {
	repos := repository.GetGlobalFactory().GetRepositories()
	sub, err := repos.Submission.GetByID(submissionID)
	if err != nil {
		log.Warnf("[Checkout] billing prefill unavailable for submission %d: %v", submissionID, err)
		return payment.BillingDetails{}
	}
	data, err := wizard.ParseFormData(sub.FormDataJSON)
	if err != nil {
		return payment.BillingDetails{}
	}
	return payment.BillingDetails{
		Name:    data.BusinessProfile.CompanyName,
		Email:   data.ContactDetails.Email,
		Phone:   data.ContactDetails.Phone,
		Country: data.ContactDetails.Country,
		City:    data.ContactDetails.City,
		Line1:   data.ContactDetails.AddressLine1,
		Postal:  data.ContactDetails.PostalCode,
	}
}
