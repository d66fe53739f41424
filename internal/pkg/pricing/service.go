package pricing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/siteweaverhq/siteweaver/app/models"
	"github.com/siteweaverhq/siteweaver/app/repository"
)

// Backend is the pricing/checkout contract the checkout flow consumes. It
// must be idempotent for identical inputs: repeating a call with the same
// canonical key returns the same client secret instead of minting a new
// provider intent.
type Backend interface {
	CreateOrRefreshCheckout(ctx context.Context, sessionID string, submissionID uint, languages []string, discountCode string) (*CheckoutResult, error)
}

// IntentClient is the narrow slice of the payment provider the pricing
// service needs for intent management.
type IntentClient interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string, submissionID uint) (id, clientSecret string, err error)
	UpdatePaymentIntentAmount(ctx context.Context, id string, amount int64) (clientSecret string, err error)
	CreateSetupIntent(ctx context.Context, submissionID uint) (id, clientSecret string, err error)
}

// Service implements Backend against the local catalog, the discount table
// and the provider intent client.
type Service struct {
	catalog   Catalog
	discounts repository.DiscountRepository
	attempts  repository.CheckoutAttemptRepository
	intents   IntentClient
}

// NewService creates a pricing service from injected collaborators.
func NewService(catalog Catalog, discounts repository.DiscountRepository, attempts repository.CheckoutAttemptRepository, intents IntentClient) *Service {
	return &Service{
		catalog:   catalog,
		discounts: discounts,
		attempts:  attempts,
		intents:   intents,
	}
}

// CreateOrRefreshCheckout prices the inputs and ensures a matching provider
// intent exists. Three outcomes: a payment intent for a positive amount due,
// a setup intent when nothing is due today but a payment method must be
// captured for recurring billing, or no intent at all.
func (s *Service) CreateOrRefreshCheckout(ctx context.Context, sessionID string, submissionID uint, languages []string, discountCode string) (*CheckoutResult, error) {
	if submissionID == 0 {
		return nil, errors.New("submission_id is required")
	}

	code := strings.TrimSpace(discountCode)
	var discount *models.DiscountCode
	if code != "" {
		d, err := s.discounts.GetByCode(code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidDiscountCode
			}
			return nil, err
		}
		if !d.IsRedeemable(time.Now()) {
			return nil, ErrInvalidDiscountCode
		}
		discount = d
	}

	summary := s.catalog.BuildSummary(languages, discount)
	key := BuildRequestKey(languages, code)

	switch {
	case summary.Total.IsPositive():
		secret, err := s.ensurePaymentIntent(ctx, submissionID, key, summary)
		if err != nil {
			return nil, err
		}
		return &CheckoutResult{ClientSecret: secret, PaymentRequired: true, Summary: summary}, nil

	case summary.RecurringAmount.IsPositive():
		// Zero due today, but recurring billing needs a captured method.
		secret, err := s.ensureSetupIntent(ctx, submissionID, key, summary)
		if err != nil {
			return nil, err
		}
		return &CheckoutResult{ClientSecret: secret, PaymentRequired: true, Summary: summary}, nil

	default:
		return &CheckoutResult{PaymentRequired: false, Summary: summary}, nil
	}
}

func (s *Service) ensurePaymentIntent(ctx context.Context, submissionID uint, key string, summary Summary) (string, error) {
	amount := toMinorUnits(summary.Total)

	attempt, err := s.attempts.GetBySubmissionAndKey(submissionID, key)
	if err == nil && attempt.PaymentIntentID != "" {
		if toMinorUnits(attempt.AmountTotal) == amount {
			return attempt.ClientSecret, nil
		}
		secret, err := s.intents.UpdatePaymentIntentAmount(ctx, attempt.PaymentIntentID, amount)
		if err != nil {
			return "", err
		}
		attempt.ClientSecret = secret
		attempt.AmountTotal = summary.Total
		if err := s.attempts.Upsert(attempt); err != nil {
			return "", err
		}
		return secret, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	id, secret, err := s.intents.CreatePaymentIntent(ctx, amount, summary.Currency, submissionID)
	if err != nil {
		return "", err
	}
	if err := s.attempts.Upsert(&models.CheckoutAttempt{
		SubmissionID:    submissionID,
		RequestKey:      key,
		PaymentIntentID: id,
		ClientSecret:    secret,
		AmountTotal:     summary.Total,
		Currency:        summary.Currency,
		Status:          models.CheckoutAttemptStatusOpen,
	}); err != nil {
		return "", err
	}
	return secret, nil
}

func (s *Service) ensureSetupIntent(ctx context.Context, submissionID uint, key string, summary Summary) (string, error) {
	attempt, err := s.attempts.GetBySubmissionAndKey(submissionID, key)
	if err == nil && attempt.SetupIntentID != "" {
		return attempt.ClientSecret, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	id, secret, err := s.intents.CreateSetupIntent(ctx, submissionID)
	if err != nil {
		return "", err
	}
	if err := s.attempts.Upsert(&models.CheckoutAttempt{
		SubmissionID:  submissionID,
		RequestKey:    key,
		SetupIntentID: id,
		ClientSecret:  secret,
		AmountTotal:   summary.Total,
		Currency:      summary.Currency,
		Status:        models.CheckoutAttemptStatusOpen,
	}); err != nil {
		return "", err
	}
	return secret, nil
}

// RedeemDiscount bumps the redemption counter after a successful checkout.
// Best effort; a miscount never blocks completion.
func (s *Service) RedeemDiscount(ctx context.Context, code string) {
	_ = ctx
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return
	}
	d, err := s.discounts.GetByCode(trimmed)
	if err != nil {
		log.Warnf("[Pricing] redeem lookup failed for code %s: %v", trimmed, err)
		return
	}
	if err := s.discounts.IncrementRedemption(d.ID); err != nil {
		log.Warnf("[Pricing] redemption increment failed for code %s: %v", trimmed, err)
	}
}
