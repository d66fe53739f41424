package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/siteweaverhq/siteweaver/internal/pkg/env"
)

// StripeProvider implements Provider against the Stripe API.
type StripeProvider struct {
	api *client.API
}

// NewStripeProviderFromEnv builds a Stripe provider from STRIPE_SECRET_KEY.
func NewStripeProviderFromEnv() *StripeProvider {
	api := &client.API{}
	api.Init(env.GetEnv("STRIPE_SECRET_KEY", ""), nil)
	return &StripeProvider{api: api}
}

// NewStripeProvider wraps an existing Stripe API handle.
func NewStripeProvider(api *client.API) *StripeProvider {
	return &StripeProvider{api: api}
}

func (p *StripeProvider) ConfirmPayment(ctx context.Context, clientSecret, paymentMethodID string, billing BillingDetails) (*IntentResult, error) {
	id, err := intentIDFromSecret(clientSecret)
	if err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(paymentMethodID),
	}
	params.Context = ctx
	if billing.Email != "" {
		params.ReceiptEmail = stripe.String(billing.Email)
	}

	pi, err := p.api.PaymentIntents.Confirm(id, params)
	if err != nil {
		return resultFromStripeErr(err)
	}
	return paymentIntentResult(pi), nil
}

func (p *StripeProvider) ConfirmSetup(ctx context.Context, clientSecret, paymentMethodID string, billing BillingDetails) (*IntentResult, error) {
	_ = billing
	id, err := intentIDFromSecret(clientSecret)
	if err != nil {
		return nil, err
	}

	params := &stripe.SetupIntentConfirmParams{
		PaymentMethod: stripe.String(paymentMethodID),
	}
	params.Context = ctx

	si, err := p.api.SetupIntents.Confirm(id, params)
	if err != nil {
		return resultFromStripeErr(err)
	}
	return setupIntentResult(si), nil
}

func (p *StripeProvider) RetrievePaymentIntent(ctx context.Context, clientSecret string) (*IntentResult, error) {
	id, err := intentIDFromSecret(clientSecret)
	if err != nil {
		return nil, err
	}
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := p.api.PaymentIntents.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve payment intent %s: %w", id, err)
	}
	return paymentIntentResult(pi), nil
}

func (p *StripeProvider) RetrieveSetupIntent(ctx context.Context, clientSecret string) (*IntentResult, error) {
	id, err := intentIDFromSecret(clientSecret)
	if err != nil {
		return nil, err
	}
	params := &stripe.SetupIntentParams{}
	params.Context = ctx

	si, err := p.api.SetupIntents.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve setup intent %s: %w", id, err)
	}
	return setupIntentResult(si), nil
}

// intentIDFromSecret strips the "_secret_" suffix off a client secret. Both
// "pi_123_secret_abc" and "seti_123_secret_abc" reduce to the intent ID.
func intentIDFromSecret(clientSecret string) (string, error) {
	if clientSecret == "" {
		return "", errors.New("client secret is empty")
	}
	if idx := strings.Index(clientSecret, "_secret_"); idx > 0 {
		return clientSecret[:idx], nil
	}
	return clientSecret, nil
}

func paymentIntentResult(pi *stripe.PaymentIntent) *IntentResult {
	res := &IntentResult{Status: mapPaymentIntentStatus(pi.Status)}
	if pi.LastPaymentError != nil {
		res.LastErrorMessage = pi.LastPaymentError.Msg
	}
	return res
}

func setupIntentResult(si *stripe.SetupIntent) *IntentResult {
	res := &IntentResult{Status: mapSetupIntentStatus(si.Status)}
	if si.LastSetupError != nil {
		res.LastErrorMessage = si.LastSetupError.Msg
	}
	return res
}

func mapPaymentIntentStatus(status stripe.PaymentIntentStatus) IntentStatus {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return StatusSucceeded
	case stripe.PaymentIntentStatusProcessing:
		return StatusProcessing
	case stripe.PaymentIntentStatusRequiresAction:
		return StatusRequiresAction
	case stripe.PaymentIntentStatusRequiresConfirmation:
		return StatusRequiresConfirmation
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		return StatusRequiresPaymentMethod
	case stripe.PaymentIntentStatusCanceled:
		return StatusCanceled
	default:
		return StatusUnknown
	}
}

func mapSetupIntentStatus(status stripe.SetupIntentStatus) IntentStatus {
	switch status {
	case stripe.SetupIntentStatusSucceeded:
		return StatusSucceeded
	case stripe.SetupIntentStatusProcessing:
		return StatusProcessing
	case stripe.SetupIntentStatusRequiresAction:
		return StatusRequiresAction
	case stripe.SetupIntentStatusRequiresConfirmation:
		return StatusRequiresConfirmation
	case stripe.SetupIntentStatusRequiresPaymentMethod:
		return StatusRequiresPaymentMethod
	case stripe.SetupIntentStatusCanceled:
		return StatusCanceled
	default:
		return StatusUnknown
	}
}

// resultFromStripeErr converts a declined confirmation into a retryable
// requires-payment-method result instead of a hard error.
func resultFromStripeErr(err error) (*IntentResult, error) {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
		msg := stripeErr.Msg
		if msg == "" {
			msg = "Your card was declined."
		}
		return &IntentResult{Status: StatusRequiresPaymentMethod, LastErrorMessage: msg}, nil
	}
	return nil, err
}
