package pricing

import (
	"context"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/siteweaverhq/siteweaver/internal/pkg/env"
)

// StripeIntentClient implements IntentClient against the Stripe API.
type StripeIntentClient struct {
	api *client.API
}

// NewStripeIntentClientFromEnv builds a Stripe client from STRIPE_SECRET_KEY.
func NewStripeIntentClientFromEnv() *StripeIntentClient {
	api := &client.API{}
	api.Init(env.GetEnv("STRIPE_SECRET_KEY", ""), nil)
	return &StripeIntentClient{api: api}
}

// NewStripeIntentClient wraps an existing Stripe API handle.
func NewStripeIntentClient(api *client.API) *StripeIntentClient {
	return &StripeIntentClient{api: api}
}

func (c *StripeIntentClient) CreatePaymentIntent(ctx context.Context, amount int64, currency string, submissionID uint) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		// Card is saved so the recurring hosting plan can bill it later.
		SetupFutureUsage: stripe.String(string(stripe.PaymentIntentSetupFutureUsageOffSession)),
	}
	params.Context = ctx
	params.AddMetadata("submission_id", strconv.FormatUint(uint64(submissionID), 10))

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return "", "", fmt.Errorf("create payment intent: %w", err)
	}
	return pi.ID, pi.ClientSecret, nil
}

func (c *StripeIntentClient) UpdatePaymentIntentAmount(ctx context.Context, id string, amount int64) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount: stripe.Int64(amount),
	}
	params.Context = ctx

	pi, err := c.api.PaymentIntents.Update(id, params)
	if err != nil {
		return "", fmt.Errorf("update payment intent %s: %w", id, err)
	}
	return pi.ClientSecret, nil
}

func (c *StripeIntentClient) CreateSetupIntent(ctx context.Context, submissionID uint) (string, string, error) {
	params := &stripe.SetupIntentParams{
		Usage: stripe.String(string(stripe.SetupIntentUsageOffSession)),
		AutomaticPaymentMethods: &stripe.SetupIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("submission_id", strconv.FormatUint(uint64(submissionID), 10))

	si, err := c.api.SetupIntents.New(params)
	if err != nil {
		return "", "", fmt.Errorf("create setup intent: %w", err)
	}
	return si.ID, si.ClientSecret, nil
}
