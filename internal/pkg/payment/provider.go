package payment

import (
	"context"
	"strings"
)

// IntentStatus is the closed status vocabulary the checkout flow branches on.
// The provider SDK's own status strings never leave this package.
type IntentStatus int

const (
	StatusUnknown IntentStatus = iota
	StatusSucceeded
	StatusProcessing
	StatusRequiresAction
	StatusRequiresConfirmation
	StatusRequiresPaymentMethod
	StatusCanceled
)

// String returns the canonical name of the status.
func (s IntentStatus) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusProcessing:
		return "processing"
	case StatusRequiresAction:
		return "requires_action"
	case StatusRequiresConfirmation:
		return "requires_confirmation"
	case StatusRequiresPaymentMethod:
		return "requires_payment_method"
	case StatusCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// IntentResult is the provider response reduced to what the flow needs.
type IntentResult struct {
	Status           IntentStatus
	LastErrorMessage string
}

// BillingDetails prefills the confirmation with customer data from the
// business profile step.
type BillingDetails struct {
	Name    string
	Email   string
	Phone   string
	Country string
	City    string
	Line1   string
	Postal  string
}

// Provider is the narrow payment provider interface. ConfirmPayment charges a
// payment intent; ConfirmSetup captures a method on a setup intent without
// charging. The Retrieve calls back the confirmation poll loop.
type Provider interface {
	ConfirmPayment(ctx context.Context, clientSecret, paymentMethodID string, billing BillingDetails) (*IntentResult, error)
	ConfirmSetup(ctx context.Context, clientSecret, paymentMethodID string, billing BillingDetails) (*IntentResult, error)
	RetrievePaymentIntent(ctx context.Context, clientSecret string) (*IntentResult, error)
	RetrieveSetupIntent(ctx context.Context, clientSecret string) (*IntentResult, error)
}

// SecretKind distinguishes payment and setup intents by the provider's client
// secret prefix convention.
type SecretKind int

const (
	SecretKindPayment SecretKind = iota
	SecretKindSetup
)

// KindOfSecret reports whether a client secret belongs to a setup intent
// ("seti_" prefix) or a payment intent.
func KindOfSecret(clientSecret string) SecretKind {
	if strings.HasPrefix(clientSecret, "seti_") {
		return SecretKindSetup
	}
	return SecretKindPayment
}
