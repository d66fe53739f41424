package payment

import (
	"errors"
	"testing"

	"github.com/stripe/stripe-go/v79"
)

func TestMapPaymentIntentStatus(t *testing.T) {
	tests := []struct {
		in   stripe.PaymentIntentStatus
		want IntentStatus
	}{
		{in: stripe.PaymentIntentStatusSucceeded, want: StatusSucceeded},
		{in: stripe.PaymentIntentStatusProcessing, want: StatusProcessing},
		{in: stripe.PaymentIntentStatusRequiresAction, want: StatusRequiresAction},
		{in: stripe.PaymentIntentStatusRequiresConfirmation, want: StatusRequiresConfirmation},
		{in: stripe.PaymentIntentStatusRequiresPaymentMethod, want: StatusRequiresPaymentMethod},
		{in: stripe.PaymentIntentStatusCanceled, want: StatusCanceled},
		{in: stripe.PaymentIntentStatus("something_new"), want: StatusUnknown},
	}

	for _, tt := range tests {
		if got := mapPaymentIntentStatus(tt.in); got != tt.want {
			t.Fatalf("mapPaymentIntentStatus(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResultFromStripeErrCardDecline(t *testing.T) {
	cardErr := &stripe.Error{Type: stripe.ErrorTypeCard, Msg: "Your card has insufficient funds."}

	res, err := resultFromStripeErr(cardErr)
	if err != nil {
		t.Fatalf("a card decline must become a retryable result, got error %v", err)
	}
	if res.Status != StatusRequiresPaymentMethod {
		t.Fatalf("status = %v, want requires_payment_method", res.Status)
	}
	if res.LastErrorMessage != "Your card has insufficient funds." {
		t.Fatalf("message = %q", res.LastErrorMessage)
	}
}

func TestResultFromStripeErrOtherErrorsPassThrough(t *testing.T) {
	apiErr := &stripe.Error{Type: stripe.ErrorTypeAPI, Msg: "boom"}

	if _, err := resultFromStripeErr(apiErr); err == nil {
		t.Fatalf("non-card errors must stay errors")
	}

	plain := errors.New("network down")
	if _, err := resultFromStripeErr(plain); !errors.Is(err, plain) {
		t.Fatalf("expected the original error back, got %v", err)
	}
}
