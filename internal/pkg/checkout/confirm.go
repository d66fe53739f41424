package checkout

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/siteweaverhq/siteweaver/internal/pkg/payment"
)

// State is the confirmation machine's position.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StatePolling
	StateSucceeded
	StateRequiresAction
	StateFailed
)

// PaymentPath enumerates the reachable combinations of PaymentRequired and
// HasZeroPayment. PathCharge confirms a payment intent; PathSetupCapture
// confirms a setup intent for a zero-amount-today checkout with recurring
// billing; PathSkip completes without touching the provider.
type PaymentPath int

const (
	PathCharge PaymentPath = iota
	PathSetupCapture
	PathSkip
)

// PathFor maps the intent state to its payment path. Without a required
// payment there is nothing to capture, zero amount or not.
func PathFor(intent PaymentIntentState) PaymentPath {
	if !intent.PaymentRequired {
		return PathSkip
	}
	if intent.HasZeroPayment {
		return PathSetupCapture
	}
	return PathCharge
}

// OutcomeStatus classifies how a submit ended.
type OutcomeStatus int

const (
	// OutcomeCompleted means the checkout finished and the completion
	// callback fired; the caller redirects.
	OutcomeCompleted OutcomeStatus = iota
	// OutcomeFailed is retryable; Message carries the user-facing reason.
	OutcomeFailed
	// OutcomeRequiresAction means the provider needs user interaction
	// (fail-closed policy only).
	OutcomeRequiresAction
	// OutcomePending means confirmation was still unresolved after polling
	// (fail-closed policy only).
	OutcomePending
)

// Outcome is the terminal user-facing result of one submit.
type Outcome struct {
	Status  OutcomeStatus
	Message string
}

// SubmitParams carries what the confirmation needs from the form.
type SubmitParams struct {
	AcceptTerms     bool
	PaymentMethodID string
	Billing         payment.BillingDetails
}

// ConfirmState returns the confirmation machine's current state.
func (f *Flow) ConfirmState() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submit drives the payment confirmation to a terminal outcome. Double
// submits are rejected while one is running; the in-flight flag is released
// on every retryable outcome and intentionally kept on completion, since the
// caller navigates away.
func (f *Flow) Submit(ctx context.Context, p SubmitParams) (*Outcome, error) {
	if !p.AcceptTerms {
		return nil, ErrTermsNotAccepted
	}

	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if f.lastResult == nil {
		f.mu.Unlock()
		return nil, ErrNoCheckout
	}
	f.submitting = true
	f.state = StateSubmitting
	intent := f.intent
	f.mu.Unlock()

	switch PathFor(intent) {
	case PathSkip:
		f.complete()
		f.setState(StateSucceeded)
		return &Outcome{Status: OutcomeCompleted}, nil

	case PathSetupCapture, PathCharge:
		res, err := f.confirmIntent(ctx, intent.ClientSecret, p)
		if err != nil {
			f.release(StateFailed)
			return nil, err
		}
		return f.resolve(ctx, intent.ClientSecret, res)
	}

	f.release(StateFailed)
	return &Outcome{Status: OutcomeFailed, Message: "Unknown payment path"}, nil
}

func (f *Flow) confirmIntent(ctx context.Context, clientSecret string, p SubmitParams) (*payment.IntentResult, error) {
	if payment.KindOfSecret(clientSecret) == payment.SecretKindSetup {
		return f.cfg.Provider.ConfirmSetup(ctx, clientSecret, p.PaymentMethodID, p.Billing)
	}
	return f.cfg.Provider.ConfirmPayment(ctx, clientSecret, p.PaymentMethodID, p.Billing)
}

func (f *Flow) retrieveIntent(ctx context.Context, clientSecret string) (*payment.IntentResult, error) {
	if payment.KindOfSecret(clientSecret) == payment.SecretKindSetup {
		return f.cfg.Provider.RetrieveSetupIntent(ctx, clientSecret)
	}
	return f.cfg.Provider.RetrievePaymentIntent(ctx, clientSecret)
}

// resolve turns a confirmation result into a terminal outcome, polling while
// the provider reports the intent as still in motion.
func (f *Flow) resolve(ctx context.Context, clientSecret string, res *payment.IntentResult) (*Outcome, error) {
	for {
		switch res.Status {
		case payment.StatusSucceeded:
			f.complete()
			f.setState(StateSucceeded)
			return &Outcome{Status: OutcomeCompleted}, nil

		case payment.StatusProcessing, payment.StatusRequiresConfirmation:
			polled, stillPending := f.poll(ctx, clientSecret)
			if stillPending {
				return f.ambiguousOutcome()
			}
			res = polled

		case payment.StatusRequiresPaymentMethod:
			msg := res.LastErrorMessage
			if msg == "" {
				msg = "Your payment was declined. Please try another payment method."
			}
			f.release(StateIdle)
			return &Outcome{Status: OutcomeFailed, Message: msg}, nil

		case payment.StatusRequiresAction:
			if f.cfg.AmbiguousPolicy == PolicyOptimistic {
				log.Warnf("[Checkout] intent requires action, completing optimistically")
				f.complete()
				f.setState(StateSucceeded)
				return &Outcome{Status: OutcomeCompleted}, nil
			}
			f.release(StateRequiresAction)
			return &Outcome{Status: OutcomeRequiresAction}, nil

		default:
			f.release(StateIdle)
			return &Outcome{Status: OutcomeFailed, Message: "Payment could not be completed. Please try again."}, nil
		}
	}
}

// poll re-reads the intent with a fixed budget. Returns the last result, or
// stillPending=true when every attempt left the intent unresolved. The loop
// is deliberately not cancellable mid-attempt; the budget bounds it.
func (f *Flow) poll(ctx context.Context, clientSecret string) (*payment.IntentResult, bool) {
	f.setState(StatePolling)
	for attempt := 0; attempt < f.cfg.PollAttempts; attempt++ {
		time.Sleep(f.cfg.PollInterval)
		res, err := f.retrieveIntent(ctx, clientSecret)
		if err != nil {
			log.Warnf("[Checkout] poll attempt %d failed: %v", attempt+1, err)
			continue
		}
		if res.Status != payment.StatusProcessing && res.Status != payment.StatusRequiresConfirmation {
			return res, false
		}
	}
	return nil, true
}

// ambiguousOutcome applies the configured policy when polling ran out.
func (f *Flow) ambiguousOutcome() (*Outcome, error) {
	if f.cfg.AmbiguousPolicy == PolicyOptimistic {
		// Settlement is reconciled asynchronously by the billing backend;
		// blocking the customer here buys nothing.
		log.Warnf("[Checkout] confirmation unresolved after polling, completing optimistically")
		f.complete()
		f.setState(StateSucceeded)
		return &Outcome{Status: OutcomeCompleted}, nil
	}
	f.release(StateIdle)
	return &Outcome{Status: OutcomePending, Message: "Your payment is still processing. We will email you once it settles."}, nil
}

// complete fires the purchase side effects exactly once.
func (f *Flow) complete() {
	f.completeOnce.Do(func() {
		f.mu.Lock()
		var summary = f.lastResult.Summary
		f.mu.Unlock()
		f.cfg.Observer.PurchaseCompleted(summary)
		if f.cfg.OnComplete != nil {
			f.cfg.OnComplete()
		}
	})
}

func (f *Flow) setState(s State) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}

// release resets the submit-in-flight flag on retryable paths.
func (f *Flow) release(s State) {
	f.mu.Lock()
	f.submitting = false
	f.state = s
	f.mu.Unlock()
}
