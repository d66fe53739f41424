package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/siteweaverhq/siteweaver/internal/pkg/payment"
	"github.com/siteweaverhq/siteweaver/internal/pkg/pricing"
)

type fakeProvider struct {
	mu              sync.Mutex
	confirmPayments int
	confirmSetups   int
	retrieveCalls   int

	confirmResult   *payment.IntentResult
	confirmErr      error
	retrieveResults []*payment.IntentResult

	block chan struct{}
}

func (p *fakeProvider) ConfirmPayment(ctx context.Context, clientSecret, paymentMethodID string, billing payment.BillingDetails) (*payment.IntentResult, error) {
	p.mu.Lock()
	p.confirmPayments++
	block := p.block
	p.mu.Unlock()
	if block != nil {
		<-block
	}
	return p.confirmResult, p.confirmErr
}

func (p *fakeProvider) ConfirmSetup(ctx context.Context, clientSecret, paymentMethodID string, billing payment.BillingDetails) (*payment.IntentResult, error) {
	p.mu.Lock()
	p.confirmSetups++
	p.mu.Unlock()
	return p.confirmResult, p.confirmErr
}

func (p *fakeProvider) RetrievePaymentIntent(ctx context.Context, clientSecret string) (*payment.IntentResult, error) {
	return p.nextRetrieve()
}

func (p *fakeProvider) RetrieveSetupIntent(ctx context.Context, clientSecret string) (*payment.IntentResult, error) {
	return p.nextRetrieve()
}

func (p *fakeProvider) nextRetrieve() (*payment.IntentResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.retrieveCalls++
	if len(p.retrieveResults) == 0 {
		return &payment.IntentResult{Status: payment.StatusProcessing}, nil
	}
	res := p.retrieveResults[0]
	if len(p.retrieveResults) > 1 {
		p.retrieveResults = p.retrieveResults[1:]
	}
	return res, nil
}

type recordingObserver struct {
	mu        sync.Mutex
	purchases int
}

func (r *recordingObserver) RefreshStarted(uint64, string, bool) {}
func (r *recordingObserver) RefreshSettled(uint64, string, error) {}
func (r *recordingObserver) PurchaseCompleted(pricing.Summary) {
	r.mu.Lock()
	r.purchases++
	r.mu.Unlock()
}

func (r *recordingObserver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.purchases
}

func newConfirmFlow(result *pricing.CheckoutResult, provider payment.Provider, policy AmbiguousPolicy) (*Flow, *recordingObserver, *int) {
	backend := &fakeBackend{fn: func(ctx context.Context, languages []string, discountCode string) (*pricing.CheckoutResult, error) {
		return result, nil
	}}
	obs := &recordingObserver{}
	completions := 0
	flow := NewFlow(Config{
		SessionID:       "sess-test",
		SubmissionID:    1,
		Backend:         backend,
		Provider:        provider,
		Observer:        obs,
		OnComplete:      func() { completions++ },
		PollAttempts:    2,
		PollInterval:    time.Millisecond,
		AmbiguousPolicy: policy,
	})
	if _, err := flow.Refresh(context.Background(), nil, "", false); err != nil {
		panic(err)
	}
	return flow, obs, &completions
}

func submitParams() SubmitParams {
	return SubmitParams{AcceptTerms: true, PaymentMethodID: "pm_test"}
}

func TestSubmitRequiresTerms(t *testing.T) {
	provider := &fakeProvider{}
	flow, _, _ := newConfirmFlow(paidResult("499.00", "pi_1_secret_a"), provider, PolicyOptimistic)

	_, err := flow.Submit(context.Background(), SubmitParams{AcceptTerms: false})
	if !errors.Is(err, ErrTermsNotAccepted) {
		t.Fatalf("expected ErrTermsNotAccepted, got %v", err)
	}
	if provider.confirmPayments != 0 {
		t.Fatalf("provider must not be touched before the terms gate")
	}
}

func TestSubmitWithoutRefreshFails(t *testing.T) {
	flow := NewFlow(Config{SessionID: "s", SubmissionID: 1, Provider: &fakeProvider{}})

	_, err := flow.Submit(context.Background(), submitParams())
	if !errors.Is(err, ErrNoCheckout) {
		t.Fatalf("expected ErrNoCheckout, got %v", err)
	}
}

func TestSubmitSkipPathCompletesWithoutProvider(t *testing.T) {
	provider := &fakeProvider{}
	free := &pricing.CheckoutResult{PaymentRequired: false, Summary: summaryWithTotal("0")}
	flow, obs, completions := newConfirmFlow(free, provider, PolicyOptimistic)

	outcome, err := flow.Submit(context.Background(), submitParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != OutcomeCompleted {
		t.Fatalf("outcome = %v, want completed", outcome.Status)
	}
	if provider.confirmPayments != 0 || provider.confirmSetups != 0 {
		t.Fatalf("skip path must not call the provider")
	}
	if obs.count() != 1 || *completions != 1 {
		t.Fatalf("expected exactly one completion, got observer=%d onComplete=%d", obs.count(), *completions)
	}
	if flow.ConfirmState() != StateSucceeded {
		t.Fatalf("state = %v, want succeeded", flow.ConfirmState())
	}
}

func TestSubmitChargePathSucceeds(t *testing.T) {
	provider := &fakeProvider{confirmResult: &payment.IntentResult{Status: payment.StatusSucceeded}}
	flow, obs, completions := newConfirmFlow(paidResult("499.00", "pi_1_secret_a"), provider, PolicyOptimistic)

	outcome, err := flow.Submit(context.Background(), submitParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != OutcomeCompleted {
		t.Fatalf("outcome = %v, want completed", outcome.Status)
	}
	if provider.confirmPayments != 1 || provider.confirmSetups != 0 {
		t.Fatalf("expected one payment confirm, got payments=%d setups=%d", provider.confirmPayments, provider.confirmSetups)
	}
	if obs.count() != 1 || *completions != 1 {
		t.Fatalf("expected exactly one completion")
	}
}

func TestSubmitSetupPathUsesSetupConfirm(t *testing.T) {
	provider := &fakeProvider{confirmResult: &payment.IntentResult{Status: payment.StatusSucceeded}}
	zero := &pricing.CheckoutResult{
		ClientSecret:    "seti_1_secret_a",
		PaymentRequired: true,
		Summary:         summaryWithTotal("0"),
	}
	flow, _, _ := newConfirmFlow(zero, provider, PolicyOptimistic)

	outcome, err := flow.Submit(context.Background(), submitParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != OutcomeCompleted {
		t.Fatalf("outcome = %v, want completed", outcome.Status)
	}
	// The "seti_" secret prefix selects the setup confirmation.
	if provider.confirmSetups != 1 || provider.confirmPayments != 0 {
		t.Fatalf("expected one setup confirm, got payments=%d setups=%d", provider.confirmPayments, provider.confirmSetups)
	}
}

func TestSubmitDeclinedIsRetryable(t *testing.T) {
	provider := &fakeProvider{confirmResult: &payment.IntentResult{
		Status:           payment.StatusRequiresPaymentMethod,
		LastErrorMessage: "Your card was declined.",
	}}
	flow, obs, _ := newConfirmFlow(paidResult("499.00", "pi_1_secret_a"), provider, PolicyOptimistic)

	outcome, err := flow.Submit(context.Background(), submitParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != OutcomeFailed {
		t.Fatalf("outcome = %v, want failed", outcome.Status)
	}
	if outcome.Message != "Your card was declined." {
		t.Fatalf("message = %q", outcome.Message)
	}
	if obs.count() != 0 {
		t.Fatalf("a decline must not complete the purchase")
	}

	// The in-flight flag is released; a retry reaches the provider again.
	provider.confirmResult = &payment.IntentResult{Status: payment.StatusSucceeded}
	if _, err := flow.Submit(context.Background(), submitParams()); err != nil {
		t.Fatalf("expected retry to be allowed, got %v", err)
	}
	if provider.confirmPayments != 2 {
		t.Fatalf("expected 2 confirms, got %d", provider.confirmPayments)
	}
}

func TestSubmitDoubleSubmitBlocked(t *testing.T) {
	block := make(chan struct{})
	provider := &fakeProvider{
		confirmResult: &payment.IntentResult{Status: payment.StatusSucceeded},
		block:         block,
	}
	flow, _, _ := newConfirmFlow(paidResult("499.00", "pi_1_secret_a"), provider, PolicyOptimistic)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := flow.Submit(context.Background(), submitParams()); err != nil {
			t.Errorf("first submit failed: %v", err)
		}
	}()

	// Wait for the first submit to hit the provider.
	for i := 0; i < 100; i++ {
		provider.mu.Lock()
		started := provider.confirmPayments > 0
		provider.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := flow.Submit(context.Background(), submitParams()); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}

	close(block)
	<-done

	if provider.confirmPayments != 1 {
		t.Fatalf("expected exactly one provider confirm, got %d", provider.confirmPayments)
	}
}

func TestSubmitPollResolvesToSuccess(t *testing.T) {
	provider := &fakeProvider{
		confirmResult:   &payment.IntentResult{Status: payment.StatusProcessing},
		retrieveResults: []*payment.IntentResult{{Status: payment.StatusSucceeded}},
	}
	flow, obs, _ := newConfirmFlow(paidResult("499.00", "pi_1_secret_a"), provider, PolicyOptimistic)

	outcome, err := flow.Submit(context.Background(), submitParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != OutcomeCompleted {
		t.Fatalf("outcome = %v, want completed", outcome.Status)
	}
	if provider.retrieveCalls == 0 {
		t.Fatalf("expected the poll loop to run")
	}
	if obs.count() != 1 {
		t.Fatalf("expected one completion")
	}
}

func TestSubmitExhaustedPollOptimistic(t *testing.T) {
	provider := &fakeProvider{confirmResult: &payment.IntentResult{Status: payment.StatusProcessing}}
	flow, obs, completions := newConfirmFlow(paidResult("499.00", "pi_1_secret_a"), provider, PolicyOptimistic)

	outcome, err := flow.Submit(context.Background(), submitParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Never-resolving confirmation still completes under the optimistic
	// policy; settlement is reconciled out of band.
	if outcome.Status != OutcomeCompleted {
		t.Fatalf("outcome = %v, want completed", outcome.Status)
	}
	if obs.count() != 1 || *completions != 1 {
		t.Fatalf("expected one completion")
	}
}

func TestSubmitExhaustedPollFailClosed(t *testing.T) {
	provider := &fakeProvider{confirmResult: &payment.IntentResult{Status: payment.StatusProcessing}}
	flow, obs, _ := newConfirmFlow(paidResult("499.00", "pi_1_secret_a"), provider, PolicyFailClosed)

	outcome, err := flow.Submit(context.Background(), submitParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != OutcomePending {
		t.Fatalf("outcome = %v, want pending", outcome.Status)
	}
	if obs.count() != 0 {
		t.Fatalf("fail-closed must not complete an unresolved payment")
	}

	// Pending is retryable.
	provider.confirmResult = &payment.IntentResult{Status: payment.StatusSucceeded}
	if _, err := flow.Submit(context.Background(), submitParams()); err != nil {
		t.Fatalf("expected retry after pending, got %v", err)
	}
}

func TestSubmitRequiresActionFailClosed(t *testing.T) {
	provider := &fakeProvider{confirmResult: &payment.IntentResult{Status: payment.StatusRequiresAction}}
	flow, obs, _ := newConfirmFlow(paidResult("499.00", "pi_1_secret_a"), provider, PolicyFailClosed)

	outcome, err := flow.Submit(context.Background(), submitParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != OutcomeRequiresAction {
		t.Fatalf("outcome = %v, want requires_action", outcome.Status)
	}
	if obs.count() != 0 {
		t.Fatalf("requires_action must not complete under fail-closed")
	}
	if flow.ConfirmState() != StateRequiresAction {
		t.Fatalf("state = %v, want requires_action", flow.ConfirmState())
	}
}

func TestCompletionFiresOnce(t *testing.T) {
	provider := &fakeProvider{confirmResult: &payment.IntentResult{Status: payment.StatusSucceeded}}
	free := &pricing.CheckoutResult{PaymentRequired: false, Summary: summaryWithTotal("0")}
	flow, obs, completions := newConfirmFlow(free, provider, PolicyOptimistic)

	if _, err := flow.Submit(context.Background(), submitParams()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Completion keeps the submit flag set; a second submit is rejected and
	// never re-fires the side effects.
	if _, err := flow.Submit(context.Background(), submitParams()); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected post-completion submits to be rejected, got %v", err)
	}
	if obs.count() != 1 || *completions != 1 {
		t.Fatalf("expected one completion, got observer=%d onComplete=%d", obs.count(), *completions)
	}
}
