package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/siteweaverhq/siteweaver/internal/pkg/payment"
	"github.com/siteweaverhq/siteweaver/internal/pkg/pricing"
)

const (
	defaultPollAttempts = 10
	defaultPollInterval = time.Second
)

// AmbiguousPolicy decides what happens when a confirmation is still
// unresolved after the poll budget (or ends in requires_action).
// PolicyOptimistic completes the checkout and defers settlement to the
// asynchronous backend reconciliation; PolicyFailClosed reports the pending
// state to the user instead.
type AmbiguousPolicy int

const (
	PolicyOptimistic AmbiguousPolicy = iota
	PolicyFailClosed
)

// PaymentIntentState tracks whether a provider intent exists and whether the
// amount due today is zero. ClientSecret is non-empty exactly when
// PaymentRequired is true. The two booleans are independent: a full discount
// yields PaymentRequired=true with HasZeroPayment=true (setup capture).
type PaymentIntentState struct {
	ClientSecret    string
	PaymentRequired bool
	HasZeroPayment  bool
}

// RefreshResult is one resolved pricing round trip.
type RefreshResult struct {
	Key     string
	Summary pricing.Summary
	Intent  PaymentIntentState
}

// Config wires a Flow to its collaborators.
type Config struct {
	SessionID    string
	SubmissionID uint

	Backend  pricing.Backend
	Provider payment.Provider
	Observer Observer

	// OnComplete fires exactly once on terminal success. The wizard shell
	// uses it to mark the session complete and advance.
	OnComplete func()

	PollAttempts    int
	PollInterval    time.Duration
	AmbiguousPolicy AmbiguousPolicy
}

// Flow owns the checkout state for one onboarding submission: the committed
// inputs, the last resolved pricing result, the discount validation, and the
// confirmation state machine. All of it is rebuilt from the session store
// when the customer returns; nothing here outlives the flow.
type Flow struct {
	cfg Config

	mu             sync.Mutex
	seq            uint64
	cancelInFlight context.CancelFunc
	languages      []string
	discountCode   string
	validation     *DiscountValidation
	lastKey        string
	lastResult     *RefreshResult
	intent         PaymentIntentState

	submitting   bool
	state        State
	completeOnce sync.Once
}

// NewFlow creates a checkout flow. Zero config fields get defaults.
func NewFlow(cfg Config) *Flow {
	if cfg.Observer == nil {
		cfg.Observer = NopObserver{}
	}
	if cfg.PollAttempts <= 0 {
		cfg.PollAttempts = defaultPollAttempts
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	return &Flow{cfg: cfg, state: StateIdle}
}

// Languages returns the committed language selection.
func (f *Flow) Languages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.languages...)
}

// DiscountCode returns the committed (active) discount code.
func (f *Flow) DiscountCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.discountCode
}

// IntentState returns the last resolved payment intent bookkeeping.
func (f *Flow) IntentState() PaymentIntentState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.intent
}

// LastResult returns the last applied refresh result, or nil.
func (f *Flow) LastResult() *RefreshResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastResult
}

// Refresh reconciles local inputs with the pricing backend. Identical inputs
// reuse the cached result without a backend call (unless verifyOnly). A new
// request supersedes any in-flight one; only the newest request's result is
// ever applied, regardless of arrival order.
func (f *Flow) Refresh(ctx context.Context, languages []string, discountCode string, verifyOnly bool) (*RefreshResult, error) {
	code := strings.TrimSpace(discountCode)
	key := pricing.BuildRequestKey(languages, code)

	f.mu.Lock()
	if !verifyOnly && f.lastResult != nil && key == f.lastKey {
		res := f.lastResult
		f.mu.Unlock()
		return res, nil
	}

	// Supersede whatever is still in flight.
	if f.cancelInFlight != nil {
		f.cancelInFlight()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	f.cancelInFlight = cancel
	f.seq++
	seq := f.seq
	f.mu.Unlock()

	f.cfg.Observer.RefreshStarted(seq, key, verifyOnly)
	result, err := f.cfg.Backend.CreateOrRefreshCheckout(reqCtx, f.cfg.SessionID, f.cfg.SubmissionID, pricing.NormalizeLanguages(languages), code)
	cancel()

	f.mu.Lock()
	defer f.mu.Unlock()

	if seq != f.seq {
		// A newer request was issued while this one ran. Its outcome is
		// stale and must never reach visible state.
		f.cfg.Observer.RefreshSettled(seq, key, ErrSuperseded)
		return nil, ErrSuperseded
	}
	f.cancelInFlight = nil

	if err != nil {
		if errors.Is(err, context.Canceled) {
			f.cfg.Observer.RefreshSettled(seq, key, ErrSuperseded)
			return nil, ErrSuperseded
		}
		f.cfg.Observer.RefreshSettled(seq, key, err)
		return nil, err
	}

	intent := PaymentIntentState{
		PaymentRequired: result.PaymentRequired,
		HasZeroPayment:  !result.Summary.Total.IsPositive(),
	}
	if result.PaymentRequired {
		intent.ClientSecret = result.ClientSecret
	}

	applied := &RefreshResult{Key: key, Summary: result.Summary, Intent: intent}
	f.lastKey = key
	f.lastResult = applied
	f.intent = intent
	if !verifyOnly {
		f.languages = pricing.NormalizeLanguages(languages)
		f.discountCode = code
	}

	f.cfg.Observer.RefreshSettled(seq, key, nil)
	return applied, nil
}

// IsDiscountRejection reports whether an error from Refresh or VerifyDiscount
// should surface next to the discount field instead of as a page error.
func IsDiscountRejection(err error) bool {
	return errors.Is(err, pricing.ErrInvalidDiscountCode)
}

// IsSuperseded reports whether an error is a stale-request artifact that must
// be silently ignored.
func IsSuperseded(err error) bool {
	return errors.Is(err, ErrSuperseded)
}
