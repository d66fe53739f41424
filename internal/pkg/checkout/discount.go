package checkout

import (
	"context"
	"strings"

	"github.com/siteweaverhq/siteweaver/internal/pkg/pricing"
)

const (
	DiscountStatusValid   = "valid"
	DiscountStatusInvalid = "invalid"
)

// DiscountValidation is the result of an explicit verify action. It is
// cleared whenever the customer edits the discount field, so a stale badge is
// never shown against a different code.
type DiscountValidation struct {
	Status  string          `json:"status"`
	Code    string          `json:"code,omitempty"`
	Error   string          `json:"error,omitempty"`
	Preview pricing.Summary `json:"preview"`
}

// Validation returns the current discount validation result, or nil when the
// code has not been verified (or was edited since).
func (f *Flow) Validation() *DiscountValidation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validation
}

// ClearDiscountValidation drops the validation result. Called when the
// discount input changes after a verify.
func (f *Flow) ClearDiscountValidation() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.validation = nil
}

// VerifyDiscount checks a candidate code against the backend without
// committing it first. On success the code becomes the active discount and
// the returned summary is kept as the validation preview. On rejection the
// active discount is cleared and committed pricing state is left alone.
// A blank code is rejected locally with no backend call.
func (f *Flow) VerifyDiscount(ctx context.Context, code string) (*DiscountValidation, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, ErrEmptyDiscountCode
	}

	result, err := f.Refresh(ctx, f.Languages(), trimmed, true)
	if err != nil {
		if IsSuperseded(err) {
			return nil, err
		}
		if IsDiscountRejection(err) {
			f.mu.Lock()
			f.discountCode = ""
			f.validation = &DiscountValidation{
				Status: DiscountStatusInvalid,
				Error:  "This code is not valid.",
			}
			validation := f.validation
			f.mu.Unlock()
			return validation, nil
		}
		return nil, err
	}

	f.mu.Lock()
	f.discountCode = trimmed
	f.validation = &DiscountValidation{
		Status:  DiscountStatusValid,
		Code:    trimmed,
		Preview: result.Summary,
	}
	validation := f.validation
	f.mu.Unlock()
	return validation, nil
}

// RemoveDiscount drops the active code and validation, then refreshes pricing
// without it.
func (f *Flow) RemoveDiscount(ctx context.Context) (*RefreshResult, error) {
	f.mu.Lock()
	f.discountCode = ""
	f.validation = nil
	langs := append([]string(nil), f.languages...)
	f.mu.Unlock()
	return f.Refresh(ctx, langs, "", false)
}
