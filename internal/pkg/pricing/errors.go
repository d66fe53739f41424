package pricing

import "errors"

// ErrInvalidDiscountCode marks a discount rejection. Callers surface it next
// to the discount field instead of as a page-level failure.
var ErrInvalidDiscountCode = errors.New("invalid discount code")
