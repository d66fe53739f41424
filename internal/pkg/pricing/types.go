package pricing

import "github.com/shopspring/decimal"

// LineItem is one display row of the checkout summary. Amount is the price
// after discount, OriginalAmount before. Recurring rows bill monthly.
type LineItem struct {
	ID             string          `json:"id"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	OriginalAmount decimal.Decimal `json:"original_amount"`
	Quantity       int             `json:"quantity"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	IsRecurring    bool            `json:"is_recurring"`
}

// Summary is an immutable pricing snapshot for one canonical request. It is
// replaced wholesale on every successful refresh and never partially mutated.
type Summary struct {
	Subtotal          decimal.Decimal `json:"subtotal"`
	Total             decimal.Decimal `json:"total"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	RecurringAmount   decimal.Decimal `json:"recurring_amount"`
	RecurringDiscount decimal.Decimal `json:"recurring_discount"`
	TaxAmount         decimal.Decimal `json:"tax_amount"`
	Currency          string          `json:"currency"`
	LineItems         []LineItem      `json:"line_items"`
}

// CheckoutResult is what the backend hands the checkout flow for one refresh.
// ClientSecret is non-empty exactly when PaymentRequired is true.
type CheckoutResult struct {
	ClientSecret    string  `json:"client_secret,omitempty"`
	PaymentRequired bool    `json:"payment_required"`
	Summary         Summary `json:"summary"`
}
