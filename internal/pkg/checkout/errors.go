package checkout

import "errors"

var (
	// ErrEmptyDiscountCode is returned for a verify with a blank code. No
	// backend call is made.
	ErrEmptyDiscountCode = errors.New("discount code is empty")

	// ErrTermsNotAccepted blocks submission until the terms checkbox is set.
	ErrTermsNotAccepted = errors.New("terms must be accepted")

	// ErrSubmitInFlight is returned when a submit arrives while a previous
	// one is still running.
	ErrSubmitInFlight = errors.New("submit already in flight")

	// ErrSuperseded marks the result of a refresh that was overtaken by a
	// newer one. It is never shown to the user.
	ErrSuperseded = errors.New("request superseded")

	// ErrNoCheckout is returned when submit runs before any refresh resolved.
	ErrNoCheckout = errors.New("no resolved checkout state")
)
