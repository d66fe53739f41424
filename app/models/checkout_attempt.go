package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CheckoutAttemptStatusOpen      = "open"
	CheckoutAttemptStatusSucceeded = "succeeded"
	CheckoutAttemptStatusFailed    = "failed"
)

// CheckoutAttempt persists the provider intent created for one canonical
// request key, so repeated refreshes with the same inputs reuse the existing
// intent instead of minting a new one.
type CheckoutAttempt struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	SubmissionID    uint            `gorm:"not null;index:ux_checkout_attempts_submission_key,unique,priority:1" json:"submission_id"`
	RequestKey      string          `gorm:"type:varchar(191);not null;index:ux_checkout_attempts_submission_key,unique,priority:2" json:"request_key"`
	PaymentIntentID string          `gorm:"type:varchar(191);not null;default:''" json:"payment_intent_id"`
	SetupIntentID   string          `gorm:"type:varchar(191);not null;default:''" json:"setup_intent_id"`
	ClientSecret    string          `gorm:"type:varchar(255);not null;default:''" json:"-"`
	AmountTotal     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"amount_total"`
	Currency        string          `gorm:"type:varchar(3);not null;default:'eur'" json:"currency"`
	Status          string          `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
