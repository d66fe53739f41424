package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DiscountScopeOneTime   = "one_time"
	DiscountScopeRecurring = "recurring"
	DiscountScopeBoth      = "both"
)

// DiscountCode is a redeemable promotion. Either PercentOff or AmountOff is
// set, never both. Scope controls whether the discount applies to the
// one-time site package, the recurring hosting plan, or both.
type DiscountCode struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Code           string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"code"`
	PercentOff     int             `gorm:"not null;default:0" json:"percent_off"`
	AmountOff      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"amount_off"`
	Scope          string          `gorm:"type:varchar(16);not null;default:'one_time'" json:"scope"`
	Active         bool            `gorm:"default:true;index" json:"active"`
	MaxRedemptions int             `gorm:"not null;default:0" json:"max_redemptions"`
	RedeemedCount  int             `gorm:"not null;default:0" json:"redeemed_count"`
	StartsAt       *time.Time      `gorm:"type:timestamp;default:null" json:"starts_at,omitempty"`
	ExpiresAt      *time.Time      `gorm:"type:timestamp;default:null" json:"expires_at,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsRedeemable reports whether the code can currently be applied.
func (d *DiscountCode) IsRedeemable(now time.Time) bool {
	if !d.Active {
		return false
	}
	if d.StartsAt != nil && now.Before(*d.StartsAt) {
		return false
	}
	if d.ExpiresAt != nil && now.After(*d.ExpiresAt) {
		return false
	}
	if d.MaxRedemptions > 0 && d.RedeemedCount >= d.MaxRedemptions {
		return false
	}
	return true
}

// AppliesToRecurring reports whether the recurring hosting amount is discounted.
func (d *DiscountCode) AppliesToRecurring() bool {
	return d.Scope == DiscountScopeRecurring || d.Scope == DiscountScopeBoth
}

// AppliesToOneTime reports whether the one-time site package is discounted.
func (d *DiscountCode) AppliesToOneTime() bool {
	return d.Scope == DiscountScopeOneTime || d.Scope == DiscountScopeBoth
}
