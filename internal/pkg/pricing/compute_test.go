package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/siteweaverhq/siteweaver/app/models"
)

func testCatalog() Catalog {
	return Catalog{
		SitePackagePrice:   decimal.RequireFromString("499.00"),
		LanguageAddonPrice: decimal.RequireFromString("99.00"),
		HostingMonthly:     decimal.RequireFromString("25.00"),
		TaxRatePercent:     decimal.Zero,
		Currency:           "eur",
	}
}

func TestBuildSummaryBase(t *testing.T) {
	summary := testCatalog().BuildSummary(nil, nil)

	if !summary.Subtotal.Equal(decimal.RequireFromString("499.00")) {
		t.Fatalf("subtotal = %s, want 499.00", summary.Subtotal)
	}
	if !summary.Total.Equal(decimal.RequireFromString("499.00")) {
		t.Fatalf("total = %s, want 499.00", summary.Total)
	}
	if !summary.RecurringAmount.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("recurring = %s, want 25.00", summary.RecurringAmount)
	}
	if len(summary.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(summary.LineItems))
	}
}

func TestBuildSummaryLanguageAddons(t *testing.T) {
	summary := testCatalog().BuildSummary([]string{"fr", "de", "fr"}, nil)

	// 499 + 2x99, duplicate language counted once
	if !summary.Subtotal.Equal(decimal.RequireFromString("697.00")) {
		t.Fatalf("subtotal = %s, want 697.00", summary.Subtotal)
	}
	if len(summary.LineItems) != 4 {
		t.Fatalf("expected 4 line items, got %d", len(summary.LineItems))
	}
}

func TestBuildSummaryPercentDiscount(t *testing.T) {
	discount := &models.DiscountCode{
		Code:       "TEN",
		PercentOff: 10,
		Scope:      models.DiscountScopeOneTime,
		Active:     true,
	}
	summary := testCatalog().BuildSummary(nil, discount)

	if !summary.DiscountAmount.Equal(decimal.RequireFromString("49.90")) {
		t.Fatalf("discount = %s, want 49.90", summary.DiscountAmount)
	}
	if !summary.Total.Equal(decimal.RequireFromString("449.10")) {
		t.Fatalf("total = %s, want 449.10", summary.Total)
	}
	// One-time scope leaves the hosting price alone.
	if !summary.RecurringAmount.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("recurring = %s, want 25.00", summary.RecurringAmount)
	}
}

func TestBuildSummaryAmountOffCapped(t *testing.T) {
	discount := &models.DiscountCode{
		Code:      "BIG",
		AmountOff: decimal.RequireFromString("10000.00"),
		Scope:     models.DiscountScopeOneTime,
		Active:    true,
	}
	summary := testCatalog().BuildSummary(nil, discount)

	// An amount-off larger than the subtotal clamps to zero, never negative.
	if !summary.Total.Equal(decimal.Zero) {
		t.Fatalf("total = %s, want 0", summary.Total)
	}
	if !summary.DiscountAmount.Equal(decimal.RequireFromString("499.00")) {
		t.Fatalf("discount = %s, want 499.00", summary.DiscountAmount)
	}
}

func TestBuildSummaryFullDiscountKeepsRecurring(t *testing.T) {
	discount := &models.DiscountCode{
		Code:       "FREE",
		PercentOff: 100,
		Scope:      models.DiscountScopeOneTime,
		Active:     true,
	}
	summary := testCatalog().BuildSummary(nil, discount)

	if summary.Total.IsPositive() {
		t.Fatalf("total = %s, want 0", summary.Total)
	}
	if !summary.RecurringAmount.IsPositive() {
		t.Fatalf("expected recurring amount to survive a full one-time discount")
	}
}

func TestBuildSummaryRecurringScope(t *testing.T) {
	discount := &models.DiscountCode{
		Code:       "HOSTING50",
		PercentOff: 50,
		Scope:      models.DiscountScopeRecurring,
		Active:     true,
	}
	summary := testCatalog().BuildSummary(nil, discount)

	if !summary.Total.Equal(decimal.RequireFromString("499.00")) {
		t.Fatalf("total = %s, want 499.00", summary.Total)
	}
	if !summary.RecurringAmount.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("recurring = %s, want 12.50", summary.RecurringAmount)
	}
	if !summary.RecurringDiscount.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("recurring discount = %s, want 12.50", summary.RecurringDiscount)
	}
}

func TestBuildSummaryTaxOnDiscountedAmount(t *testing.T) {
	catalog := testCatalog()
	catalog.TaxRatePercent = decimal.RequireFromString("19")

	discount := &models.DiscountCode{
		Code:       "TEN",
		PercentOff: 10,
		Scope:      models.DiscountScopeOneTime,
		Active:     true,
	}
	summary := catalog.BuildSummary(nil, discount)

	// Tax applies after the discount: (499 - 49.90) * 19%
	if !summary.TaxAmount.Equal(decimal.RequireFromString("85.33")) {
		t.Fatalf("tax = %s, want 85.33", summary.TaxAmount)
	}
	if !summary.Total.Equal(decimal.RequireFromString("534.43")) {
		t.Fatalf("total = %s, want 534.43", summary.Total)
	}
}

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{in: "499.00", want: 49900},
		{in: "0", want: 0},
		{in: "12.50", want: 1250},
		{in: "0.01", want: 1},
	}
	for _, tt := range tests {
		if got := toMinorUnits(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Fatalf("toMinorUnits(%s) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
