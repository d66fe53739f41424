package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/siteweaverhq/siteweaver/internal/pkg/env"
)

// Catalog holds the base prices the checkout is built from. Prices are
// tax-exclusive; TaxRatePercent is applied to the discounted one-time total.
type Catalog struct {
	SitePackagePrice   decimal.Decimal
	LanguageAddonPrice decimal.Decimal
	HostingMonthly     decimal.Decimal
	TaxRatePercent     decimal.Decimal
	Currency           string
}

// LoadCatalogFromEnv reads the price catalog from environment configuration.
func LoadCatalogFromEnv() Catalog {
	return Catalog{
		SitePackagePrice:   mustDecimal(env.GetEnv("PRICE_SITE_PACKAGE", "499.00")),
		LanguageAddonPrice: mustDecimal(env.GetEnv("PRICE_LANGUAGE_ADDON", "99.00")),
		HostingMonthly:     mustDecimal(env.GetEnv("PRICE_HOSTING_MONTHLY", "25.00")),
		TaxRatePercent:     mustDecimal(env.GetEnv("PRICE_TAX_RATE_PERCENT", "0")),
		Currency:           env.GetEnv("PRICE_CURRENCY", "eur"),
	}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
