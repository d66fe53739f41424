package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/siteweaverhq/siteweaver/app/models"
)

var hundred = decimal.NewFromInt(100)

// BuildSummary prices the selected inputs against the catalog. A nil discount
// means no code is applied. The returned summary is a fresh snapshot.
func (c Catalog) BuildSummary(languages []string, discount *models.DiscountCode) Summary {
	langs := NormalizeLanguages(languages)

	items := make([]LineItem, 0, len(langs)+2)
	items = append(items, LineItem{
		ID:             "site_package",
		Description:    "Website design & build",
		Amount:         c.SitePackagePrice,
		OriginalAmount: c.SitePackagePrice,
		Quantity:       1,
	})
	for _, lang := range langs {
		items = append(items, LineItem{
			ID:             "language_" + lang,
			Description:    "Additional language: " + lang,
			Amount:         c.LanguageAddonPrice,
			OriginalAmount: c.LanguageAddonPrice,
			Quantity:       1,
		})
	}
	items = append(items, LineItem{
		ID:             "hosting_monthly",
		Description:    "Hosting & maintenance (monthly)",
		Amount:         c.HostingMonthly,
		OriginalAmount: c.HostingMonthly,
		Quantity:       1,
		IsRecurring:    true,
	})

	subtotal := decimal.Zero
	recurring := decimal.Zero
	for _, item := range items {
		if item.IsRecurring {
			recurring = recurring.Add(item.OriginalAmount)
		} else {
			subtotal = subtotal.Add(item.OriginalAmount)
		}
	}

	oneTimeDiscount := decimal.Zero
	recurringDiscount := decimal.Zero
	if discount != nil {
		if discount.PercentOff > 0 {
			pct := decimal.NewFromInt(int64(discount.PercentOff)).Div(hundred)
			if discount.AppliesToOneTime() {
				oneTimeDiscount = subtotal.Mul(pct).Round(2)
			}
			if discount.AppliesToRecurring() {
				recurringDiscount = recurring.Mul(pct).Round(2)
			}
		} else if discount.AmountOff.IsPositive() {
			if discount.AppliesToOneTime() {
				oneTimeDiscount = decimal.Min(discount.AmountOff, subtotal)
			}
			if discount.AppliesToRecurring() {
				recurringDiscount = decimal.Min(discount.AmountOff, recurring)
			}
		}
	}

	applyItemDiscounts(items, discount, oneTimeDiscount, recurringDiscount)

	tax := subtotal.Sub(oneTimeDiscount).Mul(c.TaxRatePercent).Div(hundred).Round(2)
	total := subtotal.Sub(oneTimeDiscount).Add(tax)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Summary{
		Subtotal:          subtotal,
		Total:             total,
		DiscountAmount:    oneTimeDiscount,
		RecurringAmount:   recurring.Sub(recurringDiscount),
		RecurringDiscount: recurringDiscount,
		TaxAmount:         tax,
		Currency:          c.Currency,
		LineItems:         items,
	}
}

// applyItemDiscounts attributes the computed discounts back onto the line
// items for display. Percent discounts are spread per item; fixed amounts
// land on the first matching item.
func applyItemDiscounts(items []LineItem, discount *models.DiscountCode, oneTime, recurring decimal.Decimal) {
	if discount == nil {
		return
	}

	if discount.PercentOff > 0 {
		pct := decimal.NewFromInt(int64(discount.PercentOff)).Div(hundred)
		for i := range items {
			if items[i].IsRecurring && !discount.AppliesToRecurring() {
				continue
			}
			if !items[i].IsRecurring && !discount.AppliesToOneTime() {
				continue
			}
			d := items[i].OriginalAmount.Mul(pct).Round(2)
			items[i].DiscountAmount = d
			items[i].Amount = items[i].OriginalAmount.Sub(d)
		}
		return
	}

	if oneTime.IsPositive() {
		for i := range items {
			if items[i].IsRecurring {
				continue
			}
			items[i].DiscountAmount = oneTime
			items[i].Amount = items[i].OriginalAmount.Sub(oneTime)
			if items[i].Amount.IsNegative() {
				items[i].Amount = decimal.Zero
			}
			break
		}
	}
	if recurring.IsPositive() {
		for i := range items {
			if !items[i].IsRecurring {
				continue
			}
			items[i].DiscountAmount = recurring
			items[i].Amount = items[i].OriginalAmount.Sub(recurring)
			if items[i].Amount.IsNegative() {
				items[i].Amount = decimal.Zero
			}
			break
		}
	}
}
