package wizard

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// BusinessProfile is step 1.
type BusinessProfile struct {
	CompanyName string `json:"company_name" validate:"required,min=2,max=120"`
	Industry    string `json:"industry" validate:"max=80"`
	Description string `json:"description" validate:"max=2000"`
}

// ContactDetails is step 2 and doubles as the billing-detail prefill.
type ContactDetails struct {
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"max=40"`
	Country      string `json:"country" validate:"required,iso3166_1_alpha2"`
	City         string `json:"city" validate:"max=120"`
	AddressLine1 string `json:"address_line1" validate:"max=255"`
	PostalCode   string `json:"postal_code" validate:"max=20"`
}

// Goals is step 3.
type Goals struct {
	Goals []string `json:"goals" validate:"max=5,dive,max=80"`
	Notes string   `json:"notes" validate:"max=2000"`
}

// DesignStyle is step 4.
type DesignStyle struct {
	Style      string   `json:"style" validate:"omitempty,oneof=modern classic playful minimal bold"`
	References []string `json:"references" validate:"max=5,dive,url"`
}

// Colors is step 5.
type Colors struct {
	Primary   string `json:"primary" validate:"omitempty,hexcolor"`
	Secondary string `json:"secondary" validate:"omitempty,hexcolor"`
	Accent    string `json:"accent" validate:"omitempty,hexcolor"`
}

// Typography is step 6.
type Typography struct {
	HeadingFont string `json:"heading_font" validate:"max=80"`
	BodyFont    string `json:"body_font" validate:"max=80"`
}

// Pages is step 7.
type Pages struct {
	Pages []string `json:"pages" validate:"required,min=1,max=20,dive,max=80"`
}

// CatalogItem is one product or service entry of step 8.
type CatalogItem struct {
	Name        string          `json:"name" validate:"required,max=120"`
	Description string          `json:"description" validate:"max=1000"`
	Price       decimal.Decimal `json:"price"`
}

// Catalog is step 8.
type Catalog struct {
	Items []CatalogItem `json:"items" validate:"max=50,dive"`
}

// Uploads is step 9; the files themselves live in the asset store.
type Uploads struct {
	LogoAssetUUID string   `json:"logo_asset_uuid" validate:"omitempty,uuid"`
	AssetUUIDs    []string `json:"asset_uuids" validate:"max=30,dive,uuid"`
}

// Languages is step 10. Additional languages are priced add-ons and feed the
// checkout request key.
type Languages struct {
	Primary    string   `json:"primary" validate:"required,min=2,max=8"`
	Additional []string `json:"additional" validate:"max=10,dive,min=2,max=8"`
}

// Domain is step 11.
type Domain struct {
	DomainName     string `json:"domain_name" validate:"omitempty,fqdn"`
	WantsNewDomain bool   `json:"wants_new_domain"`
}

// AddOns is step 12.
type AddOns struct {
	SEO        bool `json:"seo"`
	Analytics  bool `json:"analytics"`
	Newsletter bool `json:"newsletter"`
}

// Review is step 13; AcceptTerms gates the final submit.
type Review struct {
	DiscountCode string `json:"discount_code" validate:"max=64"`
	AcceptTerms  bool   `json:"accept_terms"`
}

// FormData aggregates everything the wizard collects. It is persisted as one
// JSON document on the submission.
type FormData struct {
	BusinessProfile BusinessProfile `json:"business_profile"`
	ContactDetails  ContactDetails  `json:"contact_details"`
	Goals           Goals           `json:"goals"`
	DesignStyle     DesignStyle     `json:"design_style"`
	Colors          Colors          `json:"colors"`
	Typography      Typography      `json:"typography"`
	Pages           Pages           `json:"pages"`
	Catalog         Catalog         `json:"catalog"`
	Uploads         Uploads         `json:"uploads"`
	Languages       Languages       `json:"languages"`
	Domain          Domain          `json:"domain"`
	AddOns          AddOns          `json:"add_ons"`
	Review          Review          `json:"review"`
}

// ParseFormData decodes the persisted JSON aggregate.
func ParseFormData(raw string) (*FormData, error) {
	if raw == "" {
		raw = "{}"
	}
	var data FormData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("parse form data: %w", err)
	}
	return &data, nil
}

// Encode serializes the aggregate for persistence.
func (d *FormData) Encode() (string, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encode form data: %w", err)
	}
	return string(raw), nil
}

// ValidateStep checks the section belonging to one step. Steps without a
// payload (uploads, checkout) validate clean by construction.
func (d *FormData) ValidateStep(step Step) error {
	var section interface{}
	switch step {
	case StepBusinessProfile:
		section = d.BusinessProfile
	case StepContactDetails:
		section = d.ContactDetails
	case StepGoals:
		section = d.Goals
	case StepDesignStyle:
		section = d.DesignStyle
	case StepColors:
		section = d.Colors
	case StepTypography:
		section = d.Typography
	case StepPages:
		section = d.Pages
	case StepCatalog:
		section = d.Catalog
	case StepUploads:
		section = d.Uploads
	case StepLanguages:
		section = d.Languages
	case StepDomain:
		section = d.Domain
	case StepAddOns:
		section = d.AddOns
	case StepReview:
		section = d.Review
	case StepCheckout:
		return nil
	default:
		return fmt.Errorf("unknown step %d", step)
	}
	return validate.Struct(section)
}
