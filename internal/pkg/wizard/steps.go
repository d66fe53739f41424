package wizard

// Step is one screen of the onboarding wizard. Steps are ordered; the
// checkout is always last.
type Step int

const (
	StepBusinessProfile Step = iota + 1
	StepContactDetails
	StepGoals
	StepDesignStyle
	StepColors
	StepTypography
	StepPages
	StepCatalog
	StepUploads
	StepLanguages
	StepDomain
	StepAddOns
	StepReview
	StepCheckout
)

// StepCount is the number of wizard steps.
const StepCount = 14

var stepNames = map[Step]string{
	StepBusinessProfile: "business_profile",
	StepContactDetails:  "contact_details",
	StepGoals:           "goals",
	StepDesignStyle:     "design_style",
	StepColors:          "colors",
	StepTypography:      "typography",
	StepPages:           "pages",
	StepCatalog:         "catalog",
	StepUploads:         "uploads",
	StepLanguages:       "languages",
	StepDomain:          "domain",
	StepAddOns:          "add_ons",
	StepReview:          "review",
	StepCheckout:        "checkout",
}

// String returns the step's slug.
func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether the step exists.
func (s Step) Valid() bool {
	return s >= StepBusinessProfile && s <= StepCheckout
}

// Next returns the following step, or false at the end.
func (s Step) Next() (Step, bool) {
	if !s.Valid() || s == StepCheckout {
		return s, false
	}
	return s + 1, true
}

// IsOptional reports whether a step may be skipped without data. Uploads,
// languages, domain and add-ons are genuinely optional for the customer.
func (s Step) IsOptional() bool {
	switch s {
	case StepUploads, StepLanguages, StepDomain, StepAddOns:
		return true
	default:
		return false
	}
}

// CanAdvance reports whether the wizard may move from the current step to the
// target. Moving backwards is always allowed; moving forward requires every
// earlier non-optional step to be complete.
func CanAdvance(target Step, currentStep Step, completed func(Step) bool) bool {
	if !target.Valid() {
		return false
	}
	if target <= currentStep {
		return true
	}
	for s := StepBusinessProfile; s < target; s++ {
		if s.IsOptional() {
			continue
		}
		if !completed(s) {
			return false
		}
	}
	return true
}
