package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// OnboardingSubmission holds the form data collected across the wizard steps.
// FormDataJSON is the full aggregate; the columns next to it are the fields
// the checkout core reads directly and are kept in sync on every save.
type OnboardingSubmission struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	SessionID           uint      `gorm:"not null;uniqueIndex" json:"session_id"`
	Session             *OnboardingSession `gorm:"foreignKey:SessionID" json:"-"`
	FormDataJSON        string    `gorm:"type:longtext" json:"form_data_json"`
	AdditionalLanguages string    `gorm:"type:varchar(512);not null;default:'[]'" json:"additional_languages"`
	DiscountCode        string    `gorm:"type:varchar(64);not null;default:''" json:"discount_code"`
	AcceptTerms         bool      `gorm:"default:false" json:"accept_terms"`
	CompletedSteps      string    `gorm:"type:varchar(255);not null;default:''" json:"completed_steps"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Languages decodes the additional languages column.
func (s *OnboardingSubmission) Languages() []string {
	var langs []string
	if err := json.Unmarshal([]byte(s.AdditionalLanguages), &langs); err != nil {
		return nil
	}
	return langs
}

// SetLanguages encodes the additional languages column.
func (s *OnboardingSubmission) SetLanguages(langs []string) error {
	if langs == nil {
		langs = []string{}
	}
	raw, err := json.Marshal(langs)
	if err != nil {
		return err
	}
	s.AdditionalLanguages = string(raw)
	return nil
}

// StepCompleted reports whether a wizard step has been marked complete.
func (s *OnboardingSubmission) StepCompleted(step int) bool {
	for _, part := range strings.Split(s.CompletedSteps, ",") {
		if part == "" {
			continue
		}
		if n, err := strconv.Atoi(part); err == nil && n == step {
			return true
		}
	}
	return false
}

// MarkStepCompleted records a completed step exactly once.
func (s *OnboardingSubmission) MarkStepCompleted(step int) {
	if s.StepCompleted(step) {
		return
	}
	if s.CompletedSteps == "" {
		s.CompletedSteps = strconv.Itoa(step)
		return
	}
	s.CompletedSteps += "," + strconv.Itoa(step)
}
