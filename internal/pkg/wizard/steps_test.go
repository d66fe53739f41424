package wizard

import "testing"

func TestStepString(t *testing.T) {
	tests := []struct {
		step Step
		want string
	}{
		{step: StepBusinessProfile, want: "business_profile"},
		{step: StepLanguages, want: "languages"},
		{step: StepCheckout, want: "checkout"},
		{step: Step(99), want: "unknown"},
	}

	for _, tt := range tests {
		if got := tt.step.String(); got != tt.want {
			t.Fatalf("Step(%d).String() = %q, want %q", tt.step, got, tt.want)
		}
	}
}

func TestStepNext(t *testing.T) {
	next, ok := StepBusinessProfile.Next()
	if !ok || next != StepContactDetails {
		t.Fatalf("Next() = %v, %v", next, ok)
	}
	if _, ok := StepCheckout.Next(); ok {
		t.Fatalf("checkout must be the last step")
	}
}

func TestStepValid(t *testing.T) {
	if Step(0).Valid() || Step(StepCount+1).Valid() {
		t.Fatalf("out-of-range steps must be invalid")
	}
	for s := StepBusinessProfile; s <= StepCheckout; s++ {
		if !s.Valid() {
			t.Fatalf("step %d should be valid", s)
		}
	}
}

func TestCanAdvanceBackwardsAlwaysAllowed(t *testing.T) {
	nothingDone := func(Step) bool { return false }
	if !CanAdvance(StepBusinessProfile, StepReview, nothingDone) {
		t.Fatalf("moving backwards must always be allowed")
	}
	if !CanAdvance(StepGoals, StepGoals, nothingDone) {
		t.Fatalf("staying on the current step must be allowed")
	}
}

func TestCanAdvanceForwardRequiresCompletion(t *testing.T) {
	completed := map[Step]bool{
		StepBusinessProfile: true,
		StepContactDetails:  true,
	}
	done := func(s Step) bool { return completed[s] }

	if !CanAdvance(StepGoals, StepContactDetails, done) {
		t.Fatalf("expected advance to goals with the first two steps done")
	}
	if CanAdvance(StepDesignStyle, StepContactDetails, done) {
		t.Fatalf("expected advance past goals to be blocked")
	}
}

func TestCanAdvanceSkipsOptionalSteps(t *testing.T) {
	done := func(s Step) bool {
		// Everything required is complete, the optional steps are not.
		return !s.IsOptional()
	}

	if !CanAdvance(StepCheckout, StepReview, done) {
		t.Fatalf("optional steps must not block the checkout")
	}
}

func TestCanAdvanceRejectsInvalidTarget(t *testing.T) {
	if CanAdvance(Step(0), StepBusinessProfile, func(Step) bool { return true }) {
		t.Fatalf("invalid target must be rejected")
	}
}
