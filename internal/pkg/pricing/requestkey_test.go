package pricing

import (
	"reflect"
	"testing"
)

func TestBuildRequestKey(t *testing.T) {
	tests := []struct {
		name  string
		langs []string
		code  string
		want  string
	}{
		{name: "empty", langs: nil, code: "", want: "langs=|code=-"},
		{name: "single language", langs: []string{"fr"}, code: "", want: "langs=fr|code=-"},
		{name: "sorted", langs: []string{"fr", "de"}, code: "", want: "langs=de,fr|code=-"},
		{name: "deduplicated", langs: []string{"fr", "fr", "de"}, code: "", want: "langs=de,fr|code=-"},
		{name: "trimmed entries", langs: []string{" fr ", "de"}, code: "", want: "langs=de,fr|code=-"},
		{name: "blank entries dropped", langs: []string{"", "fr", "  "}, code: "", want: "langs=fr|code=-"},
		{name: "code trimmed", langs: nil, code: "  LAUNCH10  ", want: "langs=|code=LAUNCH10"},
		{name: "code and languages", langs: []string{"es", "de"}, code: "LAUNCH10", want: "langs=de,es|code=LAUNCH10"},
	}

	for _, tt := range tests {
		if got := BuildRequestKey(tt.langs, tt.code); got != tt.want {
			t.Fatalf("%s: BuildRequestKey(%v, %q) = %q, want %q", tt.name, tt.langs, tt.code, got, tt.want)
		}
	}
}

func TestBuildRequestKeyOrderIndependent(t *testing.T) {
	a := BuildRequestKey([]string{"fr", "de", "es"}, "CODE")
	b := BuildRequestKey([]string{"es", "fr", "de"}, "CODE")
	c := BuildRequestKey([]string{"de", "es", "fr", "de"}, " CODE ")
	if a != b || b != c {
		t.Fatalf("expected identical keys, got %q, %q, %q", a, b, c)
	}
}

func TestNormalizeLanguages(t *testing.T) {
	got := NormalizeLanguages([]string{" it", "de", "", "de", "fr "})
	want := []string{"de", "fr", "it"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeLanguages = %v, want %v", got, want)
	}
}
