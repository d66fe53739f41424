package pricing

import (
	"sort"
	"strings"
)

// BuildRequestKey computes the canonical, order-independent fingerprint of
// the inputs that affect pricing. Two calls with set-equal languages and the
// same trimmed discount code always produce the same key, so the refresh
// controller can skip redundant backend calls.
func BuildRequestKey(languages []string, discountCode string) string {
	langs := NormalizeLanguages(languages)
	code := strings.TrimSpace(discountCode)
	if code == "" {
		code = "-"
	}
	return "langs=" + strings.Join(langs, ",") + "|code=" + code
}

// NormalizeLanguages returns the sorted, deduplicated language set with
// whitespace and empty entries removed.
func NormalizeLanguages(languages []string) []string {
	seen := make(map[string]struct{}, len(languages))
	out := make([]string, 0, len(languages))
	for _, raw := range languages {
		lang := strings.TrimSpace(raw)
		if lang == "" {
			continue
		}
		if _, ok := seen[lang]; ok {
			continue
		}
		seen[lang] = struct{}{}
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}
