package phone

import "strings"

// Normalize canonicalizes a raw phone string to digits-only form with the
// Indonesian country prefix. "0812..." becomes "62812...", "+62 812-..."
// becomes "62812...". Empty input yields empty output, caller must guard.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}

	if strings.HasPrefix(digits, "0") {
		return "62" + digits[1:]
	}
	if !strings.HasPrefix(digits, "62") {
		return "62" + digits
	}
	return digits
}

// Alternate returns the 0-prefixed form of a 62-prefixed number and vice
// versa. Tenants may have stored their device line in either form, so
// lookups match against both.
func Alternate(normalized string) string {
	switch {
	case strings.HasPrefix(normalized, "62"):
		return "0" + normalized[2:]
	case strings.HasPrefix(normalized, "0"):
		return "62" + normalized[1:]
	default:
		return normalized
	}
}

// Suffix returns the last n digits of the number, or the whole number when
// shorter than n. Used by the legacy suffix-matching fallback.
func Suffix(normalized string, n int) string {
	if len(normalized) <= n {
		return normalized
	}
	return normalized[len(normalized)-n:]
}
