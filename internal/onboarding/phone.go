package onboarding

import "strings"

// CleanPhone strips everything but digits from raw phone input, producing
// the canonical national number.
func CleanPhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatPhone renders the national number for display by grouping the
// first ten digits as XXX XXX XX XX. Shorter input is shown as the raw
// digits; digits past the tenth are appended ungrouped.
func FormatPhone(digits string) string {
	d := CleanPhone(digits)
	if len(d) < 10 {
		return d
	}
	return d[0:3] + " " + d[3:6] + " " + d[6:8] + " " + d[8:10] + d[10:]
}
