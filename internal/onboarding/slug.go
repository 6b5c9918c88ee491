package onboarding

import (
	"regexp"
	"strings"
)

var (
	whitespacePattern   = regexp.MustCompile(`\s+`)
	slugForbidden       = regexp.MustCompile(`[^a-z0-9-]`)
	orgNamePattern      = regexp.MustCompile(`^[A-Za-z\s\-&.,()]+$`)
	contactEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// GenerateSlug derives the URL-safe identifier from an organization name:
// lowercase, whitespace removed, then every character outside [a-z0-9-]
// removed.
func GenerateSlug(orgName string) string {
	slug := strings.ToLower(orgName)
	slug = whitespacePattern.ReplaceAllString(slug, "")
	return slugForbidden.ReplaceAllString(slug, "")
}

// ValidOrgName reports whether the name passes the Latin-plus-punctuation
// pattern. The empty string is valid at the field level; required-ness is
// checked separately.
func ValidOrgName(name string) bool {
	if name == "" {
		return true
	}
	return orgNamePattern.MatchString(name)
}

// ValidEmail reports whether the address has a basic local@domain.tld
// shape.
func ValidEmail(email string) bool {
	return contactEmailPattern.MatchString(email)
}
