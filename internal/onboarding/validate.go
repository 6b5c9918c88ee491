package onboarding

import "strings"

// ValidateDraft checks a completed draft in fixed priority order and
// returns the first failure. phoneVerified and slugTaken are supplied by
// the caller since they live outside the draft itself.
func ValidateDraft(d Draft, phoneVerified, slugTaken bool) *ValidationError {
	if strings.TrimSpace(d.OrgName) == "" {
		return &ValidationError{Field: "org_name", Message: "organization name is required"}
	}
	if !ValidOrgName(d.OrgName) {
		return &ValidationError{Field: "org_name", Message: "organization name must contain only Latin characters"}
	}
	if d.Type == AccountTypeOfficial && strings.TrimSpace(d.TaxIdentifier) == "" {
		return &ValidationError{Field: "tax_identifier", Message: "tax identifier is required for an official organization"}
	}
	if strings.TrimSpace(d.PhoneNumber) == "" {
		return &ValidationError{Field: "phone_number", Message: "phone number is required"}
	}
	if !phoneVerified {
		return &ValidationError{Field: "phone_number", Message: "phone number must be verified"}
	}
	if d.ContactEmail != "" && !ValidEmail(d.ContactEmail) {
		return &ValidationError{Field: "contact_email", Message: "contact email address is invalid"}
	}
	if slugTaken {
		return &ValidationError{Field: "org_name", Message: "organization name is already taken"}
	}
	return nil
}
