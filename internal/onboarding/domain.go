// Package onboarding implements the developer-account registration core:
// a three-step wizard state machine, a debounced slug-availability
// checker, and the phone-verification handshake.
package onboarding

// AccountType distinguishes registered organizations from individuals.
type AccountType string

const (
	AccountTypeOfficial   AccountType = "official"
	AccountTypeIndividual AccountType = "individual"
)

// Step is the wizard's current position.
type Step int

const (
	StepIdentity    Step = 1 // organization identity
	StepPhoneVerify Step = 2 // phone verification
	StepMetadata    Step = 3 // optional metadata
)

const (
	minStep = StepIdentity
	maxStep = StepMetadata
)

// Availability is the tri-state result of a slug uniqueness probe.
type Availability int

const (
	AvailabilityUnknown Availability = iota
	AvailabilityAvailable
	AvailabilityTaken
)

func (a Availability) String() string {
	switch a {
	case AvailabilityAvailable:
		return "available"
	case AvailabilityTaken:
		return "taken"
	default:
		return "unknown"
	}
}

// SlugState is the ephemeral state of the availability checker. It is
// never persisted; it recomputes from the organization name.
type SlugState struct {
	Slug         string
	Checking     bool
	Availability Availability
}

// DefaultPhoneCountry is the preselected dialing code.
const DefaultPhoneCountry = "+7"

// Draft is the in-progress developer-account application. JSON tags match
// the persisted form so drafts survive client versions.
type Draft struct {
	OrgName       string      `json:"org_name"`
	TaxIdentifier string      `json:"tax_identifier"`
	Website       string      `json:"website"`
	ContactEmail  string      `json:"contact_email"`
	GithubURL     string      `json:"github_url"`
	LegalAddress  string      `json:"legal_address"`
	Type          AccountType `json:"type"`
	PhoneCountry  string      `json:"phone_country"`
	PhoneNumber   string      `json:"phone_number"`
	PhoneDisplay  string      `json:"phone_display"`
}

// DefaultDraft returns an empty draft with defaults applied.
func DefaultDraft() Draft {
	return Draft{
		Type:         AccountTypeOfficial,
		PhoneCountry: DefaultPhoneCountry,
	}
}

// FullPhone returns the international number: country code plus national
// digits.
func (d Draft) FullPhone() string {
	return d.PhoneCountry + d.PhoneNumber
}

// Application is the assembled submission handed to the account
// collaborator.
type Application struct {
	UserID        string `json:"user_id"`
	OrgName       string `json:"org_name"`
	Website       string `json:"website"`
	ContactEmail  string `json:"contact_email"`
	GithubURL     string `json:"github_url"`
	LegalAddress  string `json:"legal_address"`
	TaxIdentifier string `json:"tax_identifier"`
	Phone         string `json:"phone"`
	Status        string `json:"status"`
}

// StatusPending is the initial status of every submitted application.
const StatusPending = "pending"

// CountryCode is a dialing-code catalog entry.
type CountryCode struct {
	Code    string `json:"code"`
	Country string `json:"country"`
}

// CountryCodes is the dialing codes offered on the phone step.
var CountryCodes = []CountryCode{
	{Code: "+7", Country: "Russia"},
	{Code: "+1", Country: "USA/Canada"},
	{Code: "+44", Country: "United Kingdom"},
	{Code: "+49", Country: "Germany"},
	{Code: "+33", Country: "France"},
	{Code: "+39", Country: "Italy"},
	{Code: "+34", Country: "Spain"},
	{Code: "+86", Country: "China"},
	{Code: "+81", Country: "Japan"},
	{Code: "+82", Country: "South Korea"},
	{Code: "+61", Country: "Australia"},
	{Code: "+65", Country: "Singapore"},
	{Code: "+971", Country: "UAE"},
	{Code: "+380", Country: "Ukraine"},
	{Code: "+375", Country: "Belarus"},
}
