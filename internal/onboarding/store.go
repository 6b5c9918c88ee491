package onboarding

import "context"

// SlugDirectory probes whether a candidate slug is already claimed.
type SlugDirectory interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// Directory is the account collaborator behind the wizard: the slug
// probe, the existing-account pre-check, and application creation.
// Implementations must return ErrAccountExists for uniqueness conflicts
// so the wizard can tell conflict from generic failure.
type Directory interface {
	SlugDirectory

	// HasAccount reports whether the user already owns a developer account.
	HasAccount(ctx context.Context, userID string) (bool, error)

	// CreateAccount persists a new application and returns its ID.
	CreateAccount(ctx context.Context, app Application) (string, error)
}

// VerificationChannel carries the out-of-band phone verification
// handshake. Implementations call onVerified exactly once when the number
// is confirmed; the wizard never inspects how confirmation happens.
type VerificationChannel interface {
	Request(ctx context.Context, fullPhone string, onVerified func()) error
}
