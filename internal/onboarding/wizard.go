package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/zenhub-store/devportal/internal/storage"
	"github.com/zenhub-store/devportal/pkg/logger"
)

// Storage keys for the persisted wizard state. The draft and step travel
// together; the phone-verified flag has its own key and survives draft
// edits.
const (
	draftStorageKey    = "dev_account_form"
	stepStorageKey     = "dev_account_step"
	verifiedStorageKey = "phone_verified"
)

// Wizard errors.
var (
	// ErrAccountExists blocks submission when the user already owns a
	// developer account (pre-check or creation conflict).
	ErrAccountExists = errors.New("developer account already exists for this user")
	// ErrStepBlocked rejects a forward transition whose gate predicate
	// does not hold.
	ErrStepBlocked = errors.New("step requirements not met")
	// ErrSubmitInProgress rejects re-entrant submission.
	ErrSubmitInProgress = errors.New("submission already in progress")
)

// ValidationError is a field-targeted user-facing validation failure. It
// is never logged and never mutates persisted state.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Wizard drives the three-step developer-account registration flow. One
// wizard instance owns the open dialog; it is the single writer of the
// persisted draft, step, and verification keys.
type Wizard struct {
	userID    string
	directory Directory
	store     storage.Store
	channel   VerificationChannel
	checker   *Checker
	log       *logger.Logger

	mu         sync.Mutex
	draft      Draft
	step       Step
	verified   bool
	orgNameBad bool
	submitting bool
}

// NewWizard creates a wizard for the user, rehydrating any abandoned
// draft from the store. Rehydration never schedules a slug probe; the
// candidate slug is recomputed and availability stays unknown until the
// next edit.
func NewWizard(userID string, directory Directory, store storage.Store, channel VerificationChannel, log *logger.Logger) *Wizard {
	if log == nil {
		log = logger.NewDefault("onboarding")
	}

	w := &Wizard{
		userID:    userID,
		directory: directory,
		store:     store,
		channel:   channel,
		checker:   NewChecker(directory, log),
		log:       log,
		draft:     DefaultDraft(),
		step:      StepIdentity,
	}
	w.rehydrate()
	return w
}

// Checker exposes the slug availability checker, e.g. to wire its clock
// or update callback.
func (w *Wizard) Checker() *Checker { return w.checker }

// rehydrate loads the persisted draft, step, and verification flag,
// tolerating absent or corrupt values.
func (w *Wizard) rehydrate() {
	if raw, ok := w.store.Get(draftStorageKey); ok {
		mergeDraft(&w.draft, raw)
	}
	// The display number is a projection of the national number, never
	// trusted from storage.
	w.draft.PhoneDisplay = FormatPhone(w.draft.PhoneNumber)
	w.orgNameBad = w.draft.OrgName != "" && !ValidOrgName(w.draft.OrgName)

	if raw, ok := w.store.Get(stepStorageKey); ok {
		if step, err := strconv.Atoi(raw); err == nil && Step(step) >= minStep && Step(step) <= maxStep {
			w.step = Step(step)
		}
	}

	if raw, ok := w.store.Get(verifiedStorageKey); ok {
		w.verified = raw == "true"
	}

	if w.draft.OrgName != "" {
		w.checker.Seed(GenerateSlug(w.draft.OrgName))
	}
}

// mergeDraft applies stored fields onto defaults, field by field. Unknown
// keys are ignored; a corrupt payload leaves the defaults untouched.
func mergeDraft(dst *Draft, raw string) {
	var patch struct {
		OrgName       *string      `json:"org_name"`
		TaxIdentifier *string      `json:"tax_identifier"`
		Website       *string      `json:"website"`
		ContactEmail  *string      `json:"contact_email"`
		GithubURL     *string      `json:"github_url"`
		LegalAddress  *string      `json:"legal_address"`
		Type          *AccountType `json:"type"`
		PhoneCountry  *string      `json:"phone_country"`
		PhoneNumber   *string      `json:"phone_number"`
	}
	if err := json.Unmarshal([]byte(raw), &patch); err != nil {
		return
	}
	if patch.OrgName != nil {
		dst.OrgName = *patch.OrgName
	}
	if patch.TaxIdentifier != nil {
		dst.TaxIdentifier = *patch.TaxIdentifier
	}
	if patch.Website != nil {
		dst.Website = *patch.Website
	}
	if patch.ContactEmail != nil {
		dst.ContactEmail = *patch.ContactEmail
	}
	if patch.GithubURL != nil {
		dst.GithubURL = *patch.GithubURL
	}
	if patch.LegalAddress != nil {
		dst.LegalAddress = *patch.LegalAddress
	}
	if patch.Type != nil && (*patch.Type == AccountTypeOfficial || *patch.Type == AccountTypeIndividual) {
		dst.Type = *patch.Type
	}
	if patch.PhoneCountry != nil && *patch.PhoneCountry != "" {
		dst.PhoneCountry = *patch.PhoneCountry
	}
	if patch.PhoneNumber != nil {
		dst.PhoneNumber = CleanPhone(*patch.PhoneNumber)
	}
}

// Accessors.

// Draft returns a copy of the current draft.
func (w *Wizard) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Step returns the current wizard step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// PhoneVerified reports whether the phone handshake has completed.
func (w *Wizard) PhoneVerified() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.verified
}

// SlugState returns the checker's current state.
func (w *Wizard) SlugState() SlugState {
	return w.checker.State()
}

// OrgNameValid reports whether the current organization name passes the
// format check.
func (w *Wizard) OrgNameValid() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.orgNameBad
}

// Field mutations. Every mutation re-persists the draft and step.

// SetOrgName updates the organization name, revalidates its format, and
// kicks the debounced slug check.
func (w *Wizard) SetOrgName(name string) {
	w.mu.Lock()
	w.draft.OrgName = name
	w.orgNameBad = name != "" && !ValidOrgName(name)
	w.persistLocked()
	w.mu.Unlock()

	w.checker.NameChanged(name)
}

func (w *Wizard) SetTaxIdentifier(v string) { w.setField(func(d *Draft) { d.TaxIdentifier = v }) }
func (w *Wizard) SetWebsite(v string)       { w.setField(func(d *Draft) { d.Website = v }) }
func (w *Wizard) SetContactEmail(v string)  { w.setField(func(d *Draft) { d.ContactEmail = v }) }
func (w *Wizard) SetGithubURL(v string)     { w.setField(func(d *Draft) { d.GithubURL = v }) }
func (w *Wizard) SetLegalAddress(v string)  { w.setField(func(d *Draft) { d.LegalAddress = v }) }

// SetAccountType switches between official and individual. Unknown values
// are ignored.
func (w *Wizard) SetAccountType(t AccountType) {
	if t != AccountTypeOfficial && t != AccountTypeIndividual {
		return
	}
	w.setField(func(d *Draft) { d.Type = t })
}

// SetPhoneCountry selects the dialing code.
func (w *Wizard) SetPhoneCountry(code string) {
	if code == "" {
		return
	}
	w.setField(func(d *Draft) { d.PhoneCountry = code })
}

// SetPhoneNumber accepts raw phone input, keeps the digits as the
// canonical national number, and derives the display projection.
func (w *Wizard) SetPhoneNumber(raw string) {
	cleaned := CleanPhone(raw)
	w.setField(func(d *Draft) {
		d.PhoneNumber = cleaned
		d.PhoneDisplay = FormatPhone(cleaned)
	})
}

func (w *Wizard) setField(mutate func(*Draft)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	mutate(&w.draft)
	w.persistLocked()
}

// Navigation.

// CanAdvanceFromStep1 is the step-1 gate: a present, format-valid
// organization name, a slug not confirmed taken, and a tax identifier for
// official accounts.
func (w *Wizard) CanAdvanceFromStep1() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canAdvanceFromStep1Locked()
}

func (w *Wizard) canAdvanceFromStep1Locked() bool {
	if strings.TrimSpace(w.draft.OrgName) == "" || w.orgNameBad {
		return false
	}
	if w.checker.State().Availability == AvailabilityTaken {
		return false
	}
	return w.draft.Type == AccountTypeIndividual || strings.TrimSpace(w.draft.TaxIdentifier) != ""
}

// CanGoToStep reports whether the wizard may land on step k, directly or
// sequentially: every step up to k must be individually satisfiable.
func (w *Wizard) CanGoToStep(k Step) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canGoToStepLocked(k)
}

func (w *Wizard) canGoToStepLocked(k Step) bool {
	switch k {
	case StepIdentity:
		return true
	case StepPhoneVerify:
		return w.canAdvanceFromStep1Locked()
	case StepMetadata:
		return w.canAdvanceFromStep1Locked() && w.verified
	default:
		return false
	}
}

// Next advances one step, or returns ErrStepBlocked when the gate fails.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step >= maxStep {
		return nil
	}
	if !w.canGoToStepLocked(w.step + 1) {
		return ErrStepBlocked
	}
	w.step++
	w.persistLocked()
	return nil
}

// Prev moves one step back. Backward transitions are unconditional.
func (w *Wizard) Prev() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > minStep {
		w.step--
		w.persistLocked()
	}
}

// GoToStep jumps to step k via the step indicator, under exactly the
// gates sequential traversal would apply.
func (w *Wizard) GoToStep(k Step) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if k < minStep || k > maxStep {
		return ErrStepBlocked
	}
	if k > w.step && !w.canGoToStepLocked(k) {
		return ErrStepBlocked
	}
	w.step = k
	w.persistLocked()
	return nil
}

// Verification.

// RequestVerification opens the verification channel for the drafted
// phone number. Completion arrives asynchronously via the channel.
func (w *Wizard) RequestVerification(ctx context.Context) error {
	w.mu.Lock()
	phone := w.draft.FullPhone()
	w.mu.Unlock()

	if err := w.channel.Request(ctx, phone, w.markVerified); err != nil {
		return fmt.Errorf("request verification: %w", err)
	}
	return nil
}

func (w *Wizard) markVerified() {
	w.mu.Lock()
	w.verified = true
	w.store.Set(verifiedStorageKey, "true")
	w.mu.Unlock()

	w.log.Info("phone number verified")
}

// Validate runs full-form validation in fixed priority order and returns
// the first failure.
func (w *Wizard) Validate() *ValidationError {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.validateLocked()
}

func (w *Wizard) validateLocked() *ValidationError {
	taken := w.checker.State().Availability == AvailabilityTaken
	return ValidateDraft(w.draft, w.verified, taken)
}

// Submit validates the full form, pre-checks for an existing account, and
// creates the application with pending status. Success clears all
// persisted keys and resets the wizard for a possible next registration;
// any failure leaves the draft and step untouched for retry.
func (w *Wizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return ErrSubmitInProgress
	}
	if verr := w.validateLocked(); verr != nil {
		w.mu.Unlock()
		return verr
	}
	w.submitting = true
	draft := w.draft
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.submitting = false
		w.mu.Unlock()
	}()

	exists, err := w.directory.HasAccount(ctx, w.userID)
	if err != nil {
		return fmt.Errorf("check existing account: %w", err)
	}
	if exists {
		return ErrAccountExists
	}

	app := Application{
		UserID:        w.userID,
		OrgName:       draft.OrgName,
		Website:       draft.Website,
		ContactEmail:  draft.ContactEmail,
		GithubURL:     draft.GithubURL,
		TaxIdentifier: draft.TaxIdentifier,
		Phone:         draft.FullPhone(),
		Status:        StatusPending,
	}
	// The legal address only applies to registered organizations.
	if draft.Type == AccountTypeOfficial {
		app.LegalAddress = draft.LegalAddress
	}

	id, err := w.directory.CreateAccount(ctx, app)
	if err != nil {
		if errors.Is(err, ErrAccountExists) {
			return ErrAccountExists
		}
		return fmt.Errorf("create account: %w", err)
	}

	w.log.WithField("account_id", id).
		WithField("org_name", draft.OrgName).
		Info("developer account application submitted")

	w.reset()
	return nil
}

// reset restores initial state after a successful submission.
func (w *Wizard) reset() {
	w.mu.Lock()
	w.draft = DefaultDraft()
	w.step = StepIdentity
	w.verified = false
	w.orgNameBad = false
	w.store.Remove(draftStorageKey)
	w.store.Remove(stepStorageKey)
	w.store.Remove(verifiedStorageKey)
	w.mu.Unlock()

	w.checker.Reset()
}

// Close releases the checker's pending timer. The draft stays in storage
// for the next session.
func (w *Wizard) Close() {
	w.checker.Close()
}

// persistLocked writes the draft and step through to storage. Caller
// holds mu. Serialization failure is swallowed; the wizard then behaves
// as if stateless.
func (w *Wizard) persistLocked() {
	if data, err := json.Marshal(w.draft); err == nil {
		w.store.Set(draftStorageKey, string(data))
	}
	w.store.Set(stepStorageKey, strconv.Itoa(int(w.step)))
}
