package translations

import (
	"context"
	"fmt"
	"sync"

	"github.com/zenhub-store/devportal/pkg/logger"
)

// OverrideLookup loads override records, batched by app-id set and
// language.
type OverrideLookup interface {
	ListForApps(ctx context.Context, appIDs []string, lang string) ([]Override, error)
}

// Resolver holds the current language and override set for a fixed group
// of apps and re-projects synchronously when either changes. A failed
// reload keeps the previous override set so the view never degrades
// mid-session.
type Resolver struct {
	mu        sync.Mutex
	lookup    OverrideLookup
	log       *logger.Logger
	appIDs    []string
	lang      string
	overrides []Override
}

// NewResolver creates a resolver for the given language.
func NewResolver(lookup OverrideLookup, lang string, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewDefault("translations")
	}
	return &Resolver{lookup: lookup, lang: lang, log: log}
}

// Load sets the app-id group and fetches its overrides for the current
// language.
func (r *Resolver) Load(ctx context.Context, appIDs []string) error {
	r.mu.Lock()
	r.appIDs = append([]string(nil), appIDs...)
	r.mu.Unlock()
	return r.reload(ctx)
}

// SetLanguage switches the active language and refetches overrides for
// the loaded apps.
func (r *Resolver) SetLanguage(ctx context.Context, lang string) error {
	r.mu.Lock()
	r.lang = lang
	r.mu.Unlock()
	return r.reload(ctx)
}

// Language returns the active language.
func (r *Resolver) Language() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lang
}

// Invalidate refetches overrides for the loaded apps, picking up newly
// arrived data.
func (r *Resolver) Invalidate(ctx context.Context) error {
	return r.reload(ctx)
}

// ProjectAll projects the base entries against the cached override set.
func (r *Resolver) ProjectAll(bases []Base) []LocalizedView {
	r.mu.Lock()
	overrides := r.overrides
	lang := r.lang
	r.mu.Unlock()
	return ProjectAll(bases, overrides, lang)
}

// Project projects a single base entry.
func (r *Resolver) Project(base Base) LocalizedView {
	r.mu.Lock()
	overrides := r.overrides
	lang := r.lang
	r.mu.Unlock()
	return Project(base, overrides, lang)
}

func (r *Resolver) reload(ctx context.Context) error {
	r.mu.Lock()
	appIDs := append([]string(nil), r.appIDs...)
	lang := r.lang
	r.mu.Unlock()

	if len(appIDs) == 0 {
		return nil
	}

	overrides, err := r.lookup.ListForApps(ctx, appIDs, lang)
	if err != nil {
		r.log.WithError(err).WithField("lang", lang).Warn("translation reload failed")
		return fmt.Errorf("load overrides: %w", err)
	}

	r.mu.Lock()
	// Apply only if the language has not changed while fetching.
	if r.lang == lang {
		r.overrides = overrides
	}
	r.mu.Unlock()
	return nil
}
