package translations

import (
	"context"
	"sync"
)

// MemoryLookup is an in-memory OverrideLookup for tests.
type MemoryLookup struct {
	mu        sync.RWMutex
	overrides []Override
	err       error
	calls     int
}

// NewMemoryLookup creates a lookup serving the given overrides.
func NewMemoryLookup(overrides ...Override) *MemoryLookup {
	return &MemoryLookup{overrides: overrides}
}

// SetOverrides replaces the served override set.
func (m *MemoryLookup) SetOverrides(overrides ...Override) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides = overrides
}

// FailWith makes subsequent lookups return err.
func (m *MemoryLookup) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls reports how many lookups were served.
func (m *MemoryLookup) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

func (m *MemoryLookup) ListForApps(_ context.Context, appIDs []string, lang string) ([]Override, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	wanted := make(map[string]struct{}, len(appIDs))
	for _, id := range appIDs {
		wanted[id] = struct{}{}
	}

	var out []Override
	for _, ov := range m.overrides {
		if _, ok := wanted[ov.AppID]; ok && ov.Lang == lang {
			out = append(out, ov)
		}
	}
	return out, nil
}
