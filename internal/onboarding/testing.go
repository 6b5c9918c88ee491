package onboarding

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryDirectory is an in-memory Directory for tests.
type MemoryDirectory struct {
	mu       sync.Mutex
	slugs    map[string]bool
	accounts map[string]Application
	slugErr  error
	probed   []string
	onProbe  func(slug string)
}

// NewMemoryDirectory creates an empty directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		slugs:    make(map[string]bool),
		accounts: make(map[string]Application),
	}
}

// AddSlug marks a slug as already claimed.
func (d *MemoryDirectory) AddSlug(slug string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slugs[slug] = true
}

// AddAccount registers an existing developer account for the user.
func (d *MemoryDirectory) AddAccount(userID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.accounts[userID] = Application{UserID: userID}
}

// FailSlugChecks makes subsequent probes return err.
func (d *MemoryDirectory) FailSlugChecks(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slugErr = err
}

// OnProbe installs a hook invoked during SlugExists, before the result
// is returned. Used to interleave edits with an in-flight probe.
func (d *MemoryDirectory) OnProbe(fn func(slug string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onProbe = fn
}

// Probed returns the slugs probed so far, in order.
func (d *MemoryDirectory) Probed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.probed...)
}

func (d *MemoryDirectory) SlugExists(_ context.Context, slug string) (bool, error) {
	d.mu.Lock()
	d.probed = append(d.probed, slug)
	hook := d.onProbe
	err := d.slugErr
	exists := d.slugs[slug]
	d.mu.Unlock()

	if hook != nil {
		hook(slug)
	}
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (d *MemoryDirectory) HasAccount(_ context.Context, userID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.accounts[userID]
	return ok, nil
}

func (d *MemoryDirectory) CreateAccount(_ context.Context, app Application) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.accounts[app.UserID]; ok {
		return "", ErrAccountExists
	}
	d.accounts[app.UserID] = app
	d.slugs[GenerateSlug(app.OrgName)] = true
	return uuid.New().String(), nil
}

// Account returns the stored application for a user.
func (d *MemoryDirectory) Account(userID string) (Application, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	app, ok := d.accounts[userID]
	return app, ok
}

// FakeClock is a manually advanced Clock.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock    *FakeClock
	deadline time.Duration
	fn       func()
	stopped  bool
	fired    bool
}

// NewFakeClock creates a clock at time zero.
func NewFakeClock() *FakeClock {
	return &FakeClock{}
}

func (c *FakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, deadline: c.now + d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward and fires every due timer in deadline
// order. Timers scheduled while firing run too if they fall due.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()

	for {
		next := c.takeDue()
		if next == nil {
			return
		}
		next.fn()
	}
}

// takeDue pops the earliest unfired, unstopped timer at or before now.
func (c *FakeClock) takeDue() *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	sort.SliceStable(c.timers, func(i, j int) bool {
		return c.timers[i].deadline < c.timers[j].deadline
	})
	for _, t := range c.timers {
		if !t.fired && !t.stopped && t.deadline <= c.now {
			t.fired = true
			return t
		}
	}
	return nil
}

// MemoryOpener records opened URIs instead of navigating.
type MemoryOpener struct {
	mu     sync.Mutex
	opened []string
	err    error
}

// NewMemoryOpener creates an opener that accepts every URI.
func NewMemoryOpener() *MemoryOpener {
	return &MemoryOpener{}
}

// FailWith makes subsequent opens return err.
func (o *MemoryOpener) FailWith(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = err
}

func (o *MemoryOpener) Open(uri string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.opened = append(o.opened, uri)
	return nil
}

// Opened returns the URIs opened so far, in order.
func (o *MemoryOpener) Opened() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.opened...)
}
