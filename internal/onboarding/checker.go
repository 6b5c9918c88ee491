package onboarding

import (
	"context"
	"sync"
	"time"

	"github.com/zenhub-store/devportal/pkg/logger"
)

// SlugCheckDelay is how long input must stay idle before a probe fires.
const SlugCheckDelay = 500 * time.Millisecond

// DefaultProbeTimeout bounds a single existence probe.
const DefaultProbeTimeout = 10 * time.Second

// Checker derives the candidate slug from organization-name edits and
// resolves its availability against the directory, debounced so rapid
// typing coalesces into one probe. It owns a single timer handle; every
// edit cancels and replaces it, so only the last scheduled probe runs.
//
// Results are guarded against staleness: a probe's outcome is applied
// only while its slug is still the current candidate.
type Checker struct {
	directory    SlugDirectory
	log          *logger.Logger
	clock        Clock
	delay        time.Duration
	probeTimeout time.Duration
	notify       func(SlugState)

	mu     sync.Mutex
	timer  Timer
	state  SlugState
	closed bool
}

// NewChecker creates a checker over the directory.
func NewChecker(directory SlugDirectory, log *logger.Logger) *Checker {
	if log == nil {
		log = logger.NewDefault("slug-checker")
	}
	return &Checker{
		directory:    directory,
		log:          log,
		clock:        SystemClock{},
		delay:        SlugCheckDelay,
		probeTimeout: DefaultProbeTimeout,
	}
}

// WithClock replaces the clock, for deterministic tests.
func (c *Checker) WithClock(clock Clock) {
	c.clock = clock
}

// WithDelay overrides the debounce window.
func (c *Checker) WithDelay(d time.Duration) {
	c.delay = d
}

// OnUpdate registers a callback invoked after every state change. The
// callback runs without the checker lock held.
func (c *Checker) OnUpdate(fn func(SlugState)) {
	c.notify = fn
}

// State returns the current slug state.
func (c *Checker) State() SlugState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// NameChanged handles an organization-name edit: it recomputes the
// candidate slug, resets availability to unknown, cancels any pending
// probe, and schedules a new one unless the name is empty or fails the
// format check.
func (c *Checker) NameChanged(name string) {
	slug := GenerateSlug(name)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.cancelTimerLocked()
	c.state = SlugState{Slug: slug, Checking: true, Availability: AvailabilityUnknown}
	if slug != "" && ValidOrgName(name) {
		c.timer = c.clock.AfterFunc(c.delay, func() { c.probe(slug) })
	} else {
		c.state.Checking = false
	}
	state := c.state
	c.mu.Unlock()

	c.emit(state)
}

// Seed sets the candidate slug without scheduling a probe. Used when a
// rehydrated draft already carries an organization name.
func (c *Checker) Seed(slug string) {
	c.mu.Lock()
	c.cancelTimerLocked()
	c.state = SlugState{Slug: slug}
	state := c.state
	c.mu.Unlock()

	c.emit(state)
}

// Reset clears all state and cancels any pending probe.
func (c *Checker) Reset() {
	c.Seed("")
}

// Close cancels the pending probe and stops the checker. Further edits
// are ignored.
func (c *Checker) Close() {
	c.mu.Lock()
	c.cancelTimerLocked()
	c.closed = true
	c.mu.Unlock()
}

// probe resolves availability for slug. Errors degrade to taken rather
// than risking a duplicate.
func (c *Checker) probe(slug string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.probeTimeout)
	defer cancel()

	availability := AvailabilityAvailable
	exists, err := c.directory.SlugExists(ctx, slug)
	if err != nil {
		c.log.WithError(err).WithField("slug", slug).Warn("slug probe failed")
		availability = AvailabilityTaken
	} else if exists {
		availability = AvailabilityTaken
	}

	c.mu.Lock()
	if c.closed || c.state.Slug != slug {
		// The candidate moved on while the probe was in flight.
		c.mu.Unlock()
		c.log.WithField("slug", slug).Debug("discarding stale slug probe result")
		return
	}
	c.state.Checking = false
	c.state.Availability = availability
	state := c.state
	c.mu.Unlock()

	c.emit(state)
}

// cancelTimerLocked stops the outstanding timer, if any. Caller holds mu.
func (c *Checker) cancelTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Checker) emit(state SlugState) {
	if c.notify != nil {
		c.notify(state)
	}
}
