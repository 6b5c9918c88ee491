package onboarding

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/zenhub-store/devportal/pkg/logger"
)

// DefaultVerifierBot is the Telegram bot handling phone confirmation.
const DefaultVerifierBot = "zenhub_verifier_bot"

const (
	// webFallbackDelay is how long the deep link gets before the web
	// link is opened instead.
	webFallbackDelay = 300 * time.Millisecond
	// simulatedVerifyDelay is the stand-in confirmation delay used until
	// a real callback from the bot exists.
	simulatedVerifyDelay = 2 * time.Second
)

// VerificationLinks are the two ways into the bot conversation: the
// native deep link and the web fallback.
type VerificationLinks struct {
	DeepLink string
	WebLink  string
}

// BuildVerificationLinks composes the bot URIs carrying the full
// international phone number as the start parameter.
func BuildVerificationLinks(bot, fullPhone string) VerificationLinks {
	start := url.QueryEscape(fullPhone)
	return VerificationLinks{
		DeepLink: fmt.Sprintf("tg://resolve?domain=%s&start=%s", bot, start),
		WebLink:  fmt.Sprintf("https://t.me/%s?start=%s", bot, start),
	}
}

// LinkOpener navigates to a URI. On a device this hands the URI to the
// OS; in tests it records what would have been opened.
type LinkOpener interface {
	Open(uri string) error
}

// SimulatedChannel opens the Telegram verification links and then
// completes verification on a timer. The timed completion is a
// development stand-in for the bot's confirmation callback; only the
// link composition is production behavior. Swapping in a webhook-driven
// channel requires no wizard changes.
type SimulatedChannel struct {
	bot         string
	opener      LinkOpener
	clock       Clock
	log         *logger.Logger
	verifyDelay time.Duration
}

// NewSimulatedChannel creates the channel. An empty bot name falls back
// to DefaultVerifierBot.
func NewSimulatedChannel(bot string, opener LinkOpener, log *logger.Logger) *SimulatedChannel {
	if bot == "" {
		bot = DefaultVerifierBot
	}
	if log == nil {
		log = logger.NewDefault("verification")
	}
	return &SimulatedChannel{
		bot:         bot,
		opener:      opener,
		clock:       SystemClock{},
		log:         log,
		verifyDelay: simulatedVerifyDelay,
	}
}

// WithClock replaces the clock, for deterministic tests.
func (c *SimulatedChannel) WithClock(clock Clock) {
	c.clock = clock
}

// Request opens the deep link, falls back to the web link shortly after,
// and schedules the simulated confirmation.
func (c *SimulatedChannel) Request(_ context.Context, fullPhone string, onVerified func()) error {
	links := BuildVerificationLinks(c.bot, fullPhone)

	if err := c.opener.Open(links.DeepLink); err != nil {
		c.log.WithError(err).Debug("deep link failed, opening web link")
		if err := c.opener.Open(links.WebLink); err != nil {
			return fmt.Errorf("open verification link: %w", err)
		}
	} else {
		// The deep link may silently go nowhere when no Telegram client
		// is installed; the web link follows after a grace period.
		c.clock.AfterFunc(webFallbackDelay, func() {
			_ = c.opener.Open(links.WebLink)
		})
	}

	c.log.WithField("bot", c.bot).Info("phone verification requested")
	c.clock.AfterFunc(c.verifyDelay, onVerified)
	return nil
}
