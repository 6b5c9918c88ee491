package onboarding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildVerificationLinks(t *testing.T) {
	links := BuildVerificationLinks("zenhub_verifier_bot", "+79991234567")
	assert.Equal(t, "tg://resolve?domain=zenhub_verifier_bot&start=%2B79991234567", links.DeepLink)
	assert.Equal(t, "https://t.me/zenhub_verifier_bot?start=%2B79991234567", links.WebLink)
}

func TestSimulatedChannel_DeepLinkThenWebFallback(t *testing.T) {
	opener := NewMemoryOpener()
	clock := NewFakeClock()
	ch := NewSimulatedChannel("", opener, nil)
	ch.WithClock(clock)

	verified := false
	require.NoError(t, ch.Request(context.Background(), "+79991234567", func() { verified = true }))

	// Deep link opens immediately; the web fallback waits out the grace
	// period.
	require.Equal(t, []string{"tg://resolve?domain=zenhub_verifier_bot&start=%2B79991234567"}, opener.Opened())

	clock.Advance(300 * time.Millisecond)
	opened := opener.Opened()
	require.Len(t, opened, 2)
	assert.Equal(t, "https://t.me/zenhub_verifier_bot?start=%2B79991234567", opened[1])
	assert.False(t, verified)

	// Simulated confirmation lands after the fixed delay.
	clock.Advance(2 * time.Second)
	assert.True(t, verified)
}

func TestSimulatedChannel_WebLinkWhenDeepLinkFails(t *testing.T) {
	opener := NewMemoryOpener()
	opener.FailWith(errors.New("no handler for tg scheme"))
	clock := NewFakeClock()
	ch := NewSimulatedChannel("custom_bot", opener, nil)
	ch.WithClock(clock)

	err := ch.Request(context.Background(), "+15551234567", func() {})
	assert.Error(t, err)
}
