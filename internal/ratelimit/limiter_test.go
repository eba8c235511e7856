package ratelimit_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bargainer/internal/ratelimit"
)

func TestAllowWithoutCap(t *testing.T) {
	l := ratelimit.NewLimiter(time.Hour)
	for i := 0; i < 100; i++ {
		require.True(t, l.Allow("unlimited"))
	}
}

func TestAllowEnforcesCap(t *testing.T) {
	l := ratelimit.NewLimiter(time.Hour)
	l.SetCap("slickdeals", 3)

	require.True(t, l.Allow("slickdeals"))
	require.True(t, l.Allow("slickdeals"))
	require.True(t, l.Allow("slickdeals"))
	require.False(t, l.Allow("slickdeals"))

	// Other sources are unaffected.
	require.True(t, l.Allow("dealnews"))
}

func TestWindowExpiry(t *testing.T) {
	l := ratelimit.NewLimiter(50 * time.Millisecond)
	l.SetCap("scrape", 1)

	require.True(t, l.Allow("scrape"))
	require.False(t, l.Allow("scrape"))

	time.Sleep(60 * time.Millisecond)
	require.True(t, l.Allow("scrape"))
}

func TestRemovingCap(t *testing.T) {
	l := ratelimit.NewLimiter(time.Hour)
	l.SetCap("api", 1)
	require.True(t, l.Allow("api"))
	require.False(t, l.Allow("api"))

	l.SetCap("api", 0)
	require.True(t, l.Allow("api"))
}
