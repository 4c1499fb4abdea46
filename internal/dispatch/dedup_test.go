package dispatch

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestDeduplicator_ClaimOnce(t *testing.T) {
	d := NewDeduplicator(testLogger())
	now := time.Now()

	require.True(t, d.TryClaim("evt-1", now))
	require.False(t, d.TryClaim("evt-1", now))
	require.True(t, d.TryClaim("evt-2", now))
}

func TestDeduplicator_StaleEventRejected(t *testing.T) {
	d := NewDeduplicator(testLogger())

	createdAt := time.Now().Add(-DefaultFreshness - time.Second)
	require.False(t, d.TryClaim("evt-old", createdAt))
	// A stale drop does not consume the ID.
	require.True(t, d.TryClaim("evt-old", time.Now()))
}

func TestDeduplicator_ClaimExpiresAfterRetention(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	d := NewDeduplicator(testLogger(), WithClock(clock), WithFreshness(time.Hour))

	require.True(t, d.TryClaim("evt-1", now))
	require.False(t, d.TryClaim("evt-1", now))

	now = now.Add(DefaultRetention + time.Second)
	require.True(t, d.TryClaim("evt-1", now))
}

func TestDeduplicator_BoundedEviction(t *testing.T) {
	now := time.Now()
	d := NewDeduplicator(testLogger(), WithClock(func() time.Time { return now }))

	for i := 0; i < dedupCapacity+1; i++ {
		require.True(t, d.TryClaim(fmt.Sprintf("evt-%d", i), now))
	}

	// Overflow evicted the oldest batch; the newest claims still hold.
	require.LessOrEqual(t, d.Len(), dedupCapacity)
	require.False(t, d.TryClaim(fmt.Sprintf("evt-%d", dedupCapacity), now))
	// The oldest claim was evicted and can be taken again.
	require.True(t, d.TryClaim("evt-0", now))
}
