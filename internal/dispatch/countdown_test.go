package dispatch

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCountdown_FiresOnce(t *testing.T) {
	c := NewCountdown(testLogger(), WithTickInterval(10*time.Millisecond))

	var completed atomic.Int32
	var ticks atomic.Int32
	err := c.Schedule("t1", 50*time.Millisecond,
		func(remaining time.Duration) {
			require.Greater(t, remaining, time.Duration(0))
			ticks.Add(1)
		},
		func() { completed.Add(1) },
	)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return completed.Load() == 1 }, time.Second, 10*time.Millisecond)
	require.GreaterOrEqual(t, ticks.Load(), int32(1))
	require.False(t, c.Pending("t1"))

	// Cancel after completion reports nothing pending.
	require.False(t, c.Cancel("t1"))
}

func TestCountdown_DuplicateIDRejected(t *testing.T) {
	c := NewCountdown(testLogger())

	require.NoError(t, c.Schedule("t1", time.Minute, nil, func() {}))
	err := c.Schedule("t1", time.Minute, nil, func() {})
	require.ErrorIs(t, err, ErrAlreadyScheduled)

	require.True(t, c.Cancel("t1"))
}

func TestCountdown_CancelPreventsCompletion(t *testing.T) {
	c := NewCountdown(testLogger(), WithTickInterval(5*time.Millisecond))

	var completed atomic.Int32
	require.NoError(t, c.Schedule("t1", 40*time.Millisecond, nil, func() { completed.Add(1) }))

	require.True(t, c.Cancel("t1"))
	require.False(t, c.Cancel("t1"))

	time.Sleep(80 * time.Millisecond)
	require.Zero(t, completed.Load())
	require.False(t, c.Pending("t1"))
}

func TestCountdown_IDReusableAfterCancel(t *testing.T) {
	c := NewCountdown(testLogger(), WithTickInterval(5*time.Millisecond))

	require.NoError(t, c.Schedule("t1", time.Minute, nil, func() {}))
	require.True(t, c.Cancel("t1"))

	var completed atomic.Int32
	require.NoError(t, c.Schedule("t1", 20*time.Millisecond, nil, func() { completed.Add(1) }))
	require.Eventually(t, func() bool { return completed.Load() == 1 }, time.Second, 5*time.Millisecond)
}
