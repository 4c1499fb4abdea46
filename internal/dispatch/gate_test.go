package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeResponder records delivered responses and can simulate a hung
// platform call.
type fakeResponder struct {
	mu        sync.Mutex
	replies   []string
	followUps []string
	defers    int
	deferWait time.Duration
}

func (f *fakeResponder) Reply(ctx context.Context, payload string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, payload)
	return nil
}

func (f *fakeResponder) Defer(ctx context.Context) error {
	if f.deferWait > 0 {
		select {
		case <-time.After(f.deferWait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.defers++
	return nil
}

func (f *fakeResponder) FollowUp(ctx context.Context, payload string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followUps = append(f.followUps, payload)
	return nil
}

func TestResponseGate_DirectFinalize(t *testing.T) {
	r := &fakeResponder{}
	g := NewResponseGate(time.Now(), r, testLogger())

	require.NoError(t, g.Finalize(context.Background(), "done"))
	require.Equal(t, []string{"done"}, r.replies)
	require.Empty(t, r.followUps)
}

func TestResponseGate_DeferThenFollowUp(t *testing.T) {
	r := &fakeResponder{}
	g := NewResponseGate(time.Now(), r, testLogger())

	require.NoError(t, g.Acknowledge(context.Background(), true))
	require.True(t, g.Deferred())

	require.NoError(t, g.Finalize(context.Background(), "done"))
	require.Equal(t, 1, r.defers)
	require.Equal(t, []string{"done"}, r.followUps)
	require.Empty(t, r.replies)
}

func TestResponseGate_FinalizeOnlyOnce(t *testing.T) {
	r := &fakeResponder{}
	g := NewResponseGate(time.Now(), r, testLogger())

	require.NoError(t, g.Finalize(context.Background(), "first"))
	err := g.Finalize(context.Background(), "second")
	require.ErrorIs(t, err, ErrAlreadyFinalized)
	require.Equal(t, []string{"first"}, r.replies)
}

func TestResponseGate_DeadlineExceeded(t *testing.T) {
	r := &fakeResponder{}
	createdAt := time.Now().Add(-DefaultAckDeadline - time.Second)
	g := NewResponseGate(createdAt, r, testLogger())

	err := g.Acknowledge(context.Background(), true)
	require.ErrorIs(t, err, ErrDeadlineExceeded)
	require.Zero(t, r.defers)
}

func TestResponseGate_AcknowledgeTimeout(t *testing.T) {
	r := &fakeResponder{deferWait: 200 * time.Millisecond}
	g := NewResponseGate(time.Now(), r, testLogger(), WithAckTimeout(20*time.Millisecond))

	err := g.Acknowledge(context.Background(), true)
	require.ErrorIs(t, err, ErrAcknowledgeTimeout)
	// The gate never reached the deferred state, so the final response
	// goes out as a direct reply.
	require.False(t, g.Deferred())
	require.NoError(t, g.Finalize(context.Background(), "late"))
	require.Equal(t, []string{"late"}, r.replies)
}

func TestResponseGate_SecondAcknowledgeRejected(t *testing.T) {
	r := &fakeResponder{}
	g := NewResponseGate(time.Now(), r, testLogger())

	require.NoError(t, g.Acknowledge(context.Background(), true))
	err := g.Acknowledge(context.Background(), true)
	require.ErrorIs(t, err, ErrInvalidState)
	require.Equal(t, 1, r.defers)
}
