package outbox_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabriel-goncalves1122/SGPA/core/outbox"
	"github.com/gabriel-goncalves1122/SGPA/tests"
)

// flakyHandler fails its first `failures` calls.
type flakyHandler struct {
	mu       sync.Mutex
	failures int
	calls    int
	refs     []string
}

func (h *flakyHandler) handle(_ context.Context, e outbox.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	if h.calls <= h.failures {
		return errors.New("store unavailable")
	}
	h.refs = append(h.refs, e.Ref)
	return nil
}

func (h *flakyHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.refs)
}

func TestRelay_Enqueue(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()

	_, err := env.Relay.Enqueue(ctx, "lol", "ref")
	assert.Error(t, err, "unregistered kind")

	env.Relay.Register("test", (&flakyHandler{}).handle)
	e, err := env.Relay.Enqueue(ctx, "test", "ref", "a", "b")
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.True(t, e.IsPending())

	stored, err := env.Outbox.GetEntryByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, stored.Values)
	assert.Equal(t, 0, stored.Attempts)
}

func TestRelay_Dispatch(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	h := &flakyHandler{failures: 1}
	env.Relay.Register("test", h.handle)

	e, err := env.Relay.Enqueue(ctx, "test", "ref")
	require.NoError(t, err)

	// the first attempt fails and leaves the entry pending
	require.Error(t, env.Relay.Dispatch(ctx, e))
	stored, err := env.Outbox.GetEntryByID(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPending())
	assert.Equal(t, 1, stored.Attempts)
	assert.Equal(t, "store unavailable", stored.LastError)

	// the relay retries it
	n, err := env.Relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	stored, err = env.Outbox.GetEntryByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, outbox.StatusDone, stored.Status)
	assert.Equal(t, 2, stored.Attempts)
	assert.Empty(t, stored.LastError)

	n, err = env.Relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "nothing left")
	assert.Equal(t, []string{"ref"}, h.refs)
}

func TestRelay_giveUp(t *testing.T) {
	env := testutil.NewEnv(t) // 3 attempts max
	ctx := context.Background()
	env.Relay.Register("test", (&flakyHandler{failures: 100}).handle)

	e, err := env.Relay.Enqueue(ctx, "test", "ref")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = env.Relay.Flush(ctx)
		require.NoError(t, err)
	}

	stored, err := env.Outbox.GetEntryByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, outbox.StatusDead, stored.Status)
	assert.Equal(t, env.Conf.Outbox.MaxAttempts, stored.Attempts)
}

func TestRelay_Cancel(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	h := &flakyHandler{}
	env.Relay.Register("test", h.handle)

	e, err := env.Relay.Enqueue(ctx, "test", "ref")
	require.NoError(t, err)
	require.NoError(t, env.Relay.Cancel(ctx, e, "update failed"))

	n, err := env.Relay.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, h.count())

	stored, err := env.Outbox.GetEntryByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, outbox.StatusCancelled, stored.Status)
	assert.Equal(t, "update failed", stored.LastError)
}

func TestRelay_Run(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	h := &flakyHandler{}
	env.Relay.Register("test", h.handle)

	for _, ref := range []string{"a", "b"} {
		_, err := env.Relay.Enqueue(ctx, "test", ref)
		require.NoError(t, err)
	}

	done := make(chan struct{})
	go func() {
		env.Relay.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return h.count() == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
