package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordbuff/internal/session"
	"github.com/robalobadob/wordbuff/internal/wordgrid"
)

func newGridEngine(t *testing.T) *wordgrid.Engine {
	t.Helper()
	e, err := wordgrid.New(wordgrid.Config{GridSize: 1, Duration: 60})
	require.NoError(t, err)
	require.NoError(t, e.SetGrid([][]string{{"A"}}, []wordgrid.Word{{Word: "A"}}))
	return e
}

func newGridSession(t *testing.T, clock session.Clock) *session.Session {
	t.Helper()
	return session.NewGrid("anon", "p1", newGridEngine(t), clock)
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := newGridSession(t, nil)

	require.NoError(t, st.Save(ctx, s))
	got, err := st.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, st.Len())

	_, err = st.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSweepDropsIdleSessions(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	oldClock := session.NewFakeClock(start)
	freshClock := session.NewFakeClock(start.Add(time.Hour))
	old := newGridSession(t, oldClock)
	fresh := newGridSession(t, freshClock)
	require.NoError(t, st.Save(ctx, old))
	require.NoError(t, st.Save(ctx, fresh))

	n, err := st.Sweep(ctx, start.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = st.Get(ctx, old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestSweepHonoursContext(t *testing.T) {
	st := NewMemoryStore()
	require.NoError(t, st.Save(context.Background(), newGridSession(t, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := st.Sweep(ctx, time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, st.Len())
}

func TestSweepDoesNotBlockStoreOnBusySession(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	busy := newGridSession(t, nil)
	other := newGridSession(t, nil)
	require.NoError(t, st.Save(ctx, busy))
	require.NoError(t, st.Save(ctx, other))

	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = busy.Grid(func(*wordgrid.Engine) {
			close(entered)
			<-release
		})
	}()
	<-entered

	swept := make(chan struct{})
	go func() {
		_, _ = st.Sweep(ctx, time.Now().Add(-time.Hour))
		close(swept)
	}()

	late := newGridSession(t, nil)
	served := make(chan error, 1)
	go func() {
		_, err := st.Get(ctx, other.ID)
		if err == nil {
			err = st.Save(ctx, late)
		}
		served <- err
	}()

	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("store blocked while sweep waited on a busy session")
	}

	close(release)
	select {
	case <-swept:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not finish")
	}
	assert.Equal(t, 3, st.Len())
}

func TestClaimMovesOnlyMatchingOwner(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	mine := newGridSession(t, nil)
	theirs := session.NewGrid("anon-2", "p1", newGridEngine(t), nil)
	require.NoError(t, st.Save(ctx, mine))
	require.NoError(t, st.Save(ctx, theirs))

	n, err := st.Claim(ctx, "anon", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, mine.OwnedBy("user-1"))
	assert.False(t, mine.OwnedBy("anon"))
	assert.True(t, theirs.OwnedBy("anon-2"))

	n, err = st.Claim(ctx, "anon", "user-1")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = st.Claim(ctx, "", "user-1")
	require.NoError(t, err)
	assert.Zero(t, n)
}
