package matchgame

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistryGame(t *testing.T, f *fixture, id string) *Controller {
	t.Helper()
	c, err := New(context.Background(), id, "session-1", f.deps, f.cfg)
	require.NoError(t, err)
	return c
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
	f := newFixture(biologyRound())

	a := newRegistryGame(t, f, "a")
	r.Add(a)
	assert.Equal(t, 1, r.Len())

	got, err := r.Get("a")
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, ErrGameNotFound)

	replacement := newRegistryGame(t, f, "a")
	r.Add(replacement)
	_, err = a.Start(context.Background())
	assert.ErrorIs(t, err, ErrGameClosed, "replaced game is closed")

	require.NoError(t, r.Remove("a"))
	assert.ErrorIs(t, r.Remove("a"), ErrGameNotFound)
	assert.Zero(t, r.Len())
}

func TestRegistry_EvictIdle(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	r := NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.now = clock

	f := newFixture(biologyRound())
	f.cfg.Now = clock

	stale := newRegistryGame(t, f, "stale")
	r.Add(stale)

	now = now.Add(20 * time.Minute)
	fresh := newRegistryGame(t, f, "fresh")
	r.Add(fresh)

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, r.EvictIdle(30*time.Minute))

	_, err := r.Get("stale")
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = r.Get("fresh")
	assert.NoError(t, err)

	_, err = stale.Retry(context.Background())
	assert.ErrorIs(t, err, ErrGameClosed)
}

func TestRegistry_CloseAll(t *testing.T) {
	t.Parallel()

	r := NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
	f := newFixture(biologyRound())
	g := newRegistryGame(t, f, "g")
	r.Add(g)

	r.CloseAll()
	assert.Zero(t, r.Len())
	_, err := g.ResetStats(context.Background())
	assert.ErrorIs(t, err, ErrGameClosed)
}

func TestRegistry_RunSweeper(t *testing.T) {
	t.Parallel()

	r := NewRegistry(slog.New(slog.NewTextHandler(io.Discard, nil)))
	f := newFixture(biologyRound())
	f.cfg.Now = func() time.Time { return time.Now().Add(-time.Hour) }
	r.Add(newRegistryGame(t, f, "old"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.RunSweeper(ctx, 5*time.Millisecond, time.Minute)
		close(done)
	}()

	assert.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
