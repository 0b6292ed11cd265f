package watch

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/tranquil/internal/db"
	"github.com/balkashynov/tranquil/internal/dispatch"
	"github.com/balkashynov/tranquil/internal/health"
	"github.com/balkashynov/tranquil/internal/models"
)

// onLoop runs fn on the loop and returns its result
func onLoop[T any](loop *dispatch.Loop, fn func() T) T {
	result := make(chan T, 1)
	loop.Dispatch(func() { result <- fn() })
	return <-result
}

type localHarness struct {
	loop       *dispatch.Loop
	labels     *recordingLabels
	controller *Controller
}

func newLocalHarness(t *testing.T) *localHarness {
	t.Helper()
	require.NoError(t, db.Initialize(filepath.Join(t.TempDir(), "watch.db")))
	t.Cleanup(func() { _ = db.Close() })

	loop := dispatch.NewLoop()
	t.Cleanup(loop.Close)
	store := health.NewLocalStore(health.LocalOptions{
		Available:    true,
		Authorize:    true,
		PollInterval: 10 * time.Millisecond,
	})
	t.Cleanup(store.Close)

	h := &localHarness{loop: loop, labels: &recordingLabels{}}
	h.controller = NewController(store, loop, h.labels, &recordingHaptics{})
	loop.Dispatch(h.controller.Awake)
	require.Eventually(t, func() bool {
		return onLoop(loop, h.controller.Gate().Granted)
	}, 2*time.Second, 10*time.Millisecond)
	return h
}

func (h *localHarness) waitState(t *testing.T, want State) {
	t.Helper()
	require.Eventually(t, func() bool {
		return onLoop(h.loop, h.controller.State) == want
	}, 2*time.Second, 10*time.Millisecond, "controller never reached %s", want)
}

func (h *localHarness) title() string {
	return onLoop(h.loop, func() string { return last(h.labels.titles) })
}

func TestLocalStore_FailedStartReturnsToInactive(t *testing.T) {
	h := newLocalHarness(t)
	_, err := db.StartWorkout(models.ActivityOther, time.Now())
	require.NoError(t, err)

	h.loop.Dispatch(h.controller.Start)
	h.waitState(t, Inactive)
	assert.Equal(t, TitleStart, h.title())
}

func TestLocalStore_StartAfterQuickStopRuns(t *testing.T) {
	h := newLocalHarness(t)

	for i := 0; i < 50; i++ {
		h.loop.Dispatch(h.controller.Start)
		h.loop.Dispatch(h.controller.Stop)
		h.waitState(t, Inactive)
	}

	h.loop.Dispatch(h.controller.Start)
	h.waitState(t, Active)
	assert.Equal(t, TitleStop, h.title())

	h.loop.Dispatch(h.controller.Stop)
	h.waitState(t, Inactive)
	active, err := db.GetActiveWorkout()
	require.NoError(t, err)
	assert.Nil(t, active)
}
