package watch

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/tranquil/internal/health"
	"github.com/balkashynov/tranquil/internal/models"
)

type harness struct {
	store      *fakeStore
	dispatcher *manualDispatcher
	labels     *recordingLabels
	haptics    *recordingHaptics
	controller *Controller
}

func newHarness(t *testing.T, configure func(*fakeStore)) *harness {
	t.Helper()
	h := &harness{
		store:      newFakeStore(),
		dispatcher: &manualDispatcher{},
		labels:     &recordingLabels{},
		haptics:    &recordingHaptics{},
	}
	if configure != nil {
		configure(h.store)
	}
	h.controller = NewController(h.store, h.dispatcher, h.labels, h.haptics)
	h.controller.Awake()
	h.dispatcher.drain()
	return h
}

// run starts a workout and confirms it at date
func (h *harness) run(t *testing.T, date time.Time) *health.WorkoutSession {
	t.Helper()
	h.controller.Toggle()
	require.Len(t, h.store.started, 1)
	session := h.store.started[0]
	require.True(t, session.Transition(health.SessionRunning, date))
	h.dispatcher.drain()
	require.Equal(t, Active, h.controller.State())
	return session
}

func TestAwakeGranted(t *testing.T) {
	h := newHarness(t, nil)

	assert.Equal(t, GateGranted, h.controller.Gate().State())
	assert.Equal(t, TitleStart, last(h.labels.titles))
	assert.Equal(t, Placeholder, last(h.labels.heartRate))
	assert.Equal(t, Placeholder, last(h.labels.variability))
}

func TestAwakeDenied(t *testing.T) {
	h := newHarness(t, func(s *fakeStore) { s.authorize = false })

	assert.Equal(t, GateDenied, h.controller.Gate().State())
	assert.Equal(t, NotAllowed, last(h.labels.heartRate))
	assert.Equal(t, NotAllowed, last(h.labels.variability))

	// no retry and no session afterwards
	h.controller.Awake()
	h.controller.Toggle()
	h.dispatcher.drain()
	assert.Equal(t, 1, h.store.authRequests)
	assert.Empty(t, h.store.started)
	assert.Equal(t, Inactive, h.controller.State())
}

func TestAwakeUnavailable(t *testing.T) {
	h := newHarness(t, func(s *fakeStore) { s.available = false })

	assert.Equal(t, GateUnavailable, h.controller.Gate().State())
	assert.Equal(t, NotAvailable, last(h.labels.heartRate))
	assert.Equal(t, NotAvailable, last(h.labels.variability))
	assert.Zero(t, h.store.authRequests)
}

func TestStartIsIdempotentWhileInProgress(t *testing.T) {
	h := newHarness(t, nil)

	h.controller.Start()
	h.controller.Start()
	assert.Len(t, h.store.started, 1)
	assert.Equal(t, Starting, h.controller.State())
	assert.Equal(t, TitleStop, last(h.labels.titles))

	require.True(t, h.store.started[0].Transition(health.SessionRunning, time.Now()))
	h.dispatcher.drain()

	h.controller.Start()
	assert.Len(t, h.store.started, 1)
	assert.Equal(t, Active, h.controller.State())
}

func TestStartConfigurationFailureIsAbsorbed(t *testing.T) {
	h := newHarness(t, func(s *fakeStore) { s.sessionErr = errors.New("bad configuration") })
	titles := len(h.labels.titles)

	h.controller.Toggle()

	assert.Equal(t, Inactive, h.controller.State())
	assert.Len(t, h.labels.titles, titles)
	assert.Empty(t, h.store.started)
}

func TestStopWhenInactiveDoesNothing(t *testing.T) {
	h := newHarness(t, nil)

	h.controller.Stop()

	assert.Empty(t, h.store.ended)
	assert.Equal(t, Inactive, h.controller.State())
}

func TestRunningOpensAnchoredQueries(t *testing.T) {
	h := newHarness(t, nil)
	date := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	h.run(t, date)

	require.Len(t, h.store.live, 2)
	assert.Len(t, h.store.executed, 2)
	kinds := []models.Kind{h.store.live[0].Kind, h.store.live[1].Kind}
	assert.ElementsMatch(t, []models.Kind{models.KindHeartRate, models.KindHeartRateVariability}, kinds)
	for _, q := range h.store.live {
		assert.True(t, q.Start.Equal(date))
	}
}

func TestQuerySetupFailureShowsNoData(t *testing.T) {
	h := newHarness(t, func(s *fakeStore) {
		s.liveErr[models.KindHeartRateVariability] = health.ErrUnsupportedKind
	})

	h.run(t, time.Now())

	assert.Equal(t, NoData, last(h.labels.variability))
	assert.Equal(t, Placeholder, last(h.labels.heartRate))
	require.Len(t, h.store.live, 1)
	assert.Equal(t, models.KindHeartRate, h.store.live[0].Kind)
}

func TestHeartRateBatchUpdatesLabelAndPlaysTwoCues(t *testing.T) {
	h := newHarness(t, nil)
	h.run(t, time.Now())

	h.store.deliver(models.KindHeartRate, sample(models.KindHeartRate, 58.2))
	assert.Equal(t, Placeholder, last(h.labels.heartRate), "label changes only on the owner context")

	h.dispatcher.drain()
	assert.Equal(t, "58.2", last(h.labels.heartRate))
	assert.Equal(t, []HapticType{HapticStart}, h.haptics.played)
	require.Len(t, h.dispatcher.delayed, 1)
	assert.Equal(t, 500*time.Millisecond, h.dispatcher.delayed[0].delay)

	h.dispatcher.fire()
	assert.Equal(t, []HapticType{HapticStart, HapticSuccess}, h.haptics.played)
}

func TestOnlyFirstSampleOfBatchIsShown(t *testing.T) {
	h := newHarness(t, nil)
	h.run(t, time.Now())

	h.store.deliver(models.KindHeartRate,
		sample(models.KindHeartRate, 63.456),
		sample(models.KindHeartRate, 99),
	)
	h.dispatcher.drain()

	assert.Equal(t, "63.5", last(h.labels.heartRate))
	assert.Len(t, h.haptics.played, 1)
}

func TestVariabilityBatchHasNoHaptics(t *testing.T) {
	h := newHarness(t, nil)
	h.run(t, time.Now())

	h.store.deliver(models.KindHeartRateVariability, sample(models.KindHeartRateVariability, 42.04))
	h.dispatcher.drain()
	h.dispatcher.fire()

	assert.Equal(t, "42.0", last(h.labels.variability))
	assert.Empty(t, h.haptics.played)
}

func TestEmptyAndErrorBatchesLeaveLabels(t *testing.T) {
	h := newHarness(t, nil)
	h.run(t, time.Now())

	h.store.deliver(models.KindHeartRate)
	for _, q := range h.store.live {
		q.Handler(q, nil, errors.New("boom"))
	}
	h.dispatcher.drain()

	assert.Equal(t, Placeholder, last(h.labels.heartRate))
	assert.Empty(t, h.haptics.played)
}

func TestUserEndStopsEachQueryOnce(t *testing.T) {
	h := newHarness(t, nil)
	session := h.run(t, time.Now())

	h.controller.Toggle()
	assert.Equal(t, Ending, h.controller.State())
	assert.Equal(t, TitleStart, last(h.labels.titles))
	h.controller.Stop()
	assert.Len(t, h.store.ended, 1, "stop while ending does nothing")

	require.True(t, session.Transition(health.SessionEnded, time.Now()))
	h.dispatcher.drain()

	assert.Equal(t, Inactive, h.controller.State())
	require.Len(t, h.store.live, 2)
	for _, q := range h.store.live {
		assert.Equal(t, 1, h.store.stopped[q])
	}
}

func TestPlatformEndStopsEachQueryOnce(t *testing.T) {
	h := newHarness(t, nil)
	session := h.run(t, time.Now())

	require.True(t, session.Transition(health.SessionEnded, time.Now()))
	h.dispatcher.drain()

	assert.Equal(t, Inactive, h.controller.State())
	assert.Equal(t, TitleStart, last(h.labels.titles))
	assert.Empty(t, h.store.ended)
	for _, q := range h.store.live {
		assert.Equal(t, 1, h.store.stopped[q])
	}

	// a late batch from a stopped query is ignored
	h.store.deliver(models.KindHeartRate, sample(models.KindHeartRate, 70))
	h.dispatcher.drain()
	assert.Equal(t, Placeholder, last(h.labels.heartRate))
}

func TestNextSessionStopsOnlyItsOwnQueries(t *testing.T) {
	h := newHarness(t, nil)
	first := h.run(t, time.Now())
	require.True(t, first.Transition(health.SessionEnded, time.Now()))
	h.dispatcher.drain()

	h.controller.Toggle()
	require.Len(t, h.store.started, 2)
	second := h.store.started[1]
	require.True(t, second.Transition(health.SessionRunning, time.Now()))
	h.dispatcher.drain()
	require.True(t, second.Transition(health.SessionEnded, time.Now()))
	h.dispatcher.drain()

	require.Len(t, h.store.live, 4)
	for _, q := range h.store.live {
		assert.Equal(t, 1, h.store.stopped[q])
	}
}

func TestStopBeforeRunningEndsWithoutQueries(t *testing.T) {
	h := newHarness(t, nil)

	h.controller.Toggle()
	session := h.store.started[0]
	h.controller.Toggle()
	assert.Equal(t, Ending, h.controller.State())

	require.True(t, session.Transition(health.SessionRunning, time.Now()))
	require.True(t, session.Transition(health.SessionEnded, time.Now()))
	h.dispatcher.drain()

	assert.Equal(t, Inactive, h.controller.State())
	assert.Empty(t, h.store.live)
}

func TestSessionFailureWhileActiveIsAbsorbed(t *testing.T) {
	h := newHarness(t, nil)
	session := h.run(t, time.Now())

	session.Fail(errors.New("sensor lost"))
	h.dispatcher.drain()

	assert.Equal(t, Active, h.controller.State())
	assert.Equal(t, TitleStop, last(h.labels.titles))
	assert.Empty(t, h.store.stopped)
}

func TestStartFailureReturnsToInactive(t *testing.T) {
	h := newHarness(t, nil)
	h.controller.Toggle()
	require.Equal(t, Starting, h.controller.State())

	h.store.started[0].Fail(health.ErrSessionAlreadyActive)
	h.dispatcher.drain()

	assert.Equal(t, Inactive, h.controller.State())
	assert.Equal(t, TitleStart, last(h.labels.titles))
	_, ok := h.controller.Since()
	assert.False(t, ok)

	// The button works again
	h.controller.Toggle()
	assert.Equal(t, Starting, h.controller.State())
	require.Len(t, h.store.started, 2)
}

func TestFailureOfReplacedSessionIsIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.controller.Toggle()
	failed := h.store.started[0]
	failed.Fail(errors.New("workout store busy"))
	h.dispatcher.drain()

	h.controller.Toggle()
	require.Equal(t, Starting, h.controller.State())

	// A late duplicate failure for the first session
	failed.Fail(errors.New("workout store busy"))
	h.dispatcher.drain()

	assert.Equal(t, Starting, h.controller.State())
	assert.Equal(t, TitleStop, last(h.labels.titles))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "58.2", FormatValue(58.2))
	assert.Equal(t, "63.5", FormatValue(63.456))
	assert.Equal(t, "60.0", FormatValue(60))
}

func TestSinceReportsConfirmedStart(t *testing.T) {
	h := newHarness(t, nil)
	_, ok := h.controller.Since()
	assert.False(t, ok)

	date := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	h.run(t, date)

	since, ok := h.controller.Since()
	require.True(t, ok)
	assert.True(t, since.Equal(date))
}
