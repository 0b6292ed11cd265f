package watch

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/balkashynov/tranquil/internal/dispatch"
	"github.com/balkashynov/tranquil/internal/health"
	"github.com/balkashynov/tranquil/internal/logger"
	"github.com/balkashynov/tranquil/internal/models"
)

// State is the workout state as the watch surface sees it
type State int

const (
	Inactive State = iota
	Starting       // asked the store to start, not confirmed yet
	Active         // store confirmed, live queries open
	Ending         // asked the store to end, not confirmed yet
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Starting:
		return "starting"
	case Active:
		return "active"
	case Ending:
		return "ending"
	default:
		return "unknown"
	}
}

// liveKinds get one live query each while a workout is active
var liveKinds = []models.Kind{models.KindHeartRate, models.KindHeartRateVariability}

// Controller drives the watch surface: authorization, the start/stop toggle
// and the live queries of the running workout.
//
// Every method and every callback body runs on the dispatcher's owner
// context, so the controller state needs no locking. Store callbacks only
// hop onto that context.
type Controller struct {
	store      health.Store
	dispatcher dispatch.Dispatcher
	labels     Labels
	gate       *Gate
	display    *Display

	state   State
	session *health.WorkoutSession
	queries []*health.LiveQuery
}

var _ health.SessionDelegate = (*Controller)(nil)

// NewController creates a controller in the inactive state
func NewController(store health.Store, dispatcher dispatch.Dispatcher, labels Labels, haptics Haptics) *Controller {
	return &Controller{
		store:      store,
		dispatcher: dispatcher,
		labels:     labels,
		gate:       NewGate(store, dispatcher),
		display:    NewDisplay(labels, haptics, dispatcher),
	}
}

// State returns the current workout state
func (c *Controller) State() State {
	return c.state
}

// Since returns the confirmed start of the running workout
func (c *Controller) Since() (time.Time, bool) {
	if c.state != Active || c.session == nil {
		return time.Time{}, false
	}
	return c.session.StartDate(), true
}

// Gate returns the authorization gate
func (c *Controller) Gate() *Gate {
	return c.gate
}

// Awake resets the labels and requests authorization. On failure both labels
// show the sentinel for the failure kind.
func (c *Controller) Awake() {
	c.labels.SetButtonTitle(TitleStart)
	c.labels.SetHeartRate(Placeholder)
	c.labels.SetVariability(Placeholder)

	c.gate.Request(func(state GateState) {
		switch state {
		case GateUnavailable:
			c.labels.SetHeartRate(NotAvailable)
			c.labels.SetVariability(NotAvailable)
		case GateDenied:
			c.labels.SetHeartRate(NotAllowed)
			c.labels.SetVariability(NotAllowed)
		}
	})
}

// Toggle is the start/stop button
func (c *Controller) Toggle() {
	if c.state == Inactive {
		c.Start()
		return
	}
	c.Stop()
}

// Start asks the store to begin a workout. It does nothing unless reads are
// authorized and no workout is in progress. A session that cannot be built
// is dropped without telling the user.
func (c *Controller) Start() {
	if !c.gate.Granted() || c.state != Inactive {
		return
	}

	session, err := c.store.NewWorkoutSession(health.WorkoutConfiguration{
		ActivityType: models.ActivityOther,
	})
	if err != nil {
		logger.Logger.WithError(err).Debug("workout session not created")
		return
	}

	session.SetDelegate(c)
	c.session = session
	c.state = Starting
	c.labels.SetButtonTitle(TitleStop)
	c.store.Start(session)
}

// Stop asks the store to end the workout. It does nothing when inactive.
// Queries are torn down once the store confirms the end.
func (c *Controller) Stop() {
	if c.state == Inactive || c.state == Ending || c.session == nil {
		return
	}

	c.state = Ending
	c.labels.SetButtonTitle(TitleStart)
	c.store.End(c.session)
}

func (c *Controller) WorkoutSessionDidChange(session *health.WorkoutSession, to, _ health.SessionState, date time.Time) {
	c.dispatcher.Dispatch(func() {
		if session != c.session {
			return
		}
		switch to {
		case health.SessionRunning:
			c.workoutDidStart(date)
		case health.SessionEnded:
			c.workoutDidEnd(date)
		}
	})
}

// WorkoutSessionDidFail is absorbed. A session that failed before running is
// dropped and the controller goes back to Inactive; any other failure leaves
// the state as it was.
func (c *Controller) WorkoutSessionDidFail(session *health.WorkoutSession, err error) {
	c.dispatcher.Dispatch(func() {
		logger.Logger.WithError(err).WithField("state", c.state).Debug("workout session failed")
		if session != c.session || c.state != Starting {
			return
		}
		c.session = nil
		c.state = Inactive
		c.labels.SetButtonTitle(TitleStart)
	})
}

func (c *Controller) workoutDidStart(date time.Time) {
	if c.state != Starting {
		// Stop was pressed before the store confirmed; the end is on its way
		return
	}
	c.state = Active

	for _, kind := range liveKinds {
		q, err := c.store.NewLiveQuery(kind, date, c.handleSamples)
		if err != nil {
			logger.Logger.WithError(err).WithField("kind", kind).Warn("live query setup failed")
			c.setNoData(kind)
			continue
		}
		c.queries = append(c.queries, q)
		c.store.Execute(q)
	}

	logger.Logger.WithFields(logrus.Fields{
		"start":   date,
		"queries": len(c.queries),
	}).Info("workout running")
}

func (c *Controller) workoutDidEnd(date time.Time) {
	for _, q := range c.queries {
		c.store.Stop(q)
	}
	c.queries = nil
	c.session = nil
	c.state = Inactive
	c.labels.SetButtonTitle(TitleStart)

	logger.Logger.WithField("end", date).Info("workout ended")
}

func (c *Controller) setNoData(kind models.Kind) {
	switch kind {
	case models.KindHeartRate:
		c.labels.SetHeartRate(NoData)
	case models.KindHeartRateVariability:
		c.labels.SetVariability(NoData)
	}
}

// handleSamples runs on a store goroutine. Only the first sample of a batch
// is shown, in whatever order the store delivered the batch.
func (c *Controller) handleSamples(q *health.LiveQuery, samples []models.Sample, err error) {
	if err != nil {
		logger.Logger.WithError(err).WithField("kind", q.Kind).Debug("live query delivered an error")
		return
	}
	if len(samples) == 0 {
		return
	}
	first := samples[0]

	c.dispatcher.Dispatch(func() {
		if !c.owns(q) {
			return
		}
		c.display.Show(first.Kind, first.Value)
	})
}

func (c *Controller) owns(q *health.LiveQuery) bool {
	for _, open := range c.queries {
		if open == q {
			return true
		}
	}
	return false
}
