package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/balkashynov/tranquil/internal/db"
	"github.com/balkashynov/tranquil/internal/logger"
	"github.com/balkashynov/tranquil/internal/models"
)

// End reasons recorded on workouts
const (
	EndReasonUser     = "user"
	EndReasonPlatform = "platform"
)

// LocalOptions configures a LocalStore
type LocalOptions struct {
	// Available false makes the store behave like a device without health data
	Available bool
	// Authorize decides the outcome of RequestAuthorization
	Authorize bool
	// PollInterval is how often live queries and running sessions are checked
	PollInterval time.Duration
	// Simulator, when set, feeds samples into the store while a workout runs
	Simulator *Simulator
}

// LocalStore is a Store backed by the local SQLite database. Live queries
// poll for rows inserted after their cursor. A running workout that gets
// finished by someone else (`tranquil stop`) is reported as ended by the
// platform.
type LocalStore struct {
	opts LocalOptions

	mu         sync.Mutex
	authorized bool
	closed     bool
	active     *WorkoutSession
	running    map[*LiveQuery]context.CancelFunc
	wg         sync.WaitGroup
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore creates a store on the already initialized db package
func NewLocalStore(opts LocalOptions) *LocalStore {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 500 * time.Millisecond
	}
	return &LocalStore{
		opts:    opts,
		running: make(map[*LiveQuery]context.CancelFunc),
	}
}

func (s *LocalStore) IsHealthDataAvailable() bool {
	return s.opts.Available
}

func (s *LocalStore) RequestAuthorization(read []models.Kind, done func(ok bool, err error)) {
	s.goTracked(func() {
		if !s.opts.Available {
			done(false, ErrUnavailable)
			return
		}
		for _, k := range read {
			if !k.Known() {
				done(false, fmt.Errorf("%w: %q", ErrUnsupportedKind, k))
				return
			}
		}
		if !s.opts.Authorize {
			logger.Logger.WithField("kinds", read).Info("health authorization denied")
			done(false, ErrNotAuthorized)
			return
		}

		s.mu.Lock()
		s.authorized = true
		s.mu.Unlock()
		done(true, nil)
	})
}

func (s *LocalStore) NewWorkoutSession(cfg WorkoutConfiguration) (*WorkoutSession, error) {
	if !s.opts.Available {
		return nil, ErrUnavailable
	}
	return NewWorkoutSession(cfg)
}

func (s *LocalStore) Start(session *WorkoutSession) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		session.Fail(ErrStoreClosed)
		return
	}
	if s.active != nil && s.active != session {
		s.mu.Unlock()
		session.Fail(ErrSessionAlreadyActive)
		return
	}
	s.active = session
	s.mu.Unlock()

	started, ok := session.beginStart()
	if !ok {
		return
	}

	s.goTracked(func() {
		defer close(started)
		if session.State() != SessionNotStarted {
			return
		}

		now := time.Now()
		workout, err := db.StartWorkout(session.Configuration.ActivityType, now)
		if err != nil {
			s.clearActive(session)
			session.Fail(fmt.Errorf("start workout: %w", err))
			return
		}

		session.mu.Lock()
		session.workoutID = workout.ID
		session.mu.Unlock()

		if !session.Transition(SessionRunning, now) {
			// Ended before it ever ran
			if _, err := db.FinishWorkout(workout.ID, time.Now(), EndReasonUser); err != nil {
				logger.Logger.WithError(err).WithField("workout_id", workout.ID).Warn("failed to record workout end")
			}
			s.clearActive(session)
			return
		}

		logger.Logger.WithFields(logrus.Fields{
			"workout_id": workout.ID,
			"activity":   workout.ActivityType,
		}).Info("workout started")

		s.watchSession(session, workout.ID)
	})
}

func (s *LocalStore) End(session *WorkoutSession) {
	s.goTracked(func() {
		session.waitStarted()
		s.finish(session, EndReasonUser, time.Now())
	})
}

// finish records the end of session and notifies its delegate. It waits for
// Start to create the workout row first, so the row is finished before the
// delegate hears about the end.
func (s *LocalStore) finish(session *WorkoutSession, reason string, at time.Time) {
	session.waitStarted()

	session.mu.Lock()
	id := session.workoutID
	session.mu.Unlock()

	if id != 0 {
		if _, err := db.FinishWorkout(id, at, reason); err != nil {
			logger.Logger.WithError(err).WithField("workout_id", id).Warn("failed to record workout end")
		}
	}

	s.clearActive(session)
	if session.Transition(SessionEnded, at) {
		logger.Logger.WithFields(logrus.Fields{
			"workout_id": id,
			"reason":     reason,
		}).Info("workout ended")
	}
}

func (s *LocalStore) clearActive(session *WorkoutSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == session {
		s.active = nil
	}
}

// watchSession runs the simulator and notices workouts finished elsewhere
func (s *LocalStore) watchSession(session *WorkoutSession, workoutID uint) {
	ctx, cancel := context.WithCancel(context.Background())
	if !session.attach(cancel) {
		cancel()
		return
	}

	if sim := s.opts.Simulator; sim != nil {
		s.goTracked(func() { sim.Run(ctx, workoutID) })
	}

	s.goTracked(func() {
		ticker := time.NewTicker(s.opts.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w, err := db.GetWorkout(workoutID)
				if err != nil {
					logger.Logger.WithError(err).Debug("workout poll failed")
					continue
				}
				if w.FinishedAt != nil {
					s.finish(session, EndReasonPlatform, w.FinishedAt.Local())
					return
				}
			}
		}
	})
}

func (s *LocalStore) NewLiveQuery(kind models.Kind, start time.Time, handler LiveHandler) (*LiveQuery, error) {
	if !s.opts.Available {
		return nil, ErrUnavailable
	}
	return NewLiveQuery(kind, start, handler)
}

func (s *LocalStore) NewSampleQuery(kind models.Kind, start time.Time, handler SampleHandler) (*SampleQuery, error) {
	if !s.opts.Available {
		return nil, ErrUnavailable
	}
	return NewSampleQuery(kind, start, handler)
}

func (s *LocalStore) Execute(q Query) {
	s.mu.Lock()
	closed, authorized := s.closed, s.authorized
	s.mu.Unlock()

	switch q := q.(type) {
	case *LiveQuery:
		if err := gateError(closed, authorized); err != nil {
			s.goTracked(func() { q.Handler(q, nil, err) })
			return
		}
		s.executeLive(q)
	case *SampleQuery:
		if err := gateError(closed, authorized); err != nil {
			s.goTracked(func() { q.Handler(q, nil, err) })
			return
		}
		s.goTracked(func() {
			samples, err := db.SamplesSince(q.Kind, q.Start)
			q.Handler(q, samples, err)
		})
	}
}

func gateError(closed, authorized bool) error {
	if closed {
		return ErrStoreClosed
	}
	if !authorized {
		return ErrNotAuthorized
	}
	return nil
}

func (s *LocalStore) executeLive(q *LiveQuery) {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if _, ok := s.running[q]; ok {
		s.mu.Unlock()
		cancel()
		return
	}
	s.running[q] = cancel
	s.mu.Unlock()

	s.goTracked(func() {
		var cursor uint
		poll := func(initial bool) {
			samples, err := db.SamplesAfter(q.Kind, q.Start, cursor)
			if err != nil {
				logger.Logger.WithError(err).WithField("kind", q.Kind).Warn("live query poll failed")
				if initial && ctx.Err() == nil {
					q.Handler(q, nil, err)
				}
				return
			}
			for _, sample := range samples {
				if sample.Seq > cursor {
					cursor = sample.Seq
				}
			}
			// The initial batch is delivered even when empty
			if (!initial && len(samples) == 0) || ctx.Err() != nil {
				return
			}
			q.Handler(q, samples, nil)
		}

		poll(true)

		ticker := time.NewTicker(s.opts.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				poll(false)
			}
		}
	})
}

func (s *LocalStore) Stop(q Query) {
	lq, ok := q.(*LiveQuery)
	if !ok {
		return
	}

	s.mu.Lock()
	cancel, ok := s.running[lq]
	delete(s.running, lq)
	s.mu.Unlock()

	if ok {
		cancel()
	}
}

// Close stops every live query and session watcher and waits for store
// goroutines to finish
func (s *LocalStore) Close() {
	s.mu.Lock()
	s.closed = true
	for q, cancel := range s.running {
		cancel()
		delete(s.running, q)
	}
	active := s.active
	s.mu.Unlock()

	if active != nil {
		active.detach()
	}

	s.wg.Wait()
}

func (s *LocalStore) goTracked(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}
