package health

import (
	"fmt"
	"sync"
	"time"

	"github.com/balkashynov/tranquil/internal/models"
)

// SessionState is the lifecycle state of a workout session
type SessionState int

const (
	SessionNotStarted SessionState = iota
	SessionRunning
	SessionEnded
)

func (s SessionState) String() string {
	switch s {
	case SessionNotStarted:
		return "not_started"
	case SessionRunning:
		return "running"
	case SessionEnded:
		return "ended"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

// WorkoutConfiguration describes the workout to run
type WorkoutConfiguration struct {
	ActivityType models.ActivityType
}

// SessionDelegate receives session events from a store goroutine
type SessionDelegate interface {
	WorkoutSessionDidChange(session *WorkoutSession, to, from SessionState, date time.Time)
	WorkoutSessionDidFail(session *WorkoutSession, err error)
}

// WorkoutSession is a workout as seen by the health store
type WorkoutSession struct {
	Configuration WorkoutConfiguration

	mu        sync.Mutex
	delegate  SessionDelegate
	state     SessionState
	startDate time.Time
	endDate   time.Time
	workoutID uint
	stop      func()        // cancels the store's per-session goroutines
	started   chan struct{} // closed once the store's start work is done
}

// NewWorkoutSession validates cfg and returns a session that has not started.
// Stores use it to build the sessions they hand out.
func NewWorkoutSession(cfg WorkoutConfiguration) (*WorkoutSession, error) {
	if cfg.ActivityType == "" {
		return nil, fmt.Errorf("%w: missing activity type", ErrInvalidConfiguration)
	}
	return &WorkoutSession{Configuration: cfg}, nil
}

// SetDelegate sets the receiver of session events
func (s *WorkoutSession) SetDelegate(d SessionDelegate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delegate = d
}

// State returns the current state
func (s *WorkoutSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// StartDate is the confirmed start, zero until running
func (s *WorkoutSession) StartDate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startDate
}

// Transition moves the session to state at date and notifies the delegate.
// Moving to the current state, or out of SessionEnded, does nothing and
// returns false.
func (s *WorkoutSession) Transition(to SessionState, date time.Time) bool {
	s.mu.Lock()
	from := s.state
	if from == to || from == SessionEnded {
		s.mu.Unlock()
		return false
	}
	s.state = to
	switch to {
	case SessionRunning:
		s.startDate = date
	case SessionEnded:
		s.endDate = date
	}
	d := s.delegate
	var stop func()
	if to == SessionEnded {
		stop, s.stop = s.stop, nil
	}
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
	if d != nil {
		d.WorkoutSessionDidChange(s, to, from, date)
	}
	return true
}

// attach registers the cancel func of goroutines tied to this session.
// It returns false, without registering, once the session has ended.
func (s *WorkoutSession) attach(stop func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SessionEnded {
		return false
	}
	s.stop = stop
	return true
}

// beginStart marks the store's start work as in flight. It returns false if
// the session was already handed to a store.
func (s *WorkoutSession) beginStart() (chan struct{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started != nil {
		return nil, false
	}
	s.started = make(chan struct{})
	return s.started, true
}

// waitStarted blocks until the store's start work, if any, is done
func (s *WorkoutSession) waitStarted() {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if started != nil {
		<-started
	}
}

// detach cancels the session goroutines, if any
func (s *WorkoutSession) detach() {
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// Fail reports err to the delegate without changing state
func (s *WorkoutSession) Fail(err error) {
	s.mu.Lock()
	d := s.delegate
	s.mu.Unlock()

	if d != nil {
		d.WorkoutSessionDidFail(s, err)
	}
}
