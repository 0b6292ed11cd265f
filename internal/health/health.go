// Package health is the health data service the rest of the app talks to:
// authorization, workout sessions, live (anchored) queries and one-shot
// sample queries. Every result is delivered through a callback on a
// goroutine owned by the store; callers hand results to their own context.
package health

import (
	"errors"
	"time"

	"github.com/balkashynov/tranquil/internal/models"
)

var (
	ErrUnavailable          = errors.New("health data is not available")
	ErrNotAuthorized        = errors.New("not authorized to read health data")
	ErrUnsupportedKind      = errors.New("unsupported sample kind")
	ErrInvalidConfiguration = errors.New("invalid workout configuration")
	ErrSessionAlreadyActive = errors.New("a workout session is already running")
	ErrStoreClosed          = errors.New("health store closed")
)

// ReadKinds are the sample kinds the app asks to read
var ReadKinds = []models.Kind{models.KindHeartRate, models.KindHeartRateVariability}

// Store is the health data service
type Store interface {
	// IsHealthDataAvailable reports whether this device has a health store at all
	IsHealthDataAvailable() bool

	// RequestAuthorization asks for read access to kinds. done is called
	// exactly once, from a store goroutine.
	RequestAuthorization(read []models.Kind, done func(ok bool, err error))

	// NewWorkoutSession builds a session for cfg. It does not start it.
	NewWorkoutSession(cfg WorkoutConfiguration) (*WorkoutSession, error)
	// Start asks the store to begin session. The session's delegate is told
	// when it is actually running.
	Start(session *WorkoutSession)
	// End asks the store to end session. The delegate is told when it ended.
	End(session *WorkoutSession)

	// NewLiveQuery builds a standing query for kind anchored at start
	NewLiveQuery(kind models.Kind, start time.Time, handler LiveHandler) (*LiveQuery, error)
	// NewSampleQuery builds a one-shot query for kind since start
	NewSampleQuery(kind models.Kind, start time.Time, handler SampleHandler) (*SampleQuery, error)
	// Execute runs a query built by this store
	Execute(q Query)
	// Stop cancels a live query. Stopping twice, or stopping a query that was
	// never executed, does nothing.
	Stop(q Query)
}
