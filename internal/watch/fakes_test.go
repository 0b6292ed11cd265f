package watch

import (
	"errors"
	"time"

	"github.com/balkashynov/tranquil/internal/health"
	"github.com/balkashynov/tranquil/internal/models"
)

// manualDispatcher queues work until the test runs it
type manualDispatcher struct {
	queue   []func()
	delayed []delayedFn
}

type delayedFn struct {
	delay time.Duration
	fn    func()
}

func (d *manualDispatcher) Dispatch(fn func()) {
	d.queue = append(d.queue, fn)
}

func (d *manualDispatcher) DispatchAfter(delay time.Duration, fn func()) {
	d.delayed = append(d.delayed, delayedFn{delay: delay, fn: fn})
}

// drain runs queued work, including work queued while draining
func (d *manualDispatcher) drain() {
	for len(d.queue) > 0 {
		fn := d.queue[0]
		d.queue = d.queue[1:]
		fn()
	}
}

// fire runs every delayed function
func (d *manualDispatcher) fire() {
	delayed := d.delayed
	d.delayed = nil
	for _, df := range delayed {
		df.fn()
	}
	d.drain()
}

type recordingLabels struct {
	heartRate   []string
	variability []string
	titles      []string
}

func (l *recordingLabels) SetHeartRate(text string)    { l.heartRate = append(l.heartRate, text) }
func (l *recordingLabels) SetVariability(text string)  { l.variability = append(l.variability, text) }
func (l *recordingLabels) SetButtonTitle(title string) { l.titles = append(l.titles, title) }

func last(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

type recordingHaptics struct {
	played []HapticType
}

func (h *recordingHaptics) Play(t HapticType) { h.played = append(h.played, t) }

// fakeStore answers synchronously and records what was asked of it
type fakeStore struct {
	available  bool
	authorize  bool
	sessionErr error
	liveErr    map[models.Kind]error

	authRequests int
	started      []*health.WorkoutSession
	ended        []*health.WorkoutSession
	live         []*health.LiveQuery
	executed     []health.Query
	stopped      map[*health.LiveQuery]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		available: true,
		authorize: true,
		liveErr:   map[models.Kind]error{},
		stopped:   map[*health.LiveQuery]int{},
	}
}

func (s *fakeStore) IsHealthDataAvailable() bool { return s.available }

func (s *fakeStore) RequestAuthorization(_ []models.Kind, done func(bool, error)) {
	s.authRequests++
	if s.authorize {
		done(true, nil)
		return
	}
	done(false, health.ErrNotAuthorized)
}

func (s *fakeStore) NewWorkoutSession(cfg health.WorkoutConfiguration) (*health.WorkoutSession, error) {
	if s.sessionErr != nil {
		return nil, s.sessionErr
	}
	return health.NewWorkoutSession(cfg)
}

func (s *fakeStore) Start(session *health.WorkoutSession) { s.started = append(s.started, session) }
func (s *fakeStore) End(session *health.WorkoutSession)   { s.ended = append(s.ended, session) }

func (s *fakeStore) NewLiveQuery(kind models.Kind, start time.Time, handler health.LiveHandler) (*health.LiveQuery, error) {
	if err := s.liveErr[kind]; err != nil {
		return nil, err
	}
	q, err := health.NewLiveQuery(kind, start, handler)
	if err != nil {
		return nil, err
	}
	s.live = append(s.live, q)
	return q, nil
}

func (s *fakeStore) NewSampleQuery(kind models.Kind, start time.Time, handler health.SampleHandler) (*health.SampleQuery, error) {
	return nil, errors.New("not used")
}

func (s *fakeStore) Execute(q health.Query) { s.executed = append(s.executed, q) }

func (s *fakeStore) Stop(q health.Query) {
	if lq, ok := q.(*health.LiveQuery); ok {
		s.stopped[lq]++
	}
}

// deliver hands samples to every live query of kind, like a store goroutine would
func (s *fakeStore) deliver(kind models.Kind, samples ...models.Sample) {
	for _, q := range s.live {
		if q.Kind == kind {
			q.Handler(q, samples, nil)
		}
	}
}

func sample(kind models.Kind, value float64) models.Sample {
	return models.Sample{Kind: kind, Value: value, Unit: kind.Unit(), StartDate: time.Now()}
}
