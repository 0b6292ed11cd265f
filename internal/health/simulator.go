package health

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/balkashynov/tranquil/internal/db"
	"github.com/balkashynov/tranquil/internal/logger"
	"github.com/balkashynov/tranquil/internal/models"
)

const (
	restingHeartRate = 72.0
	restingHRV       = 45.0
)

// Simulator stands in for the watch sensors. While a workout runs it writes
// one heart-rate sample per Interval and one HRV sample every HRVEvery ticks.
type Simulator struct {
	Interval time.Duration
	HRVEvery int

	mu  sync.Mutex
	rng *rand.Rand
	hr  float64
	hrv float64
}

// NewSimulator creates a simulator with a deterministic random walk for seed
func NewSimulator(interval time.Duration, hrvEvery int, seed uint64) *Simulator {
	if hrvEvery < 1 {
		hrvEvery = 1
	}
	return &Simulator{
		Interval: interval,
		HRVEvery: hrvEvery,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		hr:       restingHeartRate,
		hrv:      restingHRV,
	}
}

// Tick returns the samples produced by tick n (starting at 1) taken at `at`
func (s *Simulator) Tick(n int, at time.Time) []models.Sample {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Random walk pulled back toward the resting value
	s.hr += s.rng.NormFloat64()*1.5 + (restingHeartRate-s.hr)*0.05
	s.hr = clamp(s.hr, 45, 185)

	samples := []models.Sample{{
		Kind:      models.KindHeartRate,
		Value:     s.hr,
		StartDate: at,
		Source:    "simulator",
	}}

	if n%s.HRVEvery == 0 {
		s.hrv += s.rng.NormFloat64()*3 + (restingHRV-s.hrv)*0.1
		s.hrv = clamp(s.hrv, 10, 150)
		samples = append(samples, models.Sample{
			Kind:      models.KindHeartRateVariability,
			Value:     s.hrv,
			StartDate: at,
			Source:    "simulator",
		})
	}

	return samples
}

// Run writes samples for workoutID until ctx is cancelled
func (s *Simulator) Run(ctx context.Context, workoutID uint) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			return
		case at := <-ticker.C:
			for _, sample := range s.Tick(n, at) {
				sample.WorkoutID = &workoutID
				if err := db.InsertSample(&sample); err != nil {
					logger.Logger.WithError(err).Warn("simulator failed to write sample")
				}
			}
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
