package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/balkashynov/tranquil/internal/models"
)

func TestSimulatorTick_HRVCadence(t *testing.T) {
	sim := NewSimulator(time.Second, 3, 42)
	at := time.Now()

	var hr, hrv int
	for n := 1; n <= 9; n++ {
		for _, s := range sim.Tick(n, at) {
			switch s.Kind {
			case models.KindHeartRate:
				hr++
				assert.GreaterOrEqual(t, s.Value, 45.0)
				assert.LessOrEqual(t, s.Value, 185.0)
			case models.KindHeartRateVariability:
				hrv++
			}
			assert.Equal(t, "simulator", s.Source)
		}
	}

	assert.Equal(t, 9, hr)
	assert.Equal(t, 3, hrv)
}

func TestSimulatorTick_Deterministic(t *testing.T) {
	a := NewSimulator(time.Second, 1, 7)
	b := NewSimulator(time.Second, 1, 7)
	at := time.Now()

	for n := 1; n <= 5; n++ {
		assert.Equal(t, a.Tick(n, at), b.Tick(n, at))
	}
}
