package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/tranquil/internal/models"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, Initialize(filepath.Join(t.TempDir(), "sub", "test.db")))
	t.Cleanup(func() { _ = Close() })
}

func TestInsertSample_FillsDefaults(t *testing.T) {
	setupTestDB(t)

	start := time.Date(2021, 1, 10, 14, 15, 7, 0, time.FixedZone("CET", 3600))
	s := &models.Sample{Kind: models.KindHeartRate, Value: 63.456, StartDate: start}
	require.NoError(t, InsertSample(s))

	assert.NotEmpty(t, s.UUID)
	assert.NotZero(t, s.Seq)
	assert.Equal(t, models.UnitBeatsPerMinute, s.Unit)
	assert.True(t, s.EndDate.Equal(start))
	assert.Equal(t, time.UTC, s.StartDate.Location())
}

func TestInsertSample_RejectsUnknownKind(t *testing.T) {
	setupTestDB(t)

	err := InsertSample(&models.Sample{Kind: "steps", Value: 1, StartDate: time.Now()})
	assert.Error(t, err)

	err = InsertSample(&models.Sample{Kind: models.KindHeartRate, Value: 1})
	assert.Error(t, err, "missing start date")
}

func TestSamplesSince_StrictStartAndKind(t *testing.T) {
	setupTestDB(t)
	now := time.Now()

	require.NoError(t, InsertSample(&models.Sample{Kind: models.KindHeartRate, Value: 60, StartDate: now.Add(-8 * 24 * time.Hour)}))
	require.NoError(t, InsertSample(&models.Sample{Kind: models.KindHeartRate, Value: 61, StartDate: now.Add(-2 * time.Hour)}))
	require.NoError(t, InsertSample(&models.Sample{Kind: models.KindHeartRate, Value: 62, StartDate: now.Add(-time.Minute)}))
	require.NoError(t, InsertSample(&models.Sample{Kind: models.KindHeartRateVariability, Value: 40, StartDate: now.Add(-time.Minute)}))

	samples, err := SamplesSince(models.KindHeartRate, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, samples, 2)
	for _, s := range samples {
		assert.Equal(t, models.KindHeartRate, s.Kind)
	}
}

func TestSamplesAfter_Cursor(t *testing.T) {
	setupTestDB(t)
	start := time.Now().Add(-time.Hour)

	first := &models.Sample{Kind: models.KindHeartRate, Value: 70, StartDate: time.Now()}
	require.NoError(t, InsertSample(first))
	require.NoError(t, InsertSample(&models.Sample{Kind: models.KindHeartRate, Value: 71, StartDate: time.Now()}))

	all, err := SamplesAfter(models.KindHeartRate, start, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 70.0, all[0].Value)

	rest, err := SamplesAfter(models.KindHeartRate, start, first.Seq)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, 71.0, rest[0].Value)

	// Samples before the anchor are never delivered
	none, err := SamplesAfter(models.KindHeartRate, time.Now().Add(time.Hour), 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestWorkoutLifecycle(t *testing.T) {
	setupTestDB(t)
	started := time.Now().Add(-10 * time.Minute)

	w, err := StartWorkout(models.ActivityOther, started)
	require.NoError(t, err)
	assert.True(t, w.Active())

	_, err = StartWorkout(models.ActivityOther, time.Now())
	assert.ErrorIs(t, err, ErrWorkoutActive)

	active, err := GetActiveWorkout()
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, w.ID, active.ID)

	done, err := FinishWorkout(w.ID, started.Add(5*time.Minute), "user")
	require.NoError(t, err)
	assert.False(t, done.Active())
	assert.Equal(t, 300, done.DurationSeconds)
	assert.Equal(t, "user", done.EndReason)

	// Finishing twice keeps the first result
	again, err := FinishWorkout(w.ID, time.Now(), "platform")
	require.NoError(t, err)
	assert.Equal(t, "user", again.EndReason)

	active, err = GetActiveWorkout()
	require.NoError(t, err)
	assert.Nil(t, active)

	workouts, err := WorkoutsInRange(started.Add(-time.Minute), time.Now())
	require.NoError(t, err)
	assert.Len(t, workouts, 1)
}

func TestLastWorkoutActivity(t *testing.T) {
	setupTestDB(t)
	started := time.Now().Add(-30 * time.Minute).UTC().Truncate(time.Second)

	w, err := StartWorkout(models.ActivityOther, started)
	require.NoError(t, err)

	last, err := LastWorkoutActivity(w)
	require.NoError(t, err)
	assert.True(t, last.Equal(started))

	// Samples outside the workout do not count
	require.NoError(t, InsertSample(&models.Sample{Kind: models.KindHeartRate, Value: 80, StartDate: time.Now()}))

	id := w.ID
	at := started.Add(10 * time.Minute)
	require.NoError(t, InsertSample(&models.Sample{Kind: models.KindHeartRate, Value: 90, StartDate: at, WorkoutID: &id}))
	require.NoError(t, InsertSample(&models.Sample{Kind: models.KindHeartRate, Value: 95, StartDate: started.Add(time.Minute), WorkoutID: &id}))

	last, err = LastWorkoutActivity(w)
	require.NoError(t, err)
	assert.True(t, last.Equal(at))
}

func TestPutMirrorDocument_Upserts(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, PutMirrorDocument("Jan 10 02:15/2021-01-10 14:15:07 +0000", 63.4))
	require.NoError(t, PutMirrorDocument("Jan 10 02:15/2021-01-10 14:15:07 +0000", 64.0))
	require.NoError(t, PutMirrorDocument("Jan 10 02:16/2021-01-10 14:16:00 +0000", 65.0))

	docs, err := GetMirrorDocuments()
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, 64.0, docs[0].Value)
}
