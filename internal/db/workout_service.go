package db

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/tranquil/internal/models"
)

// ErrWorkoutActive is returned when a workout is started while another one is running
var ErrWorkoutActive = errors.New("workout already active")

// StartWorkout records the start of a new workout
func StartWorkout(activity models.ActivityType, startedAt time.Time) (*models.Workout, error) {
	// Check if there's already an active workout
	var active models.Workout
	err := DB.Where("finished_at IS NULL").First(&active).Error
	if err == nil {
		return nil, fmt.Errorf("%w: #%d started at %s", ErrWorkoutActive, active.ID, active.StartedAt.Local().Format("15:04:05"))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	workout := models.Workout{
		ActivityType: activity,
		StartedAt:    startedAt.UTC(),
	}

	if err := DB.Create(&workout).Error; err != nil {
		return nil, err
	}

	return &workout, nil
}

// FinishWorkout marks a workout as finished. Finishing an already finished
// workout returns it unchanged.
func FinishWorkout(id uint, finishedAt time.Time, reason string) (*models.Workout, error) {
	var workout models.Workout
	if err := DB.First(&workout, id).Error; err != nil {
		return nil, fmt.Errorf("workout #%d not found", id)
	}

	if workout.FinishedAt != nil {
		return &workout, nil
	}

	finished := finishedAt.UTC()
	workout.FinishedAt = &finished
	workout.DurationSeconds = int(finished.Sub(workout.StartedAt).Seconds())
	workout.EndReason = reason

	if err := DB.Save(&workout).Error; err != nil {
		return nil, err
	}

	return &workout, nil
}

// GetActiveWorkout returns the currently running workout, if any
func GetActiveWorkout() (*models.Workout, error) {
	var workout models.Workout

	err := DB.Where("finished_at IS NULL").First(&workout).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // No active workout is not an error
	}
	if err != nil {
		return nil, err
	}

	return &workout, nil
}

// WorkoutsInRange returns finished workouts that started within the range
func WorkoutsInRange(startTime, endTime time.Time) ([]models.Workout, error) {
	var workouts []models.Workout

	err := DB.Where("started_at >= ? AND started_at <= ? AND finished_at IS NOT NULL", startTime.UTC(), endTime.UTC()).
		Order("started_at ASC").
		Find(&workouts).Error

	if err != nil {
		return nil, err
	}

	return workouts, nil
}

// GetWorkout retrieves a workout by ID
func GetWorkout(id uint) (*models.Workout, error) {
	var workout models.Workout
	if err := DB.First(&workout, id).Error; err != nil {
		return nil, fmt.Errorf("workout #%d not found", id)
	}
	return &workout, nil
}

// LastWorkoutActivity returns the start of the newest sample recorded during
// the workout, or the workout start when it has none
func LastWorkoutActivity(workout *models.Workout) (time.Time, error) {
	var samples []models.Sample
	err := DB.Where("workout_id = ?", workout.ID).
		Order("start_date DESC").
		Limit(1).
		Find(&samples).Error
	if err != nil {
		return time.Time{}, err
	}

	if len(samples) == 0 || samples[0].StartDate.Before(workout.StartedAt) {
		return workout.StartedAt, nil
	}
	return samples[0].StartDate, nil
}
