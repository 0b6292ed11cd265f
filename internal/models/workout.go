package models

import (
	"time"

	"gorm.io/gorm"
)

// ActivityType is the workout activity a session was configured with
type ActivityType string

const (
	ActivityOther ActivityType = "other"
)

// Workout represents a workout session recorded by the health store
type Workout struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ActivityType    ActivityType `gorm:"not null;default:other" json:"activity_type"`
	StartedAt       time.Time    `gorm:"not null" json:"started_at"`
	FinishedAt      *time.Time   `json:"finished_at"`
	DurationSeconds int          `json:"duration_seconds"` // calculated field
	EndReason       string       `json:"end_reason"`       // user, platform, failure
}

// Active reports whether the workout has not finished yet
func (w Workout) Active() bool {
	return w.FinishedAt == nil
}
