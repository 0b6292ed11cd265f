package models

import (
	"time"
)

// Kind identifies the quantity a sample measures
type Kind string

const (
	KindHeartRate            Kind = "heart_rate"
	KindHeartRateVariability Kind = "heart_rate_variability_sdnn"
)

// Units for each kind
const (
	UnitBeatsPerMinute = "count/min"
	UnitMilliseconds   = "ms"
)

// Unit returns the unit samples of this kind are stored in
func (k Kind) Unit() string {
	switch k {
	case KindHeartRate:
		return UnitBeatsPerMinute
	case KindHeartRateVariability:
		return UnitMilliseconds
	default:
		return ""
	}
}

// Known reports whether the health store can serve this kind
func (k Kind) Known() bool {
	return k == KindHeartRate || k == KindHeartRateVariability
}

// Label is the short display name for a kind
func (k Kind) Label() string {
	switch k {
	case KindHeartRate:
		return "HR"
	case KindHeartRateVariability:
		return "HRV"
	default:
		return string(k)
	}
}

// Sample represents a single timestamped measurement
type Sample struct {
	Seq       uint      `gorm:"primarykey" json:"-"` // insertion order, used as the live query cursor
	UUID      string    `gorm:"uniqueIndex;not null" json:"uuid"`
	CreatedAt time.Time `json:"created_at"`

	Kind      Kind      `gorm:"index:idx_samples_kind_start;not null" json:"kind"`
	Value     float64   `gorm:"not null" json:"value"`
	Unit      string    `gorm:"not null" json:"unit"`
	StartDate time.Time `gorm:"index:idx_samples_kind_start;not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`

	// Optional metadata
	Source    string `json:"source"`    // simulator, manual, import
	WorkoutID *uint  `json:"workout_id"` // set when recorded during a workout
}
