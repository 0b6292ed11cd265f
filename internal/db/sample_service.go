package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/balkashynov/tranquil/internal/models"
)

// InsertSample stores a new sample. Times are kept in UTC so that range
// predicates compare correctly inside SQLite.
func InsertSample(sample *models.Sample) error {
	if !sample.Kind.Known() {
		return fmt.Errorf("unknown sample kind %q", sample.Kind)
	}
	if sample.StartDate.IsZero() {
		return fmt.Errorf("sample has no start date")
	}
	if sample.UUID == "" {
		sample.UUID = uuid.NewString()
	}
	if sample.Unit == "" {
		sample.Unit = sample.Kind.Unit()
	}
	if sample.EndDate.IsZero() {
		sample.EndDate = sample.StartDate
	}
	sample.StartDate = sample.StartDate.UTC()
	sample.EndDate = sample.EndDate.UTC()

	return DB.Create(sample).Error
}

// SamplesSince returns every sample of kind that starts at or after start.
// No end bound, no limit and no ordering are applied.
func SamplesSince(kind models.Kind, start time.Time) ([]models.Sample, error) {
	var samples []models.Sample

	err := DB.Where("kind = ? AND start_date >= ?", kind, start.UTC()).
		Find(&samples).Error
	if err != nil {
		return nil, err
	}

	return samples, nil
}

// SamplesAfter returns samples of kind starting at or after start that were
// inserted after the cursor seq, in insertion order
func SamplesAfter(kind models.Kind, start time.Time, seq uint) ([]models.Sample, error) {
	var samples []models.Sample

	err := DB.Where("kind = ? AND start_date >= ? AND seq > ?", kind, start.UTC(), seq).
		Order("seq ASC").
		Find(&samples).Error
	if err != nil {
		return nil, err
	}

	return samples, nil
}

// SamplesInRange returns all samples of any kind within [start, end], oldest first
func SamplesInRange(start, end time.Time) ([]models.Sample, error) {
	var samples []models.Sample

	err := DB.Where("start_date >= ? AND start_date <= ?", start.UTC(), end.UTC()).
		Order("start_date ASC").
		Find(&samples).Error
	if err != nil {
		return nil, err
	}

	return samples, nil
}
