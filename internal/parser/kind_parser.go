package parser

import (
	"fmt"
	"strings"

	"github.com/balkashynov/tranquil/internal/models"
)

var kindAliases = map[string]models.Kind{
	"hr":                          models.KindHeartRate,
	"bpm":                         models.KindHeartRate,
	"pulse":                       models.KindHeartRate,
	"heart":                       models.KindHeartRate,
	"heartrate":                   models.KindHeartRate,
	"heart_rate":                  models.KindHeartRate,
	"heart-rate":                  models.KindHeartRate,
	"hrv":                         models.KindHeartRateVariability,
	"sdnn":                        models.KindHeartRateVariability,
	"variability":                 models.KindHeartRateVariability,
	"heart_rate_variability":      models.KindHeartRateVariability,
	"heart-rate-variability":      models.KindHeartRateVariability,
	"heart_rate_variability_sdnn": models.KindHeartRateVariability,
}

// NormalizeKind maps user input to a sample kind
// Accepts formats like:
// - "hr", "HR", "bpm", "heart-rate" -> heart_rate
// - "hrv", "SDNN", "variability" -> heart_rate_variability_sdnn
func NormalizeKind(input string) (models.Kind, error) {
	key := strings.ToLower(strings.TrimSpace(input))
	if key == "" {
		return "", fmt.Errorf("missing sample kind. Use: hr or hrv")
	}

	kind, ok := kindAliases[key]
	if !ok {
		return "", fmt.Errorf("unknown sample kind %q. Use: hr or hrv", input)
	}
	return kind, nil
}

// IsKind checks if a word names a sample kind
func IsKind(input string) bool {
	_, err := NormalizeKind(input)
	return err == nil
}
