package watch

import (
	"fmt"
	"time"

	"github.com/balkashynov/tranquil/internal/dispatch"
	"github.com/balkashynov/tranquil/internal/models"
)

// Label sentinels
const (
	NotAvailable = "N/A" // no health data on this device
	NotAllowed   = "n/a" // authorization denied
	NoData       = "/"   // live query could not be set up
	Placeholder  = "--"  // nothing received yet
)

// Button titles
const (
	TitleStart = "Start"
	TitleStop  = "Stop"
)

// SecondCueDelay separates the two haptic cues of a heart-rate update
const SecondCueDelay = 500 * time.Millisecond

// HapticType is a haptic cue the device can play
type HapticType int

const (
	HapticStart HapticType = iota
	HapticSuccess
)

func (h HapticType) String() string {
	switch h {
	case HapticStart:
		return "start"
	case HapticSuccess:
		return "success"
	default:
		return fmt.Sprintf("HapticType(%d)", int(h))
	}
}

// Labels are the on-screen fields the watch surface writes to
type Labels interface {
	SetHeartRate(text string)
	SetVariability(text string)
	SetButtonTitle(title string)
}

// Haptics plays haptic cues
type Haptics interface {
	Play(h HapticType)
}

// FormatValue renders a sample value with exactly one decimal digit
func FormatValue(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// Display turns a sample into label text and haptic cues. Show must run on
// the owner context of dispatcher.
type Display struct {
	labels     Labels
	haptics    Haptics
	dispatcher dispatch.Dispatcher
}

// NewDisplay creates a display
func NewDisplay(labels Labels, haptics Haptics, dispatcher dispatch.Dispatcher) *Display {
	return &Display{labels: labels, haptics: haptics, dispatcher: dispatcher}
}

// Show updates the label for kind. Heart rate also plays a start cue now and
// a success cue SecondCueDelay later. Other kinds are ignored.
func (d *Display) Show(kind models.Kind, value float64) {
	switch kind {
	case models.KindHeartRate:
		d.haptics.Play(HapticStart)
		d.dispatcher.DispatchAfter(SecondCueDelay, func() {
			d.haptics.Play(HapticSuccess)
		})
		d.labels.SetHeartRate(FormatValue(value))
	case models.KindHeartRateVariability:
		d.labels.SetVariability(FormatValue(value))
	}
}
