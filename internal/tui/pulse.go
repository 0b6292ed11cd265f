package tui

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// PulseConfig holds configuration for the haptic pulse effect
type PulseConfig struct {
	Enabled      bool          // animations: on|off
	ReduceMotion bool          // if true → flash without fading
	Duration     time.Duration // how long a cue stays visible
	Bell         bool          // ring the terminal bell on each cue
}

// DefaultPulseConfig returns default pulse configuration
func DefaultPulseConfig() PulseConfig {
	return PulseConfig{
		Enabled:  true,
		Duration: 400 * time.Millisecond,
		Bell:     true,
	}
}

// PulseState is the visible trace of the last haptic cue: the heart readout
// flares up and fades back to its base color
type PulseState struct {
	Config            PulseConfig
	SupportsTrueColor bool
	LastCue           time.Time
	Cues              int
	Now               func() time.Time
}

// NewPulseState creates a new pulse state
func NewPulseState(config PulseConfig) *PulseState {
	return &PulseState{
		Config:            config,
		SupportsTrueColor: supportsTrueColor(),
		Now:               time.Now,
	}
}

// supportsTrueColor detects if terminal supports truecolor
func supportsTrueColor() bool {
	colorTerm := os.Getenv("COLORTERM")
	return colorTerm == "truecolor" || colorTerm == "24bit"
}

// Trigger starts a new pulse
func (p *PulseState) Trigger() {
	p.LastCue = p.Now()
	p.Cues++
	if p.Config.Bell {
		// stderr so the bell does not interleave with the alt screen
		fmt.Fprint(os.Stderr, "\a")
	}
}

// Weight is the pulse strength in [0,1]: 1 right after a cue, 0 once the
// cue duration has passed
func (p *PulseState) Weight() float64 {
	if !p.Config.Enabled || p.LastCue.IsZero() || p.Config.Duration <= 0 {
		return 0
	}
	elapsed := p.Now().Sub(p.LastCue)
	if elapsed < 0 || elapsed >= p.Config.Duration {
		return 0
	}
	if p.Config.ReduceMotion {
		return 1
	}
	w := 1 - float64(elapsed)/float64(p.Config.Duration)
	// Ease out
	return w * w
}

// Active reports whether the pulse is still visible
func (p *PulseState) Active() bool {
	return p.Weight() > 0
}

// Color blends base toward peak by the current weight
func (p *PulseState) Color(base, peak string) lipgloss.Color {
	w := p.Weight()
	if w == 0 {
		return lipgloss.Color(base)
	}
	if !p.SupportsTrueColor {
		// 256-color terminals just flash
		if w >= 0.5 {
			return lipgloss.Color(peak)
		}
		return lipgloss.Color(base)
	}

	br, bg, bb, ok1 := parseHex(base)
	pr, pg, pb, ok2 := parseHex(peak)
	if !ok1 || !ok2 {
		return lipgloss.Color(base)
	}

	// Linear blend: out = base*(1-w) + peak*w
	r := int(float64(br)*(1-w) + float64(pr)*w)
	g := int(float64(bg)*(1-w) + float64(pg)*w)
	b := int(float64(bb)*(1-w) + float64(pb)*w)
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, b))
}

// parseHex parses a #RRGGBB color
func parseHex(color string) (r, g, b int, ok bool) {
	if len(color) != 7 || color[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(color[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF), true
}
