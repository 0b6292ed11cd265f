package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/tranquil/internal/watch"
)

// watchScreen holds what the controller writes. Model copies share it, and
// it is only touched from Update.
type watchScreen struct {
	heartRate   string
	variability string
	button      string
	pulse       *PulseState
	lastCue     watch.HapticType
}

func (s *watchScreen) SetHeartRate(text string)    { s.heartRate = text }
func (s *watchScreen) SetVariability(text string)  { s.variability = text }
func (s *watchScreen) SetButtonTitle(title string) { s.button = title }

// Play shows a haptic cue as a pulse of the heart readout
func (s *watchScreen) Play(h watch.HapticType) {
	s.lastCue = h
	s.pulse.Trigger()
}

// WatchModel represents the TUI model for the live workout surface
type WatchModel struct {
	width  int
	height int

	screen     *watchScreen
	controller *watch.Controller

	// UI state
	quitting bool // waiting for the workout to end before quitting
}

// animationTickMsg drives the pulse and the workout clock
type animationTickMsg struct{}

// awakeMsg asks the controller to request authorization
type awakeMsg struct{}

// forceQuitMsg ends the program when a workout takes too long to end
type forceQuitMsg struct{}

const (
	animationInterval = 100 * time.Millisecond
	quitGrace         = 3 * time.Second
)

// NewWatchModel creates a new watch TUI model. The controller must be built
// with the returned labels and haptics.
func NewWatchModel(pulse PulseConfig) (WatchModel, watch.Labels, watch.Haptics) {
	screen := &watchScreen{
		heartRate:   watch.Placeholder,
		variability: watch.Placeholder,
		button:      watch.TitleStart,
		pulse:       NewPulseState(pulse),
	}
	return WatchModel{screen: screen}, screen, screen
}

// WithController binds the controller driving this model
func (m WatchModel) WithController(c *watch.Controller) WatchModel {
	m.controller = c
	return m
}

// Init initializes the watch model
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return awakeMsg{} },
		tea.Tick(animationInterval, func(time.Time) tea.Msg {
			return animationTickMsg{}
		}),
	)
}

// Update handles messages
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case awakeMsg:
		m.controller.Awake()
		return m, nil

	case dispatchMsg:
		msg.fn()
		if m.quitting && m.controller.State() == watch.Inactive {
			return m, tea.Quit
		}
		return m, nil

	case animationTickMsg:
		return m, tea.Tick(animationInterval, func(time.Time) tea.Msg {
			return animationTickMsg{}
		})

	case forceQuitMsg:
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.quitting {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "s", "S", " ":
			m.controller.Toggle()
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "q":
			// End the workout first, then quit
			if m.controller.State() == watch.Inactive {
				return m, tea.Quit
			}
			m.quitting = true
			m.controller.Stop()
			return m, tea.Tick(quitGrace, func(time.Time) tea.Msg {
				return forceQuitMsg{}
			})
		}
	}

	return m, nil
}

// View renders the watch TUI
func (m WatchModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := m.renderHelpBar()
	contentHeight := m.height - 2

	// Narrow view: stacked readouts
	if m.width < 90 {
		content := lipgloss.JoinVertical(
			lipgloss.Center,
			m.renderHeartPanel(m.width),
			"",
			m.renderVariabilityPanel(m.width),
			"",
			m.renderSessionPanel(m.width),
		)
		panel := lipgloss.NewStyle().
			Width(m.width).
			Height(contentHeight).
			Align(lipgloss.Center, lipgloss.Center).
			Render(content)
		return lipgloss.JoinVertical(lipgloss.Left, panel, helpBar)
	}

	// Wide view: readouts left, session right
	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(contentHeight).
		Align(lipgloss.Center, lipgloss.Center).
		Render(lipgloss.JoinVertical(
			lipgloss.Center,
			m.renderHeartPanel(leftWidth),
			"",
			"",
			m.renderVariabilityPanel(leftWidth),
		))

	right := lipgloss.NewStyle().
		Width(rightWidth).
		Height(contentHeight).
		Align(lipgloss.Center, lipgloss.Center).
		Render(m.renderSessionPanel(rightWidth))

	content := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	return lipgloss.JoinVertical(lipgloss.Left, content, helpBar)
}

// renderHeartPanel renders the heart-rate readout with the pulse
func (m WatchModel) renderHeartPanel(width int) string {
	pulse := m.screen.pulse
	heart := "♡"
	if pulse.Active() {
		heart = "♥"
	}

	headerStyle := lipgloss.NewStyle().
		Foreground(pulse.Color(ColorHeart, ColorHeartPulse)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)
	header := headerStyle.Render(fmt.Sprintf("%s  HEART RATE  %s", heart, heart))

	valueStyle := lipgloss.NewStyle().
		Foreground(pulse.Color(readoutColor(m.screen.heartRate, ColorHeart), ColorHeartPulse)).
		Bold(true)
	value := centerLines(renderBig(m.screen.heartRate, valueStyle), width)

	unit := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(width).
		Render(readoutCaption(m.screen.heartRate, "bpm"))

	return strings.Join([]string{header, value, unit}, "\n\n")
}

// renderVariabilityPanel renders the HRV readout
func (m WatchModel) renderVariabilityPanel(width int) string {
	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(readoutColor(m.screen.variability, ColorAccentMain))).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)

	unit := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(width).
		Render(readoutCaption(m.screen.variability, "ms SDNN"))

	return strings.Join([]string{
		headerStyle.Render("≋  VARIABILITY  ≋"),
		valueStyle.Render(m.screen.variability),
		unit,
	}, "\n")
}

// renderSessionPanel renders the button, the workout clock and the gate state
func (m WatchModel) renderSessionPanel(width int) string {
	var components []string

	logoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, logoStyle.Render("t r a n q u i l"))

	// Workout clock
	clockStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true)
	clock := "00:00"
	if since, ok := m.controller.Since(); ok {
		clock = formatClock(time.Since(since))
	}
	components = append(components, centerLines(renderBig(clock, clockStyle), width))

	// Button
	buttonColor := ColorSuccess
	if m.screen.button == watch.TitleStop {
		buttonColor = ColorError
	}
	if !m.controller.Gate().Granted() {
		buttonColor = ColorDisabledText
	}
	button := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(buttonColor)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(buttonColor)).
		Padding(0, 4).
		Render(m.screen.button)
	components = append(components, lipgloss.PlaceHorizontal(width, lipgloss.Center, button))

	// State line
	stateStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, stateStyle.Render(m.stateLine()))

	return strings.Join(components, "\n\n")
}

func (m WatchModel) stateLine() string {
	if m.quitting {
		return "Ending workout..."
	}
	switch m.controller.Gate().State() {
	case watch.GatePending:
		return "Waiting for health access..."
	case watch.GateDenied:
		return "Health access denied"
	case watch.GateUnavailable:
		return "Health data not available"
	}

	switch m.controller.State() {
	case watch.Starting:
		return "Starting workout..."
	case watch.Active:
		if m.screen.pulse.Cues > 0 {
			return fmt.Sprintf("Workout running · last cue: %s", m.screen.lastCue)
		}
		return "Workout running"
	case watch.Ending:
		return "Ending workout..."
	default:
		return "Press s to start a workout"
	}
}

// renderHelpBar renders the help bar at the bottom
func (m WatchModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	helpText := "s/space start/stop · esc/q end & quit · ctrl+c force quit"
	return helpStyle.Render(helpText)
}

// readoutColor dims sentinel and placeholder readouts
func readoutColor(text, base string) string {
	switch text {
	case watch.NotAllowed:
		return ColorError
	case watch.NotAvailable:
		return ColorWarning
	case watch.NoData, watch.Placeholder:
		return ColorDisabledText
	}
	return base
}

// readoutCaption explains sentinel readouts
func readoutCaption(text, unit string) string {
	switch text {
	case watch.NotAllowed:
		return "not allowed"
	case watch.NotAvailable:
		return "not available"
	case watch.NoData:
		return "no data"
	case watch.Placeholder:
		return "waiting"
	}
	return unit
}

// formatClock formats an elapsed workout time as mm:ss or hh:mm:ss
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	} else {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
}
