package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/tranquil/internal/health"
	"github.com/balkashynov/tranquil/internal/history"
	"github.com/balkashynov/tranquil/internal/mirror"
	"github.com/balkashynov/tranquil/internal/watch"
)

// RunWatchTUI runs the live workout surface on store
func RunWatchTUI(store health.Store, pulse PulseConfig) error {
	dispatcher := NewProgramDispatcher()
	defer dispatcher.Close()

	model, labels, haptics := NewWatchModel(pulse)
	controller := watch.NewController(store, dispatcher, labels, haptics)
	model = model.WithController(controller)

	p := tea.NewProgram(model, tea.WithAltScreen())
	dispatcher.Attach(p)

	started := time.Now()
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	// Handle exit messages after TUI closes
	if m, ok := finalModel.(WatchModel); ok {
		switch m.controller.Gate().State() {
		case watch.GateDenied:
			fmt.Println("❌ Health access denied. Check health.authorization in your config.")
			return nil
		case watch.GateUnavailable:
			fmt.Println("❌ Health data is not available on this device.")
			return nil
		}
		if m.controller.State() != watch.Inactive {
			fmt.Println("⚠️  Workout did not confirm its end in time. Use 'tranquil stop' to end it.")
		}
		if cues := m.screen.pulse.Cues; cues > 0 {
			fmt.Printf("♥ %d haptic cues in %s\n", cues, formatDuration(time.Since(started)))
		}
	}
	return nil
}

// RunHistoryTUI runs the history surface on store. Every rendered row is
// written to writer.
func RunHistoryTUI(store health.Store, writer mirror.Writer, window time.Duration) error {
	dispatcher := NewProgramDispatcher()
	defer dispatcher.Close()

	model, view := NewHistoryModel()
	lister := history.NewLister(store, dispatcher, writer, view)
	lister.Window = window
	model = model.WithLister(lister)

	p := tea.NewProgram(model, tea.WithAltScreen())
	dispatcher.Attach(p)

	_, err := p.Run()
	return err
}
