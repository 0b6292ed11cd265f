package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/tranquil/internal/dispatch"
)

// dispatchMsg carries a function to run inside Update
type dispatchMsg struct {
	fn func()
}

// ProgramDispatcher runs dispatched functions inside a bubbletea program's
// Update, which makes Update the owner context. A dispatch.Loop keeps the
// order and keeps Dispatch from blocking when it is called from Update.
type ProgramDispatcher struct {
	loop    *dispatch.Loop
	program *tea.Program
}

// NewProgramDispatcher creates a dispatcher. Attach must be called before
// anything is dispatched.
func NewProgramDispatcher() *ProgramDispatcher {
	return &ProgramDispatcher{loop: dispatch.NewLoop()}
}

// Attach binds the dispatcher to its program
func (d *ProgramDispatcher) Attach(p *tea.Program) {
	d.program = p
}

func (d *ProgramDispatcher) Dispatch(fn func()) {
	d.loop.Dispatch(func() {
		// Send returns right away once the program has exited
		d.program.Send(dispatchMsg{fn: fn})
	})
}

func (d *ProgramDispatcher) DispatchAfter(delay time.Duration, fn func()) {
	time.AfterFunc(delay, func() { d.Dispatch(fn) })
}

// Close stops forwarding. Later dispatches are dropped.
func (d *ProgramDispatcher) Close() {
	d.loop.Close()
}
