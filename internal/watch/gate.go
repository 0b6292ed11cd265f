package watch

import (
	"errors"

	"github.com/balkashynov/tranquil/internal/dispatch"
	"github.com/balkashynov/tranquil/internal/health"
	"github.com/balkashynov/tranquil/internal/logger"
)

// GateState is the outcome of the authorization request
type GateState int

const (
	GatePending GateState = iota
	GateGranted
	GateDenied
	GateUnavailable
)

func (s GateState) String() string {
	switch s {
	case GatePending:
		return "pending"
	case GateGranted:
		return "granted"
	case GateDenied:
		return "denied"
	case GateUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Gate asks once for read access to heart rate and HRV. There is no retry;
// a denied or unavailable store stays that way for the rest of the run.
// All methods run on the owner context.
type Gate struct {
	store      health.Store
	dispatcher dispatch.Dispatcher

	state     GateState
	requested bool
}

// NewGate creates a gate in the pending state
func NewGate(store health.Store, dispatcher dispatch.Dispatcher) *Gate {
	return &Gate{store: store, dispatcher: dispatcher}
}

// State returns the current gate state
func (g *Gate) State() GateState {
	return g.state
}

// Granted reports whether reads were authorized
func (g *Gate) Granted() bool {
	return g.state == GateGranted
}

// Request asks for authorization. done runs on the owner context with the
// final state. Only the first call does anything.
func (g *Gate) Request(done func(GateState)) {
	if g.requested {
		return
	}
	g.requested = true

	if !g.store.IsHealthDataAvailable() {
		g.state = GateUnavailable
		logger.Logger.Info("health data not available")
		done(g.state)
		return
	}

	g.store.RequestAuthorization(health.ReadKinds, func(ok bool, err error) {
		g.dispatcher.Dispatch(func() {
			switch {
			case ok:
				g.state = GateGranted
			case errors.Is(err, health.ErrUnavailable):
				g.state = GateUnavailable
			default:
				g.state = GateDenied
			}
			logger.Logger.WithField("state", g.state).Info("health authorization finished")
			done(g.state)
		})
	})
}
