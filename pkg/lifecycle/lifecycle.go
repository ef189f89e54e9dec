// Package lifecycle tracks the service through its bootstrap states:
// starting, provisioning, ready, running, and the terminal stopped and
// failed states. Transitions are validated and strictly forward; the
// machine never re-enters an earlier state.
package lifecycle

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/coreos/go-systemd/v22/daemon"
)

// State is a lifecycle phase.
type State string

const (
	// StateStarting is the initial state.
	StateStarting State = "starting"

	// StateProvisioning covers the kubectl install.
	StateProvisioning State = "provisioning"

	// StateReady means the environment is provisioned and the server is
	// about to accept traffic.
	StateReady State = "ready"

	// StateRunning means the server is accepting traffic.
	StateRunning State = "running"

	// StateStopped is the terminal state of a clean shutdown.
	StateStopped State = "stopped"

	// StateFailed is the terminal state of an aborted bootstrap.
	StateFailed State = "failed"
)

// transitions lists the allowed next states for each state. Failed is
// reachable from every non-terminal state through Fail.
var transitions = map[State][]State{
	StateStarting:     {StateProvisioning, StateReady},
	StateProvisioning: {StateReady},
	StateReady:        {StateRunning},
	StateRunning:      {StateStopped},
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateStopped || s == StateFailed
}

// Machine is a thread-safe lifecycle state machine.
type Machine struct {
	mu    sync.RWMutex
	state State
	err   error

	notify   func(unsetEnv bool, state string) (bool, error)
	onChange []func(State)
	watchers []chan State
}

// Option configures a Machine.
type Option func(*Machine)

// WithNotify replaces the systemd notify function. Tests inject a recorder.
func WithNotify(notify func(unsetEnv bool, state string) (bool, error)) Option {
	return func(m *Machine) { m.notify = notify }
}

// WithOnChange registers a callback invoked after every state change.
func WithOnChange(fn func(State)) Option {
	return func(m *Machine) { m.onChange = append(m.onChange, fn) }
}

// New creates a Machine in the starting state.
func New(opts ...Option) *Machine {
	m := &Machine{
		state:  StateStarting,
		notify: daemon.SdNotify,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Err returns the failure cause, or nil unless the machine is failed.
func (m *Machine) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}

// Watch returns a channel that receives every subsequent state change. The
// channel is buffered for the full state sequence; a watcher that stops
// draining misses later states instead of blocking transitions.
func (m *Machine) Watch() <-chan State {
	ch := make(chan State, len(allStates))
	m.mu.Lock()
	m.watchers = append(m.watchers, ch)
	m.mu.Unlock()
	return ch
}

// To transitions to next, rejecting anything the transition table does not
// allow.
func (m *Machine) To(next State) error {
	m.mu.Lock()

	allowed := false
	for _, s := range transitions[m.state] {
		if s == next {
			allowed = true
			break
		}
	}
	if !allowed {
		cur := m.state
		m.mu.Unlock()
		return fmt.Errorf("invalid lifecycle transition %s -> %s", cur, next)
	}

	prev := m.state
	m.state = next
	m.mu.Unlock()

	m.announce(prev, next)
	return nil
}

// Fail moves to the failed state from any non-terminal state, recording the
// cause. Failing a terminal machine is a no-op.
func (m *Machine) Fail(err error) {
	m.mu.Lock()
	if m.state.Terminal() {
		m.mu.Unlock()
		return
	}
	prev := m.state
	m.state = StateFailed
	m.err = err
	m.mu.Unlock()

	slog.Error("lifecycle failed", "from", string(prev), "error", err)
	m.announce(prev, StateFailed)
}

// announce logs the transition, updates metrics, pings systemd where it
// cares, and runs the registered callbacks.
func (m *Machine) announce(prev, next State) {
	slog.Info("lifecycle transition", "from", string(prev), "to", string(next))
	transitionsTotal.WithLabelValues(string(prev), string(next)).Inc()
	setStateGauge(next)

	switch next {
	case StateReady:
		m.sdNotify(daemon.SdNotifyReady)
	case StateStopped, StateFailed:
		m.sdNotify(daemon.SdNotifyStopping)
	}

	for _, fn := range m.onChange {
		fn(next)
	}

	m.mu.RLock()
	watchers := m.watchers
	m.mu.RUnlock()
	for _, ch := range watchers {
		select {
		case ch <- next:
		default:
		}
	}
}

// sdNotify reports state to systemd when running under it. Absence of the
// notify socket is not an error.
func (m *Machine) sdNotify(state string) {
	sent, err := m.notify(false, state)
	if err != nil {
		slog.Warn("sd_notify failed", "state", state, "error", err)
		return
	}
	if sent {
		slog.Debug("notified systemd", "state", state)
	}
}
