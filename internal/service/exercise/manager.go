package exercise

import (
	"log"
	"sync"
)

// Manager owns the single active exercise per session: starting a new
// program always stops the previous one first, so two sequencer loops can
// never drive the same display concurrently.
type Manager struct {
	sequencer *Sequencer

	mu      sync.Mutex
	current *Handle
	name    string
}

// NewManager wraps the sequencer with single-active-exercise bookkeeping.
func NewManager(sequencer *Sequencer) *Manager {
	return &Manager{sequencer: sequencer}
}

// Start stops any running exercise, then starts the given program. The
// returned handle is also retained so Stop can cancel it later. The lock is
// held across the whole stop-then-start sequence so two concurrent Starts
// can never both launch a sequencer; Handle.Stop never takes this lock.
func (m *Manager) Start(program Program, listener Listener) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		log.Printf("[exercise] stopping %s before starting %s", m.name, program.Name)
		m.current.Stop()
		m.current, m.name = nil, ""
	}

	handle, err := m.sequencer.Start(program, listener)
	if err != nil {
		return nil, err
	}
	m.current, m.name = handle, program.Name

	log.Printf("[exercise] started %s", program.Name)
	return handle, nil
}

// Stop cancels the active exercise, if any. Safe to call when nothing runs.
func (m *Manager) Stop() {
	m.mu.Lock()
	handle, name := m.current, m.name
	m.current, m.name = nil, ""
	m.mu.Unlock()

	if handle == nil {
		return
	}
	handle.Stop()
	log.Printf("[exercise] stopped %s", name)
}

// Active returns the name of the running program, or "" when idle.
func (m *Manager) Active() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ""
	}
	select {
	case <-m.current.Done():
		return ""
	default:
		return m.name
	}
}
