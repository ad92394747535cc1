package exercise

import (
	"sync"
	"time"
)

// Listener receives sequencer events. Callbacks run on the sequencer
// goroutine; none of them fires after Handle.Stop has returned.
type Listener struct {
	// OnTick fires once per tick with the seconds remaining in the current
	// step, including the step's first second.
	OnTick func(phase Phase, remaining, cycle int)
	// OnPhaseChange fires when a new step begins. cycle counts repetitions
	// starting at 1.
	OnPhaseChange func(phase Phase, cycle int)
	// OnComplete fires exactly once when a finite program runs out of
	// cycles. Infinite programs never fire it.
	OnComplete func()
}

// Sequencer drives timed exercise programs with a cooperative one-tick-per-
// interval loop. The interval is one second in production; tests inject a
// shorter one.
type Sequencer struct {
	interval time.Duration
}

// NewSequencer returns a sequencer ticking at the given interval. A zero or
// negative interval falls back to one second.
func NewSequencer(interval time.Duration) *Sequencer {
	if interval <= 0 {
		interval = time.Second
	}
	return &Sequencer{interval: interval}
}

// Handle cancels a running program. The zero value is not usable; obtain one
// from Sequencer.Start.
type Handle struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// Stop cancels the program and blocks until the run loop has exited, which
// guarantees no further callbacks fire once Stop returns. Stopping an
// already-finished program is a no-op.
func (h *Handle) Stop() {
	h.once.Do(func() { close(h.stop) })
	<-h.done
}

// Done is closed when the run loop exits, whether by completion or Stop.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Start validates the program and launches its run loop.
func (s *Sequencer) Start(program Program, listener Listener) (*Handle, error) {
	if err := program.Validate(); err != nil {
		return nil, err
	}

	h := &Handle{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go s.run(program, listener, h)
	return h, nil
}

func (s *Sequencer) run(program Program, listener Listener, h *Handle) {
	defer close(h.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for cycle := 1; program.Infinite() || cycle <= program.Cycles; cycle++ {
		for _, step := range program.Steps {
			if listener.OnPhaseChange != nil {
				listener.OnPhaseChange(step.Phase, cycle)
			}
			for remaining := step.Seconds; remaining > 0; remaining-- {
				if listener.OnTick != nil {
					listener.OnTick(step.Phase, remaining, cycle)
				}
				// The stop check precedes the tick wait so a cancel
				// requested between ticks never schedules another one.
				select {
				case <-h.stop:
					return
				case <-ticker.C:
				}
				select {
				case <-h.stop:
					return
				default:
				}
			}
		}
	}

	if listener.OnComplete != nil {
		listener.OnComplete()
	}
}
