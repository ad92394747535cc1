package exercise

import (
	"errors"
	"fmt"
)

// Phase is one named stage of an exercise.
type Phase string

const (
	PhaseInhale Phase = "inhale"
	PhaseHold   Phase = "hold"
	PhaseExhale Phase = "exhale"
	// PhaseStill is the single phase of the meditation countdown.
	PhaseStill Phase = "still"
)

var (
	ErrEmptyProgram  = errors.New("program has no steps")
	ErrUnknownKind   = errors.New("unknown exercise kind")
	ErrBadStepLength = errors.New("step duration must be positive")
)

// Step is one timed stage within a cycle.
type Step struct {
	Phase   Phase
	Seconds int
}

// Program is an ordered sequence of steps repeated for Cycles repetitions.
// Cycles == 0 means the program repeats until explicitly stopped and never
// completes on its own.
type Program struct {
	Name   string
	Steps  []Step
	Cycles int
}

// Infinite reports whether the program only ends by cancellation.
func (p Program) Infinite() bool { return p.Cycles == 0 }

// Validate rejects programs the sequencer cannot run.
func (p Program) Validate() error {
	if len(p.Steps) == 0 {
		return ErrEmptyProgram
	}
	for _, step := range p.Steps {
		if step.Seconds <= 0 {
			return fmt.Errorf("%w: %s %ds", ErrBadStepLength, step.Phase, step.Seconds)
		}
	}
	return nil
}

// FourSixBreathing is eight repetitions of inhale 4s / exhale 6s, completing
// after the eighth repetition.
func FourSixBreathing() Program {
	return Program{
		Name:   "four-six",
		Steps:  []Step{{PhaseInhale, 4}, {PhaseExhale, 6}},
		Cycles: 8,
	}
}

// BoxBreathing cycles inhale/hold/exhale/hold at 4s each until stopped.
func BoxBreathing() Program {
	return Program{
		Name:  "box",
		Steps: []Step{{PhaseInhale, 4}, {PhaseHold, 4}, {PhaseExhale, 4}, {PhaseHold, 4}},
	}
}

// MeditationCountdown is a single 180-second still countdown.
func MeditationCountdown() Program {
	return Program{
		Name:   "meditation",
		Steps:  []Step{{PhaseStill, 180}},
		Cycles: 1,
	}
}

// ProgramByKind resolves the exercise kind names exposed over HTTP.
func ProgramByKind(kind string) (Program, error) {
	switch kind {
	case "four-six":
		return FourSixBreathing(), nil
	case "box":
		return BoxBreathing(), nil
	case "meditation":
		return MeditationCountdown(), nil
	default:
		return Program{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
