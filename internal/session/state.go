package session

import "fmt"

// Phase is the submission lifecycle of one page.
type Phase int

const (
	Idle Phase = iota
	Submitting
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// TickCeiling is the highest progress the decorative ticker may reach.
const TickCeiling = 90.0

// State is the UI state of the analyzer page.
type State struct {
	Phase    Phase
	Progress float64
	Message  string
	Err      string
}

// Begin starts a submission. It reports false, leaving the state unchanged,
// while another submission is in flight.
func (s State) Begin(label string) (State, bool) {
	if s.Phase == Submitting {
		return s, false
	}
	return State{
		Phase:    Submitting,
		Progress: 0,
		Message:  fmt.Sprintf("Analyzing %s...", label),
	}, true
}

// Tick advances decorative progress by inc, never past TickCeiling.
func (s State) Tick(inc float64) State {
	if s.Phase != Submitting || inc <= 0 {
		return s
	}
	s.Progress += inc
	if s.Progress > TickCeiling {
		s.Progress = TickCeiling
	}
	return s
}

// Complete snaps progress to 100.
func (s State) Complete() State {
	return State{Phase: Succeeded, Progress: 100, Message: "Analysis complete!"}
}

// Fail snaps progress to 0 and records the user-facing error text.
func (s State) Fail(msg string) State {
	return State{Phase: Failed, Progress: 0, Message: "Analysis failed", Err: msg}
}
