package session

import (
	"time"

	"github.com/abhisek/realie/internal/bank"
	"github.com/abhisek/realie/internal/countdown"
	"github.com/abhisek/realie/internal/scoring"
)

// Phase is the lifecycle stage of a session.
type Phase int

const (
	PhaseNotStarted Phase = iota // No test generated yet
	PhaseInProgress              // Timer running, answers accepted
	PhaseEvaluated               // Result frozen; terminal until a new Start
)

func (p Phase) String() string {
	switch p {
	case PhaseInProgress:
		return "in-progress"
	case PhaseEvaluated:
		return "evaluated"
	default:
		return "not-started"
	}
}

// Trigger records what caused an evaluation.
type Trigger int

const (
	TriggerManual Trigger = iota
	TriggerExpiry
)

func (t Trigger) String() string {
	if t == TriggerExpiry {
		return "expiry"
	}
	return "manual"
}

// EventKind identifies an outward signal.
type EventKind int

const (
	EventStarted EventKind = iota
	EventAnswered
	EventTick
	EventExpired
	EventEvaluated
	EventReviewLoaded
	EventAbandoned
)

// Event is delivered to the session listener after the state change it
// describes has been applied.
type Event struct {
	Kind EventKind

	// Position is set for EventAnswered.
	Position int

	// Tick is set for EventTick and EventExpired.
	Tick countdown.Tick

	// Trigger and Result are set for EventEvaluated.
	Trigger Trigger
	Result  scoring.Result
}

// Listener receives session events. It runs outside the session lock and
// may call back into the session.
type Listener func(Event)

// View is a consistent copy of the session state for rendering.
type View struct {
	Phase Phase

	// Review is true for a session loaded from history.
	Review bool

	Questions []bank.SelectedQuestion
	Answers   scoring.Answers
	Statuses  []scoring.Status
	Cursor    int
	Answered  int

	// Remaining and Band are the live countdown while in progress and the
	// value at evaluation afterwards.
	Remaining time.Duration
	Band      countdown.Band
	Limit     time.Duration

	// Result is nil until evaluation.
	Result *scoring.Result

	// EntryID is the history entry this attempt was archived as or
	// loaded from. Empty when nothing was archived.
	EntryID string
}

// Current returns the question under the cursor.
func (v View) Current() (bank.SelectedQuestion, bool) {
	if v.Cursor < 0 || v.Cursor >= len(v.Questions) {
		return bank.SelectedQuestion{}, false
	}
	return v.Questions[v.Cursor], true
}

// AllAnswered reports whether every question has an answer.
func (v View) AllAnswered() bool {
	return len(v.Questions) > 0 && v.Answered == len(v.Questions)
}
