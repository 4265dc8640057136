// Package nav defines the navigation intents screens send to the app.
// Screens never construct each other directly; the app owns the wiring.
package nav

import (
	"github.com/abhisek/realie/internal/history"
	"github.com/abhisek/realie/internal/session"
)

// StartTestMsg asks for a fresh test.
type StartTestMsg struct{}

// ShowResultsMsg replaces the exam with the results of an evaluated session.
type ShowResultsMsg struct {
	Session *session.Session
}

// ReviewAnswersMsg opens a read-only walk through an evaluated session.
type ReviewAnswersMsg struct {
	Session *session.Session
}

// LoadEntryMsg opens the results of a past attempt.
type LoadEntryMsg struct {
	Entry history.Entry
}

// ShowHistoryMsg opens the history list.
type ShowHistoryMsg struct{}

// HomeMsg returns to the welcome screen.
type HomeMsg struct{}
