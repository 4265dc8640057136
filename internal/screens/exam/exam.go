// Package exam is the screen on which a test is taken and, afterwards,
// reviewed question by question.
package exam

import (
	"fmt"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/realie/internal/countdown"
	"github.com/abhisek/realie/internal/nav"
	"github.com/abhisek/realie/internal/screen"
	"github.com/abhisek/realie/internal/session"
	"github.com/abhisek/realie/internal/ui/components"
	"github.com/abhisek/realie/internal/ui/layout"
)

// timerTickMsg drives the countdown while a test is running.
type timerTickMsg time.Time

// ExamScreen implements screen.Screen for a running or reviewed test.
type ExamScreen struct {
	sess   *session.Session
	sched  *countdown.ManualScheduler
	review bool

	cursor        int
	confirmQuit   bool
	confirmSubmit bool
	jumping       bool
	jump          components.NumberInput

	errMsg   string
	finished bool

	// evaluated is set by the session listener once the attempt is graded,
	// whether by submission or by expiry.
	evaluated bool
}

var (
	_ screen.Screen          = (*ExamScreen)(nil)
	_ screen.KeyHintProvider = (*ExamScreen)(nil)
	_ screen.EscapeHandler   = (*ExamScreen)(nil)
	_ screen.StatusProvider  = (*ExamScreen)(nil)
)

// Builder creates a session with the given extra options.
type Builder func(opts ...session.Option) *session.Session

// New creates a screen whose session is built by build and started on
// Init. The screen supplies the scheduler, fired from bubbletea ticks, and
// listens for the session's evaluation.
func New(build Builder) *ExamScreen {
	s := &ExamScreen{sched: &countdown.ManualScheduler{}}
	s.sess = build(session.WithScheduler(s.sched), session.WithListener(s.onEvent))
	return s
}

// NewReview creates a read-only screen over an evaluated session.
func NewReview(sess *session.Session) *ExamScreen {
	return &ExamScreen{sess: sess, review: true, finished: true}
}

// Session returns the underlying session.
func (s *ExamScreen) Session() *session.Session { return s.sess }

// onEvent runs on the bubbletea goroutine: the manual scheduler and every
// session call are driven from Update.
func (s *ExamScreen) onEvent(ev session.Event) {
	switch ev.Kind {
	case session.EventEvaluated:
		s.evaluated = true
	case session.EventStarted, session.EventAbandoned:
		s.evaluated = false
	}
}

func (s *ExamScreen) Init() tea.Cmd {
	if s.review {
		_ = s.sess.Navigate(0)
		s.syncCursor()
		return nil
	}
	if err := s.sess.Start(); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.syncCursor()
	return s.tickCmd()
}

func (s *ExamScreen) Title() string {
	if s.review {
		return "Kontrola odpovědí"
	}
	return "Test"
}

// HandlesEscape keeps Esc for the quit confirmation while a test runs.
func (s *ExamScreen) HandlesEscape() bool {
	return !s.review && s.errMsg == ""
}

// Status shows the countdown in the header.
func (s *ExamScreen) Status() string {
	if s.review || s.errMsg != "" {
		return ""
	}
	v := s.sess.Snapshot()
	return components.Timer(v.Remaining, v.Band)
}

func (s *ExamScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "libovolná klávesa", Description: "zpět"}}
	case s.confirmQuit || s.confirmSubmit:
		return []layout.KeyHint{
			{Key: "Y", Description: "ano"},
			{Key: "N", Description: "ne"},
		}
	case s.jumping:
		return []layout.KeyHint{
			{Key: "Enter", Description: "přejít"},
			{Key: "Esc", Description: "zrušit"},
		}
	case s.review:
		return []layout.KeyHint{
			{Key: "←→", Description: "otázka"},
			{Key: "G", Description: "přejít na"},
			{Key: "Esc", Description: "zpět"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "odpověď"},
		{Key: s.answerKeyHint(), Description: "vybrat"},
		{Key: "←→", Description: "otázka"},
		{Key: "G", Description: "přejít na"},
		{Key: "S", Description: "odevzdat"},
		{Key: "Esc", Description: "ukončit"},
	}
}

// answerKeyHint names the keys that pick an answer of the current question.
func (s *ExamScreen) answerKeyHint() string {
	n := 0
	if q, ok := s.sess.Snapshot().Current(); ok {
		n = len(q.Answers)
	}
	switch {
	case n <= 1:
		return "A"
	case n <= maxLetterAnswers:
		return "A-" + components.Letter(n-1)
	default:
		return fmt.Sprintf("1-%d", min(n, 9))
	}
}

func (s *ExamScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		return s.handleTick(time.Time(msg))
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.jumping {
		var cmd tea.Cmd
		s.jump, cmd = s.jump.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ExamScreen) tickCmd() tea.Cmd {
	interval := s.sess.Config().TickInterval
	if interval <= 0 {
		interval = time.Second
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

func (s *ExamScreen) handleTick(now time.Time) (screen.Screen, tea.Cmd) {
	if s.review || s.finished {
		return s, nil
	}
	if s.sched != nil {
		s.sched.Fire(now)
	}
	if s.evaluated {
		return s, s.finish()
	}
	if s.sess.Phase() == session.PhaseInProgress {
		return s, s.tickCmd()
	}
	return s, nil
}

// finish hands the evaluated session to the results screen once.
func (s *ExamScreen) finish() tea.Cmd {
	if s.finished {
		return nil
	}
	s.finished = true
	s.confirmQuit = false
	s.confirmSubmit = false
	s.jumping = false
	sess := s.sess
	return func() tea.Msg { return nav.ShowResultsMsg{Session: sess} }
}

func (s *ExamScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.errMsg != "" {
		return s, func() tea.Msg { return nav.HomeMsg{} }
	}

	switch {
	case s.confirmQuit:
		return s.handleQuitConfirm(msg)
	case s.confirmSubmit:
		return s.handleSubmitConfirm(msg)
	case s.jumping:
		return s.handleJump(msg)
	}

	// A late key after expiry must not touch the frozen session.
	if !s.review && s.sess.Phase() != session.PhaseInProgress {
		return s, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		if !s.review {
			s.confirmQuit = true
		}
		return s, nil
	case key.Matches(msg, keys.Prev):
		s.sess.Prev()
		s.syncCursor()
		return s, nil
	case key.Matches(msg, keys.Next):
		s.sess.Next()
		s.syncCursor()
		return s, nil
	case key.Matches(msg, keys.Jump):
		s.jumping = true
		s.jump = components.NewNumberInput(fmt.Sprintf("1-%d", len(s.sess.Snapshot().Questions)), 3)
		return s, s.jump.Init()
	}

	if s.review {
		return s, nil
	}

	switch {
	case key.Matches(msg, keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
		return s, nil
	case key.Matches(msg, keys.Down):
		if q, ok := s.sess.Snapshot().Current(); ok && s.cursor < len(q.Answers)-1 {
			s.cursor++
		}
		return s, nil
	case key.Matches(msg, keys.Choose):
		return s, s.choose(s.cursor)
	case key.Matches(msg, keys.Submit):
		s.confirmSubmit = true
		return s, nil
	}

	if idx, ok := answerKeys[msg.String()]; ok {
		if q, ok := s.sess.Snapshot().Current(); ok && q.ValidAnswer(idx) {
			s.cursor = idx
			return s, s.choose(idx)
		}
	}
	return s, nil
}

func (s *ExamScreen) choose(idx int) tea.Cmd {
	v := s.sess.Snapshot()
	if err := s.sess.RecordAnswer(v.Cursor, idx); err != nil {
		s.errMsg = err.Error()
	}
	return nil
}

func (s *ExamScreen) handleQuitConfirm(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		s.confirmQuit = false
		s.finished = true
		s.sess.Abandon()
		return s, func() tea.Msg { return nav.HomeMsg{} }
	case "n", "N", "esc":
		s.confirmQuit = false
	}
	return s, nil
}

func (s *ExamScreen) handleSubmitConfirm(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		s.confirmSubmit = false
		s.sess.Evaluate()
		if s.evaluated {
			return s, s.finish()
		}
	case "n", "N", "esc":
		s.confirmSubmit = false
	}
	return s, nil
}

func (s *ExamScreen) handleJump(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.jumping = false
		return s, nil
	case "enter":
		s.jumping = false
		n, err := s.jump.Value()
		if err == nil {
			if s.sess.Navigate(n-1) == nil {
				s.syncCursor()
			}
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.jump, cmd = s.jump.Update(msg)
	return s, cmd
}

// syncCursor points the answer cursor at the recorded choice, if any.
func (s *ExamScreen) syncCursor() {
	v := s.sess.Snapshot()
	if a, ok := v.Answers.Get(v.Cursor); ok {
		s.cursor = a
		return
	}
	s.cursor = 0
}
