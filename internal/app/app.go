// Package app is the root bubbletea model. It owns the screen stack and
// turns navigation intents from screens into screen transitions.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/realie/internal/bank"
	"github.com/abhisek/realie/internal/countdown"
	"github.com/abhisek/realie/internal/examgen"
	"github.com/abhisek/realie/internal/history"
	"github.com/abhisek/realie/internal/nav"
	"github.com/abhisek/realie/internal/router"
	"github.com/abhisek/realie/internal/screen"
	"github.com/abhisek/realie/internal/screens/exam"
	historyscreen "github.com/abhisek/realie/internal/screens/history"
	"github.com/abhisek/realie/internal/screens/home"
	"github.com/abhisek/realie/internal/screens/results"
	"github.com/abhisek/realie/internal/session"
	"github.com/abhisek/realie/internal/ui/layout"
)

// Deps are the services the TUI runs on.
type Deps struct {
	Bank    *bank.Bank
	History *history.Log
	Session session.Config

	// Generator defaults to an examgen.Generator seeded from the OS.
	Generator session.Generator
	Logger    *zap.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps   Deps
	router *router.Router
	width  int
	height int
}

// NewModel creates an AppModel with the home screen.
func NewModel(deps Deps) AppModel {
	if deps.Generator == nil {
		deps.Generator = examgen.New(nil)
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	questions := deps.Session.QuestionCount
	if questions <= 0 {
		questions = deps.Bank.GroupCount()
	}
	rules := home.Rules{
		Questions:     questions,
		PassThreshold: deps.Session.Scoring.PassThreshold,
		PassPercent:   deps.Session.Scoring.ThresholdPercentage(questions),
		TimeLimit:     deps.Session.TimeLimit,
	}

	var archive home.Lister
	if deps.History != nil {
		archive = deps.History
	}

	return AppModel{
		deps:   deps,
		router: router.New(home.New(rules, archive)),
	}
}

// newSession builds a session archiving into the history, with extra
// options applied last.
func (m AppModel) newSession(extra ...session.Option) *session.Session {
	opts := []session.Option{session.WithLogger(m.deps.Logger)}
	if m.deps.History != nil {
		opts = append(opts, session.WithRecorder(m.deps.History))
	}
	opts = append(opts, extra...)
	return session.New(m.deps.Bank, m.deps.Generator, m.deps.Session, opts...)
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}

	case nav.StartTestMsg:
		m.deps.Logger.Debug("navigate", zap.String("to", "exam"))
		m.router.PopToRoot()
		return m, m.router.Push(exam.New(m.newSession))

	case nav.ShowResultsMsg:
		return m, m.router.Replace(results.New(msg.Session))

	case nav.ReviewAnswersMsg:
		return m, m.router.Push(exam.NewReview(msg.Session))

	case nav.LoadEntryMsg:
		m.deps.Logger.Debug("navigate", zap.String("to", "entry"), zap.String("entry_id", msg.Entry.ID))
		sess := m.newSession(session.WithScheduler(&countdown.ManualScheduler{}))
		sess.LoadForReview(msg.Entry)
		return m, m.router.Push(results.New(sess))

	case nav.ShowHistoryMsg:
		if m.deps.History == nil {
			return m, nil
		}
		m.router.PopToRoot()
		return m, m.router.Push(historyscreen.New(m.deps.History))

	case nav.HomeMsg:
		return m, m.router.PopToRoot()
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if f := m.frame(); f != "" {
		v.SetContent(f)
	}
	return v
}

// frame renders header, active screen and footer for the current size.
func (m AppModel) frame() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "zpět"},
			{Key: "Ctrl+C", Description: "konec"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(deps Deps) error {
	p := tea.NewProgram(NewModel(deps))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
