package app

import (
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/realie/internal/bank"
	"github.com/abhisek/realie/internal/examgen"
	"github.com/abhisek/realie/internal/history"
	"github.com/abhisek/realie/internal/nav"
	"github.com/abhisek/realie/internal/router"
	"github.com/abhisek/realie/internal/scoring"
	"github.com/abhisek/realie/internal/screens/exam"
	historyscreen "github.com/abhisek/realie/internal/screens/history"
	"github.com/abhisek/realie/internal/screens/results"
	"github.com/abhisek/realie/internal/session"
	"github.com/abhisek/realie/internal/store"
)

func testDeps(n int) Deps {
	var gs []bank.QuestionGroup
	for i := 0; i < n; i++ {
		gs = append(gs, bank.QuestionGroup{
			ID:    i + 1,
			Topic: fmt.Sprintf("t%d", i),
			Questions: []bank.CandidateQuestion{{
				Question:      "q",
				Answers:       []bank.Answer{{Text: "a"}, {Text: "b"}},
				CorrectAnswer: 0,
			}},
		})
	}
	cfg := session.DefaultConfig()
	cfg.QuestionCount = n
	cfg.Scoring = scoring.Config{PassThreshold: 2}
	return Deps{
		Bank:      bank.New(gs),
		History:   history.New(store.NewMemory()),
		Session:   cfg,
		Generator: examgen.NewSeeded(1),
	}
}

// step applies msg. For key presses it also runs the returned command once
// and feeds a resulting navigation message back into the model; other
// commands may be timers and are left alone.
func step(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(AppModel)
	if _, isKey := msg.(tea.KeyMsg); !isKey || cmd == nil {
		return m
	}
	switch out := cmd().(type) {
	case nav.StartTestMsg, nav.ShowResultsMsg, nav.ReviewAnswersMsg,
		nav.LoadEntryMsg, nav.ShowHistoryMsg, nav.HomeMsg, router.PopScreenMsg:
		next, _ = m.Update(out)
		m = next.(AppModel)
	}
	return m
}

func key(r rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: r, Text: string(r)} }

func TestApp_FullAttempt(t *testing.T) {
	deps := testDeps(3)
	m := NewModel(deps)

	m = step(t, m, nav.StartTestMsg{})
	ex, ok := m.router.Active().(*exam.ExamScreen)
	if !ok {
		t.Fatalf("active = %T, want exam", m.router.Active())
	}
	if ex.Session().Phase() != session.PhaseInProgress {
		t.Fatal("test should be running")
	}

	m = step(t, m, key('a'))
	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyRight})
	m = step(t, m, key('a'))
	m = step(t, m, key('s'))
	m = step(t, m, key('y'))

	if _, ok := m.router.Active().(*results.ResultsScreen); !ok {
		t.Fatalf("active = %T, want results", m.router.Active())
	}
	if m.router.Depth() != 2 {
		t.Errorf("depth = %d, results should replace the exam", m.router.Depth())
	}

	entries := deps.History.List()
	if len(entries) != 1 || entries[0].Result.Correct != 2 || !entries[0].Result.Passed {
		t.Fatalf("history = %+v", entries)
	}

	// Esc from results goes back home.
	m = step(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d after Esc", m.router.Depth())
	}
}

func TestApp_EscDuringTestAsksFirst(t *testing.T) {
	m := step(t, NewModel(testDeps(2)), nav.StartTestMsg{})

	next, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	m = next.(AppModel)
	if cmd != nil {
		t.Error("Esc during a test must not pop the screen")
	}
	if m.router.Depth() != 2 {
		t.Errorf("depth = %d", m.router.Depth())
	}

	m = step(t, m, key('y'))
	if m.router.Depth() != 1 {
		t.Errorf("confirmed quit should return home, depth = %d", m.router.Depth())
	}
}

func TestApp_ReviewAndHistory(t *testing.T) {
	deps := testDeps(2)
	m := step(t, NewModel(deps), nav.StartTestMsg{})
	sess := m.router.Active().(*exam.ExamScreen).Session()
	sess.Evaluate()

	m = step(t, m, nav.ShowResultsMsg{Session: sess})
	m = step(t, m, nav.ReviewAnswersMsg{Session: sess})
	if r, ok := m.router.Active().(*exam.ExamScreen); !ok || r.Title() != "Kontrola odpovědí" {
		t.Fatalf("active = %T, want review", m.router.Active())
	}

	m = step(t, m, nav.ShowHistoryMsg{})
	if _, ok := m.router.Active().(*historyscreen.HistoryScreen); !ok {
		t.Fatalf("active = %T, want history", m.router.Active())
	}
	if m.router.Depth() != 2 {
		t.Errorf("history should sit directly on home, depth = %d", m.router.Depth())
	}

	entry := deps.History.List()[0]
	m = step(t, m, nav.LoadEntryMsg{Entry: entry})
	res, ok := m.router.Active().(*results.ResultsScreen)
	if !ok {
		t.Fatalf("active = %T, want results", m.router.Active())
	}
	if !strings.Contains(res.View(80, 18), "0 z 2") {
		t.Error("loaded entry should show its stored score")
	}
	if len(deps.History.List()) != 1 {
		t.Error("reviewing must not archive again")
	}

	m = step(t, m, nav.HomeMsg{})
	if m.router.Depth() != 1 {
		t.Errorf("depth = %d after HomeMsg", m.router.Depth())
	}
}

func TestApp_View(t *testing.T) {
	m := NewModel(testDeps(2))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(AppModel)

	if !strings.Contains(m.frame(), "Začít test") {
		t.Error("home menu missing from view")
	}

	m = step(t, m, nav.StartTestMsg{})
	if !strings.Contains(m.frame(), "30:00") {
		t.Error("header should show the countdown")
	}
}

func TestApp_TooSmall(t *testing.T) {
	m := NewModel(testDeps(1))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if next.(AppModel).frame() == "" {
		t.Error("expected size warning")
	}
}

func TestApp_CtrlC(t *testing.T) {
	_, cmd := NewModel(testDeps(1)).Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}
