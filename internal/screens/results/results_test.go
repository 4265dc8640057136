package results

import (
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/realie/internal/bank"
	"github.com/abhisek/realie/internal/countdown"
	"github.com/abhisek/realie/internal/examgen"
	"github.com/abhisek/realie/internal/history"
	"github.com/abhisek/realie/internal/nav"
	"github.com/abhisek/realie/internal/scoring"
	"github.com/abhisek/realie/internal/session"
)

func testSession(t *testing.T, n, correct int) *session.Session {
	t.Helper()
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
	cfg.QuestionCount = 0
	sess := session.New(bank.New(gs), examgen.NewSeeded(1), cfg,
		session.WithScheduler(&countdown.ManualScheduler{}))
	if err := sess.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i := 0; i < correct; i++ {
		if err := sess.RecordAnswer(i, 0); err != nil {
			t.Fatalf("RecordAnswer: %v", err)
		}
	}
	if correct < n {
		if err := sess.RecordAnswer(correct, 1); err != nil {
			t.Fatalf("RecordAnswer: %v", err)
		}
	}
	sess.Evaluate()
	return sess
}

func TestResultsScreen_Title(t *testing.T) {
	s := New(testSession(t, 30, 18))
	if s.Title() != "Výsledek" {
		t.Errorf("Title = %q", s.Title())
	}
}

func TestResultsScreen_Passed(t *testing.T) {
	view := New(testSession(t, 30, 18)).View(80, 18)
	for _, want := range []string{"18 z 30", "Uspěli jste", "60 %", "K úspěchu stačilo 18", "00:00", "✓", "✗", "—"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestResultsScreen_Failed(t *testing.T) {
	view := New(testSession(t, 30, 17)).View(80, 18)
	if !strings.Contains(view, "Neuspěli jste") || !strings.Contains(view, "57 %") {
		t.Errorf("expected failing verdict:\n%s", view)
	}
	if !strings.Contains(view, "Pro úspěch je potřeba minimálně 18") {
		t.Errorf("failed attempt should state the requirement:\n%s", view)
	}
	if strings.Contains(view, "K úspěchu stačilo") {
		t.Errorf("failed attempt must not say the threshold sufficed:\n%s", view)
	}
}

func TestResultsScreen_Details(t *testing.T) {
	view := New(testSession(t, 30, 17)).View(80, 60)
	for _, want := range []string{"1. t0: q", "Vaše odpověď: A) a", "Správná odpověď: A) a", "Otázky 1–"} {
		if !strings.Contains(view, want) {
			t.Errorf("details missing %q:\n%s", want, view)
		}
	}
}

func TestResultsScreen_DetailsScroll(t *testing.T) {
	s := New(testSession(t, 30, 17))

	for _, msg := range []tea.Msg{
		tea.KeyPressMsg{Code: tea.KeyPgDown},
		tea.KeyPressMsg{Code: tea.KeyPgDown},
		tea.KeyPressMsg{Code: tea.KeyPgDown},
		tea.KeyPressMsg{Code: ']', Text: "]"},
		tea.KeyPressMsg{Code: ']', Text: "]"},
	} {
		s.Update(msg)
	}
	if s.Offset() != 17 {
		t.Fatalf("Offset = %d, want 17", s.Offset())
	}

	view := s.View(80, 40)
	for _, want := range []string{"18. t17: q", "Vaše odpověď: B) b", "Správná odpověď: A) a", "19. t18: q", "bez odpovědi"} {
		if !strings.Contains(view, want) {
			t.Errorf("scrolled details missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "1. t0: q") {
		t.Errorf("first question should be scrolled away:\n%s", view)
	}

	s.Update(tea.KeyPressMsg{Code: '[', Text: "["})
	if s.Offset() != 16 {
		t.Errorf("Offset after [ = %d, want 16", s.Offset())
	}
	for i := 0; i < 10; i++ {
		s.Update(tea.KeyPressMsg{Code: tea.KeyPgUp})
	}
	if s.Offset() != 0 {
		t.Errorf("Offset should clamp at 0, got %d", s.Offset())
	}
}

func TestResultsScreen_UnknownElapsed(t *testing.T) {
	sess := session.New(bank.New(nil), examgen.NewSeeded(1), session.DefaultConfig())
	sess.LoadForReview(history.Entry{
		ID:     "legacy",
		Result: scoring.Result{Correct: 20, Total: 30, Passed: true, Percentage: 67},
	})

	view := New(sess).View(80, 18)
	if !strings.Contains(view, "neznámý") {
		t.Errorf("legacy entry should show unknown time:\n%s", view)
	}
}

func TestResultsScreen_Menu(t *testing.T) {
	sess := testSession(t, 3, 3)
	s := New(sess)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, ok := cmd().(nav.StartTestMsg); !ok {
		t.Error("first item should start a new test")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	msg, ok := cmd().(nav.ReviewAnswersMsg)
	if !ok || msg.Session != sess {
		t.Error("second item should open the review")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, ok := cmd().(nav.HomeMsg); !ok {
		t.Error("last item should go home")
	}
}

func TestResultsScreen_NotEvaluated(t *testing.T) {
	sess := session.New(bank.New(nil), examgen.NewSeeded(1), session.DefaultConfig())
	if New(sess).View(80, 18) == "" {
		t.Error("expected placeholder view")
	}
}

func TestResultsScreen_KeyHints(t *testing.T) {
	if len(New(testSession(t, 1, 1)).KeyHints()) == 0 {
		t.Error("expected key hints")
	}
}
