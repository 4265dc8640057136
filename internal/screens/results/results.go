// Package results shows the outcome of an evaluated test.
package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/realie/internal/countdown"
	"github.com/abhisek/realie/internal/nav"
	"github.com/abhisek/realie/internal/scoring"
	"github.com/abhisek/realie/internal/screen"
	"github.com/abhisek/realie/internal/session"
	"github.com/abhisek/realie/internal/ui/components"
	"github.com/abhisek/realie/internal/ui/layout"
	"github.com/abhisek/realie/internal/ui/theme"
)

const (
	perRow = 10

	// linesPerDetail is the height of one question in the detail list.
	linesPerDetail = 3
	pageStep       = 5
)

// ResultsScreen displays the score, verdict and per-question breakdown.
type ResultsScreen struct {
	sess *session.Session
	menu components.Menu

	// offset is the first question shown in the detail list.
	offset int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen for an evaluated session.
func New(sess *session.Session) *ResultsScreen {
	s := &ResultsScreen{sess: sess}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Nový test", Action: func() tea.Cmd {
			return func() tea.Msg { return nav.StartTestMsg{} }
		}},
		{Label: "Zkontrolovat odpovědi", Action: func() tea.Cmd {
			return func() tea.Msg { return nav.ReviewAnswersMsg{Session: sess} }
		}},
		{Label: "Historie", Action: func() tea.Cmd {
			return func() tea.Msg { return nav.ShowHistoryMsg{} }
		}},
		{Label: "Zpět na začátek", Action: func() tea.Cmd {
			return func() tea.Msg { return nav.HomeMsg{} }
		}},
	})
	return s
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Výsledek"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "volba"},
		{Key: "Enter", Description: "potvrdit"},
		{Key: "[ ]", Description: "posun otázek"},
		{Key: "Esc", Description: "zpět"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "]":
			s.scroll(1)
			return s, nil
		case "[":
			s.scroll(-1)
			return s, nil
		case "pgdown":
			s.scroll(pageStep)
			return s, nil
		case "pgup":
			s.scroll(-pageStep)
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *ResultsScreen) View(width, height int) string {
	v := s.sess.Snapshot()
	if v.Result == nil {
		return layout.Centered(theme.Muted.Render("Test ještě nebyl vyhodnocen."), width)
	}
	r := *v.Result
	cfg := s.sess.Config().Scoring

	var b strings.Builder

	badge := theme.BadgeFailed.Render(fmt.Sprintf(" %d z %d ", r.Correct, r.Total))
	verdict := lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render("Neuspěli jste")
	if r.Passed {
		badge = theme.BadgePassed.Render(fmt.Sprintf(" %d z %d ", r.Correct, r.Total))
		verdict = lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render("Uspěli jste!")
	}

	b.WriteString(layout.Centered(badge+"  "+verdict, width))
	b.WriteString("\n\n")

	elapsed := "neznámý"
	if d, ok := r.Elapsed(); ok {
		elapsed = countdown.FormatElapsed(int(d.Seconds()))
	}
	stats := fmt.Sprintf("Úspěšnost: %d %%    Čas: %s", r.Percentage, elapsed)
	b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.Text).Render(stats), width))
	b.WriteString("\n")
	threshold := "K úspěchu stačilo %d správných odpovědí (%d %%)"
	if !r.Passed {
		threshold = "Pro úspěch je potřeba minimálně %d správných odpovědí (%d %%)"
	}
	b.WriteString(layout.Centered(theme.Muted.Render(fmt.Sprintf(
		threshold, cfg.PassThreshold, cfg.ThresholdPercentage(r.Total))), width))
	b.WriteString("\n\n")

	b.WriteString(breakdown(v, width))
	b.WriteString("\n")

	menu := lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View())
	used := lipgloss.Height(b.String()) + lipgloss.Height(menu) + 1
	b.WriteString(details(v, s.offset, (height-used)/linesPerDetail, width))
	b.WriteString("\n")
	b.WriteString(menu)

	return b.String()
}

// Offset returns the first question shown in the detail list.
func (s *ResultsScreen) Offset() int {
	return s.offset
}

func (s *ResultsScreen) scroll(delta int) {
	n := len(s.sess.Snapshot().Questions)
	s.offset = max(0, min(s.offset+delta, n-1))
}

// details renders up to count questions from offset with the chosen and
// the correct answer. At least one question is always shown.
func details(v session.View, offset, count, width int) string {
	if len(v.Questions) == 0 {
		return ""
	}
	offset = max(0, min(offset, len(v.Questions)-1))
	end := min(len(v.Questions), offset+max(1, count))

	cw := max(20, min(width-4, 76))
	var lines []string
	for i := offset; i < end; i++ {
		q := v.Questions[i]
		st := v.Statuses[i]

		head := fmt.Sprintf("%s %d. %s: %s", components.StatusGlyph(st), i+1, q.Topic, q.Question)
		lines = append(lines, styleFor(st).Render(truncate(head, cw)))

		chosen := "bez odpovědi"
		if a, ok := v.Answers.Get(i); ok && a >= 0 && a < len(q.Answers) {
			chosen = components.Letter(a) + ") " + components.AnswerText(q.Answers[a])
		}
		lines = append(lines, theme.Body.Render(truncate("   Vaše odpověď: "+chosen, cw)))

		correct := "?"
		if c := q.CorrectAnswer; c >= 0 && c < len(q.Answers) {
			correct = components.Letter(c) + ") " + components.AnswerText(q.Answers[c])
		}
		lines = append(lines, theme.Correct.Render(truncate("   Správná odpověď: "+correct, cw)))
	}

	block := strings.Join(lines, "\n")
	pos := theme.Muted.Render(fmt.Sprintf("Otázky %d–%d z %d", offset+1, end, len(v.Questions)))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, block, pos))
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

// breakdown renders every question number with its grade, perRow per line.
func breakdown(v session.View, width int) string {
	var rows []string
	var row []string
	for i, st := range v.Statuses {
		cell := fmt.Sprintf("%2d %s", i+1, components.StatusGlyph(st))
		row = append(row, styleFor(st).Render(cell))
		if len(row) == perRow || i == len(v.Statuses)-1 {
			rows = append(rows, strings.Join(row, "  "))
			row = nil
		}
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(layout.Centered(r, width))
		b.WriteString("\n")
	}
	return b.String()
}

func styleFor(st scoring.Status) lipgloss.Style {
	switch st {
	case scoring.StatusCorrect:
		return theme.Correct
	case scoring.StatusIncorrect:
		return theme.Incorrect
	default:
		return theme.Muted
	}
}
