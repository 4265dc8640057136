package exam

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/realie/internal/session"
	"github.com/abhisek/realie/internal/ui/components"
	"github.com/abhisek/realie/internal/ui/theme"
)

func (s *ExamScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, height, s.errMsg)
	}

	v := s.sess.Snapshot()
	q, ok := v.Current()
	if !ok {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Připravuji test...")
	}

	cw := width - 4
	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Otázka %d/%d · %s", v.Cursor+1, len(v.Questions), q.Topic))
	infoRight := components.NewProgressBar("", v.Answered, len(v.Questions), 30).View()
	if v.Phase == session.PhaseEvaluated && v.Result != nil {
		infoRight = theme.Muted.Render(fmt.Sprintf("%d z %d správně", v.Result.Correct, v.Result.Total))
	}
	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 2; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n  ")
	b.WriteString(components.QuestionDots(v.Statuses, v.Cursor))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render("  " + strings.Repeat("─", max(cw, 0))))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(cw).
		PaddingLeft(2).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Question))
	b.WriteString("\n")
	if q.QuestionImage != "" {
		b.WriteString(theme.Muted.Render("  [obrázek: " + q.QuestionImage + "]"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	chosen := -1
	if a, ok := v.Answers.Get(v.Cursor); ok {
		chosen = a
	}
	list := components.AnswerList{
		Answers: q.Answers,
		Cursor:  s.cursor,
		Chosen:  chosen,
		Graded:  v.Phase == session.PhaseEvaluated,
		Correct: q.CorrectAnswer,
	}
	b.WriteString(list.View(cw))

	if v.Phase == session.PhaseEvaluated && chosen < 0 {
		b.WriteString(theme.Muted.Render("  Bez odpovědi"))
		b.WriteString("\n")
	}

	switch {
	case s.confirmQuit:
		b.WriteString("\n")
		b.WriteString(renderPrompt(width, "Ukončit test? Odpovědi nebudou uloženy. (y/n)"))
	case s.confirmSubmit:
		b.WriteString("\n")
		msg := "Odevzdat test? (y/n)"
		if missing := len(v.Questions) - v.Answered; missing > 0 {
			msg = fmt.Sprintf("Nezodpovězeno otázek: %d. Přesto odevzdat? (y/n)", missing)
		}
		b.WriteString(renderPrompt(width, msg))
	case s.jumping:
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render("Přejít na otázku: " + s.jump.View()))
	}

	return b.String()
}

func renderPrompt(width int, msg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Warning).
		Bold(true).
		Render(msg)
}

func renderError(width, height int, msg string) string {
	content := lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true).
		Render("Test nelze spustit") +
		"\n\n" +
		lipgloss.NewStyle().Foreground(theme.Text).Render(msg) +
		"\n\n" +
		theme.Hint.Render("Stiskněte libovolnou klávesu")

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
