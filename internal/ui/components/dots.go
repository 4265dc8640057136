package components

import (
	"strings"

	"github.com/abhisek/realie/internal/scoring"
	"github.com/abhisek/realie/internal/ui/theme"
)

// QuestionDots renders one glyph per question showing its status, with the
// current position in brackets. Thirty questions fit in 64 columns.
func QuestionDots(statuses []scoring.Status, current int) string {
	var b strings.Builder
	for i, st := range statuses {
		glyph := "○"
		style := theme.Muted
		switch st {
		case scoring.StatusAnswered:
			glyph = "●"
			style = theme.Chosen
		case scoring.StatusCorrect:
			glyph = "✓"
			style = theme.Correct
		case scoring.StatusIncorrect:
			glyph = "✗"
			style = theme.Incorrect
		}
		if i == current {
			b.WriteString(theme.Selected.Render("[") + style.Render(glyph) + theme.Selected.Render("]") + " ")
		} else {
			b.WriteString(style.Render(glyph) + " ")
		}
	}
	return b.String()
}

// StatusGlyph is the plain-text mark for a graded question.
func StatusGlyph(st scoring.Status) string {
	switch st {
	case scoring.StatusCorrect:
		return "✓"
	case scoring.StatusIncorrect:
		return "✗"
	case scoring.StatusAnswered:
		return "●"
	default:
		return "—"
	}
}
