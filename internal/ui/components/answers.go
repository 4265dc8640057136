package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/realie/internal/bank"
	"github.com/abhisek/realie/internal/ui/theme"
)

// AnswerList renders the lettered options of one question. In graded mode
// the correct option and a wrong choice are highlighted and the cursor is
// hidden.
type AnswerList struct {
	Answers []bank.Answer
	Cursor  int

	// Chosen is the recorded answer, or -1.
	Chosen int

	Graded  bool
	Correct int
}

// Letter returns the option label for index i: A, B, C, ...
func Letter(i int) string {
	if i < 0 || i >= 26 {
		return "?"
	}
	return string(rune('A' + i))
}

// AnswerText returns the printable form of an option. Image options show
// their URI since the terminal cannot render them.
func AnswerText(a bank.Answer) string {
	if a.IsImage() {
		if a.Text != "" {
			return fmt.Sprintf("%s [obrázek: %s]", a.Text, a.Image)
		}
		return "[obrázek: " + a.Image + "]"
	}
	return a.Text
}

// View renders the list at the given width.
func (l AnswerList) View(width int) string {
	var b strings.Builder
	for i, a := range l.Answers {
		prefix := "  "
		if !l.Graded && i == l.Cursor {
			prefix = "▸ "
		}

		marker := "( )"
		if i == l.Chosen {
			marker = "(●)"
		}

		line := fmt.Sprintf("%s%s %s)  %s", prefix, marker, Letter(i), AnswerText(a))

		var style lipgloss.Style
		switch {
		case l.Graded && i == l.Correct:
			style = theme.Correct
			line += "  ✓"
		case l.Graded && i == l.Chosen:
			style = theme.Incorrect
			line += "  ✗"
		case l.Graded:
			style = theme.Muted
		case i == l.Cursor:
			style = theme.Selected
		case i == l.Chosen:
			style = theme.Chosen
		default:
			style = theme.Unselected
		}

		b.WriteString(style.Width(width).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
