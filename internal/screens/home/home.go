// Package home is the welcome screen: test rules, recent results and the
// main menu.
package home

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/realie/internal/history"
	"github.com/abhisek/realie/internal/nav"
	"github.com/abhisek/realie/internal/screen"
	"github.com/abhisek/realie/internal/ui/components"
	"github.com/abhisek/realie/internal/ui/layout"
	"github.com/abhisek/realie/internal/ui/theme"
)

// Rules describes the test shown on the welcome screen.
type Rules struct {
	Questions     int
	PassThreshold int
	PassPercent   int
	TimeLimit     time.Duration
}

// Lister provides the archived attempts, newest first.
type Lister interface {
	List() []history.Entry
}

// HomeScreen is the root screen of the application.
type HomeScreen struct {
	rules   Rules
	archive Lister
	menu    components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen. archive may be nil.
func New(rules Rules, archive Lister) *HomeScreen {
	items := []components.MenuItem{
		{Label: "Začít test", Action: func() tea.Cmd {
			return func() tea.Msg { return nav.StartTestMsg{} }
		}},
		{Label: "Historie", Action: func() tea.Cmd {
			return func() tea.Msg { return nav.ShowHistoryMsg{} }
		}, Disabled: archive == nil},
		{Label: "Konec", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		rules:   rules,
		archive: archive,
		menu:    components.NewMenu(items),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Vítejte"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "výběr"},
		{Key: "Enter", Description: "potvrdit"},
		{Key: "Ctrl+C", Description: "konec"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 28
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, RenderBanner(width, compact))
	sections = append(sections, components.Card(h.renderRules(), cw))
	if summary := h.renderHistorySummary(); summary != "" {
		sections = append(sections, theme.Muted.Render(summary))
	}
	sections = append(sections, h.menu.View())

	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s))
		b.WriteString("\n")
	}
	return b.String()
}

func (h *HomeScreen) renderRules() string {
	r := h.rules
	lines := []string{
		theme.Title.Render("Test z reálií České republiky"),
		"",
		fmt.Sprintf("• %d otázek, z každého tématu jedna", r.Questions),
		fmt.Sprintf("• na vypracování máte %d minut", int(r.TimeLimit.Minutes())),
		fmt.Sprintf("• k úspěchu je třeba %d správných odpovědí (%d %%)", r.PassThreshold, r.PassPercent),
		"• odpovědi lze měnit až do odevzdání",
	}
	return lipgloss.NewStyle().Foreground(theme.Text).Render(strings.Join(lines, "\n"))
}

// renderHistorySummary reports the latest result and the pass count.
func (h *HomeScreen) renderHistorySummary() string {
	if h.archive == nil {
		return ""
	}
	entries := h.archive.List()
	if len(entries) == 0 {
		return "Zatím jste žádný test nedokončili."
	}
	passed := 0
	for _, e := range entries {
		if e.Result.Passed {
			passed++
		}
	}
	last := entries[0].Result
	return fmt.Sprintf("Poslední výsledek: %d z %d (%d %%) · úspěšné pokusy: %d z %d",
		last.Correct, last.Total, last.Percentage, passed, len(entries))
}
