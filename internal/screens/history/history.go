// Package history lists archived attempts and opens them for review.
package history

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/abhisek/realie/internal/countdown"
	hist "github.com/abhisek/realie/internal/history"
	"github.com/abhisek/realie/internal/nav"
	"github.com/abhisek/realie/internal/screen"
	"github.com/abhisek/realie/internal/ui/layout"
	"github.com/abhisek/realie/internal/ui/theme"
)

// Archive is the subset of the history log this screen needs.
type Archive interface {
	List() []hist.Entry
	Remove(id string) bool
	Clear()
}

// relMagnitudes renders ages the Czech way: "před 5 min".
var relMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute, Format: "právě teď", DivBy: time.Second},
	{D: time.Hour, Format: "%s %d min", DivBy: time.Minute},
	{D: humanize.Day, Format: "%s %d h", DivBy: time.Hour},
	{D: humanize.Week, Format: "%s %d d", DivBy: humanize.Day},
	{D: humanize.Year, Format: "%s %d týd.", DivBy: humanize.Week},
	{D: math.MaxInt64, Format: "%s %d r.", DivBy: humanize.Year},
}

// RelTime describes how long before now t was.
func RelTime(t, now time.Time) string {
	return humanize.CustomRelTime(t, now, "před", "za", relMagnitudes)
}

type historyLoadedMsg struct {
	Entries []hist.Entry
}

// HistoryScreen displays past attempts, newest first.
type HistoryScreen struct {
	archive  Archive
	now      func() time.Time
	entries  []hist.Entry
	selected int
	loaded   bool

	confirmDelete bool
	confirmClear  bool
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)
var _ screen.EscapeHandler = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(archive Archive) *HistoryScreen {
	return &HistoryScreen{archive: archive, now: time.Now}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		return historyLoadedMsg{Entries: s.archive.List()}
	}
}

func (s *HistoryScreen) Title() string {
	return "Historie"
}

// HandlesEscape keeps Esc for dismissing a pending confirmation.
func (s *HistoryScreen) HandlesEscape() bool {
	return s.confirmDelete || s.confirmClear
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	if s.confirmDelete || s.confirmClear {
		return []layout.KeyHint{
			{Key: "Y", Description: "ano"},
			{Key: "N", Description: "ne"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "výběr"},
		{Key: "Enter", Description: "otevřít"},
		{Key: "D", Description: "smazat"},
		{Key: "C", Description: "smazat vše"},
		{Key: "Esc", Description: "zpět"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.entries = msg.Entries
		s.loaded = true
		s.clampSelection()
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *HistoryScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	k := msg.String()

	if s.confirmDelete || s.confirmClear {
		switch k {
		case "y", "Y":
			if s.confirmDelete && s.selected < len(s.entries) {
				s.archive.Remove(s.entries[s.selected].ID)
			}
			if s.confirmClear {
				s.archive.Clear()
			}
			s.confirmDelete, s.confirmClear = false, false
			s.entries = s.archive.List()
			s.clampSelection()
		case "n", "N", "esc":
			s.confirmDelete, s.confirmClear = false, false
		}
		return s, nil
	}

	switch k {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.entries)-1 {
			s.selected++
		}
	case "enter":
		if s.selected < len(s.entries) {
			e := s.entries[s.selected]
			return s, func() tea.Msg { return nav.LoadEntryMsg{Entry: e} }
		}
	case "d", "delete":
		if len(s.entries) > 0 {
			s.confirmDelete = true
		}
	case "c":
		if len(s.entries) > 0 {
			s.confirmClear = true
		}
	}
	return s, nil
}

func (s *HistoryScreen) clampSelection() {
	if s.selected >= len(s.entries) {
		s.selected = len(s.entries) - 1
	}
	if s.selected < 0 {
		s.selected = 0
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if !s.loaded {
		return layout.Centered(theme.Muted.Render("\nNačítám..."), width)
	}
	if len(s.entries) == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Zatím žádné dokončené testy.")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, e := range s.entries {
		b.WriteString(layout.Centered(s.renderRow(i, e), width))
		b.WriteString("\n")
	}

	switch {
	case s.confirmDelete:
		b.WriteString("\n")
		b.WriteString(layout.Centered(theme.Subtitle.Foreground(theme.Warning).Render("Smazat vybraný pokus? (y/n)"), width))
	case s.confirmClear:
		b.WriteString("\n")
		b.WriteString(layout.Centered(theme.Subtitle.Foreground(theme.Warning).Render("Smazat celou historii? (y/n)"), width))
	}
	return b.String()
}

func (s *HistoryScreen) renderRow(i int, e hist.Entry) string {
	r := e.Result
	verdict := theme.Incorrect.Render("✗ neúspěch")
	if r.Passed {
		verdict = theme.Correct.Render("✓ úspěch")
	}

	when := e.Date
	if t := e.Time(); !t.IsZero() {
		when = fmt.Sprintf("%s (%s)", t.Local().Format("2.1.2006 15:04"), RelTime(t, s.now()))
	}

	elapsed := "--:--"
	if d, ok := r.Elapsed(); ok {
		elapsed = countdown.FormatElapsed(int(d.Seconds()))
	}

	line := fmt.Sprintf("%-36s  %2d/%-2d  %3d %%  %s  ", when, r.Correct, r.Total, r.Percentage, elapsed)
	if i == s.selected {
		return theme.Selected.Render("▸ "+line) + verdict
	}
	return lipgloss.NewStyle().Foreground(theme.Text).Render("  "+line) + verdict
}
