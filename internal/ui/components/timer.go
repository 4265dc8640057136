package components

import (
	"time"

	"github.com/abhisek/realie/internal/countdown"
	"github.com/abhisek/realie/internal/ui/theme"
)

// Timer renders the remaining time coloured by urgency band.
func Timer(remaining time.Duration, band countdown.Band) string {
	text := "⏱ " + countdown.FormatRemaining(remaining)
	switch band {
	case countdown.BandCritical:
		return theme.TimerCritical.Render(text)
	case countdown.BandWarning:
		return theme.TimerWarning.Render(text)
	default:
		return theme.TimerNormal.Render(text)
	}
}
