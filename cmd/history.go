package cmd

import (
	"fmt"
	"io"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/realie/internal/countdown"
	"github.com/abhisek/realie/internal/examgen"
	"github.com/abhisek/realie/internal/history"
	"github.com/abhisek/realie/internal/scoring"
	"github.com/abhisek/realie/internal/session"
	"github.com/abhisek/realie/internal/ui/components"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past attempts, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setupHistory(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		printHistory(cmd.OutOrStdout(), e.History.List(), time.Now())
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one attempt with its per-question breakdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setupHistory(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		entry, ok := e.History.Get(args[0])
		if !ok {
			return fmt.Errorf("no history entry %q", args[0])
		}

		// Review needs no bank: the entry carries its questions.
		sess := session.New(nil, examgen.New(nil), e.SessionConfig())
		sess.LoadForReview(entry)
		printAttempt(cmd.OutOrStdout(), entry, sess.Snapshot())
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one attempt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setupHistory(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if !e.History.Remove(args[0]) {
			return fmt.Errorf("no history entry %q", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Deleted", args[0])
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
}

func printHistory(w io.Writer, entries []history.Entry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No attempts yet.")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "DATE", "AGE", "SCORE", "%", "RESULT", "TIME")
	for _, e := range entries {
		date, age := e.Date, "?"
		if ts := e.Time(); !ts.IsZero() {
			date = ts.Local().Format("2006-01-02 15:04")
			age = humanize.RelTime(ts, now, "ago", "from now")
		}
		t.Row(
			e.ID,
			date,
			age,
			fmt.Sprintf("%d/%d", e.Result.Correct, e.Result.Total),
			fmt.Sprintf("%d", e.Result.Percentage),
			verdict(e.Result),
			elapsedText(e.Result),
		)
	}
	fmt.Fprintln(w, t.String())
}

func printAttempt(w io.Writer, e history.Entry, v session.View) {
	r := e.Result
	fmt.Fprintf(w, "Attempt %s\n", e.ID)
	if ts := e.Time(); !ts.IsZero() {
		fmt.Fprintf(w, "Date:    %s\n", ts.Local().Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(w, "Score:   %d/%d (%d%%) %s\n", r.Correct, r.Total, r.Percentage, verdict(r))
	fmt.Fprintf(w, "Time:    %s\n\n", elapsedText(r))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "", "TOPIC", "ANSWER", "CORRECT")
	for i, q := range v.Questions {
		answer := "-"
		if a, ok := v.Answers.Get(i); ok {
			answer = components.Letter(a)
		}
		t.Row(
			fmt.Sprintf("%d", i+1),
			components.StatusGlyph(v.Statuses[i]),
			q.Topic,
			answer,
			components.Letter(q.CorrectAnswer),
		)
	}
	fmt.Fprintln(w, t.String())
}

func verdict(r scoring.Result) string {
	if r.Passed {
		return "passed"
	}
	return "failed"
}

func elapsedText(r scoring.Result) string {
	if d, ok := r.Elapsed(); ok {
		return countdown.FormatElapsed(int(d.Seconds()))
	}
	return "unknown"
}
