package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/realie/internal/bank"
	"github.com/abhisek/realie/internal/history"
	"github.com/abhisek/realie/internal/scoring"
	"github.com/abhisek/realie/internal/session"
	"github.com/abhisek/realie/internal/store"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// isolateEnv keeps command runs away from the user's config, data and logs
// and resets the persistent flags a test sets.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Cleanup(func() {
		flags := rootCmd.PersistentFlags()
		_ = flags.Set("bank", "")
		_ = flags.Set("db", "")
		_ = flags.Set("log-file", "")
		_ = flags.Set("ephemeral", "false")
	})
}

// seedHistory archives one attempt in a fresh database and returns its
// path and the entry id.
func seedHistory(t *testing.T) (string, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "realie.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	q := bank.QuestionGroup{ID: 1, Topic: "Hory", Questions: []bank.CandidateQuestion{{
		Question:      "Nejvyšší hora?",
		Answers:       []bank.Answer{{Text: "Sněžka"}, {Text: "Praděd"}},
		CorrectAnswer: 0,
	}}}.Select(0)
	qs := []bank.SelectedQuestion{q}
	answers := scoring.Answers{0: 0}
	e := history.New(st).Append(qs, answers, scoring.Score(scoring.Config{PassThreshold: 1}, qs, answers, 30))
	return path, e.ID
}

func TestHistoryCommands_IgnoreBrokenBank(t *testing.T) {
	isolateEnv(t)
	db, id := seedHistory(t)
	missing := filepath.Join(t.TempDir(), "missing.json")
	common := []string{"--db", db, "--bank", missing, "--log-file", "off"}

	out, err := run(t, append([]string{"history"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, id)

	out, err = run(t, append([]string{"history", "show", id}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Hory")
	assert.Contains(t, out, "1/1")

	out, err = run(t, append([]string{"history", "delete", id}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+id)

	out, err = run(t, append([]string{"reset"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 attempt(s).")
}

func TestSetup_RejectsBrokenBank(t *testing.T) {
	isolateEnv(t)
	require.NoError(t, rootCmd.PersistentFlags().Set("bank", filepath.Join(t.TempDir(), "missing.json")))
	require.NoError(t, rootCmd.PersistentFlags().Set("ephemeral", "true"))
	require.NoError(t, rootCmd.PersistentFlags().Set("log-file", "off"))

	_, err := setup(rootCmd)
	assert.Error(t, err)

	e, err := setupHistory(rootCmd)
	require.NoError(t, err)
	defer e.Close()
	assert.Nil(t, e.Bank)
	assert.Empty(t, e.History.List())
}

func TestBankValidate_Default(t *testing.T) {
	out, err := run(t, "bank", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "OK: 30 groups")
}

func TestBankValidate_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": 1, "topic": "t", "questions": []}]`), 0o644))

	_, err := run(t, "bank", "validate", path)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "realie "))
}

func TestPrintHistory(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	elapsed := 754
	entries := []history.Entry{{
		ID:     "abc",
		Date:   now.Add(-3 * time.Hour).Format(history.DateLayout),
		Result: scoring.Result{Correct: 18, Total: 30, Passed: true, Percentage: 60, ElapsedSeconds: &elapsed},
	}, {
		ID:     "legacy",
		Date:   now.Add(-72 * time.Hour).Format(history.DateLayout),
		Result: scoring.Result{Correct: 10, Total: 30, Percentage: 33},
	}}

	var out bytes.Buffer
	printHistory(&out, entries, now)
	s := out.String()

	for _, want := range []string{"abc", "18/30", "passed", "12:34", "3 hours ago", "failed", "unknown"} {
		assert.Contains(t, s, want)
	}
	assert.Less(t, strings.Index(s, "abc"), strings.Index(s, "legacy"))

	out.Reset()
	printHistory(&out, nil, now)
	assert.Contains(t, out.String(), "No attempts yet")
}

func TestPrintAttempt(t *testing.T) {
	q := bank.QuestionGroup{ID: 1, Topic: "Hory", Questions: []bank.CandidateQuestion{{
		Question:      "Nejvyšší hora?",
		Answers:       []bank.Answer{{Text: "Sněžka"}, {Text: "Praděd"}},
		CorrectAnswer: 0,
	}}}.Select(0)
	e := history.Entry{
		ID:        "abc",
		Questions: []bank.SelectedQuestion{q, q},
		Answers:   scoring.Answers{0: 1},
		Result:    scoring.Result{Correct: 0, Total: 2},
	}

	sess := session.New(bank.New(nil), nil, session.DefaultConfig())
	sess.LoadForReview(e)

	var out bytes.Buffer
	printAttempt(&out, e, sess.Snapshot())
	s := out.String()

	assert.Contains(t, s, "0/2")
	assert.Contains(t, s, "Hory")
	assert.Contains(t, s, "✗")
	assert.Contains(t, s, "—")
}
