package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/realie/internal/bank"
)

// questions builds n questions whose correct answer cycles 0..3.
func questions(n int) []bank.SelectedQuestion {
	qs := make([]bank.SelectedQuestion, n)
	for i := range qs {
		qs[i] = bank.SelectedQuestion{
			GroupID: i + 1,
			CandidateQuestion: bank.CandidateQuestion{
				Answers:       []bank.Answer{{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"}},
				CorrectAnswer: i % 4,
			},
		}
	}
	return qs
}

// answersWithCorrect answers the first `correct` positions correctly and
// the next `wrong` positions incorrectly; the rest stay unanswered.
func answersWithCorrect(qs []bank.SelectedQuestion, correct, wrong int) Answers {
	a := Answers{}
	for i := 0; i < correct; i++ {
		a[i] = qs[i].CorrectAnswer
	}
	for i := correct; i < correct+wrong; i++ {
		a[i] = (qs[i].CorrectAnswer + 1) % 4
	}
	return a
}

func TestScore_PassBoundary(t *testing.T) {
	qs := questions(30)
	cfg := DefaultConfig()

	tests := []struct {
		correct    int
		passed     bool
		percentage int
	}{
		{0, false, 0},
		{17, false, 57},
		{18, true, 60},
		{30, true, 100},
	}

	for _, tt := range tests {
		r := Score(cfg, qs, answersWithCorrect(qs, tt.correct, 30-tt.correct), 120)
		assert.Equal(t, tt.correct, r.Correct)
		assert.Equal(t, 30, r.Total)
		assert.Equal(t, tt.passed, r.Passed, "correct=%d", tt.correct)
		assert.Equal(t, tt.percentage, r.Percentage, "correct=%d", tt.correct)
	}
}

func TestScore_UnansweredNeverCorrect(t *testing.T) {
	qs := questions(4)

	r := Score(DefaultConfig(), qs, nil, 0)
	assert.Equal(t, 0, r.Correct)

	// Position 0's correct answer is index 0: an absent key must not be
	// read as the zero value.
	r = Score(DefaultConfig(), qs, Answers{1: 1}, 0)
	assert.Equal(t, 1, r.Correct)
}

func TestScore_IgnoresForeignPositions(t *testing.T) {
	qs := questions(2)
	r := Score(Config{PassThreshold: 1}, qs, Answers{0: 0, 5: 1, -1: 0}, 0)
	assert.Equal(t, 1, r.Correct)
	assert.True(t, r.Passed)
}

func TestScore_Deterministic(t *testing.T) {
	qs := questions(30)
	a := answersWithCorrect(qs, 20, 5)

	first := Score(DefaultConfig(), qs, a, 600)
	second := Score(DefaultConfig(), qs, a.Clone(), 600)
	assert.Equal(t, first, second)

	elapsed, ok := first.Elapsed()
	require.True(t, ok)
	assert.Equal(t, 10*time.Minute, elapsed)
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{18, 30, 60},
		{17, 30, 57},
		{1, 8, 13}, // 12.5 rounds up
		{1, 3, 33},
		{2, 3, 67},
		{0, 0, 0},
		{5, 5, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percentage(tt.correct, tt.total), "%d/%d", tt.correct, tt.total)
	}
	assert.Equal(t, 60, DefaultConfig().ThresholdPercentage(30))
}

func TestResult_ElapsedUnknown(t *testing.T) {
	_, ok := Result{Correct: 3, Total: 30}.Elapsed()
	assert.False(t, ok)
}

func TestStatusOf(t *testing.T) {
	qs := questions(3)
	a := Answers{0: 0, 1: 3}

	assert.Equal(t,
		[]Status{StatusAnswered, StatusAnswered, StatusUnanswered},
		Statuses(qs, a, false))
	assert.Equal(t,
		[]Status{StatusCorrect, StatusIncorrect, StatusUnanswered},
		Statuses(qs, a, true))
	assert.Equal(t, "incorrect", StatusIncorrect.String())
}

func TestAnswers_Clone(t *testing.T) {
	a := Answers{0: 2}
	c := a.Clone()
	c[0] = 3
	c[1] = 1

	v, ok := a.Get(0)
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	_, ok = a.Get(1)
	assert.False(t, ok)

	assert.NotNil(t, Answers(nil).Clone())
}
