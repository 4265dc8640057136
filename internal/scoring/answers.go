package scoring

import "github.com/abhisek/realie/internal/bank"

// Answers maps a question position to the chosen answer index. A missing
// key means the question was left unanswered; index 0 is a real answer.
type Answers map[int]int

// Get returns the answer at position, if one was recorded.
func (a Answers) Get(position int) (int, bool) {
	v, ok := a[position]
	return v, ok
}

// Clone returns an independent copy. Cloning nil yields an empty map.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Status is the per-question indicator shown next to each position.
type Status int

const (
	StatusUnanswered Status = iota
	StatusAnswered
	StatusCorrect
	StatusIncorrect
)

func (s Status) String() string {
	switch s {
	case StatusAnswered:
		return "answered"
	case StatusCorrect:
		return "correct"
	case StatusIncorrect:
		return "incorrect"
	default:
		return "unanswered"
	}
}

// StatusOf reports the indicator for one position. Before evaluation an
// answered question is just "answered"; afterwards it is graded. An
// unanswered question stays unanswered in both cases.
func StatusOf(q bank.SelectedQuestion, answers Answers, position int, evaluated bool) Status {
	a, ok := answers[position]
	switch {
	case !ok:
		return StatusUnanswered
	case !evaluated:
		return StatusAnswered
	case a == q.CorrectAnswer:
		return StatusCorrect
	default:
		return StatusIncorrect
	}
}

// Statuses computes StatusOf for every position.
func Statuses(questions []bank.SelectedQuestion, answers Answers, evaluated bool) []Status {
	out := make([]Status, len(questions))
	for i, q := range questions {
		out[i] = StatusOf(q, answers, i, evaluated)
	}
	return out
}
