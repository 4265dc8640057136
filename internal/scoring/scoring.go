// Package scoring turns a finished test into a Result. Everything here is
// pure: the same inputs always produce the same Result, which is what lets
// an archived attempt be replayed with identical numbers.
package scoring

import (
	"time"

	"github.com/abhisek/realie/internal/bank"
)

// Reference configuration of the citizenship exam.
const (
	DefaultQuestionCount = 30
	DefaultPassThreshold = 18
)

// Config holds the pass rule.
type Config struct {
	// PassThreshold is the minimum number of correct answers to pass.
	PassThreshold int
}

// DefaultConfig returns the reference pass rule (18 of 30).
func DefaultConfig() Config {
	return Config{PassThreshold: DefaultPassThreshold}
}

// Result summarizes a scored attempt.
type Result struct {
	Correct    int  `json:"correct"`
	Total      int  `json:"total"`
	Passed     bool `json:"passed"`
	Percentage int  `json:"percentage"`

	// ElapsedSeconds is nil for entries archived before the time limit
	// existed.
	ElapsedSeconds *int `json:"elapsedSeconds,omitempty"`
}

// Elapsed returns the time taken, if known.
func (r Result) Elapsed() (time.Duration, bool) {
	if r.ElapsedSeconds == nil {
		return 0, false
	}
	return time.Duration(*r.ElapsedSeconds) * time.Second, true
}

// Score counts the positions whose recorded answer equals the question's
// correct answer. Unanswered positions count as incorrect.
func Score(cfg Config, questions []bank.SelectedQuestion, answers Answers, elapsedSeconds int) Result {
	correct := 0
	for i, q := range questions {
		if a, ok := answers[i]; ok && a == q.CorrectAnswer {
			correct++
		}
	}

	elapsed := elapsedSeconds
	return Result{
		Correct:        correct,
		Total:          len(questions),
		Passed:         correct >= cfg.PassThreshold,
		Percentage:     Percentage(correct, len(questions)),
		ElapsedSeconds: &elapsed,
	}
}

// Percentage returns 100*correct/total rounded half up. A zero total
// yields 0.
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*correct + total) / (2 * total)
}

// ThresholdPercentage returns the pass threshold as a share of total.
func (c Config) ThresholdPercentage(total int) int {
	return Percentage(c.PassThreshold, total)
}
