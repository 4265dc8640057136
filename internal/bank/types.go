package bank

import "fmt"

// Answer is a single answer option. A question's options are either all
// text or all images.
type Answer struct {
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
}

// IsImage reports whether the option is rendered as an image.
func (a Answer) IsImage() bool {
	return a.Image != ""
}

// CandidateQuestion is one entry in a group's pool.
type CandidateQuestion struct {
	Question      string   `json:"question"`
	QuestionImage string   `json:"questionImage,omitempty"`
	Answers       []Answer `json:"answers"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// HasImageAnswers reports whether the answer options are images.
func (q CandidateQuestion) HasImageAnswers() bool {
	for _, a := range q.Answers {
		if a.IsImage() {
			return true
		}
	}
	return false
}

// ValidAnswer reports whether idx addresses one of the question's options.
func (q CandidateQuestion) ValidAnswer(idx int) bool {
	return idx >= 0 && idx < len(q.Answers)
}

// QuestionGroup is a thematic group contributing one question per test.
type QuestionGroup struct {
	ID        int                 `json:"id"`
	Topic     string              `json:"topic"`
	Questions []CandidateQuestion `json:"questions"`
}

// SelectedQuestion is a candidate drawn into a test, tagged with the group
// it came from. It serializes flat, as stored in history entries.
type SelectedQuestion struct {
	GroupID int    `json:"groupId"`
	Topic   string `json:"topic"`
	CandidateQuestion
}

// Select copies the candidate at idx out of the group.
func (g QuestionGroup) Select(idx int) SelectedQuestion {
	return SelectedQuestion{
		GroupID:           g.ID,
		Topic:             g.Topic,
		CandidateQuestion: g.Questions[idx],
	}
}

// ConfigurationError reports a question bank that cannot produce a valid
// test, e.g. a group with an empty pool.
type ConfigurationError struct {
	GroupID int
	Topic   string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Topic != "" {
		return fmt.Sprintf("question group %d (%q): %s", e.GroupID, e.Topic, e.Reason)
	}
	return fmt.Sprintf("question group %d: %s", e.GroupID, e.Reason)
}
