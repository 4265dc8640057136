package bank

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

//go:embed data/sample.json
var sampleBank []byte

// Bank is the static, read-only question bank: an ordered sequence of
// topic groups loaded once at startup.
type Bank struct {
	groups []QuestionGroup
}

// New wraps the given groups. The slice is copied; callers must not rely on
// later mutations being visible.
func New(groups []QuestionGroup) *Bank {
	cp := make([]QuestionGroup, len(groups))
	copy(cp, groups)
	return &Bank{groups: cp}
}

// GroupCount returns the number of topic groups, which is also the number of
// questions in every generated test.
func (b *Bank) GroupCount() int {
	if b == nil {
		return 0
	}
	return len(b.groups)
}

// Group returns the group at position i in bank order.
func (b *Bank) Group(i int) QuestionGroup {
	return b.groups[i]
}

// Groups returns a copy of all groups in bank order.
func (b *Bank) Groups() []QuestionGroup {
	cp := make([]QuestionGroup, len(b.groups))
	copy(cp, b.groups)
	return cp
}

// PoolSize returns the number of candidate questions in group i.
func (b *Bank) PoolSize(i int) int {
	return len(b.groups[i].Questions)
}

// Parse decodes and validates a JSON bank document.
func Parse(data []byte) (*Bank, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}
	var groups []QuestionGroup
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	if err := Validate(groups); err != nil {
		return nil, err
	}
	return New(groups), nil
}

// LoadFile reads and validates the bank at path.
func LoadFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Default returns the bank bundled with the binary.
func Default() (*Bank, error) {
	return Parse(sampleBank)
}

// Load returns the bank at path, or the bundled bank when path is empty.
func Load(path string) (*Bank, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Validate performs the structural checks on a set of groups.
// Every problem found is reported; the returned error joins them.
func Validate(groups []QuestionGroup) error {
	var errs []error

	if len(groups) == 0 {
		return errors.New("question bank has no groups")
	}

	ids := make(map[int]bool, len(groups))
	for _, g := range groups {
		if ids[g.ID] {
			errs = append(errs, &ConfigurationError{GroupID: g.ID, Topic: g.Topic, Reason: "duplicate group id"})
		}
		ids[g.ID] = true

		if len(g.Questions) == 0 {
			errs = append(errs, &ConfigurationError{GroupID: g.ID, Topic: g.Topic, Reason: "no candidate questions"})
			continue
		}

		for i, q := range g.Questions {
			if reason := checkQuestion(q); reason != "" {
				errs = append(errs, &ConfigurationError{
					GroupID: g.ID,
					Topic:   g.Topic,
					Reason:  fmt.Sprintf("question %d: %s", i, reason),
				})
			}
		}
	}

	return errors.Join(errs...)
}

// checkQuestion returns a description of the first problem with q, or "".
func checkQuestion(q CandidateQuestion) string {
	if len(q.Answers) < 2 {
		return fmt.Sprintf("needs at least 2 answers, has %d", len(q.Answers))
	}
	if !q.ValidAnswer(q.CorrectAnswer) {
		return fmt.Sprintf("correctAnswer %d out of range [0, %d)", q.CorrectAnswer, len(q.Answers))
	}
	images := 0
	for i, a := range q.Answers {
		if a.Text == "" && a.Image == "" {
			return fmt.Sprintf("answer %d has neither text nor image", i)
		}
		if a.IsImage() {
			images++
		}
	}
	if images != 0 && images != len(q.Answers) {
		return "mixes text and image answers"
	}
	return ""
}
