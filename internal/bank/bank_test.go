package bank

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textQuestion(q string, correct int, answers ...string) CandidateQuestion {
	cq := CandidateQuestion{Question: q, CorrectAnswer: correct}
	for _, a := range answers {
		cq.Answers = append(cq.Answers, Answer{Text: a})
	}
	return cq
}

func TestDefaultBank(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 30, b.GroupCount())

	for i := 0; i < b.GroupCount(); i++ {
		g := b.Group(i)
		assert.NotEmpty(t, g.Topic, "group %d topic", g.ID)
		assert.Positive(t, b.PoolSize(i), "group %d pool", g.ID)
	}
}

func TestParse_Valid(t *testing.T) {
	raw := `[
	  {"id": 1, "topic": "Hory", "questions": [
	    {"question": "Nejvyšší hora?", "answers": [{"text": "Sněžka"}, {"text": "Praděd"}], "correctAnswer": 0}
	  ]},
	  {"id": 2, "topic": "Vlajky", "questions": [
	    {"question": "Která vlajka?", "questionImage": "img/q.png",
	     "answers": [{"image": "a.png"}, {"image": "b.png"}, {"image": "c.png"}], "correctAnswer": 2,
	     "note": "extra fields are tolerated"}
	  ]}
	]`

	b, err := Parse([]byte(raw))
	require.NoError(t, err)
	require.Equal(t, 2, b.GroupCount())

	img := b.Group(1).Questions[0]
	assert.True(t, img.HasImageAnswers())
	assert.Equal(t, "img/q.png", img.QuestionImage)
	assert.False(t, b.Group(0).Questions[0].HasImageAnswers())
}

func TestParse_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{{`},
		{"not an array", `{"id": 1}`},
		{"missing topic", `[{"id": 1, "questions": []}]`},
		{"one answer", `[{"id": 1, "topic": "t", "questions": [{"question": "q", "answers": [{"text": "a"}], "correctAnswer": 0}]}]`},
		{"answer without text or image", `[{"id": 1, "topic": "t", "questions": [{"question": "q", "answers": [{}, {"text": "b"}], "correctAnswer": 0}]}]`},
		{"negative correct answer", `[{"id": 1, "topic": "t", "questions": [{"question": "q", "answers": [{"text": "a"}, {"text": "b"}], "correctAnswer": -1}]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestValidate_EmptyPool(t *testing.T) {
	groups := []QuestionGroup{
		{ID: 1, Topic: "Hory", Questions: []CandidateQuestion{textQuestion("q", 0, "a", "b")}},
		{ID: 7, Topic: "Řeky"},
	}

	err := Validate(groups)
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, 7, cfgErr.GroupID)
	assert.Contains(t, err.Error(), "Řeky")
}

func TestValidate_StructuralProblems(t *testing.T) {
	tests := []struct {
		name string
		q    CandidateQuestion
		want string
	}{
		{"correct answer out of range", textQuestion("q", 4, "a", "b", "c", "d"), "out of range"},
		{"too few answers", textQuestion("q", 0, "a"), "at least 2"},
		{"mixed answers", CandidateQuestion{
			Question:      "q",
			Answers:       []Answer{{Text: "a"}, {Image: "b.png"}},
			CorrectAnswer: 0,
		}, "mixes"},
		{"empty answer", CandidateQuestion{
			Question:      "q",
			Answers:       []Answer{{Text: "a"}, {}},
			CorrectAnswer: 0,
		}, "neither text nor image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]QuestionGroup{{ID: 1, Topic: "t", Questions: []CandidateQuestion{tt.q}}})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_DuplicateIDsAndNoGroups(t *testing.T) {
	q := textQuestion("q", 0, "a", "b")
	err := Validate([]QuestionGroup{
		{ID: 3, Topic: "a", Questions: []CandidateQuestion{q}},
		{ID: 3, Topic: "b", Questions: []CandidateQuestion{q}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")

	assert.Error(t, Validate(nil))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bank.json")
	raw := `[{"id": 1, "topic": "t", "questions": [{"question": "q", "answers": [{"text": "a"}, {"text": "b"}], "correctAnswer": 1}]}]`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	b, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, b.GroupCount())

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	def, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 30, def.GroupCount())
}

func TestSelect(t *testing.T) {
	g := QuestionGroup{ID: 9, Topic: "Města", Questions: []CandidateQuestion{
		textQuestion("first", 0, "a", "b"),
		textQuestion("second", 1, "c", "d"),
	}}

	sq := g.Select(1)
	assert.Equal(t, 9, sq.GroupID)
	assert.Equal(t, "Města", sq.Topic)
	assert.Equal(t, "second", sq.Question)
	assert.Equal(t, 1, sq.CorrectAnswer)
}

func TestNew_CopiesGroups(t *testing.T) {
	groups := []QuestionGroup{{ID: 1, Topic: "a", Questions: []CandidateQuestion{textQuestion("q", 0, "a", "b")}}}
	b := New(groups)
	groups[0] = QuestionGroup{ID: 2}

	assert.Equal(t, 1, b.Group(0).ID)

	var nilBank *Bank
	assert.Equal(t, 0, nilBank.GroupCount())
}
