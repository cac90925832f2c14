package quiz

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/dynamiclms/core"
)

func newValidator() (*validator.Validate, func(err error) map[string]string) {
	validate, translator := core.NewValidator()
	InitValidators(validate, translator)
	return validate, func(err error) map[string]string {
		if err == nil {
			return nil
		}
		vErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return map[string]string{"": err.Error()}
		}
		return core.TranslateErrors(vErrs, translator)
	}
}

func TestNewQuestion_Validate(t *testing.T) {
	validate, translate := newValidator()
	options := func() []string { return []string{"A", "B", "C", "D"} }

	tests := []struct {
		name string
		nq   NewQuestion
		want map[string]string
	}{
		{
			name: "multiple choice",
			nq:   NewQuestion{Type: TypeMultipleChoice, Prompt: "Pick one", Options: options(), CorrectOption: 3},
		},
		{
			name: "required",
			want: map[string]string{"type": "this field is required", "question": "this field is required"},
		},
		{
			name: "unknown type",
			nq:   NewQuestion{Type: "essay", Prompt: "Discuss"},
			want: map[string]string{"type": questionTypeText},
		},
		{
			name: "mixed is not a question type",
			nq:   NewQuestion{Type: TypeMixed, Prompt: "Discuss"},
			want: map[string]string{"type": questionTypeText},
		},
		{
			name: "three options",
			nq:   NewQuestion{Type: TypeMultipleChoice, Prompt: "Pick one", Options: []string{"A", "B", "C"}},
			want: map[string]string{"options": mcOptionsText},
		},
		{
			name: "blank option",
			nq:   NewQuestion{Type: TypeMultipleChoice, Prompt: "Pick one", Options: []string{"A", "  ", "C", "D"}},
			want: map[string]string{"options": mcOptionsText},
		},
		{
			name: "correct option out of range",
			nq:   NewQuestion{Type: TypeMultipleChoice, Prompt: "Pick one", Options: options(), CorrectOption: 4},
			want: map[string]string{"correct_option": mcAnswerText},
		},
		{
			name: "true/false ignores options",
			nq:   NewQuestion{Type: " True_False ", Prompt: "Sets are ordered.", Options: []string{"A"}},
		},
		{
			name: "fill blank ignores partial options",
			nq:   NewQuestion{Type: TypeFillBlank, Prompt: "A ∪ B is the ____", Options: []string{"union", " ", ""}, CorrectOption: 7},
		},
		{
			name: "fill blank ignores empty options",
			nq:   NewQuestion{Type: TypeFillBlank, Prompt: "A ∩ B is the ____", Options: []string{}},
		},
		{
			name: "source kind without source",
			nq:   NewQuestion{Type: TypeFillBlank, Prompt: "A ∪ B is the ____", SourceKind: SourcePDF},
			want: map[string]string{"source": "this field is required"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nq.Validate(validate)
			assert.Equal(t, tt.want, translate(err))
		})
	}

	t.Run("cleaning", func(t *testing.T) {
		nq := NewQuestion{Type: " FILL_BLANK ", Prompt: "  The ____ of A  ", CorrectText: " union ", Source: " 3 "}
		require.NoError(t, nq.Validate(validate))
		assert.Equal(t, TypeFillBlank, nq.Type)
		assert.Equal(t, "The ____ of A", nq.Prompt)
		assert.Equal(t, "union", nq.CorrectText)
		assert.Equal(t, "3", nq.Source)
		assert.Equal(t, SourceLesson, nq.SourceKind)
	})
}

func TestNewQuestion_question(t *testing.T) {
	nq := NewQuestion{
		Type: TypeMultipleChoice, Prompt: "Pick one", Options: []string{"A", "B", "C", "D"},
		CorrectOption: 2, CorrectBool: true, CorrectText: "B",
	}
	q := nq.question()
	require.NotNil(t, q.CorrectOption)
	assert.Equal(t, 2, *q.CorrectOption)
	assert.Nil(t, q.CorrectBool)
	assert.Empty(t, q.CorrectText)

	nq.Options[0] = "changed"
	assert.Equal(t, "A", q.Options[0])

	nq.Type = TypeTrueFalse
	q = nq.question()
	assert.Nil(t, q.CorrectOption)
	assert.Empty(t, q.Options)
	require.NotNil(t, q.CorrectBool)
	assert.True(t, *q.CorrectBool)

	nq.Type = TypeFillBlank
	q = nq.question()
	assert.Nil(t, q.CorrectOption)
	assert.Nil(t, q.CorrectBool)
	assert.Equal(t, "B", q.CorrectText)
}

func TestGenerateRequest_Validate(t *testing.T) {
	validate, translate := newValidator()

	gr := GenerateRequest{Source: " 1 ", SourceKind: " PDF "}
	require.NoError(t, gr.Validate(validate))
	assert.Equal(t, GenerateRequest{Source: "1", SourceKind: SourcePDF, Type: TypeMixed}, gr)

	gr = GenerateRequest{}
	assert.Equal(t, map[string]string{
		"source":      "this field is required",
		"source_kind": "this field is required",
	}, translate(gr.Validate(validate)))

	gr = GenerateRequest{Source: "1", SourceKind: SourceLesson, Type: "essay"}
	assert.Equal(t, map[string]string{"type": quizTypeText}, translate(gr.Validate(validate)))
}

func TestNewQuiz_Validate(t *testing.T) {
	validate, translate := newValidator()

	due := time.Date(2024, 3, 1, 23, 59, 0, 0, time.FixedZone("EAT", 3*60*60))
	nq := NewQuiz{Name: " Sets ", QuestionIDs: []string{"q1"}, DueDate: &due}
	require.NoError(t, nq.Validate(validate))
	assert.Equal(t, "Sets", nq.Name)
	assert.Equal(t, TypeMixed, nq.Type)
	assert.Equal(t, core.CategoryPrelim, nq.Category)
	assert.Equal(t, time.Date(2024, 3, 1, 20, 59, 0, 0, time.UTC), *nq.DueDate)

	nq = NewQuiz{Name: "Sets", Category: "summer", TimeLimit: 601}
	got := translate(nq.Validate(validate))
	assert.Equal(t, "must be one of prelim, midterm or finals", got["category"])
	assert.Contains(t, got, "time_limit")

	nq = NewQuiz{Name: "Sets", QuestionIDs: []string{"q1", ""}}
	assert.Equal(t, map[string]string{"question_ids[1]": "this field is required"}, translate(nq.Validate(validate)))
}

func TestNewResult_Validate(t *testing.T) {
	validate, translate := newValidator()

	nr := NewResult{StudentID: " student-1 ", Score: 80, MaxScore: 100}
	require.NoError(t, nr.Validate(validate))
	assert.Equal(t, "student-1", nr.StudentID)

	nr = NewResult{StudentID: "student-1", Score: 120, MaxScore: 100}
	assert.Contains(t, translate(nr.Validate(validate)), "score")

	nr = NewResult{}
	got := translate(nr.Validate(validate))
	assert.Equal(t, "this field is required", got["student_id"])
	assert.Contains(t, got, "max_score")
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, similarity("What is a set?", "  what is a SET? "))
	assert.GreaterOrEqual(t, similarity("What is a set in discrete mathematics?", "what is a set in discrete mathematics"), maxPromptSimilarity)
	assert.Less(t, similarity("What is a set?", "Define a bijection."), maxPromptSimilarity)
}

func TestTemplateQuestions(t *testing.T) {
	qs := templateQuestions(GenerateRequest{Source: "1", SourceKind: SourceLesson, Type: TypeMixed})
	require.Len(t, qs, 2)
	assert.Equal(t, TypeMultipleChoice, qs[0].Type)
	assert.Equal(t, "Generated question from lesson", qs[0].Prompt)
	assert.Len(t, qs[0].Options, NumOptions)
	require.NotNil(t, qs[0].CorrectOption)
	assert.Equal(t, 0, *qs[0].CorrectOption)
	assert.Equal(t, TypeTrueFalse, qs[1].Type)
	assert.Equal(t, "Another generated question from lesson", qs[1].Prompt)
	require.NotNil(t, qs[1].CorrectBool)
	assert.False(t, *qs[1].CorrectBool)
	for _, q := range qs {
		assert.Equal(t, "1", q.Source)
		assert.Equal(t, SourceLesson, q.SourceKind)
	}

	qs = templateQuestions(GenerateRequest{Source: "2", SourceKind: SourcePDF, Type: TypeFillBlank})
	require.Len(t, qs, 2)
	for _, q := range qs {
		assert.Equal(t, TypeFillBlank, q.Type)
		assert.Equal(t, "answer", q.CorrectText)
		assert.Contains(t, q.Prompt, "from PDF")
		assert.Equal(t, SourcePDF, q.SourceKind)
	}

	qs = templateQuestions(GenerateRequest{Source: "2", SourceKind: SourceLesson, Type: TypeMultipleChoice})
	require.NotNil(t, qs[1].CorrectOption)
	assert.Equal(t, 1, *qs[1].CorrectOption)
}
