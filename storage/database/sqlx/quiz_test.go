package sqlxrepos

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/core/quiz"
)

var (
	questionCols = []string{"id", "course_id", "type", "prompt", "options", "correct_option", "correct_bool", "correct_text", "source", "source_kind", "created_at"}
	quizCols     = []string{"id", "course_id", "name", "description", "type", "category", "question_ids", "created_at", "due_date", "time_limit"}

	quizCreated = time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
)

func TestQuestionRow(t *testing.T) {
	two, yes := 2, true

	tests := []struct {
		name string
		q    quiz.Question
	}{
		{
			name: "multiple choice",
			q: quiz.Question{
				ID: "q1", CourseID: "1", Type: quiz.TypeMultipleChoice, Prompt: "Pick one",
				Options: []string{"A", "B", "C", "D"}, CorrectOption: &two, CreatedAt: quizCreated,
			},
		},
		{
			name: "true/false",
			q:    quiz.Question{ID: "q2", CourseID: "1", Type: quiz.TypeTrueFalse, Prompt: "Sets are ordered.", CorrectBool: &yes, CreatedAt: quizCreated},
		},
		{
			name: "fill blank from a lesson",
			q: quiz.Question{
				ID: "q3", CourseID: "1", Type: quiz.TypeFillBlank, Prompt: "A ∪ B is the ____", CorrectText: "union",
				Source: "1", SourceKind: quiz.SourceLesson, CreatedAt: quizCreated,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := newQuestionRow(tt.q)
			assert.Equal(t, tt.q, row.question())
		})
	}

	row := newQuestionRow(tests[0].q)
	assert.True(t, row.CorrectOption.Valid)
	assert.False(t, row.CorrectBool.Valid)
	assert.False(t, row.CorrectText.Valid)
	assert.False(t, row.Source.Valid)

	row = newQuestionRow(tests[1].q)
	assert.Nil(t, row.Options)
	assert.False(t, row.CorrectOption.Valid)
	assert.True(t, row.CorrectBool.Bool)
}

func TestQuizRepository_questions(t *testing.T) {
	db, mock := newMock(t)
	repo := NewQuizRepository(db)
	ctx := context.Background()
	two := 2

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO questions")).
		WithArgs("q7", "1", "multiple_choice", "Pick one", pq.StringArray{"A", "B", "C", "D"}, 2, nil, nil, nil, nil, quizCreated).
		WillReturnResult(sqlmock.NewResult(0, 1))
	q, err := repo.CreateQuestion(ctx, quiz.Question{
		ID: "q7", CourseID: "1", Type: quiz.TypeMultipleChoice, Prompt: "Pick one",
		Options: []string{"A", "B", "C", "D"}, CorrectOption: &two, CreatedAt: quizCreated,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, q.Options)

	mock.ExpectQuery(regexp.QuoteMeta("FROM questions WHERE course_id = $1 ORDER BY seq")).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows(questionCols).
			AddRow("q1", "1", "multiple_choice", "Pick one", "{A,B,C,\"D, E\"}", int64(1), nil, nil, nil, nil, quizCreated).
			AddRow("q2", "1", "true_false", "Sets are ordered.", nil, nil, false, nil, "1", "lesson", quizCreated))
	bank, err := repo.QueryQuestions(ctx, "1")
	require.NoError(t, err)
	require.Len(t, bank, 2)
	assert.Equal(t, []string{"A", "B", "C", "D, E"}, bank[0].Options)
	require.NotNil(t, bank[0].CorrectOption)
	assert.Equal(t, 1, *bank[0].CorrectOption)
	assert.Nil(t, bank[0].CorrectBool)

	assert.Nil(t, bank[1].Options)
	assert.Nil(t, bank[1].CorrectOption)
	require.NotNil(t, bank[1].CorrectBool)
	assert.False(t, *bank[1].CorrectBool)
	assert.Equal(t, quiz.SourceLesson, bank[1].SourceKind)
}

func TestQuizRepository_quizzes(t *testing.T) {
	db, mock := newMock(t)
	repo := NewQuizRepository(db)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO quizzes")).
		WithArgs("4", "1", "Quiz 4", "", "mixed", "midterm", pq.StringArray{"q6", "q1"}, quizCreated, nil, 30).
		WillReturnResult(sqlmock.NewResult(0, 1))
	qz, err := repo.CreateQuiz(ctx, quiz.Quiz{
		ID: "4", CourseID: "1", Name: "Quiz 4", Type: quiz.TypeMixed, Category: core.CategoryMidterm,
		QuestionIDs: []string{"q6", "q1"}, CreatedAt: quizCreated, TimeLimit: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"q6", "q1"}, qz.QuestionIDs)

	mock.ExpectQuery(regexp.QuoteMeta("FROM quizzes WHERE course_id = $1 ORDER BY seq")).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows(quizCols).
			AddRow("1", "1", "Sets Quiz", "", "multiple_choice", "prelim", "{q1,q2}", quizCreated, quizCreated.Add(time.Hour), 20).
			AddRow("2", "1", "Empty", "", "mixed", "finals", "{}", quizCreated, nil, 0))
	quizzes, err := repo.QueryQuizzes(ctx, "1")
	require.NoError(t, err)
	require.Len(t, quizzes, 2)
	assert.Equal(t, []string{"q1", "q2"}, quizzes[0].QuestionIDs)
	require.NotNil(t, quizzes[0].DueDate)
	assert.NotNil(t, quizzes[1].QuestionIDs)
	assert.Empty(t, quizzes[1].QuestionIDs)
	assert.Nil(t, quizzes[1].DueDate)

	mock.ExpectQuery(regexp.QuoteMeta("FROM quizzes WHERE course_id = $1 AND id = $2")).
		WithArgs("2", "1").
		WillReturnRows(sqlmock.NewRows(quizCols))
	_, err = repo.GetQuizByID(ctx, "2", "1")
	assert.Equal(t, quiz.ErrNotFound, err)
}

func TestQuizRepository_results(t *testing.T) {
	db, mock := newMock(t)
	repo := NewQuizRepository(db)
	ctx := context.Background()
	res := quiz.Result{QuizID: "1", StudentID: "student-1", Score: 92, MaxScore: 100, TakenAt: quizCreated}

	// a second result of the same student replaces the first one
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (quiz_id, student_id) DO UPDATE")).
		WithArgs("1", "student-1", 92.0, 100.0, quizCreated).
		WillReturnResult(sqlmock.NewResult(0, 1))
	got, err := repo.SaveResult(ctx, res)
	require.NoError(t, err)
	assert.Equal(t, res, got)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE q.course_id = $1 AND r.student_id = $2 ORDER BY q.seq")).
		WithArgs("1", "student-1").
		WillReturnRows(sqlmock.NewRows([]string{"quiz_id", "student_id", "score", "max_score", "taken_at"}).
			AddRow("1", "student-1", 92.0, 100.0, quizCreated.In(time.FixedZone("PHT", 8*3600))))
	results, err := repo.QueryResults(ctx, "1", "student-1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 92.0, results[0].Score)
	assert.Equal(t, time.UTC, results[0].TakenAt.Location())
}
