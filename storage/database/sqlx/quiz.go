package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/core/quiz"
)

type questionRow struct {
	ID            string         `db:"id"`
	CourseID      string         `db:"course_id"`
	Type          string         `db:"type"`
	Prompt        string         `db:"prompt"`
	Options       pq.StringArray `db:"options"`
	CorrectOption null.Int       `db:"correct_option"`
	CorrectBool   null.Bool      `db:"correct_bool"`
	CorrectText   null.String    `db:"correct_text"`
	Source        null.String    `db:"source"`
	SourceKind    null.String    `db:"source_kind"`
	CreatedAt     time.Time      `db:"created_at"`
}

func newQuestionRow(q quiz.Question) questionRow {
	row := questionRow{
		ID:          q.ID,
		CourseID:    q.CourseID,
		Type:        string(q.Type),
		Prompt:      q.Prompt,
		CorrectBool: null.BoolFromPtr(q.CorrectBool),
		CorrectText: nullString(q.CorrectText),
		Source:      nullString(q.Source),
		SourceKind:  nullString(string(q.SourceKind)),
		CreatedAt:   q.CreatedAt,
	}
	if q.Options != nil {
		row.Options = pq.StringArray(q.Options)
	}
	if q.CorrectOption != nil {
		row.CorrectOption = null.IntFrom(*q.CorrectOption)
	}
	return row
}

func (r questionRow) question() quiz.Question {
	q := quiz.Question{
		ID:          r.ID,
		CourseID:    r.CourseID,
		Type:        quiz.QuestionType(r.Type),
		Prompt:      r.Prompt,
		CorrectBool: r.CorrectBool.Ptr(),
		CorrectText: r.CorrectText.String,
		Source:      r.Source.String,
		SourceKind:  quiz.SourceKind(r.SourceKind.String),
		CreatedAt:   r.CreatedAt.UTC(),
	}
	if len(r.Options) > 0 {
		q.Options = []string(r.Options)
	}
	if r.CorrectOption.Valid {
		idx := r.CorrectOption.Int
		q.CorrectOption = &idx
	}
	return q
}

type quizRow struct {
	ID          string         `db:"id"`
	CourseID    string         `db:"course_id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	Type        string         `db:"type"`
	Category    string         `db:"category"`
	QuestionIDs pq.StringArray `db:"question_ids"`
	CreatedAt   time.Time      `db:"created_at"`
	DueDate     null.Time      `db:"due_date"`
	TimeLimit   int            `db:"time_limit"`
}

func (r quizRow) quiz() quiz.Quiz {
	ids := []string(r.QuestionIDs)
	if ids == nil {
		ids = []string{}
	}
	return quiz.Quiz{
		ID:          r.ID,
		CourseID:    r.CourseID,
		Name:        r.Name,
		Description: r.Description,
		Type:        quiz.QuestionType(r.Type),
		Category:    core.Category(r.Category),
		QuestionIDs: ids,
		CreatedAt:   r.CreatedAt.UTC(),
		DueDate:     utcPtr(r.DueDate),
		TimeLimit:   r.TimeLimit,
	}
}

type resultRow struct {
	QuizID    string    `db:"quiz_id"`
	StudentID string    `db:"student_id"`
	Score     float64   `db:"score"`
	MaxScore  float64   `db:"max_score"`
	TakenAt   time.Time `db:"taken_at"`
}

const (
	questionColumns = "id, course_id, type, prompt, options, correct_option, correct_bool, correct_text, source, source_kind, created_at"
	quizColumns     = "id, course_id, name, description, type, category, question_ids, created_at, due_date, time_limit"
)

type quizRepository struct {
	db *sqlx.DB
}

func NewQuizRepository(db *sqlx.DB) quiz.Repository {
	return &quizRepository{db: db}
}

func (repo *quizRepository) CreateQuestion(ctx context.Context, q quiz.Question) (quiz.Question, error) {
	row := newQuestionRow(q)
	query := `INSERT INTO questions (` + questionColumns + `) VALUES (:id, :course_id, :type, :prompt, :options,
		:correct_option, :correct_bool, :correct_text, :source, :source_kind, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, row); err != nil {
		return quiz.Question{}, errors.Wrap(err, "inserting question")
	}
	return row.question(), nil
}

func (repo *quizRepository) QueryQuestions(ctx context.Context, courseID string) ([]quiz.Question, error) {
	var rows []questionRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT `+questionColumns+` FROM questions WHERE course_id = $1 ORDER BY seq`, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "querying questions")
	}
	qs := make([]quiz.Question, 0, len(rows))
	for _, r := range rows {
		qs = append(qs, r.question())
	}
	return qs, nil
}

func (repo *quizRepository) CreateQuiz(ctx context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	row := quizRow{
		ID:          qz.ID,
		CourseID:    qz.CourseID,
		Name:        qz.Name,
		Description: qz.Description,
		Type:        string(qz.Type),
		Category:    string(qz.Category),
		QuestionIDs: pq.StringArray(append([]string{}, qz.QuestionIDs...)),
		CreatedAt:   qz.CreatedAt,
		DueDate:     null.TimeFromPtr(qz.DueDate),
		TimeLimit:   qz.TimeLimit,
	}
	query := `INSERT INTO quizzes (` + quizColumns + `) VALUES (:id, :course_id, :name, :description, :type,
		:category, :question_ids, :created_at, :due_date, :time_limit)`
	if _, err := repo.db.NamedExecContext(ctx, query, row); err != nil {
		return quiz.Quiz{}, errors.Wrap(err, "inserting quiz")
	}
	return row.quiz(), nil
}

func (repo *quizRepository) GetQuizByID(ctx context.Context, courseID, id string) (quiz.Quiz, error) {
	var row quizRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT `+quizColumns+` FROM quizzes WHERE course_id = $1 AND id = $2`, courseID, id)
	if err != nil {
		return quiz.Quiz{}, notFound(err, quiz.ErrNotFound)
	}
	return row.quiz(), nil
}

func (repo *quizRepository) QueryQuizzes(ctx context.Context, courseID string) ([]quiz.Quiz, error) {
	var rows []quizRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT `+quizColumns+` FROM quizzes WHERE course_id = $1 ORDER BY seq`, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "querying quizzes")
	}
	quizzes := make([]quiz.Quiz, 0, len(rows))
	for _, r := range rows {
		quizzes = append(quizzes, r.quiz())
	}
	return quizzes, nil
}

func (repo *quizRepository) SaveResult(ctx context.Context, res quiz.Result) (quiz.Result, error) {
	query := `INSERT INTO quiz_results (quiz_id, student_id, score, max_score, taken_at)
		VALUES (:quiz_id, :student_id, :score, :max_score, :taken_at)
		ON CONFLICT (quiz_id, student_id) DO UPDATE
		SET score = EXCLUDED.score, max_score = EXCLUDED.max_score, taken_at = EXCLUDED.taken_at`
	if _, err := repo.db.NamedExecContext(ctx, query, resultRow(res)); err != nil {
		return quiz.Result{}, errors.Wrap(err, "saving quiz result")
	}
	return res, nil
}

func (repo *quizRepository) QueryResults(ctx context.Context, courseID, studentID string) ([]quiz.Result, error) {
	var rows []resultRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT r.quiz_id, r.student_id, r.score, r.max_score, r.taken_at
		FROM quiz_results r JOIN quizzes q ON q.id = r.quiz_id
		WHERE q.course_id = $1 AND r.student_id = $2 ORDER BY q.seq`, courseID, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying quiz results")
	}
	results := make([]quiz.Result, 0, len(rows))
	for _, r := range rows {
		res := quiz.Result(r)
		res.TakenAt = res.TakenAt.UTC()
		results = append(results, res)
	}
	return results, nil
}
