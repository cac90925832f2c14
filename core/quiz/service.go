package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/core/lesson"
)

var (
	// errors
	ErrNotFound         = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrDuplicate        = errors.New("a similar question already exists in the quiz bank")
	ErrNoPDF            = errors.New("this lesson has no PDF")

	// duplicate guard
	maxPromptSimilarity = .9
)

type (
	Repository interface {
		CreateQuestion(ctx context.Context, q Question) (Question, error)
		// QueryQuestions returns the quiz bank of a course in insertion order.
		QueryQuestions(ctx context.Context, courseID string) ([]Question, error)
		CreateQuiz(ctx context.Context, qz Quiz) (Quiz, error)
		GetQuizByID(ctx context.Context, courseID, id string) (Quiz, error)
		// QueryQuizzes returns the quizzes of a course in insertion order.
		QueryQuizzes(ctx context.Context, courseID string) ([]Quiz, error)
		// SaveResult stores the result of a student, replacing any previous one.
		SaveResult(ctx context.Context, res Result) (Result, error)
		QueryResults(ctx context.Context, courseID, studentID string) ([]Result, error)
	}

	LessonGetter interface {
		GetByID(ctx context.Context, courseID, id string) (lesson.Lesson, error)
	}

	Service struct {
		repo    Repository
		lessons LessonGetter
	}
)

func NewService(repo Repository, lessons LessonGetter) *Service {
	return &Service{repo: repo, lessons: lessons}
}

// ListBank returns the quiz bank of a course. TypeMixed or an empty type returns the whole bank.
func (svc *Service) ListBank(ctx context.Context, courseID string, typ QuestionType) ([]Question, error) {
	bank, err := svc.repo.QueryQuestions(ctx, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "querying questions")
	}
	return FilterBank(bank, typ), nil
}

// FilterBank keeps the questions of the given type. TypeMixed or an empty type keeps all.
func FilterBank(bank []Question, typ QuestionType) []Question {
	if typ == "" || typ == TypeMixed {
		return bank
	}
	filtered := make([]Question, 0, len(bank))
	for _, q := range bank {
		if q.Type == typ {
			filtered = append(filtered, q)
		}
	}
	return filtered
}

// CreateQuestion adds a validated NewQuestion to the quiz bank of a course.
// A prompt too similar to one of a bank question of the same type is rejected.
func (svc *Service) CreateQuestion(ctx context.Context, courseID string, nq NewQuestion) (Question, error) {
	if nq.Source != "" {
		if err := svc.checkSource(ctx, courseID, nq.Source, nq.SourceKind); err != nil {
			return Question{}, err
		}
	}

	bank, err := svc.repo.QueryQuestions(ctx, courseID)
	if err != nil {
		return Question{}, errors.Wrap(err, "querying questions")
	}
	for _, q := range bank {
		if q.Type == nq.Type && similarity(q.Prompt, nq.Prompt) >= maxPromptSimilarity {
			return Question{}, core.NewValidationError(ErrDuplicate, core.FieldError{Field: "question", Error: ErrDuplicate.Error()})
		}
	}

	q := nq.question()
	q.ID = uuid.NewString()
	q.CourseID = courseID
	q.CreatedAt = time.Now().UTC()
	q, err = svc.repo.CreateQuestion(ctx, q)
	if err != nil {
		return Question{}, errors.Wrap(err, "creating question")
	}
	return q, nil
}

// Generate appends two template questions built from a lesson (or its PDF) to the quiz bank.
// TypeMixed yields one multiple choice and one true/false question, any other type two questions of that type.
func (svc *Service) Generate(ctx context.Context, courseID string, gr GenerateRequest) ([]Question, error) {
	if err := svc.checkSource(ctx, courseID, gr.Source, gr.SourceKind); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	generated := make([]Question, 0, 2)
	for _, q := range templateQuestions(gr) {
		q.ID = uuid.NewString()
		q.CourseID = courseID
		q.CreatedAt = now
		created, err := svc.repo.CreateQuestion(ctx, q)
		if err != nil {
			return nil, errors.Wrap(err, "creating generated question")
		}
		generated = append(generated, created)
	}
	return generated, nil
}

func templateQuestions(gr GenerateRequest) []Question {
	from := "lesson"
	if gr.SourceKind == SourcePDF {
		from = "PDF"
	}

	first, second := gr.Type, gr.Type
	if gr.Type == TypeMixed {
		first, second = TypeMultipleChoice, TypeTrueFalse
	}

	qs := []Question{
		{Type: first, Prompt: fmt.Sprintf("Generated question from %s", from)},
		{Type: second, Prompt: fmt.Sprintf("Another generated question from %s", from)},
	}
	for i := range qs {
		qs[i].Source = gr.Source
		qs[i].SourceKind = gr.SourceKind
		switch qs[i].Type {
		case TypeMultipleChoice:
			idx := i
			qs[i].Options = []string{"Option A", "Option B", "Option C", "Option D"}
			qs[i].CorrectOption = &idx
		case TypeTrueFalse:
			b := i == 0
			qs[i].CorrectBool = &b
		case TypeFillBlank:
			qs[i].CorrectText = "answer"
		}
	}
	return qs
}

func (svc *Service) checkSource(ctx context.Context, courseID, source string, kind SourceKind) error {
	lsn, err := svc.lessons.GetByID(ctx, courseID, source)
	if err != nil {
		if errors.Cause(err) == lesson.ErrNotFound {
			return core.NewFieldValidationError("source", "unknown lesson")
		}
		return errors.Wrap(err, "finding source lesson")
	}
	if kind == SourcePDF && !lsn.HasPDF() {
		return core.NewValidationError(ErrNoPDF, core.FieldError{Field: "source", Error: ErrNoPDF.Error()})
	}
	return nil
}

// CreateQuiz creates a quiz from questions of the course quiz bank.
func (svc *Service) CreateQuiz(ctx context.Context, courseID string, nq NewQuiz) (Quiz, error) {
	if len(nq.QuestionIDs) == 0 {
		return Quiz{}, core.NewFieldValidationError("question_ids", "please select at least one question for the quiz")
	}

	bank, err := svc.repo.QueryQuestions(ctx, courseID)
	if err != nil {
		return Quiz{}, errors.Wrap(err, "querying questions")
	}
	inBank := make(map[string]bool, len(bank))
	for _, q := range bank {
		inBank[q.ID] = true
	}

	ids := make([]string, 0, len(nq.QuestionIDs))
	seen := make(map[string]bool, len(nq.QuestionIDs))
	var unknown []string
	for _, id := range nq.QuestionIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if !inBank[id] {
			unknown = append(unknown, id)
			continue
		}
		ids = append(ids, id)
	}
	if len(unknown) > 0 {
		msg := fmt.Sprintf("unknown questions: %s", strings.Join(unknown, ", "))
		return Quiz{}, core.NewValidationError(ErrQuestionNotFound, core.FieldError{Field: "question_ids", Error: msg})
	}

	qz, err := svc.repo.CreateQuiz(ctx, Quiz{
		ID:          uuid.NewString(),
		CourseID:    courseID,
		Name:        nq.Name,
		Description: nq.Description,
		Type:        nq.Type,
		Category:    nq.Category,
		QuestionIDs: ids,
		CreatedAt:   time.Now().UTC(),
		DueDate:     nq.DueDate,
		TimeLimit:   nq.TimeLimit,
	})
	if err != nil {
		return Quiz{}, errors.Wrap(err, "creating quiz")
	}
	return qz, nil
}

func (svc *Service) Query(ctx context.Context, courseID string) ([]Quiz, error) {
	return svc.repo.QueryQuizzes(ctx, courseID)
}

// List returns the quizzes of a course bucketed by category.
func (svc *Service) List(ctx context.Context, courseID string) (core.Buckets[Quiz], error) {
	quizzes, err := svc.repo.QueryQuizzes(ctx, courseID)
	if err != nil {
		return core.Buckets[Quiz]{}, errors.Wrap(err, "querying quizzes")
	}
	return core.Bucket(quizzes)
}

// ListForStudent returns the quizzes of a course bucketed by category, with the student's results.
func (svc *Service) ListForStudent(ctx context.Context, courseID, studentID string) (core.Buckets[StudentQuiz], error) {
	quizzes, err := svc.repo.QueryQuizzes(ctx, courseID)
	if err != nil {
		return core.Buckets[StudentQuiz]{}, errors.Wrap(err, "querying quizzes")
	}
	results, err := svc.repo.QueryResults(ctx, courseID, studentID)
	if err != nil {
		return core.Buckets[StudentQuiz]{}, errors.Wrap(err, "querying results")
	}

	byQuiz := make(map[string]Result, len(results))
	for _, res := range results {
		byQuiz[res.QuizID] = res
	}

	views := make([]StudentQuiz, 0, len(quizzes))
	for _, qz := range quizzes {
		view := StudentQuiz{Quiz: qz, QuestionCount: len(qz.QuestionIDs)}
		if res, ok := byQuiz[qz.ID]; ok {
			view.Taken = true
			view.Result = &res
		}
		views = append(views, view)
	}
	return core.Bucket(views)
}

// RecordResult stores the result of a student for a quiz of the course.
func (svc *Service) RecordResult(ctx context.Context, courseID, quizID string, nr NewResult) (Result, error) {
	if _, err := svc.repo.GetQuizByID(ctx, courseID, quizID); err != nil {
		return Result{}, err
	}
	res, err := svc.repo.SaveResult(ctx, Result{
		QuizID:    quizID,
		StudentID: nr.StudentID,
		Score:     nr.Score,
		MaxScore:  nr.MaxScore,
		TakenAt:   time.Now().UTC(),
	})
	if err != nil {
		return Result{}, errors.Wrap(err, "saving result")
	}
	return res, nil
}

// similarity is the difflib ratio of two prompts, ignoring case and surrounding whitespace.
func similarity(a, b string) float64 {
	a, b = core.CleanString(a, true /* lower */), core.CleanString(b, true /* lower */)
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}
