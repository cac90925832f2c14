package inmemdb

import (
	"context"

	"github.com/trezcool/dynamiclms/core/quiz"
)

type quizRepository struct {
	db *DB
}

func NewQuizRepository(db *DB) quiz.Repository {
	return &quizRepository{db: db}
}

func (repo *quizRepository) CreateQuestion(ctx context.Context, q quiz.Question) (quiz.Question, error) {
	if err := repo.db.wait(ctx); err != nil {
		return quiz.Question{}, err
	}

	tbl := repo.db.quiz
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	for _, existing := range tbl.questions {
		if existing.ID == q.ID {
			return quiz.Question{}, ErrDuplicateID
		}
	}
	q.Options = append([]string(nil), q.Options...)
	tbl.questions = append(tbl.questions, q)
	return q, nil
}

func (repo *quizRepository) QueryQuestions(ctx context.Context, courseID string) ([]quiz.Question, error) {
	if err := repo.db.wait(ctx); err != nil {
		return nil, err
	}

	tbl := repo.db.quiz
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	qs := make([]quiz.Question, 0)
	for _, q := range tbl.questions {
		if q.CourseID == courseID {
			qs = append(qs, q)
		}
	}
	return qs, nil
}

func (repo *quizRepository) CreateQuiz(ctx context.Context, qz quiz.Quiz) (quiz.Quiz, error) {
	if err := repo.db.wait(ctx); err != nil {
		return quiz.Quiz{}, err
	}

	tbl := repo.db.quiz
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	for _, existing := range tbl.rows {
		if existing.ID == qz.ID {
			return quiz.Quiz{}, ErrDuplicateID
		}
	}
	qz.QuestionIDs = append([]string{}, qz.QuestionIDs...)
	tbl.rows = append(tbl.rows, qz)
	return qz, nil
}

func (repo *quizRepository) GetQuizByID(ctx context.Context, courseID, id string) (quiz.Quiz, error) {
	if err := repo.db.wait(ctx); err != nil {
		return quiz.Quiz{}, err
	}

	tbl := repo.db.quiz
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	for _, qz := range tbl.rows {
		if qz.CourseID == courseID && qz.ID == id {
			return qz, nil
		}
	}
	return quiz.Quiz{}, quiz.ErrNotFound
}

func (repo *quizRepository) QueryQuizzes(ctx context.Context, courseID string) ([]quiz.Quiz, error) {
	if err := repo.db.wait(ctx); err != nil {
		return nil, err
	}

	tbl := repo.db.quiz
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	quizzes := make([]quiz.Quiz, 0)
	for _, qz := range tbl.rows {
		if qz.CourseID == courseID {
			quizzes = append(quizzes, qz)
		}
	}
	return quizzes, nil
}

func (repo *quizRepository) SaveResult(ctx context.Context, res quiz.Result) (quiz.Result, error) {
	if err := repo.db.wait(ctx); err != nil {
		return quiz.Result{}, err
	}

	tbl := repo.db.quiz
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	for i, r := range tbl.results {
		if r.QuizID == res.QuizID && r.StudentID == res.StudentID {
			tbl.results[i] = res
			return res, nil
		}
	}
	tbl.results = append(tbl.results, res)
	return res, nil
}

func (repo *quizRepository) QueryResults(ctx context.Context, courseID, studentID string) ([]quiz.Result, error) {
	if err := repo.db.wait(ctx); err != nil {
		return nil, err
	}

	tbl := repo.db.quiz
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	inCourse := make(map[string]bool)
	for _, qz := range tbl.rows {
		if qz.CourseID == courseID {
			inCourse[qz.ID] = true
		}
	}
	results := make([]quiz.Result, 0)
	for _, r := range tbl.results {
		if r.StudentID == studentID && inCourse[r.QuizID] {
			results = append(results, r)
		}
	}
	return results, nil
}
