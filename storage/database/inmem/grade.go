package inmemdb

import (
	"context"

	"github.com/trezcool/dynamiclms/core/grade"
)

type gradeRepository struct {
	db *DB
}

func NewGradeRepository(db *DB) grade.Repository {
	return &gradeRepository{db: db}
}

func (repo *gradeRepository) CreateGrade(ctx context.Context, g grade.Grade) (grade.Grade, error) {
	if err := repo.db.wait(ctx); err != nil {
		return grade.Grade{}, err
	}

	tbl := repo.db.grade
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	for _, existing := range tbl.rows {
		if existing.ID == g.ID {
			return grade.Grade{}, ErrDuplicateID
		}
	}
	tbl.rows = append(tbl.rows, g)
	return g, nil
}

func (repo *gradeRepository) QueryGrades(ctx context.Context, courseID, studentID string) ([]grade.Grade, error) {
	if err := repo.db.wait(ctx); err != nil {
		return nil, err
	}

	tbl := repo.db.grade
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	grades := make([]grade.Grade, 0)
	for _, g := range tbl.rows {
		if g.CourseID == courseID && g.StudentID == studentID {
			grades = append(grades, g)
		}
	}
	return grades, nil
}
