package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/core/grade"
)

type gradeRow struct {
	ID          string    `db:"id"`
	CourseID    string    `db:"course_id"`
	StudentID   string    `db:"student_id"`
	Type        string    `db:"type"`
	Title       string    `db:"title"`
	Category    string    `db:"category"`
	Score       float64   `db:"score"`
	MaxScore    float64   `db:"max_score"`
	Percentage  float64   `db:"percentage"`
	SubmittedAt null.Time `db:"submitted_at"`
	GradedAt    null.Time `db:"graded_at"`
}

func (r gradeRow) grade() grade.Grade {
	return grade.Grade{
		ID:          r.ID,
		CourseID:    r.CourseID,
		StudentID:   r.StudentID,
		Type:        grade.Type(r.Type),
		Title:       r.Title,
		Category:    core.Category(r.Category),
		Score:       r.Score,
		MaxScore:    r.MaxScore,
		Percentage:  r.Percentage,
		SubmittedAt: utcPtr(r.SubmittedAt),
		GradedAt:    utcPtr(r.GradedAt),
	}
}

const gradeColumns = "id, course_id, student_id, type, title, category, score, max_score, percentage, submitted_at, graded_at"

type gradeRepository struct {
	db *sqlx.DB
}

func NewGradeRepository(db *sqlx.DB) grade.Repository {
	return &gradeRepository{db: db}
}

func (repo *gradeRepository) CreateGrade(ctx context.Context, g grade.Grade) (grade.Grade, error) {
	row := gradeRow{
		ID:          g.ID,
		CourseID:    g.CourseID,
		StudentID:   g.StudentID,
		Type:        string(g.Type),
		Title:       g.Title,
		Category:    string(g.Category),
		Score:       g.Score,
		MaxScore:    g.MaxScore,
		Percentage:  g.Percentage,
		SubmittedAt: null.TimeFromPtr(g.SubmittedAt),
		GradedAt:    null.TimeFromPtr(g.GradedAt),
	}
	q := `INSERT INTO grades (` + gradeColumns + `) VALUES (:id, :course_id, :student_id, :type, :title,
		:category, :score, :max_score, :percentage, :submitted_at, :graded_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return grade.Grade{}, errors.Wrap(err, "inserting grade")
	}
	return row.grade(), nil
}

func (repo *gradeRepository) QueryGrades(ctx context.Context, courseID, studentID string) ([]grade.Grade, error) {
	var rows []gradeRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT `+gradeColumns+` FROM grades WHERE course_id = $1 AND student_id = $2 ORDER BY seq`, courseID, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying grades")
	}
	grades := make([]grade.Grade, 0, len(rows))
	for _, r := range rows {
		grades = append(grades, r.grade())
	}
	return grades, nil
}
