package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/core/lesson"
)

type lessonRow struct {
	ID             string      `db:"id"`
	CourseID       string      `db:"course_id"`
	Title          string      `db:"title"`
	Description    string      `db:"description"`
	Category       string      `db:"category"`
	PDFFileName    null.String `db:"pdf_file_name"`
	PDFContentType null.String `db:"pdf_content_type"`
	Position       int         `db:"position"`
	CreatedAt      time.Time   `db:"created_at"`
}

func (r lessonRow) lesson() lesson.Lesson {
	return lesson.Lesson{
		ID:          r.ID,
		CourseID:    r.CourseID,
		Title:       r.Title,
		Description: r.Description,
		Category:    core.Category(r.Category),
		PDFRef: core.PDFRef{
			PDFFileName:    r.PDFFileName.String,
			PDFContentType: r.PDFContentType.String,
		},
		Order:     r.Position,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

const lessonColumns = "id, course_id, title, description, category, pdf_file_name, pdf_content_type, position, created_at"

type lessonRepository struct {
	db *sqlx.DB
}

func NewLessonRepository(db *sqlx.DB) lesson.Repository {
	return &lessonRepository{db: db}
}

func (repo *lessonRepository) CreateLesson(ctx context.Context, lsn lesson.Lesson) (lesson.Lesson, error) {
	row := lessonRow{
		ID:             lsn.ID,
		CourseID:       lsn.CourseID,
		Title:          lsn.Title,
		Description:    lsn.Description,
		Category:       string(lsn.Category),
		PDFFileName:    nullString(lsn.PDFFileName),
		PDFContentType: nullString(lsn.PDFContentType),
		CreatedAt:      lsn.CreatedAt,
	}
	err := withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		// serializes concurrent creates of the same course
		var id string
		if err := tx.GetContext(ctx, &id, `SELECT id FROM courses WHERE id = $1 FOR UPDATE`, lsn.CourseID); err != nil {
			return errors.Wrap(err, "locking course")
		}

		var count int
		err := tx.GetContext(ctx, &count,
			`SELECT COUNT(*) FROM lessons WHERE course_id = $1 AND category = $2`, row.CourseID, row.Category)
		if err != nil {
			return errors.Wrap(err, "counting lessons")
		}
		row.Position = count + 1

		q := `INSERT INTO lessons (` + lessonColumns + `) VALUES
			(:id, :course_id, :title, :description, :category, :pdf_file_name, :pdf_content_type, :position, :created_at)`
		_, err = tx.NamedExecContext(ctx, q, row)
		return errors.Wrap(err, "inserting lesson")
	})
	if err != nil {
		return lesson.Lesson{}, err
	}
	return row.lesson(), nil
}

func (repo *lessonRepository) GetLessonByID(ctx context.Context, courseID, id string) (lesson.Lesson, error) {
	var row lessonRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT `+lessonColumns+` FROM lessons WHERE course_id = $1 AND id = $2`, courseID, id)
	if err != nil {
		return lesson.Lesson{}, notFound(err, lesson.ErrNotFound)
	}
	return row.lesson(), nil
}

func (repo *lessonRepository) QueryLessons(ctx context.Context, courseID string) ([]lesson.Lesson, error) {
	var rows []lessonRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT `+lessonColumns+` FROM lessons WHERE course_id = $1
		ORDER BY array_position(ARRAY['prelim', 'midterm', 'finals'], category), position, seq`, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "querying lessons")
	}
	lessons := make([]lesson.Lesson, 0, len(rows))
	for _, r := range rows {
		lessons = append(lessons, r.lesson())
	}
	return lessons, nil
}
