package sqlxrepos

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/core/lesson"
)

var lessonCols = []string{"id", "course_id", "title", "description", "category", "pdf_file_name", "pdf_content_type", "position", "created_at"}

func TestLessonRepository_CreateLesson(t *testing.T) {
	created := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	lsn := lesson.Lesson{
		ID: "8", CourseID: "1", Title: "Relations", Description: "Binary relations",
		Category: core.CategoryMidterm, CreatedAt: created,
		PDFRef: core.PDFRef{PDFFileName: "relations.pdf", PDFContentType: "application/pdf"},
	}

	t.Run("positioned after its category", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewLessonRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM courses WHERE id = $1 FOR UPDATE")).
			WithArgs("1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("1"))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM lessons WHERE course_id = $1 AND category = $2")).
			WithArgs("1", "midterm").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO lessons")).
			WithArgs("8", "1", "Relations", "Binary relations", "midterm", "relations.pdf", "application/pdf", 3, created).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		got, err := repo.CreateLesson(context.Background(), lsn)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Order)
		assert.Equal(t, "relations.pdf", got.PDFFileName)
	})

	t.Run("without pdf", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewLessonRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("1"))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM lessons")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO lessons")).
			WithArgs("8", "1", "Relations", "Binary relations", "midterm", nil, nil, 1, created).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		noPDF := lsn
		noPDF.PDFRef = core.PDFRef{}
		got, err := repo.CreateLesson(context.Background(), noPDF)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Order)
		assert.Empty(t, got.PDFFileName)
	})

	t.Run("unknown course", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewLessonRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WithArgs("404").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		orphan := lsn
		orphan.CourseID = "404"
		_, err := repo.CreateLesson(context.Background(), orphan)
		assert.Error(t, err)
	})
}

func TestLessonRepository_QueryLessons(t *testing.T) {
	db, mock := newMock(t)
	repo := NewLessonRepository(db)
	created := time.Date(2024, 1, 20, 8, 0, 0, 0, time.FixedZone("PHT", 8*3600))

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY array_position(ARRAY['prelim', 'midterm', 'finals'], category), position, seq")).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows(lessonCols).
			AddRow("1", "1", "Sets", "", "prelim", "sets.pdf", "application/pdf", 1, created).
			AddRow("3", "1", "Functions", "", "midterm", nil, nil, 1, created))

	lessons, err := repo.QueryLessons(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, core.CategoryPrelim, lessons[0].Category)
	assert.Equal(t, "sets.pdf", lessons[0].PDFFileName)
	assert.Empty(t, lessons[1].PDFFileName)
	assert.Equal(t, time.UTC, lessons[1].CreatedAt.Location())

	mock.ExpectQuery(regexp.QuoteMeta("FROM lessons WHERE course_id = $1")).
		WithArgs("2").
		WillReturnRows(sqlmock.NewRows(lessonCols))
	lessons, err = repo.QueryLessons(context.Background(), "2")
	require.NoError(t, err)
	assert.NotNil(t, lessons)
	assert.Empty(t, lessons)
}

func TestLessonRepository_GetLessonByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewLessonRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM lessons WHERE course_id = $1 AND id = $2")).
		WithArgs("1", "4").
		WillReturnRows(sqlmock.NewRows(lessonCols).
			AddRow("4", "1", "Graphs", "Intro", "finals", nil, nil, 1, time.Now()))
	lsn, err := repo.GetLessonByID(context.Background(), "1", "4")
	require.NoError(t, err)
	assert.Equal(t, "Graphs", lsn.Title)

	mock.ExpectQuery(regexp.QuoteMeta("FROM lessons WHERE course_id = $1 AND id = $2")).
		WithArgs("2", "4").
		WillReturnRows(sqlmock.NewRows(lessonCols))
	_, err = repo.GetLessonByID(context.Background(), "2", "4")
	assert.Equal(t, lesson.ErrNotFound, err)
}
