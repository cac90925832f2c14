package sqlxrepos

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/core/assignment"
)

var assignmentCols = []string{"id", "course_id", "title", "description", "category", "pdf_file_name", "pdf_content_type", "created_at", "due_date"}

func TestAssignmentRepository_CreateAssignment(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAssignmentRepository(db)
	created := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	due := time.Date(2024, 2, 10, 23, 59, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assignments")).
		WithArgs("4", "1", "Proofs", "", "finals", nil, nil, created, due).
		WillReturnResult(sqlmock.NewResult(0, 1))
	got, err := repo.CreateAssignment(context.Background(), assignment.Assignment{
		ID: "4", CourseID: "1", Title: "Proofs", Category: core.CategoryFinals, CreatedAt: created, DueDate: &due,
	})
	require.NoError(t, err)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, due, *got.DueDate)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assignments")).
		WithArgs("5", "1", "Sets", "", "prelim", nil, nil, created, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	got, err = repo.CreateAssignment(context.Background(), assignment.Assignment{
		ID: "5", CourseID: "1", Title: "Sets", Category: core.CategoryPrelim, CreatedAt: created,
	})
	require.NoError(t, err)
	assert.Nil(t, got.DueDate)
}

func TestAssignmentRepository_query(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAssignmentRepository(db)
	ctx := context.Background()
	created := time.Date(2024, 1, 25, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM assignments WHERE course_id = $1 ORDER BY seq")).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows(assignmentCols).
			AddRow("1", "1", "Set Theory Exercise", "", "prelim", "sets.pdf", "application/pdf", created, created.Add(72*time.Hour)).
			AddRow("2", "1", "Logic Problems", "", "prelim", nil, nil, created, nil))
	asgmts, err := repo.QueryAssignments(ctx, "1")
	require.NoError(t, err)
	require.Len(t, asgmts, 2)
	assert.Equal(t, "sets.pdf", asgmts[0].PDFFileName)
	require.NotNil(t, asgmts[0].DueDate)
	assert.Nil(t, asgmts[1].DueDate)

	mock.ExpectQuery(regexp.QuoteMeta("FROM assignments WHERE course_id = $1 AND id = $2")).
		WithArgs("2", "1").
		WillReturnRows(sqlmock.NewRows(assignmentCols))
	_, err = repo.GetAssignmentByID(ctx, "2", "1")
	assert.Equal(t, assignment.ErrNotFound, err)
}

func TestAssignmentRepository_submissions(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAssignmentRepository(db)
	ctx := context.Background()
	submitted := time.Date(2024, 2, 3, 14, 30, 0, 0, time.UTC)
	sub := assignment.Submission{AssignmentID: "1", StudentID: "student-1", SubmittedAt: submitted}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO submissions")).
		WithArgs("1", "student-1", submitted).
		WillReturnResult(sqlmock.NewResult(0, 1))
	got, err := repo.CreateSubmission(ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, sub, got)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO submissions")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "submissions_pkey"})
	_, err = repo.CreateSubmission(ctx, sub)
	assert.Equal(t, assignment.ErrAlreadySubmitted, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO submissions")).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "submissions_assignment_id_fkey"})
	_, err = repo.CreateSubmission(ctx, sub)
	assert.Error(t, err)
	assert.NotEqual(t, assignment.ErrAlreadySubmitted, errors.Cause(err))

	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.course_id = $1 AND s.student_id = $2")).
		WithArgs("1", "student-1").
		WillReturnRows(sqlmock.NewRows([]string{"assignment_id", "student_id", "submitted_at"}).
			AddRow("1", "student-1", submitted.In(time.FixedZone("PHT", 8*3600))))
	subs, err := repo.QuerySubmissions(ctx, "1", "student-1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, time.UTC, subs[0].SubmittedAt.Location())
	assert.True(t, submitted.Equal(subs[0].SubmittedAt))
}
