package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/core/assignment"
)

type assignmentRow struct {
	ID             string      `db:"id"`
	CourseID       string      `db:"course_id"`
	Title          string      `db:"title"`
	Description    string      `db:"description"`
	Category       string      `db:"category"`
	PDFFileName    null.String `db:"pdf_file_name"`
	PDFContentType null.String `db:"pdf_content_type"`
	CreatedAt      time.Time   `db:"created_at"`
	DueDate        null.Time   `db:"due_date"`
}

func (r assignmentRow) assignment() assignment.Assignment {
	return assignment.Assignment{
		ID:          r.ID,
		CourseID:    r.CourseID,
		Title:       r.Title,
		Description: r.Description,
		Category:    core.Category(r.Category),
		PDFRef: core.PDFRef{
			PDFFileName:    r.PDFFileName.String,
			PDFContentType: r.PDFContentType.String,
		},
		CreatedAt: r.CreatedAt.UTC(),
		DueDate:   utcPtr(r.DueDate),
	}
}

type submissionRow struct {
	AssignmentID string    `db:"assignment_id"`
	StudentID    string    `db:"student_id"`
	SubmittedAt  time.Time `db:"submitted_at"`
}

const assignmentColumns = "id, course_id, title, description, category, pdf_file_name, pdf_content_type, created_at, due_date"

type assignmentRepository struct {
	db *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, asgmt assignment.Assignment) (assignment.Assignment, error) {
	row := assignmentRow{
		ID:             asgmt.ID,
		CourseID:       asgmt.CourseID,
		Title:          asgmt.Title,
		Description:    asgmt.Description,
		Category:       string(asgmt.Category),
		PDFFileName:    nullString(asgmt.PDFFileName),
		PDFContentType: nullString(asgmt.PDFContentType),
		CreatedAt:      asgmt.CreatedAt,
		DueDate:        null.TimeFromPtr(asgmt.DueDate),
	}
	q := `INSERT INTO assignments (` + assignmentColumns + `) VALUES
		(:id, :course_id, :title, :description, :category, :pdf_file_name, :pdf_content_type, :created_at, :due_date)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return row.assignment(), nil
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, courseID, id string) (assignment.Assignment, error) {
	var row assignmentRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT `+assignmentColumns+` FROM assignments WHERE course_id = $1 AND id = $2`, courseID, id)
	if err != nil {
		return assignment.Assignment{}, notFound(err, assignment.ErrNotFound)
	}
	return row.assignment(), nil
}

func (repo *assignmentRepository) QueryAssignments(ctx context.Context, courseID string) ([]assignment.Assignment, error) {
	var rows []assignmentRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT `+assignmentColumns+` FROM assignments WHERE course_id = $1 ORDER BY seq`, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	asgmts := make([]assignment.Assignment, 0, len(rows))
	for _, r := range rows {
		asgmts = append(asgmts, r.assignment())
	}
	return asgmts, nil
}

func (repo *assignmentRepository) CreateSubmission(ctx context.Context, sub assignment.Submission) (assignment.Submission, error) {
	row := submissionRow(sub)
	q := `INSERT INTO submissions (assignment_id, student_id, submitted_at)
		VALUES (:assignment_id, :student_id, :submitted_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		if isUniqueViolation(err, "submissions_pkey") {
			return assignment.Submission{}, assignment.ErrAlreadySubmitted
		}
		return assignment.Submission{}, errors.Wrap(err, "inserting submission")
	}
	return sub, nil
}

func (repo *assignmentRepository) QuerySubmissions(ctx context.Context, courseID, studentID string) ([]assignment.Submission, error) {
	var rows []submissionRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT s.assignment_id, s.student_id, s.submitted_at
		FROM submissions s JOIN assignments a ON a.id = s.assignment_id
		WHERE a.course_id = $1 AND s.student_id = $2 ORDER BY s.submitted_at`, courseID, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	subs := make([]assignment.Submission, 0, len(rows))
	for _, r := range rows {
		sub := assignment.Submission(r)
		sub.SubmittedAt = sub.SubmittedAt.UTC()
		subs = append(subs, sub)
	}
	return subs, nil
}
