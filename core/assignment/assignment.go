package assignment

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/dynamiclms/core"
)

var (
	// errors
	ErrNotFound         = errors.New("assignment not found")
	ErrAlreadySubmitted = errors.New("assignment already submitted")
)

type Assignment struct {
	ID          string        `json:"id"`
	CourseID    string        `json:"course_id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Category    core.Category `json:"category"`
	core.PDFRef
	CreatedAt time.Time  `json:"created_at"`         // UTC
	DueDate   *time.Time `json:"due_date,omitempty"` // UTC
}

func (a Assignment) GetCategory() core.Category { return a.Category }

type Submission struct {
	AssignmentID string    `json:"assignment_id"`
	StudentID    string    `json:"student_id"`
	SubmittedAt  time.Time `json:"submitted_at"` // UTC
}

// StudentAssignment is an Assignment as seen by one student.
type StudentAssignment struct {
	Assignment
	Submitted   bool       `json:"submitted"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	Title       string        `json:"title" form:"title" validate:"required,notblank,max=200"`
	Description string        `json:"description" form:"description" validate:"max=2000"`
	Category    core.Category `json:"category" form:"category" validate:"required,category"`
	DueDate     *time.Time    `json:"due_date" form:"due_date"`
	core.PDFRef
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.Category = core.Category(core.CleanString(string(na.Category), true /* lower */))
	na.PDFRef.Clean()
	if na.DueDate != nil {
		due := na.DueDate.UTC()
		na.DueDate = &due
	}
	return validate.Struct(na)
}

type (
	Repository interface {
		CreateAssignment(ctx context.Context, asgmt Assignment) (Assignment, error)
		GetAssignmentByID(ctx context.Context, courseID, id string) (Assignment, error)
		// QueryAssignments returns the assignments of a course in insertion order.
		QueryAssignments(ctx context.Context, courseID string) ([]Assignment, error)
		// CreateSubmission fails with ErrAlreadySubmitted when the student already submitted.
		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		QuerySubmissions(ctx context.Context, courseID, studentID string) ([]Submission, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, courseID string, na NewAssignment) (Assignment, error) {
	asgmt, err := svc.repo.CreateAssignment(ctx, Assignment{
		ID:          uuid.NewString(),
		CourseID:    courseID,
		Title:       na.Title,
		Description: na.Description,
		Category:    na.Category,
		PDFRef:      na.PDFRef,
		CreatedAt:   time.Now().UTC(),
		DueDate:     na.DueDate,
	})
	if err != nil {
		return Assignment{}, errors.Wrap(err, "creating assignment")
	}
	return asgmt, nil
}

func (svc *Service) Query(ctx context.Context, courseID string) ([]Assignment, error) {
	return svc.repo.QueryAssignments(ctx, courseID)
}

// List returns the assignments of a course bucketed by category.
func (svc *Service) List(ctx context.Context, courseID string) (core.Buckets[Assignment], error) {
	asgmts, err := svc.repo.QueryAssignments(ctx, courseID)
	if err != nil {
		return core.Buckets[Assignment]{}, errors.Wrap(err, "querying assignments")
	}
	return core.Bucket(asgmts)
}

// ListForStudent returns the assignments of a course bucketed by category, with the student's submission state.
func (svc *Service) ListForStudent(ctx context.Context, courseID, studentID string) (core.Buckets[StudentAssignment], error) {
	asgmts, err := svc.repo.QueryAssignments(ctx, courseID)
	if err != nil {
		return core.Buckets[StudentAssignment]{}, errors.Wrap(err, "querying assignments")
	}
	subs, err := svc.repo.QuerySubmissions(ctx, courseID, studentID)
	if err != nil {
		return core.Buckets[StudentAssignment]{}, errors.Wrap(err, "querying submissions")
	}

	submitted := make(map[string]time.Time, len(subs))
	for _, sub := range subs {
		submitted[sub.AssignmentID] = sub.SubmittedAt
	}

	views := make([]StudentAssignment, 0, len(asgmts))
	for _, a := range asgmts {
		view := StudentAssignment{Assignment: a}
		if at, ok := submitted[a.ID]; ok {
			view.Submitted = true
			view.SubmittedAt = &at
		}
		views = append(views, view)
	}
	return core.Bucket(views)
}

// Submit records the student's submission of an assignment. A second submission is rejected.
func (svc *Service) Submit(ctx context.Context, courseID, assignmentID, studentID string) (Submission, error) {
	if _, err := svc.repo.GetAssignmentByID(ctx, courseID, assignmentID); err != nil {
		return Submission{}, err
	}

	sub, err := svc.repo.CreateSubmission(ctx, Submission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		SubmittedAt:  time.Now().UTC(),
	})
	if err != nil {
		if errors.Cause(err) == ErrAlreadySubmitted {
			return Submission{}, core.NewValidationError(err)
		}
		return Submission{}, errors.Wrap(err, "creating submission")
	}
	return sub, nil
}
