package lesson

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/dynamiclms/core"
)

var ErrNotFound = errors.New("lesson not found")

type Lesson struct {
	ID          string        `json:"id"`
	CourseID    string        `json:"course_id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Category    core.Category `json:"category"`
	core.PDFRef
	// Order is the 1-based rank of the lesson within its category.
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

func (l Lesson) GetCategory() core.Category { return l.Category }

// NewLesson contains information needed to create a new Lesson.
type NewLesson struct {
	Title       string        `json:"title" form:"title" validate:"required,notblank,max=200"`
	Description string        `json:"description" form:"description" validate:"max=2000"`
	Category    core.Category `json:"category" form:"category" validate:"required,category"`
	core.PDFRef
}

func (nl *NewLesson) Validate(validate *validator.Validate) error {
	nl.Title = core.CleanString(nl.Title)
	nl.Description = core.CleanString(nl.Description)
	nl.Category = core.Category(core.CleanString(string(nl.Category), true /* lower */))
	nl.PDFRef.Clean()
	return validate.Struct(nl)
}

type (
	Repository interface {
		// CreateLesson stores a lesson, setting its Order to the number of lessons in its category plus one.
		CreateLesson(ctx context.Context, lsn Lesson) (Lesson, error)
		GetLessonByID(ctx context.Context, courseID, id string) (Lesson, error)
		// QueryLessons returns the lessons of a course by category, then order.
		QueryLessons(ctx context.Context, courseID string) ([]Lesson, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, courseID string, nl NewLesson) (Lesson, error) {
	lsn, err := svc.repo.CreateLesson(ctx, Lesson{
		ID:          uuid.NewString(),
		CourseID:    courseID,
		Title:       nl.Title,
		Description: nl.Description,
		Category:    nl.Category,
		PDFRef:      nl.PDFRef,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return Lesson{}, errors.Wrap(err, "creating lesson")
	}
	return lsn, nil
}

func (svc *Service) GetByID(ctx context.Context, courseID, id string) (Lesson, error) {
	return svc.repo.GetLessonByID(ctx, courseID, id)
}

func (svc *Service) Query(ctx context.Context, courseID string) ([]Lesson, error) {
	return svc.repo.QueryLessons(ctx, courseID)
}

// List returns the lessons of a course bucketed by category.
func (svc *Service) List(ctx context.Context, courseID string) (core.Buckets[Lesson], error) {
	lessons, err := svc.repo.QueryLessons(ctx, courseID)
	if err != nil {
		return core.Buckets[Lesson]{}, errors.Wrap(err, "querying lessons")
	}
	return core.Bucket(lessons)
}
