package grade

import (
	"context"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/dynamiclms/core"
)

type Type string

const (
	TypeAssignment Type = "assignment"
	TypeQuiz       Type = "quiz"
	TypeExam       Type = "exam"
)

type Grade struct {
	ID          string        `json:"id"`
	CourseID    string        `json:"course_id"`
	StudentID   string        `json:"student_id"`
	Type        Type          `json:"type"`
	Title       string        `json:"title"`
	Category    core.Category `json:"category"`
	Score       float64       `json:"score"`
	MaxScore    float64       `json:"max_score"`
	Percentage  float64       `json:"percentage"`
	SubmittedAt *time.Time    `json:"submitted_at,omitempty"` // UTC
	GradedAt    *time.Time    `json:"graded_at,omitempty"`    // UTC
}

func (g Grade) GetCategory() core.Category { return g.Category }

// NewGrade contains information needed to record a Grade.
type NewGrade struct {
	StudentID   string        `json:"student_id" validate:"required"`
	Type        Type          `json:"type" validate:"required,oneof=assignment quiz exam"`
	Title       string        `json:"title" validate:"required,notblank,max=200"`
	Category    core.Category `json:"category" validate:"required,category"`
	Score       float64       `json:"score" validate:"gte=0,ltefield=MaxScore"`
	MaxScore    float64       `json:"max_score" validate:"gt=0"`
	SubmittedAt *time.Time    `json:"submitted_at"`
}

func (ng *NewGrade) Validate(validate *validator.Validate) error {
	ng.StudentID = core.CleanString(ng.StudentID)
	ng.Type = Type(core.CleanString(string(ng.Type), true /* lower */))
	ng.Title = core.CleanString(ng.Title)
	ng.Category = core.Category(core.CleanString(string(ng.Category), true /* lower */))
	return validate.Struct(ng)
}

// Percentage is score over maxScore out of 100, rounded to 2 decimals. Zero when maxScore is not positive.
func Percentage(score, maxScore float64) float64 {
	if maxScore <= 0 {
		return 0
	}
	return math.Round(score/maxScore*100*100) / 100
}

// Averages are mean percentages over graded work, nil where nothing was graded.
type Averages struct {
	Prelim  *float64 `json:"prelim"`
	Midterm *float64 `json:"midterm"`
	Finals  *float64 `json:"finals"`
	Overall *float64 `json:"overall"`
}

// Report is the grade book of one student in a course.
type Report struct {
	Grades   core.Buckets[Grade] `json:"grades"`
	Averages Averages            `json:"averages"`
}

// Average is the mean percentage of the grades with a positive score, nil if there are none.
func Average(grades []Grade) *float64 {
	var sum float64
	var n int
	for _, g := range grades {
		if g.Score > 0 {
			sum += g.Percentage
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := math.Round(sum/float64(n)*100) / 100
	return &avg
}

type (
	Repository interface {
		CreateGrade(ctx context.Context, g Grade) (Grade, error)
		// QueryGrades returns the grades of a student in a course in insertion order.
		QueryGrades(ctx context.Context, courseID, studentID string) ([]Grade, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Record(ctx context.Context, courseID string, ng NewGrade) (Grade, error) {
	now := time.Now().UTC()
	g, err := svc.repo.CreateGrade(ctx, Grade{
		ID:          uuid.NewString(),
		CourseID:    courseID,
		StudentID:   ng.StudentID,
		Type:        ng.Type,
		Title:       ng.Title,
		Category:    ng.Category,
		Score:       ng.Score,
		MaxScore:    ng.MaxScore,
		Percentage:  Percentage(ng.Score, ng.MaxScore),
		SubmittedAt: ng.SubmittedAt,
		GradedAt:    &now,
	})
	if err != nil {
		return Grade{}, errors.Wrap(err, "creating grade")
	}
	return g, nil
}

func (svc *Service) Report(ctx context.Context, courseID, studentID string) (Report, error) {
	grades, err := svc.repo.QueryGrades(ctx, courseID, studentID)
	if err != nil {
		return Report{}, errors.Wrap(err, "querying grades")
	}
	buckets, err := core.Bucket(grades)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Grades: buckets,
		Averages: Averages{
			Prelim:  Average(buckets.Prelim),
			Midterm: Average(buckets.Midterm),
			Finals:  Average(buckets.Finals),
			Overall: Average(grades),
		},
	}, nil
}
