package course

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/dynamiclms/core"
)

// Student is a roster entry of a Course.
type Student struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	StudentID  string    `json:"student_id,omitempty"`
	EnrolledAt time.Time `json:"enrolled_at"` // UTC
}

type Course struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Code          string    `json:"code"`
	ClassroomCode string    `json:"classroom_code"`
	ProfessorID   string    `json:"professor_id"`
	ProfessorName string    `json:"professor_name"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	StudentsCount int       `json:"students_count"`
	Students      []Student `json:"students"`

	// StudentsCountDrift is set on read when StudentsCount disagrees with the roster.
	StudentsCountDrift bool `json:"students_count_drift,omitempty"`
}

func (c Course) HasStudent(studentID string) bool {
	for _, s := range c.Students {
		if s.ID == studentID {
			return true
		}
	}
	return false
}

func (c Course) hasDrift() bool {
	return c.StudentsCount != len(c.Students)
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Name string `json:"name" validate:"required,notblank,max=200"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	return validate.Struct(nc)
}

type JoinCourse struct {
	ClassroomCode string `json:"classroom_code" validate:"required,max=20"`
}

func (jc *JoinCourse) Validate(validate *validator.Validate) error {
	jc.ClassroomCode = strings.ToUpper(core.CleanString(jc.ClassroomCode))
	return validate.Struct(jc)
}

type RosterFilter struct {
	Search string `query:"search"`
}

func (rf *RosterFilter) Clean() {
	rf.Search = core.CleanString(rf.Search)
}
