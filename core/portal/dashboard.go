package portal

import (
	"math"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/core/assignment"
	"github.com/trezcool/dynamiclms/core/course"
	"github.com/trezcool/dynamiclms/core/quiz"
)

type CourseSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	ClassroomCode string `json:"classroom_code"`
	StudentsCount int    `json:"students_count"`
	Lessons       int    `json:"lessons"`
	Assignments   int    `json:"assignments"`
	Quizzes       int    `json:"quizzes"`
}

func NewCourseSummary(c course.Course, lessons, assignments, quizzes int) CourseSummary {
	return CourseSummary{
		ID:            c.ID,
		Name:          c.Name,
		Code:          c.Code,
		ClassroomCode: c.ClassroomCode,
		StudentsCount: c.StudentsCount,
		Lessons:       lessons,
		Assignments:   assignments,
		Quizzes:       quizzes,
	}
}

// Dashboard is the professor landing page.
type Dashboard struct {
	ProfessorID      string          `json:"professor_id"`
	ProfessorName    string          `json:"professor_name"`
	TotalCourses     int             `json:"total_courses"`
	TotalStudents    int             `json:"total_students"`
	TotalLessons     int             `json:"total_lessons"`
	TotalAssignments int             `json:"total_assignments"`
	TotalQuizzes     int             `json:"total_quizzes"`
	Courses          []CourseSummary `json:"courses"`
}

// NewDashboard sums up the course summaries. Students are counted from the stored students_count.
func NewDashboard(professorID, professorName string, summaries []CourseSummary) Dashboard {
	d := Dashboard{
		ProfessorID:   professorID,
		ProfessorName: professorName,
		TotalCourses:  len(summaries),
		Courses:       summaries,
	}
	if d.Courses == nil {
		d.Courses = []CourseSummary{}
	}
	for _, s := range summaries {
		d.TotalStudents += s.StudentsCount
		d.TotalLessons += s.Lessons
		d.TotalAssignments += s.Assignments
		d.TotalQuizzes += s.Quizzes
	}
	return d
}

// CourseProgress is an enrolled course on the student landing page.
type CourseProgress struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Code       string `json:"code"`
	Done       int    `json:"done"`
	Total      int    `json:"total"`
	Progress   int    `json:"progress"` // percent
	HasNewQuiz bool   `json:"has_new_quiz"`
}

// NewCourseProgress counts submitted assignments & taken quizzes against the course total.
// A course without assignments or quizzes is at 0%.
func NewCourseProgress(c course.Course, asgmts core.Buckets[assignment.StudentAssignment], quizzes core.Buckets[quiz.StudentQuiz]) CourseProgress {
	cp := CourseProgress{
		ID:    c.ID,
		Name:  c.Name,
		Code:  c.Code,
		Total: asgmts.Total + quizzes.Total,
	}
	for _, cat := range core.Categories {
		for _, a := range asgmts.Of(cat) {
			if a.Submitted {
				cp.Done++
			}
		}
		for _, qz := range quizzes.Of(cat) {
			if qz.Taken {
				cp.Done++
			} else {
				cp.HasNewQuiz = true
			}
		}
	}
	if cp.Total > 0 {
		cp.Progress = int(math.Round(float64(cp.Done) * 100 / float64(cp.Total)))
	}
	return cp
}

// StudentDashboard is the student landing page.
type StudentDashboard struct {
	StudentID   string           `json:"student_id"`
	StudentName string           `json:"student_name"`
	Courses     []CourseProgress `json:"courses"`
}

func NewStudentDashboard(studentID, studentName string, courses []CourseProgress) StudentDashboard {
	if courses == nil {
		courses = []CourseProgress{}
	}
	return StudentDashboard{StudentID: studentID, StudentName: studentName, Courses: courses}
}
