// Package fixtures holds the demo data of the LMS and loads it through the repositories.
package fixtures

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/core/assignment"
	"github.com/trezcool/dynamiclms/core/course"
	"github.com/trezcool/dynamiclms/core/grade"
	"github.com/trezcool/dynamiclms/core/lesson"
	"github.com/trezcool/dynamiclms/core/quiz"
	"github.com/trezcool/dynamiclms/core/user"
)

const (
	ProfessorID = "prof-1"
	StudentID   = "student-1"
)

// Repositories the fixtures are loaded through.
type Repositories struct {
	Users       user.Repository
	Courses     course.Repository
	Lessons     lesson.Repository
	Assignments assignment.Repository
	Quizzes     quiz.Repository
	Grades      grade.Repository
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func tsPtr(s string) *time.Time {
	t := ts(s)
	return &t
}

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }

func Users() []user.User {
	created := ts("2024-01-01T00:00:00Z")
	usrs := []user.User{
		{ID: ProfessorID, Name: "Dr. Jane Smith", Email: "jane.smith@university.edu", Role: user.RoleProfessor, CreatedAt: created},
	}
	for _, s := range students() {
		usrs = append(usrs, user.User{
			ID:        s.ID,
			Name:      s.Name,
			Email:     s.Email,
			Role:      user.RoleStudent,
			StudentID: s.StudentID,
			CreatedAt: created,
		})
	}
	return usrs
}

func students() []course.Student {
	return []course.Student{
		{ID: "student-1", Name: "John Doe", Email: "john.doe@student.edu", StudentID: "STU2024001"},
		{ID: "student-2", Name: "Alice Johnson", Email: "alice.johnson@student.edu", StudentID: "STU2024002"},
		{ID: "student-3", Name: "Bob Williams", Email: "bob.williams@student.edu", StudentID: "STU2024003"},
		{ID: "student-4", Name: "Charlie Brown", Email: "charlie.brown@student.edu", StudentID: "STU2024004"},
		{ID: "student-5", Name: "Diana Prince", Email: "diana.prince@student.edu", StudentID: "STU2024005"},
		{ID: "student-6", Name: "Emma Watson", Email: "emma.watson@student.edu", StudentID: "STU2024006"},
		{ID: "student-7", Name: "Frank Miller", Email: "frank.miller@student.edu", StudentID: "STU2024007"},
		{ID: "student-8", Name: "Grace Lee", Email: "grace.lee@student.edu", StudentID: "STU2024008"},
		{ID: "student-9", Name: "Henry Ford", Email: "henry.ford@student.edu", StudentID: "STU2024009"},
		{ID: "student-10", Name: "Ivy Chen", Email: "ivy.chen@student.edu", StudentID: "STU2024010"},
		{ID: "student-11", Name: "Jack Taylor", Email: "jack.taylor@student.edu", StudentID: "STU2024011"},
	}
}

func enrolled(id, at string) course.Student {
	for _, s := range students() {
		if s.ID == id {
			s.EnrolledAt = ts(at)
			return s
		}
	}
	panic("fixtures: unknown student " + id)
}

// Courses are stored with their denormalized students_count, which does not match the roster size.
func Courses() []course.Course {
	return []course.Course{
		{
			ID: "1", Name: "Discrete Structures", Code: "CS101", ClassroomCode: "DS2024",
			ProfessorID: ProfessorID, ProfessorName: "Dr. Jane Smith",
			CreatedAt: ts("2024-01-15T10:00:00Z"), StudentsCount: 45,
			Students: []course.Student{
				enrolled("student-1", "2024-01-20T09:00:00Z"),
				enrolled("student-2", "2024-01-20T09:30:00Z"),
				enrolled("student-3", "2024-01-21T10:15:00Z"),
				enrolled("student-4", "2024-01-21T11:00:00Z"),
				enrolled("student-5", "2024-01-22T08:45:00Z"),
			},
		},
		{
			ID: "2", Name: "Data Structures and Algorithms", Code: "CS201", ClassroomCode: "DSA2024",
			ProfessorID: ProfessorID, ProfessorName: "Dr. Jane Smith",
			CreatedAt: ts("2024-01-10T10:00:00Z"), StudentsCount: 32,
			Students: []course.Student{
				enrolled("student-1", "2024-01-15T09:00:00Z"),
				enrolled("student-6", "2024-01-15T10:00:00Z"),
				enrolled("student-7", "2024-01-16T09:30:00Z"),
				enrolled("student-8", "2024-01-16T11:15:00Z"),
			},
		},
		{
			ID: "3", Name: "Web Development", Code: "CS301", ClassroomCode: "WEB2024",
			ProfessorID: ProfessorID, ProfessorName: "Dr. Jane Smith",
			CreatedAt: ts("2024-01-05T10:00:00Z"), StudentsCount: 28,
			Students: []course.Student{
				enrolled("student-2", "2024-01-08T09:00:00Z"),
				enrolled("student-9", "2024-01-08T10:30:00Z"),
				enrolled("student-10", "2024-01-09T08:45:00Z"),
				enrolled("student-11", "2024-01-09T14:20:00Z"),
			},
		},
	}
}

func Lessons() []lesson.Lesson {
	return []lesson.Lesson{
		{
			ID: "1", CourseID: "1", Title: "Introduction to Discrete Structures",
			Description: "Overview of discrete mathematics, sets, and basic operations",
			Category:    core.CategoryPrelim, PDFRef: pdf("Introduction.pdf"), Order: 1,
			CreatedAt: ts("2024-01-15T10:00:00Z"),
		},
		{
			ID: "2", CourseID: "1", Title: "Propositional Logic",
			Description: "Understanding logical statements, truth tables, and logical operators",
			Category:    core.CategoryPrelim, PDFRef: pdf("Propositional_Logic.pdf"), Order: 2,
			CreatedAt: ts("2024-01-20T10:00:00Z"),
		},
		{
			ID: "3", CourseID: "1", Title: "Set Theory Basics",
			Description: "Introduction to sets, subsets, unions, intersections, and complements",
			Category:    core.CategoryMidterm, PDFRef: pdf("Set_Theory.pdf"), Order: 1,
			CreatedAt: ts("2024-01-25T10:00:00Z"),
		},
		{
			ID: "4", CourseID: "1", Title: "Relations and Functions",
			Description: "Understanding binary relations, equivalence relations, and functions",
			Category:    core.CategoryFinals, PDFRef: pdf("Relations_Functions.pdf"), Order: 1,
			CreatedAt: ts("2024-02-01T10:00:00Z"),
		},
	}
}

func pdf(name string) core.PDFRef {
	return core.PDFRef{PDFFileName: name, PDFContentType: core.MIMETypePDF}
}

func Questions() []quiz.Question {
	created := ts("2024-01-20T10:00:00Z")
	return []quiz.Question{
		{
			ID: "q1", CourseID: "1", Type: quiz.TypeMultipleChoice,
			Prompt:        "What is a set in discrete mathematics?",
			Options:       []string{"A collection of distinct objects", "A mathematical function", "A type of relation", "A graph structure"},
			CorrectOption: intPtr(0), Source: "1", SourceKind: quiz.SourceLesson, CreatedAt: created,
		},
		{
			ID: "q2", CourseID: "1", Type: quiz.TypeMultipleChoice,
			Prompt:        "Which operator is used for logical AND?",
			Options:       []string{"&&", "||", "!", "^"},
			CorrectOption: intPtr(0), Source: "2", SourceKind: quiz.SourceLesson, CreatedAt: created,
		},
		{
			ID: "q3", CourseID: "1", Type: quiz.TypeTrueFalse,
			Prompt:      "A set can contain duplicate elements.",
			CorrectBool: boolPtr(false), Source: "1", SourceKind: quiz.SourceLesson, CreatedAt: created,
		},
		{
			ID: "q4", CourseID: "1", Type: quiz.TypeTrueFalse,
			Prompt:      "Propositional logic deals with statements that can be true or false.",
			CorrectBool: boolPtr(true), Source: "2", SourceKind: quiz.SourceLesson, CreatedAt: created,
		},
		{
			ID: "q5", CourseID: "1", Type: quiz.TypeFillBlank,
			Prompt:      "The union of sets A and B is denoted as ______.",
			CorrectText: "A ∪ B", Source: "3", SourceKind: quiz.SourceLesson, CreatedAt: created,
		},
		{
			ID: "q6", CourseID: "1", Type: quiz.TypeFillBlank,
			Prompt:      "A function that maps every element to itself is called an ______ function.",
			CorrectText: "identity", Source: "4", SourceKind: quiz.SourceLesson, CreatedAt: created,
		},
	}
}

func Assignments() []assignment.Assignment {
	return []assignment.Assignment{
		{
			ID: "1", CourseID: "1", Title: "Set Theory Exercise",
			Description: "Complete exercises on sets, subsets, and operations",
			Category:    core.CategoryPrelim, PDFRef: pdf("Set_Theory_Exercise.pdf"),
			CreatedAt: ts("2024-01-20T10:00:00Z"), DueDate: tsPtr("2024-02-05T23:59:00Z"),
		},
		{
			ID: "2", CourseID: "1", Title: "Logic Problems",
			Description: "Solve propositional logic problems",
			Category:    core.CategoryPrelim, PDFRef: pdf("Logic_Problems.pdf"),
			CreatedAt: ts("2024-01-25T10:00:00Z"), DueDate: tsPtr("2024-02-10T23:59:00Z"),
		},
		{
			ID: "3", CourseID: "1", Title: "Function Analysis",
			Description: "Analyze different types of functions and relations",
			Category:    core.CategoryMidterm, PDFRef: pdf("Function_Analysis.pdf"),
			CreatedAt: ts("2024-02-01T10:00:00Z"), DueDate: tsPtr("2024-02-20T23:59:00Z"),
		},
	}
}

func Submissions() []assignment.Submission {
	return []assignment.Submission{
		{AssignmentID: "1", StudentID: StudentID, SubmittedAt: ts("2024-02-03T14:30:00Z")},
	}
}

func Quizzes() []quiz.Quiz {
	return []quiz.Quiz{
		{
			ID: "1", CourseID: "1", Name: "Prelim Quiz 1: Sets and Logic",
			Description: "Test your knowledge on sets and propositional logic",
			Type:        quiz.TypeMixed, Category: core.CategoryPrelim,
			QuestionIDs: []string{"q1", "q2", "q3", "q4"},
			CreatedAt:   ts("2024-01-20T10:00:00Z"), DueDate: tsPtr("2024-02-05T23:59:00Z"), TimeLimit: 30,
		},
		{
			ID: "2", CourseID: "1", Name: "Prelim Quiz 2: Logical Operations",
			Description: "Quiz on logical operators and truth tables",
			Type:        quiz.TypeMixed, Category: core.CategoryPrelim,
			QuestionIDs: []string{"q2", "q4"},
			CreatedAt:   ts("2024-01-25T10:00:00Z"), DueDate: tsPtr("2024-02-10T23:59:00Z"), TimeLimit: 25,
		},
		{
			ID: "3", CourseID: "1", Name: "Midterm Quiz: Functions and Relations",
			Description: "Comprehensive quiz on functions and relations",
			Type:        quiz.TypeFillBlank, Category: core.CategoryMidterm,
			QuestionIDs: []string{"q5", "q6"},
			CreatedAt:   ts("2024-02-01T10:00:00Z"), DueDate: tsPtr("2024-02-20T23:59:00Z"), TimeLimit: 45,
		},
	}
}

func Results() []quiz.Result {
	return []quiz.Result{
		{QuizID: "1", StudentID: StudentID, Score: 85, MaxScore: 100, TakenAt: ts("2024-02-01T15:00:00Z")},
	}
}

func Grades() []grade.Grade {
	return []grade.Grade{
		{
			ID: "1", CourseID: "1", StudentID: StudentID, Type: grade.TypeAssignment,
			Title: "Set Theory Exercise", Category: core.CategoryPrelim,
			Score: 18, MaxScore: 20, Percentage: 90,
			SubmittedAt: tsPtr("2024-02-03T14:30:00Z"), GradedAt: tsPtr("2024-02-04T10:00:00Z"),
		},
		{
			ID: "2", CourseID: "1", StudentID: StudentID, Type: grade.TypeQuiz,
			Title: "Prelim Quiz 1: Sets and Logic", Category: core.CategoryPrelim,
			Score: 85, MaxScore: 100, Percentage: 85,
			SubmittedAt: tsPtr("2024-02-01T15:00:00Z"), GradedAt: tsPtr("2024-02-01T15:30:00Z"),
		},
		{
			ID: "3", CourseID: "1", StudentID: StudentID, Type: grade.TypeAssignment,
			Title: "Logic Problems", Category: core.CategoryPrelim,
			Score: 0, MaxScore: 25, Percentage: 0,
		},
	}
}

// Load stores all fixtures through the repositories, in dependency order.
func Load(ctx context.Context, repos Repositories) error {
	for _, usr := range Users() {
		if _, err := repos.Users.CreateUser(ctx, usr); err != nil {
			return errors.Wrapf(err, "loading user %s", usr.ID)
		}
	}
	for _, crs := range Courses() {
		if _, err := repos.Courses.CreateCourse(ctx, crs); err != nil {
			return errors.Wrapf(err, "loading course %s", crs.ID)
		}
	}
	for _, lsn := range Lessons() {
		if _, err := repos.Lessons.CreateLesson(ctx, lsn); err != nil {
			return errors.Wrapf(err, "loading lesson %s", lsn.ID)
		}
	}
	for _, a := range Assignments() {
		if _, err := repos.Assignments.CreateAssignment(ctx, a); err != nil {
			return errors.Wrapf(err, "loading assignment %s", a.ID)
		}
	}
	for _, sub := range Submissions() {
		if _, err := repos.Assignments.CreateSubmission(ctx, sub); err != nil {
			return errors.Wrapf(err, "loading submission of %s", sub.AssignmentID)
		}
	}
	for _, q := range Questions() {
		if _, err := repos.Quizzes.CreateQuestion(ctx, q); err != nil {
			return errors.Wrapf(err, "loading question %s", q.ID)
		}
	}
	for _, qz := range Quizzes() {
		if _, err := repos.Quizzes.CreateQuiz(ctx, qz); err != nil {
			return errors.Wrapf(err, "loading quiz %s", qz.ID)
		}
	}
	for _, res := range Results() {
		if _, err := repos.Quizzes.SaveResult(ctx, res); err != nil {
			return errors.Wrapf(err, "loading result of quiz %s", res.QuizID)
		}
	}
	for _, g := range Grades() {
		if _, err := repos.Grades.CreateGrade(ctx, g); err != nil {
			return errors.Wrapf(err, "loading grade %s", g.ID)
		}
	}
	return nil
}
