// Package portal holds the role-aware navigation & dashboard models of the professor and student portals.
package portal

import (
	"fmt"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/core/course"
	"github.com/trezcool/dynamiclms/core/user"
)

// Top-level pages
const (
	PageDashboard = "dashboard"
	PageProfile   = "profile"
	PageCourses   = "courses"
)

// Course pages
const (
	PageClasslist   = "classlist"
	PageContent     = "content"
	PageAssignments = "assignments"
	PageQuizzes     = "quizzes"
	PageGrades      = "grades"
)

type page struct {
	key, label string
}

var (
	topPages = []page{
		{PageDashboard, "Dashboard"},
		{PageProfile, "Profile"},
		{PageCourses, "Courses"},
	}

	professorCoursePages = []page{
		{PageClasslist, "Classlist"},
		{PageContent, "Content"},
		{PageAssignments, "Assignments"},
		{PageQuizzes, "Quizzes"},
	}

	studentCoursePages = []page{
		{PageAssignments, "Assignments"},
		{PageQuizzes, "Quizzes"},
		{PageGrades, "Grades"},
		{PageContent, "Content"},
	}
)

type Link struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
}

// CourseEntry is a course of the navbar dropdown.
type CourseEntry struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	StudentsCount *int   `json:"students_count,omitempty"`
	Href          string `json:"href"`
}

type Nav struct {
	Role         user.Role     `json:"role"`
	Home         string        `json:"home"`
	Links        []Link        `json:"links"`
	CoursesLabel string        `json:"courses_label"`
	Courses      []CourseEntry `json:"courses"`
}

type CourseNav struct {
	Role     user.Role `json:"role"`
	CourseID string    `json:"course_id"`
	Links    []Link    `json:"links"`
}

func rolePath(role user.Role) string {
	if role == user.RoleProfessor {
		return "/prof"
	}
	return "/student"
}

func topLinks(role user.Role, current string) []Link {
	base := rolePath(role)
	links := make([]Link, 0, len(topPages))
	for _, p := range topPages {
		href := base + "/" + p.key
		if p.key == PageDashboard {
			href = base
		}
		links = append(links, Link{Key: p.key, Label: p.label, Href: href, Active: p.key == current})
	}
	return links
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// ProfessorNav is the navbar of the professor portal. Dropdown courses link to their course page.
func ProfessorNav(current string, courses []course.Course) Nav {
	nav := Nav{
		Role:         user.RoleProfessor,
		Home:         rolePath(user.RoleProfessor),
		Links:        topLinks(user.RoleProfessor, current),
		CoursesLabel: plural(len(courses), "course") + " you manage",
		Courses:      make([]CourseEntry, 0, len(courses)),
	}
	for _, c := range courses {
		count := c.StudentsCount
		nav.Courses = append(nav.Courses, CourseEntry{
			ID:            c.ID,
			Name:          c.Name,
			Code:          c.Code,
			StudentsCount: &count,
			Href:          "/prof/courses/" + c.ID,
		})
	}
	return nav
}

// StudentNav is the navbar of the student portal. Dropdown courses link to their content page.
func StudentNav(current string, courses []course.Course) Nav {
	nav := Nav{
		Role:         user.RoleStudent,
		Home:         rolePath(user.RoleStudent),
		Links:        topLinks(user.RoleStudent, current),
		CoursesLabel: plural(len(courses), "enrolled course"),
		Courses:      make([]CourseEntry, 0, len(courses)),
	}
	for _, c := range courses {
		nav.Courses = append(nav.Courses, CourseEntry{
			ID:   c.ID,
			Name: c.Name,
			Code: c.Code,
			Href: "/student/courses/" + c.ID + "/" + PageContent,
		})
	}
	return nav
}

// NewCourseNav returns the per-course tabs of a role: classlist, content, assignments & quizzes for professors;
// assignments, quizzes, grades & content for students.
func NewCourseNav(role user.Role, courseID, current string) (CourseNav, error) {
	var pages []page
	switch role {
	case user.RoleProfessor:
		pages = professorCoursePages
	case user.RoleStudent:
		pages = studentCoursePages
	default:
		return CourseNav{}, core.NewFieldValidationError("role", "unknown role")
	}

	base := rolePath(role) + "/courses/" + courseID + "/"
	nav := CourseNav{Role: role, CourseID: courseID, Links: make([]Link, 0, len(pages))}
	for _, p := range pages {
		nav.Links = append(nav.Links, Link{Key: p.key, Label: p.label, Href: base + p.key, Active: p.key == current})
	}
	return nav, nil
}
