package inmemdb

import (
	"context"

	"github.com/trezcool/dynamiclms/core/course"
)

type courseRepository struct {
	db *DB
}

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db}
}

// copyCourse detaches the roster from the stored row.
func copyCourse(crs course.Course) course.Course {
	students := make([]course.Student, len(crs.Students))
	copy(students, crs.Students)
	crs.Students = students
	return crs
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	if err := repo.db.wait(ctx); err != nil {
		return course.Course{}, err
	}

	tbl := repo.db.course
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	for _, c := range tbl.rows {
		if c.ID == crs.ID {
			return course.Course{}, ErrDuplicateID
		}
		if c.ClassroomCode == crs.ClassroomCode {
			return course.Course{}, course.ErrClassroomCodeTaken
		}
	}
	crs.StudentsCountDrift = false
	crs = copyCourse(crs)
	tbl.rows = append(tbl.rows, crs)
	return copyCourse(crs), nil
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	return repo.find(ctx, func(c course.Course) bool { return c.ID == id })
}

func (repo *courseRepository) GetCourseByClassroomCode(ctx context.Context, code string) (course.Course, error) {
	return repo.find(ctx, func(c course.Course) bool { return c.ClassroomCode == code })
}

func (repo *courseRepository) find(ctx context.Context, match func(course.Course) bool) (course.Course, error) {
	if err := repo.db.wait(ctx); err != nil {
		return course.Course{}, err
	}

	tbl := repo.db.course
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	for _, c := range tbl.rows {
		if match(c) {
			return copyCourse(c), nil
		}
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) QueryCoursesByProfessor(ctx context.Context, professorID string) ([]course.Course, error) {
	return repo.filter(ctx, func(c course.Course) bool { return c.ProfessorID == professorID })
}

func (repo *courseRepository) QueryCoursesByStudent(ctx context.Context, studentID string) ([]course.Course, error) {
	return repo.filter(ctx, func(c course.Course) bool { return c.HasStudent(studentID) })
}

func (repo *courseRepository) filter(ctx context.Context, match func(course.Course) bool) ([]course.Course, error) {
	if err := repo.db.wait(ctx); err != nil {
		return nil, err
	}

	tbl := repo.db.course
	tbl.mutex.RLock()
	defer tbl.mutex.RUnlock()

	courses := make([]course.Course, 0)
	for _, c := range tbl.rows {
		if match(c) {
			courses = append(courses, copyCourse(c))
		}
	}
	return courses, nil
}

func (repo *courseRepository) QueryStudents(ctx context.Context, courseID string) ([]course.Student, error) {
	crs, err := repo.GetCourseByID(ctx, courseID)
	if err == course.ErrNotFound {
		return []course.Student{}, nil
	}
	if err != nil {
		return nil, err
	}
	return crs.Students, nil
}

func (repo *courseRepository) EnrollStudent(ctx context.Context, courseID string, student course.Student) (course.Course, error) {
	if err := repo.db.wait(ctx); err != nil {
		return course.Course{}, err
	}

	tbl := repo.db.course
	tbl.mutex.Lock()
	defer tbl.mutex.Unlock()

	for i, c := range tbl.rows {
		if c.ID != courseID {
			continue
		}
		if c.HasStudent(student.ID) {
			return course.Course{}, course.ErrAlreadyEnrolled
		}
		c.Students = append(copyCourse(c).Students, student)
		c.StudentsCount++
		tbl.rows[i] = c
		return copyCourse(c), nil
	}
	return course.Course{}, course.ErrNotFound
}
