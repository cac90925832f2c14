package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/dynamiclms/core/course"
)

type courseRow struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Code          string    `db:"code"`
	ClassroomCode string    `db:"classroom_code"`
	ProfessorID   string    `db:"professor_id"`
	ProfessorName string    `db:"professor_name"`
	CreatedAt     time.Time `db:"created_at"`
	StudentsCount int       `db:"students_count"`
}

func (r courseRow) course(students []course.Student) course.Course {
	if students == nil {
		students = []course.Student{}
	}
	return course.Course{
		ID:            r.ID,
		Name:          r.Name,
		Code:          r.Code,
		ClassroomCode: r.ClassroomCode,
		ProfessorID:   r.ProfessorID,
		ProfessorName: r.ProfessorName,
		CreatedAt:     r.CreatedAt.UTC(),
		StudentsCount: r.StudentsCount,
		Students:      students,
	}
}

type rosterRow struct {
	CourseID   string      `db:"course_id"`
	ID         string      `db:"id"`
	Name       string      `db:"name"`
	Email      string      `db:"email"`
	StudentID  null.String `db:"student_id"`
	EnrolledAt time.Time   `db:"enrolled_at"`
}

func (r rosterRow) student() course.Student {
	return course.Student{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		StudentID:  r.StudentID.String,
		EnrolledAt: r.EnrolledAt.UTC(),
	}
}

const (
	courseColumns = "id, name, code, classroom_code, professor_id, professor_name, created_at, students_count"

	rosterQuery = `SELECT e.course_id, u.id, u.name, u.email, u.student_id, e.enrolled_at
		FROM enrollments e JOIN users u ON u.id = e.user_id
		WHERE e.course_id = ANY($1) ORDER BY e.seq`
)

type courseRepository struct {
	db *sqlx.DB
}

func NewCourseRepository(db *sqlx.DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	row := courseRow{
		ID:            crs.ID,
		Name:          crs.Name,
		Code:          crs.Code,
		ClassroomCode: crs.ClassroomCode,
		ProfessorID:   crs.ProfessorID,
		ProfessorName: crs.ProfessorName,
		CreatedAt:     crs.CreatedAt,
		StudentsCount: crs.StudentsCount,
	}
	err := withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		q := `INSERT INTO courses (` + courseColumns + `)
			VALUES (:id, :name, :code, :classroom_code, :professor_id, :professor_name, :created_at, :students_count)`
		if _, err := tx.NamedExecContext(ctx, q, row); err != nil {
			if isUniqueViolation(err, "courses_classroom_code_key") {
				return course.ErrClassroomCodeTaken
			}
			return errors.Wrap(err, "inserting course")
		}
		for _, s := range crs.Students {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO enrollments (course_id, user_id, enrolled_at) VALUES ($1, $2, $3)`,
				crs.ID, s.ID, s.EnrolledAt)
			if err != nil {
				return errors.Wrap(err, "inserting enrollment")
			}
		}
		return nil
	})
	if err != nil {
		return course.Course{}, err
	}
	return repo.GetCourseByID(ctx, crs.ID)
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	return repo.get(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id)
}

func (repo *courseRepository) GetCourseByClassroomCode(ctx context.Context, code string) (course.Course, error) {
	return repo.get(ctx, `SELECT `+courseColumns+` FROM courses WHERE classroom_code = $1`, code)
}

func (repo *courseRepository) get(ctx context.Context, q string, args ...interface{}) (course.Course, error) {
	var row courseRow
	if err := repo.db.GetContext(ctx, &row, q, args...); err != nil {
		return course.Course{}, notFound(err, course.ErrNotFound)
	}
	rosters, err := repo.rosters(ctx, row.ID)
	if err != nil {
		return course.Course{}, err
	}
	return row.course(rosters[row.ID]), nil
}

func (repo *courseRepository) QueryCoursesByProfessor(ctx context.Context, professorID string) ([]course.Course, error) {
	return repo.query(ctx, `SELECT `+courseColumns+` FROM courses WHERE professor_id = $1 ORDER BY seq`, professorID)
}

func (repo *courseRepository) QueryCoursesByStudent(ctx context.Context, studentID string) ([]course.Course, error) {
	return repo.query(ctx, `SELECT `+courseColumns+` FROM courses
		WHERE id IN (SELECT course_id FROM enrollments WHERE user_id = $1) ORDER BY seq`, studentID)
}

func (repo *courseRepository) query(ctx context.Context, q string, args ...interface{}) ([]course.Course, error) {
	var rows []courseRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	rosters, err := repo.rosters(ctx, ids...)
	if err != nil {
		return nil, err
	}

	courses := make([]course.Course, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, r.course(rosters[r.ID]))
	}
	return courses, nil
}

// rosters loads the students of the given courses in enrollment order, keyed by course id.
func (repo *courseRepository) rosters(ctx context.Context, courseIDs ...string) (map[string][]course.Student, error) {
	rosters := make(map[string][]course.Student, len(courseIDs))
	if len(courseIDs) == 0 {
		return rosters, nil
	}
	var rows []rosterRow
	if err := repo.db.SelectContext(ctx, &rows, rosterQuery, pq.Array(courseIDs)); err != nil {
		return nil, errors.Wrap(err, "querying rosters")
	}
	for _, r := range rows {
		rosters[r.CourseID] = append(rosters[r.CourseID], r.student())
	}
	return rosters, nil
}

func (repo *courseRepository) QueryStudents(ctx context.Context, courseID string) ([]course.Student, error) {
	rosters, err := repo.rosters(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if students, ok := rosters[courseID]; ok {
		return students, nil
	}
	return []course.Student{}, nil
}

func (repo *courseRepository) EnrollStudent(ctx context.Context, courseID string, student course.Student) (course.Course, error) {
	enrolledAt := student.EnrolledAt
	if enrolledAt.IsZero() {
		enrolledAt = time.Now().UTC()
	}

	err := withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		var id string
		if err := tx.GetContext(ctx, &id, `SELECT id FROM courses WHERE id = $1 FOR UPDATE`, courseID); err != nil {
			return notFound(err, course.ErrNotFound)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO enrollments (course_id, user_id, enrolled_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			courseID, student.ID, enrolledAt)
		if err != nil {
			return errors.Wrap(err, "inserting enrollment")
		}
		if n, err := res.RowsAffected(); err != nil {
			return errors.Wrap(err, "inserting enrollment")
		} else if n == 0 {
			return course.ErrAlreadyEnrolled
		}

		_, err = tx.ExecContext(ctx, `UPDATE courses SET students_count = students_count + 1 WHERE id = $1`, courseID)
		return errors.Wrap(err, "updating students count")
	})
	if err != nil {
		return course.Course{}, err
	}
	return repo.GetCourseByID(ctx, courseID)
}
