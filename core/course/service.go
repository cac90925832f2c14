package course

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/core/user"
)

var (
	// errors
	ErrNotFound        = errors.New("course not found")
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
	ErrCodeExhausted   = errors.New("could not generate a unique classroom code")
	// ErrClassroomCodeTaken is returned by a Repository storing a classroom code already in use.
	ErrClassroomCodeTaken = errors.New("classroom code already in use")

	randIntn = rand.Intn // mockable
)

const (
	codePrefix          = "CS"
	classroomCodeLen    = 3
	maxClassroomAttempt = 10
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		GetCourseByClassroomCode(ctx context.Context, code string) (Course, error)
		// QueryCoursesByProfessor returns the courses of a professor in insertion order.
		QueryCoursesByProfessor(ctx context.Context, professorID string) ([]Course, error)
		// QueryCoursesByStudent returns the courses whose roster contains the student, in insertion order.
		QueryCoursesByStudent(ctx context.Context, studentID string) ([]Course, error)
		// QueryStudents returns the roster of a course, empty for an unknown course.
		QueryStudents(ctx context.Context, courseID string) ([]Student, error)
		// EnrollStudent appends the student to the roster and increments StudentsCount.
		EnrollStudent(ctx context.Context, courseID string, student Student) (Course, error)
	}

	Service struct {
		repo   Repository
		cache  core.Cache
		logger core.Logger
		group  singleflight.Group
		ttl    time.Duration
		portal core.PortalConfig
	}
)

func NewService(repo Repository, cache core.Cache, logger core.Logger, conf *core.Config) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
		ttl:    conf.Cache.TTL,
		portal: conf.Portal,
	}
}

func ProfessorCoursesKey(professorID string) string { return "prof:" + professorID }

func StudentCoursesKey(studentID string) string { return "student:" + studentID }

// CurrentProfessorID is the professor identity used when a request carries no session.
func (svc *Service) CurrentProfessorID() string { return svc.portal.ProfessorID }

// CurrentStudentID is the student identity used when a request carries no session.
func (svc *Service) CurrentStudentID() string { return svc.portal.StudentID }

func (svc *Service) GetProfessorCourses(ctx context.Context, professorID string) ([]Course, error) {
	return svc.fetchCourses(ctx, ProfessorCoursesKey(professorID), func(ctx context.Context) ([]Course, error) {
		return svc.repo.QueryCoursesByProfessor(ctx, professorID)
	})
}

func (svc *Service) GetStudentCourses(ctx context.Context, studentID string) ([]Course, error) {
	return svc.fetchCourses(ctx, StudentCoursesKey(studentID), func(ctx context.Context) ([]Course, error) {
		return svc.repo.QueryCoursesByStudent(ctx, studentID)
	})
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}
	svc.flagDrift(&crs)
	return crs, nil
}

func (svc *Service) GetStudents(ctx context.Context, courseID string) ([]Student, error) {
	return svc.repo.QueryStudents(ctx, courseID)
}

func (svc *Service) Create(ctx context.Context, nc NewCourse, prof user.User) (Course, error) {
	prefix := classroomPrefix(nc.Name)

	for i := 0; i < maxClassroomAttempt; i++ {
		code := prefix + strconv.Itoa(randIntn(1000))
		_, err := svc.repo.GetCourseByClassroomCode(ctx, code)
		switch {
		case err == nil:
			continue
		case errors.Cause(err) != ErrNotFound:
			return Course{}, errors.Wrap(err, "checking classroom code")
		}

		crs, err := svc.repo.CreateCourse(ctx, Course{
			ID:            uuid.NewString(),
			Name:          nc.Name,
			Code:          codePrefix + strconv.Itoa(100+randIntn(900)),
			ClassroomCode: code,
			ProfessorID:   prof.ID,
			ProfessorName: prof.Name,
			CreatedAt:     time.Now().UTC(),
			Students:      []Student{},
		})
		if errors.Cause(err) == ErrClassroomCodeTaken {
			// taken by a concurrent create since the check
			continue
		}
		if err != nil {
			return Course{}, errors.Wrap(err, "creating course")
		}

		svc.invalidate(ctx, ProfessorCoursesKey(prof.ID))
		return crs, nil
	}
	return Course{}, ErrCodeExhausted
}

// Join enrolls the student in the course identified by a classroom code.
func (svc *Service) Join(ctx context.Context, jc JoinCourse, stud user.User) (Course, error) {
	crs, err := svc.repo.GetCourseByClassroomCode(ctx, jc.ClassroomCode)
	if err != nil {
		return Course{}, err
	}
	if crs.HasStudent(stud.ID) {
		return Course{}, alreadyEnrolledError()
	}

	crs, err = svc.repo.EnrollStudent(ctx, crs.ID, Student{
		ID:         stud.ID,
		Name:       stud.Name,
		Email:      stud.Email,
		StudentID:  stud.StudentID,
		EnrolledAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Cause(err) == ErrAlreadyEnrolled {
			return Course{}, alreadyEnrolledError()
		}
		return Course{}, errors.Wrap(err, "enrolling student")
	}

	svc.invalidate(ctx, StudentCoursesKey(stud.ID), ProfessorCoursesKey(crs.ProfessorID))
	svc.flagDrift(&crs)
	return crs, nil
}

func alreadyEnrolledError() error {
	return core.NewValidationError(ErrAlreadyEnrolled, core.FieldError{Field: "classroom_code", Error: ErrAlreadyEnrolled.Error()})
}

// classroomPrefix is the first letters of the course name, upper-cased.
func classroomPrefix(name string) string {
	prefix := []rune(name)
	if len(prefix) > classroomCodeLen {
		prefix = prefix[:classroomCodeLen]
	}
	return strings.ToUpper(string(prefix))
}

// fetchCourses serves course lists from the cache, sharing one store call between concurrent callers of a key.
func (svc *Service) fetchCourses(
	ctx context.Context,
	key string,
	query func(ctx context.Context) ([]Course, error),
) ([]Course, error) {
	var cached []Course
	if found, err := svc.cache.Get(ctx, key, &cached); err != nil {
		svc.logger.Warn("reading course cache", errors.Wrap(err, key))
	} else if found {
		return svc.flagDrifts(cached), nil
	}

	ch := svc.group.DoChan(key, func() (interface{}, error) {
		// the shared call must not fail because its first caller went away
		qctx := context.WithoutCancel(ctx)
		courses, err := query(qctx)
		if err != nil {
			return nil, err
		}
		if courses == nil {
			courses = []Course{}
		}
		if err := svc.cache.Set(qctx, key, courses, svc.ttl); err != nil {
			svc.logger.Warn("writing course cache", errors.Wrap(err, key))
		}
		return courses, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, errors.Wrap(res.Err, "querying courses")
		}
		return svc.flagDrifts(copyCourses(res.Val.([]Course))), nil
	}
}

// copyCourses detaches a shared result, rosters included, from the other callers.
func copyCourses(shared []Course) []Course {
	courses := make([]Course, len(shared))
	for i, c := range shared {
		c.Students = append([]Student{}, c.Students...)
		courses[i] = c
	}
	return courses
}

func (svc *Service) invalidate(ctx context.Context, keys ...string) {
	if err := svc.cache.Delete(ctx, keys...); err != nil {
		svc.logger.Warn("invalidating course cache", errors.Wrap(err, strings.Join(keys, ",")))
	}
}

func (svc *Service) flagDrifts(courses []Course) []Course {
	for i := range courses {
		svc.flagDrift(&courses[i])
	}
	return courses
}

// flagDrift marks a Course whose StudentsCount disagrees with its roster. The count is never rewritten.
func (svc *Service) flagDrift(crs *Course) {
	if !crs.hasDrift() {
		return
	}
	crs.StudentsCountDrift = true
	svc.logger.Debug("course students_count drift", map[string]interface{}{
		"course_id":      crs.ID,
		"students_count": crs.StudentsCount,
		"roster_size":    len(crs.Students),
	})
}
